package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/flappyballoon/balloon/internal/api"
	"github.com/flappyballoon/balloon/internal/config"
	"github.com/flappyballoon/balloon/internal/storage"
	"github.com/flappyballoon/balloon/pkg/core"
)

const (
	leaderboardSize = 10
	defaultHistory  = 20
)

// printLeaderboard prints the backend's top players with their names.
func printLeaderboard(ctx context.Context, w io.Writer) error {
	client := api.New(config.GetAPIConfig().ServerURL)

	reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	board, err := client.Leaderboard(reqCtx)
	if err != nil {
		return err
	}
	if len(board) > leaderboardSize {
		board = board[:leaderboardSize]
	}

	names := make(map[int]string, len(board))
	for _, s := range board {
		p, err := client.Player(reqCtx, s.PlayerID)
		if err != nil {
			Logger.Debug("Player lookup failed", "player_id", s.PlayerID, "error", err)
			continue
		}
		names[s.PlayerID] = p.Username
	}
	return writeLeaderboard(w, board, names)
}

func writeLeaderboard(w io.Writer, board []core.PlayerStats, names map[int]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tBEST\tGAMES\tAVG")
	for i, s := range board {
		name, ok := names[s.PlayerID]
		if !ok {
			name = "player " + strconv.Itoa(s.PlayerID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.1f\n", i+1, name, s.BestScore, s.TotalGames, s.AvgScore)
	}
	return tw.Flush()
}

// printHistory prints the newest runs of the local journal.
func printHistory(w io.Writer, args []string) error {
	n := defaultHistory
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("history: count must be a positive number, got %q", args[0])
		}
		n = v
	}

	backend, err := storage.NewBackend(config.GetStorageConfig(), ZLogger)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return err
	}
	defer backend.Close()

	runs, err := backend.RecentRuns(n)
	if err != nil {
		return err
	}
	best, err := backend.BestScore()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return writeHistory(w, runs, best)
}

func writeHistory(w io.Writer, runs []core.RunResult, best int) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tSCORE\tDURATION\tAVG MIC\tMAX MIC")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%ds\t%.1f\t%.0f\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04:05"), r.Score, r.DurationSeconds, r.AvgMicLevel, r.MaxMicLevel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Best: %d\n", best)
	return err
}
