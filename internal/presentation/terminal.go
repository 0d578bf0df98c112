// Package presentation draws game snapshots and turns key presses into
// commands. It only ever reads snapshots.
package presentation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flappyballoon/balloon/internal/game"
	"github.com/flappyballoon/balloon/pkg/core"
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

// StartMessage is shown while no run is in progress.
const StartMessage = "Press Enter to Start"

const (
	balloonRune  = '●'
	obstacleRune = '█'
	levelRune    = '▮'
)

// Screen is the drawing surface. The termbox package functions satisfy it
// through termboxScreen.
type Screen interface {
	Size() (int, int)
	SetCell(x, y int, ch rune, fg, bg termbox.Attribute)
	Clear(fg, bg termbox.Attribute) error
	Flush() error
}

type termboxScreen struct{}

func (termboxScreen) Size() (int, int) { return termbox.Size() }
func (termboxScreen) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	termbox.SetCell(x, y, ch, fg, bg)
}
func (termboxScreen) Clear(fg, bg termbox.Attribute) error { return termbox.Clear(fg, bg) }
func (termboxScreen) Flush() error                         { return termbox.Flush() }

// Terminal renders snapshots onto the terminal grid.
type Terminal struct {
	screen    Screen
	poll      func() termbox.Event
	interrupt func()
	close     func()
	log       *slog.Logger

	// done is closed when the Commands reader has stopped polling.
	done chan struct{}
}

// NewTerminal takes over the terminal. Call Close to give it back.
func NewTerminal(log *slog.Logger) (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()
	return newTerminal(termboxScreen{}, termbox.PollEvent, termbox.Interrupt, termbox.Close, log), nil
}

func newTerminal(s Screen, poll func() termbox.Event, interrupt, closeFn func(), log *slog.Logger) *Terminal {
	if log == nil {
		log = slog.Default()
	}
	return &Terminal{screen: s, poll: poll, interrupt: interrupt, close: closeFn, log: log}
}

// closeWait bounds how long Close waits for the command reader.
const closeWait = 2 * time.Second

// Close restores the terminal. Cancel the Commands context first: Close waits
// for the reader to stop before releasing the terminal.
func (t *Terminal) Close() {
	if t.done != nil {
		select {
		case <-t.done:
		case <-time.After(closeWait):
			t.log.Warn("Terminal input reader still running at close")
		}
	}
	if t.close != nil {
		t.close()
	}
}

// Render draws one snapshot. Row 0 is the HUD; the rest is the playfield.
func (t *Terminal) Render(snap core.Snapshot) {
	if err := t.screen.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		t.log.Debug("Clear failed", "error", err)
		return
	}
	w, h := t.screen.Size()
	if w <= 0 || h <= 1 {
		return
	}
	grid := projection{cols: w, rows: h - 1, width: snap.FieldWidth, height: snap.FieldHeight}

	for _, r := range snap.Obstacles {
		t.fill(grid, r, obstacleRune, termbox.ColorGreen)
	}
	if snap.PlayerVisible {
		t.fill(grid, snap.Player, balloonRune, termbox.ColorRed|termbox.AttrBold)
	}

	t.text(0, 0, hud(snap), termbox.ColorWhite|termbox.AttrBold)
	if snap.MicAvailable {
		t.levelBar(w, snap.Level)
	}

	if snap.State == core.StateIdle {
		x := (w - runewidth.StringWidth(StartMessage)) / 2
		t.text(max(x, 0), h/2, StartMessage, termbox.ColorYellow|termbox.AttrBold)
	}

	if err := t.screen.Flush(); err != nil {
		t.log.Debug("Flush failed", "error", err)
	}
}

func hud(snap core.Snapshot) string {
	mic := "off"
	if snap.MicAvailable {
		mic = "on"
	}
	return fmt.Sprintf("Score: %d  Best: %d  Player: %s  Mic: %s ", snap.Score, snap.BestScore, snap.PlayerName, mic)
}

// levelBar draws the current microphone level right-aligned in the HUD row.
func (t *Terminal) levelBar(w int, level core.AudioSample) {
	const width = 16
	filled := int(float64(level) / 255 * width)
	bar := strings.Repeat(string(levelRune), filled) + strings.Repeat(" ", width-filled)
	x := w - width - 2
	if x < 0 {
		return
	}
	t.text(x, 0, "["+bar+"]", termbox.ColorCyan)
}

// text writes s starting at column x, advancing by each rune's display width.
func (t *Terminal) text(x, y int, s string, fg termbox.Attribute) {
	for _, r := range s {
		t.screen.SetCell(x, y, r, fg, termbox.ColorDefault)
		x += runewidth.RuneWidth(r)
	}
}

func (t *Terminal) fill(p projection, r core.Rect, ch rune, fg termbox.Attribute) {
	x0, y0, x1, y1, ok := p.cells(r)
	if !ok {
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			t.screen.SetCell(x, y+1, ch, fg, termbox.ColorDefault)
		}
	}
}

// projection maps playfield units onto terminal cells.
type projection struct {
	cols, rows    int
	width, height float64
}

// cells returns the inclusive cell range covered by r, clipped to the grid.
func (p projection) cells(r core.Rect) (x0, y0, x1, y1 int, ok bool) {
	if p.width <= 0 || p.height <= 0 {
		return 0, 0, 0, 0, false
	}
	sx := float64(p.cols) / p.width
	sy := float64(p.rows) / p.height

	x0 = max(int(r.Left*sx), 0)
	x1 = min(int((r.Right()-0.001)*sx), p.cols-1)
	y0 = max(int(r.Top*sy), 0)
	y1 = min(int((r.Bottom()-0.001)*sy), p.rows-1)
	if x0 > x1 || y0 > y1 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}

// Commands turns key presses into game commands. The channel is closed after
// a quit key, an input error or ctx being done. The reader itself keeps
// polling until ctx is done and its interrupt has been consumed, so the
// interrupt never blocks on a terminal nobody reads.
func (t *Terminal) Commands(ctx context.Context) <-chan game.Command {
	out := make(chan game.Command, 4)
	t.done = make(chan struct{})

	if t.interrupt != nil {
		go func() {
			<-ctx.Done()
			t.interrupt()
		}()
	}

	go func() {
		defer close(t.done)
		open := true
		stop := func() {
			if open {
				close(out)
				open = false
			}
		}
		defer stop()

		for {
			ev := t.poll()
			if ctx.Err() != nil {
				if t.interrupt == nil || ev.Type == termbox.EventInterrupt {
					return
				}
				continue
			}
			if !open {
				continue
			}
			if ev.Type == termbox.EventError {
				t.log.Error("Terminal input failed", "error", ev.Err)
				stop()
				continue
			}
			cmd, ok := commandFor(ev)
			if !ok {
				continue
			}
			select {
			case out <- cmd:
			case <-ctx.Done():
				continue
			}
			if cmd == game.CommandQuit {
				stop()
			}
		}
	}()

	return out
}

func commandFor(ev termbox.Event) (game.Command, bool) {
	if ev.Type != termbox.EventKey {
		return 0, false
	}
	switch ev.Key {
	case termbox.KeyEnter:
		return game.CommandStart, true
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return game.CommandQuit, true
	}
	if ev.Ch == 'q' || ev.Ch == 'Q' {
		return game.CommandQuit, true
	}
	return 0, false
}
