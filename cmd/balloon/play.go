package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/flappyballoon/balloon/internal/api"
	"github.com/flappyballoon/balloon/internal/audio"
	"github.com/flappyballoon/balloon/internal/config"
	"github.com/flappyballoon/balloon/internal/dispatcher"
	"github.com/flappyballoon/balloon/internal/game"
	"github.com/flappyballoon/balloon/internal/influx"
	"github.com/flappyballoon/balloon/internal/logging"
	"github.com/flappyballoon/balloon/internal/monitor"
	"github.com/flappyballoon/balloon/internal/presentation"
	"github.com/flappyballoon/balloon/internal/score"
	"github.com/flappyballoon/balloon/internal/session"
	"github.com/flappyballoon/balloon/internal/sound"
	"github.com/flappyballoon/balloon/internal/storage"
	"github.com/flappyballoon/balloon/internal/worker"
	"github.com/spf13/viper"
)

// sessionContext is shared by the game loop, the handlers and the loggers.
var sessionContext = session.NewContext()

// play wires every component and runs the game until the player quits.
func play(ctx context.Context) error {
	client := api.New(config.GetAPIConfig().ServerURL)

	eventDispatcher, err := dispatcher.New(logging.NewDispatcherLogger(ZLogger))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	cleanup := &teardown{dispatcher: eventDispatcher, log: Logger}
	defer cleanup.run()

	if login(ctx, client) {
		cleanup.logout = client.Logout
	}

	journal := initStorage()
	cleanup.journal = journal

	telemetry := initInflux(ctx)
	if telemetry != nil {
		cleanup.telemetry = telemetry
	}

	tracker := score.New(eventDispatcher, Logger.With("component", "score"))

	deps := worker.Dependencies{
		API:     client,
		Scores:  tracker,
		Session: sessionContext,
		Logger:  Logger.With("component", "worker"),
	}
	if journal != nil {
		deps.Journal = journal
	}
	if telemetry != nil {
		deps.Telemetry = telemetry
	}
	workerManager := worker.NewManager(deps)
	workerManager.RegisterHandlers(eventDispatcher)

	if _, err := eventDispatcher.Dispatch(dispatcher.Event{Command: worker.CommandWhoAmI}); err != nil {
		Logger.Warn("Player lookup not queued", "error", err)
	}

	monitorService := monitor.NewService(monitor.Dependencies{
		Logger:     Logger.With("component", "monitor"),
		Queue:      eventDispatcher,
		Offers:     tracker,
		Interval:   30 * time.Second,
		StatusPath: filepath.Join(viper.GetString("logsDir"), "status.json"),
	})
	if err := monitorService.Start(); err != nil {
		Logger.Warn("Status monitor not started", "error", err)
	}
	defer monitorService.Stop()

	observers := []game.Observer{monitorService}
	var commands <-chan game.Command
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if config.GetBool("headless") {
		observers = append(observers, presentation.NewLogObserver(Logger.With("component", "ui")))
		commands = autoStart(runCtx)
	} else {
		term, err := presentation.NewTerminal(Logger.With("component", "ui"))
		if err != nil {
			return err
		}
		defer func() {
			cancel()
			term.Close()
		}()
		observers = append(observers, term)
		commands = term.Commands(runCtx)
	}

	effects := initSound()
	if p, ok := effects.(*sound.Player); ok {
		defer p.Wait()
	}

	sess := game.NewSession(tuningFromConfig(), game.Dependencies{
		Audio:     initAudio(),
		Tracker:   tracker,
		Sound:     effects,
		Session:   sessionContext,
		Observers: observers,
		Logger:    Logger.With("component", "game"),
	})

	err = sess.Run(runCtx, commands)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// login signs in when credentials are configured and reports whether a
// session was opened. Failure leaves the player anonymous; runs are then
// rejected by the backend but still journaled.
func login(ctx context.Context, client *api.Client) bool {
	creds, err := config.GetCredentials()
	if err != nil {
		Logger.Warn("Reading credentials", "error", err)
		return false
	}
	if creds.Username == "" {
		Logger.Info("No credentials configured, playing anonymously")
		return false
	}

	loginCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Login(loginCtx, creds.Username, creds.Password); err != nil {
		Logger.Warn("Login failed", "username", creds.Username, "error", err)
		return false
	}
	Logger.Info("Logged in", "username", creds.Username, "server", client.BaseURL())
	return true
}

func initStorage() storage.Backend {
	storageCfg := config.GetStorageConfig()

	backend, err := storage.NewBackend(storageCfg, ZLogger)
	if err != nil {
		Logger.Error("Failed to create storage backend", "error", err)
		return nil
	}
	if err := backend.Init(); err != nil {
		Logger.Error("Failed to initialize storage backend", "error", err)
		return nil
	}
	Logger.Info("Run journal initialized", "type", storageCfg.Type)
	return backend
}

func initInflux(ctx context.Context) *influx.Manager {
	cfg := config.GetInfluxConfig()
	if !cfg.Enabled {
		return nil
	}
	backupPath := filepath.Join(cfg.BackupDir,
		fmt.Sprintf("influx_backup_%s.lp.gz", SessionStartTime.Format("20060102_150405")))
	m := influx.NewManager(ZLogger, cfg, backupPath)

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.Connect(connectCtx); err != nil {
		Logger.Warn("Run telemetry disabled", "error", err)
		return nil
	}
	return m
}

func initAudio() *audio.Source {
	cfg := config.GetAudioConfig()
	analyser := audio.AnalyserConfig{
		FFTSize:     cfg.FFTSize,
		Smoothing:   cfg.Smoothing,
		MinDecibels: cfg.MinDecibels,
		MaxDecibels: cfg.MaxDecibels,
	}
	log := Logger.With("component", "audio")
	if !cfg.Microphone {
		return audio.NewSource(nil, analyser, log)
	}
	return audio.NewSource(audio.NewMalgoCapturer(uint32(cfg.SampleRate), log), analyser, log)
}

func initSound() sound.Effects {
	cfg := config.GetAudioConfig()
	if !cfg.SoundEffects {
		return sound.Nop{}
	}
	p, err := sound.NewPlayer(cfg.Volume)
	if err != nil {
		Logger.Warn("Sound effects disabled", "error", err)
		return sound.Nop{}
	}
	return p
}

// autoStart keeps starting runs in headless mode until ctx is done. The
// channel is never closed; the game stops on ctx.
func autoStart(ctx context.Context) <-chan game.Command {
	ch := make(chan game.Command, 1)
	ch <- game.CommandStart
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case ch <- game.CommandStart:
				default:
				}
			}
		}
	}()
	return ch
}

func tuningFromConfig() game.Tuning {
	phys := config.GetPhysicsConfig()
	field := config.GetPlayfieldConfig()
	return game.Tuning{
		MoveSpeed:     phys.MoveSpeed,
		Gravity:       phys.Gravity,
		Impulse:       phys.Impulse,
		Threshold:     phys.Threshold,
		SpawnInterval: phys.SpawnInterval,
		PipeGap:       phys.PipeGap,
		GapMinPct:     phys.GapMinPct,
		GapRangePct:   phys.GapRangePct,
		FieldWidth:    field.Width,
		FieldHeight:   field.Height,
		BalloonX:      field.BalloonX,
		BalloonWidth:  field.BalloonSize,
		BalloonHeight: field.BalloonSize,
		StartTopPct:   field.StartTopPct,
		ObstacleWidth: field.ObstacleWidth,
		FPS:           phys.FPS,
	}
}
