package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flappyballoon/balloon/internal/config"
	"github.com/flappyballoon/balloon/internal/logging"
	intOtel "github.com/flappyballoon/balloon/internal/otel"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion = "0.1.0"
	BuildDate      = "unknown"

	ProgramName = "balloon"
)

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// ZLogger backs the dispatcher, database and influx managers
	ZLogger zerolog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	SessionStartTime = time.Now()
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "balloon:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet(ProgramName, pflag.ContinueOnError)
	config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [play|leaderboard|history [n]]\n\n", ProgramName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	configDir, _ := fs.GetString("config-dir")
	configErr := config.Load(configDir)
	if err := config.BindFlags(fs); err != nil {
		return err
	}

	command := "play"
	if fs.NArg() > 0 {
		command = fs.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup, err := setupLogging(command == "play" && !config.GetBool("headless"))
	if err != nil {
		return err
	}
	defer cleanup()

	if configErr != nil {
		Logger.Warn("Config file not loaded, using defaults", "dir", configDir, "error", configErr)
	}
	Logger.Info("Starting", "version", CurrentVersion, "build", BuildDate, "command", command)

	switch command {
	case "play":
		return play(ctx)
	case "leaderboard":
		return printLeaderboard(ctx, os.Stdout)
	case "history":
		return printHistory(os.Stdout, fs.Args()[1:])
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// setupLogging wires slog, zerolog, OTel and Graylog. When toFile is set the
// terminal belongs to the game UI, so logs go to a per-session file.
func setupLogging(toFile bool) (func(), error) {
	var (
		out     io.Writer
		logFile *os.File
		err     error
	)
	if toFile {
		logFile, err = logging.OpenLogFile(viper.GetString("logsDir"), ProgramName, SessionStartTime)
		if err != nil {
			return nil, err
		}
		out = logFile
	}

	level := viper.GetString("logLevel")
	if out != nil {
		ZLogger = logging.NewZerolog(out, level)
	} else {
		ZLogger = logging.NewZerolog(os.Stderr, level)
	}

	otelCfg := config.GetOTelConfig()
	var otelFile *os.File
	if otelCfg.Enabled {
		otelFile, err = logging.OpenLogFile(viper.GetString("logsDir"), ProgramName+".otel", SessionStartTime)
		if err != nil {
			return nil, err
		}
	}
	otelCfgOut := io.Writer(nil)
	if otelFile != nil {
		otelCfgOut = otelFile
	}
	OTelProvider, err = intOtel.New(intOtel.FromConfig(otelCfg, otelCfgOut))
	if err != nil {
		if otelFile != nil {
			_ = otelFile.Close()
		}
		return nil, fmt.Errorf("setting up otel: %w", err)
	}

	var opts []logging.SetupOption
	opts = append(opts, logging.WithContext(logging.SessionProvider(sessionContext)))

	graylogCfg := config.GetGraylogConfig()
	if graylogCfg.Enabled {
		w, err := logging.NewGELFWriter(graylogCfg.Address)
		if err != nil {
			fmt.Fprintln(os.Stderr, "balloon: graylog disabled:", err)
		} else {
			opts = append(opts, logging.WithGELF(w))
		}
	}

	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(out, level, OTelProvider.LoggerProvider(), opts...)
	Logger = SlogManager.Logger()
	slog.SetDefault(Logger)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := SlogManager.Flush(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "balloon: flushing logs:", err)
		}
		if err := OTelProvider.Shutdown(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "balloon: otel shutdown:", err)
		}
		if otelFile != nil {
			_ = otelFile.Close()
		}
		if logFile != nil {
			_ = logFile.Close()
		}
	}, nil
}
