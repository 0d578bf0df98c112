package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"log-level": "logLevel",
	"server":    "api.serverUrl",
	"storage":   "storage.type",
	"headless":  "headless",
	"username":  "api.username",
}

// RegisterFlags adds the config flags to fs. --config-dir is read before Load;
// the rest override config file values once bound with BindFlags.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config-dir", ".", "directory containing "+FileName)
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("server", "http://localhost:8000", "backend URL")
	fs.String("storage", "sqlite", "run journal backend (memory, sqlite, postgres)")
	fs.Bool("headless", false, "log frames instead of drawing the terminal UI")
	fs.String("username", "", "backend username (password from BALLOON_PASSWORD)")
}

// BindFlags makes flags set on the command line take precedence over the
// config file.
func BindFlags(fs *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	return nil
}
