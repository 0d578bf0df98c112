package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"physics": { "gravity": 0.25, "threshold": 90 },
		"api": { "serverUrl": "https://balloon.example.com" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 0.25, viper.GetFloat64("physics.gravity"))
	assert.Equal(t, 90.0, viper.GetFloat64("physics.threshold"))
	assert.Equal(t, "https://balloon.example.com", viper.GetString("api.serverUrl"))
	assert.Equal(t, 3.0, viper.GetFloat64("physics.moveSpeed"), "untouched keys keep defaults")
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./balloonlogs", viper.GetString("logsDir"))
	assert.Equal(t, false, viper.GetBool("headless"))
	assert.Equal(t, "http://localhost:8000", viper.GetString("api.serverUrl"))
	assert.Equal(t, "sqlite", viper.GetString("storage.type"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "balloon_runs", viper.GetString("influx.bucket"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, "flappy-balloon", viper.GetString("otel.serviceName"))
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
	assert.Equal(t, 60, GetPhysicsConfig().FPS)
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetPhysicsConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, PhysicsConfig{
		MoveSpeed:     3,
		Gravity:       0.5,
		Impulse:       -4,
		Threshold:     75,
		SpawnInterval: 115,
		PipeGap:       70,
		GapMinPct:     8,
		GapRangePct:   43,
		FPS:           60,
	}, GetPhysicsConfig())
}

func TestGetPlayfieldConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, PlayfieldConfig{
		Width:         800,
		Height:        600,
		BalloonX:      120,
		BalloonSize:   28,
		StartTopPct:   40,
		ObstacleWidth: 52,
	}, GetPlayfieldConfig())
}

func TestGetAudioConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"audio": {"microphone": false, "fftSize": 512, "volume": 0}}`)))

	ac := GetAudioConfig()
	assert.False(t, ac.Microphone)
	assert.Equal(t, 512, ac.FFTSize)
	assert.Equal(t, 0.0, ac.Volume)
	assert.Equal(t, 0.8, ac.Smoothing)
	assert.Equal(t, -100.0, ac.MinDecibels)
	assert.Equal(t, -30.0, ac.MaxDecibels)
	assert.True(t, ac.SoundEffects)
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, "./runs", cfg.Memory.OutputDir)
	assert.Equal(t, true, cfg.Memory.CompressOutput)
	assert.Equal(t, "./balloon.db", cfg.SQLite.Path)
	assert.Equal(t, "balloon", cfg.Postgres.Database)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"storage": {
			"type": "memory",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"postgres": { "host": "db", "port": "5433" }
		}
	}`)))

	sc := GetStorageConfig()
	assert.Equal(t, "memory", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, false, sc.Memory.CompressOutput)
	assert.Equal(t, "db", sc.Postgres.Host)
	assert.Equal(t, "5433", sc.Postgres.Port)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "flappy-balloon", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4318",
			"insecure": false
		}
	}`)))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4318", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestGetInfluxAndGraylogConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"influx": { "enabled": true, "token": "tok" },
		"graylog": { "enabled": true, "address": "gelf:12201" }
	}`)))

	ic := GetInfluxConfig()
	assert.True(t, ic.Enabled)
	assert.Equal(t, "tok", ic.Token)
	assert.Equal(t, "balloon-metrics", ic.Org)
	assert.Equal(t, "8086", ic.Port)

	gc := GetGraylogConfig()
	assert.True(t, gc.Enabled)
	assert.Equal(t, "gelf:12201", gc.Address)
}

func TestBindFlags_OverrideFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	fs := pflag.NewFlagSet("balloon", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--server", "http://10.0.0.2:8000", "--headless"}))
	require.NoError(t, BindFlags(fs))

	require.NoError(t, Load(writeConfig(t, `{"api": {"serverUrl": "http://file:8000"}, "logLevel": "warn"}`)))

	assert.Equal(t, "http://10.0.0.2:8000", GetAPIConfig().ServerURL)
	assert.True(t, GetBool("headless"))
	assert.Equal(t, "warn", GetString("logLevel"), "unset flags do not override the file")
}

func TestGetCredentials(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("api.username", "fromfile")
	viper.Set("api.password", "filepw")

	t.Setenv("BALLOON_USERNAME", "")
	t.Setenv("BALLOON_PASSWORD", "envpw")

	creds, err := GetCredentials()
	require.NoError(t, err)
	assert.Equal(t, "fromfile", creds.Username)
	assert.Equal(t, "envpw", creds.Password)
}
