package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the name of the config file looked up in the config directory.
const FileName = "balloon.cfg.json"

// PhysicsConfig holds the simulation constants
type PhysicsConfig struct {
	MoveSpeed     float64 `json:"moveSpeed" mapstructure:"moveSpeed"`
	Gravity       float64 `json:"gravity" mapstructure:"gravity"`
	Impulse       float64 `json:"impulse" mapstructure:"impulse"`
	Threshold     float64 `json:"threshold" mapstructure:"threshold"`
	SpawnInterval int     `json:"spawnInterval" mapstructure:"spawnInterval"`
	PipeGap       float64 `json:"pipeGap" mapstructure:"pipeGap"`
	GapMinPct     int     `json:"gapMinPct" mapstructure:"gapMinPct"`
	GapRangePct   int     `json:"gapRangePct" mapstructure:"gapRangePct"`
	FPS           int     `json:"fps" mapstructure:"fps"`
}

// PlayfieldConfig holds the playfield geometry
type PlayfieldConfig struct {
	Width         float64 `json:"width" mapstructure:"width"`
	Height        float64 `json:"height" mapstructure:"height"`
	BalloonX      float64 `json:"balloonX" mapstructure:"balloonX"`
	BalloonSize   float64 `json:"balloonSize" mapstructure:"balloonSize"`
	StartTopPct   float64 `json:"startTopPct" mapstructure:"startTopPct"`
	ObstacleWidth float64 `json:"obstacleWidth" mapstructure:"obstacleWidth"`
}

// AudioConfig holds microphone analysis and sound effect settings
type AudioConfig struct {
	Microphone   bool    `json:"microphone" mapstructure:"microphone"`
	SampleRate   int     `json:"sampleRate" mapstructure:"sampleRate"`
	FFTSize      int     `json:"fftSize" mapstructure:"fftSize"`
	Smoothing    float64 `json:"smoothing" mapstructure:"smoothing"`
	MinDecibels  float64 `json:"minDecibels" mapstructure:"minDecibels"`
	MaxDecibels  float64 `json:"maxDecibels" mapstructure:"maxDecibels"`
	SoundEffects bool    `json:"soundEffects" mapstructure:"soundEffects"`
	Volume       float64 `json:"volume" mapstructure:"volume"`
}

// APIConfig holds backend settings
type APIConfig struct {
	ServerURL string `json:"serverUrl" mapstructure:"serverUrl"`
	Username  string `json:"username" mapstructure:"username"`
	Password  string `json:"password" mapstructure:"password"`
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PostgresConfig holds PostgreSQL storage backend settings
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslMode" mapstructure:"sslMode"`
}

// StorageConfig selects and configures the local run journal
type StorageConfig struct {
	Type     string         `json:"type" mapstructure:"type"`
	Memory   MemoryConfig   `json:"memory" mapstructure:"memory"`
	SQLite   SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds run telemetry settings
type InfluxConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Host      string `json:"host" mapstructure:"host"`
	Port      string `json:"port" mapstructure:"port"`
	Protocol  string `json:"protocol" mapstructure:"protocol"`
	Token     string `json:"token" mapstructure:"token"`
	Org       string `json:"org" mapstructure:"org"`
	Bucket    string `json:"bucket" mapstructure:"bucket"`
	BackupDir string `json:"backupDir" mapstructure:"backupDir"`
}

// GraylogConfig holds GELF log shipping settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. When the file is
// missing the defaults stay in place and the error says so.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./balloonlogs")
	viper.SetDefault("headless", false)

	viper.SetDefault("physics.moveSpeed", 3.0)
	viper.SetDefault("physics.gravity", 0.5)
	viper.SetDefault("physics.impulse", -4.0)
	viper.SetDefault("physics.threshold", 75.0)
	viper.SetDefault("physics.spawnInterval", 115)
	viper.SetDefault("physics.pipeGap", 70.0)
	viper.SetDefault("physics.gapMinPct", 8)
	viper.SetDefault("physics.gapRangePct", 43)
	viper.SetDefault("physics.fps", 60)

	viper.SetDefault("playfield.width", 800.0)
	viper.SetDefault("playfield.height", 600.0)
	viper.SetDefault("playfield.balloonX", 120.0)
	viper.SetDefault("playfield.balloonSize", 28.0)
	viper.SetDefault("playfield.startTopPct", 40.0)
	viper.SetDefault("playfield.obstacleWidth", 52.0)

	viper.SetDefault("audio.microphone", true)
	viper.SetDefault("audio.sampleRate", 44100)
	viper.SetDefault("audio.fftSize", 256)
	viper.SetDefault("audio.smoothing", 0.8)
	viper.SetDefault("audio.minDecibels", -100.0)
	viper.SetDefault("audio.maxDecibels", -30.0)
	viper.SetDefault("audio.soundEffects", true)
	viper.SetDefault("audio.volume", 0.6)

	viper.SetDefault("api.serverUrl", "http://localhost:8000")
	viper.SetDefault("api.username", "")
	viper.SetDefault("api.password", "")

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.memory.outputDir", "./runs")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./balloon.db")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "balloon")
	viper.SetDefault("storage.postgres.sslMode", "disable")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "balloon-metrics")
	viper.SetDefault("influx.bucket", "balloon_runs")
	viper.SetDefault("influx.backupDir", "./balloonlogs")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "flappy-balloon")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetPhysicsConfig returns the simulation constants.
func GetPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		MoveSpeed:     viper.GetFloat64("physics.moveSpeed"),
		Gravity:       viper.GetFloat64("physics.gravity"),
		Impulse:       viper.GetFloat64("physics.impulse"),
		Threshold:     viper.GetFloat64("physics.threshold"),
		SpawnInterval: viper.GetInt("physics.spawnInterval"),
		PipeGap:       viper.GetFloat64("physics.pipeGap"),
		GapMinPct:     viper.GetInt("physics.gapMinPct"),
		GapRangePct:   viper.GetInt("physics.gapRangePct"),
		FPS:           viper.GetInt("physics.fps"),
	}
}

// GetPlayfieldConfig returns the playfield geometry.
func GetPlayfieldConfig() PlayfieldConfig {
	return PlayfieldConfig{
		Width:         viper.GetFloat64("playfield.width"),
		Height:        viper.GetFloat64("playfield.height"),
		BalloonX:      viper.GetFloat64("playfield.balloonX"),
		BalloonSize:   viper.GetFloat64("playfield.balloonSize"),
		StartTopPct:   viper.GetFloat64("playfield.startTopPct"),
		ObstacleWidth: viper.GetFloat64("playfield.obstacleWidth"),
	}
}

// GetAudioConfig returns microphone and sound settings.
func GetAudioConfig() AudioConfig {
	return AudioConfig{
		Microphone:   viper.GetBool("audio.microphone"),
		SampleRate:   viper.GetInt("audio.sampleRate"),
		FFTSize:      viper.GetInt("audio.fftSize"),
		Smoothing:    viper.GetFloat64("audio.smoothing"),
		MinDecibels:  viper.GetFloat64("audio.minDecibels"),
		MaxDecibels:  viper.GetFloat64("audio.maxDecibels"),
		SoundEffects: viper.GetBool("audio.soundEffects"),
		Volume:       viper.GetFloat64("audio.volume"),
	}
}

// GetAPIConfig returns backend settings.
func GetAPIConfig() APIConfig {
	return APIConfig{
		ServerURL: viper.GetString("api.serverUrl"),
		Username:  viper.GetString("api.username"),
		Password:  viper.GetString("api.password"),
	}
}

// GetStorageConfig returns the local journal settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("storage.postgres.host"),
			Port:     viper.GetString("storage.postgres.port"),
			Username: viper.GetString("storage.postgres.username"),
			Password: viper.GetString("storage.postgres.password"),
			Database: viper.GetString("storage.postgres.database"),
			SSLMode:  viper.GetString("storage.postgres.sslMode"),
		},
	}
}

// GetOTelConfig returns OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns run telemetry settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:   viper.GetBool("influx.enabled"),
		Host:      viper.GetString("influx.host"),
		Port:      viper.GetString("influx.port"),
		Protocol:  viper.GetString("influx.protocol"),
		Token:     viper.GetString("influx.token"),
		Org:       viper.GetString("influx.org"),
		Bucket:    viper.GetString("influx.bucket"),
		BackupDir: viper.GetString("influx.backupDir"),
	}
}

// GetGraylogConfig returns GELF settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}
