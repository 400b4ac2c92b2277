package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete credibly configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Media      MediaConfig      `yaml:"media" mapstructure:"media"`
	Transcribe TranscribeConfig `yaml:"transcribe" mapstructure:"transcribe"`
	OCR        OCRConfig        `yaml:"ocr" mapstructure:"ocr"`
	Verify     VerifyConfig     `yaml:"verify" mapstructure:"verify"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// ServerConfig holds the HTTP/WebSocket server settings
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	SummaryTTL   time.Duration `yaml:"summary_ttl" mapstructure:"summary_ttl"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// DatabaseConfig holds Postgres connection settings. An empty DSN selects the
// in-memory store (useful for development and tests).
type DatabaseConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// MediaConfig holds download/transcode settings
type MediaConfig struct {
	YtDlpPath  string        `yaml:"ytdlp_path" mapstructure:"ytdlp_path"`
	FFmpegPath string        `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	WorkDir    string        `yaml:"work_dir" mapstructure:"work_dir"` // empty: os.TempDir
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// TranscribeConfig holds speech-to-text settings
type TranscribeConfig struct {
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OCRConfig holds on-screen text extraction settings
type OCRConfig struct {
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	Language      string `yaml:"language" mapstructure:"language"`
}

// VerifyConfig holds fact-check judge settings
type VerifyConfig struct {
	Provider      string        `yaml:"provider" mapstructure:"provider"` // openai, "" disables verification
	Model         string        `yaml:"model" mapstructure:"model"`
	APIKey        string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL       string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens     int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Workers       int           `yaml:"workers" mapstructure:"workers"`
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int           `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// OutputConfig holds logging/verbosity settings
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			SummaryTTL:   5 * time.Minute,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Media: MediaConfig{
			YtDlpPath:  "yt-dlp",
			FFmpegPath: "ffmpeg",
			Timeout:    5 * time.Minute,
		},
		Transcribe: TranscribeConfig{
			Model: "whisper-1",
		},
		OCR: OCRConfig{
			TesseractPath: "tesseract",
			Language:      "eng",
		},
		Verify: VerifyConfig{
			Provider:      "openai",
			Model:         "gpt-4o-mini",
			Timeout:       30 * time.Second,
			MaxTokens:     256,
			Workers:       4,
			RatePerSecond: 2,
			RateBurst:     5,
		},
	}
}

// Load builds a Config from defaults overlaid with whatever viper has read
// from the config file and CREDIBLY_* environment variables.
func Load() (*Config, error) {
	bindEnv()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnv wires the CREDIBLY_* environment into viper. Viper only resolves
// env vars for keys it already knows about, so every key is registered with
// its default here; the replacer maps nested keys like database.dsn to
// CREDIBLY_DATABASE_DSN.
func bindEnv() {
	viper.SetEnvPrefix("CREDIBLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.summary_ttl", d.Server.SummaryTTL)
	viper.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	viper.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	viper.SetDefault("database.dsn", d.Database.DSN)
	viper.SetDefault("media.ytdlp_path", d.Media.YtDlpPath)
	viper.SetDefault("media.ffmpeg_path", d.Media.FFmpegPath)
	viper.SetDefault("media.work_dir", d.Media.WorkDir)
	viper.SetDefault("media.timeout", d.Media.Timeout)
	viper.SetDefault("transcribe.model", d.Transcribe.Model)
	viper.SetDefault("transcribe.api_key", d.Transcribe.APIKey)
	viper.SetDefault("transcribe.base_url", d.Transcribe.BaseURL)
	viper.SetDefault("ocr.tesseract_path", d.OCR.TesseractPath)
	viper.SetDefault("ocr.language", d.OCR.Language)
	viper.SetDefault("verify.provider", d.Verify.Provider)
	viper.SetDefault("verify.model", d.Verify.Model)
	viper.SetDefault("verify.api_key", d.Verify.APIKey)
	viper.SetDefault("verify.base_url", d.Verify.BaseURL)
	viper.SetDefault("verify.timeout", d.Verify.Timeout)
	viper.SetDefault("verify.max_tokens", d.Verify.MaxTokens)
	viper.SetDefault("verify.workers", d.Verify.Workers)
	viper.SetDefault("verify.rate_per_second", d.Verify.RatePerSecond)
	viper.SetDefault("verify.rate_burst", d.Verify.RateBurst)
	viper.SetDefault("output.verbose", d.Output.Verbose)
}
