package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string        `yaml:"port"`
	RecordingsDir  string        `yaml:"recordings_dir"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	FFmpegCommand  string        `yaml:"ffmpeg_command"`
	ConvertTimeout time.Duration `yaml:"convert_timeout"`
	STT            STTConfig     `yaml:"stt"`
}

type STTConfig struct {
	Provider   string        `yaml:"provider"` // google, whisper, fpt, mock
	Language   string        `yaml:"language"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`

	GoogleProjectID string `yaml:"google_project_id"`
	GoogleKey       string `yaml:"google_key"`

	OpenAIKey    string `yaml:"openai_key"`
	WhisperModel string `yaml:"whisper_model"`

	FPTApiKey string `yaml:"fpt_api_key"`
	FPTSTTURL string `yaml:"fpt_stt_url"`

	MockTranscript string `yaml:"mock_transcript"`
	MockError      string `yaml:"mock_error"`
}

func Default() Config {
	return Config{
		Port:           "5000",
		RecordingsDir:  "recordings",
		MaxUploadBytes: 25 << 20,
		FFmpegCommand:  "ffmpeg -hide_banner -loglevel error -y",
		ConvertTimeout: 60 * time.Second,
		STT: STTConfig{
			Provider:     "google",
			Language:     "en-US",
			Timeout:      30 * time.Second,
			MaxRetries:   2,
			WhisperModel: "whisper-1",
			FPTSTTURL:    "https://api.fpt.ai/hmi/asr/v1",
		},
	}
}

// Load loads configuration from an optional YAML file, then applies
// environment variable overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.RecordingsDir = getEnv("RECORDINGS_DIR", cfg.RecordingsDir)
	cfg.FFmpegCommand = getEnv("FFMPEG_COMMAND", cfg.FFmpegCommand)

	cfg.STT.Provider = strings.ToLower(getEnv("STT_PROVIDER", cfg.STT.Provider))
	cfg.STT.Language = getEnv("STT_LANGUAGE", cfg.STT.Language)
	cfg.STT.GoogleProjectID = getEnv("GOOGLE_STT_PROJECT_ID", cfg.STT.GoogleProjectID)
	cfg.STT.GoogleKey = getEnv("GOOGLE_STT_KEY_FILE", cfg.STT.GoogleKey)
	cfg.STT.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.STT.OpenAIKey)
	cfg.STT.WhisperModel = getEnv("WHISPER_MODEL", cfg.STT.WhisperModel)
	cfg.STT.FPTApiKey = getEnv("FPT_AI_API_KEY", cfg.STT.FPTApiKey)
	cfg.STT.FPTSTTURL = getEnv("FPT_AI_STT_URL", cfg.STT.FPTSTTURL)
	cfg.STT.MockTranscript = getEnv("STT_MOCK_TRANSCRIPT", cfg.STT.MockTranscript)
	cfg.STT.MockError = getEnv("STT_MOCK_ERROR", cfg.STT.MockError)

	var err error
	if cfg.MaxUploadBytes, err = getEnvInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes); err != nil {
		return err
	}
	if cfg.ConvertTimeout, err = getEnvDuration("CONVERT_TIMEOUT", cfg.ConvertTimeout); err != nil {
		return err
	}
	if cfg.STT.Timeout, err = getEnvDuration("STT_TIMEOUT", cfg.STT.Timeout); err != nil {
		return err
	}
	retries, err := getEnvInt64("STT_MAX_RETRIES", int64(cfg.STT.MaxRetries))
	if err != nil {
		return err
	}
	cfg.STT.MaxRetries = int(retries)
	return nil
}

// Validate checks values that would otherwise fail late at request time.
// Provider credentials are checked when the provider is created.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.RecordingsDir == "" {
		return errors.New("recordings_dir is required")
	}
	if strings.TrimSpace(c.FFmpegCommand) == "" {
		return errors.New("ffmpeg_command is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.ConvertTimeout <= 0 || c.STT.Timeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.STT.MaxRetries < 0 {
		return fmt.Errorf("stt max_retries must not be negative, got %d", c.STT.MaxRetries)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
