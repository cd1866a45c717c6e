package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/user/video-clip-cli/ffmpeg"
)

// Environment variables read by Load.
const (
	EnvOutputDir  = "VIDEO_CLIP_OUTPUT_DIR"
	EnvAudioCodec = "VIDEO_CLIP_AUDIO_CODEC"
	EnvFfmpeg     = "VIDEO_CLIP_FFMPEG"
	EnvDB         = "VIDEO_CLIP_DB"
)

// Defaults used when neither the environment nor a .env file sets a value.
const (
	DefaultOutputDir  = "downloads"
	DefaultAudioCodec = "auto"
	DefaultFfmpeg     = "ffmpeg"
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// Config holds the defaults the CLI falls back on when flags are not given.
type Config struct {
	OutputDir  string
	AudioCodec ffmpeg.AudioCodec
	Ffmpeg     string
	DBPath     string
}

// Load builds a Config from the process environment, then the given .env
// files (first file wins), then built-in defaults. Missing files are
// ignored. With no files, DefaultEnvFile is tried.
func Load(envFiles ...string) (Config, error) {
	var cfg Config

	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}

	fileVals := make(map[string]string)
	for _, f := range envFiles {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return cfg, fmt.Errorf("failed to read %s: %w", f, err)
		}
		for k, v := range vals {
			if _, ok := fileVals[k]; !ok {
				fileVals[k] = v
			}
		}
	}

	lookup := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v := fileVals[key]; v != "" {
			return v
		}
		return def
	}

	cfg.OutputDir = lookup(EnvOutputDir, DefaultOutputDir)
	cfg.Ffmpeg = lookup(EnvFfmpeg, DefaultFfmpeg)

	codec, err := ffmpeg.ParseAudioCodec(lookup(EnvAudioCodec, DefaultAudioCodec))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", EnvAudioCodec, err)
	}
	cfg.AudioCodec = codec

	cfg.DBPath = lookup(EnvDB, "")
	if cfg.DBPath == "" {
		p, err := defaultDBPath()
		if err != nil {
			return cfg, err
		}
		cfg.DBPath = p
	}

	return cfg, nil
}

// defaultDBPath returns $XDG_DATA_HOME/video-clip-cli/history.db, or
// ~/.local/share/video-clip-cli/history.db when XDG_DATA_HOME is unset.
func defaultDBPath() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "video-clip-cli", "history.db"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "video-clip-cli", "history.db"), nil
}
