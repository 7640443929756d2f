package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "ffprobe", cfg.FFprobeBin)
	assert.Equal(t, 64*1024, cfg.ChunkSize)
	assert.Empty(t, cfg.ExtraArgs)
	assert.False(t, cfg.IncludeSHA1Sum)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "ffprobe", cfg.FFprobeBin)
	assert.Equal(t, 65536, cfg.ChunkSize)
	assert.False(t, cfg.JSON)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STORYBOARD_FFPROBE_BIN", "/opt/ffmpeg/bin/ffprobe")
	t.Setenv("STORYBOARD_FFPROBE_ARGS", `-probesize 50M -analyzeduration "100 M"`)
	t.Setenv("STORYBOARD_HASH_CHUNK_SIZE", "1MiB")
	t.Setenv("STORYBOARD_INCLUDE_SHA1SUM", "true")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "/opt/ffmpeg/bin/ffprobe", cfg.FFprobeBin)
	assert.Equal(t, []string{"-probesize", "50M", "-analyzeduration", "100 M"}, cfg.ExtraArgs)
	assert.Equal(t, 1<<20, cfg.ChunkSize)
	assert.True(t, cfg.IncludeSHA1Sum)
}

func TestLoad_ConfigFileAndFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storyboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ffprobe_bin: /from/file\nhash_chunk_size: 128KiB\nverbose: true\n"), 0644))
	t.Setenv("STORYBOARD_HASH_CHUNK_SIZE", "256KiB")

	v := NewViper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("ffprobe-binary", "ffprobe", "")
	require.NoError(t, v.BindPFlag(KeyFFprobeBin, flags.Lookup("ffprobe-binary")))
	require.NoError(t, flags.Parse([]string{"--ffprobe-binary", "/from/flag"}))

	cfg, err := Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.FFprobeBin)
	assert.Equal(t, 256*1024, cfg.ChunkSize)
	assert.True(t, cfg.Verbose)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(*Config)
		wantSentinel error
	}{
		{"default config is valid", func(*Config) {}, nil},
		{"empty binary", func(c *Config) { c.FFprobeBin = "" }, ErrInvalidConfig},
		{"unterminated quote", func(c *Config) { c.FFprobeArgs = `-v "quiet` }, ErrInvalidFFprobeArgs},
		{"zero chunk", func(c *Config) { c.HashChunkSize = "0B" }, ErrInvalidChunkSize},
		{"garbage chunk", func(c *Config) { c.HashChunkSize = "lots" }, ErrInvalidChunkSize},
		{"huge chunk", func(c *Config) { c.HashChunkSize = "8GiB" }, ErrInvalidChunkSize},
		{"decimal chunk", func(c *Config) { c.HashChunkSize = "1 MB" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantSentinel == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantSentinel)
		})
	}
}
