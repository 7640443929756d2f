package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/google/shlex"
	"github.com/spf13/viper"

	"github.com/five82/storyboard/internal/ffprobe"
	"github.com/five82/storyboard/internal/logging"
)

// Configuration keys, shared by config files, environment variables
// (STORYBOARD_<KEY>) and CLI flag bindings.
const (
	KeyFFprobeBin     = "ffprobe_bin"
	KeyFFprobeArgs    = "ffprobe_args"
	KeyHashChunkSize  = "hash_chunk_size"
	KeyIncludeSHA1Sum = "include_sha1sum"
	KeyQuiet          = "quiet"
	KeyVerbose        = "verbose"
	KeyJSON           = "json"
	KeyLogFile        = "log_file"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "STORYBOARD"

// DefaultHashChunkSize is the default read size for SHA-1 hashing.
const DefaultHashChunkSize = "64KiB"

// Config holds the settings of a storyboard run.
type Config struct {
	FFprobeBin     string `mapstructure:"ffprobe_bin" validate:"required"`
	FFprobeArgs    string `mapstructure:"ffprobe_args"`
	HashChunkSize  string `mapstructure:"hash_chunk_size" validate:"required"`
	IncludeSHA1Sum bool   `mapstructure:"include_sha1sum"`
	Quiet          bool   `mapstructure:"quiet"`
	Verbose        bool   `mapstructure:"verbose"`
	JSON           bool   `mapstructure:"json"`
	LogFile        string `mapstructure:"log_file"`

	// Derived by Validate.
	ExtraArgs []string `mapstructure:"-"`
	ChunkSize int      `mapstructure:"-"`
}

// NewConfig returns a Config with defaults applied and derived fields set.
func NewConfig() *Config {
	c := &Config{
		FFprobeBin:    ffprobe.DefaultBin,
		HashChunkSize: DefaultHashChunkSize,
	}
	_ = c.Validate()
	return c
}

// NewViper returns a viper instance with storyboard defaults and
// environment lookups configured.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyFFprobeBin, ffprobe.DefaultBin)
	v.SetDefault(KeyFFprobeArgs, "")
	v.SetDefault(KeyHashChunkSize, DefaultHashChunkSize)
	v.SetDefault(KeyIncludeSHA1Sum, false)
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyJSON, false)
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile (if set) into v, then unmarshals and validates the
// result. Flags bound to v with BindPFlag take precedence over environment
// variables, which take precedence over the file.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		logging.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Debug("loaded configuration",
		"ffprobe_bin", cfg.FFprobeBin,
		"ffprobe_args", cfg.ExtraArgs,
		"hash_chunk_size", cfg.ChunkSize)
	return cfg, nil
}

// Validate checks the configuration and fills in the derived fields.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s is %s", ErrInvalidConfig, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	args, err := shlex.Split(c.FFprobeArgs)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidFFprobeArgs, c.FFprobeArgs, err)
	}
	c.ExtraArgs = args

	size, err := humanize.ParseBytes(c.HashChunkSize)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidChunkSize, c.HashChunkSize, err)
	}
	if size == 0 || size > math.MaxInt32 {
		return fmt.Errorf("%w: %q out of range", ErrInvalidChunkSize, c.HashChunkSize)
	}
	c.ChunkSize = int(size)

	return nil
}
