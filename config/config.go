// Package config holds the front end's run options and builds the logger
// they describe.
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/iloc/lexer"
	"github.com/sarchlab/iloc/util"
)

// Block size bounds accepted by Validate.
const (
	MinBlockSize = 64
	MaxBlockSize = 1 << 20
)

// Config is the YAML-backed configuration of a front-end run.
type Config struct {
	BlockSize      int    `yaml:"block_size"`
	StrictLiterals bool   `yaml:"strict_literals"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	Lint           bool   `yaml:"lint"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		BlockSize: lexer.DefaultBlockSize,
		LogLevel:  "info",
		LogFormat: "text",
		Lint:      true,
	}
}

// Load reads and validates a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	c, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(err, path)
	}

	return c, nil
}

// Parse decodes YAML on top of Default and validates the result. Keys that
// are not part of Config are rejected.
func Parse(data []byte) (Config, error) {
	c := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode config")
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.BlockSize < MinBlockSize || c.BlockSize > MaxBlockSize {
		return errors.Errorf("block_size %d outside [%d, %d]",
			c.BlockSize, MinBlockSize, MaxBlockSize)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("unknown log_format %q", c.LogFormat)
	}

	return nil
}

// Level maps LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return util.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, errors.Errorf("unknown log_level %q", c.LogLevel)
}

// NewLogger builds a logger writing to w in the configured format and level.
// An invalid level falls back to INFO.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: renameTraceLevel,
	}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func renameTraceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	if level, ok := a.Value.Any().(slog.Level); ok && level == util.LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}

	return a
}
