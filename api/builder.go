package api

import (
	"log/slog"

	"github.com/sarchlab/iloc/config"
	"github.com/sarchlab/iloc/util"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	cfg    config.Config
	logger *slog.Logger
	opener SourceOpener
}

// MakeDriverBuilder returns a builder with the default configuration that
// reads sources from the file system.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{
		cfg:    config.Default(),
		opener: fileOpener{},
	}
}

// WithConfig sets the configuration.
func (b DriverBuilder) WithConfig(cfg config.Config) DriverBuilder {
	b.cfg = cfg
	return b
}

// WithLogger sets the logger passed to every stage.
func (b DriverBuilder) WithLogger(logger *slog.Logger) DriverBuilder {
	b.logger = logger
	return b
}

// WithOpener sets how source names are opened.
func (b DriverBuilder) WithOpener(opener SourceOpener) DriverBuilder {
	b.opener = opener
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build() Driver {
	d := &driverImpl{
		cfg:    b.cfg,
		logger: util.LoggerOrDefault(b.logger),
		opener: b.opener,
	}

	if d.opener == nil {
		d.opener = fileOpener{}
	}

	return d
}
