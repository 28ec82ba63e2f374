// Package logflags configures the zap logger commands write to stderr.
package logflags

import (
	"flag"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Flags struct {
	level zapcore.Level
	json  bool
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.level = zapcore.InfoLevel
	fs.Var(&f.level, "log.level", "logging level (debug, info, warn, error)")
	fs.BoolVar(&f.json, "log.json", false, "emit logs as JSON instead of console text")
}

func (f *Flags) Open() (*zap.Logger, error) {
	conf := zap.Config{
		Level:             zap.NewAtomicLevelAt(f.level),
		Encoding:          "console",
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	if f.json {
		conf.Encoding = "json"
		conf.EncoderConfig = zap.NewProductionEncoderConfig()
	}
	return conf.Build()
}
