// Package logger builds the zap logger used by flvtool from its log configuration.
package logger

import (
	"github.com/pkg/errors"
	"github.com/torresjeff/flv/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing entries at conf.Level and above to
// conf.Path. The terminal gets human readable lines, files get JSON.
func New(conf config.Log) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if conf.Level != "" {
		if err := level.UnmarshalText([]byte(conf.Level)); err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", conf.Level)
		}
	}
	mode, err := ParseFileMode(conf.Mode)
	if err != nil {
		return nil, err
	}
	w, err := OpenFile(conf.Path, mode)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open log file")
	}
	core := zapcore.NewCore(encoder(conf.Path), w, level)
	return zap.New(core), nil
}

func encoder(path string) zapcore.Encoder {
	switch path {
	case "", "stderr", "stdout":
		conf := zap.NewDevelopmentEncoderConfig()
		conf.CallerKey = ""
		return zapcore.NewConsoleEncoder(conf)
	}
	conf := zap.NewProductionEncoderConfig()
	conf.CallerKey = ""
	return zapcore.NewJSONEncoder(conf)
}
