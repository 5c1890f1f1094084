package config

import (
	"fmt"
	"strings"

	"github.com/kr/pretty"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const Version = "1.0.0"

const DefaultCreator = "flvtool " + Version

// DefaultSeekpointDensity is the number of audio tags per seekpoint in
// files without video.
const DefaultSeekpointDensity = 10

const DefaultJobs = 4

// EnvPrefix prefixes the environment variables read by Load, as in
// FLVTOOL_LOG_LEVEL.
const EnvPrefix = "FLVTOOL"

type Log struct {
	Level string `mapstructure:"level"`
	// Path is a file name, "stderr", "stdout" or "/dev/null".
	Path string `mapstructure:"path"`
	// Mode is one of "append", "truncate" or "rotate", for file paths only.
	Mode string `mapstructure:"mode"`
}

type Config struct {
	Strict           bool   `mapstructure:"strict"`
	Quiet            bool   `mapstructure:"quiet"`
	Creator          string `mapstructure:"creator"`
	SeekpointDensity int    `mapstructure:"seekpoint-density"`
	Jobs             int    `mapstructure:"jobs"`
	Log              Log    `mapstructure:"log"`
}

var defaultConf = Config{
	Creator:          DefaultCreator,
	SeekpointDensity: DefaultSeekpointDensity,
	Jobs:             DefaultJobs,
	Log: Log{
		Level: "info",
		Path:  "stderr",
		Mode:  "append",
	},
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	c := defaultConf
	return &c
}

// AddFlags registers the flags shared by every command.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML configuration file")
	fs.Bool("strict", false, "treat every non-conformant field as an error")
	fs.String("log.level", defaultConf.Log.Level, "log level: debug, info, warn or error")
	fs.String("log.path", defaultConf.Log.Path, "log destination: a file, stderr, stdout or /dev/null")
	fs.String("log.mode", defaultConf.Log.Mode, "log file mode: append, truncate or rotate")
}

// Load builds the configuration from, in increasing order of precedence,
// the defaults, the file named by the config flag, FLVTOOL_* environment
// variables and the flags set on fs.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	var defaults map[string]interface{}
	if err := mapstructure.Decode(defaultConf, &defaults); err != nil {
		return nil, err
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "cannot read config file %s", path)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.SeekpointDensity <= 0 {
		return errors.Errorf("seekpoint density must be positive, got %d", c.SeekpointDensity)
	}
	if c.Jobs <= 0 {
		return errors.Errorf("jobs must be positive, got %d", c.Jobs)
	}
	switch c.Log.Mode {
	case "", "append", "truncate", "rotate":
	default:
		return errors.Errorf("invalid log mode %q", c.Log.Mode)
	}
	return nil
}

// String formats every field for debug output.
func (c *Config) String() string {
	return fmt.Sprintf("%# v", pretty.Formatter(*c))
}
