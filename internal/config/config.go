package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath  string `mapstructure:"data_path" yaml:"data_path" validate:"required"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,len=1"`
	// Sheet selects the worksheet for .xlsx sources; empty means the first.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`

	TopN          int `mapstructure:"top_n" yaml:"top_n" validate:"gte=1,lte=500"`
	BottomN       int `mapstructure:"bottom_n" yaml:"bottom_n" validate:"gte=1,lte=500"`
	HistogramBins int `mapstructure:"histogram_bins" yaml:"histogram_bins" validate:"gte=1,lte=200"`

	// HTTP API
	ListenAddr      string `mapstructure:"listen_addr" yaml:"listen_addr" validate:"required,hostname_port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec" validate:"gte=1"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec" validate:"gte=1"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"data_path", "delimiter", "sheet",
	"top_n", "bottom_n", "histogram_bins",
	"listen_addr", "read_timeout_sec", "write_timeout_sec",
	"log_level", "log_format",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Get returns the string form of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "data_path":
		return c.DataPath, nil
	case "delimiter":
		return c.Delimiter, nil
	case "sheet":
		return c.Sheet, nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "bottom_n":
		return strconv.Itoa(c.BottomN), nil
	case "histogram_bins":
		return strconv.Itoa(c.HistogramBins), nil
	case "listen_addr":
		return c.ListenAddr, nil
	case "read_timeout_sec":
		return strconv.Itoa(c.ReadTimeoutSec), nil
	case "write_timeout_sec":
		return strconv.Itoa(c.WriteTimeoutSec), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set assigns key from its string form and validates the result. On error
// c is left unchanged.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "data_path":
		next.DataPath = val
	case "delimiter":
		if val == `\t` || strings.EqualFold(val, "tab") {
			val = "\t"
		}
		next.Delimiter = val
	case "sheet":
		next.Sheet = val
	case "top_n", "bottom_n", "histogram_bins", "read_timeout_sec", "write_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "top_n":
			next.TopN = i
		case "bottom_n":
			next.BottomN = i
		case "histogram_bins":
			next.HistogramBins = i
		case "read_timeout_sec":
			next.ReadTimeoutSec = i
		case "write_timeout_sec":
			next.WriteTimeoutSec = i
		}
	case "listen_addr":
		next.ListenAddr = val
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// DelimiterRune returns the configured delimiter, or 0 to pick by extension.
func (c *Global) DelimiterRune() rune {
	if c.Delimiter == "" {
		return 0
	}
	return []rune(c.Delimiter)[0]
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".efindex"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.efindex/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EFINDEX")
	v.AutomaticEnv()

	v.SetDefault("data_path", "data/index_of_economic_freedom.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet", "")
	v.SetDefault("top_n", 10)
	v.SetDefault("bottom_n", 10)
	v.SetDefault("histogram_bins", 20)
	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("read_timeout_sec", 15)
	v.SetDefault("write_timeout_sec", 30)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// A missing file is fine; a malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
