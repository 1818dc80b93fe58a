package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEndpoint = "https://automl.googleapis.com"
	DefaultDetector = "automl"
	DefaultDPI      = 150
)

type Config struct {
	ProjectID       string        `mapstructure:"project_id"`
	ModelID         string        `mapstructure:"model_id"`
	Endpoint        string        `mapstructure:"endpoint"`
	Detector        string        `mapstructure:"detector"`
	ScoreThreshold  float64       `mapstructure:"score_threshold"`
	Timeout         time.Duration `mapstructure:"timeout"`
	DPI             int           `mapstructure:"dpi"`
	LogLevel        string        `mapstructure:"log_level"`
	Output          string        `mapstructure:"output"`
	Report          string        `mapstructure:"report"`
	ShowStats       bool          `mapstructure:"stats"`
	ContinueOnError bool          `mapstructure:"continue_on_error"`
	BuildVersion    string        `mapstructure:"-"`
}

// Load resolves configuration from defaults, an optional YAML file, the
// environment and, last, any flags that were set on the command line.
// Project and model ids are not validated here.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range map[string]string{
		"project_id":      "PROJECT_ID",
		"model_id":        "MODEL_ID",
		"endpoint":        "AUTOML_ENDPOINT",
		"score_threshold": "AUTOML_SCORE_THRESHOLD",
		"log_level":       "CENSOR_LOG_LEVEL",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range map[string]string{
			"output":            "output",
			"report":            "report",
			"stats":             "stats",
			"continue_on_error": "continue-on-error",
			"dpi":               "dpi",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("detector", DefaultDetector)
	v.SetDefault("score_threshold", 0.0)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("dpi", DefaultDPI)
	v.SetDefault("log_level", "warn")
	v.SetDefault("output", "")
	v.SetDefault("report", "")
	v.SetDefault("stats", false)
	v.SetDefault("continue_on_error", false)
}
