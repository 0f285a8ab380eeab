package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/halvar/luxaudit/internal/errors"
	"codeberg.org/halvar/luxaudit/internal/ingest"
	"codeberg.org/halvar/luxaudit/internal/lighting"
	"codeberg.org/halvar/luxaudit/internal/report"
)

const (
	DefaultLogLevel = "info"
	DefaultInterval = 3600
	DefaultDBPath   = "/var/lib/luxaudit/results.db"

	configName = "luxaudit"
	envPrefix  = "LUXAUDIT"
)

type Config struct {
	Input         string  `mapstructure:"input"`
	Format        string  `mapstructure:"format"`
	NightStart    int     `mapstructure:"night_start"`
	NightEnd      int     `mapstructure:"night_end"`
	OnThreshold   float64 `mapstructure:"on_threshold"`
	MinOnFraction float64 `mapstructure:"min_on_fraction"`
	Report        string  `mapstructure:"report"`
	ReportFormat  string  `mapstructure:"report_format"`
	Results       bool    `mapstructure:"results"`
	Database      string  `mapstructure:"database"`
	Watch         bool    `mapstructure:"watch"`
	Interval      int     `mapstructure:"interval"`
	MetricsListen string  `mapstructure:"metrics_listen"`
	LogLevel      string  `mapstructure:"log_level"`
	Debug         bool    `mapstructure:"debug"`
	Verbose       bool    `mapstructure:"verbose"`
}

// Load reads configuration from flags, the environment and the TOML config
// file, with flags taking precedence over file values.
func Load() (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	fs.String("input", "", "Path to the sensor readings file")
	fs.String("format", ingest.FormatAuto, "Input format: auto, csv or xlsx")
	fs.Int("night-start", lighting.DefaultNightStart, "Hour of day the night window starts")
	fs.Int("night-end", lighting.DefaultNightEnd, "Hour of day the night window ends")
	fs.Float64("on-threshold", 0, "Sensor value above which lighting counts as on")
	fs.Float64("min-on-fraction", lighting.DefaultMinOnFraction,
		"Share of lit night samples that makes a night excessive")
	fs.String("report", "", "Report output path (stdout when empty)")
	fs.String("report-format", report.FormatText, "Report format: text, pdf or xlsx")
	fs.Bool("results", false, "Record verdicts in the results database")
	fs.String("database", DefaultDBPath, "Path to the results database")
	fs.Bool("watch", false, "Re-run the analysis on an interval")
	fs.Int("interval", DefaultInterval, "Seconds between watch-mode runs")
	fs.String("metrics-listen", "", "Address for the watch-mode metrics listener")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("/etc")
	v.AddConfigPath("$XDG_CONFIG_HOME/" + configName)
	v.AddConfigPath(".")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"input":           "input",
		"format":          "format",
		"night_start":     "night-start",
		"night_end":       "night-end",
		"on_threshold":    "on-threshold",
		"min_on_fraction": "min-on-fraction",
		"report":          "report",
		"report_format":   "report-format",
		"results":         "results",
		"database":        "database",
		"watch":           "watch",
		"interval":        "interval",
		"metrics_listen":  "metrics-listen",
		"log_level":       "log-level",
		"debug":           "debug",
		"verbose":         "verbose",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	// An explicit config file must exist; the search path is best effort.
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.NightStart < 0 || c.NightStart > 23 || c.NightEnd < 0 || c.NightEnd > 23 ||
		c.NightStart == c.NightEnd {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field string
			Start int
			End   int
		}{
			Field: "night window",
			Start: c.NightStart,
			End:   c.NightEnd,
		})
	}

	if c.MinOnFraction < 0 || c.MinOnFraction > 1 {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field string
			Value float64
		}{
			Field: "min_on_fraction",
			Value: c.MinOnFraction,
		})
	}

	switch c.Format {
	case ingest.FormatAuto, ingest.FormatCSV, ingest.FormatXLSX:
	default:
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field string
			Value string
		}{
			Field: "format",
			Value: c.Format,
		})
	}

	switch c.ReportFormat {
	case report.FormatText, report.FormatPDF, report.FormatXLSX:
	default:
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field string
			Value string
		}{
			Field: "report_format",
			Value: c.ReportFormat,
		})
	}

	if c.Watch && c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field string
			Value int
		}{
			Field: "interval",
			Value: c.Interval,
		})
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "warn", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// DetectorConfig maps the loaded configuration onto detection parameters.
func (c *Config) DetectorConfig() lighting.Config {
	return lighting.Config{
		NightStart:    c.NightStart,
		NightEnd:      c.NightEnd,
		OnThreshold:   c.OnThreshold,
		MinOnFraction: c.MinOnFraction,
	}
}
