package defs

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Binning policies.
const (
	DecimalPolicy  = "decimal"
	TruncatePolicy = "truncate"
)

// Report units and formats.
const (
	HoursUnit   = "hours"
	MinutesUnit = "minutes"

	CSVFormat   = "csv"
	TableFormat = "table"
)

const DefaultBinSize = ".5"

// DefaultBaseline lists the event columns every report carries, even when empty.
var DefaultBaseline = []string{
	"Obstructive",
	"ClearAirway",
	"Hypopnea",
	"Apnea",
	"RERA",
	"FlowLimit",
}

type Config struct {
	Binning BinningConfig `yaml:"binning"`
	Input   InputConfig   `yaml:"input"`
	Report  ReportConfig  `yaml:"report"`
	Log     LogConfig     `yaml:"log"`
	Logger  *zap.Logger   `yaml:"-"`
}

type BinningConfig struct {
	Policy string `yaml:"policy"`
	Size   string `yaml:"size"`
}

type InputConfig struct {
	Delimiter string `yaml:"delimiter"`
}

type ReportConfig struct {
	Unit     string   `yaml:"unit"`
	Format   string   `yaml:"format"`
	Output   string   `yaml:"output"`
	Rates    bool     `yaml:"rates"`
	Baseline []string `yaml:"baseline"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Binning: BinningConfig{Policy: DecimalPolicy, Size: DefaultBinSize},
		Input:   InputConfig{Delimiter: ","},
		Report: ReportConfig{
			Unit:     HoursUnit,
			Format:   CSVFormat,
			Baseline: append([]string(nil), DefaultBaseline...),
		},
		Log: LogConfig{Level: "warn"},
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("unable to read config file: %w", err)
	}

	if err = yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse config file: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Binning.Policy {
	case DecimalPolicy, TruncatePolicy:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, c.Binning.Policy)
	}

	if c.Binning.Policy == DecimalPolicy {
		if _, err := ParseBinSize(c.Binning.Size); err != nil {
			return err
		}
	}

	switch c.Report.Unit {
	case HoursUnit, MinutesUnit:
	default:
		return fmt.Errorf("unknown duration unit %q", c.Report.Unit)
	}

	switch c.Report.Format {
	case CSVFormat, TableFormat:
	default:
		return fmt.Errorf("unknown report format %q", c.Report.Format)
	}

	if len([]rune(c.Input.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Input.Delimiter)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("unknown log level: %w", err)
	}

	return nil
}

// ParseBinSize parses a decimal bin size, which must be greater than zero.
func ParseBinSize(size string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(size))
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrBadBinSize, size)
	}
	return d, nil
}

// NewLogger builds a console logger writing to stderr at the configured level.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("unknown log level: %w", err)
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}
