package main

import (
	"errors"
	"fmt"
	"os"

	"cpapstat/cpapstat"
	"cpapstat/cpapstat/defs"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	configFile string
	binSize    string
	policy     string
	output     string
	unit       string
	format     string
	rates      bool
	verbose    bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("cpapstat", pflag.ContinueOnError)
	fs.StringVarP(&opts.configFile, "config", "f", "", "optional YAML config file")
	fs.StringVarP(&opts.binSize, "binsize", "b", defs.DefaultBinSize, "bin size for pressures, bins are named by their lower edge")
	fs.StringVarP(&opts.policy, "policy", "p", defs.DecimalPolicy, "binning policy: decimal or truncate")
	fs.StringVarP(&opts.output, "output", "o", "", "report file (default stdout)")
	fs.StringVarP(&opts.unit, "unit", "u", defs.HoursUnit, "duration unit: hours or minutes")
	fs.StringVar(&opts.format, "format", defs.CSVFormat, "report format: csv or table")
	fs.BoolVar(&opts.rates, "rates", false, "add an events per hour column")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cpapstat [flags] <input.csv>\n\n")
		fmt.Fprintf(os.Stderr, "From a CPAP event log, find how many events of what type happened at which pressure ranges.\n\n")
		fs.PrintDefaults()
	}
	return fs
}

// config layers explicitly set flags over the config file over the defaults.
func config(fs *pflag.FlagSet, opts *options) (defs.Config, error) {
	cfg := defs.DefaultConfig()
	if opts.configFile != "" {
		var err error
		if cfg, err = defs.LoadConfig(opts.configFile); err != nil {
			return cfg, err
		}
	}

	if fs.Changed("binsize") {
		cfg.Binning.Size = opts.binSize
	}
	if fs.Changed("policy") {
		cfg.Binning.Policy = opts.policy
	}
	if fs.Changed("output") {
		cfg.Report.Output = opts.output
	}
	if fs.Changed("unit") {
		cfg.Report.Unit = opts.unit
	}
	if fs.Changed("format") {
		cfg.Report.Format = opts.format
	}
	if fs.Changed("rates") {
		cfg.Report.Rates = opts.rates
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	return cfg, cfg.Validate()
}

func main() {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config(fs, &opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cpapstat: %v\n", err)
		os.Exit(2)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Debug("loaded config", zap.String("file", opts.configFile), zap.Any("config", cfg))
	cfg.Logger = logger

	if err := cpapstat.Run(cfg, fs.Arg(0)); err != nil {
		logger.Error("unable to summarize event log", zap.String("file", fs.Arg(0)), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
