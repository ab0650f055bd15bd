// Cpapconf writes a starter cpapstat config file from flags.
package main

import (
	"log"
	"os"
	"strings"

	"cpapstat/cpapstat/defs"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

func main() {
	out := pflag.StringP("out", "o", "cpapstat.yaml", "config file to write")

	policy := pflag.String("policy", defs.DecimalPolicy, "binning policy: decimal or truncate")
	binSize := pflag.String("binsize", defs.DefaultBinSize, "bin size for pressures")

	delimiter := pflag.String("delimiter", ",", "input column delimiter")

	unit := pflag.String("unit", defs.HoursUnit, "duration unit: hours or minutes")
	format := pflag.String("format", defs.CSVFormat, "report format: csv or table")
	rates := pflag.Bool("rates", false, "add an events per hour column")
	baseline := pflag.String("baseline", strings.Join(defs.DefaultBaseline, ","), "comma separated event columns always reported")

	level := pflag.String("log-level", "warn", "log level")

	pflag.Parse()

	cfg := defs.Config{
		Binning: defs.BinningConfig{
			Policy: *policy,
			Size:   *binSize,
		},
		Input: defs.InputConfig{
			Delimiter: *delimiter,
		},
		Report: defs.ReportConfig{
			Unit:     *unit,
			Format:   *format,
			Rates:    *rates,
			Baseline: splitList(*baseline),
		},
		Log: defs.LogConfig{
			Level: *level,
		},
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err = os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal(err)
	}
}

func splitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
