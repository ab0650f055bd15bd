package defs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaultsAreValid() {
	cfg := DefaultConfig()
	assert.NoError(suite.T(), cfg.Validate())
	assert.Equal(suite.T(), DecimalPolicy, cfg.Binning.Policy)
	assert.Equal(suite.T(), ".5", cfg.Binning.Size)
	assert.Equal(suite.T(), DefaultBaseline, cfg.Report.Baseline)
}

func (suite *ConfigTestSuite) TestLoadConfigOverridesDefaults() {
	path := filepath.Join(suite.T().TempDir(), "cpapstat.yaml")
	data := []byte("binning:\n  policy: truncate\nreport:\n  unit: minutes\n  baseline: [Hypopnea]\n")
	require.NoError(suite.T(), os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), TruncatePolicy, cfg.Binning.Policy)
	assert.Equal(suite.T(), ".5", cfg.Binning.Size, "unset keys keep their default")
	assert.Equal(suite.T(), MinutesUnit, cfg.Report.Unit)
	assert.Equal(suite.T(), CSVFormat, cfg.Report.Format)
	assert.Equal(suite.T(), []string{"Hypopnea"}, cfg.Report.Baseline)
	assert.NoError(suite.T(), cfg.Validate())
}

func (suite *ConfigTestSuite) TestLoadConfigMissingFile() {
	_, err := LoadConfig(filepath.Join(suite.T().TempDir(), "nope.yaml"))
	assert.Error(suite.T(), err)
}

func (suite *ConfigTestSuite) TestValidateRejectsUnknownValues() {
	cfg := DefaultConfig()
	cfg.Binning.Policy = "round"
	assert.ErrorIs(suite.T(), cfg.Validate(), ErrUnknownPolicy)

	for _, size := range []string{"0", "-.5", "half", ""} {
		cfg = DefaultConfig()
		cfg.Binning.Size = size
		assert.ErrorIs(suite.T(), cfg.Validate(), ErrBadBinSize, size)
	}

	cfg = DefaultConfig()
	cfg.Binning.Policy = TruncatePolicy
	cfg.Binning.Size = ""
	assert.NoError(suite.T(), cfg.Validate(), "truncation ignores the bin size")

	cfg = DefaultConfig()
	cfg.Report.Unit = "days"
	assert.Error(suite.T(), cfg.Validate())

	cfg = DefaultConfig()
	cfg.Report.Format = "json"
	assert.Error(suite.T(), cfg.Validate())

	cfg = DefaultConfig()
	cfg.Input.Delimiter = ";;"
	assert.Error(suite.T(), cfg.Validate())

	cfg = DefaultConfig()
	cfg.Log.Level = "loud"
	assert.Error(suite.T(), cfg.Validate())
}

func (suite *ConfigTestSuite) TestRecordField() {
	r := Record{EventField: PressureEvent}
	v, err := r.Field(EventField)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), PressureEvent, v)
	assert.True(suite.T(), r.IsPressure())

	_, err = r.Field(SessionField)
	assert.ErrorIs(suite.T(), err, ErrMissingField)
}

func (suite *ConfigTestSuite) TestSummaryEventTypesKeepFirstSeenOrder() {
	s := NewSummary([]string{"Hypopnea", "Apnea"})
	s.AddEventType("RERA")
	s.AddEventType("Apnea")
	s.AddEventType("Arousal")
	assert.Equal(suite.T(), []string{"Hypopnea", "Apnea", "RERA", "Arousal"}, s.EventTypes)

	agg := s.Bucket("5.0")
	agg.EventCounts["Apnea"] += 2
	assert.Same(suite.T(), agg, s.Bucket("5.0"))
	assert.Equal(suite.T(), 2, s.Bucket("5.0").Total())
}

func (suite *ConfigTestSuite) TestGeneratedConfigLoads() {
	cfg := DefaultConfig()
	cfg.Binning.Policy = TruncatePolicy
	cfg.Report.Rates = true
	cfg.Input.Delimiter = ";"

	data, err := yaml.Marshal(&cfg)
	require.NoError(suite.T(), err)

	path := filepath.Join(suite.T().TempDir(), "cpapstat.yaml")
	require.NoError(suite.T(), os.WriteFile(path, data, 0o644))

	loaded, err := LoadConfig(path)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), cfg, loaded)
}
