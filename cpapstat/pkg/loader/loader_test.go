package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cpapstat/cpapstat/defs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const sample = `DateTime,Session,Event,Data/Duration
2022-05-12T01:30:00,1,Pressure,5.0
2022-05-12T01:35:00,1,Hypopnea,12
`

type LoaderTestSuite struct {
	suite.Suite
	loader *Loader
}

func TestLoaderTestSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

func (suite *LoaderTestSuite) SetupTest() {
	suite.loader = New(",")
}

func (suite *LoaderTestSuite) TestReadKeepsFileOrder() {
	records, err := suite.loader.Read(strings.NewReader(sample))
	require.NoError(suite.T(), err)
	require.Len(suite.T(), records, 2)

	assert.Equal(suite.T(), defs.Record{
		"DateTime":      "2022-05-12T01:30:00",
		"Session":       "1",
		"Event":         "Pressure",
		"Data/Duration": "5.0",
	}, records[0])
	assert.Equal(suite.T(), "Hypopnea", records[1]["Event"])
}

func (suite *LoaderTestSuite) TestReadStripsByteOrderMark() {
	records, err := suite.loader.Read(strings.NewReader("\ufeff" + sample))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "2022-05-12T01:30:00", records[0][defs.DateTimeField])
}

func (suite *LoaderTestSuite) TestReadCustomDelimiter() {
	data := strings.ReplaceAll(sample, ",", ";")
	records, err := New(";").Read(strings.NewReader(data))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "5.0", records[0][defs.DataField])
}

func (suite *LoaderTestSuite) TestReadHeaderOnly() {
	records, err := suite.loader.Read(strings.NewReader("DateTime,Session,Event,Data/Duration\n"))
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), records)
}

func (suite *LoaderTestSuite) TestReadEmpty() {
	_, err := suite.loader.Read(strings.NewReader(""))
	assert.ErrorIs(suite.T(), err, ErrNoHeader)
}

func (suite *LoaderTestSuite) TestReadRaggedRow() {
	_, err := suite.loader.Read(strings.NewReader("DateTime,Event\n2022-05-12T01:30:00\n"))
	assert.Error(suite.T(), err)
}

func (suite *LoaderTestSuite) TestLoadFile() {
	path := filepath.Join(suite.T().TempDir(), "events.csv")
	require.NoError(suite.T(), os.WriteFile(path, []byte(sample), 0o644))

	records, err := suite.loader.Load(path)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), records, 2)

	_, err = suite.loader.Load(filepath.Join(suite.T().TempDir(), "missing.csv"))
	assert.Error(suite.T(), err)
}
