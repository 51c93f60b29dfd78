package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCtlOptionsLogsToStderr(t *testing.T) {
	o := NewCtlOptions()
	assert.Equal(t, "warn", o.LogOptions().Level)
	assert.Equal(t, []string{"stderr"}, o.LogOptions().OutputPaths)
	require.NoError(t, o.Validate())
}

func TestCtlOptionsFlags(t *testing.T) {
	fss := NewCtlOptions().Flags()
	assert.Equal(t, []string{"API", "Grid", "S3", "Log"}, fss.Order)
	assert.NotNil(t, fss.FlagSet("API").Lookup("api.base-url"))
	assert.NotNil(t, fss.FlagSet("S3").Lookup("s3.enabled"))
}

func TestCtlOptionsValidateAggregates(t *testing.T) {
	o := NewCtlOptions()
	o.GridOptions.CSVSeparator = "::"
	o.Log.Level = "loud"

	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv-separator")
	assert.Contains(t, err.Error(), "log.level")
}
