package market

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/flatbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_PartialOverrides(t *testing.T) {
	raw := []byte(`
forecast_adjustment:
  May: 0.1
  June: 0.1
  July: 0.1
  August: 0.1
  September: 0.1
  October: 0.1
  November: 0.1
  December: 0.1
costs:
  storage_per_month: 0.30
  refinery_wts_reference: WTS
`)

	d, err := ParseScenario(raw)
	require.NoError(t, err)

	may := month(t, d, "May")
	assert.Equal(t, 0.1, d.ForecastAdjustment(may))
	assert.Equal(t, 0.30, d.Costs().StoragePerMonth)
	assert.Equal(t, domain.WTS, d.Costs().RefineryWTSReference)
	// untouched tables and costs keep their defaults
	assert.Equal(t, 70.00, d.SpotPrice(domain.Midland, may))
	assert.Equal(t, 0.55, d.Costs().PipelineFixed)
	assert.Equal(t, 3_000_000.0, d.Costs().StorageLimit)
}

func TestParseScenario_EmptyDocumentIsDefault(t *testing.T) {
	d, err := ParseScenario(nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Tables(), d.Tables())
}

func TestParseScenario_Errors(t *testing.T) {
	_, err := ParseScenario([]byte("unknown_table: {}\n"))
	assert.Error(t, err)

	_, err = ParseScenario([]byte("trading_days:\n  May: 20\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidMarketData)
}

func TestWriteScenario_LoadsBack(t *testing.T) {
	base, err := Default().WithForecastShift(-0.05)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteScenario(&buf, base))

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, base.Tables(), loaded.Tables())
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
