package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogContents(t *testing.T) {
	cat := New()

	assert.Equal(t, 11, cat.Len())

	sun, ok := cat.ByName("Sun")
	require.True(t, ok)
	assert.InDelta(t, 126.22, sun.BaseFrequency, 1e-9)
	assert.InDelta(t, 25.38, sun.BasePeriodDays, 1e-9)
	assert.Equal(t, "B", sun.NearestNote)

	_, ok = cat.ByName("Ceres")
	assert.False(t, ok)
}

func TestCatalogHarmonicSeries(t *testing.T) {
	cat := New()

	for _, entry := range cat.Entries() {
		require.Len(t, entry.HarmonicSeries, 4, entry.Name)
		for i, freq := range entry.HarmonicSeries {
			assert.InDelta(t, entry.BaseFrequency*float64(i+1), freq, 1e-9, entry.Name)
		}
	}
}

func TestCatalogEntriesIsACopy(t *testing.T) {
	cat := New()

	entries := cat.Entries()
	entries[0].BaseFrequency = 999

	fresh := cat.Entries()
	assert.NotEqual(t, 999.0, fresh[0].BaseFrequency)
}
