package scoredomain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsFor(t *testing.T) {
	scheme := PointsScheme{
		{Threshold: d("2.5"), Points: 10},
		{Threshold: d("1.5"), Points: 7},
		{Threshold: d("0.5"), Points: 4},
		{Threshold: d("0"), Points: 1},
	}

	tests := []struct {
		pct  string
		want int
	}{
		{pct: "2.6", want: 10},
		{pct: "2.5", want: 10},
		{pct: "1.6", want: 7},
		{pct: "0.5", want: 4},
		{pct: "0.2", want: 1},
		{pct: "0", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.pct, func(t *testing.T) {
			assert.Equal(t, tt.want, scheme.PointsFor(d(tt.pct)))
		})
	}
}

func TestPointsFor_UnsortedScheme(t *testing.T) {
	scheme := PointsScheme{
		{Threshold: d("0.5"), Points: 4},
		{Threshold: d("2.5"), Points: 10},
		{Threshold: d("0"), Points: 1},
		{Threshold: d("1.5"), Points: 7},
	}
	assert.Equal(t, 10, scheme.PointsFor(d("2.6")))
	assert.Equal(t, 7, scheme.PointsFor(d("1.6")))
	assert.Equal(t, 1, scheme.PointsFor(d("0.2")))
}

func TestPointsFor_BelowEveryThreshold(t *testing.T) {
	scheme := PointsScheme{{Threshold: d("1"), Points: 5}}
	assert.Equal(t, 0, scheme.PointsFor(d("0.999")))
}

func TestPointsFor_DuplicateThresholdFirstListedWins(t *testing.T) {
	scheme := PointsScheme{
		{Threshold: d("0"), Points: 1},
		{Threshold: d("1.5"), Points: 7},
		{Threshold: d("1.5"), Points: 9},
	}
	assert.Equal(t, 7, scheme.PointsFor(d("2")))
}

func TestPointsFor_NonDecreasing(t *testing.T) {
	scheme := DefaultPointsScheme()
	prev := 0
	for x := 0.0; x <= 5; x += 0.05 {
		got := scheme.PointsFor(decimal.NewFromFloat(x).Round(PercentPlaces))
		assert.GreaterOrEqual(t, got, prev, "pct=%v", x)
		prev = got
	}
}

func TestOrdered_DoesNotMutateScheme(t *testing.T) {
	scheme := PointsScheme{{Threshold: d("0"), Points: 1}, {Threshold: d("2"), Points: 3}}
	ordered := scheme.Ordered()
	assert.Equal(t, 3, ordered[0].Points)
	assert.Equal(t, 1, scheme[0].Points)
}

func TestNewPointsScheme(t *testing.T) {
	_, err := NewPointsScheme()
	assert.ErrorIs(t, err, ErrEmptyScheme)

	_, err = NewPointsScheme(PointsStep{Threshold: d("1"), Points: -2})
	assert.ErrorIs(t, err, ErrNegativePoints)

	s, err := NewPointsScheme(PointsStep{Threshold: d("1"), Points: 2})
	require.NoError(t, err)
	assert.Len(t, s, 1)
}

func TestPointsScheme_JSONAcceptsNumbersAndStrings(t *testing.T) {
	var s PointsScheme
	require.NoError(t, json.Unmarshal([]byte(`[{"threshold":2.5,"points":10},{"threshold":"0","points":1}]`), &s))
	require.NoError(t, s.Validate())
	assert.Equal(t, 10, s.PointsFor(d("3")))
}
