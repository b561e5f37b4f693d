package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceIdentity(t *testing.T) {
	assert.Zero(t, Distance(35.0, 135.0, 35.0, 135.0))
	assert.Zero(t, Distance(0, 0, 0, 0))
	assert.Zero(t, Distance(-90, 180, -90, 180))
}

func TestDistanceSymmetry(t *testing.T) {
	cases := [][4]float64{
		{35.0, 135.0, 35.01, 135.01},
		{51.5, -0.12, 48.85, 2.35},
		{-33.86, 151.2, 35.68, 139.69},
	}
	for _, c := range cases {
		assert.Equal(t, Distance(c[0], c[1], c[2], c[3]), Distance(c[2], c[3], c[0], c[1]))
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// One degree of latitude on a 6371 km sphere is ~111.195 km.
	assert.InDelta(t, 111.195, Distance(35.0, 135.0, 36.0, 135.0), 0.01)

	// Tokyo Station to Shinjuku Station, ~6.2 km.
	assert.InDelta(t, 6.2, Distance(35.6812, 139.7671, 35.6896, 139.7006), 0.2)

	// Antipodal points sit half the circumference apart.
	assert.InDelta(t, 20015.1, Distance(0, 0, 0, 180), 0.1)
}

func TestDistanceSmallOffsets(t *testing.T) {
	// ~0.009 degrees of latitude is just under the 1 km feed radius.
	assert.Less(t, Distance(35.0, 135.0, 35.00899, 135.0), 1.0)
	assert.Greater(t, Distance(35.0, 135.0, 35.0095, 135.0), 1.0)
}
