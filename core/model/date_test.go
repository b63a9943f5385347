package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", d.String())

	zero, err := ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseDate("05/01/2024")
	assert.Error(t, err)
}

func TestDateOf_TruncatesToDay(t *testing.T) {
	instant := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-01", DateOf(instant).String())
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"disjoint", "2024-01-01", "2024-01-05", "2024-01-06", "2024-01-10", false},
		{"contained", "2024-01-01", "2024-01-10", "2024-01-03", "2024-01-04", true},
		{"touching at boundary", "2024-01-01", "2024-01-05", "2024-01-05", "2024-01-10", true},
		{"identical", "2024-01-01", "2024-01-05", "2024-01-01", "2024-01-05", true},
		{"reverse order args", "2024-01-06", "2024-01-10", "2024-01-01", "2024-01-06", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RangesOverlap(MustDate(tc.aStart), MustDate(tc.aEnd), MustDate(tc.bStart), MustDate(tc.bEnd))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := MustDate("2024-03-15")
	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(b))

	var back Date
	require.NoError(t, back.UnmarshalJSON(b))
	assert.True(t, d.Equal(back))
}
