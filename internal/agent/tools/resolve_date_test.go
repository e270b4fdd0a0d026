package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, so the weekend and next-week offsets are unambiguous.
var wednesday = time.Date(2026, 9, 2, 14, 30, 0, 0, time.UTC)

func TestResolveStayPhrases(t *testing.T) {
	cases := []struct {
		text     string
		nights   int
		checkIn  string
		checkOut string
	}{
		{text: "tonight", nights: 1, checkIn: "2026-09-02", checkOut: "2026-09-03"},
		{text: "staying today", nights: 2, checkIn: "2026-09-02", checkOut: "2026-09-04"},
		{text: "tomorrow", nights: 1, checkIn: "2026-09-03", checkOut: "2026-09-04"},
		{text: "this weekend", nights: 2, checkIn: "2026-09-05", checkOut: "2026-09-07"},
		{text: "next week", nights: 3, checkIn: "2026-09-07", checkOut: "2026-09-10"},
		{text: "2026-09-15", nights: 1, checkIn: "2026-09-15", checkOut: "2026-09-16"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			out := resolveStay(tc.text, tc.nights, wednesday)
			require.NotNil(t, out)
			assert.Equal(t, tc.checkIn, out.CheckIn)
			assert.Equal(t, tc.checkOut, out.CheckOut)
			assert.Equal(t, tc.nights, out.Nights)
		})
	}
}

func TestResolveStayExplicitRange(t *testing.T) {
	out := resolveStay("2026-09-01 to 2026-09-04", 1, wednesday)
	assert.Equal(t, "2026-09-01", out.CheckIn)
	assert.Equal(t, "2026-09-04", out.CheckOut)
	assert.Equal(t, 3, out.Nights, "nights derive from the range, not the input")
}

func TestResolveStayUnknownPhraseYieldsNoDates(t *testing.T) {
	out := resolveStay("whenever mercury is in retrograde", 1, wednesday)
	require.NotNil(t, out)
	assert.Empty(t, out.CheckIn)
	assert.Empty(t, out.CheckOut)
	assert.NotEmpty(t, out.Note)
}

func TestResolveStayInvertedRangeFallsThrough(t *testing.T) {
	// check_out before check_in cannot form a stay; the phrase resolves like an
	// unknown one.
	out := resolveStay("2026-09-04 to 2026-09-01", 1, wednesday)
	assert.Empty(t, out.CheckIn)
	assert.NotEmpty(t, out.Note)
}
