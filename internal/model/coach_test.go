package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		raw  string
		want CoachCategory
		ok   bool
	}{
		{"seating", CategorySeating, true},
		{"chair", CategorySeating, true},
		{"Sleeper", CategorySleeper, true},
		{"  berth ", CategorySleeper, true},
		{"LIMO", CategoryLimousine, true},
		{"first-class", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeCategory(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}
}
