package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	bkk := time.FixedZone("ICT", 7*3600)
	assert.Equal(t, "2026-10-18", FormatDate(time.Date(2026, 10, 18, 23, 30, 0, 0, bkk)))
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"   ":                       "",
		"2026-10-18":                "2026-10-18",
		" 2026-10-18 ":              "2026-10-18",
		"2026-10-18T09:15:00+07:00": "2026-10-18",
		"2026-10-18T09:15:00.5Z":    "2026-10-18",
		"18/10/2026":                "18/10/2026",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDate(in), "input %q", in)
	}
}
