package refcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		year     int
		want     string
	}{
		{
			name: "continues after nine",
			existing: []string{
				"AWD-2024-0001", "AWD-2024-0002", "AWD-2024-0003", "AWD-2024-0004", "AWD-2024-0005",
				"AWD-2024-0006", "AWD-2024-0007", "AWD-2024-0008", "AWD-2024-0009",
			},
			year: 2024,
			want: "AWD-2024-0010",
		},
		{name: "first of the year", existing: nil, year: 2025, want: "AWD-2025-0001"},
		{name: "other years ignored", existing: []string{"AWD-2024-0042"}, year: 2025, want: "AWD-2025-0001"},
		{name: "gaps use the maximum", existing: []string{"AWD-2025-0003", "AWD-2025-0017", "AWD-2025-0004"}, year: 2025, want: "AWD-2025-0018"},
		{name: "malformed codes ignored", existing: []string{"AWD-2025-12", "awd-2025-0099", "AWD-2025-0002"}, year: 2025, want: "AWD-2025-0003"},
		{name: "past four digits", existing: []string{"AWD-2025-9999"}, year: 2025, want: "AWD-2025-10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.existing, tt.year))
		})
	}
}

func TestParse(t *testing.T) {
	year, seq, err := Parse("AWD-2024-0010")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 10, seq)

	for _, bad := range []string{"", "AWD-24-0001", "AWD-2024-001", "XYZ-2024-0001", "AWD-2024-0001 "} {
		_, _, err := Parse(bad)
		assert.ErrorIs(t, err, ErrMalformed, bad)
	}
}

func TestFormatAndPrefix(t *testing.T) {
	assert.Equal(t, "AWD-2025-0007", Format(2025, 7))
	assert.Equal(t, "AWD-2025-", YearPrefix(2025))
}
