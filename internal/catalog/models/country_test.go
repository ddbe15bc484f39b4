package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCountry_NormalizesEmptyFields(t *testing.T) {
	c := NewCountry("", "  ", "FR", "")

	assert.Equal(t, Placeholder, c.Name)
	assert.Equal(t, Placeholder, c.Region)
	assert.Equal(t, "FR", c.Code)
	assert.Equal(t, Placeholder, c.Capital)
}

func TestNewCountry_TrimsWhitespace(t *testing.T) {
	c := NewCountry(" France ", " Europe", "FR ", "Paris ")

	assert.Equal(t, "France", c.Name)
	assert.Equal(t, "Europe", c.Region)
	assert.Equal(t, "FR", c.Code)
	assert.Equal(t, "Paris", c.Capital)
}

func TestNewCountry_CodeLength(t *testing.T) {
	cases := []struct {
		name string
		code string
		want string
	}{
		{"two letters accepted", "DE", "DE"},
		{"three letters accepted", "DEU", "DEU"},
		{"one letter rejected", "D", Placeholder},
		{"four letters rejected", "DEUX", Placeholder},
		{"empty rejected", "", Placeholder},
		{"whitespace only rejected", "   ", Placeholder},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCountry("Germany", "Europe", tc.code, "Berlin")
			assert.Equal(t, tc.want, c.Code)
		})
	}
}

func TestCountry_ValueEquality(t *testing.T) {
	a := NewCountry("Japan", "Asia", "JP", "Tokyo")
	b := NewCountry("Japan", "Asia", "JP", "Tokyo")
	c := NewCountry("Japan", "Asia", "JPN", "Tokyo")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFallbackSentinel_NeverEmpty(t *testing.T) {
	s := FallbackSentinel()

	assert.NotEmpty(t, s.Name)
	assert.NotEmpty(t, s.Region)
	assert.NotEmpty(t, s.Code)
	assert.NotEmpty(t, s.Capital)
}
