package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSI(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  string
		want  string
	}{
		{"zero keeps unit", 0, "Wh", "0 Wh"},
		{"base", 5, "Wh", "5 Wh"},
		{"deka", 50, "Wh", "5 daWh"},
		{"hecto", 500, "Wh", "5 hWh"},
		{"kilo", 1500, "Wh", "1.5 kWh"},
		{"mega integer", 2e6, "Wh", "2 MWh"},
		{"existing prefix folded", 1500, "kWh", "1.5 MWh"},
		{"deci", 0.25, "L", "2.5 dL"},
		{"centi", 0.05, "L", "5 cL"},
		{"milli", 0.005, "L", "5 mL"},
		{"two decimals below ten", 1234, "L", "1.23 kL"},
		{"one decimal from ten", 12345, "L", "12.3 kL"},
		{"trailing zeros stripped", 1200, "L", "1.2 kL"},
		{"deka prefix parsed", 5, "daL", "5 daL"},
		{"hecto prefix parsed", 3, "hL", "3 hL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSI(tt.value, tt.unit))
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m 30s"},
		{3600, "1h"},
		{3700, "1h 1m"},
		{3601, "1h"},
		{86400, "1d"},
		{90000, "1d 1h"},
		{0.5, "0.5s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.seconds), "Duration(%v)", tt.seconds)
	}
}
