package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMagnitude(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "empty", text: "", want: 0},
		{name: "not available", text: "N/A", want: 0},
		{name: "million", text: "1 million EVs per year (planned)", want: 1_000_000},
		{name: "million with decimal comma", text: "1,5 million de VE par an", want: 1_500_000},
		{name: "gigawatt hours", text: "60 GWh per year (planned)", want: 6_000_000},
		{name: "tonnes with trailing plus", text: "10 000+ tonnes of black mass per year", want: 11_000},
		{name: "tonnes range", text: "10 000-20 000 tonnes of batteries per year", want: 15_000},
		{name: "range with grouped upper bound", text: "600-1 100 tonnes of pCAM per year", want: 850},
		{name: "kilotonnes", text: "25 kt/year", want: 25_000},
		{name: "kilotonnes spelled out", text: "3 kilotonnes", want: 3_000},
		{name: "plain number", text: "3500", want: 3_500},
		{name: "plain number with plus", text: "200+", want: 220},
		{name: "small value floored", text: "5 tonnes", want: MinMagnitude},
		{name: "no digits floored", text: "to be announced", want: MinMagnitude},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseMagnitude(tt.text), 1e-6)
		})
	}
}

func TestMarkerSize(t *testing.T) {
	tests := []struct {
		magnitude float64
		want      int
	}{
		{0, 6},
		{99, 6},
		{100, 8},
		{9_999, 12},
		{10_000, 18},
		{250_000, 22},
		{1_000_000, 24},
		{6_000_000, 24},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MarkerSize(tt.magnitude), "magnitude %v", tt.magnitude)
	}
}
