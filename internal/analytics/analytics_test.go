package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"facilitydocs/internal/model"
)

func fixtures() []model.Facility {
	return []model.Facility{
		{ID: "1", Country: "Canada", Status: model.StatusOperational, Production: "10 000+ tonnes of black mass per year"},
		{ID: "2", Country: "Canada", Status: model.StatusOperational, Production: "10 000-20 000 tonnes of batteries per year"},
		{ID: "3", Country: "USA", Status: model.StatusOperational, Production: "N/A"},
		{ID: "4", Country: "USA", Status: model.StatusConstruction, Production: "60 GWh per year (planned)"},
		{ID: "5", Country: "Mexico", Status: model.StatusPlanned, Production: ""},
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{name: "no filter", filter: Filter{}, wantIDs: []string{"1", "2", "3", "4", "5"}},
		{name: "by country", filter: Filter{Country: "USA"}, wantIDs: []string{"3", "4"}},
		{name: "by status", filter: Filter{Status: model.StatusOperational}, wantIDs: []string{"1", "2", "3"}},
		{name: "by minimum capacity", filter: Filter{MinCapacity: 12_000}, wantIDs: []string{"2", "4"}},
		{name: "combined", filter: Filter{Country: "Canada", MinCapacity: 12_000}, wantIDs: []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(fixtures(), tt.filter)
			ids := make([]string, 0, len(got))
			for _, f := range got {
				ids = append(ids, f.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSummarize(t *testing.T) {
	st := Summarize(fixtures())

	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 3, st.Operational)
	assert.Equal(t, 1, st.UnderConstruction)
	assert.InDelta(t, 11_000+15_000+6_000_000, st.TotalCapacity, 1e-6)
	assert.Equal(t, []Group{
		{Key: "operational", Count: 3},
		{Key: "construction", Count: 1},
		{Key: "planned", Count: 1},
	}, st.ByStatus)
	assert.Equal(t, []Group{
		{Key: "Canada", Count: 2},
		{Key: "USA", Count: 2},
		{Key: "Mexico", Count: 1},
	}, st.ByCountry)
}

func TestSummarize_Empty(t *testing.T) {
	st := Summarize(nil)

	assert.Zero(t, st.Total)
	assert.Empty(t, st.ByStatus)
	assert.Empty(t, st.ByCountry)
}
