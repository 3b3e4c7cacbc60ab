// Package analytics filters and aggregates facility records for the dashboard
// charts. All functions are pure and operate on small in-memory slices.
package analytics

import (
	"sort"

	"facilitydocs/internal/capacity"
	"facilitydocs/internal/model"
)

// Filter narrows a facility list. Zero values match everything.
type Filter struct {
	Country     string
	Status      model.FacilityStatus
	MinCapacity float64
}

// Matches reports whether f passes the filter.
func (flt Filter) Matches(f model.Facility) bool {
	if flt.Country != "" && f.Country != flt.Country {
		return false
	}
	if flt.Status != "" && f.Status != flt.Status {
		return false
	}
	if flt.MinCapacity > 0 && capacity.ParseMagnitude(f.Production) < flt.MinCapacity {
		return false
	}
	return true
}

// Apply returns the facilities matching flt, preserving order.
func Apply(facilities []model.Facility, flt Filter) []model.Facility {
	out := make([]model.Facility, 0, len(facilities))
	for _, f := range facilities {
		if flt.Matches(f) {
			out = append(out, f)
		}
	}
	return out
}

// Group is one slice of a breakdown chart.
type Group struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Stats summarizes a set of facilities.
type Stats struct {
	Total             int     `json:"total"`
	Operational       int     `json:"operational"`
	UnderConstruction int     `json:"under_construction"`
	TotalCapacity     float64 `json:"total_capacity"`
	ByStatus          []Group `json:"by_status"`
	ByCountry         []Group `json:"by_country"`
}

// Summarize computes dashboard statistics. Groups are sorted by descending count,
// then by key.
func Summarize(facilities []model.Facility) Stats {
	st := Stats{Total: len(facilities)}
	byStatus := map[string]int{}
	byCountry := map[string]int{}

	for _, f := range facilities {
		switch f.Status {
		case model.StatusOperational:
			st.Operational++
		case model.StatusConstruction:
			st.UnderConstruction++
		}
		st.TotalCapacity += capacity.ParseMagnitude(f.Production)
		byStatus[string(f.Status)]++
		byCountry[f.Country]++
	}

	st.ByStatus = groups(byStatus)
	st.ByCountry = groups(byCountry)
	return st
}

func groups(counts map[string]int) []Group {
	out := make([]Group, 0, len(counts))
	for k, n := range counts {
		out = append(out, Group{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
