package dataset

import (
	"sort"

	"mobility-insights-go/internal/types"
)

// Store holds the loaded records plus the unique-value lookups. It is
// read-only after NewStore, so concurrent readers need no locking.
type Store struct {
	records   []types.MovementRecord
	countries []string
	regions   map[string][]string
}

func NewStore(records []types.MovementRecord) *Store {
	seen := map[string]map[string]bool{}
	for _, r := range records {
		m, ok := seen[r.Country]
		if !ok {
			m = map[string]bool{}
			seen[r.Country] = m
		}
		if r.RegionName != "" {
			m[r.RegionName] = true
		}
	}

	s := &Store{
		records:   records,
		countries: make([]string, 0, len(seen)),
		regions:   make(map[string][]string, len(seen)),
	}
	for country, m := range seen {
		s.countries = append(s.countries, country)
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		s.regions[country] = names
	}
	sort.Strings(s.countries)
	return s
}

// Records returns the full collection. Callers must not modify it.
func (s *Store) Records() []types.MovementRecord {
	return s.records
}

func (s *Store) Len() int {
	return len(s.records)
}

// Countries returns the sorted unique countries.
func (s *Store) Countries() []string {
	out := make([]string, len(s.countries))
	copy(out, s.countries)
	return out
}

// Regions returns the sorted unique region names of a country, empty when
// the country is unknown.
func (s *Store) Regions(country string) []string {
	names := s.regions[country]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func (s *Store) HasCountry(country string) bool {
	_, ok := s.regions[country]
	return ok
}

func (s *Store) HasRegion(country, region string) bool {
	names := s.regions[country]
	i := sort.SearchStrings(names, region)
	return i < len(names) && names[i] == region
}
