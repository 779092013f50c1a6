package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobility-insights-go/internal/dataset"
	"mobility-insights-go/internal/logger"
	"mobility-insights-go/internal/processor"
	"mobility-insights-go/internal/types"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	records := []types.MovementRecord{
		{Date: "2020-03-01", Country: "X", RegionName: "A", MobilityChange: -0.2, StayHomeRatio: 0.5},
		{Date: "2020-03-01", Country: "X", RegionName: "B", MobilityChange: 0.0, StayHomeRatio: 0.3},
		{Date: "2020-03-02", Country: "X", RegionName: "A", MobilityChange: -0.3, StayHomeRatio: 0.6},
		{Date: "2020-03-02", Country: "Y", RegionName: "Q", MobilityChange: -0.4, StayHomeRatio: 0.4},
	}
	log := logger.NewWithOptions(logger.Options{Environment: "test", Output: &bytes.Buffer{}})
	store := dataset.NewStore(records)
	proc := processor.New(store, 16, log)
	return NewServer(proc, dataset.Summarize(records), log).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(logger.RequestIDHeader, "test-req")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCountriesAndRegions(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/countries")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-req", rec.Header().Get(logger.RequestIDHeader))
	var countries struct {
		Countries []string `json:"countries"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&countries))
	assert.Equal(t, []string{"X", "Y"}, countries.Countries)

	rec = get(t, h, "/regions?country=X")
	require.Equal(t, http.StatusOK, rec.Code)
	var regions struct {
		Regions []string `json:"regions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&regions))
	assert.Equal(t, []string{"A", "B"}, regions.Regions)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/regions").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/regions?country=Z").Code)
}

func TestSeriesEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/series?country=X&region=*&compare_country=Y&compare_region=Q")
	require.Equal(t, http.StatusOK, rec.Code)

	var res processor.SeriesResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.Len(t, res.Primary, 2)
	assert.Equal(t, "AVERAGE", res.Primary[0].BaselineType)
	assert.InDelta(t, -0.1, res.Primary[0].Mobility, 1e-9)
	require.NotNil(t, res.PrimaryStats)
	assert.Equal(t, "2020-03-01", res.PrimaryStats.Start)
	require.Len(t, res.Comparison, 2)
	assert.Nil(t, res.Comparison[0].SecondaryMobility)
	require.NotNil(t, res.Comparison[1].SecondaryMobility)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/series?country=X").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/series?country=Z&region=A").Code)
}

func TestSeriesPrimaryNullSerialization(t *testing.T) {
	h := newTestServer(t)
	rec := get(t, h, "/series?country=Y&region=Q&compare_country=X&compare_region=A")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Comparison []map[string]interface{} `json:"comparison"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	require.Len(t, raw.Comparison, 2)
	first := raw.Comparison[0]
	assert.Equal(t, "2020-03-01", first["date"])
	v, ok := first["primary_mobility"]
	assert.True(t, ok, "primary_mobility must be present as null")
	assert.Nil(t, v)
}

func TestCountryEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/country?country=X&compare_region=B&sort=avg_mobility&dir=desc")
	require.Equal(t, http.StatusOK, rec.Code)

	var res processor.CountryResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.NotNil(t, res.Aggregate)
	assert.Equal(t, 2, res.Aggregate.TotalRegions)
	require.Len(t, res.Matrix, 2)
	assert.Equal(t, "B", res.Matrix[0].Name)
	require.NotNil(t, res.Secondary)
	assert.Equal(t, 1, res.Secondary.TotalRegions)
	assert.Len(t, res.Comparison, 2)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/country?country=Z").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/country?country=X&sort=bogus").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/country").Code)
}

func TestSummaryEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t), "/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var ds dataset.DatasetSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ds))
	assert.Equal(t, 4, ds.TotalRecords)
	assert.Equal(t, 2, ds.Countries)
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/countries", nil)
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
