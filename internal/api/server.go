package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mobility-insights-go/internal/aggregator"
	"mobility-insights-go/internal/dataset"
	"mobility-insights-go/internal/logger"
	"mobility-insights-go/internal/processor"
)

// wholeCountryAlias lets clients avoid spelling out the sentinel.
const wholeCountryAlias = "*"

type Server struct {
	proc    *processor.Processor
	summary dataset.DatasetSummary
	log     *logger.Logger
}

func NewServer(proc *processor.Processor, summary dataset.DatasetSummary, log *logger.Logger) *Server {
	if log == nil {
		log = logger.New()
	}
	return &Server{proc: proc, summary: summary, log: log.Component("api")}
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /summary", s.datasetSummary)
	mux.HandleFunc("GET /countries", s.countries)
	mux.HandleFunc("GET /regions", s.regions)
	mux.HandleFunc("GET /series", s.series)
	mux.HandleFunc("GET /country", s.country)
	return s.withLogging(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(logger.RequestIDHeader) == "" {
			r.Header.Set(logger.RequestIDHeader, logger.RequestID(r))
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithRequest(r).WithFields(map[string]interface{}{
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request served")
	})
}

// NewHTTPServer wraps the handler with the service timeouts.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (s *Server) datasetSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.summary)
}

func (s *Server) countries(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"countries": s.proc.Store().Countries(),
	})
}

func (s *Server) regions(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		s.writeError(w, r, http.StatusBadRequest, processor.ErrMissingCountry)
		return
	}
	if !s.proc.Store().HasCountry(country) {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("unknown country %q", country))
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"country":       country,
		"whole_country": aggregator.WholeCountry,
		"regions":       s.proc.Store().Regions(country),
	})
}

func (s *Server) series(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := processor.SeriesQuery{
		Country:        q.Get("country"),
		Region:         regionParam(q.Get("region")),
		CompareCountry: q.Get("compare_country"),
		CompareRegion:  regionParam(q.Get("compare_region")),
	}
	if query.Country != "" && !s.proc.Store().HasCountry(query.Country) {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("unknown country %q", query.Country))
		return
	}
	res, err := s.proc.Series(query)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) country(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := processor.CountryQuery{
		Country:        q.Get("country"),
		CompareCountry: q.Get("compare_country"),
		CompareRegion:  q.Get("compare_region"),
		SortKey:        q.Get("sort"),
		SortDir:        q.Get("dir"),
	}
	res, err := s.proc.Country(query)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if res.Aggregate == nil {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("unknown country %q", query.Country))
		return
	}
	s.writeJSON(w, r, http.StatusOK, res)
}

func regionParam(v string) string {
	if v == wholeCountryAlias {
		return aggregator.WholeCountry
	}
	return v
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	entry := s.log.WithRequest(r).WithField("status", status)
	if status < 500 {
		entry.WithField("error", err.Error()).Warn("request rejected")
	} else {
		entry.WithField("error", err.Error()).Error("request failed")
	}
	s.writeJSON(w, r, status, errorBody{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(logger.RequestIDHeader, logger.RequestID(r))
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.WithRequest(r).WithField("error", err.Error()).Error("failed to write response")
	}
}
