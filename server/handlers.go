package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sig-0/kpremium/series"
	"github.com/sig-0/kpremium/storage/types"
)

// maxWindow caps the moving average window
const maxWindow = 365

// defaultWindows are the moving average windows of a series response
var defaultWindows = []int{7, 30}

var (
	errUnableToFetchPremiums = errors.New("unable to fetch premiums")
	errUnableToFetchVenues   = errors.New("unable to fetch venues")

	errInvalidDate   = errors.New("invalid date (must be YYYY-MM-DD)")
	errInvalidWindow = errors.New("invalid moving average window")
	errEntryNotFound = errors.New("no entry for date")
	errEmptyDataset  = errors.New("dataset is empty")
)

// Premiums returns the dataset, optionally bounded by the from / to dates (inclusive)
func (s *Server) Premiums(w http.ResponseWriter, r *http.Request) {
	var (
		fromParam = strings.TrimSpace(r.URL.Query().Get("from"))
		toParam   = strings.TrimSpace(r.URL.Query().Get("to"))
	)

	if (fromParam != "" && !types.ValidDate(fromParam)) ||
		(toParam != "" && !types.ValidDate(toParam)) {
		writeError(w, http.StatusBadRequest, errInvalidDate)

		return
	}

	entries, ok := s.load(w, r)
	if !ok {
		return
	}

	results := make([]*types.DailyEntry, 0, len(entries))

	for _, e := range entries {
		if fromParam != "" && e.Date < fromParam {
			continue
		}

		if toParam != "" && e.Date > toParam {
			continue
		}

		results = append(results, e)
	}

	writeJSON(w, http.StatusOK, &PremiumsResponse{
		Results: results,
	})
}

// LatestPremium returns the most recent entry
func (s *Server) LatestPremium(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.load(w, r)
	if !ok {
		return
	}

	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, errEmptyDataset)

		return
	}

	writeJSON(w, http.StatusOK, entries[len(entries)-1])
}

// PremiumByDate returns the entry of a single day
func (s *Server) PremiumByDate(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(chi.URLParam(r, "date"))
	if !types.ValidDate(date) {
		writeError(w, http.StatusBadRequest, errInvalidDate)

		return
	}

	entry, err := s.storage.EntryByDate(r.Context(), date)
	if err != nil {
		s.logger.Debug(
			"unable to fetch entry",
			"date", date,
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchPremiums)

		return
	}

	if entry == nil {
		writeError(w, http.StatusNotFound, errEntryNotFound)

		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Venues returns every venue present in the dataset
func (s *Server) Venues(w http.ResponseWriter, r *http.Request) {
	venues, err := s.storage.ListVenues(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch venues",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchVenues)

		return
	}

	writeJSON(w, http.StatusOK, &VenuesResponse{
		Results: venues,
	})
}

// VenueSeries returns the chart series of a venue: points, moving averages and stats
func (s *Server) VenueSeries(w http.ResponseWriter, r *http.Request) {
	var (
		venue = types.Venue(strings.TrimSpace(chi.URLParam(r, "venue")))

		rangeParam  = r.URL.Query().Get("range")
		fieldParam  = r.URL.Query().Get("field")
		windowParam = r.URL.Query().Get("ma")
	)

	days, err := series.ParseRange(rangeParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	field, err := series.ParseField(fieldParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	windows, err := parseWindows(windowParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	entries, ok := s.load(w, r)
	if !ok {
		return
	}

	var (
		sliced = series.SliceByRange(entries, days)
		points = series.Points(sliced, venue, field)
		resp   = &SeriesResponse{
			Venue:          venue,
			Field:          field,
			Points:         points,
			MovingAverages: make(map[int][]series.Point, len(windows)),
			Stats:          series.BuildStats(sliced, venue, field),
		}
	)

	for _, window := range windows {
		resp.MovingAverages[window] = series.MovingAverage(points, window)
	}

	writeJSON(w, http.StatusOK, resp)
}

// load fetches the full dataset, writing the error response on failure
func (s *Server) load(w http.ResponseWriter, r *http.Request) ([]*types.DailyEntry, bool) {
	entries, err := s.storage.Load(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch premiums",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchPremiums)

		return nil, false
	}

	return entries, true
}

// parseWindows parses a comma separated list of moving average windows
func parseWindows(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultWindows, nil
	}

	if raw == "none" {
		return []int{}, nil
	}

	seen := make(map[int]struct{})

	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > maxWindow {
			return nil, errInvalidWindow
		}

		seen[n] = struct{}{}
	}

	windows := make([]int, 0, len(seen))
	for n := range seen {
		windows = append(windows, n)
	}

	sort.Ints(windows)

	return windows, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
