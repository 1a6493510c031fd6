package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/kpremium/storage/mock"
	"github.com/sig-0/kpremium/storage/types"
)

func testDataset() []*types.DailyEntry {
	return []*types.DailyEntry{
		{
			Date: "2024-06-01",
			Premiums: map[types.Venue]*types.PremiumRecord{
				types.VenueUpbit:   {KRW: 3_000_000, Pct: 3.0612},
				types.VenueBithumb: nil,
			},
			Meta: &types.Meta{
				USDKRW:       1_400,
				GlobalBTCUSD: 70_000,
				GlobalBTCKRW: 98_000_000,
				GlobalSource: "coinbase",
			},
		},
		{
			Date: "2024-06-02",
			Premiums: map[types.Venue]*types.PremiumRecord{
				types.VenueUpbit:   {KRW: 1_000_000, Pct: 1.0204},
				types.VenueBithumb: {KRW: 2_000_000, Pct: 2.0408},
			},
		},
		{
			Date: "2024-06-03",
			Premiums: map[types.Venue]*types.PremiumRecord{
				types.VenueUpbit:   {KRW: 2_000_000, Pct: 2.0408},
				types.VenueBithumb: {KRW: 1_000_000, Pct: 1.0204},
			},
		},
	}
}

func datasetStorage() *mock.Storage {
	return &mock.Storage{
		LoadFn: func(context.Context) ([]*types.DailyEntry, error) {
			return testDataset(), nil
		},
	}
}

func newTestServer(t *testing.T, storage *mock.Storage) *Server {
	t.Helper()

	s, err := New(storage)
	require.NoError(t, err)

	return s
}

func serveRequest(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()

	s.mux.ServeHTTP(w, req)

	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T

	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))

	return out
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	w := serveRequest(t, newTestServer(t, &mock.Storage{}), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlers_Premiums(t *testing.T) {
	t.Parallel()

	t.Run("full dataset", func(t *testing.T) {
		t.Parallel()

		w := serveRequest(t, newTestServer(t, datasetStorage()), "/v1/premiums")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeJSON[PremiumsResponse](t, w)
		require.Len(t, resp.Results, 3)

		assert.Equal(t, testDataset()[0], resp.Results[0])
	})

	t.Run("date bounds", func(t *testing.T) {
		t.Parallel()

		w := serveRequest(t, newTestServer(t, datasetStorage()), "/v1/premiums?from=2024-06-02&to=2024-06-02")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeJSON[PremiumsResponse](t, w)
		require.Len(t, resp.Results, 1)

		assert.Equal(t, "2024-06-02", resp.Results[0].Date)
	})

	t.Run("invalid bound", func(t *testing.T) {
		t.Parallel()

		var called bool

		storage := &mock.Storage{
			LoadFn: func(context.Context) ([]*types.DailyEntry, error) {
				called = true

				return nil, nil
			},
		}

		w := serveRequest(t, newTestServer(t, storage), "/v1/premiums?from=06-01-2024")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)
	})

	t.Run("storage error", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			LoadFn: func(context.Context) ([]*types.DailyEntry, error) {
				return nil, errors.New("boom")
			},
		}

		w := serveRequest(t, newTestServer(t, storage), "/v1/premiums")
		require.Equal(t, http.StatusInternalServerError, w.Code)

		resp := decodeJSON[ErrorResponse](t, w)

		assert.Equal(t, errUnableToFetchPremiums.Error(), resp.Error)
	})
}

func TestHandlers_LatestPremium(t *testing.T) {
	t.Parallel()

	t.Run("latest entry", func(t *testing.T) {
		t.Parallel()

		w := serveRequest(t, newTestServer(t, datasetStorage()), "/v1/premiums/latest")
		require.Equal(t, http.StatusOK, w.Code)

		entry := decodeJSON[types.DailyEntry](t, w)

		assert.Equal(t, "2024-06-03", entry.Date)
	})

	t.Run("empty dataset", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			LoadFn: func(context.Context) ([]*types.DailyEntry, error) {
				return []*types.DailyEntry{}, nil
			},
		}

		w := serveRequest(t, newTestServer(t, storage), "/v1/premiums/latest")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandlers_PremiumByDate(t *testing.T) {
	t.Parallel()

	storage := &mock.Storage{
		EntryByDateFn: func(_ context.Context, date string) (*types.DailyEntry, error) {
			for _, e := range testDataset() {
				if e.Date == date {
					return e, nil
				}
			}

			return nil, nil
		},
	}

	t.Run("existing day", func(t *testing.T) {
		t.Parallel()

		w := serveRequest(t, newTestServer(t, storage), "/v1/premiums/2024-06-01")
		require.Equal(t, http.StatusOK, w.Code)

		entry := decodeJSON[types.DailyEntry](t, w)

		assert.Equal(t, testDataset()[0], &entry)
	})

	t.Run("missing day", func(t *testing.T) {
		t.Parallel()

		w := serveRequest(t, newTestServer(t, storage), "/v1/premiums/2023-01-01")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid date", func(t *testing.T) {
		t.Parallel()

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/premiums/2024-13-01", http.NoBody)
		req = withRouteParams(t, req, map[string]string{
			"date": "2024-13-01",
		})

		w := httptest.NewRecorder()
		s.PremiumByDate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandlers_Venues(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			ListVenuesFn: func(context.Context) ([]types.Venue, error) {
				return []types.Venue{types.VenueBithumb, types.VenueUpbit}, nil
			},
		}

		w := serveRequest(t, newTestServer(t, storage), "/v1/venues")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeJSON[VenuesResponse](t, w)

		assert.Equal(t, []types.Venue{types.VenueBithumb, types.VenueUpbit}, resp.Results)
	})

	t.Run("storage error", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			ListVenuesFn: func(context.Context) ([]types.Venue, error) {
				return nil, errors.New("boom")
			},
		}

		w := serveRequest(t, newTestServer(t, storage), "/v1/venues")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandlers_VenueSeries(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		w := serveRequest(t, newTestServer(t, datasetStorage()), "/v1/venues/bithumb/series")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeJSON[SeriesResponse](t, w)

		assert.Equal(t, types.VenueBithumb, resp.Venue)
		assert.Equal(t, "krw", string(resp.Field))

		// The null day is a gap
		require.Len(t, resp.Points, 2)
		assert.Equal(t, "2024-06-02", resp.Points[0].Date)

		require.Contains(t, resp.MovingAverages, 7)
		require.Contains(t, resp.MovingAverages, 30)
		assert.Equal(t, 1_500_000.0, resp.MovingAverages[7][1].Value)

		require.NotNil(t, resp.Stats.Latest)
		assert.Equal(t, 1_000_000.0, *resp.Stats.Latest)
		assert.Equal(t, -1_000_000.0, *resp.Stats.Change)
		assert.Equal(t, "2024-06-03", resp.Stats.LatestDate)
	})

	t.Run("range and field", func(t *testing.T) {
		t.Parallel()

		w := serveRequest(t, newTestServer(t, datasetStorage()), "/v1/venues/upbit/series?range=2&field=pct&ma=2")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeJSON[SeriesResponse](t, w)

		require.Len(t, resp.Points, 2)
		assert.Equal(t, 1.0204, resp.Points[0].Value)
		assert.Equal(t, 2.0408, resp.Points[1].Value)

		assert.Len(t, resp.MovingAverages, 1)
		require.NotNil(t, resp.Stats.Prev)
		assert.Equal(t, 1.0204, *resp.Stats.Prev)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, datasetStorage())

		for _, target := range []string{
			"/v1/venues/upbit/series?range=week",
			"/v1/venues/upbit/series?field=usd",
			"/v1/venues/upbit/series?ma=0",
			"/v1/venues/upbit/series?ma=7,x",
		} {
			w := serveRequest(t, s, target)

			assert.Equal(t, http.StatusBadRequest, w.Code, target)
		}
	})
}

func TestUtils_ParseWindows(t *testing.T) {
	t.Parallel()

	t.Run("default", func(t *testing.T) {
		t.Parallel()

		windows, err := parseWindows("")
		require.NoError(t, err)

		assert.Equal(t, []int{7, 30}, windows)
	})

	t.Run("deduplicated and sorted", func(t *testing.T) {
		t.Parallel()

		windows, err := parseWindows("30, 7,30")
		require.NoError(t, err)

		assert.Equal(t, []int{7, 30}, windows)
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		windows, err := parseWindows("none")
		require.NoError(t, err)

		assert.Empty(t, windows)
	})

	t.Run("out of bounds", func(t *testing.T) {
		t.Parallel()

		_, err := parseWindows("1000")

		assert.ErrorIs(t, err, errInvalidWindow)
	})
}

func withRouteParams(t *testing.T, req *http.Request, params map[string]string) *http.Request {
	t.Helper()

	rctx := chi.NewRouteContext()

	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
