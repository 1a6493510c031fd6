package server

import (
	"github.com/sig-0/kpremium/series"
	"github.com/sig-0/kpremium/storage/types"
)

type PremiumsResponse struct {
	Results []*types.DailyEntry `json:"results"`
}

type VenuesResponse struct {
	Results []types.Venue `json:"results"`
}

type SeriesResponse struct {
	MovingAverages map[int][]series.Point `json:"moving_averages"`
	Stats          *series.Stats          `json:"stats"`
	Venue          types.Venue            `json:"venue"`
	Field          series.Field           `json:"field"`
	Points         []series.Point         `json:"points"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
