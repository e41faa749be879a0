package store

import (
	"context"
	"net/http"

	"ferreadmin/internal/api"
)

// ProductStats fetches the chart series for the statistics screen.
func (r *Remote) ProductStats(ctx context.Context) (*api.ProductStats, error) {
	var stats api.ProductStats
	if err := r.doJSON(ctx, http.MethodGet, "/stats/productos", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
