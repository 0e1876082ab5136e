package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mcc-sewer-dashboard/models"
)

// DashboardService opens sessions over the cached dataset.
type DashboardService struct {
	cache *DatasetCache
	log   *zap.Logger
}

func NewDashboardService(cache *DatasetCache, log *zap.Logger) *DashboardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{cache: cache, log: log}
}

// Session validates the global filter and narrows the dataset with it.
func (ds *DashboardService) Session(ctx context.Context, filter models.GlobalFilter) (*Session, error) {
	if err := ValidateRequest(filter); err != nil {
		return nil, err
	}
	dataset, err := ds.cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return NewSession(dataset, filter), nil
}

// Refresh drops the cached dataset so the next session reloads it.
func (ds *DashboardService) Refresh() {
	ds.cache.Invalidate()
}
