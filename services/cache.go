package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"mcc-sewer-dashboard/metrics"
	"mcc-sewer-dashboard/models"
	"mcc-sewer-dashboard/preprocessing"
)

// DatasetCache memoizes the loaded dataset for the life of the process.
// Concurrent cold loads share one load; Invalidate forces the next Get to
// reload.
type DatasetCache struct {
	mu      sync.RWMutex
	dataset *models.Dataset
	// generation is bumped by Invalidate; a load started under an older
	// generation is never stored.
	generation uint64
	group      singleflight.Group

	load    func() *models.Dataset
	metrics *metrics.Registry
	log     *zap.Logger
}

func NewDatasetCache(opts preprocessing.Options, reg *metrics.Registry, log *zap.Logger) *DatasetCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &DatasetCache{
		load:    func() *models.Dataset { return preprocessing.LoadDataset(opts, log) },
		metrics: reg,
		log:     log,
	}
}

// Get returns the cached dataset, loading it on first use. The returned
// dataset is shared and must not be modified.
func (c *DatasetCache) Get(ctx context.Context) (*models.Dataset, error) {
	c.mu.RLock()
	ds := c.dataset
	c.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	ch := c.group.DoChan("dataset", func() (interface{}, error) {
		c.mu.RLock()
		cached, gen := c.dataset, c.generation
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		start := time.Now()
		loaded := c.load()
		elapsed := time.Since(start)

		c.mu.Lock()
		stale := gen != c.generation
		if !stale {
			c.dataset = loaded
		}
		c.mu.Unlock()
		if stale {
			c.log.Info("discarding dataset loaded before invalidation")
			return loaded, nil
		}

		if c.metrics != nil {
			c.metrics.RecordDatasetLoad(string(loaded.ManholeSource), len(loaded.Manholes), len(loaded.Pipes), elapsed)
		}
		c.log.Info("dataset loaded",
			zap.String("manhole_source", string(loaded.ManholeSource)),
			zap.String("pipe_source", string(loaded.PipeSource)),
			zap.Int("manholes", len(loaded.Manholes)),
			zap.Int("pipes", len(loaded.Pipes)),
			zap.Duration("elapsed", elapsed),
		)
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Dataset), nil
	}
}

// Invalidate drops the cached dataset.
func (c *DatasetCache) Invalidate() {
	c.mu.Lock()
	c.dataset = nil
	c.generation++
	c.mu.Unlock()
	// callers arriving after this point start a fresh load
	c.group.Forget("dataset")
	if c.metrics != nil {
		c.metrics.CacheInvalidations.Inc()
	}
	c.log.Info("dataset cache invalidated")
}
