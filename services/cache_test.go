package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"mcc-sewer-dashboard/metrics"
	"mcc-sewer-dashboard/models"
	"mcc-sewer-dashboard/preprocessing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func countingCache(reg *metrics.Registry, release <-chan struct{}) (*DatasetCache, *atomic.Int32) {
	var loads atomic.Int32
	c := NewDatasetCache(preprocessing.DefaultOptions(), reg, nil)
	c.load = func() *models.Dataset {
		loads.Add(1)
		if release != nil {
			<-release
		}
		return &models.Dataset{ManholeSource: models.SourceSynthetic, Manholes: make([]models.Manhole, 3)}
	}
	return c, &loads
}

func TestDatasetCacheMemoizes(t *testing.T) {
	reg := metrics.NewRegistry()
	c, loads := countingCache(reg, nil)

	a, err := c.Get(context.Background())
	require.NoError(t, err)
	b, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, int32(1), loads.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.DatasetLoadsTotal.WithLabelValues("synthetic")))
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.DatasetManholes))
}

func TestDatasetCacheCollapsesConcurrentLoads(t *testing.T) {
	release := make(chan struct{})
	c, loads := countingCache(nil, release)

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*models.Dataset, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := c.Get(context.Background())
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	// let the callers pile up behind the first load
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
}

func TestDatasetCacheInvalidate(t *testing.T) {
	reg := metrics.NewRegistry()
	c, loads := countingCache(reg, nil)

	first, err := c.Get(context.Background())
	require.NoError(t, err)
	c.Invalidate()
	second, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), loads.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheInvalidations))
}

func TestDatasetCacheHonoursContext(t *testing.T) {
	release := make(chan struct{})
	c, _ := countingCache(nil, release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// the shared load still completes and is cached
	close(release)
	require.Eventually(t, func() bool {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.dataset != nil
	}, time.Second, 5*time.Millisecond)
}

func TestDatasetCacheRealLoader(t *testing.T) {
	c := NewDatasetCache(preprocessing.DefaultOptions(), nil, nil)
	ds, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Manholes, 200)
	assert.Len(t, ds.Pipes, 150)
}

func TestDatasetCacheInvalidateDuringLoad(t *testing.T) {
	release := make(chan struct{})
	c, loads := countingCache(nil, release)

	done := make(chan *models.Dataset)
	go func() {
		ds, err := c.Get(context.Background())
		assert.NoError(t, err)
		done <- ds
	}()
	require.Eventually(t, func() bool { return loads.Load() == 1 }, time.Second, time.Millisecond)

	c.Invalidate()
	close(release)
	stale := <-done

	fresh, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh)
	assert.Equal(t, int32(2), loads.Load())

	again, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, fresh, again)
}
