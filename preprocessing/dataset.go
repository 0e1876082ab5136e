package preprocessing

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"mcc-sewer-dashboard/generators"
	"mcc-sewer-dashboard/models"
)

// Options select the source tables and the sizes of any synthetic
// substitute.
type Options struct {
	ManholeFile       string
	PipeFile          string
	Seed              uint64
	SyntheticManholes int
	SyntheticPipes    int
	SourcePipeLimit   int
}

// DefaultOptions select the 200 manhole / 150 pipe synthetic dataset.
func DefaultOptions() Options {
	return Options{
		Seed:              42,
		SyntheticManholes: generators.DefaultManholeCount,
		SyntheticPipes:    generators.DefaultPipeCount,
		SourcePipeLimit:   generators.SourcePipeLimit,
	}
}

// LoadDataset builds the manhole and pipe tables. It never fails: a missing
// source file silently selects the synthetic path, any other read error
// adds a warning and falls back to it.
func LoadDataset(opts Options, log *zap.Logger) *models.Dataset {
	if log == nil {
		log = zap.NewNop()
	}
	streams := generators.NewStreams(opts.Seed)
	ds := &models.Dataset{Seed: opts.Seed, LoadedAt: time.Now().UTC()}

	manholes, err := readOptional(opts.ManholeFile, LoadManholeFile)
	switch {
	case err == nil && manholes != nil:
		ds.Manholes = generators.PlaceOnGrid(streams.Stream(generators.StageCoordinates), manholes)
		ds.ManholeSource = models.SourceFile
		log.Info("loaded manhole table", zap.String("file", opts.ManholeFile), zap.Int("rows", len(ds.Manholes)))
	default:
		ds.ManholeSource = models.SourceSynthetic
		if err != nil {
			ds.ManholeSource = models.SourceFallback
			ds.Warnings = append(ds.Warnings, fmt.Sprintf("Error loading manhole data: %v", err))
			log.Warn("manhole table unusable, using synthetic data", zap.String("file", opts.ManholeFile), zap.Error(err))
		}
		ds.Manholes = generators.SyntheticManholes(streams.Stream(generators.StageManholes), opts.SyntheticManholes)
	}

	records, err := readOptional(opts.PipeFile, LoadPipeFile)
	network := generators.SyntheticNetwork(opts.SyntheticPipes)
	switch {
	case err == nil && records != nil:
		network = generators.SourceNetwork(len(records), opts.SourcePipeLimit)
		ds.SourcePipes = records
		ds.PipeSource = models.SourceFile
		log.Info("regenerating network from pipe table", zap.String("file", opts.PipeFile), zap.Int("rows", len(records)), zap.Int("pipes", network.Count))
	default:
		ds.PipeSource = models.SourceSynthetic
		if err != nil {
			ds.PipeSource = models.SourceFallback
			ds.Warnings = append(ds.Warnings, fmt.Sprintf("Error loading pipe data: %v", err))
			log.Warn("pipe table unusable, using synthetic network", zap.String("file", opts.PipeFile), zap.Error(err))
		}
	}
	ds.Pipes = generators.BuildNetwork(streams.Stream(generators.StagePipes), ds.Manholes, network)

	return ds
}

// readOptional loads path when set. Missing files and empty paths return a
// nil result with no error.
func readOptional[T any](path string, load func(string) ([]T, error)) ([]T, error) {
	if path == "" {
		return nil, nil
	}
	rows, err := load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
