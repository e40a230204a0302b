package sampler

import (
	"fmt"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"scanplane3d/internal/models"
	"scanplane3d/pkg/config"
	"scanplane3d/pkg/geometry"
	"scanplane3d/pkg/interpolation"
	"scanplane3d/pkg/plane"
)

// Item pairs a volume with the stored ground-truth pose of its reference
// plane. Both are read-only while batches are generated.
type Item struct {
	Volume      *models.Volume
	GroundTruth geometry.Pose
}

// TrainingExample is one fully assembled training pair: the resampled
// slice image(s) and the four target tensors the downstream trainer
// consumes.
type TrainingExample struct {
	// Slices holds 1 or 3 plane images depending on the input-plane mode.
	Slices []*models.SliceImage

	// TranslationDiff is the length-3 translation regression target.
	TranslationDiff r3.Vec

	// RotationDiff is the length-4 quaternion regression target.
	RotationDiff quat.Number

	// ActionTranslation and ActionRotation are the one-hot length-6
	// classification targets.
	ActionTranslation [6]float64
	ActionRotation    [6]float64
}

// BatchGenerator assembles batches of training examples. Each batch slot
// runs the full pipeline (sample pose, build mesh, resample, label)
// independently; slots are filled in parallel by worker goroutines writing
// to disjoint indices. Slot i of batch b always draws from a generator
// seeded base+b*batchSize+i, so output is bit-identical for any worker
// count.
//
// A BatchGenerator is not safe for concurrent Batch calls; the parallelism
// lives inside a call.
type BatchGenerator struct {
	cfg      *config.Config
	items    []Item
	fill     interpolation.FillPolicy
	maxEuler [3]float64
	baseMesh *plane.Mesh
	nextSeed uint64
}

// NewBatchGenerator validates the configuration and prepares the shared
// mesh. It fails fast on any malformed configuration value.
func NewBatchGenerator(cfg *config.Config, items []Item) (*BatchGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one volume item is required")
	}

	fill, err := cfg.FillPolicy()
	if err != nil {
		return nil, err
	}

	rows, cols := cfg.Sampling.BoxSize[0], cfg.Sampling.BoxSize[1]
	var baseMesh *plane.Mesh
	if cfg.Sampling.InputPlanes == 1 {
		baseMesh, err = plane.NewMesh(rows, cols, plane.AxisZ)
	} else {
		baseMesh, err = plane.NewOrthoMesh(rows, cols)
	}
	if err != nil {
		return nil, err
	}

	return &BatchGenerator{
		cfg:      cfg,
		items:    items,
		fill:     fill,
		maxEuler: cfg.MaxEulerRad(),
		baseMesh: baseMesh,
		nextSeed: cfg.Sampling.Seed,
	}, nil
}

// Batch draws one batch of the configured size.
func (g *BatchGenerator) Batch() ([]*TrainingExample, error) {
	n := g.cfg.Processing.BatchSize
	base := g.nextSeed
	g.nextSeed += uint64(n)

	out := make([]*TrainingExample, n)
	errs := make([]error, n)

	numWorkers := g.cfg.Processing.NumWorkers
	if numWorkers > n {
		numWorkers = n
	}
	perWorker := (n + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > n {
			end = n
		}
		if start >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i], errs[i] = g.generate(base + uint64(i))
			}
		}(start, end)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("batch slot %d: %w", i, err)
		}
	}
	return out, nil
}

// generate runs the full pipeline for one batch slot with its own seeded
// generator.
func (g *BatchGenerator) generate(seed uint64) (*TrainingExample, error) {
	rng := rand.New(rand.NewSource(seed))

	item := g.items[rng.Intn(len(g.items))]

	ps, err := NewPoseSampler(item.Volume.Shape(), g.cfg.Sampling.TransFrac, g.maxEuler, rng)
	if err != nil {
		return nil, err
	}
	pose := ps.Sample()

	mesh, err := g.baseMesh.Transform(pose)
	if err != nil {
		return nil, err
	}

	slices, _, err := interpolation.NewResampler(item.Volume, g.fill).Slices(mesh)
	if err != nil {
		return nil, err
	}

	diff, err := ComputePoseDifference(pose, item.GroundTruth)
	if err != nil {
		return nil, err
	}

	return &TrainingExample{
		Slices:            slices,
		TranslationDiff:   diff.Translation,
		RotationDiff:      diff.Rotation,
		ActionTranslation: diff.ActionTranslation,
		ActionRotation:    diff.ActionRotation,
	}, nil
}
