package sim

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mlmc-sim/mlmc-sim/sim/trace"
)

// PriceEstimate is the result of a pricing run.
type PriceEstimate struct {
	Price  float64
	StdErr float64 // +Inf when some level has fewer than two samples

	// Levels holds the combined statistics per level, index = level.
	Levels []LevelStatistics
	// Plan is the allocation used for the additional batches; empty when the
	// pilot was degenerate or for plain Monte Carlo.
	Plan AllocationPlan
}

// TotalCost returns the cost spent on all levels.
func (e PriceEstimate) TotalCost() float64 {
	total := 0.0
	for _, s := range e.Levels {
		total += s.Cost
	}
	return total
}

// TotalSamples returns the number of samples over all levels.
func (e PriceEstimate) TotalSamples() int {
	total := 0
	for _, s := range e.Levels {
		total += s.N
	}
	return total
}

// Telescope combines independent per-level statistics into the MLMC estimate:
// price = sum_l mean_l and StdErr = sqrt(sum_l Var_l/N_l).
func Telescope(levels []LevelStatistics) PriceEstimate {
	price, variance := 0.0, 0.0
	for _, s := range levels {
		price += s.Mean()
		variance += s.MeanVariance()
	}
	return PriceEstimate{
		Price:  price,
		StdErr: math.Sqrt(variance),
		Levels: levels,
	}
}

// Engine runs MLMC pricing with deterministic, partitioned randomness.
// Safe for concurrent use.
type Engine struct {
	cfg   EngineConfig
	rng   *PartitionedRNG
	trace *trace.PricingTrace
}

// NewEngine creates an Engine. Zero-valued config fields take their defaults.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg: cfg,
		rng: NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}
	tc := trace.TraceConfig{Level: cfg.Trace}
	if tc.Enabled() {
		e.trace = trace.NewPricingTrace(tc)
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// Trace returns the run trace, or nil when tracing is disabled.
func (e *Engine) Trace() *trace.PricingTrace {
	return e.trace
}

// PriceAsian prices an arithmetic-average Asian call.
func (e *Engine) PriceAsian(m Market, strike float64, maxLevel int, eps float64) (PriceEstimate, error) {
	return e.Price(NewAsianParams(m, strike), maxLevel, eps)
}

// PriceBarrier prices an up-and-out barrier call, optionally with the
// Brownian-bridge crossing test.
func (e *Engine) PriceBarrier(m Market, strike, barrier float64, maxLevel int, eps float64, bridge bool) (PriceEstimate, error) {
	return e.Price(NewBarrierParams(m, strike, barrier, bridge), maxLevel, eps)
}

// Price runs pilot batches on levels 0..maxLevel, allocates additional samples
// for target accuracy eps, runs them, and returns the telescoping estimate over
// the pooled pilot and additional statistics.
//
// A pilot with fewer than two samples per level cannot be allocated; the pilot
// estimate is returned with an infinite standard error.
func (e *Engine) Price(params PricingParams, maxLevel int, eps float64) (PriceEstimate, error) {
	if err := params.Validate(); err != nil {
		return PriceEstimate{}, err
	}
	if err := validateLevel(maxLevel); err != nil {
		return PriceEstimate{}, err
	}
	if err := validateEps(eps); err != nil {
		return PriceEstimate{}, err
	}

	levels := maxLevel + 1
	pilotCounts := make([]int, levels)
	for l := range pilotCounts {
		pilotCounts[l] = e.cfg.PilotSamples
	}
	pilot, err := e.sampleLevels(params, SubsystemPilot, pilotCounts)
	if err != nil {
		return PriceEstimate{}, err
	}

	plan, err := Allocate(pilot, eps)
	if errors.Is(err, ErrDegenerateSample) {
		logrus.Warnf("pilot of %d samples per level is degenerate (%v); reporting pilot estimate", e.cfg.PilotSamples, err)
		est := Telescope(pilot)
		e.record(params, maxLevel, eps, pilot, make([]LevelStatistics, levels), est)
		return est, nil
	}
	if err != nil {
		return PriceEstimate{}, err
	}
	logrus.Debugf("%s maxLevel=%d eps=%g: optimal samples %v, additional %v",
		params.Contract.Kind, maxLevel, eps, plan.Optimal, plan.Additional)

	extra, err := e.sampleLevels(params, SubsystemExtra, plan.Additional)
	if err != nil {
		return PriceEstimate{}, err
	}
	combined := make([]LevelStatistics, levels)
	for l := range combined {
		combined[l] = pilot[l].Combine(extra[l])
	}
	est := Telescope(combined)
	est.Plan = plan
	logrus.Debugf("%s maxLevel=%d eps=%g: price=%.6f se=%.6f samples=%d",
		params.Contract.Kind, maxLevel, eps, est.Price, est.StdErr, est.TotalSamples())
	e.record(params, maxLevel, eps, pilot, extra, est)
	return est, nil
}

// SweepLevels draws a fixed nPaths samples on every level 0..maxLevel,
// without allocation. Used to measure per-level variance and cost decay.
func (e *Engine) SweepLevels(params PricingParams, maxLevel, nPaths int) (PriceEstimate, error) {
	if err := params.Validate(); err != nil {
		return PriceEstimate{}, err
	}
	if err := validateLevel(maxLevel); err != nil {
		return PriceEstimate{}, err
	}
	if err := validatePaths(nPaths); err != nil {
		return PriceEstimate{}, err
	}
	counts := make([]int, maxLevel+1)
	for l := range counts {
		counts[l] = nPaths
	}
	stats, err := e.sampleLevels(params, SubsystemSweep, counts)
	if err != nil {
		return PriceEstimate{}, err
	}
	est := Telescope(stats)
	e.record(params, maxLevel, 0, stats, make([]LevelStatistics, len(stats)), est)
	return est, nil
}

// sampleLevels draws counts[l] samples on each level l of one round.
func (e *Engine) sampleLevels(params PricingParams, subsystem string, counts []int) ([]LevelStatistics, error) {
	jobs := make([]batchJob, len(counts))
	for l, n := range counts {
		jobs[l] = batchJob{key: l, n: n}
	}
	return e.sampleChunked(subsystem, jobs, func(level int) *pathSampler {
		return newLevelSampler(params, level)
	})
}

// batchJob asks for n samples from the streams keyed by key (the level, or
// the step count for plain Monte Carlo).
type batchJob struct {
	key int
	n   int
}

// maxChunks bounds the chunk statistics held by one sampling round.
const maxChunks = 1 << 22

// sampleChunked splits every job into chunks of ChunkSize, draws each chunk
// from its own stream on a bounded errgroup, and folds the chunk statistics of
// every job in chunk order. The fold order makes the result independent of
// scheduling. Results are aligned with jobs.
func (e *Engine) sampleChunked(subsystem string, jobs []batchJob, newSampler func(key int) *pathSampler) ([]LevelStatistics, error) {
	chunkSize := e.cfg.ChunkSize
	total := 0
	for _, job := range jobs {
		total += (job.n + chunkSize - 1) / chunkSize
	}
	if total > maxChunks {
		return nil, invalidf("%d chunks of %d samples exceed the limit of %d; raise chunk_size or loosen eps", total, chunkSize, maxChunks)
	}
	chunks := make([][]LevelStatistics, len(jobs))
	for j, job := range jobs {
		chunks[j] = make([]LevelStatistics, (job.n+chunkSize-1)/chunkSize)
	}

	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for j, job := range jobs {
		for c := range chunks[j] {
			size := min(chunkSize, job.n-c*chunkSize)
			g.Go(func() error {
				src := e.rng.ForStream(StreamID{Subsystem: subsystem, Level: job.key, Chunk: c})
				chunks[j][c] = newSampler(job.key).run(size, src, e.cfg.CostModel)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]LevelStatistics, len(jobs))
	for j := range jobs {
		out[j] = CombineAll(chunks[j]...)
	}
	return out, nil
}

func (e *Engine) record(params PricingParams, maxLevel int, eps float64, pilot, extra []LevelStatistics, est PriceEstimate) {
	if e.trace == nil {
		return
	}
	levels := make([]trace.LevelRecord, len(est.Levels))
	for l, s := range est.Levels {
		v, err := s.Variance()
		if err != nil {
			v = math.NaN()
		}
		levels[l] = trace.LevelRecord{
			Level:         l,
			PilotSamples:  pilot[l].N,
			ExtraSamples:  extra[l].N,
			Mean:          s.Mean(),
			Variance:      v,
			CostPerSample: s.CostPerSample(),
		}
	}
	e.trace.RecordRun(trace.RunRecord{
		Kind:     string(params.Contract.Kind),
		MaxLevel: maxLevel,
		Eps:      eps,
		Price:    est.Price,
		StdErr:   est.StdErr,
		Levels:   levels,
	})
}
