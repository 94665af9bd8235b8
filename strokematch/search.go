package strokematch

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTrials is number of candidates evaluated by a single search run
	DefaultTrials = 100_000
	// DefaultInitialStep is perturbation step at the start of a run
	DefaultInitialStep = 1.0
	// DefaultStepDecay keeps step constant: accepted candidates do not shrink it
	DefaultStepDecay = 1.0

	// Relative perturbation magnitudes. Translation needs much coarser exploration than scale
	DefaultScaleMultiplier     = 1.0
	DefaultTranslateMultiplier = 100.0
	DefaultAngleMultiplier     = 10.0

	defaultBatchSize        = 256
	defaultProgressInterval = 1000
)

// Progress is a snapshot of a running search
type Progress struct {
	Trial     int
	Trials    int
	Best      Transform
	BestScore float64
	Step      float64
}

// ProgressFunc receives progress snapshots. It is called from the goroutine running Search
type ProgressFunc func(Progress)

// SearchResult is the best transform found by a search run
type SearchResult struct {
	Transform Transform `json:"transform"`
	Score     float64   `json:"score"`
	// Number of evaluated candidates (identity is not counted)
	Trials int `json:"trials"`
	// Number of candidates which became new best
	Accepted int `json:"accepted"`
	// Step size at the end of the run
	Step float64 `json:"step"`
}

// Searcher is a greedy stochastic hill-climber over Transform parameters.
// Searcher itself is immutable after construction and could be shared between goroutines
type Searcher struct {
	scorer *Scorer
	// Number of trials per run. Default is 100000
	trials int
	// Initial step. Default is 1.0
	initialStep float64
	// Step multiplier applied on every accepted candidate. Default is 1.0 (constant step)
	stepDecay float64

	scaleMultiplier     float64
	translateMultiplier float64
	angleMultiplier     float64

	// Seed for PCG source. Zero-valued seeded=false means seed from clock on every run
	seed   uint64
	seeded bool

	// Number of parallel workers. Default is 1 (sequential search)
	workers int
	// Candidates evaluated by each worker per round in parallel mode
	batchSize int

	progress         ProgressFunc
	progressInterval int
}

// SearchOption customizes Searcher
type SearchOption func(*Searcher)

// WithTrials sets number of trials per run
func WithTrials(trials int) SearchOption {
	return func(searcher *Searcher) {
		searcher.trials = trials
	}
}

// WithInitialStep sets step size at the start of each run
func WithInitialStep(step float64) SearchOption {
	return func(searcher *Searcher) {
		searcher.initialStep = step
	}
}

// WithStepDecay sets multiplier (0, 1] applied to the step each time a better candidate is accepted
func WithStepDecay(decay float64) SearchOption {
	return func(searcher *Searcher) {
		searcher.stepDecay = decay
	}
}

// WithMultipliers sets relative perturbation magnitudes for scale, translate and rotate/slant/tilt parameters
func WithMultipliers(scale, translate, angle float64) SearchOption {
	return func(searcher *Searcher) {
		searcher.scaleMultiplier = scale
		searcher.translateMultiplier = translate
		searcher.angleMultiplier = angle
	}
}

// WithSeed makes runs reproducible
func WithSeed(seed uint64) SearchOption {
	return func(searcher *Searcher) {
		searcher.seed = seed
		searcher.seeded = true
	}
}

// WithDetail sets number of samples per stroke used for scoring candidates
func WithDetail(detail int) SearchOption {
	return func(searcher *Searcher) {
		searcher.scorer = &Scorer{detail: detail}
	}
}

// WithWorkers enables parallel search. Each worker evaluates batchSize candidates per round
func WithWorkers(workers, batchSize int) SearchOption {
	return func(searcher *Searcher) {
		searcher.workers = workers
		searcher.batchSize = batchSize
	}
}

// WithProgress registers callback invoked every interval trials and once at the end of a run
func WithProgress(interval int, fn ProgressFunc) SearchOption {
	return func(searcher *Searcher) {
		searcher.progressInterval = interval
		searcher.progress = fn
	}
}

// NewSearcherDefault creates searcher with default parameters
func NewSearcherDefault() *Searcher {
	return &Searcher{
		scorer:              NewScorerDefault(),
		trials:              DefaultTrials,
		initialStep:         DefaultInitialStep,
		stepDecay:           DefaultStepDecay,
		scaleMultiplier:     DefaultScaleMultiplier,
		translateMultiplier: DefaultTranslateMultiplier,
		angleMultiplier:     DefaultAngleMultiplier,
		workers:             1,
		batchSize:           defaultBatchSize,
		progressInterval:    defaultProgressInterval,
	}
}

// NewSearcher creates searcher with default parameters overridden by given options
func NewSearcher(opts ...SearchOption) (*Searcher, error) {
	searcher := NewSearcherDefault()
	for _, opt := range opts {
		opt(searcher)
	}
	if searcher.trials < 1 {
		return nil, errors.Wrapf(ErrInvalidParameters, "number of trials must be positive, got %d", searcher.trials)
	}
	if !(searcher.initialStep > 0) || !isFinite(searcher.initialStep) {
		return nil, errors.Wrapf(ErrInvalidParameters, "initial step must be positive, got %v", searcher.initialStep)
	}
	if !(searcher.stepDecay > 0 && searcher.stepDecay <= 1) {
		return nil, errors.Wrapf(ErrInvalidParameters, "step decay must be in (0, 1], got %v", searcher.stepDecay)
	}
	for _, m := range []float64{searcher.scaleMultiplier, searcher.translateMultiplier, searcher.angleMultiplier} {
		if m < 0 || !isFinite(m) {
			return nil, errors.Wrapf(ErrInvalidParameters, "perturbation multiplier must be non-negative, got %v", m)
		}
	}
	if searcher.scorer.detail < 2 {
		return nil, errors.Wrapf(ErrInvalidParameters, "detail level must be at least 2, got %d", searcher.scorer.detail)
	}
	if searcher.workers < 1 || searcher.batchSize < 1 {
		return nil, errors.Wrapf(ErrInvalidParameters, "workers and batch size must be positive, got %d and %d", searcher.workers, searcher.batchSize)
	}
	if searcher.progressInterval < 1 {
		return nil, errors.Wrapf(ErrInvalidParameters, "progress interval must be positive, got %d", searcher.progressInterval)
	}
	return searcher, nil
}

// Scorer returns scorer used to evaluate candidates
func (searcher *Searcher) Scorer() *Scorer {
	return searcher.scorer
}

// searchState is the single "current best" cell owned by the search loop
type searchState struct {
	best      Transform
	bestScore float64
	step      float64
	accepted  int
}

func (state *searchState) accept(candidate Transform, score, decay float64) {
	state.best = candidate
	state.bestScore = score
	state.step *= decay
	state.accepted++
}

type candidateResult struct {
	transform Transform
	score     float64
}

// Search looks for the Transform minimizing score between transformed reference and user strokes.
// It starts from identity and runs a fixed number of trials, checking ctx between trials.
// Best score never increases during a run; global optimum is not guaranteed.
func (searcher *Searcher) Search(ctx context.Context, reference, user []Stroke) (*SearchResult, error) {
	userParts, err := searcher.scorer.prepare(len(reference), user)
	if err != nil {
		return nil, errors.Wrap(err, "can't start search")
	}
	identity := IdentityTransform()
	identityScore, err := searcher.evaluate(identity, reference, userParts)
	if err != nil {
		return nil, errors.Wrap(err, "can't score identity transform")
	}
	state := searchState{
		best:      identity,
		bestScore: identityScore,
		step:      searcher.initialStep,
	}
	seed := searcher.seed
	if !searcher.seeded {
		seed = uint64(time.Now().UnixNano())
	}
	Logger().Info("transform search started",
		"strokes", len(reference),
		"trials", searcher.trials,
		"workers", searcher.workers,
		"identity_score", identityScore,
	)
	started := time.Now()
	if searcher.workers > 1 {
		err = searcher.runParallel(ctx, seed, &state, reference, userParts)
	} else {
		err = searcher.run(ctx, seed, &state, reference, userParts)
	}
	if err != nil {
		return nil, err
	}
	Logger().Info("transform search finished",
		"score", state.bestScore,
		"accepted", state.accepted,
		"elapsed", time.Since(started),
	)
	return &SearchResult{
		Transform: state.best,
		Score:     state.bestScore,
		Trials:    searcher.trials,
		Accepted:  state.accepted,
		Step:      state.step,
	}, nil
}

func (searcher *Searcher) run(ctx context.Context, seed uint64, state *searchState, reference, userParts []Stroke) error {
	rng := rand.New(rand.NewPCG(seed, 0))
	for trial := 1; trial <= searcher.trials; trial++ {
		select {
		case <-ctx.Done():
			Logger().Warn("transform search cancelled", "trial", trial-1, "score", state.bestScore)
			return errors.Wrapf(ctx.Err(), "search cancelled after %d trial(s)", trial-1)
		default:
		}
		candidate := searcher.perturb(state.best, state.step, rng)
		score, err := searcher.evaluate(candidate, reference, userParts)
		if err != nil {
			return errors.Wrapf(err, "trial #%d", trial)
		}
		if score < state.bestScore {
			state.accept(candidate, score, searcher.stepDecay)
			Logger().Debug("improved", "trial", trial, "score", score)
		}
		searcher.report(trial, state, false)
	}
	return nil
}

// runParallel evaluates rounds of independent candidate batches. Workers only read the round snapshot;
// reduction to the best candidate after each round is the only point where state changes
func (searcher *Searcher) runParallel(ctx context.Context, seed uint64, state *searchState, reference, userParts []Stroke) error {
	rngs := make([]*rand.Rand, searcher.workers)
	for w := range rngs {
		rngs[w] = rand.New(rand.NewPCG(seed, uint64(w)))
	}
	results := make([]candidateResult, searcher.workers)
	done := 0
	for done < searcher.trials {
		if err := ctx.Err(); err != nil {
			Logger().Warn("transform search cancelled", "trial", done, "score", state.bestScore)
			return errors.Wrapf(err, "search cancelled after %d trial(s)", done)
		}
		snapshot := *state
		remaining := searcher.trials - done
		group, groupCtx := errgroup.WithContext(ctx)
		for w := 0; w < searcher.workers; w++ {
			count := minInt(searcher.batchSize, remaining)
			remaining -= count
			results[w] = candidateResult{score: math.Inf(1)}
			if count == 0 {
				continue
			}
			group.Go(func() error {
				local := candidateResult{score: math.Inf(1)}
				for k := 0; k < count; k++ {
					if err := groupCtx.Err(); err != nil {
						return err
					}
					candidate := searcher.perturb(snapshot.best, snapshot.step, rngs[w])
					score, err := searcher.evaluate(candidate, reference, userParts)
					if err != nil {
						return errors.Wrapf(err, "worker #%d", w)
					}
					if score < local.score {
						local = candidateResult{transform: candidate, score: score}
					}
				}
				results[w] = local
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				Logger().Warn("transform search cancelled", "trial", done, "score", state.bestScore)
				return errors.Wrapf(ctxErr, "search cancelled after %d trial(s)", done)
			}
			return errors.Wrapf(err, "round starting at trial #%d", done+1)
		}
		roundBest := -1
		for w := range results {
			if results[w].score < state.bestScore && (roundBest < 0 || results[w].score < results[roundBest].score) {
				roundBest = w
			}
		}
		previous := done
		done = searcher.trials - remaining
		if roundBest >= 0 {
			state.accept(results[roundBest].transform, results[roundBest].score, searcher.stepDecay)
			Logger().Debug("improved", "trial", done, "worker", roundBest, "score", state.bestScore)
		}
		searcher.report(done, state, done/searcher.progressInterval != previous/searcher.progressInterval)
	}
	return nil
}

// perturb draws new candidate around tr. Every parameter gets an independent offset from [-0.5, 0.5] times its step
func (searcher *Searcher) perturb(tr Transform, step float64, rng *rand.Rand) Transform {
	scaleStep := searcher.scaleMultiplier * step
	translateStep := searcher.translateMultiplier * step
	angleStep := searcher.angleMultiplier * step
	return Transform{
		ScaleX:     tr.ScaleX + scaleStep*(0.5-rng.Float64()),
		ScaleY:     tr.ScaleY + scaleStep*(0.5-rng.Float64()),
		TranslateX: tr.TranslateX + translateStep*(0.5-rng.Float64()),
		TranslateY: tr.TranslateY + translateStep*(0.5-rng.Float64()),
		Rotate:     tr.Rotate + angleStep*(0.5-rng.Float64()),
		Slant:      tr.Slant + angleStep*(0.5-rng.Float64()),
		Tilt:       tr.Tilt + angleStep*(0.5-rng.Float64()),
	}
}

func (searcher *Searcher) evaluate(candidate Transform, reference, userParts []Stroke) (float64, error) {
	if err := candidate.Validate(); err != nil {
		return 0, errors.Wrap(err, "bad candidate")
	}
	score, err := searcher.scorer.scoreResampled(candidate.ApplyStrokes(reference), userParts)
	if err != nil {
		return 0, errors.Wrapf(err, "can't score candidate %s", candidate)
	}
	return score, nil
}

// report invokes progress callback. Parallel rounds rarely end on interval boundaries, so they force it when one was crossed
func (searcher *Searcher) report(trial int, state *searchState, force bool) {
	if searcher.progress == nil {
		return
	}
	if !force && trial%searcher.progressInterval != 0 && trial != searcher.trials {
		return
	}
	searcher.progress(Progress{
		Trial:     trial,
		Trials:    searcher.trials,
		Best:      state.best,
		BestScore: state.bestScore,
		Step:      state.step,
	})
}

// FindBestTransform runs a search with default parameters
func FindBestTransform(ctx context.Context, reference, user []Stroke) (*SearchResult, error) {
	return NewSearcherDefault().Search(ctx, reference, user)
}
