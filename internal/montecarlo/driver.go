package montecarlo

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"advisim/internal/logging"
	"advisim/internal/types"

	"golang.org/x/sync/errgroup"
)

// degenerateRiskCount is the sentinel "maximum risk" assigned to trials
// whose analysis failed outright.
const degenerateRiskCount = 999

// successThreshold is the fixed bar an integrated solution must clear for
// a trial to count as a success.
const successThreshold = 0.7

// CaseAnalyzer abstracts the case analysis engine so the driver can be
// exercised against stubs in tests.
type CaseAnalyzer interface {
	SimulateCase(ctx context.Context, caseText, mode string) (*types.SimulationResult, error)
}

// Outcome is the transient record of one trial. Discarded after
// aggregation except for its contribution to the batch result.
type Outcome struct {
	ScenarioID   string
	Success      bool
	TimelineDays float64
	Investment   float64
	Confidence   float64
	RiskCount    int
	Variables    map[string]string
	Err          string
}

// Driver runs Monte Carlo batches against a case analyzer.
type Driver struct {
	analyzer     CaseAnalyzer
	trialTimeout time.Duration
}

// NewDriver creates a driver. trialTimeout <= 0 means no per-trial
// deadline beyond the batch context.
func NewDriver(analyzer CaseAnalyzer, trialTimeout time.Duration) *Driver {
	return &Driver{analyzer: analyzer, trialTimeout: trialTimeout}
}

// Run executes the configured batch and aggregates statistics. It always
// returns a complete, well-formed result unless the config itself is
// invalid or the batch context is cancelled. Individual trial failures
// are absorbed into degenerate outcomes and never abort the batch.
//
// Trials fan out over a bounded worker pool. Each trial derives its
// random source deterministically from the root seed and the trial index,
// so results are reproducible under a fixed seed regardless of worker
// scheduling; aggregation is commutative, so completion order does not
// matter.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	timer := logging.StartTimer(logging.CategoryMonteCarlo, "monte carlo batch")
	defer timer.Stop()
	logging.MonteCarlo("starting batch: %d iterations, %d scenarios, %d workers, seed %d",
		cfg.Iterations, len(cfg.Scenarios), workers, seed)

	outcomes := make([]Outcome, 0, cfg.Iterations)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < cfg.Iterations; i++ {
		trial := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome := d.runTrial(gctx, cfg, seed, trial)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("monte carlo batch aborted: %w", err)
	}

	result := aggregate(cfg, outcomes)
	logging.MonteCarlo("batch complete: success rate %.3f over %d trials",
		result.SuccessRate, result.ScenariosTested)
	return result, nil
}

// runTrial executes one independent trial. All failures - analyzer
// errors, panics, per-trial timeouts - collapse into a degenerate outcome
// with sentinel risk.
func (d *Driver) runTrial(ctx context.Context, cfg Config, seed int64, trial int) (outcome Outcome) {
	sampler := NewSampler(rand.New(rand.NewSource(seed + int64(trial))))

	scenario := sampler.SelectWeightedRandom(cfg.Scenarios)
	outcome = Outcome{ScenarioID: scenario.Name}

	vars := make(map[string]string, len(cfg.Variables))
	for _, v := range cfg.Variables {
		value, err := sampler.SampleVariable(v)
		if err != nil {
			// Validation catches these before the batch starts; a failure
			// here still degrades the trial rather than the batch.
			return degenerate(outcome, vars, err)
		}
		vars[v.Name] = value
	}
	outcome.Variables = vars

	caseText := SynthesizeCase(sampler, scenario, vars)

	defer func() {
		if r := recover(); r != nil {
			outcome = degenerate(outcome, vars, fmt.Errorf("analysis panic: %v", r))
		}
	}()

	trialCtx := ctx
	if d.trialTimeout > 0 {
		var cancel context.CancelFunc
		trialCtx, cancel = context.WithTimeout(ctx, d.trialTimeout)
		defer cancel()
	}

	result, err := d.analyzer.SimulateCase(trialCtx, caseText, cfg.Mode)
	if err != nil {
		return degenerate(outcome, vars, err)
	}

	outcome.Confidence = result.IntegratedSolution.SuccessProbability
	outcome.Success = outcome.Confidence > successThreshold
	outcome.TimelineDays, outcome.Investment = extractEstimates(result)
	outcome.RiskCount = countRisks(result)
	return outcome
}

func degenerate(outcome Outcome, vars map[string]string, err error) Outcome {
	outcome.Success = false
	outcome.Confidence = 0
	outcome.RiskCount = degenerateRiskCount
	outcome.Variables = vars
	outcome.Err = err.Error()
	return outcome
}

// extractEstimates pulls the numeric timeline and investment aggregates
// back out of the analysis, using the same parallel-tracks maxima the
// integrator applied.
func extractEstimates(result *types.SimulationResult) (timelineDays, investment float64) {
	for _, a := range result.IndividualAnalyses {
		if a.TimelineKnown && a.TimelineDays > timelineDays {
			timelineDays = a.TimelineDays
		}
		if a.InvestmentEstimate > investment {
			investment = a.InvestmentEstimate
		}
	}
	return timelineDays, investment
}

func countRisks(result *types.SimulationResult) int {
	count := 0
	for _, a := range result.IndividualAnalyses {
		count += len(a.Risks)
	}
	return count
}
