// Package pso implements the discrete Particle Swarm Optimization engine:
// a population of particles over a container→node assignment vector,
// boundary-handling policies, and a feasibility-aware viable-position
// initializer, as specified in SPEC_FULL.md §4.2.
package pso

import (
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/arnegilmore/microplace/internal/errs"
	"github.com/arnegilmore/microplace/internal/objective"
	"github.com/arnegilmore/microplace/internal/placement"
	"github.com/arnegilmore/microplace/internal/scenario"
	"github.com/arnegilmore/microplace/internal/telemetry"
)

// Config holds the PSO hyperparameters from spec §6.
type Config struct {
	Particles  int
	Iterations int
	Inertia    float64
	Cognitive  float64
	Social     float64

	// RandomInitPosition selects the "random" position-init mode; false
	// means "viable" (first-fit greedy, falling back to random).
	RandomInitPosition bool
	// ZeroInitVelocity selects all-zero velocity init; false means
	// uniform integers in [-(N-1), N-1].
	ZeroInitVelocity bool

	VelocityHandling string
	PositionHandling string

	// Seed drives the engine's random number generator; the same seed
	// reproduces identical results when Parallelism == 1 (spec §5).
	Seed int64

	// Parallelism controls how many particles are evaluated concurrently
	// per iteration. 0 or 1 means fully serial (and bit-reproducible);
	// >1 trades the ordering guarantee for throughput, as permitted by
	// spec §5("particle evaluation... may be parallelized").
	Parallelism int

	Logger    *slog.Logger
	Telemetry *telemetry.Recorder
}

// Engine runs the PSO algorithm against a fixed scenario.
type Engine struct {
	scenario *scenario.Scenario
	cfg      Config

	numNodes        int
	totalContainers int

	velocityHandle Handler
	positionHandle Handler

	rng *rand.Rand

	particles []*Particle

	bestPosition []int
	bestCost     float64
}

// New validates cfg against the closed set of boundary-handler names and
// builds an Engine ready for Solve.
func New(s *scenario.Scenario, cfg Config) (*Engine, error) {
	vHandle, err := resolveVelocityHandler(cfg.VelocityHandling)
	if err != nil {
		return nil, err
	}
	pHandle, err := resolvePositionHandler(cfg.PositionHandling)
	if err != nil {
		return nil, err
	}
	if cfg.Particles <= 0 {
		return nil, errs.NewConfigError("particles", "must be positive")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Engine{
		scenario:        s,
		cfg:             cfg,
		numNodes:        len(s.Nodes),
		totalContainers: s.TotalContainers(),
		velocityHandle:  vHandle,
		positionHandle:  pHandle,
		rng:             rand.New(rand.NewSource(cfg.Seed)),
		bestCost:        objective.Infeasible,
	}, nil
}

// Solve runs the configured number of iterations and returns the placement
// mapping for the swarm-best position, or a NoSolution error if no
// particle — initial or discovered during iteration — ever reached a
// feasible position.
func (e *Engine) Solve() (*placement.Mapping, float64, error) {
	e.initParticles()

	for iter := 0; iter < e.cfg.Iterations; iter++ {
		start := time.Now()
		e.runIteration()
		e.cfg.Telemetry.ObserveIteration(time.Since(start).Seconds())
	}

	if e.bestCost == objective.Infeasible || isInf(e.bestCost) {
		return nil, e.bestCost, errs.NewNoSolution("pso",
			"no particle reached a feasible position within the iteration budget")
	}

	states := e.scenario.NewNodeStates()
	_, mp := objective.Evaluate(e.scenario, e.bestPosition, states)
	if mp == nil {
		return nil, e.bestCost, errs.NewInternalInvariant("swarm-best position became infeasible on re-evaluation")
	}
	return mp, e.bestCost, nil
}

func isInf(v float64) bool {
	return math.IsInf(v, 1)
}

// initParticles builds the population: velocity per ZeroInitVelocity,
// position per RandomInitPosition (with viable-init's random fallback),
// and seeds the swarm best from the initial population (spec §4.2).
func (e *Engine) initParticles() {
	e.particles = make([]*Particle, e.cfg.Particles)
	states := e.scenario.NewNodeStates()

	for p := 0; p < e.cfg.Particles; p++ {
		particle := newParticle(e.totalContainers)
		e.initVelocity(particle)
		e.initPosition(particle, states)

		cost, _ := objective.Evaluate(e.scenario, particle.Position, states)
		particle.Cost = cost
		particle.BestCost = cost
		particle.BestPosition = append([]int(nil), particle.Position...)

		if isInf(cost) {
			e.cfg.Telemetry.IncInfeasible()
		}

		e.particles[p] = particle
	}

	e.seedSwarmBest()
}

func (e *Engine) initVelocity(p *Particle) {
	if e.cfg.ZeroInitVelocity {
		return // already all-zero from newParticle
	}
	n := e.numNodes
	for d := range p.Velocity {
		p.Velocity[d] = float64(e.rng.Intn(2*n-1) - (n - 1))
	}
}

func (e *Engine) initPosition(p *Particle, states []scenario.NodeState) {
	if e.cfg.RandomInitPosition {
		e.randomPosition(p)
		return
	}
	if !e.viablePosition(p, states) {
		e.cfg.Logger.Debug("viable-init could not place every container; falling back to random init")
		e.randomPosition(p)
	}
}

func (e *Engine) randomPosition(p *Particle) {
	for d := range p.Position {
		p.Position[d] = e.rng.Intn(e.numNodes)
	}
}

// viablePosition attempts the first-fit greedy placement from spec §4.2:
// shuffle the node order, then for each container in canonical order pick
// the first node (in shuffled order) that currently fits. Returns false
// if any container is left unplaced, in which case the caller falls back
// to random init. Node scratch totals are always reset before returning.
func (e *Engine) viablePosition(p *Particle, states []scenario.NodeState) bool {
	order := e.rng.Perm(e.numNodes)
	for i := range states {
		states[i].Reset()
	}

	container := 0
	ok := true
	for _, m := range e.scenario.Microservices {
		for c := 0; c < m.Containers; c++ {
			placed := false
			for _, j := range order {
				if e.scenario.Nodes[j].Fits(&states[j], m) {
					states[j].Place(m)
					p.Position[container] = j
					placed = true
					break
				}
			}
			if !placed {
				ok = false
			}
			container++
		}
		if !ok {
			break
		}
	}

	for i := range states {
		states[i].Reset()
	}
	return ok
}

// seedSwarmBest scans the initial population for the particle with the
// minimum cost (spec §4.2: "Scan initial particles; set swarm best to the
// particle with minimum best_cost"). If none is finite, any particle's
// position seeds the (infeasible) swarm best.
func (e *Engine) seedSwarmBest() {
	e.bestCost = objective.Infeasible
	for _, p := range e.particles {
		if p.Cost < e.bestCost {
			e.bestCost = p.Cost
			e.bestPosition = append([]int(nil), p.Position...)
		}
	}
	if e.bestPosition == nil && len(e.particles) > 0 {
		e.bestPosition = append([]int(nil), e.particles[0].Position...)
	}
}

// runIteration updates every particle once, in registration order when
// Parallelism <= 1 (the bit-reproducible path); otherwise it fans the
// particle updates across a worker pool and performs the swarm-best
// reduction afterward, using a semaphore-bounded worker-pool pattern.
func (e *Engine) runIteration() {
	parallelism := e.cfg.Parallelism
	if parallelism <= 1 {
		for _, p := range e.particles {
			e.updateParticle(p, e.rng)
			e.reduceBest(p)
		}
		return
	}

	if parallelism > runtime.NumCPU() {
		parallelism = runtime.NumCPU()
	}
	if parallelism < 1 {
		parallelism = 1
	}

	// Draw one sub-seed per particle deterministically from the engine's
	// rng before fanning out, so the fan-out itself doesn't need to touch
	// the shared rng concurrently.
	subRngs := make([]*rand.Rand, len(e.particles))
	for i := range e.particles {
		subRngs[i] = rand.New(rand.NewSource(e.rng.Int63()))
	}

	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup
	for i, p := range e.particles {
		wg.Add(1)
		go func(particle *Particle, rng *rand.Rand) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			e.updateParticle(particle, rng)
		}(p, subRngs[i])
	}
	wg.Wait()

	for _, p := range e.particles {
		e.reduceBest(p)
	}
}

// reduceBest replaces particle.BestPosition/BestCost and, if p also beats
// the swarm best, e.bestPosition/bestCost — both comparisons strict `<`
// per spec §9 Open Question (ii).
func (e *Engine) reduceBest(p *Particle) {
	if p.Cost < p.BestCost {
		p.BestCost = p.Cost
		p.BestPosition = append(p.BestPosition[:0], p.Position...)

		if p.Cost < e.bestCost {
			e.bestCost = p.Cost
			e.bestPosition = append(e.bestPosition[:0], p.Position...)
		}
	}
}

// updateParticle advances one particle by one iteration: for every
// dimension, update velocity then position per spec §4.2's formula, then
// recompute cost.
func (e *Engine) updateParticle(p *Particle, rng *rand.Rand) {
	n := float64(e.numNodes)
	states := e.scenario.NewNodeStates()

	for d := range p.Position {
		r1, r2 := rng.Float64(), rng.Float64()

		raw := e.cfg.Inertia*p.Velocity[d] +
			e.cfg.Cognitive*r1*(float64(p.BestPosition[d])-float64(p.Position[d])) +
			e.cfg.Social*r2*(float64(e.bestPosition[d])-float64(p.Position[d]))

		v := e.velocityHandle(rng, raw, -(n - 1), n)

		rawPos := float64(p.Position[d]) + truncateTowardZero(v)
		x := e.positionHandle(rng, rawPos, 0, n)

		p.Velocity[d] = e.coupledVelocity(v, rawPos, n)
		p.Position[d] = int(x)
	}

	cost, _ := objective.Evaluate(e.scenario, p.Position, states)
	p.Cost = cost
	if isInf(cost) {
		e.cfg.Telemetry.IncInfeasible()
	}
}

// coupledVelocity implements the two handler/velocity couplings from spec
// §4.2: the absorbing "boundary" position handler zeroes velocity when the
// raw (pre-clamp) position left [0, N); "reflecting" negates it instead.
// Both act on the newly computed velocity v, not the prior iteration's.
func (e *Engine) coupledVelocity(v, rawPos, n float64) float64 {
	outOfRange := rawPos < 0 || rawPos >= n
	if !outOfRange {
		return v
	}
	switch e.cfg.PositionHandling {
	case "boundary":
		return 0
	case "reflecting":
		return -v
	}
	return v
}

// truncateTowardZero implements spec §9 Open Question (i)'s resolution:
// position advances by int(velocity) — truncation toward zero, matching
// solvers/pso.py's `int(particle.velocity[dim])`, not rounding.
func truncateTowardZero(v float64) float64 {
	return float64(int64(v))
}
