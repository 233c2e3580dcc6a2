package pso

// Particle is one member of the swarm: its current position/velocity, its
// own best position/cost seen so far, and its current cost. Created once
// at engine construction, mutated every iteration (spec §3).
type Particle struct {
	Position     []int
	Velocity     []float64
	BestPosition []int
	BestCost     float64
	Cost         float64
}

func newParticle(dims int) *Particle {
	return &Particle{
		Position: make([]int, dims),
		Velocity: make([]float64, dims),
	}
}
