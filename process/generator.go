package process

import (
	"fmt"
	"math/rand/v2"

	"github.com/sarchlab/procsched/sim"
)

// A Generator creates the processes of a simulation. The id is assigned by
// the caller in insertion order.
type Generator interface {
	Generate(id int) Process
}

// RandomGenerator draws estimated times uniformly from an inclusive integer
// range and attaches a random operation.
type RandomGenerator struct {
	rng         *rand.Rand
	minEstimate int
	maxEstimate int
	maxOperand  int
}

// NewRandomGenerator creates a RandomGenerator. The same seed always produces
// the same sequence of processes.
func NewRandomGenerator(seed uint64, minEstimate, maxEstimate int) (
	*RandomGenerator, error,
) {
	if minEstimate <= 0 {
		return nil, fmt.Errorf(
			"minimum estimate must be positive, got %d", minEstimate)
	}

	if maxEstimate < minEstimate {
		return nil, fmt.Errorf(
			"maximum estimate %d is smaller than minimum %d",
			maxEstimate, minEstimate)
	}

	return &RandomGenerator{
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		minEstimate: minEstimate,
		maxEstimate: maxEstimate,
		maxOperand:  100,
	}, nil
}

// Generate creates one process.
func (g *RandomGenerator) Generate(id int) Process {
	span := g.maxEstimate - g.minEstimate + 1
	estimated := g.minEstimate + g.rng.IntN(span)

	return New(id, sim.VTimeInSec(estimated), g.operation())
}

func (g *RandomGenerator) operation() Operation {
	op := Operation{
		Left:     g.rng.IntN(g.maxOperand + 1),
		Operator: Operators[g.rng.IntN(len(Operators))],
		Right:    g.rng.IntN(g.maxOperand + 1),
	}

	if (op.Operator == OpDiv || op.Operator == OpMod) && op.Right == 0 {
		op.Right = 1 + g.rng.IntN(g.maxOperand)
	}

	return op
}

// SequenceGenerator hands out a fixed list of estimated times, cycling when
// more processes are requested than estimates given.
type SequenceGenerator struct {
	estimates []sim.VTimeInSec
}

// NewSequenceGenerator creates a SequenceGenerator.
func NewSequenceGenerator(estimates ...sim.VTimeInSec) *SequenceGenerator {
	if len(estimates) == 0 {
		panic("at least one estimate is required")
	}

	return &SequenceGenerator{estimates: estimates}
}

// Generate creates one process.
func (g *SequenceGenerator) Generate(id int) Process {
	return New(id, g.estimates[id%len(g.estimates)], Operation{})
}
