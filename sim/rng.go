package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// === Random capabilities ===

// NormalSource draws independent standard normal values.
type NormalSource interface {
	NormFloat64() float64
}

// UniformSource draws independent uniform values in [0, 1).
type UniformSource interface {
	Float64() float64
}

// Source is the random capability injected into path simulation and payoff
// evaluation. *rand.Rand satisfies it.
type Source interface {
	NormalSource
	UniformSource
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible pricing run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical estimates.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemPilot is the RNG subsystem for pilot batches.
	SubsystemPilot = "pilot"

	// SubsystemExtra is the RNG subsystem for the additional batches sized by the allocator.
	SubsystemExtra = "extra"

	// SubsystemReference is the RNG subsystem for plain Monte Carlo reference pricing.
	SubsystemReference = "reference"

	// SubsystemSweep is the RNG subsystem for fixed-size level sweeps.
	SubsystemSweep = "sweep"
)

// StreamID names one independent random stream.
type StreamID struct {
	Subsystem string
	Level     int
	Chunk     int
}

func (id StreamID) String() string {
	return fmt.Sprintf("%s/level_%d/chunk_%d", id.Subsystem, id.Level, id.Chunk)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG streams.
//
// Derivation formula for stream (subsystem, level, chunk):
//   - PCG state seed:  masterSeed XOR fnv1a64(subsystem)
//   - PCG stream seed: fnv1a64("level_<l>/chunk_<c>")
//
// Thread-safety: safe for concurrent use. Streams are derived, not cached,
// so every ForStream call returns a fresh generator positioned at the
// start of its sequence.
type PartitionedRNG struct {
	key SimulationKey
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key}
}

// ForStream returns a deterministically-seeded generator for the stream.
// Never returns nil.
func (p *PartitionedRNG) ForStream(id StreamID) *rand.Rand {
	seed1 := uint64(int64(p.key) ^ fnv1a64(id.Subsystem))
	seed2 := uint64(fnv1a64(fmt.Sprintf("level_%d/chunk_%d", id.Level, id.Chunk)))
	return rand.New(rand.NewPCG(seed1, seed2))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
