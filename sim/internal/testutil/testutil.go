// Package testutil provides shared test infrastructure for the MLMC engine:
// scripted random sources and float assertions used across sim/ tests.
package testutil

import (
	"math"
	"testing"
)

// ScriptedSource replays fixed normal and uniform draws in order.
// It fails the test when a script runs out.
type ScriptedSource struct {
	t        *testing.T
	Normals  []float64
	Uniforms []float64
	ni, ui   int
}

// NewScriptedSource returns a source replaying the given draws.
func NewScriptedSource(t *testing.T, normals, uniforms []float64) *ScriptedSource {
	return &ScriptedSource{t: t, Normals: normals, Uniforms: uniforms}
}

// NormFloat64 returns the next scripted normal draw.
func (s *ScriptedSource) NormFloat64() float64 {
	s.t.Helper()
	if s.ni >= len(s.Normals) {
		s.t.Fatalf("scripted source exhausted after %d normal draws", s.ni)
	}
	z := s.Normals[s.ni]
	s.ni++
	return z
}

// Float64 returns the next scripted uniform draw.
func (s *ScriptedSource) Float64() float64 {
	s.t.Helper()
	if s.ui >= len(s.Uniforms) {
		s.t.Fatalf("scripted source exhausted after %d uniform draws", s.ui)
	}
	u := s.Uniforms[s.ui]
	s.ui++
	return u
}

// NormalsUsed returns the number of normal draws consumed.
func (s *ScriptedSource) NormalsUsed() int { return s.ni }

// UniformsUsed returns the number of uniform draws consumed.
func (s *ScriptedSource) UniformsUsed() int { return s.ui }

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertWithinStdErr checks |got-want| <= k*se + slack.
func AssertWithinStdErr(t *testing.T, name string, want, got, se, k, slack float64) {
	t.Helper()
	if diff := math.Abs(got - want); diff > k*se+slack {
		t.Errorf("%s: got %v, want %v (diff=%v exceeds %v*se=%v + %v)", name, got, want, diff, k, k*se, slack)
	}
}
