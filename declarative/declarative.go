// Copyright 2026 The declnet authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package declarative is the public API for declarative nodes: nodes whose
// output is the argmin of an inner objective, differentiated by the implicit
// function theorem at the converged optimum rather than through the inner
// solver's iterations.
package declarative

import (
	"github.com/declnet-ml/declnet/internal/declarative"
)

// Penalty is a robust penalty ρ with its first and second derivatives.
type Penalty = declarative.Penalty

// Quadratic is ρ(z) = z²/2; the robust average becomes the arithmetic mean.
type Quadratic = declarative.Quadratic

// NewQuadratic creates the quadratic penalty.
func NewQuadratic() Quadratic { return declarative.NewQuadratic() }

// Huber is the classic Huber penalty with transition point Alpha.
type Huber = declarative.Huber

// NewHuber creates a Huber penalty (non-positive alpha selects 1).
func NewHuber(alpha float64) Huber { return declarative.NewHuber(alpha) }

// PseudoHuber is the smooth Huber approximation with scale Alpha.
type PseudoHuber = declarative.PseudoHuber

// NewPseudoHuber creates a pseudo-Huber penalty (non-positive alpha selects 1).
func NewPseudoHuber(alpha float64) PseudoHuber { return declarative.NewPseudoHuber(alpha) }

// Welsch is the redescending Welsch penalty with scale Alpha.
type Welsch = declarative.Welsch

// NewWelsch creates a Welsch penalty (non-positive alpha selects 1).
func NewWelsch(alpha float64) Welsch { return declarative.NewWelsch(alpha) }

// Termination specifies the stopping criteria for the inner Newton solve.
type Termination = declarative.Termination

// SolveInfo carries the result and diagnostics of an inner solve.
type SolveInfo = declarative.SolveInfo

// RobustAverage is the declarative robust location estimator
// y = argmin_u Σᵢ ρ(u − xᵢ).
type RobustAverage = declarative.RobustAverage

// AverageContext carries the inner solve result from Solve into Gradient.
type AverageContext = declarative.AverageContext

// NewRobustAverage creates a robust-average node of size size→1.
//
// Example:
//
//	avg, err := declarative.NewRobustAverage(10,
//	    declarative.NewWelsch(1),
//	    declarative.Termination{MaxIterations: 200, Tolerance: 1e-12},
//	)
func NewRobustAverage(size int, penalty Penalty, term Termination) (*RobustAverage, error) {
	return declarative.NewRobustAverage(size, penalty, term)
}
