// Copyright 2026 The declnet authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim is the public API for the outer optimization driver that
// minimizes a composed scalar-output node over its input.
//
// # Basic Usage
//
//	driver := optim.NewGradientDescent(optim.Config{
//	    LR:       0.05,
//	    Momentum: 0.9,
//	    Stop:     optim.Termination{MaxIterations: 5000, GradTolerance: 1e-10},
//	})
//	result, err := driver.Minimize(network, x0)
package optim

import (
	"github.com/declnet-ml/declnet/internal/optim"
)

// Config holds the gradient-descent settings.
type Config = optim.Config

// Termination specifies the stopping criteria for the outer iteration.
type Termination = optim.Termination

// Logger writes per-iteration progress to an io.Writer.
type Logger = optim.Logger

// Result reports the outcome of a minimization.
type Result = optim.Result

// GradientDescent minimizes a scalar-output node by steepest descent with
// optional momentum.
type GradientDescent = optim.GradientDescent

// NewGradientDescent creates a driver with the given configuration.
func NewGradientDescent(config Config) *GradientDescent {
	return optim.NewGradientDescent(config)
}
