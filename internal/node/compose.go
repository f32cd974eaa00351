package node

import (
	"fmt"

	"github.com/declnet-ml/declnet/internal/linalg"
	"github.com/declnet-ml/declnet/internal/parallel"
)

// Sequential is the function composition outer ∘ inner: the inner node's
// output feeds the outer node's input. It is itself a Node, so compositions
// nest into arbitrary trees.
type Sequential struct {
	outer, inner Node
}

// SequentialContext bundles the per-call state of both children. It retains
// the inner output because the outer Jacobian is evaluated at that point.
type SequentialContext struct {
	InnerY   []float64
	InnerCtx Context
	OuterCtx Context
}

// NewSequential creates the composition outer ∘ inner.
// Requires inner.OutputSize() == outer.InputSize().
func NewSequential(outer, inner Node) (*Sequential, error) {
	if outer == nil || inner == nil {
		return nil, fmt.Errorf("Sequential: both children required: %w", ErrDimension)
	}
	if inner.OutputSize() != outer.InputSize() {
		return nil, fmt.Errorf("Sequential: inner output size %d, outer input size %d: %w",
			inner.OutputSize(), outer.InputSize(), ErrDimension)
	}
	return &Sequential{outer: outer, inner: inner}, nil
}

// InputSize returns the inner node's input size.
func (s *Sequential) InputSize() int { return s.inner.InputSize() }

// OutputSize returns the outer node's output size.
func (s *Sequential) OutputSize() int { return s.outer.OutputSize() }

// Solve evaluates inner then outer. Child errors propagate unchanged.
func (s *Sequential) Solve(x []float64) ([]float64, Context, error) {
	if err := checkInput("Sequential.Solve", s.InputSize(), x); err != nil {
		return nil, nil, err
	}
	innerY, innerCtx, err := s.inner.Solve(x)
	if err != nil {
		return nil, nil, err
	}
	outerY, outerCtx, err := s.outer.Solve(innerY)
	if err != nil {
		return nil, nil, err
	}
	return outerY, &SequentialContext{
		InnerY:   innerY,
		InnerCtx: innerCtx,
		OuterCtx: outerCtx,
	}, nil
}

// Gradient applies the chain rule: J = J_outer(innerY) · J_inner(x).
//
// Without a context from a prior Solve the inner node is re-solved so the
// outer Jacobian is evaluated at a consistent point.
func (s *Sequential) Gradient(x, y []float64, ctx Context) (*linalg.Matrix, error) {
	if err := checkInput("Sequential.Gradient", s.InputSize(), x); err != nil {
		return nil, err
	}

	sc, err := s.contextFor(x, ctx)
	if err != nil {
		return nil, err
	}

	innerJac, err := s.inner.Gradient(x, sc.InnerY, sc.InnerCtx)
	if err != nil {
		return nil, err
	}
	outerJac, err := s.outer.Gradient(sc.InnerY, y, sc.OuterCtx)
	if err != nil {
		return nil, err
	}
	return linalg.MatMul(outerJac, innerJac)
}

// contextFor returns a usable SequentialContext for x, re-solving the inner
// node when no valid context was supplied.
func (s *Sequential) contextFor(x []float64, ctx Context) (*SequentialContext, error) {
	if ctx != nil {
		sc, ok := ctx.(*SequentialContext)
		if !ok || len(sc.InnerY) != s.inner.OutputSize() {
			return nil, fmt.Errorf("Sequential.Gradient: %w", ErrContextMismatch)
		}
		return sc, nil
	}
	innerY, innerCtx, err := s.inner.Solve(x)
	if err != nil {
		return nil, err
	}
	return &SequentialContext{InnerY: innerY, InnerCtx: innerCtx}, nil
}

// Parallel evaluates two nodes on the same input and concatenates their
// outputs in fixed (first, second) order. The children are independent and
// run concurrently on multi-core machines.
type Parallel struct {
	first, second Node
	exec          parallel.Config
}

// ParallelContext bundles the per-call state of both children.
type ParallelContext struct {
	FirstCtx  Context
	SecondCtx Context
}

// NewParallel creates the concatenation (first(x), second(x)).
// Requires first.InputSize() == second.InputSize().
func NewParallel(first, second Node) (*Parallel, error) {
	if first == nil || second == nil {
		return nil, fmt.Errorf("Parallel: both children required: %w", ErrDimension)
	}
	if first.InputSize() != second.InputSize() {
		return nil, fmt.Errorf("Parallel: child input sizes %d and %d differ: %w",
			first.InputSize(), second.InputSize(), ErrDimension)
	}
	return &Parallel{first: first, second: second, exec: parallel.DefaultConfig()}, nil
}

// InputSize returns the shared child input size.
func (p *Parallel) InputSize() int { return p.first.InputSize() }

// OutputSize returns the sum of the child output sizes.
func (p *Parallel) OutputSize() int { return p.first.OutputSize() + p.second.OutputSize() }

// Solve evaluates both children on x and concatenates their outputs.
func (p *Parallel) Solve(x []float64) ([]float64, Context, error) {
	if err := checkInput("Parallel.Solve", p.InputSize(), x); err != nil {
		return nil, nil, err
	}

	var (
		firstY, secondY     []float64
		firstCtx, secondCtx Context
	)
	err := parallel.Join(p.exec,
		func() (err error) {
			firstY, firstCtx, err = p.first.Solve(x)
			return err
		},
		func() (err error) {
			secondY, secondCtx, err = p.second.Solve(x)
			return err
		},
	)
	if err != nil {
		return nil, nil, err
	}

	y := make([]float64, 0, len(firstY)+len(secondY))
	y = append(y, firstY...)
	y = append(y, secondY...)
	return y, &ParallelContext{FirstCtx: firstCtx, SecondCtx: secondCtx}, nil
}

// Gradient stacks the child Jacobians vertically:
//
//	J = [ J_first(x) ]
//	    [ J_second(x) ]
func (p *Parallel) Gradient(x, y []float64, ctx Context) (*linalg.Matrix, error) {
	if err := checkInput("Parallel.Gradient", p.InputSize(), x); err != nil {
		return nil, err
	}

	pc := &ParallelContext{}
	if ctx != nil {
		var ok bool
		if pc, ok = ctx.(*ParallelContext); !ok {
			return nil, fmt.Errorf("Parallel.Gradient: %w", ErrContextMismatch)
		}
	}

	var firstY, secondY []float64
	if len(y) == p.OutputSize() {
		firstY = y[:p.first.OutputSize()]
		secondY = y[p.first.OutputSize():]
	}

	var firstJac, secondJac *linalg.Matrix
	err := parallel.Join(p.exec,
		func() (err error) {
			firstJac, err = p.first.Gradient(x, firstY, pc.FirstCtx)
			return err
		},
		func() (err error) {
			secondJac, err = p.second.Gradient(x, secondY, pc.SecondCtx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return linalg.VStack(firstJac, secondJac)
}
