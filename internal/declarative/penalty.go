// Package declarative implements nodes whose output is defined as the argmin
// of an inner objective rather than by a closed-form formula.
//
// The derivative of such a node is obtained by implicit differentiation of
// the first-order optimality condition at the converged optimum, never by
// differentiating through the inner solver's iterations. For the robust
// average with stationarity F(x, y) = Σᵢ ρ'(y − xᵢ) = 0 the implicit
// function theorem gives
//
//	dy/dxᵢ = ρ''(y − xᵢ) / Σⱼ ρ''(y − xⱼ)
//
// which depends only on second derivatives of the penalty at the optimum.
package declarative

import "math"

// Penalty is a robust penalty ρ with its first and second derivatives.
//
// Implementations must be smooth enough for Newton iteration and implicit
// differentiation: Grad continuous everywhere, Hess defined everywhere
// (piecewise constant is fine, as for Huber).
type Penalty interface {
	// Rho evaluates ρ(z).
	Rho(z float64) float64
	// Grad evaluates ρ'(z).
	Grad(z float64) float64
	// Hess evaluates ρ''(z).
	Hess(z float64) float64
}

// defaultAlpha is used when a penalty is constructed with a non-positive
// scale parameter.
const defaultAlpha = 1.0

// Quadratic is ρ(z) = z²/2, the penalty under which the robust average
// reduces to the arithmetic mean.
type Quadratic struct{}

// NewQuadratic creates the quadratic penalty.
func NewQuadratic() Quadratic { return Quadratic{} }

func (Quadratic) Rho(z float64) float64  { return 0.5 * z * z }
func (Quadratic) Grad(z float64) float64 { return z }
func (Quadratic) Hess(float64) float64   { return 1 }

// Huber is the classic Huber penalty: quadratic within |z| <= α, linear
// outside. Its second derivative is the 0/1 indicator of the quadratic
// region, so outliers beyond α receive zero weight in the implicit gradient.
type Huber struct {
	Alpha float64
}

// NewHuber creates a Huber penalty with transition point alpha.
// Non-positive alpha selects the default of 1.
func NewHuber(alpha float64) Huber {
	if alpha <= 0 {
		alpha = defaultAlpha
	}
	return Huber{Alpha: alpha}
}

func (h Huber) Rho(z float64) float64 {
	if a := math.Abs(z); a > h.Alpha {
		return h.Alpha * (a - 0.5*h.Alpha)
	}
	return 0.5 * z * z
}

func (h Huber) Grad(z float64) float64 {
	if z > h.Alpha {
		return h.Alpha
	}
	if z < -h.Alpha {
		return -h.Alpha
	}
	return z
}

func (h Huber) Hess(z float64) float64 {
	if math.Abs(z) > h.Alpha {
		return 0
	}
	return 1
}

// PseudoHuber is the smooth Huber approximation
// ρ(z) = α²(√(1 + (z/α)²) − 1).
type PseudoHuber struct {
	Alpha float64
}

// NewPseudoHuber creates a pseudo-Huber penalty with scale alpha.
// Non-positive alpha selects the default of 1.
func NewPseudoHuber(alpha float64) PseudoHuber {
	if alpha <= 0 {
		alpha = defaultAlpha
	}
	return PseudoHuber{Alpha: alpha}
}

func (p PseudoHuber) Rho(z float64) float64 {
	r := z / p.Alpha
	return p.Alpha * p.Alpha * (math.Sqrt(1+r*r) - 1)
}

func (p PseudoHuber) Grad(z float64) float64 {
	r := z / p.Alpha
	return z / math.Sqrt(1+r*r)
}

func (p PseudoHuber) Hess(z float64) float64 {
	r := z / p.Alpha
	s := 1 + r*r
	return 1 / (s * math.Sqrt(s))
}

// Welsch is the redescending penalty ρ(z) = 1 − exp(−z²/2α²). Its influence
// vanishes for large residuals, making the objective non-convex; the inner
// solve may legitimately fail to converge far from the data.
type Welsch struct {
	Alpha float64
}

// NewWelsch creates a Welsch penalty with scale alpha.
// Non-positive alpha selects the default of 1.
func NewWelsch(alpha float64) Welsch {
	if alpha <= 0 {
		alpha = defaultAlpha
	}
	return Welsch{Alpha: alpha}
}

func (w Welsch) Rho(z float64) float64 {
	r := z / w.Alpha
	return 1 - math.Exp(-0.5*r*r)
}

func (w Welsch) Grad(z float64) float64 {
	r := z / w.Alpha
	return z / (w.Alpha * w.Alpha) * math.Exp(-0.5*r*r)
}

func (w Welsch) Hess(z float64) float64 {
	a2 := w.Alpha * w.Alpha
	r := z / w.Alpha
	return (1/a2 - z*z/(a2*a2)) * math.Exp(-0.5*r*r)
}
