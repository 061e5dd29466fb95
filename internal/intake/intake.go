// Package intake provides the two mutually exclusive caloric-intake sources
// of the model: a closed-form generalized-logistic curve over age, and a
// pre-tabulated per-individual daily intake matrix.
package intake

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDegenerateLogistic indicates logistic parameters that cannot
	// produce a finite curve (nu of zero).
	ErrDegenerateLogistic = errors.New("intake: logistic nu must be nonzero")

	// ErrEmptyTable indicates a nil or zero-sized intake matrix.
	ErrEmptyTable = errors.New("intake: intake matrix is empty")

	// ErrNonPositiveStep indicates a zero or negative table granularity.
	ErrNonPositiveStep = errors.New("intake: table dt must be positive")

	// ErrHorizonExceeded indicates a tabulated horizon shorter than the
	// requested simulation.
	ErrHorizonExceeded = errors.New("intake: matrix horizon shorter than simulation")

	// ErrCohortWidth indicates a matrix column count that does not match
	// the cohort size.
	ErrCohortWidth = errors.New("intake: matrix width does not match cohort size")
)

// Source yields caloric intake (kcal/day) for individual i. age is the
// individual's age in years at the evaluation point; elapsed is days since
// the start of the simulation. A Source consults one or the other depending
// on its mode, never both.
type Source interface {
	At(i int, age, elapsed float64) float64
}

// Logistic is the generalized-logistic (Richards) intake curve over age.
// A is the floor asymptote and K the ceiling as age goes to +/- infinity.
type Logistic struct {
	K, Q, A, B, Nu, C float64
}

// NewLogistic validates the curve parameters. Only nu == 0 is rejected
// outright; other degenerate combinations surface as NaN at evaluation and
// are left to the trajectory validity scan.
func NewLogistic(k, q, a, b, nu, c float64) (*Logistic, error) {
	if nu == 0 {
		return nil, ErrDegenerateLogistic
	}
	return &Logistic{K: k, Q: q, A: a, B: b, Nu: nu, C: c}, nil
}

func (l *Logistic) At(_ int, age, _ float64) float64 {
	return l.A + (l.K-l.A)/math.Pow(l.C+l.Q*math.Exp(-l.B*age), 1/l.Nu)
}

// Table looks intake up from a matrix of daily values, rows at dt-day
// granularity and one column per individual.
type Table struct {
	m  *mat.Dense
	dt float64
}

func NewTable(m *mat.Dense, dt float64) (*Table, error) {
	if dt <= 0 {
		return nil, ErrNonPositiveStep
	}
	if m == nil {
		return nil, ErrEmptyTable
	}
	if r, c := m.Dims(); r == 0 || c == 0 {
		return nil, ErrEmptyTable
	}
	return &Table{m: m, dt: dt}, nil
}

// At reads the row implied by elapsed days. CheckHorizon must have passed
// for the enclosing simulation; rows beyond the matrix panic via mat.
func (tb *Table) At(i int, _, elapsed float64) float64 {
	row := int(math.Floor(elapsed / tb.dt))
	return tb.m.At(row, i)
}

// CheckHorizon verifies the matrix covers nsteps integration steps for a
// cohort of nind individuals. The final step's endpoint stage reads row
// nsteps, so nsteps+1 rows are required.
func (tb *Table) CheckHorizon(nind, nsteps int) error {
	rows, cols := tb.m.Dims()
	if cols != nind {
		return fmt.Errorf("%w: have %d columns, cohort size %d", ErrCohortWidth, cols, nind)
	}
	if rows < nsteps+1 {
		return fmt.Errorf("%w: have %d rows, need %d", ErrHorizonExceeded, rows, nsteps+1)
	}
	return nil
}
