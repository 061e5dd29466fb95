package intake

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLogisticValue(t *testing.T) {
	// With nu=1, C=1 the curve is a plain logistic.
	l, err := NewLogistic(1800, 1, 1000, 0.05, 1, 1)
	if err != nil {
		t.Fatalf("NewLogistic: %v", err)
	}

	got := l.At(0, 10, 0)
	want := 1000 + 800/(1+math.Exp(-0.05*10))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("At(age=10) = %f, want %f", got, want)
	}
}

func TestLogisticMonotoneBetweenAsymptotes(t *testing.T) {
	l, err := NewLogistic(2200, 1.5, 900, 0.1, 2, 1)
	if err != nil {
		t.Fatalf("NewLogistic: %v", err)
	}

	prev := math.Inf(-1)
	for age := -50.0; age <= 80.0; age += 0.5 {
		v := l.At(0, age, 0)
		if v < prev {
			t.Fatalf("curve not monotone at age %f: %f < %f", age, v, prev)
		}
		if v < l.A-1e-9 || v > l.K+1e-9 {
			t.Fatalf("curve escaped asymptotes at age %f: %f", age, v)
		}
		prev = v
	}
}

func TestLogisticDegenerateNu(t *testing.T) {
	if _, err := NewLogistic(1800, 1, 1000, 0.05, 0, 1); !errors.Is(err, ErrDegenerateLogistic) {
		t.Errorf("expected ErrDegenerateLogistic, got %v", err)
	}
}

func TestTableLookup(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1500, 1600,
		1510, 1610,
		1520, 1620,
	})
	tb, err := NewTable(m, 1.0)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	tests := []struct {
		i       int
		elapsed float64
		want    float64
	}{
		{0, 0, 1500},
		{1, 0, 1600},
		{0, 1, 1510},
		{1, 2.5, 1620},
		{0, 0.5, 1500}, // mid-step stages land on the enclosing row
	}
	for _, tt := range tests {
		if got := tb.At(tt.i, 0, tt.elapsed); got != tt.want {
			t.Errorf("At(%d, elapsed=%f) = %f, want %f", tt.i, tt.elapsed, got, tt.want)
		}
	}
}

func TestTableConstructionErrors(t *testing.T) {
	m := mat.NewDense(1, 1, []float64{1500})

	if _, err := NewTable(m, 0); !errors.Is(err, ErrNonPositiveStep) {
		t.Errorf("dt=0: expected ErrNonPositiveStep, got %v", err)
	}
	if _, err := NewTable(nil, 1); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("nil matrix: expected ErrEmptyTable, got %v", err)
	}
}

func TestCheckHorizon(t *testing.T) {
	m := mat.NewDense(4, 2, nil)
	tb, err := NewTable(m, 1.0)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	if err := tb.CheckHorizon(2, 3); err != nil {
		t.Errorf("horizon of 3 steps should fit 4 rows: %v", err)
	}
	if err := tb.CheckHorizon(2, 4); !errors.Is(err, ErrHorizonExceeded) {
		t.Errorf("expected ErrHorizonExceeded, got %v", err)
	}
	if err := tb.CheckHorizon(3, 3); !errors.Is(err, ErrCohortWidth) {
		t.Errorf("expected ErrCohortWidth, got %v", err)
	}
}
