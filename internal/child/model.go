// Package child implements the Hall et al. dynamic energy-balance model for
// pediatric growth: the coupled FFM/FM ODE system, its physiological
// sub-models, and the fixed-step trajectory loop that advances a cohort.
package child

import (
	"fmt"
	"math"

	"github.com/avelarde/growthsim/internal/cohort"
	"github.com/avelarde/growthsim/internal/curves"
	"github.com/avelarde/growthsim/internal/dynamo"
	"github.com/avelarde/growthsim/internal/intake"
	"github.com/avelarde/growthsim/internal/params"
)

// ModelType tags every trajectory produced by this model.
const ModelType = "Children"

const (
	// tef is the thermic effect of feeding applied to intake deviation.
	tef = 0.24

	// etaFFM and etaFM are the biosynthesis costs of tissue deposition,
	// kcal/kg, per Hall et al.
	etaFFM = 230.0
	etaFM  = 180.0
)

// Model evaluates the ODE system for one cohort with one intake source.
// Construction derives all sex-blended constants; the model is immutable
// afterwards and Derive is pure.
type Model struct {
	coh    *cohort.Cohort
	tab    *params.Table
	ref    *curves.Reference
	source intake.Source
	dt     float64
	check  bool
	n      int

	metrics []dynamo.Metric
}

// New builds a model over the cohort with the given intake source and time
// step in days. checkValues enables the post-run trajectory validity scan.
func New(c *cohort.Cohort, src intake.Source, dt float64, checkValues bool) (*Model, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("child: %w (dt=%f)", dynamo.ErrNonPositiveStep, dt)
	}
	if src == nil {
		return nil, fmt.Errorf("child: intake source is nil")
	}
	if !dynamo.State(c.FFM).IsValid() || !dynamo.State(c.FM).IsValid() {
		return nil, fmt.Errorf("child: initial composition: %w", dynamo.ErrInvalidState)
	}
	return &Model{
		coh:    c,
		tab:    params.New(c.Sex),
		ref:    curves.NewReference(c.Sex, c.Category),
		source: src,
		dt:     dt,
		check:  checkValues,
		n:      c.Len(),
	}, nil
}

// AddMetric registers a metric observed at every step of a serial Simulate.
func (m *Model) AddMetric(mt dynamo.Metric) { m.metrics = append(m.metrics, mt) }

// Len returns the cohort size.
func (m *Model) Len() int { return m.n }

// Dt returns the integration step in days.
func (m *Model) Dt() float64 { return m.dt }

// Cohort returns the input population.
func (m *Model) Cohort() *cohort.Cohort { return m.coh }

// Params returns the derived constant table.
func (m *Model) Params() *params.Table { return m.tab }

// Dim is the flattened state size: FFM then FM, one entry per individual.
func (m *Model) Dim() int { return 2 * m.n }

// rhoFFM is the energy density of fat-free tissue, kcal/kg.
func rhoFFM(ffm float64) float64 { return 4.3*ffm + 837.0 }

// partition is the fraction of energy imbalance directed to fat-free mass.
func partition(ffm, fm float64) float64 {
	c := 10.4 * rhoFFM(ffm) / params.RhoFM
	return c / (c + fm)
}

// thermogenesis is the adaptive-thermogenesis term: a logistic decay from
// deltamax toward deltamin over age.
func thermogenesis(deltaMax, age float64) float64 {
	return params.DeltaMin + (deltaMax-params.DeltaMin)/(1.0+math.Pow(age/params.P, params.H))
}

// IntakeReference is the expected baseline caloric intake at reference body
// composition for individual i at age t years. It anchors the intake
// deviation term of Expenditure.
func (m *Model) IntakeReference(i int, age float64) float64 {
	return intakeReference(m.tab, m.ref, i, age)
}

func intakeReference(tab *params.Table, ref *curves.Reference, i int, age float64) float64 {
	eb := tab.EBImpact.Eval(i, age)
	ffmRef := ref.FFM(i, age)
	fmRef := ref.FM(i, age)
	delta := thermogenesis(tab.DeltaMax[i], age)
	growth := tab.Growth.Eval(i, age)
	p := partition(ffmRef, fmRef)
	rho := rhoFFM(ffmRef)
	return eb + tab.K[i] + (22.4+delta)*ffmRef + (4.5+delta)*fmRef +
		etaFFM/rho*(p*eb+growth) + etaFM/params.RhoFM*((1-p)*eb-growth)
}

// expenditure is total energy expenditure implied by mass balance. The
// denominator accounts for the share of intake stored rather than oxidized.
func (m *Model) expenditure(i int, age, ffm, fm, eaten float64) float64 {
	delta := thermogenesis(m.tab.DeltaMax[i], age)
	deviation := eaten - m.IntakeReference(i, age)
	p := partition(ffm, fm)
	rho := rhoFFM(ffm)
	growth := m.tab.Growth.Eval(i, age)
	expend := m.tab.K[i] + (22.4+delta)*ffm + (4.5+delta)*fm +
		tef*deviation + (etaFFM/rho*p+etaFM/params.RhoFM*(1-p))*eaten +
		growth*(etaFFM/rho-etaFM/params.RhoFM)
	return expend / (1.0 + etaFFM/rho*p + etaFM/params.RhoFM*(1-p))
}

// rate is the instantaneous (dFFM/dt, dFM/dt) for individual i. elapsed is
// days since simulation start; age is the individual's age in years at that
// point.
func (m *Model) rate(i int, age, elapsed, ffm, fm float64) (dffm, dfm float64) {
	eaten := m.source.At(i, age, elapsed)
	expend := m.expenditure(i, age, ffm, fm, eaten)
	p := partition(ffm, fm)
	growth := m.tab.Growth.Eval(i, age)
	dffm = (p*(eaten-expend) + growth) / rhoFFM(ffm)
	dfm = ((1-p)*(eaten-expend) - growth) / params.RhoFM
	return dffm, dfm
}

// Derive evaluates the right-hand side of the coupled ODE system for the
// whole cohort. State layout is [FFM_0..FFM_n-1, FM_0..FM_n-1]; t is days
// since simulation start.
func (m *Model) Derive(x dynamo.State, t float64) dynamo.State {
	dx := make(dynamo.State, 2*m.n)
	for i := 0; i < m.n; i++ {
		age := m.coh.Age[i] + t/365.0
		dffm, dfm := m.rate(i, age, t, x[i], x[m.n+i])
		dx[i] = dffm
		dx[m.n+i] = dfm
	}
	return dx
}
