package child

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/avelarde/growthsim/internal/cohort"
	"github.com/avelarde/growthsim/internal/dynamo"
	"github.com/avelarde/growthsim/internal/intake"
	"github.com/avelarde/growthsim/internal/integrators"
)

func singleBoy() *cohort.Cohort {
	c, err := cohort.New(
		[]float64{10}, []float64{0}, []float64{25}, []float64{8}, nil,
	)
	Expect(err).NotTo(HaveOccurred())
	return c
}

func boyLogistic() intake.Source {
	src, err := intake.NewLogistic(1800, 1, 1000, 0.05, 1, 1)
	Expect(err).NotTo(HaveOccurred())
	return src
}

var _ = Describe("Model", func() {
	Describe("energy partition", func() {
		It("keeps the FFM fraction strictly inside (0,1) for positive masses", func() {
			for _, ffm := range []float64{5, 25, 60} {
				for _, fm := range []float64{0.5, 8, 40} {
					p := partition(ffm, fm)
					Expect(p).To(BeNumerically(">", 0))
					Expect(p).To(BeNumerically("<", 1))
				}
			}
		})

		It("decays thermogenesis from deltamax toward deltamin with age", func() {
			young := thermogenesis(19, 2)
			old := thermogenesis(19, 40)
			Expect(young).To(BeNumerically("~", 19, 0.1))
			Expect(old).To(BeNumerically("~", 10, 0.1))
			Expect(young).To(BeNumerically(">", old))
		})
	})

	Describe("construction", func() {
		It("rejects a non-positive time step", func() {
			_, err := New(singleBoy(), boyLogistic(), 0, false)
			Expect(errors.Is(err, dynamo.ErrNonPositiveStep)).To(BeTrue())
		})

		It("rejects a nil intake source", func() {
			_, err := New(singleBoy(), nil, 1, false)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Derive", func() {
		It("is pure: repeated calls are bit-identical", func() {
			m, err := New(singleBoy(), boyLogistic(), 1, false)
			Expect(err).NotTo(HaveOccurred())

			x := dynamo.State{25, 8}
			a := m.Derive(x, 100)
			b := m.Derive(x, 100)
			Expect(a).To(Equal(b))
		})
	})

	Describe("Simulate", func() {
		var m *Model

		BeforeEach(func() {
			var err error
			m, err = New(singleBoy(), boyLogistic(), 1, false)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a non-positive horizon", func() {
			_, err := m.Simulate(context.Background(), 0, integrators.NewRK4())
			Expect(errors.Is(err, dynamo.ErrNonPositiveHorizon)).To(BeTrue())
		})

		It("produces floor(days/dt)+1 points on the exact time and age grids", func() {
			tr, err := m.Simulate(context.Background(), 365, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())

			Expect(tr.Steps()).To(Equal(366))
			Expect(tr.Time[0]).To(BeZero())
			for k := range tr.Time {
				Expect(tr.Time[k]).To(Equal(float64(k)))
				Expect(tr.Age[0][k]).To(BeNumerically("~", 10+float64(k)/365.0, 1e-12))
			}
			Expect(tr.Age[0][365]).To(BeNumerically("~", 11, 1e-9))
		})

		It("keeps BodyWeight identical to FFM+FM at every step", func() {
			tr, err := m.Simulate(context.Background(), 365, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())

			for k := range tr.Time {
				Expect(tr.BodyWeight[0][k]).To(Equal(tr.FFM[0][k] + tr.FM[0][k]))
			}
		})

		It("runs the documented growth scenario to a finite positive weight", func() {
			tr, err := m.Simulate(context.Background(), 365, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())

			Expect(tr.BodyWeight[0][0]).To(Equal(33.0))
			final := tr.BodyWeight[0][365]
			Expect(math.IsNaN(final)).To(BeFalse())
			Expect(math.IsInf(final, 0)).To(BeFalse())
			Expect(final).To(BeNumerically(">", 0))
			Expect(tr.ModelType).To(Equal("Children"))
			Expect(tr.Valid).To(BeTrue())
		})

		It("is prefix-consistent when the horizon is halved", func() {
			full, err := m.Simulate(context.Background(), 200, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())
			half, err := m.Simulate(context.Background(), 100, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())

			for k := range half.Time {
				Expect(half.FFM[0][k]).To(Equal(full.FFM[0][k]))
				Expect(half.FM[0][k]).To(Equal(full.FM[0][k]))
			}
		})

		It("stops with the context's error when canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := m.Simulate(ctx, 365, integrators.NewRK4())
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("tabulated intake", func() {
		newPair := func() *cohort.Cohort {
			c, err := cohort.New(
				[]float64{10, 10}, []float64{0, 1},
				[]float64{25, 25}, []float64{8, 8}, nil,
			)
			Expect(err).NotTo(HaveOccurred())
			return c
		}

		It("fails fast when the matrix is shorter than the horizon", func() {
			rows := 100
			data := mat.NewDense(rows, 2, nil)
			for r := 0; r < rows; r++ {
				data.Set(r, 0, 1500)
				data.Set(r, 1, 1500)
			}
			src, err := intake.NewTable(data, 1)
			Expect(err).NotTo(HaveOccurred())

			m, err := New(newPair(), src, 1, false)
			Expect(err).NotTo(HaveOccurred())

			_, err = m.Simulate(context.Background(), 365, integrators.NewRK4())
			Expect(errors.Is(err, intake.ErrHorizonExceeded)).To(BeTrue())
		})

		It("diverges a male/female pair only through sex-blended constants", func() {
			days := 120.0
			rows := 122
			data := mat.NewDense(rows, 2, nil)
			for r := 0; r < rows; r++ {
				data.Set(r, 0, 1500)
				data.Set(r, 1, 1500)
			}
			src, err := intake.NewTable(data, 1)
			Expect(err).NotTo(HaveOccurred())

			m, err := New(newPair(), src, 1, false)
			Expect(err).NotTo(HaveOccurred())

			tr, err := m.Simulate(context.Background(), days, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())

			// Identical start, identical intake: any divergence is the
			// sex-dependent constants at work, and there must be some.
			Expect(tr.BodyWeight[0][0]).To(Equal(tr.BodyWeight[1][0]))
			Expect(tr.BodyWeight[0][120]).NotTo(Equal(tr.BodyWeight[1][120]))

			// Two identical boys stay bit-identical: the mechanics never
			// tell individuals apart.
			twins, err := cohort.New(
				[]float64{10, 10}, []float64{0, 0},
				[]float64{25, 25}, []float64{8, 8}, nil,
			)
			Expect(err).NotTo(HaveOccurred())
			mt, err := New(twins, src, 1, false)
			Expect(err).NotTo(HaveOccurred())
			trt, err := mt.Simulate(context.Background(), days, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())
			Expect(trt.FFM[0]).To(Equal(trt.FFM[1]))
			Expect(trt.FM[0]).To(Equal(trt.FM[1]))
		})
	})

	Describe("SimulateParallel", func() {
		It("matches the serial path bit-for-bit", func() {
			c, err := cohort.Sample(cohort.SampleConfig{
				N: 64, Age: 8, FemaleShare: 0.5, FFMSpread: 2, FMSpread: 1, Seed: 11,
			})
			Expect(err).NotTo(HaveOccurred())

			m, err := New(c, boyLogistic(), 1, false)
			Expect(err).NotTo(HaveOccurred())

			serial, err := m.Simulate(context.Background(), 90, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())
			parallel, err := m.SimulateParallel(context.Background(), 90, 4, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(parallel.Time).To(Equal(serial.Time))
			for i := 0; i < c.Len(); i++ {
				Expect(parallel.FFM[i]).To(Equal(serial.FFM[i]))
				Expect(parallel.FM[i]).To(Equal(serial.FM[i]))
				Expect(parallel.BodyWeight[i]).To(Equal(serial.BodyWeight[i]))
			}
		})

		It("handles worker counts that do not divide the cohort evenly", func() {
			c, err := cohort.Sample(cohort.SampleConfig{
				N: 641, Age: 8, FemaleShare: 0.5, FFMSpread: 2, FMSpread: 1, Seed: 7,
			})
			Expect(err).NotTo(HaveOccurred())

			m, err := New(c, boyLogistic(), 1, false)
			Expect(err).NotTo(HaveOccurred())

			for _, workers := range []int{3, 40, 1000} {
				tr, err := m.SimulateParallel(context.Background(), 10, workers, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(tr.Individuals()).To(Equal(641))
				Expect(tr.Steps()).To(Equal(11))
				for k := range tr.Time {
					Expect(tr.Time[k]).To(Equal(float64(k)))
				}
				for i := 0; i < c.Len(); i++ {
					Expect(tr.BodyWeight[i][10]).To(BeNumerically(">", 0))
				}
			}
		})

		It("runs each chunk with the supplied integrator", func() {
			c, err := cohort.Sample(cohort.SampleConfig{
				N: 64, Age: 8, FemaleShare: 0.5, FFMSpread: 2, FMSpread: 1, Seed: 11,
			})
			Expect(err).NotTo(HaveOccurred())

			m, err := New(c, boyLogistic(), 1, false)
			Expect(err).NotTo(HaveOccurred())

			serial, err := m.Simulate(context.Background(), 60, integrators.NewEuler())
			Expect(err).NotTo(HaveOccurred())
			parallel, err := m.SimulateParallel(context.Background(), 60, 4,
				func() dynamo.Integrator { return integrators.NewEuler() })
			Expect(err).NotTo(HaveOccurred())

			rk4, err := m.Simulate(context.Background(), 60, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < c.Len(); i++ {
				Expect(parallel.FFM[i]).To(Equal(serial.FFM[i]))
				Expect(parallel.FM[i]).To(Equal(serial.FM[i]))
			}
			// Euler and RK4 genuinely disagree, so the match above is not vacuous.
			Expect(parallel.FFM[0]).NotTo(Equal(rk4.FFM[0]))
		})
	})

	Describe("checkValues", func() {
		It("flags a trajectory that went non-finite without aborting it", func() {
			// A negative power base drives the logistic to NaN.
			src, err := intake.NewLogistic(1800, 0, 1000, 0.05, 2, -2)
			Expect(err).NotTo(HaveOccurred())

			m, err := New(singleBoy(), src, 1, true)
			Expect(err).NotTo(HaveOccurred())

			tr, err := m.Simulate(context.Background(), 30, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Steps()).To(Equal(31))
			Expect(tr.Valid).To(BeFalse())
		})

		It("leaves Valid true when disabled", func() {
			src, err := intake.NewLogistic(1800, 0, 1000, 0.05, 2, -2)
			Expect(err).NotTo(HaveOccurred())

			m, err := New(singleBoy(), src, 1, false)
			Expect(err).NotTo(HaveOccurred())

			tr, err := m.Simulate(context.Background(), 30, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Valid).To(BeTrue())
		})
	})

	Describe("ReferenceIntake", func() {
		It("tabulates the baseline on the step grid", func() {
			c := singleBoy()
			ref, err := ReferenceIntake(c, 10, 1)
			Expect(err).NotTo(HaveOccurred())

			rows, cols := ref.Dims()
			Expect(rows).To(Equal(11))
			Expect(cols).To(Equal(1))

			m, err := New(c, boyLogistic(), 1, false)
			Expect(err).NotTo(HaveOccurred())
			for k := 0; k <= 10; k++ {
				age := 10 + float64(k)/365.0
				Expect(ref.At(k, 0)).To(Equal(m.IntakeReference(0, age)))
			}
		})

		It("feeds a table source that holds the cohort near reference weight", func() {
			c := singleBoy()
			days := 60.0
			refM, err := ReferenceIntake(c, days, 1)
			Expect(err).NotTo(HaveOccurred())
			src, err := intake.NewTable(refM, 1)
			Expect(err).NotTo(HaveOccurred())

			m, err := New(c, src, 1, false)
			Expect(err).NotTo(HaveOccurred())
			tr, err := m.Simulate(context.Background(), days, integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())

			// Two months at baseline intake should not move weight wildly.
			Expect(tr.BodyWeight[0][60]).To(BeNumerically("~", tr.BodyWeight[0][0], 3))
		})
	})
})
