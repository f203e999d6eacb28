package spectral_test

import (
	"math"
	"math/cmplx"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vlasim/internal/compute"
	"github.com/san-kum/vlasim/internal/kinetic"
	"github.com/san-kum/vlasim/internal/spectral"
)

var _ = Describe("Engine", func() {
	var (
		params kinetic.Parameters
		eng    *spectral.Engine
		grid   kinetic.Grid
		phi    []float64
	)

	BeforeEach(func() {
		params = kinetic.Parameters{
			N:        [2]int{4, 4},
			NAll:     [4]int{4, 4, 8, 8},
			NDev:     1,
			Interval: [4]float64{1, 1, 1, 1},
			NGhost:   [4]int{0, 0, 2, 2},
		}
		var err error
		eng, err = spectral.New(params, 1, spectral.WithBackend(compute.NewCPUBackendWithWorkers(2)))
		Expect(err).NotTo(HaveOccurred())
		grid = eng.Grid()
		phi = make([]float64, grid.PotentialSize())
	})

	Describe("wavenumber tables", func() {
		It("follows the wrapped frequency convention at every half-spectrum index", func() {
			w := eng.Wavenumbers()
			Expect(w.Lam1).To(HaveLen(8))
			Expect(w.Lam2).To(HaveLen(8))

			dl1 := 2 * math.Pi / 2
			dl2 := 2 * math.Pi / 4
			for j := 0; j < 4; j++ {
				for i := 0; i < 2; i++ {
					k := j*2 + i
					want2 := float64(j) * dl2
					if j > 2 {
						want2 = float64(j-4) * dl2
					}
					Expect(w.Lam1[k]).To(BeNumerically("~", float64(i)*dl1, 1e-15))
					Expect(w.Lam2[k]).To(BeNumerically("~", want2, 1e-15))
				}
			}
		})
	})

	Describe("Advance", func() {
		It("preserves magnitude and advances phase by alpha*(lam1+lam2)", func() {
			buf := make([]complex128, grid.SpectralLen())
			for i := range buf {
				buf[i] = complex(1, 0)
			}
			Expect(eng.Advance(buf, phi, 1)).To(Succeed())

			w := eng.Wavenumbers()
			for k := 0; k < grid.HalfSpectrum(); k++ {
				Expect(cmplx.Abs(buf[k])).To(BeNumerically("~", 1, 1e-12))
				want := math.Remainder(0.4*(w.Lam1[k]+w.Lam2[k]), 2*math.Pi)
				diff := math.Remainder(cmplx.Phase(buf[k])-want, 2*math.Pi)
				Expect(diff).To(BeNumerically("~", 0, 1e-12))
			}
		})

		It("is deterministic for identical inputs", func() {
			rng := rand.New(rand.NewSource(3))
			a := make([]complex128, grid.SpectralLen())
			for i := range a {
				a[i] = complex(rng.NormFloat64(), rng.NormFloat64())
			}
			b := append([]complex128(nil), a...)
			for i := range phi {
				phi[i] = rng.Float64()
			}

			Expect(eng.Advance(a, phi, 0.3)).To(Succeed())
			ex := append([]float64(nil), eng.Ex()...)
			Expect(eng.Advance(b, phi, 0.3)).To(Succeed())
			Expect(b).To(Equal(a))
			Expect(eng.Ey()).To(HaveLen(len(ex)))
			Expect(eng.Ex()).To(Equal(ex))
		})

		It("composes two steps into one of twice the timestep", func() {
			rng := rand.New(rand.NewSource(11))
			twice := make([]complex128, grid.SpectralLen())
			for i := range twice {
				twice[i] = complex(rng.NormFloat64(), rng.NormFloat64())
			}
			once := append([]complex128(nil), twice...)

			Expect(eng.Advance(twice, phi, 0.25)).To(Succeed())
			Expect(eng.Advance(twice, phi, 0.25)).To(Succeed())
			Expect(eng.Advance(once, phi, 0.5)).To(Succeed())

			for k := range once {
				Expect(cmplx.Abs(twice[k] - once[k])).To(BeNumerically("<", 1e-12))
			}
		})

		It("leaves the field independent of the spectral buffer", func() {
			for i := range phi {
				phi[i] = float64(i % 8)
			}
			zero := make([]complex128, grid.SpectralLen())
			Expect(eng.Advance(zero, phi, 1)).To(Succeed())
			ex := append([]float64(nil), eng.Ex()...)

			noisy := make([]complex128, grid.SpectralLen())
			for i := range noisy {
				noisy[i] = complex(float64(i), -1)
			}
			Expect(eng.Advance(noisy, phi, 1)).To(Succeed())
			Expect(eng.Ex()).To(Equal(ex))
		})

		It("rejects a short buffer before touching it", func() {
			buf := make([]complex128, grid.SpectralLen()-1)
			for i := range buf {
				buf[i] = 1
			}
			err := eng.Advance(buf, phi, 1)
			Expect(err).To(MatchError(kinetic.ErrBufferTooShort))
			for _, v := range buf {
				Expect(v).To(Equal(complex128(1)))
			}
		})
	})

	Describe("round trip through the transform plan", func() {
		It("returns the original block after a zero timestep", func() {
			plan, err := spectral.PlanFor(grid)
			Expect(err).NotTo(HaveOccurred())

			cells := grid.LocalCells()
			f := make([]float64, cells*plan.RealLen())
			for c := 0; c < cells; c++ {
				for k := 0; k < plan.RealLen(); k++ {
					j, i := k/grid.NV1, k%grid.NV1
					f[c*plan.RealLen()+k] = 1 + 0.1*float64(c) + math.Cos(2*math.Pi*float64(i)/4) + math.Sin(2*math.Pi*float64(j)/4)
				}
			}

			buf := make([]complex128, grid.SpectralLen())
			Expect(plan.ForwardCells(buf, f, cells)).To(Succeed())
			Expect(eng.Advance(buf, phi, 0)).To(Succeed())

			out := make([]float64, len(f))
			Expect(plan.InverseCells(out, buf, cells)).To(Succeed())
			for k := range f {
				Expect(out[k]).To(BeNumerically("~", f[k], 1e-12))
			}
		})
	})
})
