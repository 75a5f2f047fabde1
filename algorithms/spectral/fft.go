package spectral

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan is a forward complex DFT of a fixed length. Execute applies no
// scaling and is safe to call from multiple goroutines.
type Plan interface {
	Len() int
	Execute(dst, src []complex128)
}

// Backend selects the FFT library behind a Plan
type Backend string

const (
	BackendGonum Backend = "gonum"  // gonum.org/v1/gonum/dsp/fourier
	BackendGoDSP Backend = "go-dsp" // github.com/mjibson/go-dsp/fft
)

// DefaultBackend is used when no backend is configured
const DefaultBackend = BackendGonum

// ParseBackend parses a backend name. Empty means the default backend.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case "":
		return DefaultBackend, nil
	case BackendGonum, BackendGoDSP:
		return b, nil
	default:
		return "", fmt.Errorf("%w: unknown fft backend %q", ErrInvalidConfig, name)
	}
}

// NewPlan builds a plan of length n
func NewPlan(backend Backend, n int) (Plan, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: fft length must be positive: %d", ErrInvalidConfig, n)
	}

	switch backend {
	case BackendGonum, "":
		return newGonumPlan(n), nil
	case BackendGoDSP:
		return &goDSPPlan{n: n}, nil
	default:
		return nil, fmt.Errorf("%w: unknown fft backend %q", ErrInvalidConfig, backend)
	}
}

// gonumPlan pools CmplxFFT values since each one owns scratch space
// that Coefficients writes to.
type gonumPlan struct {
	n    int
	pool sync.Pool
}

func newGonumPlan(n int) *gonumPlan {
	p := &gonumPlan{n: n}
	p.pool.New = func() any {
		return fourier.NewCmplxFFT(n)
	}
	// factorisation happens here, once, instead of on the first frame
	p.pool.Put(fourier.NewCmplxFFT(n))
	return p
}

func (p *gonumPlan) Len() int { return p.n }

func (p *gonumPlan) Execute(dst, src []complex128) {
	checkPlanBuffers(p.n, dst, src)

	f := p.pool.Get().(*fourier.CmplxFFT)
	f.Coefficients(dst, src)
	p.pool.Put(f)
}

// goDSPPlan delegates to go-dsp, which caches factors internally and is
// goroutine safe.
type goDSPPlan struct {
	n int
}

func (p *goDSPPlan) Len() int { return p.n }

func (p *goDSPPlan) Execute(dst, src []complex128) {
	checkPlanBuffers(p.n, dst, src)
	copy(dst, fft.FFT(src))
}

func checkPlanBuffers(n int, dst, src []complex128) {
	if len(src) != n || len(dst) != n {
		panic(fmt.Sprintf("spectral: fft buffers (src %d, dst %d) don't match plan length %d", len(src), len(dst), n))
	}
}
