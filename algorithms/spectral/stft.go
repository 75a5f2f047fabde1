package spectral

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"slices"
	"sync"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
	"github.com/RyanBlaney/sonido-stft/algorithms/windowing"
	"github.com/RyanBlaney/sonido-stft/logging"
)

// DefaultNFFT is the transform size used when none is configured
const DefaultNFFT = 2048

// Builder accumulates an STFT configuration. Unset options take the
// documented defaults when Build is called.
type Builder[T common.Float] struct {
	nFFT        *int
	hopLength   *int
	winLength   *int
	padMode     PadMode
	window      []T
	windowSet   bool
	windowNamed windowing.WindowType
	normalize   *bool
	backend     Backend
	workers     int
	logger      logging.Logger
}

// NewBuilder creates a builder with every option unset
func NewBuilder[T common.Float]() *Builder[T] {
	return &Builder[T]{}
}

// NFFT sets the transform size (default 2048)
func (b *Builder[T]) NFFT(n int) *Builder[T] {
	b.nFFT = &n
	return b
}

// HopLength sets the frame advance (default win_length/4)
func (b *Builder[T]) HopLength(hop int) *Builder[T] {
	b.hopLength = &hop
	return b
}

// WinLength sets the window support (default n_fft)
func (b *Builder[T]) WinLength(n int) *Builder[T] {
	b.winLength = &n
	return b
}

// PadMode sets the padding mode (default truncate)
func (b *Builder[T]) PadMode(mode PadMode) *Builder[T] {
	b.padMode = mode
	return b
}

// Window sets explicit window coefficients; their length must equal win_length.
// It takes precedence over WindowNamed.
func (b *Builder[T]) Window(w []T) *Builder[T] {
	b.window = slices.Clone(w)
	b.windowSet = true
	return b
}

// WindowNamed selects a generated periodic window (default Hann)
func (b *Builder[T]) WindowNamed(t windowing.WindowType) *Builder[T] {
	b.windowNamed = t
	return b
}

// Normalize divides every bin by the window L2 norm (default true)
func (b *Builder[T]) Normalize(normalize bool) *Builder[T] {
	b.normalize = &normalize
	return b
}

// Backend selects the FFT library (default gonum)
func (b *Builder[T]) Backend(backend Backend) *Builder[T] {
	b.backend = backend
	return b
}

// Workers sets the number of goroutines per Process call. 0 picks a count
// from the frame count and the available CPUs.
func (b *Builder[T]) Workers(n int) *Builder[T] {
	b.workers = n
	return b
}

// Logger overrides the component logger
func (b *Builder[T]) Logger(logger logging.Logger) *Builder[T] {
	b.logger = logger
	return b
}

// Build validates the configuration and constructs the window and FFT plan
func (b *Builder[T]) Build() (*STFT[T], error) {
	nFFT := DefaultNFFT
	if b.nFFT != nil {
		nFFT = *b.nFFT
	}
	winLength := nFFT
	if b.winLength != nil {
		winLength = *b.winLength
	}
	hopLength := winLength / 4
	if b.hopLength != nil {
		hopLength = *b.hopLength
	}
	normalize := true
	if b.normalize != nil {
		normalize = *b.normalize
	}

	logger := b.logger
	if logger == nil {
		logger = logging.WithFields(logging.Fields{"component": "stft"})
	}

	switch {
	case nFFT <= 0:
		return nil, fmt.Errorf("%w: n_fft must be positive: %d", ErrInvalidConfig, nFFT)
	case winLength <= 0:
		return nil, fmt.Errorf("%w: win_length must be positive: %d", ErrInvalidConfig, winLength)
	case winLength > nFFT:
		return nil, fmt.Errorf("%w: win_length (%d) must be <= n_fft (%d)", ErrInvalidConfig, winLength, nFFT)
	case hopLength <= 0:
		return nil, fmt.Errorf("%w: hop_length must be positive: %d", ErrInvalidConfig, hopLength)
	case b.workers < 0:
		return nil, fmt.Errorf("%w: workers must not be negative: %d", ErrInvalidConfig, b.workers)
	case b.padMode < PadTruncate || b.padMode > PadCenter:
		return nil, fmt.Errorf("%w: unknown pad mode %v", ErrInvalidConfig, b.padMode)
	}

	var coefficients []T
	if b.windowSet {
		if len(b.window) != winLength {
			return nil, fmt.Errorf("%w: window length (%d) must equal win_length (%d)",
				ErrInvalidConfig, len(b.window), winLength)
		}
		coefficients = b.window
	} else {
		kind := b.windowNamed
		if kind == "" {
			kind = windowing.DefaultWindowType
		}
		w, err := windowing.Get(kind, winLength, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		coefficients = common.FromFloat64[T](w)
	}

	window := make([]T, nFFT)
	copy(window[(nFFT-winLength)/2:], coefficients)

	normalization := T(1)
	if normalize {
		normalization = T(common.L2Norm(common.ToFloat64(window)))
	}

	plan, err := NewPlan(b.backend, nFFT)
	if err != nil {
		return nil, err
	}

	s := &STFT[T]{
		nFFT:          nFFT,
		hopLength:     hopLength,
		winLength:     winLength,
		padMode:       b.padMode,
		window:        window,
		normalization: normalization,
		plan:          plan,
		workers:       b.workers,
		logger:        logger,
	}

	logger.Debug("STFT configured", logging.Fields{
		"n_fft":         nFFT,
		"hop_length":    hopLength,
		"win_length":    winLength,
		"pad_mode":      b.padMode.String(),
		"normalization": float64(normalization),
	})

	return s, nil
}

// STFT computes magnitude spectrograms. It is immutable after Build and
// safe for concurrent use.
type STFT[T common.Float] struct {
	nFFT          int
	hopLength     int
	winLength     int
	padMode       PadMode
	window        []T // length n_fft, centered support of win_length
	normalization T
	plan          Plan
	workers       int
	logger        logging.Logger
}

func (s *STFT[T]) NFFT() int { return s.nFFT }

func (s *STFT[T]) HopLength() int { return s.hopLength }

func (s *STFT[T]) WinLength() int { return s.winLength }

func (s *STFT[T]) PadMode() PadMode { return s.padMode }

// FreqBins returns the rows of every spectrogram, n_fft/2+1
func (s *STFT[T]) FreqBins() int { return s.nFFT/2 + 1 }

// Normalization returns the divisor applied to every bin
func (s *STFT[T]) Normalization() T { return s.normalization }

// Window returns a copy of the zero padded length-n_fft window
func (s *STFT[T]) Window() []T {
	return append([]T(nil), s.window...)
}

// NumFrames returns the frame count Process produces for a signal length
func (s *STFT[T]) NumFrames(signalLen int) (int, error) {
	paddedLen := signalLen
	if s.padMode != PadTruncate {
		if signalLen < s.nFFT {
			return 0, fmt.Errorf("%w: %s padding needs at least %d samples, got %d",
				ErrSignalTooShort, s.padMode, s.nFFT, signalLen)
		}
		paddedLen += padAmount(signalLen, s.nFFT, s.hopLength)
	}
	return numFrames(paddedLen, s.nFFT, s.hopLength), nil
}

// Process computes the (n_fft/2+1 × n_frames) magnitude spectrogram.
// Under truncate a signal shorter than n_fft gives zero frames.
// The signal is not modified.
func (s *STFT[T]) Process(signal []T) (*Matrix[T], error) {
	padded, err := padSignal(signal, s.padMode, s.nFFT, s.hopLength)
	if err != nil {
		return nil, err
	}

	frames := numFrames(len(padded), s.nFFT, s.hopLength)
	output := NewMatrix[T](s.FreqBins(), frames)
	if frames == 0 {
		s.logger.Debug("Signal shorter than one frame", logging.Fields{
			"signal_length": len(signal),
			"n_fft":         s.nFFT,
		})
		return output, nil
	}

	numWorkers := s.workers
	if numWorkers == 0 {
		numWorkers = s.getOptimalWorkerCount(frames)
	}
	numWorkers = min(numWorkers, frames)

	if numWorkers == 1 {
		s.newFrameWorker().run(padded, output, 0, frames)
	} else {
		s.processParallel(padded, output, frames, numWorkers)
	}

	s.logger.Debug("STFT processed", logging.Fields{
		"signal_length": len(signal),
		"padded_length": len(padded),
		"frames":        frames,
		"workers":       numWorkers,
	})

	return output, nil
}

// processParallel distributes frames over workers. Each worker owns its
// buffers and writes disjoint columns of output.
func (s *STFT[T]) processParallel(padded []T, output *Matrix[T], frames, numWorkers int) {
	type frameJob struct {
		start int
		end   int
	}

	// batches keep channel traffic low for short hops
	batch := max(1, frames/(numWorkers*4))
	jobs := make(chan frameJob, (frames+batch-1)/batch)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			worker := s.newFrameWorker()
			for job := range jobs {
				worker.run(padded, output, job.start, job.end)
			}
		}()
	}

	for start := 0; start < frames; start += batch {
		jobs <- frameJob{start: start, end: min(start+batch, frames)}
	}
	close(jobs)

	wg.Wait()
}

// getOptimalWorkerCount determines the number of workers based on workload
func (s *STFT[T]) getOptimalWorkerCount(frames int) int {
	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if frames < 100 {
		return max(1, min(numCPU/2, frames))
	}

	if frames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}

type frameWorker[T common.Float] struct {
	s      *STFT[T]
	input  []complex128
	output []complex128
}

func (s *STFT[T]) newFrameWorker() *frameWorker[T] {
	return &frameWorker[T]{
		s:      s,
		input:  make([]complex128, s.nFFT),
		output: make([]complex128, s.nFFT),
	}
}

// run transforms frames [first, last) into the matching output columns
func (w *frameWorker[T]) run(padded []T, output *Matrix[T], first, last int) {
	s := w.s
	bins := s.FreqBins()
	norm := complex(float64(s.normalization), 0)

	for frame := first; frame < last; frame++ {
		start := frame * s.hopLength
		end := min(len(padded), start+s.nFFT)
		segment := padded[start:end]

		for i := range w.input {
			if i < len(segment) {
				w.input[i] = complex(float64(s.window[i]*segment[i]), 0)
			} else {
				w.input[i] = 0
			}
		}

		s.plan.Execute(w.output, w.input)

		for k := range bins {
			output.data[k*output.cols+frame] = T(cmplx.Abs(w.output[k] / norm))
		}
	}
}
