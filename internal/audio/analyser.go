package audio

import (
	"math"
	"math/cmplx"

	"github.com/flappyballoon/balloon/pkg/core"
	"gonum.org/v1/gonum/dsp/fourier"
)

// AnalyserConfig describes the frequency analysis applied to each capture
// window.
type AnalyserConfig struct {
	FFTSize     int
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

// DefaultAnalyserConfig matches the byte frequency data of a browser
// AnalyserNode with fftSize 256.
func DefaultAnalyserConfig() AnalyserConfig {
	return AnalyserConfig{
		FFTSize:     256,
		Smoothing:   0.8,
		MinDecibels: -100,
		MaxDecibels: -30,
	}
}

// Analyser turns a window of time-domain samples into per-bin byte magnitudes
// and reduces them to a single level. Not safe for concurrent use.
type Analyser struct {
	cfg      AnalyserConfig
	fft      *fourier.FFT
	window   []float64
	input    []float64
	coeffs   []complex128
	smoothed []float64
	bins     []uint8
}

// NewAnalyser builds an analyser. FFTSize is rounded up to an even number of
// at least 32.
func NewAnalyser(cfg AnalyserConfig) *Analyser {
	if cfg.FFTSize < 32 {
		cfg.FFTSize = 32
	}
	if cfg.FFTSize%2 != 0 {
		cfg.FFTSize++
	}
	if cfg.MaxDecibels <= cfg.MinDecibels {
		d := DefaultAnalyserConfig()
		cfg.MinDecibels, cfg.MaxDecibels = d.MinDecibels, d.MaxDecibels
	}
	n := cfg.FFTSize
	return &Analyser{
		cfg:      cfg,
		fft:      fourier.NewFFT(n),
		window:   blackman(n),
		input:    make([]float64, n),
		coeffs:   make([]complex128, n/2+1),
		smoothed: make([]float64, n/2),
		bins:     make([]uint8, n/2),
	}
}

// Size is the number of time-domain samples consumed per analysis.
func (a *Analyser) Size() int { return a.cfg.FFTSize }

// ByteFrequencyData analyses samples (len == Size) and returns the magnitude of
// each of the Size/2 bins scaled into [0, 255]. The returned slice is reused by
// the next call.
func (a *Analyser) ByteFrequencyData(samples []float32) []uint8 {
	n := a.cfg.FFTSize
	for i := 0; i < n; i++ {
		var s float64
		if i < len(samples) {
			s = float64(samples[i])
		}
		a.input[i] = s * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.input)

	tau := a.cfg.Smoothing
	span := a.cfg.MaxDecibels - a.cfg.MinDecibels
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeffs[k]) / float64(n)
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag

		db := math.Inf(-1)
		if a.smoothed[k] > 0 {
			db = 20 * math.Log10(a.smoothed[k])
		}
		v := 255 * (db - a.cfg.MinDecibels) / span
		switch {
		case v <= 0 || math.IsNaN(v):
			a.bins[k] = 0
		case v >= 255:
			a.bins[k] = 255
		default:
			a.bins[k] = uint8(v)
		}
	}
	return a.bins
}

// Level is the mean of all bin magnitudes for samples.
func (a *Analyser) Level(samples []float32) core.AudioSample {
	bins := a.ByteFrequencyData(samples)
	var sum int
	for _, b := range bins {
		sum += int(b)
	}
	return core.AudioSample(float64(sum) / float64(len(bins)))
}

// Reset clears the smoothing history.
func (a *Analyser) Reset() {
	for i := range a.smoothed {
		a.smoothed[i] = 0
	}
}

func blackman(n int) []float64 {
	const alpha = 0.16
	a0 := (1 - alpha) / 2
	a1 := 0.5
	a2 := alpha / 2
	w := make([]float64, n)
	for i := range w {
		x := float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return w
}
