// Package formant estimates vocal tract resonances from speech using linear
// predictive coding. A Tracker slides an analysis window over a recording
// and produces a Track that can be queried for formant frequencies at any
// time point.
package formant

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// lpcAnalyzer performs Linear Predictive Coding analysis. LPC models the
// vocal tract as an all-pole filter; the peaks of its spectral envelope are
// the formants.
type lpcAnalyzer struct {
	order int
}

// newLPCAnalyzer creates an LPC analyzer of the given order. For formant
// work the order is tied to the number of formants wanted, two poles per
// resonance plus a margin for spectral tilt.
func newLPCAnalyzer(order int) *lpcAnalyzer {
	return &lpcAnalyzer{order: order}
}

// coefficients computes LPC coefficients for one windowed frame via
// autocorrelation and Levinson-Durbin recursion.
func (lpc *lpcAnalyzer) coefficients(frame []float64) ([]float64, error) {
	if len(frame) < lpc.order*2 {
		return nil, fmt.Errorf("frame too short for LPC analysis of order %d", lpc.order)
	}

	R := autocorrelate(frame, lpc.order)
	coeffs, err := levinsonDurbin(R, lpc.order)
	if err != nil {
		return nil, err
	}
	return coeffs, nil
}

// autocorrelate computes autocorrelation lags 0..maxLag of the frame using
// the FFT (Wiener-Khinchin): the inverse transform of the power spectrum.
func autocorrelate(frame []float64, maxLag int) []float64 {
	// Zero-pad to twice the frame length to make the circular correlation
	// linear.
	padded := make([]float64, 2*len(frame))
	copy(padded, frame)

	spectrum := fft.FFTReal(padded)
	power := make([]complex128, len(spectrum))
	for i, c := range spectrum {
		re := real(c)
		im := imag(c)
		power[i] = complex(re*re+im*im, 0)
	}

	corr := fft.IFFT(power)

	n := maxLag + 1
	if n > len(frame) {
		n = len(frame)
	}
	R := make([]float64, maxLag+1)
	for i := 0; i < n; i++ {
		R[i] = real(corr[i])
	}
	return R
}

// levinsonDurbin solves the normal equations for the LPC coefficients.
// Returns a[0..order] with a[0] = 1.
func levinsonDurbin(R []float64, order int) ([]float64, error) {
	if len(R) < order+1 {
		return nil, fmt.Errorf("insufficient autocorrelation values")
	}
	if R[0] == 0 {
		return nil, fmt.Errorf("zero energy signal")
	}

	a := make([]float64, order+1)
	prev := make([]float64, order+1)
	k := make([]float64, order)
	E := R[0]

	a[0] = 1.0

	for i := 1; i <= order; i++ {
		numerator := R[i]
		for j := 1; j < i; j++ {
			numerator -= a[j] * R[i-j]
		}

		if E == 0 {
			return nil, fmt.Errorf("prediction error energy became zero")
		}
		k[i-1] = numerator / E

		copy(prev, a)
		a[i] = k[i-1]
		for j := 1; j < i; j++ {
			a[j] = prev[j] - k[i-1]*prev[i-j]
		}

		E *= (1 - k[i-1]*k[i-1])
		if E <= 0 {
			break
		}
	}

	return a, nil
}

// spectralEnvelope evaluates the LPC filter magnitude response
// |1/A(e^jw)| at nfft/2+1 frequencies from DC to Nyquist.
func spectralEnvelope(coeffs []float64, nfft int) []float64 {
	envelope := make([]float64, nfft/2+1)

	for k := range envelope {
		omega := 2 * math.Pi * float64(k) / float64(nfft)

		// coeffs holds predictor coefficients, so the error filter is
		// A(z) = 1 - sum a_i z^-i.
		realPart := 1.0
		imagPart := 0.0
		for i := 1; i < len(coeffs); i++ {
			angle := -float64(i) * omega
			realPart -= coeffs[i] * math.Cos(angle)
			imagPart -= coeffs[i] * math.Sin(angle)
		}

		magnitude := math.Sqrt(realPart*realPart + imagPart*imagPart)
		if magnitude > 0 {
			envelope[k] = 1.0 / magnitude
		}
	}

	return envelope
}

// envelopePeaks returns the indices of local maxima of the envelope in
// ascending index order.
func envelopePeaks(envelope []float64) []int {
	var peaks []int
	for i := 1; i < len(envelope)-1; i++ {
		if envelope[i] > envelope[i-1] && envelope[i] > envelope[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}
