package indicator

import "math"

// Rolling-window helpers over float64 series. Undefined values are carried as
// NaN and stripped in a single pass at the end of Compute, so every helper
// treats a NaN inside its window as poisoning the result.

func diff(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(x); i++ {
		out[i] = x[i] - x[i-1]
	}
	return out
}

func rollMean(x []float64, window int) []float64 {
	out := nanSeries(len(x))
	for i := window - 1; i < len(x); i++ {
		sum, ok := windowSum(x, i, window)
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

func rollSum(x []float64, window int) []float64 {
	out := nanSeries(len(x))
	for i := window - 1; i < len(x); i++ {
		if sum, ok := windowSum(x, i, window); ok {
			out[i] = sum
		}
	}
	return out
}

// rollStd is the sample standard deviation (n-1 divisor) over the window.
func rollStd(x []float64, window int) []float64 {
	out := nanSeries(len(x))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(x); i++ {
		sum, ok := windowSum(x, i, window)
		if !ok {
			continue
		}
		mean := sum / float64(window)
		var variance float64
		for j := i - window + 1; j <= i; j++ {
			d := x[j] - mean
			variance += d * d
		}
		out[i] = math.Sqrt(variance / float64(window-1))
	}
	return out
}

func rollMax(x []float64, window int) []float64 {
	return rollExtreme(x, window, func(a, b float64) bool { return b > a })
}

func rollMin(x []float64, window int) []float64 {
	return rollExtreme(x, window, func(a, b float64) bool { return b < a })
}

func rollExtreme(x []float64, window int, better func(cur, cand float64) bool) []float64 {
	out := nanSeries(len(x))
	for i := window - 1; i < len(x); i++ {
		ext := x[i-window+1]
		defined := !math.IsNaN(ext)
		for j := i - window + 2; j <= i && defined; j++ {
			if math.IsNaN(x[j]) {
				defined = false
				break
			}
			if better(ext, x[j]) {
				ext = x[j]
			}
		}
		if defined {
			out[i] = ext
		}
	}
	return out
}

// ema is exponential smoothing with alpha = 2/(span+1), seeded at the first
// value so it converges without a warm-up bias.
func ema(x []float64, span int) []float64 {
	out := nanSeries(len(x))
	if len(x) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	prev := x[0]
	out[0] = prev
	for i := 1; i < len(x); i++ {
		prev = prev*(1-alpha) + x[i]*alpha
		out[i] = prev
	}
	return out
}

// shift moves a series forward by n positions, padding the head with NaN.
func shift(x []float64, n int) []float64 {
	out := nanSeries(len(x))
	for i := n; i < len(x); i++ {
		out[i] = x[i-n]
	}
	return out
}

func windowSum(x []float64, end, window int) (float64, bool) {
	var sum float64
	for j := end - window + 1; j <= end; j++ {
		if math.IsNaN(x[j]) {
			return 0, false
		}
		sum += x[j]
	}
	return sum, true
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
