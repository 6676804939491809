package noise

import "math"

// Window is a fixed-size sliding window with running sum and sum-of-squares,
// so the estimators never materialize a whole series just to take a mean or
// a standard deviation.
type Window struct {
	buf   []float64
	size  int
	head  int
	count int
	sum   float64
	sumSq float64
}

func NewWindow(size int) *Window {
	return &Window{buf: make([]float64, size), size: size}
}

// Push adds a value, evicting the oldest once the window is full.
func (w *Window) Push(v float64) {
	if w.count == w.size {
		old := w.buf[w.head]
		w.sum -= old
		w.sumSq -= old * old
	} else {
		w.count++
	}
	w.buf[w.head] = v
	w.sum += v
	w.sumSq += v * v
	w.head = (w.head + 1) % w.size
}

// Full reports whether the window has accumulated size observations.
func (w *Window) Full() bool { return w.count == w.size }

// Mean of the current window contents. Zero when empty.
func (w *Window) Mean() float64 {
	if w.count == 0 {
		return 0
	}
	return w.sum / float64(w.count)
}

// Std is the sample standard deviation of the window contents.
func (w *Window) Std() float64 {
	if w.count < 2 {
		return 0
	}
	n := float64(w.count)
	variance := (w.sumSq - w.sum*w.sum/n) / (n - 1)
	if variance < 0 {
		// floating-point cancellation can push a zero variance slightly negative
		variance = 0
	}
	return math.Sqrt(variance)
}
