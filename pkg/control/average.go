package control

// RunningAverage maintains a rolling arithmetic mean over the last N
// added values. The window size is fixed at construction; once the
// window is full the oldest value is evicted on every Add.
//
// Implemented as a ring buffer with a running sum so that Add and
// Average are O(1).
type RunningAverage struct {
	values []float64
	head   int // index of the next write position
	count  int // number of valid values, <= len(values)
	sum    float64
}

// NewRunningAverage creates a RunningAverage with the given window size.
// Sizes below 1 are treated as 1.
func NewRunningAverage(size int) *RunningAverage {
	if size < 1 {
		size = 1
	}
	return &RunningAverage{
		values: make([]float64, size),
	}
}

// Add appends a value, evicting the oldest if the window is full.
func (r *RunningAverage) Add(value float64) {
	if r.count == len(r.values) {
		r.sum -= r.values[r.head]
	} else {
		r.count++
	}
	r.values[r.head] = value
	r.sum += value
	r.head = (r.head + 1) % len(r.values)
}

// Average returns the mean of the current window contents, or 0.0 if
// no values have been added yet.
func (r *RunningAverage) Average() float64 {
	if r.count == 0 {
		return 0.0
	}
	return r.sum / float64(r.count)
}

// Len returns the number of values currently in the window.
func (r *RunningAverage) Len() int {
	return r.count
}

// Clear empties the window.
func (r *RunningAverage) Clear() {
	r.head = 0
	r.count = 0
	r.sum = 0.0
}
