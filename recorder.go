package radauint

// DefaultSubNodes is the recorder's design-default dense-output grid,
// spec.md §4.F: ten uniformly spaced fractions of the completed step.
var DefaultSubNodes = [10]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

// Recorder is the dense-output component of spec.md §4.F: after every
// accepted step it reconstructs the state at a chosen set of sub-nodes
// from the step's b-coefficients and the cached (x0,v0,a0) at t_begin,
// and appends the samples to caller-owned output buffers. Grounded on the
// teacher's export.go streaming-writer shape (a channel-fed writer with a
// hard capacity), generalized here to the in-memory buffer spec.md §3
// mandates (time vector + row-major state matrix) rather than a file sink.
type Recorder struct {
	subNodes []float64
	n        int // total particle count (reals + variational)

	outTime  []float64 // caller-owned, length capacity
	outState []float64 // caller-owned, length 6*N*capacity, row-major

	capacity int // number of *samples* the buffers can hold
	written  int // samples written so far
}

// NewRecorder wraps caller-provided time/state buffers. capacity is the
// number of samples (rows) the buffers can hold; outState must have
// length 6*n*capacity.
func NewRecorder(n int, outTime, outState []float64, subNodes []float64) *Recorder {
	if subNodes == nil {
		subNodes = DefaultSubNodes[:]
	}
	return &Recorder{
		subNodes: subNodes,
		n:        n,
		outTime:  outTime,
		outState: outState,
		capacity: len(outTime),
	}
}

// RemainingCapacity returns how many more samples the buffers can hold.
func (r *Recorder) RemainingCapacity() int { return r.capacity - r.written }

// WriteInitial writes the initial conditions as sample 0 (spec.md §4.F:
// "At step 0 it writes t_begin and the initial state").
func (r *Recorder) WriteInitial(t float64, state []float64) error {
	return r.writeSample(t, state)
}

// RecordStep reconstructs and appends one sample per configured sub-node
// of a completed step, per the polynomial-integration formula of spec.md
// §4.F. It signals BufferFull (without a partial write past the last fully
// written sample) when the buffers can't hold a whole step's worth of
// sub-node samples.
func (r *Recorder) RecordStep(step *stepResult) error {
	if r.RemainingCapacity() < len(r.subNodes) {
		return &ErrBufferFull{}
	}
	for _, hg := range r.subNodes {
		tau := step.dt * hg
		x, v := predict(step.x0, step.v0, step.a0, step.b, tau)
		state := make([]float64, 6*r.n)
		interleave(x, v, state)
		if err := r.writeSample(step.tBegin+tau, state); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) writeSample(t float64, state []float64) error {
	if r.written >= r.capacity {
		return &ErrBufferFull{}
	}
	r.outTime[r.written] = t
	copy(r.outState[r.written*6*r.n:(r.written+1)*6*r.n], state)
	r.written++
	return nil
}

// Written returns the number of samples actually recorded (n_out of
// spec.md §4.G).
func (r *Recorder) Written() int { return r.written }
