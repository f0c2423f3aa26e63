package radauint

import (
	"fmt"
	"sync"

	kitlog "github.com/go-kit/kit/log"
)

// Session is the Session API of spec.md §4.G: it builds a fresh
// simulation per call (a ForceModel over the given Ephemeris and an
// Integrator over that), injects the real and variational particles from
// flat input vectors, runs to a target time, and returns the integrator's
// exit status plus the number of accepted-step samples written. Grounded
// on the teacher's Mission/NewMission/Propagate lifecycle (construct →
// inject state → run → report), generalized from "one spacecraft, one
// orbit" to "n real + m variational particles" sharing one integration
// vector, the way estimate.go's OrbitEstimate carries an STM block
// alongside the Cartesian state.
type Session struct {
	Ephem  *Ephemeris
	Logger kitlog.Logger

	mu       sync.Mutex
	warnings []string
}

// NewSession builds a Session over an already-open Ephemeris façade. The
// façade (and the readers it wraps) are process-wide resources per
// spec.md §5 and are not owned or closed by the Session.
func NewSession(ephem *Ephemeris) *Session {
	return &Session{Ephem: ephem, Logger: NewLogger("session")}
}

// IntegrateParams bundles the external interface of spec.md §6's
// `integrate` call. Go's lack of default arguments and the ABI's mix of
// required/optional knobs (A1/A2/A3, EIH, custom sub-node grid) make a
// params struct the idiomatic realization, matching the teacher's own
// preference for configuration structs (ExportConfig, Config) over long
// positional argument lists.
type IntegrateParams struct {
	// G and C are the gravitational constant (AU^3 Msun^-1 day^-2) and
	// speed of light (AU/day) for this run. Callers wanting the spec's
	// physical values pass radauint.GravitationalConstant and
	// radauint.SpeedOfLight explicitly (Config.Validate only rejects a
	// negative G, so G=0 is accepted: spec.md §8 invariant I1's
	// zero-forces scenario is reached this way, not through a separate
	// switch).
	G, C float64

	TStart, TEnd, DT0 float64
	Geocentric        bool
	Epsilon           float64
	DTMin             float64
	ExactFinish       bool

	InState     []float64 // 6*n_particles
	InVarParent []int     // n_var
	InVar       []float64 // 6*n_var

	A1, A2, A3 float64
	UseEIH     bool
	SubNodes   []float64 // dense-output grid; nil selects DefaultSubNodes

	OutTime  []float64 // caller-owned, length out_capacity
	OutState []float64 // caller-owned, length 6*N*out_capacity
}

// IntegrateResult mirrors spec.md §6's (status, n_out) return. Warnings
// accumulated during the run are not part of it; they are kept on the
// Session and read with Session.Warnings().
type IntegrateResult struct {
	Status IntegratorStatus
	NOut   int
}

// Integrate implements spec.md §6's external call. All intermediate
// allocations (the ParticleSet, ForceModel, Integrator) are local to this
// call and released on return; OutTime/OutState remain owned by the
// caller throughout, per spec.md §4.G.
func (s *Session) Integrate(p IntegrateParams) (IntegrateResult, error) {
	cfg := &Config{
		G:           p.G,
		C:           p.C,
		Geocentric:  p.Geocentric,
		Epsilon:     p.Epsilon,
		DT0:         p.DT0,
		DTMin:       p.DTMin,
		ExactFinish: p.ExactFinish,
		A1:          p.A1,
		A2:          p.A2,
		A3:          p.A3,
		UseEIH:      p.UseEIH,
	}
	if cfg.DTMin == 0 {
		cfg.DTMin = 1e-2
	}
	if err := cfg.Validate(); err != nil {
		return IntegrateResult{Status: StatusNumericalFailure}, err
	}

	ps, err := NewParticleSet(p.InState, p.InVar, p.InVarParent)
	if err != nil {
		return IntegrateResult{Status: StatusNumericalFailure}, err
	}

	n := ps.N()
	if len(p.OutState) < 6*n*len(p.OutTime) {
		return IntegrateResult{Status: StatusNumericalFailure}, fmt.Errorf("radauint: out_state too small for %d particles and %d-sample capacity", n, len(p.OutTime))
	}

	force := NewForceModel(s.Ephem, cfg)
	stepLogger := kitlog.With(s.Logger, "call", "integrate")
	ig := NewIntegrator(force, cfg, stepLogger)
	rec := NewRecorder(n, p.OutTime, p.OutState, p.SubNodes)

	status, err := ig.IntegrateUntil(p.TStart, p.TEnd, ps, rec)

	s.mu.Lock()
	s.warnings = append(s.warnings, ig.Warnings...)
	s.mu.Unlock()

	if status == StatusOK {
		s.Logger.Log("event", "run complete", "t_start", p.TStart, "t_end", p.TEnd, "n_out", rec.Written())
	} else {
		s.Logger.Log("event", "run terminated", "status", status.String(), "n_out", rec.Written())
	}

	return IntegrateResult{Status: status, NOut: rec.Written()}, err
}

// Warnings returns every NonConvergingStep message recorded across all
// calls to Integrate on this Session (spec.md §7's per-session warning
// log, supplemented per SPEC_FULL.md §11).
func (s *Session) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// ephemerisCache lazily opens and memoises the planetary ephemeris reader
// for the life of the process, per spec.md §5 ("readers own memory-mapped
// file handles with process-wide lifetime, initialised lazily on first
// use and never destroyed").
var ephemerisCache struct {
	sync.Once
	reader *JplephReader
	err    error
}

// OpenDefaultEphemeris lazily opens the planetary DE file at path (once
// per process) and wraps it with an Ephemeris façade over the given
// (optional) asteroid reader. Intended for the CLI wrapper (component J);
// tests inject their own PlanetaryEphemerisReader fakes directly instead.
func OpenDefaultEphemeris(path string, asteroids AsteroidEphemerisReader) (*Ephemeris, error) {
	ephemerisCache.Do(func() {
		ephemerisCache.reader, ephemerisCache.err = NewJplephReader(path)
	})
	if ephemerisCache.err != nil {
		return nil, &ErrEphemerisUnavailable{Source: path, Cause: ephemerisCache.err}
	}
	return NewEphemeris(ephemerisCache.reader, asteroids), nil
}
