package radauint

import "math"

// PlanetaryEphemerisReader is the external collaborator named `ephem` in
// spec.md §1: a JPL binary (DE-format) planetary ephemeris reader. Position
// and velocity are returned in raw kilometers and kilometers/second relative
// to the solar-system barycenter; the façade performs the AU conversion
// (spec.md §4.A). A concrete adapter wraps github.com/mshafiee/jpleph's
// *jpleph.Ephemeris (see DESIGN.md); that library already normalises to
// AU/AU-per-day internally, so the adapter scales its output back up to km
// and km/s — this interface stays in raw km so the façade also works unmodified
// against a reader that hands back native DE units.
type PlanetaryEphemerisReader interface {
	StateKm(perturber PerturberIndex, tdb float64) (r, v [3]float64, err error)
}

// AsteroidEphemerisReader is the external collaborator named `ast_ephem` in
// spec.md §1/§4.A: a JPL small-body (SPK) ephemeris reader returning a
// heliocentric position in kilometers. No SPK reader exists anywhere in the
// retrieved pack (DESIGN.md records this), so no concrete implementation
// ships with this module; callers inject one (or leave it nil, in which
// case asteroid queries fail with ErrEphemerisUnavailable, matching
// spec.md §4.A's failure mode for "file-open failure on first use").
type AsteroidEphemerisReader interface {
	HeliocentricPositionKm(asteroidIndex int, tdb float64) (r [3]float64, err error)
}

// accelDT is the half-width, in days, of the central finite difference used
// to recover planetary-body acceleration from the reader's velocity samples
// (jpleph, like most DE readers, only exposes position and velocity; the
// Chebyshev series' second derivative is not part of its public API).
const accelDT = 1e-3

// sunCache memoises the Sun's AU-barycentric state, keyed by TDB time, so
// repeated asteroid-translation queries at the same node are cheap
// (spec.md §4.A memoisation requirement).
type sunCache struct {
	valid bool
	t     float64
	r     [3]float64
}

// queryKey is the (perturber, time) pair the façade's per-call cache keys
// on. tdb is compared by exact equality, the same way sunCache compares t:
// the Radau corrector loop (integrator.go's iterateB) re-evaluates the
// force model at the identical 7 node times across up to
// maxRadauIterations passes, so exact-float reuse is the common case this
// cache exists for.
type queryKey struct {
	i   int
	tdb float64
}

type queryResult struct {
	gm      float64
	r, v, a [3]float64
}

// Ephemeris is the façade of spec.md §4.A: uniform access to
// (GM, r, v, a) for any perturber at any TDB time, with memoisation of
// every (perturber, time) pair queried so far this step and a narrower
// single-slot cache of the Sun's state used for asteroid translation.
// Grounded on spec.md §2's data-flow note ("D asks A for perturbers; A
// memoises by time") and §4.E's "perturber positions are memoised by the
// façade so repeated evaluations at identical times are cheap".
type Ephemeris struct {
	planets   PlanetaryEphemerisReader
	asteroids AsteroidEphemerisReader
	sun       sunCache
	cache     map[queryKey]queryResult
}

// NewEphemeris builds a façade over the given planetary and (optional)
// asteroid readers.
func NewEphemeris(planets PlanetaryEphemerisReader, asteroids AsteroidEphemerisReader) *Ephemeris {
	return &Ephemeris{planets: planets, asteroids: asteroids, cache: make(map[queryKey]queryResult)}
}

// ResetCache discards every memoised (perturber, time) query. The
// integrator calls this once at the start of every Step call (integrator.go);
// retries inside that call share the cache. A new t_begin means none of the previous step's Radau
// sub-node times will recur; without this the cache would grow without
// bound over a long run.
func (e *Ephemeris) ResetCache() {
	e.cache = make(map[queryKey]queryResult)
}

// Query returns (GM, r, v, a) for perturber i at TDB time t under
// gravitational constant gConst, per spec.md §4.A. r, v, a are AU, AU/day,
// AU/day^2, barycentric. For asteroid indices v and a are NaN. Repeated
// calls with the same (i, t) within a step are served from cache rather
// than re-querying the underlying reader.
func (e *Ephemeris) Query(i int, t, gConst float64) (gm float64, r, v, a [3]float64, err error) {
	if i < 0 || i >= NEphem+NAsteroids {
		return 0, r, v, a, &ErrBodyIndexOutOfRange{Index: i}
	}
	key := queryKey{i: i, tdb: t}
	if cached, ok := e.cache[key]; ok {
		return cached.gm, cached.r, cached.v, cached.a, nil
	}
	if i < NEphem {
		gm, r, v, a, err = e.queryPlanet(PerturberIndex(i), t, gConst)
	} else {
		gm, r, v, a, err = e.queryAsteroid(i-NEphem, t, gConst)
	}
	if err != nil {
		return 0, r, v, a, err
	}
	e.cache[key] = queryResult{gm: gm, r: r, v: v, a: a}
	return gm, r, v, a, nil
}

// auVelocity converts a reader's raw km/s velocity into AU/day (spec.md
// §4.A: "divide ... velocity by cau/86400").
func auVelocity(vKms [3]float64) (v [3]float64) {
	for k := 0; k < 3; k++ {
		v[k] = vKms[k] / (AU / SecondsPerDay)
	}
	return v
}

func (e *Ephemeris) queryPlanet(p PerturberIndex, t, gConst float64) (gm float64, r, v, a [3]float64, err error) {
	if e.planets == nil {
		return 0, r, v, a, &ErrEphemerisUnavailable{Source: "planetary", Cause: errNoReader}
	}
	rKm, vKms, qerr := e.planets.StateKm(p, t)
	if qerr != nil {
		return 0, r, v, a, &ErrEphemerisUnavailable{Source: p.String(), Cause: qerr}
	}
	for k := 0; k < 3; k++ {
		r[k] = rKm[k] / AU
	}
	v = auVelocity(vKms)
	// Central finite difference (in AU/day units, over a small day-step)
	// to recover acceleration; see accelDT. The reader's raw interface
	// only exposes position/velocity (as jpleph and most DE readers do),
	// not a second derivative.
	_, vPlusKms, perr := e.planets.StateKm(p, t+accelDT)
	_, vMinusKms, merr := e.planets.StateKm(p, t-accelDT)
	if perr == nil && merr == nil {
		vPlus := auVelocity(vPlusKms)
		vMinus := auVelocity(vMinusKms)
		for k := 0; k < 3; k++ {
			a[k] = (vPlus[k] - vMinus[k]) / (2 * accelDT)
		}
	} else {
		a = [3]float64{math.NaN(), math.NaN(), math.NaN()}
	}
	if p == PerturberSun {
		e.sun = sunCache{valid: true, t: t, r: r}
	}
	return gConst * massFraction[p], r, v, a, nil
}

func (e *Ephemeris) queryAsteroid(idx int, t, gConst float64) (gm float64, r, v, a [3]float64, err error) {
	if idx < 0 || idx >= NAsteroids {
		return 0, r, v, a, &ErrBodyIndexOutOfRange{Index: NEphem + idx}
	}
	if e.asteroids == nil {
		return 0, r, v, a, &ErrEphemerisUnavailable{Source: "asteroid", Cause: errNoReader}
	}
	sunR, serr := e.sunBarycentric(t, gConst)
	if serr != nil {
		return 0, r, v, a, serr
	}
	helioKm, qerr := e.asteroids.HeliocentricPositionKm(idx, t)
	if qerr != nil {
		return 0, r, v, a, &ErrEphemerisUnavailable{Source: "asteroid", Cause: qerr}
	}
	for k := 0; k < 3; k++ {
		r[k] = helioKm[k]/AU + sunR[k]
		v[k] = math.NaN()
		a[k] = math.NaN()
	}
	return gConst * asteroidMassFraction[idx], r, v, a, nil
}

// sunBarycentric returns the Sun's AU-barycentric position at t, using the
// per-step cache if it is still valid for this t (spec.md §4.A: "any new t
// invalidates the cache"). gConst is only needed to satisfy queryPlanet's
// signature on a cache miss; the Sun's position does not depend on it.
func (e *Ephemeris) sunBarycentric(t, gConst float64) ([3]float64, error) {
	if e.sun.valid && e.sun.t == t {
		return e.sun.r, nil
	}
	_, r, _, _, err := e.queryPlanet(PerturberSun, t, gConst)
	if err != nil {
		return [3]float64{}, err
	}
	return r, nil
}

var errNoReader = errNoReaderError{}

type errNoReaderError struct{}

func (errNoReaderError) Error() string { return "no reader configured" }
