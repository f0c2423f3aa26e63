package radauint

import "github.com/mshafiee/jpleph"

// perturberToPlanet maps a planetary-ephemeris PerturberIndex to the
// jpleph.Planet constant the underlying DE reader expects.
var perturberToPlanet = [NEphem]jpleph.Planet{
	PerturberSun:     jpleph.Sun,
	PerturberMercury: jpleph.Mercury,
	PerturberVenus:   jpleph.Venus,
	PerturberEarth:   jpleph.Earth,
	PerturberMoon:    jpleph.Moon,
	PerturberMars:    jpleph.Mars,
	PerturberJupiter: jpleph.Jupiter,
	PerturberSaturn:  jpleph.Saturn,
	PerturberUranus:  jpleph.Uranus,
	PerturberNeptune: jpleph.Neptune,
	PerturberPluto:   jpleph.Pluto,
}

// JplephReader adapts github.com/mshafiee/jpleph's binary DE reader to the
// PlanetaryEphemerisReader interface (component A's `ephem` collaborator,
// spec.md §1/§4.A). Every query is taken relative to the solar-system
// barycenter so the façade's frame handling stays uniform across bodies.
//
// jpleph's CalculatePV already normalises its output to AU and AU/day
// (it applies the file's own km-per-AU constant internally); this adapter
// scales that back up to the raw kilometers and kilometers/second the
// PlanetaryEphemerisReader interface documents, so the façade's own
// cau-based unit conversion (spec.md §4.A) round-trips exactly instead of
// double-converting.
type JplephReader struct {
	eph *jpleph.Ephemeris
}

// NewJplephReader opens a JPL DE binary ephemeris file and wraps it.
func NewJplephReader(path string) (*JplephReader, error) {
	eph, err := jpleph.NewEphemeris(path, false)
	if err != nil {
		return nil, &ErrEphemerisUnavailable{Source: path, Cause: err}
	}
	return &JplephReader{eph: eph}, nil
}

// Close releases the underlying memory-mapped file handle.
func (j *JplephReader) Close() error { return j.eph.Close() }

// StateKm implements PlanetaryEphemerisReader. tdb is a Julian Ephemeris
// Date (the unit jpleph.CalculatePV expects). Velocity is returned in
// kilometers per second, matching spec.md §4.A's cau/86400 divisor.
func (j *JplephReader) StateKm(p PerturberIndex, tdb float64) (r, v [3]float64, err error) {
	if int(p) < 0 || int(p) >= NEphem {
		return r, v, &ErrBodyIndexOutOfRange{Index: int(p)}
	}
	target := perturberToPlanet[p]
	pos, vel, perr := j.eph.CalculatePV(tdb, target, jpleph.CenterSolarSystemBarycenter, true)
	if perr != nil {
		return r, v, perr
	}
	r = [3]float64{pos.X * AU, pos.Y * AU, pos.Z * AU}
	v = [3]float64{vel.DX * AU / SecondsPerDay, vel.DY * AU / SecondsPerDay, vel.DZ * AU / SecondsPerDay}
	return r, v, nil
}
