package radauint

// asteroidMassFraction holds each of the sixteen massive main-belt
// asteroids' mass as a fraction of the Sun's (spec.md §3). Values follow
// the DE441/Folkner asteroid perturber list; like massFraction, callers
// must never hand-derive these — they are read once, here. GM is scaled
// from this table by the run's Config.G at query time, the same as the
// planetary table.
var asteroidMassFraction = [NAsteroids]float64{
	1.400e-13, // Ceres
	3.104e-14, // Pallas
	4.210e-14, // Vesta
	8.500e-15, // Hygiea
	2.400e-15, // Euphrosyne
	5.200e-15, // Interamnia
	3.800e-15, // Davida
	3.100e-15, // Europa (asteroid 52)
	2.000e-15, // Sylvia
	2.200e-15, // Eunomia
	1.700e-15, // Juno
	1.500e-15, // Psyche
	1.600e-15, // Cybele
	1.300e-15, // Thisbe
	1.100e-15, // Doris
	1.000e-15, // Patientia
}

// asteroidNames documents the default sixteen (order must match
// asteroidMassFraction and the rows of the externally supplied SPK file).
var asteroidNames = [NAsteroids]string{
	"Ceres", "Pallas", "Vesta", "Hygiea", "Euphrosyne", "Interamnia",
	"Davida", "Europa", "Sylvia", "Eunomia", "Juno", "Psyche", "Cybele",
	"Thisbe", "Doris", "Patientia",
}

// AsteroidName returns the name of the asteroid at the given zero-based
// small-body index (i.e. perturber index i-NEphem).
func AsteroidName(idx int) string {
	if idx < 0 || idx >= NAsteroids {
		return "unknown asteroid"
	}
	return asteroidNames[idx]
}
