// Command radauint is a thin CLI wrapper around the core integration
// session (component J of SPEC_FULL.md §2). The container/CLI wrapper is
// named out of scope in spec.md §1, so this stays intentionally small:
// parse flags, load configuration, open the ephemeris, build a Session,
// run one Integrate call, print and optionally export the result. It
// mirrors the shape of the teacher's cmd/mission/main.go (flag.Parse,
// load config, build, run, report) without any of that command's
// spacecraft/thruster/waypoint machinery, none of which this module's
// domain needs.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/astrodyn-go/radauint"
	"github.com/soniakeys/meeus/julian"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a radauint TOML/YAML/JSON config file")
		tStart      = flag.Float64("tstart", 0, "start time, TDB Julian days (ignored if -start-date is set)")
		tEnd        = flag.Float64("tend", 365.25, "end time, TDB Julian days (ignored if -end-date is set)")
		startDate   = flag.String("start-date", "", "start time as an RFC3339 calendar date, converted to TDB Julian days via meeus/julian")
		endDate     = flag.String("end-date", "", "end time as an RFC3339 calendar date, converted to TDB Julian days via meeus/julian")
		outCap      = flag.Int("out-capacity", 1000, "output buffer capacity (samples)")
		csvPath     = flag.String("csv", "", "optional CSV path to export the dense-output trajectory")
		instateFlag = flag.String("instate", "1,0,0,0,0.0172,0", "comma-separated x,y,z,vx,vy,vz of one test particle")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := radauint.LoadConfigFile(*configPath)
		if err != nil {
			log.Fatalf("radauint: %v", err)
		}
		cfg = loaded
	}

	if *startDate != "" {
		jd, err := parseCalendarJD(*startDate)
		if err != nil {
			log.Fatalf("radauint: -start-date: %v", err)
		}
		*tStart = jd
	}
	if *endDate != "" {
		jd, err := parseCalendarJD(*endDate)
		if err != nil {
			log.Fatalf("radauint: -end-date: %v", err)
		}
		*tEnd = jd
	}

	planets, err := radauint.OpenDefaultEphemeris(cfg.PlanetaryFile, nil)
	if err != nil {
		log.Fatalf("radauint: %v", err)
	}

	session := radauint.NewSession(planets)

	instate, err := parseFloats(*instateFlag)
	if err != nil {
		log.Fatalf("radauint: -instate: %v", err)
	}

	outTime := make([]float64, *outCap)
	outState := make([]float64, 6*1*(*outCap))

	result, err := session.Integrate(radauint.IntegrateParams{
		G:           cfg.G,
		C:           cfg.C,
		TStart:      *tStart,
		TEnd:        *tEnd,
		DT0:         cfg.DT0,
		Geocentric:  cfg.Geocentric,
		Epsilon:     cfg.Epsilon,
		DTMin:       cfg.DTMin,
		ExactFinish: cfg.ExactFinish,
		InState:     instate,
		A1:          cfg.A1,
		A2:          cfg.A2,
		A3:          cfg.A3,
		UseEIH:      cfg.UseEIH,
		OutTime:     outTime,
		OutState:    outState,
	})
	if err != nil {
		log.Fatalf("radauint: integrate: %v", err)
	}
	fmt.Printf("status=%s n_out=%d\n", result.Status, result.NOut)
	for _, w := range session.Warnings() {
		fmt.Fprintln(os.Stderr, w)
	}

	if *csvPath != "" {
		if err := radauint.ExportCSV(*csvPath, outTime[:result.NOut], outState[:6*result.NOut], 1); err != nil {
			log.Fatalf("radauint: export: %v", err)
		}
	}
}

func defaultConfig() *radauint.Config {
	cfg, err := radauint.NewConfig(false, 1e-9, 0.01, 1e-2, true)
	if err != nil {
		log.Fatalf("radauint: default config: %v", err)
	}
	cfg.PlanetaryFile = "de440.bsp"
	return cfg
}

// parseCalendarJD converts an RFC3339 calendar date into a TDB Julian day
// number via meeus/julian.TimeToJD, the same conversion the teacher's
// celestial.go uses for every epoch it hands to a planetposition series.
func parseCalendarJD(s string) (float64, error) {
	dt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return julian.TimeToJD(dt), nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			var v float64
			if _, err := fmt.Sscanf(s[start:i], "%g", &v); err != nil {
				return nil, err
			}
			out = append(out, v)
			start = i + 1
		}
	}
	return out, nil
}
