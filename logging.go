package radauint

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// NewLogger builds the module's structured logger, in the teacher's
// go-kit/log idiom (spacecraft.go's SCLogInit, estimate.go's NewOrbitEstimate:
// a logfmt logger over stdout, tagged per subsystem via With). Used by
// Session and the integrator driver to report run lifecycle and
// NonConvergingStep warnings (spec.md §7).
func NewLogger(subsys string) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(logger, "subsys", subsys, "ts", kitlog.DefaultTimestampUTC)
}
