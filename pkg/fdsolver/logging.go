package fdsolver

import (
	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// log is the generic logiface handle this package logs through. Concrete
// output (zerolog, or nothing) is selected per Solver via WithLogger /
// WithZerologWriter; an unconfigured Solver gets a disabled logger so every
// call site below is safe without a nil check.
type log = logiface.Logger[*izerolog.Event]

func disabledLogger() *log {
	return izerolog.L.New(izerolog.L.WithLevel(logiface.LevelDisabled))
}

// WithZerologWriter configures the Solver to emit structured log events
// through the given zerolog.Logger, at or above level.
func WithZerologWriter(zl zerolog.Logger, level logiface.Level) SolverOption {
	return func(c *solverConfig) {
		c.logger = izerolog.L.New(
			izerolog.L.WithZerolog(zl),
			izerolog.L.WithLevel(level),
		)
	}
}

// WithLogger installs an already-constructed logiface logger directly,
// bypassing the zerolog convenience wrapper above.
func WithLogger(l *log) SolverOption {
	return func(c *solverConfig) { c.logger = l }
}
