package pso

import (
	"math/rand"

	"github.com/arnegilmore/microplace/internal/errs"
)

// Handler brings a value into the half-open range [lo, hi) according to
// one of the named strategies in spec §4.2. rng supplies the random draws
// needed by the "random" strategy.
type Handler func(rng *rand.Rand, value float64, lo, hi float64) float64

// noneHandle is the identity strategy.
func noneHandle(_ *rand.Rand, value, _, _ float64) float64 {
	return value
}

// boundaryHandle (absorbing) clamps below lo to lo and at-or-above hi to
// hi-1.
func boundaryHandle(_ *rand.Rand, value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value >= hi {
		return hi - 1
	}
	return value
}

// periodicHandle wraps value modulo hi, keeping negative results in
// [lo, 0) when lo < 0, per spec §4.2; an exact multiple of hi wraps to 0.
func periodicHandle(_ *rand.Rand, value, lo, hi float64) float64 {
	if value >= hi {
		return mod(value, hi)
	}
	if value < lo {
		m := mod(value, hi)
		if lo >= 0 || m == 0 {
			return m
		}
		return m - hi
	}
	return value
}

// mod wraps v into [0, m) — the values passed in are always effectively
// integral (node indices drifted by velocity), so a loop-based wrap is
// simpler here than reasoning about math.Mod's sign conventions.
func mod(v, m float64) float64 {
	result := v
	for result >= m {
		result -= m
	}
	for result < 0 {
		result += m
	}
	return result
}

// randomHandle redraws uniformly from [lo, hi) when value is out of range,
// leaving in-range values untouched.
func randomHandle(rng *rand.Rand, value, lo, hi float64) float64 {
	if value >= lo && value < hi {
		return value
	}
	return lo + rng.Float64()*(hi-lo)
}

// reflectingHandle snaps out-of-range positions to the boundary; unlike
// boundaryHandle it is meant to be paired with a velocity negation by the
// caller (position-only strategy per spec §4.2).
func reflectingHandle(_ *rand.Rand, value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value >= hi {
		return hi - 1
	}
	return value
}

// velocityHandlers and positionHandlers are the closed sets named in spec
// §4.2 — "reflecting" is position-only, so it is absent from the velocity
// set.
var velocityHandlers = map[string]Handler{
	"none":     noneHandle,
	"boundary": boundaryHandle,
	"periodic": periodicHandle,
	"random":   randomHandle,
}

var positionHandlers = map[string]Handler{
	"none":       noneHandle,
	"boundary":   boundaryHandle,
	"periodic":   periodicHandle,
	"random":     randomHandle,
	"reflecting": reflectingHandle,
}

// resolveVelocityHandler looks up a named velocity boundary strategy,
// returning a ConfigError for an unknown name (spec §4.2, §7).
func resolveVelocityHandler(name string) (Handler, error) {
	h, ok := velocityHandlers[name]
	if !ok {
		return nil, errs.NewConfigError("velocity_handling", "unknown boundary handler "+name)
	}
	return h, nil
}

// resolvePositionHandler looks up a named position boundary strategy,
// returning a ConfigError for an unknown name.
func resolvePositionHandler(name string) (Handler, error) {
	h, ok := positionHandlers[name]
	if !ok {
		return nil, errs.NewConfigError("position_handling", "unknown boundary handler "+name)
	}
	return h, nil
}
