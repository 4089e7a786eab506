package ir

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// FreshGen generates globally-unique names within one compilation. Per the
// Design Note "Fresh-name state", this replaces the process-wide shared
// counter a naive port of the construction algebra would reach for with a
// value threaded explicitly through a pass — so two compilations (e.g. two
// test cases running in parallel) never share state, and output names are
// fully deterministic given the sequence of fresh() calls a pass makes.
type FreshGen struct {
	counters map[string]int
}

// NewFreshGen returns a generator with all counters at zero, the state
// every pipeline run (§5) must start from.
func NewFreshGen() *FreshGen {
	return &FreshGen{counters: make(map[string]int)}
}

// Fresh returns "base/N" where N is the next unused counter value for
// base, guaranteeing uniqueness within this generator's lifetime and
// readability in dumps. base is NFC-normalised first: source identifiers
// reach this layer from an external lexer/parser and may carry combining
// marks in either composed or decomposed form, and two spellings of the
// same name must share one counter rather than silently aliasing past
// each other.
func (g *FreshGen) Fresh(base string) string {
	base = norm.NFC.String(base)
	n := g.counters[base]
	g.counters[base] = n + 1
	return fmt.Sprintf("%s/%d", base, n)
}
