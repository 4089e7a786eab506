package ir

import (
	"time"

	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/irerr"
)

// Pass is one named stage of the pipeline (§4.5): pre reports whether the
// incoming flavor satisfies the pass's precondition, run performs the
// rewrite, post computes the flavor the pass establishes, and check
// confirms the output program actually satisfies that postcondition
// (rather than trusting the flavor bookkeeping alone).
type Pass struct {
	Name string
	pre  func(Flavor) bool
	post func(Flavor) Flavor
	run  func(*FreshGen, *Program) (*Program, error)
	check func(*Program) bool
}

// Passes returns the fixed pipeline order of §2/§4.5:
// show-desugar → alpha-rename → await-lower.
func Passes() []Pass {
	return []Pass{
		{
			Name: "show-desugar",
			pre:  func(Flavor) bool { return true },
			post: func(f Flavor) Flavor { return Flavor{HasAwait: f.HasAwait, HasShow: false} },
			run: func(fresh *FreshGen, p *Program) (*Program, error) {
				return NewShow(fresh).TransformProgram(p)
			},
			check: func(p *Program) bool { return !anyInProgram(p, isShowPrim) },
		},
		{
			Name: "alpha-rename",
			pre:  func(f Flavor) bool { return !f.HasShow },
			post: func(f Flavor) Flavor { return f },
			run: func(fresh *FreshGen, p *Program) (*Program, error) {
				return NewRenamer(fresh).RenameProgram(p)
			},
			check: func(p *Program) bool { return true },
		},
		{
			Name: "await-lower",
			pre:  func(f Flavor) bool { return !f.HasShow },
			post: func(f Flavor) Flavor { return Flavor{HasAwait: false, HasShow: f.HasShow} },
			run: func(fresh *FreshGen, p *Program) (*Program, error) {
				return NewCPS(fresh).TransformProgram(p)
			},
			check: func(p *Program) bool { return !anyInProgram(p, isAwaitConstruct) },
		},
	}
}

// Result is the output of running the whole pipeline: the final program,
// its resulting flavor, and a per-pass timing breakdown.
type Result struct {
	Program      *Program
	Flavor       Flavor
	PhaseTimings map[string]int64 // nanoseconds, keyed by Pass.Name
}

// Run drives every pass in Passes() over (p, f) in order, asserting each
// pass's precondition before it runs and its postcondition (both the
// flavor bookkeeping and, via check, the program shape) after. A fresh
// FreshGen is created once per Run and threaded through every pass so
// generated names never collide across passes (§5).
func Run(p *Program, f Flavor) (*Result, error) {
	fresh := NewFreshGen()
	timings := make(map[string]int64)
	flavor := f

	for _, pass := range Passes() {
		if !pass.pre(flavor) {
			return nil, irerr.New(irerr.PIPE001, "pass invoked out of order", ast.Pos{}).
				WithData("pass", pass.Name).WithData("flavor", flavor)
		}

		start := time.Now()
		next, err := pass.run(fresh, p)
		if err != nil {
			return nil, err
		}
		timings[pass.Name] = time.Since(start).Nanoseconds()

		wantFlavor := pass.post(flavor)
		if !wantFlavor.LE(flavor) {
			return nil, irerr.New(irerr.PIPE002, "pass postcondition flavor is not ≤ precondition flavor", ast.Pos{}).
				WithData("pass", pass.Name)
		}
		if !pass.check(next) {
			return nil, irerr.New(irerr.PIPE002, "pass output does not satisfy its postcondition shape", ast.Pos{}).
				WithData("pass", pass.Name)
		}

		p = next
		flavor = wantFlavor
	}

	return &Result{Program: p, Flavor: flavor, PhaseTimings: timings}, nil
}
