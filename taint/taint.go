// Package taint provides a minimal label-propagation engine for jssec.
// It tracks which unsafe-key labels can reach which expressions of a
// parsed JavaScript file, following ordinary value flow (assignments,
// conditionals, arguments, returns) plus any additional propagation
// steps supplied by the rule that configures it.
//
// The engine is a monotone fixpoint: a fact is the pair of the node
// that introduced a label and the label itself, facts are only ever
// added, and the fact space is finite, so propagation terminates even
// when recursive functions make the flow graph cyclic.
package taint

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/token"

	"github.com/securejs/jssec/jsast"
)

// Label is a taint flavor naming the unsafe property key a value may
// carry at runtime.
type Label int

const (
	// Proto marks values that may equal the literal key "__proto__",
	// or objects reached through that key.
	Proto Label = iota
	// Ctor marks values that may equal the literal key "constructor",
	// or objects reached through that key.
	Ctor
)

// String returns the unsafe key the label stands for.
func (l Label) String() string {
	if l == Ctor {
		return "constructor"
	}
	return "__proto__"
}

// Labels lists every label the engine knows.
func Labels() []Label {
	return []Label{Proto, Ctor}
}

// Fact records one label reaching one node together with the source
// node that introduced it, so correlated queries can insist on a single
// originating enumeration site.
type Fact struct {
	Source ast.Node
	Label  Label
}

// Step is an additional propagation edge: every fact present at From
// also appears at To.
type Step struct {
	From, To ast.Node
}

// Guard suppresses one label on occurrences of one guarded expression
// inside a half-open source region [From, To). Occurrence matching uses
// access-path equivalence, so a guard on `k` covers every read of the
// same binding within the region.
type Guard struct {
	Guarded ast.Node
	Label   Label
	From    file.Idx
	To      file.Idx
}

// Config is the immutable engine configuration: where labels are
// introduced, which extra steps exist and which guards block flow.
type Config struct {
	Sources map[ast.Node][]Label
	Steps   []Step
	Guards  []Guard
}

type factAt struct {
	node ast.Node
	fact Fact
}

// Engine holds the stabilized label assignment for one file under one
// configuration. All queries after New are read-only and safe for
// concurrent use.
type Engine struct {
	file   *jsast.File
	cfg    Config
	edges  map[ast.Node][]ast.Node
	labels map[ast.Node]map[Fact]struct{}
	pred   map[factAt]ast.Node
}

// New builds the flow graph for f, introduces the configured sources
// and runs propagation to a fixpoint.
func New(f *jsast.File, cfg Config) *Engine {
	e := &Engine{
		file:   f,
		cfg:    cfg,
		edges:  make(map[ast.Node][]ast.Node),
		labels: make(map[ast.Node]map[Fact]struct{}),
		pred:   make(map[factAt]ast.Node),
	}
	e.buildEdges()
	e.run()
	return e
}

func (e *Engine) addEdge(from, to ast.Node) {
	if from == nil || to == nil || from == to {
		return
	}
	e.edges[from] = append(e.edges[from], to)
}

// buildEdges assembles ordinary value flow from the file's resolved
// bindings and expression structure, then appends the configured
// additional steps.
func (e *Engine) buildEdges() {
	f := e.file
	for _, d := range f.Decls() {
		for _, w := range d.Writes {
			e.addEdge(w, d.Ident)
		}
		for _, u := range d.Uses {
			e.addEdge(d.Ident, u)
		}
	}
	jsast.Inspect(f.Program, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.ConditionalExpression:
			e.addEdge(t.Consequent, n)
			e.addEdge(t.Alternate, n)
		case *ast.BinaryExpression:
			switch t.Operator {
			case token.LOGICAL_OR:
				e.addEdge(t.Left, n)
				e.addEdge(t.Right, n)
			case token.LOGICAL_AND:
				e.addEdge(t.Right, n)
			}
		case *ast.SequenceExpression:
			if l := len(t.Sequence); l > 0 {
				e.addEdge(t.Sequence[l-1], n)
			}
		case *ast.AssignExpression:
			if t.Operator == token.ASSIGN {
				e.addEdge(t.Right, n)
			}
		case *ast.CallExpression:
			fn := f.Callee(t)
			if fn == nil {
				return true
			}
			for i, arg := range t.ArgumentList {
				if i < len(fn.Params) && fn.Params[i] != nil {
					e.addEdge(arg, fn.Params[i])
				}
			}
			for _, ret := range f.Returns(fn) {
				e.addEdge(ret, n)
			}
		}
		return true
	})
	for _, s := range e.cfg.Steps {
		e.addEdge(s.From, s.To)
	}
}

// blocked reports whether a guard forbids fact's label on n.
func (e *Engine) blocked(n ast.Node, fct Fact) bool {
	for _, g := range e.cfg.Guards {
		if g.Label != fct.Label {
			continue
		}
		if n.Idx0() < g.From || n.Idx0() >= g.To {
			continue
		}
		if e.file.Equivalent(g.Guarded, n) {
			return true
		}
	}
	return false
}

// add records fct at n unless a guard blocks it or it is already
// known. Returns true when the fact is new.
func (e *Engine) add(n ast.Node, fct Fact, from ast.Node) bool {
	if e.blocked(n, fct) {
		return false
	}
	set := e.labels[n]
	if set == nil {
		set = make(map[Fact]struct{})
		e.labels[n] = set
	}
	if _, known := set[fct]; known {
		return false
	}
	set[fct] = struct{}{}
	if from != nil {
		e.pred[factAt{n, fct}] = from
	}
	return true
}

func (e *Engine) run() {
	var work []ast.Node
	for src, labels := range e.cfg.Sources {
		for _, l := range labels {
			if e.add(src, Fact{Source: src, Label: l}, nil) {
				work = append(work, src)
			}
		}
	}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		for _, succ := range e.edges[n] {
			for fct := range e.labels[n] {
				if e.add(succ, fct, n) {
					work = append(work, succ)
				}
			}
		}
	}
}

// Facts returns the stabilized facts at n. The result aliases internal
// state and must not be mutated; iteration order is unspecified.
func (e *Engine) Facts(n ast.Node) map[Fact]struct{} {
	return e.labels[n]
}

// HasFlow reports whether the label introduced at source reaches sink.
func (e *Engine) HasFlow(source, sink ast.Node, l Label) bool {
	_, ok := e.labels[sink][Fact{Source: source, Label: l}]
	return ok
}

// FlowPath returns the ordered node sequence along which the label
// introduced at source first reached sink, beginning with source and
// ending with sink. Nil when no such flow exists.
func (e *Engine) FlowPath(source, sink ast.Node, l Label) []ast.Node {
	fct := Fact{Source: source, Label: l}
	if _, ok := e.labels[sink][fct]; !ok {
		return nil
	}
	var rev []ast.Node
	// Predecessors point at strictly earlier discoveries, so the walk
	// always bottoms out at the introduction site.
	for n := sink; ; {
		rev = append(rev, n)
		p, ok := e.pred[factAt{n, fct}]
		if !ok {
			break
		}
		n = p
	}
	path := make([]ast.Node, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}
