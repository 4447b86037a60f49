package rules

import (
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/token"

	"github.com/securejs/jssec"
	"github.com/securejs/jssec/issue"
	"github.com/securejs/jssec/jsast"
	"github.com/securejs/jssec/taint"
)

// enumerationSource is one site where the property names of an object
// become available as values: a for-in loop, or an Object.keys /
// Object.getOwnPropertyNames call whose result is consumed element by
// element. values collects the reads of the enumerated object performed
// with the enumerated name, i.e. the src[k] expressions a merge copies.
type enumerationSource struct {
	object        ast.Node
	name          ast.Node
	values        []ast.Node
	objectOrigins []ast.Node
}

// dynamicWrite is one candidate sink: base[key] = value where the key
// has no statically known string value and the base is a pre-existing
// object.
type dynamicWrite struct {
	assign *ast.AssignExpression
	target *ast.BracketExpression
}

func (w dynamicWrite) base() ast.Node  { return w.target.Left }
func (w dynamicWrite) key() ast.Node   { return w.target.Member }
func (w dynamicWrite) value() ast.Node { return w.assign.Right }

// pollutionFinding couples one dynamic write with the enumeration
// source whose keys and values jointly taint it.
type pollutionFinding struct {
	write  dynamicWrite
	source *enumerationSource
	label  taint.Label
	path   []ast.Node
}

type prototypePollution struct {
	issue.MetaData
}

func (r *prototypePollution) ID() string {
	return r.MetaData.ID
}

func (r *prototypePollution) Match(n ast.Node, ctx *jssec.Context) (*issue.Issue, error) {
	assign, ok := n.(*ast.AssignExpression)
	if !ok {
		return nil, nil
	}
	an := r.analysisFor(ctx)
	f, found := an.findings[assign]
	if !found {
		return nil, nil
	}
	what := fmt.Sprintf("%s: properties enumerated at line %d reach this dynamic write and can include __proto__ or constructor",
		r.What, ctx.Root.Position(f.source.object).Line)
	return ctx.NewIssue(n, r.ID(), what, r.Severity, r.Confidence), nil
}

// analysisFor runs the whole-file analysis once and caches it, so the
// per-node Match calls reduce to a map lookup.
func (r *prototypePollution) analysisFor(ctx *jssec.Context) *pollutionAnalysis {
	if cached, ok := ctx.PassedValues[r.ID()]; ok {
		if an, ok := cached.(*pollutionAnalysis); ok {
			return an
		}
	}
	an := analyzePollution(ctx.Root)
	ctx.PassedValues[r.ID()] = an
	return an
}

// NewPrototypePollution creates a rule that flags merge and extend
// style functions which copy enumerated properties into a pre-existing
// object through computed-key writes, without guarding against the
// keys that reach a shared prototype.
func NewPrototypePollution(id string, _ jssec.Config) (jssec.Rule, []ast.Node) {
	return &prototypePollution{
		MetaData: issue.MetaData{
			ID:         id,
			What:       "Prototype-polluting merge of attacker-controlled properties",
			Severity:   issue.High,
			Confidence: issue.Medium,
		},
	}, []ast.Node{(*ast.AssignExpression)(nil)}
}

type pollutionAnalysis struct {
	file     *jsast.File
	sources  []*enumerationSource
	writes   []dynamicWrite
	engine   *taint.Engine
	findings map[*ast.AssignExpression]*pollutionFinding
}

func analyzePollution(f *jsast.File) *pollutionAnalysis {
	an := &pollutionAnalysis{
		file:     f,
		findings: make(map[*ast.AssignExpression]*pollutionFinding),
	}
	an.collectSources()
	an.collectWrites()

	cfg := taint.Config{Sources: make(map[ast.Node][]taint.Label)}
	for _, src := range an.sources {
		cfg.Sources[src.name] = taint.Labels()
		for _, v := range src.values {
			cfg.Sources[v] = taint.Labels()
		}
	}
	cfg.Steps = an.propagationSteps()
	cfg.Guards = an.collectGuards()

	an.engine = taint.New(f, cfg)
	an.correlate()
	return an
}

// collectSources classifies the property-name enumeration sites.
func (an *pollutionAnalysis) collectSources() {
	f := an.file
	jsast.Inspect(f.Program, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.ForInStatement:
			id := forInTarget(t.Into)
			if id == nil {
				return true
			}
			name := ast.Node(id)
			if d := f.DeclOf(id); d != nil {
				name = d.Ident
			}
			an.addSource(t.Source, name)
		case *ast.CallExpression:
			if !f.IsGlobalCall(t, "Object", "keys") && !f.IsGlobalCall(t, "Object", "getOwnPropertyNames") {
				return true
			}
			if len(t.ArgumentList) != 1 {
				return true
			}
			for _, name := range an.keyConsumers(t) {
				an.addSource(t.ArgumentList[0], name)
			}
		}
		return true
	})
	for _, src := range an.sources {
		an.pairValueReads(src)
	}
}

func (an *pollutionAnalysis) addSource(object, name ast.Node) {
	an.sources = append(an.sources, &enumerationSource{
		object:        object,
		name:          name,
		objectOrigins: an.file.ResolveOrigins(object),
	})
}

// keyConsumers finds the places where the result array of a keys call
// is taken apart: the first parameter of a forEach or map callback, or
// an unknown-index read on the array. The returned nodes stand in for
// the enumerated property name.
func (an *pollutionAnalysis) keyConsumers(keysCall *ast.CallExpression) []ast.Node {
	f := an.file
	var names []ast.Node
	jsast.Inspect(f.Program, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.CallExpression:
			recv, method, call, ok := jsast.MemberCall(t)
			if !ok || (method != "forEach" && method != "map") || len(call.ArgumentList) == 0 {
				return true
			}
			if !an.flowsFrom(recv, keysCall) {
				return true
			}
			if param := callbackFirstParam(f, call.ArgumentList[0]); param != nil {
				names = append(names, param)
			}
		case *ast.BracketExpression:
			if _, constant := f.ConstantString(t.Member); constant {
				return true
			}
			if f.WriteTarget(t) || !an.flowsFrom(t.Left, keysCall) {
				return true
			}
			names = append(names, t)
		}
		return true
	})
	return names
}

// flowsFrom reports whether expr locally resolves to origin.
func (an *pollutionAnalysis) flowsFrom(expr, origin ast.Node) bool {
	if expr == origin {
		return true
	}
	for _, o := range an.file.ResolveOrigins(expr) {
		if o == origin {
			return true
		}
	}
	return false
}

func callbackFirstParam(f *jsast.File, arg ast.Node) ast.Node {
	fn := f.FunctionAt(arg)
	if fn == nil {
		if id, ok := arg.(*ast.Identifier); ok {
			if d := f.DeclOf(id); d != nil && d.Fn == nil && len(d.Writes) == 1 {
				fn = f.FunctionAt(d.Writes[0])
			} else if d != nil && d.Kind == jsast.DeclFunction {
				fn = d.Fn
			}
		}
	}
	if fn == nil || len(fn.Params) == 0 || fn.Params[0] == nil {
		return nil
	}
	return fn.Params[0]
}

// pairValueReads attaches to src every read of the enumerated object
// that is keyed by the enumerated name, or by a value derived from it.
func (an *pollutionAnalysis) pairValueReads(src *enumerationSource) {
	f := an.file
	jsast.Inspect(f.Program, func(n ast.Node) bool {
		read, ok := n.(*ast.BracketExpression)
		if !ok || f.WriteTarget(read) {
			return true
		}
		if !an.keyedBySourceName(read.Member, src) {
			return true
		}
		if !f.Equivalent(read.Left, src.object) &&
			!jsast.Intersects(f.ResolveOrigins(read.Left), src.objectOrigins) {
			return true
		}
		src.values = append(src.values, read)
		return true
	})
}

func (an *pollutionAnalysis) keyedBySourceName(member ast.Node, src *enumerationSource) bool {
	if an.file.Equivalent(member, src.name) {
		return true
	}
	return an.flowsFrom(member, src.name)
}

// collectWrites classifies the candidate sinks: computed-key writes
// whose key is not a known constant, skipping writes into a literal
// constructed on the spot and writes into an object whose own
// properties are being enumerated, which is the walk-and-rewrite idiom
// rather than a merge.
func (an *pollutionAnalysis) collectWrites() {
	f := an.file
	jsast.Inspect(f.Program, func(n ast.Node) bool {
		assign, ok := n.(*ast.AssignExpression)
		if !ok || assign.Operator != token.ASSIGN {
			return true
		}
		target, ok := assign.Left.(*ast.BracketExpression)
		if !ok {
			return true
		}
		if _, constant := f.ConstantString(target.Member); constant {
			return true
		}
		if isFreshObject(target.Left) {
			return true
		}
		baseOrigins := f.ResolveOrigins(target.Left)
		for _, src := range an.sources {
			if jsast.Intersects(baseOrigins, src.objectOrigins) {
				return true
			}
		}
		an.writes = append(an.writes, dynamicWrite{assign: assign, target: target})
		return true
	})
}

func isFreshObject(base ast.Node) bool {
	switch base.(type) {
	case *ast.ObjectLiteral, *ast.ArrayLiteral, *ast.NewExpression:
		return true
	}
	return false
}

// propagationSteps supplies the two extra label moves for computed
// reads: from the key into the read (p -> x[p]) and from the base into
// the read (x -> x[p]). Together they carry taint through chains such
// as dst[k1][k2].
func (an *pollutionAnalysis) propagationSteps() []taint.Step {
	f := an.file
	var steps []taint.Step
	jsast.Inspect(f.Program, func(n ast.Node) bool {
		read, ok := n.(*ast.BracketExpression)
		if !ok || f.WriteTarget(read) {
			return true
		}
		if _, constant := f.ConstantString(read.Member); constant {
			return true
		}
		steps = append(steps,
			taint.Step{From: read.Member, To: read},
			taint.Step{From: read.Left, To: read})
		return true
	})
	return steps
}

// correlate applies the four-way requirement per (write, source) pair:
// the same source must taint base, key and value with one label, and
// the written value must additionally derive from a paired read of the
// source object. The base requirement is met either by engine flow
// into the base, as in a recursive merge, or by the write's own tainted
// key, which endangers the base it is applied to.
func (an *pollutionAnalysis) correlate() {
	for _, w := range an.writes {
		for _, src := range an.sources {
			f := an.matchPair(w, src)
			if f == nil {
				continue
			}
			if an.nullPrototypeRoot(w.base()) {
				continue
			}
			// One issue per sink: keep the first source that matched
			// so a write fed by several enumerations is reported once.
			// Which flow path gets reported then follows the source
			// collection order.
			if _, taken := an.findings[w.assign]; !taken {
				an.findings[w.assign] = f
			}
		}
	}
}

func (an *pollutionAnalysis) matchPair(w dynamicWrite, src *enumerationSource) *pollutionFinding {
	for _, label := range taint.Labels() {
		keyFrom := an.factFrom(w.key(), src, label, false)
		if keyFrom == nil {
			continue
		}
		valueFrom := an.factFrom(w.value(), src, label, false)
		pairedFrom := an.factFrom(w.value(), src, label, true)
		if valueFrom == nil || pairedFrom == nil {
			continue
		}
		path := an.engine.FlowPath(keyFrom, w.key(), label)
		if baseFrom := an.factFrom(w.base(), src, label, false); baseFrom != nil {
			path = an.engine.FlowPath(baseFrom, w.base(), label)
		}
		return &pollutionFinding{write: w, source: src, label: label, path: path}
	}
	return nil
}

// factFrom returns the introducing node of a fact at n that belongs to
// src and carries the given label, or nil. With valuesOnly set, only
// the paired value reads count as introducers.
func (an *pollutionAnalysis) factFrom(n ast.Node, src *enumerationSource, label taint.Label, valuesOnly bool) ast.Node {
	for fact := range an.engine.Facts(n) {
		if fact.Label != label {
			continue
		}
		if !valuesOnly && fact.Source == src.name {
			return fact.Source
		}
		for _, v := range src.values {
			if fact.Source == v {
				return fact.Source
			}
		}
	}
	return nil
}

// nullPrototypeRoot walks backward from the write's base to the
// outermost object the write chain descends from, and reports whether
// that root provably carries no prototype. The walk steps through
// computed reads to their base and through local assignments to their
// value; only when every reachable root is an Object.create(null) call
// is the write safe. A root that may also be a plain literal, or that
// cannot be resolved at all, keeps the finding.
func (an *pollutionAnalysis) nullPrototypeRoot(base ast.Node) bool {
	f := an.file
	var roots []ast.Node
	seen := make(map[ast.Node]bool)
	work := []ast.Node{base}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if cur == nil || seen[cur] {
			continue
		}
		seen[cur] = true
		if read, ok := cur.(*ast.BracketExpression); ok {
			work = append(work, read.Left)
			continue
		}
		origins := f.LocalOrigins(cur)
		if len(origins) == 0 {
			roots = append(roots, cur)
			continue
		}
		work = append(work, origins...)
	}
	if len(roots) == 0 {
		return false
	}
	for _, root := range roots {
		if !isNullPrototypeCreation(f, root) {
			return false
		}
	}
	return true
}

func isNullPrototypeCreation(f *jsast.File, n ast.Node) bool {
	call, ok := n.(*ast.CallExpression)
	if !ok || !f.IsGlobalCall(call, "Object", "create") || len(call.ArgumentList) == 0 {
		return false
	}
	_, isNull := call.ArgumentList[0].(*ast.NullLiteral)
	return isNull
}

func forInTarget(into ast.ForInto) *ast.Identifier {
	switch t := into.(type) {
	case *ast.ForIntoVar:
		if id, ok := t.Binding.Target.(*ast.Identifier); ok {
			return id
		}
	case *ast.ForDeclaration:
		if id, ok := t.Target.(*ast.Identifier); ok {
			return id
		}
	case *ast.ForIntoExpression:
		if id, ok := t.Expression.(*ast.Identifier); ok {
			return id
		}
	}
	return nil
}

// region is a half-open source range in which a guard holds.
type region struct {
	from, to file.Idx
}
