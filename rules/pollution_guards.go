package rules

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"

	"github.com/securejs/jssec/jsast"
	"github.com/securejs/jssec/taint"
)

// guardCondition is one recognized sanitizer: a boolean expression
// which, on the branch where it evaluates to safeWhen, proves that the
// guarded expression cannot carry the listed labels.
type guardCondition struct {
	cond     ast.Node
	guarded  ast.Node
	labels   []taint.Label
	safeWhen bool
}

// collectGuards scans the file for the sanitizer patterns and converts
// each into label blocks over the source regions its safe branch
// controls.
func (an *pollutionAnalysis) collectGuards() []taint.Guard {
	var guards []taint.Guard
	jsast.Inspect(an.file.Program, func(n ast.Node) bool {
		for _, g := range an.guardConditions(n) {
			for _, r := range an.safeRegions(g.cond, g.safeWhen) {
				for _, label := range g.labels {
					guards = append(guards, taint.Guard{
						Guarded: g.guarded,
						Label:   label,
						From:    r.from,
						To:      r.to,
					})
				}
			}
		}
		return true
	})
	return guards
}

// guardConditions matches n against the sanitizer catalog. A node can
// yield several conditions, e.g. an includes() check listing both
// unsafe keys.
func (an *pollutionAnalysis) guardConditions(n ast.Node) []guardCondition {
	switch t := n.(type) {
	case *ast.BinaryExpression:
		if g, ok := an.typeofGuard(t); ok {
			return []guardCondition{g}
		}
		if g, ok := an.equalityGuard(t); ok {
			return []guardCondition{g}
		}
		if g, ok := an.indexOfGuard(t); ok {
			return g
		}
		if t.Operator == token.INSTANCEOF {
			// A built-in prototype object never satisfies instanceof.
			// constructor.constructor.prototype still reaches a
			// function prototype, so only the proto label is blocked.
			return []guardCondition{{
				cond:     t,
				guarded:  t.Left,
				labels:   []taint.Label{taint.Proto},
				safeWhen: true,
			}}
		}
	case *ast.CallExpression:
		if g, ok := an.hasOwnGuard(t); ok {
			return []guardCondition{g}
		}
		if g, ok := an.includesGuard(t); ok {
			return g
		}
	}
	return nil
}

// equalityGuard matches x === "__proto__" and the loose and negated
// variants. The safe branch is the one where the comparison is false.
func (an *pollutionAnalysis) equalityGuard(bin *ast.BinaryExpression) (guardCondition, bool) {
	var safeWhen bool
	switch bin.Operator {
	case token.STRICT_EQUAL, token.EQUAL:
		safeWhen = false
	case token.STRICT_NOT_EQUAL, token.NOT_EQUAL:
		safeWhen = true
	default:
		return guardCondition{}, false
	}
	key, guarded, ok := an.constantAndOperand(bin)
	if !ok {
		return guardCondition{}, false
	}
	label, unsafe := labelForKey(key)
	if !unsafe {
		return guardCondition{}, false
	}
	return guardCondition{
		cond:     bin,
		guarded:  guarded,
		labels:   []taint.Label{label},
		safeWhen: safeWhen,
	}, true
}

// typeofGuard matches typeof x === "object" and typeof x ===
// "function". A value reached through the constructor key is a
// function, so a true object test excludes it; a value reached through
// __proto__ is a plain object, so a true function test excludes that.
func (an *pollutionAnalysis) typeofGuard(bin *ast.BinaryExpression) (guardCondition, bool) {
	var safeWhen bool
	switch bin.Operator {
	case token.STRICT_EQUAL, token.EQUAL:
		safeWhen = true
	case token.STRICT_NOT_EQUAL, token.NOT_EQUAL:
		safeWhen = false
	default:
		return guardCondition{}, false
	}
	test, other := typeofOperand(bin.Left, bin.Right)
	if test == nil {
		return guardCondition{}, false
	}
	kind, ok := an.file.ConstantString(other)
	if !ok {
		return guardCondition{}, false
	}
	var label taint.Label
	switch kind {
	case "object":
		label = taint.Ctor
	case "function":
		label = taint.Proto
	default:
		return guardCondition{}, false
	}
	return guardCondition{
		cond:     bin,
		guarded:  test.Operand,
		labels:   []taint.Label{label},
		safeWhen: safeWhen,
	}, true
}

func typeofOperand(left, right ast.Node) (*ast.UnaryExpression, ast.Node) {
	if u, ok := left.(*ast.UnaryExpression); ok && u.Operator == token.TYPEOF {
		return u, right
	}
	if u, ok := right.(*ast.UnaryExpression); ok && u.Operator == token.TYPEOF {
		return u, left
	}
	return nil, nil
}

// hasOwnGuard matches obj.hasOwnProperty(x), the reflective
// Object.prototype.hasOwnProperty.call(obj, x) form and Object.hasOwn.
// The check proves x is an own property of obj, which rules out both
// unsafe keys, but only when obj is not itself one of the enumerated
// objects: an own-property test against the walked source object
// proves nothing about the destination.
func (an *pollutionAnalysis) hasOwnGuard(call *ast.CallExpression) (guardCondition, bool) {
	receiver, guarded := hasOwnCall(an.file, call)
	if guarded == nil {
		return guardCondition{}, false
	}
	receiverOrigins := an.file.ResolveOrigins(receiver)
	for _, src := range an.sources {
		if jsast.Intersects(receiverOrigins, src.objectOrigins) {
			return guardCondition{}, false
		}
	}
	return guardCondition{
		cond:     call,
		guarded:  guarded,
		labels:   taint.Labels(),
		safeWhen: true,
	}, true
}

func hasOwnCall(f *jsast.File, call *ast.CallExpression) (receiver, guarded ast.Node) {
	if f.IsGlobalCall(call, "Object", "hasOwn") && len(call.ArgumentList) >= 2 {
		return call.ArgumentList[0], call.ArgumentList[1]
	}
	recv, method, _, ok := jsast.MemberCall(call)
	if !ok {
		return nil, nil
	}
	switch method {
	case "hasOwnProperty":
		if len(call.ArgumentList) == 1 {
			return recv, call.ArgumentList[0]
		}
	case "call", "apply":
		// Object.prototype.hasOwnProperty.call(obj, x) and the
		// {}.hasOwnProperty.call(obj, x) shorthand.
		if dot, ok := recv.(*ast.DotExpression); ok &&
			string(dot.Identifier.Name) == "hasOwnProperty" && len(call.ArgumentList) >= 2 {
			return call.ArgumentList[0], call.ArgumentList[1]
		}
	}
	return nil, nil
}

// includesGuard matches ["__proto__", "constructor"].includes(x). The
// safe branch is the one where the membership test is false, and it
// only discharges the keys the list actually names.
func (an *pollutionAnalysis) includesGuard(call *ast.CallExpression) ([]guardCondition, bool) {
	recv, method, _, ok := jsast.MemberCall(call)
	if !ok || method != "includes" || len(call.ArgumentList) != 1 {
		return nil, false
	}
	labels := an.unsafeKeyList(recv)
	if len(labels) == 0 {
		return nil, false
	}
	return []guardCondition{{
		cond:     call,
		guarded:  call.ArgumentList[0],
		labels:   labels,
		safeWhen: false,
	}}, true
}

// indexOfGuard matches the pre-includes idiom: a comparison of
// [..].indexOf(x) against -1 or 0.
func (an *pollutionAnalysis) indexOfGuard(bin *ast.BinaryExpression) ([]guardCondition, bool) {
	call, bound, onLeft := indexOfComparison(bin)
	if call == nil {
		return nil, false
	}
	recv, method, _, ok := jsast.MemberCall(call)
	if !ok || method != "indexOf" || len(call.ArgumentList) != 1 {
		return nil, false
	}
	labels := an.unsafeKeyList(recv)
	if len(labels) == 0 {
		return nil, false
	}
	op := bin.Operator
	if !onLeft {
		op = flipComparison(op)
	}
	var safeWhen bool
	switch {
	case (op == token.STRICT_EQUAL || op == token.EQUAL) && bound == -1:
		safeWhen = true // indexOf(x) === -1 means x is not listed
	case (op == token.STRICT_NOT_EQUAL || op == token.NOT_EQUAL) && bound == -1:
		safeWhen = false
	case op == token.GREATER_OR_EQUAL && bound == 0, op == token.GREATER && bound == -1:
		safeWhen = false
	case op == token.LESS && bound == 0:
		safeWhen = true
	default:
		return nil, false
	}
	return []guardCondition{{
		cond:     bin,
		guarded:  call.ArgumentList[0],
		labels:   labels,
		safeWhen: safeWhen,
	}}, true
}

func indexOfComparison(bin *ast.BinaryExpression) (*ast.CallExpression, int, bool) {
	if call, ok := bin.Left.(*ast.CallExpression); ok {
		if bound, isNum := intLiteral(bin.Right); isNum {
			return call, bound, true
		}
	}
	if call, ok := bin.Right.(*ast.CallExpression); ok {
		if bound, isNum := intLiteral(bin.Left); isNum {
			return call, bound, false
		}
	}
	return nil, 0, false
}

func flipComparison(op token.Token) token.Token {
	switch op {
	case token.GREATER:
		return token.LESS
	case token.LESS:
		return token.GREATER
	case token.GREATER_OR_EQUAL:
		return token.LESS_OR_EQUAL
	case token.LESS_OR_EQUAL:
		return token.GREATER_OR_EQUAL
	}
	return op
}

func intLiteral(n ast.Node) (int, bool) {
	if u, ok := n.(*ast.UnaryExpression); ok && u.Operator == token.MINUS {
		if v, isNum := intLiteral(u.Operand); isNum {
			return -v, true
		}
	}
	if num, ok := n.(*ast.NumberLiteral); ok {
		switch v := num.Value.(type) {
		case int64:
			return int(v), true
		case float64:
			if v == float64(int(v)) {
				return int(v), true
			}
		}
	}
	return 0, false
}

// unsafeKeyList resolves expr to an array literal of constant strings
// and returns the labels of the unsafe keys it lists.
func (an *pollutionAnalysis) unsafeKeyList(expr ast.Node) []taint.Label {
	f := an.file
	arr, ok := expr.(*ast.ArrayLiteral)
	if !ok {
		for _, origin := range f.ResolveOrigins(expr) {
			if a, isArr := origin.(*ast.ArrayLiteral); isArr {
				arr = a
				break
			}
		}
	}
	if arr == nil {
		return nil
	}
	var labels []taint.Label
	for _, el := range arr.Value {
		key, constant := f.ConstantString(el)
		if !constant {
			continue
		}
		if label, unsafe := labelForKey(key); unsafe {
			labels = append(labels, label)
		}
	}
	return labels
}

func (an *pollutionAnalysis) constantAndOperand(bin *ast.BinaryExpression) (string, ast.Node, bool) {
	if s, ok := an.file.ConstantString(bin.Right); ok {
		return s, bin.Left, true
	}
	if s, ok := an.file.ConstantString(bin.Left); ok {
		return s, bin.Right, true
	}
	return "", nil, false
}

func labelForKey(key string) (taint.Label, bool) {
	switch key {
	case "__proto__":
		return taint.Proto, true
	case "constructor":
		return taint.Ctor, true
	}
	return 0, false
}

// safeRegions resolves which source regions the safe outcome of cond
// controls. The climb through enclosing boolean operators keeps only
// compositions that preserve the outcome: a false disjunction pins
// every disjunct false, a true conjunction pins every conjunct true.
func (an *pollutionAnalysis) safeRegions(cond ast.Node, safeWhen bool) []region {
	f := an.file
	for {
		switch parent := f.Parent(cond).(type) {
		case *ast.UnaryExpression:
			if parent.Operator != token.NOT {
				return nil
			}
			safeWhen = !safeWhen
			cond = parent
		case *ast.BinaryExpression:
			switch {
			case parent.Operator == token.LOGICAL_OR && !safeWhen:
				cond = parent
			case parent.Operator == token.LOGICAL_AND && safeWhen:
				cond = parent
			default:
				return nil
			}
		case *ast.IfStatement:
			if parent.Test != cond {
				return nil
			}
			return an.ifRegions(parent, safeWhen)
		case *ast.ConditionalExpression:
			if parent.Test != cond {
				return nil
			}
			branch := ast.Node(parent.Consequent)
			if !safeWhen {
				branch = parent.Alternate
			}
			return []region{{from: branch.Idx0(), to: branch.Idx1()}}
		default:
			return nil
		}
	}
}

// ifRegions maps a branch outcome onto regions: the matching branch
// itself, plus the continuation after the statement when the opposite
// branch always exits, which covers the early-continue and early-return
// sanitizer style.
func (an *pollutionAnalysis) ifRegions(stmt *ast.IfStatement, safeWhen bool) []region {
	var regions []region
	if safeWhen {
		regions = append(regions, region{from: stmt.Consequent.Idx0(), to: stmt.Consequent.Idx1()})
		if stmt.Alternate != nil && alwaysExits(stmt.Alternate) {
			regions = append(regions, an.continuationRegion(stmt, stmt.Alternate))
		}
	} else {
		if stmt.Alternate != nil {
			regions = append(regions, region{from: stmt.Alternate.Idx0(), to: stmt.Alternate.Idx1()})
		}
		if alwaysExits(stmt.Consequent) {
			regions = append(regions, an.continuationRegion(stmt, stmt.Consequent))
		}
	}
	return regions
}

// alwaysExits reports whether executing s never falls through to the
// statement after the enclosing if. break and continue both parse as a
// branch statement, distinguished by token.
func alwaysExits(s ast.Statement) bool {
	switch t := s.(type) {
	case *ast.BranchStatement:
		return t.Token == token.CONTINUE || t.Token == token.BREAK
	case *ast.ReturnStatement, *ast.ThrowStatement:
		return true
	case *ast.BlockStatement:
		if len(t.List) == 0 {
			return false
		}
		return alwaysExits(t.List[len(t.List)-1])
	}
	return false
}

// continuationRegion is the code after stmt that still sits under the
// guard: up to the end of the innermost loop for continue and break,
// up to the end of the enclosing function otherwise.
func (an *pollutionAnalysis) continuationRegion(stmt *ast.IfStatement, exiting ast.Statement) region {
	loopExit := exitsLoop(exiting)
	end := an.file.Program.Idx1()
	for cur := an.file.Parent(stmt); cur != nil; cur = an.file.Parent(cur) {
		switch cur.(type) {
		case *ast.ForStatement, *ast.ForInStatement, *ast.ForOfStatement,
			*ast.WhileStatement, *ast.DoWhileStatement:
			if loopExit {
				return region{from: stmt.Idx1(), to: cur.Idx1()}
			}
		case *ast.FunctionLiteral, *ast.ArrowFunctionLiteral:
			return region{from: stmt.Idx1(), to: cur.Idx1()}
		}
	}
	return region{from: stmt.Idx1(), to: end}
}

func exitsLoop(s ast.Statement) bool {
	switch t := s.(type) {
	case *ast.BranchStatement:
		return t.Token == token.CONTINUE || t.Token == token.BREAK
	case *ast.BlockStatement:
		if len(t.List) == 0 {
			return false
		}
		return exitsLoop(t.List[len(t.List)-1])
	}
	return false
}
