package jsast

import (
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"
)

// ConstantString evaluates e to a compile-time string constant. It
// folds string concatenation, untagged templates without holes, and
// variables with exactly one assigned value.
func (f *File) ConstantString(e ast.Node) (string, bool) {
	return f.constantString(e, make(map[ast.Node]bool))
}

func (f *File) constantString(e ast.Node, seen map[ast.Node]bool) (string, bool) {
	if e == nil || seen[e] {
		return "", false
	}
	seen[e] = true
	switch t := e.(type) {
	case *ast.StringLiteral:
		return string(t.Value), true
	case *ast.TemplateLiteral:
		if t.Tag == nil && len(t.Expressions) == 0 {
			var sb strings.Builder
			for _, el := range t.Elements {
				if !el.Valid {
					return "", false
				}
				sb.WriteString(string(el.Parsed))
			}
			return sb.String(), true
		}
	case *ast.BinaryExpression:
		if t.Operator == token.PLUS {
			left, lok := f.constantString(t.Left, seen)
			right, rok := f.constantString(t.Right, seen)
			if lok && rok {
				return left + right, true
			}
		}
	case *ast.Identifier:
		d := f.DeclOf(t)
		if d != nil && len(d.Writes) == 1 && d.Writes[0] != e {
			return f.constantString(d.Writes[0], seen)
		}
	}
	return "", false
}

// LocalOrigins performs one backward resolution step: the most specific
// expressions the value of e can come from, judging only by local
// assignments. A nil result marks e as its own terminal origin.
func (f *File) LocalOrigins(e ast.Node) []ast.Node {
	switch t := e.(type) {
	case *ast.Identifier:
		d := f.DeclOf(t)
		if d == nil {
			if g := f.GlobalRef(string(t.Name)); g != nil && g != t {
				return []ast.Node{g}
			}
			return nil
		}
		var out []ast.Node
		for _, w := range d.Writes {
			if w != e {
				out = append(out, w)
			}
		}
		if len(out) > 0 {
			return out
		}
		if t != d.Ident {
			return []ast.Node{d.Ident}
		}
		return nil
	case *ast.ConditionalExpression:
		return []ast.Node{t.Consequent, t.Alternate}
	case *ast.BinaryExpression:
		switch t.Operator {
		case token.LOGICAL_OR:
			return []ast.Node{t.Left, t.Right}
		case token.LOGICAL_AND:
			// The left operand only yields falsy results, which can
			// never be an object worth tracking.
			return []ast.Node{t.Right}
		}
	case *ast.AssignExpression:
		if t.Operator == token.ASSIGN {
			return []ast.Node{t.Right}
		}
	case *ast.SequenceExpression:
		if n := len(t.Sequence); n > 0 {
			return []ast.Node{t.Sequence[n-1]}
		}
	}
	return nil
}

// ResolveOrigins follows LocalOrigins transitively and returns the
// terminal origins of e: literals, call results, parameters and
// unresolved globals. Reference cycles terminate via the visited set
// and contribute no origin.
func (f *File) ResolveOrigins(e ast.Node) []ast.Node {
	var roots []ast.Node
	seen := make(map[ast.Node]bool)
	work := []ast.Node{e}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		origins := f.LocalOrigins(n)
		if len(origins) == 0 {
			roots = append(roots, n)
			continue
		}
		work = append(work, origins...)
	}
	return roots
}

// Intersects reports whether the two node sets share an element.
func Intersects(a, b []ast.Node) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Equivalent reports whether two expressions denote the same value
// source as far as local reasoning goes: occurrences of one binding,
// member accesses over equivalent receivers with identical keys, or
// identical literals.
func (f *File) Equivalent(a, b ast.Node) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	switch ta := a.(type) {
	case *ast.Identifier:
		tb, ok := b.(*ast.Identifier)
		if !ok {
			return false
		}
		da, db := f.DeclOf(ta), f.DeclOf(tb)
		if da != nil || db != nil {
			return da == db
		}
		return ta.Name == tb.Name
	case *ast.DotExpression:
		tb, ok := b.(*ast.DotExpression)
		return ok && ta.Identifier.Name == tb.Identifier.Name && f.Equivalent(ta.Left, tb.Left)
	case *ast.BracketExpression:
		tb, ok := b.(*ast.BracketExpression)
		return ok && f.Equivalent(ta.Member, tb.Member) && f.Equivalent(ta.Left, tb.Left)
	case *ast.ThisExpression:
		_, ok := b.(*ast.ThisExpression)
		return ok
	case *ast.StringLiteral:
		tb, ok := b.(*ast.StringLiteral)
		return ok && ta.Value == tb.Value
	case *ast.NumberLiteral:
		tb, ok := b.(*ast.NumberLiteral)
		return ok && ta.Literal == tb.Literal
	}
	return false
}
