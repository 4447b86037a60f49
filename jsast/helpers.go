package jsast

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"
)

// MemberCall decomposes a method invocation `recv.name(...)` into its
// receiver, method name and call node.
func MemberCall(n ast.Node) (recv ast.Node, name string, call *ast.CallExpression, ok bool) {
	c, isCall := n.(*ast.CallExpression)
	if !isCall {
		return nil, "", nil, false
	}
	dot, isDot := c.Callee.(*ast.DotExpression)
	if !isDot {
		return nil, "", nil, false
	}
	return dot.Left, string(dot.Identifier.Name), c, true
}

// IsGlobalCall reports whether call invokes `object.method(...)` where
// object is the well-known global of that name, i.e. an identifier not
// shadowed by any local binding.
func (f *File) IsGlobalCall(call *ast.CallExpression, object, method string) bool {
	recv, name, _, ok := MemberCall(call)
	if !ok || name != method {
		return false
	}
	id, isIdent := recv.(*ast.Identifier)
	return isIdent && string(id.Name) == object && f.DeclOf(id) == nil
}

// CalledName returns the bare name a call invokes when the callee is a
// plain unshadowed identifier, e.g. `eval(x)` or `require(m)`.
func (f *File) CalledName(call *ast.CallExpression) (string, bool) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || f.DeclOf(id) != nil {
		return "", false
	}
	return string(id.Name), true
}

// WriteTarget reports whether n sits on the left side of a plain
// assignment, i.e. n is written rather than read.
func (f *File) WriteTarget(n ast.Node) bool {
	a, ok := f.Parent(n).(*ast.AssignExpression)
	return ok && a.Operator == token.ASSIGN && a.Left == n
}
