package jssec

import (
	"github.com/dop251/goja/ast"
)

type set map[string]bool

// CallList is used to check for usage of specific global objects
// and functions.
type CallList map[string]set

// NewCallList creates a new empty CallList
func NewCallList() CallList {
	return make(CallList)
}

// AddAll will add several calls to the call list at once
func (c CallList) AddAll(selector string, idents ...string) {
	for _, ident := range idents {
		c.Add(selector, ident)
	}
}

// Add a selector and call to the call list. An empty selector stands for
// calls of a bare global function such as eval.
func (c CallList) Add(selector, ident string) {
	if _, ok := c[selector]; !ok {
		c[selector] = make(set)
	}
	c[selector][ident] = true
}

// Contains returns true if the selector and function are
// members of this call list.
func (c CallList) Contains(selector, ident string) bool {
	if idents, ok := c[selector]; ok {
		return idents[ident]
	}
	return false
}

// ContainsCallExpr resolves the call expression receiver and name, and then
// determines if the call exists within the call list
func (c CallList) ContainsCallExpr(n ast.Node, ctx *Context) *ast.CallExpression {
	call, ok := n.(*ast.CallExpression)
	if !ok {
		return nil
	}
	selector, ident, ok := callInfo(call, ctx)
	if !ok || !c.Contains(selector, ident) {
		return nil
	}
	return call
}

// callInfo extracts the receiver selector and the called name. Calls through
// locally declared names are not resolved: a shadowed document or eval is
// not the global one.
func callInfo(call *ast.CallExpression, ctx *Context) (string, string, bool) {
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		if ctx.Root.DeclOf(callee) != nil {
			return "", "", false
		}
		return "", string(callee.Name), true
	case *ast.DotExpression:
		if selector, ok := receiverText(callee.Left, ctx); ok {
			return selector, string(callee.Identifier.Name), true
		}
	case *ast.BracketExpression:
		// document["write"](...) and friends
		name, ok := ctx.Root.ConstantString(callee.Member)
		if !ok {
			return "", "", false
		}
		if selector, ok := receiverText(callee.Left, ctx); ok {
			return selector, name, true
		}
	}
	return "", "", false
}

func receiverText(recv ast.Node, ctx *Context) (string, bool) {
	if id, ok := recv.(*ast.Identifier); ok {
		if ctx.Root.DeclOf(id) != nil {
			return "", false
		}
		return string(id.Name), true
	}
	if dot, ok := recv.(*ast.DotExpression); ok {
		left, ok := receiverText(dot.Left, ctx)
		if !ok {
			return "", false
		}
		return left + "." + string(dot.Identifier.Name), true
	}
	return "", false
}
