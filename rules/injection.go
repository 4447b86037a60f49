package rules

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"

	"github.com/securejs/jssec"
	"github.com/securejs/jssec/issue"
	"github.com/securejs/jssec/jsast"
)

type evalInjection struct {
	issue.MetaData
}

func (r *evalInjection) ID() string {
	return r.MetaData.ID
}

func (r *evalInjection) Match(n ast.Node, ctx *jssec.Context) (*issue.Issue, error) {
	switch t := n.(type) {
	case *ast.CallExpression:
		name, ok := ctx.Root.CalledName(t)
		if !ok {
			return nil, nil
		}
		switch name {
		case "eval":
			if len(t.ArgumentList) > 0 && !isConstantString(ctx.Root, t.ArgumentList[0]) {
				return ctx.NewIssue(n, r.ID(), r.What, r.Severity, r.Confidence), nil
			}
		case "Function":
			if hasDynamicArgument(ctx.Root, t.ArgumentList) {
				return ctx.NewIssue(n, r.ID(), r.What, r.Severity, r.Confidence), nil
			}
		case "setTimeout", "setInterval":
			if len(t.ArgumentList) > 0 && isDynamicCodeString(ctx.Root, t.ArgumentList[0]) {
				return ctx.NewIssue(n, r.ID(), r.What, r.Severity, issue.Medium), nil
			}
		}
	case *ast.NewExpression:
		id, isIdent := t.Callee.(*ast.Identifier)
		if !isIdent || string(id.Name) != "Function" || ctx.Root.DeclOf(id) != nil {
			return nil, nil
		}
		if hasDynamicArgument(ctx.Root, t.ArgumentList) {
			return ctx.NewIssue(n, r.ID(), r.What, r.Severity, r.Confidence), nil
		}
	}
	return nil, nil
}

func isConstantString(f *jsast.File, n ast.Node) bool {
	_, ok := f.ConstantString(n)
	return ok
}

func hasDynamicArgument(f *jsast.File, args []ast.Expression) bool {
	for _, arg := range args {
		if !isConstantString(f, arg) {
			return true
		}
	}
	return false
}

// isDynamicCodeString reports whether the expression builds a string
// at runtime, the way a code payload handed to a timer is assembled.
// Function values and fixed literals pass a callback or a constant
// snippet, which is not the pattern of interest.
func isDynamicCodeString(f *jsast.File, n ast.Node) bool {
	switch t := n.(type) {
	case *ast.FunctionLiteral, *ast.ArrowFunctionLiteral:
		return false
	case *ast.BinaryExpression:
		if t.Operator != token.PLUS || isConstantString(f, t) {
			return false
		}
		return isConstantString(f, t.Left) || isConstantString(f, t.Right) ||
			isDynamicCodeString(f, t.Left) || isDynamicCodeString(f, t.Right)
	case *ast.TemplateLiteral:
		return t.Tag == nil && len(t.Expressions) > 0
	case *ast.Identifier:
		d := f.DeclOf(t)
		if d == nil || len(d.Writes) != 1 {
			return false
		}
		return isDynamicCodeString(f, d.Writes[0])
	}
	return false
}

// NewEvalInjection creates a rule that flags dynamic code execution
// through eval, the Function constructor, and code strings built at
// runtime for setTimeout and setInterval.
func NewEvalInjection(id string, _ jssec.Config) (jssec.Rule, []ast.Node) {
	return &evalInjection{
		MetaData: issue.MetaData{
			ID:         id,
			What:       "Use of eval with a non-literal argument",
			Severity:   issue.High,
			Confidence: issue.High,
		},
	}, []ast.Node{(*ast.CallExpression)(nil), (*ast.NewExpression)(nil)}
}
