package rules

import (
	"github.com/dop251/goja/ast"

	"github.com/securejs/jssec"
	"github.com/securejs/jssec/issue"
	"github.com/securejs/jssec/jsast"
)

type documentWrite struct {
	issue.MetaData
	calls jssec.CallList
}

func (r *documentWrite) ID() string {
	return r.MetaData.ID
}

func (r *documentWrite) Match(n ast.Node, ctx *jssec.Context) (*issue.Issue, error) {
	call := r.calls.ContainsCallExpr(n, ctx)
	if call == nil {
		return nil, nil
	}
	for _, arg := range call.ArgumentList {
		if !isConstantString(ctx.Root, arg) {
			return ctx.NewIssue(n, r.ID(), r.What, r.Severity, r.Confidence), nil
		}
	}
	return nil, nil
}

// NewDocumentWrite creates a rule that flags document.write and
// document.writeln calls whose payload is not a fixed string.
func NewDocumentWrite(id string, _ jssec.Config) (jssec.Rule, []ast.Node) {
	rule := &documentWrite{
		MetaData: issue.MetaData{
			ID:         id,
			What:       "Use of document.write with dynamic content",
			Severity:   issue.Medium,
			Confidence: issue.High,
		},
		calls: jssec.NewCallList(),
	}
	rule.calls.AddAll("document", "write", "writeln")
	return rule, []ast.Node{(*ast.CallExpression)(nil)}
}

// htmlSinkProperties are the assignment targets that render their
// value as markup.
var htmlSinkProperties = map[string]bool{
	"innerHTML": true,
	"outerHTML": true,
}

type htmlInjection struct {
	issue.MetaData
}

func (r *htmlInjection) ID() string {
	return r.MetaData.ID
}

func (r *htmlInjection) Match(n ast.Node, ctx *jssec.Context) (*issue.Issue, error) {
	switch t := n.(type) {
	case *ast.AssignExpression:
		dot, ok := t.Left.(*ast.DotExpression)
		if !ok || !htmlSinkProperties[string(dot.Identifier.Name)] {
			return nil, nil
		}
		if !isConstantString(ctx.Root, t.Right) {
			return ctx.NewIssue(n, r.ID(), r.What, r.Severity, r.Confidence), nil
		}
	case *ast.CallExpression:
		_, method, call, ok := jsast.MemberCall(t)
		if !ok || method != "insertAdjacentHTML" || len(call.ArgumentList) < 2 {
			return nil, nil
		}
		if !isConstantString(ctx.Root, call.ArgumentList[1]) {
			return ctx.NewIssue(n, r.ID(), r.What, r.Severity, r.Confidence), nil
		}
	}
	return nil, nil
}

// NewHTMLInjection creates a rule that flags dynamic values rendered
// as HTML through innerHTML, outerHTML or insertAdjacentHTML.
func NewHTMLInjection(id string, _ jssec.Config) (jssec.Rule, []ast.Node) {
	return &htmlInjection{
		MetaData: issue.MetaData{
			ID:         id,
			What:       "Assignment of dynamic content to an HTML rendering sink",
			Severity:   issue.Medium,
			Confidence: issue.Medium,
		},
	}, []ast.Node{(*ast.AssignExpression)(nil), (*ast.CallExpression)(nil)}
}
