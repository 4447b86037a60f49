package jsast

import (
	"github.com/dop251/goja/ast"
)

// Children returns the direct child nodes of n in source order. Node
// kinds the analysis does not understand yield no children, so an
// unexpected construct degrades into silence instead of a wrong match.
func Children(n ast.Node) []ast.Node {
	var out []ast.Node
	add := func(nodes ...ast.Node) {
		for _, c := range nodes {
			if c != nil && !isNilNode(c) {
				out = append(out, c)
			}
		}
	}
	switch t := n.(type) {
	case *ast.Program:
		for _, s := range t.Body {
			add(s)
		}
	case *ast.BlockStatement:
		for _, s := range t.List {
			add(s)
		}
	case *ast.ExpressionStatement:
		add(t.Expression)
	case *ast.VariableStatement:
		for _, b := range t.List {
			add(b)
		}
	case *ast.LexicalDeclaration:
		for _, b := range t.List {
			add(b)
		}
	case *ast.Binding:
		add(t.Target, t.Initializer)
	case *ast.FunctionDeclaration:
		add(t.Function)
	case *ast.ClassDeclaration:
		add(t.Class)
	case *ast.ReturnStatement:
		add(t.Argument)
	case *ast.IfStatement:
		add(t.Test, t.Consequent, t.Alternate)
	case *ast.ForStatement:
		if t.Initializer != nil {
			add(forLoopInitializerChildren(t.Initializer)...)
		}
		add(t.Test, t.Update, t.Body)
	case *ast.ForInStatement:
		add(forIntoChildren(t.Into)...)
		add(t.Source, t.Body)
	case *ast.ForOfStatement:
		add(forIntoChildren(t.Into)...)
		add(t.Source, t.Body)
	case *ast.WhileStatement:
		add(t.Test, t.Body)
	case *ast.DoWhileStatement:
		add(t.Body, t.Test)
	case *ast.SwitchStatement:
		add(t.Discriminant)
		for _, c := range t.Body {
			add(c)
		}
	case *ast.CaseStatement:
		add(t.Test)
		for _, s := range t.Consequent {
			add(s)
		}
	case *ast.TryStatement:
		add(t.Body)
		if t.Catch != nil {
			add(t.Catch)
		}
		if t.Finally != nil {
			add(t.Finally)
		}
	case *ast.CatchStatement:
		add(t.Parameter, t.Body)
	case *ast.ThrowStatement:
		add(t.Argument)
	case *ast.LabelledStatement:
		add(t.Statement)
	case *ast.WithStatement:
		add(t.Object, t.Body)

	case *ast.AssignExpression:
		add(t.Left, t.Right)
	case *ast.BinaryExpression:
		add(t.Left, t.Right)
	case *ast.UnaryExpression:
		add(t.Operand)
	case *ast.ConditionalExpression:
		add(t.Test, t.Consequent, t.Alternate)
	case *ast.SequenceExpression:
		for _, e := range t.Sequence {
			add(e)
		}
	case *ast.CallExpression:
		add(t.Callee)
		for _, a := range t.ArgumentList {
			add(a)
		}
	case *ast.NewExpression:
		add(t.Callee)
		for _, a := range t.ArgumentList {
			add(a)
		}
	case *ast.DotExpression:
		// The property name is not a value reference, only the
		// receiver is walked.
		add(t.Left)
	case *ast.BracketExpression:
		add(t.Left, t.Member)
	case *ast.ObjectLiteral:
		for _, p := range t.Value {
			add(propertyChildren(p)...)
		}
	case *ast.ArrayLiteral:
		for _, e := range t.Value {
			add(e)
		}
	case *ast.SpreadElement:
		add(t.Expression)
	case *ast.TemplateLiteral:
		add(t.Tag)
		for _, e := range t.Expressions {
			add(e)
		}
	case *ast.FunctionLiteral:
		for _, b := range t.ParameterList.List {
			add(b)
		}
		add(t.ParameterList.Rest, t.Body)
	case *ast.ArrowFunctionLiteral:
		for _, b := range t.ParameterList.List {
			add(b)
		}
		add(t.ParameterList.Rest, t.Body)
	case *ast.ExpressionBody:
		add(t.Expression)
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			add(propertyChildren(p)...)
		}
		add(t.Rest)
	case *ast.ArrayPattern:
		for _, e := range t.Elements {
			add(e)
		}
		add(t.Rest)
	}
	return out
}

func forIntoChildren(into ast.ForInto) []ast.Node {
	switch t := into.(type) {
	case *ast.ForIntoVar:
		return []ast.Node{t.Binding}
	case *ast.ForDeclaration:
		return []ast.Node{t.Target}
	case *ast.ForIntoExpression:
		return []ast.Node{t.Expression}
	}
	return nil
}

func forLoopInitializerChildren(init ast.ForLoopInitializer) []ast.Node {
	switch t := init.(type) {
	case *ast.ForLoopInitializerExpression:
		return []ast.Node{t.Expression}
	case *ast.ForLoopInitializerVarDeclList:
		nodes := make([]ast.Node, 0, len(t.List))
		for _, b := range t.List {
			nodes = append(nodes, b)
		}
		return nodes
	case *ast.ForLoopInitializerLexicalDecl:
		return []ast.Node{&t.LexicalDeclaration}
	}
	return nil
}

func propertyChildren(p ast.Property) []ast.Node {
	switch t := p.(type) {
	case *ast.PropertyKeyed:
		if t.Computed {
			return []ast.Node{t.Key, t.Value}
		}
		return []ast.Node{t.Value}
	case *ast.PropertyShort:
		nodes := []ast.Node{&t.Name}
		if t.Initializer != nil {
			nodes = append(nodes, t.Initializer)
		}
		return nodes
	case *ast.SpreadElement:
		return []ast.Node{t.Expression}
	}
	return nil
}

// isNilNode filters typed nils hiding behind the ast.Node interface,
// e.g. an IfStatement with no alternate.
func isNilNode(n ast.Node) bool {
	switch t := n.(type) {
	case *ast.Identifier:
		return t == nil
	case *ast.BlockStatement:
		return t == nil
	case *ast.Binding:
		return t == nil
	case *ast.FunctionLiteral:
		return t == nil
	}
	return false
}

// Inspect walks the tree rooted at n in depth-first order, calling fn
// for each node. When fn returns false the node's children are skipped.
func Inspect(n ast.Node, fn func(ast.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
