package jsast

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"
)

// DeclKind describes how a name was introduced.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
	DeclFunction
	DeclClass
	DeclParam
	DeclCatch
	// DeclImplicit is synthesized for assignments to names that were
	// never declared, i.e. implicit globals.
	DeclImplicit
)

// Decl is one resolved binding. Ident is the declaring occurrence and
// doubles as the canonical node for the binding in flow queries.
type Decl struct {
	Name  string
	Kind  DeclKind
	Ident *ast.Identifier
	Fn    *Function // function owning the scope, nil at the top level

	// Writes holds the value expression of every assignment into the
	// binding. A loop that binds the name to each enumerated property
	// records the loop target itself as the written value.
	Writes []ast.Node
	// Uses holds every read occurrence, excluding the declaring one
	// and excluding assignment targets.
	Uses []*ast.Identifier
}

// Function is one catalog entry for a function declaration, function
// expression or arrow function.
type Function struct {
	Name   string
	Node   ast.Node          // *ast.FunctionLiteral or *ast.ArrowFunctionLiteral
	Params []*ast.Identifier // positional, nil for destructuring patterns
	Body   ast.Node          // *ast.BlockStatement or *ast.ExpressionBody
	Decl   *Decl             // binding naming this function, if any
}

// DeclOf returns the declaration an identifier occurrence resolves to,
// or nil for unresolved globals and non-value identifiers.
func (f *File) DeclOf(id *ast.Identifier) *Decl {
	return f.decls[id]
}

// Decls returns every binding resolved in the file.
func (f *File) Decls() []*Decl {
	return f.declList
}

// GlobalRef returns the canonical occurrence of an unresolved global
// name, so that separate uses of the same global compare equal in
// origin queries. Returns nil when the name never appears unresolved.
func (f *File) GlobalRef(name string) *ast.Identifier {
	return f.globals[name]
}

type scope struct {
	parent   *scope
	fn       *Function
	function bool // var and function declarations land here
	names    map[string]*Decl
}

func (s *scope) lookup(name string) *Decl {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.names[name]; ok {
			return d
		}
	}
	return nil
}

func (s *scope) funcScope() *scope {
	cur := s
	for !cur.function {
		cur = cur.parent
	}
	return cur
}

type scopeBuilder struct {
	f              *File
	scope          *scope
	root           *scope
	unresolvedUses map[string][]*ast.Identifier
}

func (f *File) buildScopes() {
	b := &scopeBuilder{
		f:              f,
		unresolvedUses: make(map[string][]*ast.Identifier),
	}
	b.root = &scope{function: true, names: make(map[string]*Decl)}
	b.scope = b.root
	b.hoist(f.Program.Body)
	for _, s := range f.Program.Body {
		b.stmt(s)
	}
	b.patchImplicitGlobals()
}

// patchImplicitGlobals re-resolves uses that appeared before the first
// assignment to an implicit global, and records a canonical occurrence
// for names that never resolved at all.
func (b *scopeBuilder) patchImplicitGlobals() {
	for name, uses := range b.unresolvedUses {
		if d, ok := b.root.names[name]; ok {
			for _, u := range uses {
				b.f.decls[u] = d
				d.Uses = append(d.Uses, u)
			}
			continue
		}
		if _, ok := b.f.globals[name]; !ok && len(uses) > 0 {
			b.f.globals[name] = uses[0]
		}
	}
}

func (b *scopeBuilder) push(function bool, fn *Function) {
	b.scope = &scope{parent: b.scope, fn: fn, function: function, names: make(map[string]*Decl)}
}

func (b *scopeBuilder) pop() {
	b.scope = b.scope.parent
}

func (b *scopeBuilder) declare(s *scope, id *ast.Identifier, kind DeclKind) *Decl {
	name := string(id.Name)
	if d, ok := s.names[name]; ok {
		// var redeclaration folds into the original binding.
		b.f.decls[id] = d
		return d
	}
	d := &Decl{Name: name, Kind: kind, Ident: id, Fn: s.fn}
	s.names[name] = d
	b.f.decls[id] = d
	b.f.declList = append(b.f.declList, d)
	return d
}

// declareTarget declares every identifier bound by a declaration
// target, descending into destructuring patterns.
func (b *scopeBuilder) declareTarget(s *scope, target ast.Node, kind DeclKind) *Decl {
	switch t := target.(type) {
	case *ast.Identifier:
		return b.declare(s, t, kind)
	case *ast.AssignExpression:
		// Pattern element with a default value.
		return b.declareTarget(s, t.Left, kind)
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			switch prop := p.(type) {
			case *ast.PropertyKeyed:
				b.declareTarget(s, prop.Value, kind)
			case *ast.PropertyShort:
				b.declare(s, &prop.Name, kind)
			case *ast.SpreadElement:
				b.declareTarget(s, prop.Expression, kind)
			}
		}
		if t.Rest != nil {
			b.declareTarget(s, t.Rest, kind)
		}
	case *ast.ArrayPattern:
		for _, e := range t.Elements {
			if e != nil {
				b.declareTarget(s, e, kind)
			}
		}
		if t.Rest != nil {
			b.declareTarget(s, t.Rest, kind)
		}
	}
	return nil
}

// hoist declares var bindings and function declarations reachable from
// stmts without entering nested functions, mirroring JavaScript
// hoisting so that forward references resolve.
func (b *scopeBuilder) hoist(stmts []ast.Statement) {
	fs := b.scope.funcScope()
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch t := n.(type) {
		case nil:
		case *ast.VariableStatement:
			for _, bind := range t.List {
				b.declareTarget(fs, bind.Target, DeclVar)
			}
		case *ast.FunctionDeclaration:
			b.catalogDeclaredFunction(fs, t)
		case *ast.BlockStatement:
			for _, s := range t.List {
				walk(s)
			}
		case *ast.IfStatement:
			walk(t.Consequent)
			walk(t.Alternate)
		case *ast.ForStatement:
			if decl, ok := t.Initializer.(*ast.ForLoopInitializerVarDeclList); ok {
				for _, bind := range decl.List {
					b.declareTarget(fs, bind.Target, DeclVar)
				}
			}
			walk(t.Body)
		case *ast.ForInStatement:
			if into, ok := t.Into.(*ast.ForIntoVar); ok {
				b.declareTarget(fs, into.Binding.Target, DeclVar)
			}
			walk(t.Body)
		case *ast.ForOfStatement:
			if into, ok := t.Into.(*ast.ForIntoVar); ok {
				b.declareTarget(fs, into.Binding.Target, DeclVar)
			}
			walk(t.Body)
		case *ast.WhileStatement:
			walk(t.Body)
		case *ast.DoWhileStatement:
			walk(t.Body)
		case *ast.SwitchStatement:
			for _, c := range t.Body {
				for _, s := range c.Consequent {
					walk(s)
				}
			}
		case *ast.TryStatement:
			walk(t.Body)
			if t.Catch != nil {
				walk(t.Catch.Body)
			}
			if t.Finally != nil {
				walk(t.Finally)
			}
		case *ast.LabelledStatement:
			walk(t.Statement)
		case *ast.WithStatement:
			walk(t.Body)
		}
	}
	for _, s := range stmts {
		walk(s)
	}
}

func (b *scopeBuilder) catalogDeclaredFunction(s *scope, decl *ast.FunctionDeclaration) {
	lit := decl.Function
	fe := &Function{
		Node:   lit,
		Params: paramIdents(lit.ParameterList),
		Body:   lit.Body,
	}
	if lit.Name != nil {
		fe.Name = string(lit.Name.Name)
		d := b.declare(s, lit.Name, DeclFunction)
		d.Fn = fe
		fe.Decl = d
	}
	b.f.funcs = append(b.f.funcs, fe)
}

func paramIdents(list *ast.ParameterList) []*ast.Identifier {
	if list == nil {
		return nil
	}
	params := make([]*ast.Identifier, len(list.List))
	for i, bind := range list.List {
		if id, ok := bind.Target.(*ast.Identifier); ok {
			params[i] = id
		}
	}
	return params
}

func (b *scopeBuilder) stmt(n ast.Statement) {
	switch t := n.(type) {
	case nil:
	case *ast.BlockStatement:
		b.push(false, b.scope.fn)
		for _, s := range t.List {
			b.stmt(s)
		}
		b.pop()
	case *ast.ExpressionStatement:
		b.expr(t.Expression)
	case *ast.VariableStatement:
		for _, bind := range t.List {
			b.binding(bind, DeclVar)
		}
	case *ast.LexicalDeclaration:
		kind := DeclLet
		if t.Token == token.CONST {
			kind = DeclConst
		}
		for _, bind := range t.List {
			b.lexicalBinding(bind, kind)
		}
	case *ast.FunctionDeclaration:
		// Declared during hoisting; only the body remains to walk.
		if fe := b.f.FunctionAt(t.Function); fe != nil {
			b.enterFunction(fe, t.Function.ParameterList, t.Function.Body)
		}
	case *ast.ClassDeclaration:
		if t.Class != nil && t.Class.Name != nil {
			b.declare(b.scope, t.Class.Name, DeclClass)
		}
	case *ast.ReturnStatement:
		b.expr(t.Argument)
	case *ast.IfStatement:
		b.expr(t.Test)
		b.stmt(t.Consequent)
		b.stmt(t.Alternate)
	case *ast.ForStatement:
		b.push(false, b.scope.fn)
		switch init := t.Initializer.(type) {
		case *ast.ForLoopInitializerExpression:
			b.expr(init.Expression)
		case *ast.ForLoopInitializerVarDeclList:
			for _, bind := range init.List {
				b.binding(bind, DeclVar)
			}
		case *ast.ForLoopInitializerLexicalDecl:
			kind := DeclLet
			if init.LexicalDeclaration.Token == token.CONST {
				kind = DeclConst
			}
			for _, bind := range init.LexicalDeclaration.List {
				b.lexicalBinding(bind, kind)
			}
		}
		b.expr(t.Test)
		b.expr(t.Update)
		b.stmt(t.Body)
		b.pop()
	case *ast.ForInStatement:
		b.push(false, b.scope.fn)
		b.forInto(t.Into)
		b.expr(t.Source)
		b.stmt(t.Body)
		b.pop()
	case *ast.ForOfStatement:
		b.push(false, b.scope.fn)
		b.forInto(t.Into)
		b.expr(t.Source)
		b.stmt(t.Body)
		b.pop()
	case *ast.WhileStatement:
		b.expr(t.Test)
		b.stmt(t.Body)
	case *ast.DoWhileStatement:
		b.stmt(t.Body)
		b.expr(t.Test)
	case *ast.SwitchStatement:
		b.expr(t.Discriminant)
		b.push(false, b.scope.fn)
		for _, c := range t.Body {
			b.expr(c.Test)
			for _, s := range c.Consequent {
				b.stmt(s)
			}
		}
		b.pop()
	case *ast.TryStatement:
		b.stmt(t.Body)
		if t.Catch != nil {
			b.push(false, b.scope.fn)
			if id, ok := t.Catch.Parameter.(*ast.Identifier); ok {
				b.declare(b.scope, id, DeclCatch)
			}
			b.stmt(t.Catch.Body)
			b.pop()
		}
		if t.Finally != nil {
			b.stmt(t.Finally)
		}
	case *ast.ThrowStatement:
		b.expr(t.Argument)
	case *ast.LabelledStatement:
		b.stmt(t.Statement)
	case *ast.WithStatement:
		b.expr(t.Object)
		b.stmt(t.Body)
	}
}

// binding handles one declarator of a var statement; the name itself
// was already hoisted.
func (b *scopeBuilder) binding(bind *ast.Binding, kind DeclKind) {
	b.expr(bind.Initializer)
	if id, ok := bind.Target.(*ast.Identifier); ok {
		d := b.scope.lookup(string(id.Name))
		if d == nil {
			d = b.declare(b.scope.funcScope(), id, kind)
		} else {
			b.f.decls[id] = d
		}
		if bind.Initializer != nil {
			d.Writes = append(d.Writes, bind.Initializer)
		}
		return
	}
	b.declareTarget(b.scope.funcScope(), bind.Target, kind)
}

func (b *scopeBuilder) lexicalBinding(bind *ast.Binding, kind DeclKind) {
	b.expr(bind.Initializer)
	if id, ok := bind.Target.(*ast.Identifier); ok {
		d := b.declare(b.scope, id, kind)
		if bind.Initializer != nil {
			d.Writes = append(d.Writes, bind.Initializer)
		}
		return
	}
	b.declareTarget(b.scope, bind.Target, kind)
}

// forInto resolves the loop target of a for-in or for-of statement.
// The target identifier itself is recorded as the written value, which
// lets a taint fact introduced at the loop header reach every use of
// the loop variable.
func (b *scopeBuilder) forInto(into ast.ForInto) {
	switch t := into.(type) {
	case *ast.ForIntoVar:
		if id, ok := t.Binding.Target.(*ast.Identifier); ok {
			d := b.scope.lookup(string(id.Name))
			if d == nil {
				d = b.declare(b.scope.funcScope(), id, DeclVar)
			} else {
				b.f.decls[id] = d
			}
			d.Writes = append(d.Writes, id)
		}
	case *ast.ForDeclaration:
		if id, ok := t.Target.(*ast.Identifier); ok {
			kind := DeclLet
			if t.IsConst {
				kind = DeclConst
			}
			d := b.declare(b.scope, id, kind)
			d.Writes = append(d.Writes, id)
		} else {
			b.declareTarget(b.scope, t.Target, DeclLet)
		}
	case *ast.ForIntoExpression:
		if id, ok := t.Expression.(*ast.Identifier); ok {
			b.writeTo(id, id)
		} else {
			b.expr(t.Expression)
		}
	}
}

// writeTo records an assignment of value into the binding named by id,
// synthesizing an implicit global when the name was never declared.
func (b *scopeBuilder) writeTo(id *ast.Identifier, value ast.Node) {
	d := b.scope.lookup(string(id.Name))
	if d == nil {
		d = b.declare(b.root, id, DeclImplicit)
	} else {
		b.f.decls[id] = d
	}
	if value != nil {
		d.Writes = append(d.Writes, value)
	}
}

func (b *scopeBuilder) expr(n ast.Node) {
	switch t := n.(type) {
	case nil:
	case *ast.Identifier:
		b.use(t)
	case *ast.AssignExpression:
		if t.Operator == token.ASSIGN {
			b.assignTarget(t.Left, t.Right)
		} else {
			b.expr(t.Left)
		}
		b.expr(t.Right)
	case *ast.BracketExpression:
		b.expr(t.Left)
		b.expr(t.Member)
	case *ast.DotExpression:
		b.expr(t.Left)
	case *ast.CallExpression:
		b.expr(t.Callee)
		for _, a := range t.ArgumentList {
			b.expr(a)
		}
	case *ast.NewExpression:
		b.expr(t.Callee)
		for _, a := range t.ArgumentList {
			b.expr(a)
		}
	case *ast.BinaryExpression:
		b.expr(t.Left)
		b.expr(t.Right)
	case *ast.UnaryExpression:
		b.expr(t.Operand)
	case *ast.ConditionalExpression:
		b.expr(t.Test)
		b.expr(t.Consequent)
		b.expr(t.Alternate)
	case *ast.SequenceExpression:
		for _, e := range t.Sequence {
			b.expr(e)
		}
	case *ast.SpreadElement:
		b.expr(t.Expression)
	case *ast.TemplateLiteral:
		b.expr(t.Tag)
		for _, e := range t.Expressions {
			b.expr(e)
		}
	case *ast.ObjectLiteral:
		for _, p := range t.Value {
			switch prop := p.(type) {
			case *ast.PropertyKeyed:
				if prop.Computed {
					b.expr(prop.Key)
				}
				b.expr(prop.Value)
			case *ast.PropertyShort:
				b.use(&prop.Name)
				b.expr(prop.Initializer)
			case *ast.SpreadElement:
				b.expr(prop.Expression)
			}
		}
	case *ast.ArrayLiteral:
		for _, e := range t.Value {
			b.expr(e)
		}
	case *ast.FunctionLiteral:
		b.functionExpr(t)
	case *ast.ArrowFunctionLiteral:
		b.arrowExpr(t)
	}
}

func (b *scopeBuilder) use(id *ast.Identifier) {
	d := b.scope.lookup(string(id.Name))
	if d == nil {
		b.unresolvedUses[string(id.Name)] = append(b.unresolvedUses[string(id.Name)], id)
		return
	}
	b.f.decls[id] = d
	d.Uses = append(d.Uses, id)
}

func (b *scopeBuilder) assignTarget(target ast.Node, value ast.Node) {
	switch t := target.(type) {
	case *ast.Identifier:
		b.writeTo(t, value)
	case *ast.BracketExpression:
		b.expr(t.Left)
		b.expr(t.Member)
	case *ast.DotExpression:
		b.expr(t.Left)
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			for _, c := range propertyChildren(p) {
				b.assignTarget(c, nil)
			}
		}
		if t.Rest != nil {
			b.assignTarget(t.Rest, nil)
		}
	case *ast.ArrayPattern:
		for _, e := range t.Elements {
			if e != nil {
				b.assignTarget(e, nil)
			}
		}
		if t.Rest != nil {
			b.assignTarget(t.Rest, nil)
		}
	default:
		b.expr(target)
	}
}

func (b *scopeBuilder) functionExpr(lit *ast.FunctionLiteral) {
	fe := &Function{
		Node:   lit,
		Params: paramIdents(lit.ParameterList),
		Body:   lit.Body,
	}
	if lit.Name != nil {
		fe.Name = string(lit.Name.Name)
	}
	b.f.funcs = append(b.f.funcs, fe)
	b.push(true, fe)
	// A named function expression sees its own name inside the body.
	if lit.Name != nil {
		d := b.declare(b.scope, lit.Name, DeclFunction)
		d.Fn = fe
		fe.Decl = d
	}
	b.params(lit.ParameterList)
	b.hoist(lit.Body.List)
	for _, s := range lit.Body.List {
		b.stmt(s)
	}
	b.pop()
}

func (b *scopeBuilder) arrowExpr(lit *ast.ArrowFunctionLiteral) {
	fe := &Function{
		Node:   lit,
		Params: paramIdents(lit.ParameterList),
		Body:   lit.Body,
	}
	b.f.funcs = append(b.f.funcs, fe)
	b.push(true, fe)
	b.params(lit.ParameterList)
	switch body := lit.Body.(type) {
	case *ast.BlockStatement:
		b.hoist(body.List)
		for _, s := range body.List {
			b.stmt(s)
		}
	case *ast.ExpressionBody:
		b.expr(body.Expression)
	}
	b.pop()
}

// enterFunction walks the body of a hoisted function declaration.
func (b *scopeBuilder) enterFunction(fe *Function, list *ast.ParameterList, body *ast.BlockStatement) {
	b.push(true, fe)
	b.params(list)
	b.hoist(body.List)
	for _, s := range body.List {
		b.stmt(s)
	}
	b.pop()
}

func (b *scopeBuilder) params(list *ast.ParameterList) {
	if list == nil {
		return
	}
	for _, bind := range list.List {
		if id, ok := bind.Target.(*ast.Identifier); ok {
			d := b.declare(b.scope, id, DeclParam)
			if bind.Initializer != nil {
				b.expr(bind.Initializer)
				d.Writes = append(d.Writes, bind.Initializer)
			}
			continue
		}
		b.declareTarget(b.scope, bind.Target, DeclParam)
		if bind.Initializer != nil {
			b.expr(bind.Initializer)
		}
	}
	if rest, ok := list.Rest.(*ast.Identifier); ok && rest != nil {
		b.declare(b.scope, rest, DeclParam)
	}
}
