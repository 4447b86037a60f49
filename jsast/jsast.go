// Package jsast wraps the goja JavaScript parser with the semantic
// queries the rules need: parent links, lexical scope resolution,
// a function catalog with local call resolution, constant string
// evaluation and backward origin tracking for expressions.
//
// The package never mutates the underlying syntax tree. Every index is
// built once during Parse and is read-only afterwards, so a File can be
// shared across concurrently running rules.
package jsast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"
)

// File is a parsed JavaScript source file together with the semantic
// indexes built on top of it.
type File struct {
	Name    string
	Program *ast.Program

	src      string
	lines    []string
	parents  map[ast.Node]ast.Node
	decls    map[*ast.Identifier]*Decl
	declList []*Decl
	funcs    []*Function
	callees  map[*ast.CallExpression]*Function
	globals  map[string]*ast.Identifier
}

// Parse parses src and builds the semantic indexes. A syntax error is
// returned as-is from the parser; no partial File is produced.
func Parse(name, src string) (*File, error) {
	prog, err := parser.ParseFile(nil, name, src, 0)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	f := &File{
		Name:    name,
		Program: prog,
		src:     src,
		lines:   strings.Split(src, "\n"),
		parents: make(map[ast.Node]ast.Node),
		decls:   make(map[*ast.Identifier]*Decl),
		callees: make(map[*ast.CallExpression]*Function),
		globals: make(map[string]*ast.Identifier),
	}
	f.buildParents()
	f.buildScopes()
	f.resolveCalls()
	return f, nil
}

func (f *File) buildParents() {
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for _, c := range Children(n) {
			f.parents[c] = n
			walk(c)
		}
	}
	walk(f.Program)
}

// Parent returns the syntactic parent of n, or nil for the program root
// and for nodes outside this file.
func (f *File) Parent(n ast.Node) ast.Node {
	return f.parents[n]
}

// Position converts a node's start offset into a file position. goja
// indexes are 1-based while Position expects a 0-based byte offset, so
// the index is rebased before the lookup.
func (f *File) Position(n ast.Node) file.Position {
	return f.Program.File.Position(int(n.Idx0()) - 1)
}

// EndPosition converts a node's end offset into a file position. It
// names the last character of the node rather than the offset just
// past it, so a node ending at a line break still reports its own line.
func (f *File) EndPosition(n ast.Node) file.Position {
	idx := int(n.Idx1()) - 1
	if idx < int(n.Idx0()) {
		idx = int(n.Idx0())
	}
	return f.Program.File.Position(idx - 1)
}

// Text returns the source text covered by n. goja offsets are 1-based.
func (f *File) Text(n ast.Node) string {
	start, end := int(n.Idx0())-1, int(n.Idx1())-1
	if start < 0 || end > len(f.src) || start > end {
		return ""
	}
	return f.src[start:end]
}

// Line returns the 1-based source line, or "" when out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return f.lines[n-1]
}

// NumLines returns the number of source lines in the file.
func (f *File) NumLines() int {
	return len(f.lines)
}

// Functions returns the catalog of function literals, declarations and
// arrow functions in the file, ordered by position.
func (f *File) Functions() []*Function {
	return f.funcs
}

// EnclosingFunction returns the innermost function whose body contains
// n, or nil when n is at the top level.
func (f *File) EnclosingFunction(n ast.Node) *Function {
	var best *Function
	for _, fn := range f.funcs {
		if fn.Node.Idx0() <= n.Idx0() && n.Idx1() <= fn.Node.Idx1() {
			if best == nil || fn.Node.Idx0() >= best.Node.Idx0() {
				best = fn
			}
		}
	}
	return best
}

// Callee returns the function a call resolves to, when the callee is a
// locally declared function or a variable bound to a single function
// literal. Unresolvable calls return nil.
func (f *File) Callee(call *ast.CallExpression) *Function {
	return f.callees[call]
}

func (f *File) resolveCalls() {
	Inspect(f.Program, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpression)
		if !ok {
			return true
		}
		switch callee := call.Callee.(type) {
		case *ast.Identifier:
			d := f.DeclOf(callee)
			if d == nil {
				return true
			}
			if d.Kind == DeclFunction && d.Fn != nil {
				f.callees[call] = d.Fn
				return true
			}
			// A variable counts only when every write binds the same
			// function literal, otherwise the target is ambiguous.
			var fn *Function
			for _, w := range d.Writes {
				cand := f.FunctionAt(w)
				if cand == nil || (fn != nil && fn != cand) {
					return true
				}
				fn = cand
			}
			if fn != nil {
				f.callees[call] = fn
			}
		case *ast.FunctionLiteral, *ast.ArrowFunctionLiteral:
			if fn := f.FunctionAt(callee); fn != nil {
				f.callees[call] = fn
			}
		}
		return true
	})
	sort.Slice(f.funcs, func(i, j int) bool {
		return f.funcs[i].Node.Idx0() < f.funcs[j].Node.Idx0()
	})
}

// FunctionAt returns the catalog entry whose definition node is n.
func (f *File) FunctionAt(n ast.Node) *Function {
	for _, fn := range f.funcs {
		if fn.Node == n {
			return fn
		}
	}
	return nil
}

// Returns lists the argument expressions of every return statement that
// belongs directly to fn, skipping returns of nested functions. For
// arrow functions with an expression body the body expression itself is
// the returned value.
func (f *File) Returns(fn *Function) []ast.Node {
	if body, ok := fn.Body.(*ast.ExpressionBody); ok {
		return []ast.Node{body.Expression}
	}
	var out []ast.Node
	Inspect(fn.Body, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.FunctionLiteral, *ast.ArrowFunctionLiteral:
			return false
		case *ast.ReturnStatement:
			if t.Argument != nil {
				out = append(out, t.Argument)
			}
		}
		return true
	})
	return out
}
