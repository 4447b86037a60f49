package jssec

import (
	"github.com/dop251/goja/ast"

	"github.com/securejs/jssec/issue"
)

// The Rule interface used by all rules supported by jssec.
type Rule interface {
	ID() string
	Match(ast.Node, *Context) (*issue.Issue, error)
}

// RuleBuilder is used to register a rule definition with the analyzer
type RuleBuilder func(id string, c Config) (Rule, []ast.Node)
