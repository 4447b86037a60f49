package testutils

import (
	"github.com/securejs/jssec"
	"github.com/securejs/jssec/jsast"
)

// CreateContext parses the given source and builds the context a rule
// receives during a scan. Sample code in tests is expected to parse, so a
// syntax error panics.
func CreateContext(name, source string) *jssec.Context {
	root, err := jsast.Parse(name, source)
	if err != nil {
		panic(err)
	}
	return &jssec.Context{
		Root:         root,
		Config:       jssec.NewConfig(),
		PassedValues: make(map[string]interface{}),
	}
}
