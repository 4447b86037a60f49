package testutils

import "github.com/securejs/jssec"

// CodeSample encapsulates a snippet of source code that parses, and how many errors should be detected
type CodeSample struct {
	Code   []string
	Errors int
	Config jssec.Config
}
