package junit

import (
	"encoding/xml"
)

// Report is the root testsuites element of a JUnit XML document.
type Report struct {
	XMLName    xml.Name     `xml:"testsuites"`
	Testsuites []*Testsuite `xml:"testsuite"`
}

// Testsuite groups the findings of one rule description.
type Testsuite struct {
	XMLName   xml.Name    `xml:"testsuite"`
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Testcases []*Testcase `xml:"testcase"`
}

// NewTestsuite creates an empty suite with the given name.
func NewTestsuite(name string) *Testsuite {
	return &Testsuite{
		Name: name,
	}
}

// Testcase is one finding, reported as a failed test.
type Testcase struct {
	XMLName xml.Name `xml:"testcase"`
	Name    string   `xml:"name,attr"`
	Failure *Failure `xml:"failure"`
}

// NewTestcase creates a Testcase carrying the given failure.
func NewTestcase(name string, failure *Failure) *Testcase {
	return &Testcase{
		Name:    name,
		Failure: failure,
	}
}

// Failure holds the finding details of a test case.
type Failure struct {
	XMLName xml.Name `xml:"failure"`
	Message string   `xml:"message,attr"`
	Text    string   `xml:",innerxml"`
}

// NewFailure creates a Failure with the given message and body.
func NewFailure(message, text string) *Failure {
	return &Failure{
		Message: message,
		Text:    text,
	}
}
