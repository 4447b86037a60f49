package issue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dop251/goja/ast"

	"github.com/securejs/jssec/cwe"
	"github.com/securejs/jssec/jsast"
)

// Score type used by severity and confidence values
type Score int

const (
	// Low severity or confidence
	Low Score = iota
	// Medium severity or confidence
	Medium
	// High severity or confidence
	High
)

// SnippetOffset defines the number of lines captured before
// the beginning and after the end of a code snippet
const SnippetOffset = 1

// ruleToCWE maps jssec rules to CWEs
var ruleToCWE = map[string]string{
	"J101": "95",
	"J102": "79",
	"J103": "79",
	"J104": "798",
	"J201": "1321",
}

// GetCweByRule retrieves a cwe weakness for a given RuleID
func GetCweByRule(id string) *cwe.Weakness {
	cweID, ok := ruleToCWE[id]
	if ok && cweID != "" {
		return cwe.Get(cweID)
	}
	return nil
}

// Issue is returned by a jssec rule if it discovers an issue with the scanned code.
type Issue struct {
	Severity     Score             `json:"severity"`   // issue severity (how problematic it is)
	Confidence   Score             `json:"confidence"` // issue confidence (how sure we are we found it)
	Cwe          *cwe.Weakness     `json:"cwe"`        // Cwe associated with RuleID
	RuleID       string            `json:"rule_id"`    // Human readable explanation
	What         string            `json:"details"`    // Human readable explanation
	File         string            `json:"file"`       // File name we found it in
	Code         string            `json:"code"`       // Impacted code line
	Line         string            `json:"line"`       // Line number in file
	Col          string            `json:"column"`     // Column number in line
	NoSec        bool              `json:"nosec"`      // true if the issue is nosec
	Suppressions []SuppressionInfo `json:"suppressions"`
	Autofix      string            `json:"autofix,omitempty"` // Proposed auto fix to the issue
}

// SuppressionInfo object to record why an issue was suppressed
type SuppressionInfo struct {
	Kind          string `json:"kind"`
	Justification string `json:"justification"`
}

// FileLocation point out the file path and line number in file
func (i *Issue) FileLocation() string {
	return fmt.Sprintf("%s:%s", i.File, i.Line)
}

// WithSuppressions set the suppressions of the issue
func (i *Issue) WithSuppressions(suppressions []SuppressionInfo) *Issue {
	i.Suppressions = suppressions
	return i
}

// MetaData is embedded in all jssec rules. The Severity, Confidence and What message
// will be passed through to reported issues.
type MetaData struct {
	ID         string
	Severity   Score
	Confidence Score
	What       string
}

// MarshalJSON is used convert a Score object into a JSON representation
func (c Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// String converts a Score into a string
func (c Score) String() string {
	switch c {
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	case Low:
		return "LOW"
	}
	return "UNDEFINED"
}

// codeSnippet extracts the numbered source lines between start and end.
// The parsed file keeps the source in memory, so no file access is needed.
func codeSnippet(f *jsast.File, start, end int) string {
	var buf bytes.Buffer
	for line := start; line <= end && line <= f.NumLines(); line++ {
		fmt.Fprintf(&buf, "%d: %s\n", line, f.Line(line))
	}
	return buf.String()
}

func codeSnippetStartLine(f *jsast.File, node ast.Node) int {
	s := f.Position(node).Line
	if s-SnippetOffset > 0 {
		return s - SnippetOffset
	}
	return s
}

func codeSnippetEndLine(f *jsast.File, node ast.Node) int {
	return f.EndPosition(node).Line + SnippetOffset
}

// New creates a new Issue
func New(f *jsast.File, node ast.Node, ruleID, desc string, severity, confidence Score) *Issue {
	start, end := f.Position(node).Line, f.EndPosition(node).Line
	line := strconv.Itoa(start)
	if start != end {
		line = fmt.Sprintf("%d-%d", start, end)
	}
	col := strconv.Itoa(f.Position(node).Column)
	code := codeSnippet(f, codeSnippetStartLine(f, node), codeSnippetEndLine(f, node))

	return &Issue{
		File:       f.Name,
		Line:       line,
		Col:        col,
		RuleID:     ruleID,
		What:       desc,
		Confidence: confidence,
		Severity:   severity,
		Code:       code,
		Cwe:        GetCweByRule(ruleID),
	}
}
