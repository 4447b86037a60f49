// Package jssec holds the central scanning logic used by jssec
package jssec

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
	"golang.org/x/sync/errgroup"

	"github.com/securejs/jssec/issue"
	"github.com/securejs/jssec/jsast"
)

const (
	// aliasOfAllRules is used when a nosec directive names no specific rules
	aliasOfAllRules = "*"

	externalSuppressionJustification = "Globally suppressed."
)

// Minified bundles produce uninspectable findings and drown the report.
// A single machine-written line is longer than anything a person types.
const (
	minifiedLineLength    = 1000
	minifiedAvgLineLength = 250
)

// The Context is populated with data parsed from the source code as it is
// scanned. It is passed through to all rule functions as they are called.
// Rules may use this data in conjunction with the encountered AST node.
type Context struct {
	Root         *jsast.File
	Config       Config
	PassedValues map[string]interface{}
}

// NewIssue creates a new issue for the file under analysis.
func (ctx *Context) NewIssue(node ast.Node, ruleID, description string,
	severity, confidence issue.Score,
) *issue.Issue {
	return issue.New(ctx.Root, node, ruleID, description, severity, confidence)
}

// Metrics used when reporting information about a scanning run.
type Metrics struct {
	NumFiles int `json:"files"`
	NumLines int `json:"lines"`
	NumNosec int `json:"nosec"`
	NumFound int `json:"found"`
}

// Analyzer object is the main object of jssec. It has methods to parse
// JavaScript source files and invoke the configured rules on their syntax
// trees.
type Analyzer struct {
	ignoreNosec       bool
	showIgnored       bool
	ruleset           RuleSet
	config            Config
	logger            *log.Logger
	tests             bool
	excludeMinified   bool
	trackSuppressions bool
	concurrency       int

	mu     sync.Mutex
	issues []*issue.Issue
	stats  *Metrics
	errors map[string][]Error // keys are file paths; values are the parse errors in those files
}

// NewAnalyzer builds a new analyzer.
func NewAnalyzer(conf Config, tests bool, excludeMinified bool, trackSuppressions bool, concurrency int, logger *log.Logger) *Analyzer {
	ignoreNoSec := false
	if enabled, err := conf.IsGlobalEnabled(Nosec); err == nil {
		ignoreNoSec = enabled
	}
	showIgnored := false
	if enabled, err := conf.IsGlobalEnabled(ShowIgnored); err == nil {
		showIgnored = enabled
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[jssec]", log.LstdFlags)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Analyzer{
		ignoreNosec:       ignoreNoSec,
		showIgnored:       showIgnored,
		ruleset:           NewRuleSet(),
		config:            conf,
		logger:            logger,
		tests:             tests,
		excludeMinified:   excludeMinified,
		trackSuppressions: trackSuppressions,
		concurrency:       concurrency,
		issues:            make([]*issue.Issue, 0, 16),
		stats:             &Metrics{},
		errors:            make(map[string][]Error),
	}
}

// LoadRules instantiates all the rules to be used when analyzing source
// files
func (jssec *Analyzer) LoadRules(ruleDefinitions map[string]RuleBuilder, ruleSuppressed map[string]bool) {
	for id, def := range ruleDefinitions {
		r, nodes := def(id, jssec.config)
		jssec.ruleset.Register(r, ruleSuppressed[id], nodes...)
	}
}

// Process kicks off the analysis process for the given paths. A path names
// either a single JavaScript file or a directory whose immediate *.js
// children are scanned; recursive scans are expanded into file paths by
// SourcePaths before they reach the analyzer. Files are analyzed
// concurrently. Per-file failures are recorded in the report and the first
// one is also returned.
func (jssec *Analyzer) Process(paths ...string) error {
	g := new(errgroup.Group)
	g.SetLimit(jssec.concurrency)

	for _, root := range paths {
		files, err := jssec.sourceFiles(root)
		if err != nil {
			jssec.AppendError(root, err)
			continue
		}
		for _, fpath := range files {
			fpath := fpath
			g.Go(func() error {
				return jssec.processFile(fpath)
			})
		}
	}

	err := g.Wait()

	jssec.mu.Lock()
	sortErrors(jssec.errors)
	sortIssues(jssec.issues)
	jssec.mu.Unlock()
	return err
}

// sourceFiles resolves one scan path into the files it names.
func (jssec *Analyzer) sourceFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsJSFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(root, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (jssec *Analyzer) processFile(fpath string) error {
	if !jssec.tests && isTestFile(fpath) {
		jssec.logger.Println("Ignoring test file:", fpath)
		return nil
	}
	jssec.logger.Println("Checking file:", fpath)
	raw, err := os.ReadFile(fpath)
	if err != nil {
		jssec.AppendError(fpath, err)
		return err
	}
	source := string(raw)
	if jssec.excludeMinified && isMinified(source) {
		jssec.logger.Println("Ignoring minified file:", fpath)
		return nil
	}
	return jssec.ProcessSource(fpath, source)
}

// ProcessSource runs the loaded rules over a single piece of JavaScript
// source. The name is used in reported issues and parse errors. A parse
// failure is recorded in the report and returned.
func (jssec *Analyzer) ProcessSource(name string, source string) error {
	root, err := jsast.Parse(name, source)
	if err != nil {
		jssec.AppendError(name, err)
		return err
	}

	directives := jssec.scanDirectives(root)

	jssec.mu.Lock()
	jssec.stats.NumFiles++
	jssec.stats.NumLines += root.NumLines()
	jssec.stats.NumNosec += len(directives)
	jssec.mu.Unlock()

	ctx := &Context{
		Root:         root,
		Config:       jssec.config,
		PassedValues: make(map[string]interface{}),
	}
	jssec.checkRules(ctx, directives)
	return nil
}

// checkRules walks the syntax tree and invokes every rule registered for
// the node types it encounters.
func (jssec *Analyzer) checkRules(ctx *Context, directives fileDirectives) {
	jsast.Inspect(ctx.Root.Program, func(n ast.Node) bool {
		for _, rule := range jssec.ruleset.RegisteredFor(n) {
			iss, err := rule.Match(n, ctx)
			if err != nil {
				pos := ctx.Root.Position(n)
				jssec.logger.Printf("Rule error: %v => %s (%s:%d)\n",
					reflect.TypeOf(rule), err, path.Base(ctx.Root.Name), pos.Line)
			}
			if iss == nil {
				continue
			}

			ignored := false
			var suppressions []issue.SuppressionInfo
			for _, d := range directives.covering(ctx.Root, n) {
				if d.rules == nil || d.rules[rule.ID()] {
					ignored = true
					suppressions = append(suppressions, issue.SuppressionInfo{
						Kind:          "inSource",
						Justification: d.justification,
					})
				}
			}

			// Track external suppressions of this rule.
			if jssec.ruleset.IsRuleSuppressed(rule.ID()) {
				ignored = true
				suppressions = append(suppressions, issue.SuppressionInfo{
					Kind:          "external",
					Justification: externalSuppressionJustification,
				})
			}
			jssec.updateIssues(iss, ignored, suppressions)
		}
		return true
	})
}

func (jssec *Analyzer) updateIssues(iss *issue.Issue, ignored bool, suppressions []issue.SuppressionInfo) {
	if iss == nil {
		return
	}
	jssec.mu.Lock()
	defer jssec.mu.Unlock()
	if jssec.showIgnored {
		iss.NoSec = ignored
	}
	if !ignored || !jssec.showIgnored {
		jssec.stats.NumFound++
	}
	if ignored && jssec.trackSuppressions {
		iss.WithSuppressions(suppressions)
		jssec.issues = append(jssec.issues, iss)
	} else if !ignored || jssec.showIgnored || jssec.ignoreNosec {
		jssec.issues = append(jssec.issues, iss)
	}
}

// AppendError appends an error to the file errors
func (jssec *Analyzer) AppendError(file string, err error) {
	var list parser.ErrorList
	jssec.mu.Lock()
	defer jssec.mu.Unlock()
	if errors.As(err, &list) {
		for _, e := range list {
			jssec.errors[file] = append(jssec.errors[file], *NewError(e.Position.Line, e.Position.Column, e.Message))
		}
		return
	}
	jssec.errors[file] = append(jssec.errors[file], *NewError(0, 0, err.Error()))
}

// Report returns the current issues discovered and the metrics about the scan
func (jssec *Analyzer) Report() ([]*issue.Issue, *Metrics, map[string][]Error) {
	return jssec.issues, jssec.stats, jssec.errors
}

// Reset clears state such as issues, errors and metrics from the configured analyzer
func (jssec *Analyzer) Reset() {
	jssec.mu.Lock()
	defer jssec.mu.Unlock()
	jssec.issues = make([]*issue.Issue, 0, 16)
	jssec.stats = &Metrics{}
	jssec.errors = make(map[string][]Error)
}

// NoSecTag returns the tag used to disable jssec for a line of code.
func NoSecTag(tag string) string {
	return fmt.Sprintf("%s%s", "#", tag)
}

// directive is one nosec annotation found in a source file.
type directive struct {
	rules         map[string]bool // nil when the annotation covers all rules
	justification string
	ownLine       bool // comment-only line; governs the line below it
}

// fileDirectives holds the nosec annotations of one file, keyed by the
// line each annotation sits on.
type fileDirectives map[int]directive

var (
	directiveRuleIDs       = regexp.MustCompile(`(J\d{3})`)
	directiveJustification = regexp.MustCompile(`-{2,}`)
)

// scanDirectives finds nosec annotations in the source. An annotation must
// lead its comment: "// #nosec J101" counts, "// see #nosec" does not.
func (jssec *Analyzer) scanDirectives(root *jsast.File) fileDirectives {
	if jssec.ignoreNosec {
		return nil
	}
	noSecDefaultTag := NoSecTag(string(Nosec))
	noSecAlternativeTag, err := jssec.config.GetGlobal(NoSecAlternative)
	if err != nil {
		noSecAlternativeTag = noSecDefaultTag
	} else {
		noSecAlternativeTag = NoSecTag(noSecAlternativeTag)
	}

	directives := make(fileDirectives)
	for i := 1; i <= root.NumLines(); i++ {
		line := root.Line(i)
		d, ok := parseDirective(line, noSecDefaultTag)
		if !ok && noSecAlternativeTag != noSecDefaultTag {
			d, ok = parseDirective(line, noSecAlternativeTag)
		}
		if ok {
			directives[i] = d
		}
	}
	return directives
}

func parseDirective(line, tag string) (directive, bool) {
	idx := strings.Index(line, tag)
	if idx < 0 {
		return directive{}, false
	}
	before := line[:idx]
	marker := strings.LastIndex(before, "//")
	if block := strings.LastIndex(before, "/*"); block > marker {
		marker = block
	}
	if marker < 0 {
		return directive{}, false
	}
	if strings.TrimSpace(before[marker+2:]) != "" {
		return directive{}, false
	}

	rest := line[idx+len(tag):]
	if end := strings.Index(rest, "*/"); end >= 0 {
		rest = rest[:end]
	}

	d := directive{ownLine: strings.TrimSpace(before[:marker]) == ""}

	// Extract the directive and the justification.
	parts := directiveJustification.Split(rest, 2)
	if len(parts) > 1 {
		d.justification = strings.TrimSpace(parts[1])
	}

	// Pull out the specific rules that are listed to be ignored. If none
	// are given the annotation covers every rule.
	if ids := directiveRuleIDs.FindAllStringSubmatch(parts[0], -1); len(ids) > 0 {
		d.rules = make(map[string]bool, len(ids))
		for _, m := range ids {
			d.rules[m[1]] = true
		}
	}
	return d, true
}

// covering returns the annotations that govern node n: a trailing
// annotation on the starting line of n or of an enclosing node, or an
// own-line annotation immediately above one of those lines. The program
// root is excluded so a stray annotation on line one does not blanket the
// whole file.
func (directives fileDirectives) covering(root *jsast.File, n ast.Node) []directive {
	if len(directives) == 0 {
		return nil
	}
	var found []directive
	sameLine := make(map[int]bool)
	lineAbove := make(map[int]bool)
	for cur := n; cur != nil; cur = root.Parent(cur) {
		if _, isRoot := cur.(*ast.Program); isRoot {
			break
		}
		line := root.Position(cur).Line
		if !sameLine[line] {
			sameLine[line] = true
			if d, ok := directives[line]; ok && !d.ownLine {
				found = append(found, d)
			}
		}
		if !lineAbove[line-1] {
			lineAbove[line-1] = true
			if d, ok := directives[line-1]; ok && d.ownLine {
				found = append(found, d)
			}
		}
	}
	return found
}

// isTestFile reports whether the path looks like a JavaScript test file.
func isTestFile(fpath string) bool {
	name := filepath.Base(fpath)
	for _, suffix := range []string{".test.js", ".test.mjs", ".test.cjs", ".spec.js", ".spec.mjs", ".spec.cjs"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	for _, seg := range strings.Split(filepath.ToSlash(fpath), "/") {
		if seg == "__tests__" {
			return true
		}
	}
	return false
}

func isMinified(source string) bool {
	lines := strings.Split(source, "\n")
	total := 0
	for _, line := range lines {
		if len(line) > minifiedLineLength {
			return true
		}
		total += len(line)
	}
	return total/len(lines) > minifiedAvgLineLength
}

// sortIssues fixes the report order after concurrent file scans.
func sortIssues(issues []*issue.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if la, lb := lineNumber(a.Line), lineNumber(b.Line); la != lb {
			return la < lb
		}
		return a.RuleID < b.RuleID
	})
}

func lineNumber(line string) int {
	if i := strings.IndexByte(line, '-'); i > 0 {
		line = line[:i]
	}
	n, _ := strconv.Atoi(line)
	return n
}
