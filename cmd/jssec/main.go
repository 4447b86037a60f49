package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/securejs/jssec"
	"github.com/securejs/jssec/autofix"
	"github.com/securejs/jssec/cmd/vflag"
	"github.com/securejs/jssec/issue"
	"github.com/securejs/jssec/report"
	"github.com/securejs/jssec/rules"
)

const (
	usageText = `
jssec - JavaScript security checker

jssec analyzes JavaScript source code to look for common programming mistakes
that can lead to security problems.

VERSION: %s
GIT TAG: %s
BUILD DATE: %s

USAGE:

	# Check a single file
	$ jssec app.js

	# Check all files under the current directory and save results in
	# json format.
	$ jssec -fmt=json -out=results.json ./...

	# Run a specific set of rules (by default all rules will be run):
	$ jssec -include=J101,J201 ./...

	# Run everything except the credentials checks
	$ jssec -exclude=J104 ./...

`
	// exit code when issues were found or files could not be parsed
	exitFailure = 1
	exitSuccess = 0
)

var (
	// #nosec flag
	flagIgnoreNoSec = flag.Bool("nosec", false, "Ignores #nosec comments when set")

	// show ignored
	flagShowIgnored = flag.Bool("show-ignored", false, "If enabled, ignored issues are printed")

	// format output
	flagFormat = flag.String("fmt", "text", "Set output format. Valid options are: json, yaml, csv, junit-xml, html, sonarqube, eslint, sarif or text")

	// print to stdout in a different format than the one saved in the file
	flagVerbose = flag.String("verbose", "", "Overrides the output format when stdout the results while saving them in the output file")

	// output besides file
	flagStdOut = flag.Bool("stdout", false, "Stdout the results as well as write it in the output file")

	// output file
	flagOutput = flag.String("out", "", "Set output file for results")

	// config file
	flagConfig = flag.String("conf", "", "Path to optional config file")

	// quiet
	flagQuiet = flag.Bool("quiet", false, "Only show output when issues are found")

	// rules to explicitly include
	flagRulesInclude = flag.String("include", "", "Comma separated list of rules IDs to include. (see rule list)")

	// rules to explicitly exclude
	flagRulesExclude = vflag.ValidatedFlag{}

	// path based rule exclusions
	flagExcludeRulePaths = flag.String("exclude-rules", "", `Path based rule exclusions, e.g. "vendored/.*:J101,J103;fixtures/.*:*"`)

	// log to file or stderr
	flagLogfile = flag.String("log", "", "Log messages to file rather than stderr")

	// sort the issues by severity
	flagSortIssues = flag.Bool("sort", true, "Sort issues by severity")

	// scan test files
	flagScanTests = flag.Bool("tests", false, "Scan test files as well")

	// skip minified sources
	flagExcludeMinified = flag.Bool("exclude-minified", false, "Skip files that look minified or generated")

	// fail severity and confidence
	flagSeverity   = flag.String("severity", "low", "Filter out the issues with a lower severity than the given value. Valid options are: low, medium, high")
	flagConfidence = flag.String("confidence", "low", "Filter out the issues with a lower confidence than the given value. Valid options are: low, medium, high")

	// do not fail
	flagNoFail = flag.Bool("no-fail", false, "Do not fail the scanning, even if issues were found")

	// alternative tag for #nosec
	flagAlternativeNoSec = flag.String("nosec-tag", "", "Set an alternative string for #nosec. Some examples: #dontanalyze, #skip")

	// enable audit mode
	flagEnableAudit = flag.Bool("enable-audit", false, "Enable audit mode")

	// print the text report without color
	flagColor = flag.Bool("color", false, "Prints the text format report with colorization when it goes in the stdout")

	// concurrency value
	flagConcurrency = flag.Int("concurrency", runtime.NumCPU(), "Concurrency of the scan")

	// track suppressions
	flagTrackSuppressions = flag.Bool("track-suppressions", false, "Enables tracking of suppressions")

	// print version and quit with exit code 0
	flagVersion = flag.Bool("version", false, "Print version and quit with exit code 0")

	// AI platform provider to generate solutions to issues
	flagAIAPIProvider = flag.String("ai-api-provider", "", "AI API provider to generate auto fixes to issues. Valid options are: gemini")

	// key to implement AI provider services
	flagAIAPIKey = flag.String("ai-api-key", "", "Key to access the AI API")

	// directories to exclude from the scan
	flagDirsExclude arrayFlags

	logger *log.Logger
)

type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

// #nosec
func usage() {
	usageText := fmt.Sprintf(usageText, Version, GitTag, BuildDate)
	fmt.Fprintln(os.Stderr, usageText)
	fmt.Fprint(os.Stderr, "OPTIONS:\n\n")
	flag.PrintDefaults()
	fmt.Fprint(os.Stderr, "\n\nRULES:\n\n")

	// sorted rule list for ease of reading
	rl := rules.Generate(false)
	keys := make([]string, 0, len(rl.Rules))
	for key := range rl.Rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := rl.Rules[k]
		fmt.Fprintf(os.Stderr, "\t%s: %s\n", k, v.Description)
	}
	fmt.Fprint(os.Stderr, "\n")
}

func loadConfig(configFile string) (jssec.Config, error) {
	config := jssec.NewConfig()
	if configFile != "" {
		// #nosec
		file, err := os.Open(configFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if _, err := config.ReadFrom(file); err != nil {
			return nil, err
		}
	}
	if *flagIgnoreNoSec {
		config.SetGlobal(jssec.Nosec, "true")
	}
	if *flagShowIgnored {
		config.SetGlobal(jssec.ShowIgnored, "true")
	}
	if *flagAlternativeNoSec != "" {
		config.SetGlobal(jssec.NoSecAlternative, *flagAlternativeNoSec)
	}
	if *flagEnableAudit {
		config.SetGlobal(jssec.Audit, "true")
	}
	if *flagRulesInclude != "" {
		config.SetGlobal(jssec.IncludeRules, *flagRulesInclude)
	}
	if flagRulesExclude.String() != "" {
		config.SetGlobal(jssec.ExcludeRules, flagRulesExclude.String())
	}
	return config, nil
}

func loadRules(include, exclude string) rules.RuleList {
	var filters []rules.RuleFilter
	if include != "" {
		logger.Printf("Including rules: %s", include)
		including := strings.Split(include, ",")
		filters = append(filters, rules.NewRuleFilter(false, including...))
	} else {
		logger.Println("Including rules: default")
	}

	if exclude != "" {
		logger.Printf("Excluding rules: %s", exclude)
		excluding := strings.Split(exclude, ",")
		filters = append(filters, rules.NewRuleFilter(true, excluding...))
	} else {
		logger.Println("Excluding rules: default")
	}
	return rules.Generate(*flagTrackSuppressions, filters...)
}

// buildPathExclusionFilter merges the path based exclusions from the config
// file with the ones provided on the command line.
func buildPathExclusionFilter(config jssec.Config, cliFlag string) (*jssec.PathExclusionFilter, error) {
	cliRules, err := jssec.ParseCLIExcludeRules(cliFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --exclude-rules flag: %w", err)
	}

	var configRules []jssec.PathExcludeRule
	if raw, err := config.GetGlobal("exclude-rules"); err == nil && raw != "" {
		if err := json.Unmarshal([]byte(raw), &configRules); err != nil {
			return nil, fmt.Errorf("invalid exclude-rules in config file: %w", err)
		}
	}

	return jssec.NewPathExclusionFilter(jssec.MergeExcludeRules(configRules, cliRules))
}

func getRootPaths(paths []string) ([]string, error) {
	rootPaths := make([]string, 0)
	for _, path := range paths {
		rootPath, err := jssec.RootPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get the root path of the projects: %w", err)
		}
		rootPaths = append(rootPaths, rootPath)
	}
	return rootPaths, nil
}

func getPrintedFormat(format string, verbose string) string {
	fileFormat := format
	if verbose != "" {
		fileFormat = verbose
	}
	return fileFormat
}

func printReport(format string, color bool, rootPaths []string, reportInfo *jssec.ReportInfo) error {
	return report.CreateReport(os.Stdout, format, color, rootPaths, reportInfo)
}

func saveReport(filename, format string, rootPaths []string, reportInfo *jssec.ReportInfo) error {
	outfile, err := os.Create(filename) // #nosec
	if err != nil {
		return err
	}
	defer outfile.Close() // #nosec
	return report.CreateReport(outfile, format, false, rootPaths, reportInfo)
}

func convertToScore(value string) (issue.Score, error) {
	value = strings.ToLower(value)
	switch value {
	case "low":
		return issue.Low, nil
	case "medium":
		return issue.Medium, nil
	case "high":
		return issue.High, nil
	default:
		return issue.Low, fmt.Errorf("provided value '%s' not valid. Valid options: low, medium, high", value)
	}
}

func filterIssues(issues []*issue.Issue, severity issue.Score, confidence issue.Score) ([]*issue.Issue, int) {
	result := make([]*issue.Issue, 0)
	trueIssues := 0
	for _, issue := range issues {
		if issue.Severity >= severity && issue.Confidence >= confidence {
			result = append(result, issue)
			if (!issue.NoSec || !*flagShowIgnored) && len(issue.Suppressions) == 0 {
				trueIssues++
			}
		}
	}
	return result, trueIssues
}

func computeExitCode(issues []*issue.Issue, errors map[string][]jssec.Error, noFail bool) int {
	nonSuppressed := 0
	for _, issue := range issues {
		if len(issue.Suppressions) == 0 {
			nonSuppressed++
		}
	}
	if (nonSuppressed > 0 || len(errors) > 0) && !noFail {
		return exitFailure
	}
	return exitSuccess
}

func exit(code int) {
	finishProfiling()
	os.Exit(code)
}

func main() {
	// Makes sure some version information is set
	prepareVersionInfo()

	// Setup usage description
	flag.Usage = usage

	// Setup the excluded folders from scan
	flag.Var(&flagDirsExclude, "exclude-dir", "Exclude folder from scan (can be specified multiple times)")
	err := flag.Set("exclude-dir", "node_modules")
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: failed to exclude the node_modules folder from scan\n")
		os.Exit(exitFailure)
	}

	// set for exclude
	flag.Var(&flagRulesExclude, "exclude", "Comma separated list of rules IDs to exclude. (see rule list)")

	// Parse command line arguments
	flag.Parse()

	if *flagVersion {
		fmt.Printf("Version: %s\nGit tag: %s\nBuild date: %s\n", Version, GitTag, BuildDate)
		os.Exit(exitSuccess)
	}

	// Ensure at least one file was specified or that the recursive -r flag was set.
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "\nError: FILE [FILE...] or './...' expected\n") // #nosec
		flag.Usage()
		os.Exit(exitFailure)
	}

	// Setup logging
	logWriter := os.Stderr
	if *flagLogfile != "" {
		var e error
		logWriter, e = os.Create(*flagLogfile)
		if e != nil {
			flag.Usage()
			log.Fatal(e)
		}
	}

	if *flagQuiet {
		logger = log.New(io.Discard, "", 0)
	} else {
		logger = log.New(logWriter, "[jssec] ", log.LstdFlags)
	}

	initProfiling(logger)

	failSeverity, err := convertToScore(*flagSeverity)
	if err != nil {
		logger.Fatalf("Invalid severity value: %v", err)
	}

	failConfidence, err := convertToScore(*flagConfidence)
	if err != nil {
		logger.Fatalf("Invalid confidence value: %v", err)
	}

	// Load the analyzer configuration
	config, err := loadConfig(*flagConfig)
	if err != nil {
		logger.Fatal(err)
	}

	// Load enabled rule definitions
	ruleList := loadRules(*flagRulesInclude, flagRulesExclude.String())
	if len(ruleList.Rules) == 0 {
		logger.Fatal("No rules are configured")
	}

	excludeFilter, err := buildPathExclusionFilter(config, *flagExcludeRulePaths)
	if err != nil {
		logger.Fatal(err)
	}

	// Create the analyzer
	analyzer := jssec.NewAnalyzer(config, *flagScanTests, *flagExcludeMinified, *flagTrackSuppressions, *flagConcurrency, logger)
	analyzer.LoadRules(ruleList.RulesInfo())

	excludedDirs := jssec.ExcludedDirsRegExp(flagDirsExclude)
	var paths []string
	for _, arg := range flag.Args() {
		expanded, err := jssec.SourcePaths(arg, excludedDirs)
		if err != nil {
			logger.Fatalf("Failed to resolve the scan targets: %v", err)
		}
		paths = append(paths, expanded...)
	}

	if err := analyzer.Process(paths...); err != nil {
		// parse failures are reported through the errors map, keep going
		logger.Print(err)
	}

	// Collect the results
	issues, metrics, errors := analyzer.Report()

	// Sort the issue by severity
	if *flagSortIssues {
		sortIssues(issues)
	}

	// Drop issues excluded by path based rules
	issues, excluded := excludeFilter.FilterIssues(issues)
	if excluded > 0 {
		logger.Printf("Excluded %d issues by path based rules", excluded)
	}

	// Filter the issues by severity and confidence
	issues, trueIssues := filterIssues(issues, failSeverity, failConfidence)
	metrics.NumFound = trueIssues

	// Exit quietly if nothing was found
	if len(issues) == 0 && *flagQuiet {
		exit(exitSuccess)
	}

	rootPaths, err := getRootPaths(flag.Args())
	if err != nil {
		logger.Fatal(err)
	}

	if *flagAIAPIProvider != "" && *flagAIAPIKey != "" {
		if err := autofix.GenerateSolution(*flagAIAPIProvider, *flagAIAPIKey, issues); err != nil {
			logger.Print(err)
		}
	}

	reportInfo := jssec.NewReportInfo(issues, metrics, errors).WithVersion(Version)

	// Create output report
	if *flagOutput == "" || *flagStdOut {
		fileFormat := getPrintedFormat(*flagFormat, *flagVerbose)
		if err := printReport(fileFormat, *flagColor, rootPaths, reportInfo); err != nil {
			logger.Fatal(err)
		}
	}
	if *flagOutput != "" {
		if err := saveReport(*flagOutput, *flagFormat, rootPaths, reportInfo); err != nil {
			logger.Fatal(err)
		}
	}

	// Finalize logging
	logWriter.Close() // #nosec

	exit(computeExitCode(issues, errors, *flagNoFail))
}
