package main

import (
	"bufio"
	_ "embed" // this is required in order for go:embed to work
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"

	"github.com/launchdarkly/go-expectations/data"
	"github.com/launchdarkly/go-expectations/expectations"
	"github.com/launchdarkly/go-expectations/framework/helpers"
	"github.com/launchdarkly/go-expectations/framework/ldtest"
)

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

var headingColor = color.New(color.Bold) //nolint:gochecknoglobals

func main() {
	fmt.Printf("go-expectations v%s\n", strings.TrimSpace(versionString))

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !results.OK() {
		os.Exit(1)
	}
}

func run(params commandParams) (*ldtest.Results, error) {
	if params.skipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return nil, err
		}
	}
	ldtest.PrintFilterDescription(params.filters)

	testLogger := ldtest.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	config := ldtest.TestConfiguration{
		Filter:     params.filters.Match,
		TestLogger: testLogger,
	}

	var caseFiles []data.CaseFile
	for _, dir := range params.caseDirs {
		files, err := data.LoadCaseDir(dir)
		if err != nil {
			return nil, fmt.Errorf("cannot read case files: %w", err)
		}
		caseFiles = append(caseFiles, files...)
	}

	_, _ = headingColor.Printf("Checking %d expectation file(s) and %d case file(s)\n",
		len(params.files), len(caseFiles))

	paths := append([]string(nil), params.files...)
	for _, f := range caseFiles {
		paths = append(paths, f.Path)
	}
	names := scopeNames(paths)

	results := ldtest.Run(config, func(t *ldtest.T) {
		var docs []loadedDocument
		for i, path := range params.files {
			t.Run(names[i], func(t *ldtest.T) {
				if doc := checkExpectationFile(t, path); doc != nil {
					docs = append(docs, loadedDocument{path, doc})
				}
			})
		}
		for i, f := range caseFiles {
			t.Run(names[len(params.files)+i], func(t *ldtest.T) {
				checkCaseFile(t, f, docs)
			})
		}
	})

	fmt.Println()
	ldtest.PrintResults(results)

	if params.recordFailures != "" {
		f, err := os.Create(params.recordFailures)
		if err != nil {
			return nil, fmt.Errorf("cannot create failure file: %v", err)
		}
		for _, test := range results.Failures {
			fmt.Fprintln(f, test.TestID)
		}
		_ = f.Close()
	}

	return &results, nil
}

// scopeNames returns a distinct test name for each path. "/" separates the parts of a test ID, so
// a name is the base name of the file, or as many trailing path elements as it takes to tell
// files with the same base name apart, joined with ":".
func scopeNames(paths []string) []string {
	elements := make([][]string, len(paths))
	byBase := make(map[string][]int)
	for i, path := range paths {
		elements[i] = strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
		base := elements[i][len(elements[i])-1]
		byBase[base] = append(byBase[base], i)
	}
	names := make([]string, len(paths))
	for base, group := range byBase {
		if len(group) == 1 {
			names[group[0]] = base
			continue
		}
		for n := 2; ; n++ {
			seen := make(map[string]bool)
			unique, exhausted := true, true
			for _, i := range group {
				e := elements[i]
				start := len(e) - n
				if start > 0 {
					exhausted = false
				} else {
					start = 0
				}
				names[i] = strings.Trim(strings.Join(e[start:], ":"), ":")
				unique = unique && !seen[names[i]]
				seen[names[i]] = true
			}
			if unique || exhausted {
				break
			}
		}
		// the same file given twice
		counts := make(map[string]int)
		for _, i := range group {
			counts[names[i]]++
			if counts[names[i]] > 1 {
				names[i] = fmt.Sprintf("%s (%d)", names[i], counts[names[i]])
			}
		}
	}
	return names
}

type loadedDocument struct {
	path string
	doc  expectations.Document
}

// checkExpectationFile validates one expectation file and reports each recorded value as a test
// of its own, so that the filters and the debug output work per entry.
func checkExpectationFile(t *ldtest.T, path string) expectations.Document {
	if _, err := os.Stat(path); err != nil {
		t.Errorf("cannot read expectations file: %s", err)
		return nil
	}
	doc, err := expectations.LoadDocument(path)
	if err != nil {
		t.Errorf("%s", err)
		return nil
	}
	t.Debug("%d top keys", len(doc))
	for _, topKey := range doc.TopKeys() {
		group := doc[topKey]
		t.Run(topKey, func(t *ldtest.T) {
			for _, subKey := range group.SubKeys() {
				value := group[subKey]
				t.Run(subKey, func(t *ldtest.T) {
					t.Debug("%s", helpers.CanonicalizedJSONString(value))
				})
			}
		})
	}
	return doc
}

// checkCaseFile reports an error for each case that has no recorded expectation in any of the
// expectation files.
func checkCaseFile(t *ldtest.T, f data.CaseFile, docs []loadedDocument) {
	if f.Key == "" {
		t.SkipWithReason("case file has no key")
	}
	for _, c := range f.Cases {
		t.Run(c.Name, func(t *ldtest.T) {
			if c.Skip {
				t.SkipWithReason("case is marked skip")
			}
			keys := expectations.ResolvedKeys{TopKey: f.Key, SubKey: c.Name}
			for _, d := range docs {
				if value, ok := d.doc.Lookup(keys).Get(); ok {
					t.Debug("recorded in %s: %s", d.path, helpers.CanonicalizedJSONString(value))
					return
				}
			}
			t.Errorf("no expectation is recorded under keys %s", keys)
		})
	}
}

func loadSuppressions(params *commandParams) error {
	file, err := os.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %v", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}
		escaped := regexp.QuoteMeta(line)
		if err := params.filters.MustNotMatch.Set(escaped); err != nil {
			return fmt.Errorf("cannot parse suppression: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %v", err)
	}
	return nil
}
