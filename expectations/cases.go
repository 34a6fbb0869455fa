package expectations

import (
	"sync"

	"github.com/launchdarkly/go-expectations/framework"
	"github.com/launchdarkly/go-expectations/framework/helpers"
)

const (
	runCasesName        = "RunCases"
	runOrderedCasesName = "RunOrderedCases"

	skipReasonSkip = "case is marked skip"
	skipReasonOnly = "another case is marked only"
)

// Case is one set of inputs for the function under test. Name is the sub key its output is
// recorded under, and also the name of the subtest.
type Case struct {
	Name   string        `json:"name"`
	Inputs []interface{} `json:"inputs"`

	// Skip registers the subtest but skips it.
	Skip bool `json:"skip"`

	// Only causes every case that is not also marked Only to be skipped.
	Only bool `json:"only"`
}

// Scope is the subset of a test scope's methods that the case runners need. It is satisfied by
// *testing.T and by *ldtest.T.
type Scope[S any] interface {
	Run(name string, body func(S)) bool
	Errorf(format string, args ...interface{})
	FailNow()
	SkipNow()
	Helper()
}

// CasesOptions configures RunCases and RunOrderedCases.
type CasesOptions struct {
	// TestKey is the top key that all of the cases are recorded under. It defaults to the name of
	// the function under test, and is required if that function is anonymous.
	TestKey string

	// Parallel marks each subtest as parallel, if the scope supports that. RunOrderedCases
	// ignores it.
	Parallel bool

	// Compare holds the options for each comparison.
	Compare []Option
}

// CasesOption is a configuration option for RunCases and RunOrderedCases.
type CasesOption = helpers.ConfigOption[CasesOptions]

func casesOption(fn func(*CasesOptions)) CasesOption {
	return helpers.ConfigOptionFunc[CasesOptions](func(o *CasesOptions) error {
		fn(o)
		return nil
	})
}

// TestKey sets CasesOptions.TestKey.
func TestKey(key string) CasesOption {
	return casesOption(func(o *CasesOptions) { o.TestKey = key })
}

// Parallel sets CasesOptions.Parallel.
func Parallel() CasesOption {
	return casesOption(func(o *CasesOptions) { o.Parallel = true })
}

// CompareWith adds options for each comparison.
func CompareWith(options ...Option) CasesOption {
	return casesOption(func(o *CasesOptions) { o.Compare = append(o.Compare, options...) })
}

// RunCases registers one subtest of t per case. Each subtest calls fn with the case's inputs
// and compares the output against the expectation recorded under the test key and the case
// name, reporting any failure to the subtest.
//
// An error is returned, and no subtests are registered, if cases is empty or if there is no
// test key.
func RunCases[S Scope[S]](t S, fn interface{}, cases []Case, options ...CasesOption) error {
	t.Helper()
	r, err := newCaseRunner(runCasesName, fn, cases, options)
	if err != nil {
		return err
	}
	for _, c := range cases {
		t.Run(c.Name, func(st S) {
			if r.options.Parallel {
				if p, ok := any(st).(interface{ Parallel() }); ok {
					p.Parallel()
				}
			}
			r.runCase(st, c)
		})
	}
	return nil
}

// RunOrderedCases is like RunCases, except that each subtest starts only after the previous one
// has finished, whether it passed or not. Subtests are never run in parallel.
//
// While the cases run, no other RunOrderedCases call in this process can use the same
// expectation file, so a suite whose cases depend on each other's side effects does not
// interleave with another one. A case must not itself call RunOrderedCases for the same file.
func RunOrderedCases[S Scope[S]](t S, fn interface{}, cases []Case, options ...CasesOption) error {
	t.Helper()
	r, err := newCaseRunner(runOrderedCasesName, fn, cases, options)
	if err != nil {
		return err
	}
	lock := fileLock(r.lockKey())
	lock.Lock()
	defer lock.Unlock()
	for _, c := range cases {
		t.Run(c.Name, func(st S) {
			r.runCase(st, c)
		})
	}
	return nil
}

type caseRunner struct {
	fn      interface{}
	testKey string
	anyOnly bool
	options CasesOptions
	compare CompareOptions
}

func newCaseRunner(runnerName string, fn interface{}, cases []Case, options []CasesOption) (*caseRunner, error) {
	if len(cases) == 0 {
		return nil, &NoCasesError{Runner: runnerName}
	}
	var o CasesOptions
	if err := helpers.ApplyOptions(&o, options...); err != nil {
		return nil, err
	}
	testKey := o.TestKey
	if testKey == "" {
		testKey = FunctionName(fn)
	}
	if testKey == "" {
		return nil, &MissingTestKeyError{Runner: runnerName}
	}
	compare, err := buildCompareOptions(o.Compare)
	if err != nil {
		return nil, err
	}
	r := &caseRunner{fn: fn, testKey: testKey, options: o, compare: compare}
	for _, c := range cases {
		r.anyOnly = r.anyOnly || c.Only
	}
	return r, nil
}

func (r *caseRunner) lockKey() string {
	if path, err := r.compare.ResolvedExpectationFile(); err == nil {
		return path
	}
	return r.compare.ExpectationFile
}

func (r *caseRunner) runCase(t interface {
	Errorf(format string, args ...interface{})
	SkipNow()
}, c Case) {
	switch {
	case c.Skip:
		skip(t, skipReasonSkip)
		return
	case r.anyOnly && !c.Only:
		skip(t, skipReasonOnly)
		return
	}
	o := r.compare
	if o.Logger == nil {
		o.Logger = scopeLogger(t)
	}
	keys := Keys{TopKey: Key(r.testKey), SubKey: c.Name}
	if err := compareOutputWithOptions(keys, r.fn, c.Inputs, o); err != nil {
		t.Errorf("%s", err)
	}
}

func skip(t interface{ SkipNow() }, reason string) {
	switch s := t.(type) {
	case interface{ SkipWithReason(string) }:
		s.SkipWithReason(reason)
	case interface{ Skip(...interface{}) }:
		s.Skip(reason)
	default:
		t.SkipNow()
	}
}

func scopeLogger(t interface{}) framework.Logger {
	switch s := t.(type) {
	case interface{ DebugLogger() framework.Logger }:
		return s.DebugLogger()
	case interface {
		Logf(format string, args ...interface{})
	}:
		return framework.LoggerFunc(s.Logf)
	default:
		return framework.NullLogger()
	}
}

var fileLocks sync.Map //nolint:gochecknoglobals

func fileLock(path string) *sync.Mutex {
	lock, _ := fileLocks.LoadOrStore(path, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
