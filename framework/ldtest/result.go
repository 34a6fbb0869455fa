package ldtest

import (
	"fmt"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Skipped  []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Failed     bool
	SkipReason string
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Find returns the result for the test with the given ID, whether it ran or was skipped.
func (r Results) Find(id TestID) (TestResult, bool) {
	for _, list := range [][]TestResult{r.Tests, r.Skipped} {
		for _, tr := range list {
			if tr.TestID.String() == id.String() {
				return tr, true
			}
		}
	}
	return TestResult{}, false
}

type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
