package expectations

import (
	"github.com/launchdarkly/go-expectations/framework/helpers"
	"github.com/launchdarkly/go-expectations/framework/jsonfile"
)

// CompareExpectation checks result against the value recorded under keys.
//
// If nothing is recorded yet, the normalized result is written to the file and a
// MissingExpectationFileError or MissingExpectationKeyError is returned, so the first run of a
// new expectation always fails. If the recorded value differs, the result is written over it
// (unless NoOverwriteWhenDifferent is set) and an ExpectationMismatchError is returned. The file
// is written at most once per call, and before the error is returned, so that running the test
// again succeeds.
//
// Nothing is written when the options, the file content, the keys, or the result are invalid.
func CompareExpectation(keys Keys, result interface{}, options ...Option) error {
	o, err := buildCompareOptions(options)
	if err != nil {
		return err
	}
	return compareWithOptions(keys, result, o)
}

func compareWithOptions(keys Keys, result interface{}, o CompareOptions) error {
	path, err := o.ResolvedExpectationFile()
	if err != nil {
		return err
	}
	doc, err := LoadDocument(path)
	if err != nil {
		return err
	}
	resolved, err := keys.Resolve()
	if err != nil {
		return err
	}
	normalized, err := Normalize(result)
	if err != nil {
		return err
	}

	stored := doc.Lookup(resolved)
	var mismatch *ExpectationMismatchError
	if expected, ok := stored.Get(); ok && !expected.Equal(normalized) {
		mismatch = newMismatchError(resolved, expected, normalized, o.showFullError())
	}

	fileExisted := jsonfile.Exists(path)
	if !stored.IsDefined() || (mismatch != nil && !o.NoOverwriteWhenDifferent) {
		if err := doc.Upsert(resolved, normalized).Merge(path); err != nil {
			return err
		}
		o.logger().Printf("recorded %s in %s", resolved, path)
	}

	runAgain := !o.NoOverwriteWhenDifferent
	switch {
	case !fileExisted:
		return &MissingExpectationFileError{Path: path, RunAgain: runAgain}
	case !stored.IsDefined():
		return &MissingExpectationKeyError{Keys: resolved, RunAgain: runAgain}
	case mismatch != nil:
		return mismatch
	}
	return nil
}

// AssertExpectation is CompareExpectation for use in a test: any error is reported with
// t.Errorf, and the return value is true if there was none.
func AssertExpectation(t helpers.TestContext, keys Keys, result interface{}, options ...Option) bool {
	helpers.MarkHelper(t)
	if err := CompareExpectation(keys, result, options...); err != nil {
		t.Errorf("%s", err)
		return false
	}
	return true
}
