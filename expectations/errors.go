package expectations

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/go-expectations/framework/helpers"
	"github.com/launchdarkly/go-expectations/framework/opt"
)

// ErrorCode is a stable identifier for each kind of failure reported by this package.
type ErrorCode string

const (
	InvalidConfig          ErrorCode = "INVALID_CONFIG"
	InvalidKey             ErrorCode = "INVALID_KEY"
	MalformedStore         ErrorCode = "MALFORMED_STORE"
	MissingExpectationFile ErrorCode = "MISSING_EXPECTATION_FILE"
	MissingExpectationKey  ErrorCode = "MISSING_EXPECTATION_KEY"
	ExpectationMismatch    ErrorCode = "EXPECTATION_MISMATCH"
	UnserializableResult   ErrorCode = "UNSERIALIZABLE_RESULT"
	NoCases                ErrorCode = "NO_CASES"
	MissingTestKey         ErrorCode = "MISSING_TEST_KEY"
)

const runAgainMessage = "\nCreating it now. Run test again to compare saved output."

// CodedError is implemented by every error type in this package.
type CodedError interface {
	error
	Code() ErrorCode
}

// InvalidConfigError means the options for an assertion cannot be used, such as an expectation
// file path that does not end in ".json", or a function under test that cannot be called with
// the given inputs.
type InvalidConfigError struct {
	Path   string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("expectations file path needs to end in .json but got %q", e.Path)
}

func (e *InvalidConfigError) Code() ErrorCode { return InvalidConfig }

// InvalidKeyError means a key could not be resolved to a non-empty string. Part is "topKey" or
// "subKey".
type InvalidKeyError struct {
	Part   string
	Reason string
}

func (e *InvalidKeyError) Error() string { return e.Reason }

func (e *InvalidKeyError) Code() ErrorCode { return InvalidKey }

// MalformedStoreError means the expectation file does not have the shape of a document: either
// its root is not an object, or the group under TopKey is not an object.
type MalformedStoreError struct {
	Path   string
	TopKey opt.Maybe[string]
}

func (e *MalformedStoreError) Error() string {
	if topKey, ok := e.TopKey.Get(); ok {
		return fmt.Sprintf("expectation group at top key '%s' in expectations file '%s' is not an object",
			topKey, e.Path)
	}
	return fmt.Sprintf("expectations file '%s' did not contain an object. It should contain an object.", e.Path)
}

func (e *MalformedStoreError) Code() ErrorCode { return MalformedStore }

// MissingExpectationFileError means the expectation file did not exist before the assertion. The
// current result has been recorded as its first value.
type MissingExpectationFileError struct {
	Path     string
	RunAgain bool
}

func (e *MissingExpectationFileError) Error() string {
	msg := fmt.Sprintf("expectations file '%s' does not yet exist.", e.Path)
	if e.RunAgain {
		msg += runAgainMessage
	}
	return msg
}

func (e *MissingExpectationFileError) Code() ErrorCode { return MissingExpectationFile }

// MissingExpectationKeyError means the file existed but nothing was recorded under Keys. The
// current result has been recorded.
type MissingExpectationKeyError struct {
	Keys     ResolvedKeys
	RunAgain bool
}

func (e *MissingExpectationKeyError) Error() string {
	msg := fmt.Sprintf("no expectation exists under keys %s.", e.Keys)
	if e.RunAgain {
		msg += runAgainMessage
	}
	return msg
}

func (e *MissingExpectationKeyError) Code() ErrorCode { return MissingExpectationKey }

// UnserializableResultError means the result could not be normalized to JSON, for instance
// because it contains NaN, an infinity, a channel, or a function.
type UnserializableResultError struct {
	Err error
}

func (e *UnserializableResultError) Error() string {
	return fmt.Sprintf("result cannot be stored as JSON: %s", e.Err)
}

func (e *UnserializableResultError) Unwrap() error { return e.Err }

func (e *UnserializableResultError) Code() ErrorCode { return UnserializableResult }

// NoCasesError is returned by the case runners when the case list is empty.
type NoCasesError struct {
	Runner string
}

func (e *NoCasesError) Error() string {
	return fmt.Sprintf("no test cases were provided to '%s'", e.Runner)
}

func (e *NoCasesError) Code() ErrorCode { return NoCases }

// MissingTestKeyError is returned by the case runners when the function under test is anonymous
// and no TestKey was given.
type MissingTestKeyError struct {
	Runner string
}

func (e *MissingTestKeyError) Error() string {
	return fmt.Sprintf("function passed to '%s' is an anonymous function with no name but no test key was provided;"+
		" pass TestKey(...) or use a named function", e.Runner)
}

func (e *MissingTestKeyError) Code() ErrorCode { return MissingTestKey }

// ExpectationMismatchError means a recorded value differs from the freshly computed one. When
// Full is false, Error() only names the keys, which keeps test output short for large values;
// Diff is available either way.
type ExpectationMismatchError struct {
	Keys     ResolvedKeys
	Expected ldvalue.Value
	Actual   ldvalue.Value
	Diff     string
	Full     bool
}

func newMismatchError(keys ResolvedKeys, expected, actual ldvalue.Value, full bool) *ExpectationMismatchError {
	return &ExpectationMismatchError{
		Keys:     keys,
		Expected: expected,
		Actual:   actual,
		Diff:     cmp.Diff(expected.AsArbitraryValue(), actual.AsArbitraryValue()),
		Full:     full,
	}
}

func (e *ExpectationMismatchError) Error() string {
	if !e.Full {
		return fmt.Sprintf("expectation for key %s failed.", e.Keys)
	}
	return fmt.Sprintf("expectation for key %s failed: expected %s to deeply equal %s\ndiff (-expected +actual):\n%s",
		e.Keys,
		helpers.CanonicalizedJSONString(e.Actual),
		helpers.CanonicalizedJSONString(e.Expected),
		e.Diff,
	)
}

func (e *ExpectationMismatchError) Code() ErrorCode { return ExpectationMismatch }
