// Package expectations records expected test output in a JSON file and compares later runs
// against it.
//
// The file holds a two-level document: a top key (usually the function or group under test)
// maps to a group, and a sub key (usually the test case description) maps to the recorded value
// within that group:
//
//	{
//	    "myTopKey": {
//	        "basic expectation": "dummy function",
//	        "catches error": "errors.errorString: error thrown here"
//	    }
//	}
//
// The first assertion against a new key records the value and fails, so that the author notices
// and commits the new expectation. Later assertions compare against the recorded value, and a
// mismatch overwrites it (unless NoOverwriteWhenDifferent is set) while still failing once.
//
// CompareExpectation and CompareOutput return typed errors; AssertExpectation and AssertOutput
// report them to a test. RunCases and RunOrderedCases register one subtest per case with either a
// *testing.T or an *ldtest.T.
package expectations
