// Package framework contains the low-level infrastructure shared by the expectation store and
// its test runners. The base package contains shared types such as Logger; other components are
// in the subpackages helpers, jsonfile, ldtest, and opt.
//
// The general model is:
//
// 1. Expected values are recorded in a JSON file on disk, grouped under a top key and a sub key.
//
// 2. A test asserts a freshly computed value against the recorded one; the first run of a new
// key records it, later runs compare against it.
//
// 3. There is a general notion of a test scope which is similar to Go's testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate success/failure
// results. The domain-specific code in the expectations package works with either that scope or
// testing.T itself.
package framework
