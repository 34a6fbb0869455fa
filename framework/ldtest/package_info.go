// Package ldtest contains a test runner framework that is similar to Go's testing package,
// but is run as regular Go application code rather than Go tests. It also adds richer
// capabilities for configuration, logging, and result reporting.
//
// Its T type can be passed to the case runners in the expectations package in place of a
// *testing.T, which is how expectation suites are run outside of "go test".
package ldtest
