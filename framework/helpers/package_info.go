// Package helpers contains general-purpose test and JSON utilities that do not depend on the
// expectation store itself.
package helpers
