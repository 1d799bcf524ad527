package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertNoCalls fails when any request reached the fake API.
func AssertNoCalls(t *testing.T, mt *MockTransport) bool {
	t.Helper()
	calls := mt.Calls()
	paths := make([]string, 0, len(calls))
	for _, c := range calls {
		paths = append(paths, c.Method+" "+c.Path)
	}
	return assert.Empty(t, paths, "expected no upstream calls")
}

// AssertCalledOnce fails unless method and path were hit exactly once, and
// returns that call for further checks.
func AssertCalledOnce(t *testing.T, mt *MockTransport, method, path string) Call {
	t.Helper()
	calls := mt.CallsTo(method, path)
	if !assert.Len(t, calls, 1, "calls to %s %s", method, path) || len(calls) == 0 {
		return Call{}
	}
	return calls[0]
}

// AssertJSONBody compares a recorded request body with the expected JSON,
// ignoring key order and whitespace.
func AssertJSONBody(t *testing.T, expected string, call Call) bool {
	t.Helper()
	return assert.JSONEq(t, expected, string(call.Body), "%s %s body", call.Method, call.Path)
}

// AssertAllUsed fails when a registered route was never hit.
func AssertAllUsed(t *testing.T, mt *MockTransport) bool {
	t.Helper()
	return assert.Empty(t, mt.Unused(), "mock routes never called")
}
