// internal/testutil/helpers.go
package testutil

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func label(msg []string, fallback string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return fallback
}

// AssertEqual verifies that two values are equal.
func AssertEqual(t *testing.T, got, want interface{}, msg ...string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", label(msg, "values differ"), got, want)
	}
}

// AssertNotEqual verifies that two values differ.
func AssertNotEqual(t *testing.T, got, want interface{}, msg ...string) {
	t.Helper()
	if got == want {
		t.Errorf("%s: got %v, should not equal %v", label(msg, "values equal"), got, want)
	}
}

// AssertNil verifies that a value is nil, including typed nils such as a
// nil pointer stored in an interface.
func AssertNil(t *testing.T, got interface{}, msg ...string) {
	t.Helper()
	if got == nil {
		return
	}
	v := reflect.ValueOf(got)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		if v.IsNil() {
			return
		}
	}
	t.Errorf("%s: expected nil, got %v", label(msg, "value"), got)
}

// AssertNotNil verifies that a value is not nil.
func AssertNotNil(t *testing.T, got interface{}, msg ...string) {
	t.Helper()
	if got == nil {
		t.Errorf("%s: expected non-nil value", label(msg, "value"))
	}
}

// AssertError verifies that an error is not nil.
func AssertError(t *testing.T, err error, msg ...string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error, got nil", label(msg, "error"))
	}
}

// AssertNoError verifies that no error occurred.
func AssertNoError(t *testing.T, err error, msg ...string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", label(msg, "error"), err)
	}
}

// AssertTrue verifies that a condition holds.
func AssertTrue(t *testing.T, condition bool, msg ...string) {
	t.Helper()
	if !condition {
		t.Errorf("%s: expected true, got false", label(msg, "condition"))
	}
}

// AssertFalse verifies that a condition does not hold.
func AssertFalse(t *testing.T, condition bool, msg ...string) {
	t.Helper()
	if condition {
		t.Errorf("%s: expected false, got true", label(msg, "condition"))
	}
}

// AssertContains verifies that a slice contains an element OR that a string
// contains a substring.
func AssertContains(t *testing.T, container interface{}, element string, msg ...string) {
	t.Helper()

	name := label(msg, "container")
	switch v := container.(type) {
	case []string:
		for _, item := range v {
			if item == element {
				return
			}
		}
		t.Errorf("%s: slice %v does not contain %s", name, v, element)
	case string:
		if !strings.Contains(v, element) {
			t.Errorf("%s: string %q does not contain %q", name, v, element)
		}
	default:
		t.Errorf("%s: unsupported type for AssertContains", name)
	}
}

// Sleep is a helper for tests that need delays (use sparingly).
func Sleep(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
