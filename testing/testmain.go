// Package testing provides utilities for driver tests that run on the host
// simulation as well as on the target.
package testing

import (
	"os"
	"testing"
)

// TestMain should be used as TestMain for driver tests. On the target the
// results are printed verbosely to the serial console, where `picobit uf2
// -run` watches for the final PASS or FAIL line.
func TestMain(m *testing.M) {
	if onTarget {
		os.Args = append(os.Args, "-test.v")
		println("running tests on target")
	}
	os.Exit(m.Run())
}
