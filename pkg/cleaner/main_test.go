package cleaner

import (
	"testing"

	"go.uber.org/goleak"
)

// The profiler fans out over an errgroup; every goroutine must be gone when
// the tests finish
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
