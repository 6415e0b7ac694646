package app

import (
	"testing"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/handlers"
	"github.com/vk/orabatch/internal/testutil"
)

// SetupAppTest creates a new app instance rooted at a fixture installation.
// The console and log output are captured in the returned buffer and dumped
// when the test fails.
func SetupAppTest(t *testing.T, in *testutil.Install, set collab.Set, modules ...handlers.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	out := &testutil.SafeBuffer{}
	testutil.DumpOnFailure(t, out)
	cfg, err := NewConfig(Config{WorkDir: in.WorkDir, LogLevel: "debug", LogFormat: "text"})
	if err != nil {
		t.Fatal(err)
	}
	testApp := NewApp(out, cfg, set, modules...)
	t.Cleanup(func() { testApp.Close() })

	return testApp, out
}
