package diag

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReport_EchoesWithSeverityPrefix(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewReport(NewConsole(out))

	r.Progress("Reading %s", "setup")
	r.Warn("notepad not found", "C:/x.exe")
	require.False(t, r.HasErrors())

	r.Fatal("setting log_dir is required", "")
	require.True(t, r.HasErrors())

	require.Equal(t,
		"Reading setup\n"+
			WarnPrefix+"notepad not found: C:/x.exe\n"+
			ErrorPrefix+"setting log_dir is required\n",
		out.String())
	require.Len(t, Warnings(r.Diags), 1)
}

func TestAsFatal(t *testing.T) {
	r := NewReport(nil)
	r.Warn("only a warning", "")
	require.NoError(t, AsFatal("setup", r.Diags))

	r.Fatal("broken", "detail")
	err := AsFatal("setup", r.Diags)
	require.Error(t, err)

	var fatal *FatalError
	require.True(t, errors.As(err, &fatal))
	require.Equal(t, "setup", fatal.Stage)
	require.Contains(t, err.Error(), "broken")
}
