package setup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/require"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/fsutil"
	"github.com/vk/orabatch/internal/testutil"
)

const programID = "pyorator"

func newTestLoader(t *testing.T, in *testutil.Install) (*Loader, *testutil.SafeBuffer) {
	t.Helper()
	out := &testutil.SafeBuffer{}
	testutil.DumpOnFailure(t, out)
	return NewLoader(in.WorkDir, diag.NewConsole(out), collab.Set{}), out
}

func errorSummaries(diags hcl.Diagnostics) string {
	var b strings.Builder
	for _, d := range diags {
		if d.Severity == hcl.DiagError {
			b.WriteString(d.Summary + "\n")
		}
	}
	return b.String()
}

func TestLoad_Success(t *testing.T) {
	t.Parallel()
	in := testutil.NewInstall(t)
	in.AddFarm(t, "Dummy (IND)", "Grassland", true)
	in.AddFarm(t, "Dummy (IND)", "Arable", true)
	in.AddFarm(t, "Another study", "Grassland", true)
	in.WriteSetup(t, programID, in.SetupDoc())
	loader, out := newTestLoader(t, in)

	res, diags := loader.Load(ctxlog.Discard(context.Background()), programID)
	require.False(t, diags.HasErrors(), errorSummaries(diags))
	require.NotNil(t, res)

	s := res.Settings
	require.Equal(t, filepath.Join(in.ExcelDir, "EXCEL.EXE"), s.String(config.KeyExcelPath))
	require.Equal(t, in.EconXLS, s.String(config.KeyEconXLSFn))
	require.True(t, s.IsNull(config.KeyNotepadPath))
	require.True(t, s.IsNull(config.KeyWthrDir))
	require.Equal(t, config.FnameRun, s.String(config.KeyFnameRun))
	require.Equal(t, []string{"Another study", "Dummy (IND)"}, s.Strings(config.KeyStudies))
	require.Equal(t, filepath.Join(in.ConfigDir, "pyorator_config.json"), s.String(config.KeyConfigFile))
	require.True(t, s.Has(config.KeyStudy))
	require.Equal(t, "", s.String(config.KeyStudy))
	require.Equal(t, "", s.String(config.KeyInpDir))
	require.True(t, s.Has(config.KeyFarms))

	require.Equal(t, in.LookupXLS, res.Lookup.Path)

	// Provisioning created the directories.
	require.True(t, fsutil.IsDir(in.LogDir))
	require.True(t, fsutil.IsDir(in.ConfigDir))

	// Two warnings: notepad and weather.
	require.Len(t, diag.Warnings(diags), 2)
	console := out.String()
	require.Contains(t, console, "Read setup file: "+loader.Path(programID))
	require.Contains(t, console, diag.WarnPrefix+"weather datasets path "+in.WthrDir+" does not exist")
	require.Contains(t, console, "Using configuration file: ")
}

func TestLoad_RelativePathsUseWorkDir(t *testing.T) {
	t.Parallel()
	in := testutil.NewInstall(t)
	in.AddFarm(t, "S", "F", true)
	require.NoError(t, os.MkdirAll(in.WthrDir, 0o755))

	doc := in.SetupDoc()
	want := map[string]string{}
	for _, key := range anchoredSettings {
		abs, ok := doc[key].(string)
		require.True(t, ok, key)
		rel, err := filepath.Rel(in.WorkDir, abs)
		require.NoError(t, err)
		doc[key] = rel
		want[key] = abs
	}
	in.WriteSetup(t, programID, doc)
	loader, _ := newTestLoader(t, in)

	res, diags := loader.Load(context.Background(), programID)
	require.False(t, diags.HasErrors(), errorSummaries(diags))
	for key, abs := range want {
		require.Equal(t, abs, res.Settings.String(key), key)
	}
	require.True(t, fsutil.IsDir(in.LogDir))
	require.Equal(t, filepath.Join(in.ConfigDir, "pyorator_config.json"), res.Settings.String(config.KeyConfigFile))
}

func TestLoad_ProvisionIsIdempotent(t *testing.T) {
	t.Parallel()
	in := testutil.NewInstall(t)
	in.AddFarm(t, "S", "F", true)
	require.NoError(t, os.MkdirAll(in.LogDir, 0o755))
	require.NoError(t, os.MkdirAll(in.ConfigDir, 0o755))
	in.WriteSetup(t, programID, in.SetupDoc())
	loader, _ := newTestLoader(t, in)

	_, diags := loader.Load(context.Background(), programID)
	require.False(t, diags.HasErrors(), errorSummaries(diags))
}

func TestLoad_MissingMandatoryKeyIsFatal(t *testing.T) {
	t.Parallel()
	for _, key := range config.MandatorySettings {
		key := key
		t.Run(key, func(t *testing.T) {
			t.Parallel()
			in := testutil.NewInstall(t)
			in.AddFarm(t, "S", "F", true)
			in.WriteSetup(t, programID, in.SetupDoc(key))
			loader, _ := newTestLoader(t, in)

			res, diags := loader.Load(context.Background(), programID)
			require.Nil(t, res)
			require.True(t, diags.HasErrors())
			require.Contains(t, errorSummaries(diags), "setting "+key+" is required")
		})
	}
}

func TestLoad_MissingOrMalformedFile(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		in := testutil.NewInstall(t)
		loader, out := newTestLoader(t, in)
		_, diags := loader.Load(context.Background(), programID)
		require.True(t, diags.HasErrors())
		require.Contains(t, out.String(), diag.ErrorPrefix+"setup file "+loader.Path(programID)+" must exist")
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		in := testutil.NewInstall(t)
		loader, _ := newTestLoader(t, in)
		testutil.WriteFile(t, loader.Path(programID), `{"setup": {"log_dir": }`)
		_, diags := loader.Load(context.Background(), programID)
		require.True(t, diags.HasErrors())
		require.NotNil(t, diags[0].Subject)
	})

	t.Run("no setup object", func(t *testing.T) {
		t.Parallel()
		in := testutil.NewInstall(t)
		loader, _ := newTestLoader(t, in)
		testutil.WriteFile(t, loader.Path(programID), `{"other": {}}`)
		_, diags := loader.Load(context.Background(), programID)
		require.Contains(t, errorSummaries(diags), `must contain a "setup" object`)
	})
}

func TestLoad_FatalDependencies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(t *testing.T, in *testutil.Install, doc map[string]any)
		want   func(in *testutil.Install) string
	}{
		{
			name: "excel directory missing",
			mutate: func(t *testing.T, in *testutil.Install, doc map[string]any) {
				require.NoError(t, os.RemoveAll(in.ExcelDir))
			},
			want: func(*testutil.Install) string { return "Excel directory must exist" },
		},
		{
			name:   "excel executable missing",
			mutate: func(t *testing.T, in *testutil.Install, doc map[string]any) { doc["excel_exe"] = "soffice" },
			want: func(in *testutil.Install) string {
				return "Excel program must exist - expected here: " + filepath.Join(in.ExcelDir, "soffice")
			},
		},
		{
			name: "lookup workbook missing",
			mutate: func(t *testing.T, in *testutil.Install, doc map[string]any) {
				require.NoError(t, os.Remove(in.LookupXLS))
			},
			want: func(in *testutil.Install) string { return "Lookup table " + in.LookupXLS + " must exist" },
		},
		{
			name: "parameters workbook missing",
			mutate: func(t *testing.T, in *testutil.Install, doc map[string]any) {
				require.NoError(t, os.Remove(in.ParamsXLS))
			},
			want: func(in *testutil.Install) string {
				return "crop, OW, N and animal production parameters " + in.ParamsXLS + " must exist"
			},
		},
		{
			name: "economics workbook missing",
			mutate: func(t *testing.T, in *testutil.Install, doc map[string]any) {
				require.NoError(t, os.Remove(in.EconXLS))
			},
			want: func(in *testutil.Install) string { return "Economics file " + in.EconXLS + " must exist" },
		},
		{
			name: "no study areas",
			mutate: func(t *testing.T, in *testutil.Install, doc map[string]any) {
				require.NoError(t, os.Remove(filepath.Join(in.StudyAreaDir, "S", "F", config.FnameRun)))
			},
			want: func(in *testutil.Install) string { return "No valid study areas in: " + in.StudyAreaDir },
		},
		{
			name: "hwsd directory missing",
			mutate: func(t *testing.T, in *testutil.Install, doc map[string]any) {
				require.NoError(t, os.RemoveAll(in.HWSDDir))
			},
			want: func(in *testutil.Install) string { return "HWSD not detected in " + in.HWSDDir },
		},
		{
			name:   "path setting not a string",
			mutate: func(t *testing.T, in *testutil.Install, doc map[string]any) { doc["log_dir"] = nil },
			want:   func(*testutil.Install) string { return "setting log_dir" },
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := testutil.NewInstall(t)
			in.AddFarm(t, "S", "F", true)
			doc := in.SetupDoc()
			tc.mutate(t, in, doc)
			in.WriteSetup(t, programID, doc)
			loader, _ := newTestLoader(t, in)

			res, diags := loader.Load(context.Background(), programID)
			require.Nil(t, res)
			require.True(t, diags.HasErrors())
			require.Contains(t, errorSummaries(diags), tc.want(in))
		})
	}
}

func TestLoad_OptionalDependencies(t *testing.T) {
	t.Parallel()
	in := testutil.NewInstall(t)
	in.AddFarm(t, "S", "F", true)
	require.NoError(t, os.MkdirAll(in.WthrDir, 0o755))
	notepad := filepath.Join(in.Root, "bin", "notepad.exe")
	testutil.WriteFile(t, notepad, "")
	// A corrupt soil database is reported but not fatal.
	require.NoError(t, os.Remove(filepath.Join(in.HWSDDir, "hwsd.hdr")))

	doc := in.SetupDoc()
	doc["notepad_exe"] = notepad
	in.WriteSetup(t, programID, doc)
	loader, _ := newTestLoader(t, in)

	res, diags := loader.Load(context.Background(), programID)
	require.False(t, diags.HasErrors(), errorSummaries(diags))
	require.Equal(t, in.WthrDir, res.Settings.String(config.KeyWthrDir))
	require.Equal(t, notepad, res.Settings.String(config.KeyNotepadPath))

	warnings := diag.Warnings(diags)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Summary, "HWSD integrity check failed")
}

func TestLoad_NullWeatherDirStaysDisabled(t *testing.T) {
	t.Parallel()
	in := testutil.NewInstall(t)
	in.AddFarm(t, "S", "F", true)
	doc := in.SetupDoc()
	doc["wthr_dir"] = nil
	in.WriteSetup(t, programID, doc)
	loader, _ := newTestLoader(t, in)

	res, diags := loader.Load(context.Background(), programID)
	require.False(t, diags.HasErrors(), errorSummaries(diags))
	require.True(t, res.Settings.IsNull(config.KeyWthrDir))
	require.Len(t, diag.Warnings(diags), 1, "only the notepad warning is expected")
}

func TestValidate_HasNoFileSystemSideEffects(t *testing.T) {
	t.Parallel()
	in := testutil.NewInstall(t)
	in.AddFarm(t, "S", "F", true)
	in.WriteSetup(t, programID, in.SetupDoc())
	loader, out := newTestLoader(t, in)

	settings, diags := loader.Read(programID)
	require.False(t, diags.HasErrors(), errorSummaries(diags))

	_, diags = loader.Validate(context.Background(), programID, settings)
	require.False(t, diags.HasErrors(), errorSummaries(diags))

	require.False(t, fsutil.Exists(in.LogDir))
	require.False(t, fsutil.Exists(in.ConfigDir))
	require.Contains(t, out.String(), "Directory "+in.LogDir+" will be created")

	require.Empty(t, Provision(settings, nil))
	require.True(t, fsutil.IsDir(in.LogDir))
	require.True(t, fsutil.IsDir(in.ConfigDir))
}

func TestStudyNames(t *testing.T) {
	t.Parallel()
	root := filepath.Join("/data", "studies")
	got := studyNames(root, []string{
		filepath.Join(root, "Kenya", "farm_b"),
		filepath.Join(root, "Ethiopia", "farm_a"),
		filepath.Join(root, "Kenya", "farm_a"),
		root,
	})
	require.Equal(t, []string{"Ethiopia", "Kenya"}, got)
}
