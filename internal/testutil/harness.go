// Package testutil builds throw-away ORATOR installations on disk for tests:
// a working directory holding the setup file, the workbooks the setup refers
// to, a study-area tree and a soil database directory.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing console and log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// DumpOnFailure logs the captured output at the end of a test when it failed
// or when ORATOR_TEST_LOGS=true.
func DumpOnFailure(t *testing.T, out *SafeBuffer) {
	t.Helper()
	t.Cleanup(func() {
		if t.Failed() || os.Getenv("ORATOR_TEST_LOGS") == "true" {
			t.Logf("--- Output for %s ---\n%s", t.Name(), out.String())
		}
	})
}

// Install describes a fixture installation rooted at Root.
type Install struct {
	Root         string
	WorkDir      string
	LogDir       string
	ConfigDir    string
	StudyAreaDir string
	HWSDDir      string
	ExcelDir     string
	WthrDir      string
	LookupXLS    string
	ParamsXLS    string
	EconXLS      string
	FnamePNG     string
}

// NewInstall lays out a complete, valid installation except for the log
// and config directories, which setup is expected to provision, and the
// weather directory, which is absent. No study areas are created.
func NewInstall(t *testing.T) *Install {
	t.Helper()
	root := t.TempDir()

	in := &Install{
		Root:         root,
		WorkDir:      filepath.Join(root, "work"),
		LogDir:       filepath.Join(root, "logs"),
		ConfigDir:    filepath.Join(root, "config"),
		StudyAreaDir: filepath.Join(root, "studies"),
		HWSDDir:      filepath.Join(root, "hwsd"),
		ExcelDir:     filepath.Join(root, "office"),
		WthrDir:      filepath.Join(root, "weather"),
		LookupXLS:    filepath.Join(root, "data", "lookup.xlsx"),
		ParamsXLS:    filepath.Join(root, "data", "params.xlsx"),
		EconXLS:      filepath.Join(root, "run", "templates", "PurchasesSalesLabour.xlsx"),
		FnamePNG:     filepath.Join(root, "images", "orator_logo.png"),
	}

	for _, d := range []string{in.WorkDir, in.StudyAreaDir, in.HWSDDir, in.ExcelDir} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	WriteFile(t, filepath.Join(in.ExcelDir, "EXCEL.EXE"), "")
	WriteFile(t, filepath.Join(in.HWSDDir, "hwsd.bil"), "")
	WriteFile(t, filepath.Join(in.HWSDDir, "hwsd.hdr"), "")
	WriteFile(t, in.FnamePNG, "")
	WriteWorkbook(t, in.LookupXLS, "sheet1")
	WriteWorkbook(t, in.ParamsXLS, "sheet1", "sheet2")
	WriteWorkbook(t, in.EconXLS, "sheet1")
	return in
}

// SetupDoc returns the "setup" object of a valid setup file. Keys in omit
// are left out.
func (in *Install) SetupDoc(omit ...string) map[string]any {
	doc := map[string]any{
		"config_dir":     in.ConfigDir,
		"fname_png":      in.FnamePNG,
		"log_dir":        in.LogDir,
		"fname_lookup":   in.LookupXLS,
		"study_area_dir": in.StudyAreaDir,
		"hwsd_dir":       in.HWSDDir,
		"nsubareas":      1,
		"irrig_dflt":     false,
		"nrota_yrs_dflt": 3,
		"areas_dflt":     []any{1.0},
		"excel_dir":      in.ExcelDir,
		"wthr_dir":       in.WthrDir,
		"params_xls":     in.ParamsXLS,
		"notepad_exe":    filepath.Join(in.Root, "no-notepad.exe"),
	}
	for _, k := range omit {
		delete(doc, k)
	}
	return doc
}

// WriteSetup writes <programID>_setup_batch.json into the working directory
// and returns its path.
func (in *Install) WriteSetup(t *testing.T, programID string, doc map[string]any) string {
	t.Helper()
	buf, err := json.MarshalIndent(map[string]any{"setup": doc}, "", "  ")
	require.NoError(t, err)
	p := filepath.Join(in.WorkDir, programID+"_setup_batch.json")
	WriteFile(t, p, string(buf))
	return p
}

// AddFarm creates studies/<study>/<farm>, optionally holding the run file,
// and returns the farm directory.
func (in *Install) AddFarm(t *testing.T, study, farm string, withRunFile bool) string {
	t.Helper()
	dir := filepath.Join(in.StudyAreaDir, study, farm)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if withRunFile {
		WriteWorkbook(t, filepath.Join(dir, "FarmWthrMgmt.xlsx"), "sheet1")
	}
	return dir
}

// WriteFile creates path and its parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// WriteWorkbook writes a minimal xlsx container with the given worksheet parts.
func WriteWorkbook(t *testing.T, path string, sheets ...string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []string{"[Content_Types].xml", "xl/workbook.xml"}
	for _, s := range sheets {
		parts = append(parts, "xl/worksheets/"+s+".xml")
	}
	for _, name := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("<x/>"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}
