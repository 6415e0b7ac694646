// Package subgui loads the setup and remembered state of the batch-job
// submission form. The setup file lives in the working directory and is
// created with defaults when absent; the form config only remembers the
// last run file.
package subgui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/fsutil"
	"github.com/vk/orabatch/internal/launcher"
)

const (
	SetupFileName  = "pyorator_sub_gui_setup.json"
	ConfigFileName = "pyorator_sub_gui_config.json"
)

// Setup attributes.
const (
	AttrConfigDir  = "config_dir"
	AttrFnamePNG   = "fname_png"
	AttrStudiesDir = "studies_dir"
	AttrPythonExe  = "python_exe"
	AttrSubProg    = "sub_prog"
)

// MandatoryAttributes must all be present in the setup file. The default
// setup omits python_exe and sub_prog, so a first run stops and names them.
var MandatoryAttributes = []string{AttrConfigDir, AttrFnamePNG, AttrStudiesDir, AttrPythonExe, AttrSubProg}

// Settings is the validated form setup.
type Settings struct {
	ConfigDir  string
	FnamePNG   string
	StudiesDir string
	PythonExe  string
	SubProg    string
	ConfigFile string
}

// Job returns the batch job for runFn, run in the file's directory.
func (s *Settings) Job(runFn string, out io.Writer) launcher.Job {
	return launcher.Job{
		PythonExe: s.PythonExe,
		SubProg:   s.SubProg,
		RunDir:    filepath.Dir(filepath.Clean(runFn)),
		Output:    out,
	}
}

// DefaultSetup is written when the setup file is absent.
func DefaultSetup(workDir string) config.Values {
	s := config.Values{}
	s.SetString(AttrStudiesDir, workDir)
	s.SetString(AttrFnamePNG, filepath.Join(workDir, "images", "orator_logo_small.png"))
	s.SetString(AttrConfigDir, filepath.Join(workDir, "config"))
	return s
}

// LoadSetup reads <workDir>/pyorator_sub_gui_setup.json, writing the default
// first when it does not exist, and creates the config directory.
func LoadSetup(ctx context.Context, workDir string, console *diag.Console) (*Settings, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	report := diag.NewReport(console)
	setupFile := filepath.Join(workDir, SetupFileName)

	var doc config.Values
	if fsutil.Exists(setupFile) {
		var diags hcl.Diagnostics
		doc, diags = config.ReadFile(setupFile)
		if diags.HasErrors() {
			report.Extend(diags)
			return nil, report.Diags
		}
	} else {
		doc = config.Values{}
		doc.Set("setup", DefaultSetup(workDir).Object())
		if err := config.WriteFile(setupFile, doc); err != nil {
			report.Fatal("Could not write setup file "+setupFile, err.Error())
			return nil, report.Diags
		}
		report.Progress("Created setup file %s", setupFile)
	}

	raw, ok := doc["setup"]
	if !ok || raw.IsNull() || !(raw.Type().IsObjectType() || raw.Type().IsMapType()) {
		report.Fatal(fmt.Sprintf("setup file %s must contain a \"setup\" object", setupFile), "")
		return nil, report.Diags
	}
	values := config.FromObject(raw)
	for _, attrib := range MandatoryAttributes {
		if !values.Has(attrib) {
			report.Fatal(fmt.Sprintf("attribute %s is required in setup file %s", attrib, setupFile), "")
			return nil, report.Diags
		}
	}

	s := &Settings{
		ConfigDir:  values.String(AttrConfigDir),
		FnamePNG:   values.String(AttrFnamePNG),
		StudiesDir: values.String(AttrStudiesDir),
		PythonExe:  values.String(AttrPythonExe),
		SubProg:    values.String(AttrSubProg),
	}

	mess := "Reading setup file " + setupFile
	if !fsutil.IsDir(s.StudiesDir) {
		report.Warn(mess, "studies dir: "+s.StudiesDir+" is not a directory")
	}
	if !fsutil.IsFile(s.FnamePNG) {
		report.Warn(mess, "could not find image file "+s.FnamePNG)
	}
	if !fsutil.IsDir(s.ConfigDir) {
		if err := os.MkdirAll(s.ConfigDir, 0o755); err != nil {
			report.Fatal("Could not create configuration directory "+s.ConfigDir, err.Error())
			return nil, report.Diags
		}
	}

	s.ConfigFile = filepath.Join(s.ConfigDir, ConfigFileName)
	logger.Debug("Form setup loaded.", "config_file", s.ConfigFile, "python_exe", s.PythonExe)
	return s, report.Diags
}

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: true}

// LoadConfig returns the run file remembered in path, writing the default
// form config first when path does not exist. A missing run_fn gives "".
func LoadConfig(path string) (string, error) {
	if !fsutil.Exists(path) {
		if err := writeDefaultConfig(path); err != nil {
			return "", err
		}
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read form config: %w", err)
	}
	if !gjson.ValidBytes(b) {
		return "", fmt.Errorf("form config %s is not valid JSON", path)
	}
	return gjson.GetBytes(b, "run_fn").String(), nil
}

func writeDefaultConfig(path string) error {
	b := []byte(`{}`)
	var err error
	for _, key := range []string{"fnames.inp_fname", "fnames.out_dir"} {
		if b, err = sjson.SetBytes(b, key, ""); err != nil {
			return fmt.Errorf("build default form config: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, pretty.PrettyOptions(b, prettyOptions), 0o644)
}

// WriteConfig replaces the form config with {"run_fn": runFn}, runFn
// cleaned. An empty runFn is stored as "".
func WriteConfig(path, runFn string) error {
	if runFn != "" {
		runFn = filepath.Clean(runFn)
	}
	b, err := sjson.SetBytes([]byte(`{}`), "run_fn", runFn)
	if err != nil {
		return fmt.Errorf("build form config: %w", err)
	}
	return os.WriteFile(path, pretty.PrettyOptions(b, prettyOptions), 0o644)
}
