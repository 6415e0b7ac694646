// Package configstore loads, validates and persists the session config file
// (<program>_config.json in the setup's config directory).
package configstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/fsutil"
)

// ErrManagementDir is returned, together with the loaded config, when no
// management directory could be resolved. It is a validation failure, not
// a fatal one: the caller decides whether to go on.
var ErrManagementDir = errors.New("management directory not found")

// Default template values.
const (
	DefaultStudy    = "Dummy (IND)"
	DefaultFarmName = "Grassland"
)

// Default returns the config written on first run.
func Default(studyAreaDir string) config.Values {
	c := config.Values{}
	c.SetInt(config.AttrClimScnrIndx, 0)
	c.SetString(config.AttrCSVWthrFn, "")
	c.SetString(config.AttrFarmName, DefaultFarmName)
	c.SetString(config.AttrMgmtDir0, filepath.Join(studyAreaDir, DefaultStudy, DefaultFarmName))
	c.SetInt(config.AttrMnthApplIndx, 4)
	c.SetInt(config.AttrNYrsFwd, 10)
	c.SetInt(config.AttrNYrsSS, 10)
	c.SetInt(config.AttrOWTypeIndx, 4)
	c.SetString(config.AttrOWExMax, "10.0")
	c.SetString(config.AttrOWExMin, "0.1")
	c.SetInt(config.AttrStrtYrFwdIndx, 0)
	c.SetInt(config.AttrStrtYrSSIndx, 0)
	c.SetString(config.AttrStudy, DefaultStudy)
	c.SetBool(config.AttrUseCSV, false)
	c.SetBool(config.AttrUseISDA, false)
	c.SetBool(config.AttrWriteExcel, false)
	return c
}

// Write persists cfg to path: the full structure in one write, sorted keys.
func Write(path string, cfg config.Values) error {
	return config.WriteFile(path, cfg)
}

// Store loads the session config against a set of validated Settings.
type Store struct {
	// WorkDir anchors a relative mgmt_dir0. A management directory equal
	// to it is treated as unset.
	WorkDir  string
	Console  *diag.Console
	RunFiles collab.RunFileChecker
}

// NewStore creates a Store. A nil checker uses the default workbook checker.
func NewStore(workDir string, console *diag.Console, runFiles collab.RunFileChecker) *Store {
	if console == nil {
		console = diag.NewConsole(nil)
	}
	if runFiles == nil {
		runFiles = collab.Workbooks{}
	}
	return &Store{WorkDir: workDir, Console: console, RunFiles: runFiles}
}

// Load reads the config file named by settings[config_file], bootstrapping
// it from the default template when absent or corrupt. settings receives
// write_excel and mgmt_dir.
//
// The returned error is a *diag.FatalError when a mandatory attribute is
// missing or the bootstrap write fails, or wraps ErrManagementDir when the
// config is usable but points nowhere.
func (s *Store) Load(ctx context.Context, settings config.Values, params *collab.Params) (config.Values, error) {
	logger := ctxlog.FromContext(ctx)
	report := diag.NewReport(s.Console)

	configFile := settings.String(config.KeyConfigFile)
	cfg, err := s.read(configFile, settings.String(config.KeyStudyAreaDir), report)
	if err != nil {
		report.Fatal("Could not write configuration file "+configFile, err.Error())
		return nil, diag.AsFatal("config", report.Diags)
	}

	for _, attrib := range config.MandatoryAttributes {
		if cfg.Has(attrib) {
			continue
		}
		// The one attribute that is defaulted rather than required; it
		// postdates most existing config files. Do not add others here.
		if attrib == config.AttrUseExstngSoil {
			cfg.SetBool(config.AttrUseExstngSoil, true)
			continue
		}
		report.Fatal(fmt.Sprintf("attribute %s not present in configuration file: %s", attrib, configFile), "")
		return nil, diag.AsFatal("config", report.Diags)
	}

	mgmtDir, ok := s.resolveMgmtDir(cfg, settings)
	if !ok {
		report.Progress("%s\nManagement path: %s does not exist\n\t- check configuration file %s",
			diag.ErrorPrefix, mgmtDir, configFile)
		logger.Warn("Management directory could not be resolved.", "mgmt_dir0", cfg.String(config.AttrMgmtDir0))
		s.reportSwitches(cfg, settings, params, report)
		return cfg, fmt.Errorf("%w: %s", ErrManagementDir, mgmtDir)
	}
	settings.SetString(config.KeyMgmtDir, mgmtDir)
	logger.Debug("Management directory resolved.", "mgmt_dir", mgmtDir)

	runXLS := filepath.Join(mgmtDir, config.FnameRun)
	if fsutil.IsFile(runXLS) {
		descr, _, err := s.RunFiles.CheckRunFile(ctx, runXLS, mgmtDir)
		if err != nil {
			report.Warn("Run file "+runXLS+" could not be checked", err.Error())
		} else {
			report.Progress("%s", descr)
		}
	} else {
		report.Warn("Run file "+runXLS+" does not exist", "select another management path")
	}

	s.reportSwitches(cfg, settings, params, report)
	return cfg, nil
}

// read returns the config on disk, or the freshly written default. The only
// error it returns is a failed bootstrap write.
func (s *Store) read(configFile, studyAreaDir string, report *diag.Report) (config.Values, error) {
	if fsutil.Exists(configFile) {
		cfg, diags := config.ReadFile(configFile)
		if !diags.HasErrors() {
			report.Progress("Read config file %s", configFile)
			return cfg, nil
		}
		aside := configFile + ".corrupt"
		if err := os.Rename(configFile, aside); err != nil {
			aside = ""
		}
		report.Warn("Configuration file "+configFile+" is unreadable; replacing it with defaults",
			strings.TrimSpace(diags.Error())+movedDetail(aside))
	}

	cfg := Default(studyAreaDir)
	if err := Write(configFile, cfg); err != nil {
		return nil, err
	}
	report.Progress("Wrote default configuration file %s", configFile)
	return cfg, nil
}

func movedDetail(aside string) string {
	if aside == "" {
		return ""
	}
	return " (previous file kept as " + aside + ")"
}

// resolveMgmtDir returns the management directory to use, substituting the
// first farm of the configured study when mgmt_dir0 is stale. A relative
// mgmt_dir0 is taken relative to WorkDir. On failure it returns the path
// that was last tried.
func (s *Store) resolveMgmtDir(cfg, settings config.Values) (string, bool) {
	mgmtDir := cfg.String(config.AttrMgmtDir0)
	if !filepath.IsAbs(mgmtDir) && s.WorkDir != "" {
		mgmtDir = filepath.Join(s.WorkDir, mgmtDir)
	}
	mgmtDir = filepath.Clean(mgmtDir)
	if fsutil.IsDir(mgmtDir) && !s.isWorkDir(mgmtDir) {
		return mgmtDir, true
	}

	studyDir := filepath.Join(settings.String(config.KeyStudyAreaDir), cfg.String(config.AttrStudy))
	resolved, ok := fsutil.ResolveDirectory("", studyDir)
	if !ok {
		return mgmtDir, false
	}
	cfg.SetString(config.AttrMgmtDir0, resolved)
	return resolved, true
}

func (s *Store) isWorkDir(dir string) bool {
	if dir == "." {
		return true
	}
	if s.WorkDir == "" {
		return false
	}
	abs, err := filepath.Abs(dir)
	return err == nil && abs == filepath.Clean(s.WorkDir)
}

func (s *Store) reportSwitches(cfg, settings config.Values, params *collab.Params, report *diag.Report) {
	writeExcel := cfg.Bool(config.AttrWriteExcel)
	settings.SetBool(config.KeyWriteExcel, writeExcel)
	if writeExcel {
		report.Progress("Will write comprehensive Excel output files")
	}

	if params != nil {
		report.Progress("Allowable organic waste types:")
		for _, owType := range params.OWTypes {
			if owType != "Organic waste type" {
				report.Progress("\t%s", owType)
			}
		}
	}
	lo, okLo := cfg.Float(config.AttrOWExMin)
	hi, okHi := cfg.Float(config.AttrOWExMax)
	if okLo && okHi {
		report.Progress("Organic waste application range: %g to %g", lo, hi)
	}

	var b strings.Builder
	b.WriteString("Use switches:")
	for _, sw := range config.UseSwitches {
		fmt.Fprintf(&b, "\n\t%s: %s", sw, cfg.Display(sw))
	}
	report.Progress("%s", b.String())

	report.Progress("Number of years for steady state run: %s (start year index %s)\tforward run: %s (start year index %s)",
		cfg.Display(config.AttrNYrsSS), cfg.Display(config.AttrStrtYrSSIndx),
		cfg.Display(config.AttrNYrsFwd), cfg.Display(config.AttrStrtYrFwdIndx))
}
