package setup

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/fsutil"
)

// Platform defaults, overridable with the excel_exe and notepad_exe settings.
const (
	DefaultExcelExe    = "EXCEL.EXE"
	ExcelDirHint       = `C:\Program Files\Microsoft Office\root\Office16`
	DefaultNotepadPath = `C:\Windows\System32\notepad.exe`
)

// Validate checks the external dependencies named by settings and adds the
// derived keys. It reads the file system but never writes to it.
func (l *Loader) Validate(ctx context.Context, programID string, settings config.Values) (*collab.Lookup, hcl.Diagnostics) {
	report := diag.NewReport(l.Console)
	lookup := l.validate(ctx, programID, settings, report)
	return lookup, report.Diags
}

func (l *Loader) validate(ctx context.Context, programID string, settings config.Values, report *diag.Report) *collab.Lookup {
	// TODO: accept LibreOffice as the spreadsheet engine once the model supports it.
	excelDir := settings.String(config.KeyExcelDir)
	if !fsutil.IsDir(excelDir) {
		report.Fatal("Excel directory must exist - usually here: "+ExcelDirHint, "configured: "+excelDir)
		return nil
	}
	exe := settings.String(config.KeyExcelExe)
	if exe == "" {
		exe = DefaultExcelExe
	}
	excelPath := filepath.Join(excelDir, exe)
	if !fsutil.IsFile(excelPath) {
		report.Fatal("Excel program must exist - expected here: "+excelPath, "")
		return nil
	}
	settings.SetString(config.KeyExcelPath, excelPath)

	lookup, err := l.Collab.Lookup.ReadLookup(ctx, settings)
	if err != nil {
		report.Fatal("Lookup table "+filepath.Clean(settings.String(config.KeyFnameLookup))+" must exist", err.Error())
		return nil
	}
	report.Progress("Lookup table: %s", lookup.Path)

	paramsXLS := filepath.Clean(settings.String(config.KeyParamsXLS))
	const fileDesc = "crop, OW, N and animal production parameters "
	report.Progress("Reading %sfile", fileDesc)
	if err := l.Collab.Params.CheckParams(ctx, paramsXLS); err != nil {
		report.Fatal(fileDesc+paramsXLS+" must exist", err.Error())
		return nil
	}

	tmpltDir := filepath.Join(filepath.Dir(filepath.Clean(settings.String(config.KeyLogDir))), "run", "templates")
	econXLS := filepath.Join(tmpltDir, config.FnameEcon)
	if !fsutil.IsFile(econXLS) {
		report.Fatal("Economics file "+econXLS+" must exist", "")
		return nil
	}
	report.Progress("Economics file: %s", econXLS)
	settings.SetString(config.KeyEconXLSFn, econXLS)

	notepad := settings.String(config.KeyNotepadExe)
	if notepad == "" {
		notepad = DefaultNotepadPath
	}
	if fsutil.IsFile(notepad) {
		settings.SetString(config.KeyNotepadPath, notepad)
	} else {
		report.Warn("Could not find notepad exe file - usually here: "+DefaultNotepadPath, "checked: "+notepad)
		settings.SetNull(config.KeyNotepadPath)
	}

	for _, key := range []string{config.KeyLogDir, config.KeyConfigDir} {
		if dir := settings.String(key); !fsutil.Exists(dir) {
			report.Progress("Directory %s will be created", dir)
		}
	}

	if settings.IsNull(config.KeyWthrDir) {
		settings.SetNull(config.KeyWthrDir)
	} else {
		wthrDir := settings.String(config.KeyWthrDir)
		if fsutil.Exists(wthrDir) {
			report.Progress("Weather datasets path: %s", wthrDir)
		} else {
			report.Warn("weather datasets path "+wthrDir+" does not exist", "weather datasets disabled")
			settings.SetNull(config.KeyWthrDir)
		}
	}

	settings.SetString(config.KeyFnameRun, config.FnameRun)
	studyAreaDir := settings.String(config.KeyStudyAreaDir)
	studyAreas, err := fsutil.FindStudyAreas(studyAreaDir, config.FnameRun)
	if err != nil || len(studyAreas) == 0 {
		detail := ""
		if err != nil {
			detail = err.Error()
		}
		report.Fatal("No valid study areas in: "+studyAreaDir, detail)
		return nil
	}
	settings.SetStrings(config.KeyStudies, studyNames(studyAreaDir, studyAreas))
	settings.Set(config.KeyFarms, cty.EmptyObjectVal)

	configFile := ConfigFile(settings, programID)
	settings.SetString(config.KeyConfigFile, configFile)
	report.Progress("Using configuration file: %s", configFile)

	hwsdDir := settings.String(config.KeyHWSDDir)
	if !fsutil.IsDir(hwsdDir) {
		report.Fatal("HWSD not detected in "+hwsdDir, "")
		return nil
	}
	// The integrity check is advisory; only a missing database is fatal.
	if err := l.Collab.HWSD.CheckHWSD(ctx, hwsdDir); err != nil {
		report.Warn("HWSD integrity check failed for "+hwsdDir, err.Error())
	}

	// Filled in once a run file has been selected.
	settings.SetString(config.KeyInpDir, "")
	settings.SetString(config.KeyStudy, "")

	return lookup
}

// studyNames returns the distinct studies, in lexical order, that hold the
// given farm directories. A study is the first path element below root.
func studyNames(root string, farmDirs []string) []string {
	studies := make([]string, 0, len(farmDirs))
	for _, dir := range farmDirs {
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == "." {
			continue
		}
		study, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
		studies = append(studies, study)
	}
	slices.Sort(studies)
	return slices.Compact(studies)
}
