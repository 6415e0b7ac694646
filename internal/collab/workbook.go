package collab

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/fsutil"
)

// ErrNotWorkbook is returned for files that are not xlsx containers.
var ErrNotWorkbook = errors.New("not an xlsx workbook")

// Workbooks is the default workbook collaborator. It checks existence and
// the xlsx container layout, and lists worksheet parts.
type Workbooks struct{}

// OpenWorkbook validates path as an xlsx container and returns the names of
// its worksheet parts, sorted.
func OpenWorkbook(p string) ([]string, error) {
	if !fsutil.IsFile(p) {
		return nil, fmt.Errorf("workbook %s does not exist", p)
	}
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", p, ErrNotWorkbook, err)
	}
	defer zr.Close()

	var sheets []string
	hasWorkbook := false
	for _, f := range zr.File {
		switch {
		case f.Name == "xl/workbook.xml":
			hasWorkbook = true
		case strings.HasPrefix(f.Name, "xl/worksheets/") && strings.HasSuffix(f.Name, ".xml"):
			sheets = append(sheets, strings.TrimSuffix(path.Base(f.Name), ".xml"))
		}
	}
	if !hasWorkbook {
		return nil, fmt.Errorf("%s: %w: missing xl/workbook.xml", p, ErrNotWorkbook)
	}
	sort.Strings(sheets)
	return sheets, nil
}

func (Workbooks) ReadLookup(ctx context.Context, settings config.Values) (*Lookup, error) {
	p := filepath.Clean(settings.String(config.KeyFnameLookup))
	ctxlog.FromContext(ctx).Debug("Reading lookup workbook.", "path", p)
	sheets, err := OpenWorkbook(p)
	if err != nil {
		return nil, err
	}
	return &Lookup{Path: p, Sheets: sheets}, nil
}

func (Workbooks) CheckParams(ctx context.Context, p string) error {
	_, err := OpenWorkbook(p)
	return err
}

func (Workbooks) ReadParams(ctx context.Context, p string) (*Params, error) {
	sheets, err := OpenWorkbook(p)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Parameter workbook validated.", "path", p, "sheets", len(sheets))
	return &Params{Path: p, Sheets: sheets}, nil
}

func (Workbooks) ReadAnimalProduction(ctx context.Context, p string, cropVars []string) (*AnimalProduction, error) {
	if _, err := OpenWorkbook(p); err != nil {
		return nil, err
	}
	return &AnimalProduction{Path: p, CropVars: cropVars}, nil
}

func (Workbooks) CheckRunFile(ctx context.Context, p, mgmtDir string) (string, bool, error) {
	sheets, err := OpenWorkbook(p)
	if err != nil {
		return "", false, err
	}
	return fmt.Sprintf("Run file %s (%d worksheets) in %s", filepath.Base(p), len(sheets), mgmtDir), true, nil
}
