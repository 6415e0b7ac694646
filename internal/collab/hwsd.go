package collab

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/orabatch/internal/fsutil"
)

// HWSD checks the Harmonized World Soil Database directory: it must hold at
// least one BIL raster with its .hdr header alongside.
type HWSD struct{}

func (HWSD) CheckHWSD(ctx context.Context, dir string) error {
	if !fsutil.IsDir(dir) {
		return fmt.Errorf("HWSD directory %s does not exist", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read HWSD directory: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".bil") {
			continue
		}
		hdr := strings.TrimSuffix(name, filepath.Ext(name)) + ".hdr"
		if fsutil.IsFile(filepath.Join(dir, hdr)) {
			return nil
		}
		return fmt.Errorf("HWSD raster %s has no header %s", name, hdr)
	}
	return fmt.Errorf("no .bil raster found in HWSD directory %s", dir)
}
