package setup

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/fsutil"
)

// Provision creates the log and config directories named by settings.
// Directories that already exist are left alone.
func Provision(settings config.Values, report *diag.Report) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, key := range []string{config.KeyLogDir, config.KeyConfigDir} {
		dir := settings.String(key)
		if fsutil.Exists(dir) {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			d := &hcl.Diagnostic{Severity: hcl.DiagError, Summary: "Could not create directory " + dir, Detail: err.Error()}
			diags = append(diags, d)
			if report != nil {
				report.Extend(hcl.Diagnostics{d})
			}
		}
	}
	return diags
}
