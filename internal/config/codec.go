package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	hcljson "github.com/hashicorp/hcl/v2/json"
	"github.com/tidwall/pretty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: true}

// Decode parses a JSON document whose root is an object. filename is only
// used in diagnostics.
func Decode(src []byte, filename string) (Values, hcl.Diagnostics) {
	// The HCL JSON parser gives precise positions for syntax errors, which
	// the cty decoder does not.
	if _, diags := hcljson.Parse(src, filename); diags.HasErrors() {
		return nil, diags
	}

	ty, err := ctyjson.ImpliedType(src)
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid JSON document " + filename,
			Detail:   err.Error(),
		}}
	}
	if !ty.IsObjectType() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid JSON document " + filename,
			Detail:   "the root value must be an object",
		}}
	}
	val, err := ctyjson.Unmarshal(src, ty)
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid JSON document " + filename,
			Detail:   err.Error(),
		}}
	}
	return FromObject(val), nil
}

// ReadFile reads and decodes path in a single open-read-close.
func ReadFile(path string) (Values, hcl.Diagnostics) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Could not read " + path,
			Detail:   err.Error(),
		}}
	}
	return Decode(src, path)
}

// Encode renders v as pretty-printed JSON with sorted keys.
func Encode(v Values) ([]byte, error) {
	obj := v.Object()
	// Marshalling against the value's own type keeps nulls read from disk
	// plain instead of wrapping them in {"value","type"} envelopes.
	raw, err := ctyjson.Marshal(obj, obj.Type())
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(raw, prettyOptions), nil
}

// WriteFile writes the whole of v to path in one open-write-close. There is
// no temp-file-and-rename step: a crash mid-write can leave a truncated
// file, and concurrent writers race with the last one winning.
func WriteFile(path string, v Values) error {
	buf, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
