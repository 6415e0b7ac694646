package config

import (
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Values is a mapping of string keys to typed values. Settings and Config
// are both Values; they are owned by a single session and passed by
// reference, never shared.
type Values map[string]cty.Value

// FromObject converts a cty object or map value into Values. Null and
// unknown values give an empty mapping.
func FromObject(obj cty.Value) Values {
	out := Values{}
	if obj.IsNull() || !obj.IsKnown() {
		return out
	}
	ty := obj.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return out
	}
	for k, v := range obj.AsValueMap() {
		out[k] = v
	}
	return out
}

// Object returns v as a cty object value.
func (v Values) Object() cty.Value {
	if len(v) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(map[string]cty.Value(v))
}

// Keys returns the keys in lexical order.
func (v Values) Keys() []string {
	var keys []string
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a shallow copy; cty values are immutable.
func (v Values) Clone() Values {
	return maps.Clone(v)
}

// Has reports whether key is present, null or not.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// IsNull reports whether key is missing or holds null.
func (v Values) IsNull(key string) bool {
	val, ok := v[key]
	return !ok || val.IsNull()
}

// String returns the value of key converted to a string, or "" when the key
// is missing, null or not convertible.
func (v Values) String(key string) string {
	val, ok := v[key]
	if !ok || val.IsNull() || !val.IsKnown() {
		return ""
	}
	s, err := convert.Convert(val, cty.String)
	if err != nil || s.IsNull() {
		return ""
	}
	return s.AsString()
}

// Bool returns the value of key as a bool. Strings "true"/"false" convert;
// anything else is false.
func (v Values) Bool(key string) bool {
	val, ok := v[key]
	if !ok || val.IsNull() || !val.IsKnown() {
		return false
	}
	b, err := convert.Convert(val, cty.Bool)
	if err != nil || b.IsNull() {
		return false
	}
	return b.True()
}

// Int returns the value of key as an int. ok is false when the value is
// missing or is not a whole number.
func (v Values) Int(key string) (int, bool) {
	val, ok := v[key]
	if !ok || val.IsNull() || !val.IsKnown() {
		return 0, false
	}
	n, err := convert.Convert(val, cty.Number)
	if err != nil || n.IsNull() {
		return 0, false
	}
	var i int
	if err := gocty.FromCtyValue(n, &i); err != nil {
		return 0, false
	}
	return i, true
}

// Float returns the value of key as a float64. Numeric strings such as the
// owex_min "0.1" convert.
func (v Values) Float(key string) (float64, bool) {
	val, ok := v[key]
	if !ok || val.IsNull() || !val.IsKnown() {
		return 0, false
	}
	n, err := convert.Convert(val, cty.Number)
	if err != nil || n.IsNull() {
		return 0, false
	}
	f, _ := n.AsBigFloat().Float64()
	return f, true
}

// Strings returns a list or tuple value as strings.
func (v Values) Strings(key string) []string {
	val, ok := v[key]
	if !ok || val.IsNull() || !val.IsKnown() {
		return nil
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil
	}
	var out []string
	for _, elem := range val.AsValueSlice() {
		s, err := convert.Convert(elem, cty.String)
		if err != nil || s.IsNull() {
			continue
		}
		out = append(out, s.AsString())
	}
	return out
}

// Display renders key for console output: "null" for null values, the
// string conversion otherwise.
func (v Values) Display(key string) string {
	if v.IsNull(key) {
		return "null"
	}
	return v.String(key)
}

func (v Values) Set(key string, val cty.Value) { v[key] = val }

func (v Values) SetString(key, s string) { v[key] = cty.StringVal(s) }

func (v Values) SetBool(key string, b bool) { v[key] = cty.BoolVal(b) }

func (v Values) SetInt(key string, i int) { v[key] = cty.NumberIntVal(int64(i)) }

func (v Values) SetNull(key string) { v[key] = cty.NullVal(cty.String) }

// SetStrings stores ss as a tuple, the same shape JSON arrays decode to.
func (v Values) SetStrings(key string, ss []string) {
	elems := make([]cty.Value, len(ss))
	for i, s := range ss {
		elems[i] = cty.StringVal(s)
	}
	v[key] = cty.TupleVal(elems)
}

// Equal reports whether v and o hold the same keys with the same values,
// independent of key order.
func (v Values) Equal(o Values) bool {
	if len(v) != len(o) {
		return false
	}
	for k, a := range v {
		b, ok := o[k]
		if !ok {
			return false
		}
		if a.IsNull() || b.IsNull() {
			if a.IsNull() != b.IsNull() {
				return false
			}
			continue
		}
		if !a.RawEquals(b) {
			return false
		}
	}
	return true
}
