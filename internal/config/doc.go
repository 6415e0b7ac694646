// Package config defines the in-memory model shared by both initialization
// pipelines: Values, a mapping of string keys to cty values used for the
// installation Settings and the session Config, together with the JSON codec
// that reads and writes them.
//
// Decoding goes through the HCL JSON parser first so that malformed files are
// reported with line and column information, then through cty's JSON decoder
// to obtain typed values. Encoding always writes the full structure with
// sorted keys and two-space indentation.
package config
