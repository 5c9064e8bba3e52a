// Package editor translates typed in-place editor options into the call
// expression understood by the Ajax.InPlaceEditor and
// Ajax.InPlaceCollectionEditor client widgets.
//
// The output is a literal contract: keys, quoting and separators must match
// what the widget library has always received, so callers can compare the
// generated snippet byte for byte. Entries are emitted only for options that
// are present and are serialised in sorted `key:value` order, e.g.
//
//	new Ajax.InPlaceEditor('title', '/set_post_title?id=1', {cols:40, rows:5})
//
// Options can be built directly, decoded from a loosely typed map with
// DecodeOptions, or loaded as named presets from YAML/JSON files.
package editor
