// Package table flattens drama entries into the fixed-column table read by the
// engine's loader, and reads such tables back.
//
// The header is fixed:
//
//	step, jump, if, if2, action, param, actor, version, id, text_<locale>...
//
// It sits on the first row of the sheet; a few reserved rows follow and data
// starts at Layout.Offset. Each entry becomes exactly one row and absent fields
// are blank cells, so Decode(Encode(entries)) reproduces the entries.
package table
