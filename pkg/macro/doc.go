// Package macro generates repeated families of steps from declarative records.
//
// A macro calls the dsl primitives in a fixed pattern, once per record. When the
// family is reached through a switch_flag, the dispatch table and the sub-steps
// are produced by the same loop (see Family) so the case at index i always leads
// to the steps generated for record i-1; index 0 is reserved for the
// "nothing applies" fallback.
package macro
