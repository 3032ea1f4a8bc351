// Package flags is the registry of typed state variables ("flags") that drama
// scripts read and write.
//
// Every flag is declared once with a namespaced key and a kind (enum, int,
// bool or string). Enum flags carry an ordered variant list addressed by
// ordinal; int flags may declare an inclusive range. Definitions are immutable
// after registration and the registry is safe to share between builders.
//
// Basic usage:
//
//	reg := flags.NewRegistry("drama.")
//	reg.MustRegister(
//	    flags.Enum("drama.quest.rank", "none", "bronze", "silver", "gold"),
//	    flags.IntRange("drama.gold", 0, 99999),
//	    flags.Bool("drama.met_guide"),
//	)
//
//	for _, err := range reg.ValidateValue("drama.quest.rank", 4) {
//	    // out of range: 4 not in [0, 4)
//	}
//
// Keys outside the managed namespace are legacy flags: they are never
// reported, so older scripts keep building while the schema catches up.
//
// Schemas can also be loaded from YAML:
//
//	namespace: drama.
//	flags:
//	  - key: drama.quest.rank
//	    kind: enum
//	    variants: [none, bronze, silver, gold]
//	  - key: drama.gold
//	    kind: int
//	    min: 0
//	    max: 99999
package flags
