/*
Package domain contains the core data model of the drama pipeline.

It defines the rows ("entries") that make up a dialogue graph, the labels that
name steps, the flag mutations embedded in rows and the structural warnings the
validator reports. This package is kept pure and free of I/O so that the builder,
the validator and the table serializer can all share it.

# Key Entities

  - Entry: One row of the output table (step marker, line, choice, jump, mutation, dispatch...).
  - Label: A forward reference to a step name.
  - Dispatch: The textual branch construct understood by the engine (if_flag / switch_flag).
  - Mutation: A typed flag instruction (set, increment, compare) validated against the schema.
  - Warning: A non-fatal structural finding attached to a finalized graph.
*/
package domain
