/*
Package ports defines the driven ports (interfaces) of the drama compiler.

These interfaces decouple graph construction from where tables end up and
where the flag schema comes from.

# Key Interfaces

  - Sink: Receives a finalized table under a sheet name (TSV file, spreadsheet, Redis, memory).
  - SheetStore: A Sink that can also list and read sheets back, used by validate and the preview server.
  - SchemaSource: Provides the flag definitions, loaded once at process start.
  - DistributedLocker: Serializes concurrent publishers writing the same sheet.
*/
package ports
