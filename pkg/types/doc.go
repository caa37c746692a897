// Package types defines the entity types, the Table and Backend interfaces,
// table schemas and the standard errors shared by every taskdesk component.
//
// Backends (sqlite, supabase, memory) implement Backend and hand out one
// Table per entity table. Tables speak in entity pointers (*User, *Task, ...)
// and convert to column records with ToRecord and FromRecord.
package types
