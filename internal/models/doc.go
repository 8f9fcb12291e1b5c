// Package models defines the core domain records for the tracker.
//
// Every record type maps one-to-one onto a row in a persisted collection.
// JSON tags are load-bearing: the field names must match the data files
// written by earlier deployments of this system, so renaming a tag is a
// breaking change even when the Go field keeps its name.
//
// Relationships between records (project membership, expense project_id,
// message sender/receiver) are conventions upheld by the repository layer,
// not enforced foreign keys. Orphaned rows are tolerated on read.
package models
