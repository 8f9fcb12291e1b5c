// Package repo implements the typed repositories over the collection
// store. Each repository owns exactly one storage.Collection and holds no
// record state between calls: every operation loads the collection,
// operates on the snapshot, and for mutations saves the whole collection
// back under the collection's update lock.
//
// Identifier assignment follows the legacy count+1 scheme (see
// storage.NextID); repositories uphold referential conventions such as
// orphan tolerance on project delete, but no foreign keys exist.
package repo
