// Package archives handles zip and tar containers: extracting them into
// directories, packing folders into new archives, appending folders to an
// existing zip, and reading single members by regex without extracting.
//
// All operations are synchronous and open their own archive handle,
// scoped to the call. Nothing is cached between calls.
package archives
