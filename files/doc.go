// Package files provides convenience wrappers for file manipulation and
// serialization: copying and removing files or directory trees, content
// hashing, JSON documents with date/time and numeric coercion, and opaque
// object persistence.
package files
