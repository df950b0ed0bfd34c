// Package paths provides helpers for manipulating file paths and a small
// resolver abstraction hiding whether a path is backed by the local
// filesystem or a remote store. Callers that only ever deal with local
// paths can use the package-level helpers directly; components that must
// also accept remote-backed paths take a Resolver.
package paths
