// Package track implements the tracking run handle and its sink backends.
//
// A Run is a tree-structured write target: scalar series are appended under
// hierarchical paths, whole values are set, and binary artifacts are
// streamed. The Run delegates storage to a Backend; MemoryBackend keeps
// everything in process (tests, examples) and RemoteBackend talks to a
// tracking service over HTTP. All writes are direct and synchronous; there
// is no internal queue.
package track
