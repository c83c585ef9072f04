// Package dirinfo provides directory statistics collection.
//
// It walks a directory tree with fastwalk using a single worker,
// registers every directory before its files are visited and
// aggregates file counts and byte sizes per directory and for the
// whole tree.
package dirinfo
