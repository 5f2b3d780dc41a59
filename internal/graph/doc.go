// Package graph builds the word graph used to find ladders.
//
// Vertices are dictionary words; an edge joins two words of the same length
// that differ in exactly one position. The adjacency is computed once per
// dictionary load and is read-only afterwards, so a built WordGraph may be
// queried from many goroutines. Loading a new dictionary rebuilds everything.
package graph
