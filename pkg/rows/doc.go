// Package rows maintains the positional identity of repeated container rows:
// contiguous 0..n-1 indices, floor/cap enforcement, and consistent renaming
// of every descendant field path on insert, remove, and reorder. The package
// knows nothing about visibility or sanitization; it only guarantees that
// whichever consumer reads row data afterwards sees a contiguously indexed
// tree.
package rows
