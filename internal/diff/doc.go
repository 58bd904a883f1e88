// Package diff parses and rebuilds unified-diff patches for a single file.
//
// The hosting backends disagree about what a "patch" is: GitHub hands out
// bare hunk sequences while GitLab includes the ---/+++ file headers. This
// package normalizes both shapes, computes diff-relative offsets for inline
// review comments, and aggregates addition/deletion counts.
package diff
