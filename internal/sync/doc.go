// Package sync implements the traversal engine: it walks the input files
// and directories, maps each discovered file to its object key, and uploads
// the ones whose remote copy is missing or older than the local file.
//
// Sibling paths at each directory level are dispatched concurrently and
// joined with an errgroup, so the first error anywhere in the tree decides
// the run's outcome while in-flight siblings run to completion. The number
// of concurrent uploads is bounded by a weighted semaphore shared across
// the whole run.
package sync
