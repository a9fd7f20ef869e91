// Package garray implements genome arrays: array-like structures mapping
// numeric values (typically read counts) to nucleotide positions, addressed
// by chromosome, strand, and zero-based half-open interval.
//
// Three backends share one read contract (GenomeArray):
//
//   - NewDense: one vector per chromosome strand.  Fast slicing, memory
//     proportional to genome size.
//   - NewSparse: run-length step vectors.  Slower per position, memory
//     proportional to the number of distinct runs.  Pick per workload.
//   - NewBAMArray: computed on demand from indexed BAM sources.  Nothing is
//     materialized; mapping rules and filters are swappable at runtime with
//     no re-indexing cost, and there is no write path.
//
// Dense and sparse arrays additionally implement MutableGenomeArray: values
// can be set or accumulated over intervals, imported from coordinate streams
// (wiggle/bedGraph) or alignment streams under a mapping transform, and
// combined elementwise with other arrays or scalars.
//
// A mapping rule decides how one alignment becomes positional counts:
// a fixed offset from the 5' or 3' end, a per-read-length offset table, or
// fractional center weighting after trimming ("nibble") positions from each
// end.  Fetched values can be normalized to reads per million.
//
// Arrays are not safe for concurrent mutation, and mapping/filter swaps on a
// BAM array must not race in-flight queries.  Concurrent read-only queries
// over distinct intervals are safe.
package garray
