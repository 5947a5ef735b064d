// Package crawler implements bounded concurrent product-URL discovery.
//
// A crawl session walks one site breadth-first: the frontier is drained in
// batches, each batch fans out to a bounded pool of fetch workers, and a
// single collector loop merges the classified links back into the frontier
// and the product accumulator. The session ends when the product budget is
// met or the frontier is exhausted.
package crawler
