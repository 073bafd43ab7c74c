// Package executor implements the Histogram and Equalization pipeline stages.
//
// Each executor parses its configs once into a typed struct, fetches the
// input frame from a frame.Store, runs the imaging core, stores the result
// under the request's uID and returns a validated model.Package. Config
// values that cannot be used are replaced by their defaults and reported as
// warnings rather than failing the request.
//
// Executors hold no per-request state and may be shared across goroutines.
package executor
