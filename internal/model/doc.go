// Package model defines the messages exchanged with the pipeline framework.
//
// A Request names the executor, references its input frame and carries raw
// config values exactly as the framework sent them; parsing them into typed
// configs is left to the executors. A Package is the response: the executor
// result is a tagged union keyed by name, where only the Histogram variant
// carries output data.
//
// Responses are built through BuildHistogramResponse and
// BuildEqualizationResponse, which always run Validate before returning.
package model
