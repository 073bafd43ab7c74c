// Package server exposes the histogram executors over MCP (Model Context
// Protocol).
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logging goes to stderr so it never interleaves with responses.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Frame store access:
//   - frame_load: Load an image file into the frame store
//   - frame_save: Write a stored frame to disk
//   - frame_evict: Drop frames a pipeline no longer needs
//
// Executors:
//   - histogram: Channel histograms with an optional plot image
//   - equalization: CLAHE contrast enhancement
//
// Executor tools take a request of the form
//
//	{
//	  "uID": "job-1",
//	  "inputs": {"inputImage": {"ref": "mem:server:...", "width": 640, "height": 480, "channels": 3}},
//	  "configs": {"configChannelGray": "Enabled", "configPlotImage": "Enabled"}
//	}
//
// and return the response package as the text content.
//
// # Frames
//
// Images move between tools by reference. Frames live in a frame.Store, in
// memory or in Redis, and executors store their outputs under the request
// uID.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments, -32000 for other tool failures
//   - message: Human-readable error description
//   - data: The Go error string
package server
