package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/histogram-update/internal/executor"
	"github.com/ironsheep/histogram-update/internal/frame"
	"github.com/ironsheep/histogram-update/internal/model"
)

// defaultOwner owns frames loaded without an explicit owner.
const defaultOwner = "server"

// errInvalidParams marks argument errors, reported as -32602 instead of a tool
// failure.
var errInvalidParams = errors.New("invalid params")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "frame_load", "histogram").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors (malformed JSON, missing fields, list input images) return
// -32602. Any other tool error returns -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		if isParamsError(err) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		s.log.Error("server", err, map[string]interface{}{"tool": params.Name})
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func isParamsError(err error) bool {
	return errors.Is(err, errInvalidParams) ||
		errors.Is(err, model.ErrListInput) ||
		errors.Is(err, model.ErrInvalidRequest)
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case ToolFrameLoad:
		return s.handleFrameLoad(ctx, args)
	case ToolFrameSave:
		return s.handleFrameSave(ctx, args)
	case ToolFrameEvict:
		return s.handleFrameEvict(ctx, args)
	case ToolHistogram:
		return s.handleExecutor(ctx, model.ExecutorHistogram, args)
	case ToolEqualization:
		return s.handleExecutor(ctx, model.ExecutorEqualization, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	mcpErr := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		mcpErr.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   mcpErr,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = []byte("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

// === Frame store handlers ===

// FrameLoadResult describes a frame loaded from disk.
type FrameLoadResult struct {
	model.FrameRef
	Format string `json:"format"`
}

func (s *Server) handleFrameLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var p struct {
		Path  string `json:"path"`
		Owner string `json:"owner"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidParams)
	}
	if p.Owner == "" {
		p.Owner = defaultOwner
	}

	f, err := frame.Load(p.Path)
	if err != nil {
		return nil, err
	}
	ref, err := s.store.Put(ctx, f, p.Owner)
	if err != nil {
		return nil, fmt.Errorf("failed to store frame: %w", err)
	}

	s.log.Debug("server", "frame loaded", map[string]interface{}{"path": p.Path, "ref": ref})
	return FrameLoadResult{FrameRef: *model.NewFrameRef(ref, f), Format: frame.FormatOf(p.Path)}, nil
}

func (s *Server) handleFrameSave(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var p struct {
		Ref  string `json:"ref"`
		Path string `json:"path"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if p.Ref == "" || p.Path == "" {
		return nil, fmt.Errorf("%w: ref and path are required", errInvalidParams)
	}

	f, err := s.store.Fetch(ctx, p.Ref)
	if err != nil {
		return nil, err
	}
	if err := frame.Save(p.Path, f); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"path":     p.Path,
		"width":    f.Width,
		"height":   f.Height,
		"channels": f.Channels,
	}, nil
}

func (s *Server) handleFrameEvict(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var p struct {
		Refs []string `json:"refs"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if len(p.Refs) == 0 {
		return nil, fmt.Errorf("%w: refs is required", errInvalidParams)
	}

	evicter, ok := s.store.(frame.Evicter)
	if !ok {
		return nil, errors.New("frame store does not support eviction")
	}

	evicted := 0
	for _, ref := range p.Refs {
		if ref == "" {
			continue
		}
		if err := evicter.Evict(ctx, ref); err != nil {
			return nil, err
		}
		evicted++
	}

	s.log.Debug("server", "frames evicted", map[string]interface{}{"count": evicted})
	return map[string]interface{}{"evicted": evicted}, nil
}

// === Executor handlers ===

func (s *Server) handleExecutor(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	var req model.Request
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	if req.Executor != "" && req.Executor != name {
		return nil, fmt.Errorf("%w: executor %q does not match tool", errInvalidParams, req.Executor)
	}
	req.Executor = name

	pkg, err := s.registry.Run(ctx, &req)
	if err != nil {
		if errors.Is(err, executor.ErrUnknownExecutor) {
			return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
		}
		return nil, err
	}
	return pkg, nil
}
