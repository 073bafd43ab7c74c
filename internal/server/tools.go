package server

import (
	"github.com/ironsheep/histogram-update/internal/model"
)

// Tool names
const (
	ToolFrameLoad    = "frame_load"
	ToolFrameSave    = "frame_save"
	ToolFrameEvict   = "frame_evict"
	ToolHistogram    = "histogram"
	ToolEqualization = "equalization"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Frame store access
		{
			Name:        ToolFrameLoad,
			Description: "Load an image file into the frame store and return its reference and shape.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"owner": map[string]interface{}{
						"type":        "string",
						"description": "Owner recorded in the reference. Default \"server\"",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        ToolFrameSave,
			Description: "Write a stored frame to an image file. The format follows the file extension.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"ref": map[string]interface{}{
						"type":        "string",
						"description": "Frame reference returned by another tool",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the file to write",
					},
				},
				"required": []string{"ref", "path"},
			},
		},

		{
			Name:        ToolFrameEvict,
			Description: "Remove frames from the frame store once a pipeline is done with them. Unknown references are ignored.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"refs": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Frame references to remove",
					},
				},
				"required": []string{"refs"},
			},
		},

		// Executors
		executorTool(ToolHistogram, model.ExecutorHistogram,
			"Compute per-channel intensity histograms over a pixel range. With the plot enabled the output image is a 640x480 line plot of the histograms."),
		executorTool(ToolEqualization, model.ExecutorEqualization,
			"Enhance local contrast with CLAHE. Color images are equalized on lightness only and alpha is preserved."),
	}
}

// executorTool builds the definition of an executor tool from its config
// schema. Arguments are a model.Request without the executor name.
func executorTool(name, executor, description string) Tool {
	configs := map[string]interface{}{}
	if schema, ok := model.ExecutorSchemaFor(executor); ok {
		for _, c := range schema.Configs {
			prop := map[string]interface{}{
				"title":       c.Title,
				"description": c.Description,
				"default":     c.Default,
			}
			if c.Minimum != nil {
				prop["minimum"] = *c.Minimum
			}
			if c.Maximum != nil {
				prop["maximum"] = *c.Maximum
			}
			if len(c.Options) > 0 {
				prop["options"] = c.Options
			}
			configs[c.Name] = prop
		}
	}

	return Tool{
		Name:        name,
		Description: description,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"uID": map[string]interface{}{
					"type":        "string",
					"description": "Request identifier. Output frames are stored under it",
				},
				"inputs": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"inputImage": map[string]interface{}{
							"type":        []string{"object", "null"},
							"description": "Frame reference {ref, width, height, channels}",
						},
					},
				},
				"configs": map[string]interface{}{
					"type":       "object",
					"properties": configs,
				},
			},
			"required": []string{"uID"},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
