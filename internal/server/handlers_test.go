package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/histogram-update/internal/frame"
	"github.com/ironsheep/histogram-update/internal/imaging"
	"github.com/ironsheep/histogram-update/internal/model"
)

// createTestImageFile writes a two-tone PNG (left half c1, right half c2)
// and returns its path
func createTestImageFile(t *testing.T, width, height int, c1, c2 color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, c1)
			} else {
				img.Set(x, y, c2)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// callTool runs tools/call and returns the response
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	require.NoError(t, err)

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	require.NotNil(t, resp)
	return resp
}

// toolResult decodes the text content of a successful tool call into v
func toolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected error: %+v", resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	content, ok := result["content"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, content, 1)
	assert.Equal(t, "text", content[0]["type"])

	text, ok := content[0]["text"].(string)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text), v))
}

func loadFrame(t *testing.T, s *Server, path string) FrameLoadResult {
	t.Helper()
	var loaded FrameLoadResult
	toolResult(t, callTool(t, s, ToolFrameLoad, map[string]interface{}{"path": path, "owner": "test"}), &loaded)
	return loaded
}

func TestHandleFrameLoad(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 40, 30, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255})

	loaded := loadFrame(t, s, path)
	assert.NotEmpty(t, loaded.Ref)
	assert.Equal(t, 40, loaded.Width)
	assert.Equal(t, 30, loaded.Height)
	assert.Equal(t, 3, loaded.Channels)
	assert.Equal(t, "png", loaded.Format)

	f, err := s.store.Fetch(context.Background(), loaded.Ref)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), f.Pix[2])
}

func TestHandleHistogram(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 10, 10, color.RGBA{50, 50, 50, 255}, color.RGBA{200, 200, 200, 255})
	loaded := loadFrame(t, s, path)

	var pkg model.Package
	toolResult(t, callTool(t, s, ToolHistogram, map[string]interface{}{
		"uID":    "job-1",
		"inputs": map[string]interface{}{"inputImage": loaded.FrameRef},
		"configs": map[string]interface{}{
			model.ConfigChannelGray: "Enabled",
			model.ConfigChannelRed:  "Enabled",
		},
	}), &pkg)

	require.NoError(t, pkg.Validate())
	assert.Equal(t, model.ExecutorHistogram, pkg.Executor())
	assert.Equal(t, "job-1", pkg.UID)

	data := pkg.Outputs().OutputData.Value
	gray, ok := data.Get(imaging.Gray)
	require.True(t, ok)
	assert.Equal(t, 50, gray[50])
	assert.Equal(t, 50, gray[200])

	out := pkg.Outputs().OutputImage.Value
	require.NotNil(t, out)
	assert.Equal(t, 10, out.Width)
}

func TestHandleEqualizationAndSave(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 32, 32, color.RGBA{100, 110, 120, 255}, color.RGBA{120, 110, 100, 255})
	loaded := loadFrame(t, s, path)

	var pkg model.Package
	toolResult(t, callTool(t, s, ToolEqualization, map[string]interface{}{
		"uID":     "job-2",
		"inputs":  map[string]interface{}{"inputImage": map[string]interface{}{"name": "inputImage", "value": loaded.FrameRef}},
		"configs": map[string]interface{}{model.ConfigTileGridSize: map[string]string{"name": "4x4", "value": "4x4"}},
	}), &pkg)
	assert.Equal(t, model.ExecutorEqualization, pkg.Executor())

	out := pkg.Outputs().OutputImage.Value
	require.NotNil(t, out)

	dest := filepath.Join(t.TempDir(), "equalized.png")
	var saved map[string]interface{}
	toolResult(t, callTool(t, s, ToolFrameSave, map[string]interface{}{"ref": out.Ref, "path": dest}), &saved)
	assert.Equal(t, dest, saved["path"])

	back, err := frame.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, 32, back.Width)
	assert.Equal(t, 32, back.Height)
}

func TestHandleFrameEvict(t *testing.T) {
	store := frame.NewMemoryStore()
	s := New(store, nil)
	path := createTestImageFile(t, 16, 16, color.RGBA{10, 20, 30, 255}, color.RGBA{200, 210, 220, 255})
	loaded := loadFrame(t, s, path)

	refs := []string{loaded.Ref}
	for i := 0; i < 20; i++ {
		var pkg model.Package
		toolResult(t, callTool(t, s, ToolHistogram, map[string]interface{}{
			"uID":    "job",
			"inputs": map[string]interface{}{"inputImage": loaded.FrameRef},
			"configs": map[string]interface{}{
				model.ConfigChannelGray: "Enabled",
				model.ConfigPlotImage:   "Enabled",
			},
		}), &pkg)
		refs = append(refs, pkg.Outputs().OutputImage.Value.Ref)
	}
	require.Equal(t, 21, store.Len())

	var result map[string]int
	toolResult(t, callTool(t, s, ToolFrameEvict, map[string]interface{}{"refs": refs}), &result)
	assert.Equal(t, 21, result["evicted"])
	assert.Equal(t, 0, store.Len())

	resp := callTool(t, s, ToolFrameSave, map[string]interface{}{"ref": loaded.Ref, "path": filepath.Join(t.TempDir(), "gone.png")})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32000, resp.Error.Code)
}

// plainStore hides the eviction support of the store it wraps.
type plainStore struct{ frame.Store }

func TestHandleFrameEvict_Unsupported(t *testing.T) {
	s := New(plainStore{frame.NewMemoryStore()}, nil)

	resp := callTool(t, s, ToolFrameEvict, map[string]interface{}{"refs": []string{"mem:x:y"}})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32000, resp.Error.Code)
}

func TestHandleExecutor_NoInput(t *testing.T) {
	s := newTestServer()

	var pkg model.Package
	toolResult(t, callTool(t, s, ToolHistogram, map[string]interface{}{
		"uID":    "job-3",
		"inputs": map[string]interface{}{"inputImage": nil},
	}), &pkg)
	assert.Nil(t, pkg.Outputs().OutputImage.Value)
	assert.Equal(t, 0, pkg.Outputs().OutputData.Value.Len())
}

func TestHandleToolsCall_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.png")

	tests := []struct {
		name string
		tool string
		args interface{}
		code int
	}{
		{"unknown tool", "image_crop", map[string]interface{}{}, -32000},
		{"load without path", ToolFrameLoad, map[string]interface{}{}, -32602},
		{"load missing file", ToolFrameLoad, map[string]interface{}{"path": missing}, -32000},
		{"save without ref", ToolFrameSave, map[string]interface{}{"path": missing}, -32602},
		{"save unknown ref", ToolFrameSave, map[string]interface{}{"ref": "mem:x:y", "path": missing}, -32000},
		{"evict without refs", ToolFrameEvict, map[string]interface{}{}, -32602},
		{"list input", ToolHistogram, map[string]interface{}{
			"uID":    "u",
			"inputs": map[string]interface{}{"inputImage": []interface{}{map[string]string{"ref": "a"}}},
		}, -32602},
		{"executor mismatch", ToolHistogram, map[string]interface{}{"uID": "u", "executor": "Equalization"}, -32602},
		{"malformed arguments", ToolHistogram, []int{1, 2}, -32602},
		{"unknown input ref", ToolEqualization, map[string]interface{}{
			"uID":    "u",
			"inputs": map[string]interface{}{"inputImage": map[string]interface{}{"ref": "mem:x:missing", "width": 1, "height": 1, "channels": 1}},
		}, -32000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, newTestServer(), tt.tool, tt.args)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Data)
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	resp := newTestServer().handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"frame_load"`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}
