package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/histogram-update/internal/frame"
	"github.com/ironsheep/histogram-update/internal/imaging"
)

func TestRequest_InputImage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *FrameRef
		wantErr error
	}{
		{"absent", ``, nil, nil},
		{"null", `null`, nil, nil},
		{"object", `{"ref":"mem:u:1","width":4,"height":3,"channels":3}`, &FrameRef{"mem:u:1", 4, 3, 3}, nil},
		{"wrapped", `{"name":"inputImage","type":"object","value":{"ref":"mem:u:2","width":1,"height":1,"channels":1}}`, &FrameRef{"mem:u:2", 1, 1, 1}, nil},
		{"wrapped null", `{"name":"inputImage","value":null}`, nil, nil},
		{"empty ref", `{"ref":""}`, nil, nil},
		{"list", `[{"ref":"a"}]`, nil, ErrListInput},
		{"wrapped list", `{"value":[{"ref":"a"}]}`, nil, ErrListInput},
		{"scalar", `"mem:u:1"`, nil, ErrInvalidRequest},
		{"bad field", `{"ref":1}`, nil, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{Inputs: Inputs{InputImage: json.RawMessage(tt.raw)}}
			got, err := req.InputImage()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_Decode(t *testing.T) {
	raw := `{
		"uID": "job-7",
		"executor": "Histogram",
		"inputs": {"inputImage": {"ref": "mem:job-7:abc", "width": 2, "height": 2, "channels": 1}},
		"configs": {"configChannelGray": "Enabled", "configPixelMin": 10}
	}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	assert.Equal(t, "job-7", req.UID)
	assert.Equal(t, ExecutorHistogram, req.Executor)
	assert.ElementsMatch(t, []string{ConfigChannelGray, ConfigPixelMin}, req.ConfigKeys())
	assert.JSONEq(t, `10`, string(req.Configs[ConfigPixelMin]))

	ref, err := req.InputImage()
	require.NoError(t, err)
	assert.Equal(t, "mem:job-7:abc", ref.Ref)
}

func TestNewRequest(t *testing.T) {
	in := &FrameRef{Ref: "r", Width: 1, Height: 1, Channels: 3}
	req, err := NewRequest("u", ExecutorEqualization, in, map[string]interface{}{
		ConfigClipLimit: 3.5,
	})
	require.NoError(t, err)

	got, err := req.InputImage()
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.JSONEq(t, `3.5`, string(req.Configs[ConfigClipLimit]))

	empty, err := NewRequest("u", ExecutorEqualization, nil, nil)
	require.NoError(t, err)
	got, err = empty.InputImage()
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, empty.Configs)
}

func TestNewFrameRef(t *testing.T) {
	f := frame.New(3, 5, 4)
	assert.Equal(t, &FrameRef{Ref: "x", Width: 5, Height: 3, Channels: 4}, NewFrameRef("x", f))
	assert.Nil(t, NewFrameRef("", f))
	assert.Nil(t, NewFrameRef("x", nil))
}

func TestBuildHistogramResponse(t *testing.T) {
	h := imaging.NewHistograms()
	h.Set(imaging.Gray, []int{1, 2, 3})
	image := &FrameRef{Ref: "mem:u:1", Width: 640, Height: 480, Channels: 3}

	pkg, err := BuildHistogramResponse("u", image, h)
	require.NoError(t, err)
	assert.Equal(t, ExecutorHistogram, pkg.Executor())
	assert.Equal(t, image, pkg.Outputs().OutputImage.Value)
	require.NotNil(t, pkg.Outputs().OutputData)

	data, err := json.Marshal(pkg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "HistogramUpdate",
		"type": "component",
		"uID": "u",
		"configs": {
			"executor": {
				"name": "ConfigExecutor",
				"type": "executor",
				"field": "dependentDropdownlist",
				"restart": true,
				"value": {
					"name": "Histogram",
					"type": "object",
					"field": "option",
					"value": {
						"outputs": {
							"outputImage": {
								"name": "outputImage",
								"type": "object",
								"value": {"ref": "mem:u:1", "width": 640, "height": 480, "channels": 3}
							},
							"outputData": {
								"name": "outputData",
								"type": "object",
								"value": {"gray": [1, 2, 3]}
							}
						}
					}
				}
			}
		}
	}`, string(data))
}

func TestBuildHistogramResponse_AbsentImage(t *testing.T) {
	pkg, err := BuildHistogramResponse("u", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, pkg.Outputs().OutputImage.Value)
	assert.Equal(t, 0, pkg.Outputs().OutputData.Value.Len())

	data, err := json.Marshal(pkg.Outputs())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"outputImage": {"name": "outputImage", "type": "object", "value": null},
		"outputData": {"name": "outputData", "type": "object", "value": {}}
	}`, string(data))
}

func TestBuildEqualizationResponse(t *testing.T) {
	image := &FrameRef{Ref: "mem:u:2", Width: 8, Height: 8, Channels: 1}
	pkg, err := BuildEqualizationResponse("u", image)
	require.NoError(t, err)
	assert.Equal(t, ExecutorEqualization, pkg.Executor())
	assert.Nil(t, pkg.Outputs().OutputData)

	data, err := json.Marshal(pkg.Outputs())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "outputData")
}

func TestPackageValidate(t *testing.T) {
	valid := func() *Package {
		h := imaging.NewHistograms()
		h.Set(imaging.Red, []int{1, 2})
		h.Set(imaging.Blue, []int{3, 4})
		pkg, err := BuildHistogramResponse("u", &FrameRef{Ref: "r", Width: 1, Height: 1, Channels: 3}, h)
		require.NoError(t, err)
		return pkg
	}

	tests := []struct {
		name   string
		mutate func(p *Package)
	}{
		{"wrong package name", func(p *Package) { p.Name = "Other" }},
		{"wrong package type", func(p *Package) { p.Type = "service" }},
		{"wrong executor config", func(p *Package) { p.Configs.Executor.Name = "Executor" }},
		{"unknown executor", func(p *Package) { p.Configs.Executor.Value.Name = "Blur" }},
		{"histogram without data", func(p *Package) { p.Configs.Executor.Value.Value.Outputs.OutputData = nil }},
		{"equalization with data", func(p *Package) { p.Configs.Executor.Value.Name = ExecutorEqualization }},
		{"image without ref", func(p *Package) { p.Configs.Executor.Value.Value.Outputs.OutputImage.Value.Ref = "" }},
		{"image with two channels", func(p *Package) { p.Configs.Executor.Value.Value.Outputs.OutputImage.Value.Channels = 2 }},
		{"renamed image", func(p *Package) { p.Configs.Executor.Value.Value.Outputs.OutputImage.Name = "image" }},
		{"data without value", func(p *Package) { p.Configs.Executor.Value.Value.Outputs.OutputData.Value = nil }},
		{"ragged series", func(p *Package) {
			p.Configs.Executor.Value.Value.Outputs.OutputData.Value.Set(imaging.Gray, []int{1})
		}},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			require.ErrorIs(t, p.Validate(), ErrInvalidResponse)
		})
	}

	var nilPkg *Package
	require.ErrorIs(t, nilPkg.Validate(), ErrInvalidResponse)
}

func TestSchema(t *testing.T) {
	schemas := Schema()
	require.Len(t, schemas, 2)

	hist, ok := ExecutorSchemaFor(ExecutorHistogram)
	require.True(t, ok)
	var names []string
	for _, c := range hist.Configs {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		ConfigChannelRed, ConfigChannelGreen, ConfigChannelBlue, ConfigChannelGray,
		ConfigPixelMin, ConfigPixelMax, ConfigPlotImage,
	}, names)

	eq, ok := ExecutorSchemaFor(ExecutorEqualization)
	require.True(t, ok)
	require.Len(t, eq.Configs, 2)
	assert.Equal(t, 2.0, eq.Configs[0].Default)
	assert.Equal(t, 0.1, *eq.Configs[0].Minimum)
	assert.Equal(t, 40.0, *eq.Configs[0].Maximum)
	assert.Equal(t, []string{TileGrid4x4, TileGrid8x8}, eq.Configs[1].Options)

	_, ok = ExecutorSchemaFor("Blur")
	assert.False(t, ok)
}
