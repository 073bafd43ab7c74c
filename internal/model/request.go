package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/histogram-update/internal/frame"
)

// Package and executor names
const (
	PackageName          = "HistogramUpdate"
	PackageType          = "component"
	ExecutorHistogram    = "Histogram"
	ExecutorEqualization = "Equalization"
)

// Config keys
const (
	ConfigChannelRed   = "configChannelRed"
	ConfigChannelGreen = "configChannelGreen"
	ConfigChannelBlue  = "configChannelBlue"
	ConfigChannelGray  = "configChannelGray"
	ConfigPixelMin     = "configPixelMin"
	ConfigPixelMax     = "configPixelMax"
	ConfigPlotImage    = "configPlotImage"
	ConfigClipLimit    = "configClipLimit"
	ConfigTileGridSize = "configTileGridSize"
)

// Option values
const (
	OptionEnabled  = "Enabled"
	OptionDisabled = "Disabled"
	TileGrid4x4    = "4x4"
	TileGrid8x8    = "8x8"
)

var (
	// ErrListInput is returned for list-valued input images, which are not
	// supported.
	ErrListInput = errors.New("list input images are not supported")

	// ErrInvalidRequest marks a request that cannot be decoded.
	ErrInvalidRequest = errors.New("invalid request")
)

// FrameRef points at a frame held in a frame.Store.
type FrameRef struct {
	Ref      string `json:"ref"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
}

// NewFrameRef describes f stored under ref. An empty ref or nil frame gives
// nil, the absent image.
func NewFrameRef(ref string, f *frame.Frame) *FrameRef {
	if ref == "" || f == nil {
		return nil
	}
	return &FrameRef{Ref: ref, Width: f.Width, Height: f.Height, Channels: f.Channels}
}

// Inputs carries the raw input image. It is kept raw so that the single
// object, wrapped object, list, and null forms can be told apart.
type Inputs struct {
	InputImage json.RawMessage `json:"inputImage,omitempty"`
}

// Request is one executor invocation.
type Request struct {
	UID      string                     `json:"uID"`
	Executor string                     `json:"executor,omitempty"`
	Inputs   Inputs                     `json:"inputs"`
	Configs  map[string]json.RawMessage `json:"configs,omitempty"`
}

// NewRequest builds a request for executor with the given input image and
// config values. Values are marshaled to JSON.
func NewRequest(uID, executor string, input *FrameRef, configs map[string]interface{}) (*Request, error) {
	req := &Request{UID: uID, Executor: executor}
	if input != nil {
		raw, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to encode input image: %w", err)
		}
		req.Inputs.InputImage = raw
	}
	if len(configs) > 0 {
		req.Configs = make(map[string]json.RawMessage, len(configs))
		for k, v := range configs {
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode config %s: %w", k, err)
			}
			req.Configs[k] = raw
		}
	}
	return req, nil
}

// InputImage decodes the input image reference.
//
// Accepted forms are a FrameRef object, an object wrapping it under "value"
// (as the component framework sends it), null or absent (nil, the absent
// image), and a FrameRef with an empty ref (also absent). A list returns
// ErrListInput.
func (r *Request) InputImage() (*FrameRef, error) {
	raw := bytes.TrimSpace(r.Inputs.InputImage)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		return nil, ErrListInput
	case '{':
	default:
		return nil, fmt.Errorf("%w: inputImage must be an object", ErrInvalidRequest)
	}

	var wrapped struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(wrapped.Value) > 0 {
		return (&Request{Inputs: Inputs{InputImage: wrapped.Value}}).InputImage()
	}

	var ref FrameRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if ref.Ref == "" {
		return nil, nil
	}
	return &ref, nil
}

// ConfigKeys lists the config names present on the request.
func (r *Request) ConfigKeys() []string {
	keys := make([]string, 0, len(r.Configs))
	for k := range r.Configs {
		keys = append(keys, k)
	}
	return keys
}
