package executor

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/histogram-update/internal/imaging"
	"github.com/ironsheep/histogram-update/internal/model"
)

// HistogramConfig is the typed configuration of the Histogram executor.
type HistogramConfig struct {
	Channels imaging.ChannelSet
	Range    imaging.PixelRange
	Plot     bool
}

// EqualizationConfig is the typed configuration of the Equalization executor.
type EqualizationConfig struct {
	ClipLimit float64
	TileGrid  int
}

// Clip limit bounds
const (
	MinClipLimit = 0.1
	MaxClipLimit = 40.0
)

// Fallback records a config value that was present but unusable and was
// replaced by its default.
type Fallback struct {
	Key     string
	Raw     string
	Default interface{}
}

// DefaultHistogramConfig has every channel and the plot disabled over the
// full range.
func DefaultHistogramConfig() HistogramConfig {
	return HistogramConfig{Range: imaging.FullRange()}
}

// DefaultEqualizationConfig returns clip limit 2.0 on an 8x8 grid.
func DefaultEqualizationConfig() EqualizationConfig {
	return EqualizationConfig{ClipLimit: imaging.DefaultClipLimit, TileGrid: imaging.DefaultTileGrid}
}

// ParseHistogramConfig reads the Histogram configs.
//
// Channel and plot toggles accept "Enabled"/"Disabled" (any case), option
// objects {"name": .., "value": ..} and JSON booleans; absent means disabled.
// Pixel bounds accept integers and integer strings. A bound outside its
// range (0-254 for the minimum, 1-255 for the maximum) or a malformed one
// takes its default. An inverted range is swapped.
func ParseHistogramConfig(configs map[string]json.RawMessage) (HistogramConfig, []Fallback) {
	cfg := DefaultHistogramConfig()
	var fallbacks []Fallback

	toggle := func(key string) bool {
		raw, ok := configs[key]
		if !ok {
			return false
		}
		on, valid := parseToggle(raw)
		if !valid {
			fallbacks = append(fallbacks, Fallback{Key: key, Raw: string(raw), Default: model.OptionDisabled})
		}
		return on
	}

	cfg.Channels = imaging.ChannelSet{
		Red:   toggle(model.ConfigChannelRed),
		Green: toggle(model.ConfigChannelGreen),
		Blue:  toggle(model.ConfigChannelBlue),
		Gray:  toggle(model.ConfigChannelGray),
	}
	cfg.Plot = toggle(model.ConfigPlotImage)

	bound := func(key string, lo, hi, def int) int {
		raw, ok := configs[key]
		if !ok {
			return def
		}
		v, valid := parseNumber(raw)
		if !valid || v != math.Trunc(v) || v < float64(lo) || v > float64(hi) {
			fallbacks = append(fallbacks, Fallback{Key: key, Raw: string(raw), Default: def})
			return def
		}
		return int(v)
	}

	min := bound(model.ConfigPixelMin, imaging.PixelFloor, imaging.MaxPixelMin, imaging.PixelFloor)
	max := bound(model.ConfigPixelMax, imaging.MinPixelMax, imaging.PixelCeiling, imaging.PixelCeiling)
	cfg.Range = imaging.NewPixelRange(min, max)

	return cfg, fallbacks
}

// ParseEqualizationConfig reads the Equalization configs.
//
// The clip limit accepts numbers and numeric strings within [0.1, 40]. The
// tile grid accepts "NxM" strings (N is used for both dimensions), plain
// integer strings and numbers within [1, 64]. Anything else, absent values
// included, takes the default.
func ParseEqualizationConfig(configs map[string]json.RawMessage) (EqualizationConfig, []Fallback) {
	cfg := DefaultEqualizationConfig()
	var fallbacks []Fallback

	if raw, ok := configs[model.ConfigClipLimit]; ok {
		v, valid := parseNumber(raw)
		if valid && v >= MinClipLimit && v <= MaxClipLimit {
			cfg.ClipLimit = v
		} else {
			fallbacks = append(fallbacks, Fallback{Key: model.ConfigClipLimit, Raw: string(raw), Default: cfg.ClipLimit})
		}
	}

	if raw, ok := configs[model.ConfigTileGridSize]; ok {
		if grid, valid := parseTileGrid(raw); valid {
			cfg.TileGrid = grid
		} else {
			fallbacks = append(fallbacks, Fallback{Key: model.ConfigTileGridSize, Raw: string(raw), Default: cfg.TileGrid})
		}
	}

	return cfg, fallbacks
}

// unwrapOption returns the "value" member of an option object, or raw itself.
// Nested options are unwrapped repeatedly.
func unwrapOption(raw json.RawMessage) json.RawMessage {
	for i := 0; i < 4; i++ {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return trimmed
		}
		var opt struct {
			Name  json.RawMessage `json:"name"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &opt); err != nil {
			return trimmed
		}
		switch {
		case len(opt.Value) > 0:
			raw = opt.Value
		case len(opt.Name) > 0:
			raw = opt.Name
		default:
			return trimmed
		}
	}
	return raw
}

func parseToggle(raw json.RawMessage) (on bool, valid bool) {
	raw = unwrapOption(raw)

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enabled", "true":
		return true, true
	case "disabled", "false":
		return false, true
	}
	return false, false
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	raw = unwrapOption(raw)

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseTileGrid(raw json.RawMessage) (int, bool) {
	raw = unwrapOption(raw)

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f < 1 || f != math.Trunc(f) || f > imaging.MaxTileGrid {
			return 0, false
		}
		return int(f), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, 'x'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > imaging.MaxTileGrid {
		return 0, false
	}
	return n, true
}
