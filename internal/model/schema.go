package model

// ConfigField documents one executor config value.
type ConfigField struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Field       string      `json:"field"`
	Default     interface{} `json:"default"`
	Minimum     *float64    `json:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty"`
	Options     []string    `json:"options,omitempty"`
}

// ExecutorSchema documents the configs of one executor.
type ExecutorSchema struct {
	Name        string        `json:"name"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Configs     []ConfigField `json:"configs"`
}

func bound(v float64) *float64 { return &v }

func toggle(name, title, description string) ConfigField {
	return ConfigField{
		Name:        name,
		Title:       title,
		Description: description,
		Type:        "object",
		Field:       "dropdownlist",
		Default:     OptionDisabled,
		Options:     []string{OptionEnabled, OptionDisabled},
	}
}

// Schema describes the configs accepted by both executors, with their
// ranges, options and defaults.
func Schema() []ExecutorSchema {
	return []ExecutorSchema{
		{
			Name:        ExecutorHistogram,
			Title:       "Histogram",
			Description: "Compute per-channel intensity histograms and optionally plot them",
			Configs: []ConfigField{
				toggle(ConfigChannelRed, "Red Channel", "Enable or disable the Red channel for histogram calculation."),
				toggle(ConfigChannelGreen, "Green Channel", "Enable or disable the Green channel for histogram calculation."),
				toggle(ConfigChannelBlue, "Blue Channel", "Enable or disable the Blue channel for histogram calculation."),
				toggle(ConfigChannelGray, "Gray Scale Channel", "Enable or disable the Gray Scale channel for histogram calculation."),
				{
					Name:        ConfigPixelMin,
					Title:       "Pixel Minimum Value",
					Description: "Minimum pixel value for histogram range. Valid range: 0-254.",
					Type:        "number",
					Field:       "textInput",
					Default:     0,
					Minimum:     bound(0),
					Maximum:     bound(254),
				},
				{
					Name:        ConfigPixelMax,
					Title:       "Pixel Maximum Value",
					Description: "Maximum pixel value for histogram range. Valid range: 1-255.",
					Type:        "number",
					Field:       "textInput",
					Default:     255,
					Minimum:     bound(1),
					Maximum:     bound(255),
				},
				toggle(ConfigPlotImage, "Histogram Plot", "Enable or disable histogram plot image output."),
			},
		},
		{
			Name:        ExecutorEqualization,
			Title:       "Equalization",
			Description: "Enhance local contrast with CLAHE",
			Configs: []ConfigField{
				{
					Name:        ConfigClipLimit,
					Title:       "CLAHE Clip Limit",
					Description: "Clip limit for CLAHE contrast enhancement. Higher values allow more contrast amplification.",
					Type:        "number",
					Field:       "textInput",
					Default:     2.0,
					Minimum:     bound(0.1),
					Maximum:     bound(40),
				},
				{
					Name:        ConfigTileGridSize,
					Title:       "Tile Grid Size",
					Description: "Tile grid size for CLAHE processing.",
					Type:        "object",
					Field:       "dropdownlist",
					Default:     TileGrid8x8,
					Options:     []string{TileGrid4x4, TileGrid8x8},
				},
			},
		},
	}
}

// ExecutorSchemaFor returns the schema of the named executor.
func ExecutorSchemaFor(name string) (ExecutorSchema, bool) {
	for _, s := range Schema() {
		if s.Name == name {
			return s, true
		}
	}
	return ExecutorSchema{}, false
}
