package model

import (
	"errors"
	"fmt"

	"github.com/ironsheep/histogram-update/internal/imaging"
)

// ErrInvalidResponse is wrapped by every Validate failure.
var ErrInvalidResponse = errors.New("invalid response")

const (
	outputImageName = "outputImage"
	outputDataName  = "outputData"
	configExecutor  = "ConfigExecutor"
)

// OutputImage carries the produced image reference. A nil Value is the
// absent image.
type OutputImage struct {
	Name  string    `json:"name"`
	Value *FrameRef `json:"value"`
	Type  string    `json:"type"`
}

// OutputData carries the histogram mapping of the Histogram executor.
type OutputData struct {
	Name  string              `json:"name"`
	Value *imaging.Histograms `json:"value"`
	Type  string              `json:"type"`
}

// Outputs of an executor. OutputData is set only by the Histogram executor.
type Outputs struct {
	OutputImage OutputImage `json:"outputImage"`
	OutputData  *OutputData `json:"outputData,omitempty"`
}

// ExecutorResponse wraps the outputs of one run.
type ExecutorResponse struct {
	Outputs Outputs `json:"outputs"`
}

// ExecutorResult is the tagged union over executors; Name selects the variant.
type ExecutorResult struct {
	Name  string           `json:"name"`
	Value ExecutorResponse `json:"value"`
	Type  string           `json:"type"`
	Field string           `json:"field"`
}

// ConfigExecutor holds the executor that produced the response.
type ConfigExecutor struct {
	Name    string         `json:"name"`
	Value   ExecutorResult `json:"value"`
	Type    string         `json:"type"`
	Field   string         `json:"field"`
	Restart bool           `json:"restart"`
}

// PackageConfigs is the config section of a response package.
type PackageConfigs struct {
	Executor ConfigExecutor `json:"executor"`
}

// Package is the response handed back to the pipeline framework.
type Package struct {
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	UID     string         `json:"uID"`
	Configs PackageConfigs `json:"configs"`
}

func newPackage(uID string, result ExecutorResult) *Package {
	return &Package{
		Name: PackageName,
		Type: PackageType,
		UID:  uID,
		Configs: PackageConfigs{
			Executor: ConfigExecutor{
				Name:    configExecutor,
				Value:   result,
				Type:    "executor",
				Field:   "dependentDropdownlist",
				Restart: true,
			},
		},
	}
}

func newOutputImage(image *FrameRef) OutputImage {
	return OutputImage{Name: outputImageName, Value: image, Type: "object"}
}

// BuildHistogramResponse builds and validates the Histogram executor
// response. A nil data becomes an empty mapping.
func BuildHistogramResponse(uID string, image *FrameRef, data *imaging.Histograms) (*Package, error) {
	if data == nil {
		data = imaging.NewHistograms()
	}
	pkg := newPackage(uID, ExecutorResult{
		Name: ExecutorHistogram,
		Value: ExecutorResponse{Outputs: Outputs{
			OutputImage: newOutputImage(image),
			OutputData:  &OutputData{Name: outputDataName, Value: data, Type: "object"},
		}},
		Type:  "object",
		Field: "option",
	})
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	return pkg, nil
}

// BuildEqualizationResponse builds and validates the Equalization executor
// response.
func BuildEqualizationResponse(uID string, image *FrameRef) (*Package, error) {
	pkg := newPackage(uID, ExecutorResult{
		Name: ExecutorEqualization,
		Value: ExecutorResponse{Outputs: Outputs{
			OutputImage: newOutputImage(image),
		}},
		Type:  "object",
		Field: "option",
	})
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Validate checks the package structure and the executor variant.
func (p *Package) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil package", ErrInvalidResponse)
	}
	if p.Name != PackageName || p.Type != PackageType {
		return fmt.Errorf("%w: package %q of type %q", ErrInvalidResponse, p.Name, p.Type)
	}
	exec := p.Configs.Executor
	if exec.Name != configExecutor {
		return fmt.Errorf("%w: executor config named %q", ErrInvalidResponse, exec.Name)
	}

	outputs := exec.Value.Value.Outputs
	if err := outputs.OutputImage.validate(); err != nil {
		return err
	}

	switch exec.Value.Name {
	case ExecutorHistogram:
		if outputs.OutputData == nil {
			return fmt.Errorf("%w: histogram response without output data", ErrInvalidResponse)
		}
		return outputs.OutputData.validate()
	case ExecutorEqualization:
		if outputs.OutputData != nil {
			return fmt.Errorf("%w: equalization response with output data", ErrInvalidResponse)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown executor %q", ErrInvalidResponse, exec.Value.Name)
	}
}

// Executor returns the executor variant name.
func (p *Package) Executor() string {
	return p.Configs.Executor.Value.Name
}

// Outputs returns the executor outputs.
func (p *Package) Outputs() Outputs {
	return p.Configs.Executor.Value.Value.Outputs
}

func (o OutputImage) validate() error {
	if o.Name != outputImageName {
		return fmt.Errorf("%w: output image named %q", ErrInvalidResponse, o.Name)
	}
	if o.Value == nil {
		return nil
	}
	if o.Value.Ref == "" {
		return fmt.Errorf("%w: output image without reference", ErrInvalidResponse)
	}
	if o.Value.Width < 0 || o.Value.Height < 0 {
		return fmt.Errorf("%w: output image size %dx%d", ErrInvalidResponse, o.Value.Width, o.Value.Height)
	}
	switch o.Value.Channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("%w: output image with %d channels", ErrInvalidResponse, o.Value.Channels)
	}
	return nil
}

func (d *OutputData) validate() error {
	if d.Name != outputDataName {
		return fmt.Errorf("%w: output data named %q", ErrInvalidResponse, d.Name)
	}
	if d.Value == nil {
		return fmt.Errorf("%w: output data without value", ErrInvalidResponse)
	}
	bins := -1
	for _, s := range d.Value.Series() {
		if bins >= 0 && len(s.Counts) != bins {
			return fmt.Errorf("%w: %s has %d bins, expected %d", ErrInvalidResponse, s.Channel, len(s.Counts), bins)
		}
		bins = len(s.Counts)
	}
	return nil
}
