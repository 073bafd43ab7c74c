package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/histogram-update/internal/executor"
	"github.com/ironsheep/histogram-update/internal/frame"
	"github.com/ironsheep/histogram-update/internal/imaging"
	"github.com/ironsheep/histogram-update/internal/logger"
	"github.com/ironsheep/histogram-update/internal/model"
)

// cliOwner owns frames created by one-shot commands.
const cliOwner = "cli"

type histogramOptions struct {
	in, out, json          string
	min, max               int
	red, green, blue, gray bool
	plot                   bool
}

func newHistogramCommand() *cobra.Command {
	var opts histogramOptions

	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Compute channel histograms of an image file",
		Example: `  histogram-update histogram --in photo.png --gray --json -
  histogram-update histogram --in photo.png --red --green --blue --plot --out plot.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := setup()
			if err != nil {
				return err
			}
			return runHistogram(cmd.Context(), cmd.OutOrStdout(), log, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "", "input image file")
	f.StringVar(&opts.out, "out", "", "write the output image (the plot when --plot is set) to this file")
	f.StringVar(&opts.json, "json", "", "write the histograms as JSON to this file, - for stdout")
	f.IntVar(&opts.min, "min", imaging.PixelFloor, "lowest pixel value counted (0-254)")
	f.IntVar(&opts.max, "max", imaging.PixelCeiling, "highest pixel value counted (1-255)")
	f.BoolVar(&opts.red, "red", false, "include the red channel")
	f.BoolVar(&opts.green, "green", false, "include the green channel")
	f.BoolVar(&opts.blue, "blue", false, "include the blue channel")
	f.BoolVar(&opts.gray, "gray", false, "include the luminance channel")
	f.BoolVar(&opts.plot, "plot", false, "replace the output image with a histogram plot")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

type equalizeOptions struct {
	in, out string
	clip    float64
	grid    int
}

func newEqualizeCommand() *cobra.Command {
	var opts equalizeOptions

	cmd := &cobra.Command{
		Use:     "equalize",
		Short:   "Apply CLAHE contrast equalization to an image file",
		Example: `  histogram-update equalize --in dark.png --out bright.png --clip 3 --grid 4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := setup()
			if err != nil {
				return err
			}
			return runEqualize(cmd.Context(), cmd.OutOrStdout(), log, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "", "input image file")
	f.StringVar(&opts.out, "out", "", "output image file")
	f.Float64Var(&opts.clip, "clip", imaging.DefaultClipLimit, "CLAHE clip limit (0.1-40)")
	f.IntVar(&opts.grid, "grid", imaging.DefaultTileGrid, "CLAHE tiles per side")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func enabled(on bool) string {
	if on {
		return model.OptionEnabled
	}
	return model.OptionDisabled
}

// loadInput stores the image at path in a fresh memory store.
func loadInput(ctx context.Context, path string) (*frame.MemoryStore, *model.FrameRef, error) {
	f, err := frame.Load(path)
	if err != nil {
		return nil, nil, err
	}
	store := frame.NewMemoryStore()
	ref, err := store.Put(ctx, f, cliOwner)
	if err != nil {
		return nil, nil, err
	}
	return store, model.NewFrameRef(ref, f), nil
}

// saveOutput writes the package's output image to path.
func saveOutput(ctx context.Context, store frame.Store, pkg *model.Package, path string) error {
	out := pkg.Outputs().OutputImage.Value
	if out == nil {
		return errors.New("no output image")
	}
	f, err := store.Fetch(ctx, out.Ref)
	if err != nil {
		return err
	}
	return frame.Save(path, f)
}

func runHistogram(ctx context.Context, stdout io.Writer, log logger.Logger, opts histogramOptions) error {
	store, in, err := loadInput(ctx, opts.in)
	if err != nil {
		return err
	}

	req, err := model.NewRequest(cliOwner, model.ExecutorHistogram, in, map[string]interface{}{
		model.ConfigChannelRed:   enabled(opts.red),
		model.ConfigChannelGreen: enabled(opts.green),
		model.ConfigChannelBlue:  enabled(opts.blue),
		model.ConfigChannelGray:  enabled(opts.gray),
		model.ConfigPixelMin:     opts.min,
		model.ConfigPixelMax:     opts.max,
		model.ConfigPlotImage:    enabled(opts.plot),
	})
	if err != nil {
		return err
	}

	pkg, err := executor.NewHistogram(store, log).Run(ctx, req)
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := saveOutput(ctx, store, pkg, opts.out); err != nil {
			return err
		}
	}

	data := pkg.Outputs().OutputData.Value
	switch opts.json {
	case "":
		for _, s := range data.Series() {
			total := 0
			for _, c := range s.Counts {
				total += c
			}
			fmt.Fprintf(stdout, "%-5s bins=%d pixels=%d\n", s.Channel, len(s.Counts), total)
		}
	case "-":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	default:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.json, b, 0o644); err != nil {
			return fmt.Errorf("failed to write histograms: %w", err)
		}
	}
	return nil
}

func runEqualize(ctx context.Context, stdout io.Writer, log logger.Logger, opts equalizeOptions) error {
	store, in, err := loadInput(ctx, opts.in)
	if err != nil {
		return err
	}

	req, err := model.NewRequest(cliOwner, model.ExecutorEqualization, in, map[string]interface{}{
		model.ConfigClipLimit:    opts.clip,
		model.ConfigTileGridSize: opts.grid,
	})
	if err != nil {
		return err
	}

	pkg, err := executor.NewEqualization(store, log).Run(ctx, req)
	if err != nil {
		return err
	}
	if err := saveOutput(ctx, store, pkg, opts.out); err != nil {
		return err
	}

	out := pkg.Outputs().OutputImage.Value
	fmt.Fprintf(stdout, "%s: %dx%d, %d channels (%s equalizer)\n", opts.out, out.Width, out.Height, out.Channels, imaging.Backend)
	return nil
}
