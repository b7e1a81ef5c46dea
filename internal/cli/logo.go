package cli

import (
	"context"
	"fmt"
	"image/color"

	"github.com/spf13/cobra"

	apperrors "github.com/brunolnetto/barmaid/pkg/errors"
	"github.com/brunolnetto/barmaid/pkg/logo"
)

// logoOpts holds the command-line flags for the logo command.
type logoOpts struct {
	colorName string
	rgb       string
	maxSize   int
	threshold int
	enhance   bool
	upscale   int
}

// logoCommand creates the logo command, a small image filter for project
// logos: near-white background out, brand color in, tight crop, PNG out.
func (c *CLI) logoCommand() *cobra.Command {
	opts := &logoOpts{}

	cmd := &cobra.Command{
		Use:   "logo <input> <output>",
		Short: "Recolor a logo image and strip its background",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLogo(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.colorName, "color", "c", logo.DefaultPalette[0].Name, "logo color: "+logo.Names(logo.DefaultPalette))
	cmd.Flags().StringVar(&opts.rgb, "rgb", "", "custom color as R,G,B (overrides --color)")
	cmd.Flags().IntVarP(&opts.maxSize, "max-size", "s", logo.DefaultMaxSize, "maximum output width/height in pixels")
	cmd.Flags().IntVarP(&opts.threshold, "threshold", "t", logo.DefaultThreshold, "pixels brighter than this on every channel go transparent")
	cmd.Flags().BoolVar(&opts.enhance, "enhance", false, "upscale and sharpen before masking for crisper edges")
	cmd.Flags().IntVar(&opts.upscale, "upscale", logo.DefaultUpscale, "enhancement scale factor")

	return cmd
}

// logoColor resolves the requested color, --rgb winning over --color.
func logoColor(opts *logoOpts) (color.NRGBA, error) {
	if opts.rgb != "" {
		return logo.ParseRGB(opts.rgb)
	}
	return logo.Lookup(logo.DefaultPalette, opts.colorName)
}

// runLogo applies the filter and reports the written file.
func (c *CLI) runLogo(ctx context.Context, input, output string, opts *logoOpts) error {
	logger := loggerFromContext(ctx)

	col, err := logoColor(opts)
	if err != nil {
		return err
	}
	// The filter takes a uint8; reject values that would silently wrap.
	if opts.threshold < 0 || opts.threshold > 255 {
		return apperrors.New(apperrors.ErrCodeInvalidThreshold, "invalid threshold %d (must be 0-255)", opts.threshold)
	}

	p := newProgress(logger)
	result, err := logo.Process(input, output, logo.Options{
		Color:     col,
		MaxSize:   opts.maxSize,
		Threshold: uint8(opts.threshold),
		Enhance:   opts.enhance,
		Upscale:   opts.upscale,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Processed %s", input))

	printSuccess("Logo processed successfully")
	printFile(output)
	printDetail("final size %dx%d", result.Width, result.Height)
	return nil
}
