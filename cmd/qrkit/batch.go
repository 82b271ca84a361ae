package main

import (
	"fmt"

	"github.com/spf13/cobra"

	qrkit "github.com/ericlevine/qrkit"
	"github.com/ericlevine/qrkit/composite"
	"github.com/ericlevine/qrkit/export"
	"github.com/ericlevine/qrkit/internal/config"
	"github.com/ericlevine/qrkit/payload"
	"github.com/ericlevine/qrkit/render"
)

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Render every code of a manifest into one directory",
	Long: `Render every item of a YAML manifest and save the images into one
directory. Items are named after their name field when it makes a usable file
name, and qr-code-<n> otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchRender      renderFlags
	batchDir         string
	batchLogo        string
	batchLogoScale   float64
	batchFormat      string
	batchInteractive bool
)

func init() {
	batchRender.register(batchCmd)
	f := batchCmd.Flags()
	f.StringVar(&batchDir, "dir", "", "output directory")
	f.StringVar(&batchLogo, "logo", "", "logo image to draw in the center of every code")
	f.Float64Var(&batchLogoScale, "logo-scale", 0.2, "logo width as a fraction of the code width (at most 0.5)")
	f.StringVarP(&batchFormat, "format", "f", "", "image format: png or jpg (svg is saved as png)")
	f.BoolVarP(&batchInteractive, "interactive", "i", false, "ask for the output directory")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m, err := config.LoadManifest(args[0])
	if err != nil {
		return err
	}
	opts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}
	if err := batchRender.apply(cmd, &opts); err != nil {
		return err
	}
	format, err := qrkit.ParseFormat(firstNonEmpty(batchFormat, cfg.Export.Format))
	if err != nil {
		return err
	}
	logoScale := cfg.Logo.Scale
	if cmd.Flags().Changed("logo-scale") {
		logoScale = batchLogoScale
	}
	logo, err := readLogo(firstNonEmpty(batchLogo, cfg.Logo.Path))
	if err != nil {
		return err
	}

	items := make([]export.BatchItem, 0, len(m.Items))
	for i, it := range m.Items {
		item, err := batchItem(cmd, it, opts, logo, logoScale, format)
		if err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	dir := firstNonEmpty(batchDir, cfg.Export.OutputDir)
	res := newExporter(cmd, "", dir, batchInteractive || cfg.Export.Interactive).ExportBatch(ctx, items)
	out := cmd.OutOrStdout()
	switch {
	case res.Canceled:
		fmt.Fprintln(out, "canceled")
		return nil
	case res.Rejected:
		return fmt.Errorf("%w: %s", errRejected, res.Error)
	case !res.Success:
		return fmt.Errorf("batch export failed: %s", res.Error)
	}

	for _, r := range res.Results {
		if r.Success {
			fmt.Fprintf(out, "%s (%s)\n", r.FilePath, fileSize(r.FilePath))
		} else {
			fmt.Fprintf(out, "%s: failed: %s\n", r.Name, r.Error)
		}
	}
	if n := res.Written(); n < len(items) {
		return fmt.Errorf("%d of %d items failed", len(items)-n, len(items))
	}
	return nil
}

// batchItem renders, composes and encodes one manifest item.
func batchItem(cmd *cobra.Command, it config.ManifestItem, opts render.Options, logo []byte, logoScale float64, format qrkit.Format) (export.BatchItem, error) {
	r, err := it.Record()
	if err != nil {
		return export.BatchItem{}, err
	}
	surface, err := render.Render(payload.Format(r), opts)
	if err != nil {
		return export.BatchItem{}, err
	}
	img, err := composite.Compose(cmd.Context(), surface, logo, logoScale)
	if err != nil {
		return export.BatchItem{}, err
	}
	uri, _, err := composite.EncodeDataURI(img, format)
	if err != nil {
		return export.BatchItem{}, err
	}
	return export.BatchItem{Name: it.Name, Artifact: []byte(uri)}, nil
}
