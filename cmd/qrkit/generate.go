package main

import (
	"fmt"

	"github.com/spf13/cobra"

	qrkit "github.com/ericlevine/qrkit"
	"github.com/ericlevine/qrkit/export"
	"github.com/ericlevine/qrkit/internal/config"
	"github.com/ericlevine/qrkit/payload"
	"github.com/ericlevine/qrkit/prefs"
	"github.com/ericlevine/qrkit/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render a QR code and save it",
	Long: `Render a QR code for the record given by flags and save it as an image.

Without --kind the saved record and customization from the last --save-prefs
run are used. Without --out or --interactive the image is written to the
downloads folder.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var (
	genItem        config.ManifestItem
	genRender      renderFlags
	genLogo        string
	genLogoScale   float64
	genFormat      string
	genOut         string
	genFileName    string
	genInteractive bool
	genSavePrefs   bool
)

func init() {
	addRecordFlags(generateCmd, &genItem)
	genRender.register(generateCmd)
	f := generateCmd.Flags()
	f.StringVar(&genLogo, "logo", "", "logo image to draw in the center")
	f.Float64Var(&genLogoScale, "logo-scale", 0.2, "logo width as a fraction of the code width (at most 0.5)")
	f.StringVarP(&genFormat, "format", "f", "", "image format: png or jpg (svg is saved as png)")
	f.StringVarP(&genOut, "out", "o", "", "output file or directory")
	f.StringVar(&genFileName, "file-name", "", "suggested file name (default qr-code-<timestamp>)")
	f.BoolVarP(&genInteractive, "interactive", "i", false, "ask where to save")
	f.BoolVar(&genSavePrefs, "save-prefs", false, "remember this record and customization")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	p, err := prefs.Load(cfg.Preferences.Path)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	r, ok, err := flagRecord(cmd, &genItem)
	if err != nil {
		return err
	}
	var (
		opts      render.Options
		logoScale = cfg.Logo.Scale
		format    = cfg.Export.Format
	)
	if ok {
		if opts, err = cfg.RenderOptions(); err != nil {
			return err
		}
	} else {
		r = p.Record()
		opts = p.RenderOptions()
		logoScale = p.LogoScale
		format = p.Format
	}
	if err := genRender.apply(cmd, &opts); err != nil {
		return err
	}
	if cmd.Flags().Changed("logo-scale") {
		logoScale = genLogoScale
	}
	if genFormat != "" {
		format = genFormat
	}
	f, err := qrkit.ParseFormat(format)
	if err != nil {
		return err
	}

	text := payload.Format(r)
	log.Debugw("rendering", "kind", r.Kind(), "payload", text, "size", opts.Size, "level", opts.Level)
	surface, err := render.Render(text, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	logo, err := readLogo(firstNonEmpty(genLogo, cfg.Logo.Path))
	if err != nil {
		return err
	}

	if genSavePrefs {
		p.SetRecord(r)
		p.Size = opts.Size
		p.Foreground = opts.Foreground
		p.Background = opts.Background
		p.Level = opts.Level
		p.Margin = opts.Margin
		p.IncludeMargin = opts.IncludeMargin
		p.LogoScale = logoScale
		p.Format = f.String()
		if err := prefs.Save(cfg.Preferences.Path, p); err != nil {
			log.Warnw("failed to save preferences", "error", err)
		}
	}

	exp := newExporter(cmd,
		firstNonEmpty(genOut, cfg.Export.SavePath, cfg.Export.OutputDir),
		cfg.Export.OutputDir,
		genInteractive || cfg.Export.Interactive)
	res := exp.ExportSingle(cmd.Context(), export.Request{
		Surface:   surface,
		Logo:      logo,
		LogoScale: logoScale,
		Format:    f,
		FileName:  genFileName,
	})
	return reportSingle(cmd, res)
}
