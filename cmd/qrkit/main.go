// Package main provides the qrkit command: it formats QR payloads, renders
// and exports codes, and scans them back.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/ericlevine/qrkit/export"
	"github.com/ericlevine/qrkit/fsstore"
	"github.com/ericlevine/qrkit/internal/config"
)

var log = logging.Logger("qrkit")

var rootCmd = &cobra.Command{
	Use:   "qrkit",
	Short: "Generate, export and scan QR codes",
	Long: `qrkit turns text, contacts, locations, Wi-Fi credentials and business
cards into QR codes, optionally with a centered logo, and saves them as PNG or
JPEG images one at a time or in batches.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	configPath string
	debug      bool

	cfg = config.Default()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(payloadCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(prefsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and sets log levels before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = c

	level := logging.LevelWarn
	if debug {
		level = logging.LevelDebug
	} else if l, err := logging.LevelFromString(cfg.Log.Level); err == nil {
		level = l
	}
	logging.SetAllLoggers(level)
	log.Debugw("configuration loaded", "path", configPath)
	return nil
}

// newExporter wires the filesystem store and downloads folder into an
// Exporter. Without a destination or a terminal to ask, single exports go
// straight to the downloads folder.
func newExporter(cmd *cobra.Command, savePath, dir string, interactive bool) *export.Exporter {
	downloads := fsstore.Downloads{Dir: cfg.Export.DownloadsDir}
	if downloads.Dir == "" {
		downloads.Dir = fsstore.DefaultDownloadsDir()
	}

	var store export.Persistence
	switch {
	case interactive:
		def := dir
		if def == "" {
			def = "."
		}
		store = fsstore.New(fsstore.NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr(), def))
	case savePath != "" || dir != "":
		store = fsstore.New(fsstore.Fixed{SavePath: savePath, Dir: dir})
	}
	return export.New(store, downloads)
}

// errRejected is returned when the exporter refused a request.
var errRejected = errors.New("export rejected")

func reportSingle(cmd *cobra.Command, res export.DeliveryResult) error {
	out := cmd.OutOrStdout()
	switch {
	case res.Canceled:
		fmt.Fprintln(out, "canceled")
		return nil
	case res.Rejected:
		return fmt.Errorf("%w: %s", errRejected, res.Error)
	case !res.Success:
		return errors.New(res.Error)
	}
	fmt.Fprintf(out, "%s (%s)\n", res.FilePath, fileSize(res.FilePath))
	return nil
}

func fileSize(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}
	return humanize.Bytes(uint64(fi.Size()))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
