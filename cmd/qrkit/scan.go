package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericlevine/qrkit/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan <image-file> [image-file...]",
	Short: "Decode the QR codes in image files",
	Long:  `Decode the QR code in each image file (PNG, JPEG, GIF) and print its payload.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScan,
}

var errScanFailed = errors.New("some images could not be decoded")

func runScan(cmd *cobra.Command, args []string) error {
	failed := false
	for _, path := range args {
		text, err := scan.File(path)
		if err != nil {
			if errors.Is(err, scan.ErrNotFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: no QR code found\n", path)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: error: %v\n", path, err)
			}
			failed = true
			continue
		}
		if len(args) > 1 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ", path)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
	}
	if failed {
		return errScanFailed
	}
	return nil
}
