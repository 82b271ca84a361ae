package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericlevine/qrkit/internal/config"
	"github.com/ericlevine/qrkit/payload"
	"github.com/ericlevine/qrkit/prefs"
	"github.com/ericlevine/qrkit/render"
)

// addRecordFlags binds the record fields of item to cmd's flags.
func addRecordFlags(cmd *cobra.Command, item *config.ManifestItem) {
	f := cmd.Flags()
	f.StringVarP(&item.Kind, "kind", "k", "", "record kind: text, contact, location, wifi or businessCard")
	f.StringVarP(&item.Content, "text", "t", "", "text or URL (text)")
	f.StringVar(&item.Mode, "contact-mode", "tel", "tel or mailto (contact)")
	f.StringVar(&item.Value, "value", "", "phone number or email address (contact)")
	f.Float64Var(&item.Latitude, "lat", 0, "latitude (location)")
	f.Float64Var(&item.Longitude, "lon", 0, "longitude (location)")
	f.StringVar(&item.SSID, "ssid", "", "network name (wifi)")
	f.StringVar(&item.Encryption, "encryption", "WPA2", "WEP, WPA, WPA2 or nopass (wifi)")
	f.StringVar(&item.Password, "password", "", "network password (wifi)")
	f.StringVar(&item.FullName, "name", "", "full name (businessCard)")
	f.StringVar(&item.Phone, "phone", "", "phone number (businessCard)")
	f.StringVar(&item.Email, "email", "", "email address (businessCard)")
	f.StringVar(&item.Company, "company", "", "company (businessCard)")
	f.StringVar(&item.Title, "title", "", "job title (businessCard)")
	f.StringVar(&item.Address, "address", "", "postal address (businessCard)")
	f.StringVar(&item.Website, "website", "", "website (businessCard)")
}

// flagRecord builds the record given on the command line. It reports false
// when no kind was given, so the saved record should be used instead.
func flagRecord(cmd *cobra.Command, item *config.ManifestItem) (payload.Record, bool, error) {
	if item.Kind == "" && cmd.Flags().Changed("text") {
		item.Kind = string(payload.KindText)
	}
	if item.Kind == "" {
		return nil, false, nil
	}
	r, err := item.Record()
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// renderFlags overrides render options with the flags the user set.
type renderFlags struct {
	size     int
	fg       string
	bg       string
	level    string
	margin   int
	noMargin bool
}

func (rf *renderFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&rf.size, "size", "s", 256, "image width and height in pixels")
	f.StringVar(&rf.fg, "fg", "#000000", "module color")
	f.StringVar(&rf.bg, "bg", "#ffffff", "background color")
	f.StringVarP(&rf.level, "level", "l", "M", "error correction level: L, M, Q or H")
	f.IntVar(&rf.margin, "margin", 0, "quiet zone in modules (0 for the standard 4)")
	f.BoolVar(&rf.noMargin, "no-margin", false, "omit the quiet zone")
}

func (rf *renderFlags) apply(cmd *cobra.Command, opts *render.Options) error {
	f := cmd.Flags()
	if f.Changed("size") {
		opts.Size = rf.size
	}
	if f.Changed("fg") {
		opts.Foreground = rf.fg
	}
	if f.Changed("bg") {
		opts.Background = rf.bg
	}
	if f.Changed("level") {
		level, err := render.ParseLevel(rf.level)
		if err != nil {
			return err
		}
		opts.Level = level
	}
	if f.Changed("margin") {
		opts.Margin = rf.margin
	}
	if f.Changed("no-margin") {
		opts.IncludeMargin = !rf.noMargin
	}
	return nil
}

// readLogo loads the logo file, if any.
func readLogo(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}
	return data, nil
}

var (
	payloadItem config.ManifestItem
	payloadJSON bool
)

var payloadCmd = &cobra.Command{
	Use:   "payload",
	Short: "Print the QR payload for a record",
	Long: `Print the string a QR code encodes for the record given by flags, or for
the saved record when no --kind is given.`,
	Args: cobra.NoArgs,
	RunE: runPayload,
}

func init() {
	addRecordFlags(payloadCmd, &payloadItem)
	payloadCmd.Flags().BoolVar(&payloadJSON, "json", false, "print the record as a kind/data envelope instead")
}

func runPayload(cmd *cobra.Command, args []string) error {
	r, ok, err := flagRecord(cmd, &payloadItem)
	if err != nil {
		return err
	}
	if !ok {
		p, err := prefs.Load(cfg.Preferences.Path)
		if err != nil {
			return fmt.Errorf("failed to load preferences: %w", err)
		}
		r = p.Record()
	}

	if payloadJSON {
		data, err := payload.Marshal(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), payload.Format(r))
	return nil
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or reset saved preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := prefs.Load(cfg.Preferences.Path)
		if err != nil {
			return fmt.Errorf("failed to load preferences: %w", err)
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := prefs.Save(cfg.Preferences.Path, prefs.Default()); err != nil {
			return fmt.Errorf("failed to save preferences: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "preferences reset")
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsResetCmd)
}
