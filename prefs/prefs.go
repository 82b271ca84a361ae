// Package prefs persists the user's last-used record and customization.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/facebookgo/atomicfile"
	logging "github.com/ipfs/go-log/v2"
	"github.com/tidwall/gjson"

	qrkit "github.com/ericlevine/qrkit"
	"github.com/ericlevine/qrkit/payload"
	"github.com/ericlevine/qrkit/render"
)

var log = logging.Logger("qrkit/prefs")

// CurrentVersion is the version written by Save.
const CurrentVersion = 1

// ErrUnsupportedVersion is returned for preference files written by a newer
// release.
var ErrUnsupportedVersion = errors.New("unsupported preferences version")

// Preferences is the saved state. Every field is filled after Load, whether
// or not the file had it.
type Preferences struct {
	Version int `json:"version"`

	Kind         payload.Kind         `json:"kind"`
	Text         payload.Text         `json:"text"`
	Contact      payload.Contact      `json:"contact"`
	Location     payload.Location     `json:"location"`
	Wifi         payload.Wifi         `json:"wifi"`
	BusinessCard payload.BusinessCard `json:"businessCard"`

	Size          int          `json:"size"`
	Foreground    string       `json:"fgColor"`
	Background    string       `json:"bgColor"`
	Level         render.Level `json:"errorCorrectionLevel"`
	Margin        int          `json:"margin"`
	IncludeMargin bool         `json:"includeMargin"`
	LogoScale     float64      `json:"logoScale"`
	Format        string       `json:"format"`
}

// Default returns the preferences of a fresh install.
func Default() Preferences {
	opts := render.DefaultOptions()
	return Preferences{
		Version:       CurrentVersion,
		Kind:          payload.KindText,
		Text:          payload.Text{Content: "Hello, World!"},
		Contact:       payload.Contact{Mode: payload.ContactTelephone},
		Wifi:          payload.Wifi{Encryption: payload.EncryptionWPA2},
		Size:          opts.Size,
		Foreground:    opts.Foreground,
		Background:    opts.Background,
		Level:         opts.Level,
		Margin:        opts.Margin,
		IncludeMargin: opts.IncludeMargin,
		LogoScale:     0.2,
		Format:        qrkit.FormatPNG.String(),
	}
}

// DefaultPath returns the preferences file in the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "qrkit", "preferences.json")
}

// Record returns the record of the active kind.
func (p *Preferences) Record() payload.Record {
	switch p.Kind {
	case payload.KindContact:
		return p.Contact
	case payload.KindLocation:
		return p.Location
	case payload.KindWifi:
		return p.Wifi
	case payload.KindBusinessCard:
		return p.BusinessCard
	default:
		return p.Text
	}
}

// SetRecord stores r and makes its kind active.
func (p *Preferences) SetRecord(r payload.Record) {
	p.Kind = r.Kind()
	switch v := r.(type) {
	case payload.Text:
		p.Text = v
	case payload.Contact:
		p.Contact = v
	case payload.Location:
		p.Location = v
	case payload.Wifi:
		p.Wifi = v
	case payload.BusinessCard:
		p.BusinessCard = v
	}
}

// RenderOptions returns the saved customization as render options.
func (p *Preferences) RenderOptions() render.Options {
	return render.Options{
		Size:          p.Size,
		Foreground:    p.Foreground,
		Background:    p.Background,
		Level:         p.Level,
		Margin:        p.Margin,
		IncludeMargin: p.IncludeMargin,
	}
}

// Load reads preferences from path. A missing file yields Default. Files
// from before preferences were versioned are migrated.
func Load(path string) (Preferences, error) {
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Preferences{}, err
	}
	return Parse(data)
}

// Parse decodes preferences, filling absent fields with defaults.
func Parse(data []byte) (Preferences, error) {
	if !gjson.ValidBytes(data) {
		return Preferences{}, errors.New("preferences are not valid JSON")
	}
	version := gjson.GetBytes(data, "version")
	switch {
	case !version.Exists():
		log.Infow("migrating unversioned preferences")
		return migrateLegacy(data), nil
	case version.Int() > CurrentVersion:
		return Preferences{}, fmt.Errorf("version %d: %w", version.Int(), ErrUnsupportedVersion)
	}

	// Unmarshal into the defaults so absent fields keep them.
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	p.Version = CurrentVersion
	p.fill()
	return p, nil
}

// fill replaces unusable values with defaults.
func (p *Preferences) fill() {
	def := Default()
	if _, err := payload.ParseKind(string(p.Kind)); err != nil {
		p.Kind = def.Kind
	}
	if p.Size <= 0 {
		p.Size = def.Size
	}
	if _, err := render.ParseHexColor(p.Foreground); err != nil {
		p.Foreground = def.Foreground
	}
	if _, err := render.ParseHexColor(p.Background); err != nil {
		p.Background = def.Background
	}
	if l, err := render.ParseLevel(string(p.Level)); err != nil {
		p.Level = def.Level
	} else {
		p.Level = l
	}
	if p.Margin < 0 {
		p.Margin = def.Margin
	}
	if p.LogoScale <= 0 || p.LogoScale > 1 {
		p.LogoScale = def.LogoScale
	}
	if _, err := qrkit.ParseFormat(p.Format); err != nil {
		p.Format = def.Format
	}
}

// migrateLegacy reads the untyped blob older releases saved: dataType,
// textData, contactData, locationData, wifiData, businessCardData, size,
// fgColor and bgColor.
func migrateLegacy(data []byte) Preferences {
	p := Default()
	get := func(path string) gjson.Result { return gjson.GetBytes(data, path) }
	str := func(path string, dst *string) {
		if r := get(path); r.Exists() && r.Type == gjson.String {
			*dst = r.String()
		}
	}

	if r := get("dataType"); r.Exists() {
		p.Kind = payload.Kind(r.String())
	}
	str("textData.content", &p.Text.Content)
	if m, err := payload.ParseContactMode(get("contactData.type").String()); err == nil {
		p.Contact.Mode = m
	}
	str("contactData.value", &p.Contact.Value)
	if r := get("locationData.latitude"); r.Exists() {
		p.Location.Latitude = r.Float()
	}
	if r := get("locationData.longitude"); r.Exists() {
		p.Location.Longitude = r.Float()
	}
	str("wifiData.ssid", &p.Wifi.SSID)
	if r := get("wifiData.encryption"); r.Exists() {
		if e, err := payload.ParseEncryption(r.String()); err == nil {
			p.Wifi.Encryption = e
		}
	}
	str("wifiData.password", &p.Wifi.Password)
	card := &p.BusinessCard
	for path, dst := range map[string]*string{
		"businessCardData.name":    &card.Name,
		"businessCardData.phone":   &card.Phone,
		"businessCardData.email":   &card.Email,
		"businessCardData.company": &card.Company,
		"businessCardData.title":   &card.Title,
		"businessCardData.address": &card.Address,
		"businessCardData.website": &card.Website,
	} {
		str(path, dst)
	}
	if r := get("size"); r.Exists() {
		p.Size = int(r.Int())
	}
	str("fgColor", &p.Foreground)
	str("bgColor", &p.Background)
	p.fill()
	return p
}

// Save writes p to path as indented JSON, replacing the file atomically.
func Save(path string, p Preferences) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	p.Version = CurrentVersion
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	f, err := atomicfile.New(path, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}
