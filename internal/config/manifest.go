package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ericlevine/qrkit/payload"
)

// Manifest lists the codes of a batch export.
type Manifest struct {
	Items []ManifestItem `yaml:"items"`
}

// ManifestItem is one code of a batch. Kind selects which of the record
// fields apply.
type ManifestItem struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// text
	Content string `yaml:"content"`

	// contact
	Mode  string `yaml:"mode"`
	Value string `yaml:"value"`

	// location
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`

	// wifi
	SSID       string `yaml:"ssid"`
	Encryption string `yaml:"encryption"`
	Password   string `yaml:"password"`

	// businessCard
	FullName string `yaml:"full_name"`
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	Company  string `yaml:"company"`
	Title    string `yaml:"title"`
	Address  string `yaml:"address"`
	Website  string `yaml:"website"`
}

// Record builds the item's record. An unknown kind, contact mode or
// encryption fails with qrkit.ErrUnsupportedType.
func (it ManifestItem) Record() (payload.Record, error) {
	kind, err := payload.ParseKind(it.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case payload.KindContact:
		mode, err := payload.ParseContactMode(it.Mode)
		if err != nil {
			return nil, err
		}
		return payload.Contact{Mode: mode, Value: it.Value}, nil
	case payload.KindLocation:
		return payload.Location{Latitude: it.Latitude, Longitude: it.Longitude}, nil
	case payload.KindWifi:
		enc, err := payload.ParseEncryption(it.Encryption)
		if err != nil {
			return nil, err
		}
		return payload.Wifi{SSID: it.SSID, Encryption: enc, Password: it.Password}, nil
	case payload.KindBusinessCard:
		return payload.BusinessCard{
			Name:    it.FullName,
			Phone:   it.Phone,
			Email:   it.Email,
			Company: it.Company,
			Title:   it.Title,
			Address: it.Address,
			Website: it.Website,
		}, nil
	default:
		return payload.Text{Content: it.Content}, nil
	}
}

// LoadManifest reads a batch manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Items) == 0 {
		return nil, fmt.Errorf("manifest %s lists no items", path)
	}
	return &m, nil
}
