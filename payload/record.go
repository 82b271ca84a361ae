// Package payload maps typed input records to the exact text a QR code
// symbol must carry for scanners to recognize it as a URL, phone number,
// e-mail address, geolocation, Wi-Fi network or contact card.
package payload

import (
	"fmt"

	qrkit "github.com/ericlevine/qrkit"
)

// Kind discriminates the record variants.
type Kind string

const (
	KindText         Kind = "text"
	KindContact      Kind = "contact"
	KindLocation     Kind = "location"
	KindWifi         Kind = "wifi"
	KindBusinessCard Kind = "businessCard"
)

// Kinds lists every record kind.
var Kinds = []Kind{KindText, KindContact, KindLocation, KindWifi, KindBusinessCard}

// ParseKind maps a discriminant string to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("record kind %q: %w", s, qrkit.ErrUnsupportedType)
}

// Record is one of Text, Contact, Location, Wifi or BusinessCard. The set is
// closed: only this package can add variants.
type Record interface {
	Kind() Kind
	Payload() string
	isRecord()
}

// Text is free text or a URL.
type Text struct {
	Content string `json:"content"`
}

// ContactMode selects the URI scheme of a Contact.
type ContactMode string

const (
	ContactTelephone ContactMode = "tel"
	ContactEmail     ContactMode = "mailto"
)

// ParseContactMode accepts "tel", "phone", "telephone", "mailto" or "email".
func ParseContactMode(s string) (ContactMode, error) {
	switch s {
	case "tel", "phone", "telephone":
		return ContactTelephone, nil
	case "mailto", "email":
		return ContactEmail, nil
	}
	return "", fmt.Errorf("contact mode %q: %w", s, qrkit.ErrUnsupportedType)
}

// Contact is a phone number or e-mail address. Value is not validated.
type Contact struct {
	Mode  ContactMode `json:"type"`
	Value string      `json:"value"`
}

// Location is a point on the globe. Coordinates are neither clamped nor
// rounded.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Encryption is the security type of a Wi-Fi network.
type Encryption string

const (
	EncryptionWEP  Encryption = "WEP"
	EncryptionWPA  Encryption = "WPA"
	EncryptionWPA2 Encryption = "WPA2"
	EncryptionNone Encryption = "nopass"
)

// ParseEncryption accepts WEP, WPA, WPA2, nopass or none.
func ParseEncryption(s string) (Encryption, error) {
	switch s {
	case "WEP", "wep":
		return EncryptionWEP, nil
	case "WPA", "wpa":
		return EncryptionWPA, nil
	case "WPA2", "wpa2":
		return EncryptionWPA2, nil
	case "nopass", "none", "":
		return EncryptionNone, nil
	}
	return "", fmt.Errorf("wifi encryption %q: %w", s, qrkit.ErrUnsupportedType)
}

// Wifi holds network credentials. Password is ignored for open networks.
type Wifi struct {
	SSID       string     `json:"ssid"`
	Encryption Encryption `json:"encryption"`
	Password   string     `json:"password"`
}

// BusinessCard is a contact card. Every field is optional in the output.
type BusinessCard struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Title   string `json:"title,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
}

func (Text) Kind() Kind         { return KindText }
func (Contact) Kind() Kind      { return KindContact }
func (Location) Kind() Kind     { return KindLocation }
func (Wifi) Kind() Kind         { return KindWifi }
func (BusinessCard) Kind() Kind { return KindBusinessCard }

func (r Text) Payload() string         { return FormatText(r) }
func (r Contact) Payload() string      { return FormatContact(r) }
func (r Location) Payload() string     { return FormatLocation(r) }
func (r Wifi) Payload() string         { return FormatWifi(r) }
func (r BusinessCard) Payload() string { return FormatBusinessCard(r) }

func (Text) isRecord()         {}
func (Contact) isRecord()      {}
func (Location) isRecord()     {}
func (Wifi) isRecord()         {}
func (BusinessCard) isRecord() {}
