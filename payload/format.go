package payload

import (
	"strconv"
	"strings"
)

// Format returns the payload string for any record.
func Format(r Record) string {
	return r.Payload()
}

// FormatText returns the content unchanged. An empty content is an empty
// payload.
func FormatText(r Text) string {
	return r.Content
}

// FormatContact returns a tel: or mailto: URI. The value is not escaped.
func FormatContact(r Contact) string {
	if r.Mode == ContactTelephone {
		return "tel:" + r.Value
	}
	return "mailto:" + r.Value
}

// FormatLocation returns a geo: URI with both coordinates in their shortest
// round-trip decimal form, e.g. "geo:40.7128,-74.006".
func FormatLocation(r Location) string {
	return "geo:" + decimal(r.Latitude) + "," + decimal(r.Longitude)
}

func decimal(f float64) string {
	if f == 0 {
		// Covers negative zero.
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatWifi returns a WIFI: network configuration string. Open networks never
// carry a P: segment.
//
// Delimiters inside SSID or password are not escaped; readers that follow the
// format strictly will misparse values containing ';', ',', ':' or '\'.
func FormatWifi(r Wifi) string {
	if r.Encryption == EncryptionNone {
		return "WIFI:S:" + r.SSID + ";T:nopass;;"
	}
	return "WIFI:S:" + r.SSID + ";T:" + string(r.Encryption) + ";P:" + r.Password + ";;"
}

// FormatBusinessCard returns a vCard 3.0 record. Populated fields appear in
// the order FN, ORG, TITLE, TEL, EMAIL, ADR, URL; empty fields are omitted.
// Lines are separated by "\n" and there is no newline after END:VCARD. Field
// values are not escaped.
func FormatBusinessCard(r BusinessCard) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\nVERSION:3.0\n")
	for _, f := range []struct{ tag, value string }{
		{"FN", r.Name},
		{"ORG", r.Company},
		{"TITLE", r.Title},
		{"TEL", r.Phone},
		{"EMAIL", r.Email},
		{"ADR", r.Address},
		{"URL", r.Website},
	} {
		if f.value == "" {
			continue
		}
		b.WriteString(f.tag)
		b.WriteByte(':')
		b.WriteString(f.value)
		b.WriteByte('\n')
	}
	b.WriteString("END:VCARD")
	return b.String()
}
