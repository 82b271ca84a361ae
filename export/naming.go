package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	qrkit "github.com/ericlevine/qrkit"
)

const maxNameLength = 100

// DefaultFileName is the suggested name of a single export made at t.
func DefaultFileName(t time.Time, format qrkit.Format) string {
	return fmt.Sprintf("qr-code-%d.%s", t.UnixMilli(), format.Extension())
}

// BatchFileName is the positional name of batch item index.
func BatchFileName(index int, format qrkit.Format) string {
	return fmt.Sprintf("qr-code-%d.%s", index+1, format.Extension())
}

// SanitizeName reduces a display name to a portable file name stem: accents
// are stripped, runs of anything but letters, digits, '.', '_' and '-' become
// a single '-', and leading or trailing dots and dashes are dropped. The
// result may be empty.
func SanitizeName(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '_', r == '-':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-.")
	if len(out) > maxNameLength {
		out = out[:maxNameLength]
	}
	return out
}

// itemName picks the file name of batch item index. A usable display name
// wins over the positional name; used tracks names taken earlier in the batch.
// A taken positional name gets a "-n" suffix until it is free.
func itemName(index int, display string, format qrkit.Format, used map[string]bool) string {
	ext := "." + format.Extension()
	stem := strings.TrimSuffix(SanitizeName(display), ext)
	name := stem + ext
	if stem == "" || used[strings.ToLower(name)] {
		name = BatchFileName(index, format)
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("qr-code-%d-%d%s", index+1, n, ext)
		}
	}
	used[strings.ToLower(name)] = true
	return name
}
