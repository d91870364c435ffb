// Package utf7 implements the modified UTF-7 encoding defined in RFC 2152
// as used by IMAP mailbox names (RFC 3501 Section 5.1.3).
//
// Modified UTF-7 uses & as the shift character instead of +, and uses , instead
// of / in the base64 alphabet. The & character is encoded as &-.
//
// The shift-sequence framing and modified base64 alphabet have no library
// equivalent and are hand-rolled; the UTF-16BE conversion inside each
// shifted run is delegated to golang.org/x/text's unicode codec rather
// than the standard library's unicode/utf16. Decode checks surrogate
// pairing itself and rejects an unpaired surrogate before the conversion.
package utf7

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// modifiedBase64 is the base64 encoding used in modified UTF-7.
// It uses , instead of / from standard base64.
var modifiedBase64 = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+,").WithPadding(base64.NoPadding)

// utf16be is the codec used to convert between UTF-8 and big-endian UTF-16
// inside a shifted run; IMAP's modified UTF-7 never has a byte-order mark.
var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Encode encodes a UTF-8 string to modified UTF-7.
func Encode(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	var run strings.Builder

	flush := func() {
		if run.Len() == 0 {
			return
		}
		encoded, err := utf16be.NewEncoder().String(run.String())
		if err != nil {
			// Malformed UTF-8 can't reach here from a valid Go string;
			// fall back to dropping the run rather than panicking.
			run.Reset()
			return
		}
		buf.WriteByte('&')
		buf.WriteString(modifiedBase64.EncodeToString([]byte(encoded)))
		buf.WriteByte('-')
		run.Reset()
	}

	for _, r := range s {
		if r >= 0x20 && r <= 0x7e {
			flush()
			if r == '&' {
				buf.WriteString("&-")
			} else {
				buf.WriteRune(r)
			}
		} else {
			run.WriteRune(r)
		}
	}
	flush()

	return buf.String()
}

// Decode decodes a modified UTF-7 string to UTF-8.
func Decode(s string) (string, error) {
	var buf strings.Builder
	buf.Grow(len(s))

	i := 0
	for i < len(s) {
		if s[i] != '&' {
			buf.WriteByte(s[i])
			i++
			continue
		}

		// Found '&'
		i++
		if i >= len(s) {
			return "", fmt.Errorf("utf7: unexpected end after '&'")
		}

		if s[i] == '-' {
			// &- encodes literal '&'
			buf.WriteByte('&')
			i++
			continue
		}

		// Find the closing '-'
		end := strings.IndexByte(s[i:], '-')
		if end < 0 {
			return "", fmt.Errorf("utf7: missing closing '-' for base64 section")
		}

		encoded := s[i : i+end]
		i += end + 1 // skip past '-'

		decoded, err := modifiedBase64.DecodeString(encoded)
		if err != nil {
			return "", fmt.Errorf("utf7: invalid base64: %w", err)
		}
		if len(decoded)%2 != 0 {
			return "", fmt.Errorf("utf7: odd number of bytes in UTF-16 data")
		}
		for j := 0; j < len(decoded); j += 2 {
			u := uint16(decoded[j])<<8 | uint16(decoded[j+1])
			if u >= 0xDC00 && u <= 0xDFFF {
				return "", fmt.Errorf("utf7: unpaired low surrogate in UTF-16 data")
			}
			if u >= 0xD800 && u <= 0xDBFF {
				if j+3 >= len(decoded) || decoded[j+2]&0xFC != 0xDC {
					return "", fmt.Errorf("utf7: unpaired high surrogate in UTF-16 data")
				}
				j += 2
			}
		}

		text, err := utf16be.NewDecoder().Bytes(decoded)
		if err != nil {
			return "", fmt.Errorf("utf7: invalid UTF-16 data: %w", err)
		}
		buf.Write(text)
	}

	return buf.String(), nil
}
