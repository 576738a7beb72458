package console

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
)

// ErrMalformedHex reports user-typed hex that cannot be parsed into bytes.
var ErrMalformedHex = errors.New("malformed hex input")

// Decode converts raw device bytes into display text for the given mode.
// It never fails: any byte sequence has a textual rendering.
func Decode(data []byte, mode DisplayMode) string {
	switch mode {
	case DisplayHexadecimal:
		return DecodeHex(data)
	default:
		return DecodePlainText(data)
	}
}

// DecodePlainText interprets data as UTF-8 when it round-trips byte-exact,
// falling back to a Latin-1 single-byte-per-rune reading otherwise.
func DecodePlainText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// DecodeHex renders data as two-digit hex groups separated by single spaces.
// The desktop console marks line breaks inside the dump: every "0a" group is
// followed by a carriage return and every "0d" group by a newline. The
// substitution is textual and runs over the whole dump, matching the device
// console it emulates.
func DecodeHex(data []byte) string {
	raw := hex.EncodeToString(data)

	var sb strings.Builder
	sb.Grow(len(raw) + len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		sb.WriteString(raw[i : i+2])
		sb.WriteByte(' ')
	}

	str := sb.String()
	str = strings.ReplaceAll(str, "0a", "0a\r")
	str = strings.ReplaceAll(str, "0d", "0d\n")
	return str
}

// Encode converts user-typed text into outbound bytes for the given mode.
func Encode(text string, mode DataMode) ([]byte, error) {
	switch mode {
	case DataHexadecimal:
		return EncodeHex(text)
	default:
		return []byte(text), nil
	}
}

// EncodeHex parses user-typed hex into bytes. Spaces are ignored; the
// remaining text must be an even number of hex digits. Rejecting malformed
// input outright avoids the silent truncation a naive pairwise parse invites.
func EncodeHex(text string) ([]byte, error) {
	clean := strings.ReplaceAll(text, " ", "")
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of digits", ErrMalformedHex)
	}

	out := make([]byte, 0, len(clean)/2)
	for i := 0; i < len(clean); i += 2 {
		v, err := strconv.ParseUint(clean[i:i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a hex pair", ErrMalformedHex, clean[i:i+2])
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// DetectCharset reports the most likely charset of raw device bytes, for the
// diagnostics surface. Returns "" when nothing can be inferred.
func DetectCharset(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return ""
	}
	return result.Charset
}
