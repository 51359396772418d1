// Package encoding decodes model text files to UTF-8 before parsing.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is returned for an unsupported charset name.
var ErrUnknownCharset = errors.New("unknown charset")

// Supported charset names.
const (
	UTF8  = "utf-8"
	UTF16 = "utf-16"
	EUCKR = "euc-kr"
)

// Charsets lists the accepted charset names.
func Charsets() []string {
	return []string{UTF8, UTF16, EUCKR}
}

// NormalizeCharset lowercases a charset name and maps common aliases.
func NormalizeCharset(charset string) string {
	name := strings.ToLower(strings.TrimSpace(charset))
	switch name {
	case "", "utf8", "utf-8":
		return UTF8
	case "utf16", "utf-16", "utf-16le":
		return UTF16
	case "euckr", "euc-kr", "cp949":
		return EUCKR
	}
	return name
}

// lookup returns the encoding for a charset name. The Unicode encodings
// strip a leading byte order mark when decoding.
func lookup(charset string) (encoding.Encoding, error) {
	switch NormalizeCharset(charset) {
	case UTF8:
		return unicode.UTF8BOM, nil
	case UTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case EUCKR:
		// Old exporters wrote object and group names in the system code page.
		return korean.EUCKR, nil
	}
	return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownCharset, charset, strings.Join(Charsets(), ", "))
}

// Check returns an ErrUnknownCharset error if charset is not supported.
func Check(charset string) error {
	_, err := lookup(charset)
	return err
}

// NewReader wraps r so that it yields UTF-8 text.
func NewReader(r io.Reader, charset string) (io.Reader, error) {
	enc, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
