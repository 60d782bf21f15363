package internal

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// textDecoder decodes raw file bytes into UTF-8 text. A nil encoding means
// plain UTF-8 with validation.
type textDecoder struct {
	name string
	enc  encoding.Encoding
}

// resolveEncoding looks up a charset by IANA name (utf-8, latin1, cp1251, ...).
func resolveEncoding(name string) (*textDecoder, error) {
	canon := strings.ToLower(strings.TrimSpace(name))
	switch canon {
	case "", "utf-8", "utf8":
		return &textDecoder{name: "utf-8"}, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return &textDecoder{name: canon, enc: enc}, nil
}

// decode converts raw bytes to a string, failing with ErrDecode on binary
// content or bytes invalid for the charset.
func (d *textDecoder) decode(raw []byte) (string, error) {
	if looksBinary(raw) {
		return "", fmt.Errorf("%w: binary content", ErrDecode)
	}
	if d.enc == nil {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%w: invalid utf-8", ErrDecode)
		}
		return string(raw), nil
	}
	out, err := d.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(out), nil
}

// looksBinary sniffs the first KiB for NUL bytes.
func looksBinary(raw []byte) bool {
	head := raw
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.IndexByte(head, 0) >= 0
}
