// ABOUTME: Text decoding for ingested plain-text files
// ABOUTME: Falls back to latin-1 when the bytes are not valid UTF-8
package ingest

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText returns data as UTF-8 text. Invalid UTF-8 is decoded as
// ISO-8859-1, which maps every byte and so never fails.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
