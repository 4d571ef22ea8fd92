package storage

import (
	"bytes"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMEOctetStream = "application/octet-stream"
	sniffBytes      = 3072
)

// Sniff detects the MIME type from the leading bytes of r and returns a
// reader that still yields the full content.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	return mime.String(), io.MultiReader(bytes.NewReader(head), r), nil
}
