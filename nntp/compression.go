package nntp

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"fmt"
)

// Compression identifies a server-side compression scheme. The set is
// closed: the protocol's compression extensions move slowly enough that
// new schemes warrant a new release, not a plugin surface.
type Compression uint8

const (
	// XFeature is Giganews-style per-response compression, signaled by a
	// trailing [COMPRESS=GZIP] marker on the status line. Despite the
	// marker's name the payload is a DEFLATE (zlib) stream.
	XFeature Compression = iota
)

var xfeatureMarker = []byte("[COMPRESS=GZIP]\r\n")

// Detect reports whether the status line, as read off the wire with its
// CRLF terminator intact, announces a compressed body. The marker is
// only honored immediately before the terminator, so a truncated line
// never triggers decompression.
func (c Compression) Detect(statusLine []byte) bool {
	switch c {
	case XFeature:
		return bytes.HasSuffix(statusLine, xfeatureMarker)
	default:
		return false
	}
}

// Decoder wraps src so that all bytes read through the returned reader
// are inflated. It is constructed per response; no decoder state is
// carried across responses.
func (c Compression) Decoder(src *bufio.Reader) (*bufio.Reader, error) {
	switch c {
	case XFeature:
		zr, err := zlib.NewReader(src)
		if err != nil {
			return nil, ProtocolError(fmt.Sprintf("cannot decompress response: %v", err))
		}
		return bufio.NewReader(zr), nil
	default:
		return src, nil
	}
}
