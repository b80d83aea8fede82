package nntp

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/datallboy/gonntp/nntp/command"
)

// ConnectionConfig controls the low-level connection. The zero value
// dials plain TCP with no deadlines.
type ConnectionConfig struct {
	// ConnectTimeout bounds the TCP (and TLS) dial. Zero means no limit.
	ConnectTimeout time.Duration
	// ReadTimeout bounds each response read. Zero means no limit.
	ReadTimeout time.Duration
	// WriteTimeout bounds each command write. Zero means no limit.
	WriteTimeout time.Duration
	// TLSConfig, when set, makes the dial negotiate TLS immediately
	// after the TCP handshake. ServerName is filled in from the dialed
	// address if left empty.
	TLSConfig *tls.Config
}

// Conn is a low-level NNTP connection. It serializes one command at a
// time and reads exactly one response per command; the protocol is
// strictly half-duplex and Conn never pipelines.
//
// A Conn is not safe for concurrent use. Once a read times out or the
// stream desynchronizes, the Conn refuses further commands: the
// protocol has no way to resynchronize mid-stream, so callers must
// close and reconnect.
type Conn struct {
	conn        net.Conn
	r           *bufio.Reader
	cfg         ConnectionConfig
	compression Compression
	unusable    bool
}

var (
	crlf          = []byte("\r\n")
	dotTerminator = []byte(".\r\n")
)

// Connect dials the server and reads the initial greeting. The greeting
// is returned unvalidated; callers decide which greeting codes they
// accept.
func Connect(ctx context.Context, addr string, cfg ConnectionConfig) (*Conn, *RawResponse, error) {
	sock, err := dial(ctx, addr, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("nntp: connect %s: %w", addr, err)
	}

	c := &Conn{
		conn:        sock,
		r:           bufio.NewReader(sock),
		cfg:         cfg,
		compression: XFeature,
	}

	greeting, err := c.readResponse(ctx, nil)
	if err != nil {
		sock.Close()
		return nil, nil, fmt.Errorf("nntp: reading greeting: %w", err)
	}
	return c, greeting, nil
}

// Command writes cmd and reads its response. Exactly one response is
// returned per call, or an error and no partial response.
func (c *Conn) Command(ctx context.Context, cmd command.Command) (*RawResponse, error) {
	if c.unusable {
		return nil, ErrConnUnusable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.conn.SetWriteDeadline(c.deadline(ctx, c.cfg.WriteTimeout)); err != nil {
		return nil, err
	}
	// One write per command so a partial line can never hit the wire
	// ahead of an error return.
	if _, err := c.conn.Write(append([]byte(cmd.Encode()), crlf...)); err != nil {
		c.unusable = true
		return nil, fmt.Errorf("nntp: writing command: %w", err)
	}

	return c.readResponse(ctx, cmd.Multiline)
}

// Close closes the underlying stream without sending QUIT.
func (c *Conn) Close() error {
	c.unusable = true
	return c.conn.Close()
}

// Unusable reports whether the connection has been poisoned by a
// timeout or framing failure.
func (c *Conn) Unusable() bool { return c.unusable }

// readResponse frames one complete response. multiline, when non-nil,
// is consulted with the parsed status code to decide whether a
// dot-terminated body follows; the greeting passes nil since greetings
// are always a single line.
func (c *Conn) readResponse(ctx context.Context, multiline func(uint16) bool) (*RawResponse, error) {
	if err := c.conn.SetReadDeadline(c.deadline(ctx, c.cfg.ReadTimeout)); err != nil {
		return nil, err
	}

	statusLine, err := readWireLine(c.r)
	if err != nil {
		c.unusable = true
		return nil, err
	}

	code, err := parseStatusCode(statusLine)
	if err != nil {
		c.unusable = true
		return nil, err
	}

	lines := [][]byte{trimCRLF(statusLine)}

	if multiline != nil && multiline(code) {
		src := c.r
		// Compression is signaled per response, never cached as
		// connection state.
		if c.compression.Detect(statusLine) {
			if src, err = c.compression.Decoder(c.r); err != nil {
				c.unusable = true
				return nil, err
			}
		}
		for {
			line, err := readWireLine(src)
			if err != nil {
				c.unusable = true
				return nil, err
			}
			if bytes.Equal(line, dotTerminator) {
				break
			}
			lines = append(lines, unstuffDot(trimCRLF(line)))
		}
	}

	return &RawResponse{code: code, lines: lines}, nil
}

// deadline combines a configured timeout with the context deadline,
// whichever comes first. A zero return clears the deadline.
func (c *Conn) deadline(ctx context.Context, timeout time.Duration) time.Time {
	var t time.Time
	if timeout > 0 {
		t = time.Now().Add(timeout)
	}
	if d, ok := ctx.Deadline(); ok && (t.IsZero() || d.Before(t)) {
		t = d
	}
	return t
}

// readWireLine reads one CRLF-terminated line, returning it with the
// terminator intact.
func readWireLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortResponse
		}
		return nil, err
	}
	if !bytes.HasSuffix(line, crlf) {
		return nil, ProtocolError(fmt.Sprintf("line %q is not CRLF-terminated", line))
	}
	return line, nil
}

// parseStatusCode extracts the leading 3-digit code from a status line.
func parseStatusCode(line []byte) (uint16, error) {
	if len(line) < 3+len(crlf) {
		return 0, ProtocolError(fmt.Sprintf("status line %q is too short", line))
	}
	var code uint16
	for _, b := range line[:3] {
		if b < '0' || b > '9' {
			return 0, ProtocolError(fmt.Sprintf("status line %q does not start with a 3-digit code", line))
		}
		code = code*10 + uint16(b-'0')
	}
	if code < 100 || code > 599 {
		return 0, ProtocolError(fmt.Sprintf("status code %d is out of range", code))
	}
	if len(line) > 3+len(crlf) && line[3] != ' ' {
		return 0, ProtocolError(fmt.Sprintf("status line %q has no separator after the code", line))
	}
	return code, nil
}

func trimCRLF(line []byte) []byte {
	return bytes.TrimSuffix(line, crlf)
}

// unstuffDot removes the escape prefix from a received body line.
func unstuffDot(line []byte) []byte {
	if len(line) > 0 && line[0] == '.' {
		return line[1:]
	}
	return line
}

// StuffDot re-escapes a body line for transmission: a line beginning
// with "." gets a second "." prepended so it cannot be mistaken for the
// response terminator.
func StuffDot(line []byte) []byte {
	if len(line) > 0 && line[0] == '.' {
		return append([]byte{'.'}, line...)
	}
	return line
}
