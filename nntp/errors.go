package nntp

import (
	"errors"
	"fmt"
	"net"
)

// ErrConnUnusable is returned for any command issued on a connection that
// previously timed out or lost protocol synchronization. The only safe
// recovery is to close it and connect again.
var ErrConnUnusable = errors.New("nntp: connection is no longer usable")

// ErrShortResponse indicates the stream ended before a complete response
// was read.
var ErrShortResponse = errors.New("nntp: stream ended mid-response")

// ProtocolError indicates the server sent data the framing layer could
// not interpret, such as a malformed status line.
type ProtocolError string

func (e ProtocolError) Error() string { return "nntp: " + string(e) }

// MissingFieldError indicates a well-framed response was missing a field
// a typed conversion required.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("nntp: response is missing field %q", e.Field)
}

// ParseError indicates a field was present in a response but could not be
// converted to its expected type.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("nntp: cannot parse field %q from %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FailureError is a well-formed server reply whose code did not match
// what the caller expected. Resp is retained so callers can inspect the
// full reply when deciding how to proceed.
type FailureError struct {
	Code uint16
	Msg  string
	Resp *RawResponse
}

func (e *FailureError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("nntp: %s: server replied %s", e.Msg, e.Resp.FirstLineString())
	}
	return fmt.Sprintf("nntp: unexpected reply %s", e.Resp.FirstLineString())
}

func failure(resp *RawResponse) *FailureError {
	return &FailureError{Code: resp.Code(), Resp: resp}
}

func failuref(resp *RawResponse, format string, args ...any) *FailureError {
	return &FailureError{
		Code: resp.Code(),
		Msg:  fmt.Sprintf(format, args...),
		Resp: resp,
	}
}

// IsNoSuchGroup reports whether err was caused by selecting a newsgroup
// the server does not carry.
func IsNoSuchGroup(err error) bool {
	var fe *FailureError
	return errors.As(err, &fe) && fe.Code == uint16(KindNoSuchNewsgroup)
}

// IsArticleNotFound reports whether err was caused by requesting an
// article the server does not have, by number or message-id.
func IsArticleNotFound(err error) bool {
	var fe *FailureError
	if !errors.As(err, &fe) {
		return false
	}
	switch Kind(fe.Code) {
	case KindNoArticleWithNumber, KindNoArticleWithID, KindInvalidCurrentArticle:
		return true
	}
	return false
}

// IsTimeout reports whether err was caused by an I/O deadline expiring.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
