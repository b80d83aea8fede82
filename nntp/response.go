package nntp

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind is the semantic meaning of a status code this library understands.
// The numeric value of a Kind is the wire code itself.
type Kind uint16

const (
	KindCapabilities           Kind = 101
	KindDateFollows            Kind = 111
	KindPostingAllowed         Kind = 200
	KindPostingNotPermitted    Kind = 201
	KindConnectionClosing      Kind = 205
	KindGroupSelected          Kind = 211
	KindArticleFollows         Kind = 220
	KindHeadFollows            Kind = 221
	KindBodyFollows            Kind = 222
	KindArticleExists          Kind = 223
	KindAuthAccepted           Kind = 281
	KindPasswordRequired       Kind = 381
	KindTemporarilyUnavailable Kind = 400
	KindNoSuchNewsgroup        Kind = 411
	KindInvalidCurrentArticle  Kind = 420
	KindNoArticleWithNumber    Kind = 423
	KindNoArticleWithID        Kind = 430
	KindPermanentlyUnavailable Kind = 502
)

var kindNames = map[Kind]string{
	KindCapabilities:           "capabilities list follows",
	KindDateFollows:            "server date follows",
	KindPostingAllowed:         "service available, posting allowed",
	KindPostingNotPermitted:    "service available, posting prohibited",
	KindConnectionClosing:      "connection closing",
	KindGroupSelected:          "group selected",
	KindArticleFollows:         "article follows",
	KindHeadFollows:            "headers follow",
	KindBodyFollows:            "body follows",
	KindArticleExists:          "article exists",
	KindAuthAccepted:           "authentication accepted",
	KindPasswordRequired:       "password required",
	KindTemporarilyUnavailable: "service temporarily unavailable",
	KindNoSuchNewsgroup:        "no such newsgroup",
	KindInvalidCurrentArticle:  "current article number is invalid",
	KindNoArticleWithNumber:    "no article with that number",
	KindNoArticleWithID:        "no article with that message-id",
	KindPermanentlyUnavailable: "service permanently unavailable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return fmt.Sprintf("%d (%s)", uint16(k), name)
	}
	return fmt.Sprintf("%d", uint16(k))
}

// KindOf maps a status code to its semantic meaning. The second return is
// false for any code outside the table, including codes that are valid on
// the wire but that this library has no special handling for.
func KindOf(code uint16) (Kind, bool) {
	k := Kind(code)
	_, ok := kindNames[k]
	return k, ok
}

// RawResponse is one complete reply from the server: the 3-digit status
// code plus every line of the reply. Lines are stored without their CRLF
// terminators and with dot-stuffing already removed. A RawResponse always
// holds at least the status line.
type RawResponse struct {
	code  uint16
	lines [][]byte
}

// Code returns the numeric status code.
func (r *RawResponse) Code() uint16 { return r.code }

// Kind returns the semantic meaning of the status code, if known.
func (r *RawResponse) Kind() (Kind, bool) { return KindOf(r.code) }

// Is reports whether the status code maps to the given known Kind.
func (r *RawResponse) Is(k Kind) bool {
	got, ok := r.Kind()
	return ok && got == k
}

// FirstLine returns the status line, including the leading code but
// without the CRLF terminator.
func (r *RawResponse) FirstLine() []byte { return r.lines[0] }

// FirstLineWithoutCode returns the status line with the 3-digit code and
// the following space stripped.
func (r *RawResponse) FirstLineWithoutCode() []byte {
	line := r.lines[0]
	if len(line) <= 4 {
		return nil
	}
	return line[4:]
}

// FirstLineString returns the status line decoded as UTF-8, substituting
// the replacement character for any invalid bytes.
func (r *RawResponse) FirstLineString() string {
	return lossyString(r.lines[0])
}

// Lines returns every line of the response, status line first.
func (r *RawResponse) Lines() [][]byte { return r.lines }

// Body returns the lines after the status line. It is empty for
// single-line responses.
func (r *RawResponse) Body() [][]byte { return r.lines[1:] }

// FailUnless returns the response unchanged when its code matches the
// expected Kind, and a *FailureError carrying the response otherwise.
func (r *RawResponse) FailUnless(expected Kind) (*RawResponse, error) {
	if r.Is(expected) {
		return r, nil
	}
	return nil, failure(r)
}

func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
