// Package command contains the NNTP commands this library can send.
//
// Whether a reply carries a dot-terminated multi-line body depends on the
// command that was sent, not on the status code alone, so every command
// declares which of its success codes are multi-line via Multiline.
package command

import (
	"strconv"
	"strings"
)

// A Command can be serialized onto an NNTP connection.
//
// Implement this interface to send commands the library does not model;
// see the Raw type for a ready-made escape hatch.
type Command interface {
	// Encode returns the full command line without the trailing CRLF.
	Encode() string
	// Multiline reports whether a reply with the given status code
	// carries a dot-terminated body for this command.
	Multiline(code uint16) bool
}

// An ArticleRef identifies an article either by number within the
// currently selected group or globally by message-id. The zero value
// refers to the connection's current article.
type ArticleRef struct {
	number    uint64
	messageID string
}

// Number refers to an article by its number in the current group.
func Number(n uint64) ArticleRef { return ArticleRef{number: n} }

// MessageID refers to an article by message-id. Angle brackets are added
// if the id does not already carry them.
func MessageID(id string) ArticleRef {
	if !strings.HasPrefix(id, "<") {
		id = "<" + id + ">"
	}
	return ArticleRef{messageID: id}
}

// Current refers to the connection's current article.
func Current() ArticleRef { return ArticleRef{} }

func (r ArticleRef) encode(verb string) string {
	switch {
	case r.messageID != "":
		return verb + " " + r.messageID
	case r.number > 0:
		return verb + " " + strconv.FormatUint(r.number, 10)
	default:
		return verb
	}
}

// Article retrieves the headers and body of an article.
type Article struct{ Ref ArticleRef }

func (c Article) Encode() string { return c.Ref.encode("ARTICLE") }
func (c Article) Multiline(code uint16) bool { return code == 220 }

// Head retrieves only the headers of an article.
type Head struct{ Ref ArticleRef }

func (c Head) Encode() string { return c.Ref.encode("HEAD") }
func (c Head) Multiline(code uint16) bool { return code == 221 }

// Body retrieves only the body of an article.
type Body struct{ Ref ArticleRef }

func (c Body) Encode() string { return c.Ref.encode("BODY") }
func (c Body) Multiline(code uint16) bool { return code == 222 }

// Stat checks whether an article exists without transferring it.
type Stat struct{ Ref ArticleRef }

func (c Stat) Encode() string { return c.Ref.encode("STAT") }
func (Stat) Multiline(uint16) bool { return false }

// Group selects a newsgroup.
type Group string

func (g Group) Encode() string { return "GROUP " + string(g) }
func (Group) Multiline(uint16) bool { return false }

// Capabilities asks the server for its capability list.
type Capabilities struct{}

func (Capabilities) Encode() string { return "CAPABILITIES" }
func (Capabilities) Multiline(code uint16) bool { return code == 101 }

// AuthInfoUser begins an AUTHINFO USER/PASS exchange.
type AuthInfoUser string

func (u AuthInfoUser) Encode() string { return "AUTHINFO USER " + string(u) }
func (AuthInfoUser) Multiline(uint16) bool { return false }

// AuthInfoPass completes an AUTHINFO USER/PASS exchange.
type AuthInfoPass string

func (p AuthInfoPass) Encode() string { return "AUTHINFO PASS " + string(p) }
func (AuthInfoPass) Multiline(uint16) bool { return false }

// ModeReader switches a mode-switching server into reader mode.
type ModeReader struct{}

func (ModeReader) Encode() string { return "MODE READER" }
func (ModeReader) Multiline(uint16) bool { return false }

// Quit ends the session.
type Quit struct{}

func (Quit) Encode() string { return "QUIT" }
func (Quit) Multiline(uint16) bool { return false }

// Raw sends an arbitrary command line. Replies are treated as
// single-line unless Bodied lists the status codes that carry a
// dot-terminated body.
type Raw struct {
	Line   string
	Bodied []uint16
}

func (r Raw) Encode() string { return r.Line }

func (r Raw) Multiline(code uint16) bool {
	for _, c := range r.Bodied {
		if c == code {
			return true
		}
	}
	return false
}
