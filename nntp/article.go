package nntp

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrNotText is returned by BinaryArticle.ToText when the article body
// is not valid UTF-8.
var ErrNotText = errors.New("nntp: article body is not valid UTF-8")

// Stat is the result of a successful STAT probe.
type Stat struct {
	Number    uint64
	MessageID string
}

// A Header is one received header field. Order and duplicates are
// preserved as the server sent them.
type Header struct {
	Name    string
	Content string
}

// Head is the headers of an article, as returned by HEAD.
type Head struct {
	Number    uint64
	MessageID string
	Headers   []Header
}

// Get returns the content of the first header with the given name.
// Name comparison is case-insensitive.
func (h *Head) Get(name string) (string, bool) {
	for _, hdr := range h.Headers {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Content, true
		}
	}
	return "", false
}

// Body is the body of an article, as returned by BODY. Lines hold the
// raw bytes of each body line, dot-unstuffed and without terminators.
type Body struct {
	Number    uint64
	MessageID string
	Lines     [][]byte
}

// BinaryArticle is a complete article whose body may not be textual.
// Usenet bodies are frequently yEnc or uuencoded binaries, so the body
// is kept as raw bytes; use ToText or ToTextLossy for textual articles.
type BinaryArticle struct {
	Number    uint64
	MessageID string
	Headers   []Header
	body      [][]byte
}

// Body returns the raw body lines.
func (a *BinaryArticle) Body() [][]byte { return a.body }

// Get returns the content of the first header with the given name.
func (a *BinaryArticle) Get(name string) (string, bool) {
	h := Head{Headers: a.Headers}
	return h.Get(name)
}

// ToText converts the article to text, failing with ErrNotText if any
// body line is not valid UTF-8.
func (a *BinaryArticle) ToText() (*TextArticle, error) {
	lines := make([]string, len(a.body))
	for i, line := range a.body {
		if !utf8.Valid(line) {
			return nil, ErrNotText
		}
		lines[i] = string(line)
	}
	return a.text(lines), nil
}

// ToTextLossy converts the article to text, substituting the Unicode
// replacement character for invalid bytes. It always succeeds.
func (a *BinaryArticle) ToTextLossy() *TextArticle {
	lines := make([]string, len(a.body))
	for i, line := range a.body {
		lines[i] = lossyString(line)
	}
	return a.text(lines)
}

func (a *BinaryArticle) text(lines []string) *TextArticle {
	return &TextArticle{
		Number:    a.Number,
		MessageID: a.MessageID,
		Headers:   a.Headers,
		lines:     lines,
	}
}

// TextArticle is an article whose body has been decoded to strings.
type TextArticle struct {
	Number    uint64
	MessageID string
	Headers   []Header
	lines     []string
}

// Lines returns the body lines.
func (t *TextArticle) Lines() []string { return t.lines }

// Get returns the content of the first header with the given name.
func (t *TextArticle) Get(name string) (string, bool) {
	h := Head{Headers: t.Headers}
	return h.Get(name)
}

// ParseStat converts a STAT response. The response must carry the
// article-exists code.
func ParseStat(resp *RawResponse) (*Stat, error) {
	if _, err := resp.FailUnless(KindArticleExists); err != nil {
		return nil, err
	}
	n, id, err := parseArticleStatus(resp)
	if err != nil {
		return nil, err
	}
	return &Stat{Number: n, MessageID: id}, nil
}

// ParseHead converts a HEAD response.
func ParseHead(resp *RawResponse) (*Head, error) {
	if _, err := resp.FailUnless(KindHeadFollows); err != nil {
		return nil, err
	}
	n, id, err := parseArticleStatus(resp)
	if err != nil {
		return nil, err
	}
	return &Head{
		Number:    n,
		MessageID: id,
		Headers:   parseHeaders(resp.Body()),
	}, nil
}

// ParseBody converts a BODY response.
func ParseBody(resp *RawResponse) (*Body, error) {
	if _, err := resp.FailUnless(KindBodyFollows); err != nil {
		return nil, err
	}
	n, id, err := parseArticleStatus(resp)
	if err != nil {
		return nil, err
	}
	return &Body{Number: n, MessageID: id, Lines: resp.Body()}, nil
}

// ParseArticle converts an ARTICLE response. The headers and body are
// split at the first empty line, per the article format.
func ParseArticle(resp *RawResponse) (*BinaryArticle, error) {
	if _, err := resp.FailUnless(KindArticleFollows); err != nil {
		return nil, err
	}
	n, id, err := parseArticleStatus(resp)
	if err != nil {
		return nil, err
	}

	lines := resp.Body()
	split := len(lines)
	for i, line := range lines {
		if len(line) == 0 {
			split = i
			break
		}
	}
	body := [][]byte{}
	if split < len(lines) {
		body = lines[split+1:]
	}

	return &BinaryArticle{
		Number:    n,
		MessageID: id,
		Headers:   parseHeaders(lines[:split]),
		body:      body,
	}, nil
}

// parseArticleStatus reads the "number message-id" pair the 22x article
// status lines share.
func parseArticleStatus(resp *RawResponse) (uint64, string, error) {
	fields := strings.Fields(resp.FirstLineString())
	if len(fields) < 2 {
		return 0, "", &MissingFieldError{Field: "number"}
	}
	n, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, "", &ParseError{Field: "number", Value: fields[1], Err: err}
	}
	if len(fields) < 3 {
		return 0, "", &MissingFieldError{Field: "message-id"}
	}
	return n, fields[2], nil
}

// parseHeaders folds continuation lines and splits "Name: content"
// fields. Malformed lines are kept with an empty name rather than
// dropped, so nothing the server sent disappears silently.
func parseHeaders(lines [][]byte) []Header {
	var headers []Header
	for _, raw := range lines {
		line := lossyString(raw)
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if len(headers) > 0 {
				headers[len(headers)-1].Content += " " + strings.TrimSpace(line)
			}
			continue
		}
		name, content, found := strings.Cut(line, ":")
		if !found {
			headers = append(headers, Header{Content: strings.TrimSpace(line)})
			continue
		}
		headers = append(headers, Header{
			Name:    name,
			Content: strings.TrimSpace(content),
		})
	}
	return headers
}
