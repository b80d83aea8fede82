package nntp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func articleResponse(code uint16, lines ...string) *RawResponse {
	raw := make([][]byte, len(lines))
	for i, l := range lines {
		raw[i] = []byte(l)
	}
	return &RawResponse{code: code, lines: raw}
}

func TestParseStat(t *testing.T) {
	require := require.New(t)

	s, err := ParseStat(articleResponse(223, "223 1234 <i.am.an.article@example.com> retrieved"))
	require.NoError(err)
	require.Equal(uint64(1234), s.Number)
	require.Equal("<i.am.an.article@example.com>", s.MessageID)
}

func TestParseStatMissingID(t *testing.T) {
	_, err := ParseStat(articleResponse(223, "223 1234"))

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "message-id", missing.Field)
}

func TestParseHead(t *testing.T) {
	require := require.New(t)

	h, err := ParseHead(articleResponse(221,
		"221 37 <unique@example.net>",
		"Path: pathost!demo!whitehouse!not-for-mail",
		"From: \"Demo User\" <nobody@example.net>",
		"Subject: I am just a test article",
		"X-Folded: starts here",
		"\tand continues here",
	))
	require.NoError(err)
	require.Equal(uint64(37), h.Number)
	require.Equal("<unique@example.net>", h.MessageID)
	require.Len(h.Headers, 4)

	subject, ok := h.Get("subject")
	require.True(ok)
	require.Equal("I am just a test article", subject)

	folded, ok := h.Get("X-Folded")
	require.True(ok)
	require.Equal("starts here and continues here", folded)

	_, ok = h.Get("Message-ID")
	require.False(ok)
}

func TestParseBody(t *testing.T) {
	require := require.New(t)

	b, err := ParseBody(articleResponse(222,
		"222 37 <unique@example.net>",
		"This is just a test article.",
		"",
		"-- demo",
	))
	require.NoError(err)
	require.Equal(uint64(37), b.Number)
	require.Len(b.Lines, 3)
	require.Equal([]byte("This is just a test article."), b.Lines[0])
}

func TestParseArticle(t *testing.T) {
	require := require.New(t)

	a, err := ParseArticle(articleResponse(220,
		"220 37 <unique@example.net>",
		"Subject: I am just a test article",
		"Message-ID: <unique@example.net>",
		"",
		"This is just a test article.",
	))
	require.NoError(err)
	require.Equal("<unique@example.net>", a.MessageID)
	require.Len(a.Headers, 2)
	require.Equal([][]byte{[]byte("This is just a test article.")}, a.Body())

	id, ok := a.Get("Message-ID")
	require.True(ok)
	require.Equal("<unique@example.net>", id)
}

func TestParseArticleHeadersOnly(t *testing.T) {
	require := require.New(t)

	a, err := ParseArticle(articleResponse(220,
		"220 37 <unique@example.net>",
		"Subject: no body at all",
	))
	require.NoError(err)
	require.Len(a.Headers, 1)
	require.Empty(a.Body())
}

func TestToText(t *testing.T) {
	require := require.New(t)

	a, err := ParseArticle(articleResponse(220,
		"220 37 <unique@example.net>",
		"Subject: hello",
		"",
		"plain text line",
	))
	require.NoError(err)

	text, err := a.ToText()
	require.NoError(err)
	require.Equal([]string{"plain text line"}, text.Lines())
	require.Equal("<unique@example.net>", text.MessageID)
}

func TestToTextRejectsBinary(t *testing.T) {
	require := require.New(t)

	a := &BinaryArticle{
		Number:    37,
		MessageID: "<unique@example.net>",
		body:      [][]byte{{0xff, 0xd8, 0xff, 0xe0}},
	}

	_, err := a.ToText()
	require.ErrorIs(err, ErrNotText)

	lossy := a.ToTextLossy()
	require.Len(lossy.Lines(), 1)
	require.NotEmpty(lossy.Lines()[0])
}
