package nntp_test

import (
	"context"
	"strings"
	"testing"

	"github.com/datallboy/gonntp/nntp"
	"github.com/datallboy/gonntp/nntp/command"
	"github.com/stretchr/testify/require"
)

const capsReply = "101 Capability list:\r\nVERSION 2\r\nREADER\r\n.\r\n"

func TestClientConnectWithInitialGroup(t *testing.T) {
	require := require.New(t)

	srv := newFakeServer(t, "200 news.example.com ready\r\n", func(line string) (string, bool) {
		switch {
		case line == "CAPABILITIES":
			return capsReply, false
		case line == "GROUP mozilla.dev.platform":
			return "211 3000234 3000000 3002322 mozilla.dev.platform\r\n", false
		case line == "ARTICLE 3002322":
			return "220 3002322 <blarp@example.com>\r\n" +
				"Message-ID: <blarp@example.com>\r\n" +
				"Subject: a real gem\r\n" +
				"\r\n" +
				"first line of the body\r\n" +
				".\r\n", false
		default:
			return "500 unexpected: " + line + "\r\n", false
		}
	})

	cfg := nntp.ClientConfig{InitialGroup: "mozilla.dev.platform"}
	client, err := cfg.Connect(context.Background(), srv.Addr())
	require.NoError(err)
	defer client.Conn().Close()

	require.True(client.PostingAllowed())
	require.True(client.Capabilities().Has("READER"))

	group := client.Group()
	require.NotNil(group)
	require.Equal("mozilla.dev.platform", group.Name)
	require.Equal(uint64(3000234), group.Number)
	require.Equal(uint64(3002322), group.High)

	article, err := client.Article(context.Background(), command.Number(group.High))
	require.NoError(err)
	require.NotEmpty(article.MessageID)
	require.Equal("<blarp@example.com>", article.MessageID)

	text, err := article.ToText()
	require.NoError(err)
	require.Equal([]string{"first line of the body"}, text.Lines())

	// Handshake ran greeting -> capabilities -> group, in that order.
	require.Equal([]string{
		"CAPABILITIES",
		"GROUP mozilla.dev.platform",
		"ARTICLE 3002322",
	}, srv.Received())
}

func TestClientAuthenticates(t *testing.T) {
	require := require.New(t)

	srv := newFakeServer(t, "201 ready, no posting\r\n", func(line string) (string, bool) {
		switch {
		case line == "AUTHINFO USER alice":
			return "381 password required\r\n", false
		case line == "AUTHINFO PASS hunter2":
			return "281 authentication accepted\r\n", false
		case line == "CAPABILITIES":
			return capsReply, false
		default:
			return "500 unexpected: " + line + "\r\n", false
		}
	})

	cfg := nntp.ClientConfig{
		Credentials: &nntp.Credentials{Username: "alice", Password: "hunter2"},
	}
	client, err := cfg.Connect(context.Background(), srv.Addr())
	require.NoError(err)
	defer client.Conn().Close()

	require.False(client.PostingAllowed())
	require.Equal([]string{
		"AUTHINFO USER alice",
		"AUTHINFO PASS hunter2",
		"CAPABILITIES",
	}, srv.Received())
}

func TestClientAuthUserRejected(t *testing.T) {
	require := require.New(t)

	srv := newFakeServer(t, "200 ready\r\n", func(line string) (string, bool) {
		// Wrong intermediate code: the server skips the 381 step.
		return "281 no password needed\r\n", false
	})

	cfg := nntp.ClientConfig{
		Credentials: &nntp.Credentials{Username: "alice", Password: "hunter2"},
	}
	_, err := cfg.Connect(context.Background(), srv.Addr())
	require.Error(err)
	require.Contains(err.Error(), "AUTHINFO USER")

	// The password is never sent after an unexpected USER reply.
	for _, line := range srv.Received() {
		require.False(strings.HasPrefix(line, "AUTHINFO PASS"))
	}
}

func TestClientBadGreeting(t *testing.T) {
	srv := newFakeServer(t, "502 go away\r\n", func(string) (string, bool) {
		return "", true
	})

	_, err := nntp.ClientConfig{}.Connect(context.Background(), srv.Addr())

	var fe *nntp.FailureError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, uint16(502), fe.Code)
}

func connectClient(t *testing.T, srv *fakeServer) *nntp.Client {
	t.Helper()

	client, err := nntp.ClientConfig{}.Connect(context.Background(), srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Conn().Close() })
	return client
}

func TestClientStat(t *testing.T) {
	require := require.New(t)

	absent := map[string]string{
		"STAT 1": "423 no article with that number\r\n",
		"STAT 2": "430 no article with that message-id\r\n",
		"STAT":   "420 current article number is invalid\r\n",
	}
	srv := newFakeServer(t, "200 ready\r\n", func(line string) (string, bool) {
		if reply, ok := absent[line]; ok {
			return reply, false
		}
		if line == "CAPABILITIES" {
			return capsReply, false
		}
		return "223 3000234 <exists@example.com> retrieved\r\n", false
	})

	client := connectClient(t, srv)
	ctx := context.Background()

	// Absence is a probe result, not an error.
	for _, ref := range []command.ArticleRef{command.Number(1), command.Number(2), command.Current()} {
		stat, err := client.Stat(ctx, ref)
		require.NoError(err)
		require.Nil(stat)
	}

	stat, err := client.Stat(ctx, command.Number(3000234))
	require.NoError(err)
	require.NotNil(stat)
	require.Equal(uint64(3000234), stat.Number)
	require.Equal("<exists@example.com>", stat.MessageID)
}

func TestClientSelectGroupNoSuchGroup(t *testing.T) {
	require := require.New(t)

	srv := newFakeServer(t, "200 ready\r\n", func(line string) (string, bool) {
		if line == "CAPABILITIES" {
			return capsReply, false
		}
		return "411 no such newsgroup\r\n", false
	})

	client := connectClient(t, srv)

	_, err := client.SelectGroup(context.Background(), "alt.nonexistent")
	require.Error(err)
	require.True(nntp.IsNoSuchGroup(err))
	require.Nil(client.Group())
}

func TestClientUpdateCapabilitiesReplaces(t *testing.T) {
	require := require.New(t)

	var calls int
	srv := newFakeServer(t, "200 ready\r\n", func(line string) (string, bool) {
		if line != "CAPABILITIES" {
			return "500 unexpected\r\n", false
		}
		calls++
		if calls == 1 {
			return capsReply, false
		}
		return "101 Capability list:\r\nVERSION 2\r\nREADER\r\nOVER\r\n.\r\n", false
	})

	client := connectClient(t, srv)
	require.False(client.Capabilities().Has("OVER"))

	caps, err := client.UpdateCapabilities(context.Background())
	require.NoError(err)
	require.True(caps.Has("OVER"))
	require.True(client.Capabilities().Has("OVER"))
}

func TestClientClose(t *testing.T) {
	require := require.New(t)

	srv := newFakeServer(t, "200 ready\r\n", func(line string) (string, bool) {
		if line == "CAPABILITIES" {
			return capsReply, false
		}
		return "205 closing connection\r\n", true
	})

	client := connectClient(t, srv)

	resp, err := client.Close(context.Background())
	require.NoError(err)
	require.Equal(uint16(205), resp.Code())
}

func TestClientRawCommand(t *testing.T) {
	require := require.New(t)

	srv := newFakeServer(t, "200 ready\r\n", func(line string) (string, bool) {
		if line == "CAPABILITIES" {
			return capsReply, false
		}
		if line == "DATE" {
			return "111 20260829083000\r\n", false
		}
		return "500 unexpected\r\n", false
	})

	client := connectClient(t, srv)

	resp, err := client.Command(context.Background(), command.Raw{Line: "DATE"})
	require.NoError(err)
	require.True(resp.Is(nntp.KindDateFollows))
}
