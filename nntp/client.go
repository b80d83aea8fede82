// Package nntp is a typed, session-aware NNTP client.
//
// The package is split into two layers. Conn handles the wire: command
// serialization, response framing, dot-unstuffing, and transparent
// decompression of responses a server flags as compressed. Client wraps
// a Conn with typed responses and session state, caching the selected
// group and the server's capabilities.
//
// NNTP is a stateful, half-duplex protocol: one command is in flight at
// a time and neither Conn nor Client is safe for concurrent use. Run
// independent connections instead; they share no state.
package nntp

import (
	"context"
	"fmt"

	"github.com/datallboy/gonntp/nntp/command"
)

// Credentials are an AUTHINFO USER/PASS pair.
type Credentials struct {
	Username string
	Password string
}

// ClientConfig describes how to establish a session. It is consumed by
// Connect and retained on the resulting client for inspection.
type ClientConfig struct {
	// Credentials, when set, run an AUTHINFO USER/PASS exchange during
	// connect. Without TLS these travel in the clear.
	Credentials *Credentials
	// InitialGroup, when non-empty, is selected during connect.
	InitialGroup string
	// Connection configures timeouts and TLS for the underlying Conn.
	Connection ConnectionConfig
}

// Client is a session-state wrapper around Conn. It remembers the last
// selected group and the most recently fetched capabilities; both are
// updated only by the methods that issue the corresponding commands.
type Client struct {
	conn           *Conn
	config         ClientConfig
	capabilities   Capabilities
	group          *Group
	postingAllowed bool
}

// Connect establishes a session: dial, read the greeting, authenticate
// when credentials are configured, fetch capabilities, and select the
// initial group when one is configured. The steps run in order and the
// first failure aborts the whole attempt.
func (cfg ClientConfig) Connect(ctx context.Context, addr string) (*Client, error) {
	conn, greeting, err := Connect(ctx, addr, cfg.Connection)
	if err != nil {
		return nil, err
	}

	client, err := newClient(ctx, conn, cfg, greeting)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

func newClient(ctx context.Context, conn *Conn, cfg ClientConfig, greeting *RawResponse) (*Client, error) {
	var posting bool
	switch {
	case greeting.Is(KindPostingAllowed):
		posting = true
	case greeting.Is(KindPostingNotPermitted):
		posting = false
	default:
		return nil, failuref(greeting, "unexpected greeting")
	}

	if cfg.Credentials != nil {
		if err := authenticate(ctx, conn, cfg.Credentials); err != nil {
			return nil, err
		}
	}

	caps, err := getCapabilities(ctx, conn)
	if err != nil {
		return nil, err
	}

	var group *Group
	if cfg.InitialGroup != "" {
		if group, err = selectGroup(ctx, conn, cfg.InitialGroup); err != nil {
			return nil, err
		}
	}

	return &Client{
		conn:           conn,
		config:         cfg,
		capabilities:   caps,
		group:          group,
		postingAllowed: posting,
	}, nil
}

// Conn exposes the underlying connection.
//
// NNTP is stateful: a GROUP sent through the raw connection changes the
// server's current group without updating this client's cache. Prefer
// the typed methods unless you know what you are doing.
func (c *Client) Conn() *Conn { return c.conn }

// Config returns the configuration the session was built from.
func (c *Client) Config() ClientConfig { return c.config }

// Group returns the cached current group, or nil when none has been
// selected.
func (c *Client) Group() *Group { return c.group }

// Capabilities returns the capabilities cached at the last fetch.
func (c *Client) Capabilities() Capabilities { return c.capabilities }

// PostingAllowed reports whether the greeting permitted posting.
func (c *Client) PostingAllowed() bool { return c.postingAllowed }

// Command sends any command and returns the raw response unvalidated.
//
// This is the escape hatch for commands the client does not model. It
// performs no session-state bookkeeping: callers are responsible for
// any mismatch between the server's state and this client's caches.
func (c *Client) Command(ctx context.Context, cmd command.Command) (*RawResponse, error) {
	return c.conn.Command(ctx, cmd)
}

// SelectGroup selects a newsgroup and caches it as the current group.
func (c *Client) SelectGroup(ctx context.Context, name string) (*Group, error) {
	group, err := selectGroup(ctx, c.conn, name)
	if err != nil {
		return nil, err
	}
	c.group = group
	return group, nil
}

// UpdateCapabilities refetches the server's capabilities, replacing the
// cached set wholesale.
func (c *Client) UpdateCapabilities(ctx context.Context) (Capabilities, error) {
	caps, err := getCapabilities(ctx, c.conn)
	if err != nil {
		return nil, err
	}
	c.capabilities = caps
	return caps, nil
}

// Article retrieves a complete article. Binary-safe; see
// BinaryArticle.ToText and ToTextLossy for textual articles.
func (c *Client) Article(ctx context.Context, ref command.ArticleRef) (*BinaryArticle, error) {
	resp, err := c.conn.Command(ctx, command.Article{Ref: ref})
	if err != nil {
		return nil, err
	}
	return ParseArticle(resp)
}

// Head retrieves the headers of an article.
func (c *Client) Head(ctx context.Context, ref command.ArticleRef) (*Head, error) {
	resp, err := c.conn.Command(ctx, command.Head{Ref: ref})
	if err != nil {
		return nil, err
	}
	return ParseHead(resp)
}

// Body retrieves the body of an article.
func (c *Client) Body(ctx context.Context, ref command.ArticleRef) (*Body, error) {
	resp, err := c.conn.Command(ctx, command.Body{Ref: ref})
	if err != nil {
		return nil, err
	}
	return ParseBody(resp)
}

// Stat probes for an article's existence. Absence is an expected
// outcome of a probe, so the "no such article" family of codes returns
// (nil, nil) rather than an error.
func (c *Client) Stat(ctx context.Context, ref command.ArticleRef) (*Stat, error) {
	resp, err := c.conn.Command(ctx, command.Stat{Ref: ref})
	if err != nil {
		return nil, err
	}
	switch {
	case resp.Is(KindArticleExists):
		return ParseStat(resp)
	case resp.Is(KindNoArticleWithNumber),
		resp.Is(KindNoArticleWithID),
		resp.Is(KindInvalidCurrentArticle):
		return nil, nil
	default:
		return nil, failure(resp)
	}
}

// Close sends QUIT, verifies the closing reply, and closes the
// connection. The connection is closed even when QUIT fails.
func (c *Client) Close(ctx context.Context) (*RawResponse, error) {
	defer c.conn.Close()
	resp, err := c.conn.Command(ctx, command.Quit{})
	if err != nil {
		return nil, err
	}
	return resp.FailUnless(KindConnectionClosing)
}

// authenticate runs the AUTHINFO USER/PASS exchange. USER must yield
// the password-required code before PASS is sent; anything else fails
// the connect attempt without transmitting the password.
func authenticate(ctx context.Context, conn *Conn, creds *Credentials) error {
	userResp, err := conn.Command(ctx, command.AuthInfoUser(creds.Username))
	if err != nil {
		return fmt.Errorf("AUTHINFO USER: %w", err)
	}
	if !userResp.Is(KindPasswordRequired) {
		return failuref(userResp, "AUTHINFO USER rejected")
	}

	passResp, err := conn.Command(ctx, command.AuthInfoPass(creds.Password))
	if err != nil {
		return fmt.Errorf("AUTHINFO PASS: %w", err)
	}
	if !passResp.Is(KindAuthAccepted) {
		return failuref(passResp, "AUTHINFO PASS rejected")
	}
	return nil
}

func getCapabilities(ctx context.Context, conn *Conn) (Capabilities, error) {
	resp, err := conn.Command(ctx, command.Capabilities{})
	if err != nil {
		return nil, err
	}
	return ParseCapabilities(resp)
}

func selectGroup(ctx context.Context, conn *Conn, name string) (*Group, error) {
	resp, err := conn.Command(ctx, command.Group(name))
	if err != nil {
		return nil, err
	}
	switch {
	case resp.Is(KindGroupSelected):
		return ParseGroup(resp)
	case resp.Is(KindNoSuchNewsgroup):
		return nil, failure(resp)
	default:
		return nil, failuref(resp, "selecting group %q", name)
	}
}
