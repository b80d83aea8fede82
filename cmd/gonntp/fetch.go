package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/datallboy/gonntp/internal/store"
	"github.com/datallboy/gonntp/nntp"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

var fetchGroup string

var fetchCmd = &cobra.Command{
	Use:   "fetch <message-id|number>",
	Short: "Retrieve an article and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ref, byID := parseRef(args[0])

		// Message-id fetches can be served from the cache; numbers are
		// group-relative and can't be.
		if cache != nil && byID {
			rec, err := cache.GetArticle(canonicalMessageID(args[0]))
			if err != nil {
				lg.Warn("Cache lookup failed: %v", err)
			} else if rec != nil {
				lg.Info("Cache hit for %s", rec.MessageID)
				os.Stdout.Write(rec.Body)
				return nil
			}
		}

		group := fetchGroup
		if group == "" {
			group = cfg.Server.Group
		}
		if group == "" && !byID {
			return fmt.Errorf("fetching by number requires a group (use --group or set server.group)")
		}

		client, err := connectClient(ctx, group)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		article, err := client.Article(ctx, ref)
		if err != nil {
			if nntp.IsArticleNotFound(err) {
				return fmt.Errorf("article %s not found on server", args[0])
			}
			return err
		}
		lg.Info("Fetched %s (%d body lines)", article.MessageID, len(article.Body()))

		body := renderBody(article.Body())
		for _, h := range article.Headers {
			fmt.Printf("%s: %s\n", h.Name, h.Content)
		}
		fmt.Println()
		os.Stdout.Write(body)

		if cache != nil {
			subject, _ := article.Get("Subject")
			rec := &store.ArticleRecord{
				ID:        ksuid.New().String(),
				MessageID: article.MessageID,
				Newsgroup: group,
				Subject:   subject,
				Body:      body,
				Bytes:     int64(len(body)),
				FetchedAt: time.Now().UTC(),
			}
			if err := cache.SaveArticle(rec); err != nil {
				lg.Warn("Failed to cache %s: %v", article.MessageID, err)
			}
		}
		return nil
	},
}

// renderBody joins body lines back into a byte stream with CRLF
// terminators, matching what the server transmitted minus dot-stuffing.
func renderBody(lines [][]byte) []byte {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.Write(line)
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchGroup, "group", "g", "", "newsgroup to select before fetching")
}
