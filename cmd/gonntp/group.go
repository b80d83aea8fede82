package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group <name>",
	Short: "Select a newsgroup and print its article range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := connectClient(ctx, "")
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		group, err := client.SelectGroup(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", group.Name)
		fmt.Printf("  articles: ~%d\n", group.Number)
		fmt.Printf("  range:    %d-%d\n", group.Low, group.High)

		if cache != nil {
			if n, err := cache.CountArticles(group.Name); err == nil && n > 0 {
				fmt.Printf("  cached:   %d\n", n)
			}
		}
		return nil
	},
}
