package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statGroup string

var statCmd = &cobra.Command{
	Use:   "stat <message-id|number>",
	Short: "Check whether an article exists without downloading it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ref, byID := parseRef(args[0])

		group := statGroup
		if group == "" {
			group = cfg.Server.Group
		}
		if group == "" && !byID {
			return fmt.Errorf("probing by number requires a group (use --group or set server.group)")
		}

		client, err := connectClient(ctx, group)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		stat, err := client.Stat(ctx, ref)
		if err != nil {
			return err
		}
		if stat == nil {
			fmt.Printf("%s: not found\n", args[0])
			return nil
		}
		fmt.Printf("%s: exists as article %d, message-id %s\n", args[0], stat.Number, stat.MessageID)
		return nil
	},
}

func init() {
	statCmd.Flags().StringVarP(&statGroup, "group", "g", "", "newsgroup to select before probing")
}
