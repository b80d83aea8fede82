package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var capsCmd = &cobra.Command{
	Use:   "caps",
	Short: "List the capabilities the server advertises",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := connectClient(ctx, "")
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		if client.PostingAllowed() {
			fmt.Println("posting: allowed")
		} else {
			fmt.Println("posting: not permitted")
		}
		for _, c := range client.Capabilities() {
			fmt.Println(c)
		}
		return nil
	},
}
