package main

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/esbridge/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "esbridge",
		Short:         "HTTP bridge between a user record store and a search engine",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServe,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newReindexCmd())
	root.AddCommand(newSeedUsersCmd())

	return root
}
