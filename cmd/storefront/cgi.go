package main

import (
	"github.com/spf13/cobra"

	"github.com/pantryshop/storefront/gateway"
)

// newCGICmd creates the 'cgi' subcommand.
func newCGICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cgi",
		Short: "Serve a single CGI request from the process environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, cleanup := buildHandler(cmd.Context(), loadApp)
			defer cleanup()
			return gateway.ServeCGI(h)
		},
	}
}
