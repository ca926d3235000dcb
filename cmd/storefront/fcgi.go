package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/pantryshop/storefront/gateway"
)

// newFCGICmd creates the 'fcgi' subcommand.
func newFCGICmd() *cobra.Command {
	var socket, listen string
	cmd := &cobra.Command{
		Use:   "fcgi",
		Short: "Serve the API over FastCGI (stdin when no socket is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var l net.Listener
			var err error
			switch {
			case socket != "":
				_ = os.Remove(socket)
				l, err = net.Listen("unix", socket)
			case listen != "":
				l, err = net.Listen("tcp", listen)
			}
			if err != nil {
				return fmt.Errorf("fcgi listen: %w", err)
			}

			h, cleanup := buildHandler(cmd.Context(), loadApp)
			defer cleanup()
			return gateway.ServeFastCGI(l, h)
		},
	}
	cmd.Flags().StringVar(&socket, "socket", "", "Unix socket path to listen on")
	cmd.Flags().StringVar(&listen, "listen", "", "TCP address to listen on")
	return cmd
}
