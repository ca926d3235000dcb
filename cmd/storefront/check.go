package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/pantryshop/storefront/constants"
	storehttp "github.com/pantryshop/storefront/http"
	"github.com/pantryshop/storefront/utils"
)

// newCheckCmd creates the 'check' subcommand.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the application once and report what its entry points would serve",
		Run: func(cmd *cobra.Command, args []string) {
			if code := check(cmd.Context(), loadApp); code != 0 {
				utils.Sync()
				exit(code)
			}
		},
	}
}

func check(ctx context.Context, load storehttp.LoadFunc) int {
	if ctx == nil {
		ctx = context.Background()
	}
	h, err := storehttp.Load(ctx, load)
	if err != nil {
		data, _ := json.MarshalIndent(storehttp.Diagnose(err, constants.HintPassenger), "", "  ")
		utils.User("%s", data)
		return 1
	}
	if c, ok := h.(interface{ Close(context.Context) error }); ok {
		_ = c.Close(ctx)
	}
	utils.User("ok")
	return 0
}
