package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/pantryshop/storefront/utils"
)

func main() {
	// Load .env as early as possible!
	_ = godotenv.Load()

	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	utils.Sync()
	if err != nil {
		os.Exit(1)
	}
}
