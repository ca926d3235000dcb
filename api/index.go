package handler

import (
	"net/http"

	storehttp "github.com/pantryshop/storefront/http"
)

// Handler is the entry point for Vercel serverless functions
func Handler(w http.ResponseWriter, r *http.Request) {
	storehttp.ServerlessHandler(w, r)
}
