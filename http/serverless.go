package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/pantryshop/storefront/config"
	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/server"
	"github.com/pantryshop/storefront/utils"
)

var (
	initServerless sync.Once
	serverlessApp  http.Handler
	serverlessLoad LoadFunc = DefaultLoad
	muxMutex       sync.RWMutex
)

// DefaultLoad builds the storefront API from the config file (if present)
// and the environment.
func DefaultLoad(ctx context.Context) (http.Handler, error) {
	app, err := server.Load(ctx, config.DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ServerlessHandler resolves the application on the first request of the
// process and serves every request with it.
func ServerlessHandler(w http.ResponseWriter, r *http.Request) {
	initServerless.Do(func() {
		muxMutex.Lock()
		defer muxMutex.Unlock()
		serverlessApp = Resolve(context.Background(), serverlessLoad, constants.HintVercel)
	})

	muxMutex.RLock()
	h := serverlessApp
	muxMutex.RUnlock()

	if h == nil {
		utils.WriteHTTPError(w, constants.ResponseInternalError, http.StatusInternalServerError)
		return
	}
	h.ServeHTTP(w, r)
}

// ServerlessApp returns the resolved handler, or nil before the first request.
func ServerlessApp() http.Handler {
	muxMutex.RLock()
	defer muxMutex.RUnlock()
	return serverlessApp
}

// ResetServerlessMux resets the serverless state (for testing). A nil load
// restores DefaultLoad.
func ResetServerlessMux(load LoadFunc) {
	muxMutex.Lock()
	defer muxMutex.Unlock()

	if c, ok := serverlessApp.(interface{ Close(context.Context) error }); ok {
		_ = c.Close(context.Background())
	}
	initServerless = sync.Once{}
	serverlessApp = nil
	if load == nil {
		load = DefaultLoad
	}
	serverlessLoad = load
}
