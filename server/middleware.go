package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/telemetry"
	"github.com/pantryshop/storefront/utils"
)

type middleware func(http.Handler) http.Handler

// chain wraps h so that the first middleware listed is the outermost.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func corsMiddleware(origins []string) middleware {
	allowAny := len(origins) == 0 || slices.Contains(origins, constants.DefaultCORSOrigin)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAny:
				w.Header().Set(constants.HeaderAllowOrigin, constants.DefaultCORSOrigin)
			case origin != "" && slices.Contains(origins, origin):
				w.Header().Set(constants.HeaderAllowOrigin, origin)
				w.Header().Set(constants.HeaderAllowCreds, "true")
				w.Header().Add(constants.HeaderVary, "Origin")
			}
			w.Header().Set(constants.HeaderAllowMethods, constants.CORSAllowMethods)
			w.Header().Set(constants.HeaderAllowHeaders, constants.CORSAllowHeaders)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(constants.HeaderRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(constants.HeaderRequestID, reqID)
		ctx := utils.WithRequestID(r.Context(), reqID)
		utils.DebugCtx(ctx, "request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func telemetryMiddleware(next http.Handler) http.Handler {
	return telemetry.WrapHandler(constants.DefaultServiceName, next)
}
