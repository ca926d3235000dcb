// Package gateway serves asynchronous applications to hosts that expect a
// blocking call per request: the net/http server loop, FastCGI process
// managers such as Passenger or mod_fcgid, and plain CGI.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/utils"
)

// Reply is a fully buffered response.
type Reply struct {
	Status int
	Header http.Header
	Body   []byte
}

// AsyncHandler serves a request without blocking the caller. Exactly one
// reply is delivered on the returned channel, unless ctx ends first.
type AsyncHandler interface {
	ServeAsync(ctx context.Context, r *http.Request) <-chan *Reply
}

// AsyncHandlerFunc adapts a function to AsyncHandler.
type AsyncHandlerFunc func(ctx context.Context, r *http.Request) <-chan *Reply

func (f AsyncHandlerFunc) ServeAsync(ctx context.Context, r *http.Request) <-chan *Reply {
	return f(ctx, r)
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTimeout bounds how long the adapter waits for a reply. Zero waits
// until the request context ends.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		a.timeout = d
	}
}

// Adapter exposes an AsyncHandler as a blocking http.Handler.
type Adapter struct {
	app     AsyncHandler
	timeout time.Duration
}

var _ http.Handler = (*Adapter)(nil)

func New(app AsyncHandler, opts ...Option) *Adapter {
	a := &Adapter{app: app}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ServeHTTP waits for the wrapped application's reply and writes it unmodified.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	replies := a.app.ServeAsync(ctx, r.WithContext(ctx))
	select {
	case reply, ok := <-replies:
		if !ok || reply == nil {
			utils.WarnCtx(ctx, "application closed reply channel without a response", "path", r.URL.Path)
			utils.WriteHTTPError(w, constants.ResponseBadGateway, http.StatusBadGateway)
			return
		}
		writeReply(w, reply)
	case <-ctx.Done():
		utils.WarnCtx(ctx, "application did not reply in time", "path", r.URL.Path, "error", ctx.Err())
		utils.WriteHTTPError(w, constants.ResponseGatewayTimeout, http.StatusGatewayTimeout)
	}
}

func writeReply(w http.ResponseWriter, reply *Reply) {
	dst := w.Header()
	for k, vs := range reply.Header {
		dst[k] = append([]string(nil), vs...)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(reply.Body) > 0 {
		if _, err := w.Write(reply.Body); err != nil {
			utils.Debug(constants.LogWriteFailed, err)
		}
	}
}
