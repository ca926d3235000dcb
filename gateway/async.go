package gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/utils"
)

// Async runs h on its own goroutine per request against a buffered writer.
// A panic in h becomes a 500 reply.
func Async(h http.Handler) AsyncHandler {
	return AsyncHandlerFunc(func(ctx context.Context, r *http.Request) <-chan *Reply {
		replies := make(chan *Reply, 1)
		go func() {
			defer close(replies)
			buf := newBufferedWriter()
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						return
					}
					utils.ErrorCtx(ctx, "handler panic", "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
					buf = newBufferedWriter()
					utils.WriteHTTPError(buf, constants.ResponseInternalError, http.StatusInternalServerError)
					replies <- buf.reply()
				}
			}()
			h.ServeHTTP(buf, r.WithContext(ctx))
			replies <- buf.reply()
		}()
		return replies
	})
}

// bufferedWriter is an http.ResponseWriter that keeps everything in memory.
type bufferedWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.status = code
	b.wroteHeader = true
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}

func (b *bufferedWriter) reply() *Reply {
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	return &Reply{
		Status: status,
		Header: b.header.Clone(),
		Body:   bytes.Clone(b.body.Bytes()),
	}
}
