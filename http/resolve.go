package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pantryshop/storefront/config"
	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/utils"
)

// LoadFunc builds the application an entry point exposes.
type LoadFunc func(ctx context.Context) (http.Handler, error)

// PanicError is returned for a LoadFunc that panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Resolve runs load and returns the handler it built, unchanged. When load
// fails the returned handler serves a diagnostic describing the failure to
// every request instead.
func Resolve(ctx context.Context, load LoadFunc, hint string) http.Handler {
	h, err := Load(ctx, load)
	if err != nil {
		diag := Diagnose(err, hint)
		utils.Error("%s: %s", constants.LogAppLoadFailed, err)
		return NewFallbackHandler(diag)
	}
	return h
}

// Load runs load, turning a panic into a *PanicError and a nil handler into
// an error.
func Load(ctx context.Context, load LoadFunc) (h http.Handler, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			h = nil
			err = &PanicError{Value: rec}
		}
	}()
	h, err = load(ctx)
	if err == nil && h == nil {
		err = errors.New("loader returned no handler")
	}
	return h, err
}

// Diagnose classifies a load failure into the payload served by the fallback.
func Diagnose(err error, hint string) Diagnostic {
	if config.IsConfigError(err) {
		return Diagnostic{
			Error:   constants.DiagnosticConfigError,
			Message: err.Error(),
			Hint:    hint,
		}
	}
	var cause any = utils.RootCause(err)
	var p *PanicError
	if errors.As(err, &p) && p.Unwrap() == nil {
		cause = p.Value
	}
	return Diagnostic{
		Error:   constants.DiagnosticImportError,
		Message: err.Error(),
		Type:    utils.TypeName(cause),
	}
}
