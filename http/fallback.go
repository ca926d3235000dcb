package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/telemetry"
	"github.com/pantryshop/storefront/utils"
)

// Diagnostic is the JSON body served while the application cannot load.
type Diagnostic struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
	Type    string `json:"type,omitempty"`
}

func (d Diagnostic) kind() string {
	if d.Error == constants.DiagnosticConfigError {
		return "config"
	}
	return "import"
}

// NewFallbackHandler answers every request with 200 and diag. GET / and
// GET /api/{path} are routed explicitly; other paths and methods get the
// same answer.
func NewFallbackHandler(diag Diagnostic) http.Handler {
	serve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		telemetry.DiagnosticServed(diag.kind())
		if err := utils.WriteHTTPJSON(w, http.StatusOK, diag); err != nil {
			utils.Error(constants.LogFailedEncodeJSON, err)
		}
	})

	r := mux.NewRouter()
	r.Handle(constants.RouteRoot, serve).Methods(http.MethodGet)
	r.Handle(constants.APIPrefix+"/{path:.*}", serve).Methods(http.MethodGet)
	r.NotFoundHandler = serve
	r.MethodNotAllowedHandler = serve
	return r
}
