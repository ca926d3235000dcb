package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/model"
	"github.com/pantryshop/storefront/storage"
	"github.com/pantryshop/storefront/utils"
)

// GET /api/
func (a *App) rootHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteHTTPJSON(w, http.StatusOK, map[string]string{"message": constants.ResponseHelloWorld})
}

// POST /api/status { client_name }
func (a *App) createStatusCheckHandler(w http.ResponseWriter, r *http.Request) {
	var req model.StatusCheckCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteHTTPError(w, constants.ResponseInvalidRequestBody, http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		utils.WriteHTTPError(w, constants.ResponseMissingClientName, http.StatusBadRequest)
		return
	}

	check := model.NewStatusCheck(name)
	if err := a.store.SaveStatusCheck(r.Context(), check); err != nil {
		utils.ErrorCtx(r.Context(), constants.ResponseFailedToSave, "error", err)
		utils.WriteHTTPError(w, constants.ResponseFailedToSave, http.StatusInternalServerError)
		return
	}
	if err := a.bus.Publish(constants.TopicStatusCheckCreated, check); err != nil {
		utils.WarnCtx(r.Context(), "failed to publish status check event", "error", err, "id", check.ID)
	}
	utils.WriteHTTPJSON(w, http.StatusOK, check)
}

// GET /api/status
func (a *App) listStatusChecksHandler(w http.ResponseWriter, r *http.Request) {
	checks, err := a.store.ListStatusChecks(r.Context(), storage.DefaultListLimit)
	if err != nil {
		utils.ErrorCtx(r.Context(), constants.ResponseFailedToList, "error", err)
		utils.WriteHTTPError(w, constants.ResponseFailedToList, http.StatusInternalServerError)
		return
	}
	if checks == nil {
		checks = []*model.StatusCheck{}
	}
	utils.WriteHTTPJSON(w, http.StatusOK, checks)
}

// GET /api/healthz
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		utils.WarnCtx(r.Context(), "health check failed", "error", err)
		utils.WriteHTTPJSON(w, http.StatusServiceUnavailable, map[string]string{"status": constants.ResponseUnhealthy})
		return
	}
	utils.WriteHTTPJSON(w, http.StatusOK, map[string]string{"status": constants.ResponseHealthy})
}
