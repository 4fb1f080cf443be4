package http

import (
	"net/http"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) synchronize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.synchronize").Msg(ErrNoUserID.Error())
		utils.WriteError(w, ErrNoUserID.Error(), http.StatusUnauthorized)
		return
	}

	var req models.SyncRequest
	if !decodeBody(w, r, &req, "*Handler.synchronize") {
		return
	}

	// provider changes never arrive over the wire
	for i := range req.Changes {
		req.Changes[i].Origin = models.OriginClient
	}

	resp, err := h.services.SyncService.Synchronize(ctx, userID, req)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Str("func", "*Handler.synchronize").Int("status", status).Msg("sync round failed")
		utils.WriteError(w, errorMessage(err, status), status)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) listConflicts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listConflicts").Msg(ErrNoUserID.Error())
		utils.WriteError(w, ErrNoUserID.Error(), http.StatusUnauthorized)
		return
	}

	conflicts, err := h.services.ConflictService.ListConflicts(ctx, userID)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Str("func", "*Handler.listConflicts").Msg("error listing conflicts")
		utils.WriteError(w, errorMessage(err, status), status)
		return
	}

	if conflicts == nil {
		conflicts = []models.StoredConflict{}
	}
	utils.WriteJSON(w, models.ConflictList{Conflicts: conflicts, Length: len(conflicts)}, http.StatusOK)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.resolveConflict").Msg(ErrNoUserID.Error())
		utils.WriteError(w, ErrNoUserID.Error(), http.StatusUnauthorized)
		return
	}

	conflictID := chi.URLParam(r, "conflictID")

	var req models.ResolveConflictRequest
	if !decodeBody(w, r, &req, "*Handler.resolveConflict") {
		return
	}

	resolved, err := h.services.ConflictService.ResolveConflict(ctx, userID, conflictID, req)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Str("func", "*Handler.resolveConflict").Str("conflict_id", conflictID).Msg("error resolving conflict")
		utils.WriteError(w, errorMessage(err, status), status)
		return
	}

	utils.WriteJSON(w, resolved, http.StatusOK)
}
