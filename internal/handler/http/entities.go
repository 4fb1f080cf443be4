package http

import (
	"net/http"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listEntities").Msg(ErrNoUserID.Error())
		utils.WriteError(w, ErrNoUserID.Error(), http.StatusUnauthorized)
		return
	}

	entityType := models.EntityType(chi.URLParam(r, "entityType"))

	list, err := h.services.EntityService.ListEntities(ctx, userID, entityType)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Str("func", "*Handler.listEntities").Str("entity_type", string(entityType)).Msg("error listing entities")
		utils.WriteError(w, errorMessage(err, status), status)
		return
	}

	utils.WriteJSON(w, list, http.StatusOK)
}
