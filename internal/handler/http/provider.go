package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) createLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.createLink").Msg(ErrNoUserID.Error())
		utils.WriteError(w, ErrNoUserID.Error(), http.StatusUnauthorized)
		return
	}

	var req models.LinkRequest
	if !decodeBody(w, r, &req, "*Handler.createLink") {
		return
	}

	link, err := h.services.IngestionService.Link(ctx, userID, req)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Str("func", "*Handler.createLink").Msg("error linking provider item")
		utils.WriteError(w, errorMessage(err, status), status)
		return
	}

	utils.WriteJSON(w, link, http.StatusCreated)
}

func (h *Handler) ingestLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.ingestLink").Msg(ErrNoUserID.Error())
		utils.WriteError(w, ErrNoUserID.Error(), http.StatusUnauthorized)
		return
	}

	linkID, err := strconv.ParseInt(chi.URLParam(r, "linkID"), 10, 64)
	if err != nil || linkID <= 0 {
		utils.WriteError(w, ErrInvalidLinkID.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.services.IngestionService.Ingest(ctx, userID, linkID)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Str("func", "*Handler.ingestLink").Int64("link_id", linkID).Msg("error ingesting provider link")
		utils.WriteError(w, errorMessage(err, status), status)
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}
