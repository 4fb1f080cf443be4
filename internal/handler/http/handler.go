package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/service"
	"github.com/MKhiriev/mint-sync/internal/utils"
)

type Handler struct {
	services *service.Services

	allowedOrigins []string
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		allowedOrigins: cfg.AllowedOrigins,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}

// decodeBody fills dst from the request body. On failure it answers 413 for
// an oversized body and 400 for anything else, and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, funcName string) bool {
	err := utils.DecodeJSONBody(w, r, dst)
	if err == nil {
		return true
	}

	log := logger.FromRequest(r)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		log.Err(err).Str("func", funcName).Int64("limit", tooLarge.Limit).Msg(ErrBodyTooLarge.Error())
		utils.WriteError(w, ErrBodyTooLarge.Error(), http.StatusRequestEntityTooLarge)
		return false
	}

	log.Err(err).Str("func", funcName).Msg(ErrInvalidJSON.Error())
	utils.WriteError(w, ErrInvalidJSON.Error(), http.StatusBadRequest)
	return false
}
