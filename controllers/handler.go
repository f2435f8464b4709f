// Package controllers exposes checkout, reservations, catalog administration
// and reports over gin.
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/checkout"
	"github.com/balcao/backend/reports"
	"github.com/balcao/backend/repository"
	"github.com/balcao/backend/utils"
)

const requestTimeout = 10 * time.Second

type Handler struct {
	repos    repository.Repositories
	checkout *checkout.Coordinator
	reports  *reports.Aggregator
	issuer   *utils.TokenIssuer
	log      *zap.Logger
}

func NewHandler(repos repository.Repositories, co *checkout.Coordinator, agg *reports.Aggregator, issuer *utils.TokenIssuer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{repos: repos, checkout: co, reports: agg, issuer: issuer, log: log}
}

func (h *Handler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInsufficientStock),
		errors.Is(err, apperr.ErrReservationConflict),
		errors.Is(err, apperr.ErrDuplicateKey),
		errors.Is(err, apperr.ErrStockChanged):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps err onto a status and a JSON body. Typed errors add
// their details next to the message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var stock *apperr.InsufficientStockError
	var clash *apperr.ConflictError
	var dup *apperr.DuplicateKeyError
	switch {
	case errors.As(err, &stock):
		body["product_code"] = stock.Code
		body["available"] = stock.Available
		body["requested"] = stock.Requested
	case errors.As(err, &clash):
		body["venue_id"] = clash.VenueID
		body["date"] = clash.Date
		body["hour_start"] = clash.Start
		body["hour_end"] = clash.End
	case errors.As(err, &dup):
		body["field"] = dup.Field
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, body)
}

func objectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return primitive.NilObjectID, false
	}
	return id, true
}
