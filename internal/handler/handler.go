// Package handler exposes the service over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/middleware"
	"github.com/Dan9191/bank-credit-engine/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Handler translates HTTP requests into service calls.
type Handler struct {
	svc      *service.Service
	log      *logrus.Logger
	validate *validator.Validate
}

// NewHandler creates a handler over svc
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	v := validator.New()
	// Money fields are validated by their numeric value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return &Handler{svc: svc, log: log, validate: v}
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors onto status codes. Internal failures are
// logged and hidden from the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if reason, ok := apperrors.Reason(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: apperrors.ErrInsufficientEligibility.Error(), Reason: reason})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidTerm),
		errors.Is(err, apperrors.ErrInvalidRate):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrInsufficientEligibility):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", apperrors.ErrValidation, err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", apperrors.ErrValidation, name)
	}
	return id, nil
}

// caller returns the authenticated user and the {id} account of the route.
func caller(r *http.Request) (userID, accountID int64, err error) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		return 0, 0, apperrors.ErrUnauthorized
	}
	if _, hasAccount := mux.Vars(r)["id"]; !hasAccount {
		return userID, 0, nil
	}
	accountID, err = pathID(r, "id")
	return userID, accountID, err
}
