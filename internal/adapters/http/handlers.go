package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/viralforge/profiles-service/internal/application"
	"github.com/viralforge/profiles-service/internal/domain"
)

const maxBodyBytes = 1 << 20

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.service.Ready(ctx); err != nil {
		h.logOperationError(r.Context(), "readyz", http.StatusServiceUnavailable, "NOT_READY", "store unreachable", err)
		writeError(w, http.StatusServiceUnavailable, "NOT_READY", "store unreachable")
		return
	}
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) createProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		h.writeMappedError(r.Context(), w, opCreateProfile, domain.ErrMissingToken)
		return
	}
	var req application.ProfileInput
	if err := decodeBody(w, r, &req); err != nil {
		h.writeBadRequest(r.Context(), w, opCreateProfile, err)
		return
	}

	res, err := h.service.CreateProfile(r.Context(), claims, req)
	if err != nil {
		h.writeMappedError(r.Context(), w, opCreateProfile, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) getMyProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		h.writeMappedError(r.Context(), w, opGetProfile, domain.ErrMissingToken)
		return
	}
	res, err := h.service.GetMyProfile(r.Context(), claims)
	if err != nil {
		h.writeMappedError(r.Context(), w, opGetProfile, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) updateMyProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		h.writeMappedError(r.Context(), w, opUpdateProfile, domain.ErrMissingToken)
		return
	}
	var req application.UpdateProfileRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeBadRequest(r.Context(), w, opUpdateProfile, err)
		return
	}
	res, err := h.service.UpdateMyProfile(r.Context(), claims, req)
	if err != nil {
		h.writeMappedError(r.Context(), w, opUpdateProfile, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeBody reads a single JSON object. Unknown fields are tolerated so
// clients that echo stored records back (ids, timestamps) keep working.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func (h *Handler) writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(operation, err)
	h.logOperationError(ctx, operation, status, code, msg, err)
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeErrorWithFields(w, status, code, msg, verr.Fields)
		return
	}
	writeError(w, status, code, msg)
}

func (h *Handler) writeBadRequest(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	code := "VALIDATION_ERROR"
	msg := "invalid request body: " + err.Error()
	h.logOperationError(ctx, operation, http.StatusBadRequest, code, msg, err)
	writeError(w, http.StatusBadRequest, code, msg)
}
