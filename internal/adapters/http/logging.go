package http

import (
	"context"
	"log/slog"
)

func (h *Handler) logOperationError(ctx context.Context, operation string, statusCode int, code, message string, err error) {
	fields := []any{
		"operation", operation,
		"outcome", "failure",
		"status_code", statusCode,
		"error_code", code,
		"message", message,
		"request_id", requestIDFromContext(ctx),
	}
	if claims, ok := claimsFromContext(ctx); ok {
		fields = append(fields, "subject", claims.Subject)
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	level := slog.LevelWarn
	if statusCode >= 500 {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "http operation failed", fields...)
}
