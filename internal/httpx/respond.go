package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func statusFor(err error) int {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidTransition:
		return http.StatusConflict
	case apperr.KindUpstream:
		if ae.Retryable {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps the error taxonomy onto HTTP. Upstream and unknown errors
// are logged and their details kept out of the body.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	code := statusFor(err)
	body := map[string]any{"error": apperr.Message(err)}
	if kind, ok := apperr.KindOf(err); ok {
		body["code"] = kind.String()
	}
	if code >= http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		}
		body["error"] = http.StatusText(code)
		body["retryable"] = apperr.IsRetryable(err)
	}
	writeJSON(w, code, body)
}

func decodeJSON(r *http.Request, out any) error {
	return decodeBody(r, out, true)
}

// decodeJSONLenient skips fields the target does not declare.
func decodeJSONLenient(r *http.Request, out any) error {
	return decodeBody(r, out, false)
}

func decodeBody(r *http.Request, out any, strict bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(out); err != nil {
		return apperr.Validation("httpx.decode", "invalid json")
	}
	return nil
}

func withTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(r.Context(), d)
}
