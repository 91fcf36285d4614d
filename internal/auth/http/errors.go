package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/service"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store"
	"github.com/aussiebroadwan/ticketcheater/pkg/httpx"
	"github.com/aussiebroadwan/ticketcheater/pkg/jwtx"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

// Result codes carried in the envelope's resultCode.
const (
	ResultUnauthenticated     = "UNAUTHENTICATED"
	ResultInvalidToken        = "INVALID_TOKEN"
	ResultExpiredToken        = "EXPIRED_TOKEN"
	ResultInvalidPermission   = "INVALID_PERMISSION"
	ResultUserNotFound        = "USER_NOT_FOUND"
	ResultInvalidPassword     = "INVALID_PASSWORD"
	ResultDuplicatedUsername  = "DUPLICATED_USERNAME"
	ResultGameNotFound        = "GAME_NOT_FOUND"
	ResultCategoryNotFound    = "CATEGORY_NOT_FOUND"
	ResultInvalidRequest      = "INVALID_REQUEST"
	ResultCacheUnavailable    = "CACHE_UNAVAILABLE"
	ResultInternalServerError = "INTERNAL_SERVER_ERROR"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable is checked in order with errors.Is. Anything not listed is a 500.
var errorTable = []errorMapping{
	{service.ErrUnauthenticated, http.StatusUnauthorized, ResultUnauthenticated},
	{service.ErrExpiredToken, http.StatusUnauthorized, ResultExpiredToken},
	{service.ErrInvalidToken, http.StatusUnauthorized, ResultInvalidToken},
	{jwtx.ErrMalformed, http.StatusUnauthorized, ResultInvalidToken},
	{jwtx.ErrInvalidSignature, http.StatusUnauthorized, ResultInvalidToken},
	{service.ErrInvalidPermission, http.StatusForbidden, ResultInvalidPermission},
	{service.ErrUserNotFound, http.StatusNotFound, ResultUserNotFound},
	{service.ErrInvalidPassword, http.StatusUnauthorized, ResultInvalidPassword},
	{service.ErrDuplicatedUsername, http.StatusConflict, ResultDuplicatedUsername},
	{service.ErrGameNotFound, http.StatusNotFound, ResultGameNotFound},
	{service.ErrCategoryNotFound, http.StatusNotFound, ResultCategoryNotFound},
	{service.ErrInvalidRequest, http.StatusBadRequest, ResultInvalidRequest},
	{store.ErrCacheUnavailable, http.StatusServiceUnavailable, ResultCacheUnavailable},
}

func classifyError(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, ResultInternalServerError
}

// writeError is the only place a failed request gets its envelope. The
// error text never reaches the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)

	l := slogx.FromContext(r.Context())
	switch {
	case status >= http.StatusInternalServerError:
		l.Error("request failed", slog.String("result_code", code), slog.Any("error", err))
	default:
		l.Debug("request rejected", slog.String("result_code", code), slog.Any("error", err))
	}

	httpx.WriteResult(w, status, code, nil)
}

// errBadBody wraps JSON decode failures so they map to INVALID_REQUEST.
func errBadBody(err error) error {
	return errors.Join(service.ErrInvalidRequest, err)
}
