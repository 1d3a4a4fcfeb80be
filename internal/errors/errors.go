// errors стандартизирует ответы об ошибках локального HTTP-слоя.
// На вход принимает ошибку доменных пакетов (backend, session, feed, query, preferences),
// на выход даёт:
//   - корректный HTTP-статус;
//   - краткий стабильный код и безопасное message без утечки деталей.
//
// Источник истинности по маппингу: сентинелы пакетов backend/session/feed.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/jobfeed/internal/backend"
	"github.com/pribylovaa/jobfeed/internal/backend/transport"
	"github.com/pribylovaa/jobfeed/internal/feed"
	"github.com/pribylovaa/jobfeed/internal/preferences"
	"github.com/pribylovaa/jobfeed/internal/query"
	"github.com/pribylovaa/jobfeed/internal/session"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ответа об ошибке.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// rule — строка таблицы маппинга: первая совпавшая по errors.Is побеждает.
type rule struct {
	target error
	status int
	code   string
	msg    string
}

// Порядок важен: более специфичные сентинелы идут раньше общих.
var rules = []rule{
	{session.ErrEmptyCredentials, http.StatusBadRequest, "invalid_argument", "username and password are required"},
	{session.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "invalid username or password"},
	{session.ErrRegistrationRejected, http.StatusBadRequest, "registration_rejected", "registration rejected"},
	{feed.ErrAlreadyApplied, http.StatusConflict, "already_applied", "already applied"},
	{feed.ErrNotApplied, http.StatusNotFound, "not_applied", "no application for this job"},
	{preferences.ErrInvalidLocale, http.StatusBadRequest, "invalid_argument", "unsupported language"},
	{preferences.ErrInvalidTheme, http.StatusBadRequest, "invalid_argument", "unsupported theme"},
	{query.ErrUnknownField, http.StatusBadRequest, "invalid_argument", "unknown filter"},
	{query.ErrInvalidQuery, http.StatusBadRequest, "invalid_argument", "invalid query"},
	{backend.ErrForeignCursor, http.StatusBadRequest, "invalid_cursor", "invalid page cursor"},
	{backend.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
	{backend.ErrForbidden, http.StatusForbidden, "permission_denied", "permission denied"},
	{backend.ErrNotFound, http.StatusNotFound, "not_found", "not found"},
	{backend.ErrConflict, http.StatusConflict, "already_exists", "already exists"},
	{backend.ErrBadRequest, http.StatusBadRequest, "invalid_argument", "invalid argument"},
	{context.Canceled, StatusClientClosedRequest, "canceled", "canceled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"},
	{backend.ErrUnavailable, http.StatusBadGateway, "unavailable", "job service unavailable"},
	{backend.ErrBadResponse, http.StatusBadGateway, "bad_upstream", "unexpected response from job service"},
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - программная ошибка вызова: 500/internal, чтобы не послать
//     "200 OK" с телом ошибки и не маскировать баг;
//   - err совпадает с сентинелом из таблицы rules - соответствующий статус;
//   - прочее - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err != nil {
		for _, r := range rules {
			if stderrors.Is(err, r.target) {
				return r.status, ErrorResponse{Error: APIError{Code: r.code, Message: r.msg}}
			}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: APIError{
			Code:    "internal",
			Message: "internal error",
		},
	}
}

// Message — текст для показа пользователю. Для отказа в регистрации
// возвращает сообщение бэкенда (например, "Username already exists").
func Message(err error) string {
	var se *backend.StatusError
	if stderrors.Is(err, session.ErrRegistrationRejected) && stderrors.As(err, &se) && se.Message != "" {
		return se.Message
	}

	_, resp := ToHTTP(err)
	return resp.Error.Message
}

// WriteError — хелпер для JSON-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из контекста или заголовка.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	rid := transport.RequestID(r.Context())
	if rid == "" {
		rid = r.Header.Get("X-Request-Id")
	}
	resp.Error.RequestID = rid

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
