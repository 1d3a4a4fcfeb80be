package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/jobfeed/internal/backend/transport"
	"github.com/pribylovaa/jobfeed/internal/models"
)

const (
	pathTokenPair    = "/api/token/pair"
	pathTokenRefresh = "/api/token/refresh"
	pathRegister     = "/api/auth/register"
	pathJobsFilter   = "/api/jobs/filter"
	pathJobsStats    = "/api/jobs/stats"
	pathJobsDates    = "/api/jobs/dates"
	pathApplications = "/api/applications"

	// maxBody — предел чтения тела ответа.
	maxBody = 4 << 20
)

// Options — параметры сборки клиента.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Tokens — источник access-токена для заголовка Authorization (может быть nil).
	Tokens transport.TokenSource
	Logger *slog.Logger
	// Transport — базовый RoundTripper (по умолчанию http.DefaultTransport).
	Transport http.RoundTripper
}

// Client реализует AuthAPI и JobsAPI поверх HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

var (
	_ AuthAPI = (*Client)(nil)
	_ JobsAPI = (*Client)(nil)
)

// New собирает клиент с цепочкой RoundTripper: metadata -> logging -> timeout.
func New(opts Options) (*Client, error) {
	const op = "backend.New"

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: base url: %w", op, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%s: base url %q: scheme must be http or https", op, opts.BaseURL)
	}

	rt := transport.Chain(opts.Transport,
		transport.WithMetadata(opts.UserAgent, opts.Tokens),
		transport.WithLogging(opts.Logger),
		transport.WithTimeout(opts.Timeout),
	)

	return &Client{
		base: base,
		http: &http.Client{
			Transport: rt,
			// Курсоры и редиректы бэкенда не должны уводить Bearer на чужой хост.
			CheckRedirect: func(req *http.Request, _ []*http.Request) error {
				if req.URL.Host != base.Host {
					return ErrForeignCursor
				}
				return nil
			},
		},
	}, nil
}

// NewStatusError строит ошибку по HTTP-статусу (удобно для тестов и фейков).
func NewStatusError(code int, msg string) *StatusError {
	return &StatusError{Code: code, Message: msg, kind: kindOf(code)}
}

func kindOf(code int) error {
	switch {
	case code == http.StatusUnauthorized:
		return ErrUnauthenticated
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return ErrBadRequest
	case code >= 500:
		return ErrUnavailable
	default:
		return ErrBadResponse
	}
}

func (c *Client) ObtainPair(ctx context.Context, username, password string) (models.Credentials, error) {
	const op = "backend.ObtainPair"

	var out pairResponse
	err := c.do(transport.WithoutAuth(ctx), http.MethodPost, c.path(pathTokenPair),
		credentialsRequest{Username: username, Password: password}, &out)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("%s: %w", op, err)
	}

	creds := models.Credentials{Access: out.Access, Refresh: out.Refresh}
	if !creds.Complete() {
		return models.Credentials{}, fmt.Errorf("%s: incomplete pair: %w", op, ErrBadResponse)
	}

	return creds, nil
}

func (c *Client) Refresh(ctx context.Context, refresh string) (string, error) {
	const op = "backend.Refresh"

	var out refreshResponse
	err := c.do(transport.WithoutAuth(ctx), http.MethodPost, c.path(pathTokenRefresh),
		refreshRequest{Refresh: refresh}, &out)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if out.Access == "" {
		return "", fmt.Errorf("%s: empty access: %w", op, ErrBadResponse)
	}

	return out.Access, nil
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	const op = "backend.Register"

	var out registerResponse
	err := c.do(transport.WithoutAuth(ctx), http.MethodPost, c.path(pathRegister),
		credentialsRequest{Username: username, Password: password}, &out)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !out.Success {
		return fmt.Errorf("%s: %w", op, NewStatusError(http.StatusBadRequest, out.Message))
	}

	return nil
}

func (c *Client) ListJobs(ctx context.Context, query string) (*models.FeedPage, error) {
	const op = "backend.ListJobs"

	u := c.path(pathJobsFilter)
	u.RawQuery = query

	var out pageDTO
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.toModel(), nil
}

// FetchPage принимает курсор ровно в том виде, в каком его вернул бэкенд:
// абсолютный URL, путь или строку запроса ("?page=2&...").
func (c *Client) FetchPage(ctx context.Context, cursor string) (*models.FeedPage, error) {
	const op = "backend.FetchPage"

	u, err := c.resolveCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out pageDTO
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.toModel(), nil
}

func (c *Client) Stats(ctx context.Context, skill string) (*models.Stats, error) {
	const op = "backend.Stats"

	u := c.path(pathJobsStats)
	if skill != "" {
		u.RawQuery = url.Values{"skills": {skill}}.Encode()
	}

	var out statsDTO
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.toModel(), nil
}

func (c *Client) Dates(ctx context.Context) ([]time.Time, error) {
	const op = "backend.Dates"

	var raw []string
	if err := c.do(ctx, http.MethodGet, c.path(pathJobsDates), nil, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		if t := parseTime(s); !t.IsZero() {
			out = append(out, t)
		}
	}

	return out, nil
}

func (c *Client) Applications(ctx context.Context) ([]models.Application, error) {
	const op = "backend.Applications"

	var raw []applicationDTO
	if err := c.do(ctx, http.MethodGet, c.path(pathApplications), nil, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.Application, 0, len(raw))
	for _, a := range raw {
		out = append(out, a.toModel())
	}

	return out, nil
}

func (c *Client) CreateApplication(ctx context.Context, jobID int64) (*models.Application, error) {
	const op = "backend.CreateApplication"

	var raw applicationDTO
	err := c.do(ctx, http.MethodPost, c.path(pathApplications), createApplicationRequest{JobID: jobID}, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := raw.toModel()
	if app.JobID == 0 {
		app.JobID = jobID
	}

	return &app, nil
}

func (c *Client) DeleteApplication(ctx context.Context, id int64) error {
	const op = "backend.DeleteApplication"

	u := c.path(pathApplications + "/" + strconv.FormatInt(id, 10))
	if err := c.do(ctx, http.MethodDelete, u, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) path(p string) *url.URL {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + p
	return &u
}

func (c *Client) resolveCursor(cursor string) (*url.URL, error) {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return nil, fmt.Errorf("empty cursor: %w", ErrBadRequest)
	}

	if strings.HasPrefix(cursor, "?") {
		u := c.path(pathJobsFilter)
		u.RawQuery = cursor[1:]
		return u, nil
	}

	ref, err := url.Parse(cursor)
	if err != nil {
		return nil, fmt.Errorf("parse cursor: %w", ErrBadRequest)
	}

	u := c.base.ResolveReference(ref)
	if u.Host != c.base.Host {
		return nil, ErrForeignCursor
	}

	return u, nil
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, ErrForeignCursor) {
			return ErrForeignCursor
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewStatusError(resp.StatusCode, errorMessage(raw))
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrBadResponse, err)
	}

	return nil
}

// errorMessage вытаскивает человекочитаемое сообщение из тела ошибки
// (поддерживаются {"message": ...} и {"detail": ...}).
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Detail  any    `json:"detail"`
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if body.Message != "" {
		return body.Message
	}

	if s, ok := body.Detail.(string); ok {
		return s
	}

	return ""
}
