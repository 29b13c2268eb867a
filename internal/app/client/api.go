package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"cattus/internal/app/client/notify"
	"cattus/internal/config"
	"cattus/internal/domain/cat"
)

const (
	userAgent       = "Cattus-Client/1.0"
	maxResponseBody = 1 << 20
	RequestIDHeader = "X-Request-ID"
)

// API talks to the shelter REST API. A value is cheap to copy with With,
// which the web frontend does per request.
type API struct {
	client   *http.Client
	log      *slog.Logger
	baseURL  string
	token    string
	notifier notify.Notifier
}

func NewAPI(cfg *config.Config, log *slog.Logger, notifier notify.Notifier) *API {
	client := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	if notifier == nil {
		notifier = notify.Discard{}
	}

	return &API{
		client:   client,
		log:      log.With(slog.String("component", "api_client")),
		baseURL:  cfg.APIURL,
		notifier: notifier,
	}
}

// SetToken устанавливает токен аутентификации
func (a *API) SetToken(token string) {
	a.token = token
}

// With returns a copy bound to token and notifier; the transport is shared.
func (a *API) With(token string, notifier notify.Notifier) *API {
	c := *a
	c.token = token
	if notifier != nil {
		c.notifier = notifier
	}
	return &c
}

// Page is an offset/limit window for list endpoints.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) query() url.Values {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(max(p.Offset, 0)))
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

// HealthCheck проверяет доступность API
func (a *API) HealthCheck(ctx context.Context) error {
	resp, err := a.do(ctx, http.MethodGet, "/health", nil, nil, "")
	if err != nil {
		return fmt.Errorf("api unavailable: %w", err)
	}
	return a.parseResponse(resp, nil)
}

func (a *API) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := a.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	requestID := uuid.NewString()
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		requestID = id
	}
	req.Header.Set(RequestIDHeader, requestID)

	a.log.Debug("Отправка запроса",
		slog.String("method", method),
		slog.String("url", req.URL.Redacted()),
		slog.String("request_id", requestID),
	)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

type requestIDKey struct{}

// WithRequestID makes outgoing calls reuse an incoming request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func (a *API) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := a.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	return a.parseResponse(resp, out)
}

func (a *API) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	resp, err := a.do(ctx, method, path, nil, reader, "application/json")
	if err != nil {
		return err
	}
	return a.parseResponse(resp, out)
}

func (a *API) sendMultipart(ctx context.Context, method, path string, fields map[string]string, files []cat.Attachment, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		ct := f.ContentType
		if ct == "" {
			ct = http.DetectContentType(f.Data)
		}
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("write part %s: %w", f.Field, err)
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	resp, err := a.do(ctx, method, path, nil, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	return a.parseResponse(resp, out)
}

func (a *API) parseResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	a.log.Debug("Получен ответ",
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(body),
			Body:    truncate(string(body), 512),
		}
	}

	return decodeBody(resp.StatusCode, body, out)
}

// envelope covers {ok|success, message, data}; bare payloads are also valid.
type envelope struct {
	OK      *bool           `json:"ok"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) present() bool {
	return e.OK != nil || e.Success != nil
}

func (e envelope) failed() bool {
	return (e.OK != nil && !*e.OK) || (e.Success != nil && !*e.Success)
}

func decodeBody(status int, body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.present() {
			if env.failed() {
				msg := env.Message
				if msg == "" {
					msg = env.Error
				}
				return &APIError{Status: status, Message: msg}
			}
			if out == nil {
				return nil
			}
			if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
				if err := json.Unmarshal(env.Data, out); err != nil {
					return fmt.Errorf("parse response data: %w", err)
				}
				return nil
			}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// mutation reports the result of a write to the user.
func (a *API) mutation(err error, success, fallback string) error {
	if err != nil {
		a.log.Warn("mutation failed", slog.String("error", err.Error()))
		a.notifier.Error(UserMessage(err, fallback))
		return err
	}
	if success != "" {
		a.notifier.Success(success)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
