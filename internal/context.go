package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/kennel/pkg/cookie"
	"github.com/dmitrymomot/kennel/pkg/validator"
)

// MaxJSONBody caps request bodies decoded by BindJSON.
const MaxJSONBody = 1 << 20

// Component is anything renderable to HTML. templ.Component satisfies it.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter
	ResponseWriter() *ResponseWriter
	Context() context.Context

	// Param returns a chi URL parameter, or "".
	Param(name string) string
	Query(name string) string
	Header(name string) string
	SetHeader(name, value string)

	JSON(code int, v any) error
	NoContent(code int) error
	Redirect(code int, url string) error
	Render(code int, component Component) error

	// Error builds an HTTPError without writing anything.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// BindJSON decodes the body into v and validates its `validate` tags.
	// Malformed JSON yields a 400 HTTPError; rule failures yield
	// validator.ValidationErrors.
	BindJSON(v any) error

	// MultipartForm parses a multipart body, keeping up to maxMemory bytes
	// in memory.
	MultipartForm(maxMemory int64) (*multipart.Form, error)

	Cookie(name string) (string, error)
	SetCookie(name, value string, maxAge int)
	DeleteCookie(name string)

	// Written reports whether a response has been started.
	Written() bool

	Logger() *slog.Logger
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context for downstream handlers.
	Set(key, value any)
	// SetContext replaces the request context, e.g. to add a deadline.
	SetContext(ctx context.Context)
	Get(key any) any
}

type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	logger   *slog.Logger
	cookies  *cookie.Manager
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	return &requestContext{
		request:  r,
		response: rw,
		logger:   app.logger,
		cookies:  app.cookies,
	}
}

func (c *requestContext) Request() *http.Request             { return c.request }
func (c *requestContext) Response() http.ResponseWriter      { return c.response }
func (c *requestContext) ResponseWriter() *ResponseWriter    { return c.response }
func (c *requestContext) Context() context.Context           { return c.request.Context() }
func (c *requestContext) Param(name string) string           { return chi.URLParam(c.request, name) }
func (c *requestContext) Query(name string) string           { return c.request.URL.Query().Get(name) }
func (c *requestContext) Header(name string) string          { return c.request.Header.Get(name) }
func (c *requestContext) SetHeader(name, value string)       { c.response.Header().Set(name, value) }
func (c *requestContext) Written() bool                      { return c.response.Written() }
func (c *requestContext) Logger() *slog.Logger               { return c.logger }
func (c *requestContext) Get(key any) any                    { return c.request.Context().Value(key) }
func (c *requestContext) Cookie(name string) (string, error) { return c.cookies.Get(c.request, name) }

func (c *requestContext) Deadline() (deadline time.Time, ok bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Render(code int, component Component) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) BindJSON(v any) error {
	body := http.MaxBytesReader(c.response, c.request.Body, MaxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return NewHTTPError(http.StatusRequestEntityTooLarge, "Request body too large", WithError(err))
		}
		return ErrBadRequest("Malformed JSON body", WithError(err))
	}
	return validator.Struct(v)
}

func (c *requestContext) MultipartForm(maxMemory int64) (*multipart.Form, error) {
	if err := c.request.ParseMultipartForm(maxMemory); err != nil {
		return nil, ErrBadRequest("Malformed multipart body", WithError(err))
	}
	return c.request.MultipartForm, nil
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookies.Set(c.response, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookies.Delete(c.response, name)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}
