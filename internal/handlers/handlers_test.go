package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/internal/handlers"
	"github.com/dmitrymomot/kennel/internal/listing"
	"github.com/dmitrymomot/kennel/internal/listing/listingtest"
	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/internal/reservation"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/adminauth"
	"github.com/dmitrymomot/kennel/pkg/cache"
	"github.com/dmitrymomot/kennel/pkg/logger"
)

const passcode = "s3cret"

type testEnv struct {
	app          *internal.App
	auth         *adminauth.Authority
	token        string
	store        *listingtest.Store
	blobs        *listingtest.Blobs
	testimonials *fakeTestimonials
	reservations *fakeReservations
}

func newEnv(t *testing.T, secret string) *testEnv {
	t.Helper()

	auth := adminauth.New(secret)
	var token string
	if secret != "" {
		var err error
		token, err = auth.Issue()
		require.NoError(t, err)
	}

	denyCache := cache.NewMemory[bool]()
	publicCache := cache.NewMemory[[]byte]()
	t.Cleanup(func() {
		_ = denyCache.Close()
		_ = publicCache.Close()
	})
	denylist := adminauth.NewCacheDenylist(denyCache)
	public := handlers.NewPublicCache(publicCache, time.Minute, logger.NewNope())

	e := &testEnv{
		auth:         auth,
		token:        token,
		store:        listingtest.NewStore(),
		blobs:        listingtest.NewBlobs(),
		testimonials: newFakeTestimonials(),
		reservations: &fakeReservations{},
	}
	listings := listing.NewService(e.store, e.blobs)

	e.app = internal.New(
		internal.WithErrorHandler(handlers.ErrorHandler),
		internal.WithNotFoundHandler(handlers.NotFound),
		internal.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		internal.WithMiddleware(middlewares.AdminGate(auth, middlewares.WithDenylist(denylist))),
		internal.WithHandlers(
			handlers.NewAuth(auth, denylist),
			handlers.NewPages(auth, denylist, e.store),
			handlers.NewAdminDogs(listings, e.store, public),
			handlers.NewCatalog(e.store, public),
			handlers.NewTestimonials(e.testimonials, public),
			handlers.NewReservations(e.reservations, public),
		),
	)
	return e
}

type reqOption func(*http.Request)

func asAdmin(token string) reqOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: adminauth.CookieName, Value: token})
	}
}

func withHeader(name, value string) reqOption {
	return func(r *http.Request) { r.Header.Set(name, value) }
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string, opts ...reqOption) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	e.app.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) json(t *testing.T, method, path, body string, opts ...reqOption) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return e.do(t, method, path, r, "application/json", opts...)
}

func (e *testEnv) form(t *testing.T, path string, values url.Values, opts ...reqOption) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", opts...)
}

type upload struct {
	name string
	data []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...upload) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func jpeg(tag string) []byte { return []byte("\xff\xd8\xff\xe0" + tag) }

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) errorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[errorResponse](t, rec)
	require.Equal(t, code, body.Error.Code)
	return body
}

type fakeTestimonials struct {
	mu    sync.Mutex
	items map[uuid.UUID]repository.Testimonial
	order []uuid.UUID
}

func newFakeTestimonials() *fakeTestimonials {
	return &fakeTestimonials{items: make(map[uuid.UUID]repository.Testimonial)}
}

func (f *fakeTestimonials) CreateTestimonial(_ context.Context, arg repository.CreateTestimonialParams) (repository.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := repository.Testimonial{
		ID:         uuid.New(),
		AuthorName: arg.AuthorName,
		Location:   arg.Location,
		Body:       arg.Body,
		Rating:     arg.Rating,
		Status:     repository.TestimonialPending,
	}
	f.items[t.ID] = t
	f.order = append(f.order, t.ID)
	return t, nil
}

func (f *fakeTestimonials) ListApprovedTestimonials(ctx context.Context, limit int32) ([]repository.Testimonial, error) {
	out, err := f.ListTestimonials(ctx, repository.TestimonialApproved)
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out, err
}

func (f *fakeTestimonials) ListTestimonials(_ context.Context, status string) ([]repository.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Testimonial
	for _, id := range f.order {
		if t, ok := f.items[id]; ok && (status == "" || t.Status == status) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTestimonials) SetTestimonialStatus(_ context.Context, id uuid.UUID, status string) (repository.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok {
		return repository.Testimonial{}, repository.ErrNotFound
	}
	t.Status = status
	f.items[id] = t
	return t, nil
}

func (f *fakeTestimonials) DeleteTestimonial(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeReservations struct {
	mu      sync.Mutex
	created []reservation.Input
	err     error
}

func (f *fakeReservations) Create(_ context.Context, in reservation.Input) (repository.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return repository.Reservation{}, f.err
	}
	f.created = append(f.created, in)
	dogID := in.DogID
	return repository.Reservation{
		ID:            uuid.New(),
		DogID:         &dogID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Status:        repository.ReservationPending,
		DepositCents:  25000,
	}, nil
}

func (f *fakeReservations) MarkPaid(_ context.Context, id uuid.UUID) (repository.Reservation, error) {
	return f.transition(id, repository.ReservationPaid)
}

func (f *fakeReservations) Cancel(_ context.Context, id uuid.UUID) (repository.Reservation, error) {
	return f.transition(id, repository.ReservationCancelled)
}

func (f *fakeReservations) transition(id uuid.UUID, status string) (repository.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return repository.Reservation{}, f.err
	}
	return repository.Reservation{ID: id, Status: status}, nil
}

func (f *fakeReservations) List(context.Context) ([]repository.Reservation, error) {
	return nil, nil
}
