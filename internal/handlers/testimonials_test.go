package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestimonials(t *testing.T) {
	t.Parallel()
	e := newEnv(t, passcode)

	rec := e.json(t, http.MethodPost, "/api/testimonials",
		`{"author_name":"Ann <b>B</b>","location":"Austin","body":"Great pup!<script>x()</script>","rating":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "pending", created["status"])
	id := created["id"].(string)

	// Pending testimonials are not public.
	assert.JSONEq(t, `[]`, e.json(t, http.MethodGet, "/api/testimonials", "").Body.String())

	rec = e.json(t, http.MethodPost, "/api/admin/testimonials/"+id+"/approve", "", asAdmin(e.token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.json(t, http.MethodGet, "/api/testimonials", "")
	require.Equal(t, http.StatusOK, rec.Code)
	public := decode[[]map[string]any](t, rec)
	require.Len(t, public, 1)
	assert.Equal(t, "Ann B", public[0]["author_name"])
	assert.Equal(t, "Great pup!", public[0]["body"])
	assert.NotContains(t, public[0], "id")

	rec = e.json(t, http.MethodGet, "/api/admin/testimonials?status=approved", "", asAdmin(e.token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	requireError(t, e.json(t, http.MethodGet, "/api/admin/testimonials?status=odd", "", asAdmin(e.token)),
		http.StatusBadRequest, "bad_request")

	require.Equal(t, http.StatusNoContent,
		e.json(t, http.MethodDelete, "/api/admin/testimonials/"+id, "", asAdmin(e.token)).Code)
	assert.JSONEq(t, `[]`, e.json(t, http.MethodGet, "/api/testimonials", "").Body.String())

	requireError(t, e.json(t, http.MethodPost, "/api/admin/testimonials/"+id+"/reject", "", asAdmin(e.token)),
		http.StatusNotFound, "not_found")
}

func TestTestimonials_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"rating too high", `{"author_name":"Ann","body":"Hi","rating":6}`, "rating"},
		{"rating missing", `{"author_name":"Ann","body":"Hi"}`, "rating"},
		{"no author", `{"body":"Hi","rating":4}`, "author_name"},
		{"markup only body", `{"author_name":"Ann","body":"<b></b>","rating":4}`, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t, passcode)

			body := requireError(t, e.json(t, http.MethodPost, "/api/testimonials", tt.body),
				http.StatusUnprocessableEntity, "validation_failed")
			assert.Contains(t, body.Error.Fields, tt.field)
		})
	}
}
