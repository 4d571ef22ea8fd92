package listing_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/kennel/internal/listing"
	"github.com/dmitrymomot/kennel/internal/listing/listingtest"
)

func TestParseOptionalInt(t *testing.T) {
	t.Parallel()

	ptr := func(v int32) *int32 { return &v }

	tests := []struct {
		in   string
		want *int32
	}{
		{"", nil},
		{"   ", nil},
		{"12", ptr(12)},
		{" 12 ", ptr(12)},
		{"-3", ptr(-3)},
		{"12.5", ptr(13)},
		{"12.4", ptr(12)},
		{"1e3", ptr(1000)},
		{"abc", nil},
		{"12abc", nil},
		{"NaN", nil},
		{"Inf", nil},
		{"-Inf", nil},
		{"2147483647", ptr(2147483647)},
		{"2147483648", nil},
		{"-2147483649", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, listing.ParseOptionalInt(tt.in))
		})
	}
}

func TestOptionalInt(t *testing.T) {
	t.Parallel()

	v := int32(250)
	assert.Equal(t, &v, listing.OptionalInt(float64(250)))
	assert.Equal(t, &v, listing.OptionalInt("250"))
	assert.Equal(t, &v, listing.OptionalInt(json.Number("250")))
	assert.Nil(t, listing.OptionalInt(nil))
	assert.Nil(t, listing.OptionalInt(true))
	assert.Nil(t, listing.OptionalInt("many"))
}

func TestRollbackErrorMessage(t *testing.T) {
	t.Parallel()

	err := &listing.RollbackError{Err: listingtest.ErrUpload}
	assert.Equal(t, "upload refused (rolled back)", err.Error())

	err.Cleanup = []error{listingtest.ErrDB}
	assert.Equal(t, "upload refused (rollback incomplete: db down)", err.Error())
}
