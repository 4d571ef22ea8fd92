package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/pkg/validator"
)

type reservation struct {
	DogID string `json:"dog_id" validate:"required,uuid"`
	Name  string `json:"customer_name" validate:"required,max=10"`
	Email string `json:"customer_email" validate:"required,email"`
	Note  string `json:"-" validate:"max=3"`
	Rate  int    `validate:"gte=1,lte=5"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		err := validator.Struct(reservation{
			DogID: "5f1c9a55-2f8e-4c1a-9d7b-1b2f3c4d5e6f",
			Name:  "Ann",
			Email: "ann@example.com",
			Rate:  5,
		})
		require.NoError(t, err)
	})

	t.Run("field errors use json names", func(t *testing.T) {
		t.Parallel()

		err := validator.Struct(reservation{
			DogID: "not-a-uuid",
			Name:  "A very long customer name",
			Rate:  9,
		})

		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))

		fields := verrs.Fields()
		require.Equal(t, "must be a valid id", fields["dog_id"])
		require.Equal(t, "must be at most 10 characters", fields["customer_name"])
		require.Equal(t, "is required", fields["customer_email"])
		require.Equal(t, "must be less than or equal to 5", fields["Rate"])
		require.Contains(t, err.Error(), "customer_email: is required")
	})

	t.Run("non struct", func(t *testing.T) {
		t.Parallel()

		err := validator.Struct("nope")
		require.Error(t, err)

		var verrs validator.ValidationErrors
		require.False(t, errors.As(err, &verrs))
	})
}
