package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/kennel/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"Milo", "milo"},
		{"Bo's  Puppy!!", "bos-puppy"},
		{"---", ""},
		{"", ""},
		{"  Trim Me  ", "trim-me"},
		{"Price: $99.99", "price-99-99"},
		{"Chloé & Zoë", "chloe-zoe"},
		{"Rex “The Good Boy”", "rex-the-good-boy"},
		{"Daisy’s Litter #3", "daisys-litter-3"},
		{"Бобик", ""},
		{"a--b__c", "a-b-c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slug.Make(tt.input))
		})
	}
}
