package slug_test

import (
	"regexp"
	"testing"

	"github.com/niksmo/storefront/pkg/slug"
	"github.com/stretchr/testify/assert"
)

var slugFormat = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Elegant Summer Dress", "elegant-summer-dress"},
		{"Ready-Made Clothing", "ready-made-clothing"},
		{"  --Hello__World--  ", "hello-world"},
		{"My App 2.0!", "my-app-20"},
		{"Rock & Roll", "rock-roll"},
		{"a&b", "ab"},
		{"Café Crème", "cafe-creme"},
		{"snake_case_name", "snake-case-name"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
		{"!!!", ""},
		{"", ""},
		{"Привет мир", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := slug.Make(tt.in)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.Regexp(t, slugFormat, got)
			}
		})
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{
		"Premium Cotton Fabric",
		"-_- weird -_- input -_-",
		"Ünïcödé Tëxt 100%",
		"already-a-slug",
		"UPPER lower 123",
	}
	for _, in := range inputs {
		once := slug.Make(in)
		assert.Equal(t, once, slug.Make(once), in)
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{
		"summer-dress":   true,
		"summer-dress-2": true,
	}
	exists := func(s string) bool { return taken[s] }

	assert.Equal(t, "winter-coat", slug.Unique("winter-coat", exists))
	assert.Equal(t, "summer-dress-3", slug.Unique("summer-dress", exists))
}
