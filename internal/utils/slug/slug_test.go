package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/pinmark/internal/utils/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"My Test Image":       "my-test-image",
		"Café au Lait!":       "cafe-au-lait",
		"  spaced   out  ":    "spaced-out",
		"already-a_slug":      "already-a-slug",
		"Crème Brûlée #2":     "creme-brulee-2",
		"":                    "",
		"!!!":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), "input %q", in)
	}
}
