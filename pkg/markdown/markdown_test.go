package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/pkg/markdown"
)

func TestToHTML(t *testing.T) {
	t.Parallel()

	out, err := markdown.ToHTML("**Milo** loves *fetch*.\n\n- crate trained\n- good with cats")
	require.NoError(t, err)
	require.Contains(t, out, "<strong>Milo</strong>")
	require.Contains(t, out, "<em>fetch</em>")
	require.Contains(t, out, "<li>crate trained</li>")

	out, err = markdown.ToHTML("")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestToHTML_StripsRawHTML(t *testing.T) {
	t.Parallel()

	out, err := markdown.ToHTML("hello <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	require.NotContains(t, out, "<script")
	require.NotContains(t, out, "javascript:")
}
