package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderStripsScripts(t *testing.T) {
	got := string(Render(`<p onclick="x()">Gentle <b>care</b></p><script>alert(1)</script>`))
	assert.Contains(t, got, "<b>care</b>")
	assert.NotContains(t, got, "script")
	assert.NotContains(t, got, "onclick")
}

func TestRenderMarkdown(t *testing.T) {
	got := string(Render("**Deep** cleansing\n\n- steam\n- mask"))
	assert.Contains(t, got, "<strong>Deep</strong>")
	assert.Contains(t, got, "<li>steam</li>")
}

func TestRenderLinksAreNofollow(t *testing.T) {
	got := string(Render(`<a href="https://example.com">site</a> <a href="javascript:alert(1)">bad</a>`))
	assert.Contains(t, got, `rel="nofollow`)
	assert.NotContains(t, got, "javascript:")
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", string(Render("   ")))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Gentle care for your hair", PlainText("<p>Gentle <em>care</em></p>\n<p>for your hair</p>", 0))
	got := PlainText("Luxury haircut and styling", 6)
	assert.True(t, strings.HasPrefix(got, "Luxury"))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "", PlainText("", 10))
}
