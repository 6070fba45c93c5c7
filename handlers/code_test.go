package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownHeaderPreview(t *testing.T) {
	h := NewMarkdown()
	data := []byte("# Title\nintro text\n## Section\nbody\n### Sub\nmore")

	result, err := h.Decode(data, readReq("README.md"))
	require.NoError(t, err)
	assert.Equal(t, "Markdown with headers:\n- Title\n  - Section\n    - Sub", result.Preview)
}

func TestMarkdownHeaderCap(t *testing.T) {
	h := NewMarkdown()
	data := []byte("# One\n# Two\n# Three\n# Four")

	result, err := h.Decode(data, readReq("doc.md"))
	require.NoError(t, err)
	assert.Equal(t, "Markdown with headers:\n- One\n- Two\n- Three", result.Preview)
}

func TestMarkdownHeadersOnlyNearTop(t *testing.T) {
	h := NewMarkdown()
	data := []byte(strings.Repeat("plain\n", 10) + "# Late")

	result, err := h.Decode(data, readReq("doc.md"))
	require.NoError(t, err)
	assert.Equal(t, "plain\nplain\nplain", result.Preview)
}

func TestMarkdownNoHeadersKeepsTextPreview(t *testing.T) {
	h := NewMarkdown()

	result, err := h.Decode([]byte("just prose\nno headers"), readReq("doc.md"))
	require.NoError(t, err)
	assert.Equal(t, "just prose\nno headers", result.Preview)
}

func TestMarkdownRangedReadStillPreviewsStructure(t *testing.T) {
	h := NewMarkdown()
	data := []byte("# Title\nintro\nbody")

	req := readReq("doc.md")
	req.StartLine = 2
	req.EndLine = 3
	result, err := h.Decode(data, req)
	require.NoError(t, err)
	assert.Equal(t, "intro\nbody", *result.ContentText)
	assert.Equal(t, "Markdown with headers:\n- Title", result.Preview)
}

func TestPythonSignaturePreview(t *testing.T) {
	h := NewPython()
	data := []byte(`import os

class Config:
    def __init__(self, path):
        self.path = path

def load(path):
    return Config(path)

async def main():
    pass
`)

	result, err := h.Decode(data, readReq("config.py"))
	require.NoError(t, err)
	want := "Python code with:\n- class Config\n- def __init__(self, path)\n- def load(path)\n- async def main()"
	assert.Equal(t, want, result.Preview)
}

func TestPythonSignatureCap(t *testing.T) {
	h := NewPython()
	var b strings.Builder
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		b.WriteString("def " + name + "():\n    pass\n")
	}

	result, err := h.Decode([]byte(b.String()), readReq("many.py"))
	require.NoError(t, err)
	assert.Equal(t, "Python code with:\n- def a()\n- def b()\n- def c()\n- def d()\n- def e()", result.Preview)
}

func TestPythonNoDefsKeepsTextPreview(t *testing.T) {
	h := NewPython()

	result, err := h.Decode([]byte("x = 1\ny = 2"), readReq("vals.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\ny = 2", result.Preview)
}
