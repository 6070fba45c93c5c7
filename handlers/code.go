package handlers

import (
	"strings"

	"github.com/GriffinCanCode/AgentFS/types"
)

// Markdown previews document structure by its leading headers.
type Markdown struct {
	*Text
	exts extensionSet
}

// NewMarkdown creates the markdown handler.
func NewMarkdown() *Markdown {
	return &Markdown{
		Text: NewText(),
		exts: newExtensionSet(
			".md", ".markdown", ".mdown", ".mkdn",
			".mkd", ".mdwn", ".mdtxt", ".mdtext",
		),
	}
}

func (m *Markdown) Name() string { return "markdown" }

func (m *Markdown) Extensions() []string { return m.exts.Extensions() }

func (m *Markdown) Matches(ext string) bool { return m.exts.Matches(ext) }

func (m *Markdown) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	result, err := m.Text.Decode(data, req)
	if err != nil || !req.AsText {
		return result, err
	}

	text, derr := decodeCharset(capBytes(data, req.MaxBytes), req.Encoding)
	if derr != nil {
		return result, nil
	}

	var headers []string
	for _, line := range firstN(SplitLines(text), 10) {
		if strings.HasPrefix(line, "#") {
			level := len(line) - len(strings.TrimLeft(line, "#"))
			title := strings.TrimSpace(strings.TrimLeft(line, "#"))
			headers = append(headers, strings.Repeat("  ", level-1)+"- "+title)
		}
		if len(headers) >= 3 {
			break
		}
	}
	if len(headers) > 0 {
		result.Preview = "Markdown with headers:\n" + strings.Join(headers, "\n")
	}
	return result, nil
}

// Python previews source structure by its leading definitions.
type Python struct {
	*Text
	exts extensionSet
}

// NewPython creates the python source handler.
func NewPython() *Python {
	return &Python{
		Text: NewText(),
		exts: newExtensionSet(".py", ".pyi", ".pyc", ".pyo"),
	}
}

func (p *Python) Name() string { return "python" }

func (p *Python) Extensions() []string { return p.exts.Extensions() }

func (p *Python) Matches(ext string) bool { return p.exts.Matches(ext) }

func (p *Python) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	result, err := p.Text.Decode(data, req)
	if err != nil || !req.AsText {
		return result, err
	}

	text, derr := decodeCharset(capBytes(data, req.MaxBytes), req.Encoding)
	if derr != nil {
		return result, nil
	}

	var sigs []string
	for _, line := range firstN(SplitLines(text), 20) {
		stripped := strings.TrimSpace(line)
		isDef := strings.HasPrefix(stripped, "def ") ||
			strings.HasPrefix(stripped, "class ") ||
			strings.HasPrefix(stripped, "async def ")
		if isDef && strings.Contains(stripped, ":") {
			sig, _, _ := strings.Cut(stripped, ":")
			sigs = append(sigs, "- "+sig)
		}
		if len(sigs) >= 5 {
			break
		}
	}
	if len(sigs) > 0 {
		result.Preview = "Python code with:\n" + strings.Join(sigs, "\n")
	}
	return result, nil
}
