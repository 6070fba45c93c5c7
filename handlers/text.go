package handlers

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/types"
)

// EncodingAuto asks the text decoder to sniff the charset.
const EncodingAuto = "auto"

// Text is the universal fallback handler. It decodes bytes as text,
// applies line-range slicing, and previews the first lines.
type Text struct {
	exts extensionSet
}

// NewText creates the text handler.
func NewText() *Text {
	return &Text{exts: newExtensionSet(
		".txt", ".md", ".py", ".log", ".cfg", ".ini", ".conf",
		".yml", ".yaml", ".xml", ".html", ".css", ".js", ".ts",
		".sh", ".bat", ".ps1",
	)}
}

func (t *Text) Name() string { return "text" }

func (t *Text) Extensions() []string { return t.exts.Extensions() }

// Matches always reports true: text is the unconditional fallback.
func (t *Text) Matches(ext string) bool { return true }

func (t *Text) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	data = capBytes(data, req.MaxBytes)
	if !req.AsText {
		return &types.ReadResult{Path: req.Path, ContentBytes: data}, nil
	}

	text, err := decodeCharset(data, req.Encoding)
	if err != nil {
		return nil, err
	}

	content := text
	var totalLines *int
	if req.StartLine != 0 || req.EndLine != 0 {
		lines := SplitLines(text)
		total := len(lines)
		start := 0
		if req.StartLine != 0 {
			start = req.StartLine - 1
		}
		end := total
		if req.EndLine != 0 {
			end = req.EndLine
		}
		if start < 0 || end > total || start >= end {
			content = ""
		} else {
			content = strings.Join(lines[start:end], "\n")
		}
		totalLines = &total
	}

	preview := ""
	if content != "" {
		preview = strings.Join(firstN(SplitLines(content), 3), "\n")
	}

	return &types.ReadResult{
		Path:        req.Path,
		ContentText: &content,
		TotalLines:  totalLines,
		Preview:     preview,
	}, nil
}

func (t *Text) Encode(text, mode, encoding string) ([]byte, error) {
	return encodeCharset(text, encoding)
}

// decodeCharset converts raw bytes to a string. UTF-8 input replaces
// invalid sequences; "auto" sniffs the charset; any other label resolves
// through the WHATWG charset tables.
func decodeCharset(data []byte, encoding string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(encoding))
	switch label {
	case "", "utf-8", "utf8", "ascii":
		return string(bytes.ToValidUTF8(data, []byte("�"))), nil
	case EncodingAuto:
		if detected := sniffCharset(data); detected != "" {
			if s, err := decodeWithLabel(data, detected); err == nil {
				return s, nil
			}
		}
		return string(bytes.ToValidUTF8(data, []byte("�"))), nil
	default:
		return decodeWithLabel(data, label)
	}
}

func decodeWithLabel(data []byte, label string) (string, error) {
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return "", fserr.NewHandler(fmt.Sprintf("Unknown encoding: %s", label), "", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fserr.NewHandler(fmt.Sprintf("Decoding as %s failed", label), "", err)
	}
	return string(decoded), nil
}

// sniffCharset detects the most likely charset, requiring reasonable
// confidence before trusting the guess.
func sniffCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil || result.Confidence < 80 {
		return ""
	}
	return result.Charset
}

func encodeCharset(text, encoding string) ([]byte, error) {
	label := strings.ToLower(strings.TrimSpace(encoding))
	switch label {
	case "", "utf-8", "utf8", "ascii", EncodingAuto:
		return []byte(text), nil
	}
	enc, _ := charset.Lookup(label)
	if enc == nil {
		return nil, fserr.NewHandler(fmt.Sprintf("Unknown encoding: %s", label), "", nil)
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fserr.NewHandler(fmt.Sprintf("Encoding as %s failed", label), "", err)
	}
	return out, nil
}

// SplitLines splits on \n, \r\n, and \r without keeping terminators, and
// produces no trailing empty line for terminated input.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
