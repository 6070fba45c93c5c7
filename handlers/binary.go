package handlers

import (
	"encoding/hex"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/types"
)

// Binary serves raw bytes with a sniffed-type hex preview. It owns common
// binary extensions; container formats with richer handlers are registered
// ahead of it and win dispatch.
type Binary struct {
	exts extensionSet
}

// NewBinary creates the binary handler.
func NewBinary() *Binary {
	return &Binary{exts: newExtensionSet(
		".bin", ".exe", ".dll", ".so", ".dylib",
		".zip", ".tar", ".gz", ".7z", ".rar",
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".ico",
		".mp3", ".mp4", ".avi", ".mov",
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	)}
}

func (b *Binary) Name() string { return "binary" }

func (b *Binary) Extensions() []string { return b.exts.Extensions() }

func (b *Binary) Matches(ext string) bool { return b.exts.Matches(ext) }

func (b *Binary) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	data = capBytes(data, req.MaxBytes)

	head := data
	if len(head) > 32 {
		head = head[:32]
	}
	detected := mimetype.Detect(data)
	preview := fmt.Sprintf("Binary file (%d bytes, %s): %s",
		len(data), detected.String(), hex.EncodeToString(head))

	return &types.ReadResult{Path: req.Path, ContentBytes: data, Preview: preview}, nil
}

func (b *Binary) Encode(text, mode, encoding string) ([]byte, error) {
	return nil, fserr.NewUnsupportedType("Cannot write binary files as text", "")
}
