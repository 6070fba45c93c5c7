package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/types"
)

// maxPartBytes bounds how much of an embedded archive part is parsed.
const maxPartBytes = 1 << 20

// Pdf extracts a structural preview from PDF bytes. Read-mostly: encode is
// rejected and line ranges never apply.
type Pdf struct {
	exts extensionSet
}

// NewPdf creates the PDF handler.
func NewPdf() *Pdf {
	return &Pdf{exts: newExtensionSet(".pdf")}
}

func (p *Pdf) Name() string { return "pdf" }

func (p *Pdf) Extensions() []string { return p.exts.Extensions() }

func (p *Pdf) Matches(ext string) bool { return p.exts.Matches(ext) }

func (p *Pdf) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	data = capBytes(data, req.MaxBytes)

	version := ""
	if bytes.HasPrefix(data, []byte("%PDF-")) && len(data) >= 8 {
		version = string(data[5:8])
	}
	pages := bytes.Count(data, []byte("/Type /Page")) + bytes.Count(data, []byte("/Type/Page")) -
		bytes.Count(data, []byte("/Type /Pages")) - bytes.Count(data, []byte("/Type/Pages"))
	if pages < 0 {
		pages = 0
	}

	preview := fmt.Sprintf("PDF document, %d pages", pages)
	if version != "" {
		preview = fmt.Sprintf("PDF document, version %s, %d pages", version, pages)
	}
	return &types.ReadResult{Path: req.Path, ContentBytes: data, Preview: preview}, nil
}

func (p *Pdf) Encode(text, mode, encoding string) ([]byte, error) {
	return nil, fserr.NewUnsupportedType("Cannot write pdf files as text", "")
}

// Docx previews Word documents from their OOXML container metadata.
type Docx struct {
	exts extensionSet
}

// NewDocx creates the Word document handler.
func NewDocx() *Docx {
	return &Docx{exts: newExtensionSet(".docx")}
}

func (d *Docx) Name() string { return "docx" }

func (d *Docx) Extensions() []string { return d.exts.Extensions() }

func (d *Docx) Matches(ext string) bool { return d.exts.Matches(ext) }

func (d *Docx) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	data = capBytes(data, req.MaxBytes)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fserr.NewHandler("Unreadable docx container", req.Path, err)
	}

	preview := fmt.Sprintf("Word document (%d archive parts)", len(zr.File))
	var props struct {
		Title   string `xml:"title"`
		Creator string `xml:"creator"`
	}
	if ok := parsePart(zr, "docProps/core.xml", &props); ok {
		desc := "Word document"
		if props.Title != "" {
			desc += fmt.Sprintf(", title: %q", props.Title)
		}
		if props.Creator != "" {
			desc += fmt.Sprintf(", author: %s", props.Creator)
		}
		if desc != "Word document" {
			preview = desc
		}
	}
	return &types.ReadResult{Path: req.Path, ContentBytes: data, Preview: preview}, nil
}

func (d *Docx) Encode(text, mode, encoding string) ([]byte, error) {
	return nil, fserr.NewUnsupportedType("Cannot write docx files as text", "")
}

// Xlsx previews Excel workbooks by sheet names.
type Xlsx struct {
	exts extensionSet
}

// NewXlsx creates the Excel workbook handler.
func NewXlsx() *Xlsx {
	return &Xlsx{exts: newExtensionSet(".xlsx")}
}

func (x *Xlsx) Name() string { return "xlsx" }

func (x *Xlsx) Extensions() []string { return x.exts.Extensions() }

func (x *Xlsx) Matches(ext string) bool { return x.exts.Matches(ext) }

func (x *Xlsx) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	data = capBytes(data, req.MaxBytes)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fserr.NewHandler("Unreadable xlsx container", req.Path, err)
	}

	preview := fmt.Sprintf("Excel workbook (%d archive parts)", len(zr.File))
	var workbook struct {
		Sheets []struct {
			Name string `xml:"name,attr"`
		} `xml:"sheets>sheet"`
	}
	if ok := parsePart(zr, "xl/workbook.xml", &workbook); ok && len(workbook.Sheets) > 0 {
		names := make([]string, 0, len(workbook.Sheets))
		for _, s := range workbook.Sheets {
			names = append(names, s.Name)
		}
		preview = fmt.Sprintf("Excel workbook with sheets: %s",
			strings.Join(firstN(names, 5), ", "))
	}
	return &types.ReadResult{Path: req.Path, ContentBytes: data, Preview: preview}, nil
}

func (x *Xlsx) Encode(text, mode, encoding string) ([]byte, error) {
	return nil, fserr.NewUnsupportedType("Cannot write xlsx files as text", "")
}

// parsePart decodes one named XML part from an OOXML container.
func parsePart(zr *zip.Reader, name string, v any) bool {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return false
		}
		defer rc.Close()
		raw, err := io.ReadAll(io.LimitReader(rc, maxPartBytes))
		if err != nil {
			return false
		}
		return xml.Unmarshal(raw, v) == nil
	}
	return false
}
