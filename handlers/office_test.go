package handlers

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentFS/fserr"
)

func buildZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const coreXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Quarterly Report</dc:title>
  <dc:creator>ada</dc:creator>
</cp:coreProperties>`

const workbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheets>
    <sheet name="Revenue" sheetId="1"/>
    <sheet name="Costs" sheetId="2"/>
  </sheets>
</workbook>`

func TestPdfPreview(t *testing.T) {
	h := NewPdf()
	data := []byte("%PDF-1.7\n1 0 obj\n<< /Type /Pages /Kids [2 0 R 3 0 R] >>\nendobj\n" +
		"2 0 obj\n<< /Type /Page >>\nendobj\n3 0 obj\n<< /Type /Page >>\nendobj\n%%EOF")

	result, err := h.Decode(data, readReq("paper.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "PDF document, version 1.7, 2 pages", result.Preview)
	assert.Equal(t, data, result.ContentBytes)
}

func TestPdfWithoutHeader(t *testing.T) {
	h := NewPdf()

	result, err := h.Decode([]byte("not a pdf at all"), readReq("odd.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "PDF document, 0 pages", result.Preview)
}

func TestPdfMaxBytes(t *testing.T) {
	h := NewPdf()

	req := readReq("paper.pdf")
	req.MaxBytes = 4
	result, err := h.Decode([]byte("%PDF-1.7 trailing"), req)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), result.ContentBytes)
	assert.Equal(t, "PDF document, 0 pages", result.Preview)
}

func TestDocxMetadataPreview(t *testing.T) {
	h := NewDocx()
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"docProps/core.xml":   coreXML,
		"word/document.xml":   "<document/>",
	})

	result, err := h.Decode(data, readReq("report.docx"))
	require.NoError(t, err)
	assert.Equal(t, `Word document, title: "Quarterly Report", author: ada`, result.Preview)
}

func TestDocxWithoutMetadata(t *testing.T) {
	h := NewDocx()
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   "<document/>",
	})

	result, err := h.Decode(data, readReq("report.docx"))
	require.NoError(t, err)
	assert.Equal(t, "Word document (2 archive parts)", result.Preview)
}

func TestDocxCorrupt(t *testing.T) {
	h := NewDocx()

	_, err := h.Decode([]byte("not a zip container"), readReq("broken.docx"))
	require.Error(t, err)
	assert.Equal(t, fserr.CodeHandler, fserr.CodeOf(err))
}

func TestXlsxSheetPreview(t *testing.T) {
	h := NewXlsx()
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"xl/workbook.xml":     workbookXML,
	})

	result, err := h.Decode(data, readReq("book.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "Excel workbook with sheets: Revenue, Costs", result.Preview)
}

func TestXlsxWithoutWorkbookPart(t *testing.T) {
	h := NewXlsx()
	data := buildZip(t, map[string]string{"[Content_Types].xml": "<Types/>"})

	result, err := h.Decode(data, readReq("book.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "Excel workbook (1 archive parts)", result.Preview)
}

func TestOfficeEncodeRejected(t *testing.T) {
	for _, h := range []Handler{NewPdf(), NewDocx(), NewXlsx()} {
		_, err := h.Encode("text", "w", "utf-8")
		require.Error(t, err, h.Name())
		assert.True(t, fserr.IsUnsupportedType(err), h.Name())
	}
}
