// Package handlers provides extension-keyed content decoding and encoding
// strategies behind the read and write operations.
//
// A Registry holds handlers in priority order: the first handler whose
// extension set matches the file's suffix is used, and the text handler
// registered last matches everything as the universal fallback. Container
// formats (docx, xlsx, pdf, zip) are registered ahead of the generic
// binary handler so they win their extensions.
//
// Text-family handlers honor line ranges, the max_bytes cap, charset
// selection (including "auto" detection), and raw-byte reads. Read-mostly
// handlers (pdf, office, archive, binary) return bytes plus a structural
// preview and reject encoding.
//
// Example Usage:
//
//	reg := handlers.NewRegistry()
//	h := reg.ForPath("report.json")
//	result, err := h.Decode(data, req)
package handlers
