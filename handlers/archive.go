package handlers

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/types"
)

// Archive previews compressed containers by their entry listings.
type Archive struct {
	exts extensionSet
}

// NewArchive creates the archive handler.
func NewArchive() *Archive {
	return &Archive{exts: newExtensionSet(".zip", ".tar", ".gz", ".tgz", ".zst")}
}

func (a *Archive) Name() string { return "archive" }

func (a *Archive) Extensions() []string { return a.exts.Extensions() }

func (a *Archive) Matches(ext string) bool { return a.exts.Matches(ext) }

func (a *Archive) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	data = capBytes(data, req.MaxBytes)

	preview, err := a.preview(data, strings.ToLower(req.Path))
	if err != nil {
		return nil, err
	}
	return &types.ReadResult{Path: req.Path, ContentBytes: data, Preview: preview}, nil
}

func (a *Archive) Encode(text, mode, encoding string) ([]byte, error) {
	return nil, fserr.NewUnsupportedType("Cannot write archive files as text", "")
}

func (a *Archive) preview(data []byte, lower string) (string, error) {
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return zipListing(data, lower)
	case strings.HasSuffix(lower, ".tar"):
		return tarListing(bytes.NewReader(data), "TAR archive", lower)
	case strings.HasSuffix(lower, ".tgz"), strings.HasSuffix(lower, ".tar.gz"):
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fserr.NewHandler("Unreadable gzip data", lower, err)
		}
		defer gz.Close()
		return tarListing(gz, "Compressed TAR archive (gzip)", lower)
	case strings.HasSuffix(lower, ".tar.zst"):
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fserr.NewHandler("Unreadable zstd data", lower, err)
		}
		defer dec.Close()
		return tarListing(dec, "Compressed TAR archive (zstd)", lower)
	case strings.HasSuffix(lower, ".gz"):
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fserr.NewHandler("Unreadable gzip data", lower, err)
		}
		defer gz.Close()
		if gz.Name != "" {
			return fmt.Sprintf("GZIP compressed file %q (%d bytes compressed)", gz.Name, len(data)), nil
		}
		return fmt.Sprintf("GZIP compressed data (%d bytes compressed)", len(data)), nil
	case strings.HasSuffix(lower, ".zst"):
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fserr.NewHandler("Unreadable zstd data", lower, err)
		}
		defer dec.Close()
		if _, err := io.CopyN(io.Discard, dec, 1); err != nil && !errors.Is(err, io.EOF) {
			return "", fserr.NewHandler("Unreadable zstd data", lower, err)
		}
		return fmt.Sprintf("Zstandard compressed data (%d bytes compressed)", len(data)), nil
	default:
		return fmt.Sprintf("Archive (%d bytes)", len(data)), nil
	}
}

func zipListing(data []byte, path string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fserr.NewHandler("Unreadable zip archive", path, err)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return fmt.Sprintf("ZIP archive (%d entries): %s",
		len(names), strings.Join(firstN(names, 5), ", ")), nil
}

func tarListing(r io.Reader, label, path string) (string, error) {
	tr := tar.NewReader(r)
	var names []string
	count := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fserr.NewHandler("Unreadable tar archive", path, err)
		}
		count++
		if len(names) < 5 {
			names = append(names, hdr.Name)
		}
	}
	return fmt.Sprintf("%s (%d entries): %s", label, count, strings.Join(names, ", ")), nil
}
