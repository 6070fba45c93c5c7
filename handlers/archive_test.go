package handlers

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentFS/fserr"
)

func buildOrderedZip(t *testing.T, names []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("data"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildTar(t *testing.T, names []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range names {
		body := []byte("data")
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(body))}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func gzipBytes(t *testing.T, name string, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Name = name
	_, err := gw.Write(body)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, body []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(body, nil)
}

func TestArchiveZipListing(t *testing.T) {
	h := NewArchive()
	data := buildOrderedZip(t, []string{"a.txt", "b/c.txt"})

	result, err := h.Decode(data, readReq("bundle.zip"))
	require.NoError(t, err)
	assert.Equal(t, "ZIP archive (2 entries): a.txt, b/c.txt", result.Preview)
	assert.Equal(t, data, result.ContentBytes)
}

func TestArchiveZipListingCapped(t *testing.T) {
	h := NewArchive()
	names := []string{"e0", "e1", "e2", "e3", "e4", "e5", "e6"}
	data := buildOrderedZip(t, names)

	result, err := h.Decode(data, readReq("big.zip"))
	require.NoError(t, err)
	assert.Equal(t, "ZIP archive (7 entries): e0, e1, e2, e3, e4", result.Preview)
}

func TestArchiveTarListing(t *testing.T) {
	h := NewArchive()
	data := buildTar(t, []string{"x.txt", "y.txt"})

	result, err := h.Decode(data, readReq("dump.tar"))
	require.NoError(t, err)
	assert.Equal(t, "TAR archive (2 entries): x.txt, y.txt", result.Preview)
}

func TestArchiveCompressedTar(t *testing.T) {
	h := NewArchive()
	plain := buildTar(t, []string{"x.txt", "y.txt"})

	gzipped := gzipBytes(t, "", plain)
	for _, path := range []string{"bundle.tgz", "bundle.tar.gz"} {
		result, err := h.Decode(gzipped, readReq(path))
		require.NoError(t, err)
		assert.Equal(t, "Compressed TAR archive (gzip) (2 entries): x.txt, y.txt", result.Preview, path)
	}

	zstded := zstdBytes(t, plain)
	result, err := h.Decode(zstded, readReq("bundle.tar.zst"))
	require.NoError(t, err)
	assert.Equal(t, "Compressed TAR archive (zstd) (2 entries): x.txt, y.txt", result.Preview)
}

func TestArchiveGzipBlob(t *testing.T) {
	h := NewArchive()

	named := gzipBytes(t, "notes.txt", []byte("hello gzip"))
	result, err := h.Decode(named, readReq("notes.txt.gz"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("GZIP compressed file %q (%d bytes compressed)", "notes.txt", len(named)), result.Preview)

	anon := gzipBytes(t, "", []byte("hello gzip"))
	result, err = h.Decode(anon, readReq("blob.gz"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("GZIP compressed data (%d bytes compressed)", len(anon)), result.Preview)
}

func TestArchiveZstdBlob(t *testing.T) {
	h := NewArchive()
	data := zstdBytes(t, []byte("payload"))

	result, err := h.Decode(data, readReq("blob.zst"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Zstandard compressed data (%d bytes compressed)", len(data)), result.Preview)
}

func TestArchiveCorrupt(t *testing.T) {
	h := NewArchive()

	_, err := h.Decode([]byte("junk"), readReq("broken.zip"))
	require.Error(t, err)
	assert.Equal(t, fserr.CodeHandler, fserr.CodeOf(err))

	_, err = h.Decode([]byte("junk"), readReq("broken.gz"))
	require.Error(t, err)
	assert.Equal(t, fserr.CodeHandler, fserr.CodeOf(err))
}

func TestArchiveEncodeRejected(t *testing.T) {
	_, err := NewArchive().Encode("text", "w", "utf-8")
	require.Error(t, err)
	assert.True(t, fserr.IsUnsupportedType(err))
}
