package handlers

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentFS/fserr"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func TestBinarySniffsType(t *testing.T) {
	h := NewBinary()
	data := append(append([]byte{}, pngMagic...), make([]byte, 8)...)

	result, err := h.Decode(data, readReq("logo.png"))
	require.NoError(t, err)
	want := fmt.Sprintf("Binary file (16 bytes, image/png): %s", hex.EncodeToString(data))
	assert.Equal(t, want, result.Preview)
	assert.Equal(t, data, result.ContentBytes)
	assert.Nil(t, result.ContentText)
}

func TestBinaryUnknownBytes(t *testing.T) {
	h := NewBinary()

	result, err := h.Decode([]byte{0xde, 0xad, 0xbe, 0xef}, readReq("mystery.bin"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Preview, "Binary file (4 bytes, "), result.Preview)
	assert.True(t, strings.HasSuffix(result.Preview, ": deadbeef"), result.Preview)
}

func TestBinaryHexCapped(t *testing.T) {
	h := NewBinary()
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}

	result, err := h.Decode(data, readReq("wide.bin"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Preview, hex.EncodeToString(data[:32])), result.Preview)
	assert.False(t, strings.HasSuffix(result.Preview, hex.EncodeToString(data[:33])))
}

func TestBinaryEncodeRejected(t *testing.T) {
	_, err := NewBinary().Encode("text", "w", "utf-8")
	require.Error(t, err)
	assert.True(t, fserr.IsUnsupportedType(err))
}
