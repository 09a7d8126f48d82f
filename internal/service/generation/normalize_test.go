package generation

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText_String(t *testing.T) {
	t.Parallel()

	out, err := normalizeText("some generated text")
	require.NoError(t, err)
	assert.Equal(t, "some generated text", out.Text)
}

func TestNormalizeText_Idempotent(t *testing.T) {
	t.Parallel()

	out1, err := normalizeText("canonical")
	require.NoError(t, err)

	// Feeding the canonical value back yields the same result.
	out2, err := normalizeText(out1.Text)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestNormalizeText_Bytes(t *testing.T) {
	t.Parallel()

	out, err := normalizeText([]byte("raw bytes"))
	require.NoError(t, err)
	assert.Equal(t, "raw bytes", out.Text)
}

func TestNormalizeText_ObjectFieldPriority(t *testing.T) {
	t.Parallel()

	// "text" outranks "output" in the probe order.
	out, err := normalizeText(map[string]any{
		"output": "second choice",
		"text":   "first choice",
	})
	require.NoError(t, err)
	assert.Equal(t, "first choice", out.Text)
}

func TestNormalizeText_ObjectFallbackField(t *testing.T) {
	t.Parallel()

	out, err := normalizeText(map[string]any{"completion": "via completion"})
	require.NoError(t, err)
	assert.Equal(t, "via completion", out.Text)
}

func TestNormalizeText_NoMatch(t *testing.T) {
	t.Parallel()

	_, err := normalizeText(map[string]any{"unrelated": "value"})
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestNormalizeText_EmptyString(t *testing.T) {
	t.Parallel()

	_, err := normalizeText("   ")
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestNormalizeImage_RawBytes(t *testing.T) {
	t.Parallel()

	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	out, err := normalizeImage(raw)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), out.ImageBase64)
}

func TestNormalizeImage_Base64StringIdempotent(t *testing.T) {
	t.Parallel()

	canonical := base64.StdEncoding.EncodeToString([]byte("image-bytes"))

	out1, err := normalizeImage(canonical)
	require.NoError(t, err)
	assert.Equal(t, canonical, out1.ImageBase64)

	out2, err := normalizeImage(out1.ImageBase64)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestNormalizeImage_DataURI(t *testing.T) {
	t.Parallel()

	payload := base64.StdEncoding.EncodeToString([]byte("png-data"))
	out, err := normalizeImage("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, payload, out.ImageBase64)
}

func TestNormalizeImage_OpenAIShape(t *testing.T) {
	t.Parallel()

	payload := base64.StdEncoding.EncodeToString([]byte("img"))
	out, err := normalizeImage(map[string]any{
		"created": 1700000000,
		"data":    []any{map[string]any{"b64_json": payload}},
	})
	require.NoError(t, err)
	assert.Equal(t, payload, out.ImageBase64)
}

func TestNormalizeImage_MaskField(t *testing.T) {
	t.Parallel()

	payload := base64.StdEncoding.EncodeToString([]byte("mask"))
	out, err := normalizeImage(map[string]any{"mask": payload})
	require.NoError(t, err)
	assert.Equal(t, payload, out.ImageBase64)
}

func TestNormalizeImage_ArtifactsShape(t *testing.T) {
	t.Parallel()

	payload := base64.StdEncoding.EncodeToString([]byte("artifact"))
	out, err := normalizeImage(map[string]any{
		"artifacts": []any{map[string]any{"base64": payload}},
	})
	require.NoError(t, err)
	assert.Equal(t, payload, out.ImageBase64)
}

func TestNormalizeImage_NotBase64String(t *testing.T) {
	t.Parallel()

	_, err := normalizeImage("definitely not base64!!!")
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestNormalizeImage_MalformedDataURI(t *testing.T) {
	t.Parallel()

	_, err := normalizeImage("data:image/png;base64")
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestNormalizeImage_NoKnownField(t *testing.T) {
	t.Parallel()

	_, err := normalizeImage(map[string]any{"url": 42})
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestNormalizeImage_UnsupportedType(t *testing.T) {
	t.Parallel()

	_, err := normalizeImage(3.14)
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}
