package server

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, s *Server, method, target string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestInfer(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/infer", strings.NewReader(`{"a": 1, "b": "x"} {"a": 2}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	want := `{
		"$schema": "http://json-schema.org/draft-04/schema",
		"type": "object",
		"properties": {"a": {"type": "number"}, "b": {"type": "string"}},
		"required": ["a"]
	}`
	assert.JSONEq(t, want, rec.Body.String())
}

func TestInferOpenAPI(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/infer?format=openapi", strings.NewReader(`["x", null]`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type": "array", "items": {"type": "string", "nullable": true}}`, rec.Body.String())
}

func TestInferUnknownFormat(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/infer?format=xml", strings.NewReader(`1`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInferGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`[1, 2, "3"]`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/infer", &buf, map[string]string{"Content-Encoding": "gzip"})
	require.Equal(t, http.StatusOK, rec.Code)

	want := `{
		"$schema": "http://json-schema.org/draft-04/schema",
		"type": "array",
		"items": {"anyOf": [{"type": "number"}, {"type": "string"}]}
	}`
	assert.JSONEq(t, want, rec.Body.String())
}

func TestInferUnsupportedEncoding(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/infer", strings.NewReader(`1`), map[string]string{"Content-Encoding": "br"})
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestInferMalformed(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/infer", strings.NewReader(`{"a":`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var res errorResponse
	require.NoError(t, j.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Error)
}

func TestInferEmptyBody(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/infer", strings.NewReader(""), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInferBodyTooLarge(t *testing.T) {
	s := New(Config{MaxBodyBytes: 8})
	rec := do(t, s, http.MethodPost, "/infer", strings.NewReader(`{"aaaaaaaa": 1}`), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestInferGzipBombRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`"` + strings.Repeat("a", 4096) + `"`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.Less(t, buf.Len(), 1024)

	s := New(Config{MaxBodyBytes: 1024})
	rec := do(t, s, http.MethodPost, "/infer", &buf, map[string]string{"Content-Encoding": "gzip"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestReadAllEncodedLimit(t *testing.T) {
	bs, err := readAllEncoded("", io.NopCloser(strings.NewReader("12345")), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(bs))

	_, err = readAllEncoded("", io.NopCloser(strings.NewReader("123456")), 5)
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	_, err = readAllEncoded("compress", io.NopCloser(strings.NewReader("1")), 5)
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
}

func TestCollections(t *testing.T) {
	s := New(Config{})

	rec := do(t, s, http.MethodPost, "/collections", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created collectionResponse
	require.NoError(t, j.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = do(t, s, http.MethodGet, "/collections/"+created.ID+"/schema", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"$schema": "http://json-schema.org/draft-04/schema"}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/collections/"+created.ID+"/samples", strings.NewReader(`{"x": 1}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/collections/"+created.ID+"/samples", strings.NewReader(`{} {"x": 2}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var added collectionResponse
	require.NoError(t, j.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, 3, added.Samples)

	rec = do(t, s, http.MethodGet, "/collections/"+created.ID+"/schema", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	want := `{
		"$schema": "http://json-schema.org/draft-04/schema",
		"type": "object",
		"properties": {"x": {"type": "number"}}
	}`
	assert.JSONEq(t, want, rec.Body.String())

	rec = do(t, s, http.MethodDelete, "/collections/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/collections/"+created.ID+"/schema", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollectionNotFound(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodGet, "/collections/not-a-uuid/schema", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/collections/6f1c3c4e-8a47-4f4f-9a55-0a3c9f1f6a11/samples", strings.NewReader(`1`), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/collections/6f1c3c4e-8a47-4f4f-9a55-0a3c9f1f6a11", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	s := New(Config{})
	do(t, s, http.MethodPost, "/infer", strings.NewReader(`1 2 3`), nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "shapeinfer_samples_total 3")
	assert.Contains(t, body, `shapeinfer_requests_total{code="200",route="/infer"} 1`)
}

func TestInferDurationCoversFold(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/infer", strings.NewReader(`{"a": `), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodPost, "/infer", strings.NewReader(`{"a": 1} {"b": [true]}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/metrics", nil, nil)
	body := rec.Body.String()
	assert.Contains(t, body, "parsing and folding the samples of one request")
	assert.Contains(t, body, "shapeinfer_infer_duration_seconds_count 1")
}
