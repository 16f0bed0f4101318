package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/ecoff/internal/ecofftest"
	"github.com/samcharles93/ecoff/pkg/ecoff"
)

func newTestEcho(cfg Config) (*echo.Echo, *Server) {
	server := NewServer(NewObjectStore(), cfg)
	e := echo.New()
	server.Register(e)
	return e, server
}

func do(t *testing.T, e *echo.Echo, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEOctetStream)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func upload(t *testing.T, e *echo.Echo, query string, data []byte) ObjectResponse {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/v1/objects"+query, data)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", rec.Code, rec.Body.String())
	}
	return decodeBody[ObjectResponse](t, rec)
}

func TestObjectLifecycle(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(Config{})
	created := upload(t, e, "?name=crt0.o", ecofftest.Simple().Bytes())
	if !strings.HasPrefix(created.ID, "obj_") {
		t.Fatalf("unexpected id %q", created.ID)
	}
	if created.Name != "crt0.o" {
		t.Fatalf("name = %q", created.Name)
	}
	if got := len(created.Document.Sections); got != 2 {
		t.Fatalf("sections = %d, want 2", got)
	}
	if created.Document.LocalStrings != nil {
		t.Fatalf("strings should be omitted unless requested")
	}

	getRec := do(t, e, http.MethodGet, "/v1/objects/"+created.ID+"?strings=true", nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status: got %d body=%s", getRec.Code, getRec.Body.String())
	}
	got := decodeBody[ObjectResponse](t, getRec)
	if len(got.Document.ExternalStrings) != 2 || got.Document.ExternalStrings[1].Value != "exit" {
		t.Fatalf("external strings = %+v", got.Document.ExternalStrings)
	}

	listRec := do(t, e, http.MethodGet, "/v1/objects", nil)
	list := decodeBody[ObjectList](t, listRec)
	if len(list.Data) != 1 || list.Data[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	delRec := do(t, e, http.MethodDelete, "/v1/objects/"+created.ID, nil)
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d body=%s", delRec.Code, delRec.Body.String())
	}
	if !strings.Contains(delRec.Body.String(), `"deleted":true`) {
		t.Fatalf("delete response missing deleted=true: %s", delRec.Body.String())
	}

	if rec := do(t, e, http.MethodGet, "/v1/objects/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodDelete, "/v1/objects/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestSectionData(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(Config{})
	obj := ecofftest.Simple()
	created := upload(t, e, "", obj.Bytes())

	rec := do(t, e, http.MethodGet, "/v1/objects/"+created.ID+"/sections/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != echo.MIMEOctetStream {
		t.Fatalf("content type = %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), obj.Sections[1].Data) {
		t.Fatalf("payload = %x, want %x", rec.Body.Bytes(), obj.Sections[1].Data)
	}
	if name := rec.Header().Get("X-Section-Name"); name != ".data" {
		t.Fatalf("section name header = %q", name)
	}

	tests := []struct {
		index string
		code  int
	}{
		{"2", http.StatusNotFound},
		{"-1", http.StatusNotFound},
		{"text", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := do(t, e, http.MethodGet, "/v1/objects/"+created.ID+"/sections/"+tt.index, nil)
		if rec.Code != tt.code {
			t.Fatalf("index %s: got %d, want %d", tt.index, rec.Code, tt.code)
		}
	}
}

func TestStringTables(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(Config{})
	created := upload(t, e, "", ecofftest.Simple().Bytes())

	rec := do(t, e, http.MethodGet, "/v1/objects/"+created.ID+"/strings/local", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	got := decodeBody[StringsResponse](t, rec)
	if got.Table != "local" || got.Size != len("\x00crt0.s\x00start\x00") {
		t.Fatalf("unexpected table header: %+v", got)
	}
	want := []string{"", "crt0.s", "start"}
	if len(got.Strings) != len(want) {
		t.Fatalf("strings = %+v", got.Strings)
	}
	for i, s := range got.Strings {
		if s.Value != want[i] {
			t.Fatalf("string %d = %q, want %q", i, s.Value, want[i])
		}
	}
	if got.Strings[2].Offset != 8 {
		t.Fatalf("offset of %q = %d, want 8", got.Strings[2].Value, got.Strings[2].Offset)
	}

	if rec := do(t, e, http.MethodGet, "/v1/objects/"+created.ID+"/strings/global", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown table, got %d", rec.Code)
	}
}

func TestCreateDecodeFailure(t *testing.T) {
	t.Parallel()

	e, server := newTestEcho(Config{})
	data := ecofftest.Simple().Bytes()[:10]
	rec := do(t, e, http.MethodPost, "/v1/objects", data)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody[struct {
		Error ResponseError `json:"error"`
	}](t, rec)
	if body.Error.Type != "truncated_input" {
		t.Fatalf("error type = %q", body.Error.Type)
	}
	if body.Error.Stage != "file header" {
		t.Fatalf("error stage = %q", body.Error.Stage)
	}
	if body.Error.Requested != 4 || body.Error.Available != 2 {
		t.Fatalf("requested/available = %d/%d", body.Error.Requested, body.Error.Available)
	}
	if server.store.Len() != 0 {
		t.Fatalf("failed decode must not be stored")
	}
}

func TestCreateStrictDecoder(t *testing.T) {
	t.Parallel()

	obj := ecofftest.Simple()
	obj.Magic = 0xbeef
	e, _ := newTestEcho(Config{Decoder: ecoff.Decoder{Strictness: ecoff.Strict}})

	rec := do(t, e, http.MethodPost, "/v1/objects", obj.Bytes())
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"type":"invalid_layout"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(Config{MaxUpload: 64})
	if rec := do(t, e, http.MethodPost, "/v1/objects", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty body: got %d", rec.Code)
	}
	rec := do(t, e, http.MethodPost, "/v1/objects", ecofftest.Simple().Bytes())
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body: got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUploadNameHeader(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(Config{})
	req := httptest.NewRequest(http.MethodPost, "/v1/objects", bytes.NewReader(ecofftest.Simple().Bytes()))
	req.Header.Set(HeaderObjectName, "libc.o")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d", rec.Code)
	}
	if got := decodeBody[ObjectResponse](t, rec); got.Name != "libc.o" {
		t.Fatalf("name = %q", got.Name)
	}
}

func TestObjectStoreListOrder(t *testing.T) {
	t.Parallel()

	s := NewObjectStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := s.Put("b", 1, nil, base.Add(time.Second))
	first := s.Put("a", 1, nil, base)
	got := s.List()
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Fatalf("List order wrong: %+v", got)
	}
}
