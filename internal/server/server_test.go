package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oxidgene/oxidgene/internal/database"
	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.Open(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	testStore, err := store.NewStore(store.StoreConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	handler, err := NewHTTPHandler(Dependencies{Store: testStore})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	return handler
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	return doRaw(t, handler, method, path, reader)
}

func doRaw(t *testing.T, handler http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, body)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %s: %v", recorder.Body.String(), err)
	}
}

func assertStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, recorder.Code, recorder.Body.String())
	}
}

func assertErrorKind(t *testing.T, recorder *httptest.ResponseRecorder, kind domain.ErrorKind) {
	t.Helper()
	var body errorBody
	decodeBody(t, recorder, &body)
	if body.Error != string(kind) {
		t.Fatalf("expected error kind %s, got %s (%s)", kind, body.Error, body.Message)
	}
}

func createTestTree(t *testing.T, handler http.Handler) domain.Tree {
	t.Helper()
	recorder := doJSON(t, handler, http.MethodPost, "/api/v1/trees", map[string]any{"name": "Test Tree"})
	assertStatus(t, recorder, http.StatusCreated)
	var tree domain.Tree
	decodeBody(t, recorder, &tree)
	return tree
}

func createTestPerson(t *testing.T, handler http.Handler, treeID string) domain.Person {
	t.Helper()
	recorder := doJSON(t, handler, http.MethodPost, "/api/v1/trees/"+treeID+"/persons", map[string]any{})
	assertStatus(t, recorder, http.StatusCreated)
	var person domain.Person
	decodeBody(t, recorder, &person)
	return person
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t)
	recorder := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	assertStatus(t, recorder, http.StatusOK)
	var body map[string]string
	decodeBody(t, recorder, &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body %v", body)
	}
}

func TestNewHTTPHandlerRequiresStore(t *testing.T) {
	if _, err := NewHTTPHandler(Dependencies{}); err == nil {
		t.Fatalf("expected an error without a store")
	}
}

func TestTreeLifecycleOverHTTP(t *testing.T) {
	handler := newTestHandler(t)

	recorder := doJSON(t, handler, http.MethodPost, "/api/v1/trees", map[string]any{
		"name":        "Darwin Family",
		"description": "test lineage",
	})
	assertStatus(t, recorder, http.StatusCreated)
	var tree domain.Tree
	decodeBody(t, recorder, &tree)
	if tree.Name != "Darwin Family" || tree.Description == nil {
		t.Fatalf("unexpected created tree %+v", tree)
	}

	recorder = doJSON(t, handler, http.MethodGet, "/api/v1/trees/"+tree.ID, nil)
	assertStatus(t, recorder, http.StatusOK)

	// An explicit null clears the description and leaves the name alone.
	recorder = doRaw(t, handler, http.MethodPut, "/api/v1/trees/"+tree.ID,
		strings.NewReader(`{"description": null}`))
	assertStatus(t, recorder, http.StatusOK)
	var updated domain.Tree
	decodeBody(t, recorder, &updated)
	if updated.Description != nil {
		t.Fatalf("expected description cleared, got %q", *updated.Description)
	}
	if updated.Name != "Darwin Family" {
		t.Fatalf("expected name untouched, got %q", updated.Name)
	}

	recorder = doJSON(t, handler, http.MethodDelete, "/api/v1/trees/"+tree.ID, nil)
	assertStatus(t, recorder, http.StatusNoContent)

	recorder = doJSON(t, handler, http.MethodGet, "/api/v1/trees/"+tree.ID, nil)
	assertStatus(t, recorder, http.StatusNotFound)
	assertErrorKind(t, recorder, domain.ErrorKindNotFound)
}

func TestCreateTreeRejectsMalformedBody(t *testing.T) {
	handler := newTestHandler(t)
	recorder := doRaw(t, handler, http.MethodPost, "/api/v1/trees", strings.NewReader("{"))
	assertStatus(t, recorder, http.StatusBadRequest)
	assertErrorKind(t, recorder, domain.ErrorKindValidation)
}

func TestListTreesRejectsBadCursorParams(t *testing.T) {
	handler := newTestHandler(t)
	recorder := doJSON(t, handler, http.MethodGet, "/api/v1/trees?first=lots", nil)
	assertStatus(t, recorder, http.StatusBadRequest)
	assertErrorKind(t, recorder, domain.ErrorKindValidation)
}

func TestListPersonsRequiresLiveTree(t *testing.T) {
	handler := newTestHandler(t)
	recorder := doJSON(t, handler, http.MethodGet, "/api/v1/trees/no-such-tree/persons", nil)
	assertStatus(t, recorder, http.StatusNotFound)
	assertErrorKind(t, recorder, domain.ErrorKindNotFound)
}
