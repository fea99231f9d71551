package integration_test

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
	"github.com/oxidgene/oxidgene/internal/server"
	"github.com/oxidgene/oxidgene/internal/store"
)

const jsonContentType = "application/json"

const lineageFixture = `0 HEAD
1 GEDC
2 VERS 5.5.1
2 FORM LINEAGE-LINKED
1 CHAR UTF-8
0 @I1@ INDI
1 NAME Charles /Darwin/
1 SEX M
1 BIRT
2 DATE 12 FEB 1809
2 PLAC Shrewsbury, Shropshire, England
1 FAMS @F1@
0 @I2@ INDI
1 NAME Emma /Wedgwood/
1 SEX F
1 FAMS @F1@
0 @I3@ INDI
1 NAME William /Darwin/
1 SEX M
1 FAMC @F1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 MARR
2 DATE 29 JAN 1839
0 TRLR
`

func TestTreeImportExportFlow(testContext *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := database.Open("file:lifecycle?mode=memory&cache=shared", zap.NewNop())
	if err != nil {
		testContext.Fatalf("failed to open sqlite: %v", err)
	}
	dataStore, err := store.NewStore(store.StoreConfig{Database: db, Logger: zap.NewNop()})
	if err != nil {
		testContext.Fatalf("failed to build store: %v", err)
	}
	handler, err := server.NewHTTPHandler(server.Dependencies{Store: dataStore, Logger: zap.NewNop()})
	if err != nil {
		testContext.Fatalf("failed to build handler: %v", err)
	}

	testServer := httptest.NewServer(handler)
	defer testServer.Close()

	// Create a tree.
	var tree domain.Tree
	postJSON(testContext, testServer.URL+"/api/v1/trees",
		map[string]any{"name": "Darwin Family"}, http.StatusCreated, &tree)

	// Import a three-person lineage.
	var summary store.ImportSummary
	postJSON(testContext, testServer.URL+"/api/v1/trees/"+tree.ID+"/import",
		map[string]any{"gedcom": lineageFixture}, http.StatusCreated, &summary)
	if summary.PersonsCount != 3 || summary.FamiliesCount != 1 {
		testContext.Fatalf("unexpected import summary %+v", summary)
	}

	// The imported persons are listed with a total count.
	var persons domain.Connection[domain.Person]
	getJSON(testContext, testServer.URL+"/api/v1/trees/"+tree.ID+"/persons",
		http.StatusOK, &persons)
	if persons.TotalCount != 3 {
		testContext.Fatalf("expected 3 persons, got %d", persons.TotalCount)
	}

	// The child's ancestors resolve through the closure.
	childID := findPersonWithAncestors(testContext, testServer.URL, tree.ID, persons)
	var ancestors []map[string]any
	getJSON(testContext, testServer.URL+"/api/v1/trees/"+tree.ID+"/persons/"+childID+"/ancestors",
		http.StatusOK, &ancestors)
	if len(ancestors) != 2 {
		testContext.Fatalf("expected 2 ancestors for the child, got %d", len(ancestors))
	}

	// Export reproduces the lineage.
	var exported store.ExportData
	getJSON(testContext, testServer.URL+"/api/v1/trees/"+tree.ID+"/export",
		http.StatusOK, &exported)
	for _, want := range []string{"1 NAME Charles /Darwin/", "1 CHIL @I3@", "2 DATE 29 JAN 1839"} {
		if !strings.Contains(exported.Gedcom, want) {
			testContext.Fatalf("expected exported line %q", want)
		}
	}
}

// findPersonWithAncestors returns the one listed person that has a non-empty
// ancestor set.
func findPersonWithAncestors(testContext *testing.T, baseURL, treeID string, persons domain.Connection[domain.Person]) string {
	testContext.Helper()
	for _, edge := range persons.Edges {
		var ancestors []map[string]any
		getJSON(testContext, baseURL+"/api/v1/trees/"+treeID+"/persons/"+edge.Node.ID+"/ancestors",
			http.StatusOK, &ancestors)
		if len(ancestors) > 0 {
			return edge.Node.ID
		}
	}
	testContext.Fatalf("no person with ancestors found")
	return ""
}

func postJSON(testContext *testing.T, url string, payload any, wantStatus int, target any) {
	testContext.Helper()
	encoded, err := json.Marshal(payload)
	if err != nil {
		testContext.Fatalf("failed to encode payload: %v", err)
	}
	response, err := http.Post(url, jsonContentType, bytes.NewReader(encoded))
	if err != nil {
		testContext.Fatalf("request failed: %v", err)
	}
	decodeResponse(testContext, response, wantStatus, target)
}

func getJSON(testContext *testing.T, url string, wantStatus int, target any) {
	testContext.Helper()
	response, err := http.Get(url)
	if err != nil {
		testContext.Fatalf("request failed: %v", err)
	}
	decodeResponse(testContext, response, wantStatus, target)
}

func decodeResponse(testContext *testing.T, response *http.Response, wantStatus int, target any) {
	testContext.Helper()
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		testContext.Fatalf("failed to read response: %v", err)
	}
	if response.StatusCode != wantStatus {
		testContext.Fatalf("expected status %d, got %d: %s", wantStatus, response.StatusCode, body)
	}
	if target != nil {
		if err := json.Unmarshal(body, target); err != nil {
			testContext.Fatalf("failed to decode response %s: %v", body, err)
		}
	}
}
