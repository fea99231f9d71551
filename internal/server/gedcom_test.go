package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

const gedcomFixture = `0 HEAD
1 GEDC
2 VERS 5.5.1
2 FORM LINEAGE-LINKED
1 CHAR UTF-8
0 @I1@ INDI
1 NAME Charles /Darwin/
1 SEX M
1 FAMS @F1@
0 @I2@ INDI
1 NAME William /Darwin/
1 SEX M
1 FAMC @F1@
0 @F1@ FAM
1 HUSB @I1@
1 CHIL @I2@
0 TRLR
`

func TestImportAndExportEndpoints(t *testing.T) {
	handler := newTestHandler(t)
	tree := createTestTree(t, handler)

	recorder := doJSON(t, handler, http.MethodPost, "/api/v1/trees/"+tree.ID+"/import",
		map[string]any{"gedcom": gedcomFixture})
	assertStatus(t, recorder, http.StatusCreated)
	var summary store.ImportSummary
	decodeBody(t, recorder, &summary)
	if summary.PersonsCount != 2 || summary.FamiliesCount != 1 {
		t.Fatalf("unexpected import summary %+v", summary)
	}

	recorder = doJSON(t, handler, http.MethodGet, "/api/v1/trees/"+tree.ID+"/export", nil)
	assertStatus(t, recorder, http.StatusOK)
	var exported store.ExportData
	decodeBody(t, recorder, &exported)
	if !strings.HasPrefix(exported.Gedcom, "0 HEAD\n") {
		t.Fatalf("expected GEDCOM output, got %q", exported.Gedcom)
	}
	for _, want := range []string{"1 NAME Charles /Darwin/", "1 CHIL @I2@", "0 TRLR\n"} {
		if !strings.Contains(exported.Gedcom, want) {
			t.Fatalf("expected exported line %q", want)
		}
	}
}

func TestImportRejectsEmptyPayload(t *testing.T) {
	handler := newTestHandler(t)
	tree := createTestTree(t, handler)

	recorder := doJSON(t, handler, http.MethodPost, "/api/v1/trees/"+tree.ID+"/import",
		map[string]any{"gedcom": "   "})
	assertStatus(t, recorder, http.StatusBadRequest)
	assertErrorKind(t, recorder, domain.ErrorKindValidation)
}

func TestImportRejectsMalformedGedcom(t *testing.T) {
	handler := newTestHandler(t)
	tree := createTestTree(t, handler)

	recorder := doJSON(t, handler, http.MethodPost, "/api/v1/trees/"+tree.ID+"/import",
		map[string]any{"gedcom": "0 HEAD\n5 VERS nope\n"})
	assertStatus(t, recorder, http.StatusBadRequest)
	assertErrorKind(t, recorder, domain.ErrorKindGedcom)
}

func TestExportUnknownTree(t *testing.T) {
	handler := newTestHandler(t)
	recorder := doJSON(t, handler, http.MethodGet, "/api/v1/trees/no-such-tree/export", nil)
	assertStatus(t, recorder, http.StatusNotFound)
	assertErrorKind(t, recorder, domain.ErrorKindNotFound)
}
