package store

import (
	"context"
	"strings"
	"testing"

	"github.com/oxidgene/oxidgene/internal/domain"
)

const importFixture = `0 HEAD
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
2 SOUR @S1@
3 PAGE entry 113
3 QUAY 3
1 FAMS @F1@
0 @I2@ INDI
1 NAME Emma /Wedgwood/
1 SEX F
1 FAMS @F1@
0 @I3@ INDI
1 NAME William /Darwin/
1 SEX M
1 FAMC @F1@
1 NOTE Eldest child.
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 MARR
2 DATE 29 JAN 1839
0 @S1@ SOUR
1 TITL Parish register of St Chad
0 TRLR
`

func TestImportGedcomPersistsEntities(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)

	summary, err := s.ImportGedcom(context.Background(), tree.ID, importFixture)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.PersonsCount != 3 || summary.FamiliesCount != 1 {
		t.Fatalf("expected 3 persons in 1 family, got %d/%d", summary.PersonsCount, summary.FamiliesCount)
	}
	if summary.EventsCount != 2 || summary.SourcesCount != 1 {
		t.Fatalf("expected 2 events and 1 source, got %d/%d", summary.EventsCount, summary.SourcesCount)
	}
	if summary.PlacesCount != 1 || summary.NotesCount != 1 {
		t.Fatalf("expected 1 place and 1 note, got %d/%d", summary.PlacesCount, summary.NotesCount)
	}
	if len(summary.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", summary.Warnings)
	}

	page, err := s.ListPersons(context.Background(), tree.ID, domain.PageParams{First: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 3 {
		t.Fatalf("expected 3 persisted persons, got %d", page.TotalCount)
	}

	// The imported parent links are queryable through the closure.
	var childName domain.PersonName
	if err := s.db.Where("given_names = ?", "William").First(&childName).Error; err != nil {
		t.Fatalf("imported child name not found: %v", err)
	}
	ancestors, err := s.Ancestors(context.Background(), childName.PersonID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ancestors) != 2 {
		t.Fatalf("expected both parents as ancestors, got %d", len(ancestors))
	}
	for _, row := range ancestors {
		if row.Depth != 1 {
			t.Fatalf("expected depth 1 parents, got %d", row.Depth)
		}
	}
}

func TestImportGedcomRejectsCycleAndPersistsNothing(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)

	cyclic := strings.Join([]string{
		"0 HEAD",
		"0 @I1@ INDI",
		"1 SEX M",
		"0 @F1@ FAM",
		"1 HUSB @I1@",
		"1 CHIL @I1@",
		"0 TRLR",
	}, "\n")

	_, err := s.ImportGedcom(context.Background(), tree.ID, cyclic)
	if domain.KindOf(err) != domain.ErrorKindGedcom {
		t.Fatalf("expected gedcom error, got %v", err)
	}

	page, err := s.ListPersons(context.Background(), tree.ID, domain.PageParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 0 {
		t.Fatalf("expected no persisted persons after a failed import, got %d", page.TotalCount)
	}
}

func TestImportGedcomRequiresTree(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ImportGedcom(context.Background(), "missing-tree", importFixture)
	assertNotFound(t, err)
}

func TestExportGedcomRequiresTree(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ExportGedcom(context.Background(), "missing-tree")
	assertNotFound(t, err)
}

// Exporting a tree, importing the output into a fresh tree and exporting
// again must reproduce the first export byte for byte.
func TestGedcomRoundTripIsStable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tree := mustCreateTree(t, s)

	father := mustCreatePerson(t, s, tree.ID)
	mother := mustCreatePerson(t, s, tree.ID)
	child := mustCreatePerson(t, s, tree.ID)
	if _, err := s.CreatePersonName(ctx, father.ID, PersonNameInput{
		NameType:   domain.NameTypeBirth,
		GivenNames: strPtr("Charles"),
		Surname:    strPtr("Darwin"),
		IsPrimary:  true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.CreatePersonName(ctx, child.ID, PersonNameInput{
		NameType:   domain.NameTypeBirth,
		GivenNames: strPtr("William"),
		Surname:    strPtr("Darwin"),
		IsPrimary:  true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	family := mustCreateFamily(t, s, tree.ID)
	if _, err := s.AddSpouse(ctx, family.ID, FamilySpouseInput{PersonID: father.ID, Role: domain.SpouseRoleHusband}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AddSpouse(ctx, family.ID, FamilySpouseInput{PersonID: mother.ID, Role: domain.SpouseRoleWife}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustAddChild(t, s, family.ID, child.ID)

	latitude, longitude := 52.7069, -2.7527
	place, err := s.CreatePlace(ctx, tree.ID, PlaceInput{
		Name:      "Shrewsbury, Shropshire, England",
		Latitude:  &latitude,
		Longitude: &longitude,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.CreateEvent(ctx, tree.ID, EventInput{
		EventType: domain.EventTypeBirth,
		DateValue: strPtr("12 FEB 1809"),
		PlaceID:   &place.ID,
		PersonID:  &father.ID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	source := mustCreateSource(t, s, tree.ID)
	if _, err := s.CreateCitation(ctx, CitationInput{
		SourceID:   source.ID,
		PersonID:   &father.ID,
		Page:       strPtr("entry 113"),
		Confidence: domain.ConfidenceHigh,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.CreateNote(ctx, tree.ID, NoteInput{
		Text:     "Eldest child.",
		PersonID: &child.ID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exported, err := s.ExportGedcom(ctx, tree.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exported.Warnings) != 0 {
		t.Fatalf("expected no export warnings, got %v", exported.Warnings)
	}

	replica, err := s.CreateTree(ctx, "replica", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.ImportGedcom(ctx, replica.ID, exported.Gedcom); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}

	reexported, err := s.ExportGedcom(ctx, replica.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exported.Gedcom != reexported.Gedcom {
		t.Fatalf("round trip is not stable:\nfirst:\n%s\nsecond:\n%s", exported.Gedcom, reexported.Gedcom)
	}
}
