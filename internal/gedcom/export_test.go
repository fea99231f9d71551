package gedcom

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/oxidgene/oxidgene/internal/domain"
)

func snapshotOf(batch *Batch) Snapshot {
	return Snapshot{
		Persons:        batch.Persons,
		PersonNames:    batch.PersonNames,
		Families:       batch.Families,
		FamilySpouses:  batch.FamilySpouses,
		FamilyChildren: batch.FamilyChildren,
		Events:         batch.Events,
		Places:         batch.Places,
		Sources:        batch.Sources,
		Citations:      batch.Citations,
		Media:          batch.Media,
		MediaLinks:     batch.MediaLinks,
		Notes:          batch.Notes,
	}
}

func TestExportWritesCanonicalHeader(t *testing.T) {
	output, warnings, err := Export(Snapshot{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	want := strings.Join([]string{
		"0 HEAD",
		"1 SOUR OXIDGENE",
		"2 NAME OxidGene",
		"2 VERS " + Version,
		"1 GEDC",
		"2 VERS 5.5.1",
		"2 FORM LINEAGE-LINKED",
		"1 CHAR UTF-8",
		"1 SUBM @SUB1@",
		"0 @SUB1@ SUBM",
		"1 NAME OxidGene",
		"0 TRLR",
		"",
	}, "\n")
	if output != want {
		t.Fatalf("unexpected empty-tree output:\n%s", output)
	}
}

// Exporting, re-importing and exporting again must be a fixed point: the
// second export reproduces the first byte for byte.
func TestExportImportRoundTrip(t *testing.T) {
	first, err := Import(sampleGedcom, "tree-a", sequenceIDs(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out1, warnings, err := Export(snapshotOf(first))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no export warnings, got %v", warnings)
	}

	second, err := Import(out1, "tree-b", sequenceIDs(), testNow)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	out2, _, err := Export(snapshotOf(second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out1 != out2 {
		t.Fatalf("round trip is not stable:\nfirst:\n%s\nsecond:\n%s", out1, out2)
	}

	for _, want := range []string{
		"0 @I1@ INDI",
		"1 NAME Charles /Darwin/",
		"1 HUSB @I1@",
		"1 CHIL @I3@",
		"2 PEDI adopted",
		"3 MAP",
		"4 LATI N52.7069",
		"3 QUAY 3",
		"1 TITL Parish register of St Chad",
		"2 FORM image/jpeg",
	} {
		if !strings.Contains(out1, want) {
			t.Fatalf("expected exported line %q, output:\n%s", want, out1)
		}
	}
	if !strings.HasSuffix(out1, "0 TRLR\n") {
		t.Fatalf("expected TRLR as the final record")
	}
}

func TestExportSplitsLongAndMultilineValues(t *testing.T) {
	personID := "00000000-0000-7000-8000-000000000001"
	text := strings.Repeat("abcdefghij", 30) + "\nsecond paragraph"
	snapshot := Snapshot{
		Persons: []domain.Person{{ID: personID, TreeID: "tree-a", Sex: domain.SexUnknown}},
		Notes: []domain.Note{{
			ID:       "00000000-0000-7000-8000-000000000002",
			TreeID:   "tree-a",
			Text:     text,
			PersonID: &personID,
		}},
	}

	output, _, err := Export(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "\n2 CONC ") {
		t.Fatalf("expected a CONC continuation for the long value")
	}
	if !strings.Contains(output, "\n2 CONT second paragraph") {
		t.Fatalf("expected a CONT continuation for the embedded newline")
	}
	for _, line := range strings.Split(output, "\n") {
		if len(line) > maxLineValue+16 {
			t.Fatalf("line exceeds the GEDCOM width cap: %q", line)
		}
	}

	batch, err := Import(output, "tree-b", sequenceIDs(), testNow)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if len(batch.Notes) != 1 || batch.Notes[0].Text != text {
		t.Fatalf("continuations did not fold back to the original text")
	}
}

func TestExportSplitsContinuationsOnRuneBoundaries(t *testing.T) {
	personID := "00000000-0000-7000-8000-000000000001"
	// Two-byte runes make every odd byte offset fall inside a rune.
	text := strings.Repeat("é", 200)
	snapshot := Snapshot{
		Persons: []domain.Person{{ID: personID, TreeID: "tree-a", Sex: domain.SexUnknown}},
		Notes: []domain.Note{{
			ID:       "00000000-0000-7000-8000-000000000002",
			TreeID:   "tree-a",
			Text:     text,
			PersonID: &personID,
		}},
	}

	output, _, err := Export(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "\n2 CONC ") {
		t.Fatalf("expected a CONC continuation for the long value")
	}
	for _, line := range strings.Split(output, "\n") {
		if !utf8.ValidString(line) {
			t.Fatalf("line is not valid UTF-8: %q", line)
		}
	}

	batch, err := Import(output, "tree-b", sequenceIDs(), testNow)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if len(batch.Notes) != 1 || batch.Notes[0].Text != text {
		t.Fatalf("continuations did not fold back to the original text")
	}
}

func TestExportWarnsOnUnknownChildType(t *testing.T) {
	personID := "00000000-0000-7000-8000-000000000001"
	familyID := "00000000-0000-7000-8000-000000000002"
	snapshot := Snapshot{
		Persons:  []domain.Person{{ID: personID, TreeID: "t", Sex: domain.SexUnknown}},
		Families: []domain.Family{{ID: familyID, TreeID: "t"}},
		FamilyChildren: []domain.FamilyChild{{
			ID:        "00000000-0000-7000-8000-000000000003",
			FamilyID:  familyID,
			PersonID:  personID,
			ChildType: domain.ChildTypeUnknown,
		}},
	}

	output, warnings, err := Export(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, "PEDI") {
		t.Fatalf("expected no PEDI line for an unknown child type, output:\n%s", output)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "no GEDCOM pedigree value") {
		t.Fatalf("expected a pedigree warning, got %v", warnings)
	}
}

func TestExportWarnsOnExtraSpouses(t *testing.T) {
	persons := []domain.Person{
		{ID: "00000000-0000-7000-8000-000000000001", TreeID: "t", Sex: domain.SexMale},
		{ID: "00000000-0000-7000-8000-000000000002", TreeID: "t", Sex: domain.SexMale},
	}
	snapshot := Snapshot{
		Persons:  persons,
		Families: []domain.Family{{ID: "00000000-0000-7000-8000-000000000003", TreeID: "t"}},
		FamilySpouses: []domain.FamilySpouse{
			{ID: "00000000-0000-7000-8000-000000000004", FamilyID: "00000000-0000-7000-8000-000000000003", PersonID: persons[0].ID, Role: domain.SpouseRoleHusband},
			{ID: "00000000-0000-7000-8000-000000000005", FamilyID: "00000000-0000-7000-8000-000000000003", PersonID: persons[1].ID, Role: domain.SpouseRoleHusband},
		},
	}

	output, warnings, err := Export(snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(output, "1 HUSB ") != 1 {
		t.Fatalf("expected a single HUSB line")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "no free HUSB/WIFE slot") {
		t.Fatalf("expected a slot warning, got %v", warnings)
	}
}
