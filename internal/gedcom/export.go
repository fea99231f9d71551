package gedcom

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// Version is stamped into the exported GEDCOM header.
const Version = "0.3.0"

// maxLineValue caps the payload of one GEDCOM line; longer values continue
// on CONC lines and embedded newlines become CONT lines.
const maxLineValue = 255

// Snapshot is the full live content of one tree, the exporter's input.
type Snapshot struct {
	Persons        []domain.Person
	PersonNames    []domain.PersonName
	Families       []domain.Family
	FamilySpouses  []domain.FamilySpouse
	FamilyChildren []domain.FamilyChild
	Events         []domain.Event
	Places         []domain.Place
	Sources        []domain.Source
	Citations      []domain.Citation
	Media          []domain.Media
	MediaLinks     []domain.MediaLink
	Notes          []domain.Note
}

// Export renders a snapshot as GEDCOM 5.5.1 text. Cross-references are
// allocated in ascending internal-id order, so equal snapshots produce
// byte-identical output; data without a GEDCOM representation is reported in
// the warnings.
func Export(snapshot Snapshot) (string, []string, error) {
	ex := &exporter{snapshot: snapshot}
	ex.assignXrefs()

	ex.line(0, "", "HEAD", "")
	ex.line(1, "", "SOUR", "OXIDGENE")
	ex.line(2, "", "NAME", "OxidGene")
	ex.line(2, "", "VERS", Version)
	ex.line(1, "", "GEDC", "")
	ex.line(2, "", "VERS", "5.5.1")
	ex.line(2, "", "FORM", "LINEAGE-LINKED")
	ex.line(1, "", "CHAR", "UTF-8")
	ex.line(1, "", "SUBM", "@SUB1@")
	ex.line(0, "@SUB1@", "SUBM", "")
	ex.line(1, "", "NAME", "OxidGene")

	ex.writeIndividuals()
	ex.writeFamilies()
	ex.writeSources()
	ex.writeMedia()
	ex.line(0, "", "TRLR", "")

	return ex.out.String(), ex.warnings, nil
}

type exporter struct {
	snapshot Snapshot
	out      strings.Builder
	warnings []string

	personXref map[string]string
	familyXref map[string]string
	sourceXref map[string]string
	mediaXref  map[string]string
	placeByID  map[string]domain.Place

	namesByPerson     map[string][]domain.PersonName
	eventsByPerson    map[string][]domain.Event
	eventsByFamily    map[string][]domain.Event
	citesByPerson     map[string][]domain.Citation
	citesByEvent      map[string][]domain.Citation
	citesByFamily     map[string][]domain.Citation
	notesByPerson     map[string][]domain.Note
	notesByEvent      map[string][]domain.Note
	notesByFamily     map[string][]domain.Note
	notesBySource     map[string][]domain.Note
	linksByPerson     map[string][]domain.MediaLink
	linksByEvent      map[string][]domain.MediaLink
	linksByFamily     map[string][]domain.MediaLink
	spousesByFamily   map[string][]domain.FamilySpouse
	childrenByFamily  map[string][]domain.FamilyChild
	familiesWithChild map[string][]domain.FamilyChild // person → memberships as child
	familiesWithSpous map[string][]domain.FamilySpouse
}

func (ex *exporter) warnf(format string, args ...any) {
	ex.warnings = append(ex.warnings, fmt.Sprintf(format, args...))
}

// assignXrefs numbers every record in ascending internal-id order and builds
// the lookup indexes used while writing.
func (ex *exporter) assignXrefs() {
	snap := &ex.snapshot
	sort.Slice(snap.Persons, func(i, j int) bool { return snap.Persons[i].ID < snap.Persons[j].ID })
	sort.Slice(snap.Families, func(i, j int) bool { return snap.Families[i].ID < snap.Families[j].ID })
	sort.Slice(snap.Sources, func(i, j int) bool { return snap.Sources[i].ID < snap.Sources[j].ID })
	sort.Slice(snap.Media, func(i, j int) bool { return snap.Media[i].ID < snap.Media[j].ID })

	ex.personXref = map[string]string{}
	for index, person := range snap.Persons {
		ex.personXref[person.ID] = fmt.Sprintf("@I%d@", index+1)
	}
	ex.familyXref = map[string]string{}
	for index, family := range snap.Families {
		ex.familyXref[family.ID] = fmt.Sprintf("@F%d@", index+1)
	}
	ex.sourceXref = map[string]string{}
	for index, source := range snap.Sources {
		ex.sourceXref[source.ID] = fmt.Sprintf("@S%d@", index+1)
	}
	ex.mediaXref = map[string]string{}
	for index, media := range snap.Media {
		ex.mediaXref[media.ID] = fmt.Sprintf("@M%d@", index+1)
	}

	ex.placeByID = map[string]domain.Place{}
	for _, place := range snap.Places {
		ex.placeByID[place.ID] = place
	}

	ex.namesByPerson = map[string][]domain.PersonName{}
	for _, name := range snap.PersonNames {
		ex.namesByPerson[name.PersonID] = append(ex.namesByPerson[name.PersonID], name)
	}
	for _, names := range ex.namesByPerson {
		sort.Slice(names, func(i, j int) bool {
			if names[i].IsPrimary != names[j].IsPrimary {
				return names[i].IsPrimary
			}
			return names[i].ID < names[j].ID
		})
	}

	ex.eventsByPerson = map[string][]domain.Event{}
	ex.eventsByFamily = map[string][]domain.Event{}
	for _, event := range snap.Events {
		if event.PersonID != nil {
			ex.eventsByPerson[*event.PersonID] = append(ex.eventsByPerson[*event.PersonID], event)
		}
		if event.FamilyID != nil {
			ex.eventsByFamily[*event.FamilyID] = append(ex.eventsByFamily[*event.FamilyID], event)
		}
	}

	ex.citesByPerson = map[string][]domain.Citation{}
	ex.citesByEvent = map[string][]domain.Citation{}
	ex.citesByFamily = map[string][]domain.Citation{}
	for _, cite := range snap.Citations {
		switch {
		case cite.PersonID != nil:
			ex.citesByPerson[*cite.PersonID] = append(ex.citesByPerson[*cite.PersonID], cite)
		case cite.EventID != nil:
			ex.citesByEvent[*cite.EventID] = append(ex.citesByEvent[*cite.EventID], cite)
		case cite.FamilyID != nil:
			ex.citesByFamily[*cite.FamilyID] = append(ex.citesByFamily[*cite.FamilyID], cite)
		}
	}

	ex.notesByPerson = map[string][]domain.Note{}
	ex.notesByEvent = map[string][]domain.Note{}
	ex.notesByFamily = map[string][]domain.Note{}
	ex.notesBySource = map[string][]domain.Note{}
	for _, note := range snap.Notes {
		switch {
		case note.PersonID != nil:
			ex.notesByPerson[*note.PersonID] = append(ex.notesByPerson[*note.PersonID], note)
		case note.EventID != nil:
			ex.notesByEvent[*note.EventID] = append(ex.notesByEvent[*note.EventID], note)
		case note.FamilyID != nil:
			ex.notesByFamily[*note.FamilyID] = append(ex.notesByFamily[*note.FamilyID], note)
		case note.SourceID != nil:
			ex.notesBySource[*note.SourceID] = append(ex.notesBySource[*note.SourceID], note)
		}
	}

	ex.linksByPerson = map[string][]domain.MediaLink{}
	ex.linksByEvent = map[string][]domain.MediaLink{}
	ex.linksByFamily = map[string][]domain.MediaLink{}
	for _, link := range snap.MediaLinks {
		switch {
		case link.PersonID != nil:
			ex.linksByPerson[*link.PersonID] = append(ex.linksByPerson[*link.PersonID], link)
		case link.EventID != nil:
			ex.linksByEvent[*link.EventID] = append(ex.linksByEvent[*link.EventID], link)
		case link.FamilyID != nil:
			ex.linksByFamily[*link.FamilyID] = append(ex.linksByFamily[*link.FamilyID], link)
		}
	}

	ex.spousesByFamily = map[string][]domain.FamilySpouse{}
	ex.familiesWithSpous = map[string][]domain.FamilySpouse{}
	for _, spouse := range snap.FamilySpouses {
		ex.spousesByFamily[spouse.FamilyID] = append(ex.spousesByFamily[spouse.FamilyID], spouse)
		ex.familiesWithSpous[spouse.PersonID] = append(ex.familiesWithSpous[spouse.PersonID], spouse)
	}
	ex.childrenByFamily = map[string][]domain.FamilyChild{}
	ex.familiesWithChild = map[string][]domain.FamilyChild{}
	for _, child := range snap.FamilyChildren {
		ex.childrenByFamily[child.FamilyID] = append(ex.childrenByFamily[child.FamilyID], child)
		ex.familiesWithChild[child.PersonID] = append(ex.familiesWithChild[child.PersonID], child)
	}
	for _, children := range ex.childrenByFamily {
		sort.Slice(children, func(i, j int) bool {
			if children[i].SortOrder != children[j].SortOrder {
				return children[i].SortOrder < children[j].SortOrder
			}
			return children[i].ID < children[j].ID
		})
	}
}

// line emits one GEDCOM line, splitting long or multi-line values into CONT
// and CONC continuations.
func (ex *exporter) line(level int, xref, tag, value string) {
	segments := strings.Split(value, "\n")
	for index, segment := range segments {
		lineTag := tag
		if index > 0 {
			lineTag = "CONT"
		}
		first := true
		for first || len(segment) > 0 {
			chunk := segment
			if len(chunk) > maxLineValue {
				cut := maxLineValue
				// Never split inside a multi-byte rune.
				for cut > maxLineValue-utf8.UTFMax && !utf8.RuneStart(segment[cut]) {
					cut--
				}
				chunk = chunk[:cut]
			}
			segment = segment[len(chunk):]
			emitTag := lineTag
			emitLevel := level
			if !first {
				emitTag = "CONC"
			}
			if index > 0 || !first {
				emitLevel = level + 1
			}
			ex.writeLine(emitLevel, pick(first && index == 0, xref, ""), emitTag, chunk)
			first = false
		}
	}
}

func (ex *exporter) writeLine(level int, xref, tag, value string) {
	ex.out.WriteString(fmt.Sprintf("%d", level))
	if xref != "" {
		ex.out.WriteString(" " + xref)
	}
	ex.out.WriteString(" " + tag)
	if value != "" {
		ex.out.WriteString(" " + value)
	}
	ex.out.WriteString("\n")
}

func pick(condition bool, a, b string) string {
	if condition {
		return a
	}
	return b
}

// ── Individuals ─────────────────────────────────────────────────────

func (ex *exporter) writeIndividuals() {
	for _, person := range ex.snapshot.Persons {
		xref := ex.personXref[person.ID]
		ex.line(0, xref, "INDI", "")

		for _, name := range ex.namesByPerson[person.ID] {
			ex.writeName(name)
		}

		sexValue, representable := sexToGedcom(person.Sex)
		if !representable {
			ex.warnf("individual %s: sex %q has no GEDCOM value, exported as U", xref, person.Sex)
		}
		ex.line(1, "", "SEX", sexValue)

		for _, event := range ex.eventsByPerson[person.ID] {
			ex.writeEvent(1, event)
		}

		for _, membership := range ex.familiesWithChild[person.ID] {
			famXref, ok := ex.familyXref[membership.FamilyID]
			if !ok {
				continue
			}
			ex.line(1, "", "FAMC", famXref)
			if token, ok := pedigreeValues[membership.ChildType]; ok {
				ex.line(2, "", "PEDI", token)
			} else if membership.ChildType != domain.ChildTypeBiological {
				ex.warnf("individual %s: child type %q has no GEDCOM pedigree value, exported without PEDI", xref, membership.ChildType)
			}
		}
		for _, membership := range ex.familiesWithSpous[person.ID] {
			if famXref, ok := ex.familyXref[membership.FamilyID]; ok {
				ex.line(1, "", "FAMS", famXref)
			}
		}

		for _, cite := range ex.citesByPerson[person.ID] {
			ex.writeCitation(1, cite)
		}
		for _, note := range ex.notesByPerson[person.ID] {
			ex.line(1, "", "NOTE", note.Text)
		}
		ex.writeMediaLinks(1, ex.linksByPerson[person.ID])
	}
}

func (ex *exporter) writeName(name domain.PersonName) {
	given := ""
	if name.GivenNames != nil {
		given = *name.GivenNames
	}
	surname := ""
	if name.Surname != nil {
		surname = *name.Surname
	}
	value := strings.TrimSpace(fmt.Sprintf("%s /%s/", given, surname))
	ex.line(1, "", "NAME", value)
	if token, ok := nameTypeValues[name.NameType]; ok {
		ex.line(2, "", "TYPE", token)
	}
	if name.GivenNames != nil {
		ex.line(2, "", "GIVN", *name.GivenNames)
	}
	if name.Surname != nil {
		ex.line(2, "", "SURN", *name.Surname)
	}
	if name.Prefix != nil {
		ex.line(2, "", "NPFX", *name.Prefix)
	}
	if name.Suffix != nil {
		ex.line(2, "", "NSFX", *name.Suffix)
	}
	if name.Nickname != nil {
		ex.line(2, "", "NICK", *name.Nickname)
	}
}

// ── Families ────────────────────────────────────────────────────────

func (ex *exporter) writeFamilies() {
	for _, family := range ex.snapshot.Families {
		xref := ex.familyXref[family.ID]
		ex.line(0, xref, "FAM", "")

		husbandDone, wifeDone := false, false
		for _, spouse := range ex.spousesByFamily[family.ID] {
			personXref, ok := ex.personXref[spouse.PersonID]
			if !ok {
				continue
			}
			switch {
			case spouse.Role == domain.SpouseRoleHusband && !husbandDone:
				ex.line(1, "", "HUSB", personXref)
				husbandDone = true
			case spouse.Role == domain.SpouseRoleWife && !wifeDone:
				ex.line(1, "", "WIFE", personXref)
				wifeDone = true
			default:
				ex.warnf("family %s: spouse %s (%s) has no free HUSB/WIFE slot in GEDCOM 5.5.1", xref, personXref, spouse.Role)
			}
		}

		for _, child := range ex.childrenByFamily[family.ID] {
			if personXref, ok := ex.personXref[child.PersonID]; ok {
				ex.line(1, "", "CHIL", personXref)
			}
		}

		for _, event := range ex.eventsByFamily[family.ID] {
			ex.writeEvent(1, event)
		}
		for _, cite := range ex.citesByFamily[family.ID] {
			ex.writeCitation(1, cite)
		}
		for _, note := range ex.notesByFamily[family.ID] {
			ex.line(1, "", "NOTE", note.Text)
		}
		ex.writeMediaLinks(1, ex.linksByFamily[family.ID])
	}
}

// ── Events, citations, links ────────────────────────────────────────

func (ex *exporter) writeEvent(level int, event domain.Event) {
	tag, ok := eventTypeTags[event.EventType]
	if !ok {
		ex.warnf("event %s: type %q has no GEDCOM tag, exported as EVEN", event.ID, event.EventType)
		tag = "EVEN"
	}
	ex.line(level, "", tag, "")
	if event.DateValue != nil {
		ex.line(level+1, "", "DATE", *event.DateValue)
	}
	if event.PlaceID != nil {
		if place, ok := ex.placeByID[*event.PlaceID]; ok {
			ex.line(level+1, "", "PLAC", place.Name)
			if place.Latitude != nil && place.Longitude != nil {
				ex.line(level+2, "", "MAP", "")
				ex.line(level+3, "", "LATI", FormatCoordinate(*place.Latitude, true))
				ex.line(level+3, "", "LONG", FormatCoordinate(*place.Longitude, false))
			}
		} else {
			ex.warnf("event %s references unknown place %s", event.ID, *event.PlaceID)
		}
	}
	if event.Description != nil {
		ex.line(level+1, "", "CAUS", *event.Description)
	}
	for _, cite := range ex.citesByEvent[event.ID] {
		ex.writeCitation(level+1, cite)
	}
	for _, note := range ex.notesByEvent[event.ID] {
		ex.line(level+1, "", "NOTE", note.Text)
	}
	ex.writeMediaLinks(level+1, ex.linksByEvent[event.ID])
}

func (ex *exporter) writeCitation(level int, cite domain.Citation) {
	sourceXref, ok := ex.sourceXref[cite.SourceID]
	if !ok {
		ex.warnf("citation %s references unknown source %s", cite.ID, cite.SourceID)
		return
	}
	ex.line(level, "", "SOUR", sourceXref)
	if cite.Page != nil {
		ex.line(level+1, "", "PAGE", *cite.Page)
	}
	ex.line(level+1, "", "QUAY", confidenceToQuay(cite.Confidence))
	if cite.Text != nil {
		ex.line(level+1, "", "DATA", "")
		ex.line(level+2, "", "TEXT", *cite.Text)
	}
}

func (ex *exporter) writeMediaLinks(level int, links []domain.MediaLink) {
	sorted := append([]domain.MediaLink(nil), links...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	for _, link := range sorted {
		mediaXref, ok := ex.mediaXref[link.MediaID]
		if !ok {
			ex.warnf("media link %s references unknown media %s", link.ID, link.MediaID)
			continue
		}
		ex.line(level, "", "OBJE", mediaXref)
	}
}

// ── Sources and media records ───────────────────────────────────────

func (ex *exporter) writeSources() {
	for _, source := range ex.snapshot.Sources {
		ex.line(0, ex.sourceXref[source.ID], "SOUR", "")
		ex.line(1, "", "TITL", source.Title)
		if source.Author != nil {
			ex.line(1, "", "AUTH", *source.Author)
		}
		if source.Publisher != nil {
			ex.line(1, "", "PUBL", *source.Publisher)
		}
		if source.Abbreviation != nil {
			ex.line(1, "", "ABBR", *source.Abbreviation)
		}
		if source.RepositoryName != nil {
			ex.line(1, "", "REPO", *source.RepositoryName)
		}
		for _, note := range ex.notesBySource[source.ID] {
			ex.line(1, "", "NOTE", note.Text)
		}
	}
}

func (ex *exporter) writeMedia() {
	for _, media := range ex.snapshot.Media {
		ex.line(0, ex.mediaXref[media.ID], "OBJE", "")
		ex.line(1, "", "FILE", media.FilePath)
		ex.line(2, "", "FORM", media.MimeType)
		if media.Title != nil {
			ex.line(1, "", "TITL", *media.Title)
		}
		if media.Description != nil {
			ex.line(1, "", "NOTE", *media.Description)
		}
	}
}
