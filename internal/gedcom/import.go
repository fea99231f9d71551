package gedcom

import (
	"fmt"
	"strings"
	"time"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// Batch holds every entity extracted from one GEDCOM file, ready to be
// persisted in a single transaction. The closure rows include the depth-0
// self-row of every imported person.
type Batch struct {
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
	Ancestry       []domain.PersonAncestry
	Warnings       []string
}

type importer struct {
	treeID string
	newID  func() (string, error)
	now    time.Time
	batch  *Batch

	personIDs map[string]string // xref → internal id
	familyIDs map[string]string
	sourceIDs map[string]string
	mediaIDs  map[string]string
	noteText  map[string]string // top-level NOTE record content
	placeIDs  map[string]string // place name → internal id
}

// Import converts GEDCOM text into a Batch for the given tree. Identifiers
// come from newID and every timestamp is now; an unparseable file fails with
// a Gedcom error, everything recoverable lands in Batch.Warnings.
func Import(input, treeID string, newID func() (string, error), now time.Time) (*Batch, error) {
	records, err := Parse(input)
	if err != nil {
		return nil, err
	}

	im := &importer{
		treeID:    treeID,
		newID:     newID,
		now:       now,
		batch:     &Batch{},
		personIDs: map[string]string{},
		familyIDs: map[string]string{},
		sourceIDs: map[string]string{},
		mediaIDs:  map[string]string{},
		noteText:  map[string]string{},
		placeIDs:  map[string]string{},
	}
	if err := im.run(records); err != nil {
		return nil, err
	}
	return im.batch, nil
}

func (im *importer) warnf(format string, args ...any) {
	im.batch.Warnings = append(im.batch.Warnings, fmt.Sprintf(format, args...))
}

func (im *importer) run(records []*Record) error {
	// Pass 1: allocate identifiers for every cross-referenced record so
	// that forward references resolve.
	for _, record := range records {
		if record.XRef == "" {
			continue
		}
		switch record.Tag {
		case "INDI":
			if err := im.allocate(im.personIDs, record.XRef); err != nil {
				return err
			}
		case "FAM":
			if err := im.allocate(im.familyIDs, record.XRef); err != nil {
				return err
			}
		case "SOUR":
			if err := im.allocate(im.sourceIDs, record.XRef); err != nil {
				return err
			}
		case "OBJE":
			if err := im.allocate(im.mediaIDs, record.XRef); err != nil {
				return err
			}
		case "NOTE":
			im.noteText[record.XRef] = record.Value
		}
	}

	// Pass 2: walk records in dependency order.
	for _, record := range records {
		if record.Tag == "SOUR" {
			if err := im.importSource(record); err != nil {
				return err
			}
		}
	}
	for _, record := range records {
		if record.Tag == "OBJE" {
			if err := im.importMediaRecord(record); err != nil {
				return err
			}
		}
	}
	for _, record := range records {
		if record.Tag == "INDI" {
			if err := im.importIndividual(record); err != nil {
				return err
			}
		}
	}
	for _, record := range records {
		if record.Tag == "FAM" {
			if err := im.importFamily(record); err != nil {
				return err
			}
		}
	}
	im.applyPedigrees(records)

	for _, record := range records {
		switch record.Tag {
		case "HEAD", "TRLR", "SUBM", "INDI", "FAM", "SOUR", "OBJE", "NOTE":
		default:
			im.warnf("line %d: unknown record %s skipped", record.Line, record.Tag)
		}
	}

	return im.buildClosure()
}

func (im *importer) allocate(ids map[string]string, xref string) error {
	id, err := im.newID()
	if err != nil {
		return err
	}
	ids[xref] = id
	return nil
}

// ── Sources ─────────────────────────────────────────────────────────

func (im *importer) importSource(record *Record) error {
	if record.XRef == "" {
		im.warnf("line %d: source without cross-reference skipped", record.Line)
		return nil
	}
	id := im.sourceIDs[record.XRef]

	title := record.ChildValue("TITL")
	if title == "" {
		title = "Untitled"
		im.warnf("source %s has no title", record.XRef)
	}
	im.batch.Sources = append(im.batch.Sources, domain.Source{
		ID:             id,
		TreeID:         im.treeID,
		Title:          title,
		Author:         record.ChildValuePtr("AUTH"),
		Publisher:      record.ChildValuePtr("PUBL"),
		Abbreviation:   record.ChildValuePtr("ABBR"),
		RepositoryName: record.ChildValuePtr("REPO"),
		CreatedAt:      im.now,
		UpdatedAt:      im.now,
	})

	for _, note := range record.ChildrenWithTag("NOTE") {
		if err := im.importNote(note, nil, nil, nil, &id); err != nil {
			return err
		}
	}
	return nil
}

// ── Media ───────────────────────────────────────────────────────────

func (im *importer) importMediaRecord(record *Record) error {
	if record.XRef == "" {
		im.warnf("line %d: media object without cross-reference skipped", record.Line)
		return nil
	}
	return im.appendMedia(im.mediaIDs[record.XRef], record)
}

func (im *importer) appendMedia(id string, record *Record) error {
	filePath := ""
	mimeType := "application/octet-stream"
	if file := record.Child("FILE"); file != nil {
		filePath = file.Value
		if form := file.Child("FORM"); form != nil && form.Value != "" {
			mimeType = form.Value
		}
	}

	fileName := filePath
	if idx := strings.LastIndex(filePath, "/"); idx >= 0 {
		fileName = filePath[idx+1:]
	}

	var description *string
	if note := record.Child("NOTE"); note != nil && note.Value != "" && !isXref(note.Value) {
		value := note.Value
		description = &value
	}

	im.batch.Media = append(im.batch.Media, domain.Media{
		ID:          id,
		TreeID:      im.treeID,
		FileName:    fileName,
		MimeType:    mimeType,
		FilePath:    filePath,
		FileSize:    0, // not carried by GEDCOM
		Title:       record.ChildValuePtr("TITL"),
		Description: description,
		CreatedAt:   im.now,
		UpdatedAt:   im.now,
	})
	return nil
}

// resolveMediaLink turns an OBJE child (pointer or inline) into a media id.
func (im *importer) resolveMediaLink(record *Record) (string, bool, error) {
	if isXref(record.Value) {
		if id, ok := im.mediaIDs[record.Value]; ok {
			return id, true, nil
		}
		im.warnf("line %d: OBJE references unknown media %s", record.Line, record.Value)
		return "", false, nil
	}
	if record.Child("FILE") == nil {
		return "", false, nil
	}
	id, err := im.newID()
	if err != nil {
		return "", false, err
	}
	if err := im.appendMedia(id, record); err != nil {
		return "", false, err
	}
	return id, true, nil
}

// ── Individuals ─────────────────────────────────────────────────────

func (im *importer) importIndividual(record *Record) error {
	if record.XRef == "" {
		im.warnf("line %d: individual without cross-reference skipped", record.Line)
		return nil
	}
	personID := im.personIDs[record.XRef]

	im.batch.Persons = append(im.batch.Persons, domain.Person{
		ID:        personID,
		TreeID:    im.treeID,
		Sex:       sexFromGedcom(record.ChildValue("SEX")),
		CreatedAt: im.now,
		UpdatedAt: im.now,
	})

	names := record.ChildrenWithTag("NAME")
	if len(names) > 1 {
		im.warnf("individual %s has %d names, first kept as primary", record.XRef, len(names))
	}
	for index, name := range names {
		if err := im.importName(name, personID, index == 0); err != nil {
			return err
		}
	}

	for _, child := range record.Children {
		if _, ok := individualEventTags[child.Tag]; ok {
			if err := im.importEvent(child, &personID, nil, individualEventTags); err != nil {
				return err
			}
			continue
		}
		switch child.Tag {
		case "NAME", "SEX", "SOUR", "NOTE", "OBJE", "FAMC", "FAMS", "CHAN", "RIN":
		default:
			im.warnf("line %d: unknown tag %s under %s skipped", child.Line, child.Tag, record.XRef)
		}
	}

	for _, cite := range record.ChildrenWithTag("SOUR") {
		if err := im.importCitation(cite, &personID, nil, nil); err != nil {
			return err
		}
	}
	for _, note := range record.ChildrenWithTag("NOTE") {
		if err := im.importNote(note, &personID, nil, nil, nil); err != nil {
			return err
		}
	}
	for _, obje := range record.ChildrenWithTag("OBJE") {
		mediaID, ok, err := im.resolveMediaLink(obje)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := im.appendMediaLink(mediaID, &personID, nil, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) importName(record *Record, personID string, primary bool) error {
	given, surname := splitNameValue(record.Value)
	if value := record.ChildValue("GIVN"); value != "" {
		given = value
	}
	if value := record.ChildValue("SURN"); value != "" {
		surname = value
	}

	nameType := domain.NameTypeBirth
	if token := record.ChildValue("TYPE"); token != "" {
		parsed, ok := nameTypeTokens[strings.ToLower(token)]
		if !ok {
			im.warnf("line %d: unknown name type %q mapped to other", record.Line, token)
			parsed = domain.NameTypeOther
		}
		nameType = parsed
	}

	id, err := im.newID()
	if err != nil {
		return err
	}
	im.batch.PersonNames = append(im.batch.PersonNames, domain.PersonName{
		ID:         id,
		PersonID:   personID,
		NameType:   nameType,
		GivenNames: optional(given),
		Surname:    optional(surname),
		Prefix:     record.ChildValuePtr("NPFX"),
		Suffix:     record.ChildValuePtr("NSFX"),
		Nickname:   record.ChildValuePtr("NICK"),
		IsPrimary:  primary,
		CreatedAt:  im.now,
		UpdatedAt:  im.now,
	})
	return nil
}

// splitNameValue decodes the "Given /Surname/ suffix" NAME payload.
func splitNameValue(value string) (given, surname string) {
	open := strings.Index(value, "/")
	if open < 0 {
		return strings.TrimSpace(value), ""
	}
	end := strings.Index(value[open+1:], "/")
	if end < 0 {
		return strings.TrimSpace(value[:open]), strings.TrimSpace(value[open+1:])
	}
	return strings.TrimSpace(value[:open]), strings.TrimSpace(value[open+1 : open+1+end])
}

// ── Families ────────────────────────────────────────────────────────

func (im *importer) importFamily(record *Record) error {
	if record.XRef == "" {
		im.warnf("line %d: family without cross-reference skipped", record.Line)
		return nil
	}
	familyID := im.familyIDs[record.XRef]

	im.batch.Families = append(im.batch.Families, domain.Family{
		ID:        familyID,
		TreeID:    im.treeID,
		CreatedAt: im.now,
		UpdatedAt: im.now,
	})

	sortOrder := 0
	for _, child := range record.Children {
		var role domain.SpouseRole
		switch child.Tag {
		case "HUSB":
			role = domain.SpouseRoleHusband
		case "WIFE":
			role = domain.SpouseRoleWife
		default:
			continue
		}
		personID, ok := im.personIDs[child.Value]
		if !ok {
			im.warnf("family %s: %s %s not found", record.XRef, child.Tag, child.Value)
			continue
		}
		id, err := im.newID()
		if err != nil {
			return err
		}
		im.batch.FamilySpouses = append(im.batch.FamilySpouses, domain.FamilySpouse{
			ID:        id,
			FamilyID:  familyID,
			PersonID:  personID,
			Role:      role,
			SortOrder: sortOrder,
		})
		sortOrder++
	}

	for index, child := range record.ChildrenWithTag("CHIL") {
		personID, ok := im.personIDs[child.Value]
		if !ok {
			im.warnf("family %s: CHIL %s not found", record.XRef, child.Value)
			continue
		}
		id, err := im.newID()
		if err != nil {
			return err
		}
		im.batch.FamilyChildren = append(im.batch.FamilyChildren, domain.FamilyChild{
			ID:        id,
			FamilyID:  familyID,
			PersonID:  personID,
			ChildType: domain.ChildTypeBiological, // PEDI overrides below
			SortOrder: index,
		})
	}

	for _, child := range record.Children {
		if _, ok := familyEventTags[child.Tag]; ok {
			if err := im.importEvent(child, nil, &familyID, familyEventTags); err != nil {
				return err
			}
			continue
		}
		switch child.Tag {
		case "HUSB", "WIFE", "CHIL", "SOUR", "NOTE", "OBJE", "CHAN", "RIN":
		default:
			im.warnf("line %d: unknown tag %s under %s skipped", child.Line, child.Tag, record.XRef)
		}
	}
	for _, cite := range record.ChildrenWithTag("SOUR") {
		if err := im.importCitation(cite, nil, nil, &familyID); err != nil {
			return err
		}
	}
	for _, note := range record.ChildrenWithTag("NOTE") {
		if err := im.importNote(note, nil, nil, &familyID, nil); err != nil {
			return err
		}
	}
	for _, obje := range record.ChildrenWithTag("OBJE") {
		mediaID, ok, err := im.resolveMediaLink(obje)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := im.appendMediaLink(mediaID, nil, nil, nil, &familyID); err != nil {
			return err
		}
	}
	return nil
}

// applyPedigrees walks INDI FAMC/PEDI links and overrides the child type of
// the matching membership row.
func (im *importer) applyPedigrees(records []*Record) {
	for _, record := range records {
		if record.Tag != "INDI" || record.XRef == "" {
			continue
		}
		personID := im.personIDs[record.XRef]
		for _, famc := range record.ChildrenWithTag("FAMC") {
			token := famc.ChildValue("PEDI")
			if token == "" {
				continue
			}
			childType, ok := pedigreeTokens[strings.ToLower(token)]
			if !ok {
				im.warnf("line %d: unknown pedigree %q ignored", famc.Line, token)
				continue
			}
			familyID, ok := im.familyIDs[famc.Value]
			if !ok {
				im.warnf("individual %s: FAMC %s not found", record.XRef, famc.Value)
				continue
			}
			for index := range im.batch.FamilyChildren {
				row := &im.batch.FamilyChildren[index]
				if row.PersonID == personID && row.FamilyID == familyID {
					row.ChildType = childType
				}
			}
		}
	}
}

// ── Events, citations, notes, media links ───────────────────────────

func (im *importer) importEvent(record *Record, personID, familyID *string, tags map[string]domain.EventType) error {
	eventType := tags[record.Tag]

	var dateValue *string
	var dateSort *time.Time
	if date := record.Child("DATE"); date != nil && date.Value != "" {
		value := date.Value
		dateValue = &value
		if parsed, ok := ParseDate(value); ok {
			dateSort = &parsed
		} else {
			im.warnf("line %d: unparseable date %q", date.Line, value)
		}
	}

	placeID, err := im.resolvePlace(record.Child("PLAC"))
	if err != nil {
		return err
	}

	id, err := im.newID()
	if err != nil {
		return err
	}
	im.batch.Events = append(im.batch.Events, domain.Event{
		ID:          id,
		TreeID:      im.treeID,
		EventType:   eventType,
		DateValue:   dateValue,
		DateSort:    dateSort,
		PlaceID:     placeID,
		PersonID:    personID,
		FamilyID:    familyID,
		Description: record.ChildValuePtr("CAUS"),
		CreatedAt:   im.now,
		UpdatedAt:   im.now,
	})

	for _, cite := range record.ChildrenWithTag("SOUR") {
		if err := im.importCitation(cite, nil, &id, nil); err != nil {
			return err
		}
	}
	for _, note := range record.ChildrenWithTag("NOTE") {
		if err := im.importNote(note, nil, &id, nil, nil); err != nil {
			return err
		}
	}
	for _, obje := range record.ChildrenWithTag("OBJE") {
		mediaID, ok, err := im.resolveMediaLink(obje)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := im.appendMediaLink(mediaID, nil, &id, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

// resolvePlace deduplicates places by exact name within the import and
// backfills coordinates when a MAP block appears.
func (im *importer) resolvePlace(record *Record) (*string, error) {
	if record == nil || record.Value == "" {
		return nil, nil
	}
	name := record.Value

	id, known := im.placeIDs[name]
	if !known {
		fresh, err := im.newID()
		if err != nil {
			return nil, err
		}
		id = fresh
		im.placeIDs[name] = id
		im.batch.Places = append(im.batch.Places, domain.Place{
			ID:        id,
			TreeID:    im.treeID,
			Name:      name,
			CreatedAt: im.now,
			UpdatedAt: im.now,
		})
	}

	if mapRecord := record.Child("MAP"); mapRecord != nil {
		latitude, latOK := ParseCoordinate(mapRecord.ChildValue("LATI"))
		longitude, lonOK := ParseCoordinate(mapRecord.ChildValue("LONG"))
		if latOK && lonOK {
			for index := range im.batch.Places {
				if im.batch.Places[index].ID == id {
					im.batch.Places[index].Latitude = &latitude
					im.batch.Places[index].Longitude = &longitude
				}
			}
		}
	}
	return &id, nil
}

func (im *importer) importCitation(record *Record, personID, eventID, familyID *string) error {
	if !isXref(record.Value) {
		im.warnf("line %d: citation without source cross-reference skipped", record.Line)
		return nil
	}
	sourceID, ok := im.sourceIDs[record.Value]
	if !ok {
		im.warnf("line %d: citation references unknown source %s", record.Line, record.Value)
		return nil
	}

	confidence := domain.ConfidenceNormal
	if quay := record.ChildValue("QUAY"); quay != "" {
		parsed, ok := confidenceFromQuay(quay)
		if !ok {
			im.warnf("line %d: unknown QUAY %q, normal assumed", record.Line, quay)
		}
		confidence = parsed
	}

	var text *string
	if data := record.Child("DATA"); data != nil {
		text = data.ChildValuePtr("TEXT")
	}

	id, err := im.newID()
	if err != nil {
		return err
	}
	im.batch.Citations = append(im.batch.Citations, domain.Citation{
		ID:         id,
		SourceID:   sourceID,
		PersonID:   personID,
		EventID:    eventID,
		FamilyID:   familyID,
		Page:       record.ChildValuePtr("PAGE"),
		Confidence: confidence,
		Text:       text,
		CreatedAt:  im.now,
		UpdatedAt:  im.now,
	})
	return nil
}

func (im *importer) importNote(record *Record, personID, eventID, familyID, sourceID *string) error {
	text := record.Value
	if isXref(text) {
		resolved, ok := im.noteText[text]
		if !ok {
			im.warnf("line %d: note references unknown record %s", record.Line, text)
			return nil
		}
		text = resolved
	}
	if text == "" {
		return nil
	}

	id, err := im.newID()
	if err != nil {
		return err
	}
	im.batch.Notes = append(im.batch.Notes, domain.Note{
		ID:        id,
		TreeID:    im.treeID,
		Text:      text,
		PersonID:  personID,
		EventID:   eventID,
		FamilyID:  familyID,
		SourceID:  sourceID,
		CreatedAt: im.now,
		UpdatedAt: im.now,
	})
	return nil
}

func (im *importer) appendMediaLink(mediaID string, personID, eventID, sourceID, familyID *string) error {
	id, err := im.newID()
	if err != nil {
		return err
	}
	im.batch.MediaLinks = append(im.batch.MediaLinks, domain.MediaLink{
		ID:       id,
		MediaID:  mediaID,
		PersonID: personID,
		EventID:  eventID,
		SourceID: sourceID,
		FamilyID: familyID,
	})
	return nil
}

// ── Closure ─────────────────────────────────────────────────────────

// buildClosure materializes the ancestry closure for the whole batch:
// a self-row per person, then shortest-depth rows for every transitive
// parent-of pair. A person who is their own ancestor is fatal.
func (im *importer) buildClosure() error {
	parentsByFamily := map[string][]string{}
	for _, spouse := range im.batch.FamilySpouses {
		parentsByFamily[spouse.FamilyID] = append(parentsByFamily[spouse.FamilyID], spouse.PersonID)
	}
	childrenByParent := map[string][]string{}
	for _, child := range im.batch.FamilyChildren {
		for _, parentID := range parentsByFamily[child.FamilyID] {
			childrenByParent[parentID] = append(childrenByParent[parentID], child.PersonID)
		}
	}

	type pair struct{ ancestor, descendant string }
	depths := map[pair]int{}
	for _, person := range im.batch.Persons {
		depths[pair{person.ID, person.ID}] = 0
	}

	for parentID, directChildren := range childrenByParent {
		type frame struct {
			descendant string
			depth      int
		}
		stack := make([]frame, 0, len(directChildren))
		for _, childID := range directChildren {
			stack = append(stack, frame{childID, 1})
		}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.descendant == parentID {
				return domain.GedcomError("cycle: person appears among their own ancestors")
			}
			key := pair{parentID, top.descendant}
			if existing, ok := depths[key]; ok && existing <= top.depth {
				continue
			}
			depths[key] = top.depth
			for _, grandchild := range childrenByParent[top.descendant] {
				stack = append(stack, frame{grandchild, top.depth + 1})
			}
		}
	}

	for key, depth := range depths {
		id, err := im.newID()
		if err != nil {
			return err
		}
		im.batch.Ancestry = append(im.batch.Ancestry, domain.PersonAncestry{
			ID:           id,
			TreeID:       im.treeID,
			AncestorID:   key.ancestor,
			DescendantID: key.descendant,
			Depth:        depth,
		})
	}
	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
