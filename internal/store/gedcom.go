package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/gedcom"
)

// batchSize keeps multi-row inserts inside SQLite's bound-variable limit.
const batchSize = 100

// ImportSummary reports what a GEDCOM import created.
type ImportSummary struct {
	PersonsCount  int      `json:"persons_count"`
	FamiliesCount int      `json:"families_count"`
	EventsCount   int      `json:"events_count"`
	SourcesCount  int      `json:"sources_count"`
	MediaCount    int      `json:"media_count"`
	PlacesCount   int      `json:"places_count"`
	NotesCount    int      `json:"notes_count"`
	Warnings      []string `json:"warnings"`
}

// ExportData is a rendered GEDCOM file plus non-fatal export warnings.
type ExportData struct {
	Gedcom   string   `json:"gedcom"`
	Warnings []string `json:"warnings"`
}

// ImportGedcom parses GEDCOM text and persists every extracted entity into
// the tree in one transaction. Parse failures and cycles in the imported
// pedigree abort the whole import.
func (s *Store) ImportGedcom(ctx context.Context, treeID, gedcomText string) (ImportSummary, error) {
	if err := s.requireTree(ctx, treeID); err != nil {
		return ImportSummary{}, err
	}

	batch, err := gedcom.Import(gedcomText, treeID, s.newID, s.now())
	if err != nil {
		return ImportSummary{}, err
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// FK-safe order: leaves first, junctions and closure last.
		inserts := []func(tx *gorm.DB) error{
			batchInsert(batch.Places),
			batchInsert(batch.Sources),
			batchInsert(batch.Media),
			batchInsert(batch.Persons),
			batchInsert(batch.PersonNames),
			batchInsert(batch.Families),
			batchInsert(batch.FamilySpouses),
			batchInsert(batch.FamilyChildren),
			batchInsert(batch.Events),
			batchInsert(batch.Citations),
			batchInsert(batch.MediaLinks),
			batchInsert(batch.Notes),
			batchInsert(batch.Ancestry),
		}
		for _, insert := range inserts {
			if err := insert(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.logError("gedcom.import", txErr)
		return ImportSummary{}, dbError(txErr)
	}

	warnings := batch.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return ImportSummary{
		PersonsCount:  len(batch.Persons),
		FamiliesCount: len(batch.Families),
		EventsCount:   len(batch.Events),
		SourcesCount:  len(batch.Sources),
		MediaCount:    len(batch.Media),
		PlacesCount:   len(batch.Places),
		NotesCount:    len(batch.Notes),
		Warnings:      warnings,
	}, nil
}

func batchInsert[M any](rows []M) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, batchSize).Error
	}
}

// ExportGedcom loads every live entity of a tree and renders it as GEDCOM.
func (s *Store) ExportGedcom(ctx context.Context, treeID string) (ExportData, error) {
	if err := s.requireTree(ctx, treeID); err != nil {
		return ExportData{}, err
	}

	snapshot, err := s.loadSnapshot(ctx, treeID)
	if err != nil {
		return ExportData{}, err
	}

	output, warnings, err := gedcom.Export(snapshot)
	if err != nil {
		return ExportData{}, err
	}
	if warnings == nil {
		warnings = []string{}
	}
	return ExportData{Gedcom: output, Warnings: warnings}, nil
}

// loadSnapshot reads the full live content of a tree in id order. Junction
// rows are filtered through their owning entities so orphans of soft-deleted
// parents stay invisible.
func (s *Store) loadSnapshot(ctx context.Context, treeID string) (gedcom.Snapshot, error) {
	var snapshot gedcom.Snapshot
	db := s.db.WithContext(ctx)

	loads := []func() error{
		func() error {
			return db.Where("tree_id = ?", treeID).Order("id ASC").Find(&snapshot.Persons).Error
		},
		func() error {
			return db.Where("tree_id = ?", treeID).Order("id ASC").Find(&snapshot.Families).Error
		},
		func() error {
			return db.Where("tree_id = ?", treeID).Order("id ASC").Find(&snapshot.Events).Error
		},
		func() error {
			return db.Where("tree_id = ?", treeID).Order("id ASC").Find(&snapshot.Places).Error
		},
		func() error {
			return db.Where("tree_id = ?", treeID).Order("id ASC").Find(&snapshot.Sources).Error
		},
		func() error {
			return db.Where("tree_id = ?", treeID).Order("id ASC").Find(&snapshot.Media).Error
		},
		func() error {
			return db.Where("tree_id = ?", treeID).Order("id ASC").Find(&snapshot.Notes).Error
		},
	}
	for _, load := range loads {
		if err := load(); err != nil {
			s.logError("gedcom.export", err)
			return gedcom.Snapshot{}, dbError(err)
		}
	}

	personIDs := make([]string, 0, len(snapshot.Persons))
	for _, person := range snapshot.Persons {
		personIDs = append(personIDs, person.ID)
	}
	familyIDs := make([]string, 0, len(snapshot.Families))
	for _, family := range snapshot.Families {
		familyIDs = append(familyIDs, family.ID)
	}
	sourceIDs := make([]string, 0, len(snapshot.Sources))
	for _, source := range snapshot.Sources {
		sourceIDs = append(sourceIDs, source.ID)
	}
	mediaIDs := make([]string, 0, len(snapshot.Media))
	for _, media := range snapshot.Media {
		mediaIDs = append(mediaIDs, media.ID)
	}

	dependents := []func() error{
		func() error {
			if len(personIDs) == 0 {
				return nil
			}
			return db.Where("person_id IN ?", personIDs).Order("id ASC").Find(&snapshot.PersonNames).Error
		},
		func() error {
			if len(familyIDs) == 0 {
				return nil
			}
			return db.Where("family_id IN ?", familyIDs).Order("id ASC").Find(&snapshot.FamilySpouses).Error
		},
		func() error {
			if len(familyIDs) == 0 {
				return nil
			}
			return db.Where("family_id IN ?", familyIDs).Order("id ASC").Find(&snapshot.FamilyChildren).Error
		},
		func() error {
			if len(sourceIDs) == 0 {
				return nil
			}
			return db.Where("source_id IN ?", sourceIDs).Order("id ASC").Find(&snapshot.Citations).Error
		},
		func() error {
			if len(mediaIDs) == 0 {
				return nil
			}
			return db.Where("media_id IN ?", mediaIDs).Order("id ASC").Find(&snapshot.MediaLinks).Error
		},
	}
	for _, load := range dependents {
		if err := load(); err != nil {
			s.logError("gedcom.export", err)
			return gedcom.Snapshot{}, dbError(err)
		}
	}

	return snapshot, nil
}
