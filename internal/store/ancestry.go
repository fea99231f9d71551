package store

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// The closure table stores every (ancestor, descendant, depth) pair of the
// parent-of DAG at shortest-path depth, plus a depth-0 self-row per person.
// Maintenance happens inside the same transaction as the membership change
// that triggered it; the DAG guard here is the single enforcement point
// against cycles.

// Ancestors returns the proper ancestors of a person ordered by ascending
// depth, then ancestor id. Soft-deleted ancestors are filtered out.
func (s *Store) Ancestors(ctx context.Context, personID string, maxDepth *int) ([]domain.PersonAncestry, error) {
	if _, err := s.GetPerson(ctx, personID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Model(&domain.PersonAncestry{}).
		Joins("JOIN persons ON persons.id = person_ancestry.ancestor_id AND persons.deleted_at IS NULL").
		Where("person_ancestry.descendant_id = ? AND person_ancestry.depth > 0", personID)
	if maxDepth != nil {
		query = query.Where("person_ancestry.depth <= ?", *maxDepth)
	}

	var rows []domain.PersonAncestry
	if err := query.Order("person_ancestry.depth ASC, person_ancestry.ancestor_id ASC").Find(&rows).Error; err != nil {
		s.logError("ancestry.ancestors", err)
		return nil, dbError(err)
	}
	return rows, nil
}

// Descendants is the dual of Ancestors, ordered by ascending depth, then
// descendant id.
func (s *Store) Descendants(ctx context.Context, personID string, maxDepth *int) ([]domain.PersonAncestry, error) {
	if _, err := s.GetPerson(ctx, personID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Model(&domain.PersonAncestry{}).
		Joins("JOIN persons ON persons.id = person_ancestry.descendant_id AND persons.deleted_at IS NULL").
		Where("person_ancestry.ancestor_id = ? AND person_ancestry.depth > 0", personID)
	if maxDepth != nil {
		query = query.Where("person_ancestry.depth <= ?", *maxDepth)
	}

	var rows []domain.PersonAncestry
	if err := query.Order("person_ancestry.depth ASC, person_ancestry.descendant_id ASC").Find(&rows).Error; err != nil {
		s.logError("ancestry.descendants", err)
		return nil, dbError(err)
	}
	return rows, nil
}

// linkParentChild extends the closure for a new parent-of edge. For every
// ancestor-or-self row (a, parent, k) and descendant-or-self row
// (child, d, j) it upserts (a, d, k+j+1), keeping the minimum depth when a
// row already exists. The cycle guard runs before any write.
func (s *Store) linkParentChild(tx *gorm.DB, treeID, parentID, childID string) error {
	if parentID == childID {
		return domain.ValidationError("cycle: cannot add parent that is already a descendant")
	}

	var ancestorRows []domain.PersonAncestry
	if err := tx.Where("descendant_id = ?", parentID).Find(&ancestorRows).Error; err != nil {
		return err
	}
	var descendantRows []domain.PersonAncestry
	if err := tx.Where("ancestor_id = ?", childID).Find(&descendantRows).Error; err != nil {
		return err
	}

	ancestorIDs := make([]string, 0, len(ancestorRows))
	for _, row := range ancestorRows {
		ancestorIDs = append(ancestorIDs, row.AncestorID)
	}
	descendantIDs := make([]string, 0, len(descendantRows))
	for _, row := range descendantRows {
		descendantIDs = append(descendantIDs, row.DescendantID)
	}

	// Cycle guard: a reverse row means some descendant of the child already
	// sits above some ancestor of the parent; the self-rows make this catch
	// direct reversals too.
	var reverseCount int64
	err := tx.Model(&domain.PersonAncestry{}).
		Where("ancestor_id IN ? AND descendant_id IN ?", descendantIDs, ancestorIDs).
		Count(&reverseCount).Error
	if err != nil {
		return err
	}
	if reverseCount > 0 {
		return domain.ValidationError("cycle: cannot add parent that is already a descendant")
	}

	var existingRows []domain.PersonAncestry
	err = tx.Where("ancestor_id IN ? AND descendant_id IN ?", ancestorIDs, descendantIDs).
		Find(&existingRows).Error
	if err != nil {
		return err
	}
	existing := make(map[[2]string]domain.PersonAncestry, len(existingRows))
	for _, row := range existingRows {
		existing[[2]string{row.AncestorID, row.DescendantID}] = row
	}

	var inserts []domain.PersonAncestry
	for _, ancestorRow := range ancestorRows {
		for _, descendantRow := range descendantRows {
			depth := ancestorRow.Depth + descendantRow.Depth + 1
			key := [2]string{ancestorRow.AncestorID, descendantRow.DescendantID}
			if current, ok := existing[key]; ok {
				if depth < current.Depth {
					err := tx.Model(&domain.PersonAncestry{}).
						Where("id = ?", current.ID).
						Update("depth", depth).Error
					if err != nil {
						return err
					}
				}
				continue
			}
			id, err := s.newID()
			if err != nil {
				return err
			}
			inserts = append(inserts, domain.PersonAncestry{
				ID:           id,
				TreeID:       treeID,
				AncestorID:   ancestorRow.AncestorID,
				DescendantID: descendantRow.DescendantID,
				Depth:        depth,
			})
		}
	}
	if len(inserts) > 0 {
		if err := tx.CreateInBatches(inserts, 100).Error; err != nil {
			return err
		}
	}
	return nil
}

// rebuildSubtree re-materializes the closure for a person and all their
// descendants after a parent edge was removed. Rows with a descendant in the
// subtree are dropped (self-rows stay) and recomputed from the surviving
// family memberships by fixpoint relaxation.
func (s *Store) rebuildSubtree(tx *gorm.DB, treeID, rootID string) error {
	var subtreeRows []domain.PersonAncestry
	if err := tx.Where("ancestor_id = ?", rootID).Find(&subtreeRows).Error; err != nil {
		return err
	}
	members := make([]string, 0, len(subtreeRows))
	inSubtree := make(map[string]bool, len(subtreeRows))
	for _, row := range subtreeRows {
		if !inSubtree[row.DescendantID] {
			inSubtree[row.DescendantID] = true
			members = append(members, row.DescendantID)
		}
	}
	if len(members) == 0 {
		return nil
	}

	err := tx.Where("descendant_id IN ? AND depth > 0", members).
		Delete(&domain.PersonAncestry{}).Error
	if err != nil {
		return err
	}

	// Surviving parent edges into the subtree.
	type parentEdge struct {
		ParentID string
		ChildID  string
	}
	var childRows []domain.FamilyChild
	if err := tx.Where("person_id IN ?", members).Find(&childRows).Error; err != nil {
		return err
	}
	familyIDs := make([]string, 0, len(childRows))
	for _, row := range childRows {
		familyIDs = append(familyIDs, row.FamilyID)
	}
	var edges []parentEdge
	externalParents := make(map[string]bool)
	if len(familyIDs) > 0 {
		var spouseRows []domain.FamilySpouse
		if err := tx.Where("family_id IN ?", familyIDs).Find(&spouseRows).Error; err != nil {
			return err
		}
		spousesByFamily := make(map[string][]string)
		for _, row := range spouseRows {
			spousesByFamily[row.FamilyID] = append(spousesByFamily[row.FamilyID], row.PersonID)
		}
		for _, childRow := range childRows {
			for _, parentID := range spousesByFamily[childRow.FamilyID] {
				edges = append(edges, parentEdge{ParentID: parentID, ChildID: childRow.PersonID})
				if !inSubtree[parentID] {
					externalParents[parentID] = true
				}
			}
		}
	}

	// Ancestor-or-self rows of parents outside the subtree are still valid
	// in the table; load them once.
	externalAncestors := make(map[string]map[string]int)
	if len(externalParents) > 0 {
		ids := make([]string, 0, len(externalParents))
		for id := range externalParents {
			ids = append(ids, id)
		}
		var rows []domain.PersonAncestry
		if err := tx.Where("descendant_id IN ?", ids).Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			depths, ok := externalAncestors[row.DescendantID]
			if !ok {
				depths = make(map[string]int)
				externalAncestors[row.DescendantID] = depths
			}
			depths[row.AncestorID] = row.Depth
		}
	}

	// Relax edges until no depth improves. The member count bounds the
	// longest chain, so the loop terminates.
	ancestorsOf := make(map[string]map[string]int, len(members))
	for _, member := range members {
		ancestorsOf[member] = make(map[string]int)
	}
	relax := func(depths map[string]int, ancestorID string, depth int) bool {
		current, ok := depths[ancestorID]
		if ok && current <= depth {
			return false
		}
		depths[ancestorID] = depth
		return true
	}
	for pass := 0; pass <= len(members); pass++ {
		changed := false
		for _, edge := range edges {
			target := ancestorsOf[edge.ChildID]
			if relax(target, edge.ParentID, 1) {
				changed = true
			}
			var parentAncestors map[string]int
			if inSubtree[edge.ParentID] {
				parentAncestors = ancestorsOf[edge.ParentID]
			} else {
				parentAncestors = externalAncestors[edge.ParentID]
			}
			for ancestorID, depth := range parentAncestors {
				if ancestorID == edge.ParentID {
					continue // self-row already covered by the direct edge
				}
				if relax(target, ancestorID, depth+1) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	var inserts []domain.PersonAncestry
	for _, member := range members {
		depths := ancestorsOf[member]
		ancestorIDs := make([]string, 0, len(depths))
		for ancestorID := range depths {
			ancestorIDs = append(ancestorIDs, ancestorID)
		}
		sort.Strings(ancestorIDs)
		for _, ancestorID := range ancestorIDs {
			id, err := s.newID()
			if err != nil {
				return err
			}
			inserts = append(inserts, domain.PersonAncestry{
				ID:           id,
				TreeID:       treeID,
				AncestorID:   ancestorID,
				DescendantID: member,
				Depth:        depths[ancestorID],
			})
		}
	}
	if len(inserts) > 0 {
		if err := tx.CreateInBatches(inserts, 100).Error; err != nil {
			return err
		}
	}
	return nil
}
