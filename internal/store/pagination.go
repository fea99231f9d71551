package store

import (
	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// paginate executes the cursor pagination protocol over a filtered query.
//
// newQuery must return a fresh query with every filter applied but no
// ordering or limit; it is invoked twice (count, then page fetch) so the two
// statements never share builder state. total_count reflects all matching
// rows before the cursor is applied. The page fetch asks for one surplus row
// to detect has_next_page.
func paginate[M any](newQuery func() *gorm.DB, params domain.PageParams, idOf func(M) string) (domain.Connection[M], error) {
	limit := params.ClampedFirst()
	after, err := cursorID(params.After)
	if err != nil {
		return domain.EmptyConnection[M](), err
	}

	var total int64
	if err := newQuery().Count(&total).Error; err != nil {
		return domain.EmptyConnection[M](), dbError(err)
	}

	query := newQuery().Order("id ASC")
	if after != "" {
		query = query.Where("id > ?", after)
	}

	var rows []M
	if err := query.Limit(limit + 1).Find(&rows).Error; err != nil {
		return domain.EmptyConnection[M](), dbError(err)
	}

	hasNextPage := len(rows) > limit
	if hasNextPage {
		rows = rows[:limit]
	}

	edges := make([]domain.Edge[M], 0, len(rows))
	for _, row := range rows {
		edges = append(edges, domain.Edge[M]{Cursor: idOf(row), Node: row})
	}

	var endCursor *string
	if len(edges) > 0 {
		cursor := edges[len(edges)-1].Cursor
		endCursor = &cursor
	}

	return domain.Connection[M]{
		Edges:      edges,
		PageInfo:   domain.PageInfo{HasNextPage: hasNextPage, EndCursor: endCursor},
		TotalCount: total,
	}, nil
}
