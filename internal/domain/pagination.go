package domain

// Relay-style cursor pagination. The cursor is the node's UUIDv7 identifier;
// ordering is strictly ascending by id, which equals insertion order.

const (
	// DefaultPageSize applies when a listing request omits first.
	DefaultPageSize = 25
	// MaxPageSize is the hard ceiling on page size.
	MaxPageSize = 100
)

// PageParams carries cursor pagination input.
type PageParams struct {
	First int
	After string
}

// ClampedFirst returns First limited to [1, MaxPageSize], defaulting to
// DefaultPageSize when unset.
func (p PageParams) ClampedFirst() int {
	if p.First == 0 {
		return DefaultPageSize
	}
	if p.First < 1 {
		return 1
	}
	if p.First > MaxPageSize {
		return MaxPageSize
	}
	return p.First
}

// PageInfo describes whether more results follow the current page.
type PageInfo struct {
	HasNextPage bool    `json:"has_next_page"`
	EndCursor   *string `json:"end_cursor"`
}

// Edge pairs a node with its cursor.
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// Connection is one page of a listing plus the total matching count.
type Connection[T any] struct {
	Edges      []Edge[T] `json:"edges"`
	PageInfo   PageInfo  `json:"page_info"`
	TotalCount int64     `json:"total_count"`
}

// EmptyConnection returns a connection with no results.
func EmptyConnection[T any]() Connection[T] {
	return Connection[T]{Edges: []Edge[T]{}, PageInfo: PageInfo{}, TotalCount: 0}
}
