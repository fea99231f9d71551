package domain

import (
	"time"

	"gorm.io/gorm"
)

// All identifiers are UUIDv7 strings. UUIDv7 embeds a millisecond timestamp
// in the high bits, so ascending lexicographic order matches insertion
// order; the cursor pagination protocol depends on this.
//
// created_at and updated_at are set from the store's injected clock, hence
// the disabled gorm auto-timestamps.

// Tree is the tenant root. Every other entity belongs to exactly one tree.
type Tree struct {
	ID          string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name        string         `gorm:"column:name;size:255;not null" json:"name"`
	Description *string        `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`
}

func (Tree) TableName() string { return "trees" }

// Person is an individual in a tree. Names live in PersonName rows.
type Person struct {
	ID        string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	TreeID    string         `gorm:"column:tree_id;size:36;not null;index:idx_persons_tree" json:"tree_id"`
	Sex       Sex            `gorm:"column:sex;size:16;not null" json:"sex"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`
}

func (Person) TableName() string { return "persons" }

// PersonName is one recorded name of a person. Hard-deleted with its owner.
type PersonName struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	PersonID   string    `gorm:"column:person_id;size:36;not null;index:idx_person_names_person" json:"person_id"`
	NameType   NameType  `gorm:"column:name_type;size:32;not null" json:"name_type"`
	GivenNames *string   `gorm:"column:given_names;size:255" json:"given_names"`
	Surname    *string   `gorm:"column:surname;size:255" json:"surname"`
	Prefix     *string   `gorm:"column:prefix;size:64" json:"prefix"`
	Suffix     *string   `gorm:"column:suffix;size:64" json:"suffix"`
	Nickname   *string   `gorm:"column:nickname;size:255" json:"nickname"`
	IsPrimary  bool      `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}

func (PersonName) TableName() string { return "person_names" }

// Family is a union; spouses and children live in the membership tables.
type Family struct {
	ID        string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	TreeID    string         `gorm:"column:tree_id;size:36;not null;index:idx_families_tree" json:"tree_id"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`
}

func (Family) TableName() string { return "families" }

// FamilySpouse links a person into a family as a parent figure.
type FamilySpouse struct {
	ID        string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	FamilyID  string     `gorm:"column:family_id;size:36;not null;index:idx_family_spouses_family;uniqueIndex:uq_family_spouse,priority:1" json:"family_id"`
	PersonID  string     `gorm:"column:person_id;size:36;not null;index:idx_family_spouses_person;uniqueIndex:uq_family_spouse,priority:2" json:"person_id"`
	Role      SpouseRole `gorm:"column:role;size:16;not null" json:"role"`
	SortOrder int        `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

func (FamilySpouse) TableName() string { return "family_spouses" }

// FamilyChild links a person into a family as a child.
type FamilyChild struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	FamilyID  string    `gorm:"column:family_id;size:36;not null;index:idx_family_children_family;uniqueIndex:uq_family_child,priority:1" json:"family_id"`
	PersonID  string    `gorm:"column:person_id;size:36;not null;index:idx_family_children_person;uniqueIndex:uq_family_child,priority:2" json:"person_id"`
	ChildType ChildType `gorm:"column:child_type;size:16;not null" json:"child_type"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

func (FamilyChild) TableName() string { return "family_children" }

// Event is a vital or family event. Exactly one of PersonID and FamilyID is
// set. DateValue keeps the verbatim GEDCOM date phrase; DateSort is a
// best-effort normalized date used only for ordering.
type Event struct {
	ID          string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	TreeID      string         `gorm:"column:tree_id;size:36;not null;index:idx_events_tree" json:"tree_id"`
	EventType   EventType      `gorm:"column:event_type;size:32;not null" json:"event_type"`
	DateValue   *string        `gorm:"column:date_value;size:255" json:"date_value"`
	DateSort    *time.Time     `gorm:"column:date_sort" json:"date_sort"`
	PlaceID     *string        `gorm:"column:place_id;size:36;index:idx_events_place" json:"place_id"`
	PersonID    *string        `gorm:"column:person_id;size:36;index:idx_events_person" json:"person_id"`
	FamilyID    *string        `gorm:"column:family_id;size:36;index:idx_events_family" json:"family_id"`
	Description *string        `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`
}

func (Event) TableName() string { return "events" }

// Place is a named location, deduplicated by name within a tree on import.
type Place struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	TreeID    string    `gorm:"column:tree_id;size:36;not null;index:idx_places_tree" json:"tree_id"`
	Name      string    `gorm:"column:name;size:512;not null" json:"name"`
	Latitude  *float64  `gorm:"column:latitude" json:"latitude"`
	Longitude *float64  `gorm:"column:longitude" json:"longitude"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}

func (Place) TableName() string { return "places" }

// Source is a documentary source for citations.
type Source struct {
	ID             string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	TreeID         string         `gorm:"column:tree_id;size:36;not null;index:idx_sources_tree" json:"tree_id"`
	Title          string         `gorm:"column:title;size:512;not null" json:"title"`
	Author         *string        `gorm:"column:author;size:255" json:"author"`
	Publisher      *string        `gorm:"column:publisher;size:255" json:"publisher"`
	Abbreviation   *string        `gorm:"column:abbreviation;size:255" json:"abbreviation"`
	RepositoryName *string        `gorm:"column:repository_name;size:255" json:"repository_name"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`
}

func (Source) TableName() string { return "sources" }

// Citation ties a source to exactly one of person, event or family.
type Citation struct {
	ID         string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	SourceID   string     `gorm:"column:source_id;size:36;not null;index:idx_citations_source" json:"source_id"`
	PersonID   *string    `gorm:"column:person_id;size:36;index:idx_citations_person" json:"person_id"`
	EventID    *string    `gorm:"column:event_id;size:36;index:idx_citations_event" json:"event_id"`
	FamilyID   *string    `gorm:"column:family_id;size:36;index:idx_citations_family" json:"family_id"`
	Page       *string    `gorm:"column:page;size:255" json:"page"`
	Confidence Confidence `gorm:"column:confidence;size:16;not null" json:"confidence"`
	Text       *string    `gorm:"column:text;type:text" json:"text"`
	CreatedAt  time.Time  `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}

func (Citation) TableName() string { return "citations" }

// Media records metadata about an external file; the blob itself is not
// stored, only an opaque path.
type Media struct {
	ID          string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	TreeID      string         `gorm:"column:tree_id;size:36;not null;index:idx_media_tree" json:"tree_id"`
	FileName    string         `gorm:"column:file_name;size:255;not null" json:"file_name"`
	MimeType    string         `gorm:"column:mime_type;size:128;not null" json:"mime_type"`
	FilePath    string         `gorm:"column:file_path;size:1024;not null" json:"file_path"`
	FileSize    int64          `gorm:"column:file_size;not null;default:0" json:"file_size"`
	Title       *string        `gorm:"column:title;size:255" json:"title"`
	Description *string        `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`
}

func (Media) TableName() string { return "media" }

// MediaLink attaches a media record to at most one target entity. A link
// with no target is allowed and keeps the media free-floating.
type MediaLink struct {
	ID        string  `gorm:"column:id;primaryKey;size:36" json:"id"`
	MediaID   string  `gorm:"column:media_id;size:36;not null;index:idx_media_links_media" json:"media_id"`
	PersonID  *string `gorm:"column:person_id;size:36;index:idx_media_links_person" json:"person_id"`
	EventID   *string `gorm:"column:event_id;size:36;index:idx_media_links_event" json:"event_id"`
	SourceID  *string `gorm:"column:source_id;size:36;index:idx_media_links_source" json:"source_id"`
	FamilyID  *string `gorm:"column:family_id;size:36;index:idx_media_links_family" json:"family_id"`
	SortOrder int     `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

func (MediaLink) TableName() string { return "media_links" }

// Note is free text attached to exactly one target entity.
type Note struct {
	ID        string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	TreeID    string         `gorm:"column:tree_id;size:36;not null;index:idx_notes_tree" json:"tree_id"`
	Text      string         `gorm:"column:text;type:text;not null" json:"text"`
	PersonID  *string        `gorm:"column:person_id;size:36;index:idx_notes_person" json:"person_id"`
	EventID   *string        `gorm:"column:event_id;size:36;index:idx_notes_event" json:"event_id"`
	FamilyID  *string        `gorm:"column:family_id;size:36;index:idx_notes_family" json:"family_id"`
	SourceID  *string        `gorm:"column:source_id;size:36;index:idx_notes_source" json:"source_id"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at"`
}

func (Note) TableName() string { return "notes" }

// PersonAncestry is one row of the transitive-closure table. Depth zero is
// the self-row; depth k >= 1 records the shortest parent chain between
// ancestor and descendant.
type PersonAncestry struct {
	ID           string `gorm:"column:id;primaryKey;size:36" json:"id"`
	TreeID       string `gorm:"column:tree_id;size:36;not null;index:idx_person_ancestry_tree" json:"tree_id"`
	AncestorID   string `gorm:"column:ancestor_id;size:36;not null;uniqueIndex:uq_ancestor_descendant,priority:1;index:idx_person_ancestry_ancestor_depth,priority:1" json:"ancestor_id"`
	DescendantID string `gorm:"column:descendant_id;size:36;not null;uniqueIndex:uq_ancestor_descendant,priority:2;index:idx_person_ancestry_descendant_depth,priority:1" json:"descendant_id"`
	Depth        int    `gorm:"column:depth;not null;index:idx_person_ancestry_ancestor_depth,priority:2;index:idx_person_ancestry_descendant_depth,priority:2" json:"depth"`
}

func (PersonAncestry) TableName() string { return "person_ancestry" }
