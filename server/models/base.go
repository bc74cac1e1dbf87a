package models

import (
	"time"

	"gorm.io/gorm"
)

type SortOrder string

const (
	SORT_NONE SortOrder = "none"
	SORT_ASC  SortOrder = "asc"
	SORT_DESC SortOrder = "desc"
)

type BaseModel struct {
	ID        uint      `json:"id,omitempty" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ParseSortOrder maps a 'sort' query param to a SortOrder.
// Unknown values fall back to SORT_NONE.
func ParseSortOrder(value string) SortOrder {
	switch SortOrder(value) {
	case SORT_ASC, SORT_DESC:
		return SortOrder(value)
	default:
		return SORT_NONE
	}
}

// Next returns the order a listing header should link to: none -> asc -> desc -> none
func (order SortOrder) Next() SortOrder {
	switch order {
	case SORT_NONE:
		return SORT_ASC
	case SORT_ASC:
		return SORT_DESC
	default:
		return SORT_NONE
	}
}

// ---------------------------------------------------------------------------------//
// Scopes
// --------------------------------------------------------------------------------//

// orderBy sorts on column, breaking ties (and SORT_NONE) by insertion order
func orderBy(column string, order SortOrder) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch order {
		case SORT_ASC:
			db = db.Order(column + " asc")
		case SORT_DESC:
			db = db.Order(column + " desc")
		}

		return db.Order("id asc")
	}
}
