package notify

import (
	"time"

	"github.com/sunxu/malladmin/wire"
)

// Category is the severity class of a notification
type Category string

// Category values
const (
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryInfo    Category = "info"
	CategoryError   Category = "error"
)

// Item is one entry of the notification center.
//
// The ID is generated locally when the push frame arrives; it is a ULID, so
// the lexicographic order of IDs is the creation order.
type Item struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	Read      bool
	Category  Category

	// File is set on export-completion notifications
	File *wire.ExportExcelData
}
