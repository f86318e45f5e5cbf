package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a product category. Products reference categories by
// ID; deleting a category that still has products is rejected.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
