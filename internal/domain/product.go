package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the closed set of states a product can be in. No
// transition graph is enforced: any status may move to any other status,
// the audit log is what records the history.
type ProductStatus string

const (
	StatusDraft        ProductStatus = "DRAFT"
	StatusActive       ProductStatus = "ACTIVE"
	StatusOutOfStock   ProductStatus = "OUT_OF_STOCK"
	StatusDiscontinued ProductStatus = "DISCONTINUED"
)

// ParseProductStatus validates a status value at the boundary.
func ParseProductStatus(s string) (ProductStatus, error) {
	switch ProductStatus(s) {
	case StatusDraft, StatusActive, StatusOutOfStock, StatusDiscontinued:
		return ProductStatus(s), nil
	}
	return "", fmt.Errorf("unknown product status %q: %w", s, ErrInvalidArgument)
}

// Product represents a product in the catalog. Images and status logs are
// stored separately and referenced by product ID, never embedded.
type Product struct {
	ID         uuid.UUID     `json:"id" db:"id"`
	Name       string        `json:"name" db:"name"`
	Price      float64       `json:"price" db:"price"`
	Status     ProductStatus `json:"status" db:"status"`
	CategoryID uuid.UUID     `json:"category_id" db:"category_id"`
	Detail     string        `json:"detail" db:"detail"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// ProductImage is fully owned by its product. On every update the whole
// image set for the product is replaced by the set supplied in the request.
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
}

// ProductStatusLog is one immutable audit entry. ProductID is a soft
// reference: entries outlive the product they describe.
type ProductStatusLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ProductID uuid.UUID  `json:"product_id" db:"product_id"`
	UserID    *uuid.UUID `json:"user_id" db:"user_id"`
	Status    string     `json:"status" db:"status"`
	LoggedAt  time.Time  `json:"logged_at" db:"logged_at"`
}

// Audit labels for lifecycle events that are not status values themselves.
const (
	LogCreated = "CREATED"
	LogUpdated = "UPDATED"
	LogDeleted = "DELETED"
)
