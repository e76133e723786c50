package products

import "github.com/google/uuid"

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	CategoryID    *uuid.UUID
	OnlyAvailable bool
	Query         string
	Limit         int
	Offset        int
}

// CreateCategoryInput carries the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name     string
	ImageURL *string
}

// CreateProductInput carries the fields accepted when creating a product.
type CreateProductInput struct {
	Name        string
	Description *string
	Price       int
	CategoryID  uuid.UUID
	ImageURL    *string
	Available   bool
}

// UpdateProductInput carries the optional fields accepted on update.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *int
	CategoryID  *uuid.UUID
	ImageURL    *string
	Available   *bool
}
