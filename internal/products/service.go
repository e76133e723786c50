package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Service defines catalog operations exposed to the API layer.
type Service interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name *string, imageURL *string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	category := &models.Category{
		Name:     name,
		ImageURL: input.ImageURL,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, name *string, imageURL *string) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	updates := map[string]any{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		updates["name"] = trimmed
	}
	if imageURL != nil {
		updates["image_url"] = *imageURL
	}

	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return nil, mapNotFound(err, "category not found")
	}
	if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}

	updated, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reloading category: %w", err)
	}
	return updated, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return mapNotFound(err, "category not found")
	}
	return s.repo.DeleteCategory(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, filters)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "product not found")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		return nil, mapNotFound(err, "category not found")
	}

	product := &models.Product{
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		Available:   input.Available,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = trimmed
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			return nil, mapNotFound(err, "category not found")
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}

	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		return nil, mapNotFound(err, "product not found")
	}
	if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	updated, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reloading product: %w", err)
	}
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		return mapNotFound(err, "product not found")
	}
	return s.repo.DeleteProduct(ctx, id)
}

func mapNotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	}
	return err
}
