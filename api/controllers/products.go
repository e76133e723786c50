package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amirdashti/darchin-backend/api/controllers/dto"
	"github.com/amirdashti/darchin-backend/api/responses"
	"github.com/amirdashti/darchin-backend/api/validators"
	productsvc "github.com/amirdashti/darchin-backend/internal/products"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

type createCategoryRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

type updateCategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

type createProductRequest struct {
	Name        string    `json:"name" validate:"required,min=2,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Price       int       `json:"price" validate:"required,min=1"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,url"`
	Available   bool      `json:"available"`
}

type updateProductRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Price       *int       `json:"price" validate:"omitempty,min=1"`
	CategoryID  *uuid.UUID `json:"category_id"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	Available   *bool      `json:"available"`
}

func CategoriesList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		records, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewCategoryList(records))
	}
}

func CategoryCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CreateCategory(r.Context(), productsvc.CreateCategoryInput{
			Name:     body.Name,
			ImageURL: body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto.NewCategory(record))
	}
}

func CategoryUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryID"), "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateCategory(r.Context(), categoryID, body.Name, body.ImageURL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewCategory(record))
	}
}

func CategoryDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryID"), "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := productsvc.ProductFilters{
			OnlyAvailable: r.URL.Query().Get("available") == "true",
			Query:         strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:         limit,
			Offset:        offset,
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
			categoryID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category_id"))
				return
			}
			filters.CategoryID = &categoryID
		}

		records, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewProductList(records))
	}
}

func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewProduct(record))
	}
}

func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CreateProduct(r.Context(), productsvc.CreateProductInput{
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
			CategoryID:  body.CategoryID,
			ImageURL:    body.ImageURL,
			Available:   body.Available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto.NewProduct(record))
	}
}

func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateProduct(r.Context(), productID, productsvc.UpdateProductInput{
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
			CategoryID:  body.CategoryID,
			ImageURL:    body.ImageURL,
			Available:   body.Available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewProduct(record))
	}
}

func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
