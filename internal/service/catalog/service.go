package catalog

import (
	"context"
	"errors"
	"strings"

	"cvs-storefront/internal/domain"
	categoryrepo "cvs-storefront/internal/repository/category"
	productrepo "cvs-storefront/internal/repository/product"
)

// ErrCategoryNotEmpty rejects deleting a category that still has products.
var ErrCategoryNotEmpty = errors.New("category has existing items")

type Service struct {
	categories categoryRepo
	products   productRepo
}

type categoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) error
	Delete(ctx context.Context, id string) error
}

type productRepo interface {
	List(ctx context.Context, f productrepo.ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}

func New(categories categoryrepo.Repository, products productrepo.Repository) *Service {
	return &Service{categories: categories, products: products}
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("category name required")
	}
	return s.categories.Create(ctx, domain.Category{
		Name:        name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	})
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		existing.Name = name
	}
	if in.Description != "" {
		existing.Description = in.Description
	}
	if in.ImageURL != "" {
		existing.ImageURL = in.ImageURL
	}
	if err := s.categories.Update(ctx, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.categories.Delete(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, categoryID string, includeInactive bool) ([]domain.Product, error) {
	return s.products.List(ctx, productrepo.ListFilter{CategoryID: categoryID, IncludeInactive: includeInactive})
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

type ProductInput struct {
	CategoryID  string `json:"categoryId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
	Stock       int    `json:"stock"`
	Active      *bool  `json:"active"`
	ImageURL    string `json:"imageUrl"`
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("product name required")
	}
	if in.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return s.products.Create(ctx, domain.Product{
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		Active:      active,
		ImageURL:    in.ImageURL,
	})
}

type ProductUpdateInput struct {
	CategoryID  string  `json:"categoryId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
	Stock       *int    `json:"stock"`
	Active      *bool   `json:"active"`
	ImageURL    *string `json:"imageUrl"`
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductUpdateInput) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != "" {
		if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		existing.CategoryID = in.CategoryID
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		existing.Name = name
	}
	if in.Description != nil {
		existing.Description = *in.Description
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, errors.New("price must not be negative")
		}
		existing.PriceCents = *in.PriceCents
	}
	if in.Stock != nil {
		existing.Stock = *in.Stock
	}
	if in.Active != nil {
		existing.Active = *in.Active
	}
	if in.ImageURL != nil {
		existing.ImageURL = *in.ImageURL
	}
	if err := s.products.Update(ctx, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
