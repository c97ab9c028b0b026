package catalog

import (
	"context"
	"errors"
	"testing"

	"cvs-storefront/internal/domain"
	productrepo "cvs-storefront/internal/repository/product"
)

type stubCategoryRepo struct {
	categories map[string]*domain.Category
	updated    *domain.Category
	deleted    []string
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: map[string]*domain.Category{}}
}

func (s *stubCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	if c, ok := s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryRepo) Create(_ context.Context, c domain.Category) (*domain.Category, error) {
	c.ID = "cat-new"
	s.categories[c.ID] = &c
	return &c, nil
}

func (s *stubCategoryRepo) Update(_ context.Context, c domain.Category) error {
	s.updated = &c
	s.categories[c.ID] = &c
	return nil
}

func (s *stubCategoryRepo) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	delete(s.categories, id)
	return nil
}

type stubProductRepo struct {
	products   map[string]*domain.Product
	counts     map[string]int
	updated    *domain.Product
	lastFilter productrepo.ListFilter
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: map[string]*domain.Product{}, counts: map[string]int{}}
}

func (s *stubProductRepo) List(_ context.Context, f productrepo.ListFilter) ([]domain.Product, error) {
	s.lastFilter = f
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = "prod-new"
	s.products[p.ID] = &p
	return &p, nil
}

func (s *stubProductRepo) Update(_ context.Context, p domain.Product) error {
	s.updated = &p
	s.products[p.ID] = &p
	return nil
}

func (s *stubProductRepo) Delete(_ context.Context, id string) error {
	delete(s.products, id)
	return nil
}

func (s *stubProductRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	return s.counts[categoryID], nil
}

func newTestService() (*Service, *stubCategoryRepo, *stubProductRepo) {
	categories := newStubCategoryRepo()
	products := newStubProductRepo()
	return &Service{categories: categories, products: products}, categories, products
}

func TestCreateCategory_TrimsName(t *testing.T) {
	svc, _, _ := newTestService()

	c, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "  Tea  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Tea" {
		t.Fatalf("expected trimmed name, got %q", c.Name)
	}
}

func TestCreateCategory_BlankNameRejected(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "   "}); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestDeleteCategory_BlockedWhenNotEmpty(t *testing.T) {
	svc, categories, products := newTestService()
	categories.categories["cat-1"] = &domain.Category{ID: "cat-1", Name: "Tea"}
	products.counts["cat-1"] = 3

	err := svc.DeleteCategory(context.Background(), "cat-1")
	if !errors.Is(err, ErrCategoryNotEmpty) {
		t.Fatalf("expected ErrCategoryNotEmpty, got %v", err)
	}
	if len(categories.deleted) != 0 {
		t.Fatalf("category should not have been deleted")
	}
}

func TestDeleteCategory_EmptyIsRemoved(t *testing.T) {
	svc, categories, _ := newTestService()
	categories.categories["cat-1"] = &domain.Category{ID: "cat-1", Name: "Tea"}

	if err := svc.DeleteCategory(context.Background(), "cat-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories.deleted) != 1 || categories.deleted[0] != "cat-1" {
		t.Fatalf("expected cat-1 deleted, got %v", categories.deleted)
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), ProductInput{CategoryID: "missing", Name: "Oolong"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateProduct_DefaultsActive(t *testing.T) {
	svc, categories, _ := newTestService()
	categories.categories["cat-1"] = &domain.Category{ID: "cat-1", Name: "Tea"}

	p, err := svc.CreateProduct(context.Background(), ProductInput{CategoryID: "cat-1", Name: "Oolong", PriceCents: 45000, Stock: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Active {
		t.Fatalf("expected new product to be active")
	}
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	svc, categories, _ := newTestService()
	categories.categories["cat-1"] = &domain.Category{ID: "cat-1", Name: "Tea"}

	if _, err := svc.CreateProduct(context.Background(), ProductInput{CategoryID: "cat-1", Name: "Oolong", PriceCents: -1}); err == nil {
		t.Fatalf("expected error for negative price")
	}
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	svc, _, products := newTestService()
	products.products["prod-1"] = &domain.Product{
		ID: "prod-1", CategoryID: "cat-1", Name: "Oolong",
		Description: "original", PriceCents: 45000, Stock: 5, Active: true,
	}

	newPrice := int64(39000)
	inactive := false
	p, err := svc.UpdateProduct(context.Background(), "prod-1", ProductUpdateInput{
		PriceCents: &newPrice,
		Active:     &inactive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PriceCents != 39000 || p.Active {
		t.Fatalf("expected updated price and inactive, got %+v", p)
	}
	if p.Name != "Oolong" || p.Description != "original" || p.Stock != 5 {
		t.Fatalf("untouched fields changed: %+v", p)
	}
}

func TestListProducts_FilterForwarded(t *testing.T) {
	svc, _, products := newTestService()

	if _, err := svc.ListProducts(context.Background(), "cat-1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products.lastFilter.CategoryID != "cat-1" || !products.lastFilter.IncludeInactive {
		t.Fatalf("filter not forwarded: %+v", products.lastFilter)
	}
}
