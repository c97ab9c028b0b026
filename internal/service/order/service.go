package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"cvs-storefront/internal/domain"
	orderrepo "cvs-storefront/internal/repository/order"
)

// ErrUnknownStatus rejects filter values outside the closed status set.
var ErrUnknownStatus = errors.New("unknown status")

type Service struct {
	repo   ordersRepo
	logger *log.Logger
}

type ordersRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context, f orderrepo.Filter) ([]domain.Order, int, error)
	ListWithLines(ctx context.Context, f orderrepo.Filter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, expectedVersion int, actor string) error
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByNumber serves the customer order-success and tracking views.
func (s *Service) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return s.repo.GetByNumber(ctx, number)
}

// Transition is the only way an order's status changes. The target must
// be reachable per the transition table; the version check makes the
// loser of a concurrent admin race fail instead of overwriting.
func (s *Service) Transition(ctx context.Context, orderID, targetRaw, actor string) (*domain.Order, error) {
	target, ok := domain.ParseOrderStatus(targetRaw)
	if !ok {
		return nil, domain.ErrInvalidTransition
	}
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(target) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, orderID, current.Status, target, current.Version, actor); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, orderID)
}

// ListInput mirrors the admin console's query parameters.
type ListInput struct {
	Status    string
	StartDate string
	EndDate   string
	Query     string
	Page      int
	PerPage   int
}

// ListResult is one page of orders plus pagination bookkeeping.
type ListResult struct {
	Orders  []domain.Order `json:"orders"`
	Page    int            `json:"page"`
	PerPage int            `json:"perPage"`
	Total   int            `json:"total"`
	Pages   int            `json:"pages"`
}

// List filters by status, date range and free text, newest first.
func (s *Service) List(ctx context.Context, in ListInput) (*ListResult, error) {
	f, err := buildFilter(in)
	if err != nil {
		return nil, err
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	perPage := in.PerPage
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	f.Limit = perPage
	f.Offset = (page - 1) * perPage

	orders, total, err := s.repo.List(ctx, *f)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	pages := (total + perPage - 1) / perPage
	return &ListResult{Orders: orders, Page: page, PerPage: perPage, Total: total, Pages: pages}, nil
}

// ListForExport returns the full filtered set with line items.
func (s *Service) ListForExport(ctx context.Context, in ListInput) ([]domain.Order, error) {
	f, err := buildFilter(in)
	if err != nil {
		return nil, err
	}
	return s.repo.ListWithLines(ctx, *f)
}

func buildFilter(in ListInput) (*orderrepo.Filter, error) {
	var f orderrepo.Filter
	if in.Status != "" {
		status, ok := domain.ParseOrderStatus(in.Status)
		if !ok {
			return nil, ErrUnknownStatus
		}
		f.Status = &status
	}
	if in.StartDate != "" {
		t, err := time.Parse("2006-01-02", in.StartDate)
		if err != nil {
			return nil, err
		}
		f.From = &t
	}
	if in.EndDate != "" {
		t, err := time.Parse("2006-01-02", in.EndDate)
		if err != nil {
			return nil, err
		}
		// Include the whole end day.
		end := t.Add(24*time.Hour - time.Second)
		f.To = &end
	}
	f.Query = in.Query
	return &f, nil
}
