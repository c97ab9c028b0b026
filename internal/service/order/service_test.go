package order

import (
	"context"
	"io"
	"log"
	"testing"

	"cvs-storefront/internal/domain"
	orderrepo "cvs-storefront/internal/repository/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	order     *domain.Order
	getErr    error
	updateErr error
	listed    []domain.Order
	total     int
	lastFrom  domain.OrderStatus
	lastTo    domain.OrderStatus
	lastVer   int
	lastActor string
	updates   int
	lastFilt  orderrepo.Filter
}

func (m *mockRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	cp := *m.order
	return &cp, nil
}

func (m *mockRepo) GetByNumber(_ context.Context, _ string) (*domain.Order, error) {
	return m.GetByID(context.Background(), "")
}

func (m *mockRepo) List(_ context.Context, f orderrepo.Filter) ([]domain.Order, int, error) {
	m.lastFilt = f
	return m.listed, m.total, nil
}

func (m *mockRepo) ListWithLines(_ context.Context, f orderrepo.Filter) ([]domain.Order, error) {
	m.lastFilt = f
	return m.listed, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, _ string, from, to domain.OrderStatus, expectedVersion int, actor string) error {
	m.updates++
	m.lastFrom, m.lastTo, m.lastVer, m.lastActor = from, to, expectedVersion, actor
	if m.updateErr != nil {
		return m.updateErr
	}
	m.order.Status = to
	m.order.Version++
	return nil
}

func TestTransition_ValidStep(t *testing.T) {
	repo := &mockRepo{order: &domain.Order{ID: "o1", Status: domain.OrderStatusPlaced, Version: 1}}
	svc := &Service{repo: repo, logger: discardLogger()}

	updated, err := svc.Transition(context.Background(), "o1", "confirmed", "admin:amy")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)
	assert.Equal(t, domain.OrderStatusPlaced, repo.lastFrom)
	assert.Equal(t, 1, repo.lastVer)
	assert.Equal(t, "admin:amy", repo.lastActor)
}

func TestTransition_SkippingStepRejected(t *testing.T) {
	repo := &mockRepo{order: &domain.Order{ID: "o1", Status: domain.OrderStatusPlaced, Version: 1}}
	svc := &Service{repo: repo, logger: discardLogger()}

	// Placed must go through Confirmed before Shipped.
	_, err := svc.Transition(context.Background(), "o1", "shipped", "admin:amy")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Zero(t, repo.updates)
}

func TestTransition_TerminalStatesFrozen(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderStatusCompleted, domain.OrderStatusCancelled} {
		repo := &mockRepo{order: &domain.Order{ID: "o1", Status: status, Version: 4}}
		svc := &Service{repo: repo, logger: discardLogger()}
		_, err := svc.Transition(context.Background(), "o1", "confirmed", "admin:amy")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "from %s", status)
	}
}

func TestTransition_UnknownTarget(t *testing.T) {
	repo := &mockRepo{order: &domain.Order{ID: "o1", Status: domain.OrderStatusPlaced, Version: 1}}
	svc := &Service{repo: repo, logger: discardLogger()}
	_, err := svc.Transition(context.Background(), "o1", "delivered", "admin:amy")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_ConcurrentLoserSurfaces(t *testing.T) {
	repo := &mockRepo{
		order:     &domain.Order{ID: "o1", Status: domain.OrderStatusPlaced, Version: 1},
		updateErr: domain.ErrConcurrentModification,
	}
	svc := &Service{repo: repo, logger: discardLogger()}
	_, err := svc.Transition(context.Background(), "o1", "confirmed", "admin:amy")
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
}

func TestList_PaginationAndFilter(t *testing.T) {
	repo := &mockRepo{listed: make([]domain.Order, 20), total: 45}
	svc := &Service{repo: repo, logger: discardLogger()}

	res, err := svc.List(context.Background(), ListInput{
		Status:    "placed",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
		Query:     "mei",
		Page:      2,
		PerPage:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, res.Total)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 2, res.Page)

	require.NotNil(t, repo.lastFilt.Status)
	assert.Equal(t, domain.OrderStatusPlaced, *repo.lastFilt.Status)
	assert.Equal(t, "mei", repo.lastFilt.Query)
	assert.Equal(t, 20, repo.lastFilt.Limit)
	assert.Equal(t, 20, repo.lastFilt.Offset)
	require.NotNil(t, repo.lastFilt.To)
	assert.Equal(t, 23, repo.lastFilt.To.Hour())
}

func TestList_UnknownStatusRejected(t *testing.T) {
	svc := &Service{repo: &mockRepo{}, logger: discardLogger()}
	_, err := svc.List(context.Background(), ListInput{Status: "archived"})
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestList_ClampsPerPage(t *testing.T) {
	repo := &mockRepo{}
	svc := &Service{repo: repo, logger: discardLogger()}
	_, err := svc.List(context.Background(), ListInput{PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastFilt.Limit)
}

func TestListForExport_NoPagination(t *testing.T) {
	repo := &mockRepo{listed: []domain.Order{{ID: "o1"}}}
	svc := &Service{repo: repo, logger: discardLogger()}
	orders, err := svc.ListForExport(context.Background(), ListInput{Status: "confirmed"})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Zero(t, repo.lastFilt.Limit)
}

func discardLogger() *log.Logger { return log.New(io.Discard, "", 0) }
