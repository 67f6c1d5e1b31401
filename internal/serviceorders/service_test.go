package serviceorders

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petra-erp/petra-erp/internal/logistics"
	"github.com/petra-erp/petra-erp/internal/shared"
)

type fakeRepo struct {
	orders map[int64]ServiceOrder
	nextID int64
	writes int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[int64]ServiceOrder), nextID: 1}
}

func (f *fakeRepo) List(_ context.Context, filters ListFilters) ([]ServiceOrder, error) {
	var out []ServiceOrder
	for _, o := range f.orders {
		if filters.ProductionStatus != nil && o.ProductionStatus != *filters.ProductionStatus {
			continue
		}
		if filters.LogisticsStatus != nil && o.LogisticsStatus != *filters.LogisticsStatus {
			continue
		}
		if filters.Priority != nil && o.Priority != *filters.Priority {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (ServiceOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return ServiceOrder{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) Create(_ context.Context, order ServiceOrder) (ServiceOrder, error) {
	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = order
	f.writes++
	return order, nil
}

func (f *fakeRepo) SaveFinalization(_ context.Context, order ServiceOrder) error {
	stored, ok := f.orders[order.ID]
	if !ok {
		return ErrNotFound
	}
	stored.FinalizationType = order.FinalizationType
	stored.ProductionStatus = order.ProductionStatus
	stored.DeliveryConfirmed = order.DeliveryConfirmed
	stored.InstallationConfirmed = order.InstallationConfirmed
	f.orders[order.ID] = stored
	f.writes++
	return nil
}

func (f *fakeRepo) UpdateProductionStatus(_ context.Context, id int64, status ProductionStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.ProductionStatus = status
	f.orders[id] = o
	f.writes++
	return nil
}

func (f *fakeRepo) UpdateChecklist(_ context.Context, id int64, checklist []ChecklistItem) error {
	o, ok := f.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Checklist = checklist
	f.orders[id] = o
	f.writes++
	return nil
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, shared.NewOrderLocker(client, time.Minute), nil, nil, nil)
}

func seedOrder(repo *fakeRepo, o ServiceOrder) int64 {
	o.ID = repo.nextID
	repo.nextID++
	repo.orders[o.ID] = o
	return o.ID
}

func TestCreateDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		ClientName: "João da Silva",
		Items: []ItemInput{
			{Description: "Bancada cozinha", Quantity: 2, UnitPrice: 1500},
			{Description: "Soleira", Quantity: 4, UnitPrice: 120},
		},
		Checklist: []string{"Conferir peças", "Carregar ventosas"},
	})
	require.NoError(t, err)

	assert.Equal(t, ProductionCutting, order.ProductionStatus)
	assert.Equal(t, logistics.LogisticsAwaitingScheduling, order.LogisticsStatus)
	assert.Equal(t, PriorityNormal, order.Priority)
	assert.InDelta(t, 3480.0, order.TotalValue, 0.001)
	require.Len(t, order.Checklist, 2)
	assert.NotEmpty(t, order.Checklist[0].ID)
	assert.False(t, order.Checklist[0].Checked)
}

func TestCreateRequiresItems(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), CreateOrderRequest{ClientName: "João"})
	require.Error(t, err)
	assert.Zero(t, repo.writes)
}

func TestSetFinalizationTypePersists(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	id := seedOrder(repo, ServiceOrder{ProductionStatus: ProductionFinishing})

	order, err := svc.SetFinalizationType(context.Background(), id, FinalizationDeliveryInstallation)
	require.NoError(t, err)
	assert.Equal(t, ProductionCompleted, order.ProductionStatus)
	assert.Equal(t, FinalizationDeliveryInstallation, repo.orders[id].FinalizationType)
}

func TestGuardViolationPersistsNothing(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	id := seedOrder(repo, ServiceOrder{ProductionStatus: ProductionCutting})

	writes := repo.writes
	_, err := svc.SetFinalizationType(context.Background(), id, FinalizationPickup)
	require.ErrorIs(t, err, ErrGuardViolation)
	assert.Equal(t, writes, repo.writes, "rejected action must not write")
	assert.Empty(t, repo.orders[id].FinalizationType)
}

func TestConfirmInstallationBeforeDelivery(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	id := seedOrder(repo, ServiceOrder{
		ProductionStatus: ProductionCompleted,
		FinalizationType: FinalizationDeliveryInstallation,
		LogisticsStatus:  logistics.LogisticsCompleted,
	})

	_, err := svc.ConfirmInstallation(context.Background(), id)
	require.ErrorIs(t, err, ErrGuardViolation)
	assert.False(t, repo.orders[id].InstallationConfirmed)
}

func TestConfirmationSequence(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()
	id := seedOrder(repo, ServiceOrder{
		ProductionStatus: ProductionCompleted,
		FinalizationType: FinalizationDeliveryInstallation,
		LogisticsStatus:  logistics.LogisticsCompleted,
	})

	order, err := svc.ConfirmDelivery(ctx, id)
	require.NoError(t, err)
	assert.True(t, order.DeliveryConfirmed)

	order, err = svc.ConfirmInstallation(ctx, id)
	require.NoError(t, err)
	assert.True(t, order.InstallationConfirmed)
	assert.True(t, repo.orders[id].InstallationConfirmed)
}

func TestConfirmDeliveryBeforeArrival(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	id := seedOrder(repo, ServiceOrder{
		ProductionStatus: ProductionCompleted,
		FinalizationType: FinalizationDeliveryOnly,
		LogisticsStatus:  logistics.LogisticsInTransit,
	})

	_, err := svc.ConfirmDelivery(context.Background(), id)
	require.ErrorIs(t, err, ErrGuardViolation)
	assert.False(t, repo.orders[id].DeliveryConfirmed)
}

func TestAdvanceProductionPersists(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	id := seedOrder(repo, ServiceOrder{ProductionStatus: ProductionCutting})

	order, err := svc.AdvanceProduction(context.Background(), id, ProductionFinishing)
	require.NoError(t, err)
	assert.Equal(t, ProductionFinishing, order.ProductionStatus)
	assert.Equal(t, ProductionFinishing, repo.orders[id].ProductionStatus)

	_, err = svc.AdvanceProduction(context.Background(), id, ProductionCompleted)
	require.ErrorIs(t, err, ErrGuardViolation)
}

func TestToggleChecklistItemPersists(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	id := seedOrder(repo, ServiceOrder{Checklist: []ChecklistItem{{ID: "a", Text: "Conferir peças"}}})

	order, err := svc.ToggleChecklistItem(context.Background(), id, "a")
	require.NoError(t, err)
	assert.True(t, order.Checklist[0].Checked)
	assert.True(t, repo.orders[id].Checklist[0].Checked)

	_, err = svc.ToggleChecklistItem(context.Background(), id, "missing")
	require.ErrorIs(t, err, ErrChecklistItemNotFound)
}

func TestMutationsOnUnknownOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.ConfirmDelivery(ctx, 404)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.AdvanceProduction(ctx, 404, ProductionFinishing)
	require.ErrorIs(t, err, ErrNotFound)
}
