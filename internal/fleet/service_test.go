package fleet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	vehicles map[int64]Vehicle
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{vehicles: make(map[int64]Vehicle), nextID: 1}
}

func (f *fakeRepo) List(_ context.Context, filters ListFilters) ([]Vehicle, error) {
	var out []Vehicle
	for _, v := range f.vehicles {
		if filters.Status != nil && v.Status != *filters.Status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return Vehicle{}, ErrNotFound
	}
	return v, nil
}

func (f *fakeRepo) Create(_ context.Context, vehicle Vehicle) (Vehicle, error) {
	vehicle.ID = f.nextID
	f.nextID++
	f.vehicles[vehicle.ID] = vehicle
	return vehicle, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, vehicle Vehicle) error {
	if _, ok := f.vehicles[id]; !ok {
		return ErrNotFound
	}
	vehicle.ID = id
	f.vehicles[id] = vehicle
	return nil
}

func (f *fakeRepo) SetStatus(_ context.Context, id int64, status VehicleStatus) error {
	v, ok := f.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.Status = status
	f.vehicles[id] = v
	return nil
}

func TestCreateDefaultsToAvailable(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), Vehicle{Name: "Caminhao 1", LicensePlate: "ABC-1234", CapacityKg: 3500})
	require.NoError(t, err)
	assert.Equal(t, VehicleAvailable, created.Status)
	assert.NotZero(t, created.ID)
}

func TestCreateRejectsMissingPlate(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Vehicle{Name: "Caminhao 2"})
	require.Error(t, err)
}

func TestSetStatusValidatesEnum(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Vehicle{Name: "Fiorino", LicensePlate: "XYZ-9876"})
	require.NoError(t, err)

	require.Error(t, svc.SetStatus(context.Background(), created.ID, VehicleStatus("quebrado")))

	require.NoError(t, svc.SetStatus(context.Background(), created.ID, VehicleMaintenance))
	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, VehicleMaintenance, got.Status)
	assert.False(t, got.Bookable())
}

func TestGetUnknownVehicle(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
