package serviceorders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petra-erp/petra-erp/internal/logistics"
)

func TestAdvanceProduction(t *testing.T) {
	cases := []struct {
		name    string
		from    ProductionStatus
		to      ProductionStatus
		allowed bool
	}{
		{"cutting to finishing", ProductionCutting, ProductionFinishing, true},
		{"finishing to awaiting_pickup", ProductionFinishing, ProductionAwaitingPickup, true},
		{"cutting skips finishing", ProductionCutting, ProductionAwaitingPickup, false},
		{"regressing", ProductionFinishing, ProductionCutting, false},
		{"completed only via finalization", ProductionAwaitingPickup, ProductionCompleted, false},
		{"completed is terminal", ProductionCompleted, ProductionFinishing, false},
		{"unknown status", ProductionCutting, ProductionStatus("polishing"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := ServiceOrder{ProductionStatus: tc.from}
			err := order.AdvanceProduction(tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, order.ProductionStatus)
			} else {
				require.ErrorIs(t, err, ErrGuardViolation)
				assert.Equal(t, tc.from, order.ProductionStatus, "a rejected transition must not move the order")
			}
		})
	}
}

func TestApplyFinalizationType(t *testing.T) {
	t.Run("allowed from finishing", func(t *testing.T) {
		order := ServiceOrder{ProductionStatus: ProductionFinishing}
		require.NoError(t, order.ApplyFinalizationType(FinalizationDeliveryOnly))
		assert.Equal(t, FinalizationDeliveryOnly, order.FinalizationType)
		assert.Equal(t, ProductionCompleted, order.ProductionStatus)
	})

	t.Run("allowed from awaiting_pickup", func(t *testing.T) {
		order := ServiceOrder{ProductionStatus: ProductionAwaitingPickup}
		require.NoError(t, order.ApplyFinalizationType(FinalizationPickup))
		assert.Equal(t, ProductionCompleted, order.ProductionStatus)
	})

	t.Run("rejected while cutting", func(t *testing.T) {
		order := ServiceOrder{ProductionStatus: ProductionCutting}
		err := order.ApplyFinalizationType(FinalizationPickup)
		require.ErrorIs(t, err, ErrGuardViolation)
		assert.Empty(t, order.FinalizationType)
		assert.Equal(t, ProductionCutting, order.ProductionStatus)
	})

	t.Run("set once", func(t *testing.T) {
		order := ServiceOrder{ProductionStatus: ProductionFinishing}
		require.NoError(t, order.ApplyFinalizationType(FinalizationPickup))
		err := order.ApplyFinalizationType(FinalizationDeliveryOnly)
		require.ErrorIs(t, err, ErrGuardViolation)
		assert.Equal(t, FinalizationPickup, order.FinalizationType)
	})

	t.Run("unknown type", func(t *testing.T) {
		order := ServiceOrder{ProductionStatus: ProductionFinishing}
		err := order.ApplyFinalizationType(FinalizationType("mail"))
		require.ErrorIs(t, err, ErrGuardViolation)
	})
}

func TestApplyDeliveryConfirmation(t *testing.T) {
	t.Run("requires arrival", func(t *testing.T) {
		order := ServiceOrder{
			FinalizationType: FinalizationDeliveryOnly,
			LogisticsStatus:  logistics.LogisticsInTransit,
		}
		err := order.ApplyDeliveryConfirmation()
		require.ErrorIs(t, err, ErrGuardViolation)
		assert.False(t, order.DeliveryConfirmed)
	})

	t.Run("rejected for pickup orders", func(t *testing.T) {
		order := ServiceOrder{
			FinalizationType: FinalizationPickup,
			LogisticsStatus:  logistics.LogisticsCompleted,
		}
		require.ErrorIs(t, order.ApplyDeliveryConfirmation(), ErrGuardViolation)
	})

	t.Run("rejected before finalization", func(t *testing.T) {
		order := ServiceOrder{LogisticsStatus: logistics.LogisticsCompleted}
		require.ErrorIs(t, order.ApplyDeliveryConfirmation(), ErrGuardViolation)
	})

	t.Run("confirms after arrival", func(t *testing.T) {
		order := ServiceOrder{
			FinalizationType: FinalizationDeliveryOnly,
			LogisticsStatus:  logistics.LogisticsCompleted,
		}
		require.NoError(t, order.ApplyDeliveryConfirmation())
		assert.True(t, order.DeliveryConfirmed)

		require.ErrorIs(t, order.ApplyDeliveryConfirmation(), ErrGuardViolation, "double confirmation")
	})
}

func TestApplyInstallationConfirmation(t *testing.T) {
	t.Run("requires delivery_installation type", func(t *testing.T) {
		order := ServiceOrder{
			FinalizationType:  FinalizationDeliveryOnly,
			DeliveryConfirmed: true,
		}
		err := order.ApplyInstallationConfirmation()
		require.ErrorIs(t, err, ErrGuardViolation)
		assert.False(t, order.InstallationConfirmed)
	})

	t.Run("requires confirmed delivery", func(t *testing.T) {
		order := ServiceOrder{FinalizationType: FinalizationDeliveryInstallation}
		err := order.ApplyInstallationConfirmation()
		require.ErrorIs(t, err, ErrGuardViolation)
		assert.False(t, order.InstallationConfirmed)
	})

	t.Run("confirms after delivery", func(t *testing.T) {
		order := ServiceOrder{
			FinalizationType:  FinalizationDeliveryInstallation,
			DeliveryConfirmed: true,
		}
		require.NoError(t, order.ApplyInstallationConfirmation())
		assert.True(t, order.InstallationConfirmed)
	})
}

// Full happy path: finish production, deliver, confirm delivery, confirm
// installation.
func TestFinalizationSequence(t *testing.T) {
	order := ServiceOrder{
		ProductionStatus: ProductionCutting,
		LogisticsStatus:  logistics.LogisticsAwaitingScheduling,
	}

	require.NoError(t, order.AdvanceProduction(ProductionFinishing))
	require.NoError(t, order.AdvanceProduction(ProductionAwaitingPickup))
	require.NoError(t, order.ApplyFinalizationType(FinalizationDeliveryInstallation))
	assert.Equal(t, ProductionCompleted, order.ProductionStatus)

	// Installation before delivery stays blocked.
	require.ErrorIs(t, order.ApplyInstallationConfirmation(), ErrGuardViolation)

	// The scheduler drives logistics status; simulate route arrival.
	order.LogisticsStatus = logistics.LogisticsCompleted

	require.NoError(t, order.ApplyDeliveryConfirmation())
	require.NoError(t, order.ApplyInstallationConfirmation())
	assert.True(t, order.Archivable())
}

func TestArchivable(t *testing.T) {
	cases := []struct {
		name  string
		order ServiceOrder
		want  bool
	}{
		{"pickup done at finalization", ServiceOrder{ProductionStatus: ProductionCompleted, FinalizationType: FinalizationPickup}, true},
		{"delivery pending confirmation", ServiceOrder{ProductionStatus: ProductionCompleted, FinalizationType: FinalizationDeliveryOnly}, false},
		{"delivery confirmed", ServiceOrder{ProductionStatus: ProductionCompleted, FinalizationType: FinalizationDeliveryOnly, DeliveryConfirmed: true}, true},
		{"installation pending", ServiceOrder{ProductionStatus: ProductionCompleted, FinalizationType: FinalizationDeliveryInstallation, DeliveryConfirmed: true}, false},
		{"no finalization type", ServiceOrder{ProductionStatus: ProductionCompleted}, false},
		{"production unfinished", ServiceOrder{ProductionStatus: ProductionFinishing, FinalizationType: FinalizationPickup}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.order.Archivable())
		})
	}
}

func TestToggleChecklistItem(t *testing.T) {
	order := ServiceOrder{Checklist: []ChecklistItem{
		{ID: "a", Text: "Conferir peças"},
		{ID: "b", Text: "Carregar ventosas", Checked: true},
	}}

	require.NoError(t, order.ToggleChecklistItem("a"))
	assert.True(t, order.Checklist[0].Checked)

	require.NoError(t, order.ToggleChecklistItem("b"))
	assert.False(t, order.Checklist[1].Checked)

	require.ErrorIs(t, order.ToggleChecklistItem("zzz"), ErrChecklistItemNotFound)
	assert.Equal(t, "a", order.Checklist[0].ID, "item order must be preserved")
}
