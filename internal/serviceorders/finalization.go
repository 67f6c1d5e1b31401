package serviceorders

import "fmt"

// The finalization sequence per service order is
//
//	production (cutting -> finishing -> awaiting_pickup)
//	  -> finalization type chosen (production becomes completed)
//	  -> logistics (scheduled -> in_transit -> completed, owned by the scheduler)
//	  -> delivery confirmed      (only when type != pickup)
//	  -> installation confirmed  (only when type == delivery_installation)
//
// Each Apply method checks its preconditions and either mutates the order
// in place or returns a guard error wrapping ErrGuardViolation and changes
// nothing.

// AdvanceProduction moves the order one production column forward. The
// completed column is only reachable through ApplyFinalizationType.
func (o *ServiceOrder) AdvanceProduction(next ProductionStatus) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: unknown production status %q", ErrGuardViolation, next)
	}
	if !o.ProductionStatus.CanAdvanceTo(next) {
		return fmt.Errorf("%w: production %s -> %s", ErrGuardViolation, o.ProductionStatus, next)
	}
	o.ProductionStatus = next
	return nil
}

// ApplyFinalizationType records how the finished piece leaves the shop and
// closes production. Allowed once, and only after production reached
// finishing or awaiting_pickup.
func (o *ServiceOrder) ApplyFinalizationType(t FinalizationType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: unknown finalization type %q", ErrGuardViolation, t)
	}
	if o.FinalizationType != "" {
		return fmt.Errorf("%w: finalization type already set to %s", ErrGuardViolation, o.FinalizationType)
	}
	if !o.ProductionStatus.ReadyForFinalization() {
		return fmt.Errorf("%w: production status %s does not allow finalization", ErrGuardViolation, o.ProductionStatus)
	}
	o.FinalizationType = t
	o.ProductionStatus = ProductionCompleted
	return nil
}

// ApplyDeliveryConfirmation marks the driver's arrival as accepted by the
// client. Only valid for delivering orders whose route has actually
// arrived.
func (o *ServiceOrder) ApplyDeliveryConfirmation() error {
	if o.FinalizationType == "" || !o.FinalizationType.RequiresDelivery() {
		return fmt.Errorf("%w: finalization type %q has no delivery step", ErrGuardViolation, o.FinalizationType)
	}
	if o.DeliveryConfirmed {
		return fmt.Errorf("%w: delivery already confirmed", ErrGuardViolation)
	}
	if !o.LogisticsStatus.Delivered() {
		return fmt.Errorf("%w: order not delivered yet (logistics status %s)", ErrGuardViolation, o.LogisticsStatus)
	}
	o.DeliveryConfirmed = true
	return nil
}

// ApplyInstallationConfirmation marks the on-site installation as done.
// Requires a confirmed delivery on a delivery_installation order.
func (o *ServiceOrder) ApplyInstallationConfirmation() error {
	if !o.FinalizationType.RequiresInstallation() {
		return fmt.Errorf("%w: finalization type %q has no installation step", ErrGuardViolation, o.FinalizationType)
	}
	if !o.DeliveryConfirmed {
		return fmt.Errorf("%w: delivery not confirmed", ErrGuardViolation)
	}
	if o.InstallationConfirmed {
		return fmt.Errorf("%w: installation already confirmed", ErrGuardViolation)
	}
	o.InstallationConfirmed = true
	return nil
}

// ToggleChecklistItem flips one departure checklist line, preserving item
// order.
func (o *ServiceOrder) ToggleChecklistItem(itemID string) error {
	for i := range o.Checklist {
		if o.Checklist[i].ID == itemID {
			o.Checklist[i].Checked = !o.Checklist[i].Checked
			return nil
		}
	}
	return ErrChecklistItemNotFound
}
