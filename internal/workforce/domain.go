package workforce

import "time"

// Role names mirror the kanban boards that reference them.
const (
	RoleDeliverer = "entregador"
	RoleCutter    = "cortador"
	RoleFinisher  = "acabador"
	RoleInstaller = "instalador"
)

// Employee is a production or delivery worker referenced by id from the
// scheduling core.
type Employee struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EligibleForDelivery reports whether the employee can be assigned to a
// delivery crew.
func (e Employee) EligibleForDelivery() bool {
	return e.Active && e.Role == RoleDeliverer
}
