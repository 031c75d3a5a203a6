// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// EffortService defines the primary port for colonization effort operations.
// Implementations live in the application layer, adapters in the CLI layer.
type EffortService interface {
	// CreateEffort registers a new effort with an empty materials ledger.
	CreateEffort(ctx context.Context, req CreateEffortRequest) (*CreateEffortResponse, error)

	// SetRequirements replaces an effort's materials with a parsed block.
	SetRequirements(ctx context.Context, req SetRequirementsRequest) (*SetRequirementsResponse, error)

	// ApplyDelivery applies a delivered material block to an effort.
	ApplyDelivery(ctx context.Context, req ApplyDeliveryRequest) (*ApplyDeliveryResponse, error)

	// GetEffort retrieves an active effort by ID.
	GetEffort(ctx context.Context, effortID string) (*Effort, error)

	// ListActiveEfforts lists efforts that are not completed, oldest first.
	ListActiveEfforts(ctx context.Context) ([]*Effort, error)
}

// CreateEffortRequest contains parameters for creating an effort.
type CreateEffortRequest struct {
	System       string
	Installation string
	Owner        string
}

// CreateEffortResponse contains the result of creating an effort.
type CreateEffortResponse struct {
	EffortID string
	Effort   *Effort
}

// SetRequirementsRequest contains parameters for replacing requirements.
type SetRequirementsRequest struct {
	EffortID      string
	MaterialBlock string
}

// SetRequirementsResponse contains the result of replacing requirements.
type SetRequirementsResponse struct {
	Effort  *Effort
	Skipped []string // Block fragments the parser could not read
}

// ApplyDeliveryRequest contains parameters for applying a delivery.
type ApplyDeliveryRequest struct {
	EffortID      string
	MaterialBlock string
}

// ApplyDeliveryResponse contains the result of applying a delivery.
type ApplyDeliveryResponse struct {
	Effort   *Effort
	Outcomes []*DeliveryOutcome
	Skipped  []string
}

// Effort represents an effort entity at the port boundary.
type Effort struct {
	ID           string
	System       string
	Installation string
	Owner        string
	Materials    []*Material
	Completed    bool
}

// Material represents one outstanding requirement.
type Material struct {
	Commodity string
	Quantity  int
}

// DeliveryOutcome describes what a delivery did to one commodity.
// Kind is one of the OutcomeKind constants.
type DeliveryOutcome struct {
	Kind      string
	Commodity string
	Amount    int
	Remaining int
}

// Outcome kinds reported in DeliveryOutcome.Kind.
const (
	OutcomeNotRequired        = "not_required"
	OutcomeFulfilled          = "fulfilled"
	OutcomePartiallyDelivered = "partially_delivered"
	OutcomeEffortCompleted    = "effort_completed"
)
