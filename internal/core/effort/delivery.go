package effort

// OutcomeKind identifies what happened to one line of a delivery.
type OutcomeKind string

const (
	// OutcomeNotRequired means the commodity is not in the effort's ledger.
	// Processing of the block stops at this outcome.
	OutcomeNotRequired OutcomeKind = "not_required"
	// OutcomeFulfilled means the requirement reached zero and was removed.
	OutcomeFulfilled OutcomeKind = "fulfilled"
	// OutcomePartiallyDelivered means some quantity is still required.
	OutcomePartiallyDelivered OutcomeKind = "partially_delivered"
	// OutcomeEffortCompleted is the terminal outcome emitted when no
	// requirements remain after the delivery.
	OutcomeEffortCompleted OutcomeKind = "effort_completed"
)

// Outcome describes the effect of a delivery on a single commodity.
type Outcome struct {
	Kind      OutcomeKind
	Commodity string
	Amount    int
	Remaining int
}

// DeliveryResult is the output of applying a delivery to a ledger.
type DeliveryResult struct {
	Materials []Material // Remaining requirements, in ledger order
	Outcomes  []Outcome
	Completed bool
}

// ApplyDelivery applies delivered quantities to the required materials.
// This is a pure function: required is not modified.
//
// Deliveries are applied in order. Each one lowers its requirement, clamped at
// zero; a requirement reaching zero is removed. The first commodity that is not
// required stops processing, keeping whatever was applied before it. When no
// requirements remain the effort is complete.
func ApplyDelivery(required []Material, delivered []Material) DeliveryResult {
	remaining := CloneMaterials(required)
	outcomes := make([]Outcome, 0, len(delivered)+1)

	for _, d := range delivered {
		i := indexOf(remaining, d.Commodity)
		if i < 0 {
			outcomes = append(outcomes, Outcome{Kind: OutcomeNotRequired, Commodity: d.Commodity})
			break
		}

		left := remaining[i].Quantity - d.Quantity
		if left <= 0 {
			remaining = append(remaining[:i], remaining[i+1:]...)
			outcomes = append(outcomes, Outcome{Kind: OutcomeFulfilled, Commodity: d.Commodity, Amount: d.Quantity})
			continue
		}

		remaining[i].Quantity = left
		outcomes = append(outcomes, Outcome{
			Kind:      OutcomePartiallyDelivered,
			Commodity: d.Commodity,
			Amount:    d.Quantity,
			Remaining: left,
		})
	}

	completed := len(remaining) == 0
	if completed {
		outcomes = append(outcomes, Outcome{Kind: OutcomeEffortCompleted})
	}

	return DeliveryResult{
		Materials: remaining,
		Outcomes:  outcomes,
		Completed: completed,
	}
}

// BuildRequirements turns parsed materials into a requirement ledger.
// Entries with a zero quantity are dropped since a ledger never holds them.
func BuildRequirements(parsed []Material) []Material {
	requirements := make([]Material, 0, len(parsed))
	for _, m := range parsed {
		if m.Quantity <= 0 {
			continue
		}
		requirements = append(requirements, m)
	}
	return requirements
}

// CloneMaterials returns a copy of materials that shares no backing array.
func CloneMaterials(materials []Material) []Material {
	if materials == nil {
		return []Material{}
	}
	out := make([]Material, len(materials))
	copy(out, materials)
	return out
}

func indexOf(materials []Material, commodity string) int {
	for i, m := range materials {
		if m.Commodity == commodity {
			return i
		}
	}
	return -1
}
