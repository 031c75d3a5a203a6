package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	coreeffort "github.com/example/eco/internal/core/effort"
	"github.com/example/eco/internal/ports/primary"
	"github.com/example/eco/internal/ports/secondary"
)

// EffortServiceImpl implements the EffortService interface.
//
// The ledger is loaded once at construction and kept in memory. Every
// mutation runs under mu and is persisted before the method returns, so the
// store always mirrors the in-memory ledger after a successful call.
type EffortServiceImpl struct {
	store   secondary.LedgerStore
	metrics secondary.MetricsRecorder
	logger  *slog.Logger

	mu      sync.Mutex
	efforts []*secondary.EffortRecord // insertion order
	byID    map[string]*secondary.EffortRecord
}

// NewEffortService loads the ledger from store and returns a ready service.
// A corrupt ledger or an effort ID that is not numeric is reported as an
// error; callers must not continue with such a ledger.
func NewEffortService(
	ctx context.Context,
	store secondary.LedgerStore,
	metrics secondary.MetricsRecorder,
	logger *slog.Logger,
) (*EffortServiceImpl, error) {
	if metrics == nil {
		metrics = secondary.NopMetricsRecorder{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	records, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger from %s: %w", store.Location(), err)
	}

	s := &EffortServiceImpl{
		store:   store,
		metrics: metrics,
		logger:  logger,
		efforts: make([]*secondary.EffortRecord, 0, len(records)),
		byID:    make(map[string]*secondary.EffortRecord, len(records)),
	}
	for _, record := range records {
		if _, dup := s.byID[record.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate effort ID %q", secondary.ErrStorageCorrupt, record.ID)
		}
		s.efforts = append(s.efforts, record)
		s.byID[record.ID] = record
	}

	// Surface bad IDs now rather than on the next create.
	if _, err := coreeffort.GenerateEffortID(s.ids()); err != nil {
		return nil, fmt.Errorf("failed to validate ledger from %s: %w", store.Location(), err)
	}

	logger.Debug("ledger loaded", "location", store.Location(), "efforts", len(records))
	return s, nil
}

// CreateEffort creates a new effort.
func (s *EffortServiceImpl) CreateEffort(ctx context.Context, req primary.CreateEffortRequest) (*primary.CreateEffortResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Generate ID using core business rule
	nextID, err := coreeffort.GenerateEffortID(s.ids())
	if err != nil {
		s.metrics.RecordOperation("create", "error")
		return nil, fmt.Errorf("failed to generate effort ID: %w", err)
	}

	// 2. Register the record with an empty ledger
	record := &secondary.EffortRecord{
		ID:           nextID,
		System:       req.System,
		Installation: req.Installation,
		Owner:        req.Owner,
		Materials:    []secondary.MaterialRecord{},
	}
	s.efforts = append(s.efforts, record)
	s.byID[record.ID] = record

	// 3. Persist before reporting success
	if err := s.save(ctx, "create"); err != nil {
		return nil, err
	}

	s.metrics.RecordOperation("create", "ok")
	s.logger.Info("effort created", "effort_id", record.ID, "system", record.System)

	return &primary.CreateEffortResponse{
		EffortID: record.ID,
		Effort:   recordToEffort(record),
	}, nil
}

// SetRequirements replaces the effort's materials with the parsed block.
func (s *EffortServiceImpl) SetRequirements(ctx context.Context, req primary.SetRequirementsRequest) (*primary.SetRequirementsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Guard check
	record, guard := s.guard(req.EffortID, coreeffort.CanSetRequirements)
	if !guard.Allowed {
		s.metrics.RecordOperation("update", guardLabel(guard))
		return nil, guard.Error()
	}

	// 2. Parse block (pure function)
	parsed := coreeffort.ParseMaterialBlock(req.MaterialBlock)
	s.reportSkipped(req.EffortID, parsed.Skipped)

	// 3. Full overwrite of the ledger
	record.Materials = coreToRecords(coreeffort.BuildRequirements(parsed.Materials))

	if err := s.save(ctx, "update"); err != nil {
		return nil, err
	}

	s.metrics.RecordOperation("update", "ok")
	return &primary.SetRequirementsResponse{
		Effort:  recordToEffort(record),
		Skipped: parsed.Skipped,
	}, nil
}

// ApplyDelivery applies a delivery block and reports one outcome per line.
func (s *EffortServiceImpl) ApplyDelivery(ctx context.Context, req primary.ApplyDeliveryRequest) (*primary.ApplyDeliveryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Guard check
	record, guard := s.guard(req.EffortID, coreeffort.CanDeliver)
	if !guard.Allowed {
		s.metrics.RecordOperation("deliver", guardLabel(guard))
		return nil, guard.Error()
	}

	// 2. Parse and apply (pure functions)
	parsed := coreeffort.ParseMaterialBlock(req.MaterialBlock)
	s.reportSkipped(req.EffortID, parsed.Skipped)

	result := coreeffort.ApplyDelivery(recordsToCore(record.Materials), parsed.Materials)

	// 3. Commit to the in-memory ledger
	record.Materials = coreToRecords(result.Materials)
	if result.Completed {
		record.Completed = true
		s.logger.Info("effort completed", "effort_id", record.ID)
	}

	// 4. Persist, even when the block stopped early
	if err := s.save(ctx, "deliver"); err != nil {
		return nil, err
	}

	outcomes := make([]*primary.DeliveryOutcome, len(result.Outcomes))
	for i, o := range result.Outcomes {
		s.metrics.RecordOutcome(string(o.Kind))
		outcomes[i] = &primary.DeliveryOutcome{
			Kind:      string(o.Kind),
			Commodity: o.Commodity,
			Amount:    o.Amount,
			Remaining: o.Remaining,
		}
	}
	s.metrics.RecordOperation("deliver", "ok")

	return &primary.ApplyDeliveryResponse{
		Effort:   recordToEffort(record),
		Outcomes: outcomes,
		Skipped:  parsed.Skipped,
	}, nil
}

// GetEffort retrieves an active effort by ID.
func (s *EffortServiceImpl) GetEffort(ctx context.Context, effortID string) (*primary.Effort, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, guard := s.guard(effortID, coreeffort.CanAccessEffort)
	if !guard.Allowed {
		s.metrics.RecordOperation("show", guardLabel(guard))
		return nil, guard.Error()
	}

	s.metrics.RecordOperation("show", "ok")
	return recordToEffort(record), nil
}

// ListActiveEfforts lists efforts that are not completed, in insertion order.
func (s *EffortServiceImpl) ListActiveEfforts(ctx context.Context) ([]*primary.Effort, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	efforts := make([]*primary.Effort, 0, len(s.efforts))
	for _, record := range s.efforts {
		if record.Completed {
			continue
		}
		efforts = append(efforts, recordToEffort(record))
	}

	s.metrics.RecordOperation("list", "ok")
	return efforts, nil
}

// guard looks up an effort and evaluates a core guard against it.
func (s *EffortServiceImpl) guard(effortID string, check func(coreeffort.StateContext) coreeffort.GuardResult) (*secondary.EffortRecord, coreeffort.GuardResult) {
	record, exists := s.byID[effortID]
	ctx := coreeffort.StateContext{
		EffortID:     effortID,
		EffortExists: exists,
	}
	if exists {
		ctx.IsCompleted = record.Completed
	}
	return record, check(ctx)
}

// save persists the whole ledger. Must be called with mu held.
// On failure the in-memory ledger keeps the change but the caller must treat
// the operation as unconfirmed.
func (s *EffortServiceImpl) save(ctx context.Context, operation string) error {
	err := s.store.Save(ctx, s.efforts)
	if err == nil {
		return nil
	}

	s.metrics.RecordOperation(operation, "storage_error")
	s.logger.Error("failed to save ledger", "operation", operation, "location", s.store.Location(), "error", err)
	if !errors.Is(err, secondary.ErrStorageWrite) {
		err = fmt.Errorf("%w: %w", secondary.ErrStorageWrite, err)
	}
	return fmt.Errorf("failed to save ledger: %w", err)
}

func (s *EffortServiceImpl) reportSkipped(effortID string, skipped []string) {
	if len(skipped) == 0 {
		return
	}
	s.metrics.RecordSkippedFragments(len(skipped))
	for _, fragment := range skipped {
		s.logger.Warn("skipped unreadable material fragment", "effort_id", effortID, "fragment", fragment)
	}
}

func (s *EffortServiceImpl) ids() []string {
	ids := make([]string, len(s.efforts))
	for i, record := range s.efforts {
		ids[i] = record.ID
	}
	return ids
}

func guardLabel(result coreeffort.GuardResult) string {
	switch {
	case errors.Is(result.Err, coreeffort.ErrEffortNotFound):
		return "not_found"
	case errors.Is(result.Err, coreeffort.ErrEffortAlreadyCompleted):
		return "completed"
	default:
		return "error"
	}
}

// Helper conversion functions

func recordToEffort(r *secondary.EffortRecord) *primary.Effort {
	materials := make([]*primary.Material, len(r.Materials))
	for i, m := range r.Materials {
		materials[i] = &primary.Material{Commodity: m.Commodity, Quantity: m.Quantity}
	}
	return &primary.Effort{
		ID:           r.ID,
		System:       r.System,
		Installation: r.Installation,
		Owner:        r.Owner,
		Materials:    materials,
		Completed:    r.Completed,
	}
}

func recordsToCore(records []secondary.MaterialRecord) []coreeffort.Material {
	materials := make([]coreeffort.Material, len(records))
	for i, m := range records {
		materials[i] = coreeffort.Material{Commodity: m.Commodity, Quantity: m.Quantity}
	}
	return materials
}

func coreToRecords(materials []coreeffort.Material) []secondary.MaterialRecord {
	records := make([]secondary.MaterialRecord, len(materials))
	for i, m := range materials {
		records[i] = secondary.MaterialRecord{Commodity: m.Commodity, Quantity: m.Quantity}
	}
	return records
}
