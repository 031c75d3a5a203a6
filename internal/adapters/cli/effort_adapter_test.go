package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	coreeffort "github.com/example/eco/internal/core/effort"
	"github.com/example/eco/internal/ports/primary"
	"github.com/example/eco/internal/ports/secondary"
)

// mockEffortService implements primary.EffortService for testing
type mockEffortService struct {
	createEffortFn      func(ctx context.Context, req primary.CreateEffortRequest) (*primary.CreateEffortResponse, error)
	setRequirementsFn   func(ctx context.Context, req primary.SetRequirementsRequest) (*primary.SetRequirementsResponse, error)
	applyDeliveryFn     func(ctx context.Context, req primary.ApplyDeliveryRequest) (*primary.ApplyDeliveryResponse, error)
	getEffortFn         func(ctx context.Context, effortID string) (*primary.Effort, error)
	listActiveEffortsFn func(ctx context.Context) ([]*primary.Effort, error)

	// Track calls for verification
	lastCreateReq   primary.CreateEffortRequest
	lastSetReq      primary.SetRequirementsRequest
	lastDeliveryReq primary.ApplyDeliveryRequest
}

func (m *mockEffortService) CreateEffort(ctx context.Context, req primary.CreateEffortRequest) (*primary.CreateEffortResponse, error) {
	m.lastCreateReq = req
	if m.createEffortFn != nil {
		return m.createEffortFn(ctx, req)
	}
	return &primary.CreateEffortResponse{
		EffortID: "1",
		Effort:   &primary.Effort{ID: "1", System: req.System, Installation: req.Installation, Owner: req.Owner},
	}, nil
}

func (m *mockEffortService) SetRequirements(ctx context.Context, req primary.SetRequirementsRequest) (*primary.SetRequirementsResponse, error) {
	m.lastSetReq = req
	if m.setRequirementsFn != nil {
		return m.setRequirementsFn(ctx, req)
	}
	return &primary.SetRequirementsResponse{Effort: &primary.Effort{ID: req.EffortID}}, nil
}

func (m *mockEffortService) ApplyDelivery(ctx context.Context, req primary.ApplyDeliveryRequest) (*primary.ApplyDeliveryResponse, error) {
	m.lastDeliveryReq = req
	if m.applyDeliveryFn != nil {
		return m.applyDeliveryFn(ctx, req)
	}
	return &primary.ApplyDeliveryResponse{Effort: &primary.Effort{ID: req.EffortID}}, nil
}

func (m *mockEffortService) GetEffort(ctx context.Context, effortID string) (*primary.Effort, error) {
	if m.getEffortFn != nil {
		return m.getEffortFn(ctx, effortID)
	}
	return &primary.Effort{ID: effortID, System: "SOL", Installation: "ABRAHAM LINCOLN", Owner: "CMDR"}, nil
}

func (m *mockEffortService) ListActiveEfforts(ctx context.Context) ([]*primary.Effort, error) {
	if m.listActiveEffortsFn != nil {
		return m.listActiveEffortsFn(ctx)
	}
	return []*primary.Effort{}, nil
}

func guardErr(sentinel error, id string) error {
	return fmt.Errorf("%w: effort %s", sentinel, id)
}

// ============================================================================
// Create Tests
// ============================================================================

func TestEffortAdapter_Create_Success(t *testing.T) {
	mock := &mockEffortService{}
	var buf bytes.Buffer
	adapter := NewEffortAdapter(mock, &buf, false)

	err := adapter.Create(context.Background(), "SOL", "ABRAHAM LINCOLN", "CMDR")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastCreateReq.Installation != "ABRAHAM LINCOLN" {
		t.Errorf("expected installation 'ABRAHAM LINCOLN', got '%s'", mock.lastCreateReq.Installation)
	}
	if buf.String() != "Added new colonization effort with ID 1.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestEffortAdapter_Create_StorageError(t *testing.T) {
	mock := &mockEffortService{
		createEffortFn: func(ctx context.Context, req primary.CreateEffortRequest) (*primary.CreateEffortResponse, error) {
			return nil, fmt.Errorf("%w: disk full", secondary.ErrStorageWrite)
		},
	}
	var buf bytes.Buffer
	adapter := NewEffortAdapter(mock, &buf, false)

	err := adapter.Create(context.Background(), "SOL", "A", "B")

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != MsgSaveFailed {
		t.Errorf("expected %q, got %q", MsgSaveFailed, err.Error())
	}
	if !errors.Is(err, secondary.ErrStorageWrite) {
		t.Error("expected error to unwrap to ErrStorageWrite")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

// ============================================================================
// List Tests
// ============================================================================

func TestEffortAdapter_List_WithResults(t *testing.T) {
	mock := &mockEffortService{
		listActiveEffortsFn: func(ctx context.Context) ([]*primary.Effort, error) {
			return []*primary.Effort{
				{ID: "1", System: "SOL", Installation: "ABRAHAM LINCOLN", Owner: "CMDR", Materials: []*primary.Material{
					{Commodity: "GOLD", Quantity: 12500},
					{Commodity: "WATER", Quantity: 7},
				}},
				{ID: "3", System: "LHS 20", Installation: "OHM CITY", Owner: "OTHER"},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewEffortAdapter(mock, &buf, false)

	err := adapter.List(context.Background())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	expected := "**Active Colonization Efforts:**\n" +
		"1. **SOL - ABRAHAM LINCOLN (CMDR)**\n" +
		"  - GOLD: 12,500\n" +
		"  - WATER: 7\n" +
		"\n" +
		"3. **LHS 20 - OHM CITY (OTHER)**\n" +
		"\n"
	if buf.String() != expected {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", buf.String(), expected)
	}
}

func TestEffortAdapter_List_Empty(t *testing.T) {
	mock := &mockEffortService{}
	var buf bytes.Buffer
	adapter := NewEffortAdapter(mock, &buf, false)

	if err := adapter.List(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if buf.String() != MsgNoEfforts+"\n" {
		t.Errorf("expected %q, got %q", MsgNoEfforts, buf.String())
	}
}

func TestEffortAdapter_List_Colorized(t *testing.T) {
	mock := &mockEffortService{
		listActiveEffortsFn: func(ctx context.Context) ([]*primary.Effort, error) {
			return []*primary.Effort{{ID: "1", System: "SOL", Installation: "A", Owner: "B"}}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewEffortAdapter(mock, &buf, true)

	if err := adapter.List(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes in colorized output, got %q", buf.String())
	}
}

// ============================================================================
// Show Tests
// ============================================================================

func TestEffortAdapter_Show_Success(t *testing.T) {
	mock := &mockEffortService{}
	var buf bytes.Buffer
	adapter := NewEffortAdapter(mock, &buf, false)

	if err := adapter.Show(context.Background(), "2"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if buf.String() != "2. **SOL - ABRAHAM LINCOLN (CMDR)**\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestEffortAdapter_UnavailableEffort(t *testing.T) {
	tests := []struct {
		name     string
		sentinel error
	}{
		{name: "not found", sentinel: coreeffort.ErrEffortNotFound},
		{name: "completed", sentinel: coreeffort.ErrEffortAlreadyCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockEffortService{
				getEffortFn: func(ctx context.Context, effortID string) (*primary.Effort, error) {
					return nil, guardErr(tt.sentinel, effortID)
				},
				setRequirementsFn: func(ctx context.Context, req primary.SetRequirementsRequest) (*primary.SetRequirementsResponse, error) {
					return nil, guardErr(tt.sentinel, req.EffortID)
				},
				applyDeliveryFn: func(ctx context.Context, req primary.ApplyDeliveryRequest) (*primary.ApplyDeliveryResponse, error) {
					return nil, guardErr(tt.sentinel, req.EffortID)
				},
			}
			var buf bytes.Buffer
			adapter := NewEffortAdapter(mock, &buf, false)
			ctx := context.Background()

			for name, err := range map[string]error{
				"show":    adapter.Show(ctx, "9"),
				"update":  adapter.Update(ctx, "9", "Gold 1"),
				"deliver": adapter.Deliver(ctx, "9", "Gold 1"),
			} {
				if err == nil {
					t.Fatalf("%s: expected error, got nil", name)
				}
				if err.Error() != MsgUnavailable {
					t.Errorf("%s: expected %q, got %q", name, MsgUnavailable, err.Error())
				}
				if !errors.Is(err, tt.sentinel) {
					t.Errorf("%s: expected error to unwrap to %v", name, tt.sentinel)
				}
			}
			if buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
		})
	}
}

// ============================================================================
// Update Tests
// ============================================================================

func TestEffortAdapter_Update_Success(t *testing.T) {
	mock := &mockEffortService{
		setRequirementsFn: func(ctx context.Context, req primary.SetRequirementsRequest) (*primary.SetRequirementsResponse, error) {
			return &primary.SetRequirementsResponse{
				Effort:  &primary.Effort{ID: req.EffortID},
				Skipped: []string{"Gold10"},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewEffortAdapter(mock, &buf, false)

	err := adapter.Update(context.Background(), "4", "Gold10\nWater 5")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastSetReq.MaterialBlock != "Gold10\nWater 5" {
		t.Errorf("expected block passed through, got %q", mock.lastSetReq.MaterialBlock)
	}
	expected := "Updated materials for effort 4.\nIgnored unreadable text: \"Gold10\"\n"
	if buf.String() != expected {
		t.Errorf("unexpected output %q, want %q", buf.String(), expected)
	}
}

// ============================================================================
// Deliver Tests
// ============================================================================

func TestEffortAdapter_Deliver_Outcomes(t *testing.T) {
	mock := &mockEffortService{
		applyDeliveryFn: func(ctx context.Context, req primary.ApplyDeliveryRequest) (*primary.ApplyDeliveryResponse, error) {
			return &primary.ApplyDeliveryResponse{
				Effort: &primary.Effort{ID: req.EffortID},
				Outcomes: []*primary.DeliveryOutcome{
					{Kind: primary.OutcomePartiallyDelivered, Commodity: "GOLD", Amount: 1500, Remaining: 11000},
					{Kind: primary.OutcomeFulfilled, Commodity: "WATER", Amount: 7},
					{Kind: primary.OutcomeNotRequired, Commodity: "TEA", Amount: 3},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewEffortAdapter(mock, &buf, false)

	if err := adapter.Deliver(context.Background(), "1", "Gold 1,500"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	expected := "Delivered 1,500 units of GOLD. Remaining: 11,000\n" +
		"Delivered 7 units of WATER. Requirement fulfilled and removed from the list.\n" +
		"Material TEA not required for this effort.\n" +
		"Updated materials for effort 1.\n"
	if buf.String() != expected {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", buf.String(), expected)
	}
}

func TestEffortAdapter_Deliver_Completes(t *testing.T) {
	mock := &mockEffortService{
		applyDeliveryFn: func(ctx context.Context, req primary.ApplyDeliveryRequest) (*primary.ApplyDeliveryResponse, error) {
			return &primary.ApplyDeliveryResponse{
				Effort: &primary.Effort{ID: req.EffortID, Completed: true},
				Outcomes: []*primary.DeliveryOutcome{
					{Kind: primary.OutcomeFulfilled, Commodity: "GOLD", Amount: 10},
					{Kind: primary.OutcomeEffortCompleted},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewEffortAdapter(mock, &buf, false)

	if err := adapter.Deliver(context.Background(), "5", "Gold 10"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "All materials delivered! Marking effort 5 as completed.\n") {
		t.Errorf("expected completion line, got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "Updated materials for effort 5.\n") {
		t.Errorf("expected update confirmation last, got %q", buf.String())
	}
}

func TestEffortAdapter_Deliver_OtherErrorPassesThrough(t *testing.T) {
	boom := errors.New("ledger exploded")
	mock := &mockEffortService{
		applyDeliveryFn: func(ctx context.Context, req primary.ApplyDeliveryRequest) (*primary.ApplyDeliveryResponse, error) {
			return nil, boom
		},
	}
	adapter := NewEffortAdapter(mock, &bytes.Buffer{}, false)

	err := adapter.Deliver(context.Background(), "1", "Gold 1")
	if !errors.Is(err, boom) {
		t.Errorf("expected raw error, got %v", err)
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		t.Error("expected unrecognized error not to be wrapped as UserError")
	}
}
