// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting, but delegate
// business logic to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	coreeffort "github.com/example/eco/internal/core/effort"
	"github.com/example/eco/internal/ports/primary"
	"github.com/example/eco/internal/ports/secondary"
)

// Messages shown to users.
const (
	MsgUnavailable = "Effort ID not found or completed."
	MsgNoEfforts   = "No active colonization efforts."
	MsgSaveFailed  = "Failed to save ledger; the change was not confirmed."
)

// UserError carries a message meant for the person at the terminal while
// keeping the underlying error for errors.Is checks.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// EffortAdapter is a thin adapter that translates CLI operations to EffortService calls.
// It depends only on the EffortService interface, enabling easy testing with mocks.
type EffortAdapter struct {
	service primary.EffortService
	out     io.Writer
	printer *message.Printer

	heading *color.Color
	title   *color.Color
	warn    *color.Color
}

// NewEffortAdapter creates a new EffortAdapter with the given service.
// colorize enables ANSI styling of headings.
func NewEffortAdapter(service primary.EffortService, out io.Writer, colorize bool) *EffortAdapter {
	a := &EffortAdapter{
		service: service,
		out:     out,
		printer: message.NewPrinter(language.English),
		heading: color.New(color.Bold, color.FgHiGreen),
		title:   color.New(color.Bold, color.FgCyan),
		warn:    color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{a.heading, a.title, a.warn} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return a
}

// List prints every active effort.
func (a *EffortAdapter) List(ctx context.Context) error {
	efforts, err := a.service.ListActiveEfforts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list efforts: %w", err)
	}

	if len(efforts) == 0 {
		fmt.Fprintln(a.out, MsgNoEfforts)
		return nil
	}

	fmt.Fprintln(a.out, a.heading.Sprint("**Active Colonization Efforts:**"))
	for _, e := range efforts {
		fmt.Fprintln(a.out, a.effortMessage(e))
	}
	return nil
}

// Show prints a single effort.
func (a *EffortAdapter) Show(ctx context.Context, effortID string) error {
	effort, err := a.service.GetEffort(ctx, effortID)
	if err != nil {
		return userFacing(err)
	}

	fmt.Fprint(a.out, a.effortMessage(effort))
	return nil
}

// Create registers a new effort.
func (a *EffortAdapter) Create(ctx context.Context, system, installation, owner string) error {
	resp, err := a.service.CreateEffort(ctx, primary.CreateEffortRequest{
		System:       system,
		Installation: installation,
		Owner:        owner,
	})
	if err != nil {
		return userFacing(err)
	}

	fmt.Fprintf(a.out, "Added new colonization effort with ID %s.\n", resp.EffortID)
	return nil
}

// Update replaces the requirements of an effort.
func (a *EffortAdapter) Update(ctx context.Context, effortID, block string) error {
	resp, err := a.service.SetRequirements(ctx, primary.SetRequirementsRequest{
		EffortID:      effortID,
		MaterialBlock: block,
	})
	if err != nil {
		return userFacing(err)
	}

	fmt.Fprintf(a.out, "Updated materials for effort %s.\n", effortID)
	a.printSkipped(resp.Skipped)
	return nil
}

// Deliver applies a delivery and prints one line per outcome.
func (a *EffortAdapter) Deliver(ctx context.Context, effortID, block string) error {
	resp, err := a.service.ApplyDelivery(ctx, primary.ApplyDeliveryRequest{
		EffortID:      effortID,
		MaterialBlock: block,
	})
	if err != nil {
		return userFacing(err)
	}

	for _, o := range resp.Outcomes {
		fmt.Fprintln(a.out, a.outcomeMessage(effortID, o))
	}
	fmt.Fprintf(a.out, "Updated materials for effort %s.\n", effortID)
	a.printSkipped(resp.Skipped)
	return nil
}

func (a *EffortAdapter) effortMessage(e *primary.Effort) string {
	var b strings.Builder
	b.WriteString(a.title.Sprintf("%s. **%s - %s (%s)**", e.ID, e.System, e.Installation, e.Owner))
	b.WriteByte('\n')
	for _, m := range e.Materials {
		b.WriteString(a.printer.Sprintf("  - %s: %d\n", m.Commodity, m.Quantity))
	}
	return b.String()
}

func (a *EffortAdapter) outcomeMessage(effortID string, o *primary.DeliveryOutcome) string {
	switch o.Kind {
	case primary.OutcomeNotRequired:
		return fmt.Sprintf("Material %s not required for this effort.", o.Commodity)
	case primary.OutcomeFulfilled:
		return a.printer.Sprintf("Delivered %d units of %s. Requirement fulfilled and removed from the list.", o.Amount, o.Commodity)
	case primary.OutcomePartiallyDelivered:
		return a.printer.Sprintf("Delivered %d units of %s. Remaining: %d", o.Amount, o.Commodity, o.Remaining)
	case primary.OutcomeEffortCompleted:
		return a.heading.Sprintf("All materials delivered! Marking effort %s as completed.", effortID)
	default:
		return fmt.Sprintf("Unknown outcome %q for %s.", o.Kind, o.Commodity)
	}
}

func (a *EffortAdapter) printSkipped(skipped []string) {
	for _, fragment := range skipped {
		fmt.Fprintln(a.out, a.warn.Sprintf("Ignored unreadable text: %q", fragment))
	}
}

// userFacing maps service errors onto the messages users see. Missing and
// completed efforts share one message.
func userFacing(err error) error {
	switch {
	case errors.Is(err, coreeffort.ErrEffortNotFound), errors.Is(err, coreeffort.ErrEffortAlreadyCompleted):
		return &UserError{Message: MsgUnavailable, Err: err}
	case errors.Is(err, secondary.ErrStorageWrite):
		return &UserError{Message: MsgSaveFailed, Err: err}
	default:
		return err
	}
}
