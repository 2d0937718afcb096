package notify

import (
	"fmt"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// Event types used by the services when dispatching operator alerts.
const (
	EventOperationSettled = "operation_settled"
	EventAwaitingFreebet  = "awaiting_freebet"
	EventExportFinished   = "export_finished"
)

// FormatSettlement builds the title and body for an operation-settled alert.
// netProfit is the house profit after any partner commission.
func FormatSettlement(op domain.Operation, netProfit float64) (title, message string) {
	outcome := "green"
	if netProfit < 0 {
		outcome = "red"
	}
	title = fmt.Sprintf("Operation settled: %s (%s)", op.Name, outcome)
	message = fmt.Sprintf("Strategy: %s\nInvested: %.2f\nNet profit: %.2f",
		op.Strategy, op.Invested, netProfit)
	if len(op.PartnerIDs) > 0 {
		message += fmt.Sprintf("\nPartners: %d (commission %.1f%%)", len(op.PartnerIDs), op.Commission)
	}
	return title, message
}

// FormatAwaitingFreebet builds the alert sent when a qualifying bet resolves
// and the operation starts waiting for the promotional credit.
func FormatAwaitingFreebet(op domain.Operation) (title, message string) {
	title = fmt.Sprintf("Awaiting freebet: %s", op.Name)
	message = fmt.Sprintf("Strategy: %s\nThe qualifying phase resolved; register the promotional credit when granted.", op.Strategy)
	return title, message
}

// FormatExport builds the alert sent after a cold-storage export run.
func FormatExport(count int64, path string) (title, message string) {
	title = "Export finished"
	message = fmt.Sprintf("Archived %d settled operations.", count)
	if path != "" {
		message += "\nObject: " + path
	}
	return title, message
}
