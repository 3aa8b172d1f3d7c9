package domain

import "fmt"

// DeliveryOutcome captures one recipient's trigger result. A failed
// outcome never affects sibling deliveries.
type DeliveryOutcome struct {
	Recipient     string
	TransactionID string
	Err           error
}

func (o DeliveryOutcome) Succeeded() bool { return o.Err == nil }

// DispatchResult aggregates per-recipient outcomes for one dispatch call.
// Invariant: SentCount + len(FailedRecipients) == TotalRecipients.
type DispatchResult struct {
	Success          bool
	SentCount        int
	TotalRecipients  int
	FailedRecipients []string
	TransactionID    string
	Message          string
	Outcomes         []DeliveryOutcome
}

// AggregateOutcomes folds per-recipient outcomes into a DispatchResult.
func AggregateOutcomes(outcomes []DeliveryOutcome) *DispatchResult {
	result := &DispatchResult{
		TotalRecipients:  len(outcomes),
		FailedRecipients: make([]string, 0),
		Outcomes:         outcomes,
	}

	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			result.SentCount++
			if result.TransactionID == "" {
				result.TransactionID = outcome.TransactionID
			}
			continue
		}
		result.FailedRecipients = append(result.FailedRecipients, outcome.Recipient)
	}

	result.Success = len(result.FailedRecipients) == 0
	if result.Success {
		result.Message = "All notifications sent successfully"
	} else {
		result.Message = fmt.Sprintf("Failed to send to %d recipients", len(result.FailedRecipients))
	}

	return result
}
