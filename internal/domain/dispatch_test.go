package domain

import (
	"errors"
	"testing"
)

func TestAggregateOutcomesAllSuccess(t *testing.T) {
	t.Parallel()

	outcomes := []DeliveryOutcome{
		{Recipient: "a@medpredict.io", TransactionID: "tx-1"},
		{Recipient: "b@medpredict.io", TransactionID: "tx-2"},
	}

	result := AggregateOutcomes(outcomes)
	if !result.Success {
		t.Fatal("Success = false, want true")
	}
	if result.SentCount != 2 {
		t.Fatalf("SentCount = %d, want 2", result.SentCount)
	}
	if result.TotalRecipients != 2 {
		t.Fatalf("TotalRecipients = %d, want 2", result.TotalRecipients)
	}
	if len(result.FailedRecipients) != 0 {
		t.Fatalf("FailedRecipients = %v, want empty", result.FailedRecipients)
	}
	if result.TransactionID != "tx-1" {
		t.Fatalf("TransactionID = %q, want tx-1", result.TransactionID)
	}
	if result.Message != "All notifications sent successfully" {
		t.Fatalf("Message = %q", result.Message)
	}
}

func TestAggregateOutcomesPartialFailure(t *testing.T) {
	t.Parallel()

	outcomes := []DeliveryOutcome{
		{Recipient: "a@medpredict.io", TransactionID: "tx-1"},
		{Recipient: "b@medpredict.io", Err: errors.New("provider unavailable")},
		{Recipient: "c@medpredict.io", TransactionID: "tx-3"},
	}

	result := AggregateOutcomes(outcomes)
	if result.Success {
		t.Fatal("Success = true, want false")
	}
	if result.SentCount != 2 {
		t.Fatalf("SentCount = %d, want 2", result.SentCount)
	}
	if len(result.FailedRecipients) != 1 || result.FailedRecipients[0] != "b@medpredict.io" {
		t.Fatalf("FailedRecipients = %v, want [b@medpredict.io]", result.FailedRecipients)
	}
	if result.SentCount+len(result.FailedRecipients) != result.TotalRecipients {
		t.Fatal("aggregate invariant violated")
	}
}

func TestAggregateOutcomesEmpty(t *testing.T) {
	t.Parallel()

	result := AggregateOutcomes(nil)
	if !result.Success {
		t.Fatal("Success = false, want true for zero recipients")
	}
	if result.SentCount != 0 || result.TotalRecipients != 0 {
		t.Fatalf("counts = %d/%d, want 0/0", result.SentCount, result.TotalRecipients)
	}
	if result.FailedRecipients == nil || len(result.FailedRecipients) != 0 {
		t.Fatalf("FailedRecipients = %v, want empty non-nil slice", result.FailedRecipients)
	}
}
