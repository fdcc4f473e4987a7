package books

import (
	"testing"
	"time"

	"github.com/ledgerworks/bookkeeper/internal/models"
)

func TestBuildLedgerRunningBalance(t *testing.T) {
	txns := []models.Transaction{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Debit: 100, Credit: 0},
		{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Debit: 0, Credit: 40},
	}

	entries := BuildLedger(txns, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))

	if len(entries) != 2 {
		t.Fatalf("BuildLedger() returned %d entries, expected 2", len(entries))
	}
	if entries[0].Balance != 100 {
		t.Errorf("entries[0].Balance = %v, expected 100", entries[0].Balance)
	}
	if entries[1].Balance != 60 {
		t.Errorf("entries[1].Balance = %v, expected 60", entries[1].Balance)
	}
}

func TestBuildLedgerAgeDays(t *testing.T) {
	txns := []models.Transaction{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Debit: 10},
		{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Debit: 10},
	}

	entries := BuildLedger(txns, time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC))

	if entries[0].AgeDays != 9 {
		t.Errorf("entries[0].AgeDays = %d, expected 9", entries[0].AgeDays)
	}
	if entries[1].AgeDays != 0 {
		t.Errorf("entries[1].AgeDays = %d, expected 0", entries[1].AgeDays)
	}
}

func TestBuildLedgerBothColumnsOnOneRow(t *testing.T) {
	// A row may carry both a debit and a credit; netting happens here only
	txns := []models.Transaction{
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Debit: 100, Credit: 30},
	}

	entries := BuildLedger(txns, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))

	if entries[0].Debit != 100 || entries[0].Credit != 30 {
		t.Errorf("debit/credit = %v/%v, expected to pass through unchanged", entries[0].Debit, entries[0].Credit)
	}
	if entries[0].Balance != 70 {
		t.Errorf("balance = %v, expected 70", entries[0].Balance)
	}
}

func TestBuildLedgerEmpty(t *testing.T) {
	entries := BuildLedger(nil, time.Now())
	if len(entries) != 0 {
		t.Errorf("BuildLedger(nil) returned %d entries, expected 0", len(entries))
	}
}
