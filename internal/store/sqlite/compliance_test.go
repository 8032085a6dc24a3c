package sqlite

import (
	"context"
	"testing"

	"github.com/sanctumapp/sanctum-server/internal/domain"
)

func TestComplianceStatus_SelfHeals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Drop the singleton row to simulate a pre-ledger database.
	if _, err := s.db.Exec("DELETE FROM compliance_summary"); err != nil {
		t.Fatalf("delete summary: %v", err)
	}

	summary, err := s.ComplianceStatus(ctx)
	if err != nil {
		t.Fatalf("ComplianceStatus: %v", err)
	}
	if summary.TotalVersesStored != 0 || summary.TotalChaptersStored != 0 {
		t.Errorf("fresh ledger not zeroed: %+v", summary)
	}
	if summary.PersonalUseLimit != domain.PersonalUseLimit {
		t.Errorf("PersonalUseLimit = %d, want %d", summary.PersonalUseLimit, domain.PersonalUseLimit)
	}
	if !summary.IsCompliant {
		t.Error("fresh ledger must be compliant")
	}

	// The row must now exist; a second read goes through the fast path.
	summary, err = s.ComplianceStatus(ctx)
	if err != nil {
		t.Fatalf("ComplianceStatus second read: %v", err)
	}
	if summary.LicenseMode != domain.LicenseModePersonal {
		t.Errorf("LicenseMode = %q", summary.LicenseMode)
	}
}

func TestCanStoreChapter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, reason, err := s.CanStoreChapter(ctx, 100)
	if err != nil {
		t.Fatalf("CanStoreChapter: %v", err)
	}
	if !ok || reason != "" {
		t.Errorf("expected allowed on empty ledger, got ok=%v reason=%q", ok, reason)
	}

	// Exactly the limit is allowed.
	ok, _, err = s.CanStoreChapter(ctx, domain.PersonalUseLimit)
	if err != nil {
		t.Fatalf("CanStoreChapter at limit: %v", err)
	}
	if !ok {
		t.Error("storing exactly the limit must be allowed")
	}

	// One more than the limit is not.
	ok, reason, err = s.CanStoreChapter(ctx, domain.PersonalUseLimit+1)
	if err != nil {
		t.Fatalf("CanStoreChapter over limit: %v", err)
	}
	if ok {
		t.Error("expected refusal above the limit")
	}
	if reason == "" {
		t.Error("refusal must carry a reason")
	}
}

func TestCheckCompliance(t *testing.T) {
	tests := []struct {
		name       string
		stored     int
		additional int
		wantOK     bool
	}{
		{"empty ledger", 0, 21, true},
		{"fits exactly", 479, 21, true},
		{"would exceed", 495, 10, false},
		{"already at limit", 500, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &domain.ComplianceSummary{
				TotalVersesStored: tt.stored,
				PersonalUseLimit:  domain.PersonalUseLimit,
				IsCompliant:       tt.stored <= domain.PersonalUseLimit,
			}
			ok, reason := checkCompliance(c, tt.additional)
			if ok != tt.wantOK {
				t.Errorf("checkCompliance(%d, %d) = %v, want %v", tt.stored, tt.additional, ok, tt.wantOK)
			}
			if !ok && reason == "" {
				t.Error("refusal must carry a reason")
			}
		})
	}
}

func TestCheckCompliance_OverLimitLedger(t *testing.T) {
	// A ledger that somehow drifted past the limit reads as non-compliant
	// and refuses everything.
	c := &domain.ComplianceSummary{
		TotalVersesStored: 510,
		PersonalUseLimit:  500,
		IsCompliant:       false,
	}
	ok, reason := checkCompliance(c, 0)
	if ok {
		t.Error("non-compliant ledger must refuse")
	}
	if reason == "" {
		t.Error("refusal must carry a reason")
	}
}
