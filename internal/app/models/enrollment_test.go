package models

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from EnrollmentStatus
		to   EnrollmentStatus
		want bool
	}{
		{"pending to payment_pending", EnrollmentPending, EnrollmentPaymentPending, true},
		{"pending to accepted", EnrollmentPending, EnrollmentAccepted, true},
		{"pending to rejected", EnrollmentPending, EnrollmentRejected, true},
		{"payment_pending to accepted", EnrollmentPaymentPending, EnrollmentAccepted, true},
		{"payment_pending to rejected", EnrollmentPaymentPending, EnrollmentRejected, false},
		{"payment_pending back to pending", EnrollmentPaymentPending, EnrollmentPending, false},
		{"rejected to pending", EnrollmentRejected, EnrollmentPending, true},
		{"rejected to accepted", EnrollmentRejected, EnrollmentAccepted, false},
		{"accepted has no outgoing transitions", EnrollmentAccepted, EnrollmentPending, false},
		{"accepted to rejected", EnrollmentAccepted, EnrollmentRejected, false},
		{"self transition", EnrollmentPending, EnrollmentPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParseEnrollmentStatus(t *testing.T) {
	for _, valid := range []string{"pending", "payment_pending", "accepted", "rejected"} {
		if _, err := ParseEnrollmentStatus(valid); err != nil {
			t.Errorf("ParseEnrollmentStatus(%q) returned error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "PENDING", "cancelled", "paid"} {
		if _, err := ParseEnrollmentStatus(invalid); err == nil {
			t.Errorf("ParseEnrollmentStatus(%q) expected error, got nil", invalid)
		}
	}
}

func TestAcceptGuard(t *testing.T) {
	screenshot := "https://cdn.example.com/proof.png"
	empty := ""

	tests := []struct {
		name       string
		screenshot *string
		payment    PaymentStatus
		want       bool
	}{
		{"screenshot and completed payment", &screenshot, PaymentCompleted, true},
		{"no screenshot", nil, PaymentCompleted, false},
		{"empty screenshot", &empty, PaymentCompleted, false},
		{"payment still pending", &screenshot, PaymentPending, false},
		{"payment failed", &screenshot, PaymentFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Enrollment{PaymentScreenshot: tt.screenshot, PaymentStatus: tt.payment}
			if got := e.AcceptGuard(); got != tt.want {
				t.Errorf("AcceptGuard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanCancelAndUnenroll(t *testing.T) {
	pending := Enrollment{Status: EnrollmentPending}
	if !pending.CanCancel() {
		t.Error("pending enrollment should be cancellable")
	}
	if pending.CanUnenroll() {
		t.Error("pending enrollment should not be unenrollable")
	}

	accepted := Enrollment{Status: EnrollmentAccepted}
	if accepted.CanCancel() {
		t.Error("accepted enrollment should not be cancellable")
	}
	if !accepted.CanUnenroll() {
		t.Error("accepted enrollment should be unenrollable")
	}

	paymentPending := Enrollment{Status: EnrollmentPaymentPending}
	if paymentPending.CanCancel() {
		t.Error("payment_pending enrollment should not be cancellable")
	}
}

func TestResetForResubmission(t *testing.T) {
	txID := "TX-123"
	method := "bank_transfer"
	screenshot := "https://cdn.example.com/proof.png"
	message := "insufficient documentation"
	passURL := "https://cdn.example.com/pass.png"
	now := time.Now()
	managerID := int64(7)
	oldApplied := now.Add(-72 * time.Hour)

	e := Enrollment{
		Status:            EnrollmentRejected,
		PaymentStatus:     PaymentCompleted,
		TransactionID:     &txID,
		PaymentMethod:     &method,
		PaymentScreenshot: &screenshot,
		Message:           &message,
		AppliedAt:         oldApplied,
		RespondedAt:       &now,
		RespondedBy:       &managerID,
		PaidAt:            &now,
		CourseStartDate:   &now,
		PassURL:           &passURL,
	}

	e.ResetForResubmission()

	if e.Status != EnrollmentPending {
		t.Errorf("Status = %q, want %q", e.Status, EnrollmentPending)
	}
	if e.PaymentStatus != PaymentPending {
		t.Errorf("PaymentStatus = %q, want %q", e.PaymentStatus, PaymentPending)
	}
	if e.TransactionID != nil || e.PaymentMethod != nil || e.PaymentScreenshot != nil {
		t.Error("payment fields should be cleared")
	}
	if e.Message != nil || e.RespondedAt != nil || e.RespondedBy != nil {
		t.Error("decision fields should be cleared")
	}
	if e.PaidAt != nil || e.CourseStartDate != nil || e.PassURL != nil {
		t.Error("acceptance fields should be cleared")
	}
	if !e.AppliedAt.After(oldApplied) {
		t.Error("AppliedAt should be refreshed")
	}
}
