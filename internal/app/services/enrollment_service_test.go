package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/app/models"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/pkg/apperrors"
	"github.com/courseport/courseport/internal/pkg/notify"
)

// fakeEnrollmentStore is an in-memory EnrollmentStore.
type fakeEnrollmentStore struct {
	enrollments map[int64]*models.Enrollment
	nextID      int64
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrollments: make(map[int64]*models.Enrollment), nextID: 1}
}

func (f *fakeEnrollmentStore) Create(_ context.Context, e *models.Enrollment) error {
	for _, existing := range f.enrollments {
		if existing.CandidateID == e.CandidateID && existing.CourseID == e.CourseID {
			return apperrors.ErrAlreadyRequested
		}
		if e.TransactionID != nil && existing.TransactionID != nil && *existing.TransactionID == *e.TransactionID {
			return apperrors.ErrTransactionIDInUse
		}
	}
	e.ID = f.nextID
	f.nextID++
	copied := *e
	f.enrollments[e.ID] = &copied
	return nil
}

func (f *fakeEnrollmentStore) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEnrollmentStore) GetByCandidateAndCourse(_ context.Context, candidateID, courseID int64) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.CandidateID == candidateID && e.CourseID == courseID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (f *fakeEnrollmentStore) ListByCandidate(_ context.Context, candidateID int64) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, e := range f.enrollments {
		if e.CandidateID == candidateID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) List(_ context.Context, filter repositories.EnrollmentFilter) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, e := range f.enrollments {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.CourseID > 0 && e.CourseID != filter.CourseID {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEnrollmentStore) Update(_ context.Context, e *models.Enrollment) error {
	if _, ok := f.enrollments[e.ID]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	copied := *e
	f.enrollments[e.ID] = &copied
	return nil
}

func (f *fakeEnrollmentStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.enrollments[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	delete(f.enrollments, id)
	return nil
}

type fakeCourseGetter struct {
	courses map[int64]*models.Course
}

func (f *fakeCourseGetter) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return c, nil
}

type fakeUserGetter struct {
	users map[int64]*models.User
}

func (f *fakeUserGetter) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

type fakePassGenerator struct {
	fail bool
}

func (f *fakePassGenerator) Generate(_ context.Context, enrollmentID, _, _ int64) (string, error) {
	if f.fail {
		return "", errors.New("encoder unavailable")
	}
	return "https://cdn.example.com/passes/pass.png", nil
}

type recordingNotifier struct {
	events []notify.Event
}

func (r *recordingNotifier) Publish(ev notify.Event) {
	r.events = append(r.events, ev)
}

func newTestEnrollmentService(t *testing.T) (EnrollmentService, *fakeEnrollmentStore, *recordingNotifier) {
	t.Helper()

	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	courses := &fakeCourseGetter{courses: map[int64]*models.Course{
		1: {ID: 1, Title: "Distributed Systems", Price: 499, IsActive: true, StartDate: &start},
		2: {ID: 2, Title: "Archived Course", Price: 99, IsActive: false},
		3: {ID: 3, Title: "Self-Paced Go", Price: 199, IsActive: true},
	}}
	users := &fakeUserGetter{users: map[int64]*models.User{
		10: {ID: 10, Email: "asha@example.com", FirstName: "Asha", LastName: "Verma", Role: models.RoleCandidate},
	}}

	store := newFakeEnrollmentStore()
	notifier := &recordingNotifier{}
	svc := NewEnrollmentService(store, courses, users, &fakePassGenerator{}, notifier, zerolog.Nop())
	return svc, store, notifier
}

func TestEnroll(t *testing.T) {
	svc, _, notifier := newTestEnrollmentService(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}
	if enrollment.Status != models.EnrollmentPending {
		t.Errorf("Status = %q, want pending", enrollment.Status)
	}
	if enrollment.PaymentStatus != models.PaymentPending {
		t.Errorf("PaymentStatus = %q, want pending", enrollment.PaymentStatus)
	}
	if enrollment.PaymentAmount != 499 {
		t.Errorf("PaymentAmount = %v, want course price 499", enrollment.PaymentAmount)
	}
	if len(notifier.events) != 1 || notifier.events[0].Type != notify.EventEnrollmentReceived {
		t.Errorf("expected one enrollment_received event, got %+v", notifier.events)
	}

	// A second request for the same course conflicts.
	if _, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1}); !errors.Is(err, apperrors.ErrAlreadyRequested) {
		t.Errorf("duplicate Enroll() error = %v, want ErrAlreadyRequested", err)
	}
}

func TestEnrollInactiveCourse(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(t)

	_, err := svc.Enroll(context.Background(), 10, &dto.CreateEnrollmentRequest{CourseID: 2})
	if err == nil {
		t.Fatal("Enroll() on inactive course expected error, got nil")
	}
}

func TestEnrollWithUpfrontPayment(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(t)

	method := "upi"
	txID := "TX-900"
	screenshot := "https://cdn.example.com/proof.png"
	enrollment, err := svc.Enroll(context.Background(), 10, &dto.CreateEnrollmentRequest{
		CourseID:          1,
		PaymentMethod:     &method,
		TransactionID:     &txID,
		PaymentScreenshot: &screenshot,
	})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}
	if enrollment.PaymentStatus != models.PaymentCompleted {
		t.Errorf("PaymentStatus = %q, want completed", enrollment.PaymentStatus)
	}
	if enrollment.PaidAt == nil {
		t.Error("PaidAt should be set when proof is attached up front")
	}
}

func TestAcceptHappyPath(t *testing.T) {
	svc, _, notifier := newTestEnrollmentService(t)
	ctx := context.Background()

	screenshot := "https://cdn.example.com/proof.png"
	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1, PaymentScreenshot: &screenshot})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	accepted, err := svc.Accept(ctx, 99, enrollment.ID)
	if err != nil {
		t.Fatalf("Accept() error: %v", err)
	}
	if accepted.Status != models.EnrollmentAccepted {
		t.Errorf("Status = %q, want accepted", accepted.Status)
	}
	if accepted.PassURL == nil || *accepted.PassURL == "" {
		t.Error("PassURL should be set after acceptance")
	}
	if accepted.CourseStartDate == nil {
		t.Error("CourseStartDate should be copied from the course")
	}
	if accepted.RespondedBy == nil || *accepted.RespondedBy != 99 {
		t.Error("RespondedBy should record the deciding manager")
	}

	last := notifier.events[len(notifier.events)-1]
	if last.Type != notify.EventEnrollmentAccepted {
		t.Errorf("last event = %q, want enrollment_accepted", last.Type)
	}
}

func TestAcceptCourseWithoutStartDate(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(t)
	ctx := context.Background()

	screenshot := "https://cdn.example.com/proof.png"
	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 3, PaymentScreenshot: &screenshot})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	before := time.Now()
	accepted, err := svc.Accept(ctx, 99, enrollment.ID)
	if err != nil {
		t.Fatalf("Accept() error: %v", err)
	}

	// No published course start date: the enrollment begins at acceptance.
	if accepted.CourseStartDate == nil {
		t.Fatal("CourseStartDate not set for a course without a start date")
	}
	if accepted.CourseStartDate.Before(before) {
		t.Errorf("CourseStartDate = %v, want acceptance time or later", accepted.CourseStartDate)
	}
}

func TestAcceptWithoutProofFails(t *testing.T) {
	svc, store, _ := newTestEnrollmentService(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	if _, err := svc.Accept(ctx, 99, enrollment.ID); !errors.Is(err, apperrors.ErrPaymentProofRequired) {
		t.Errorf("Accept() error = %v, want ErrPaymentProofRequired", err)
	}

	// The record must be left untouched on a failed accept.
	stored, _ := store.GetByID(ctx, enrollment.ID)
	if stored.Status != models.EnrollmentPending {
		t.Errorf("failed accept changed status to %q", stored.Status)
	}
}

func TestAcceptPassFailureDoesNotBlock(t *testing.T) {
	_, store, _ := newTestEnrollmentService(t)
	start := time.Now().Add(240 * time.Hour)
	courses := &fakeCourseGetter{courses: map[int64]*models.Course{
		1: {ID: 1, Title: "Distributed Systems", Price: 499, IsActive: true, StartDate: &start},
	}}
	users := &fakeUserGetter{users: map[int64]*models.User{
		10: {ID: 10, Email: "asha@example.com", FirstName: "Asha", LastName: "Verma"},
	}}
	svc := NewEnrollmentService(store, courses, users, &fakePassGenerator{fail: true}, nil, zerolog.Nop())
	ctx := context.Background()

	screenshot := "https://cdn.example.com/proof.png"
	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1, PaymentScreenshot: &screenshot})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	accepted, err := svc.Accept(ctx, 99, enrollment.ID)
	if err != nil {
		t.Fatalf("Accept() should succeed despite pass failure, got: %v", err)
	}
	if accepted.PassURL != nil {
		t.Error("PassURL should be empty when pass generation fails")
	}
}

func TestApproveThenSubmitPaymentCompletes(t *testing.T) {
	svc, _, notifier := newTestEnrollmentService(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	approved, err := svc.Approve(ctx, 99, enrollment.ID)
	if err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if approved.Status != models.EnrollmentPaymentPending {
		t.Errorf("Status = %q, want payment_pending", approved.Status)
	}

	// Accepting an approved request without payment stays blocked.
	if _, err := svc.Accept(ctx, 99, enrollment.ID); !errors.Is(err, apperrors.ErrPaymentProofRequired) {
		t.Errorf("Accept() before payment error = %v, want ErrPaymentProofRequired", err)
	}

	// Paying an approved request completes the enrollment directly.
	paid, err := svc.SubmitPayment(ctx, 10, enrollment.ID, &dto.SubmitPaymentRequest{
		PaymentMethod:     "upi",
		TransactionID:     "TX-1",
		PaymentScreenshot: "https://cdn.example.com/proof.png",
	})
	if err != nil {
		t.Fatalf("SubmitPayment() error: %v", err)
	}
	if paid.PaymentStatus != models.PaymentCompleted {
		t.Errorf("PaymentStatus = %q, want completed", paid.PaymentStatus)
	}
	if paid.Status != models.EnrollmentAccepted {
		t.Errorf("Status = %q, want accepted", paid.Status)
	}
	if paid.CourseStartDate == nil {
		t.Error("CourseStartDate not set on completion")
	}
	if paid.PassURL == nil {
		t.Error("PassURL not set on completion")
	}

	// Accepted is terminal; a manager accept afterwards is invalid.
	if _, err := svc.Accept(ctx, 99, enrollment.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("Accept() after completion error = %v, want ErrInvalidTransition", err)
	}

	var types []notify.EventType
	for _, ev := range notifier.events {
		types = append(types, ev.Type)
	}
	want := []notify.EventType{
		notify.EventEnrollmentReceived,
		notify.EventPaymentRequested,
		notify.EventPaymentReceived,
		notify.EventEnrollmentAccepted,
	}
	if len(types) != len(want) {
		t.Fatalf("event sequence = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, types[i], want[i])
		}
	}
}

func TestSubmitPaymentOwnershipAndState(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(t)
	ctx := context.Background()

	screenshot := "https://cdn.example.com/proof.png"
	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1, PaymentScreenshot: &screenshot})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	req := &dto.SubmitPaymentRequest{PaymentMethod: "upi", TransactionID: "TX-2", PaymentScreenshot: screenshot}

	if _, err := svc.SubmitPayment(ctx, 11, enrollment.ID, req); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign SubmitPayment() error = %v, want ErrPermissionDenied", err)
	}

	if _, err := svc.Accept(ctx, 99, enrollment.ID); err != nil {
		t.Fatalf("Accept() error: %v", err)
	}
	if _, err := svc.SubmitPayment(ctx, 10, enrollment.ID, req); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("SubmitPayment() on accepted error = %v, want ErrInvalidTransition", err)
	}
}

func TestRejectAndResubmit(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	rejected, err := svc.Reject(ctx, 99, enrollment.ID, "incomplete details")
	if err != nil {
		t.Fatalf("Reject() error: %v", err)
	}
	if rejected.Status != models.EnrollmentRejected {
		t.Errorf("Status = %q, want rejected", rejected.Status)
	}
	if rejected.Message == nil || *rejected.Message != "incomplete details" {
		t.Error("rejection note should be stored")
	}

	// Re-enrolling revives the same row instead of conflicting.
	revived, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1})
	if err != nil {
		t.Fatalf("resubmit Enroll() error: %v", err)
	}
	if revived.ID != enrollment.ID {
		t.Errorf("resubmit created new row %d, want revived %d", revived.ID, enrollment.ID)
	}
	if revived.Status != models.EnrollmentPending {
		t.Errorf("revived Status = %q, want pending", revived.Status)
	}
	if revived.Message != nil {
		t.Error("revived enrollment should not carry the old rejection note")
	}
}

func TestCancelOnlyWhilePending(t *testing.T) {
	svc, store, _ := newTestEnrollmentService(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	if err := svc.Cancel(ctx, 11, enrollment.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign Cancel() error = %v, want ErrPermissionDenied", err)
	}

	if _, err := svc.Approve(ctx, 99, enrollment.ID); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if err := svc.Cancel(ctx, 10, enrollment.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("Cancel() after approval error = %v, want ErrInvalidTransition", err)
	}

	if _, err := store.GetByID(ctx, enrollment.ID); err != nil {
		t.Error("failed cancel must not remove the row")
	}
}

func TestCancelDeletesPendingRow(t *testing.T) {
	svc, store, _ := newTestEnrollmentService(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	if err := svc.Cancel(ctx, 10, enrollment.ID); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if _, err := store.GetByID(ctx, enrollment.ID); !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		t.Error("cancelled enrollment should be gone")
	}

	// The (candidate, course) slot is free again.
	if _, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1}); err != nil {
		t.Errorf("re-enroll after cancel error: %v", err)
	}
}

func TestUnenroll(t *testing.T) {
	svc, store, notifier := newTestEnrollmentService(t)
	ctx := context.Background()

	screenshot := "https://cdn.example.com/proof.png"
	enrollment, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1, PaymentScreenshot: &screenshot})
	if err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	if err := svc.Unenroll(ctx, 99, enrollment.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("Unenroll() of pending error = %v, want ErrInvalidTransition", err)
	}

	if _, err := svc.Accept(ctx, 99, enrollment.ID); err != nil {
		t.Fatalf("Accept() error: %v", err)
	}
	if err := svc.Unenroll(ctx, 99, enrollment.ID); err != nil {
		t.Fatalf("Unenroll() error: %v", err)
	}
	if _, err := store.GetByID(ctx, enrollment.ID); !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		t.Error("unenrolled enrollment should be gone")
	}

	last := notifier.events[len(notifier.events)-1]
	if last.Type != notify.EventUnenrolled {
		t.Errorf("last event = %q, want unenrolled", last.Type)
	}
}

func TestStatusForCourse(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(t)
	ctx := context.Background()

	status, err := svc.StatusForCourse(ctx, 10, 1)
	if err != nil {
		t.Fatalf("StatusForCourse() error: %v", err)
	}
	if status.Enrolled || status.Status != "" {
		t.Errorf("unexpected status for unenrolled candidate: %+v", status)
	}

	if _, err := svc.Enroll(ctx, 10, &dto.CreateEnrollmentRequest{CourseID: 1}); err != nil {
		t.Fatalf("Enroll() error: %v", err)
	}

	status, err = svc.StatusForCourse(ctx, 10, 1)
	if err != nil {
		t.Fatalf("StatusForCourse() error: %v", err)
	}
	if !status.Enrolled || status.Status != string(models.EnrollmentPending) {
		t.Errorf("status = %+v, want enrolled pending", status)
	}
}
