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

// fakeApplicationStore is an in-memory ApplicationStore.
type fakeApplicationStore struct {
	applications map[int64]*models.Application
	nextID       int64
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{applications: make(map[int64]*models.Application), nextID: 1}
}

func (f *fakeApplicationStore) Create(_ context.Context, a *models.Application) error {
	for _, existing := range f.applications {
		if existing.CandidateID == a.CandidateID && existing.TargetType == a.TargetType && existing.TargetID == a.TargetID {
			return apperrors.ErrAlreadyApplied
		}
	}
	a.ID = f.nextID
	f.nextID++
	copied := *a
	f.applications[a.ID] = &copied
	return nil
}

func (f *fakeApplicationStore) GetByID(_ context.Context, id int64) (*models.Application, error) {
	a, ok := f.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeApplicationStore) ListByCandidate(_ context.Context, candidateID int64) ([]*models.Application, error) {
	var out []*models.Application
	for _, a := range f.applications {
		if a.CandidateID == candidateID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) List(_ context.Context, filter repositories.ApplicationFilter) ([]*models.Application, int64, error) {
	var out []*models.Application
	for _, a := range f.applications {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.TargetType != "" && a.TargetType != filter.TargetType {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (f *fakeApplicationStore) Update(_ context.Context, a *models.Application) error {
	if _, ok := f.applications[a.ID]; !ok {
		return apperrors.ErrApplicationNotFound
	}
	copied := *a
	f.applications[a.ID] = &copied
	return nil
}

func (f *fakeApplicationStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.applications[id]; !ok {
		return apperrors.ErrApplicationNotFound
	}
	delete(f.applications, id)
	return nil
}

type fakeInternshipGetter struct {
	internships map[int64]*models.Internship
}

func (f *fakeInternshipGetter) GetByID(_ context.Context, id int64) (*models.Internship, error) {
	i, ok := f.internships[id]
	if !ok {
		return nil, apperrors.ErrInternshipNotFound
	}
	return i, nil
}

func newTestApplicationService(t *testing.T) (ApplicationService, *fakeApplicationStore, *recordingNotifier) {
	t.Helper()

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(240 * time.Hour)
	internships := &fakeInternshipGetter{internships: map[int64]*models.Internship{
		1: {ID: 1, Title: "Backend Intern", Company: "Acme", IsActive: true, ApplyDeadline: &future},
		2: {ID: 2, Title: "Closed Intern", Company: "Acme", IsActive: true, ApplyDeadline: &past},
		3: {ID: 3, Title: "Paused Intern", Company: "Acme", IsActive: false},
	}}
	courses := &fakeCourseGetter{courses: map[int64]*models.Course{
		1: {ID: 1, Title: "Distributed Systems", IsActive: true},
	}}
	users := &fakeUserGetter{users: map[int64]*models.User{
		10: {ID: 10, Email: "asha@example.com", FirstName: "Asha", LastName: "Verma"},
	}}

	store := newFakeApplicationStore()
	notifier := &recordingNotifier{}
	svc := NewApplicationService(store, internships, courses, users, notifier, zerolog.Nop())
	return svc, store, notifier
}

func TestApply(t *testing.T) {
	svc, _, notifier := newTestApplicationService(t)
	ctx := context.Background()

	message := "Available from October"
	application, err := svc.Apply(ctx, 10, &dto.CreateApplicationRequest{TargetType: "INTERNSHIP", TargetID: 1, Message: &message})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if application.Status != models.ApplicationPending {
		t.Errorf("Status = %q, want pending", application.Status)
	}
	if application.Message == nil || *application.Message != message {
		t.Errorf("Message = %v, want %q", application.Message, message)
	}
	if len(notifier.events) != 1 || notifier.events[0].Type != notify.EventApplicationReceived {
		t.Errorf("expected one application_received event, got %+v", notifier.events)
	}
	if notifier.events[0].TargetTitle != "Backend Intern" {
		t.Errorf("event TargetTitle = %q, want internship title", notifier.events[0].TargetTitle)
	}

	if _, err := svc.Apply(ctx, 10, &dto.CreateApplicationRequest{TargetType: "INTERNSHIP", TargetID: 1}); !errors.Is(err, apperrors.ErrAlreadyApplied) {
		t.Errorf("duplicate Apply() error = %v, want ErrAlreadyApplied", err)
	}
}

func TestApplyClosedTargets(t *testing.T) {
	svc, _, _ := newTestApplicationService(t)
	ctx := context.Background()

	if _, err := svc.Apply(ctx, 10, &dto.CreateApplicationRequest{TargetType: "INTERNSHIP", TargetID: 2}); err == nil {
		t.Error("Apply() past deadline expected error, got nil")
	}
	if _, err := svc.Apply(ctx, 10, &dto.CreateApplicationRequest{TargetType: "INTERNSHIP", TargetID: 3}); err == nil {
		t.Error("Apply() to inactive internship expected error, got nil")
	}
	if _, err := svc.Apply(ctx, 10, &dto.CreateApplicationRequest{TargetType: "INTERNSHIP", TargetID: 42}); !errors.Is(err, apperrors.ErrInternshipNotFound) {
		t.Errorf("Apply() to unknown internship error = %v, want ErrInternshipNotFound", err)
	}
}

func TestApplyToCourse(t *testing.T) {
	svc, _, _ := newTestApplicationService(t)

	application, err := svc.Apply(context.Background(), 10, &dto.CreateApplicationRequest{TargetType: "COURSE", TargetID: 1})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if application.TargetType != models.TargetCourse {
		t.Errorf("TargetType = %q, want COURSE", application.TargetType)
	}
}

func TestReview(t *testing.T) {
	svc, _, notifier := newTestApplicationService(t)
	ctx := context.Background()

	application, err := svc.Apply(ctx, 10, &dto.CreateApplicationRequest{TargetType: "INTERNSHIP", TargetID: 1})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	reviewed, err := svc.Review(ctx, 99, application.ID, true, "welcome aboard")
	if err != nil {
		t.Fatalf("Review() error: %v", err)
	}
	if reviewed.Status != models.ApplicationAccepted {
		t.Errorf("Status = %q, want accepted", reviewed.Status)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != 99 {
		t.Error("ReviewedBy should record the deciding manager")
	}

	last := notifier.events[len(notifier.events)-1]
	if last.Type != notify.EventApplicationReviewed || last.Status != string(models.ApplicationAccepted) {
		t.Errorf("unexpected review event: %+v", last)
	}

	// A decided application cannot be re-reviewed.
	if _, err := svc.Review(ctx, 99, application.ID, false, ""); err == nil {
		t.Error("second Review() expected error, got nil")
	}
}

func TestWithdraw(t *testing.T) {
	svc, store, _ := newTestApplicationService(t)
	ctx := context.Background()

	application, err := svc.Apply(ctx, 10, &dto.CreateApplicationRequest{TargetType: "INTERNSHIP", TargetID: 1})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	if err := svc.Withdraw(ctx, 11, application.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign Withdraw() error = %v, want ErrPermissionDenied", err)
	}

	if err := svc.Withdraw(ctx, 10, application.ID); err != nil {
		t.Fatalf("Withdraw() error: %v", err)
	}
	if _, err := store.GetByID(ctx, application.ID); !errors.Is(err, apperrors.ErrApplicationNotFound) {
		t.Error("withdrawn application should be gone")
	}
}

func TestWithdrawAfterReview(t *testing.T) {
	svc, _, _ := newTestApplicationService(t)
	ctx := context.Background()

	application, err := svc.Apply(ctx, 10, &dto.CreateApplicationRequest{TargetType: "INTERNSHIP", TargetID: 1})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if _, err := svc.Review(ctx, 99, application.ID, false, ""); err != nil {
		t.Fatalf("Review() error: %v", err)
	}

	if err := svc.Withdraw(ctx, 10, application.ID); err == nil {
		t.Error("Withdraw() of reviewed application expected error, got nil")
	}
}
