package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/config"
	"github.com/courseport/courseport/internal/middleware"
	"github.com/courseport/courseport/internal/pkg/notify"
)

const jobTimeout = 2 * time.Minute

// Runner schedules the recurring maintenance jobs: expired credential
// cleanup, response cache sweeping and course start reminders.
type Runner struct {
	cron        *cron.Cron
	tokens      *repositories.TokenRepository
	resetCodes  *repositories.PasswordResetRepository
	enrollments *repositories.EnrollmentRepository
	courses     *repositories.CourseRepository
	users       *repositories.UserRepository
	cache       *middleware.ResponseCache
	notifier    notify.Notifier
	cfg         config.Config
	logger      zerolog.Logger
}

// NewRunner creates a job runner. cache and notifier may be nil when the
// corresponding features are disabled.
func NewRunner(
	repos *repositories.Repositories,
	cache *middleware.ResponseCache,
	notifier notify.Notifier,
	cfg *config.Config,
	logger zerolog.Logger,
) *Runner {
	return &Runner{
		cron:        cron.New(),
		tokens:      repos.TokenRepository,
		resetCodes:  repos.PasswordResetRepository,
		enrollments: repos.EnrollmentRepository,
		courses:     repos.CourseRepository,
		users:       repos.UserRepository,
		cache:       cache,
		notifier:    notifier,
		cfg:         *cfg,
		logger:      logger,
	}
}

// Start registers the schedules and starts the cron loop.
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc(r.cfg.Jobs.CleanupSchedule, r.runCleanup); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc(r.cfg.Jobs.ReminderSchedule, r.runReminders); err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info().
		Str("cleanupSchedule", r.cfg.Jobs.CleanupSchedule).
		Str("reminderSchedule", r.cfg.Jobs.ReminderSchedule).
		Msg("Background jobs started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// runCleanup removes expired refresh tokens and reset codes and sweeps the
// response cache.
func (r *Runner) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	tokens, err := r.tokens.DeleteExpiredTokens(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to delete expired refresh tokens")
	}

	codes, err := r.resetCodes.DeleteExpiredCodes(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to delete expired reset codes")
	}

	swept := 0
	if r.cache != nil {
		swept = r.cache.Sweep()
	}

	r.logger.Info().
		Int64("tokens", tokens).
		Int64("resetCodes", codes).
		Int("cacheEntries", swept).
		Msg("Cleanup job finished")
}

// runReminders emails candidates whose accepted course starts in
// cfg.Jobs.ReminderDays days.
func (r *Runner) runReminders() {
	if r.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	from := time.Now().AddDate(0, 0, r.cfg.Jobs.ReminderDays)
	day := from.Truncate(24 * time.Hour)
	enrollments, err := r.enrollments.ListAcceptedStartingBetween(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to list upcoming course starts")
		return
	}

	sent := 0
	for _, e := range enrollments {
		candidate, err := r.users.GetByID(ctx, e.CandidateID)
		if err != nil {
			r.logger.Warn().Err(err).Int64("candidateID", e.CandidateID).Msg("Failed to resolve reminder recipient")
			continue
		}

		courseTitle := ""
		if course, err := r.courses.GetByID(ctx, e.CourseID); err == nil {
			courseTitle = course.Title
		}

		startDate := ""
		if e.CourseStartDate != nil {
			startDate = e.CourseStartDate.Format("January 2, 2006")
		}

		r.notifier.Publish(notify.Event{
			Type:          notify.EventCourseStartReminder,
			ToEmail:       candidate.Email,
			RecipientName: candidate.FullName(),
			CourseTitle:   courseTitle,
			StartDate:     startDate,
			PassURL:       stringValue(e.PassURL),
		})
		sent++
	}

	r.logger.Info().Int("reminders", sent).Msg("Reminder job finished")
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
