package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/courseport/courseport/internal/app/models"
	appRepos "github.com/courseport/courseport/internal/app/repositories"
	"github.com/courseport/courseport/internal/config"
	"github.com/courseport/courseport/internal/pkg/apperrors"
	pkgAuth "github.com/courseport/courseport/internal/pkg/auth"
)

// CreateDefaultData creates the default manager account if it doesn't
// exist. The platform is unusable without at least one manager who can
// review enrollments.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	email := cfg.Seed.ManagerEmail
	password := cfg.Seed.ManagerPassword
	if email == "" || password == "" {
		lgr.Info().Msg("No seed manager configured, skipping default data")
		return nil
	}

	lgr.Info().Str("email", email).Msg("Checking/Creating default manager account...")

	hashed, err := pkgAuth.HashPassword(password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing seed manager password")
		return err
	}

	manager := &appModels.User{
		Email:                email,
		Password:             hashed,
		FirstName:            "Default",
		LastName:             "Manager",
		Role:                 appModels.RoleManager,
		CanManageEnrollments: true,
		IsActive:             true,
	}

	err = userRepo.Create(ctx, manager)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Info().Str("email", email).Msg("Default manager already exists")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default manager")
		return err
	}

	lgr.Info().Int64("userID", manager.ID).Msg("Default manager created")
	return nil
}
