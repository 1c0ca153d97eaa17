package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/kutluay/electivehub/internal/app/models"
	appRepos "github.com/kutluay/electivehub/internal/app/repositories"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/auth"
)

// CreateDefaultData seeds a demo institution with one staff account, two
// student accounts and a published sample pack so a fresh environment is
// usable immediately. Existing rows are left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	institutionRepo := appRepos.NewInstitutionRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)
	packRepo := appRepos.NewPackRepository(dbPool)
	offeringRepo := appRepos.NewOfferingRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	demo := &appModels.Institution{Name: "Demo University", Code: "DEMO"}
	err := institutionRepo.Create(ctx, demo)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Msg("Error creating demo institution")
			return errors.Join(finalErr, err)
		}
		existing, errGet := institutionRepo.GetByCode(ctx, "DEMO")
		if errGet != nil {
			lgr.Error().Err(errGet).Msg("Error getting existing demo institution")
			return errors.Join(finalErr, errGet)
		}
		// Institution already seeded; assume the rest is in place too.
		lgr.Debug().Int64("institutionId", existing.ID).Msg("Demo institution already exists, skipping seed")
		return nil
	}

	users := []struct {
		email     string
		firstName string
		lastName  string
		role      appModels.RoleType
	}{
		{"staff@demo.edu", "Deniz", "Aksoy", appModels.RoleStaff},
		{"student1@demo.edu", "Elif", "Kaya", appModels.RoleStudent},
		{"student2@demo.edu", "Mert", "Demir", appModels.RoleStudent},
	}

	passwordHash, err := auth.HashPassword("changeme123")
	if err != nil {
		return err
	}

	for _, u := range users {
		user := &appModels.User{
			InstitutionID: demo.ID,
			Email:         u.email,
			Password:      passwordHash,
			FirstName:     u.firstName,
			LastName:      u.lastName,
			RoleType:      u.role,
		}
		if err := userRepo.Create(ctx, user); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Error().Err(err).Str("email", u.email).Msg("Error creating demo user")
			finalErr = errors.Join(finalErr, err)
		}
	}

	pack := &appModels.Pack{
		InstitutionID: demo.ID,
		Name:          "Spring Electives",
		Kind:          appModels.PackKindCourse,
		MaxSelections: 2,
		Deadline:      time.Now().AddDate(0, 1, 0),
	}
	if err := packRepo.Create(ctx, pack); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo pack")
		return errors.Join(finalErr, err)
	}

	offerings := []appModels.Offering{
		{PackID: pack.ID, Kind: appModels.OfferingKindCourse, Name: "Introduction to Robotics", Code: "ROB101", MaxCapacity: 30},
		{PackID: pack.ID, Kind: appModels.OfferingKindCourse, Name: "Game Design", Code: "GD201", MaxCapacity: 25},
		{PackID: pack.ID, Kind: appModels.OfferingKindCourse, Name: "Data Visualization", Code: "DV301", MaxCapacity: 20},
	}
	for i := range offerings {
		if err := offeringRepo.Create(ctx, &offerings[i]); err != nil {
			lgr.Error().Err(err).Str("code", offerings[i].Code).Msg("Error creating demo offering")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if _, err := packRepo.Transition(ctx, pack.ID, appModels.PackStatusPublished); err != nil {
		lgr.Error().Err(err).Msg("Error publishing demo pack")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Int64("institutionId", demo.ID).Msg("Default data created")
	}
	return finalErr
}
