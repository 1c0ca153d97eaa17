package repositories

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/dberrors"
)

// Repositories holds all the repository instances
type Repositories struct {
	InstitutionRepository *InstitutionRepository
	UserRepository        *UserRepository
	TokenRepository       *TokenRepository
	PackRepository        *PackRepository
	OfferingRepository    *OfferingRepository
	SelectionRepository   *SelectionRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		InstitutionRepository: NewInstitutionRepository(db),
		UserRepository:        NewUserRepository(db),
		TokenRepository:       NewTokenRepository(db),
		PackRepository:        NewPackRepository(db),
		OfferingRepository:    NewOfferingRepository(db),
		SelectionRepository:   NewSelectionRepository(db),
	}
}

// wrapDBError classifies a database failure. Store outages surface as the
// retryable DataUnavailable kind; everything else stays a plain wrapped
// error. Callers depending on occupancy must never read an outage as
// "not full".
func wrapDBError(err error, op string) error {
	if dberrors.IsUnavailable(err) {
		return apperrors.NewDataUnavailableError(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
