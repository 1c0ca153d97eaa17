package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/dberrors"
)

// InstitutionRepository handles database operations for institutions
type InstitutionRepository struct {
	db *pgxpool.Pool
}

// NewInstitutionRepository creates a new InstitutionRepository
func NewInstitutionRepository(db *pgxpool.Pool) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// GetByID retrieves an institution by ID
func (r *InstitutionRepository) GetByID(ctx context.Context, id int64) (*models.Institution, error) {
	query := squirrel.Select("id", "name", "code", "created_at").
		From("institutions").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var inst models.Institution
	err = r.db.QueryRow(ctx, sql, args...).Scan(&inst.ID, &inst.Name, &inst.Code, &inst.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstitutionNotFound
		}
		return nil, wrapDBError(err, "error querying institution")
	}

	return &inst, nil
}

// GetByCode retrieves an institution by its unique code
func (r *InstitutionRepository) GetByCode(ctx context.Context, code string) (*models.Institution, error) {
	query := squirrel.Select("id", "name", "code", "created_at").
		From("institutions").
		Where("code = ?", code).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var inst models.Institution
	err = r.db.QueryRow(ctx, sql, args...).Scan(&inst.ID, &inst.Name, &inst.Code, &inst.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstitutionNotFound
		}
		return nil, wrapDBError(err, "error querying institution")
	}

	return &inst, nil
}

// Create inserts a new institution
func (r *InstitutionRepository) Create(ctx context.Context, inst *models.Institution) error {
	query := squirrel.Insert("institutions").
		Columns("name", "code").
		Values(inst.Name, inst.Code).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&inst.ID, &inst.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "institutions_code_key") {
			return apperrors.NewConflictError("institution code already exists")
		}
		return wrapDBError(err, "error inserting institution")
	}

	return nil
}
