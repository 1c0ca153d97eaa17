package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/db"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
)

var packColumns = []string{
	"id", "institution_id", "name", "kind", "status",
	"max_selections", "deadline", "created_at", "updated_at",
}

// PackRepository handles database operations for elective packs
type PackRepository struct {
	db *pgxpool.Pool
}

// NewPackRepository creates a new PackRepository
func NewPackRepository(db *pgxpool.Pool) *PackRepository {
	return &PackRepository{db: db}
}

func scanPack(row pgx.Row) (*models.Pack, error) {
	var pack models.Pack
	err := row.Scan(
		&pack.ID,
		&pack.InstitutionID,
		&pack.Name,
		&pack.Kind,
		&pack.Status,
		&pack.MaxSelections,
		&pack.Deadline,
		&pack.CreatedAt,
		&pack.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pack, nil
}

// GetByID retrieves a pack by ID
func (r *PackRepository) GetByID(ctx context.Context, id int64) (*models.Pack, error) {
	query := squirrel.Select(packColumns...).
		From("packs").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	pack, err := scanPack(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPackNotFound
		}
		return nil, wrapDBError(err, "error querying pack")
	}
	return pack, nil
}

// ListByInstitution retrieves packs for one institution, newest first.
// Draft packs are excluded unless includeDrafts is set (students never see
// unpublished packs).
func (r *PackRepository) ListByInstitution(ctx context.Context, institutionID int64, includeDrafts bool, offset uint64, limit int) ([]*models.Pack, int64, error) {
	base := squirrel.Select().
		From("packs").
		Where("institution_id = ?", institutionID).
		PlaceholderFormat(squirrel.Dollar)
	if !includeDrafts {
		base = base.Where(squirrel.NotEq{"status": models.PackStatusDraft})
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapDBError(err, "error counting packs")
	}

	listSQL, listArgs, err := base.Columns(packColumns...).
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, wrapDBError(err, "error querying packs")
	}
	defer rows.Close()

	var packs []*models.Pack
	for rows.Next() {
		pack, err := scanPack(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		packs = append(packs, pack)
	}

	return packs, total, nil
}

// Create inserts a new pack in DRAFT status
func (r *PackRepository) Create(ctx context.Context, pack *models.Pack) error {
	query := squirrel.Insert("packs").
		Columns("institution_id", "name", "kind", "status", "max_selections", "deadline").
		Values(pack.InstitutionID, pack.Name, pack.Kind, models.PackStatusDraft, pack.MaxSelections, pack.Deadline).
		Suffix("RETURNING id, status, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&pack.ID, &pack.Status, &pack.CreatedAt, &pack.UpdatedAt)
	if err != nil {
		return wrapDBError(err, "error inserting pack")
	}
	return nil
}

// Update rewrites the mutable pack attributes (name, max_selections,
// deadline). Status moves through UpdateStatus only.
func (r *PackRepository) Update(ctx context.Context, pack *models.Pack) error {
	query := squirrel.Update("packs").
		Set("name", pack.Name).
		Set("max_selections", pack.MaxSelections).
		Set("deadline", pack.Deadline).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", pack.ID).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&pack.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrPackNotFound
		}
		return wrapDBError(err, "error updating pack")
	}
	return nil
}

// Transition moves the pack to the target status inside its own
// transaction. See UpdateStatus for the locking rules.
func (r *PackRepository) Transition(ctx context.Context, packID int64, target models.PackStatus) (*models.Pack, error) {
	var pack *models.Pack
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		pack, err = r.UpdateStatus(ctx, tx, packID, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pack, nil
}

// UpdateStatus transitions the pack lifecycle under a row lock so two
// concurrent staff transitions cannot interleave into an illegal state.
func (r *PackRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, packID int64, target models.PackStatus) (*models.Pack, error) {
	lockSQL, lockArgs, err := squirrel.Select(packColumns...).
		From("packs").
		Where("id = ?", packID).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	pack, err := scanPack(tx.QueryRow(ctx, lockSQL, lockArgs...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPackNotFound
		}
		return nil, wrapDBError(err, "error locking pack")
	}

	if pack.Status == target {
		return pack, nil
	}
	if !pack.CanTransitionTo(target) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidPackTransition,
			fmt.Sprintf("pack cannot move from %s to %s", pack.Status, target))
	}

	updateSQL, updateArgs, err := squirrel.Update("packs").
		Set("status", target).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", packID).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	if err := tx.QueryRow(ctx, updateSQL, updateArgs...).Scan(&pack.UpdatedAt); err != nil {
		return nil, wrapDBError(err, "error updating pack status")
	}
	pack.Status = target

	return pack, nil
}
