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

var offeringColumns = []string{
	"id", "pack_id", "kind", "name", "code", "description",
	"max_capacity", "created_at", "updated_at",
}

// activeStatuses are the selection statuses that claim a seat.
var activeStatuses = []string{
	string(models.SelectionStatusPending),
	string(models.SelectionStatusApproved),
}

// OfferingRepository handles database operations for offerings
type OfferingRepository struct {
	db *pgxpool.Pool
}

// NewOfferingRepository creates a new OfferingRepository
func NewOfferingRepository(db *pgxpool.Pool) *OfferingRepository {
	return &OfferingRepository{db: db}
}

func scanOffering(row pgx.Row) (*models.Offering, error) {
	var off models.Offering
	err := row.Scan(
		&off.ID,
		&off.PackID,
		&off.Kind,
		&off.Name,
		&off.Code,
		&off.Description,
		&off.MaxCapacity,
		&off.CreatedAt,
		&off.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &off, nil
}

// GetByID retrieves an offering by ID
func (r *OfferingRepository) GetByID(ctx context.Context, id int64) (*models.Offering, error) {
	query := squirrel.Select(offeringColumns...).
		From("offerings").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	off, err := scanOffering(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOfferingNotFound
		}
		return nil, wrapDBError(err, "error querying offering")
	}
	return off, nil
}

// ListWithOccupancy retrieves a pack's offerings joined with their live
// occupancy in one round trip. The occupancy comes straight from the join
// table, so the result is as fresh as the surrounding isolation allows;
// admission decisions recompute it under locks anyway.
func (r *OfferingRepository) ListWithOccupancy(ctx context.Context, packID int64) ([]*models.OfferingWithOccupancy, error) {
	query := squirrel.Select(
		"o.id", "o.pack_id", "o.kind", "o.name", "o.code", "o.description",
		"o.max_capacity", "o.created_at", "o.updated_at",
		"COUNT(s.id) AS occupancy",
	).
		From("offerings o").
		LeftJoin("selection_offerings so ON so.offering_id = o.id").
		LeftJoin("selections s ON s.id = so.selection_id AND s.status = ANY(?)", activeStatuses).
		Where("o.pack_id = ?", packID).
		GroupBy("o.id").
		OrderBy("o.code ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBError(err, "error querying offering occupancy")
	}
	defer rows.Close()

	var result []*models.OfferingWithOccupancy
	for rows.Next() {
		var item models.OfferingWithOccupancy
		err := rows.Scan(
			&item.ID,
			&item.PackID,
			&item.Kind,
			&item.Name,
			&item.Code,
			&item.Description,
			&item.MaxCapacity,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Occupancy,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		item.Full = item.Occupancy >= item.MaxCapacity
		result = append(result, &item)
	}

	return result, nil
}

// Create inserts a new offering
func (r *OfferingRepository) Create(ctx context.Context, off *models.Offering) error {
	query := squirrel.Insert("offerings").
		Columns("pack_id", "kind", "name", "code", "description", "max_capacity").
		Values(off.PackID, off.Kind, off.Name, off.Code, off.Description, off.MaxCapacity).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&off.ID, &off.CreatedAt, &off.UpdatedAt)
	if err != nil {
		return wrapDBError(err, "error inserting offering")
	}
	return nil
}

// Update rewrites offering attributes. Lowering max_capacity below the
// current occupancy is refused: the row is locked, occupancy is recounted
// under the lock, and the write only happens if the floor holds. Staff must
// resolve the overflow (reject selections) before shrinking capacity.
func (r *OfferingRepository) Update(ctx context.Context, off *models.Offering) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockSQL, lockArgs, err := squirrel.Select("id").
			From("offerings").
			Where("id = ?", off.ID).
			Suffix("FOR UPDATE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		var lockedID int64
		if err := tx.QueryRow(ctx, lockSQL, lockArgs...).Scan(&lockedID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrOfferingNotFound
			}
			return wrapDBError(err, "error locking offering")
		}

		occupancy, err := countOccupancy(ctx, tx, off.ID)
		if err != nil {
			return err
		}
		if off.MaxCapacity < occupancy {
			return apperrors.NewCustomError(apperrors.ErrCapacityBelowOccupancy,
				fmt.Sprintf("offering has %d active selections, capacity cannot drop to %d", occupancy, off.MaxCapacity))
		}

		updateSQL, updateArgs, err := squirrel.Update("offerings").
			Set("name", off.Name).
			Set("code", off.Code).
			Set("description", off.Description).
			Set("max_capacity", off.MaxCapacity).
			Set("updated_at", squirrel.Expr("now()")).
			Where("id = ?", off.ID).
			Suffix("RETURNING updated_at").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		if err := tx.QueryRow(ctx, updateSQL, updateArgs...).Scan(&off.UpdatedAt); err != nil {
			return wrapDBError(err, "error updating offering")
		}
		return nil
	})
}

// Delete removes an offering that no selection references
func (r *OfferingRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		refSQL, refArgs, err := squirrel.Select("COUNT(*)").
			From("selection_offerings").
			Where("offering_id = ?", id).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		var refs int
		if err := tx.QueryRow(ctx, refSQL, refArgs...).Scan(&refs); err != nil {
			return wrapDBError(err, "error counting selection references")
		}
		if refs > 0 {
			return apperrors.ErrOfferingHasSelections
		}

		delSQL, delArgs, err := squirrel.Delete("offerings").
			Where("id = ?", id).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		result, err := tx.Exec(ctx, delSQL, delArgs...)
		if err != nil {
			return wrapDBError(err, "error deleting offering")
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrOfferingNotFound
		}
		return nil
	})
}

// countOccupancy counts active claims against one offering within the
// caller's transaction.
func countOccupancy(ctx context.Context, tx pgx.Tx, offeringID int64) (int, error) {
	query := squirrel.Select("COUNT(*)").
		From("selection_offerings so").
		Join("selections s ON s.id = so.selection_id").
		Where("so.offering_id = ?", offeringID).
		Where(squirrel.Expr("s.status = ANY(?)", activeStatuses)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, wrapDBError(err, "error counting occupancy")
	}
	return count, nil
}
