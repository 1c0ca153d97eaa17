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

var selectionColumns = []string{
	"id", "pack_id", "student_id", "status", "statement_url",
	"created_at", "updated_at",
}

// SelectionRepository handles database operations for selections. The
// admission path (Submit) is transactional end to end: the capacity check
// and the write happen under row locks on the claimed offerings, so two
// students racing for the last seat can never both get it.
type SelectionRepository struct {
	db *pgxpool.Pool
}

// NewSelectionRepository creates a new SelectionRepository
func NewSelectionRepository(db *pgxpool.Pool) *SelectionRepository {
	return &SelectionRepository{db: db}
}

func scanSelection(row pgx.Row) (*models.Selection, error) {
	var sel models.Selection
	err := row.Scan(
		&sel.ID,
		&sel.PackID,
		&sel.StudentID,
		&sel.Status,
		&sel.StatementURL,
		&sel.CreatedAt,
		&sel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

// Occupancy counts active claims (PENDING or APPROVED) against one
// offering, computed fresh from the join table.
func (r *SelectionRepository) Occupancy(ctx context.Context, offeringID int64) (int, error) {
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
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, wrapDBError(err, "error counting occupancy")
	}
	return count, nil
}

// GetByID retrieves a selection with its chosen offerings
func (r *SelectionRepository) GetByID(ctx context.Context, id int64) (*models.Selection, error) {
	query := squirrel.Select(selectionColumns...).
		From("selections").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	sel, err := scanSelection(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSelectionNotFound
		}
		return nil, wrapDBError(err, "error querying selection")
	}

	if err := r.loadOfferings(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// GetByPackAndStudent retrieves a student's single selection for a pack
func (r *SelectionRepository) GetByPackAndStudent(ctx context.Context, packID, studentID int64) (*models.Selection, error) {
	query := squirrel.Select(selectionColumns...).
		From("selections").
		Where("pack_id = ? AND student_id = ?", packID, studentID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	sel, err := scanSelection(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSelectionNotFound
		}
		return nil, wrapDBError(err, "error querying selection")
	}

	if err := r.loadOfferings(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// ListByPack retrieves a pack's selections, optionally filtered by status
func (r *SelectionRepository) ListByPack(ctx context.Context, packID int64, status *models.SelectionStatus, offset uint64, limit int) ([]*models.Selection, int64, error) {
	base := squirrel.Select().
		From("selections").
		Where("pack_id = ?", packID).
		PlaceholderFormat(squirrel.Dollar)
	if status != nil {
		base = base.Where("status = ?", string(*status))
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapDBError(err, "error counting selections")
	}

	listSQL, listArgs, err := base.Columns(selectionColumns...).
		OrderBy("created_at ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, wrapDBError(err, "error querying selections")
	}
	defer rows.Close()

	var selections []*models.Selection
	for rows.Next() {
		sel, err := scanSelection(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		selections = append(selections, sel)
	}

	for _, sel := range selections {
		if err := r.loadOfferings(ctx, sel); err != nil {
			return nil, 0, err
		}
	}

	return selections, total, nil
}

// SubmitParams carries a validated admission request into the transaction.
type SubmitParams struct {
	PackID       int64
	StudentID    int64
	OfferingIDs  []int64
	StatementURL *string
}

// Submit creates or amends the student's selection for a pack as one
// atomic unit. Inside a single transaction it:
//
//  1. locks the student's existing selection row, if any,
//  2. locks the claimed offering rows in id order (FOR UPDATE),
//  3. verifies every id belongs to the pack,
//  4. recounts occupancy for every newly added offering under the locks
//     and refuses the write if any would exceed its capacity,
//  5. rejects amendments of decided selections,
//  6. writes the selection and its join rows, status forced to PENDING.
//
// Because every competing submit must lock the same offering rows,
// the count in step 4 can never go stale before the write commits. The
// lock order (selection row, then offerings) is the same one Reopen
// takes, so a submit racing a reopen of the same selection cannot
// deadlock.
func (r *SelectionRepository) Submit(ctx context.Context, params SubmitParams) (*models.Selection, error) {
	var sel *models.Selection

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		existing, err := lockExistingSelection(ctx, tx, params.PackID, params.StudentID)
		if err != nil {
			return err
		}

		offerings, err := lockOfferings(ctx, tx, params.PackID, params.OfferingIDs)
		if err != nil {
			return err
		}

		prior := map[int64]bool{}
		if existing != nil {
			for _, id := range existing.OfferingIDs {
				prior[id] = true
			}
		}

		for _, off := range offerings {
			if prior[off.ID] {
				// Already claimed by this student; amending must not
				// double-count or re-check the seat they hold.
				continue
			}
			occupancy, err := countOccupancy(ctx, tx, off.ID)
			if err != nil {
				return err
			}
			if occupancy >= off.MaxCapacity {
				return apperrors.NewOfferingFullError(off.ID, off.Name)
			}
		}

		if existing != nil && existing.IsDecided() {
			return apperrors.ErrSelectionLocked
		}

		sel, err = writeSelection(ctx, tx, existing, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	return sel, nil
}

// Decide transitions a pending selection to APPROVED or REJECTED under a
// row lock. A matching repeat decision is a no-op; a different one fails
// with ConflictingDecision. Approval never re-checks capacity: the pending
// selection already held its seats.
func (r *SelectionRepository) Decide(ctx context.Context, selectionID int64, decision models.SelectionStatus) (*models.Selection, error) {
	var sel *models.Selection

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := lockSelectionByID(ctx, tx, selectionID)
		if err != nil {
			return err
		}

		if locked.IsDecided() {
			if locked.Status == decision {
				sel = locked
				return nil
			}
			return apperrors.ErrConflictingDecision
		}

		if err := updateSelectionStatus(ctx, tx, locked, decision); err != nil {
			return err
		}
		sel = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.loadOfferings(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// Reopen returns a decided selection to PENDING. Reopening a rejected
// selection re-claims seats, so the chosen offerings are locked and their
// occupancy re-verified first; a reopen that would overflow an offering
// fails with OfferingFull.
func (r *SelectionRepository) Reopen(ctx context.Context, selectionID int64) (*models.Selection, error) {
	var sel *models.Selection

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := lockSelectionByID(ctx, tx, selectionID)
		if err != nil {
			return err
		}

		if !locked.IsDecided() {
			sel = locked
			return nil
		}

		if locked.Status == models.SelectionStatusRejected && len(locked.OfferingIDs) > 0 {
			offerings, err := lockOfferings(ctx, tx, locked.PackID, locked.OfferingIDs)
			if err != nil {
				return err
			}
			for _, off := range offerings {
				occupancy, err := countOccupancy(ctx, tx, off.ID)
				if err != nil {
					return err
				}
				if occupancy >= off.MaxCapacity {
					return apperrors.NewOfferingFullError(off.ID, off.Name)
				}
			}
		}

		if err := updateSelectionStatus(ctx, tx, locked, models.SelectionStatusPending); err != nil {
			return err
		}
		sel = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.loadOfferings(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// lockOfferings locks the offering rows in ascending id order and verifies
// pack membership. The fixed lock order keeps concurrent submits with
// overlapping sets deadlock-free.
func lockOfferings(ctx context.Context, tx pgx.Tx, packID int64, offeringIDs []int64) ([]*models.Offering, error) {
	query := squirrel.Select(offeringColumns...).
		From("offerings").
		Where(squirrel.Eq{"id": offeringIDs}).
		Where("pack_id = ?", packID).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBError(err, "error locking offerings")
	}
	defer rows.Close()

	var offerings []*models.Offering
	for rows.Next() {
		off, err := scanOffering(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		offerings = append(offerings, off)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err, "error locking offerings")
	}

	if len(offerings) != len(dedupe(offeringIDs)) {
		return nil, apperrors.ErrUnknownOffering
	}

	return offerings, nil
}

// lockExistingSelection locks the student's selection row for the pack,
// returning nil if the student has none yet.
func lockExistingSelection(ctx context.Context, tx pgx.Tx, packID, studentID int64) (*models.Selection, error) {
	query := squirrel.Select(selectionColumns...).
		From("selections").
		Where("pack_id = ? AND student_id = ?", packID, studentID).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	sel, err := scanSelection(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapDBError(err, "error locking selection")
	}

	if err := loadOfferingIDsTx(ctx, tx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

func lockSelectionByID(ctx context.Context, tx pgx.Tx, selectionID int64) (*models.Selection, error) {
	query := squirrel.Select(selectionColumns...).
		From("selections").
		Where("id = ?", selectionID).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	sel, err := scanSelection(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSelectionNotFound
		}
		return nil, wrapDBError(err, "error locking selection")
	}

	if err := loadOfferingIDsTx(ctx, tx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// writeSelection persists the admission: an upsert of the selection row
// plus a rewrite of its join rows, status forced to PENDING either way.
func writeSelection(ctx context.Context, tx pgx.Tx, existing *models.Selection, params SubmitParams) (*models.Selection, error) {
	var sel models.Selection
	sel.PackID = params.PackID
	sel.StudentID = params.StudentID
	sel.Status = models.SelectionStatusPending
	sel.OfferingIDs = dedupe(params.OfferingIDs)

	if existing == nil {
		insertSQL, insertArgs, err := squirrel.Insert("selections").
			Columns("pack_id", "student_id", "status", "statement_url").
			Values(params.PackID, params.StudentID, models.SelectionStatusPending, params.StatementURL).
			Suffix("RETURNING id, statement_url, created_at, updated_at").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("error building SQL: %w", err)
		}
		err = tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&sel.ID, &sel.StatementURL, &sel.CreatedAt, &sel.UpdatedAt)
		if err != nil {
			return nil, wrapDBError(err, "error inserting selection")
		}
	} else {
		update := squirrel.Update("selections").
			Set("status", models.SelectionStatusPending).
			Set("updated_at", squirrel.Expr("now()")).
			Where("id = ?", existing.ID).
			Suffix("RETURNING id, statement_url, created_at, updated_at").
			PlaceholderFormat(squirrel.Dollar)
		if params.StatementURL != nil {
			update = update.Set("statement_url", params.StatementURL)
		}

		updateSQL, updateArgs, err := update.ToSql()
		if err != nil {
			return nil, fmt.Errorf("error building SQL: %w", err)
		}
		err = tx.QueryRow(ctx, updateSQL, updateArgs...).Scan(&sel.ID, &sel.StatementURL, &sel.CreatedAt, &sel.UpdatedAt)
		if err != nil {
			return nil, wrapDBError(err, "error updating selection")
		}

		delSQL, delArgs, err := squirrel.Delete("selection_offerings").
			Where("selection_id = ?", existing.ID).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("error building SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, delSQL, delArgs...); err != nil {
			return nil, wrapDBError(err, "error clearing selection offerings")
		}
	}

	insert := squirrel.Insert("selection_offerings").
		Columns("selection_id", "offering_id", "position").
		PlaceholderFormat(squirrel.Dollar)
	for i, offeringID := range sel.OfferingIDs {
		insert = insert.Values(sel.ID, offeringID, i)
	}

	joinSQL, joinArgs, err := insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := tx.Exec(ctx, joinSQL, joinArgs...); err != nil {
		return nil, wrapDBError(err, "error inserting selection offerings")
	}

	return &sel, nil
}

func updateSelectionStatus(ctx context.Context, tx pgx.Tx, sel *models.Selection, status models.SelectionStatus) error {
	query := squirrel.Update("selections").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", sel.ID).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&sel.UpdatedAt); err != nil {
		return wrapDBError(err, "error updating selection status")
	}
	sel.Status = status
	return nil
}

// loadOfferings populates both the id set and the offering details
func (r *SelectionRepository) loadOfferings(ctx context.Context, sel *models.Selection) error {
	query := squirrel.Select(
		"o.id", "o.pack_id", "o.kind", "o.name", "o.code", "o.description",
		"o.max_capacity", "o.created_at", "o.updated_at",
	).
		From("selection_offerings so").
		Join("offerings o ON o.id = so.offering_id").
		Where("so.selection_id = ?", sel.ID).
		OrderBy("so.position ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return wrapDBError(err, "error querying selection offerings")
	}
	defer rows.Close()

	sel.OfferingIDs = nil
	sel.Offerings = nil
	for rows.Next() {
		off, err := scanOffering(rows)
		if err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		sel.OfferingIDs = append(sel.OfferingIDs, off.ID)
		sel.Offerings = append(sel.Offerings, off)
	}

	return nil
}

func loadOfferingIDsTx(ctx context.Context, tx pgx.Tx, sel *models.Selection) error {
	query := squirrel.Select("offering_id").
		From("selection_offerings").
		Where("selection_id = ?", sel.ID).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return wrapDBError(err, "error querying selection offerings")
	}
	defer rows.Close()

	sel.OfferingIDs = nil
	for rows.Next() {
		var offeringID int64
		if err := rows.Scan(&offeringID); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		sel.OfferingIDs = append(sel.OfferingIDs, offeringID)
	}

	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
