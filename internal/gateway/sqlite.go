package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"listinha/internal/model"
	"listinha/internal/period"
)

// SQLiteStore implements Store on a local SQLite database. The soft-delete
// capability is probed once at construction: a schema without the tombstone
// columns permanently downgrades every delete to a hard delete.
type SQLiteStore struct {
	db   *sql.DB
	caps Capabilities
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	s := &SQLiteStore{db: db}
	s.caps.SoftDelete = s.probeSoftDelete()
	return s
}

func (s *SQLiteStore) probeSoftDelete() bool {
	var deletedAt, deletedBy any
	err := s.db.QueryRow(`SELECT deleted_at, deleted_by_name FROM items LIMIT 1`).
		Scan(&deletedAt, &deletedBy)
	if err == sql.ErrNoRows {
		return true
	}
	return err == nil
}

func (s *SQLiteStore) Capabilities() Capabilities {
	return s.caps
}

// --- Period methods ---

func scanPeriod(scanner interface{ Scan(...any) error }) (*model.Period, error) {
	var p model.Period
	var start, end string
	if err := scanner.Scan(&p.ID, &p.Name, &start, &end, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.StartDate, err = time.Parse("2006-01-02", start); err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	if p.EndDate, err = time.Parse("2006-01-02", end); err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}
	return &p, nil
}

const periodCols = `id, name, start_date, end_date, created_at`

func (s *SQLiteStore) getPeriodByName(ctx context.Context, name string) (*model.Period, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+periodCols+` FROM periods WHERE name = ?`, name)
	p, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get period: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) GetOrCreatePeriod(ctx context.Context, monthStart time.Time) (*model.Period, error) {
	name := period.Name(monthStart)
	if p, err := s.getPeriodByName(ctx, name); err != nil || p != nil {
		return p, err
	}

	start := period.StartOfMonth(monthStart)
	end := period.EndOfMonth(monthStart)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO periods (id, name, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT(name) DO NOTHING`,
		uuid.NewString(), name, start.Format("2006-01-02"), end.Format("2006-01-02"),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert period: %w", err)
	}

	p, err := s.getPeriodByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("period %q missing after insert", name)
	}
	return p, nil
}

func (s *SQLiteStore) ListRecentPeriods(ctx context.Context, limit int) ([]model.Period, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+periodCols+` FROM periods ORDER BY start_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer rows.Close()

	var periods []model.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, *p)
	}
	return periods, rows.Err()
}

// --- Item methods ---

const itemCols = `id, period_id, name, quantity, unit_price, category, status, created_by_name, created_at, updated_at`
const itemColsSoftDelete = itemCols + `, deleted_at, deleted_by_name`

func (s *SQLiteStore) selectItemCols() string {
	if s.caps.SoftDelete {
		return itemColsSoftDelete
	}
	return itemCols
}

func (s *SQLiteStore) scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var it model.Item
	var status string
	dest := []any{
		&it.ID, &it.PeriodID, &it.Name, &it.Quantity, &it.UnitPrice,
		&it.Category, &status, &it.CreatedByName, &it.CreatedAt, &it.UpdatedAt,
	}
	var deletedAt sql.NullTime
	var deletedBy sql.NullString
	if s.caps.SoftDelete {
		dest = append(dest, &deletedAt, &deletedBy)
	}
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	it.Status = model.Status(status)
	it.Behavior = model.BehaviorOf(it.Category)
	if deletedAt.Valid {
		it.DeletedAt = &deletedAt.Time
	}
	if deletedBy.Valid {
		it.DeletedByName = deletedBy.String
	}
	return &it, nil
}

func (s *SQLiteStore) getItemByID(ctx context.Context, id string) (*model.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+s.selectItemCols()+` FROM items WHERE id = ?`, id)
	it, err := s.scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (s *SQLiteStore) liveFilter() string {
	if s.caps.SoftDelete {
		return ` AND deleted_at IS NULL`
	}
	return ``
}

func (s *SQLiteStore) ListItems(ctx context.Context, periodID string) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+s.selectItemCols()+` FROM items WHERE period_id = ?`+s.liveFilter()+
			` ORDER BY created_at DESC`, periodID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := s.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) CreateItem(ctx context.Context, fields NewItem) (*model.Item, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, period_id, name, quantity, unit_price, category, status, created_by_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, fields.PeriodID, fields.Name, fields.Quantity, fields.UnitPrice,
		fields.Category, string(fields.Status), fields.CreatedByName, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return s.getItemByID(ctx, id)
}

func (s *SQLiteStore) UpdateItem(ctx context.Context, id string, patch ItemPatch) (*model.Item, error) {
	sets := []string{`updated_at = ?`}
	args := []any{time.Now().UTC()}
	if patch.Name != nil {
		sets = append(sets, `name = ?`)
		args = append(args, *patch.Name)
	}
	if patch.Quantity != nil {
		sets = append(sets, `quantity = ?`)
		args = append(args, *patch.Quantity)
	}
	if patch.UnitPrice != nil {
		sets = append(sets, `unit_price = ?`)
		args = append(args, *patch.UnitPrice)
	}
	if patch.Category != nil {
		sets = append(sets, `category = ?`)
		args = append(args, *patch.Category)
	}
	if patch.Status != nil {
		sets = append(sets, `status = ?`)
		args = append(args, string(*patch.Status))
	}
	args = append(args, id)

	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.getItemByID(ctx, id)
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, id, deletedByName string) error {
	if s.caps.SoftDelete {
		_, err := s.db.ExecContext(ctx,
			`UPDATE items SET deleted_at = ?, deleted_by_name = ? WHERE id = ? AND deleted_at IS NULL`,
			time.Now().UTC(), deletedByName, id)
		if err != nil {
			return fmt.Errorf("soft delete item: %w", err)
		}
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// --- Bulk methods ---

func (s *SQLiteStore) ZeroAllPrices(ctx context.Context, periodID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET unit_price = 0, updated_at = ? WHERE period_id = ?`+s.liveFilter(),
		time.Now().UTC(), periodID)
	if err != nil {
		return fmt.Errorf("zero prices: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAllInPeriod(ctx context.Context, periodID, deletedByName string) error {
	if s.caps.SoftDelete {
		_, err := s.db.ExecContext(ctx,
			`UPDATE items SET deleted_at = ?, deleted_by_name = ? WHERE period_id = ? AND deleted_at IS NULL`,
			time.Now().UTC(), deletedByName, periodID)
		if err != nil {
			return fmt.Errorf("soft delete period items: %w", err)
		}
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE period_id = ?`, periodID); err != nil {
		return fmt.Errorf("delete period items: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RestoreAllInPeriod(ctx context.Context, periodID string) (int64, error) {
	if !s.caps.SoftDelete {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET deleted_at = NULL, deleted_by_name = '' WHERE period_id = ? AND deleted_at IS NOT NULL`,
		periodID)
	if err != nil {
		return 0, fmt.Errorf("restore period items: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) CountSoftDeleted(ctx context.Context, periodID string) (int, error) {
	if !s.caps.SoftDelete {
		return 0, nil
	}
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE period_id = ? AND deleted_at IS NOT NULL`,
		periodID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count soft deleted: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) CopyAllItems(ctx context.Context, fromPeriodID, toPeriodID, createdByName string) (int, error) {
	items, err := s.ListItems(ctx, fromPeriodID)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin copy: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, period_id, name, quantity, unit_price, category, status, created_by_name, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), toPeriodID, it.Name, it.Quantity, it.UnitPrice,
			it.Category, string(model.StatusPending), createdByName, now, now,
		)
		if err != nil {
			return 0, fmt.Errorf("copy item: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit copy: %w", err)
	}
	return len(items), nil
}

func (s *SQLiteStore) ListItemTotalsAcrossPeriods(ctx context.Context, periodIDs []string) ([]ItemTotal, error) {
	if len(periodIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(periodIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(periodIDs))
	for i, id := range periodIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT period_id, quantity, unit_price, category FROM items
		 WHERE period_id IN (`+placeholders+`)`+s.liveFilter(), args...)
	if err != nil {
		return nil, fmt.Errorf("list item totals: %w", err)
	}
	defer rows.Close()

	var totals []ItemTotal
	for rows.Next() {
		var t ItemTotal
		if err := rows.Scan(&t.PeriodID, &t.Quantity, &t.UnitPrice, &t.Category); err != nil {
			return nil, fmt.Errorf("scan item total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
