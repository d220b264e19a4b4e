package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"twinforge/internal/domain"
	"twinforge/internal/repository"
)

const createTwinsTable = `
CREATE TABLE IF NOT EXISTS twins (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	config TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(owner_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_twins_owner_id ON twins(owner_id);
`

type TwinRepository struct {
	db *sql.DB
}

func NewTwinRepository(db *sql.DB) repository.TwinRepository {
	return &TwinRepository{db: db}
}

func (r *TwinRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTwinsTable); err != nil {
		return fmt.Errorf("create twins table: %w", err)
	}
	return nil
}

func (r *TwinRepository) Create(ctx context.Context, twin *domain.Twin) error {
	now := time.Now().UTC()
	twin.CreatedAt = now
	twin.UpdatedAt = now

	config := twin.Config
	if len(config) == 0 {
		config = json.RawMessage(`{}`)
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO twins (id, owner_id, config, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		twin.ID,
		twin.OwnerID,
		string(config),
		twin.CreatedAt,
		twin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert twin: %w", err)
	}
	return nil
}

func (r *TwinRepository) Get(ctx context.Context, id string) (*domain.Twin, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, config, created_at, updated_at
FROM twins
WHERE id = ?`,
		id,
	)
	return scanTwin(row)
}

func (r *TwinRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Twin, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, config, created_at, updated_at
FROM twins
WHERE owner_id = ?
ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query twins: %w", err)
	}
	defer rows.Close()

	twins := []domain.Twin{}
	for rows.Next() {
		twin, err := scanTwin(rows)
		if err != nil {
			return nil, err
		}
		twins = append(twins, *twin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate twins: %w", err)
	}
	return twins, nil
}

func (r *TwinRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM twins WHERE owner_id = ?`,
		ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count twins: %w", err)
	}
	return count, nil
}

func (r *TwinRepository) UpdateConfig(ctx context.Context, id string, config []byte) error {
	if len(config) == 0 {
		config = []byte(`{}`)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE twins SET config = ?, updated_at = ? WHERE id = ?`,
		string(config),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update twin config: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("twin rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TwinRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM twins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete twin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("twin rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanTwin(row interface {
	Scan(dest ...any) error
}) (*domain.Twin, error) {
	var (
		twin   domain.Twin
		config string
	)
	if err := row.Scan(
		&twin.ID,
		&twin.OwnerID,
		&config,
		&twin.CreatedAt,
		&twin.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan twin: %w", err)
	}
	twin.Config = json.RawMessage(config)
	return &twin, nil
}
