package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrStateNotFound = errors.New("state not found")

// StorageKey is the fixed slot the whole application document lives under,
// carried over from the original deployment.
const StorageKey = "neon-tasks-app"

// AppState is the one-row-per-slot table backing the persisted document.
type AppState struct {
	Key       string `gorm:"primaryKey;size:128"`
	Blob      []byte `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

type StateDAO struct {
	db  *gorm.DB
	key string
}

func NewStateDAO(db *gorm.DB) *StateDAO {
	return &StateDAO{
		db:  db,
		key: StorageKey,
	}
}

func (d *StateDAO) Get(ctx context.Context) ([]byte, error) {
	var row AppState

	result := d.db.WithContext(ctx).First(&row, "key = ?", d.key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrStateNotFound
		}

		return nil, result.Error
	}

	return row.Blob, nil
}

// Put overwrites the slot. The first write races only with itself (single
// writer), but a concurrent first insert from another replica maps onto the
// unique violation and falls through to a plain update.
func (d *StateDAO) Put(ctx context.Context, blob []byte) error {
	result := d.db.WithContext(ctx).Create(&AppState{Key: d.key, Blob: blob})
	if result.Error == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	duplicate := errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
	if !duplicate && !errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return result.Error
	}

	update := d.db.WithContext(ctx).
		Model(&AppState{}).
		Where("key = ?", d.key).
		Update("blob", blob)

	return update.Error
}
