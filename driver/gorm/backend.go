package gorm

import (
	"context"
	"fmt"
	"reflect"
	"time"

	g "github.com/go-mixins/gorm/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/go-mixins/encounter/driver"
)

// Backend stores the events of aggregate type T in a table of their own.
// SQL logging follows the Debug flag of the wrapped backend.
type Backend struct {
	*g.Backend

	name string
}

var _ driver.Backend = (*Backend)(nil)

func NewBackend[T any](gormBackend *g.Backend) *Backend {
	var t T
	return &Backend{
		Backend: gormBackend,
		name:    reflect.TypeOf(t).Name(),
	}
}

func (b *Backend) Connect(migrate bool) error {
	if migrate {
		return b.DB.Table(b.table(b.DB)).AutoMigrate(&Event{})
	}
	return nil
}

func (b *Backend) Codec() driver.Codec {
	return driver.JSON{}
}

type Event struct {
	AggregateID      string `gorm:"primaryKey;autoIncrement:false;size:64"`
	AggregateVersion int    `gorm:"primaryKey;autoIncrement:false"`
	EventID          string `gorm:"size:20;not null"`
	Type             string `gorm:"size:128;not null"`
	Payload          datatypes.JSON
	RecordedAt       time.Time
}

func (b *Backend) table(db *gorm.DB) string {
	return db.NamingStrategy.TableName(fmt.Sprintf("%s_events", b.name))
}

func (b *Backend) Load(ctx context.Context, id string) ([]driver.Event, error) {
	db := b.WithContext(ctx).DB
	var evts []Event
	err := db.Table(b.table(db)).
		Where(`aggregate_id = ?`, id).
		Order(`aggregate_version`).
		Find(&evts).Error
	if err != nil {
		return nil, fmt.Errorf("loading events of %s %s: %w", b.name, id, err)
	}
	res := make([]driver.Event, len(evts))
	for i, e := range evts {
		res[i] = driver.Event{
			ID:               e.EventID,
			AggregateID:      e.AggregateID,
			AggregateVersion: e.AggregateVersion,
			Type:             e.Type,
			Payload:          e.Payload,
			RecordedAt:       e.RecordedAt,
		}
	}
	return res, nil
}

func (b *Backend) Save(ctx context.Context, events []driver.Event) (rErr error) {
	tx := b.WithContext(ctx).Begin()
	defer func() {
		rErr = tx.End(rErr)
	}()
	table := b.table(tx.DB)
	for _, e := range events {
		var n int64
		err := tx.DB.Table(table).
			Where(`aggregate_id = ? AND aggregate_version = ?`, e.AggregateID, e.AggregateVersion).
			Count(&n).Error
		if err != nil {
			return fmt.Errorf("checking event version: %w", err)
		}
		if n > 0 {
			return driver.ErrConcurrency
		}
		err = tx.DB.Table(table).Create(&Event{
			AggregateID:      e.AggregateID,
			AggregateVersion: e.AggregateVersion,
			EventID:          e.ID,
			Type:             e.Type,
			Payload:          e.Payload,
			RecordedAt:       e.RecordedAt,
		}).Error
		if g.UniqueViolation(err) {
			return driver.ErrConcurrency
		} else if err != nil {
			return fmt.Errorf("saving event to database: %w", err)
		}
	}
	return nil
}
