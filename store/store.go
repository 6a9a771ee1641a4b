// Package store persists processed ledgers in a sqlite database.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Store is a sqlite database of runs.
type Store struct {
	db *gorm.DB
}

// Open opens or creates the database at path and migrates its schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Warn),
		CreateBatchSize: 200,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open database %q: %w", path, err)
	}
	if err := db.AutoMigrate(&Run{}, &Gain{}, &Snapshot{}, &SnapshotAsset{}, &Holding{}); err != nil {
		return nil, fmt.Errorf("cannot migrate database %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun stores run and all its records in one transaction. The run is
// given a new ID if it has none, it is returned.
func (s *Store) SaveRun(ctx context.Context, run *Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return "", fmt.Errorf("cannot save run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// Runs lists the runs without their records, most recent first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	var runs []Run
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("cannot list runs: %w", err)
	}
	return runs, nil
}

// Run returns a run without its records.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	var run Run
	err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return run, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// RealizedGains returns the gains of a run in processing order.
func (s *Store) RealizedGains(ctx context.Context, runID string) ([]Gain, error) {
	var gains []Gain
	if err := s.db.WithContext(ctx).Where("run_id = ?", runID).Order("seq").Find(&gains).Error; err != nil {
		return nil, fmt.Errorf("cannot read gains of run %s: %w", runID, err)
	}
	return gains, nil
}

// History returns the snapshots of a run with their assets, in processing order.
func (s *Store) History(ctx context.Context, runID string) ([]Snapshot, error) {
	var snaps []Snapshot
	err := s.db.WithContext(ctx).
		Preload("Assets", func(db *gorm.DB) *gorm.DB { return db.Order("asset") }).
		Where("run_id = ?", runID).Order("seq").Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("cannot read history of run %s: %w", runID, err)
	}
	return snaps, nil
}

// Holdings returns the final holdings of a run, sorted by asset.
func (s *Store) Holdings(ctx context.Context, runID string) ([]Holding, error) {
	var holdings []Holding
	if err := s.db.WithContext(ctx).Where("run_id = ?", runID).Order("asset").Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("cannot read holdings of run %s: %w", runID, err)
	}
	return holdings, nil
}

// DeleteRun removes a run and its records.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var snapIDs []uint
		if err := tx.Model(&Snapshot{}).Where("run_id = ?", id).Pluck("id", &snapIDs).Error; err != nil {
			return err
		}
		if len(snapIDs) > 0 {
			if err := tx.Where("snapshot_id IN ?", snapIDs).Delete(&SnapshotAsset{}).Error; err != nil {
				return err
			}
		}
		for _, model := range []any{&Gain{}, &Snapshot{}, &Holding{}} {
			if err := tx.Where("run_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&Run{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}
