// Package local 提供基于 SQLite 的存储实现，用于本地开发和演示，
// 与 repository 包中的 Postgres 实现提供相同的方法集合。
package local

import (
	"context"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/config"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db                 *gorm.DB
	queryTimeout       time.Duration
	transactionTimeout time.Duration
}

// Open 打开 SQLite 数据库并自动迁移表结构
func Open(cfg *config.Config) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.SQLitePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	return newStore(cfg, db)
}

func newStore(cfg *config.Config, db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, err
	}

	return &Store{
		db:                 db,
		queryTimeout:       time.Duration(cfg.Database.QueryTimeout) * time.Second,
		transactionTimeout: time.Duration(cfg.Database.TransactionTimeout) * time.Second,
	}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) query(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	return s.db.WithContext(ctx), cancel
}

func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.transactionTimeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(fn)
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}

// notFoundAs 把记录不存在转换为指定的错误
func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
