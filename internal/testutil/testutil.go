// Package testutil 测试用的内存数据库和固定时钟
package testutil

import (
	"mindleap_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试一个独立的内存 sqlite，单连接保证事务内外看到同一个库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Day 解析 YYYY-MM-DD，加上 hour 小时，UTC
func Day(t *testing.T, day string, hour int) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	require.NoError(t, err)
	return d.Add(time.Duration(hour) * time.Hour)
}

// Clock 可调的测试时钟
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time {
	return c.T
}
