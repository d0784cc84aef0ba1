package testutils

import (
	"fmt"
	"sync/atomic"
	"testing"

	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// SetupDB initializes a unique in-memory SQLite database for testing
// and performs auto-migration. The connection is closed on test cleanup.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	seq := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:ptl_%d?mode=memory&cache=shared", seq)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := gdb.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

// CreateUser inserts a user with a deterministic api key ("key-<name>").
func CreateUser(t *testing.T, gdb *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, APIKey: "key-" + name, Icon: "default"}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

// CreateEntry inserts an entry owned by userID.
func CreateEntry(t *testing.T, gdb *gorm.DB, userID uint, image string, level int) *model.Entry {
	t.Helper()
	e := &model.Entry{UserID: userID, Image: image, PublishLevel: consts.PublishLevel(level)}
	if err := gdb.Create(e).Error; err != nil {
		t.Fatalf("创建 entry 失败: %v", err)
	}
	return e
}

// Follow inserts a follow edge follower -> target.
func Follow(t *testing.T, gdb *gorm.DB, follower, target uint) {
	t.Helper()
	if err := gdb.Create(&model.FollowEdge{UserID: follower, Target: target}).Error; err != nil {
		t.Fatalf("创建关注关系失败: %v", err)
	}
}
