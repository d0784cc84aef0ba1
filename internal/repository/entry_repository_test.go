package repository

import (
	"context"
	"testing"

	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/testutils"
)

// 测试内容：验证可见性查询覆盖自己、公开、关注者可见三种分支，并排除未关注者的私密内容。
func TestEntryRepository_ListVisible_Branches(t *testing.T) {
	gdb := testutils.SetupDB(t)
	ctx := context.Background()
	repo := NewEntryRepository(gdb)

	alice := testutils.CreateUser(t, gdb, "alice")
	bob := testutils.CreateUser(t, gdb, "bob")
	carol := testutils.CreateUser(t, gdb, "carol")
	testutils.Follow(t, gdb, alice.ID, bob.ID)

	own := testutils.CreateEntry(t, gdb, alice.ID, "a-private", int(consts.PublishPrivate))
	bobFollowers := testutils.CreateEntry(t, gdb, bob.ID, "b-followers", int(consts.PublishFollowers))
	_ = testutils.CreateEntry(t, gdb, bob.ID, "b-private", int(consts.PublishPrivate))
	_ = testutils.CreateEntry(t, gdb, carol.ID, "c-followers", int(consts.PublishFollowers))
	carolPublic := testutils.CreateEntry(t, gdb, carol.ID, "c-public", int(consts.PublishPublic))

	entries, err := repo.ListVisible(ctx, alice.ID, 0, 30)
	if err != nil {
		t.Fatalf("ListVisible 错误: %v", err)
	}
	want := []uint{own.ID, bobFollowers.ID, carolPublic.ID}
	if len(entries) != len(want) {
		t.Fatalf("期望 %d 条, 实际为 %d: %+v", len(want), len(entries), entries)
	}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("第 %d 条期望 id=%d, 实际为 %d", i, id, entries[i].ID)
		}
	}
}

// 测试内容：验证游标只约束 id 且不会泄露其它分支（括号优先级正确）。
func TestEntryRepository_ListVisible_CursorDoesNotLeak(t *testing.T) {
	gdb := testutils.SetupDB(t)
	ctx := context.Background()
	repo := NewEntryRepository(gdb)

	alice := testutils.CreateUser(t, gdb, "alice")
	bob := testutils.CreateUser(t, gdb, "bob")

	first := testutils.CreateEntry(t, gdb, alice.ID, "a1", int(consts.PublishPrivate))
	_ = testutils.CreateEntry(t, gdb, bob.ID, "b1", int(consts.PublishPrivate))
	second := testutils.CreateEntry(t, gdb, alice.ID, "a2", int(consts.PublishPublic))

	entries, err := repo.ListVisible(ctx, alice.ID, first.ID, 30)
	if err != nil {
		t.Fatalf("ListVisible 错误: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != second.ID {
		t.Fatalf("期望仅返回 id=%d, 实际为 %+v", second.ID, entries)
	}
}

// 测试内容：验证超过 limit 时返回最新的 limit 条，并按 id 升序排列。
func TestEntryRepository_ListVisible_NewestWindowAscending(t *testing.T) {
	gdb := testutils.SetupDB(t)
	ctx := context.Background()
	repo := NewEntryRepository(gdb)

	alice := testutils.CreateUser(t, gdb, "alice")
	var ids []uint
	for i := 0; i < 5; i++ {
		e := testutils.CreateEntry(t, gdb, alice.ID, "img-"+string(rune('a'+i)), int(consts.PublishPublic))
		ids = append(ids, e.ID)
	}

	entries, err := repo.ListVisible(ctx, alice.ID, 0, 3)
	if err != nil {
		t.Fatalf("ListVisible 错误: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("期望 3 条, 实际为 %d", len(entries))
	}
	for i, want := range ids[2:] {
		if entries[i].ID != want {
			t.Fatalf("第 %d 条期望 id=%d, 实际为 %d", i, want, entries[i].ID)
		}
	}
}

// 测试内容：验证按图片 id 查找 entry 以及删除后查找失败。
func TestEntryRepository_FindByImageAndDelete(t *testing.T) {
	gdb := testutils.SetupDB(t)
	ctx := context.Background()
	repo := NewEntryRepository(gdb)

	alice := testutils.CreateUser(t, gdb, "alice")
	e := testutils.CreateEntry(t, gdb, alice.ID, "abc", int(consts.PublishPublic))

	got, err := repo.FindByImage(ctx, "abc")
	if err != nil || got.ID != e.ID {
		t.Fatalf("期望找到 entry %d, 实际为 %+v err=%v", e.ID, got, err)
	}
	if err := repo.Delete(ctx, got); err != nil {
		t.Fatalf("Delete 错误: %v", err)
	}
	if _, err := repo.FindByID(ctx, e.ID); err == nil {
		t.Fatalf("期望删除后查找失败")
	}
}
