package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"testing"

	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/imaging"
	entryservice "photo-timeline-server/internal/modules/entry/service"
	platformservice "photo-timeline-server/internal/platform/service"
	"photo-timeline-server/internal/repository"
	"photo-timeline-server/internal/storage"
	"photo-timeline-server/internal/testutils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fixture struct {
	svc    *Service
	gdb    *gorm.DB
	assets storage.Store
	tmpDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gdb := testutils.SetupDB(t)
	assets, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal 错误: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	tmpDir := t.TempDir()
	entries := entryservice.New(repository.NewEntryRepository(gdb), repository.NewFollowRepository(gdb), assets, func() string { return "unused" }, log)
	svc := New(entries, repository.NewUserRepository(gdb), assets, imaging.NewNative(tmpDir), Options{
		TmpDir: tmpDir,
		NewID:  func() string { return "newicon" },
		Logger: log,
	})
	return fixture{svc: svc, gdb: gdb, assets: assets, tmpDir: tmpDir}
}

func decodeSize(t *testing.T, data []byte) (int, int, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("解码结果失败: %v", err)
	}
	return cfg.Width, cfg.Height, format
}

// 测试内容：验证尺寸参数解析，缺省与无法识别的取值。
func TestSizes(t *testing.T) {
	iconCases := map[string]int{"": 32, "s": 32, "m": 64, "l": 128, "xl": 32}
	for token, want := range iconCases {
		if got := IconSize(token); got != want {
			t.Fatalf("IconSize(%q) 期望 %d, 实际为 %d", token, want, got)
		}
	}
	imageCases := map[string]int{"": consts.SizeOriginal, "l": consts.SizeOriginal, "m": 256, "s": 128, "huge": 128}
	for token, want := range imageCases {
		if got := ImageSize(token); got != want {
			t.Fatalf("ImageSize(%q) 期望 %d, 实际为 %d", token, want, got)
		}
	}
}

// 测试内容：验证头像只缩放不裁剪，临时文件被清理。
func TestIcon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.assets.Put(ctx, storage.KindIcon, "default", bytes.NewReader(testutils.PNGBytes(t, 100, 100))); err != nil {
		t.Fatalf("Put 错误: %v", err)
	}
	if err := f.assets.Put(ctx, storage.KindIcon, "wide", bytes.NewReader(testutils.PNGBytes(t, 200, 100))); err != nil {
		t.Fatalf("Put 错误: %v", err)
	}

	data, err := f.svc.Icon(ctx, "default", "m")
	if err != nil {
		t.Fatalf("Icon 错误: %v", err)
	}
	w, h, format := decodeSize(t, data)
	if w != 64 || h != 64 || format != "png" {
		t.Fatalf("期望 64x64 png, 实际为 %dx%d %s", w, h, format)
	}

	// 非正方形头像保持宽高比
	data, err = f.svc.Icon(ctx, "wide", "m")
	if err != nil {
		t.Fatalf("Icon 错误: %v", err)
	}
	if w, h, _ := decodeSize(t, data); w != 64 || h != 32 {
		t.Fatalf("期望 64x32, 实际为 %dx%d", w, h)
	}
	if n := testutils.CountFiles(t, f.tmpDir); n != 0 {
		t.Fatalf("期望临时目录为空, 实际为 %d 个文件", n)
	}
}

// 测试内容：验证不存在或非法的头像 id 返回 404。
func TestIcon_NotFound(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"missing", "../etc/passwd", ""} {
		if _, err := f.svc.Icon(context.Background(), id, "s"); !platformservice.IsCode(err, platformservice.ErrorCodeNotFound) {
			t.Fatalf("期望 %q 返回 404, 实际为 %v", id, err)
		}
	}
}

// 测试内容：验证原尺寸只裁剪不缩放，小尺寸会缩放，不可见图片与不存在图片返回相同的 404。
func TestImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutils.CreateUser(t, f.gdb, "alice")
	bob := testutils.CreateUser(t, f.gdb, "bob")
	testutils.CreateEntry(t, f.gdb, alice.ID, "pub", int(consts.PublishPublic))
	testutils.CreateEntry(t, f.gdb, alice.ID, "priv", int(consts.PublishPrivate))
	for _, id := range []string{"pub", "priv"} {
		if err := f.assets.Put(ctx, storage.KindImage, id, bytes.NewReader(testutils.JPEGBytes(t, 400, 300))); err != nil {
			t.Fatalf("Put 错误: %v", err)
		}
	}

	data, err := f.svc.Image(ctx, "pub", "", nil)
	if err != nil {
		t.Fatalf("Image 错误: %v", err)
	}
	if w, h, format := decodeSize(t, data); w != 300 || h != 300 || format != "jpeg" {
		t.Fatalf("期望 300x300 jpeg, 实际为 %dx%d %s", w, h, format)
	}

	data, err = f.svc.Image(ctx, "pub", "s", nil)
	if err != nil {
		t.Fatalf("Image 错误: %v", err)
	}
	if w, h, _ := decodeSize(t, data); w != 128 || h != 128 {
		t.Fatalf("期望 128x128, 实际为 %dx%d", w, h)
	}

	if _, err := f.svc.Image(ctx, "priv", "s", alice); err != nil {
		t.Fatalf("期望作者可以查看私有图片, 实际为 %v", err)
	}
	hidden, hiddenErr := f.svc.Image(ctx, "priv", "s", bob)
	_, missingErr := f.svc.Image(ctx, "nothere", "s", bob)
	if hidden != nil || !platformservice.IsCode(hiddenErr, platformservice.ErrorCodeNotFound) {
		t.Fatalf("期望私有图片返回 404, 实际为 %v", hiddenErr)
	}
	if hiddenErr.Error() != missingErr.Error() {
		t.Fatalf("期望不可见与不存在的错误一致, 实际为 %q 与 %q", hiddenErr, missingErr)
	}
}

// 测试内容：验证上传头像后保存为正方形 png 并更新用户头像。
func TestUploadIcon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutils.CreateUser(t, f.gdb, "alice")

	iconID, err := f.svc.UploadIcon(ctx, alice, bytes.NewReader(testutils.JPEGBytes(t, 120, 80)))
	if err != nil {
		t.Fatalf("UploadIcon 错误: %v", err)
	}
	if iconID != "newicon" {
		t.Fatalf("期望 newicon, 实际为 %s", iconID)
	}

	users := repository.NewUserRepository(f.gdb)
	reloaded, err := users.FindByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("FindByID 错误: %v", err)
	}
	if reloaded.Icon != "newicon" {
		t.Fatalf("期望头像更新为 newicon, 实际为 %s", reloaded.Icon)
	}

	data, err := f.svc.Icon(ctx, "newicon", "l")
	if err != nil {
		t.Fatalf("Icon 错误: %v", err)
	}
	if w, h, format := decodeSize(t, data); w != 128 || h != 128 || format != "png" {
		t.Fatalf("期望 128x128 png, 实际为 %dx%d %s", w, h, format)
	}
	if n := testutils.CountFiles(t, f.tmpDir); n != 0 {
		t.Fatalf("期望临时目录为空, 实际为 %d 个文件", n)
	}
}

type failingResize struct {
	imaging.Transformer
}

func (failingResize) Resize(context.Context, string, string, int, int) ([]byte, error) {
	return nil, errors.New("resize failed")
}

// 测试内容：验证裁剪成功而缩放失败时返回错误，裁剪产生的临时文件被清理。
func TestImage_ResizeFailureCleansUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutils.CreateUser(t, f.gdb, "alice")
	testutils.CreateEntry(t, f.gdb, alice.ID, "pub", int(consts.PublishPublic))
	if err := f.assets.Put(ctx, storage.KindImage, "pub", bytes.NewReader(testutils.JPEGBytes(t, 400, 300))); err != nil {
		t.Fatalf("Put 错误: %v", err)
	}
	f.svc.transformer = failingResize{Transformer: imaging.NewNative(f.tmpDir)}

	data, err := f.svc.Image(ctx, "pub", "s", nil)
	if err == nil || data != nil {
		t.Fatalf("期望缩放失败返回错误, 实际为 %v", err)
	}
	if platformservice.IsCode(err, platformservice.ErrorCodeNotFound) {
		t.Fatalf("期望内部错误, 实际为 %v", err)
	}
	if n := testutils.CountFiles(t, f.tmpDir); n != 0 {
		t.Fatalf("期望临时目录为空, 实际为 %d 个文件", n)
	}
}

// 测试内容：验证上传损坏的图片返回校验错误，且不保存头像也不遗留临时文件。
func TestUploadIcon_CorruptImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutils.CreateUser(t, f.gdb, "alice")
	jpg := testutils.JPEGBytes(t, 64, 48)

	_, err := f.svc.UploadIcon(ctx, alice, bytes.NewReader(jpg[:len(jpg)/2]))
	if !platformservice.IsCode(err, platformservice.ErrorCodeValidation) {
		t.Fatalf("期望校验错误, 实际为 %v", err)
	}
	if _, _, err := f.assets.Fetch(ctx, storage.KindIcon, "newicon"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("期望头像未保存, 实际为 %v", err)
	}
	if n := testutils.CountFiles(t, f.tmpDir); n != 0 {
		t.Fatalf("期望临时目录为空, 实际为 %d 个文件", n)
	}
}
