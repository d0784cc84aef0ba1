package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"photo-timeline-server/internal/config"
	"photo-timeline-server/internal/imaging"
	"photo-timeline-server/internal/middleware"
	"photo-timeline-server/internal/modules"
	"photo-timeline-server/internal/modules/common/httpx"
	timelineservice "photo-timeline-server/internal/modules/timeline/service"
	"photo-timeline-server/internal/repository"
	"photo-timeline-server/internal/storage"
	"photo-timeline-server/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func newTestEngine(t *testing.T, frontend fstest.MapFS) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutils.SetupDB(t)
	assets, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal 错误: %v", err)
	}
	// 默认头像
	if err := assets.Put(context.Background(), storage.KindIcon, "default", bytes.NewReader(testutils.PNGBytes(t, 64, 64))); err != nil {
		t.Fatalf("Put 错误: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	tmpDir := t.TempDir()
	repos := repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewEntryRepository(gdb),
		repository.NewFollowRepository(gdb),
	)
	appModules := modules.New(repos, assets, imaging.NewNative(tmpDir), modules.Options{
		URLs: httpx.NewURLBuilder("http://timeline.test"),
		Timeline: timelineservice.Options{
			Timeout:  50 * time.Millisecond,
			Interval: 10 * time.Millisecond,
			Limit:    30,
		},
		TmpDir: tmpDir,
		Logger: log,
	})

	cfg := config.Config{
		Server:   config.ServerConfig{MaxUploadMB: 10},
		Timeline: config.TimelineConfig{MaxPollers: 8},
	}

	r := gin.New()
	if frontend == nil {
		NewRouter(appModules, cfg, nil, nil).Init(r)
	} else {
		NewRouter(appModules, cfg, nil, frontend).Init(r)
	}
	return r
}

type client struct {
	r      *gin.Engine
	apiKey string
}

func (c client) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, c.apiKey)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	return w
}

func (c client) form(t *testing.T, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return c.do(t, http.MethodPost, target, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func (c client) upload(t *testing.T, target string, fields map[string]string, fileType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField 错误: %v", err)
		}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="upload"`)
	header.Set("Content-Type", fileType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart 错误: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("写入 multipart 失败: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("关闭 multipart 失败: %v", err)
	}
	return c.do(t, http.MethodPost, target, &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("解析响应失败: %v, body=%s", err, w.Body.String())
	}
	return out
}

type signupResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
	Icon   string `json:"icon"`
}

type entryResponse struct {
	ID           uint   `json:"id"`
	Image        string `json:"image"`
	PublishLevel int    `json:"publish_level"`
}

type timelineResponse struct {
	LatestEntry uint            `json:"latest_entry"`
	Entries     []entryResponse `json:"entries"`
}

func signup(t *testing.T, r *gin.Engine, name string) (client, signupResponse) {
	t.Helper()
	w := client{r: r}.form(t, "/signup", url.Values{"name": {name}})
	if w.Code != http.StatusOK {
		t.Fatalf("注册 %s 期望 200, 实际为 %d: %s", name, w.Code, w.Body.String())
	}
	res := decode[signupResponse](t, w)
	return client{r: r, apiKey: res.APIKey}, res
}

func imagePath(t *testing.T, imageURL string) string {
	t.Helper()
	idx := strings.Index(imageURL, "/image/")
	if idx < 0 {
		t.Fatalf("无效的图片地址: %s", imageURL)
	}
	return imageURL[idx:]
}

// 测试内容：验证核心路由被正确注册。
func TestInit_RegistersCoreRoutes(t *testing.T) {
	r := newTestEngine(t, nil)

	wants := []string{
		"GET /api/ping",
		"POST /signup",
		"GET /me",
		"GET /timeline",
		"GET /follow",
		"POST /follow",
		"POST /unfollow",
		"GET /icon/:icon",
		"GET /image/:image",
		"POST /entry",
		"POST /entry/:id",
		"POST /icon",
	}

	have := make(map[string]bool)
	for _, rt := range r.Routes() {
		have[rt.Method+" "+rt.Path] = true
	}
	for _, w := range wants {
		if !have[w] {
			t.Fatalf("缺少路由: %s", w)
		}
	}
}

// 测试内容：验证需要 api key 的接口对匿名访问返回 400，未知 key 视为匿名。
func TestViewerRoutes_RequireAPIKey(t *testing.T) {
	r := newTestEngine(t, nil)

	for _, target := range []string{"/me", "/timeline", "/follow"} {
		if w := (client{r: r}).do(t, http.MethodGet, target, nil, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("%s 期望 400, 实际为 %d", target, w.Code)
		}
	}
	if w := (client{r: r, apiKey: "unknown"}).do(t, http.MethodGet, "/me", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("未知 key 期望 400, 实际为 %d", w.Code)
	}
}

// 测试内容：验证注册、重复用户名与非法用户名，以及 /me 与默认头像。
func TestSignupAndMe(t *testing.T) {
	r := newTestEngine(t, nil)
	alice, res := signup(t, r, "alice")
	if len(res.APIKey) != 64 {
		t.Fatalf("期望 api key 为 64 位, 实际为 %q", res.APIKey)
	}
	if res.Icon != "http://timeline.test/icon/default" {
		t.Fatalf("期望默认头像地址, 实际为 %s", res.Icon)
	}

	if w := (client{r: r}).form(t, "/signup", url.Values{"name": {"alice"}}); w.Code != http.StatusConflict {
		t.Fatalf("重复用户名期望 409, 实际为 %d", w.Code)
	}
	if w := (client{r: r}).form(t, "/signup", url.Values{"name": {"a!"}}); w.Code != http.StatusBadRequest {
		t.Fatalf("非法用户名期望 400, 实际为 %d", w.Code)
	}

	w := alice.do(t, http.MethodGet, "/me", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("/me 期望 200, 实际为 %d", w.Code)
	}
	me := decode[signupResponse](t, w)
	if me.Name != "alice" || me.APIKey != "" {
		t.Fatalf("期望 /me 只包含公开信息, 实际为 %+v", me)
	}

	icon := alice.do(t, http.MethodGet, "/icon/default?size=m", nil, "")
	if icon.Code != http.StatusOK || icon.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("头像期望 200 image/png, 实际为 %d %s", icon.Code, icon.Header().Get("Content-Type"))
	}
}

// 测试内容：端到端验证私有与仅关注者可见的图片、关注后的可见性变化以及时间线内容。
func TestPrivateAndFollowerFlow(t *testing.T) {
	r := newTestEngine(t, nil)
	alice, aliceInfo := signup(t, r, "alice")
	bob, _ := signup(t, r, "bob")
	anon := client{r: r}

	jpeg := testutils.JPEGBytes(t, 320, 240)

	w := alice.upload(t, "/entry", map[string]string{"publish_level": "0"}, "image/jpeg", jpeg)
	if w.Code != http.StatusOK {
		t.Fatalf("发布私有 entry 期望 200, 实际为 %d: %s", w.Code, w.Body.String())
	}
	private := decode[entryResponse](t, w)

	w = alice.upload(t, "/entry", map[string]string{"publish_level": "1"}, "image/jpeg", jpeg)
	if w.Code != http.StatusOK {
		t.Fatalf("发布仅关注者 entry 期望 200, 实际为 %d: %s", w.Code, w.Body.String())
	}
	followersOnly := decode[entryResponse](t, w)

	// 作者可以看到自己的所有图片
	for _, e := range []entryResponse{private, followersOnly} {
		if w := alice.do(t, http.MethodGet, imagePath(t, e.Image), nil, ""); w.Code != http.StatusOK {
			t.Fatalf("作者查看图片期望 200, 实际为 %d", w.Code)
		}
	}

	// 未关注时 bob 与匿名用户都看不到
	for _, c := range []client{bob, anon} {
		for _, e := range []entryResponse{private, followersOnly} {
			if w := c.do(t, http.MethodGet, imagePath(t, e.Image)+"?size=s", nil, ""); w.Code != http.StatusNotFound {
				t.Fatalf("期望 404, 实际为 %d", w.Code)
			}
		}
	}

	w = bob.form(t, "/follow", url.Values{"target": {fmt.Sprint(aliceInfo.ID)}})
	if w.Code != http.StatusOK {
		t.Fatalf("关注期望 200, 实际为 %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"alice"`) {
		t.Fatalf("期望关注列表包含 alice, 实际为 %s", w.Body.String())
	}

	img := bob.do(t, http.MethodGet, imagePath(t, followersOnly.Image)+"?size=s", nil, "")
	if img.Code != http.StatusOK || img.Header().Get("Content-Type") != "image/jpeg" {
		t.Fatalf("关注后期望 200 image/jpeg, 实际为 %d %s", img.Code, img.Header().Get("Content-Type"))
	}
	if img.Header().Get("Cache-Control") != "no-cache" {
		t.Fatalf("期望图片响应禁止缓存, 实际为 %q", img.Header().Get("Cache-Control"))
	}
	if w := bob.do(t, http.MethodGet, imagePath(t, private.Image), nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("关注后私有图片仍期望 404, 实际为 %d", w.Code)
	}

	w = bob.do(t, http.MethodGet, "/timeline", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("时间线期望 200, 实际为 %d", w.Code)
	}
	feed := decode[timelineResponse](t, w)
	if len(feed.Entries) != 1 || feed.Entries[0].ID != followersOnly.ID {
		t.Fatalf("期望时间线只有仅关注者 entry, 实际为 %+v", feed.Entries)
	}
	if feed.LatestEntry != followersOnly.ID {
		t.Fatalf("期望 latest_entry 为 %d, 实际为 %d", followersOnly.ID, feed.LatestEntry)
	}

	// 游标之后没有新内容：超时返回空列表与原游标
	w = bob.do(t, http.MethodGet, fmt.Sprintf("/timeline?latest_entry=%d", feed.LatestEntry), nil, "")
	idle := decode[timelineResponse](t, w)
	if len(idle.Entries) != 0 || idle.LatestEntry != feed.LatestEntry {
		t.Fatalf("期望超时返回空列表与原游标, 实际为 %+v", idle)
	}

	w = bob.form(t, "/unfollow", url.Values{"target": {fmt.Sprint(aliceInfo.ID)}})
	if w.Code != http.StatusOK {
		t.Fatalf("取消关注期望 200, 实际为 %d", w.Code)
	}
	if w := bob.do(t, http.MethodGet, imagePath(t, followersOnly.Image), nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("取消关注后期望 404, 实际为 %d", w.Code)
	}
}

// 测试内容：验证 entry 只能由作者删除，错误的 method 与非作者返回 400，不存在返回 404。
func TestDeleteEntry(t *testing.T) {
	r := newTestEngine(t, nil)
	alice, _ := signup(t, r, "alice")
	bob, _ := signup(t, r, "bob")

	w := alice.upload(t, "/entry", map[string]string{"publish_level": "2"}, "image/jpeg", testutils.JPEGBytes(t, 64, 64))
	if w.Code != http.StatusOK {
		t.Fatalf("发布期望 200, 实际为 %d: %s", w.Code, w.Body.String())
	}
	entry := decode[entryResponse](t, w)
	target := fmt.Sprintf("/entry/%d", entry.ID)

	if w := alice.form(t, target, url.Values{"__method": {"PUT"}}); w.Code != http.StatusBadRequest {
		t.Fatalf("错误 method 期望 400, 实际为 %d", w.Code)
	}
	if w := bob.form(t, target, url.Values{"__method": {"DELETE"}}); w.Code != http.StatusBadRequest {
		t.Fatalf("非作者期望 400, 实际为 %d", w.Code)
	}
	if w := alice.form(t, "/entry/999", url.Values{"__method": {"DELETE"}}); w.Code != http.StatusNotFound {
		t.Fatalf("不存在期望 404, 实际为 %d", w.Code)
	}
	if w := alice.form(t, target, url.Values{"__method": {"DELETE"}}); w.Code != http.StatusOK {
		t.Fatalf("作者删除期望 200, 实际为 %d: %s", w.Code, w.Body.String())
	}
	if w := alice.do(t, http.MethodGet, imagePath(t, entry.Image), nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("删除后期望 404, 实际为 %d", w.Code)
	}
}

// 测试内容：验证上传参数校验：非法 publish_level 与非 jpeg 图片返回 400。
func TestPostEntry_Validation(t *testing.T) {
	r := newTestEngine(t, nil)
	alice, _ := signup(t, r, "alice")

	if w := alice.upload(t, "/entry", map[string]string{"publish_level": "3"}, "image/jpeg", testutils.JPEGBytes(t, 8, 8)); w.Code != http.StatusBadRequest {
		t.Fatalf("非法 publish_level 期望 400, 实际为 %d", w.Code)
	}
	if w := alice.upload(t, "/entry", map[string]string{"publish_level": "2"}, "image/png", testutils.PNGBytes(t, 8, 8)); w.Code != http.StatusBadRequest {
		t.Fatalf("png 期望 400, 实际为 %d", w.Code)
	}
	if w := alice.upload(t, "/entry", map[string]string{"publish_level": "2"}, "image/jpeg", []byte("not an image")); w.Code != http.StatusBadRequest {
		t.Fatalf("伪造的 jpeg 期望 400, 实际为 %d", w.Code)
	}
}

// 测试内容：验证上传头像后 /me 返回新头像地址，新头像可以读取。
func TestPostIcon(t *testing.T) {
	r := newTestEngine(t, nil)
	alice, _ := signup(t, r, "alice")

	w := alice.upload(t, "/icon", nil, "image/png", testutils.PNGBytes(t, 90, 60))
	if w.Code != http.StatusOK {
		t.Fatalf("上传头像期望 200, 实际为 %d: %s", w.Code, w.Body.String())
	}
	iconURL := decode[map[string]string](t, w)["icon"]
	if !strings.HasPrefix(iconURL, "http://timeline.test/icon/") || strings.HasSuffix(iconURL, "/default") {
		t.Fatalf("期望新的头像地址, 实际为 %s", iconURL)
	}

	me := decode[signupResponse](t, alice.do(t, http.MethodGet, "/me", nil, ""))
	if me.Icon != iconURL {
		t.Fatalf("期望 /me 返回新头像 %s, 实际为 %s", iconURL, me.Icon)
	}

	path := strings.TrimPrefix(iconURL, "http://timeline.test")
	if w := (client{r: r}).do(t, http.MethodGet, path+"?size=l", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("读取新头像期望 200, 实际为 %d", w.Code)
	}
}

// 测试内容：验证静态文件回落：根路径返回 index.html，未知 API 与缺失文件返回 404。
func TestStaticRoutes(t *testing.T) {
	r := newTestEngine(t, fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte("<html>index</html>")},
		"app.js":     &fstest.MapFile{Data: []byte("console.log(1)")},
	})
	c := client{r: r}

	w := c.do(t, http.MethodGet, "/", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "index") {
		t.Fatalf("根路径期望 index.html, 实际为 %d %s", w.Code, w.Body.String())
	}
	if w := c.do(t, http.MethodGet, "/app.js", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("静态文件期望 200, 实际为 %d", w.Code)
	}
	if w := c.do(t, http.MethodGet, "/api/nope", nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("未知 API 期望 404, 实际为 %d", w.Code)
	}
	if w := c.do(t, http.MethodGet, "/missing.css", nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("缺失文件期望 404, 实际为 %d", w.Code)
	}
}

// 测试内容：验证关注列表相关接口（查询、关注、取关）都返回 no-cache，避免共享缓存把一个访问者的列表返回给另一个访问者。
func TestFollowRoutes_NoCache(t *testing.T) {
	r := newTestEngine(t, nil)
	alice, _ := signup(t, r, "alice")
	_, bobInfo := signup(t, r, "bob")
	target := url.Values{"target": {fmt.Sprint(bobInfo.ID)}}

	responses := map[string]*httptest.ResponseRecorder{
		"GET /follow":    alice.do(t, http.MethodGet, "/follow", nil, ""),
		"POST /follow":   alice.form(t, "/follow", target),
		"POST /unfollow": alice.form(t, "/unfollow", target),
	}
	for name, w := range responses {
		if w.Code != http.StatusOK {
			t.Fatalf("%s 期望 200, 实际为 %d: %s", name, w.Code, w.Body.String())
		}
		if got := w.Header().Get("Cache-Control"); got != "no-cache" {
			t.Fatalf("%s 期望 Cache-Control 为 no-cache, 实际为 %q", name, got)
		}
	}
}
