package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"photo-timeline-server/internal/config"
	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/db"
	"photo-timeline-server/internal/di"
	platformredis "photo-timeline-server/internal/platform/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	configDir := flag.String("config", "config", "配置文件目录")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	config.InitConfig(*configDir)
	cfg := config.Get()
	setupLogLevel(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.InitDB(cfg.Database)
	if err != nil {
		logrus.Fatalf("❌ 数据库初始化失败: %v", err)
	}
	defer func() { _ = db.Close(gdb) }()

	app, err := di.InitializeApplication(ctx, gdb, cfg, resolveFrontend(cfg.Server.PublicDir))
	if err != nil {
		logrus.Fatalf("❌ 应用初始化失败: %v", err)
	}
	defer func() { _ = platformredis.Close(app.Redis) }()

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	app.Router.Init(r)

	// 导出模式
	if *exportRoutes {
		if err := exportAPI(r, "routes.json"); err != nil {
			logrus.Fatalf("❌ 导出路由失败: %v", err)
		}
		logrus.Info("✅ 路由已成功导出到 routes.json")
		return
	}

	printWelcomeMessage(cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logrus.Infof("🚀 服务启动成功，运行在 :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("❌ 服务启动失败: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("🛑 正在关闭服务...")

	// 长轮询请求会随 ctx 取消立即返回
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("❌ 服务强制关闭: %v", err)
	}
	logrus.Info("✅ 服务已退出")
}

func setupLogLevel(level string) {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		logrus.Warnf("⚠️  无效的日志级别 %q，使用 info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// resolveFrontend 嵌入的前端优先，其次 public_dir，目录不存在时不提供静态文件。
func resolveFrontend(publicDir string) fs.FS {
	if assets := GetFrontendAssets(); assets != nil {
		return assets
	}
	if strings.TrimSpace(publicDir) == "" {
		return nil
	}
	if err := checkSecurePath(publicDir); err != nil {
		logrus.Fatalf("❌ %v", err)
	}
	info, err := os.Stat(publicDir)
	if err != nil || !info.IsDir() {
		logrus.Warnf("⚠️  静态目录 '%s' 不存在，跳过静态文件服务", publicDir)
		return nil
	}
	return os.DirFS(publicDir)
}

func printWelcomeMessage(cfg config.Config) {
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  后端版本 : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🗄️  数据库   : %s\n", cfg.Database.Type)
	fmt.Printf(" │   🖼️  图片引擎 : %s\n", cfg.Image.Engine)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

type routeInfo struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Handler string `json:"handler"`
}

func exportAPI(r *gin.Engine, filename string) error {
	routes := r.Routes()
	exportList := make([]routeInfo, 0, len(routes))
	for _, route := range routes {
		exportList = append(exportList, routeInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	data, err := json.MarshalIndent(exportList, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// checkSecurePath 静态目录不能是项目根目录，位于工作目录内时必须在安全子目录中。
func checkSecurePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("无法获取当前工作目录: %w", err)
	}

	if absPath == cwd {
		return fmt.Errorf("安全配置错误: 静态资源目录 '%s' 不能设置为项目根目录", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}

	allowedDirs := []string{"public", "static", "assets", "frontend"}
	firstComponent := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedDirs {
		if strings.EqualFold(firstComponent, allowed) {
			return nil
		}
	}
	return fmt.Errorf("安全配置错误: 静态资源目录 '%s' 必须位于安全子目录中 (如 %v)", path, allowedDirs)
}
