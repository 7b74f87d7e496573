package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cdmi123/progress-report/internal/config"
	"github.com/cdmi123/progress-report/internal/controller"
	"github.com/cdmi123/progress-report/internal/repository"
	"github.com/cdmi123/progress-report/internal/repository/memory"
	"github.com/cdmi123/progress-report/internal/service"
	"github.com/cdmi123/progress-report/internal/sheet"
	"github.com/cdmi123/progress-report/internal/util"
	"github.com/cdmi123/progress-report/pkg/configwatcher"
	"github.com/cdmi123/progress-report/pkg/database"
	"github.com/cdmi123/progress-report/pkg/logger"
	"github.com/cdmi123/progress-report/pkg/monitoring"
	"github.com/cdmi123/progress-report/pkg/security"
	"github.com/cdmi123/progress-report/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Services *Services

	tracer          *sdktrace.TracerProvider
	job             *service.ReconcileJob
	stopWatch       context.CancelFunc
	configCallbacks []func(*config.Config)
}

type stores struct {
	staff    service.StaffStore
	courses  service.CourseStore
	students service.StudentStore
	reports  service.ReportStore
	tokens   service.TokenStore
}

// Services 对命令行工具开放
type Services struct {
	Auth      *service.AuthService
	Staff     *service.StaffService
	Course    *service.CourseService
	Student   *service.StudentService
	Report    *service.ReportService
	Sync      *service.SyncService
	Sheet     *service.SheetService
	Roster    *service.RosterService
	Dashboard *service.DashboardService
	Storage   *service.StorageService
}

type controllers struct {
	auth      *controller.AuthController
	staff     *controller.StaffController
	student   *controller.StudentController
	course    *controller.CourseController
	report    *controller.ReportController
	sheet     *controller.SheetController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// initStores db 为 nil 时使用内存存储; rdb 为 nil 时不缓存课程列表, 注销黑名单保存在进程内
func (a *App) initStores(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *stores {
	var (
		s      stores
		course repository.CourseBackend
		mem    *memory.DB
	)

	if db == nil {
		mem = memory.NewDB()
		s.staff = memory.NewStaffRepository(mem)
		s.students = memory.NewStudentRepository(mem)
		s.reports = memory.NewReportRepository(mem)
		course = memory.NewCourseRepository(mem)
	} else {
		s.staff = repository.NewStaffRepository(db)
		s.students = repository.NewStudentRepository(db)
		s.reports = repository.NewReportRepository(db)
		course = repository.NewCourseRepository(db)
	}

	if rdb != nil {
		ttl := time.Duration(cfg.Redis.CourseCacheMinutes) * time.Minute
		s.courses = repository.NewCachedCourseRepository(course, rdb, ttl)
		s.tokens = repository.NewTokenRepository(rdb)
		return &s
	}

	s.courses = course
	if mem == nil {
		mem = memory.NewDB()
	}
	s.tokens = memory.NewTokenRepository(mem)
	return &s
}

func (a *App) initServices(st *stores, cfg *config.Config) *Services {
	s := &Services{}

	s.Sync = service.NewSyncService(st.courses, st.students, st.reports)
	s.Auth = service.NewAuthService(st.staff, st.students, st.tokens, cfg)
	s.Staff = service.NewStaffService(st.staff)
	s.Course = service.NewCourseService(st.courses, st.students, s.Sync)
	s.Student = service.NewStudentService(st.students, st.courses, st.staff, st.reports, s.Sync)
	s.Report = service.NewReportService(st.reports, st.students, st.courses, st.staff, s.Course, service.NewMailer(cfg.Mail))
	s.Storage = service.NewStorageService(cfg)
	s.Sheet = service.NewSheetService(st.students, st.courses, st.reports, sheet.NewRenderer(cfg.Sheet.InstituteName), s.Storage)
	s.Roster = service.NewRosterService(s.Student)
	s.Dashboard = service.NewDashboardService(st.staff, st.students, st.courses, st.reports)

	return s
}

func (a *App) initControllers(s *Services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.Auth),
		staff:     controller.NewStaffController(s.Staff),
		student:   controller.NewStudentController(s.Student, s.Roster),
		course:    controller.NewCourseController(s.Course),
		report:    controller.NewReportController(s.Report),
		sheet:     controller.NewSheetController(s.Sheet),
		dashboard: controller.NewDashboardController(s.Dashboard),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(cfg *config.Config) {
	if cfg.Jobs.ReconcileEnabled {
		a.job = service.NewReconcileJob(a.Services.Sync)
		if err := a.job.Start(cfg.Jobs.ReconcileCron); err != nil {
			logger.Log.Error("Failed to schedule reconcile job", zap.Error(err))
			a.job = nil
		}
	}

	a.RegisterConfigCallback(configwatcher.ApplyLogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	go func() {
		err := configwatcher.WatchConfig(ctx, cfg.ConfigFile(), func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

// New 组装路由与服务, 不启动后台任务; 测试中传入 nil 即使用内存存储
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	if err := util.RegisterValidators(); err != nil {
		logger.Log.Fatal("Failed to register validators", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	app.Services = app.initServices(app.initStores(db, rdb, cfg), cfg)
	controllers := app.initControllers(app.Services, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// Connect 按配置打开数据库与 Redis; memory 驱动不连接数据库
func Connect(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	var db *gorm.DB
	if cfg.Database.Driver != "memory" {
		var err error
		db, err = database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode)
		if err != nil {
			return nil, nil, err
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return db, rdb, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, rdb, err := Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	app := New(cfg, db, rdb)
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.startBackgroundTasks(cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}

// Close 停止后台任务并释放连接
func (a *App) Close() {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	if a.job != nil {
		a.job.Stop()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
