package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cdmi123/progress-report/internal/config"
	"github.com/cdmi123/progress-report/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader 接收重新加载后的配置
type Reloader func(cfg *config.Config)

// WatchConfig 监听配置文件写入, 防抖1秒后重新加载并回调; ctx 取消时退出
func WatchConfig(ctx context.Context, configFile string, reloader Reloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configFile)
	if err != nil {
		return err
	}

	// 监听目录而不是文件, 编辑器替换文件时也能收到事件
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(time.Second)
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(absPath))
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			reloader(newCfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}

// ApplyLogLevel 配置变更后调整日志级别
func ApplyLogLevel(cfg *config.Config) {
	l := logger.LevelFor(cfg)
	if l != logger.Level() {
		logger.SetLevel(l)
		logger.Log.Info("Log level changed", zap.String("level", l.String()))
	}
}
