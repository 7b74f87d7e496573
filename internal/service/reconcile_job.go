package service

import (
	"context"
	"time"

	"github.com/cdmi123/progress-report/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReconcileJob 定时执行全量一致性修复
type ReconcileJob struct {
	Sync *SyncService
	cron *cron.Cron
}

func NewReconcileJob(sync *SyncService) *ReconcileJob {
	return &ReconcileJob{Sync: sync}
}

// Start 按 cron 表达式调度, 同一时间只运行一个实例
func (j *ReconcileJob) Start(spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, j.Run); err != nil {
		return err
	}
	j.cron = c
	c.Start()
	logger.Log.Info("Reconcile job scheduled", zap.String("spec", spec))
	return nil
}

func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()
	if _, err := j.Sync.ReconcileAll(ctx); err != nil {
		logger.Log.Error("Reconcile job failed", zap.Error(err))
		return
	}
	logger.Log.Info("Reconcile job finished", zap.Duration("elapsed", time.Since(start)))
}

// Stop 等待正在运行的任务结束
func (j *ReconcileJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}
