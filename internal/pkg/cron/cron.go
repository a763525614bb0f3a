package cron

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/qs3c/demostar_server/internal/pkg/log"
)

const defaultInterval = 5 * time.Minute

// Warmer 可以被周期性刷新的缓存
type Warmer interface {
	Warm(ctx context.Context) error
}

// Service 后台定时刷新作品集列表缓存，使请求路径尽量命中缓存
type Service struct {
	warmer   Warmer
	interval time.Duration
	timeout  time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewService(warmer Warmer, interval time.Duration) *Service {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		warmer:   warmer,
		interval: interval,
		timeout:  interval,
		stopChan: make(chan struct{}),
	}
}

// Start 启动定时任务，启动时立即预热一次
func (s *Service) Start() {
	s.wg.Add(1)
	go s.runWarmer()
	log.L.Info("cron service started", zap.Duration("warm_interval", s.interval))
}

// Stop 停止定时任务并等待正在执行的预热结束
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	log.L.Info("cron service stopped")
}

func (s *Service) runWarmer() {
	defer s.wg.Done()

	s.warmOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.warmOnce()
		}
	}
}

func (s *Service) warmOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// 停止时中断进行中的预热
	go func() {
		select {
		case <-s.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := s.RunNow(ctx); err != nil {
		log.L.Warn("portfolio cache warm failed", zap.Error(err))
	}
}

// RunNow 立即执行一次预热（用于测试或手动触发）
func (s *Service) RunNow(ctx context.Context) error {
	if s.warmer == nil {
		return nil
	}
	start := time.Now()
	if err := s.warmer.Warm(ctx); err != nil {
		return err
	}
	log.L.Debug("portfolio cache warmed", zap.Duration("took", time.Since(start)))
	return nil
}
