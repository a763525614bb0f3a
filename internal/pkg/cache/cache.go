// Package cache 提供基于 Redis 的 get-or-compute 缓存。
//
// 同一进程内对同一 key 的并发未命中共享一次计算；后端不可用时退化为每次重新计算。
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/qs3c/demostar_server/internal/pkg/log"
)

// DefaultTTL 未指定 TTL 时的默认有效期
const DefaultTTL = 10 * time.Minute

// ComputeTimeout 共享计算的最长执行时间，不受单个调用方取消影响
const ComputeTimeout = 30 * time.Second

// Provider 缓存提供者，生命周期与所属服务一致
type Provider struct {
	backend redis.Cmdable
	prefix  string
	group   singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64 // 每个 key 的失效代数
}

// NewProvider 创建缓存提供者，prefix 会拼接在所有 key 前
func NewProvider(backend redis.Cmdable, prefix string) *Provider {
	return &Provider{
		backend: backend,
		prefix:  prefix,
		gens:    make(map[string]uint64),
	}
}

func (p *Provider) generation(key string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gens[key]
}

func (p *Provider) bump(key string) {
	p.mu.Lock()
	p.gens[key]++
	p.mu.Unlock()
}

func (p *Provider) fullKey(key string) string {
	if p.prefix == "" {
		return key
	}
	return p.prefix + ":" + key
}

// Invalidate 删除缓存项。进行中的计算结果不再写回，之后的请求也不会复用它。
func (p *Provider) Invalidate(ctx context.Context, key string) error {
	p.bump(key)
	p.group.Forget(key)

	if err := p.backend.Del(ctx, p.fullKey(key)).Err(); err != nil {
		observe(key, resultError)
		return fmt.Errorf("failed to invalidate cache key %s: %w", key, err)
	}
	return nil
}

// GetOrSet 读取缓存，未命中或已过期时调用 compute 计算并写回。
// compute 的错误原样返回，且不会写入缓存。
func GetOrSet[T any](ctx context.Context, p *Provider, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if v, ok := read[T](ctx, p, key); ok {
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	ch := p.group.DoChan(key, func() (interface{}, error) {
		gen := p.generation(key)

		// 共享计算不跟随发起者取消，每个等待者在下方各自响应自己的 ctx
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ComputeTimeout)
		defer cancel()

		// 排队期间可能已有其他实例写回
		if v, ok := read[T](fctx, p, key); ok {
			return v, nil
		}

		observe(key, resultMiss)
		v, err := compute(fctx)
		if err != nil {
			return nil, err
		}

		if p.generation(key) != gen {
			log.L.Debug("cache invalidated during compute, skip write", zap.String("key", key))
			return v, nil
		}
		write(fctx, p, key, v, ttl)
		// 写回与失效交错时删除刚写入的旧值
		if p.generation(key) != gen {
			if err := p.backend.Del(fctx, p.fullKey(key)).Err(); err != nil {
				observe(key, resultError)
				log.L.Warn("cache rollback after invalidate failed", zap.String("key", key), zap.Error(err))
			}
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

func read[T any](ctx context.Context, p *Provider, key string) (T, bool) {
	var v T

	data, err := p.backend.Get(ctx, p.fullKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			observe(key, resultError)
			log.L.Warn("cache read failed, recomputing", zap.String("key", key), zap.Error(err))
		}
		return v, false
	}

	if err := json.Unmarshal(data, &v); err != nil {
		observe(key, resultError)
		log.L.Warn("cache payload corrupted, recomputing", zap.String("key", key), zap.Error(err))
		return v, false
	}

	observe(key, resultHit)
	return v, true
}

func write[T any](ctx context.Context, p *Provider, key string, v T, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		observe(key, resultError)
		log.L.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := p.backend.Set(ctx, p.fullKey(key), data, ttl).Err(); err != nil {
		observe(key, resultError)
		log.L.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
