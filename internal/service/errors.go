package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-redis/redis/v8"
)

var (
	ErrDemoStarNotFound = errors.New("DemoStar 不存在")
	ErrActorNotFound    = errors.New("作品集不存在")
	ErrImageNotFound    = errors.New("图片不存在")
	ErrNotImageOwner    = errors.New("只能修改自己的作品集图片")
	ErrUserNotFound     = errors.New("用户不存在")

	// ErrDataAccess 存储或缓存访问失败，可用 errors.Is 判断
	ErrDataAccess = errors.New("data access failure")
)

// DataAccessError 存储/缓存访问失败。Transient 为 true 时调用方可重试。
type DataAccessError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *DataAccessError) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s: %s data access failure: %v", e.Op, kind, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

func (e *DataAccessError) Is(target error) bool {
	return target == ErrDataAccess
}

// IsTransient 错误是否为可重试的临时故障
func IsTransient(err error) bool {
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return dae.Transient
	}
	return isTransientCause(err)
}

func dataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return err
	}
	return &DataAccessError{Op: op, Transient: isTransientCause(err), Err: err}
}

func isTransientCause(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, redis.ErrClosed) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
