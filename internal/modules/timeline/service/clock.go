package service

import (
	"context"
	"time"
)

// Clock 轮询使用的时间源，测试中替换为假时钟。
type Clock interface {
	Now() time.Time
	// Sleep 等待 d，ctx 取消时提前返回 ctx.Err()。
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// RealClock 基于系统时间的 Clock。
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
