package imaging

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Limited 限制同时进行的变换数量，排队的请求在 ctx 取消时放弃等待。
type Limited struct {
	next Transformer
	sem  *semaphore.Weighted
}

func NewLimited(next Transformer, maxConcurrent int) *Limited {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Limited{next: next, sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

func (l *Limited) acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("等待图片处理槽位: %w", err)
	}
	return nil
}

func (l *Limited) Identify(ctx context.Context, srcPath string) (Dimensions, error) {
	if err := l.acquire(ctx); err != nil {
		return Dimensions{}, err
	}
	defer l.sem.Release(1)
	return l.next.Identify(ctx, srcPath)
}

func (l *Limited) CropToSquare(ctx context.Context, srcPath string, ext string) (string, error) {
	if err := l.acquire(ctx); err != nil {
		return "", err
	}
	defer l.sem.Release(1)
	return l.next.CropToSquare(ctx, srcPath, ext)
}

func (l *Limited) Resize(ctx context.Context, srcPath string, ext string, width int, height int) ([]byte, error) {
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	defer l.sem.Release(1)
	return l.next.Resize(ctx, srcPath, ext, width, height)
}
