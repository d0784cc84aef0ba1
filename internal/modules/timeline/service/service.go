package service

import (
	"context"
	"fmt"
	"time"

	"photo-timeline-server/internal/model"
	"photo-timeline-server/internal/modules/timeline/repo"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultInterval = 2 * time.Second
	DefaultLimit    = 30
)

type Options struct {
	Timeout  time.Duration
	Interval time.Duration
	Limit    int
}

// FeedItem entry 及其作者。
type FeedItem struct {
	Entry model.Entry
	Owner model.User
}

// Result LatestEntry 为本次返回的最大 id；超时无新内容时保持传入的游标不变。
type Result struct {
	LatestEntry uint
	Entries     []FeedItem
}

type Service struct {
	entryStore repo.EntryStore
	userStore  repo.UserStore
	clock      Clock
	opts       Options
	log        logrus.FieldLogger
}

func New(entryStore repo.EntryStore, userStore repo.UserStore, clock Clock, opts Options, log logrus.FieldLogger) *Service {
	if clock == nil {
		clock = RealClock()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		entryStore: entryStore,
		userStore:  userStore,
		clock:      clock,
		opts:       opts,
		log:        log,
	}
}

// Poll 查询 viewer 可见且 id > cursor 的新 entry。没有新内容时每隔 Interval 重查一次，
// 直到出现新内容或超过 Timeout。ctx 取消时立即返回 ctx.Err()。
func (s *Service) Poll(ctx context.Context, viewerID uint, cursor uint) (Result, error) {
	start := s.clock.Now()
	log := s.log.WithFields(logrus.Fields{"viewer_id": viewerID, "cursor": cursor})

	for {
		entries, err := s.entryStore.ListVisible(ctx, viewerID, cursor, s.opts.Limit)
		if err != nil {
			return Result{}, fmt.Errorf("查询时间线失败: %w", err)
		}
		if len(entries) > 0 {
			items, err := s.attachOwners(ctx, entries)
			if err != nil {
				return Result{}, err
			}
			latest := entries[len(entries)-1].ID
			log.WithField("latest_entry", latest).Debug("时间线有新内容")
			return Result{LatestEntry: latest, Entries: items}, nil
		}

		if s.clock.Now().Sub(start) >= s.opts.Timeout {
			return Result{LatestEntry: cursor, Entries: []FeedItem{}}, nil
		}
		if err := s.clock.Sleep(ctx, s.opts.Interval); err != nil {
			log.WithError(err).Debug("长轮询被取消")
			return Result{}, err
		}
	}
}

// attachOwners 一次批量查询所有作者，不按可见性过滤。
func (s *Service) attachOwners(ctx context.Context, entries []model.Entry) ([]FeedItem, error) {
	seen := make(map[uint]struct{}, len(entries))
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.UserID]; !ok {
			seen[e.UserID] = struct{}{}
			ids = append(ids, e.UserID)
		}
	}

	users, err := s.userStore.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("查询作者失败: %w", err)
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	items := make([]FeedItem, 0, len(entries))
	for _, e := range entries {
		owner, ok := byID[e.UserID]
		if !ok {
			return nil, fmt.Errorf("entry %d 的作者 %d 不存在", e.ID, e.UserID)
		}
		items = append(items, FeedItem{Entry: e, Owner: owner})
	}
	return items, nil
}
