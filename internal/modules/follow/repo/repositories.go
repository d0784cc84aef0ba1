package repo

import (
	"photo-timeline-server/internal/repository"
)

// FollowStore 关注图访问接口，实现位于 internal/repository。
type FollowStore = repository.FollowStore
