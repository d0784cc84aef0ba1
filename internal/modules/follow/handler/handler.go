package handler

import (
	followservice "photo-timeline-server/internal/modules/follow/service"
	"photo-timeline-server/internal/modules/common/httpx"
)

type Handler struct {
	followService *followservice.Service
	urls          httpx.URLBuilder
}

func New(followService *followservice.Service, urls httpx.URLBuilder) *Handler {
	return &Handler{followService: followService, urls: urls}
}
