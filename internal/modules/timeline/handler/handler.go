package handler

import (
	"photo-timeline-server/internal/modules/common/httpx"
	timelineservice "photo-timeline-server/internal/modules/timeline/service"
)

type Handler struct {
	timelineService *timelineservice.Service
	urls            httpx.URLBuilder
}

func New(timelineService *timelineservice.Service, urls httpx.URLBuilder) *Handler {
	return &Handler{timelineService: timelineService, urls: urls}
}
