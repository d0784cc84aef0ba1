package handler

import (
	"photo-timeline-server/internal/modules/common/httpx"
	mediaservice "photo-timeline-server/internal/modules/media/service"
)

type Handler struct {
	mediaService *mediaservice.Service
	urls         httpx.URLBuilder
}

func New(mediaService *mediaservice.Service, urls httpx.URLBuilder) *Handler {
	return &Handler{mediaService: mediaService, urls: urls}
}
