package handler

import (
	"photo-timeline-server/internal/modules/common/httpx"
	entryservice "photo-timeline-server/internal/modules/entry/service"
)

type Handler struct {
	entryService *entryservice.Service
	urls         httpx.URLBuilder
}

func New(entryService *entryservice.Service, urls httpx.URLBuilder) *Handler {
	return &Handler{entryService: entryService, urls: urls}
}
