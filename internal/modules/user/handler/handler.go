package handler

import (
	"photo-timeline-server/internal/modules/common/httpx"
	userservice "photo-timeline-server/internal/modules/user/service"
)

type Handler struct {
	userService *userservice.Service
	urls        httpx.URLBuilder
}

func New(userService *userservice.Service, urls httpx.URLBuilder) *Handler {
	return &Handler{userService: userService, urls: urls}
}
