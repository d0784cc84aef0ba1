package dto

import (
	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/model"
	"photo-timeline-server/internal/modules/common/httpx"
)

// PublicUser 对外公开的用户信息，icon 为绝对地址。
type PublicUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type EntryResponse struct {
	ID           uint                `json:"id"`
	Image        string              `json:"image"`
	PublishLevel consts.PublishLevel `json:"publish_level"`
	User         PublicUser          `json:"user"`
}

type UsersResponse struct {
	Users []PublicUser `json:"users"`
}

func NewPublicUser(u model.User, links httpx.Links) PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Icon: links.Icon(u.Icon)}
}

func NewPublicUsers(users []model.User, links httpx.Links) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, NewPublicUser(u, links))
	}
	return out
}

func NewEntryResponse(e model.Entry, owner model.User, links httpx.Links) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		Image:        links.Image(e.Image),
		PublishLevel: e.PublishLevel,
		User:         NewPublicUser(owner, links),
	}
}
