package repository

import (
	"gorm.io/gorm"
)

type Repositories struct {
	User   UserStore
	Entry  EntryStore
	Follow FollowStore
}

func NewUserRepository(db *gorm.DB) UserStore {
	return &UserRepository{db: db}
}

func NewEntryRepository(db *gorm.DB) EntryStore {
	return &EntryRepository{db: db}
}

func NewFollowRepository(db *gorm.DB) FollowStore {
	return &FollowRepository{db: db}
}

func NewRepositories(user UserStore, entry EntryStore, follow FollowStore) *Repositories {
	return &Repositories{
		User:   user,
		Entry:  entry,
		Follow: follow,
	}
}
