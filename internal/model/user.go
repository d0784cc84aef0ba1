package model

type User struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"unique;not null;size:32"`
	APIKey string `json:"-" gorm:"column:api_key;unique;not null;size:64"`
	Icon   string `json:"icon" gorm:"not null;size:64"`
}
