package model

type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	Name string `gorm:"size:256;not null" json:"name"`
	Slug string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
}
