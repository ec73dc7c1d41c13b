package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Text string `gorm:"type:text;not null" json:"text"`

	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ReviewID int64     `gorm:"not null;index" json:"-"`
	Review   *Review   `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	PubDate time.Time `gorm:"autoCreateTime" json:"pub_date"`
}
