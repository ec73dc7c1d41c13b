package model

type Title struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Year        int    `gorm:"not null" json:"year"`
	Description string `gorm:"type:text" json:"description"`

	// Deleting a category must leave its titles in place with a null category.
	CategoryID *int64    `json:"-"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Genres     []Genre   `gorm:"many2many:title_genres;constraint:OnDelete:CASCADE" json:"genres,omitempty"`
}

// TitleGenre is the explicit join model for the title/genre association.
// It carries its own id so the bulk loader can replay exported rows verbatim.
type TitleGenre struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TitleID int64 `gorm:"index;not null" json:"title_id"`
	GenreID int64 `gorm:"index;not null" json:"genre_id"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
