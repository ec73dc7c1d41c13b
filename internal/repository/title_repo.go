package repository

import (
	"context"

	"gorm.io/gorm"

	"reviewhub.app/reviewhub/internal/model"
)

// TitleQuery mirrors the supported list filters.
type TitleQuery struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
	Offset       int
	Limit        int
}

type TitleRepository interface {
	Create(ctx context.Context, title *model.Title) error
	FindByID(ctx context.Context, id int64) (*model.Title, error)
	FindAll(ctx context.Context, q TitleQuery) ([]*model.Title, int64, error)
	Update(ctx context.Context, title *model.Title) error
	ReplaceGenres(ctx context.Context, title *model.Title, genres []model.Genre) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, title *model.Title) error {
	return r.db.WithContext(ctx).Create(title).Error
}

func (r *titleRepository) FindByID(ctx context.Context, id int64) (*model.Title, error) {
	var title model.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, "titles.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) FindAll(ctx context.Context, q TitleQuery) ([]*model.Title, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Title{})

	if q.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", q.CategorySlug)
	}
	if q.GenreSlug != "" {
		query = query.
			Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", q.GenreSlug)
	}
	if q.Name != "" {
		query = query.Where("titles.name ILIKE ?", "%"+q.Name+"%")
	}
	if q.Year != 0 {
		query = query.Where("titles.year = ?", q.Year)
	}

	// Count on a detached session so its Distinct select does not stick to
	// the statement the Find below reuses.
	var total int64
	if err := query.Session(&gorm.Session{}).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var titles []*model.Title
	if err := query.
		Distinct("titles.*").
		Preload("Category").
		Preload("Genres").
		Order("titles.id").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&titles).Error; err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (r *titleRepository) Update(ctx context.Context, title *model.Title) error {
	return r.db.WithContext(ctx).Save(title).Error
}

func (r *titleRepository) ReplaceGenres(ctx context.Context, title *model.Title, genres []model.Genre) error {
	return r.db.WithContext(ctx).Model(title).Association("Genres").Replace(genres)
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Title{}, "id = ?", id).Error
}
