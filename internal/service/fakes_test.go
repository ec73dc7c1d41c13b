package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub.app/reviewhub/internal/model"
	"reviewhub.app/reviewhub/internal/repository"
)

// In-memory repository fakes. They return gorm.ErrRecordNotFound the same way
// the real repositories do so the services' error mapping is exercised.

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	user, ok := r.users[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context, search string, offset, limit int) ([]*model.User, int64, error) {
	var matched []*model.User
	for _, user := range r.users {
		if search == "" || strings.Contains(user.Username, search) || strings.Contains(user.Email, search) {
			copied := *user
			matched = append(matched, &copied)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, parsed)
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*model.Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*model.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *model.Category) error {
	r.nextID++
	category.ID = r.nextID
	stored := *category
	r.categories[category.Slug] = &stored
	return nil
}

func (r *fakeCategoryRepo) FindBySlug(_ context.Context, slug string) (*model.Category, error) {
	category, ok := r.categories[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) FindAll(_ context.Context, search string, offset, limit int) ([]*model.Category, int64, error) {
	var matched []*model.Category
	for _, category := range r.categories {
		if search == "" || strings.Contains(category.Name, search) {
			copied := *category
			matched = append(matched, &copied)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeCategoryRepo) DeleteBySlug(_ context.Context, slug string) error {
	delete(r.categories, slug)
	return nil
}

type fakeGenreRepo struct {
	genres map[string]*model.Genre
	nextID int64
}

func newFakeGenreRepo() *fakeGenreRepo {
	return &fakeGenreRepo{genres: make(map[string]*model.Genre)}
}

func (r *fakeGenreRepo) Create(_ context.Context, genre *model.Genre) error {
	r.nextID++
	genre.ID = r.nextID
	stored := *genre
	r.genres[genre.Slug] = &stored
	return nil
}

func (r *fakeGenreRepo) FindBySlug(_ context.Context, slug string) (*model.Genre, error) {
	genre, ok := r.genres[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *genre
	return &copied, nil
}

func (r *fakeGenreRepo) FindBySlugs(_ context.Context, slugs []string) ([]model.Genre, error) {
	var found []model.Genre
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if seen[slug] {
			continue
		}
		seen[slug] = true
		if genre, ok := r.genres[slug]; ok {
			found = append(found, *genre)
		}
	}
	return found, nil
}

func (r *fakeGenreRepo) FindAll(_ context.Context, search string, offset, limit int) ([]*model.Genre, int64, error) {
	var matched []*model.Genre
	for _, genre := range r.genres {
		if search == "" || strings.Contains(genre.Name, search) {
			copied := *genre
			matched = append(matched, &copied)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeGenreRepo) DeleteBySlug(_ context.Context, slug string) error {
	delete(r.genres, slug)
	return nil
}

type fakeTitleRepo struct {
	titles map[int64]*model.Title
	nextID int64
}

func newFakeTitleRepo() *fakeTitleRepo {
	return &fakeTitleRepo{titles: make(map[int64]*model.Title)}
}

func (r *fakeTitleRepo) Create(_ context.Context, title *model.Title) error {
	r.nextID++
	title.ID = r.nextID
	stored := *title
	r.titles[title.ID] = &stored
	return nil
}

func (r *fakeTitleRepo) FindByID(_ context.Context, id int64) (*model.Title, error) {
	title, ok := r.titles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *title
	return &copied, nil
}

func (r *fakeTitleRepo) FindAll(_ context.Context, q repository.TitleQuery) ([]*model.Title, int64, error) {
	var matched []*model.Title
	for _, title := range r.titles {
		if q.Name != "" && !strings.Contains(title.Name, q.Name) {
			continue
		}
		if q.Year != 0 && title.Year != q.Year {
			continue
		}
		copied := *title
		matched = append(matched, &copied)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeTitleRepo) Update(_ context.Context, title *model.Title) error {
	if _, ok := r.titles[title.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *title
	r.titles[title.ID] = &stored
	return nil
}

func (r *fakeTitleRepo) ReplaceGenres(_ context.Context, title *model.Title, genres []model.Genre) error {
	stored, ok := r.titles[title.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Genres = genres
	return nil
}

func (r *fakeTitleRepo) Delete(_ context.Context, id int64) error {
	delete(r.titles, id)
	return nil
}

type fakeReviewRepo struct {
	reviews map[int64]*model.Review
	nextID  int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[int64]*model.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	for _, existing := range r.reviews {
		if existing.AuthorID == review.AuthorID && existing.TitleID == review.TitleID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	review.ID = r.nextID
	stored := *review
	r.reviews[review.ID] = &stored
	return nil
}

func (r *fakeReviewRepo) FindByIDAndTitle(_ context.Context, id, titleID int64) (*model.Review, error) {
	review, ok := r.reviews[id]
	if !ok || review.TitleID != titleID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) FindByAuthorAndTitle(_ context.Context, authorID uuid.UUID, titleID int64) (*model.Review, error) {
	for _, review := range r.reviews {
		if review.AuthorID == authorID && review.TitleID == titleID {
			copied := *review
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReviewRepo) FindAllByTitle(_ context.Context, titleID int64, offset, limit int) ([]*model.Review, int64, error) {
	var matched []*model.Review
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			copied := *review
			matched = append(matched, &copied)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *model.Review) error {
	if _, ok := r.reviews[review.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *review
	r.reviews[review.ID] = &stored
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id int64) error {
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) AverageScore(_ context.Context, titleID int64) (*float64, error) {
	var sum, count int
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			sum += review.Score
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(count)
	return &avg, nil
}

func (r *fakeReviewRepo) AverageScores(_ context.Context, titleIDs []int64) (map[int64]float64, error) {
	averages := make(map[int64]float64)
	for _, titleID := range titleIDs {
		avg, _ := r.AverageScore(context.Background(), titleID)
		if avg != nil {
			averages[titleID] = *avg
		}
	}
	return averages, nil
}

type fakeCommentRepo struct {
	comments map[int64]*model.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*model.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) FindByIDAndReview(_ context.Context, id, reviewID int64) (*model.Comment, error) {
	comment, ok := r.comments[id]
	if !ok || comment.ReviewID != reviewID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) FindAllByReview(_ context.Context, reviewID int64, offset, limit int) ([]*model.Comment, int64, error) {
	var matched []*model.Comment
	for _, comment := range r.comments {
		if comment.ReviewID == reviewID {
			copied := *comment
			matched = append(matched, &copied)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *model.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id int64) error {
	delete(r.comments, id)
	return nil
}

type fakeMailer struct {
	lastEmail string
	lastCode  string
}

func (m *fakeMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	m.lastEmail = email
	m.lastCode = code
	return nil
}
