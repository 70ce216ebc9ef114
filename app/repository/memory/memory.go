// Package memory provides in-memory implementations of the repository
// interfaces. They enforce the same unique constraints as the SQL schema
// and are used by service and controller tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
)

type likeKey struct {
	userID, postID uint
}

// Store holds all rows behind a single mutex.
type Store struct {
	mu         sync.Mutex
	nextID     uint
	users      map[uint]models.User
	posts      map[uint]models.Post
	comments   map[uint]models.Comment
	likes      map[likeKey]models.Like
	categories []models.Category

	// Now stamps CreatedAt/UpdatedAt, defaults to the current UTC time.
	Now func() time.Time
}

func New() *Store {
	return &Store{
		users:    make(map[uint]models.User),
		posts:    make(map[uint]models.Post),
		comments: make(map[uint]models.Comment),
		likes:    make(map[likeKey]models.Like),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Repositories wires the store into the repository container.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:     &userRepo{s},
		Post:     &postRepo{s},
		Comment:  &commentRepo{s},
		Like:     &likeRepo{s},
		Category: &categoryRepo{s},
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// withUser attaches the author like Preload("User") does.
func (s *Store) withUser(p models.Post) models.Post {
	p.User = s.users[p.UserID]
	return p
}

// ---- users

type userRepo struct{ s *Store }

func (r *userRepo) taken(u *models.User) bool {
	for id, other := range r.s.users {
		if id != u.ID && (other.Username == u.Username || other.Email == u.Email) {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.taken(u) {
		return apperrors.ErrConflict
	}
	u.ID = r.s.id()
	u.CreatedAt = r.s.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if r.taken(u) {
		return apperrors.ErrConflict
	}
	u.UpdatedAt = r.s.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) SetActive(_ context.Context, id uint, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Active = active
	r.s.users[id] = u
	return nil
}

func (r *userRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.LastLoginAt = &at
	r.s.users[id] = u
	return nil
}

func (r *userRepo) UsernameTaken(_ context.Context, username string, exceptID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if id != exceptID && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) EmailTaken(_ context.Context, email string, exceptID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if id != exceptID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) List(_ context.Context, offset, limit int) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return paginate(users, offset, limit), nil
}

func (r *userRepo) ListRecent(ctx context.Context, limit int) ([]models.User, error) {
	return r.List(ctx, 0, limit)
}

func (r *userRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

// ---- posts

type postRepo struct{ s *Store }

func (r *postRepo) slugTaken(slug string, exceptID uint) bool {
	for id, p := range r.s.posts {
		if id != exceptID && p.Slug == slug {
			return true
		}
	}
	return false
}

func (r *postRepo) Create(_ context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.slugTaken(p.Slug, 0) {
		return apperrors.ErrConflict
	}
	p.ID = r.s.id()
	p.CreatedAt = r.s.Now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.User = models.User{}
	r.s.posts[p.ID] = stored
	return nil
}

func (r *postRepo) Update(_ context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if r.slugTaken(p.Slug, p.ID) {
		return apperrors.ErrConflict
	}
	p.UpdatedAt = r.s.Now()
	stored := *p
	stored.User = models.User{}
	r.s.posts[p.ID] = stored
	return nil
}

func (r *postRepo) GetByID(_ context.Context, id uint) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p = r.s.withUser(p)
	return &p, nil
}

func (r *postRepo) find(match func(models.Post) bool) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.posts {
		if match(p) {
			p = r.s.withUser(p)
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *postRepo) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	return r.find(func(p models.Post) bool { return p.Slug == slug })
}

func (r *postRepo) GetPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	return r.find(func(p models.Post) bool { return p.Slug == slug && p.Published })
}

func (r *postRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.slugTaken(slug, 0), nil
}

func (r *postRepo) SlugTakenByOther(_ context.Context, slug string, exceptID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.slugTaken(slug, exceptID), nil
}

func (r *postRepo) filter(match func(models.Post) bool) []models.Post {
	var out []models.Post
	for _, p := range r.s.posts {
		if match(p) {
			out = append(out, r.s.withUser(p))
		}
	}
	return out
}

func publishedTime(p models.Post) time.Time {
	if p.PublishedAt == nil {
		return time.Time{}
	}
	return *p.PublishedAt
}

func byPublishedDesc(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		ti, tj := publishedTime(posts[i]), publishedTime(posts[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return posts[i].ID > posts[j].ID
	})
}

func byViewsDesc(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Views != posts[j].Views {
			return posts[i].Views > posts[j].Views
		}
		return posts[i].ID > posts[j].ID
	})
}

func (r *postRepo) ListPublished(_ context.Context, category string, offset, limit int) ([]models.Post, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posts := r.filter(func(p models.Post) bool {
		return p.Published && (category == "" || p.Category == category)
	})
	byPublishedDesc(posts)
	return paginate(posts, offset, limit), int64(len(posts)), nil
}

func (r *postRepo) ListFeatured(_ context.Context, since time.Time, limit int) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posts := r.filter(func(p models.Post) bool {
		return p.Published && p.PublishedAt != nil && !p.PublishedAt.Before(since)
	})
	byViewsDesc(posts)
	return paginate(posts, 0, limit), nil
}

func (r *postRepo) ListSimilar(_ context.Context, post *models.Post, limit int) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posts := r.filter(func(p models.Post) bool {
		return p.Published && p.Category == post.Category && p.ID != post.ID
	})
	byViewsDesc(posts)
	return paginate(posts, 0, limit), nil
}

func (r *postRepo) Search(_ context.Context, query string, offset, limit int) ([]models.Post, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(query)
	posts := r.filter(func(p models.Post) bool {
		return p.Published && (strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Content), q) ||
			strings.Contains(strings.ToLower(p.Tags), q))
	})
	byPublishedDesc(posts)
	return paginate(posts, offset, limit), int64(len(posts)), nil
}

func (r *postRepo) ListByUser(_ context.Context, userID uint) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posts := r.filter(func(p models.Post) bool { return p.UserID == userID })
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (r *postRepo) ListRecent(_ context.Context, limit int) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posts := r.filter(func(models.Post) bool { return true })
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return paginate(posts, 0, limit), nil
}

func (r *postRepo) IncrementViews(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Views++
	r.s.posts[id] = p
	return nil
}

func (r *postRepo) DeleteCascade(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return apperrors.ErrNotFound
	}
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	for k := range r.s.likes {
		if k.postID == id {
			delete(r.s.likes, k)
		}
	}
	delete(r.s.posts, id)
	return nil
}

func (r *postRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.posts)), nil
}

func (r *postRepo) GetDailyStats(_ context.Context, since time.Time) ([]models.DailyStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[string]int)
	for _, p := range r.s.posts {
		if !p.CreatedAt.Before(since) {
			counts[p.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}
	out := make([]models.DailyStats, 0, len(counts))
	for day, n := range counts {
		out = append(out, models.DailyStats{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *postRepo) GetTopCategories(_ context.Context, limit int) ([]models.CategoryStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[string]int)
	for _, p := range r.s.posts {
		if p.Published {
			counts[p.Category]++
		}
	}
	out := make([]models.CategoryStats, 0, len(counts))
	for c, n := range counts {
		out = append(out, models.CategoryStats{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return paginate(out, 0, limit), nil
}

func (r *postRepo) GetUserStats(_ context.Context, userID uint) (models.UserDashboardStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var stats models.UserDashboardStats
	for _, p := range r.s.posts {
		if p.UserID != userID {
			continue
		}
		stats.TotalPosts++
		if p.Published {
			stats.PublishedPosts++
		}
		stats.TotalViews += p.Views
		for k := range r.s.likes {
			if k.postID == p.ID {
				stats.TotalLikes++
			}
		}
	}
	return stats, nil
}

// ---- comments

type commentRepo struct{ s *Store }

func (r *commentRepo) hydrate(c models.Comment) models.Comment {
	c.User = r.s.users[c.UserID]
	c.Post = r.s.posts[c.PostID]
	return c
}

func (r *commentRepo) Create(_ context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	c.CreatedAt = r.s.Now()
	stored := *c
	stored.User, stored.Post = models.User{}, models.Post{}
	r.s.comments[c.ID] = stored
	return nil
}

func (r *commentRepo) GetByID(_ context.Context, id uint) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c = r.hydrate(c)
	return &c, nil
}

func (r *commentRepo) collect(match func(models.Comment) bool, newestFirst bool) []models.Comment {
	var out []models.Comment
	for _, c := range r.s.comments {
		if match(c) {
			out = append(out, r.hydrate(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *commentRepo) ListTopLevelApproved(_ context.Context, postID uint) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(c models.Comment) bool {
		return c.PostID == postID && c.ParentID == nil && c.Approved
	}, true), nil
}

func (r *commentRepo) ListApprovedReplies(_ context.Context, parentIDs []uint) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	parents := make(map[uint]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	return r.collect(func(c models.Comment) bool {
		return c.ParentID != nil && parents[*c.ParentID] && c.Approved
	}, false), nil
}

func (r *commentRepo) ListPending(_ context.Context) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(c models.Comment) bool { return !c.Approved }, true), nil
}

func (r *commentRepo) ListAll(_ context.Context, limit int) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return paginate(r.collect(func(models.Comment) bool { return true }, true), 0, limit), nil
}

func (r *commentRepo) Approve(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.Approved = true
	r.s.comments[id] = c
	return nil
}

func (r *commentRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *commentRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.comments)), nil
}

func (r *commentRepo) CountPending(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.comments {
		if !c.Approved {
			n++
		}
	}
	return n, nil
}

// ---- likes

type likeRepo struct{ s *Store }

func (r *likeRepo) Create(_ context.Context, userID, postID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := likeKey{userID, postID}
	if _, ok := r.s.likes[k]; ok {
		return apperrors.ErrConflict
	}
	r.s.likes[k] = models.Like{ID: r.s.id(), UserID: userID, PostID: postID, CreatedAt: r.s.Now()}
	return nil
}

func (r *likeRepo) Delete(_ context.Context, userID, postID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := likeKey{userID, postID}
	if _, ok := r.s.likes[k]; !ok {
		return false, nil
	}
	delete(r.s.likes, k)
	return true, nil
}

func (r *likeRepo) Exists(_ context.Context, userID, postID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.likes[likeKey{userID, postID}]
	return ok, nil
}

func (r *likeRepo) CountByPost(_ context.Context, postID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k := range r.s.likes {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}

// ---- categories

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Seed(_ context.Context, names []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range names {
		found := false
		for _, c := range r.s.categories {
			if c.Name == n {
				found = true
				break
			}
		}
		if !found {
			r.s.categories = append(r.s.categories, models.Category{ID: r.s.id(), Name: n})
		}
	}
	return nil
}

func (r *categoryRepo) List(_ context.Context) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.Category(nil), r.s.categories...), nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
