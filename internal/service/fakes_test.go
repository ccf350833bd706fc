package service

import (
	"io"
	"sort"
	"time"

	"forumapi/internal/domain"
	"forumapi/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New(logger.ErrorLevel, io.Discard)
}

// In-memory repositories backing the service tests. They keep the same
// not-found convention as the sql implementations: (nil, nil).

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) add(username, email, passwordHash string, role domain.Role) *domain.User {
	user := &domain.User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.users[user.ID] = user
	r.nextID++
	return user
}

func (r *fakeUserRepo) FindByID(id int64) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsernameOrEmail(username, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username || user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindCollision(username, email string, excludeID int64) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == excludeID {
			continue
		}
		if user.Username == username || user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(user *domain.User) error {
	created := r.add(user.Username, user.Email, user.PasswordHash, user.Role)
	user.ID = created.ID
	return nil
}

func (r *fakeUserRepo) UpdateProfile(id int64, username, email string) error {
	if user, ok := r.users[id]; ok {
		user.Username = username
		user.Email = email
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(id int64, passwordHash string) error {
	if user, ok := r.users[id]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(id int64, avatar string) error {
	if user, ok := r.users[id]; ok {
		user.Avatar = avatar
	}
	return nil
}

func (r *fakeUserRepo) UpdateRole(id int64, role domain.Role) error {
	if user, ok := r.users[id]; ok {
		user.Role = role
	}
	return nil
}

func (r *fakeUserRepo) Delete(id int64) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ProfileByID(id int64) (*domain.Profile, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &domain.Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (r *fakeUserRepo) ListWithPostCounts() ([]domain.UserListItem, error) {
	items := make([]domain.UserListItem, 0, len(r.users))
	for _, user := range r.users {
		items = append(items, domain.UserListItem{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

type fakePostRepo struct {
	nextID int64
	posts  map[int64]*domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{nextID: 1, posts: make(map[int64]*domain.Post)}
}

func (r *fakePostRepo) FindByID(id int64) (*domain.Post, error) {
	if post, ok := r.posts[id]; ok {
		copied := *post
		return &copied, nil
	}
	return nil, nil
}

func (r *fakePostRepo) Create(post *domain.Post) error {
	post.ID = r.nextID
	r.nextID++
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) Update(id int64, title, content, image string) error {
	if post, ok := r.posts[id]; ok {
		post.Title = title
		post.Content = content
		post.Image = image
		post.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakePostRepo) Delete(id int64) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) Count(userID int64) (int, error) {
	count := 0
	for _, post := range r.posts {
		if userID == 0 || post.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakePostRepo) ListPage(userID int64, limit, offset int) ([]domain.Post, error) {
	all := make([]domain.Post, 0, len(r.posts))
	for _, post := range r.posts {
		if userID == 0 || post.UserID == userID {
			all = append(all, *post)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakePostRepo) ImagesByUser(userID int64) ([]string, error) {
	var images []string
	for _, post := range r.posts {
		if post.UserID == userID && post.Image != "" {
			images = append(images, post.Image)
		}
	}
	return images, nil
}

func (r *fakePostRepo) DeleteByUser(userID int64) error {
	for id, post := range r.posts {
		if post.UserID == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

type fakeCommentRepo struct {
	nextID   int64
	comments map[int64]*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, comments: make(map[int64]*domain.Comment)}
}

func (r *fakeCommentRepo) FindByID(id int64) (*domain.Comment, error) {
	if comment, ok := r.comments[id]; ok {
		copied := *comment
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeCommentRepo) Create(comment *domain.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) Update(id int64, content string) error {
	if comment, ok := r.comments[id]; ok {
		comment.Content = content
		comment.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeCommentRepo) Delete(id int64) error {
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) CountByPost(postID int64) (int, error) {
	count := 0
	for _, comment := range r.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) ListPageByPost(postID int64, limit, offset int) ([]domain.Comment, error) {
	all := make([]domain.Comment, 0, len(r.comments))
	for _, comment := range r.comments {
		if comment.PostID == postID {
			all = append(all, *comment)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeCommentRepo) DeleteByUser(userID int64) error {
	for id, comment := range r.comments {
		if comment.UserID == userID {
			delete(r.comments, id)
		}
	}
	return nil
}
