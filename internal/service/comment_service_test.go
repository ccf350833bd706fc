package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forumapi/internal/domain"
)

type commentFixture struct {
	comments *fakeCommentRepo
	posts    *fakePostRepo
	service  domain.CommentService
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()

	comments := newFakeCommentRepo()
	posts := newFakePostRepo()

	return &commentFixture{
		comments: comments,
		posts:    posts,
		service:  NewCommentService(comments, posts, testLogger()),
	}
}

func (f *commentFixture) addPost(t *testing.T, userID int64) *domain.Post {
	t.Helper()
	post := &domain.Post{UserID: userID, Title: "t", Content: "c"}
	require.NoError(t, f.posts.Create(post))
	return post
}

func TestCommentCreate(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	post := f.addPost(t, 1)

	err := f.service.Create(ctx, nil, post.ID, "hello")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))

	err = f.service.Create(ctx, user(2), post.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, "The comment cannot be empty.", err.Error())

	err = f.service.Create(ctx, user(2), 99, "hello")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "Post not found.", err.Error())

	require.NoError(t, f.service.Create(ctx, user(2), post.ID, "hello"))

	count, err := f.comments.CountByPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCommentListPagination(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	post := f.addPost(t, 1)

	for i := 0; i < 7; i++ {
		require.NoError(t, f.service.Create(ctx, user(2), post.ID, fmt.Sprintf("comment %d", i)))
	}

	comments, pagination, err := f.service.ListByPost(ctx, post.ID, 1, 5)
	require.NoError(t, err)
	assert.Len(t, comments, 5)
	assert.Equal(t, 7, pagination.TotalCount)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.True(t, pagination.HasNext)

	comments, pagination, err = f.service.ListByPost(ctx, post.ID, 2, 5)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.False(t, pagination.HasNext)
	assert.True(t, pagination.HasPrevious)
}

func TestCommentUpdateAuthorization(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	post := f.addPost(t, 1)

	require.NoError(t, f.service.Create(ctx, user(2), post.ID, "original"))

	err := f.service.Update(ctx, user(3), 1, "edited")
	require.Error(t, err)
	assert.Equal(t, "You are not allowed to modify this resource.", err.Error())

	require.NoError(t, f.service.Update(ctx, user(2), 1, "by author"))
	require.NoError(t, f.service.Update(ctx, admin(9), 1, "by admin"))

	comment, err := f.comments.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "by admin", comment.Content)

	_, err = f.comments.FindByID(99)
	require.NoError(t, err)
	err = f.service.Update(ctx, user(2), 99, "edited")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestCommentDelete(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	post := f.addPost(t, 1)

	require.NoError(t, f.service.Create(ctx, user(2), post.ID, "hello"))

	err := f.service.Delete(ctx, user(3), 1)
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	require.NoError(t, f.service.Delete(ctx, admin(9), 1))

	comment, err := f.comments.FindByID(1)
	require.NoError(t, err)
	assert.Nil(t, comment)
}
