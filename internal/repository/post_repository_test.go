package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forumapi/internal/domain"
)

func TestPostRepositoryCreateAndFind(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db, testLogger())
	posts := NewPostRepository(db, testLogger())

	alice := seedUser(t, users, "alice")

	post := &domain.Post{UserID: alice.ID, Title: "hello", Content: "world", Image: "post_1_1.png"}
	require.NoError(t, posts.Create(post))
	require.NotZero(t, post.ID)

	found, err := posts.FindByID(post.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "hello", found.Title)
	assert.Equal(t, "alice", found.Username)
	assert.Equal(t, "post_1_1.png", found.Image)

	missing, err := posts.FindByID(999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostRepositoryListOrdersByLastTouched(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db, testLogger())
	posts := NewPostRepository(db, testLogger())

	alice := seedUser(t, users, "alice")

	first := &domain.Post{UserID: alice.ID, Title: "first", Content: "c"}
	second := &domain.Post{UserID: alice.ID, Title: "second", Content: "c"}
	third := &domain.Post{UserID: alice.ID, Title: "third", Content: "c"}

	for _, p := range []*domain.Post{first, second, third} {
		require.NoError(t, posts.Create(p))
		time.Sleep(2 * time.Millisecond)
	}

	page, err := posts.ListPage(0, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "third", page[0].Title)
	assert.Equal(t, "first", page[2].Title)

	// Editing floats a post back to the top.
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, posts.Update(first.ID, "first edited", "c", ""))

	page, err = posts.ListPage(0, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "first edited", page[0].Title)
}

func TestPostRepositoryCountAndFilter(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db, testLogger())
	posts := NewPostRepository(db, testLogger())

	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")

	require.NoError(t, posts.Create(&domain.Post{UserID: alice.ID, Title: "a1", Content: "c"}))
	require.NoError(t, posts.Create(&domain.Post{UserID: alice.ID, Title: "a2", Content: "c"}))
	require.NoError(t, posts.Create(&domain.Post{UserID: bob.ID, Title: "b1", Content: "c"}))

	total, err := posts.Count(0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	mine, err := posts.Count(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, mine)

	page, err := posts.ListPage(bob.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b1", page[0].Title)

	page, err = posts.ListPage(0, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestPostRepositoryDeleteRemovesComments(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db, testLogger())
	posts := NewPostRepository(db, testLogger())
	comments := NewCommentRepository(db, testLogger())

	alice := seedUser(t, users, "alice")

	post := &domain.Post{UserID: alice.ID, Title: "t", Content: "c"}
	require.NoError(t, posts.Create(post))
	require.NoError(t, comments.Create(&domain.Comment{UserID: alice.ID, PostID: post.ID, Content: "hi"}))

	require.NoError(t, posts.Delete(post.ID))

	gone, err := posts.FindByID(post.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	count, err := comments.CountByPost(post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostRepositoryImagesAndDeleteByUser(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db, testLogger())
	posts := NewPostRepository(db, testLogger())
	comments := NewCommentRepository(db, testLogger())

	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")

	withImage := &domain.Post{UserID: alice.ID, Title: "t", Content: "c", Image: "post_1_1.png"}
	require.NoError(t, posts.Create(withImage))
	require.NoError(t, posts.Create(&domain.Post{UserID: alice.ID, Title: "t2", Content: "c"}))
	require.NoError(t, comments.Create(&domain.Comment{UserID: bob.ID, PostID: withImage.ID, Content: "from bob"}))

	images, err := posts.ImagesByUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"post_1_1.png"}, images)

	require.NoError(t, posts.DeleteByUser(alice.ID))

	total, err := posts.Count(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	// Other users' comments on the deleted posts are gone too.
	count, err := comments.CountByPost(withImage.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
