package models

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := newTestDB(t)
	_, err := CreateUser(database, "Alice", "a@b.com", "hash", RoleReader)
	require.NoError(t, err)
	_, err = CreateUser(database, "Alice Again", "a@b.com", "hash2", RoleReader)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, "a@b.com").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGetUserNotFound(t *testing.T) {
	database := newTestDB(t)
	_, err := GetUserByEmail(database, "nobody@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetUserByID(database, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRoundTrip(t *testing.T) {
	database := newTestDB(t)
	uid, err := CreateUser(database, "Alice", "a@b.com", "hash", RoleAdmin)
	require.NoError(t, err)

	pid, err := CreatePost(database, uid, "T", "S", "August 28, 2026", "B", "U")
	require.NoError(t, err)

	post, err := GetPost(database, pid)
	require.NoError(t, err)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, "S", post.Subtitle)
	assert.Equal(t, "B", post.Body)
	assert.Equal(t, "U", post.ImgURL)
	assert.Equal(t, "August 28, 2026", post.Date)
	assert.Equal(t, uid, post.AuthorID)
	assert.Equal(t, "Alice", post.AuthorName)
}

func TestCreatePostDuplicateTitle(t *testing.T) {
	database := newTestDB(t)
	uid, err := CreateUser(database, "Alice", "a@b.com", "hash", RoleAdmin)
	require.NoError(t, err)

	_, err = CreatePost(database, uid, "T", "S", "d", "B", "U")
	require.NoError(t, err)
	_, err = CreatePost(database, uid, "T", "S2", "d", "B2", "U2")
	assert.ErrorIs(t, err, ErrDuplicateTitle)
}

func TestUpdatePost(t *testing.T) {
	database := newTestDB(t)
	uid, err := CreateUser(database, "Alice", "a@b.com", "hash", RoleAdmin)
	require.NoError(t, err)
	pid, err := CreatePost(database, uid, "T", "S", "d", "B", "U")
	require.NoError(t, err)

	require.NoError(t, UpdatePost(database, pid, "T2", "S2", "B2", "U2"))
	post, err := GetPost(database, pid)
	require.NoError(t, err)
	assert.Equal(t, "T2", post.Title)
	assert.Equal(t, "S2", post.Subtitle)
	assert.Equal(t, "B2", post.Body)
	assert.Equal(t, "U2", post.ImgURL)
	// Author and date are not editable.
	assert.Equal(t, uid, post.AuthorID)
	assert.Equal(t, "d", post.Date)

	assert.ErrorIs(t, UpdatePost(database, 999, "X", "S", "B", "U"), ErrNotFound)

	_, err = CreatePost(database, uid, "Other", "S", "d", "B", "U")
	require.NoError(t, err)
	assert.ErrorIs(t, UpdatePost(database, pid, "Other", "S", "B", "U"), ErrDuplicateTitle)
}

func TestDeletePostCascadesComments(t *testing.T) {
	database := newTestDB(t)
	uid, err := CreateUser(database, "Alice", "a@b.com", "hash", RoleAdmin)
	require.NoError(t, err)
	pid, err := CreatePost(database, uid, "T", "S", "d", "B", "U")
	require.NoError(t, err)
	require.NoError(t, CreateComment(database, pid, uid, "first"))
	require.NoError(t, CreateComment(database, pid, uid, "second"))

	require.NoError(t, DeletePost(database, pid))

	_, err = GetPost(database, pid)
	assert.ErrorIs(t, err, ErrNotFound)

	comments, err := ListCommentsForPost(database, pid)
	require.NoError(t, err)
	assert.Empty(t, comments)

	posts, err := ListPosts(database)
	require.NoError(t, err)
	assert.Empty(t, posts)

	assert.ErrorIs(t, DeletePost(database, pid), ErrNotFound)
}

func TestSessionLifecycle(t *testing.T) {
	database := newTestDB(t)
	uid, err := CreateUser(database, "Alice", "a@b.com", "hash", RoleReader)
	require.NoError(t, err)

	expires := time.Now().Add(time.Hour)
	require.NoError(t, CreateSession(database, uid, "sid-1", expires))

	sess, err := GetSession(database, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, uid, sess.UserID)
	assert.Nil(t, sess.RevokedAt)

	// A second session revokes the first.
	require.NoError(t, CreateSession(database, uid, "sid-2", expires))
	sess, err = GetSession(database, "sid-1")
	require.NoError(t, err)
	assert.NotNil(t, sess.RevokedAt)

	require.NoError(t, RevokeSession(database, "sid-2"))
	sess, err = GetSession(database, "sid-2")
	require.NoError(t, err)
	assert.NotNil(t, sess.RevokedAt)

	_, err = GetSession(database, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCommentsJoinsAuthor(t *testing.T) {
	database := newTestDB(t)
	uid, err := CreateUser(database, "Alice", "a@b.com", "hash", RoleAdmin)
	require.NoError(t, err)
	pid, err := CreatePost(database, uid, "T", "S", "d", "B", "U")
	require.NoError(t, err)
	require.NoError(t, CreateComment(database, pid, uid, "hello"))

	comments, err := ListCommentsForPost(database, pid)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Text)
	assert.Equal(t, "Alice", comments[0].AuthorName)
	assert.Equal(t, "a@b.com", comments[0].AuthorEmail)
	assert.Equal(t, pid, comments[0].PostID)
}
