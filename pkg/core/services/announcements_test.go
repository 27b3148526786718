package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostAnnouncement(t *testing.T) {
	mock := &mockStore{}
	author := admin()

	announcement, err := PostAnnouncement(context.Background(), mock, zap.NewNop(), author, " Concert ", "Details here")
	require.NoError(t, err)

	assert.NotEmpty(t, announcement.ID)
	assert.Equal(t, "Concert", announcement.Title)
	assert.Equal(t, author.Name, announcement.Author)
	assert.False(t, announcement.Timestamp.IsZero())

	require.Len(t, mock.insertedPosts, 1)
	assert.Equal(t, author.ID, mock.insertedPosts[0].AuthorID)
}

func TestPostAnnouncement_Validation(t *testing.T) {
	mock := &mockStore{}
	ctx := context.Background()

	_, err := PostAnnouncement(ctx, mock, zap.NewNop(), admin(), "", "content")
	assert.Error(t, err)

	_, err = PostAnnouncement(ctx, mock, zap.NewNop(), admin(), "title", "  ")
	assert.Error(t, err)

	_, err = PostAnnouncement(ctx, mock, zap.NewNop(), member(), "title", "content")
	assert.ErrorIs(t, err, ErrNotPermitted)

	assert.Empty(t, mock.insertedPosts)
}

func TestEditAnnouncement(t *testing.T) {
	mock := &mockStore{}

	err := EditAnnouncement(context.Background(), mock, zap.NewNop(), admin(), "n1", "New title", "New content")
	require.NoError(t, err)

	require.Len(t, mock.updatedPosts, 1)
	assert.Equal(t, "n1", mock.updatedPosts[0].ID)
	assert.Equal(t, "New title", mock.updatedPosts[0].Title)

	err = EditAnnouncement(context.Background(), mock, zap.NewNop(), member(), "n1", "t", "c")
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestDeleteAnnouncement(t *testing.T) {
	mock := &mockStore{}

	err := DeleteAnnouncement(context.Background(), mock, zap.NewNop(), admin(), "n1")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, mock.deletedPosts)

	err = DeleteAnnouncement(context.Background(), mock, zap.NewNop(), member(), "n2")
	assert.ErrorIs(t, err, ErrNotPermitted)
}
