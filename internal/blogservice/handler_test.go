package blogservice

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/common"
)

func TestShortDescription(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "short text verbatim",
			text: "A short post.",
			want: "A short post.",
		},
		{
			name: "exactly fifty characters verbatim",
			text: strings.Repeat("a", 50),
			want: strings.Repeat("a", 50),
		},
		{
			name: "long text truncated with ellipsis",
			text: strings.Repeat("a", 60),
			want: strings.Repeat("a", 50) + "...",
		},
		{
			name: "truncation counts runes not bytes",
			text: strings.Repeat("é", 60),
			want: strings.Repeat("é", 50) + "...",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := shortDescription(tc.text)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestShortDescriptionTruncatedLength(t *testing.T) {
	text := strings.Repeat("x", 60)

	got := shortDescription(text)

	assert.Len(t, got, 53)
	assert.True(t, strings.HasSuffix(got, "..."))
}

// setupTestUser is a helper function to create a test author in the database.
func setupTestUser(t *testing.T, db *sql.DB, username string) int {
	t.Helper()

	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	err := db.QueryRow(query, username, username+"@example.com", []byte("x")).Scan(&id)
	require.NoError(t, err)

	return id
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB, int) {
	t.Helper()

	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	userID := setupTestUser(t, db, "testauthor")

	return NewBlogService(db, cache), db, userID
}

func TestCreatePost(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		req         *CreatePostRequest
		expectedErr error
	}{
		{
			name: "valid draft",
			req: &CreatePostRequest{
				Title:  "Test Post",
				Text:   "This is a test post.",
				UserID: userID,
			},
			expectedErr: nil,
		},
		{
			name: "empty title",
			req: &CreatePostRequest{
				Title:  "",
				Text:   "This is a test post.",
				UserID: userID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name: "empty text",
			req: &CreatePostRequest{
				Title:  "Test Post",
				Text:   "",
				UserID: userID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"text": "must be provided"}},
		},
		{
			name: "missing user",
			req: &CreatePostRequest{
				Title:  "Test Post",
				Text:   "This is a test post.",
				UserID: 999999,
			},
			expectedErr: ErrUserForeignKey,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			post, err := s.CreatePost(context.Background(), tc.req)
			if tc.expectedErr != nil {
				assert.EqualError(t, err, tc.expectedErr.Error())
				return
			}

			assert.NoError(t, err)
			assert.NotZero(t, post.ID)
			assert.Equal(t, "testauthor", post.Author)
			assert.False(t, post.IsPublished)
			assert.Equal(t, tc.req.Text, post.ShortDescription)
		})
	}
}

func TestCreatePostDerivesShortDescription(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	text := strings.Repeat("b", 60)
	post, err := s.CreatePost(context.Background(), &CreatePostRequest{
		Title:  "Long Post",
		Text:   text,
		UserID: userID,
	})
	require.NoError(t, err)

	assert.Len(t, post.ShortDescription, 53)
	assert.Equal(t, strings.Repeat("b", 50)+"...", post.ShortDescription)

	got, err := s.GetPost(context.Background(), "testauthor", post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ShortDescription, got.ShortDescription)
}

func TestPublishedVisibility(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	draft, err := s.CreatePost(context.Background(), &CreatePostRequest{
		Title:  "Draft",
		Text:   "not public yet",
		UserID: userID,
	})
	require.NoError(t, err)

	published, err := s.CreatePost(context.Background(), &CreatePostRequest{
		Title:   "Published",
		Text:    "hello world",
		UserID:  userID,
		Publish: true,
	})
	require.NoError(t, err)

	posts, err := s.GetPublishedPosts(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, published.ID, posts[0].ID)

	visible, err := s.GetPostsByAuthor(context.Background(), userID, true, 1)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	drafts, err := s.GetPostsByAuthor(context.Background(), userID, false, 1)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)
}

func TestGetPostAuthorMismatch(t *testing.T) {
	s, db, userID := setupTestEnvironment(t)

	setupTestUser(t, db, "otherauthor")

	post, err := s.CreatePost(context.Background(), &CreatePostRequest{
		Title:   "Owned",
		Text:    "text",
		UserID:  userID,
		Publish: true,
	})
	require.NoError(t, err)

	_, err = s.GetPost(context.Background(), "otherauthor", post.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	got, err := s.GetPost(context.Background(), "testauthor", post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

func TestUpdatePost(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	post, err := s.CreatePost(context.Background(), &CreatePostRequest{
		Title:   "Original",
		Text:    "original text",
		UserID:  userID,
		Publish: true,
	})
	require.NoError(t, err)

	longText := strings.Repeat("c", 70)
	updated, err := s.UpdatePost(context.Background(), &UpdatePostRequest{
		ID:     post.ID,
		UserID: userID,
		Title:  "Updated",
		Text:   longText,
		// publish flag absent must not unpublish
		Publish: false,
	})
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("c", 50)+"...", updated.ShortDescription)
	assert.True(t, updated.IsPublished)

	// a different user cannot address the row
	_, err = s.UpdatePost(context.Background(), &UpdatePostRequest{
		ID:     post.ID,
		UserID: userID + 1,
		Title:  "Hijack",
		Text:   "nope",
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCreateComment(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	post, err := s.CreatePost(context.Background(), &CreatePostRequest{
		Title:   "Commentable",
		Text:    "text",
		UserID:  userID,
		Publish: true,
	})
	require.NoError(t, err)

	comment, err := s.CreateComment(context.Background(), "testauthor", post.ID, "visitor", "nice post")
	require.NoError(t, err)
	assert.False(t, comment.IsPublished)
	assert.Equal(t, post.ID, comment.PostID)

	// mismatched author username reads as not found and writes nothing
	_, err = s.CreateComment(context.Background(), "otherauthor", post.ID, "visitor", "hello")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// invisible until moderated
	comments, err := s.GetPublishedComments(context.Background(), post.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, comments)

	err = s.SetCommentPublished(context.Background(), comment.ID, true)
	require.NoError(t, err)

	comments, err = s.GetPublishedComments(context.Background(), post.ID, 1)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, "visitor", comments[0].Username)
}

func TestSetPostPublished(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	post, err := s.CreatePost(context.Background(), &CreatePostRequest{
		Title:  "Moderated",
		Text:   "text",
		UserID: userID,
	})
	require.NoError(t, err)

	err = s.SetPostPublished(context.Background(), post.ID, true)
	require.NoError(t, err)

	posts, err := s.GetPublishedPosts(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	err = s.SetPostPublished(context.Background(), 999999, true)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
