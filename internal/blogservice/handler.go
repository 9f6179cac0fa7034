package blogservice

import (
	"context"
	"database/sql"

	"github.com/inkwellapp/inkwell/internal/common"
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: c}
}

// shortDescription derives the listing teaser from the post text: the
// first 50 runes plus an ellipsis when the text is longer, the text
// verbatim otherwise.
func shortDescription(text string) string {
	runes := []rune(text)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return text
}

type CreatePostRequest struct {
	Title   string
	Text    string
	Image   string
	UserID  int
	Publish bool
}

// CreatePost persists a new post owned by req.UserID. The short
// description is derived from the text and the publish flag decides the
// initial visibility.
func (s *BlogService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateText(v, req.Text)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post := &Post{
		Title:            req.Title,
		ShortDescription: shortDescription(req.Text),
		Text:             sanitizeText(req.Text),
		Image:            req.Image,
		UserID:           req.UserID,
		IsPublished:      req.Publish,
	}

	err := s.m.insertPost(ctx, post)
	if err != nil {
		return nil, err
	}

	return post, nil
}

type UpdatePostRequest struct {
	ID      int
	UserID  int
	Title   string
	Text    string
	Publish bool
}

// UpdatePost rewrites the title and text of a post owned by req.UserID,
// rederiving the short description. The publish flag only ever flips a
// draft to published; there is no unpublish path here.
func (s *BlogService) UpdatePost(ctx context.Context, req *UpdatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateText(v, req.Text)
	validateInt(v, req.ID, "id")
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post := &Post{
		ID:               req.ID,
		Title:            req.Title,
		ShortDescription: shortDescription(req.Text),
		Text:             sanitizeText(req.Text),
		UserID:           req.UserID,
		IsPublished:      req.Publish,
	}

	err := s.m.updatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPost(post.Author, post.ID))

	return post, nil
}

// GetPost looks a post up by its ID and its author's username. A post
// whose author does not match the username is reported as not found, so
// IDs cannot be guessed across authors.
func (s *BlogService) GetPost(ctx context.Context, username string, id int) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	v.Check(username != "", "username", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	key := common.CacheKeyPost(username, id)
	if cached, ok := s.c.Get(key); ok {
		if post, ok := cached.(*Post); ok {
			return post, nil
		}
	}

	post, err := s.m.getPostByAuthor(ctx, username, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, post)

	return post, nil
}

// GetPublishedPosts returns one home-listing page of published posts,
// newest first.
func (s *BlogService) GetPublishedPosts(ctx context.Context, page int) ([]Post, error) {
	if page < 1 {
		page = 1
	}

	return s.m.getPublishedPosts(ctx, HomePageSize, (page-1)*HomePageSize)
}

// GetPostsByAuthor returns one profile page of the author's posts,
// either the published ones or the drafts.
func (s *BlogService) GetPostsByAuthor(ctx context.Context, userID int, published bool, page int) ([]Post, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if page < 1 {
		page = 1
	}

	return s.m.getPostsByAuthor(ctx, userID, published, ProfilePageSize, (page-1)*ProfilePageSize)
}

// SetPostPublished is the trusted moderation capability behind the
// back-office surface. Unlike the authoring flow it may flip the flag in
// both directions.
func (s *BlogService) SetPostPublished(ctx context.Context, id int, published bool) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	username, err := s.m.setPostPublished(ctx, id, published)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPost(username, id))

	return nil
}

// CreateComment persists an unpublished comment on the post identified
// by its author's username and ID. No authentication is involved; the
// username is a free-text display label.
func (s *BlogService) CreateComment(ctx context.Context, username string, postID int, commenter, text string) (*Comment, error) {
	v := common.NewValidator()
	validateCommenter(v, commenter)
	validateCommentText(v, text)
	validateInt(v, postID, "post_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	// resolving through the author username keeps the mismatch case an
	// ordinary not-found
	post, err := s.m.getPostByAuthor(ctx, username, postID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		PostID:   post.ID,
		Username: commenter,
		Text:     text,
	}

	err = s.m.insertComment(ctx, comment)
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// GetPublishedComments returns one page of the post's moderated comments,
// newest first.
func (s *BlogService) GetPublishedComments(ctx context.Context, postID, page int) ([]Comment, error) {
	v := common.NewValidator()
	validateInt(v, postID, "post_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if page < 1 {
		page = 1
	}

	return s.m.getPublishedComments(ctx, postID, CommentPageSize, (page-1)*CommentPageSize)
}

// SetCommentPublished flips a comment's publish flag on behalf of the
// moderation surface.
func (s *BlogService) SetCommentPublished(ctx context.Context, id int, published bool) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.setCommentPublished(ctx, id, published)
}
