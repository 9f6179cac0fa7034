package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *BlogModel) insertPost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (title, short_description, text, image, user_id, is_published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version, (SELECT username FROM users u WHERE u.id = posts.user_id)`

	args := []any{
		post.Title,
		post.ShortDescription,
		post.Text,
		post.Image,
		post.UserID,
		post.IsPublished,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&post.ID, &post.CreatedAt, &post.Version, &post.Author)
	if err != nil {
		switch {
		case ForeignKeyError(err, "posts_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getPostByAuthor gets a post by its ID and author username. The join
// means a mismatched username reads as no rows at all.
func (m *BlogModel) getPostByAuthor(ctx context.Context, username string, id int) (*Post, error) {
	query := `
		SELECT p.id, p.title, p.short_description, p.text, p.image, p.user_id, u.username, p.created_at, p.is_published, p.version
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = $1 AND u.username = $2`

	row := m.db.QueryRowContext(ctx, query, id, username)

	var post Post
	err := row.Scan(&post.ID, &post.Title, &post.ShortDescription, &post.Text, &post.Image, &post.UserID, &post.Author, &post.CreatedAt, &post.IsPublished, &post.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &post, nil
}

// updatePost rewrites the editable columns. The publish flag is ORed in
// so a published post can never drop back to a draft through this path.
func (m *BlogModel) updatePost(ctx context.Context, post *Post) error {
	query := `
		UPDATE posts
		SET title = $1, short_description = $2, text = $3, is_published = is_published OR $4, version = version + 1
		WHERE id = $5 AND user_id = $6
		RETURNING image, created_at, is_published, version, (SELECT username FROM users u WHERE u.id = posts.user_id)`

	args := []any{
		post.Title,
		post.ShortDescription,
		post.Text,
		post.IsPublished,
		post.ID,
		post.UserID,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&post.Image, &post.CreatedAt, &post.IsPublished, &post.Version, &post.Author)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getPublishedPosts(ctx context.Context, limit, offset int) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.short_description, p.image, p.user_id, u.username, p.created_at, p.is_published
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.is_published = true
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`

	rows, err := m.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.Title, &post.ShortDescription, &post.Image, &post.UserID, &post.Author, &post.CreatedAt, &post.IsPublished)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *BlogModel) getPostsByAuthor(ctx context.Context, userID int, published bool, limit, offset int) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.short_description, p.image, p.user_id, u.username, p.created_at, p.is_published
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.user_id = $1 AND p.is_published = $2
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4`

	rows, err := m.db.QueryContext(ctx, query, userID, published, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.Title, &post.ShortDescription, &post.Image, &post.UserID, &post.Author, &post.CreatedAt, &post.IsPublished)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *BlogModel) setPostPublished(ctx context.Context, id int, published bool) (string, error) {
	query := `
		UPDATE posts
		SET is_published = $1, version = version + 1
		WHERE id = $2
		RETURNING (SELECT username FROM users u WHERE u.id = posts.user_id)`

	var username string
	err := m.db.QueryRowContext(ctx, query, published, id).Scan(&username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", ErrRecordNotFound
		default:
			return "", err
		}
	}

	return username, nil
}

func (m *BlogModel) insertComment(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (post_id, username, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, is_published`

	err := m.db.QueryRowContext(ctx, query, comment.PostID, comment.Username, comment.Text).Scan(&comment.ID, &comment.CreatedAt, &comment.IsPublished)
	if err != nil {
		switch {
		case ForeignKeyError(err, "comments_post_id_fkey"):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getPublishedComments(ctx context.Context, postID, limit, offset int) ([]Comment, error) {
	query := `
		SELECT id, post_id, username, text, created_at, is_published
		FROM comments
		WHERE post_id = $1 AND is_published = true
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var comment Comment
		err := rows.Scan(&comment.ID, &comment.PostID, &comment.Username, &comment.Text, &comment.CreatedAt, &comment.IsPublished)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *BlogModel) setCommentPublished(ctx context.Context, id int, published bool) error {
	query := `
		UPDATE comments
		SET is_published = $1
		WHERE id = $2`

	res, err := m.db.ExecContext(ctx, query, published, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}
