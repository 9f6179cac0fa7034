package blogservice

import (
	"database/sql"
	"time"

	"github.com/inkwellapp/inkwell/internal/common"
)

const (
	// fixed page sizes for the public listing, the profile post lists and
	// the comment thread on a post detail page
	HomePageSize    = 10
	ProfilePageSize = 12
	CommentPageSize = 5
)

type Post struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	// Text is stored in Markdown format.
	Text        string    `json:"text"`
	Image       string    `json:"image,omitempty"`
	UserID      int       `json:"user_id"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	IsPublished bool      `json:"is_published"`
	Version     int       `json:"-"`
}

type Comment struct {
	ID          int       `json:"id"`
	PostID      int       `json:"post_id"`
	Username    string    `json:"username"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	IsPublished bool      `json:"is_published"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
