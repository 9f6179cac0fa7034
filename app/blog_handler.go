package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkwellapp/inkwell/internal/blogservice"
	"github.com/inkwellapp/inkwell/internal/common"
)

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := app.readPageParam(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	posts, err := app.blogService.GetPublishedPosts(r.Context(), page)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// createPostHandler accepts a multipart form with title, text, an
// optional image and an optional publish flag. Publishing fans out a
// staff notification; the enqueue is fire-and-forget and never fails the
// request.
func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(multipartMemory)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	imagePath, err := app.saveFormFile(r, "image", "posts", maxPostImageBytes)
	if err != nil {
		switch {
		case errors.Is(err, errFileTooLarge):
			app.failedValidationErrorResponse(w, r, map[string]string{"image": "Image file size cannot exceed 3 Mbs."})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	req := &blogservice.CreatePostRequest{
		Title:   r.FormValue("title"),
		Text:    r.FormValue("text"),
		UserID:  user.ID,
		Publish: r.Form.Has("publish"),
	}
	if imagePath != nil {
		req.Image = *imagePath
	}

	post, err := app.blogService.CreatePost(r.Context(), req)
	if err != nil {
		// the upload must not outlive the request it arrived with
		if imagePath != nil {
			if removeErr := app.media.Remove(*imagePath); removeErr != nil {
				app.logger.Error("could not remove orphaned upload", slog.String("path", *imagePath), slog.String("error", removeErr.Error()))
			}
		}
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrUserForeignKey):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if post.IsPublished {
		app.notifyPostPublished(r, post)
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// getPostHandler serves the post detail page: the post plus one page of
// its published comments. An unpublished post is visible to its author
// only; everyone else gets the uniform not-found.
func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	username := app.readUsernameParam(r)

	// an unparseable id reads the same as one that never existed
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	page, err := app.readPageParam(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), username, id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !post.IsPublished {
		user := app.getUserContext(r)
		if user == nil || user.IsAnonymous() || user.ID != post.UserID {
			app.notFoundErrorResponse(w, r)
			return
		}
	}

	comments, err := app.blogService.GetPublishedComments(r.Context(), post.ID, page)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post, "comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type updatePostRequest struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	Publish bool   `json:"publish"`
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	username := app.readUsernameParam(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input updatePostRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	dbPost, err := app.blogService.GetPost(r.Context(), username, id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	user := app.getUserContext(r)
	if dbPost.UserID != user.ID {
		app.forbiddenErrorResponse(w, r)
		return
	}

	post, err := app.blogService.UpdatePost(r.Context(), &blogservice.UpdatePostRequest{
		ID:      dbPost.ID,
		UserID:  user.ID,
		Title:   input.Title,
		Text:    input.Text,
		Publish: input.Publish,
	})
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type createCommentRequest struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

// createCommentHandler accepts an anonymous comment on a published
// post's page. The comment starts unpublished and waits for moderation;
// staff and the post's author are notified out of band.
func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	username := app.readUsernameParam(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input createCommentRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), username, id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	comment, err := app.blogService.CreateComment(r.Context(), post.Author, post.ID, input.Username, input.Text)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.notifyNewComment(r, post, comment)

	err = app.writeJSON(w, http.StatusCreated, envelope{"message": "comment submitted for moderation", "comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type setPublishedRequest struct {
	Published bool `json:"published"`
}

func (app *application) setPostPublishedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input setPublishedRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.blogService.SetPostPublished(r.Context(), id, input.Published)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "post publication updated"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) setCommentPublishedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input setPublishedRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.blogService.SetCommentPublished(r.Context(), id, input.Published)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment publication updated"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
