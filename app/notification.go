package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/inkwellapp/inkwell/internal/blogservice"
	"github.com/inkwellapp/inkwell/internal/mailservice"
)

// absoluteURL builds scheme://domain/path. Notification emails are read
// outside any request context, so relative paths are useless there.
func (app *application) absoluteURL(path string) string {
	return fmt.Sprintf("%s://%s%s", app.config.SiteScheme, app.config.SiteDomain, path)
}

func (app *application) profileURL(username string) string {
	return app.absoluteURL(fmt.Sprintf("/v1/profiles/%s", username))
}

func (app *application) postURL(username string, postID int) string {
	return app.absoluteURL(fmt.Sprintf("/v1/profiles/%s/posts/%d", username, postID))
}

func (app *application) commentModerationURL(commentID int) string {
	return app.absoluteURL(fmt.Sprintf("/v1/admin/comments/%d", commentID))
}

// dispatch hands one message to the mail queue. Failures are logged and
// swallowed: notification delivery is never the caller's problem.
func (app *application) dispatch(r *http.Request, msg *mailservice.Message) {
	err := app.mailService.Dispatch(r.Context(), msg)
	if err != nil {
		app.logger.Error("could not dispatch notification", slog.String("subject", msg.Subject), slog.String("error", err.Error()))
	}
}

// notifyPostPublished alerts every staff account that a new post went
// live. The recipient set is the snapshot of staff emails at this very
// moment.
func (app *application) notifyPostPublished(r *http.Request, post *blogservice.Post) {
	staff, err := app.userService.StaffEmails(r.Context())
	if err != nil {
		app.logger.Error("could not resolve staff recipients", slog.String("error", err.Error()))
		return
	}
	if len(staff) == 0 {
		return
	}

	app.dispatch(r, &mailservice.Message{
		Subject:  "New post notification!",
		HTMLBody: fmt.Sprintf(`New post by <a href="%s">%s</a><br>Check it out!`, app.profileURL(post.Author), post.Author),
		From:     app.config.NoReplyEmail,
		To:       staff,
	})
}

// notifyNewComment fans out two independent notifications: staff get the
// moderation link, the post's author gets the comment content with a
// reminder that it still awaits approval. Neither enqueue depends on the
// other.
func (app *application) notifyNewComment(r *http.Request, post *blogservice.Post, comment *blogservice.Comment) {
	postURL := app.postURL(post.Author, post.ID)

	staff, err := app.userService.StaffEmails(r.Context())
	if err != nil {
		app.logger.Error("could not resolve staff recipients", slog.String("error", err.Error()))
	} else if len(staff) > 0 {
		app.dispatch(r, &mailservice.Message{
			Subject: "New comment notification!",
			HTMLBody: fmt.Sprintf(`<a href="%s">Edit comment</a><br>On <a href="%s">this post</a><br>Commentator: %s<br>Comment: %s`,
				app.commentModerationURL(comment.ID), postURL, comment.Username, comment.Text),
			From: app.config.NoReplyEmail,
			To:   staff,
		})
	}

	author, err := app.userService.GetUserByID(r.Context(), post.UserID)
	if err != nil {
		app.logger.Error("could not resolve post author", slog.String("error", err.Error()))
		return
	}

	app.dispatch(r, &mailservice.Message{
		Subject: fmt.Sprintf("New comment on post %s", post.Title),
		HTMLBody: fmt.Sprintf(`New comment by "%s" on <a href="%s">this post</a><br>Comment: %s<br>Remember, that this comment is not published yet, and has to be approved by the administrator`,
			comment.Username, postURL, comment.Text),
		From: app.config.NoReplyEmail,
		To:   []string{author.Email},
	})
}
