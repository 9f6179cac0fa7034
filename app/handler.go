package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkwellapp/inkwell/internal/common"
	"github.com/inkwellapp/inkwell/internal/userservice"
)

// maximum accepted upload sizes, in bytes
const (
	maxAvatarBytes    = 1_000_000
	maxPostImageBytes = 3_000_000

	multipartMemory = 4 << 20
)

type registerUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input registerUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	token, err := app.userService.RegisterUser(r.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": "a user with this email address already exists"})
		case errors.Is(err, userservice.ErrDuplicateUsername):
			app.failedValidationErrorResponse(w, r, map[string]string{"username": "this username is already taken"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type loginUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input loginUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	token, err := app.userService.LoginUser(r.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)
	token := app.extractTokenFromHeader(r.Header.Get("Authorization"))

	err := app.userService.LogoutUser(r.Context(), user.ID, token)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "user logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// getProfileHandler returns the profile with one page of the author's
// published posts. The drafts section is included only when the profile
// belongs to the requester.
func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := app.readUsernameParam(r)

	page, err := app.readPageParam(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	profile, err := app.userService.GetProfile(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	posts, err := app.blogService.GetPostsByAuthor(r.Context(), profile.UserID, true, page)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	env := envelope{"profile": profile, "posts": posts}

	user := app.getUserContext(r)
	if user != nil && !user.IsAnonymous() && user.ID == profile.UserID {
		drafts, err := app.blogService.GetPostsByAuthor(r.Context(), profile.UserID, false, page)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		env["drafts"] = drafts
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// updateProfileHandler accepts a multipart form with email, bio, website
// and an optional avatar file. An avatar over 1 MB is rejected with a
// field error before anything is written.
func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(multipartMemory)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	avatarPath, err := app.saveFormFile(r, "avatar", "avatars", maxAvatarBytes)
	if err != nil {
		switch {
		case errors.Is(err, errFileTooLarge):
			app.failedValidationErrorResponse(w, r, map[string]string{"avatar": "Avatar file size cannot exceed 1 Mb."})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	req := &userservice.UpdateProfileRequest{
		UserID:  user.ID,
		Bio:     r.FormValue("bio"),
		Website: r.FormValue("website"),
		Avatar:  avatarPath,
	}

	if email := r.FormValue("email"); email != "" {
		req.Email = &email
	}

	profile, err := app.userService.UpdateProfile(r.Context(), req)
	if err != nil {
		if avatarPath != nil {
			if removeErr := app.media.Remove(*avatarPath); removeErr != nil {
				app.logger.Error("could not remove orphaned upload", slog.String("path", *avatarPath), slog.String("error", removeErr.Error()))
			}
		}
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": "a user with this email address already exists"})
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
