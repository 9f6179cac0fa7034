package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/inkwellapp/inkwell/internal/common"
	"github.com/inkwellapp/inkwell/internal/mailservice"
	"github.com/inkwellapp/inkwell/internal/userservice"
)

//go:embed templates/*
var templateFS embed.FS

var contactFormTmpl = template.Must(template.ParseFS(templateFS, "templates/contact_form.html"))

type contactFormData struct {
	Values map[string]string
	Errors map[string]string
}

func renderContactForm(data *contactFormData) (string, error) {
	var buf bytes.Buffer
	err := contactFormTmpl.ExecuteTemplate(&buf, "contact_form", data)
	if err != nil {
		return "", fmt.Errorf("could not render contact form: %w", err)
	}

	return buf.String(), nil
}

func validateContactForm(name, email, subject, text string) map[string]string {
	v := common.NewValidator()

	v.Check(name != "", "name", "must be provided")
	v.Check(len(name) <= 50, "name", "must not be more than 50 characters long")
	v.Check(email != "", "email", "must be provided")
	v.Check(userservice.EmailRX.MatchString(email), "email", "must be a valid email address")
	v.Check(subject != "", "subject", "must be provided")
	v.Check(len(subject) <= 150, "subject", "must not be more than 150 characters long")
	v.Check(text != "", "text", "must be provided")
	v.Check(len(text) <= 1000, "text", "must not be more than 1000 characters long")

	if v.Valid() {
		return nil
	}
	return v.Errors
}

// contactHandler answers the contact form with a structured payload: a
// validity flag plus the form fragment to swap in place, so the page
// never navigates. A valid submission enqueues exactly one message to
// the contact mailbox; an invalid one enqueues nothing.
func (app *application) contactHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var (
		name    = r.PostFormValue("name")
		email   = r.PostFormValue("email")
		subject = r.PostFormValue("subject")
		text    = r.PostFormValue("text")
	)

	formErrors := validateContactForm(name, email, subject, text)
	formIsValid := formErrors == nil

	data := &contactFormData{
		Values: map[string]string{"name": name, "email": email, "subject": subject, "text": text},
		Errors: formErrors,
	}

	if formIsValid {
		app.dispatch(r, &mailservice.Message{
			Subject:   "New user application!",
			PlainBody: fmt.Sprintf("Name: %s\nEmail: %s\nSubject: %s\nMessage: %s", name, email, subject, text),
			From:      app.config.NoReplyEmail,
			To:        []string{app.config.ContactEmail},
		})

		// a fresh, unbound form goes back to the client
		data = &contactFormData{Values: map[string]string{}}
	}

	htmlForm, err := renderContactForm(data)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"form_is_valid": formIsValid, "html_form": htmlForm}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
