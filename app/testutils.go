package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inkwellapp/inkwell/internal/blogservice"
	"github.com/inkwellapp/inkwell/internal/common"
	"github.com/inkwellapp/inkwell/internal/mailservice"
	"github.com/inkwellapp/inkwell/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

// newTestApplication wires the full application over throwaway containers.
func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	rabbitURI := common.TestRabbitMQ(t)
	rabbitmq, err := common.NewMessageBroker(rabbitURI)
	assert.NoError(t, err)

	err = common.SetupMailExchange(rabbitmq)
	assert.NoError(t, err)

	cfg, err := loadConfig("../.test.env")
	assert.NoError(t, err)

	cfg.MediaDir = t.TempDir()
	media, err := common.NewDiskMediaStore(cfg.MediaDir)
	assert.NoError(t, err)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, cache, cfg.DefaultAvatar),
		blogService: blogservice.NewBlogService(db, cache),
		mailService: mailservice.NewMailService(rabbitmq, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailPort, logger),
		broker:      rabbitmq,
		media:       media,
	}

	return app, db
}

// newRecordingBusApplication wires the application over a container
// database but replaces the broker with a recording bus, so tests can
// assert exactly which notifications a request enqueued.
func newRecordingBusApplication(t *testing.T) (*application, *sql.DB, *mailservice.MockMessageBus) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	bus := &mailservice.MockMessageBus{}

	cfg, err := loadConfig("../.test.env")
	assert.NoError(t, err)

	cfg.MediaDir = t.TempDir()
	media, err := common.NewDiskMediaStore(cfg.MediaDir)
	assert.NoError(t, err)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, cache, cfg.DefaultAvatar),
		blogService: blogservice.NewBlogService(db, cache),
		mailService: mailservice.NewMailService(bus, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailPort, logger),
		media:       media,
	}

	return app, db, bus
}

// newMockMailApplication wires the application without any containers:
// no database, and a recording bus in place of the broker. Enough for
// handlers that only touch configuration and the mail queue.
func newMockMailApplication(t *testing.T) (*application, *mailservice.MockMessageBus) {
	cfg, err := loadConfig("../.test.env")
	assert.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	bus := &mailservice.MockMessageBus{}

	app := &application{
		config:      cfg,
		logger:      logger,
		mailService: mailservice.NewMailService(bus, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailPort, logger),
	}

	return app, bus
}

func (ts *testServer) post(t *testing.T, path string, data any, token *string) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	body := bytes.NewReader(jsonPayload)
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) (int, http.Header, envelope) {
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

// postMultipart submits fields plus optional in-memory files keyed by
// form field name.
func (ts *testServer) postMultipart(t *testing.T, path string, fields map[string]string, files map[string][]byte, token *string) (int, http.Header, envelope) {
	return ts.multipartRequest(t, http.MethodPost, path, fields, files, token)
}

func (ts *testServer) putMultipart(t *testing.T, path string, fields map[string]string, files map[string][]byte, token *string) (int, http.Header, envelope) {
	return ts.multipartRequest(t, http.MethodPut, path, fields, files, token)
}

func (ts *testServer) multipartRequest(t *testing.T, method, path string, fields map[string]string, files map[string][]byte, token *string) (int, http.Header, envelope) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for field, value := range fields {
		if err := mw.WriteField(field, value); err != nil {
			t.Fatal(err)
		}
	}

	for field, content := range files {
		part, err := mw.CreateFormFile(field, field+".png")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatal(err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) put(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	body := bytes.NewReader(jsonPayload)
	req, err := http.NewRequest(http.MethodPut, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}
