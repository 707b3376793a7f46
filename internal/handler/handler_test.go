package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authormodel "bibliotech/internal/domains/author/model"
	bookmodel "bibliotech/internal/domains/book/model"
	"bibliotech/internal/infrastructure/notify"
	"bibliotech/internal/infrastructure/queue"
	"bibliotech/internal/remote"
	"bibliotech/internal/session"
)

type testAPI struct {
	engine  *gin.Engine
	session *session.Session
	gw      *remote.Memory
	history *notify.Recorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw := remote.NewMemory()
	history := notify.NewRecorder(10)
	s := session.New(gw, history, session.Options{})
	require.NoError(t, s.Start(context.Background()))

	r := gin.New()
	v1 := r.Group("/api/v1")
	NewAuthorHandler(s).RegisterRoutes(v1)
	NewBookHandler(s).RegisterRoutes(v1)
	NewSessionHandler(s, history).RegisterRoutes(v1)

	return &testAPI{engine: r, session: s, gw: gw, history: history}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (a *testAPI) createAuthor(t *testing.T, first, last string) authormodel.Author {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/v1/authors", gin.H{"firstName": first, "lastName": last})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var author authormodel.Author
	require.NoError(t, json.Unmarshal(env.Data, &author))
	return author
}

func TestCreateAuthor(t *testing.T) {
	api := newTestAPI(t)

	a := api.createAuthor(t, "Jane", "Austen")

	assert.NotEmpty(t, a.ID)
	assert.True(t, api.session.Authors().Exists(a.ID))
}

func TestCreateAuthorValidation(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/v1/authors", gin.H{"firstName": "Jane"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Zero(t, api.gw.Calls(remote.OpInsertAuthor))
}

func TestCreateBookAcceptsNumericYear(t *testing.T) {
	api := newTestAPI(t)
	a := api.createAuthor(t, "Jane", "Austen")

	w, env := api.do(t, http.MethodPost, "/api/v1/books", gin.H{"authorId": a.ID, "isbn": "978", "title": "Emma", "year": 1815})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b bookmodel.Book
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Equal(t, 1815, b.Year)
}

func TestCreateBookRejectsFractionalYear(t *testing.T) {
	api := newTestAPI(t)
	a := api.createAuthor(t, "Jane", "Austen")

	w, env := api.do(t, http.MethodPost, "/api/v1/books", gin.H{"authorId": a.ID, "isbn": "978", "title": "Emma", "year": 1812.6})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Message, `got "1812.6"`)
	assert.Zero(t, api.gw.Calls(remote.OpInsertBook))
	assert.Empty(t, api.session.Books().Records())
}

func TestCreateBookRejectsShortYear(t *testing.T) {
	api := newTestAPI(t)
	a := api.createAuthor(t, "Jane", "Austen")

	w, env := api.do(t, http.MethodPost, "/api/v1/books", gin.H{"authorId": a.ID, "isbn": "978", "title": "Emma", "year": "81"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Message, "year must be 4 digits")
	assert.Zero(t, api.gw.Calls(remote.OpInsertBook))
}

func TestDeleteAuthorWithBooks(t *testing.T) {
	api := newTestAPI(t)
	a := api.createAuthor(t, "Jane", "Austen")
	w, _ := api.do(t, http.MethodPost, "/api/v1/books", gin.H{"authorId": a.ID, "isbn": "978", "title": "Emma", "year": "1815"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := api.do(t, http.MethodDelete, "/api/v1/authors/"+a.ID, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REFERENCED", env.Error.Code)
	assert.Equal(t, authormodel.ErrAuthorHasBooks.Error(), env.Error.Message)

	w, env = api.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []notify.Notification
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	require.NotEmpty(t, notes)
	assert.Equal(t, "Error deleting author", notes[len(notes)-1].Title)
}

func TestAuthorBooks(t *testing.T) {
	api := newTestAPI(t)
	a := api.createAuthor(t, "Jane", "Austen")
	api.do(t, http.MethodPost, "/api/v1/books", gin.H{"authorId": a.ID, "isbn": "978", "title": "Emma", "year": "1815"})

	w, env := api.do(t, http.MethodGet, "/api/v1/authors/"+a.ID+"/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []bookmodel.BookView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Austen", views[0].AuthorLastName)

	w, _ = api.do(t, http.MethodGet, "/api/v1/authors/missing/books", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksViewControls(t *testing.T) {
	api := newTestAPI(t)
	a := api.createAuthor(t, "Jane", "Austen")
	for i := range 7 {
		w, _ := api.do(t, http.MethodPost, "/api/v1/books", gin.H{
			"authorId": a.ID, "isbn": fmt.Sprint(i), "title": fmt.Sprintf("Book %d", i), "year": fmt.Sprint(1900 + i),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := api.do(t, http.MethodPost, "/api/v1/books/view/page", gin.H{"page": 2})
	require.Equal(t, http.StatusOK, w.Code)
	var vm session.ViewModel[bookmodel.BookView]
	require.NoError(t, json.Unmarshal(env.Data, &vm))
	assert.Equal(t, 2, vm.CurrentPage)
	assert.Len(t, vm.Records, 2)

	w, _ = api.do(t, http.MethodPost, "/api/v1/books/view/page", gin.H{"page": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(t, http.MethodPost, "/api/v1/books/view/sort", gin.H{"field": "year"})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = api.do(t, http.MethodPost, "/api/v1/books/view/sort", gin.H{"field": "year"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &vm))
	assert.Equal(t, "desc", string(vm.SortDirection))

	w, _ = api.do(t, http.MethodPost, "/api/v1/books/view/sort", gin.H{"field": "price"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(t, http.MethodPost, "/api/v1/books/view/search", gin.H{"query": "1906"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &vm))
	assert.Equal(t, 1, vm.Total)
	assert.Equal(t, 1, vm.CurrentPage)
	assert.Equal(t, "Book 6", vm.Records[0].Title)
}

func TestClosedSessionReturns503(t *testing.T) {
	api := newTestAPI(t)
	api.session.Close()

	w, env := api.do(t, http.MethodPost, "/api/v1/authors", gin.H{"firstName": "Jane", "lastName": "Austen"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SESSION_CLOSED", env.Error.Code)
}

func TestRefreshReportsRemoteFailure(t *testing.T) {
	api := newTestAPI(t)
	api.gw.FailNext(remote.OpListAuthors, "connection refused")

	w, env := api.do(t, http.MethodPost, "/api/v1/refresh", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "connection refused", env.Error.Message)

	w, _ = api.do(t, http.MethodPost, "/api/v1/refresh", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExportThenImport(t *testing.T) {
	src := newTestAPI(t)
	a := src.createAuthor(t, "Jane", "Austen")
	src.do(t, http.MethodPost, "/api/v1/books", gin.H{"authorId": a.ID, "isbn": "978", "title": "Emma", "year": "1815"})

	w := httptest.NewRecorder()
	src.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "export.xlsx")
	require.NoError(t, err)
	_, err = part.Write(w.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	dst := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	dst.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, dst.session.Authors().Records(), 1)
	assert.Len(t, dst.session.Books().Records(), 1)
}

func TestImportRequiresFile(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodPost, "/api/v1/import", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeQueue struct {
	id  string
	err error
	n   int
}

func (f *fakeQueue) EnqueueSnapshot(context.Context, string) (string, error) {
	f.n++
	return f.id, f.err
}

func TestSnapshotRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		queue  *fakeQueue
		status int
	}{
		{name: "queued", queue: &fakeQueue{id: "t1"}, status: http.StatusAccepted},
		{name: "pending", queue: &fakeQueue{err: queue.ErrSnapshotPending}, status: http.StatusConflict},
		{name: "redis down", queue: &fakeQueue{err: errors.New("dial tcp: refused")}, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			NewSnapshotHandler(tt.queue).RegisterRoutes(r.Group("/api/v1"))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/snapshots", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, 1, tt.queue.n)
		})
	}
}
