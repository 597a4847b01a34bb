package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autoreview/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func TestAPICommentCreate(t *testing.T) {
	valid := `{"name":"Jo","email":"jo@example.com","comment":"Great review of the car","postName":"Golf GTI"}`

	tests := []struct {
		name       string
		body       string
		repoErr    error
		wantStatus int
		wantMsg    string
	}{
		{"created", valid, nil, http.StatusCreated, "Comment created successfully"},
		{"short name", `{"name":"J","email":"jo@example.com","comment":"Great review of the car","postName":"Golf GTI"}`, nil,
			http.StatusBadRequest, "Name is required and must be at least 2 characters"},
		{"bad email", `{"name":"Jo","email":"jo@example","comment":"Great review of the car","postName":"Golf GTI"}`, nil,
			http.StatusBadRequest, "Valid email is required"},
		{"short comment", `{"name":"Jo","email":"jo@example.com","comment":"too short","postName":"Golf GTI"}`, nil,
			http.StatusBadRequest, "Comment must be at least 10 characters"},
		{"no post name", `{"name":"Jo","email":"jo@example.com","comment":"Great review of the car"}`, nil,
			http.StatusBadRequest, "Post name is required"},
		{"invalid json", `{"name":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"unauthorized", valid, repositories.ErrUnauthorized, http.StatusForbidden,
			"Authentication error. Please check your Sanity configuration."},
		{"store failure", valid, assert.AnError, http.StatusInternalServerError,
			"An error occurred while creating the comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := setupTestRepos()
			repos.comments.Err = tt.repoErr
			h := setupTestHandler(t, repos)

			w := doRequest(t, h, "POST", "/api/comments", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp map[string]string
			decode(t, w, &resp)
			assert.Equal(t, tt.wantMsg, resp["message"])

			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "comment-1", resp["commentId"])
				created := repos.comments.All()
				require.Len(t, created, 3)
				assert.False(t, created[2].Approved)
			} else {
				assert.Zero(t, repos.comments.Created)
			}
		})
	}
}

func TestAPICommentList(t *testing.T) {
	h := setupTestHandler(t, setupTestRepos())

	w := doRequest(t, h, "GET", "/api/posts/ford-mustang-gt500/comments", "")
	require.Equal(t, http.StatusOK, w.Code)

	var comments []map[string]interface{}
	decode(t, w, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0]["_id"])
	assert.NotContains(t, comments[0], "email")

	w = doRequest(t, h, "GET", "/api/posts/unknown-post/comments", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestAPIContent(t *testing.T) {
	h := setupTestHandler(t, setupTestRepos())

	t.Run("posts newest first", func(t *testing.T) {
		w := doRequest(t, h, "GET", "/api/posts", "")
		require.Equal(t, http.StatusOK, w.Code)
		var posts []map[string]interface{}
		decode(t, w, &posts)
		require.Len(t, posts, 3)
		assert.Equal(t, "Civic Type R", posts[0]["title"])
	})

	t.Run("post by slug", func(t *testing.T) {
		w := doRequest(t, h, "GET", "/api/posts/golf-gti", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Golf GTI"`)

		w = doRequest(t, h, "GET", "/api/posts/missing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"error"`)
	})

	t.Run("news with related", func(t *testing.T) {
		w := doRequest(t, h, "GET", "/api/news/charging", "")
		require.Equal(t, http.StatusOK, w.Code)
		var article struct {
			Item    map[string]interface{}   `json:"item"`
			Related []map[string]interface{} `json:"related"`
		}
		decode(t, w, &article)
		assert.Equal(t, "n1", article.Item["_id"])
		require.Len(t, article.Related, 1)
		assert.Equal(t, "n2", article.Related[0]["_id"])

		w = doRequest(t, h, "GET", "/api/news?limit=x", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("cars and compare", func(t *testing.T) {
		w := doRequest(t, h, "GET", "/api/cars", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"GT500"`)

		w = doRequest(t, h, "GET", "/api/compare?first=car-gt500&second=car-golf", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"label":"Price","first":"$79,995","second":"$32,000"`)

		w = doRequest(t, h, "GET", "/api/compare?first=car-gt500", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"comparison":null`)

		w = doRequest(t, h, "GET", "/api/compare?first=nope", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("search", func(t *testing.T) {
		w := doRequest(t, h, "GET", "/api/search?q=g&scope=cars", "")
		require.Equal(t, http.StatusOK, w.Code)
		var listing struct {
			State  string `json:"state"`
			Groups []struct {
				Key string `json:"key"`
			} `json:"groups"`
		}
		decode(t, w, &listing)
		assert.Equal(t, "matches", listing.State)
		require.Len(t, listing.Groups, 1)
		assert.Equal(t, "G", listing.Groups[0].Key)

		w = doRequest(t, h, "GET", "/api/search?q=%20", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"state":"not-searched"`)

		w = doRequest(t, h, "GET", "/api/search?q=a&scope=trucks", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown api route", func(t *testing.T) {
		w := doRequest(t, h, "GET", "/api/unknown", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})
}

func TestAPIContentStoreFailure(t *testing.T) {
	repos := setupTestRepos()
	repos.posts.Err = assert.AnError
	repos.cars.Err = assert.AnError
	h := setupTestHandler(t, repos)

	for _, target := range []string{"/api/posts", "/api/cars", "/api/search?q=a"} {
		w := doRequest(t, h, "GET", target, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code, target)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error(), target)
	}

	w := doRequest(t, h, "GET", "/api/home", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"featured":[]`)
	assert.Contains(t, w.Body.String(), `"failed":["featured","latest-updates"]`)
}
