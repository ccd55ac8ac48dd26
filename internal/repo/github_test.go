// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGitHub(t *testing.T, mux *http.ServeMux) *GitHub {
	t.Helper()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	g, err := NewGitHub(context.Background(), ts.Client(), "tok", "octo/posts")
	require.NoError(t, err)
	u, err := url.Parse(ts.URL + "/")
	require.NoError(t, err)
	g.client.BaseURL = u
	return g
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestNewGitHub_RejectsBadName(t *testing.T) {
	for _, name := range []string{"", "octo", "/posts", "octo/", "a/b/c"} {
		_, err := NewGitHub(context.Background(), nil, "", name)
		assert.Error(t, err, name)
	}
	g, err := NewGitHub(context.Background(), nil, "", "octo/posts")
	require.NoError(t, err)
	assert.Equal(t, "octo/posts", g.FullName())
}

func TestGitHub_DefaultBranchSendsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/posts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"default_branch": "trunk"}`)
	})
	g := testGitHub(t, mux)

	branch, err := g.DefaultBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "trunk", branch)
}

func TestGitHub_ExistingFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"default_branch": "main"}`)
	})
	mux.HandleFunc("GET /repos/octo/posts/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		writeJSON(w, http.StatusOK, `[{"number": 1}, {"number": 2}]`)
	})
	mux.HandleFunc("GET /repos/octo/posts/pulls/1/files", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"filename": "posts/feed_bot/news/a.md"}]`)
	})
	mux.HandleFunc("GET /repos/octo/posts/pulls/2/files", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"filename": "README.md"}, {"filename": "posts/feed_bot/news/img.png"}]`)
	})
	mux.HandleFunc("GET /repos/octo/posts/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		writeJSON(w, http.StatusOK, `{"sha": "t1", "tree": [
			{"path": "posts/feed_bot/news", "type": "tree"},
			{"path": "posts/feed_bot/news/b.md", "type": "blob"},
			{"path": "posts/feed_bot/news/logo.svg", "type": "blob"},
			{"path": "posts/citation_bot/1/c.md", "type": "blob"}
		]}`)
	})
	g := testGitHub(t, mux)

	set, err := ExistingFiles(context.Background(), g, "posts/feed_bot")
	require.NoError(t, err)

	// PR files keep any extension under the prefix; tree files must be Markdown.
	assert.Equal(t, FileSet{
		"posts/feed_bot/news/a.md":    {},
		"posts/feed_bot/news/img.png": {},
		"posts/feed_bot/news/b.md":    {},
	}, set)
}

func TestGitHub_BranchLifecycle(t *testing.T) {
	var created struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}
	var put struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
	}
	deleted := false

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/posts/branches/main", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"name": "main", "commit": {"sha": "abc"}}`)
	})
	mux.HandleFunc("POST /repos/octo/posts/git/refs", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		writeJSON(w, http.StatusCreated, `{"ref": "refs/heads/feed-update-1", "object": {"sha": "abc"}}`)
	})
	mux.HandleFunc("PUT /repos/octo/posts/contents/{path...}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "posts/feed_bot/news/a.md", r.PathValue("path"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&put))
		writeJSON(w, http.StatusCreated, `{"content": {"path": "posts/feed_bot/news/a.md"}}`)
	})
	mux.HandleFunc("GET /repos/octo/posts/compare/{basehead}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc...def", r.PathValue("basehead"))
		writeJSON(w, http.StatusOK, `{"total_commits": 2}`)
	})
	mux.HandleFunc("DELETE /repos/octo/posts/git/refs/heads/feed-update-1", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	g := testGitHub(t, mux)
	ctx := context.Background()

	sha, err := g.BranchSHA(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "abc", sha)

	require.NoError(t, g.CreateBranch(ctx, "feed-update-1", sha))
	assert.Equal(t, "refs/heads/feed-update-1", created.Ref)
	assert.Equal(t, "abc", created.SHA)

	require.NoError(t, g.CreateFile(ctx, "feed-update-1", "posts/feed_bot/news/a.md", "Add A to feed", []byte("---\nmedia: x\n---\nA")))
	assert.Equal(t, "Add A to feed", put.Message)
	assert.Equal(t, "feed-update-1", put.Branch)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("---\nmedia: x\n---\nA")), put.Content)

	n, err := g.CommitsBetween(ctx, "abc", "def")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, g.DeleteBranch(ctx, "feed-update-1"))
	assert.True(t, deleted)
}

func TestGitHub_CreatePullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octo/posts/pulls", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "feed-update-1", body["head"])
		assert.Equal(t, "main", body["base"])
		assert.Equal(t, "Update", body["title"])
		writeJSON(w, http.StatusCreated, `{"number": 7, "title": "Update", "html_url": "https://github.com/octo/posts/pull/7"}`)
	})
	g := testGitHub(t, mux)

	pr, err := g.CreatePullRequest(context.Background(), PullRequestInput{
		Title: "Update", Body: "- a", SourceBranch: "feed-update-1", TargetBranch: "main",
	})
	require.NoError(t, err)
	assert.Equal(t, &PullRequest{Number: 7, Title: "Update", URL: "https://github.com/octo/posts/pull/7"}, pr)
}

func TestGitHub_PlatformError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octo/posts/pulls", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{
			"message": "Validation Failed",
			"errors": [{"resource": "PullRequest", "code": "custom", "message": "A pull request already exists for octo:feed-update-1."}]
		}`)
	})
	g := testGitHub(t, mux)

	_, err := g.CreatePullRequest(context.Background(), PullRequestInput{Title: "x", SourceBranch: "feed-update-1", TargetBranch: "main"})
	var pe *PlatformError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, http.StatusUnprocessableEntity, pe.Status)
	assert.Equal(t, "A pull request already exists for octo:feed-update-1.", pe.Message)

}

func TestGitHub_BranchSHANotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/posts/branches/gone", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message": "Branch not found"}`)
	})
	g := testGitHub(t, mux)

	sha, err := g.BranchSHA(context.Background(), "gone")
	require.Error(t, err)
	assert.Empty(t, sha)
	assert.Contains(t, err.Error(), "get branch gone")
	assert.Contains(t, err.Error(), "404")
}
