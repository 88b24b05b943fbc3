package website

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Intro to Graphs</title><meta property="og:site_name" content="Study Notes"></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<article>
<h1>Intro to Graphs</h1>
<p>A graph is a set of vertices connected by edges. Graphs model networks of roads, friendships and web pages, and they appear in almost every area of computer science.</p>
<p>Breadth first search visits vertices in order of their distance from the start vertex. It uses a queue and runs in time proportional to the number of vertices plus edges.</p>
<p>Depth first search follows one path as far as it can before backtracking. It is the basis of topological sorting and of finding strongly connected components.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestFetchArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/graphs":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = io.WriteString(w, articlePage)
		case "/image":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		case "/empty":
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "<html><body></body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	f := NewFetcher(srv.Client(), logger_i.Discard())
	ctx := context.Background()

	article, err := f.Fetch(ctx, srv.URL+"/graphs")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Graphs", article.Title)
	assert.Contains(t, article.Text, "Breadth first search")
	assert.Equal(t, srv.URL+"/graphs", article.URL)

	_, err = f.Fetch(ctx, srv.URL+"/image")
	assert.ErrorContains(t, err, "unsupported content type")

	_, err = f.Fetch(ctx, srv.URL+"/empty")
	assert.Error(t, err)

	_, err = f.Fetch(ctx, srv.URL+"/missing")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoReadableContent))
	assert.True(t, strings.Contains(err.Error(), "404"))
}
