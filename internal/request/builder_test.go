package request

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_AddScenario(t *testing.T) {
	b := NewBuilder("https://shiori.example.com/", nil)

	req, err := b.Build(OpAdd, Args{
		{Key: "new-url", Value: "https://example.com"},
		{Key: "token", Value: "abc"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://shiori.example.com/api/bookmarks", req.URL)
	assert.True(t, req.HasBody)
	assert.Equal(t, `{"url": "https://example.com"}`, req.Body)
	assert.Contains(t, req.Headers, Header{Name: "Authorization", Value: "Bearer abc"})
	assert.Contains(t, req.Headers, Header{Name: "Content-Type", Value: "application/json"})
}

func TestBuild_DeleteBodyIsVerbatim(t *testing.T) {
	b := NewBuilder("http://localhost:8080", nil)

	req, err := b.Build(OpDelete, Args{
		{Key: "ids", Value: "[1,2,3]"},
		{Key: "token", Value: "abc"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "[1,2,3]", req.Body)
	assert.Equal(t, "Bearer abc", req.Header("authorization"))
}

func TestBuild_ArticlePathAndNoBody(t *testing.T) {
	b := NewBuilder("http://localhost:8080", nil)

	req, err := b.Build(OpArticle, Args{{Key: "id", Value: "42"}, {Key: "token", Value: "t"}})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/bookmark/42/content", req.URL)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.False(t, req.HasBody)
	assert.Empty(t, req.Body)
}

func TestBuild_LoginHasNoAuthorization(t *testing.T) {
	b := NewBuilder("http://localhost:8080", nil)

	req, err := b.Build(OpLogin, Args{{Key: "username", Value: "u"}, {Key: "password", Value: "p"}})
	require.NoError(t, err)

	assert.Empty(t, req.Header("Authorization"))
	assert.Equal(t, `{"username": "u", "password": "p", "remember": true}`, req.Body)
	assert.Equal(t, "http://localhost:8080/api/v1/auth/login", req.URL)
}

func TestBuild_MissingArguments(t *testing.T) {
	b := NewBuilder("http://localhost:8080", nil)

	tests := []struct {
		op   string
		args Args
		want []string
	}{
		{OpBookmarks, nil, []string{"token"}},
		{OpArticle, Args{{Key: "token", Value: "t"}}, []string{"id"}},
		{OpAdd, Args{{Key: "token", Value: "t"}}, []string{"new-url"}},
		{OpDelete, Args{{Key: "token", Value: "t"}}, []string{"ids"}},
		{OpLogin, Args{{Key: "username", Value: "u"}}, []string{"password"}},
		{OpArticle, nil, []string{"id", "token"}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			_, err := b.Build(tt.op, tt.args)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingArgument))

			var missing *MissingArgumentError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.op, missing.Operation)
			assert.Equal(t, tt.want, missing.Names)
		})
	}
}

func TestBuild_ValueContainingColonWordIsNotMisreported(t *testing.T) {
	b := NewBuilder("http://localhost:8080", nil)

	req, err := b.Build(OpAdd, Args{
		{Key: "token", Value: "t"},
		{Key: "new-url", Value: "https://example.com/a:b"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"url": "https://example.com/a:b"}`, req.Body)
}

func TestBuild_UnknownOperation(t *testing.T) {
	b := NewBuilder("http://localhost:8080", nil)

	_, err := b.Build("archive", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOperation))
}

func TestBuild_FullArgsLeaveNoPlaceholders(t *testing.T) {
	registry := DefaultRegistry()
	b := NewBuilder("http://localhost:8080", registry)

	for _, name := range registry.Names() {
		d, err := registry.Lookup(name)
		require.NoError(t, err)

		var args Args
		for _, p := range d.Placeholders() {
			args = append(args, Arg{Key: p, Value: "v-" + p})
		}

		req, err := b.Build(name, args)
		require.NoError(t, err, name)

		assert.Empty(t, Placeholders(req.URL), name)
		for _, h := range req.Headers {
			assert.Empty(t, Placeholders(h.Value), name)
		}
		assert.Empty(t, Placeholders(req.Body), name)
	}
}
