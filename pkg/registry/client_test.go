package registry

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry answers just enough of the v2 API for the client.
func fakeRegistry(t *testing.T, user, pass string, tags map[string][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user != "" {
			got := r.Header.Get("Authorization")
			want := "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
			if got != want {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}

		switch {
		case r.URL.Path == "/v2/":
			w.WriteHeader(http.StatusOK)
		case strings.HasSuffix(r.URL.Path, "/tags/list"):
			repo := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v2/"), "/tags/list")
			list, ok := tags[repo]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"` + repo + `","tags":["` + strings.Join(list, `","`) + `"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func clientFor(t *testing.T, srv *httptest.Server, user, pass string) *Client {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	c, err := NewClient(Options{
		Host:     u.Host,
		Username: user,
		Password: pass,
		Insecure: true,
	})
	require.NoError(t, err)
	return c
}

func TestPing(t *testing.T) {
	srv := fakeRegistry(t, "", "", nil)
	defer srv.Close()

	c := clientFor(t, srv, "", "")
	assert.NoError(t, c.Ping())
}

func TestPingAuthFailure(t *testing.T) {
	srv := fakeRegistry(t, "ci", "right", nil)
	defer srv.Close()

	c := clientFor(t, srv, "ci", "wrong")
	err := c.Ping()
	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))
}

func TestListRepositoryTags(t *testing.T) {
	srv := fakeRegistry(t, "ci", "secret", map[string][]string{
		"acme/jenkins-base": {"test", "latest", "v1.2.3"},
	})
	defer srv.Close()

	c := clientFor(t, srv, "ci", "secret")

	got, err := c.Tags.ListRepositoryTags("acme/jenkins-base")
	require.NoError(t, err)
	assert.Equal(t, []string{"test", "latest", "v1.2.3"}, got)
}

func TestHasTag(t *testing.T) {
	srv := fakeRegistry(t, "", "", map[string][]string{
		"acme/jenkins-base": {"latest", "v1.2.3"},
	})
	defer srv.Close()

	c := clientFor(t, srv, "", "")

	ok, err := c.Tags.HasTag("acme/jenkins-base", "v1.2.3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Tags.HasTag("acme/jenkins-base", "v9.9.9")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasTagUnknownRepo(t *testing.T) {
	srv := fakeRegistry(t, "", "", map[string][]string{})
	defer srv.Close()

	c := clientFor(t, srv, "", "")

	_, err := c.Tags.HasTag("acme/nope", "latest")
	assert.Error(t, err)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Options{})
	assert.Error(t, err)
}
