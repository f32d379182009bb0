package source

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

const contentsPrefix = "/repos/alice/demo/contents/"

var trees = map[string]string{
	"": `[{"type":"file","name":"app.py","path":"app.py"},
		{"type":"dir","name":"src","path":"src"}]`,
	"src": `[{"type":"dir","name":"pkg","path":"src/pkg"},
		{"type":"file","name":"main.go","path":"src/main.go"}]`,
	"src/pkg": `[{"type":"dir","name":"deep","path":"src/pkg/deep"}]`,
	"src/pkg/deep": `[{"type":"file","name":"config.yml","path":"src/pkg/deep/config.yml"}]`,
}

type fakeGitHub struct {
	mu          sync.Mutex
	authHeaders []string
	files       map[string]string
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"name":"third","owner":{"login":"alice"}}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/users/alice/repos?page=2>; rel="next"`, r.Host))
		fmt.Fprint(w, `[{"name":"demo","owner":{"login":"alice"},"language":"Python"},{"name":"tools","owner":{"login":"alice"},"fork":true}]`)
	})
	mux.HandleFunc("/users/flaky/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/users/flaky/repos?page=2>; rel="next"`, r.Host))
		fmt.Fprint(w, `[{"name":"first","owner":{"login":"flaky"}}]`)
	})
	mux.HandleFunc("/users/broken/repos", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	})
	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"alice","name":"Alice","location":"Berlin","public_repos":3,"followers":7}`)
	})
	mux.HandleFunc(contentsPrefix, func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		path := strings.TrimPrefix(r.URL.Path, contentsPrefix)
		if tree, ok := trees[path]; ok {
			fmt.Fprint(w, tree)
			return
		}
		if body, ok := f.files[path]; ok {
			fmt.Fprint(w, body)
			return
		}
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	return mux
}

func (f *fakeGitHub) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
}

func fileJSON(name, encoding string, content []byte) string {
	encoded := base64.StdEncoding.EncodeToString(content)
	// GitHub wraps base64 content in lines
	if len(encoded) > 4 {
		encoded = encoded[:4] + "\n" + encoded[4:]
	}
	return fmt.Sprintf(`{"type":"file","encoding":%q,"name":%q,"path":%q,"content":%q}`, encoding, name, name, encoded)
}

func newTestClient(t *testing.T, mutate func(cfg *config.Config)) (*Client, *fakeGitHub) {
	t.Helper()
	fake := &fakeGitHub{files: map[string]string{
		"app.py":    fileJSON("app.py", "base64", []byte("API_KEY = 'abc'\n")),
		"bad.txt":   fileJSON("bad.txt", "base64", []byte{'o', 'k', 0xff}),
		"large.bin": `{"type":"file","encoding":"none","name":"large.bin","path":"large.bin","content":""}`,
	}}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.GitHub.BaseURL = server.URL
	if mutate != nil {
		mutate(cfg)
	}

	client, err := New(cfg, hclog.NewNullLogger())
	require.NoError(t, err)
	return client, fake
}

func TestListRepositoriesFollowsPagination(t *testing.T) {
	client, _ := newTestClient(t, nil)

	repos := client.ListRepositories(context.Background(), "alice")

	require.Len(t, repos, 3)
	assert.Equal(t, "demo", repos[0].Name)
	assert.Equal(t, "alice", repos[0].OwnerLogin)
	assert.Equal(t, "Python", repos[0].Language)
	assert.True(t, repos[1].Fork)
	assert.Equal(t, "third", repos[2].Name)
}

func TestListRepositoriesDegradesToEmpty(t *testing.T) {
	client, _ := newTestClient(t, nil)

	for _, username := range []string{"broken", "flaky", "nobody", ""} {
		repos := client.ListRepositories(context.Background(), username)
		assert.NotNil(t, repos, username)
		assert.Empty(t, repos, username)
	}
}

func TestListFilesWalksNestedDirectories(t *testing.T) {
	client, _ := newTestClient(t, nil)

	files := client.ListFiles(context.Background(), "alice", "demo", "")

	assert.Equal(t, []FileDescriptor{
		{Name: "app.py", Path: "app.py", Kind: KindFile},
		{Name: "config.yml", Path: "src/pkg/deep/config.yml", Kind: KindFile},
		{Name: "main.go", Path: "src/main.go", Kind: KindFile},
	}, files)
}

func TestListFilesBounds(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(cfg *config.Config)
		expected []string
	}{
		{
			name:     "depth limit skips deep subtrees",
			mutate:   func(cfg *config.Config) { cfg.GitHub.MaxDepth = 2 },
			expected: []string{"app.py", "src/main.go"},
		},
		{
			name:     "file limit truncates listing",
			mutate:   func(cfg *config.Config) { cfg.GitHub.MaxFiles = 1 },
			expected: []string{"app.py"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, tc.mutate)

			var paths []string
			for _, f := range client.ListFiles(context.Background(), "alice", "demo", "") {
				paths = append(paths, f.Path)
			}
			assert.Equal(t, tc.expected, paths)
		})
	}
}

func TestListFilesUnknownRepository(t *testing.T) {
	client, _ := newTestClient(t, nil)

	files := client.ListFiles(context.Background(), "alice", "missing", "")
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestFetchContent(t *testing.T) {
	client, _ := newTestClient(t, nil)
	ctx := context.Background()

	testCases := []struct {
		path     string
		expected string
		ok       bool
	}{
		{path: "app.py", expected: "API_KEY = 'abc'\n", ok: true},
		{path: "bad.txt", expected: "ok\uFFFD", ok: true},
		{path: "large.bin", ok: false},
		{path: "src", ok: false},
		{path: "missing.py", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			content, ok := client.FetchContent(ctx, "alice", "demo", tc.path)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, content)
		})
	}
}

func TestTokenIsAttached(t *testing.T) {
	client, fake := newTestClient(t, func(cfg *config.Config) { cfg.GitHub.Token = "secret" })
	client.ListRepositories(context.Background(), "alice")

	require.NotEmpty(t, fake.authHeaders)
	for _, h := range fake.authHeaders {
		assert.Equal(t, "Bearer secret", h)
	}
}

func TestAnonymousAccess(t *testing.T) {
	client, fake := newTestClient(t, nil)
	client.ListFiles(context.Background(), "alice", "demo", "")

	require.NotEmpty(t, fake.authHeaders)
	for _, h := range fake.authHeaders {
		assert.Empty(t, h)
	}
}

func TestGetProfile(t *testing.T) {
	client, _ := newTestClient(t, nil)

	profile := client.GetProfile(context.Background(), "alice")
	require.NotNil(t, profile)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "Berlin", profile.Location)
	assert.Equal(t, 3, profile.PublicRepos)
	assert.Equal(t, 7, profile.Followers)

	assert.Nil(t, client.GetProfile(context.Background(), "nobody"))
}

func TestParseBaseURL(t *testing.T) {
	u, err := parseBaseURL("https://ghe.example.com/api/v3")
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", u.String())
}
