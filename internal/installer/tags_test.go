package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubTagListerPaginates(t *testing.T) {
	pages := map[string][]tagEntry{
		"1": make([]tagEntry, tagsPerPage),
		"2": {{Name: "v3.1.19"}, {Name: "v3.1.7"}},
	}
	for i := range pages["1"] {
		pages["1"][i] = tagEntry{Name: fmt.Sprintf("v3.2.%d", i)}
	}

	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)
		require.Equal(t, fmt.Sprint(tagsPerPage), r.URL.Query().Get("per_page"))
		_ = json.NewEncoder(w).Encode(pages[page])
	}))
	defer srv.Close()

	lister := &GitHubTagLister{BaseURL: srv.URL, Client: srv.Client()}
	tags, err := lister.ListTags(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, requested)
	assert.Len(t, tags, tagsPerPage+2)
	assert.Contains(t, tags, "v3.1.19")
}

func TestGitHubTagListerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	lister := &GitHubTagLister{BaseURL: srv.URL, Client: srv.Client()}
	_, err := lister.ListTags(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestHighestMatching(t *testing.T) {
	tags := []string{"v3.2.1", "v3.1.7", "v3.1.19", "3.1.2", "v2.9.0", "release-junk"}

	assert.Equal(t, "3.1.19", highestMatching(tags, "3.1"))
	assert.Equal(t, "3.2.1", highestMatching(tags, "3.2"))
	assert.Equal(t, "", highestMatching(tags, "4.0"))
	assert.Equal(t, "", highestMatching(nil, "3.1"))
}
