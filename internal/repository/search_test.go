// internal/repository/search_test.go
package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardapio-service/internal/common/database"
	"cardapio-service/internal/common/errors"
	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/menu"
)

// ==========================
// Test Helper Functions
// ==========================

func setupSearchIndex(t *testing.T, handler http.HandlerFunc) (*SearchIndex, *httptest.Server) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	client := &database.ElasticsearchClient{Client: es}
	return NewSearchIndex(client, "menu-items", logger.NewTestLogger(t)), server
}

// ==========================
// Search Tests
// ==========================

func TestSearchIndex_Search_ParsesHits(t *testing.T) {
	var gotPath string
	index, _ := setupSearchIndex(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"hits": map[string]interface{}{
				"hits": []map[string]interface{}{
					{"_source": map[string]interface{}{"id": "item-1", "name": "Moqueca Baiana"}},
					{"_source": map[string]interface{}{"id": "item-2", "name": "Moqueca Capixaba"}},
				},
			},
		})
	})

	items, err := index.Search(context.Background(), "moqueca", 10)

	require.NoError(t, err)
	assert.Equal(t, "/menu-items/_search", gotPath)
	require.Len(t, items, 2)
	assert.Equal(t, "Moqueca Baiana", items[0].Name)
}

func TestSearchIndex_Search_BackendError(t *testing.T) {
	index, _ := setupSearchIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "shard failure"}`))
	})

	_, err := index.Search(context.Background(), "moqueca", 10)

	require.Error(t, err)
	apiErr, ok := errors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSearchFailed, apiErr.Code)
}

// ==========================
// Mirror Tests
// ==========================

func TestSearchIndex_Index_PutsDocumentByID(t *testing.T) {
	var gotMethod, gotPath string
	index, _ := setupSearchIndex(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result": "created"}`))
	})

	err := index.Index(context.Background(), menu.Item{ID: "item-1", Name: "Acarajé"})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/menu-items/_doc/item-1", gotPath)
}

func TestSearchIndex_Remove_MissingDocumentIsNotAnError(t *testing.T) {
	index, _ := setupSearchIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"result": "not_found"}`))
	})

	assert.NoError(t, index.Remove(context.Background(), "ghost"))
}
