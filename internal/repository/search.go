// internal/repository/search.go
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"cardapio-service/internal/common/database"
	"cardapio-service/internal/common/errors"
	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/menu"
)

// SearchIndex mirrors menu items into Elasticsearch for full-text search.
// Indexing is best effort: a mirror failure never blocks the write path.
type SearchIndex struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

// NewSearchIndex creates the Elasticsearch mirror over the given index.
func NewSearchIndex(es *database.ElasticsearchClient, index string, log logger.Logger) *SearchIndex {
	return &SearchIndex{es: es, index: index, logger: log}
}

// Index upserts an item document keyed by the item ID.
func (s *SearchIndex) Index(ctx context.Context, item menu.Item) error {
	body, err := json.Marshal(item)
	if err != nil {
		return errors.NewSearchError(err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: item.ID,
		Body:       strings.NewReader(string(body)),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, s.es.Client)
	if err != nil {
		return errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchError(fmt.Errorf("index item %s: %s", item.ID, res.Status()))
	}
	return nil
}

// Remove deletes an item document. A missing document is not an error.
func (s *SearchIndex) Remove(ctx context.Context, itemID string) error {
	req := esapi.DeleteRequest{
		Index:      s.index,
		DocumentID: itemID,
	}

	res, err := req.Do(ctx, s.es.Client)
	if err != nil {
		return errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return errors.NewSearchError(fmt.Errorf("delete item %s: %s", itemID, res.Status()))
	}
	return nil
}

// Search runs a full-text query over names, descriptions, ingredients and
// tags, returning matching items in relevance order.
func (s *SearchIndex) Search(ctx context.Context, query string, limit int) ([]menu.Item, error) {
	if limit <= 0 {
		limit = 20
	}

	body, err := json.Marshal(map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^3", "description", "ingredients^2", "tags"},
				"fuzziness": "AUTO",
			},
		},
	})
	if err != nil {
		return nil, errors.NewSearchError(err)
	}

	res, err := s.es.Client.Search(
		s.es.Client.Search.WithContext(ctx),
		s.es.Client.Search.WithIndex(s.index),
		s.es.Client.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchError(fmt.Errorf("search: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source menu.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchError(err)
	}

	items := make([]menu.Item, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		items = append(items, hit.Source)
	}
	return items, nil
}

// Mirror applies a store mutation to the search index, logging instead of
// failing when the mirror is unavailable.
func (s *SearchIndex) Mirror(ctx context.Context, item *menu.Item, deletedID string) {
	var err error
	switch {
	case deletedID != "":
		err = s.Remove(ctx, deletedID)
	case item != nil:
		err = s.Index(ctx, *item)
	}
	if err != nil {
		s.logger.Warn("Search index mirror failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
