// internal/catalog/search.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"food-recommender/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// SearchStore reads the catalog from an Elasticsearch index whose documents are JSON-encoded
// models.Food values.
type SearchStore struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchStore(client *elasticsearch.Client, index string) *SearchStore {
	if index == "" {
		index = "foods"
	}
	return &SearchStore{client: client, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string      `json:"_id"`
			Source models.Food `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type getResponse struct {
	ID     string      `json:"_id"`
	Found  bool        `json:"found"`
	Source models.Food `json:"_source"`
}

func (s *SearchStore) ListItems(ctx context.Context, filter models.CatalogFilter) ([]models.Food, error) {
	body, err := json.Marshal(buildListQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("encode catalog query: %w", err)
	}

	size := filter.Limit
	if size <= 0 {
		size = defaultListLimit
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search catalog: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode catalog search: %w", err)
	}

	items := make([]models.Food, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		item := hit.Source
		if item.ID == "" {
			item.ID = hit.ID
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *SearchStore) GetItem(ctx context.Context, id string) (*models.Food, error) {
	req := esapi.GetRequest{Index: s.index, DocumentID: id}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("get catalog item %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if res.IsError() {
		return nil, fmt.Errorf("get catalog item %s: %s", id, res.String())
	}

	var r getResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode catalog item %s: %w", id, err)
	}
	if !r.Found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if r.Source.ID == "" {
		r.Source.ID = r.ID
	}
	return &r.Source, nil
}

func buildListQuery(filter models.CatalogFilter) map[string]interface{} {
	var (
		filters []interface{}
		mustNot []interface{}
	)

	if filter.AvailableOnly {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"isAvailable": true},
		})
	}
	switch filter.FoodType {
	case models.FoodTypeAny:
	case models.FoodTypeDessert:
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"category": models.CategoryDessert},
		})
	default:
		mustNot = append(mustNot, map[string]interface{}{
			"term": map[string]interface{}{"category": models.CategoryDessert},
		})
	}
	if len(filter.IDs) > 0 {
		filters = append(filters, map[string]interface{}{
			"ids": map[string]interface{}{"values": filter.IDs},
		})
	}

	boolQuery := map[string]interface{}{
		"must": []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}},
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	if len(mustNot) > 0 {
		boolQuery["must_not"] = mustNot
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  []interface{}{"_doc"},
	}
}
