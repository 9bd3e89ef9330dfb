package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_back_end/internal/models"
)

// MenuSearcher répond à GET /menu/search.
type MenuSearcher interface {
	Search(ctx context.Context, query string) ([]models.MenuItem, error)
}

// MenuIndexer garde l'index de recherche synchronisé avec la collection menu.
type MenuIndexer interface {
	Index(ctx context.Context, item models.MenuItem) error
	Remove(ctx context.Context, id primitive.ObjectID) error
}

// --- Sans Elasticsearch ---

type storeSearcher interface {
	SearchMenu(ctx context.Context, query string) ([]models.MenuItem, error)
}

// StoreSearch délègue la recherche à la base.
type StoreSearch struct {
	store storeSearcher
}

func NewStoreSearch(store storeSearcher) *StoreSearch {
	return &StoreSearch{store: store}
}

func (s *StoreSearch) Search(ctx context.Context, query string) ([]models.MenuItem, error) {
	return s.store.SearchMenu(ctx, query)
}

// NopIndexer est utilisé quand aucun index n'est configuré.
type NopIndexer struct{}

func (NopIndexer) Index(context.Context, models.MenuItem) error     { return nil }
func (NopIndexer) Remove(context.Context, primitive.ObjectID) error { return nil }

// --- Elasticsearch ---

// menuDocument : _id est un champ réservé côté Elasticsearch, l'id est porté par DocumentID.
type menuDocument struct {
	Name     string  `json:"name"`
	Recipe   string  `json:"recipe,omitempty"`
	Image    string  `json:"image,omitempty"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type ElasticMenuIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticMenuIndex(client *elasticsearch.Client, index string) *ElasticMenuIndex {
	return &ElasticMenuIndex{client: client, index: index}
}

func (e *ElasticMenuIndex) Index(ctx context.Context, item models.MenuItem) error {
	data, err := json.Marshal(menuDocument{
		Name:     item.Name,
		Recipe:   item.Recipe,
		Image:    item.Image,
		Category: item.Category,
		Price:    item.Price,
	})
	if err != nil {
		return fmt.Errorf("encode menu document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: item.ID.Hex(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("elastic index %s: %w", item.ID.Hex(), err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elastic index %s: %s", item.ID.Hex(), res.String())
	}
	return nil
}

func (e *ElasticMenuIndex) Remove(ctx context.Context, id primitive.ObjectID) error {
	req := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: id.Hex(),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("elastic delete %s: %w", id.Hex(), err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elastic delete %s: %s", id.Hex(), res.String())
	}
	return nil
}

// Reindex réindexe tout le menu (démarrage).
func (e *ElasticMenuIndex) Reindex(ctx context.Context, items []models.MenuItem) error {
	for _, item := range items {
		if err := e.Index(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string       `json:"_id"`
			Source menuDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search : multi_match tolérant aux fautes sur le nom, la recette et la catégorie.
func (e *ElasticMenuIndex) Search(ctx context.Context, query string) ([]models.MenuItem, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"size": 50,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^3", "category^2", "recipe"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("elastic search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic search: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]models.MenuItem, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := primitive.ObjectIDFromHex(hit.ID)
		if err != nil {
			continue
		}
		items = append(items, models.MenuItem{
			ID:       id,
			Name:     hit.Source.Name,
			Recipe:   hit.Source.Recipe,
			Image:    hit.Source.Image,
			Category: hit.Source.Category,
			Price:    hit.Source.Price,
		})
	}
	return items, nil
}
