package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/vitikova/user-service/internal/models"
)

const IndexName = "users"

// UserDoc is the flattened user document kept in the search index. The
// password hash never leaves the relational store.
type UserDoc struct {
	ID     uint     `json:"id"`
	Login  string   `json:"login"`
	Roles  []string `json:"roles"`
	Series string   `json:"passport_series,omitempty"`
	Number string   `json:"passport_number,omitempty"`
}

func docFromUser(u *models.User) UserDoc {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r.Name))
	}
	return UserDoc{
		ID:     u.ID,
		Login:  u.Login,
		Roles:  roles,
		Series: u.Passport.Series,
		Number: u.Passport.Number,
	}
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es error: %s: %s", res.Status(), body)
	}

	return client, nil
}

// Index mirrors user records into Elasticsearch. A nil Index disables
// mirroring entirely.
type Index struct {
	ES *elasticsearch.Client
}

func NewIndex(es *elasticsearch.Client) *Index {
	if es == nil {
		return nil
	}
	return &Index{ES: es}
}

func (ix *Index) IndexUser(ctx context.Context, u *models.User) error {
	if ix == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(docFromUser(u)); err != nil {
		return err
	}
	res, err := ix.ES.Index(
		IndexName,
		&buf,
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(u.ID), 10)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (ix *Index) DeleteUser(ctx context.Context, id uint) error {
	if ix == nil {
		return nil
	}
	res, err := ix.ES.Delete(
		IndexName,
		strconv.FormatUint(uint64(id), 10),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	// A missing document is fine: the index may lag behind the store.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy login match over the user index.
func (ix *Index) Search(ctx context.Context, query string) (int64, []UserDoc, error) {
	if ix == nil {
		return 0, nil, fmt.Errorf("search index is not configured")
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"login^2", "roles"},
				"fuzziness": "AUTO",
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(IndexName),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("es search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source UserDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]UserDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
