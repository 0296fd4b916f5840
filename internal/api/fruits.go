package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/idilsaglam/fruits/internal/model"
)

// List fetches every fruit.
func (c *Client) List(ctx context.Context) ([]model.Fruit, error) {
	body, err := c.do(ctx, http.MethodGet, c.collection(), nil)
	if err != nil {
		return nil, err
	}
	return model.DecodeList(body)
}

// Search fetches fruits whose name matches key. The key is path-escaped.
func (c *Client) Search(ctx context.Context, key string) ([]model.Fruit, error) {
	if key == "" {
		return nil, errors.New("api: search key is required")
	}
	body, err := c.do(ctx, http.MethodGet, c.collection("search", key), nil)
	if err != nil {
		return nil, err
	}
	return model.DecodeList(body)
}

// Get fetches a single fruit by id.
func (c *Client) Get(ctx context.Context, id string) (model.Fruit, error) {
	if strings.TrimSpace(id) == "" {
		return model.Fruit{}, errors.New("api: id is required")
	}
	body, err := c.do(ctx, http.MethodGet, c.collection(id), nil)
	if err != nil {
		return model.Fruit{}, err
	}
	var f model.Fruit
	if err := json.Unmarshal(body, &f); err != nil {
		return model.Fruit{}, fmt.Errorf("api: decode fruit: %w", err)
	}
	return f, nil
}

// Create posts f. The reply may carry the stored record or nothing; the
// returned pointer is nil in the latter case.
func (c *Client) Create(ctx context.Context, f model.Fruit) (*model.Fruit, error) {
	body, err := c.do(ctx, http.MethodPost, c.collection(), f)
	if err != nil {
		return nil, err
	}
	return decodeOptional(body), nil
}

// Update replaces the fruit stored under f.ID.
func (c *Client) Update(ctx context.Context, f model.Fruit) (*model.Fruit, error) {
	if strings.TrimSpace(f.ID) == "" {
		return nil, errors.New("api: id is required")
	}
	body, err := c.do(ctx, http.MethodPut, c.collection(f.ID), f)
	if err != nil {
		return nil, err
	}
	return decodeOptional(body), nil
}

// Delete removes the fruit stored under id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("api: id is required")
	}
	_, err := c.do(ctx, http.MethodDelete, c.collection(id), nil)
	return err
}

// decodeOptional reads a record from a reply body that may be empty or
// not a record at all.
func decodeOptional(body []byte) *model.Fruit {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var f model.Fruit
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil
	}
	return &f
}
