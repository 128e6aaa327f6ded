package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"finadmin/internal/mapper"
)

// Resource is the CRUD surface of one API collection. Raw records are
// normalized by the collection's mapper before they are returned.
type Resource[T any] struct {
	client     *Client
	name       string
	path       string
	decode     func(json.RawMessage) (T, error)
	decodeList func(json.RawMessage) ([]T, error)
}

func newResource[R, T any](c *Client, name, path string, mapFn func(R) (T, error)) *Resource[T] {
	return &Resource[T]{
		client: c,
		name:   name,
		path:   path,
		decode: func(data json.RawMessage) (T, error) {
			var raw R
			if err := json.Unmarshal(data, &raw); err != nil {
				var zero T
				return zero, &mapper.MappingError{Field: "body", Reason: err.Error()}
			}
			return mapFn(raw)
		},
		decodeList: func(data json.RawMessage) ([]T, error) {
			var raws []R
			if err := json.Unmarshal(data, &raws); err != nil {
				return nil, &mapper.MappingError{Field: "data", Reason: err.Error()}
			}
			return mapper.MapAll(raws, mapFn)
		},
	}
}

// Name returns the resource name used in operation labels.
func (r *Resource[T]) Name() string {
	return r.name
}

// List fetches the collection. A 304 answer yields ErrNotModified.
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	op := r.name + ".list"

	resp, err := r.client.do(ctx, request{
		op:          op,
		method:      http.MethodGet,
		path:        r.path,
		query:       query,
		conditional: true,
	})
	if err != nil {
		return nil, err
	}

	data, enveloped := payload(resp.body)
	if !enveloped {
		return nil, mappingFailure(op, &mapper.MappingError{Field: "data", Reason: "response has no data member"})
	}
	items, err := r.decodeList(data)
	if err != nil {
		return nil, mappingFailure(op, err)
	}

	r.client.remember(resp)
	return items, nil
}

// Create sends payload as a new entity and returns the stored entity.
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	return r.send(ctx, r.name+".create", http.MethodPost, r.path, payload)
}

// Update merges patch into the entity with the given id. Only the fields
// present in patch are changed.
func (r *Resource[T]) Update(ctx context.Context, id string, patch any) (T, error) {
	op := r.name + ".update"
	path, err := r.itemPath(op, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.send(ctx, op, http.MethodPatch, path, patch)
}

// Remove deletes the entity with the given id.
func (r *Resource[T]) Remove(ctx context.Context, id string) error {
	op := r.name + ".remove"
	path, err := r.itemPath(op, id)
	if err != nil {
		return err
	}
	_, err = r.client.do(ctx, request{op: op, method: http.MethodDelete, path: path})
	return err
}

func (r *Resource[T]) itemPath(op, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%s: id is required", op)
	}
	return r.path + "/" + url.PathEscape(id), nil
}

// send performs a mutation. An empty success body yields the zero entity.
func (r *Resource[T]) send(ctx context.Context, op, method, path string, body any) (T, error) {
	var zero T

	resp, err := r.client.do(ctx, request{op: op, method: method, path: path, body: body})
	if err != nil {
		if errors.Is(err, ErrNotModified) {
			return zero, nil
		}
		return zero, err
	}
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return zero, nil
	}

	data, _ := payload(resp.body)
	entity, err := r.decode(data)
	if err != nil {
		return zero, mappingFailure(op, err)
	}
	return entity, nil
}
