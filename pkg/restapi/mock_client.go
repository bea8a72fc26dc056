package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// MockClient implements Client from in-memory fixtures. Tests script its
// responses per collection and can assert on the calls it received.
type MockClient struct {
	mu sync.Mutex

	Lists    map[string]ListResult
	ListErr  map[string]error
	Entities map[string]json.RawMessage
	GetErr   map[string]error
	Exports  map[string][]byte
	Token    string
	LoginErr error

	MutateErr error
	GetHook   func(collection, id string)

	ListCalls   map[string]int
	GetCalls    map[string]int
	CreateCalls []MutationCall
	UpdateCalls []MutationCall
	DeleteCalls []MutationCall
}

// MutationCall records a create/update/delete invocation.
type MutationCall struct {
	Collection string
	ID         string
	Payload    any
}

// NewMockClient builds an empty mock ready for scripting.
func NewMockClient() *MockClient {
	return &MockClient{
		Lists:     map[string]ListResult{},
		ListErr:   map[string]error{},
		Entities:  map[string]json.RawMessage{},
		GetErr:    map[string]error{},
		Exports:   map[string][]byte{},
		ListCalls: map[string]int{},
		GetCalls:  map[string]int{},
	}
}

var _ Client = (*MockClient)(nil)

// SeedList scripts the list response for a collection from concrete values.
func (c *MockClient) SeedList(collection string, total int, enveloped bool, items ...any) {
	res := ListResult{TotalResults: total, Enveloped: enveloped}
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			panic(err)
		}
		res.Items = append(res.Items, raw)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Lists[collection] = res
}

// SeedEntity scripts the Get response for collection/id.
func (c *MockClient) SeedEntity(collection, id string, entity any) {
	raw, err := json.Marshal(entity)
	if err != nil {
		panic(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Entities[collection+"/"+id] = raw
}

// List returns the scripted page for the collection.
func (c *MockClient) List(_ context.Context, collection string, _ Query) (ListResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ListCalls[collection]++
	if err := c.ListErr[collection]; err != nil {
		return ListResult{}, err
	}
	return c.Lists[collection], nil
}

// Get returns the scripted entity or a not-found error.
func (c *MockClient) Get(_ context.Context, collection, id string) (json.RawMessage, error) {
	c.mu.Lock()
	key := collection + "/" + id
	c.GetCalls[key]++
	hook := c.GetHook
	raw, ok := c.Entities[key]
	err := c.GetErr[key]
	c.mu.Unlock()
	if hook != nil {
		hook(collection, id)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &StatusError{Code: 404, Body: "not found"}
	}
	return raw, nil
}

// Create records the call and returns the scripted mutation error.
func (c *MockClient) Create(_ context.Context, collection string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CreateCalls = append(c.CreateCalls, MutationCall{Collection: collection, Payload: payload})
	return c.MutateErr
}

// Update records the call and returns the scripted mutation error.
func (c *MockClient) Update(_ context.Context, collection, id string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UpdateCalls = append(c.UpdateCalls, MutationCall{Collection: collection, ID: id, Payload: payload})
	return c.MutateErr
}

// Delete records the call and returns the scripted mutation error.
func (c *MockClient) Delete(_ context.Context, collection, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DeleteCalls = append(c.DeleteCalls, MutationCall{Collection: collection, ID: id})
	return c.MutateErr
}

// Export writes the scripted CSV bytes.
func (c *MockClient) Export(_ context.Context, collection string, w io.Writer) error {
	c.mu.Lock()
	data, ok := c.Exports[collection]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("restapi: no export scripted for %s", collection)
	}
	_, err := w.Write(data)
	return err
}

// Login returns the scripted token.
func (c *MockClient) Login(context.Context, string, string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.LoginErr != nil {
		return "", c.LoginErr
	}
	return c.Token, nil
}
