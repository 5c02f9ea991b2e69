package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bool64/ctxd"
	"github.com/goccy/go-json"
	"github.com/vearutop/servicecache"
	"github.com/yosida95/uritemplate/v3"
)

// Object is a decoded JSON object of a resource.
//
// Objects are shared between callers and must not be modified.
type Object map[string]interface{}

// Doer sends HTTP requests, *http.Client is used by default.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status %d for %s", e.StatusCode, e.URL)
}

// Manager fetches resources of a model through its cache store.
type Manager struct {
	model  Model
	store  *servicecache.Store
	client Doer
	log    ctxd.Logger

	detail *uritemplate.Template
	list   *uritemplate.Template
}

// NewManager registers model store if it is not registered yet and creates a Manager.
//
// Store of an already registered model is reused with its original configuration.
func NewManager(model Model, registry *servicecache.Registry, client Doer, logger ctxd.Logger) (*Manager, error) {
	if model.Name == "" {
		return nil, errors.New("model name is required")
	}

	if client == nil {
		client = http.DefaultClient
	}

	if logger == nil {
		logger = ctxd.NoOpLogger{}
	}

	m := &Manager{
		model:  model,
		client: client,
		log:    logger,
	}

	var err error

	if model.DetailURL != "" {
		if m.detail, err = uritemplate.New(model.DetailURL); err != nil {
			return nil, fmt.Errorf("parsing detail url of %s: %w", model.Name, err)
		}
	}

	if model.ListURL != "" {
		if m.list, err = uritemplate.New(model.ListURL); err != nil {
			return nil, fmt.Errorf("parsing list url of %s: %w", model.Name, err)
		}
	}

	registry.RegisterFunc(model.Name, func() *servicecache.Store {
		return servicecache.NewStore(servicecache.Config{
			Name:       model.Name,
			Logger:     logger,
			TimeToLive: model.TimeToLive,
		}.Use)
	})

	if m.store, err = registry.Lookup(context.Background(), model.Name); err != nil {
		return nil, err
	}

	return m, nil
}

// Store returns cache store of the model.
func (m *Manager) Store() *servicecache.Store {
	return m.store
}

// Get returns a single resource by id.
func (m *Manager) Get(ctx context.Context, id string, parents Parents) (Object, error) {
	if m.detail == nil {
		return nil, fmt.Errorf("%s has no detail url", m.model.Name)
	}

	m.model.CheckParents(ctx, m.log, parents)

	u, err := expand(m.detail, parents, id)
	if err != nil {
		return nil, err
	}

	v, err := m.store.Get(ctx, DetailKey(id, parents), m.fetch(u, func() interface{} { return &Object{} }))
	if err != nil {
		return nil, err
	}

	return *(v.(*Object)), nil
}

// All returns all resources.
func (m *Manager) All(ctx context.Context, parents Parents) ([]Object, error) {
	return m.Filter(ctx, nil, parents)
}

// Filter returns resources matching filter.
func (m *Manager) Filter(ctx context.Context, filter Filter, parents Parents) ([]Object, error) {
	if m.list == nil {
		return nil, fmt.Errorf("%s has no list url", m.model.Name)
	}

	m.model.CheckParents(ctx, m.log, parents)

	u, err := expand(m.list, parents, "")
	if err != nil {
		return nil, err
	}

	if q := filter.Encode(); q != "" {
		if strings.Contains(u, "?") {
			u += "&" + q
		} else {
			u += "?" + q
		}
	}

	v, err := m.store.Get(ctx, ListKey(filter, parents), m.fetch(u, func() interface{} { return &[]Object{} }))
	if err != nil {
		return nil, err
	}

	return *(v.(*[]Object)), nil
}

func expand(t *uritemplate.Template, parents Parents, id string) (string, error) {
	values := uritemplate.Values{}

	for name, value := range parents {
		values.Set(name, uritemplate.String(value))
	}

	if id != "" {
		values.Set("id", uritemplate.String(id))
	}

	u, err := t.Expand(values)
	if err != nil {
		return "", fmt.Errorf("expanding url: %w", err)
	}

	return u, nil
}

func (m *Manager) fetch(u string, newValue func() interface{}) servicecache.FetchFunc {
	return func(ctx context.Context) (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "application/json")

		resp, err := m.client.Do(req)
		if err != nil {
			return nil, ctxd.WrapError(ctx, err, "request failed", "url", u)
		}

		defer func() {
			if err := resp.Body.Close(); err != nil {
				m.log.Warn(ctx, "failed to close response body", "error", err, "url", u)
			}
		}()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return nil, &StatusError{URL: u, StatusCode: resp.StatusCode}
		}

		v := newValue()

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return nil, ctxd.WrapError(ctx, err, "failed to decode response", "url", u)
		}

		return v, nil
	}
}
