package resource_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vearutop/servicecache/resource"
)

func TestDetailKey(t *testing.T) {
	assert.Equal(t, "detail#1", resource.DetailKey("1", nil))
	assert.Equal(t, "post=7/detail#1", resource.DetailKey("1", resource.Parents{"post": "7"}))
	assert.Equal(t,
		resource.DetailKey("1", resource.Parents{"user": "2", "post": "7"}),
		resource.DetailKey("1", resource.Parents{"post": "7", "user": "2"}),
	)
	assert.Equal(t, "a%2Fb=c%3Dd/detail#1", resource.DetailKey("1", resource.Parents{"a/b": "c=d"}))
}

func TestListKey(t *testing.T) {
	assert.Equal(t, "list", resource.ListKey(nil, nil))
	assert.Equal(t, "list", resource.ListKey(url.Values{}, nil))
	assert.Equal(t, "list#page=2&q=go", resource.ListKey(url.Values{"q": {"go"}, "page": {"2"}}, nil))
	assert.Equal(t, "post=7/list#page=2", resource.ListKey(url.Values{"page": {"2"}}, resource.Parents{"post": "7"}))
	assert.NotEqual(t, resource.ListKey(nil, nil), resource.DetailKey("", nil))
}
