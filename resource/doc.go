// Package resource turns remote JSON resources into cache keys and fetch functions
// served through per model servicecache stores.
package resource
