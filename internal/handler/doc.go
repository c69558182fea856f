// Package handler implements the HTTP API of the recipe chain server.
//
// Routes are registered on a chi router by NewRouter. Dataset endpoints
// read and replace the recipe data; selection, event and view endpoints
// drive the chain session; saved view endpoints persist layouts.
//
// Errors are returned as JSON with an {error, details} structure and an
// appropriate status code. Request bodies are validated with struct tags
// before processing.
package handler
