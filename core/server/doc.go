// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the API key protecting the routes
// and the lifetime of the diff row cache.
//
// # Usage
//
// This package is used by core/config to embed server settings and by the
// start command to configure Fiber and the diff feature.
package server
