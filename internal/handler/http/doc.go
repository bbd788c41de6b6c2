// Package http implements the front router of the server.
//
// It mounts the API and the dashboard under their prefixes, serves static
// assets under /public and the inline routes / and /test. Request tracing and
// access logging wrap every request before it reaches a mounted handler.
package http
