// Package middleware provides HTTP middleware for the collaborator API:
// request logging and Prometheus instrumentation.
package middleware
