// Package site serves the embedded single-page client.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded client at the root of mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", http.FileServer(FS()))
}
