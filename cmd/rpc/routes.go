package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Dev Node RPC Paths
const (
	VersionRoutePath = "/v1/"
	RPCRoutePath     = "/" // the single json-rpc endpoint all methods dispatch through
)

const (
	VersionRouteName = "version"
	RPCRouteName     = "rpc"
)

// routes contains the method and path for a dev node endpoint
type routes map[string]struct {
	Method string
	Path   string
}

// routePaths is a mapping from route names to their corresponding HTTP methods and paths.
var routePaths = routes{
	VersionRouteName: {Method: http.MethodGet, Path: VersionRoutePath},
	RPCRouteName:     {Method: http.MethodPost, Path: RPCRoutePath},
}

// httpRouteHandlers is a custom type that maps strings to httprouter handle functions
type httpRouteHandlers map[string]httprouter.Handle

// createRouter initializes and returns a new HTTP router with predefined route handlers.
func createRouter(s *Server) *httprouter.Router {
	var r = httpRouteHandlers{
		VersionRouteName: s.Version,
		RPCRouteName:     s.RPC,
	}

	// Initialize a new router using the httprouter package.
	router := httprouter.New()

	for name, handler := range r {
		// Retrieve the path configuration for the current route name.
		path := routePaths[name]

		// Add the handler for the specific path and HTTP method to the router.
		router.Handle(path.Method, path.Path, logHandler{path.Path, handler}.Handle)
	}

	return router
}
