package api

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vinhhn3/docker-demo/internal/logger"
)

// HelloMessage is the body served on GET /
const HelloMessage = "Hello, World!"

// Route maps a method and path pattern to a handler
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Server holds the gin engine and its route table
type Server struct {
	router *gin.Engine
	log    *logger.Logger
	routes []Route
}

// NewServer creates a server with every route in its table registered
func NewServer(log *logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	s := &Server{
		router: gin.New(),
		log:    log,
	}
	s.routes = []Route{
		{Method: http.MethodGet, Path: "/", Handler: s.hello},
	}

	s.router.Use(gin.Recovery(), requestID(), requestLogger(s.log))
	for _, r := range s.routes {
		s.router.Handle(r.Method, r.Path, r.Handler)
	}

	return s
}

// Routes returns a copy of the route table
func (s *Server) Routes() []Route {
	out := make([]Route, len(s.routes))
	copy(out, s.routes)
	return out
}

// Handler returns the http.Handler serving the route table
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the route table on an already bound listener until it fails
func (s *Server) Run(ln net.Listener) error {
	return s.router.RunListener(ln)
}

// hello handles GET /
func (s *Server) hello(c *gin.Context) {
	c.String(http.StatusOK, HelloMessage)
}
