package server

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/llmgate/logger"
)

// Probe and build routes, listed after the API routes.
var systemPaths = map[string]bool{
	"/alive":   true,
	"/ready":   true,
	"/version": true,
	"/health":  true,
}

// Routes returns the registered routes, API routes first.
func (s *Server) Routes() gin.RoutesInfo {
	routes := s.engine.Routes()
	sort.Slice(routes, func(i, j int) bool {
		iSys, jSys := systemPaths[routes[i].Path], systemPaths[routes[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder(routes[i].Method) < methodOrder(routes[j].Method)
	})
	return routes
}

// LogRoutes logs every registered route at debug level.
func (s *Server) LogRoutes() {
	for _, r := range s.Routes() {
		s.log.Debug("Route registered", logger.Fields(
			"method", r.Method,
			"path", r.Path,
			"handler", formatHandlerName(r.Handler),
		))
	}
}

// formatHandlerName shortens Gin's handler path:
//
//	"github.com/kbukum/llmgate/server/endpoint.Chat.func1" -> "chat"
//	"github.com/kbukum/llmgate/server.(*Server).Routes-fm" -> "Server.Routes"
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}

	// Drop a lowercase package prefix: "endpoint.Health" -> "Health".
	if pkg, rest, ok := strings.Cut(name, "."); ok && rest != "" && strings.ToLower(pkg) == pkg {
		return rest
	}
	return name
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
