package setup

import (
	"github.com/courierhub/labelqr/cmd/server"
	"github.com/courierhub/labelqr/internal/adapters/controller/http/handlers/labels"
	"github.com/courierhub/labelqr/internal/adapters/controller/http/handlers/middlewares"
	"github.com/courierhub/labelqr/internal/adapters/controller/http/handlers/status"
	"github.com/gin-gonic/gin"
)

func Setup(s *server.Server) {
	middle := middlewares.New(s.Logger)
	labelsHandler := labels.New(s)
	statusHandler := status.New(s)

	s.Use(middle.Logger)
	s.Use(gin.CustomRecovery(middle.Recovery))

	api := s.Group("/api")
	statusHandler.Setup(s, api)
	labelsHandler.Setup(api)
}
