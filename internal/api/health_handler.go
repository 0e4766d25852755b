package api

import (
	"net/http"

	"github.com/phrazzld/todo-api/internal/api/shared"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "todo-backend"

// Health handles GET /api/health. The body is not wrapped in the envelope.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "UP",
		Service: ServiceName,
	})
}
