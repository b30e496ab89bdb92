package api

import (
	"errors"
	"net/http"

	"fitpro/gym-app/internal/repository/sqlite"
	"fitpro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the back-office dashboard and the demo seeder.
type AdminHandler struct {
	adminService service.AdminService
	seeder       *sqlite.Seeder
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService service.AdminService, seeder *sqlite.Seeder) *AdminHandler {
	return &AdminHandler{adminService: adminService, seeder: seeder}
}

// Dashboard aggregates user/exercise/plan/session counters, the latest
// registrations and today's calendar.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build dashboard.")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// Seed loads the demo dataset. Refuses when users already exist unless
// ?force=true, which wipes everything first.
func (h *AdminHandler) Seed(c *gin.Context) {
	force := c.Query("force") == "true"

	if err := h.seeder.Seed(c.Request.Context(), force); err != nil {
		if errors.Is(err, sqlite.ErrAlreadySeeded) {
			abortWithError(c, http.StatusConflict, "Database already contains users. Pass ?force=true to wipe and reseed.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to seed database.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Demo data loaded."})
}
