package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, RDB: rdb}
}

// Health godoc
// @Summary Liveness and dependency health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (ctl *HealthController) Health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{"database": "ok", "redis": "ok"}

	sqlDB, err := ctl.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	}

	if ctl.RDB != nil {
		if err := ctl.RDB.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = "down"
		}
	} else {
		checks["redis"] = "disabled"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status": overall,
		"time":   time.Now().Format(time.RFC3339),
		"checks": checks,
	})
}
