package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// SystemHandler handles system information HTTP requests
type SystemHandler struct {
	BaseHandler
	appName string
	env     string
	version string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(appName, env, version string) *SystemHandler {
	return &SystemHandler{appName: appName, env: env, version: version}
}

// SystemInfoResponse describes the running service
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Env       string `json:"env"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns service name, version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.appName,
		Version:   h.version,
		Env:       h.env,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(startTime).Truncate(time.Second).String(),
	})
}

// Ping is a trivial liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}
