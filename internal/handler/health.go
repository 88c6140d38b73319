package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"message":   "server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Info describes the service and its endpoints for human consumers.
func Info(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"service":     "restaurant reservation system",
		"version":     "1.0.0",
		"description": "table reservation backend over Echo and MySQL",
		"endpoints": echo.Map{
			"auth":         []string{"/auth/signup", "/auth/login"},
			"tables":       []string{"/tables"},
			"reservations": []string{"/reservations", "/reservations/status"},
			"system":       []string{"/health", "/info"},
		},
	})
}
