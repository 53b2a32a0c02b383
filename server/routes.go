// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package server

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the lint API with the router group.
//
// Description:
//
//	Registers all /v1/lint/* endpoints with the given Gin router group.
//	The group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/lint/run - Lint posted source, optionally returning fixes
//	GET  /v1/lint/rules - List active rules with severities
//	GET  /v1/lint/health - Health check
//	GET  /v1/lint/ready - Readiness check
//
// Example:
//
//	handlers := server.NewHandlers(rules, version)
//
//	v1 := router.Group("/v1")
//	server.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	lint := rg.Group("/lint")
	{
		lint.POST("/run", handlers.HandleLintRun)
		lint.GET("/rules", handlers.HandleListRules)

		// Health checks
		lint.GET("/health", handlers.HandleHealth)
		lint.GET("/ready", handlers.HandleReady)
	}
}
