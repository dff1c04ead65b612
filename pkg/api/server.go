// Package api assembles the HTTP surface of the pipeline: one conceptual
// operation per endpoint, JSON envelopes, FastAPI-style error bodies.
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/pipeline"
)

// @title          ML Pipeline Builder API
// @version        1.0.0
// @description    Guided supervised-learning workflow: upload, preprocess, split, train, evaluate.

// NewRouter builds the gin engine with CORS, the docs route and every
// pipeline endpoint. allowOrigins is a comma-separated origin list; "*"
// allows all.
func NewRouter(p *pipeline.Pipeline, allowOrigins string) *gin.Engine {
	router := gin.Default()

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if allowOrigins == "" || allowOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(allowOrigins, ",")
	}
	router.Use(cors.New(corsCfg))

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h := &Handler{Pipeline: p}
	router.GET("/", h.Health)
	router.POST("/upload", h.Upload)
	router.GET("/dataset", h.Dataset)
	router.POST("/preprocess", h.Preprocess)
	router.POST("/reset-preprocessing", h.ResetPreprocessing)
	router.POST("/split", h.Split)
	router.POST("/train", h.Train)
	router.GET("/results", h.Results)
	router.GET("/pipeline-status", h.Status)
	router.POST("/reset", h.Reset)

	return router
}
