// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"io"
	"log/slog"
	"net/http"
	"simon-weij/flux/lib"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DefaultAddr     = "127.0.0.1:7878"
	RequestIDHeader = "X-Request-ID"
)

// Operations is the set of commands the front-end can invoke by name.
type Operations interface {
	Greet(name string) string
	RunTerminalCommand(command string) (string, error)
	SaveSettings(settings lib.Settings) error
	LoadSettings() (lib.Settings, error)
	GetCaptureOptions() ([]string, error)
	SelectFolder() (string, error)
}

func NewRouter(logger *slog.Logger, ops Operations, debug bool) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetTrustedProxies(nil)
	router.Use(gin.Recovery())
	router.Use(requestID())
	if debug {
		router.Use(gin.Logger())
	}

	handler := NewInvokeHandler(logger, ops)
	router.POST("/invoke/:command", handler.Invoke)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": lib.ConfigDirName,
		})
	})

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ListenAndServe blocks serving the invoke API on addr. Requests are handled
// concurrently but operations share no locks.
func ListenAndServe(addr string, logger *slog.Logger, ops Operations, debug bool) error {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(logger, ops, debug),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Invoke API listening", "address", addr)
	return srv.ListenAndServe()
}
