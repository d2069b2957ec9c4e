package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"arena/config"
)

// staticHandler serves the built front-end from the static directory.
// Unknown GET paths fall back to index.html for client-side routing; API
// paths and a missing directory answer 404.
func (s *Server) staticHandler() gin.HandlerFunc {
	dir := config.ExpandPath(s.cfg.Server.StaticDir)
	info, err := os.Stat(dir)
	serve := err == nil && info.IsDir()
	if serve {
		log.Infof("serving static files from %s", dir)
	} else if dir != "" {
		log.Debugf("static directory %s not found, front-end disabled", dir)
	}
	index := filepath.Join(dir, "index.html")

	return func(c *gin.Context) {
		method := c.Request.Method
		if !serve || (method != http.MethodGet && method != http.MethodHead) || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		// path.Clean on a rooted path cannot escape the directory
		rel := path.Clean("/" + c.Request.URL.Path)
		file := filepath.Join(dir, filepath.FromSlash(rel))
		if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
			c.File(file)
			return
		}
		page, err := os.ReadFile(index)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}
