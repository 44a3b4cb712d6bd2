package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/from-vacuum/basic-touch/layout"
	"github.com/from-vacuum/basic-touch/param"
	"github.com/from-vacuum/basic-touch/touch"
)

// admin serves the HTTP API used to inspect and re-publish the surface.
type admin struct {
	surface  *touch.Surface
	store    *param.Memory
	table    *param.Table
	presets  *param.Presets
	gatherer prometheus.Gatherer
	log      logrus.FieldLogger
}

func (a *admin) router(debug bool) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), a.requestLog())

	r.GET("/api/layout", a.handleGetLayout)
	r.POST("/api/start", a.handleStart)
	r.GET("/api/parameters", a.handleGetParameters)
	r.GET("/api/presets", a.handleGetPresets)
	r.POST("/api/presets/:name", a.handleRecallPreset)
	r.POST("/api/randomize", a.handleRandomize)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})))
	return r
}

func (a *admin) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("admin request")
	}
}

func (a *admin) handleGetLayout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rows": a.surface.Rows()})
}

func (a *admin) handleStart(c *gin.Context) {
	var warnings []string
	if err := a.surface.Start(c.Request.Context(), a.table.Params()); err != nil {
		if c.Request.Context().Err() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		warnings = warningList(err)
	}

	controls := 0
	for _, row := range a.surface.Rows() {
		if row.ControlType != "" {
			controls++
		}
	}
	c.JSON(http.StatusOK, gin.H{"controls": controls, "warnings": warnings})
}

// warningList splits joined layout warnings into their messages.
func warningList(err error) []string {
	if err == nil {
		return nil
	}
	var out []string
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, warningList(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

func (a *admin) handleGetParameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parameters": a.store.Snapshot()})
}

func (a *admin) handleGetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": a.presets.Names(), "fade_time": a.surface.FadeTime()})
}

func (a *admin) handleRecallPreset(c *gin.Context) {
	name := c.Param("name")
	fade := time.Duration(a.surface.FadeTime() * float64(time.Second))
	if err := a.presets.Recall(name, fade); err != nil {
		if errors.Is(err, param.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preset": name})
}

func (a *admin) handleRandomize(c *gin.Context) {
	degree := a.surface.RandomAmount()
	if s := c.Query("degree"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 || v > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "degree must be a number in [0,1]"})
			return
		}
		degree = v
	}
	only := layout.ControlType(c.Query("type"))
	a.surface.Randomize(degree, only)
	c.JSON(http.StatusOK, gin.H{"degree": degree, "type": only})
}
