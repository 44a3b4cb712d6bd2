package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/from-vacuum/basic-touch/param"
	"github.com/from-vacuum/basic-touch/touch"
)

const adminTable = `
parameters:
  - name: Gain
    style: float
    value: 0.5
  - name: Wave
    style: menu
    menu: [Sine, Square]
  - name: Bypass
    style: toggle
  - name: Script
    style: python
presets:
  - name: Init
    values: {Gain: 0, Wave: 1}
`

type discard struct{}

func (discard) Send(string, ...interface{}) error { return nil }

func newTestAdmin(t *testing.T) *admin {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	table, err := param.ParseTable([]byte(adminTable))
	require.NoError(t, err)
	store := param.NewMemory(table)
	presets := param.NewPresets(store, table.Presets, logger)
	t.Cleanup(presets.Close)

	reg := prometheus.NewRegistry()
	surface := touch.New(store, discard{}, touch.Options{
		Presets: presets,
		Logger:  logger,
		Metrics: touch.NewMetrics(reg),
	})

	return &admin{
		surface:  surface,
		store:    store,
		table:    table,
		presets:  presets,
		gatherer: reg,
		log:      logger,
	}
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestAdmin_StartAndLayout(t *testing.T) {
	a := newTestAdmin(t)
	r := a.router(false)

	w := serve(t, r, http.MethodPost, "/api/start")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var started struct {
		Controls int      `json:"controls"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	assert.Equal(t, 3, started.Controls)
	assert.Empty(t, started.Warnings)

	w = serve(t, r, http.MethodGet, "/api/layout")
	require.Equal(t, http.StatusOK, w.Code)

	var layout struct {
		Rows []struct {
			Name        string `json:"name"`
			ControlType string `json:"control_type"`
			Address     string `json:"address"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &layout))
	require.Len(t, layout.Rows, 3)
	assert.Equal(t, "Gain", layout.Rows[0].Name)
	assert.Equal(t, "/fader1", layout.Rows[0].Address)
	assert.Equal(t, "radio", layout.Rows[1].ControlType)
}

func TestAdmin_Parameters(t *testing.T) {
	a := newTestAdmin(t)
	w := serve(t, a.router(false), http.MethodGet, "/api/parameters")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Gain"`)
	assert.Contains(t, w.Body.String(), `"name":"Script"`)
}

func TestAdmin_Presets(t *testing.T) {
	a := newTestAdmin(t)
	r := a.router(false)

	w := serve(t, r, http.MethodGet, "/api/presets")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Init"`)

	w = serve(t, r, http.MethodPost, "/api/presets/Init")
	assert.Equal(t, http.StatusOK, w.Code)
	i, err := a.store.MenuIndex("Wave")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	w = serve(t, r, http.MethodPost, "/api/presets/Missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_Randomize(t *testing.T) {
	a := newTestAdmin(t)
	r := a.router(false)

	w := serve(t, r, http.MethodPost, "/api/randomize?degree=2")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, r, http.MethodPost, "/api/randomize?degree=0&type=fader")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_Metrics(t *testing.T) {
	a := newTestAdmin(t)
	r := a.router(false)
	serve(t, r, http.MethodPost, "/api/start")

	w := serve(t, r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "basictouch_layout_controls 3"), w.Body.String())
}

func TestWarningList(t *testing.T) {
	assert.Nil(t, warningList(nil))

	a, b, c := errors.New("a"), errors.New("b"), errors.New("c")
	err := errors.Join(a, errors.Join(b, c))
	assert.Equal(t, []string{"a", "b", "c"}, warningList(err))
}
