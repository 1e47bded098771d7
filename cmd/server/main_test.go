package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/manzanit0/geoapi/pkg/geoapi"
)

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client := geoapi.New("demo")
	r := newRouter(client, newGeocoder(client), nil)

	testCases := []struct {
		desc     string
		target   string
		wantBody string
	}{
		{desc: "ping", target: "/ping", wantBody: "pong"},
		{desc: "metrics", target: "/metrics", wantBody: "go_goroutines"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tC.target, nil))

			if w.Code != http.StatusOK {
				t.Errorf("got status %d", w.Code)
			}

			if !strings.Contains(w.Body.String(), tC.wantBody) {
				t.Errorf("body doesn't contain %q", tC.wantBody)
			}
		})
	}
}
