package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"colloquy.app/server/internal/http/middleware"
)

var _ = Describe("RequireAdminAPIKey", func() {
	const adminAPIKey = "test-admin-key"

	newRouter := func(key string) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.PUT("/guarded", middleware.RequireAdminAPIKey(key), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return router
	}

	serve := func(router *gin.Engine, setHeader func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/guarded", nil)
		if setHeader != nil {
			setHeader(req)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("accepts the key via X-Admin-API-Key", func() {
		w := serve(newRouter(adminAPIKey), func(req *http.Request) {
			req.Header.Set("X-Admin-API-Key", adminAPIKey)
		})
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	It("accepts the key as a bearer token", func() {
		w := serve(newRouter(adminAPIKey), func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+adminAPIKey)
		})
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	It("rejects a missing key", func() {
		w := serve(newRouter(adminAPIKey), nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a wrong key", func() {
		w := serve(newRouter(adminAPIKey), func(req *http.Request) {
			req.Header.Set("X-Admin-API-Key", "nope")
		})
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("passes everything through when no key is configured", func() {
		w := serve(newRouter(""), nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})
