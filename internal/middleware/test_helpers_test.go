package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"

	"photo-timeline-server/internal/model"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mapResolver struct {
	users map[string]*model.User
	err   error
}

func (m *mapResolver) ResolveViewer(_ context.Context, apiKey string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[apiKey], nil
}

func doRequest(r http.Handler, method, target, remoteAddr string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
