package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidya-edu/academy-cms-gateway/internal/service"
	"github.com/avidya-edu/academy-cms-gateway/internal/upstream"
	"github.com/avidya-edu/academy-cms-gateway/pkg/config"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
)

type memoryStore struct {
	values map[string][]byte
}

func (m *memoryStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = payload
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := m.values[key]
	if !ok {
		return apperrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func envelope(data string) string {
	return `{"success": true, "data": ` + data + `}`
}

func fakeBackend() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/cms/carousel", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(envelope(`{"carouselItems": [
			{"id": "c1", "teacherName": "Anita Sharma", "description": "Physics", "teacherImage": "/img/a.jpg"},
			{"id": "old1", "title": "Mr. Verma", "subtitle": "Maths", "image": "/img/v.jpg"}
		]}`))) //nolint:errcheck
	})
	mux.HandleFunc("/api/admin/cms/offers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(envelope(`{"id": "o9", "name": "Summer Camp", "offer": "flat 500 off"}`))) //nolint:errcheck
			return
		}
		w.Write([]byte(envelope(`[{"id": "o1", "name": "Diwali Sale", "offer": "20% off", "slotId": "S1"}]`))) //nolint:errcheck
	})
	mux.HandleFunc("/api/admin/cms/slots", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(envelope(`{"slots": [{"id": "S1", "name": "Morning Batch", "subject": "Physics", "capacity": 30, "enrolledStudents": 25}]}`))) //nolint:errcheck
	})
	mux.HandleFunc("/api/admin/cms/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.Write([]byte(`{"success": true}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(envelope(`[]`))) //nolint:errcheck
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(envelope(`[]`))) //nolint:errcheck
	})
	return httptest.NewServer(mux)
}

func newRouter(t *testing.T, backendURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := upstream.NewClient(config.UpstreamConfig{
		Origin:        backendURL,
		AdminPrefix:   "/api/admin",
		PublicPrefix:  "/api",
		UploadsPrefix: "/api/uploads",
	}, nil, nil)

	reconciler := service.NewReconciler(service.ReconcilerParams{Client: client})
	cms := service.NewCMSService(service.CMSServiceParams{Client: client, Reconciler: reconciler})
	content := service.NewContentService(reconciler, nil, nil)
	readmissions := service.NewReadmissionService(service.ReadmissionServiceParams{Client: client})

	cmsHandler := NewCMSHandler(cms, content, nil)
	publicHandler := NewPublicHandler(content, readmissions)

	router := gin.New()
	router.GET("/api/landing", publicHandler.Landing)
	admin := router.Group("/api/admin")
	admin.GET("/cms/content", cmsHandler.GetContent)
	admin.POST("/cms/:section", cmsHandler.Create)
	admin.POST("/cms/:section/reorder", cmsHandler.Reorder)
	admin.PUT("/cms/:section/:id", cmsHandler.Update)
	admin.DELETE("/cms/:section/:id", cmsHandler.Delete)
	return router
}

func TestGetContentReturnsMergedSections(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()
	router := newRouter(t, backend.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/cms/content", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Carousel []struct {
				ID          string `json:"id"`
				TeacherName string `json:"teacherName"`
				Legacy      bool   `json:"legacy"`
			} `json:"carousel"`
			Offers []struct {
				Name         string `json:"name"`
				Availability *struct {
					AvailableSeats  int  `json:"availableSeats"`
					LowAvailability bool `json:"lowAvailability"`
				} `json:"availability"`
			} `json:"offers"`
			Instructors []string `json:"instructors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	require.Len(t, body.Data.Carousel, 2)
	assert.False(t, body.Data.Carousel[0].Legacy)
	assert.True(t, body.Data.Carousel[1].Legacy)
	assert.Equal(t, "Mr. Verma", body.Data.Carousel[1].TeacherName)

	require.Len(t, body.Data.Offers, 1)
	require.NotNil(t, body.Data.Offers[0].Availability)
	assert.Equal(t, 5, body.Data.Offers[0].Availability.AvailableSeats)
	assert.True(t, body.Data.Offers[0].Availability.LowAvailability)

	assert.Contains(t, body.Data.Instructors, "Anita Sharma")
	assert.Contains(t, body.Data.Instructors, "Mr. Verma")
}

func TestCreateInvalidMerchandiseReturnsFieldErrors(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()
	router := newRouter(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/cms/merchandise",
		strings.NewReader(`{"title": "Mug", "description": "short", "price": 250}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Success bool `json:"success"`
		Errors  []struct {
			Path string `json:"path"`
			Msg  string `json:"msg"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "description", body.Errors[0].Path)
	assert.Equal(t, "must be at least 10 characters", body.Errors[0].Msg)
}

func TestUpdateLegacyCarouselReturnsConflict(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()
	router := newRouter(t, backend.URL)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/cms/carousel/old1",
		strings.NewReader(`{"teacherName": "Mr. Verma", "description": "Maths", "teacherImage": "/img/v.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "delete and recreate")
}

func TestDeleteOngoingCourseConfirmFlow(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()
	router := newRouter(t, backend.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/cms/ongoingCourses/g1", nil))
	require.Equal(t, http.StatusPreconditionRequired, w.Code)

	var refusal struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refusal))
	token := refusal.Data["confirmToken"]
	require.NotEmpty(t, token)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/cms/ongoingCourses/g1?confirm="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLandingFiltersInactive(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()
	router := newRouter(t, backend.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/landing", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Diwali Sale")
}
