package routes

import (
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/controllers"
	"github.com/courseport/courseport/internal/middleware"
)

// newRouteTable registers the full route tree with empty controllers.
// Handlers are never invoked; only the method/path mapping is checked.
func newRouteTable(t *testing.T) gin.RoutesInfo {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	SetupRouter(
		router,
		controllers.NewAuthController(nil),
		controllers.NewCourseController(nil, nil),
		controllers.NewInternshipController(nil, nil),
		controllers.NewInstructorController(nil, nil),
		controllers.NewReviewController(nil, nil),
		controllers.NewEnrollmentController(nil),
		controllers.NewApplicationController(nil),
		controllers.NewManagerController(nil),
		controllers.NewUploadController(nil),
		middleware.NewAuthMiddleware(nil),
		nil,
	)
	return router.Routes()
}

func TestManagerEnrollmentRouteVerbs(t *testing.T) {
	table := newRouteTable(t)

	want := map[string]string{
		"/api/v1/manager/enrollments":              "GET",
		"/api/v1/manager/enrollments/:id/approve":  "PUT",
		"/api/v1/manager/enrollments/:id/accept":   "PUT",
		"/api/v1/manager/enrollments/:id/reject":   "PUT",
		"/api/v1/manager/enrollments/:id/unenroll": "DELETE",
	}

	got := make(map[string]string)
	for _, r := range table {
		if _, ok := want[r.Path]; ok {
			got[r.Path] = r.Method
		}
	}

	for path, method := range want {
		if got[path] != method {
			t.Errorf("%s mapped to %q, want %q", path, got[path], method)
		}
	}
}

func TestCandidateRoutesRegistered(t *testing.T) {
	table := newRouteTable(t)

	want := map[string]bool{
		"POST /api/v1/enrollments":                 false,
		"GET /api/v1/enrollments/my":               false,
		"POST /api/v1/enrollments/:id/payment":     false,
		"DELETE /api/v1/enrollments/:id":           false,
		"GET /api/v1/auth/me":                      false,
		"POST /api/v1/uploads/payment-proof":       false,
		"DELETE /api/v1/applications/:id":          false,
		"GET /api/v1/enrollments/status/:courseId": false,
	}

	for _, r := range table {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}

	for key, found := range want {
		if !found {
			t.Errorf("route %s not registered", key)
		}
	}
}
