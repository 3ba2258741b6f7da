package dashboard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiplogic-academy/backend/internal/models"
)

func newDashboardRouter(gate *Gate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(gate, nil)
	r.GET("/api/dashboard/resources", h.Resources)
	return r
}

func getResources(r *gin.Engine, email, token string) *httptest.ResponseRecorder {
	q := url.Values{"email": {email}}
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/resources?"+q.Encode(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResourcesDenialsAreIndistinguishable(t *testing.T) {
	expired := activeGrant("old@x.com")
	past := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	expired.ExpiresAt = &past

	grants := &fakeGrantStore{grants: map[string][]models.AccessGrant{
		"a@x.com":   {activeGrant("a@x.com")},
		"old@x.com": {expired},
	}}
	r := newDashboardRouter(newTestGate(grants, &fakeCatalog{}, nil))

	unknownEmail := getResources(r, "nobody@x.com", testToken)
	wrongToken := getResources(r, "a@x.com", "00"+testToken[2:])
	expiredGrant := getResources(r, "old@x.com", testToken)

	for _, w := range []*httptest.ResponseRecorder{unknownEmail, wrongToken, expiredGrant} {
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.Equal(t, unknownEmail.Body.Bytes(), wrongToken.Body.Bytes(),
		"unknown email and wrong token must be indistinguishable")
	assert.Equal(t, unknownEmail.Body.Bytes(), expiredGrant.Body.Bytes(),
		"expired grant must be indistinguishable from unknown email")
}

func TestResourcesSuccessPayload(t *testing.T) {
	grants := &fakeGrantStore{grants: map[string][]models.AccessGrant{
		"a@x.com": {activeGrant("a@x.com")},
	}}
	catalog := &fakeCatalog{resources: map[string][]models.Resource{
		models.OfferingWorkshop: {{Title: "Syllabus", Type: models.ResourceTypeLink, URL: "https://x/syllabus"}},
	}}
	r := newDashboardRouter(newTestGate(grants, catalog, nil))

	w := getResources(r, "a@x.com", testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Syllabus"`)
	assert.Contains(t, w.Body.String(), `"upsellLink"`)
}

func TestResourcesTokenQueryParamFallback(t *testing.T) {
	grants := &fakeGrantStore{grants: map[string][]models.AccessGrant{
		"a@x.com": {activeGrant("a@x.com")},
	}}
	catalog := &fakeCatalog{resources: map[string][]models.Resource{}}
	r := newDashboardRouter(newTestGate(grants, catalog, nil))

	q := url.Values{"email": {"a@x.com"}, "token": {testToken}}
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/resources?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
