package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfirmRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, nil, nil)
	r.GET("/api/payment/:purpose/confirm", h.Confirm)
	return r
}

func getConfirm(r *gin.Engine, purpose string, q url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/payment/"+purpose+"/confirm?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConfirmEndpoint(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, DummyGateway{})
	r := newConfirmRouter(svc)

	first, err := svc.Process(context.Background(), workshopOrder("txn-h"))
	require.NoError(t, err)

	q := url.Values{
		"txn":   {"txn-h"},
		"email": {"a@x.com"},
		"sig":   {Sign("test-secret", "txn-h")},
	}
	w := getConfirm(r, "workshop", q)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, first.AccessToken, resp.AccessToken)
}

func TestConfirmEndpointRejections(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, DummyGateway{})
	r := newConfirmRouter(svc)

	_, err := svc.Process(context.Background(), workshopOrder("txn-r"))
	require.NoError(t, err)

	goodSig := Sign("test-secret", "txn-r")

	cases := []struct {
		name    string
		purpose string
		q       url.Values
		want    int
	}{
		{"bad signature", "workshop",
			url.Values{"txn": {"txn-r"}, "email": {"a@x.com"}, "sig": {"deadbeef"}},
			http.StatusUnauthorized},
		{"unknown transaction", "workshop",
			url.Values{"txn": {"txn-x"}, "email": {"a@x.com"}, "sig": {Sign("test-secret", "txn-x")}},
			http.StatusNotFound},
		{"email mismatch", "workshop",
			url.Values{"txn": {"txn-r"}, "email": {"other@x.com"}, "sig": {goodSig}},
			http.StatusNotFound},
		{"unknown offering", "bootcamp",
			url.Values{"txn": {"txn-r"}, "email": {"a@x.com"}, "sig": {goodSig}},
			http.StatusNotFound},
		{"missing params", "workshop",
			url.Values{"txn": {"txn-r"}},
			http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := getConfirm(r, tc.purpose, tc.q)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
