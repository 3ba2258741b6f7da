package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptKnownShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"bool field true", `{"deliverable":true}`, true},
		{"bool field false", `{"deliverable":false}`, false},
		{"result deliverable", `{"result":"deliverable"}`, true},
		{"result undeliverable", `{"result":"undeliverable"}`, false},
		{"result risky", `{"result":"risky"}`, false},
		{"status score high", `{"status":"valid","score":0.97}`, true},
		{"status score low", `{"status":"valid","score":0.3}`, false},
		{"status invalid", `{"status":"invalid","score":0.97}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Adapt([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.Deliverable)
		})
	}
}

func TestAdaptUnknownShape(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"valid":true}`,
		`{"status":"valid"}`,
		`not json`,
		`[]`,
	} {
		_, err := Adapt([]byte(body))
		assert.ErrorIs(t, err, ErrUnknownShape, body)
	}
}

func TestCheckerQueriesUpstream(t *testing.T) {
	var gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = r.URL.Query().Get("email")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"deliverable"}`))
	}))
	defer srv.Close()

	checker := NewChecker(srv.URL, nil)
	require.True(t, checker.Enabled())

	v, err := checker.Check(context.Background(), "a+tag@x.com")
	require.NoError(t, err)
	assert.True(t, v.Deliverable)
	assert.Equal(t, "a+tag@x.com", gotEmail)
}

func TestCheckerUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	checker := NewChecker(srv.URL, nil)
	_, err := checker.Check(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownShape)
}

func TestCheckerDisabled(t *testing.T) {
	checker := NewChecker("", nil)
	assert.False(t, checker.Enabled())
}
