package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/farmers/F001" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"f_id": "F001", "f_name": "Somchai"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	var out struct {
		ID   string `json:"f_id"`
		Name string `json:"f_name"`
	}
	if err := c.Do(context.Background(), http.MethodGet, "/farmers/F001", nil, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.ID != "F001" || out.Name != "Somchai" {
		t.Errorf("decoded %+v", out)
	}
}

func TestDoSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"))
	if err := c.Do(context.Background(), http.MethodDelete, "/farmers/F001", nil, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestDoNoContentLeavesOutUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	out := map[string]string{"keep": "me"}
	if err := c.Do(context.Background(), http.MethodDelete, "/farmers/F001", nil, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out["keep"] != "me" {
		t.Errorf("out was modified on 204: %v", out)
	}
}

func TestDoReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "order is already paid"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Do(context.Background(), http.MethodPost, "/sales-orders/SO001/confirm-payment", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "order is already paid" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestDoNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Do(context.Background(), http.MethodGet, "/stock", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "bad gateway" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["username"] != "somsri" {
				t.Errorf("username = %q", body["username"])
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token":  "access-abc",
				"refresh_token": "refresh-abc",
			})
		case "/farmers":
			if r.Header.Get("Authorization") != "Bearer access-abc" {
				t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("[]"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Login(context.Background(), "somsri", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.AccessToken != "access-abc" {
		t.Errorf("access token = %q", result.AccessToken)
	}

	// The stored token rides on the next request.
	if _, err := c.ListFarmers(context.Background(), ""); err != nil {
		t.Fatalf("ListFarmers: %v", err)
	}
}

func TestQueryString(t *testing.T) {
	if got := queryString(map[string]string{"search": "", "warehouse_id": ""}); got != "" {
		t.Errorf("empty params should produce no query, got %q", got)
	}
	if got := queryString(map[string]string{"search": "palm"}); got != "?search=palm" {
		t.Errorf("queryString = %q", got)
	}
}
