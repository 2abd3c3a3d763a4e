package controlplane

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tenants/1234567":
			w.Write([]byte(`{"restaurantId":"1234567","name":"Spice Route","dbName":"tenant_1234567","dbUser":"user_1234567"}`))
		case "/api/tenants/0000000":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	got, err := c.GetByID(context.Background(), "1234567")
	require.NoError(t, err)
	assert.Equal(t, "Spice Route", got.Name)
	assert.Equal(t, "tenant_1234567", got.DBName)

	_, err = c.GetByID(context.Background(), "0000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetByID(context.Background(), "boom")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFindByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") == "owner@example.com" {
			w.Write([]byte(`{"restaurantId":"7654321","email":"owner@example.com"}`))
			return
		}
		// registry answers 200 with an empty body for unknown emails
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	got, err := c.FindByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, "7654321", got.RestaurantID)

	_, err = c.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAndDelete(t *testing.T) {
	var deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"restaurantId":"9999999"}`))
		case http.MethodDelete:
			deleted = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	created, err := c.Create(context.Background(), &Tenant{
		RestaurantID: "1111111",
		Name:         "Tandoor House",
		Email:        "t@example.com",
	})
	require.NoError(t, err)
	// registry-assigned id wins
	assert.Equal(t, "9999999", created.RestaurantID)

	require.NoError(t, c.Delete(context.Background(), "9999999"))
	assert.Equal(t, "/api/tenants/9999999", deleted)
}

func TestDelete_MissingRecordIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	assert.NoError(t, c.Delete(context.Background(), "4242424"))
}
