package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prompted/hrconsume/internal/client"
	"github.com/prompted/hrconsume/internal/consumption"
	"github.com/prompted/hrconsume/internal/db"
	"github.com/prompted/hrconsume/internal/db/dbtest"
	"github.com/prompted/hrconsume/internal/httpx"
	"github.com/prompted/hrconsume/internal/sqlfrag"
)

func newServer(t *testing.T) (*httptest.Server, *dbtest.Seeder) {
	t.Helper()
	pool := dbtest.Open(t)
	store := consumption.NewStore(db.NewExecutor(pool, sqlfrag.Question), 1000)

	r := chi.NewRouter()
	r.Route("/consumption", consumption.NewHandler(store, time.Second).Routes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, dbtest.NewSeeder(t, pool)
}

func TestQuery_EndToEnd(t *testing.T) {
	srv, seed := newServer(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seed.Unified("ann", 85, base)
	seed.Unified("bob", 120, base)

	c := client.New(srv.URL+"/", httpx.NewClient(time.Second, 0))
	rows, err := c.Query(context.Background(), consumption.EndpointLatestHeartRates,
		url.Values{"min_hr": {"100"}})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 1 || rows[0]["user_name"] != "bob" {
		t.Errorf("expected only bob, got %v", rows)
	}
}

func TestQuery_APIError(t *testing.T) {
	srv, _ := newServer(t)

	c := client.New(srv.URL, httpx.NewClient(time.Second, 0))
	_, err := c.Query(context.Background(), consumption.EndpointLatestHeartRates,
		url.Values{"limit": {"0"}})

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "limit: must be a positive integer" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestQuery_UnknownEndpoint(t *testing.T) {
	srv, _ := newServer(t)

	c := client.New(srv.URL, httpx.NewClient(time.Second, 0))
	_, err := c.Query(context.Background(), "getNothing", nil)

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("expected 404 APIError, got %v", err)
	}
}
