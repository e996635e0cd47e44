package storefront_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Storefront/internal/account"
	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/checkout"
	"Storefront/internal/session"
	"Storefront/internal/storage"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
)

const metricsToken = "metrics-token"

type downStore struct{ *storage.MemStore }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func newDeps(state storage.Store, reg prometheus.Registerer) storefront.Deps {
	stateMetrics := kit.NewStateMetrics(reg)
	orders := checkout.NewMemStore()
	return storefront.Deps{
		Catalog:  catalog.NewStore(),
		State:    state,
		Sessions: cart.NewSessions(state, "", time.Hour, cart.WithRecorder(stateMetrics)),
		Orders:   orders,
		Checkout: checkout.NewService(orders, nil, stateMetrics, nil),
		Users:    account.NewMemStore(),
		Tokens:   account.NewTokenMaker("test-secret"),
		Session:  session.NewManager("session-secret", time.Hour, false, nil),
	}
}

func newStorefrontTS(t *testing.T, deps storefront.Deps, reg *prometheus.Registry) *httptest.Server {
	t.Helper()

	h := storefront.NewHandler(deps, storefront.HTTPDeps{
		Log:            zap.NewNop(),
		Service:        "storefront",
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   metricsToken,
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

type summary struct {
	CartItemCount  int   `json:"cart_item_count"`
	WishlistCount  int   `json:"wishlist_count"`
	CartTotalCents int64 `json:"cart_total_cents"`
}

func getSummary(t *testing.T, c *http.Client, base string) summary {
	t.Helper()
	resp, raw := doJSON(t, c, http.MethodGet, base+"/session/summary", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status=%d body=%s", resp.StatusCode, string(raw))
	}
	var s summary
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	return s
}

func TestStorefront_PublicAPI_HappyPath(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newStorefrontTS(t, newDeps(storage.NewMemStore(), reg), reg)
	c := newClient(t)

	{
		resp, raw := doJSON(t, c, http.MethodGet, ts.URL+"/products?q=dress&sort=price-low", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("products status=%d", resp.StatusCode)
		}
		var lr struct {
			Products []catalog.Product `json:"products"`
		}
		if err := json.Unmarshal(raw, &lr); err != nil {
			t.Fatalf("decode products: %v", err)
		}
		if len(lr.Products) != 1 || lr.Products[0].ID != "1" {
			t.Fatalf("products=%+v", lr.Products)
		}
	}

	for _, body := range []map[string]any{
		{"product_id": "1", "color": "Blue", "size": "M", "quantity": 2},
		{"product_id": "1", "color": "Blue", "size": "M", "quantity": 1},
	} {
		resp, raw := doJSON(t, c, http.MethodPost, ts.URL+"/cart/items", body, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, c, http.MethodPut, ts.URL+"/wishlist/3", nil, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("wishlist status=%d", resp.StatusCode)
		}
	}

	if got := getSummary(t, c, ts.URL); got != (summary{CartItemCount: 3, WishlistCount: 1, CartTotalCents: 3 * 8999}) {
		t.Fatalf("summary=%+v", got)
	}

	if got := getSummary(t, newClient(t), ts.URL); got != (summary{}) {
		t.Fatalf("fresh visitor sees state: %+v", got)
	}

	var placed checkout.Order
	{
		resp, raw := doJSON(t, c, http.MethodPost, ts.URL+"/checkout", map[string]any{
			"first_name":     "Ada",
			"last_name":      "Lovelace",
			"email":          "ada@example.com",
			"phone":          "555-0100",
			"address":        "1 Analytical Way",
			"city":           "London",
			"zip_code":       "10001",
			"payment_method": "cod",
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("checkout status=%d body=%s", resp.StatusCode, string(raw))
		}
		if err := json.Unmarshal(raw, &placed); err != nil {
			t.Fatalf("decode order: %v", err)
		}
		// 269.97 subtotal ships free; tax 21.60.
		if placed.Summary.TotalCents != 26997+2160 {
			t.Fatalf("total=%d", placed.Summary.TotalCents)
		}
	}

	if got := getSummary(t, c, ts.URL); got.CartItemCount != 0 || got.WishlistCount != 1 {
		t.Fatalf("after checkout summary=%+v", got)
	}

	{
		resp, _ := doJSON(t, c, http.MethodGet, ts.URL+"/orders/"+placed.ID, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get order status=%d", resp.StatusCode)
		}
		resp, _ = doJSON(t, newClient(t), http.MethodGet, ts.URL+"/orders/"+placed.ID, nil, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("foreign get order status=%d", resp.StatusCode)
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, ts.URL+"/metrics", nil, map[string]string{
			"Authorization": "Bearer " + metricsToken,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("metrics status=%d", resp.StatusCode)
		}
		for _, want := range []string{
			`storefront_cart_mutations_total{op="add_to_cart"} 2`,
			`storefront_orders_placed_total 1`,
			`http_requests_total{method="POST",path="/cart/items",service="storefront",status="200"} 2`,
		} {
			if !strings.Contains(string(raw), want) {
				t.Fatalf("metrics missing %q", want)
			}
		}
	}
}

func TestStorefront_PublicAPI_Account(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newStorefrontTS(t, newDeps(storage.NewMemStore(), reg), reg)
	c := newClient(t)

	resp, raw := doJSON(t, c, http.MethodPost, ts.URL+"/account/register", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", resp.StatusCode, string(raw))
	}

	resp, raw = doJSON(t, c, http.MethodPost, ts.URL+"/account/login", map[string]any{
		"email": "ada@example.com", "password": "password123",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status=%d body=%s", resp.StatusCode, string(raw))
	}
	var lr struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &lr); err != nil || lr.AccessToken == "" {
		t.Fatalf("decode login: %v body=%s", err, string(raw))
	}

	resp, _ = doJSON(t, c, http.MethodGet, ts.URL+"/account/me", nil, map[string]string{
		"Authorization": "Bearer " + lr.AccessToken,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status=%d", resp.StatusCode)
	}
}

func TestStorefront_MetricsRequiresToken(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newStorefrontTS(t, newDeps(storage.NewMemStore(), reg), reg)

	resp, _ := doJSON(t, newClient(t), http.MethodGet, ts.URL+"/metrics", nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestStorefront_Readyz(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newStorefrontTS(t, newDeps(storage.NewMemStore(), reg), reg)

	resp, _ := doJSON(t, newClient(t), http.MethodGet, ts.URL+"/readyz", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	reg2 := prometheus.NewRegistry()
	down := newStorefrontTS(t, newDeps(downStore{storage.NewMemStore()}, reg2), reg2)
	resp, raw := doJSON(t, newClient(t), http.MethodGet, down.URL+"/readyz", nil, nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if !strings.Contains(string(raw), "state not ready") {
		t.Fatalf("body=%s", string(raw))
	}
}
