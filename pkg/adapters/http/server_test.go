package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zojize/exusiai-bot"
	httpadapter "github.com/zojize/exusiai-bot/pkg/adapters/http"
	"github.com/zojize/exusiai-bot/pkg/adapters/memory"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/gacha"
	"github.com/zojize/exusiai-bot/pkg/observability"
)

func newServer(t *testing.T) (http.Handler, *exusiai.Gacha, *observability.Metrics) {
	t.Helper()
	cat := &domain.Catalog{
		Operators: []domain.Operator{
			{Name: "Exusiai", CNName: "能天使", Rarity: 6},
			{Name: "Texas", Rarity: 5},
			{Name: "Myrtle", Rarity: 4},
			{Name: "Fang", Rarity: 3},
		},
		Banners: []domain.Banner{
			{Name: "standard", RateUps: []string{"Exusiai"}},
			{Name: "limited"},
		},
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	g, err := exusiai.New("",
		exusiai.WithLoader(memory.NewLoader(cat)),
		exusiai.WithSeed(5),
		exusiai.WithHooks(metrics.Hooks()),
	)
	require.NoError(t, err)
	return httpadapter.NewHandler(g, httpadapter.WithGatherer(reg)), g, metrics
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h, _, _ := newServer(t)
	w := do(t, h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), exusiai.Version)
}

func TestBanners(t *testing.T) {
	h, _, _ := newServer(t)

	w := do(t, h, http.MethodGet, "/banners", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var banners []domain.Banner
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &banners))
	assert.Len(t, banners, 2)

	w = do(t, h, http.MethodGet, "/banners/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info exusiai.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "standard", info.Banner)
	assert.Len(t, info.Rates, 4)
	assert.Equal(t, "0.02", info.Rates[0].Rate.String())
}

func TestSetBanner(t *testing.T) {
	h, g, _ := newServer(t)

	w := do(t, h, http.MethodPut, "/banners/current", httpadapter.BannerRequest{Name: "limited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "limited", g.Banner().Name)

	w = do(t, h, http.MethodPut, "/banners/current", httpadapter.BannerRequest{Name: "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "banner not found")

	req := httptest.NewRequest(http.MethodPut, "/banners/current", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPull(t *testing.T) {
	h, _, metrics := newServer(t)

	w := do(t, h, http.MethodPost, "/pulls", httpadapter.PullRequest{User: "alice", Count: 10})
	require.Equal(t, http.StatusOK, w.Code)

	var resp httpadapter.PullResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "standard", resp.Banner)
	assert.Equal(t, "alice", resp.User)
	assert.Len(t, resp.Pulls, 10)

	w = do(t, h, http.MethodPost, "/pulls", httpadapter.PullRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, httpadapter.DefaultUser, resp.User)
	assert.Len(t, resp.Pulls, 1)

	w = do(t, h, http.MethodPost, "/pulls", httpadapter.PullRequest{Count: gacha.MaxPulls + 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var total float64
	for r := 3; r <= 6; r++ {
		total += counterValue(t, metrics, r)
	}
	assert.Equal(t, 11.0, total)
}

func counterValue(t *testing.T, m *observability.Metrics, rarity int) float64 {
	t.Helper()
	c, err := m.Pulls.GetMetricWithLabelValues("standard", strconv.Itoa(rarity))
	require.NoError(t, err)
	return testutil.ToFloat64(c)
}

func TestPity(t *testing.T) {
	h, g, _ := newServer(t)
	ctx := context.Background()

	_, err := g.Pull(ctx, "bob", 3)
	require.NoError(t, err)

	w := do(t, h, http.MethodGet, "/users/bob/pity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st gacha.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 6, st.Rarity)

	w = do(t, h, http.MethodPut, "/pity", httpadapter.PityRequest{Enabled: false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, g.PityEnabled())
}

func TestTree(t *testing.T) {
	h, _, _ := newServer(t)
	w := do(t, h, http.MethodGet, "/tree", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD"))
	assert.Contains(t, w.Body.String(), `root -- "0.02" --> n_6`)
}

func TestMetrics(t *testing.T) {
	h, _, _ := newServer(t)
	do(t, h, http.MethodPost, "/pulls", httpadapter.PullRequest{User: "alice", Count: 5})

	w := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "exusiai_pulls_total")
	assert.Contains(t, w.Body.String(), "exusiai_banner_changes_total")
}

func TestCORS(t *testing.T) {
	h, _, _ := newServer(t)
	w := do(t, h, http.MethodOptions, "/pulls", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
