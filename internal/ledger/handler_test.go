package ledger

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/shared"
	"github.com/meridian-pos/meridian-pos/internal/users"
)

func newHandlerRouter(t *testing.T) (chi.Router, *MemoryRepository) {
	t.Helper()

	repo := seedSales(t)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, repo
}

func requestAs(target string, userID int64, role string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	sess := &shared.Session{ID: "test-session"}
	sess.SignIn(userID, "Cashier", role)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func TestListScopesCashierToOwnSales(t *testing.T) {
	router, _ := newHandlerRouter(t)

	w := httptest.NewRecorder()
	// cashier_id must be ignored for non-admins.
	router.ServeHTTP(w, requestAs("/sales?cashier_id=2", 1, users.RoleCashier))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sales []Sale `json:"sales"`
		Total int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	for _, s := range body.Sales {
		assert.Equal(t, int64(1), s.CashierID)
	}
}

func TestListAdminSeesAllAndFilters(t *testing.T) {
	router, _ := newHandlerRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, requestAs("/sales", 9, users.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Total)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, requestAs("/sales?cashier_id=2", 9, users.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
}

func TestGetForbidsOtherCashiersSale(t *testing.T) {
	router, _ := newHandlerRouter(t)

	// Sale 2 belongs to cashier 2.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, requestAs("/sales/2", 1, users.RoleCashier))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, requestAs("/sales/2", 2, users.RoleCashier))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, requestAs("/sales/2", 9, users.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}
