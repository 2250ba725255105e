package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/data/aggregates"
	"github.com/yungbote/landcontract-backend/internal/data/kv"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/domain/user"
	httpH "github.com/yungbote/landcontract-backend/internal/http/handlers"
	httpMW "github.com/yungbote/landcontract-backend/internal/http/middleware"
	"github.com/yungbote/landcontract-backend/internal/observability"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
	"github.com/yungbote/landcontract-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	store := kv.NewMemoryStore()
	ledger, err := aggregates.NewContractLedger(context.Background(), store, aggregates.BaseDeps{Log: log}, aggregates.LedgerOptions{
		Location: time.UTC,
		Seed: func() (contracts.AppData, error) {
			return contracts.AppData{
				Users: []user.User{
					{ID: 1, Username: "admin", Password: "admin123", FullName: "Quản trị viên", Role: user.RoleAdmin},
					{ID: 2, Username: "nhanvien", Password: "nhanvien123", FullName: "Nhân viên", Role: user.RoleUser},
				},
				Wards: []contracts.Ward{{ID: 1, Name: "Phường 1", Code: "01"}},
			}, nil
		},
	})
	if err != nil {
		t.Fatalf("NewContractLedger: %v", err)
	}
	metrics := observability.NewMetrics()
	auth := services.NewAuthService(log, ledger, store, metrics, "router-test", time.Hour)
	contractSvc := services.NewContractService(log, ledger)
	return NewRouter(RouterConfig{
		Log:               log,
		Metrics:           metrics,
		AuthHandler:       httpH.NewAuthHandler(auth),
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, auth),
		WardHandler:       httpH.NewWardHandler(contractSvc),
		ContractHandler:   httpH.NewContractHandler(contractSvc, time.UTC),
		StatisticsHandler: httpH.NewStatisticsHandler(services.NewStatisticsService(log, ledger, time.UTC), time.UTC),
		BackupHandler:     httpH.NewBackupHandler(services.NewBackupService(log, ledger)),
		HealthHandler:     httpH.NewHealthHandler("memory", ledger),
		MetricsHandler:    httpH.NewMetricsHandler(metrics),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case []byte:
		buf.Write(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	rec := do(t, r, stdhttp.MethodPost, "/api/login", "", map[string]string{"username": username, "password": password})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("login %s: status=%d body=%s", username, rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("login %s: token missing: %s", username, rec.Body.String())
	}
	return out.Token
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return env.Error.Code
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, stdhttp.MethodGet, "/healthcheck", "", nil)
	var health struct {
		Status string `json:"status"`
		Store  string `json:"store"`
		Wards  int    `json:"wards"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil || rec.Code != stdhttp.StatusOK {
		t.Fatalf("healthcheck: status=%d err=%v", rec.Code, err)
	}
	if health.Status != "ok" || health.Store != "memory" || health.Wards != 1 {
		t.Fatalf("healthcheck body: %+v", health)
	}

	do(t, r, stdhttp.MethodGet, "/api/contracts", "", nil)
	rec = do(t, r, stdhttp.MethodGet, "/metrics", "", nil)
	body := rec.Body.String()
	if rec.Code != stdhttp.StatusOK || !strings.Contains(body, "lc_api_requests_total") {
		t.Fatalf("metrics: status=%d body=%s", rec.Code, body)
	}
	if !strings.Contains(body, `lc_api_errors_total{route="/api/contracts",code="unauthorized"} 1`) {
		t.Fatalf("error counter missing:\n%s", body)
	}
}

func TestLoginFailures(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, stdhttp.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": "nope"})
	if rec.Code != stdhttp.StatusUnauthorized || errorCode(t, rec) != "unauthorized" {
		t.Fatalf("wrong password: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec := do(t, r, stdhttp.MethodGet, "/api/contracts", "", nil); rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("no token: status=%d", rec.Code)
	}
}

func TestCreateDistinguishesAbsentFromZero(t *testing.T) {
	r := newTestRouter(t)
	staff := login(t, r, "nhanvien", "nhanvien123")

	rec := do(t, r, stdhttp.MethodPost, "/api/contracts", staff, map[string]any{
		"customerName": "Lê C", "mapSheetNumber": 5, "wardId": 1,
	})
	var env struct {
		Error struct {
			Code   string   `json:"code"`
			Fields []string `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("absent plot: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if env.Error.Code != "validation" || len(env.Error.Fields) != 1 || env.Error.Fields[0] != "plotNumber" {
		t.Fatalf("absent plot envelope: %+v", env.Error)
	}

	rec = do(t, r, stdhttp.MethodPost, "/api/contracts", staff, map[string]any{
		"customerName": "Lê C", "mapSheetNumber": 0, "plotNumber": 0, "wardId": 1,
	})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("zero sheet/plot: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestContractFlow(t *testing.T) {
	r := newTestRouter(t)
	admin := login(t, r, "admin", "admin123")
	staff := login(t, r, "nhanvien", "nhanvien123")

	rec := do(t, r, stdhttp.MethodPost, "/api/contracts", staff, map[string]any{
		"customerName": "Nguyễn Văn A", "mapSheetNumber": 12, "plotNumber": 34, "wardId": 1,
	})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var created struct {
		Contract contracts.Contract `json:"contract"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	wantPrefix := "01/" + time.Now().UTC().Format("06") + "01"
	if !strings.HasPrefix(created.Contract.ContractNumber, wantPrefix) {
		t.Fatalf("number: want prefix %q got %q", wantPrefix, created.Contract.ContractNumber)
	}
	path := "/api/contracts/" + jsonID(created.Contract.ID)

	rec = do(t, r, stdhttp.MethodPost, "/api/contracts", staff, map[string]any{"customerName": "x", "wardId": 9})
	if rec.Code != stdhttp.StatusBadRequest || errorCode(t, rec) != "validation" {
		t.Fatalf("invalid create: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, stdhttp.MethodPost, path+"/cancel", staff, map[string]string{"reason": "Khách hàng yêu cầu"})
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("staff cancel: status=%d", rec.Code)
	}
	rec = do(t, r, stdhttp.MethodPost, path+"/cancel", admin, map[string]string{"reason": "Hủy gấp"})
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("short reason: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, stdhttp.MethodPost, path+"/liquidations", admin, map[string]string{"liquidationType": "complete"})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("liquidate: status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, stdhttp.MethodPost, path+"/liquidations", admin, map[string]string{"liquidationType": "cancel"})
	if rec.Code != stdhttp.StatusConflict || errorCode(t, rec) != "invalid_transition" {
		t.Fatalf("second liquidation: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, stdhttp.MethodGet, path, staff, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("get: status=%d", rec.Code)
	}
	var detail services.ContractDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Contract.Status != contracts.StatusCompleted || len(detail.Liquidations) != 1 {
		t.Fatalf("detail: %+v", detail)
	}

	if rec := do(t, r, stdhttp.MethodGet, "/api/contracts/999", staff, nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("missing: status=%d", rec.Code)
	}
	if rec := do(t, r, stdhttp.MethodGet, "/api/contracts?status=completed", staff, nil); rec.Code != stdhttp.StatusOK ||
		!strings.Contains(rec.Body.String(), `"count":1`) {
		t.Fatalf("list: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec := do(t, r, stdhttp.MethodGet, "/api/statistics?period=month", staff, nil); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("staff stats: status=%d", rec.Code)
	}
	if rec := do(t, r, stdhttp.MethodGet, "/api/statistics?period=month", admin, nil); rec.Code != stdhttp.StatusOK {
		t.Fatalf("stats: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestBackupAndRestore(t *testing.T) {
	r := newTestRouter(t)
	admin := login(t, r, "admin", "admin123")

	rec := do(t, r, stdhttp.MethodGet, "/api/backup", admin, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("backup: status=%d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "backup-") {
		t.Fatalf("content disposition: %q", cd)
	}
	doc := rec.Body.Bytes()

	rec = do(t, r, stdhttp.MethodPost, "/api/restore", admin, []byte(`{"users":[],"wards":[]}`))
	if rec.Code != stdhttp.StatusBadRequest || errorCode(t, rec) != "restore_format" {
		t.Fatalf("bad restore: status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, stdhttp.MethodPost, "/api/restore", admin, doc)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("restore: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec := do(t, r, stdhttp.MethodGet, "/api/backup?compress=rar", admin, nil); rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("bad encoding: status=%d", rec.Code)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "admin", "admin123")
	if rec := do(t, r, stdhttp.MethodGet, "/api/me", token, nil); rec.Code != stdhttp.StatusOK {
		t.Fatalf("me: status=%d", rec.Code)
	}
	if rec := do(t, r, stdhttp.MethodPost, "/api/logout", token, nil); rec.Code != stdhttp.StatusOK {
		t.Fatalf("logout: status=%d", rec.Code)
	}
	if rec := do(t, r, stdhttp.MethodGet, "/api/me", token, nil); rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("me after logout: status=%d", rec.Code)
	}
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
