package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gudang-labs/warehouse-dashboard/internal/gateway"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

type staticSession struct{ token string }

func (s *staticSession) AccessToken() string { return s.token }

func (s *staticSession) RefreshAccessToken(ctx context.Context) (string, error) {
	return s.token, nil
}

func newTestGateway(serverURL string) *gateway.Client {
	return gateway.New(serverURL, &staticSession{token: "access-token"})
}

func TestDailyLogsListSendsFullQueryShape(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"logs":[],"total":0}}`))
	}))
	defer srv.Close()

	client := NewDailyLogsClient(newTestGateway(srv.URL))
	page, err := client.List(context.Background(), models.ListQuery{
		Page:  2,
		Limit: 10,
		Sort:  models.Sort{Key: "logDate", Direction: models.SortDesc},
	})
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, "2", got.Get("page"))
	assert.Equal(t, "10", got.Get("limit"))
	assert.Equal(t, "logDate", got.Get("sortBy"))
	assert.Equal(t, "desc", got.Get("sortOrder"))
	// Unset filters still travel as empty parameters.
	for _, key := range []string{"search", "startDate", "endDate"} {
		assert.True(t, got.Has(key), "missing %s", key)
		assert.Empty(t, got.Get(key))
	}
}

func TestDailyLogsCreateValidatesBeforeNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewDailyLogsClient(newTestGateway(srv.URL))
	_, err := client.Create(context.Background(), models.CreateDailyLogRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Zero(t, calls)
}

func TestLoginValidatesBeforeNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL, time.Second)
	_, err := client.Login(context.Background(), models.LoginRequest{UsernameOrEmail: "budi"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Zero(t, calls)
}

func TestRefreshSendsRefreshTokenAsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/refresh-token", r.URL.Path)
		require.Equal(t, "Bearer refresh-abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"accessToken":"new-access","refreshToken":"new-refresh"}}`))
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL, time.Second)
	out, err := client.Refresh(context.Background(), "refresh-abc")
	require.NoError(t, err)
	assert.Equal(t, "new-access", out.AccessToken)
	assert.Equal(t, "new-refresh", out.RefreshToken)
}

func TestExportUsesContentDispositionFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "pdf", r.URL.Query().Get("fileFormat"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report-2025.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	client := NewReportsClient(newTestGateway(srv.URL))
	out, err := client.ExportFile(context.Background(), models.ReportQuery{
		StartDate: "2025-01-01",
		EndDate:   "2025-12-31",
		Type:      models.ReportMonthly,
	}, models.FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "report-2025.pdf", out.Filename)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 fake"), out.Data)
}

func TestExportFallsBackToGenericFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("time,operatorName\n"))
	}))
	defer srv.Close()

	client := NewReportsClient(newTestGateway(srv.URL))
	out, err := client.ExportFile(context.Background(), models.ReportQuery{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
		Type:      models.ReportDaily,
	}, models.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "report.csv", out.Filename)
}

func TestExportSurfacesEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"rentang tanggal tidak valid"}`))
	}))
	defer srv.Close()

	client := NewReportsClient(newTestGateway(srv.URL))
	_, err := client.ExportFile(context.Background(), models.ReportQuery{
		StartDate: "2025-06-30",
		EndDate:   "2025-06-01",
		Type:      models.ReportDaily,
	}, models.FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rentang tanggal tidak valid")
}

func TestReportFilterDecodesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/reports/filter", r.URL.Path)
		require.Equal(t, "weekly", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[{"time":"01-07 Jun 2025","operatorName":"Budi","binningCount":120,"pickingCount":80,"totalItems":200,"productivity":95.5}]}`))
	}))
	defer srv.Close()

	client := NewReportsClient(newTestGateway(srv.URL))
	rows, err := client.Filter(context.Background(), models.ReportQuery{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
		Type:      models.ReportWeekly,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Budi", rows[0].OperatorName)
	assert.InDelta(t, 95.5, rows[0].Productivity, 0.001)
}

func TestUsersListFiltersByRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "operasional", r.URL.Query().Get("role"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[{"id":1,"username":"siti","fullName":"Siti Rahma","email":"siti@gudang.id","role":"operasional","subRole":{"name":"picking","teamCategory":"outgoing"}}]}`))
	}))
	defer srv.Close()

	client := NewUsersClient(newTestGateway(srv.URL))
	role := models.RoleOperations
	users, err := client.List(context.Background(), &role)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "siti", users[0].Username)
	require.NotNil(t, users[0].SubRole)
	assert.Equal(t, models.SubRolePicking, users[0].SubRole.Name)
}
