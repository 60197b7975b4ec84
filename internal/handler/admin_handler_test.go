package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/registro-go-api/internal/dto"
	"github.com/noah-isme/registro-go-api/internal/handler"
	"github.com/noah-isme/registro-go-api/internal/middleware"
	"github.com/noah-isme/registro-go-api/internal/service"
)

type mockAdminService struct {
	lastID         uint
	lastReschedule dto.AdminRescheduleRequest
	lastActor      service.Actor
	lastAuditReq   dto.AuditListRequest
	entry          dto.AuditEntryResponse
	audit          dto.AuditListResponse
	err            error
}

func (m *mockAdminService) Reschedule(_ context.Context, id uint, req dto.AdminRescheduleRequest, actor service.Actor) (dto.AuditEntryResponse, error) {
	m.lastID = id
	m.lastReschedule = req
	m.lastActor = actor
	if m.err != nil {
		return dto.AuditEntryResponse{}, m.err
	}
	return m.entry, nil
}

func (m *mockAdminService) Delete(_ context.Context, id uint, req dto.AdminDeleteRequest, actor service.Actor) (dto.AuditEntryResponse, error) {
	m.lastID = id
	m.lastActor = actor
	if m.err != nil {
		return dto.AuditEntryResponse{}, m.err
	}
	return m.entry, nil
}

func (m *mockAdminService) ListAudit(_ context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error) {
	m.lastAuditReq = req
	if m.err != nil {
		return dto.AuditListResponse{}, m.err
	}
	return m.audit, nil
}

func newAdminApp(svc service.AdminService, auth service.Authenticator) *fiber.App {
	app := fiber.New()
	logger := zerolog.New(io.Discard)
	h := handler.NewAdminHandler(svc, auth, logger)

	group := app.Group("/api/v1/admin", middleware.Actor())
	h.RegisterPublic(group)
	h.Register(group.Group("", middleware.AdminOnly(auth)))
	return app
}

func TestAdminHandler_VerifyCode(t *testing.T) {
	app := newAdminApp(&mockAdminService{}, service.NewCodeAuthenticator("s3cret"))

	body, err := json.Marshal(dto.AdminVerifyRequest{Code: "s3cret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data map[string]bool `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Data["valid"])
}

func TestAdminHandler_GuardRejectsMissingAndWrongCode(t *testing.T) {
	app := newAdminApp(&mockAdminService{}, service.NewCodeAuthenticator("s3cret"))

	body, err := json.Marshal(dto.AdminRescheduleRequest{NewDate: "2024-03-10"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/activities/7/date", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/admin/activities/7/date", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderAdminCode, "wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminHandler_RescheduleSuccess(t *testing.T) {
	newDate := "2024-03-10"
	svc := &mockAdminService{entry: dto.AuditEntryResponse{
		Action:           "UPDATE_DATE",
		RecordID:         7,
		OldScheduledDate: "2024-03-05",
		NewScheduledDate: &newDate,
		Actor:            "admin1",
	}}
	app := newAdminApp(svc, service.NewCodeAuthenticator("s3cret"))

	body, err := json.Marshal(dto.AdminRescheduleRequest{NewDate: newDate, Reason: "client request"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/activities/7/date", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderAdminCode, "s3cret")
	req.Header.Set(middleware.HeaderActor, "admin1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.AuditEntryResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "UPDATE_DATE", response.Data.Action)
	require.Equal(t, uint(7), svc.lastID)
	require.Equal(t, "client request", svc.lastReschedule.Reason)
	require.Equal(t, "admin1", svc.lastActor.Name)
	require.True(t, svc.lastActor.Admin)
}

func TestAdminHandler_RescheduleNotFound(t *testing.T) {
	app := newAdminApp(&mockAdminService{err: service.ErrActivityNotFound}, service.NewCodeAuthenticator("s3cret"))

	body, err := json.Marshal(dto.AdminRescheduleRequest{NewDate: "2024-03-10"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/activities/4242/date", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderAdminCode, "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminHandler_RescheduleInvalidID(t *testing.T) {
	app := newAdminApp(&mockAdminService{}, service.NewCodeAuthenticator("s3cret"))

	body, err := json.Marshal(dto.AdminRescheduleRequest{NewDate: "2024-03-10"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/activities/abc/date", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderAdminCode, "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminHandler_DeleteWithoutBody(t *testing.T) {
	svc := &mockAdminService{entry: dto.AuditEntryResponse{Action: "DELETE", RecordID: 7}}
	app := newAdminApp(svc, service.NewCodeAuthenticator("s3cret"))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/activities/7", nil)
	req.Header.Set(middleware.HeaderAdminCode, "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), svc.lastID)
}

func TestAdminHandler_ListAuditClampsPageSize(t *testing.T) {
	svc := &mockAdminService{audit: dto.AuditListResponse{
		Items:      []dto.AuditEntryResponse{{ID: 1, Action: "DELETE", RecordID: 7}},
		Pagination: dto.PaginationMeta{Page: 1, PageSize: 100, TotalItems: 1, TotalPages: 1},
	}}
	app := newAdminApp(svc, service.NewCodeAuthenticator("s3cret"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/audit?page_size=500&action=DELETE&record_id=7", nil)
	req.Header.Set(middleware.HeaderAdminCode, "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, svc.lastAuditReq.Page)
	require.Equal(t, 100, svc.lastAuditReq.PageSize)
	require.Equal(t, "DELETE", svc.lastAuditReq.Action)
	require.Equal(t, uint(7), svc.lastAuditReq.RecordID)

	var response struct {
		Success bool                     `json:"success"`
		Data    []dto.AuditEntryResponse `json:"data"`
		Meta    dto.PaginationMeta       `json:"meta"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Len(t, response.Data, 1)
	require.Equal(t, uint(7), response.Data[0].RecordID)
	require.Equal(t, int64(1), response.Meta.TotalItems)
}

func TestAdminHandler_ListAuditServiceError(t *testing.T) {
	app := newAdminApp(&mockAdminService{err: errors.New("boom")}, service.NewCodeAuthenticator("s3cret"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/audit", nil)
	req.Header.Set(middleware.HeaderAdminCode, "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
