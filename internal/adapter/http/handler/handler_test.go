package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agent-spend-governor/internal/adapter/http/dto"
	"agent-spend-governor/internal/adapter/http/middleware"
	"agent-spend-governor/internal/core/domain"
	"agent-spend-governor/internal/core/ports"
	"agent-spend-governor/internal/core/ports/mocks"
	"agent-spend-governor/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	agentID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		OwnerUsername: "testuser",
		Password:      "password123",
		AgentName:     "Shopping Agent",
	}).Return(&ports.RegisterResponse{
		AgentID:   agentID,
		AccessKey: "ak_test",
		SecretKey: "sk_test",
	}, nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		Username:  "testuser",
		Password:  "password123",
		AgentName: "Shopping Agent",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, agentID.String(), data["agent_id"])
	assert.Equal(t, "ak_test", data["access_key"])
	assert.Equal(t, "sk_test", data["secret_key"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUsernameExists())

	body, _ := json.Marshal(dto.RegisterRequest{
		Username:  "taken",
		Password:  "password123",
		AgentName: "Agent",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "testuser", "password123").Return("jwt-token-123", expiry, nil)

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "testuser",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad", "badpassword").Return("", time.Time{}, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "bad",
		Password: "badpassword",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Purchase Handler Tests ---

func TestAuthorize_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewPurchaseHandler(mockGov)

	agentID := uuid.New()
	merchantID := uuid.New()
	receiptID := uuid.New()
	now := time.Now()

	mockGov.EXPECT().AuthorizePurchase(gomock.Any(), ports.AuthorizeRequest{
		AgentID:     agentID,
		MerchantID:  merchantID,
		ReferenceID: "PUR-001",
		Amount:      120,
		Purpose:     "office supplies",
		ClientIP:    "192.0.2.1",
	}).Return(&domain.PurchaseReceipt{
		ID:          receiptID,
		AgentID:     agentID,
		MerchantID:  merchantID,
		ReferenceID: "PUR-001",
		Amount:      120,
		Purpose:     "office supplies",
		CreatedAt:   now,
	}, nil)

	body, _ := json.Marshal(dto.PurchaseRequest{
		ReferenceID: "PUR-001",
		MerchantID:  merchantID.String(),
		Amount:      120,
		Purpose:     "office supplies",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgentID, agentID)

	h.Authorize(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, receiptID.String(), data["id"])
	assert.Equal(t, "PUR-001", data["reference_id"])
	assert.Equal(t, float64(120), data["amount"])
}

func TestAuthorize_MissingAgentID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewPurchaseHandler(mockGov)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.Authorize(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorize_BadMerchantID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewPurchaseHandler(mockGov)

	body := []byte(`{"reference_id":"PUR-001","merchant_id":"not-a-uuid","amount":120}`)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgentID, uuid.New())

	h.Authorize(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthorize_InsufficientBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewPurchaseHandler(mockGov)

	agentID := uuid.New()
	merchantID := uuid.New()
	mockGov.EXPECT().AuthorizePurchase(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientBudget())

	body, _ := json.Marshal(dto.PurchaseRequest{
		ReferenceID: "PUR-001",
		MerchantID:  merchantID.String(),
		Amount:      9999999,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgentID, agentID)

	h.Authorize(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestAuthorize_SystemPaused(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewPurchaseHandler(mockGov)

	agentID := uuid.New()
	merchantID := uuid.New()
	mockGov.EXPECT().AuthorizePurchase(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrSystemPaused())

	body, _ := json.Marshal(dto.PurchaseRequest{
		ReferenceID: "PUR-002",
		MerchantID:  merchantID.String(),
		Amount:      120,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgentID, agentID)

	h.Authorize(c)

	assert.Equal(t, http.StatusLocked, w.Code)
}

// --- Agent Handler Tests ---

func TestFund_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewAgentHandler(mockGov)

	agentID := uuid.New()
	mockGov.EXPECT().FundAgent(gomock.Any(), ports.FundRequest{
		AgentID: agentID,
		Amount:  5000,
		IsOwner: true,
	}).Return(int64(5000), nil)

	body, _ := json.Marshal(dto.FundRequest{Amount: 5000})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgentID, agentID)
	c.Set(middleware.CtxIsOwner, true)

	h.Fund(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(5000), data["remaining_budget"])
}

func TestFund_NotOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewAgentHandler(mockGov)

	agentID := uuid.New()
	mockGov.EXPECT().FundAgent(gomock.Any(), gomock.Any()).Return(int64(0), apperror.ErrUnauthorized())

	body, _ := json.Marshal(dto.FundRequest{Amount: 5000})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgentID, agentID)

	h.Fund(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPause_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewAgentHandler(mockGov)

	agentID := uuid.New()
	mockGov.EXPECT().TogglePause(gomock.Any(), agentID, true).Return(true, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Set(middleware.CtxAgentID, agentID)
	c.Set(middleware.CtxIsOwner, true)

	h.Pause(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["paused"])
}

func TestInfo_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewAgentHandler(mockGov)

	agentID := uuid.New()
	mockGov.EXPECT().GetAgentInfo(gomock.Any(), agentID).Return(&ports.AgentInfo{
		RemainingBudget: 4880,
		CooldownUntil:   time.Now().Add(10 * time.Second),
		Paused:          false,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAgentID, agentID)

	h.Info(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(4880), data["remaining_budget"])
	assert.Equal(t, false, data["paused"])
}

func TestInfo_MissingAgentID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewAgentHandler(mockGov)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.Info(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Merchant Handler Tests ---

func TestAddMerchant_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewMerchantHandler(mockGov)

	agentID := uuid.New()
	merchantID := uuid.New()
	now := time.Now()

	mockGov.EXPECT().AddMerchant(gomock.Any(), ports.AddMerchantRequest{
		AgentID:       agentID,
		Name:          "Cloud Compute Co",
		WalletAddress: "0xabc123",
		PerTxLimit:    500,
		IsOwner:       true,
	}).Return(&domain.Merchant{
		ID:            merchantID,
		AgentID:       agentID,
		Name:          "Cloud Compute Co",
		WalletAddress: "0xabc123",
		PerTxLimit:    500,
		Enabled:       true,
		CreatedAt:     now,
	}, nil)

	body, _ := json.Marshal(dto.AddMerchantRequest{
		Name:          "Cloud Compute Co",
		WalletAddress: "0xabc123",
		PerTxLimit:    500,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgentID, agentID)
	c.Set(middleware.CtxIsOwner, true)

	h.Add(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, merchantID.String(), data["id"])
	assert.Equal(t, "0xabc123", data["wallet_address"])
}

func TestAddMerchant_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewMerchantHandler(mockGov)

	agentID := uuid.New()
	mockGov.EXPECT().AddMerchant(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrDuplicateMerchant())

	body, _ := json.Marshal(dto.AddMerchantRequest{
		Name:          "Cloud Compute Co",
		WalletAddress: "0xabc123",
		PerTxLimit:    500,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgentID, agentID)

	h.Add(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListMerchants_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewMerchantHandler(mockGov)

	agentID := uuid.New()
	mockGov.EXPECT().ListMerchants(gomock.Any(), agentID).Return([]domain.Merchant{
		{ID: uuid.New(), AgentID: agentID, Name: "A", WalletAddress: "0xa", PerTxLimit: 100, Enabled: true},
		{ID: uuid.New(), AgentID: agentID, Name: "B", WalletAddress: "0xb", PerTxLimit: 200, Enabled: true},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAgentID, agentID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 2)
}

func TestRemoveMerchant_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewMerchantHandler(mockGov)

	agentID := uuid.New()
	merchantID := uuid.New()
	mockGov.EXPECT().RemoveMerchant(gomock.Any(), agentID, merchantID, true).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: merchantID.String()}}
	c.Set(middleware.CtxAgentID, agentID)
	c.Set(middleware.CtxIsOwner, true)

	h.Remove(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveMerchant_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewMerchantHandler(mockGov)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	c.Set(middleware.CtxAgentID, uuid.New())

	h.Remove(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Receipt Handler Tests ---

func TestListReceipts_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewReceiptHandler(mockGov, nil)

	agentID := uuid.New()
	now := time.Now()

	mockGov.EXPECT().ListReceipts(gomock.Any(), gomock.Any()).Return([]domain.PurchaseReceipt{
		{
			ID:          uuid.New(),
			AgentID:     agentID,
			MerchantID:  uuid.New(),
			ReferenceID: "PUR-001",
			Amount:      120,
			CreatedAt:   now,
		},
	}, int64(1), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=1&page_size=20", nil)
	c.Set(middleware.CtxAgentID, agentID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["total_pages"])
}

func TestListReceipts_PassesFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewReceiptHandler(mockGov, nil)

	agentID := uuid.New()
	merchantID := uuid.New()

	mockGov.EXPECT().ListReceipts(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params ports.ReceiptListParams) ([]domain.PurchaseReceipt, int64, error) {
			require.NotNil(t, params.MerchantID)
			assert.Equal(t, merchantID, *params.MerchantID)
			require.NotNil(t, params.From)
			assert.Equal(t, int64(1700000000), *params.From)
			return nil, 0, nil
		},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?merchant_id="+merchantID.String()+"&from=1700000000", nil)
	c.Set(middleware.CtxAgentID, agentID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListReceipts_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGov := mocks.NewMockGovernanceService(ctrl)
	h := NewReceiptHandler(mockGov, nil)

	agentID := uuid.New()
	mockGov.EXPECT().ListReceipts(gomock.Any(), gomock.Any()).Return(nil, int64(0), errors.New("db down"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAgentID, agentID)

	h.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Health Check Test ---

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestSwaggerUI(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/swagger", nil)

	SwaggerUI(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "swagger-ui")
	assert.Contains(t, w.Body.String(), "/swagger/spec")
}

func TestSwaggerSpec_Loaded(t *testing.T) {
	SetSwaggerSpec([]byte("openapi: '3.0.0'\ninfo:\n  title: Test"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/swagger/spec", nil)

	SwaggerSpec(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi")
}

func TestSwaggerSpec_NotLoaded(t *testing.T) {
	SetSwaggerSpec(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/swagger/spec", nil)

	SwaggerSpec(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
