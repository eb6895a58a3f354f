package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"agent-spend-governor/internal/core/domain"
	"agent-spend-governor/internal/core/ports"
	"agent-spend-governor/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHMACAuth_MissingHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agentRepo := mocks.NewMockAgentRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	log := zerolog.Nop()

	router := gin.New()
	router.POST("/test", HMACAuth(agentRepo, encSvc, sigSvc, nonceStore, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHMACAuth_ExpiredTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agentRepo := mocks.NewMockAgentRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	log := zerolog.Nop()

	router := gin.New()
	router.POST("/test", HMACAuth(agentRepo, encSvc, sigSvc, nonceStore, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Header.Set(HeaderAccessKey, "ak_test")
	req.Header.Set(HeaderSignature, "sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(time.Now().Add(-120*time.Second).Unix(), 10))
	req.Header.Set(HeaderNonce, "nonce123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHMACAuth_InvalidAccessKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agentRepo := mocks.NewMockAgentRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	log := zerolog.Nop()

	agentRepo.EXPECT().GetByAccessKey(gomock.Any(), "invalid_key").Return(nil, nil)

	router := gin.New()
	router.POST("/test", HMACAuth(agentRepo, encSvc, sigSvc, nonceStore, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Header.Set(HeaderAccessKey, "invalid_key")
	req.Header.Set(HeaderSignature, "sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(time.Now().Unix(), 10))
	req.Header.Set(HeaderNonce, "nonce123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHMACAuth_ReusedNonce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agentRepo := mocks.NewMockAgentRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	log := zerolog.Nop()

	agentID := uuid.New()
	agent := &domain.Agent{ID: agentID, AccessKey: "ak_valid", SecretKeyEnc: "enc_secret"}

	agentRepo.EXPECT().GetByAccessKey(gomock.Any(), "ak_valid").Return(agent, nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), agentID.String(), "nonce-dup", nonceTTL).Return(false, nil)

	router := gin.New()
	router.POST("/test", HMACAuth(agentRepo, encSvc, sigSvc, nonceStore, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Header.Set(HeaderAccessKey, "ak_valid")
	req.Header.Set(HeaderSignature, "sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(time.Now().Unix(), 10))
	req.Header.Set(HeaderNonce, "nonce-dup")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHMACAuth_InvalidSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agentRepo := mocks.NewMockAgentRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	log := zerolog.Nop()

	agentID := uuid.New()
	agent := &domain.Agent{ID: agentID, AccessKey: "ak_valid", SecretKeyEnc: "enc_secret"}
	nowTs := time.Now().Unix()
	body := `{"amount":120}`

	agentRepo.EXPECT().GetByAccessKey(gomock.Any(), "ak_valid").Return(agent, nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), agentID.String(), "nonce-ok", nonceTTL).Return(true, nil)
	encSvc.EXPECT().Decrypt("enc_secret").Return("raw_secret", nil)
	sigSvc.EXPECT().BuildCanonicalString("POST", "/test", nowTs, "nonce-ok", body).Return("canonical")
	sigSvc.EXPECT().Verify("raw_secret", "canonical", "wrong_sig").Return(false)

	router := gin.New()
	router.POST("/test", HMACAuth(agentRepo, encSvc, sigSvc, nonceStore, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	req.Header.Set(HeaderAccessKey, "ak_valid")
	req.Header.Set(HeaderSignature, "wrong_sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(nowTs, 10))
	req.Header.Set(HeaderNonce, "nonce-ok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHMACAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agentRepo := mocks.NewMockAgentRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	log := zerolog.Nop()

	agentID := uuid.New()
	agent := &domain.Agent{
		ID:           agentID,
		AccessKey:    "ak_valid",
		SecretKeyEnc: "enc_secret",
	}

	nowTs := time.Now().Unix()
	body := `{"amount":120}`

	agentRepo.EXPECT().GetByAccessKey(gomock.Any(), "ak_valid").Return(agent, nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), agentID.String(), "nonce-ok", nonceTTL).Return(true, nil)
	encSvc.EXPECT().Decrypt("enc_secret").Return("raw_secret", nil)
	sigSvc.EXPECT().BuildCanonicalString("POST", "/test", nowTs, "nonce-ok", body).Return("canonical")
	sigSvc.EXPECT().Verify("raw_secret", "canonical", "valid_sig").Return(true)

	var capturedID uuid.UUID
	var capturedOwner bool
	router := gin.New()
	router.POST("/test", HMACAuth(agentRepo, encSvc, sigSvc, nonceStore, log), func(c *gin.Context) {
		id, _ := c.Get(CtxAgentID)
		capturedID = id.(uuid.UUID)
		capturedOwner = c.GetBool(CtxIsOwner)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	req.Header.Set(HeaderAccessKey, "ak_valid")
	req.Header.Set(HeaderSignature, "valid_sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(nowTs, 10))
	req.Header.Set(HeaderNonce, "nonce-ok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, agentID, capturedID)
	assert.False(t, capturedOwner, "HMAC callers carry agent privilege, not owner")
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	log := zerolog.Nop()

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	log := zerolog.Nop()

	tokenSvc.EXPECT().Validate("bad_token").Return(nil, assert.AnError)

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	log := zerolog.Nop()

	agentID := uuid.New()
	tokenSvc.EXPECT().Validate("good_token").Return(&ports.TokenClaims{
		AgentID:   agentID,
		AccessKey: "ak_test",
	}, nil)

	var capturedID uuid.UUID
	var capturedOwner bool
	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, log), func(c *gin.Context) {
		id, _ := c.Get(CtxAgentID)
		capturedID = id.(uuid.UUID)
		capturedOwner = c.GetBool(CtxIsOwner)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, agentID, capturedID)
	assert.True(t, capturedOwner, "JWT callers carry owner privilege")
}

func TestRecovery_PanicRecovered(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/panic", func(c *gin.Context) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_001", resp["error_code"])
}
