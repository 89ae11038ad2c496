package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/SscSPs/invoice_management_app/internal/handlers"
	"github.com/SscSPs/invoice_management_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mocks ---

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) ParseAccessToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

// MockUserService only implements what the routes under test reach; the
// embedded interface panics on anything else.
type MockUserService struct {
	portssvc.UserSvcFacade
	mock.Mock
}

func (m *MockUserService) ResolveIdentity(ctx context.Context, userID string) (domain.Identity, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Identity), args.Error(1)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, caller domain.Identity, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, caller, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, caller domain.Identity, params dto.ListInvoicesParams) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, caller, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), next, args.Error(2)
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, caller domain.Identity, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, caller domain.Identity, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, caller, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) UpdateInvoiceStatus(ctx context.Context, caller domain.Identity, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	args := m.Called(ctx, caller, invoiceID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, caller domain.Identity, invoiceID string) error {
	return m.Called(ctx, caller, invoiceID).Error(0)
}

func (m *MockInvoiceService) RenderInvoicePDF(ctx context.Context, caller domain.Identity, invoiceID string) ([]byte, string, error) {
	args := m.Called(ctx, caller, invoiceID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

type MockNumberingService struct {
	mock.Mock
}

func (m *MockNumberingService) AllocateNumber(ctx context.Context, tx pgx.Tx, ownerID string, at time.Time) (string, int64, error) {
	args := m.Called(ctx, tx, ownerID, at)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockNumberingService) SkipNumber(ctx context.Context, ownerID string, at time.Time, taken int64) error {
	return m.Called(ctx, ownerID, at, taken).Error(0)
}

func (m *MockNumberingService) PeekNextNumber(ctx context.Context, ownerID string, at time.Time) (string, error) {
	args := m.Called(ctx, ownerID, at)
	return args.String(0), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetAnalytics(ctx context.Context, caller domain.Identity, period domain.AnalyticsPeriod) (*domain.Analytics, error) {
	args := m.Called(ctx, caller, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analytics), args.Error(1)
}

// --- Suite ---

const (
	userToken     = "user-token"
	adminToken    = "admin-token"
	disabledToken = "disabled-token"
)

var (
	userIdentity  = domain.Identity{UserID: "user-1", Name: "Awa", Email: "awa@example.com", Role: domain.RoleUser}
	adminIdentity = domain.Identity{UserID: "admin-1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin}
)

type RoutesTestSuite struct {
	suite.Suite
	router    *gin.Engine
	tokens    *MockTokenService
	users     *MockUserService
	invoices  *MockInvoiceService
	numbering *MockNumberingService
	analytics *MockAnalyticsService
}

func (s *RoutesTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.tokens = new(MockTokenService)
	s.users = new(MockUserService)
	s.invoices = new(MockInvoiceService)
	s.numbering = new(MockNumberingService)
	s.analytics = new(MockAnalyticsService)

	s.tokens.On("ParseAccessToken", mock.Anything, userToken).Return(userIdentity.UserID, nil).Maybe()
	s.tokens.On("ParseAccessToken", mock.Anything, adminToken).Return(adminIdentity.UserID, nil).Maybe()
	s.tokens.On("ParseAccessToken", mock.Anything, disabledToken).Return("user-2", nil).Maybe()
	s.tokens.On("ParseAccessToken", mock.Anything, mock.Anything).Return("", apperrors.ErrUnauthorized).Maybe()
	s.users.On("ResolveIdentity", mock.Anything, userIdentity.UserID).Return(userIdentity, nil).Maybe()
	s.users.On("ResolveIdentity", mock.Anything, adminIdentity.UserID).Return(adminIdentity, nil).Maybe()
	s.users.On("ResolveIdentity", mock.Anything, "user-2").Return(domain.Identity{}, apperrors.ErrAccountDisabled).Maybe()

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		User:      s.users,
		Token:     s.tokens,
		Invoice:   s.invoices,
		Numbering: s.numbering,
		Analytics: s.analytics,
	}, nil)
}

func (s *RoutesTestSuite) TearDownTest() {
	s.invoices.AssertExpectations(s.T())
	s.numbering.AssertExpectations(s.T())
	s.analytics.AssertExpectations(s.T())
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}

func (s *RoutesTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			s.Require().NoError(json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RoutesTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sampleInvoice() *domain.Invoice {
	clientID := "client-1"
	return &domain.Invoice{
		InvoiceID:     "inv-1",
		InvoiceNumber: "FAC-2024-0001",
		OwnerID:       userIdentity.UserID,
		ClientID:      &clientID,
		Items: []domain.LineItem{{
			ProductID:   "prod-1",
			ProductName: "Consulting",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(50000),
			Total:       decimal.NewFromInt(100000),
		}},
		Total:     decimal.NewFromInt(118000),
		IssueDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:    domain.StatusDraft,
		Client:    &domain.Client{ClientID: clientID, Name: "Sahel SARL"},
	}
}

// --- Tests ---

func (s *RoutesTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RoutesTestSuite) TestProtectedRoute_MissingToken() {
	w := s.do(http.MethodGet, "/api/v1/invoices", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(false, s.decode(w)["success"])
}

func (s *RoutesTestSuite) TestProtectedRoute_InvalidToken() {
	w := s.do(http.MethodGet, "/api/v1/invoices", "garbage", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RoutesTestSuite) TestProtectedRoute_DisabledAccount() {
	w := s.do(http.MethodGet, "/api/v1/invoices", disabledToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Account is disabled", s.decode(w)["error"])
}

func (s *RoutesTestSuite) TestMe() {
	w := s.do(http.MethodGet, "/api/v1/auth/me", userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	data := s.decode(w)["data"].(map[string]any)
	s.Equal(userIdentity.UserID, data["id"])
	s.Equal(string(domain.RoleUser), data["role"])
}

func (s *RoutesTestSuite) TestLogin_InvalidCredentials() {
	s.users.On("AuthenticateUser", mock.Anything, "awa@example.com", "wrong").
		Return(nil, apperrors.NewUnauthorizedError("Invalid email or password")).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "awa@example.com", Password: "wrong"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid email or password", s.decode(w)["error"])
}

func (s *RoutesTestSuite) TestCreateInvoice_Created() {
	s.invoices.On("CreateInvoice", mock.Anything, userIdentity, mock.AnythingOfType("dto.CreateInvoiceRequest")).
		Return(sampleInvoice(), nil).Once()

	w := s.do(http.MethodPost, "/api/v1/invoices", userToken, map[string]any{
		"clientId": "client-1",
		"items":    []map[string]any{{"productId": "prod-1", "quantity": 2, "unitPrice": 50000, "total": 100000}},
		"total":    118000,
	})

	s.Require().Equal(http.StatusCreated, w.Code)
	body := s.decode(w)
	s.Equal(true, body["success"])
	data := body["data"].(map[string]any)
	s.Equal("FAC-2024-0001", data["invoiceNumber"])
	s.Equal("Sahel SARL", data["client"].(map[string]any)["name"])
}

func (s *RoutesTestSuite) TestCreateInvoice_ClientNotFound() {
	s.invoices.On("CreateInvoice", mock.Anything, userIdentity, mock.Anything).
		Return(nil, apperrors.NewNotFoundError("Client not found")).Once()

	w := s.do(http.MethodPost, "/api/v1/invoices", userToken, map[string]any{"clientId": "ghost", "items": []any{}})
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Client not found", s.decode(w)["error"])
}

func (s *RoutesTestSuite) TestCreateInvoice_ValidationError() {
	s.invoices.On("CreateInvoice", mock.Anything, userIdentity, mock.Anything).
		Return(nil, apperrors.NewBadRequestError("At least one item is required")).Once()

	w := s.do(http.MethodPost, "/api/v1/invoices", userToken, map[string]any{"clientId": "client-1"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("At least one item is required", s.decode(w)["error"])
}

func (s *RoutesTestSuite) TestCreateInvoice_DuplicateHidesStorageDetail() {
	s.invoices.On("CreateInvoice", mock.Anything, userIdentity, mock.Anything).
		Return(nil, fmt.Errorf("%w: invoice (invoices_invoice_number_key)", apperrors.ErrDuplicate)).Once()

	w := s.do(http.MethodPost, "/api/v1/invoices", userToken, map[string]any{"clientId": "client-1"})
	s.Equal(http.StatusConflict, w.Code)
	msg, _ := s.decode(w)["error"].(string)
	s.Equal("A record with the same unique value already exists", msg)
	s.NotContains(msg, "invoices_invoice_number_key")
}

func (s *RoutesTestSuite) TestCreateInvoice_ConflictKeepsServiceMessage() {
	s.invoices.On("CreateInvoice", mock.Anything, userIdentity, mock.Anything).
		Return(nil, apperrors.NewConflictError("No free invoice number could be allocated, retry the request")).Once()

	w := s.do(http.MethodPost, "/api/v1/invoices", userToken, map[string]any{"clientId": "client-1"})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("No free invoice number could be allocated, retry the request", s.decode(w)["error"])
}

func (s *RoutesTestSuite) TestCreateInvoice_MalformedBody() {
	w := s.do(http.MethodPost, "/api/v1/invoices", userToken, "{not json")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RoutesTestSuite) TestCreateInvoice_ConfirmationFailed() {
	s.invoices.On("CreateInvoice", mock.Anything, userIdentity, mock.Anything).
		Return(nil, apperrors.ErrConfirmationFailed).Once()

	w := s.do(http.MethodPost, "/api/v1/invoices", userToken, map[string]any{"clientId": "client-1"})
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Contains(s.decode(w)["error"], "saved")
}

func (s *RoutesTestSuite) TestCreateInvoice_InternalErrorIsMasked() {
	s.invoices.On("CreateInvoice", mock.Anything, userIdentity, mock.Anything).
		Return(nil, context.DeadlineExceeded).Once()

	w := s.do(http.MethodPost, "/api/v1/invoices", userToken, map[string]any{"clientId": "client-1"})
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Failed to create invoice", s.decode(w)["error"])
}

func (s *RoutesTestSuite) TestListInvoices_PassesFilterAndToken() {
	next := "cursor-2"
	status := domain.StatusPaid
	s.invoices.On("ListInvoices", mock.Anything, userIdentity, mock.MatchedBy(func(p dto.ListInvoicesParams) bool {
		return p.Limit == 10 && p.Status != nil && *p.Status == status
	})).Return([]domain.Invoice{*sampleInvoice()}, &next, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/invoices?status=paid&limit=10", userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	data := s.decode(w)["data"].(map[string]any)
	s.Len(data["invoices"], 1)
	s.Equal(next, data["nextToken"])
}

func (s *RoutesTestSuite) TestGetInvoice_NotFound() {
	s.invoices.On("GetInvoice", mock.Anything, userIdentity, "other").Return(nil, apperrors.ErrNotFound).Once()

	w := s.do(http.MethodGet, "/api/v1/invoices/other", userToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RoutesTestSuite) TestUpdateInvoiceStatus() {
	paid := sampleInvoice()
	paid.Status = domain.StatusPaid
	s.invoices.On("UpdateInvoiceStatus", mock.Anything, userIdentity, "inv-1", domain.StatusPaid).Return(paid, nil).Once()

	w := s.do(http.MethodPatch, "/api/v1/invoices/inv-1/status", userToken, map[string]any{"status": "paid"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("paid", s.decode(w)["data"].(map[string]any)["status"])
}

func (s *RoutesTestSuite) TestDeleteInvoice() {
	s.invoices.On("DeleteInvoice", mock.Anything, userIdentity, "inv-1").Return(nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/invoices/inv-1", userToken, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Invoice deleted", s.decode(w)["message"])
}

func (s *RoutesTestSuite) TestDownloadInvoicePDF() {
	pdf := []byte("%PDF-1.4 fake")
	s.invoices.On("RenderInvoicePDF", mock.Anything, userIdentity, "inv-1").Return(pdf, "FAC-2024-0001.pdf", nil).Once()

	w := s.do(http.MethodGet, "/api/v1/invoices/inv-1/pdf", userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Equal("attachment; filename=FAC-2024-0001.pdf", w.Header().Get("Content-Disposition"))
	s.Equal(pdf, w.Body.Bytes())
}

func (s *RoutesTestSuite) TestNextNumber() {
	s.numbering.On("PeekNextNumber", mock.Anything, userIdentity.UserID, mock.AnythingOfType("time.Time")).
		Return("FAC-2024-0004", nil).Once()

	w := s.do(http.MethodGet, "/api/v1/invoices/next-number", userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("FAC-2024-0004", s.decode(w)["data"].(map[string]any)["invoiceNumber"])
}

func (s *RoutesTestSuite) TestAdminRoutes_ForbiddenForUsers() {
	w := s.do(http.MethodGet, "/api/v1/analytics", userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/settings", userToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RoutesTestSuite) TestAnalytics_DefaultsToMonth() {
	s.analytics.On("GetAnalytics", mock.Anything, adminIdentity, domain.AnalyticsPeriod("month")).
		Return(&domain.Analytics{TotalSales: 3}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/analytics", adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RoutesTestSuite) TestAnalytics_RejectsUnknownPeriod() {
	w := s.do(http.MethodGet, "/api/v1/analytics?period=decade", adminToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}
