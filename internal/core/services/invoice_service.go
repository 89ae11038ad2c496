package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/SscSPs/invoice_management_app/internal/middleware"
	"github.com/SscSPs/invoice_management_app/internal/utils/pagination"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultInvoicePageSize = 50
	maxInvoicePageSize     = 200

	// defaultNumberConflictRetries bounds how often creation is retried after
	// the invoice number unique index rejects an insert.
	defaultNumberConflictRetries = 3
)

// invoiceService implements invoice creation, reads, updates and rendering.
type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryWithTx
	clientRepo   portsrepo.ClientReader
	productRepo  portsrepo.ProductReader
	userRepo     portsrepo.UserReader
	settingsRepo portsrepo.SettingsRepository
	numbering    portssvc.NumberingSvc

	renderer      portssvc.DocumentRenderer
	currencyLabel string
	maxRetries    uint64
	retryInterval time.Duration
	validate      *validator.Validate
}

// InvoiceServiceOption configures optional invoice service collaborators.
type InvoiceServiceOption func(*invoiceService)

// WithDocumentRenderer sets the PDF renderer.
func WithDocumentRenderer(r portssvc.DocumentRenderer) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.renderer = r
	}
}

// WithCurrencyLabel sets the currency label printed on documents.
func WithCurrencyLabel(label string) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.currencyLabel = label
	}
}

// WithNumberConflictRetries sets how many times a number collision is retried.
func WithNumberConflictRetries(n uint64, initialInterval time.Duration) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.maxRetries = n
		s.retryInterval = initialInterval
	}
}

// WithInvoiceClock replaces the clock used for creation and update times.
func WithInvoiceClock(now func() time.Time) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.Now = now
	}
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	clientRepo portsrepo.ClientReader,
	productRepo portsrepo.ProductReader,
	userRepo portsrepo.UserReader,
	settingsRepo portsrepo.SettingsRepository,
	numbering portssvc.NumberingSvc,
	opts ...InvoiceServiceOption,
) portssvc.InvoiceSvcFacade {
	s := &invoiceService{
		BaseService:   newBaseService(),
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		settingsRepo:  settingsRepo,
		numbering:     numbering,
		currencyLabel: "Fcfa",
		maxRetries:    defaultNumberConflictRetries,
		retryInterval: 25 * time.Millisecond,
		validate:      newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure invoiceService implements the portssvc.InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// requireClient checks that clientID is present and names an existing client.
func (s *invoiceService) requireClient(ctx context.Context, clientID string) (string, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return "", fmt.Errorf("%w: clientId is required", apperrors.ErrValidation)
	}
	if _, err := s.clientRepo.FindClientByID(ctx, clientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewNotFoundError("Client not found")
		}
		return "", fmt.Errorf("failed to look up client: %w", err)
	}
	return clientID, nil
}

// buildLineItems resolves every referenced product, snapshots missing names
// and validates the resulting lines. Nothing is written here.
func (s *invoiceService) buildLineItems(ctx context.Context, reqs []dto.LineItemRequest) ([]domain.LineItem, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", apperrors.ErrValidation)
	}

	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if id := strings.TrimSpace(r.ProductID); id != "" {
			ids = append(ids, id)
		}
	}
	products, err := s.productRepo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up products: %w", err)
	}

	items := make([]domain.LineItem, len(reqs))
	for i, r := range reqs {
		productID := strings.TrimSpace(r.ProductID)
		product, found := products[productID]
		if !found {
			label := r.ProductName
			if label == "" {
				label = productID
			}
			return nil, fmt.Errorf("%w: product not found: %s", apperrors.ErrValidation, label)
		}
		name := r.ProductName
		if name == "" {
			name = product.Name
		}
		items[i] = domain.LineItem{
			ProductID:   productID,
			ProductName: name,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Total:       r.Total,
		}
	}

	for i := range items {
		if err := s.validate.Struct(items[i]); err != nil {
			return nil, validationError(fmt.Sprintf("items[%d].", i), err)
		}
	}
	return items, nil
}

func validateStatus(status domain.InvoiceStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, status)
	}
	return nil
}

// CreateInvoice runs the preconditions in order, then allocates a number and
// inserts the invoice in a single transaction. A number collision rolls the
// transaction back and retries with a fresh number.
func (s *invoiceService) CreateInvoice(ctx context.Context, caller domain.Identity, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return nil, err
	}

	clientID, err := s.requireClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	items, err := s.buildLineItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	status := domain.StatusDraft
	if req.Status != nil {
		if err := validateStatus(*req.Status); err != nil {
			return nil, err
		}
		status = *req.Status
	}

	now := s.Now()
	issueDate := now
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	draft := domain.Invoice{
		OwnerID:    ownerID,
		ClientID:   &clientID,
		Items:      items,
		Subtotal:   req.Subtotal,
		TaxRate:    req.TaxRate,
		TaxAmount:  req.TaxAmount,
		Total:      req.Total,
		IssueDate:  issueDate,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
		Status:     status,
		Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	var created domain.Invoice
	attempt := 0
	operation := func() error {
		attempt++
		inv := draft
		inv.InvoiceID = uuid.NewString()
		n, err := s.persistWithNumber(ctx, &inv)
		if err == nil {
			created = inv
			return nil
		}
		if errors.Is(err, apperrors.ErrDuplicate) && n > 0 && ctx.Err() == nil {
			logger.Warn("Invoice number collision, retrying", slog.Int("attempt", attempt),
				slog.String("invoice_number", inv.InvoiceNumber), slog.String("error", err.Error()))
			// The rollback released n; consume it so the next attempt draws past it.
			if skipErr := s.numbering.SkipNumber(ctx, inv.OwnerID, inv.CreatedAt, n); skipErr != nil {
				return backoff.Permanent(skipErr)
			}
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryInterval
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, s.maxRetries), ctx)); err != nil {
		logger.Error("Failed to create invoice", slog.String("error", err.Error()), slog.Int("attempts", attempt))
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("No free invoice number could be allocated, retry the request")
		}
		return nil, err
	}

	logger.Info("Invoice created", slog.String("invoice_id", created.InvoiceID), slog.String("invoice_number", created.InvoiceNumber))

	confirmed, err := s.invoiceRepo.FindInvoiceByID(ctx, created.InvoiceID, nil)
	if err != nil {
		logger.Error("Invoice committed but could not be read back",
			slog.String("invoice_id", created.InvoiceID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: invoice %s (%s) was saved; fetch it again instead of re-submitting",
			apperrors.ErrConfirmationFailed, created.InvoiceNumber, created.InvoiceID)
	}
	return confirmed, nil
}

// persistWithNumber is one unit of work: allocate, insert, commit. Any
// failure before commit rolls back, the counter increment included. The raw
// counter value drawn is returned even on failure, zero if none was drawn.
func (s *invoiceService) persistWithNumber(ctx context.Context, inv *domain.Invoice) (int64, error) {
	tx, err := s.invoiceRepo.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer s.invoiceRepo.Rollback(ctx, tx)

	number, n, err := s.numbering.AllocateNumber(ctx, tx, inv.OwnerID, inv.CreatedAt)
	if err != nil {
		return 0, err
	}
	inv.InvoiceNumber = number

	if err := s.invoiceRepo.SaveInvoiceInTx(ctx, tx, *inv); err != nil {
		return n, err
	}
	if err := ctx.Err(); err != nil {
		return n, err
	}
	return n, s.invoiceRepo.Commit(ctx, tx)
}

func (s *invoiceService) GetInvoice(ctx context.Context, caller domain.Identity, invoiceID string) (*domain.Invoice, error) {
	scope, err := s.Authorizer.ReadScope(caller)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID, scope)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, caller domain.Identity, params dto.ListInvoicesParams) ([]domain.Invoice, *string, error) {
	scope, err := s.Authorizer.ReadScope(caller)
	if err != nil {
		return nil, nil, err
	}

	filter := domain.InvoiceFilter{
		OwnerID: scope,
		Limit:   pagination.ClampLimit(params.Limit, defaultInvoicePageSize, maxInvoicePageSize),
	}
	if params.Status != nil && *params.Status != "" {
		if err := validateStatus(*params.Status); err != nil {
			return nil, nil, err
		}
		filter.Status = params.Status
	}
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeInvoiceCursor(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		filter.After = &cursor
	}

	pageSize := filter.Limit
	filter.Limit = pageSize + 1
	invoices, err := s.invoiceRepo.ListInvoices(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices")
		return nil, nil, err
	}

	var next *string
	if len(invoices) > pageSize {
		invoices = invoices[:pageSize]
		last := invoices[len(invoices)-1]
		token := pagination.EncodeInvoiceCursor(domain.InvoiceCursor{CreatedAt: last.CreatedAt, InvoiceID: last.InvoiceID})
		next = &token
	}
	return invoices, next, nil
}

// UpdateInvoice applies a partial update to an invoice the caller owns. The
// invoice number is never changed.
func (s *invoiceService) UpdateInvoice(ctx context.Context, caller domain.Identity, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return nil, err
	}
	if (req.ClearDueDate && req.DueDate != nil) || (req.ClearNotes && req.Notes != nil) {
		return nil, fmt.Errorf("%w: a field cannot be set and cleared in the same update", apperrors.ErrValidation)
	}
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID, &ownerID)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		clientID, err := s.requireClient(ctx, *req.ClientID)
		if err != nil {
			return nil, err
		}
		inv.ClientID = &clientID
	}
	if req.Items != nil {
		items, err := s.buildLineItems(ctx, *req.Items)
		if err != nil {
			return nil, err
		}
		inv.Items = items
	}
	if req.Status != nil {
		if err := validateStatus(*req.Status); err != nil {
			return nil, err
		}
		inv.Status = *req.Status
	}
	if req.Subtotal != nil {
		inv.Subtotal = *req.Subtotal
	}
	if req.TaxRate != nil {
		inv.TaxRate = *req.TaxRate
	}
	if req.TaxAmount != nil {
		inv.TaxAmount = *req.TaxAmount
	}
	if req.Total != nil {
		inv.Total = *req.Total
	}
	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.ClearDueDate {
		inv.DueDate = nil
	}
	if req.Notes != nil {
		inv.Notes = req.Notes
	}
	if req.ClearNotes {
		inv.Notes = nil
	}
	inv.UpdatedAt = s.Now()

	if err := s.invoiceRepo.UpdateInvoice(ctx, *inv); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID, &ownerID)
}

// UpdateInvoiceStatus sets any recognised status; unrecognised ones are
// rejected before the stored invoice is touched.
func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, caller domain.Identity, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return nil, err
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, ownerID, status); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Invoice status updated", slog.String("invoice_id", invoiceID), slog.String("status", string(status)))
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID, &ownerID)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, caller domain.Identity, invoiceID string) error {
	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return err
	}
	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID, ownerID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID))
	return nil
}

// RenderInvoicePDF lays out a readable invoice with its creator, client and
// the settings footer.
func (s *invoiceService) RenderInvoicePDF(ctx context.Context, caller domain.Identity, invoiceID string) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", apperrors.NewInternalServerError("PDF rendering is not configured")
	}
	inv, err := s.GetInvoice(ctx, caller, invoiceID)
	if err != nil {
		return nil, "", err
	}

	doc := domain.InvoiceDocument{Invoice: *inv, CurrencyLabel: s.currencyLabel}
	if issuer, err := s.userRepo.FindUserByID(ctx, inv.OwnerID); err == nil {
		doc.IssuerName = issuer.Name
		doc.IssuerEmail = issuer.Email
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to load invoice creator: %w", err)
	}
	settings, err := s.settingsRepo.GetOrCreateSettings(ctx, domain.DefaultSettings(s.Now()))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load settings: %w", err)
	}
	doc.FooterText = settings.FooterText

	pdf, err := s.renderer.RenderInvoice(ctx, doc)
	if err != nil {
		s.LogError(ctx, err, "Failed to render invoice PDF", slog.String("invoice_id", invoiceID))
		return nil, "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return pdf, inv.InvoiceNumber + ".pdf", nil
}
