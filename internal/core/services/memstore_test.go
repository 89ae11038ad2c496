package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// memStore is an in-memory stand-in for the PostgreSQL repositories. Counter
// increments hold a per-scope lock until the transaction ends, like the row
// lock taken by the upsert.
type memStore struct {
	mu         sync.Mutex
	scopeLocks map[string]*sync.Mutex

	users    map[string]domain.User
	clients  map[string]domain.Client
	products map[string]domain.Product
	invoices map[string]domain.Invoice
	counters map[string]int64
	settings *domain.Settings

	// duplicateSaves makes the next n invoice inserts fail as number collisions.
	duplicateSaves int
	// failInvoiceReads makes every invoice lookup fail.
	failInvoiceReads bool

	saveCalls      int
	incrementCalls int
	advanceCalls   int
}

var (
	_ portsrepo.UserRepositoryFacade    = (*memStore)(nil)
	_ portsrepo.ClientRepositoryFacade  = (*memStore)(nil)
	_ portsrepo.ProductRepositoryFacade = (*memStore)(nil)
	_ portsrepo.InvoiceRepositoryWithTx = (*memStore)(nil)
	_ portsrepo.CounterRepository       = (*memStore)(nil)
	_ portsrepo.SettingsRepository      = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		scopeLocks: map[string]*sync.Mutex{},
		users:      map[string]domain.User{},
		clients:    map[string]domain.Client{},
		products:   map[string]domain.Product{},
		invoices:   map[string]domain.Invoice{},
		counters:   map[string]int64{},
	}
}

type memTx struct {
	pgx.Tx
	held     []*sync.Mutex
	scopes   map[string]bool
	counters map[string]int64
	invoices []domain.Invoice
	done     bool
}

func asMemTx(tx pgx.Tx) *memTx {
	return tx.(*memTx)
}

// --- transactions ---

func (s *memStore) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memTx{scopes: map[string]bool{}, counters: map[string]int64{}}, nil
}

func (s *memStore) Commit(ctx context.Context, tx pgx.Tx) error {
	t := asMemTx(tx)
	if t.done {
		return pgx.ErrTxClosed
	}
	s.mu.Lock()
	for _, inv := range t.invoices {
		for _, existing := range s.invoices {
			if existing.InvoiceNumber == inv.InvoiceNumber {
				s.mu.Unlock()
				s.release(t)
				return apperrors.ErrDuplicate
			}
		}
	}
	for scope, n := range t.counters {
		s.counters[scope] = n
	}
	for _, inv := range t.invoices {
		s.invoices[inv.InvoiceID] = inv
	}
	s.mu.Unlock()
	s.release(t)
	return nil
}

func (s *memStore) Rollback(ctx context.Context, tx pgx.Tx) error {
	t := asMemTx(tx)
	if t.done {
		return nil
	}
	s.release(t)
	return nil
}

func (s *memStore) release(t *memTx) {
	t.done = true
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

// --- counters ---

func (s *memStore) IncrementInTx(ctx context.Context, tx pgx.Tx, scope string) (int64, error) {
	t := asMemTx(tx)

	s.mu.Lock()
	s.incrementCalls++
	lock := s.scopeLock(scope)
	s.mu.Unlock()

	if !t.scopes[scope] {
		lock.Lock()
		t.held = append(t.held, lock)
		t.scopes[scope] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, pending := t.counters[scope]
	if !pending {
		n = s.counters[scope]
	}
	n++
	t.counters[scope] = n
	return n, nil
}

// scopeLock must be called with mu held.
func (s *memStore) scopeLock(scope string) *sync.Mutex {
	lock, ok := s.scopeLocks[scope]
	if !ok {
		lock = &sync.Mutex{}
		s.scopeLocks[scope] = lock
	}
	return lock
}

func (s *memStore) AdvancePast(ctx context.Context, scope string, taken int64) error {
	s.mu.Lock()
	s.advanceCalls++
	lock := s.scopeLock(scope)
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters[scope] < taken {
		s.counters[scope] = taken
	}
	return nil
}

func (s *memStore) FindCounter(ctx context.Context, scope string) (*domain.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &domain.Counter{Scope: scope, LastNumber: s.counters[scope]}, nil
}

// --- users ---

func (s *memStore) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []domain.User{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) SaveUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return apperrors.ErrDuplicate
		}
	}
	s.users[user.UserID] = user
	return nil
}

func (s *memStore) UpdateUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.UserID]; !ok {
		return apperrors.ErrNotFound
	}
	s.users[user.UserID] = user
	return nil
}

func (s *memStore) DeleteUserCascade(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return apperrors.ErrNotFound
	}
	for id, inv := range s.invoices {
		if inv.OwnerID == userID {
			delete(s.invoices, id)
		}
	}
	for id, c := range s.clients {
		if c.OwnerID == userID {
			delete(s.clients, id)
		}
	}
	for id, p := range s.products {
		if p.OwnerID == userID {
			delete(s.products, id)
		}
	}
	delete(s.users, userID)
	return nil
}

// --- clients ---

func (s *memStore) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *memStore) ListClients(ctx context.Context, ownerID *string) ([]domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Client{}
	for _, c := range s.clients {
		if ownerID == nil || c.OwnerID == *ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) SaveClient(ctx context.Context, client domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ClientID] = client
	return nil
}

func (s *memStore) UpdateClient(ctx context.Context, client domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.clients[client.ClientID]
	if !ok || existing.OwnerID != client.OwnerID {
		return apperrors.ErrNotFound
	}
	s.clients[client.ClientID] = client
	return nil
}

func (s *memStore) DeleteClient(ctx context.Context, clientID string, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.clients[clientID]
	if !ok || existing.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}
	delete(s.clients, clientID)
	for id, inv := range s.invoices {
		if inv.ClientID != nil && *inv.ClientID == clientID {
			inv.ClientID = nil
			s.invoices[id] = inv
		}
	}
	return nil
}

// --- products ---

func (s *memStore) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]domain.Product{}
	for _, id := range productIDs {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *memStore) ListProducts(ctx context.Context, ownerID *string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Product{}
	for _, p := range s.products {
		if ownerID == nil || p.OwnerID == *ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) SaveProduct(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ProductID] = product
	return nil
}

func (s *memStore) UpdateProduct(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[product.ProductID]
	if !ok || existing.OwnerID != product.OwnerID {
		return apperrors.ErrNotFound
	}
	s.products[product.ProductID] = product
	return nil
}

func (s *memStore) DeleteProduct(ctx context.Context, productID string, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[productID]
	if !ok || existing.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}
	delete(s.products, productID)
	return nil
}

// --- invoices ---

var errReadUnavailable = errors.New("read replica unavailable")

func (s *memStore) withClient(inv domain.Invoice) domain.Invoice {
	inv.Client = nil
	if inv.ClientID != nil {
		if c, ok := s.clients[*inv.ClientID]; ok {
			inv.Client = &c
		}
	}
	inv.Items = append([]domain.LineItem(nil), inv.Items...)
	return inv
}

func (s *memStore) FindInvoiceByID(ctx context.Context, invoiceID string, ownerID *string) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInvoiceReads {
		return nil, errReadUnavailable
	}
	inv, ok := s.invoices[invoiceID]
	if !ok || (ownerID != nil && inv.OwnerID != *ownerID) {
		return nil, apperrors.ErrNotFound
	}
	joined := s.withClient(inv)
	return &joined, nil
}

func (s *memStore) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Invoice{}
	for _, inv := range s.invoices {
		if filter.OwnerID != nil && inv.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		if filter.After != nil {
			older := inv.CreatedAt.Before(filter.After.CreatedAt) ||
				(inv.CreatedAt.Equal(filter.After.CreatedAt) && inv.InvoiceID < filter.After.InvoiceID)
			if !older {
				continue
			}
		}
		out = append(out, s.withClient(inv))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].InvoiceID > out[j].InvoiceID
	})
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memStore) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	t := asMemTx(tx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.duplicateSaves > 0 {
		s.duplicateSaves--
		return apperrors.ErrDuplicate
	}
	for _, existing := range s.invoices {
		if existing.InvoiceNumber == invoice.InvoiceNumber {
			return apperrors.ErrDuplicate
		}
	}
	t.invoices = append(t.invoices, invoice)
	return nil
}

func (s *memStore) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.invoices[invoice.InvoiceID]
	if !ok || existing.OwnerID != invoice.OwnerID {
		return apperrors.ErrNotFound
	}
	invoice.InvoiceNumber = existing.InvoiceNumber
	invoice.Client = nil
	s.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (s *memStore) UpdateInvoiceStatus(ctx context.Context, invoiceID string, ownerID string, status domain.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.invoices[invoiceID]
	if !ok || existing.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}
	existing.Status = status
	s.invoices[invoiceID] = existing
	return nil
}

func (s *memStore) DeleteInvoice(ctx context.Context, invoiceID string, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.invoices[invoiceID]
	if !ok || existing.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}
	delete(s.invoices, invoiceID)
	return nil
}

// --- settings ---

func (s *memStore) GetOrCreateSettings(ctx context.Context, defaults domain.Settings) (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		d := defaults
		s.settings = &d
	}
	out := *s.settings
	return &out, nil
}

func (s *memStore) UpsertSettings(ctx context.Context, settings domain.Settings) (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := settings
	s.settings = &stored
	out := stored
	return &out, nil
}

// invoiceCount returns how many committed invoices belong to ownerID.
func (s *memStore) invoiceCount(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, inv := range s.invoices {
		if inv.OwnerID == ownerID {
			n++
		}
	}
	return n
}
