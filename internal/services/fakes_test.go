package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brayn-ai/brayn-backend/internal/models"
	"github.com/brayn-ai/brayn-backend/internal/repository"
)

type fakeUserRepo struct {
	mu           sync.Mutex
	byID         map[uuid.UUID]*models.User
	saves        int
	premiumCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[uuid.UUID]*models.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return errors.New("duplicate email")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SetPremium(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.premiumCalls++
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsPremium = true
	return nil
}

func (r *fakeUserRepo) get(id uuid.UUID) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

type fakeGenerationRepo struct {
	mu        sync.Mutex
	gens      []models.Generation
	createErr error
	listErr   error
}

func (r *fakeGenerationRepo) Create(_ context.Context, gen *models.Generation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen.ID == uuid.Nil {
		gen.ID = uuid.New()
	}
	if gen.CreatedAt.IsZero() {
		gen.CreatedAt = time.Now()
	}
	r.gens = append(r.gens, *gen)
	return nil
}

func (r *fakeGenerationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Generation
	for i := len(r.gens) - 1; i >= 0; i-- {
		if r.gens[i].UserID == userID {
			out = append(out, r.gens[i])
		}
	}
	return out, r.listErr
}

func (r *fakeGenerationRepo) ListPublicImages(_ context.Context) ([]models.Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Generation
	for _, g := range r.gens {
		if g.Type == models.GenerationImage && g.IsPublic {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGenerationRepo) ToggleLike(_ context.Context, generationID, userID uuid.UUID) (bool, []uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.gens {
		g := &r.gens[i]
		if g.ID != generationID {
			continue
		}
		liked := true
		kept := g.Likes[:0]
		for _, l := range g.Likes {
			if l.UserID == userID {
				liked = false
				continue
			}
			kept = append(kept, l)
		}
		g.Likes = kept
		if liked {
			g.Likes = append(g.Likes, models.GenerationLike{GenerationID: generationID, UserID: userID})
		}
		ids := make([]uuid.UUID, len(g.Likes))
		for j, l := range g.Likes {
			ids[j] = l.UserID
		}
		return liked, ids, nil
	}
	return false, nil, repository.ErrNotFound
}

func (r *fakeGenerationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.gens)
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]*models.Payment{}}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Status == "" {
		p.Status = models.PaymentStatusCreated
	}
	cp := *p
	r.payments[p.OrderID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByOrderID(_ context.Context, orderID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) MarkPaid(_ context.Context, orderID, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = models.PaymentStatusPaid
	p.PaymentID = paymentID
	return nil
}

type sentMail struct {
	To, Subject, HTML string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type fakeText struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeText) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

type fakeImages struct {
	out     []byte
	err     error
	prompts []string
}

func (f *fakeImages) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

type fakeBackgrounds struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeBackgrounds) RemoveBackground(_ context.Context, _ []byte, _ string) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

type fakeStore struct {
	err     error
	folders []string
}

func (f *fakeStore) Upload(_ context.Context, folder string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.folders = append(f.folders, folder)
	return "https://cdn.example.com/" + folder + "/obj.png", nil
}

type fakePDF struct {
	text  string
	err   error
	calls int
}

func (f *fakePDF) ExtractText(_ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeGateway struct {
	err      error
	receipts []string
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (map[string]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.receipts = append(f.receipts, receipt)
	return map[string]interface{}{
		"id":       "order_123",
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}, nil
}
