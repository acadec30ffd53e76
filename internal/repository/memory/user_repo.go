package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tempus/internal/domain"
)

type userRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

// NewUserRepository returns an in-memory domain.UserRepository.
func NewUserRepository() domain.UserRepository {
	return &userRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	c := *u
	r.byID[c.ID] = &c
	r.byEmail[c.Email] = &c
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	return &c, nil
}

type loginCode struct {
	email     string
	codeHash  string
	expiresAt time.Time
}

type loginCodeRepository struct {
	mu    sync.Mutex
	codes []loginCode
	now   func() time.Time
}

// NewLoginCodeRepository returns an in-memory domain.LoginCodeRepository.
func NewLoginCodeRepository() domain.LoginCodeRepository {
	return &loginCodeRepository{now: time.Now}
}

func (r *loginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, loginCode{email: email, codeHash: codeHash, expiresAt: expiresAt})
	return nil
}

func (r *loginCodeRepository) Consume(ctx context.Context, email, codeHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for i, c := range r.codes {
		if c.email == email && c.codeHash == codeHash && c.expiresAt.After(now) {
			r.codes = append(r.codes[:i], r.codes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
