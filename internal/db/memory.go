package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aph138/phoneuser/internal/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Memory implements Database with a map keyed by phone number.
// It is meant for tests and single instance setups.
type Memory struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]entity.User),
	}
}

func (m *Memory) InsertUser(_ context.Context, user entity.User) (entity.User, error) {
	if err := user.Validate(); err != nil {
		return entity.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Phone]; exists {
		return entity.User{}, &DuplicateKeyError{Field: entity.PhoneField, Value: user.Phone}
	}
	user.ID = bson.NewObjectID()
	user.RegisteredAt = time.Now().UTC()
	m.users[user.Phone] = user
	return user, nil
}

func (m *Memory) FindUserByPhone(_ context.Context, phone string) (entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[phone]
	if !ok {
		return entity.User{}, ErrNotFound
	}
	return user, nil
}

func (m *Memory) SaveUser(_ context.Context, phone string) (string, error) {
	if _, err := entity.ValidatePhone(phone); err != nil {
		return "", err
	}
	now := time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[phone]
	if !exists {
		user = entity.User{
			ID:           bson.NewObjectID(),
			Phone:        phone,
			RegisteredAt: now,
		}
	}
	user.LastLogin = &now
	m.users[phone] = user
	return user.ID.Hex(), nil
}

func (m *Memory) SearchUser(_ context.Context, opts ...SearchUserOption) ([]entity.User, error) {
	option := newSearchUserOption(opts...)

	m.mu.RLock()
	matched := make([]entity.User, 0, len(m.users))
	for _, user := range m.users {
		if option.match(user.Phone, user.RegisteredAt) {
			matched = append(matched, user)
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].RegisteredAt.Equal(matched[j].RegisteredAt) {
			return matched[i].RegisteredAt.After(matched[j].RegisteredAt)
		}
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	skip, ok := option.skip()
	if !ok || skip >= int64(len(matched)) {
		return []entity.User{}, nil
	}
	end := min(skip+option.pagination.limit, int64(len(matched)))
	return matched[skip:end], nil
}

func (m *Memory) Close(context.Context) error {
	return nil
}
