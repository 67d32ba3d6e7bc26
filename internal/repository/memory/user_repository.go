package memory

import (
	"context"
	"strings"

	"arrow-be/internal/entity"
	"arrow-be/internal/repository/contract"

	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := load[entity.User](r.s.kv, keyUsers)
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return contract.ErrDuplicateKey
		}
	}

	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	if user.Role == "" {
		user.Role = entity.UserRoleFounder
	}
	user.CreatedAt = r.s.clock()
	user.UpdatedAt = user.CreatedAt
	return save(r.s.kv, keyUsers, append(users, *user))
}

func (r *userRepository) find(match func(u *entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := load[entity.User](r.s.kv, keyUsers)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Id == id })
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) update(id uuid.UUID, apply func(u *entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users, err := load[entity.User](r.s.kv, keyUsers)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Id == id {
			apply(&users[i])
			users[i].UpdatedAt = r.s.clock()
		}
	}
	return save(r.s.kv, keyUsers, users)
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole) error {
	return r.update(id, func(u *entity.User) { u.Role = role })
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.update(id, func(u *entity.User) { u.PasswordHash = hash })
}

func (r *userRepository) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tokens, err := load[entity.PasswordResetToken](r.s.kv, keyResetTokens)
	if err != nil {
		return err
	}
	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	token.CreatedAt = r.s.clock()
	return save(r.s.kv, keyResetTokens, append(tokens, *token))
}

func (r *userRepository) FindPasswordResetToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tokens, err := load[entity.PasswordResetToken](r.s.kv, keyResetTokens)
	if err != nil {
		return nil, err
	}
	for i := range tokens {
		if tokens[i].Token == token {
			return &tokens[i], nil
		}
	}
	return nil, nil
}

func (r *userRepository) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tokens, err := load[entity.PasswordResetToken](r.s.kv, keyResetTokens)
	if err != nil {
		return err
	}
	for i := range tokens {
		if tokens[i].Id == id {
			tokens[i].Used = true
		}
	}
	return save(r.s.kv, keyResetTokens, tokens)
}
