package store

import (
	"context"

	"github.com/pkg/errors"
)

type User struct {
	ID           int32
	UID          string
	BusinessID   int32
	Username     string
	PasswordHash string
	CreatedTs    int64
	UpdatedTs    int64
}

type FindUser struct {
	ID         *int32
	UID        *string
	Username   *string
	BusinessID *int32
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(user.Username, user)
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.Username != nil && find.ID == nil && find.UID == nil {
		if cached, ok := s.userCache.Get(*find.Username); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	users, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	if len(users) == 0 {
		return nil, nil
	}

	user := users[0]
	s.userCache.Set(user.Username, user)
	return user, nil
}
