package auth

import "context"

// Repository abstracts user persistence. Create reports ErrEmailExists or ErrUsernameExists on conflicts.
type Repository interface {
	Create(ctx context.Context, user NewUser) (User, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
