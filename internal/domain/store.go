package domain

import "context"

// Repos 同一事务内的一组仓储
type Repos struct {
	Users    UserRepository
	Ads      AdRepository
	Comments CommentRepository
	Images   ImageRepository
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
