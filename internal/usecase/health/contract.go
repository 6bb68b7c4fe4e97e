package health

import "context"

// EnginePinger checks search engine availability.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// UserStorePinger checks user record store availability.
type UserStorePinger interface {
	Ping(ctx context.Context) error
}
