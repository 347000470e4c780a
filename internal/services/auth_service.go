package services

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/thereayou/chat-rooms/pkg/auth"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

// Identity результат успешной проверки токена
type Identity struct {
	UserID      string
	DisplayName string
}

type Authenticator interface {
	VerifyCredential(ctx context.Context, token string) (*Identity, error)
}

// Blacklist хранит отозванные токены
type Blacklist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type TokenAuthenticator struct {
	jwt       *auth.JWTManager
	blacklist Blacklist
}

// NewTokenAuthenticator blacklist может быть nil, тогда отзыв токенов не проверяется
func NewTokenAuthenticator(jwt *auth.JWTManager, blacklist Blacklist) *TokenAuthenticator {
	return &TokenAuthenticator{jwt: jwt, blacklist: blacklist}
}

func (a *TokenAuthenticator) VerifyCredential(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", apperrors.ErrUnauthenticated)
	}

	if a.blacklist != nil {
		revoked, err := a.blacklist.IsRevoked(ctx, token)
		if err != nil || revoked {
			return nil, fmt.Errorf("%w: token is blacklisted", apperrors.ErrUnauthenticated)
		}
	}

	claims, err := a.jwt.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	return &Identity{UserID: claims.Subject, DisplayName: claims.Name}, nil
}

// RedisBlacklist ключи вида blacklist:<token>, их ставит сервис выхода
type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	exists, err := b.client.Exists(ctx, "blacklist:"+token).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
