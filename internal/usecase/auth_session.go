package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"app/internal/domain/model"
	"app/internal/gateway"

	"github.com/rs/zerolog"
)

// 永続化に使うキー。別キーだが必ずペアで読み書きする。
const (
	accessTokenKey = "accessToken"
	userKey        = "user"
)

// usecaseがAuthValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateLogin(ctx context.Context, email string, password string) error
	ValidateRegister(ctx context.Context, in gateway.RegisterInput) error
}

// AuthSession は {user, accessToken} のペアを持つ。
// 片方だけの状態を外に見せない（トークン無しのユーザー表示を防ぐ）。
type AuthSession struct {
	customers gateway.CustomerGateway
	store     gateway.KVStore
	validator AuthValidator
	logger    zerolog.Logger

	mu    sync.RWMutex
	user  *model.Customer
	token string
}

// DI
func NewAuthSession(
	customers gateway.CustomerGateway,
	store gateway.KVStore,
	validator AuthValidator,
	logger zerolog.Logger,
) *AuthSession {
	return &AuthSession{
		customers: customers,
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Login は入力検証→ログイン→プロフィール取得→ペア確定、の順。
// 検証で落ちたら通信しない。
func (s *AuthSession) Login(ctx context.Context, email string, password string) (model.Customer, error) {
	if err := s.validator.ValidateLogin(ctx, email, password); err != nil {
		return model.Customer{}, ErrValidation
	}

	token, err := s.customers.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return model.Customer{}, ErrUnauthorized
		}
		return model.Customer{}, err
	}

	cust, err := s.customers.Profile(ctx, token)
	if err != nil {
		return model.Customer{}, err
	}

	s.adopt(ctx, cust, token)
	return cust, nil
}

// Register は入力検証→会員登録。セッションは作らない（その後Loginする想定）。
func (s *AuthSession) Register(ctx context.Context, in gateway.RegisterInput) error {
	if err := s.validator.ValidateRegister(ctx, in); err != nil {
		return ErrValidation
	}
	return s.customers.Register(ctx, in)
}

// Logout はメモリと永続層の両方からペアを消す。
func (s *AuthSession) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	for _, key := range []string{accessTokenKey, userKey} {
		if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, gateway.ErrKeyNotFound) {
			s.logger.Warn().Err(err).Str("key", key).Msg("delete session key failed")
		}
	}
}

// Restore は両方のキーが揃っているときだけセッションを復元する。
// 片方だけ残っていても「セッション無し」として扱う。
func (s *AuthSession) Restore(ctx context.Context) (model.Customer, bool) {
	token, err := s.store.Get(ctx, accessTokenKey)
	if err != nil {
		if !errors.Is(err, gateway.ErrKeyNotFound) {
			s.logger.Warn().Err(err).Msg("read persisted token failed")
		}
		return model.Customer{}, false
	}

	rawUser, err := s.store.Get(ctx, userKey)
	if err != nil {
		if !errors.Is(err, gateway.ErrKeyNotFound) {
			s.logger.Warn().Err(err).Msg("read persisted user failed")
		}
		return model.Customer{}, false
	}

	if token == "" || rawUser == "" {
		return model.Customer{}, false
	}

	var cust model.Customer
	if err := json.Unmarshal([]byte(rawUser), &cust); err != nil {
		s.logger.Warn().Err(err).Msg("parse persisted user failed")
		return model.Customer{}, false
	}

	s.mu.Lock()
	s.user = &cust
	s.token = token
	s.mu.Unlock()
	return cust, true
}

// Current はログイン中の顧客を返す。
func (s *AuthSession) Current() (model.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return model.Customer{}, false
	}
	return *s.user, true
}

// AccessToken はTokenSourceの実装。未ログインは空文字。
func (s *AuthSession) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// メモリに確定してから永続化する。書き込み失敗はログのみで、
// このプロセスの間はメモリのセッションが生き続ける。
func (s *AuthSession) adopt(ctx context.Context, cust model.Customer, token string) {
	s.mu.Lock()
	s.user = &cust
	s.token = token
	s.mu.Unlock()

	if err := s.store.Set(ctx, accessTokenKey, token); err != nil {
		s.logger.Warn().Err(err).Msg("persist token failed")
	}

	data, err := json.Marshal(cust)
	if err != nil {
		s.logger.Warn().Err(err).Msg("marshal user failed")
		return
	}
	if err := s.store.Set(ctx, userKey, string(data)); err != nil {
		s.logger.Warn().Err(err).Msg("persist user failed")
	}
}
