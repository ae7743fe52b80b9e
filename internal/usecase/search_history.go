package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"app/internal/gateway"

	"github.com/rs/zerolog"
)

// 永続化に使うキー
const pastSearchesKey = "pastSearches"

// 保持する最大件数
const maxPastSearches = 10

// SearchHistory は検索窓の下に出す「最近の検索」を持つ。
type SearchHistory struct {
	store  gateway.KVStore
	logger zerolog.Logger

	mu    sync.Mutex
	terms []string
}

// DI
func NewSearchHistory(store gateway.KVStore, logger zerolog.Logger) *SearchHistory {
	return &SearchHistory{store: store, logger: logger}
}

// Load は永続化済みの履歴を読み込む。失敗しても空のまま動く。
func (h *SearchHistory) Load(ctx context.Context) {
	raw, err := h.store.Get(ctx, pastSearchesKey)
	if err != nil {
		if !errors.Is(err, gateway.ErrKeyNotFound) {
			h.logger.Warn().Err(err).Msg("read past searches failed")
		}
		return
	}

	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		h.logger.Warn().Err(err).Msg("parse past searches failed")
		return
	}

	h.mu.Lock()
	h.terms = terms
	h.mu.Unlock()
}

// Add は重複を先頭に寄せ、件数上限で切ってから永続化する。
func (h *SearchHistory) Add(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	h.mu.Lock()
	next := make([]string, 0, len(h.terms)+1)
	next = append(next, term)
	for _, t := range h.terms {
		if t != term {
			next = append(next, t)
		}
	}
	if len(next) > maxPastSearches {
		next = next[:maxPastSearches]
	}
	h.terms = next
	snapshot := make([]string, len(next))
	copy(snapshot, next)
	h.mu.Unlock()

	h.persist(ctx, snapshot)
}

// List は新しい順の履歴を返す。
func (h *SearchHistory) List() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.terms))
	copy(out, h.terms)
	return out
}

// Clear は履歴を全部消す。
func (h *SearchHistory) Clear(ctx context.Context) {
	h.mu.Lock()
	h.terms = nil
	h.mu.Unlock()

	if err := h.store.Delete(ctx, pastSearchesKey); err != nil && !errors.Is(err, gateway.ErrKeyNotFound) {
		h.logger.Warn().Err(err).Msg("delete past searches failed")
	}
}

func (h *SearchHistory) persist(ctx context.Context, terms []string) {
	data, err := json.Marshal(terms)
	if err != nil {
		h.logger.Warn().Err(err).Msg("marshal past searches failed")
		return
	}
	if err := h.store.Set(ctx, pastSearchesKey, string(data)); err != nil {
		h.logger.Warn().Err(err).Msg("persist past searches failed")
	}
}
