// Package memory keeps orders, portfolios and prices in process memory.
//
// Portfolios are spread across numShards shards keyed by an FNV-1a hash of
// the user id. A unit of work holds its user's shard lock from start to
// commit, which serializes every ledger mutation of that user. Order state
// lives behind its own lock; an order only changes inside a unit of work of
// its owner.
package memory

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/onjuly19th/trading-hub-sub001/models"
)

const numShards = 64

type shard struct {
	mu         sync.Mutex
	portfolios map[string]*models.Portfolio
}

type Store struct {
	shards [numShards]shard

	ordersMu sync.RWMutex
	orders   map[string]*models.Order
	// pending indexes PENDING LIMIT orders by symbol.
	pending map[string]map[string]*models.Order

	pricesMu sync.RWMutex
	prices   map[string]models.Price
	priceSeq int
}

func NewStore() *Store {
	s := &Store{
		orders:  map[string]*models.Order{},
		pending: map[string]map[string]*models.Order{},
		prices:  map[string]models.Price{},
	}
	for i := range s.shards {
		s.shards[i].portfolios = map[string]*models.Portfolio{}
	}
	return s
}

func (s *Store) shardOf(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.shards[h.Sum32()%numShards]
}

// putOrder must be called with ordersMu held for writing.
func (s *Store) putOrder(o *models.Order) {
	s.orders[o.ID] = o

	bySymbol, ok := s.pending[o.Symbol]
	if o.Status == models.StatusPending && o.Type == models.TypeLimit {
		if !ok {
			bySymbol = map[string]*models.Order{}
			s.pending[o.Symbol] = bySymbol
		}
		bySymbol[o.ID] = o
		return
	}

	if ok {
		delete(bySymbol, o.ID)
		if len(bySymbol) == 0 {
			delete(s.pending, o.Symbol)
		}
	}
}

func sortOrders(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}
