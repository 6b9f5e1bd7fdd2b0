package memory

import (
	"context"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) repository.TxManager {
	return &TxManager{store: store}
}

// WithinUserTx runs fn while holding the user's shard lock. Nothing fn does
// through the Tx is visible to other readers until fn returns nil.
func (m *TxManager) WithinUserTx(ctx context.Context, userID string, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sh := m.store.shardOf(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	t := &tx{
		store:  m.store,
		shard:  sh,
		userID: userID,
		staged: map[string]*models.Order{},
	}

	if err := fn(t); err != nil {
		return err
	}

	return t.commit()
}

type tx struct {
	store  *Store
	shard  *shard
	userID string

	portfolio *models.Portfolio
	dirty     bool

	// staged holds the post-commit image of every order touched by the unit.
	staged   map[string]*models.Order
	inserted []string
	moved    []string
}

func (t *tx) Portfolio(_ context.Context) (*models.Portfolio, error) {
	if t.portfolio != nil {
		return t.portfolio, nil
	}

	p, ok := t.shard.portfolios[t.userID]
	if !ok {
		return nil, errors.Wrap(models.ErrPortfolioNotFound, t.userID)
	}
	t.portfolio = p.Clone()

	return t.portfolio, nil
}

func (t *tx) SavePortfolio(_ context.Context, p *models.Portfolio) error {
	if p.UserID != t.userID {
		return errors.Errorf("portfolio %s saved in unit of %s", p.UserID, t.userID)
	}
	t.portfolio = p
	t.dirty = true

	return nil
}

func (t *tx) GetOrder(_ context.Context, id string) (*models.Order, error) {
	o, err := t.current(id)
	if err != nil {
		return nil, err
	}
	return o.Clone(), nil
}

func (t *tx) InsertOrder(_ context.Context, o *models.Order) error {
	if o.ID == "" {
		return errors.Wrap(models.ErrInvalidOrder, "order id is required")
	}
	if o.UserID != t.userID {
		return errors.Errorf("order of %s inserted in unit of %s", o.UserID, t.userID)
	}
	if _, ok := t.staged[o.ID]; ok {
		return errors.Errorf("order %s already exists", o.ID)
	}

	t.store.ordersMu.RLock()
	_, exists := t.store.orders[o.ID]
	t.store.ordersMu.RUnlock()
	if exists {
		return errors.Errorf("order %s already exists", o.ID)
	}

	t.staged[o.ID] = o.Clone()
	t.inserted = append(t.inserted, o.ID)

	return nil
}

func (t *tx) TransitionOrder(_ context.Context, id string, to models.OrderStatus, fillPrice decimal.NullDecimal, at time.Time) error {
	o, err := t.current(id)
	if err != nil {
		return err
	}
	if err := checkPending(o); err != nil {
		return err
	}

	next := o.Clone()
	next.Status = to
	if to == models.StatusFilled {
		ts := at
		next.FilledPrice = fillPrice
		next.FilledAt = &ts
	}

	if _, ok := t.staged[id]; !ok {
		t.moved = append(t.moved, id)
	}
	t.staged[id] = next

	return nil
}

// current returns the order as this unit sees it.
func (t *tx) current(id string) (*models.Order, error) {
	if o, ok := t.staged[id]; ok {
		return o, nil
	}

	t.store.ordersMu.RLock()
	o, ok := t.store.orders[id]
	t.store.ordersMu.RUnlock()

	if !ok || o.UserID != t.userID {
		return nil, errors.Wrap(models.ErrOrderNotFound, id)
	}

	return o, nil
}

func (t *tx) commit() error {
	t.store.ordersMu.Lock()
	defer t.store.ordersMu.Unlock()

	for _, id := range t.inserted {
		if _, ok := t.store.orders[id]; ok {
			return errors.Errorf("order %s already exists", id)
		}
	}
	for _, id := range t.moved {
		if err := checkPending(t.store.orders[id]); err != nil {
			return err
		}
	}

	for _, id := range t.inserted {
		t.store.putOrder(t.staged[id])
	}
	for _, id := range t.moved {
		t.store.putOrder(t.staged[id])
	}

	if t.dirty {
		t.shard.portfolios[t.userID] = t.portfolio.Clone()
	}

	return nil
}

func checkPending(o *models.Order) error {
	if o == nil {
		return models.ErrOrderNotFound
	}

	switch o.Status {
	case models.StatusFilled:
		return errors.Wrap(models.ErrOrderAlreadyFilled, o.ID)
	case models.StatusCancelled:
		return errors.Wrap(models.ErrOrderAlreadyCancelled, o.ID)
	}

	return nil
}
