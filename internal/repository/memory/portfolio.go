package memory

import (
	"context"

	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
)

type PortfolioRepository struct {
	store *Store
}

func NewPortfolioRepository(store *Store) repository.PortfolioRepo {
	return &PortfolioRepository{store: store}
}

func (r *PortfolioRepository) Create(_ context.Context, p *models.Portfolio) error {
	sh := r.store.shardOf(p.UserID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.portfolios[p.UserID]; ok {
		return errors.Wrap(models.ErrPortfolioExists, p.UserID)
	}
	sh.portfolios[p.UserID] = p.Clone()

	return nil
}

func (r *PortfolioRepository) GetByUserID(_ context.Context, userID string) (*models.Portfolio, error) {
	sh := r.store.shardOf(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	p, ok := sh.portfolios[userID]
	if !ok {
		return nil, errors.Wrap(models.ErrPortfolioNotFound, userID)
	}

	return p.Clone(), nil
}
