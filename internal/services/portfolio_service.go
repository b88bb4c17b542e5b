package services

import (
	"context"
	"errors"
	"time"

	"github.com/SzaboCristian/stock-market/internal/backtest"
	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
	"github.com/SzaboCristian/stock-market/internal/logger"
	"github.com/SzaboCristian/stock-market/internal/portfolio"
	"github.com/SzaboCristian/stock-market/internal/store"
	"github.com/SzaboCristian/stock-market/internal/timerange"
)

// Backtester runs a portfolio over a date window.
type Backtester interface {
	Run(ctx context.Context, p *portfolio.Portfolio, start, end time.Time) (*backtest.Result, error)
}

// portfolioService handles portfolio-related business logic.
type portfolioService struct {
	users      UserServicer
	store      store.PortfolioStore
	backtester Backtester
	now        func() time.Time
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(users UserServicer, st store.PortfolioStore, bt Backtester) PortfolioServicer {
	return &portfolioService{
		users:      users,
		store:      st,
		backtester: bt,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *portfolioService) GetPortfolios(ctx context.Context, userID, portfolioID string) ([]*portfolio.Portfolio, error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		return nil, err
	}

	if portfolioID != "" {
		m, err := s.store.GetPortfolio(ctx, portfolioID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reads never reveal that another user's portfolio exists.
		if m.UserID != userID {
			return nil, apperrors.ErrPortfolioNotFound
		}
		p, err := portfolio.FromModel(m)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return []*portfolio.Portfolio{p}, nil
	}

	rows, err := s.store.ListPortfolios(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrPortfolioNotFound
	}
	out := make([]*portfolio.Portfolio, 0, len(rows))
	for i := range rows {
		p, err := portfolio.FromModel(&rows[i])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *portfolioService) CreatePortfolio(ctx context.Context, userID, name string, allocations []portfolio.Allocation) (*portfolio.Portfolio, error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		return nil, err
	}
	if name == "" {
		name = portfolio.DefaultName
	}

	now := s.now()
	p, err := portfolio.New(name, userID, allocations, now, now)
	if err != nil {
		return nil, domainError(err)
	}

	m := portfolio.ToModel(p)
	if err := s.store.CreatePortfolio(ctx, m); err != nil {
		return nil, apperrors.WithMessage(apperrors.Wrap(apperrors.ErrInternalServer, err), "Could not create portfolio.")
	}
	p.ID = m.ID

	logger.Get().Infow("portfolio created", "portfolio_id", p.ID, "user_id", userID)
	return p, nil
}

func (s *portfolioService) UpdatePortfolio(ctx context.Context, userID, portfolioID, name string, allocations []portfolio.Allocation) (*portfolio.Portfolio, error) {
	p, err := s.owned(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	if err := p.SetAllocations(allocations); err != nil {
		return nil, domainError(err)
	}
	if name != "" {
		if err := p.Rename(name); err != nil {
			return nil, domainError(err)
		}
	}
	p.Touch(s.now())

	if err := s.store.UpdatePortfolio(ctx, portfolio.ToModel(p)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.WithMessage(apperrors.Wrap(apperrors.ErrInternalServer, err), "Could not update portfolio.")
	}
	return p, nil
}

func (s *portfolioService) DeletePortfolio(ctx context.Context, userID, portfolioID string) error {
	if _, err := s.owned(ctx, userID, portfolioID); err != nil {
		return err
	}
	if err := s.store.DeletePortfolio(ctx, portfolioID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ErrPortfolioNotFound
		}
		return apperrors.WithMessage(apperrors.Wrap(apperrors.ErrInternalServer, err), "Could not delete portfolio.")
	}

	logger.Get().Infow("portfolio deleted", "portfolio_id", portfolioID, "user_id", userID)
	return nil
}

func (s *portfolioService) Backtest(ctx context.Context, userID, portfolioID string, start, end time.Time) (*backtest.Result, error) {
	p, err := s.owned(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	if end.IsZero() {
		end = s.now()
	}
	if start.IsZero() {
		start, _ = timerange.Start(timerange.Last5Years, end)
	}

	res, err := s.backtester.Run(ctx, p, start, end)
	if errors.Is(err, backtest.ErrInvalidWindow) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Backtest start must be before end.")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return res, nil
}

// owned loads a portfolio the user is about to act on. A portfolio owned by
// someone else is a 403, unlike on reads.
func (s *portfolioService) owned(ctx context.Context, userID, portfolioID string) (*portfolio.Portfolio, error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		return nil, err
	}

	m, err := s.store.GetPortfolio(ctx, portfolioID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if m.UserID != userID {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "Portfolio belongs to another user.")
	}

	p, err := portfolio.FromModel(m)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return p, nil
}

// domainError maps allocation model errors to validation AppErrors carrying
// the model's reason.
func domainError(err error) error {
	var allocErr *portfolio.AllocationError
	if errors.As(err, &allocErr) {
		return apperrors.WithMessage(apperrors.ErrInvalidAllocation, allocErr.Reason)
	}
	var pErr *portfolio.PortfolioError
	if errors.As(err, &pErr) {
		return apperrors.WithMessage(apperrors.ErrInvalidPortfolio, pErr.Reason)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
