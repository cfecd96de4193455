package markets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/internal/keyedmutex"
	"github.com/praxis-markets/praxis/internal/logger"
	"github.com/praxis-markets/praxis/internal/validator"
	"github.com/praxis-markets/praxis/models"
)

// service implements the Service interface
type service struct {
	db      *gorm.DB
	repo    Repository
	config  *Config
	fees    FeeEngine
	deriver LiquidityDeriver
	locks   *keyedmutex.KeyedMutex
	logger  logger.Logger
	now     func() time.Time
}

// NewService creates a new markets service. The keyed mutex must be the same
// instance the trading service locks with, so lifecycle transitions serialize
// against in-flight trades on the same market.
func NewService(
	db *gorm.DB,
	repo Repository,
	config *Config,
	fees FeeEngine,
	deriver LiquidityDeriver,
	locks *keyedmutex.KeyedMutex,
	log logger.Logger,
) Service {
	return &service{
		db:      db,
		repo:    repo,
		config:  config,
		fees:    fees,
		deriver: deriver,
		locks:   locks,
		logger:  log,
		now:     time.Now,
	}
}

// CreateMarket allocates a new market record: fixed outcome count and
// resolution time, zero quantities, liquidity parameter derived from the
// seed. The creator funds the seed from their collateral account and receives
// the first LP shares 1:1.
func (s *service) CreateMarket(ctx context.Context, creatorID uuid.UUID, req *CreateMarketRequest) (*MarketResponse, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	outcomeCount := len(req.OutcomeLabels)
	b, err := s.deriver.DeriveLiquidityParameter(outcomeCount, req.InitialLiquidity)
	if err != nil {
		return nil, err
	}

	resolverID := req.ResolverID
	if resolverID == uuid.Nil {
		resolverID = creatorID
	}

	now := s.now()
	market := &models.Market{
		Title:                strings.TrimSpace(req.Title),
		Description:          req.Description,
		MetadataRef:          req.MetadataRef,
		ResolverID:           resolverID,
		OutcomeCount:         outcomeCount,
		OutcomeLabels:        req.OutcomeLabels,
		Quantities:           models.ZeroQuantities(outcomeCount),
		LiquidityParameter:   b,
		CollateralPool:       decimal.Zero,
		LiquidityPoolBalance: req.InitialLiquidity,
		TotalVolume:          decimal.Zero,
		Status:               models.MarketStatusActive,
		ResolutionTime:       req.ResolutionTime,
	}
	if err := market.Validate(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)

		account, err := repoTx.GetOrCreateCollateralAccount(ctx, creatorID)
		if err != nil {
			return err
		}
		if err := account.Debit(req.InitialLiquidity); err != nil {
			return err
		}
		if err := repoTx.SaveCollateralAccount(ctx, account); err != nil {
			return err
		}

		if err := repoTx.CreateMarket(ctx, market); err != nil {
			return err
		}

		if err := repoTx.CreateLPShare(ctx, &models.LPShare{
			UserID:   creatorID,
			MarketID: market.ID,
			Shares:   req.InitialLiquidity,
			StakedAt: now,
		}); err != nil {
			return err
		}

		return repoTx.CreateTrade(ctx, &models.Trade{
			MarketID: market.ID,
			UserID:   creatorID,
			Kind:     models.TradeKindAddLiq,
			Shares:   req.InitialLiquidity,
			Cost:     req.InitialLiquidity,
			Fee:      decimal.Zero,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("market created", logger.Fields{
		"market_id":     market.ID.String(),
		"creator_id":    creatorID.String(),
		"outcome_count": outcomeCount,
		"seed":          req.InitialLiquidity.String(),
	})
	resp := ToMarketResponse(market)
	return &resp, nil
}

// GetMarkets returns a filtered, paginated market listing.
func (s *service) GetMarkets(ctx context.Context, filters *MarketFilters) (*MarketListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PerPage < 1 {
		filters.PerPage = s.config.DefaultPageSize
	}
	if filters.PerPage > s.config.MaxPageSize {
		filters.PerPage = s.config.MaxPageSize
	}

	markets, total, err := s.repo.GetMarkets(ctx, filters)
	if err != nil {
		return nil, err
	}

	items := make([]MarketResponse, len(markets))
	for i := range markets {
		items[i] = ToMarketResponse(&markets[i])
	}
	return &MarketListResponse{
		Markets: items,
		Total:   total,
		Page:    filters.Page,
		PerPage: filters.PerPage,
	}, nil
}

// GetMarketState returns the full mutable state of one market.
func (s *service) GetMarketState(ctx context.Context, marketID uuid.UUID) (*MarketStateResponse, error) {
	market, err := s.repo.GetMarketByID(ctx, marketID)
	if err != nil {
		return nil, err
	}
	supply, err := s.repo.TotalLPSupply(ctx, marketID)
	if err != nil {
		return nil, err
	}

	return &MarketStateResponse{
		MarketResponse:       ToMarketResponse(market),
		Quantities:           market.Quantities,
		CollateralPool:       market.CollateralPool,
		LiquidityPoolBalance: market.LiquidityPoolBalance,
		TotalLPSupply:        supply,
	}, nil
}

// ResolveMarket transitions an ACTIVE market to RESOLVED. Only the designated
// resolver may call it, and only once the resolution time has passed.
func (s *service) ResolveMarket(ctx context.Context, callerID, marketID uuid.UUID, req *ResolveMarketRequest) (*MarketResponse, error) {
	var resp *MarketResponse
	err := s.withMarketLock(ctx, marketID, func(repoTx Repository) error {
		market, err := repoTx.GetMarketByID(ctx, marketID)
		if err != nil {
			return err
		}
		if callerID != market.ResolverID {
			return models.ErrUnauthorized
		}
		if err := market.Resolve(req.WinningOutcome, s.now()); err != nil {
			return err
		}
		if err := repoTx.UpdateMarket(ctx, market); err != nil {
			return err
		}
		r := ToMarketResponse(market)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("market resolved", logger.Fields{
		"market_id":       marketID.String(),
		"winning_outcome": req.WinningOutcome,
	})
	return resp, nil
}

// CancelMarket transitions an ACTIVE market to CANCELLED. Only the designated
// resolver may cancel. After cancellation, Claim redeems complete sets 1:1;
// single-sided positions are not refunded.
func (s *service) CancelMarket(ctx context.Context, callerID, marketID uuid.UUID) (*MarketResponse, error) {
	var resp *MarketResponse
	err := s.withMarketLock(ctx, marketID, func(repoTx Repository) error {
		market, err := repoTx.GetMarketByID(ctx, marketID)
		if err != nil {
			return err
		}
		if callerID != market.ResolverID {
			return models.ErrUnauthorized
		}
		if err := market.Cancel(s.now()); err != nil {
			return err
		}
		if err := repoTx.UpdateMarket(ctx, market); err != nil {
			return err
		}
		r := ToMarketResponse(market)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("market cancelled", logger.Fields{"market_id": marketID.String()})
	return resp, nil
}

// Claim settles a user's position on a terminal market, at most once per user
// per market. On RESOLVED markets the winning-outcome balance pays 1:1; on
// CANCELLED markets the user's complete sets redeem 1:1. The burned balances
// and the payout move in the same transaction.
func (s *service) Claim(ctx context.Context, userID, marketID uuid.UUID) (*ClaimResponse, error) {
	var resp *ClaimResponse
	err := s.withMarketLock(ctx, marketID, func(repoTx Repository) error {
		market, err := repoTx.GetMarketByID(ctx, marketID)
		if err != nil {
			return err
		}
		if market.IsActive() {
			return models.ErrMarketNotResolved
		}

		if _, err := repoTx.GetClaim(ctx, marketID, userID); err == nil {
			return models.ErrAlreadyClaimed
		} else if !errors.Is(err, models.ErrRecordNotFound) {
			return err
		}

		positions, err := repoTx.GetPositionsByUserAndMarket(ctx, userID, marketID)
		if err != nil {
			return err
		}

		var payout decimal.Decimal
		if market.IsResolved() {
			payout, err = s.settleWinnings(ctx, repoTx, market, positions)
		} else {
			payout, err = s.refundCompleteSets(ctx, repoTx, market, positions)
		}
		if err != nil {
			return err
		}

		if err := s.payFromCollateral(ctx, repoTx, market, payout); err != nil {
			return err
		}

		account, err := repoTx.GetOrCreateCollateralAccount(ctx, userID)
		if err != nil {
			return err
		}
		if err := account.Credit(payout); err != nil {
			return err
		}
		if err := repoTx.SaveCollateralAccount(ctx, account); err != nil {
			return err
		}

		if err := repoTx.CreateClaim(ctx, &models.Claim{
			MarketID: marketID,
			UserID:   userID,
			Amount:   payout,
		}); err != nil {
			return err
		}

		resp = &ClaimResponse{
			MarketID:  marketID,
			UserID:    userID,
			Amount:    payout,
			ClaimedAt: s.now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("claim settled", logger.Fields{
		"market_id": marketID.String(),
		"user_id":   userID.String(),
		"amount":    resp.Amount.String(),
	})
	return resp, nil
}

// GetFeeQuote returns the fee rate a trade would pay on this market right now
// plus the running accrual totals.
func (s *service) GetFeeQuote(ctx context.Context, marketID uuid.UUID) (*FeeQuoteResponse, error) {
	market, err := s.repo.GetMarketByID(ctx, marketID)
	if err != nil {
		return nil, err
	}

	total, protocol, lp := s.fees.ComputeFeeBps(market.TotalVolume, market.LiquidityPoolBalance, market.Age(s.now()))
	resp := &FeeQuoteResponse{
		MarketID:        marketID,
		TotalBps:        total,
		ProtocolBps:     protocol,
		LPBps:           lp,
		AccruedProtocol: decimal.Zero,
		AccruedLP:       decimal.Zero,
		AccruedVolume:   decimal.Zero,
	}

	accrual, err := s.repo.GetFeeAccrual(ctx, marketID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return resp, nil
		}
		return nil, err
	}
	resp.AccruedProtocol = accrual.ProtocolFees
	resp.AccruedLP = accrual.LPFees
	resp.AccruedVolume = accrual.Volume
	return resp, nil
}

// settleWinnings burns the user's winning-outcome balance and returns it as
// the payout.
func (s *service) settleWinnings(ctx context.Context, repoTx Repository, market *models.Market, positions []models.Position) (decimal.Decimal, error) {
	winning := *market.WinningOutcome
	for i := range positions {
		if positions[i].Outcome != winning {
			continue
		}
		payout := positions[i].Shares
		if !payout.IsPositive() {
			break
		}
		if err := positions[i].Debit(payout); err != nil {
			return decimal.Zero, err
		}
		if err := repoTx.SavePosition(ctx, &positions[i]); err != nil {
			return decimal.Zero, err
		}
		return payout, nil
	}
	return decimal.Zero, models.ErrNothingToClaim
}

// refundCompleteSets burns the user's largest complete set and returns its
// size as the payout. This is the only refund the collateral invariant can
// always honor on a cancelled market.
func (s *service) refundCompleteSets(ctx context.Context, repoTx Repository, market *models.Market, positions []models.Position) (decimal.Decimal, error) {
	if len(positions) < market.OutcomeCount {
		return decimal.Zero, models.ErrNothingToClaim
	}

	sets := positions[0].Shares
	for i := range positions {
		if positions[i].Shares.LessThan(sets) {
			sets = positions[i].Shares
		}
	}
	if !sets.IsPositive() {
		return decimal.Zero, models.ErrNothingToClaim
	}

	for i := range positions {
		if err := positions[i].Debit(sets); err != nil {
			return decimal.Zero, err
		}
		if err := repoTx.SavePosition(ctx, &positions[i]); err != nil {
			return decimal.Zero, err
		}
	}
	return sets, nil
}

// payFromCollateral debits the payout from the collateral pool, topping it up
// from the liquidity pool when the pool alone cannot cover the winning side.
func (s *service) payFromCollateral(ctx context.Context, repoTx Repository, market *models.Market, payout decimal.Decimal) error {
	if payout.GreaterThan(market.CollateralPool) {
		shortfall := payout.Sub(market.CollateralPool)
		if shortfall.GreaterThan(market.LiquidityPoolBalance) {
			return models.ErrInsufficientCollateral
		}
		market.LiquidityPoolBalance = market.LiquidityPoolBalance.Sub(shortfall)
		market.CollateralPool = market.CollateralPool.Add(shortfall)
	}
	market.CollateralPool = market.CollateralPool.Sub(payout)
	return repoTx.UpdateMarket(ctx, market)
}

func (s *service) withMarketLock(ctx context.Context, marketID uuid.UUID, fn func(repoTx Repository) error) error {
	key := marketID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx))
	})
}

func (s *service) validateCreateRequest(req *CreateMarketRequest) error {
	if !validator.NotBlank(req.Title) || !validator.MaxRunes(strings.TrimSpace(req.Title), s.config.MaxTitleLength) {
		return models.ErrInvalidMarketTitle
	}
	if !validator.MaxRunes(req.Description, s.config.MaxDescriptionLength) {
		return models.ErrInvalidMarketTitle
	}
	if len(req.OutcomeLabels) < models.MinOutcomeCount || len(req.OutcomeLabels) > models.MaxOutcomeCount {
		return models.ErrInvalidOutcomeCount
	}
	for _, label := range req.OutcomeLabels {
		if !validator.NotBlank(label) {
			return models.ErrInvalidOutcomeCount
		}
	}
	if !validator.NoDuplicates(req.OutcomeLabels) {
		return models.ErrInvalidOutcomeCount
	}
	if req.ResolutionTime.Before(s.now().Add(s.config.MinResolutionLead)) {
		return models.ErrInvalidResolutionTime
	}
	if !req.InitialLiquidity.IsPositive() {
		return models.ErrZeroAmount
	}
	if req.InitialLiquidity.LessThan(s.config.MinInitialLiquidity) {
		return models.ErrInsufficientLiquidity
	}
	return nil
}
