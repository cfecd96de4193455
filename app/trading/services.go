package trading

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/internal/cache"
	"github.com/praxis-markets/praxis/internal/fixedpoint"
	"github.com/praxis-markets/praxis/internal/keyedmutex"
	"github.com/praxis-markets/praxis/internal/logger"
	"github.com/praxis-markets/praxis/models"
)

// service implements the Service interface. Every mutating operation takes the
// market's exclusive lock and runs inside one database transaction, so a
// partially applied trade is never observable.
type service struct {
	db         *gorm.DB
	repo       Repository
	config     *Config
	pricing    PricingEngine
	sets       CompleteSetEngine
	fees       FeeQuoter
	locks      *keyedmutex.KeyedMutex
	priceCache cache.Cache[*PricesResponse]
	logger     logger.Logger
	now        func() time.Time
}

// NewService creates a new trading service. The keyed mutex is shared with
// the markets service so trades serialize against lifecycle transitions on
// the same market.
func NewService(
	db *gorm.DB,
	repo Repository,
	config *Config,
	pricing PricingEngine,
	sets CompleteSetEngine,
	fees FeeQuoter,
	locks *keyedmutex.KeyedMutex,
	priceCache cache.Cache[*PricesResponse],
	log logger.Logger,
) Service {
	return &service{
		db:         db,
		repo:       repo,
		config:     config,
		pricing:    pricing,
		sets:       sets,
		fees:       fees,
		locks:      locks,
		priceCache: priceCache,
		logger:     log,
		now:        time.Now,
	}
}

// Buy spends at most req.MaxCost (fees included) on req.Outcome, crediting as
// many shares as the budget allows. Fails with ErrSlippageExceeded when the
// budget buys fewer than req.MinShares.
func (s *service) Buy(ctx context.Context, userID, marketID uuid.UUID, req *BuyRequest) (*TradeResponse, error) {
	if !req.MaxCost.IsPositive() {
		return nil, models.ErrZeroAmount
	}
	if req.MaxCost.GreaterThan(s.config.MaxTradeAmount) {
		return nil, models.ErrTradeTooLarge
	}

	var resp *TradeResponse
	err := s.withMarketLock(ctx, marketID, func(tx Repository) error {
		market, err := tx.GetMarketByID(ctx, marketID)
		if err != nil {
			return err
		}
		if !market.IsActive() {
			return models.ErrMarketNotActive
		}
		if !market.ValidOutcome(req.Outcome) {
			return models.ErrInvalidOutcome
		}

		totalBps, _, lpBps := s.feeRate(market)

		// Reserve the fee up front: search with the net budget so base cost
		// plus fee never exceeds the caller's maximum.
		netBudget := netOfFee(req.MaxCost, totalBps)
		shares, err := s.pricing.SharesForBudget(market.Quantities, req.Outcome, netBudget, market.LiquidityParameter)
		if err != nil {
			return err
		}
		if shares.IsZero() || shares.LessThan(req.MinShares) {
			return models.ErrSlippageExceeded
		}

		baseCost, err := s.pricing.BuyCost(market.Quantities, req.Outcome, shares, market.LiquidityParameter)
		if err != nil {
			return err
		}
		fee := feePortion(baseCost, totalBps)
		lpFee := feePortion(baseCost, lpBps)
		total := baseCost.Add(fee)
		if total.GreaterThan(req.MaxCost) {
			return models.ErrSlippageExceeded
		}

		account, err := tx.GetCollateralAccount(ctx, userID)
		if err != nil {
			return err
		}
		if err := account.Debit(total); err != nil {
			return err
		}

		position, err := tx.GetOrCreatePosition(ctx, userID, marketID, req.Outcome)
		if err != nil {
			return err
		}
		if err := position.Credit(shares); err != nil {
			return err
		}

		market.Quantities[req.Outcome] = market.Quantities[req.Outcome].Add(shares)
		market.CollateralPool = market.CollateralPool.Add(baseCost)
		market.LiquidityPoolBalance = market.LiquidityPoolBalance.Add(lpFee)
		market.TotalVolume = market.TotalVolume.Add(baseCost)

		trade, err := s.recordTrade(ctx, tx, market, account, position, &models.Trade{
			MarketID: marketID,
			UserID:   userID,
			Kind:     models.TradeKindBuy,
			Outcome:  intPtr(req.Outcome),
			Shares:   shares,
			Cost:     total,
			Fee:      fee,
		}, fee.Sub(lpFee), lpFee, baseCost)
		if err != nil {
			return err
		}

		resp, err = s.tradeResponse(market, trade)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("buy executed", logger.Fields{
		"market_id": marketID.String(),
		"user_id":   userID.String(),
		"outcome":   req.Outcome,
		"shares":    resp.Shares.String(),
		"cost":      resp.Cost.String(),
	})
	return resp, nil
}

// Sell sells an exact share quantity of req.Outcome for the LMSR payout net
// of fees. Fails with ErrSlippageExceeded when the net payout falls below
// req.MinPayout.
func (s *service) Sell(ctx context.Context, userID, marketID uuid.UUID, req *SellRequest) (*TradeResponse, error) {
	if !req.Shares.IsPositive() {
		return nil, models.ErrZeroAmount
	}

	var resp *TradeResponse
	err := s.withMarketLock(ctx, marketID, func(tx Repository) error {
		market, err := tx.GetMarketByID(ctx, marketID)
		if err != nil {
			return err
		}
		if !market.IsActive() {
			return models.ErrMarketNotActive
		}
		if !market.ValidOutcome(req.Outcome) {
			return models.ErrInvalidOutcome
		}

		position, err := tx.GetPosition(ctx, userID, marketID, req.Outcome)
		if err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				return models.ErrInsufficientShares
			}
			return err
		}
		if position.Shares.LessThan(req.Shares) {
			return models.ErrInsufficientShares
		}

		basePayout, err := s.pricing.SellPayout(market.Quantities, req.Outcome, req.Shares, market.LiquidityParameter)
		if err != nil {
			return err
		}

		totalBps, _, lpBps := s.feeRate(market)
		fee := feePortion(basePayout, totalBps)
		lpFee := feePortion(basePayout, lpBps)
		net := basePayout.Sub(fee)
		if net.LessThan(req.MinPayout) {
			return models.ErrSlippageExceeded
		}
		if basePayout.GreaterThan(market.CollateralPool) {
			return models.ErrInsufficientLiquidity
		}

		if err := position.Debit(req.Shares); err != nil {
			return err
		}
		account, err := tx.GetCollateralAccount(ctx, userID)
		if err != nil {
			return err
		}
		if err := account.Credit(net); err != nil {
			return err
		}

		market.Quantities[req.Outcome] = market.Quantities[req.Outcome].Sub(req.Shares)
		market.CollateralPool = market.CollateralPool.Sub(basePayout)
		market.LiquidityPoolBalance = market.LiquidityPoolBalance.Add(lpFee)
		market.TotalVolume = market.TotalVolume.Add(basePayout)

		trade, err := s.recordTrade(ctx, tx, market, account, position, &models.Trade{
			MarketID: marketID,
			UserID:   userID,
			Kind:     models.TradeKindSell,
			Outcome:  intPtr(req.Outcome),
			Shares:   req.Shares,
			Cost:     net,
			Fee:      fee,
		}, fee.Sub(lpFee), lpFee, basePayout)
		if err != nil {
			return err
		}

		resp, err = s.tradeResponse(market, trade)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sell executed", logger.Fields{
		"market_id": marketID.String(),
		"user_id":   userID.String(),
		"outcome":   req.Outcome,
		"shares":    resp.Shares.String(),
		"payout":    resp.Cost.String(),
	})
	return resp, nil
}

// MintCompleteSet exchanges collateral for one share of every outcome, 1:1
// with no fee. Complete sets bypass the LMSR entirely and leave the quantity
// vector untouched.
func (s *service) MintCompleteSet(ctx context.Context, userID, marketID uuid.UUID, req *CompleteSetRequest) (*TradeResponse, error) {
	cost, err := s.sets.MintCost(req.Amount)
	if err != nil {
		return nil, err
	}

	var resp *TradeResponse
	err = s.withMarketLock(ctx, marketID, func(tx Repository) error {
		market, err := tx.GetMarketByID(ctx, marketID)
		if err != nil {
			return err
		}
		if !market.IsActive() {
			return models.ErrMarketNotActive
		}

		account, err := tx.GetCollateralAccount(ctx, userID)
		if err != nil {
			return err
		}
		if err := account.Debit(cost); err != nil {
			return err
		}

		for outcome := 0; outcome < market.OutcomeCount; outcome++ {
			position, err := tx.GetOrCreatePosition(ctx, userID, marketID, outcome)
			if err != nil {
				return err
			}
			if err := position.Credit(req.Amount); err != nil {
				return err
			}
			if err := tx.SavePosition(ctx, position); err != nil {
				return err
			}
		}

		market.CollateralPool = market.CollateralPool.Add(cost)
		if err := tx.UpdateMarket(ctx, market); err != nil {
			return err
		}
		if err := tx.SaveCollateralAccount(ctx, account); err != nil {
			return err
		}

		trade := &models.Trade{
			MarketID: marketID,
			UserID:   userID,
			Kind:     models.TradeKindMintSet,
			Shares:   req.Amount,
			Cost:     cost,
			Fee:      decimal.Zero,
		}
		if err := tx.CreateTrade(ctx, trade); err != nil {
			return err
		}

		resp, err = s.tradeResponse(market, trade)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// BurnCompleteSet redeems complete sets for collateral, 1:1 with no fee. The
// caller must hold at least req.Amount shares of every outcome.
func (s *service) BurnCompleteSet(ctx context.Context, userID, marketID uuid.UUID, req *CompleteSetRequest) (*TradeResponse, error) {
	payout, err := s.sets.BurnPayout(req.Amount)
	if err != nil {
		return nil, err
	}

	var resp *TradeResponse
	err = s.withMarketLock(ctx, marketID, func(tx Repository) error {
		market, err := tx.GetMarketByID(ctx, marketID)
		if err != nil {
			return err
		}
		if !market.IsActive() {
			return models.ErrMarketNotActive
		}

		balances, positions, err := s.userBalances(ctx, tx, userID, market)
		if err != nil {
			return err
		}
		if !s.sets.HasCompleteSet(balances, req.Amount) {
			return models.ErrInsufficientShares
		}

		for outcome := 0; outcome < market.OutcomeCount; outcome++ {
			if err := positions[outcome].Debit(req.Amount); err != nil {
				return err
			}
			if err := tx.SavePosition(ctx, positions[outcome]); err != nil {
				return err
			}
		}

		account, err := tx.GetCollateralAccount(ctx, userID)
		if err != nil {
			return err
		}
		if err := account.Credit(payout); err != nil {
			return err
		}

		market.CollateralPool = market.CollateralPool.Sub(payout)
		if market.CollateralPool.IsNegative() {
			return models.ErrInsufficientLiquidity
		}
		if err := tx.UpdateMarket(ctx, market); err != nil {
			return err
		}
		if err := tx.SaveCollateralAccount(ctx, account); err != nil {
			return err
		}

		trade := &models.Trade{
			MarketID: marketID,
			UserID:   userID,
			Kind:     models.TradeKindBurnSet,
			Shares:   req.Amount,
			Cost:     payout,
			Fee:      decimal.Zero,
		}
		if err := tx.CreateTrade(ctx, trade); err != nil {
			return err
		}

		resp, err = s.tradeResponse(market, trade)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// AddLiquidity deposits collateral into the liquidity pool, mints LP shares
// proportional to existing supply (first provider gets 1:1) and scales the
// liquidity parameter up with the pool so market depth tracks pool size.
func (s *service) AddLiquidity(ctx context.Context, userID, marketID uuid.UUID, req *LiquidityRequest) (*LiquidityResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, models.ErrZeroAmount
	}

	var resp *LiquidityResponse
	err := s.withMarketLock(ctx, marketID, func(tx Repository) error {
		market, err := tx.GetMarketByID(ctx, marketID)
		if err != nil {
			return err
		}
		if !market.IsActive() {
			return models.ErrMarketNotActive
		}

		account, err := tx.GetCollateralAccount(ctx, userID)
		if err != nil {
			return err
		}
		if err := account.Debit(req.Amount); err != nil {
			return err
		}

		supply, err := tx.TotalLPSupply(ctx, marketID)
		if err != nil {
			return err
		}

		var minted decimal.Decimal
		pool := market.LiquidityPoolBalance
		if supply.IsZero() || pool.IsZero() {
			minted = req.Amount
			market.LiquidityParameter, err = s.pricing.DeriveLiquidityParameter(market.OutcomeCount, req.Amount)
			if err != nil {
				return err
			}
		} else {
			minted = fixedpoint.Div(supply.Mul(req.Amount), pool)
			market.LiquidityParameter = fixedpoint.Div(market.LiquidityParameter.Mul(pool.Add(req.Amount)), pool)
		}
		market.LiquidityPoolBalance = pool.Add(req.Amount)

		share, err := tx.GetOrCreateLPShare(ctx, userID, marketID)
		if err != nil {
			return err
		}
		if share.Shares.IsZero() {
			share.StakedAt = s.now()
		}
		if err := share.Credit(minted); err != nil {
			return err
		}
		if err := tx.SaveLPShare(ctx, share); err != nil {
			return err
		}
		if err := tx.SaveCollateralAccount(ctx, account); err != nil {
			return err
		}
		if err := tx.UpdateMarket(ctx, market); err != nil {
			return err
		}

		if err := tx.CreateTrade(ctx, &models.Trade{
			MarketID: marketID,
			UserID:   userID,
			Kind:     models.TradeKindAddLiq,
			Shares:   minted,
			Cost:     req.Amount,
			Fee:      decimal.Zero,
		}); err != nil {
			return err
		}

		resp = &LiquidityResponse{
			MarketID:           marketID,
			LPShares:           minted,
			Amount:             req.Amount,
			PoolBalance:        market.LiquidityPoolBalance,
			LiquidityParameter: market.LiquidityParameter,
			TotalLPSupply:      supply.Add(minted),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("liquidity added", logger.Fields{
		"market_id": marketID.String(),
		"user_id":   userID.String(),
		"amount":    req.Amount.String(),
	})
	return resp, nil
}

// RemoveLiquidity burns LP shares for a proportional slice of the pool and
// scales the liquidity parameter down. While the market is active the pool
// cannot be fully drained, since the liquidity parameter must stay positive.
func (s *service) RemoveLiquidity(ctx context.Context, userID, marketID uuid.UUID, req *RemoveLiquidityRequest) (*LiquidityResponse, error) {
	if !req.LPShares.IsPositive() {
		return nil, models.ErrZeroAmount
	}

	var resp *LiquidityResponse
	err := s.withMarketLock(ctx, marketID, func(tx Repository) error {
		market, err := tx.GetMarketByID(ctx, marketID)
		if err != nil {
			return err
		}
		if !market.IsActive() {
			return models.ErrMarketNotActive
		}

		share, err := tx.GetLPShare(ctx, userID, marketID)
		if err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				return models.ErrInsufficientShares
			}
			return err
		}
		supply, err := tx.TotalLPSupply(ctx, marketID)
		if err != nil {
			return err
		}
		if supply.IsZero() {
			return models.ErrInsufficientLiquidity
		}

		pool := market.LiquidityPoolBalance
		payout := fixedpoint.Div(pool.Mul(req.LPShares), supply)
		if payout.GreaterThanOrEqual(pool) {
			return models.ErrInsufficientLiquidity
		}

		if err := share.Debit(req.LPShares); err != nil {
			return err
		}

		remaining := pool.Sub(payout)
		market.LiquidityParameter = fixedpoint.Div(market.LiquidityParameter.Mul(remaining), pool)
		market.LiquidityPoolBalance = remaining

		account, err := tx.GetCollateralAccount(ctx, userID)
		if err != nil {
			return err
		}
		if err := account.Credit(payout); err != nil {
			return err
		}

		if err := tx.SaveLPShare(ctx, share); err != nil {
			return err
		}
		if err := tx.SaveCollateralAccount(ctx, account); err != nil {
			return err
		}
		if err := tx.UpdateMarket(ctx, market); err != nil {
			return err
		}

		if err := tx.CreateTrade(ctx, &models.Trade{
			MarketID: marketID,
			UserID:   userID,
			Kind:     models.TradeKindRemoveLiq,
			Shares:   req.LPShares,
			Cost:     payout,
			Fee:      decimal.Zero,
		}); err != nil {
			return err
		}

		resp = &LiquidityResponse{
			MarketID:           marketID,
			LPShares:           req.LPShares,
			Amount:             payout,
			PoolBalance:        market.LiquidityPoolBalance,
			LiquidityParameter: market.LiquidityParameter,
			TotalLPSupply:      supply.Sub(req.LPShares),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SimulateBuy quotes a buy without executing it. req.Amount is the collateral
// budget, fees included.
func (s *service) SimulateBuy(ctx context.Context, marketID uuid.UUID, req *QuoteRequest) (*QuoteResponse, error) {
	market, err := s.repo.GetMarketByID(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if !market.ValidOutcome(req.Outcome) {
		return nil, models.ErrInvalidOutcome
	}

	totalBps, _, _ := s.feeRate(market)
	netBudget := netOfFee(req.Amount, totalBps)
	shares, err := s.pricing.SharesForBudget(market.Quantities, req.Outcome, netBudget, market.LiquidityParameter)
	if err != nil {
		return nil, err
	}
	if shares.IsZero() {
		return nil, models.ErrSlippageExceeded
	}

	baseCost, err := s.pricing.BuyCost(market.Quantities, req.Outcome, shares, market.LiquidityParameter)
	if err != nil {
		return nil, err
	}
	impact, err := s.pricing.PriceImpact(market.Quantities, req.Outcome, shares, market.LiquidityParameter)
	if err != nil {
		return nil, err
	}

	fee := feePortion(baseCost, totalBps)
	return &QuoteResponse{
		MarketID:       marketID,
		Outcome:        req.Outcome,
		Shares:         shares,
		BaseCost:       baseCost,
		Fee:            fee,
		TotalCost:      baseCost.Add(fee),
		PriceImpactBps: impact,
		QuotedAt:       s.now(),
	}, nil
}

// SimulateSell quotes a sell without executing it. req.Amount is the share
// quantity to sell.
func (s *service) SimulateSell(ctx context.Context, marketID uuid.UUID, req *QuoteRequest) (*QuoteResponse, error) {
	market, err := s.repo.GetMarketByID(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if !market.ValidOutcome(req.Outcome) {
		return nil, models.ErrInvalidOutcome
	}

	basePayout, err := s.pricing.SellPayout(market.Quantities, req.Outcome, req.Amount, market.LiquidityParameter)
	if err != nil {
		return nil, err
	}
	impact, err := s.pricing.PriceImpact(market.Quantities, req.Outcome, req.Amount.Neg(), market.LiquidityParameter)
	if err != nil {
		return nil, err
	}

	totalBps, _, _ := s.feeRate(market)
	fee := feePortion(basePayout, totalBps)
	return &QuoteResponse{
		MarketID:       marketID,
		Outcome:        req.Outcome,
		Shares:         req.Amount,
		BaseCost:       basePayout,
		Fee:            fee,
		TotalCost:      basePayout.Sub(fee),
		PriceImpactBps: impact,
		QuotedAt:       s.now(),
	}, nil
}

// GetPrices returns the market's current price vector, served from the price
// snapshot cache when fresh. The snapshot is written atomically after each
// trade commits, so readers always see an internally consistent vector.
func (s *service) GetPrices(ctx context.Context, marketID uuid.UUID) (*PricesResponse, error) {
	key := priceCacheKey(marketID)
	if cached, err := s.priceCache.Get(ctx, key); err == nil {
		return cached, nil
	}

	market, err := s.repo.GetMarketByID(ctx, marketID)
	if err != nil {
		return nil, err
	}
	prices, err := s.pricing.Prices(market.Quantities, market.LiquidityParameter)
	if err != nil {
		return nil, err
	}

	resp := &PricesResponse{
		MarketID:  marketID,
		Prices:    prices,
		Labels:    market.OutcomeLabels,
		UpdatedAt: s.now(),
	}
	if err := s.priceCache.Set(ctx, key, resp, s.config.PriceCacheTTL); err != nil {
		s.logger.Error(err, logger.Fields{"market_id": marketID.String()})
	}
	return resp, nil
}

// CheckArbitrage reports whether the market's price sum deviates from one
// unit by more than truncation dust.
func (s *service) CheckArbitrage(ctx context.Context, marketID uuid.UUID) (*ArbitrageResponse, error) {
	snapshot, err := s.GetPrices(ctx, marketID)
	if err != nil {
		return nil, err
	}

	exists, magnitude := s.sets.DetectArbitrage(snapshot.Prices)
	sum := decimal.Zero
	for _, p := range snapshot.Prices {
		sum = sum.Add(p)
	}
	return &ArbitrageResponse{
		MarketID:  marketID,
		Exists:    exists,
		Magnitude: magnitude,
		PriceSum:  sum,
	}, nil
}

// GetUserPosition returns a user's per-outcome balances in one market and the
// largest complete set those balances can redeem.
func (s *service) GetUserPosition(ctx context.Context, marketID, userID uuid.UUID) (*UserPositionResponse, error) {
	market, err := s.repo.GetMarketByID(ctx, marketID)
	if err != nil {
		return nil, err
	}

	balances, err := s.readBalances(ctx, s.repo, userID, market)
	if err != nil {
		return nil, err
	}
	completeSets, err := s.sets.MinimumAcrossOutcomes(balances)
	if err != nil {
		return nil, err
	}

	return &UserPositionResponse{
		MarketID:     marketID,
		UserID:       userID,
		Balances:     balances,
		CompleteSets: completeSets,
	}, nil
}

// withMarketLock serializes the callback against all other writers of the
// same market and wraps it in one database transaction. The price snapshot is
// invalidated only after a successful commit.
func (s *service) withMarketLock(ctx context.Context, marketID uuid.UUID, fn func(tx Repository) error) error {
	key := marketID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx))
	})
	if err != nil {
		return err
	}

	s.invalidatePrices(ctx, marketID)
	return nil
}

// recordTrade persists the mutated rows of a buy or sell plus its fee accrual
// and trade record.
func (s *service) recordTrade(
	ctx context.Context,
	tx Repository,
	market *models.Market,
	account *models.CollateralAccount,
	position *models.Position,
	trade *models.Trade,
	protocolFee, lpFee, volume decimal.Decimal,
) (*models.Trade, error) {
	accrual, err := tx.GetOrCreateFeeAccrual(ctx, market.ID)
	if err != nil {
		return nil, err
	}
	accrual.Accrue(protocolFee, lpFee, volume)

	if err := tx.UpdateMarket(ctx, market); err != nil {
		return nil, err
	}
	if err := tx.SaveCollateralAccount(ctx, account); err != nil {
		return nil, err
	}
	if err := tx.SavePosition(ctx, position); err != nil {
		return nil, err
	}
	if err := tx.SaveFeeAccrual(ctx, accrual); err != nil {
		return nil, err
	}
	if err := tx.CreateTrade(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

func (s *service) tradeResponse(market *models.Market, trade *models.Trade) (*TradeResponse, error) {
	prices, err := s.pricing.Prices(market.Quantities, market.LiquidityParameter)
	if err != nil {
		return nil, err
	}
	return &TradeResponse{
		TradeID:    trade.ID,
		MarketID:   market.ID,
		Kind:       trade.Kind,
		Outcome:    trade.Outcome,
		Shares:     trade.Shares,
		Cost:       trade.Cost,
		Fee:        trade.Fee,
		Prices:     prices,
		ExecutedAt: s.now(),
	}, nil
}

// readBalances assembles the user's balance vector for a market without
// creating position rows: outcomes with no row read as zero. Queries use this;
// mutating flows use userBalances, which materializes the rows they debit.
func (s *service) readBalances(ctx context.Context, repo Repository, userID uuid.UUID, market *models.Market) ([]decimal.Decimal, error) {
	balances := make([]decimal.Decimal, market.OutcomeCount)
	for outcome := 0; outcome < market.OutcomeCount; outcome++ {
		position, err := repo.GetPosition(ctx, userID, market.ID, outcome)
		if err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				balances[outcome] = decimal.Zero
				continue
			}
			return nil, err
		}
		balances[outcome] = position.Shares
	}
	return balances, nil
}

// userBalances assembles the user's full balance vector for a market, one
// entry per outcome, creating zero-share rows where none exist yet.
func (s *service) userBalances(ctx context.Context, repo Repository, userID uuid.UUID, market *models.Market) ([]decimal.Decimal, []*models.Position, error) {
	positions := make([]*models.Position, market.OutcomeCount)
	balances := make([]decimal.Decimal, market.OutcomeCount)
	for outcome := 0; outcome < market.OutcomeCount; outcome++ {
		position, err := repo.GetOrCreatePosition(ctx, userID, market.ID, outcome)
		if err != nil {
			return nil, nil, err
		}
		positions[outcome] = position
		balances[outcome] = position.Shares
	}
	return balances, positions, nil
}

func (s *service) feeRate(market *models.Market) (totalBps, protocolBps, lpBps int64) {
	return s.fees.ComputeFeeBps(market.TotalVolume, market.LiquidityPoolBalance, market.Age(s.now()))
}

func (s *service) invalidatePrices(ctx context.Context, marketID uuid.UUID) {
	if err := s.priceCache.Delete(ctx, priceCacheKey(marketID)); err != nil {
		s.logger.Error(err, logger.Fields{"market_id": marketID.String()})
	}
}

func priceCacheKey(marketID uuid.UUID) string {
	return "prices:" + marketID.String()
}

// feePortion computes amount * bps / 10000 truncated to the fixed-point
// scale.
func feePortion(amount decimal.Decimal, bps int64) decimal.Decimal {
	return fixedpoint.Div(amount.Mul(decimal.NewFromInt(bps)), bpsPerUnit)
}

// netOfFee shrinks a fee-inclusive budget to the base amount it can cover:
// net * (1 + bps/10000) <= gross.
func netOfFee(gross decimal.Decimal, bps int64) decimal.Decimal {
	return fixedpoint.Div(gross.Mul(bpsPerUnit), bpsPerUnit.Add(decimal.NewFromInt(bps)))
}

func intPtr(v int) *int {
	return &v
}
