package markets

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/praxis-markets/praxis/models"
	"github.com/praxis-markets/praxis/tests/suites"
)

type RepositoryIntegrationSuite struct {
	suites.RepositoryTestSuite
	repo Repository
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	s.AutoMigrate = true
	s.RepositoryTestSuite.SetupSuite()
	s.repo = NewRepository(s.DB)
}

func TestRepositoryIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) newMarket() *models.Market {
	return &models.Market{
		Title:                "Will it rain tomorrow?",
		ResolverID:           uuid.New(),
		OutcomeCount:         2,
		OutcomeLabels:        models.OutcomeLabels{"Yes", "No"},
		Quantities:           models.ZeroQuantities(2),
		LiquidityParameter:   decimal.RequireFromString("1442.695"),
		CollateralPool:       decimal.Zero,
		LiquidityPoolBalance: decimal.NewFromInt(1000),
		TotalVolume:          decimal.Zero,
		Status:               models.MarketStatusActive,
		ResolutionTime:       time.Now().Add(24 * time.Hour).UTC(),
	}
}

func (s *RepositoryIntegrationSuite) TestCreateAndGetMarket() {
	ctx := context.Background()
	market := s.newMarket()
	market.Quantities[0] = decimal.RequireFromString("12.5")

	s.Require().NoError(s.repo.CreateMarket(ctx, market))
	s.Require().NotEqual(uuid.Nil, market.ID)

	got, err := s.repo.GetMarketByID(ctx, market.ID)
	s.Require().NoError(err)
	s.Equal(market.Title, got.Title)
	s.Equal(2, got.OutcomeCount)
	s.Require().Len(got.Quantities, 2)
	s.True(got.Quantities[0].Equal(decimal.RequireFromString("12.5")))
	s.True(got.Quantities[1].IsZero())
	s.Equal(models.OutcomeLabels{"Yes", "No"}, got.OutcomeLabels)

	_, err = s.repo.GetMarketByID(ctx, uuid.New())
	s.ErrorIs(err, models.ErrRecordNotFound)
}

func (s *RepositoryIntegrationSuite) TestUpdateMarketTransition() {
	ctx := context.Background()
	market := s.newMarket()
	market.ResolutionTime = time.Now().Add(-time.Hour).UTC()
	s.Require().NoError(s.repo.CreateMarket(ctx, market))

	s.Require().NoError(market.Resolve(1, time.Now().UTC()))
	s.Require().NoError(s.repo.UpdateMarket(ctx, market))

	got, err := s.repo.GetMarketByID(ctx, market.ID)
	s.Require().NoError(err)
	s.Equal(models.MarketStatusResolved, got.Status)
	s.Require().NotNil(got.WinningOutcome)
	s.Equal(1, *got.WinningOutcome)
}

func (s *RepositoryIntegrationSuite) TestGetMarketsFiltersAndPaginates() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.repo.CreateMarket(ctx, s.newMarket()))
	}
	cancelled := s.newMarket()
	cancelled.Status = models.MarketStatusCancelled
	s.Require().NoError(s.repo.CreateMarket(ctx, cancelled))

	status := models.MarketStatusActive
	markets, total, err := s.repo.GetMarkets(ctx, &MarketFilters{Status: &status, Page: 1, PerPage: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(markets, 2)

	markets, total, err = s.repo.GetMarkets(ctx, &MarketFilters{Page: 1, PerPage: 10})
	s.Require().NoError(err)
	s.Equal(int64(4), total)
	s.Len(markets, 4)
}

func (s *RepositoryIntegrationSuite) TestGetOrCreateCollateralAccount() {
	ctx := context.Background()
	userID := uuid.New()

	account, err := s.repo.GetOrCreateCollateralAccount(ctx, userID)
	s.Require().NoError(err)
	s.True(account.Balance.IsZero())

	account.Balance = decimal.NewFromInt(500)
	s.Require().NoError(s.repo.SaveCollateralAccount(ctx, account))

	again, err := s.repo.GetOrCreateCollateralAccount(ctx, userID)
	s.Require().NoError(err)
	s.Equal(account.ID, again.ID)
	s.True(again.Balance.Equal(decimal.NewFromInt(500)))
	s.Equal(int64(1), s.CountRecords("collateral_accounts"))
}

func (s *RepositoryIntegrationSuite) TestTotalLPSupply() {
	ctx := context.Background()
	market := s.newMarket()
	s.Require().NoError(s.repo.CreateMarket(ctx, market))

	supply, err := s.repo.TotalLPSupply(ctx, market.ID)
	s.Require().NoError(err)
	s.True(supply.IsZero())

	for _, amount := range []int64{1000, 500} {
		s.Require().NoError(s.repo.CreateLPShare(ctx, &models.LPShare{
			UserID:   uuid.New(),
			MarketID: market.ID,
			Shares:   decimal.NewFromInt(amount),
			StakedAt: time.Now().UTC(),
		}))
	}

	supply, err = s.repo.TotalLPSupply(ctx, market.ID)
	s.Require().NoError(err)
	s.True(supply.Equal(decimal.NewFromInt(1500)))
}

func (s *RepositoryIntegrationSuite) TestClaimUniquePerUserAndMarket() {
	ctx := context.Background()
	market := s.newMarket()
	s.Require().NoError(s.repo.CreateMarket(ctx, market))
	userID := uuid.New()

	_, err := s.repo.GetClaim(ctx, market.ID, userID)
	s.ErrorIs(err, models.ErrRecordNotFound)

	s.Require().NoError(s.repo.CreateClaim(ctx, &models.Claim{
		MarketID: market.ID,
		UserID:   userID,
		Amount:   decimal.NewFromInt(100),
	}))

	claim, err := s.repo.GetClaim(ctx, market.ID, userID)
	s.Require().NoError(err)
	s.True(claim.Amount.Equal(decimal.NewFromInt(100)))

	err = s.repo.CreateClaim(ctx, &models.Claim{
		MarketID: market.ID,
		UserID:   userID,
		Amount:   decimal.NewFromInt(100),
	})
	s.AssertDBError(err)
}

func (s *RepositoryIntegrationSuite) TestPositionsOrderedByOutcome() {
	ctx := context.Background()
	market := s.newMarket()
	s.Require().NoError(s.repo.CreateMarket(ctx, market))
	userID := uuid.New()

	for _, outcome := range []int{1, 0} {
		s.Require().NoError(s.repo.SavePosition(ctx, &models.Position{
			UserID:   userID,
			MarketID: market.ID,
			Outcome:  outcome,
			Shares:   decimal.NewFromInt(int64(10 + outcome)),
		}))
	}

	positions, err := s.repo.GetPositionsByUserAndMarket(ctx, userID, market.ID)
	s.Require().NoError(err)
	s.Require().Len(positions, 2)
	s.Equal(0, positions[0].Outcome)
	s.Equal(1, positions[1].Outcome)
}

func (s *RepositoryIntegrationSuite) TestGetFeeAccrualNotFound() {
	_, err := s.repo.GetFeeAccrual(context.Background(), uuid.New())
	s.ErrorIs(err, models.ErrRecordNotFound)
}
