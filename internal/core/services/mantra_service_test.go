package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
	"github.com/mantrahq/mantra_journal_app/internal/core/services"
)

type MantraServiceTestSuite struct {
	suite.Suite
	service portssvc.MantraSvcFacade
	ctx     context.Context
}

func (suite *MantraServiceTestSuite) SetupTest() {
	suite.service = services.NewMantraService(3)
	suite.ctx = context.Background()
}

func (suite *MantraServiceTestSuite) TestCategoriesListed() {
	categories := suite.service.Categories(suite.ctx)
	suite.Len(categories, 8)
	suite.Contains(categories, "Career")
	suite.Contains(categories, "Gratitude")
}

func (suite *MantraServiceTestSuite) TestGenerateMantraFromCategory() {
	mantra, err := suite.service.GenerateMantra(suite.ctx, "Career")

	suite.Require().NoError(err)
	suite.Equal("Career", mantra.Category)
	suite.NotEmpty(mantra.MantraID)
	suite.NotEmpty(mantra.Text)
}

func (suite *MantraServiceTestSuite) TestGenerateMantraRandomCategory() {
	mantra, err := suite.service.GenerateMantra(suite.ctx, "")

	suite.Require().NoError(err)
	suite.Contains(suite.service.Categories(suite.ctx), mantra.Category)
}

func (suite *MantraServiceTestSuite) TestGenerateMantraUnknownCategory() {
	mantra, err := suite.service.GenerateMantra(suite.ctx, "Quantum Physics")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(mantra)
	// A rejected category does not consume the daily allowance.
	suite.Equal(3, suite.service.RemainingToday())
}

func (suite *MantraServiceTestSuite) TestDailyLimitEnforced() {
	for i := 0; i < 3; i++ {
		_, err := suite.service.GenerateMantra(suite.ctx, "")
		suite.Require().NoError(err)
	}
	suite.Equal(0, suite.service.RemainingToday())

	mantra, err := suite.service.GenerateMantra(suite.ctx, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDailyLimitReached)
	suite.Nil(mantra)
}

func (suite *MantraServiceTestSuite) TestBatchGenerationDoesNotConsumeAllowance() {
	mantras, err := suite.service.GenerateMantras(suite.ctx, 10)

	suite.Require().NoError(err)
	suite.Len(mantras, 10)
	suite.Equal(3, suite.service.RemainingToday())
}

func (suite *MantraServiceTestSuite) TestBatchGenerationRejectsNonPositiveCount() {
	mantras, err := suite.service.GenerateMantras(suite.ctx, 0)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(mantras)
}

func (suite *MantraServiceTestSuite) TestFavoritesPrependAndDeduplicate() {
	first := domain.Mantra{MantraID: "m1", Text: "one", Category: "Career", CreatedAt: time.Now()}
	second := domain.Mantra{MantraID: "m2", Text: "two", Category: "Health", CreatedAt: time.Now()}

	suite.service.AddFavorite(first)
	suite.service.AddFavorite(second)
	suite.service.AddFavorite(first) // duplicate, ignored

	favorites := suite.service.Favorites()
	suite.Require().Len(favorites, 2)
	suite.Equal("m2", favorites[0].MantraID)
	suite.Equal("m1", favorites[1].MantraID)
}

func (suite *MantraServiceTestSuite) TestRemoveFavorite() {
	suite.service.AddFavorite(domain.Mantra{MantraID: "m1", Text: "one"})
	suite.service.AddFavorite(domain.Mantra{MantraID: "m2", Text: "two"})

	suite.service.RemoveFavorite("m1")
	suite.service.RemoveFavorite("absent") // no-op

	favorites := suite.service.Favorites()
	suite.Require().Len(favorites, 1)
	suite.Equal("m2", favorites[0].MantraID)
}

func TestMantraService(t *testing.T) {
	suite.Run(t, new(MantraServiceTestSuite))
}
