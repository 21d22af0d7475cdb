package marketdata

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/quantx-lab/quantx/mocks"
)

// ClientTestSuite is a test suite for the Client implementation
type ClientTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockProvider *mocks.MockProvider
	tempDir      string
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockProvider = mocks.NewMockProvider(suite.ctrl)
	suite.tempDir = suite.T().TempDir()
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ClientTestSuite) clientConfig() ClientConfig {
	return ClientConfig{
		ProviderType:  ProviderBinance,
		DatabasePath:  filepath.Join(suite.tempDir, "bars.db"),
		PolygonApiKey: "",
		ParquetExport: false,
	}
}

func (suite *ClientTestSuite) TestDownloadDispatchesToProvider() {
	client := newClientWithProvider(suite.clientConfig(), suite.mockProvider, nil)

	params := DownloadParams{
		Ticker:    "BTCUSDT",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockProvider.EXPECT().ConfigWriter(gomock.Any())
	suite.mockProvider.EXPECT().
		Download(gomock.Any(), "BTCUSDT", params.StartDate, params.EndDate, gomock.Any()).
		Return("bars.db", nil)

	err := client.Download(context.Background(), params)
	suite.Require().NoError(err)
}

func (suite *ClientTestSuite) TestDownloadRejectsInvertedDateRange() {
	client := newClientWithProvider(suite.clientConfig(), suite.mockProvider, nil)

	params := DownloadParams{
		Ticker:    "BTCUSDT",
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	err := client.Download(context.Background(), params)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "invalid download parameters")
}

func (suite *ClientTestSuite) TestDownloadRejectsMissingTicker() {
	client := newClientWithProvider(suite.clientConfig(), suite.mockProvider, nil)

	params := DownloadParams{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	err := client.Download(context.Background(), params)
	suite.Require().Error(err)
}

func (suite *ClientTestSuite) TestNewClientRequiresPolygonApiKey() {
	_, err := NewClient(ClientConfig{
		ProviderType: ProviderPolygon,
		DatabasePath: filepath.Join(suite.tempDir, "bars.db"),
	}, nil)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "invalid client configuration")
}

func (suite *ClientTestSuite) TestNewClientRejectsUnknownProvider() {
	_, err := NewClient(ClientConfig{
		ProviderType: "yahoo",
		DatabasePath: filepath.Join(suite.tempDir, "bars.db"),
	}, nil)
	suite.Require().Error(err)
}
