package alchemy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcheck/black-check-api/internal/adapter"
	"github.com/blackcheck/black-check-api/internal/mocks"
	"github.com/blackcheck/black-check-api/internal/providers/alchemy"
)

const (
	baseURL  = "https://eth-sepolia.g.alchemy.com/nft/v2"
	owner    = "0x6140F00e4Ff3936702E68744f2b5978885464cbb"
	contract = "0x57d74ff9303283cd19461c80e90e6ae59222675c"
)

var headers = map[string]string{"Accept": "application/json"}

func TestAlchemyClient_GetNFTsForOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := alchemy.NewClient(mockHTTPClient, nil, baseURL+"/", "key", 0)

	ctx := context.Background()
	expectedURL := baseURL + "/key/getNFTs?owner=0x6140f00e4ff3936702e68744f2b5978885464cbb&contractAddresses[]=" + contract + "&withMetadata=true&pageSize=100"

	mockHTTPClient.EXPECT().
		GetBytes(ctx, expectedURL, headers).
		Return([]byte(`{
			"ownedNfts": [
				{
					"contract": {"address": "0x57d74ff9303283cd19461c80e90e6ae59222675c"},
					"id": {"tokenId": "0x000000000000000000000000000000000000000000000000000000000000000f", "tokenMetadata": {"tokenType": "ERC721"}},
					"title": "Check #15",
					"description": ["line one", "line two"],
					"media": [{"gateway": "https://nft-cdn.alchemy.com/15.png", "raw": "data:image/svg+xml;base64,AAA"}],
					"metadata": {"name": "Check #15"},
					"contractMetadata": {"name": "Checks", "tokenType": "ERC721"}
				}
			],
			"totalCount": 1
		}`), nil)

	nfts, err := client.GetNFTsForOwner(ctx, owner, contract)
	require.NoError(t, err)
	require.Len(t, nfts, 1)

	nft := nfts[0]
	assert.Equal(t, "15", nft.DecimalTokenID())
	assert.Equal(t, "Check #15", nft.Title)
	assert.Equal(t, "line one\nline two", nft.DescriptionText())
	assert.Equal(t, "https://nft-cdn.alchemy.com/15.png", nft.Media[0].Gateway)
	require.NotNil(t, nft.ContractMetadata)
	assert.Equal(t, "Checks", nft.ContractMetadata.Name)
}

func TestAlchemyClient_GetNFTMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := alchemy.NewClient(mockHTTPClient, nil, baseURL, "key", 0)

	ctx := context.Background()
	expectedURL := baseURL + "/key/getNFTMetadata?contractAddress=" + contract + "&tokenId=42&refreshCache=false"

	mockHTTPClient.EXPECT().
		GetBytes(ctx, expectedURL, headers).
		Return([]byte(`{"contract": {"address": "`+contract+`"}, "id": {"tokenId": "42"}, "title": "", "description": "plain"}`), nil)

	nft, err := client.GetNFTMetadata(ctx, contract, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", nft.DecimalTokenID())
	assert.Equal(t, "plain", nft.DescriptionText())
}

func TestAlchemyClient_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing api key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		client := alchemy.NewClient(mocks.NewMockHTTPClient(ctrl), nil, baseURL, "", 0)
		_, err := client.GetNFTsForOwner(ctx, owner, contract)
		assert.ErrorIs(t, err, alchemy.ErrNoAPIKey)
		_, err = client.GetNFTMetadata(ctx, contract, "1")
		assert.ErrorIs(t, err, alchemy.ErrNoAPIKey)
	})

	t.Run("upstream status error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
		mockHTTPClient.EXPECT().
			GetBytes(ctx, gomock.Any(), headers).
			Return(nil, &adapter.StatusError{StatusCode: 404, Body: "not found"})

		client := alchemy.NewClient(mockHTTPClient, nil, baseURL, "key", 0)
		_, err := client.GetNFTMetadata(ctx, contract, "1")
		require.Error(t, err)
		assert.True(t, adapter.IsNotFound(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
		mockHTTPClient.EXPECT().
			GetBytes(ctx, gomock.Any(), headers).
			Return([]byte(`not json`), nil)

		client := alchemy.NewClient(mockHTTPClient, nil, baseURL, "key", 0)
		_, err := client.GetNFTsForOwner(ctx, owner, contract)
		require.Error(t, err)
		assert.False(t, errors.Is(err, alchemy.ErrNoAPIKey))
	})
}

func TestAlchemyClient_FetchTimeout(t *testing.T) {
	ctx := context.Background()

	t.Run("hung request is cut off", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
		mockHTTPClient.EXPECT().
			GetBytes(gomock.Any(), gomock.Any(), headers).
			DoAndReturn(func(ctx context.Context, _ string, _ map[string]string) ([]byte, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})

		client := alchemy.NewClient(mockHTTPClient, nil, baseURL, "key", 50*time.Millisecond)
		start := time.Now()
		_, err := client.GetNFTMetadata(ctx, contract, "1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("every request gets its own budget", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
		mockHTTPClient.EXPECT().
			GetBytes(gomock.Any(), gomock.Any(), headers).
			DoAndReturn(func(ctx context.Context, _ string, _ map[string]string) ([]byte, error) {
				select {
				case <-time.After(120 * time.Millisecond):
					return []byte(`{"contract": {"address": "` + contract + `"}, "id": {"tokenId": "1"}}`), nil
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}).
			Times(2)

		client := alchemy.NewClient(mockHTTPClient, nil, baseURL, "key", 200*time.Millisecond)
		for i := 0; i < 2; i++ {
			nft, err := client.GetNFTMetadata(ctx, contract, "1")
			require.NoError(t, err)
			assert.Equal(t, "1", nft.DecimalTokenID())
		}
	})
}

func TestNFT_Exists(t *testing.T) {
	assert.True(t, (&alchemy.NFT{ID: alchemy.TokenID{TokenID: "0x1"}}).Exists())
	assert.False(t, (&alchemy.NFT{ID: alchemy.TokenID{TokenID: "0x1"}, Error: "Token does not exist"}).Exists())
	assert.False(t, (&alchemy.NFT{}).Exists())
}
