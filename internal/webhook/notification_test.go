package webhook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcheck/black-check-api/internal/domain"
)

const activityPayload = `{
  "webhookId": "wh_octjglnywaupz6th",
  "id": "whevt_6fsjjfawxlj6fw96",
  "createdAt": "2025-09-26T19:18:48.502Z",
  "type": "NFT_ACTIVITY",
  "event": {
    "network": "ETH_SEPOLIA",
    "activity": [
      {
        "fromAddress": "0x0000000000000000000000000000000000000000",
        "toAddress": "0x6140f00e4ff3936702e68744f2b5978885464cbb",
        "contractAddress": "0x57d74ff9303283cd19461c80e90e6ae59222675c",
        "blockNum": "0x8db177",
        "hash": "0xe038710d64121951b29bf846680cbc38f47b752b23160ca6ddd88c550f7f30fc",
        "erc721TokenId": "0xf",
        "category": "erc721",
        "log": {
          "address": "0x57d74ff9303283cd19461c80e90e6ae59222675c",
          "topics": [],
          "data": "0x",
          "blockHash": "0x9c1d3a0f",
          "blockNumber": "0x8db177",
          "blockTimestamp": "0x68d6e718",
          "transactionHash": "0xe038710d64121951b29bf846680cbc38f47b752b23160ca6ddd88c550f7f30fc",
          "transactionIndex": "0x3",
          "logIndex": "0x7",
          "removed": false
        }
      }
    ],
    "source": "chainlake-kafka"
  }
}`

const logERC1155Payload = `{
  "webhookId": "wh_legacy",
  "id": "whevt_legacy",
  "createdAt": "2024-01-01T00:00:01.999Z",
  "type": "NFT_ACTIVITY",
  "event": {
    "fromAddress": "0x1111111111111111111111111111111111111111",
    "toAddress": "0x2222222222222222222222222222222222222222",
    "category": "erc1155",
    "erc1155Metadata": [
      {"tokenId": "0x1", "value": "0x1"},
      {"tokenId": "0x2a", "value": "0x3"}
    ],
    "log": {
      "address": "0x3333333333333333333333333333333333333333",
      "blockNumber": "0x10",
      "transactionHash": "0xabc",
      "logIndex": "0x2"
    }
  }
}`

var receivedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func TestDecode_ActivityLayout(t *testing.T) {
	n, err := Decode([]byte(activityPayload), receivedAt)
	require.NoError(t, err)
	assert.Equal(t, KindActivity, n.Kind)
	assert.Equal(t, TypeNFTActivity, n.Type())

	events, skipped := n.Transfers()
	assert.Empty(t, skipped)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "0xe038710d64121951b29bf846680cbc38f47b752b23160ca6ddd88c550f7f30fc_0xf", e.ID)
	assert.Equal(t, int64(15), e.TokenID)
	assert.Equal(t, int64(9282423), e.BlockNumber)
	assert.Equal(t, int64(0x68d6e718), e.BlockTimestamp)
	assert.Equal(t, domain.ETHEREUM_ZERO_ADDRESS, e.From)
	assert.Equal(t, "0x6140f00e4ff3936702e68744f2b5978885464cbb", e.To)
	require.NotNil(t, e.TokenAddress)
	assert.Equal(t, "0x57d74ff9303283cd19461c80e90e6ae59222675c", *e.TokenAddress)
	assert.True(t, e.IsMint())
}

func TestDecode_LogLayoutERC1155(t *testing.T) {
	n, err := Decode([]byte(logERC1155Payload), receivedAt)
	require.NoError(t, err)
	assert.Equal(t, KindLog, n.Kind)

	events, skipped := n.Transfers()
	assert.Empty(t, skipped)
	require.Len(t, events, 2)

	assert.Equal(t, "0xabc_0x1", events[0].ID)
	assert.Equal(t, int64(1), events[0].TokenID)
	assert.Equal(t, "0xabc_0x2a", events[1].ID)
	assert.Equal(t, int64(42), events[1].TokenID)

	for _, e := range events {
		assert.Equal(t, int64(16), e.BlockNumber)
		// floor(1704067201999 / 1000)
		assert.Equal(t, int64(1704067201), e.BlockTimestamp)
		assert.Equal(t, "0xabc", e.TransactionHash)
		require.NotNil(t, e.TokenAddress)
		assert.Equal(t, "0x3333333333333333333333333333333333333333", *e.TokenAddress)
	}
}

func TestDecode_LogLayoutERC721(t *testing.T) {
	body := `{
	  "createdAt": "2024-05-05T10:00:00Z",
	  "type": "NFT_ACTIVITY",
	  "event": {
	    "fromAddress": "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
	    "toAddress": "0x2222222222222222222222222222222222222222",
	    "category": "erc721",
	    "erc721TokenId": "0x64",
	    "log": {"address": "0x3333333333333333333333333333333333333333", "blockNumber": "0x1", "transactionHash": "0xdef", "logIndex": "0x0"}
	  }
	}`

	n, err := Decode([]byte(body), receivedAt)
	require.NoError(t, err)

	events, skipped := n.Transfers()
	assert.Empty(t, skipped)
	require.Len(t, events, 1)
	assert.Equal(t, "0xdef_0x64", events[0].ID)
	assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", events[0].From)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{name: "not json", body: `{"event":`, err: ErrMalformedPayload},
		{name: "missing event", body: `{"type":"NFT_ACTIVITY"}`, err: ErrMissingEvent},
		{name: "missing log", body: `{"event":{"category":"erc721"}}`, err: ErrMissingLog},
		{name: "activity without source falls back to log", body: `{"event":{"network":"ETH_MAINNET","activity":[]}}`, err: ErrMissingLog},
		{name: "missing transaction hash", body: `{"event":{"log":{"blockNumber":"0x1"}}}`, err: ErrMissingTransactionHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Decode([]byte(tt.body), receivedAt)
			assert.Nil(t, n)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTransfers_SkipsBadActivityItems(t *testing.T) {
	body := `{
	  "id": "whevt_1",
	  "type": "NFT_ACTIVITY",
	  "event": {
	    "network": "ETH_MAINNET",
	    "source": "chainlake-kafka",
	    "activity": [
	      {"fromAddress": "0x1111111111111111111111111111111111111111", "toAddress": "0x2222222222222222222222222222222222222222", "blockNum": "0x1", "hash": "", "category": "erc721", "erc721TokenId": "0x1"},
	      {"fromAddress": "bad", "toAddress": "0x2222222222222222222222222222222222222222", "blockNum": "0x1", "hash": "0x01", "category": "erc721", "erc721TokenId": "0x1"},
	      {"fromAddress": "0x1111111111111111111111111111111111111111", "toAddress": "0x2222222222222222222222222222222222222222", "blockNum": "zz", "hash": "0x02", "category": "erc721", "erc721TokenId": "0x1"},
	      {"fromAddress": "0x1111111111111111111111111111111111111111", "toAddress": "0x2222222222222222222222222222222222222222", "blockNum": "0x1", "hash": "0x03", "category": "erc20"},
	      {"fromAddress": "0x1111111111111111111111111111111111111111", "toAddress": "0x2222222222222222222222222222222222222222", "blockNum": "0x5", "hash": "0x04", "category": "erc1155", "erc1155Metadata": [{"tokenId": "0x7", "value": "0x1"}]}
	    ]
	  }
	}`

	n, err := Decode([]byte(body), receivedAt)
	require.NoError(t, err)

	events, skipped := n.Transfers()
	require.Len(t, events, 1)
	assert.Equal(t, "0x04_0x7", events[0].ID)
	assert.Nil(t, events[0].TokenAddress)
	// no createdAt and no log timestamp
	assert.Equal(t, receivedAt.Unix(), events[0].BlockTimestamp)

	require.Len(t, skipped, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, []int{skipped[0].Index, skipped[1].Index, skipped[2].Index, skipped[3].Index})
}

func TestTransfers_ReportsBadERC1155Entries(t *testing.T) {
	t.Run("activity layout", func(t *testing.T) {
		body := `{
		  "event": {
		    "network": "ETH_MAINNET",
		    "source": "chainlake-kafka",
		    "activity": [
		      {"fromAddress": "0x1111111111111111111111111111111111111111", "toAddress": "0x2222222222222222222222222222222222222222", "blockNum": "0x1", "hash": "0x01", "category": "erc721", "erc721TokenId": "0x1"},
		      {"fromAddress": "0x1111111111111111111111111111111111111111", "toAddress": "0x2222222222222222222222222222222222222222", "blockNum": "0x5", "hash": "0x05", "category": "erc1155", "erc1155Metadata": [{"tokenId": "0x7", "value": "0x1"}, {"tokenId": "zz", "value": "0x1"}]}
		    ]
		  }
		}`

		n, err := Decode([]byte(body), receivedAt)
		require.NoError(t, err)

		events, skipped := n.Transfers()
		require.Len(t, events, 2)
		assert.Equal(t, "0x05_0x7", events[1].ID)
		assert.Equal(t, int64(7), events[1].TokenID)

		require.Len(t, skipped, 1)
		assert.Equal(t, 1, skipped[0].Index)
		assert.Contains(t, skipped[0].Reason, "erc1155Metadata[1].tokenId")
	})

	t.Run("log layout", func(t *testing.T) {
		body := `{
		  "event": {
		    "fromAddress": "0x1111111111111111111111111111111111111111",
		    "toAddress": "0x2222222222222222222222222222222222222222",
		    "category": "erc1155",
		    "erc1155Metadata": [{"tokenId": "0xzz", "value": "0x1"}, {"tokenId": "0x2a", "value": "0x1"}],
		    "log": {"blockNumber": "0x10", "transactionHash": "0xabc", "logIndex": "0x0"}
		  }
		}`

		n, err := Decode([]byte(body), receivedAt)
		require.NoError(t, err)

		events, skipped := n.Transfers()
		require.Len(t, events, 1)
		assert.Equal(t, "0xabc_0x2a", events[0].ID)

		require.Len(t, skipped, 1)
		assert.Contains(t, skipped[0].Reason, "erc1155Metadata[0].tokenId")
	})

	t.Run("every entry invalid", func(t *testing.T) {
		body := `{
		  "event": {
		    "fromAddress": "0x1111111111111111111111111111111111111111",
		    "toAddress": "0x2222222222222222222222222222222222222222",
		    "category": "erc1155",
		    "erc1155Metadata": [{"tokenId": "x"}, {"tokenId": ""}],
		    "log": {"blockNumber": "0x10", "transactionHash": "0xabc", "logIndex": "0x0"}
		  }
		}`

		n, err := Decode([]byte(body), receivedAt)
		require.NoError(t, err)

		events, skipped := n.Transfers()
		assert.Empty(t, events)
		assert.Len(t, skipped, 2)
	})
}

func TestAuditRecord(t *testing.T) {
	t.Run("log layout", func(t *testing.T) {
		n, err := Decode([]byte(logERC1155Payload), receivedAt)
		require.NoError(t, err)

		r := n.AuditRecord()
		assert.Equal(t, "0xabc_0x2", r.ID)
		assert.Equal(t, domain.WEBHOOK_AUDIT_FROM, r.From)
		assert.Equal(t, domain.WEBHOOK_AUDIT_TO, r.To)
		assert.Equal(t, int64(0), r.TokenID)
		assert.Equal(t, int64(16), r.BlockNumber)
		assert.Nil(t, r.TokenAddress)
	})

	t.Run("activity layout", func(t *testing.T) {
		n, err := Decode([]byte(activityPayload), receivedAt)
		require.NoError(t, err)

		r := n.AuditRecord()
		assert.Equal(t, "webhook_whevt_6fsjjfawxlj6fw96", r.ID)
		assert.Equal(t, "0xe038710d64121951b29bf846680cbc38f47b752b23160ca6ddd88c550f7f30fc", r.TransactionHash)
		assert.Equal(t, int64(9282423), r.BlockNumber)
	})

	t.Run("activity layout without id", func(t *testing.T) {
		n, err := Decode([]byte(`{"event":{"network":"ETH_MAINNET","source":"s","activity":[]}}`), receivedAt)
		require.NoError(t, err)

		first := n.AuditRecord()
		second := n.AuditRecord()
		assert.Regexp(t, `^webhook_[0-9A-Z]{26}$`, first.ID)
		assert.NotEqual(t, first.ID, second.ID)
	})
}
