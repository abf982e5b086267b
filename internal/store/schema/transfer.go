package schema

import "github.com/blackcheck/black-check-api/internal/domain"

// Transfer represents the "Transfer" table - one row per on-chain NFT transfer,
// plus audit rows recording raw webhook deliveries (from="webhook", to="system")
type Transfer struct {
	// ID is {transactionHash}_{tokenId}, {transactionHash}_{logIndex} or a synthetic webhook id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// TokenID is the NFT token id; 0 for rows that carry no token
	TokenID int64 `gorm:"column:token_id;not null;default:0"`
	// From is the lowercase sender address; the zero address marks a mint
	From string `gorm:"column:from;not null;type:text"`
	// To is the lowercase recipient address
	To string `gorm:"column:to;not null;type:text"`
	// TokenAddress is the contract the token belongs to
	TokenAddress *string `gorm:"column:token_address;type:text"`
	// BlockNumber is the chain height the transfer was mined at
	BlockNumber int64 `gorm:"column:block_number;not null;default:0"`
	// BlockTimestamp is in unix seconds
	BlockTimestamp int64 `gorm:"column:block_timestamp;not null;default:0"`
	// TransactionHash is the hex transaction hash
	TransactionHash string `gorm:"column:transaction_hash;not null;type:text"`
}

// TableName specifies the table name for the Transfer model
func (Transfer) TableName() string {
	return "Transfer"
}

// NewTransfer maps a canonical transfer event to its row
func NewTransfer(e domain.TransferEvent) Transfer {
	return Transfer{
		ID:              e.ID,
		TokenID:         e.TokenID,
		From:            e.From,
		To:              e.To,
		TokenAddress:    e.TokenAddress,
		BlockNumber:     e.BlockNumber,
		BlockTimestamp:  e.BlockTimestamp,
		TransactionHash: e.TransactionHash,
	}
}

// Event maps the row back to a canonical transfer event
func (t Transfer) Event() domain.TransferEvent {
	return domain.TransferEvent{
		ID:              t.ID,
		TokenID:         t.TokenID,
		From:            t.From,
		To:              t.To,
		TokenAddress:    t.TokenAddress,
		BlockNumber:     t.BlockNumber,
		BlockTimestamp:  t.BlockTimestamp,
		TransactionHash: t.TransactionHash,
	}
}
