package webhook

// Notification types sent by the provider
const (
	TypeNFTActivity = "NFT_ACTIVITY"
)

// Token categories
const (
	CategoryERC721  = "erc721"
	CategoryERC1155 = "erc1155"
)

// Payload is the raw NFT activity notification body.
// Event carries the fields of both the log-based and the activity-batch layouts.
type Payload struct {
	WebhookID string `json:"webhookId"`
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	Type      string `json:"type"`
	Event     *Event `json:"event"`
}

// Event is the notification event
type Event struct {
	// Activity batch layout
	Network  string     `json:"network,omitempty"`
	Source   string     `json:"source,omitempty"`
	Activity []Activity `json:"activity,omitempty"`

	// Log-based layout
	Category        string          `json:"category,omitempty"`
	FromAddress     string          `json:"fromAddress,omitempty"`
	ToAddress       string          `json:"toAddress,omitempty"`
	ERC721TokenID   string          `json:"erc721TokenId,omitempty"`
	ERC1155Metadata []ERC1155Amount `json:"erc1155Metadata,omitempty"`
	Log             *Log            `json:"log,omitempty"`
}

// Activity is a single transfer of the activity batch layout
type Activity struct {
	FromAddress     string          `json:"fromAddress"`
	ToAddress       string          `json:"toAddress"`
	ContractAddress string          `json:"contractAddress"`
	BlockNum        string          `json:"blockNum"`
	Hash            string          `json:"hash"`
	ERC721TokenID   string          `json:"erc721TokenId,omitempty"`
	ERC1155Metadata []ERC1155Amount `json:"erc1155Metadata,omitempty"`
	Category        string          `json:"category"`
	Log             *Log            `json:"log,omitempty"`
}

// ERC1155Amount is one token id and amount of an ERC-1155 transfer
type ERC1155Amount struct {
	TokenID string `json:"tokenId"`
	Value   string `json:"value"`
}

// Log is the raw event log
type Log struct {
	Address          string   `json:"address"`
	Topics           []string `json:"topics"`
	Data             string   `json:"data"`
	BlockHash        string   `json:"blockHash"`
	BlockNumber      string   `json:"blockNumber"`
	BlockTimestamp   string   `json:"blockTimestamp,omitempty"`
	TransactionHash  string   `json:"transactionHash"`
	TransactionIndex string   `json:"transactionIndex"`
	LogIndex         string   `json:"logIndex"`
	Removed          bool     `json:"removed"`
}
