package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Alchemy base URLs for the NFT API, keyed by network
	DEFAULT_ALCHEMY_MAINNET_URL = "https://eth-mainnet.g.alchemy.com/nft/v2"
	DEFAULT_ALCHEMY_SEPOLIA_URL = "https://eth-sepolia.g.alchemy.com/nft/v2"

	// Known deployments
	MAINNET_CHECKS_ORIGINALS   = "0x036721e5a769cc48b3189efbb9cce4471e8a48b1"
	MAINNET_CHECKS_EDITIONS    = "0x34eebee6942d8def3c125458d1a86e0a897fd6f9"
	SEPOLIA_AGGREGATOR_ADDRESS = "0x6140f00e4ff3936702e68744f2b5978885464cbb"
	SEPOLIA_CHECKS_COLLECTION  = "0x57d74ff9303283cd19461c80e90e6ae59222675c"

	// Feed
	DEFAULT_FEED_PAGE_SIZE = 50

	// Audit rows written alongside webhook transfers
	WEBHOOK_AUDIT_FROM = "webhook"
	WEBHOOK_AUDIT_TO   = "system"
)
