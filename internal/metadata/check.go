package metadata

import (
	"strings"

	"github.com/blackcheck/black-check-api/internal/domain"
	"github.com/blackcheck/black-check-api/internal/providers/alchemy"
	"github.com/blackcheck/black-check-api/internal/providers/opensea"
)

// CheckMetadata is the display metadata of one token
type CheckMetadata struct {
	Identifier      string                 `json:"identifier"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	ImageURL        string                 `json:"image_url"`
	DisplayImageURL string                 `json:"display_image_url"`
	Collection      string                 `json:"collection"`
	Contract        string                 `json:"contract"`
	TokenStandard   string                 `json:"token_standard"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// FromAlchemy maps an Alchemy NFT. Name falls back to "#<id>" and the image to the raw media URL.
func FromAlchemy(nft *alchemy.NFT) *CheckMetadata {
	id := nft.DecimalTokenID()

	name := nft.Title
	if name == "" {
		name = "#" + id
	}

	var image string
	if len(nft.Media) > 0 {
		image = nft.Media[0].Gateway
		if image == "" {
			image = nft.Media[0].Raw
		}
	}

	collection := nft.Contract.Name
	tokenStandard := nft.TokenType
	if nft.ID.TokenMetadata != nil && nft.ID.TokenMetadata.TokenType != "" {
		tokenStandard = nft.ID.TokenMetadata.TokenType
	}
	if nft.ContractMetadata != nil {
		if collection == "" {
			collection = nft.ContractMetadata.Name
		}
		if tokenStandard == "" {
			tokenStandard = nft.ContractMetadata.TokenType
		}
	}

	meta := nft.Metadata
	if meta == nil {
		meta = map[string]interface{}{}
	}

	return &CheckMetadata{
		Identifier:      id,
		Name:            name,
		Description:     nft.DescriptionText(),
		ImageURL:        image,
		DisplayImageURL: image,
		Collection:      collection,
		Contract:        domain.NormalizeAddress(nft.Contract.Address),
		TokenStandard:   tokenStandard,
		Metadata:        meta,
	}
}

// FromOpenSea maps an OpenSea NFT, with traits as the metadata blob
func FromOpenSea(nft *opensea.NFTMetadata) *CheckMetadata {
	m := &CheckMetadata{
		Identifier:    nft.Identifier,
		Name:          "#" + nft.Identifier,
		Collection:    nft.Collection,
		Contract:      domain.NormalizeAddress(nft.Contract),
		TokenStandard: strings.ToUpper(nft.TokenStandard),
		Metadata:      opensea.TraitMap(nft.Traits),
	}
	if nft.Name != nil && *nft.Name != "" {
		m.Name = *nft.Name
	}
	if nft.Description != nil {
		m.Description = *nft.Description
	}
	if nft.ImageURL != nil {
		m.ImageURL = *nft.ImageURL
	}
	m.DisplayImageURL = m.ImageURL
	if nft.DisplayImageURL != nil && *nft.DisplayImageURL != "" {
		m.DisplayImageURL = *nft.DisplayImageURL
	}
	return m
}
