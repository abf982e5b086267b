package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/blackcheck/black-check-api/internal/domain"
)

// Kind discriminates the two notification layouts
type Kind string

const (
	// KindActivity is the batched layout: event.network, event.source and event.activity
	KindActivity Kind = "activity"
	// KindLog is the single-log layout: event.log with erc721/erc1155 token fields
	KindLog Kind = "log"
)

// Notification is a decoded and validated webhook notification
type Notification struct {
	Kind       Kind
	Payload    Payload
	ReceivedAt time.Time
}

// SkippedItem records an activity item that produced no transfer
type SkippedItem struct {
	Index  int
	Reason string
}

// Decode parses a webhook body and resolves its layout.
// The activity layout wins when network, source and activity are all present;
// otherwise the log layout is required.
func Decode(body []byte, receivedAt time.Time) (*Notification, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if p.Event == nil {
		return nil, ErrMissingEvent
	}

	n := &Notification{Payload: p, ReceivedAt: receivedAt}
	if p.Event.Network != "" && p.Event.Source != "" && p.Event.Activity != nil {
		n.Kind = KindActivity
		return n, nil
	}

	if p.Event.Log == nil {
		return nil, ErrMissingLog
	}
	if p.Event.Log.TransactionHash == "" {
		return nil, ErrMissingTransactionHash
	}
	n.Kind = KindLog
	return n, nil
}

// Type returns the notification type, e.g. NFT_ACTIVITY
func (n *Notification) Type() string {
	return n.Payload.Type
}

// Timestamp returns createdAt in unix seconds, or the receive time when createdAt is unusable
func (n *Notification) Timestamp() int64 {
	if t, err := time.Parse(time.RFC3339Nano, n.Payload.CreatedAt); err == nil {
		return t.UnixMilli() / 1000
	}
	return n.ReceivedAt.Unix()
}

// Transfers converts the notification into canonical transfer events.
// Items that cannot be converted are reported as skipped and do not affect the others.
func (n *Notification) Transfers() ([]domain.TransferEvent, []SkippedItem) {
	switch n.Kind {
	case KindActivity:
		return n.activityTransfers()
	case KindLog:
		return n.logTransfers()
	default:
		return nil, nil
	}
}

func (n *Notification) activityTransfers() ([]domain.TransferEvent, []SkippedItem) {
	var (
		events  []domain.TransferEvent
		skipped []SkippedItem
	)

	createdAt := n.Timestamp()
	for i, a := range n.Payload.Event.Activity {
		skip := func(reason string) {
			skipped = append(skipped, SkippedItem{Index: i, Reason: reason})
		}

		if a.Hash == "" {
			skip("missing hash")
			continue
		}
		if !domain.IsValidAddress(a.FromAddress) || !domain.IsValidAddress(a.ToAddress) {
			skip("invalid from/to address")
			continue
		}
		blockNumber, err := domain.ParseInt64Quantity(a.BlockNum)
		if err != nil {
			skip(fmt.Sprintf("invalid blockNum: %v", err))
			continue
		}

		timestamp := createdAt
		if a.Log != nil && a.Log.BlockTimestamp != "" {
			if ts, err := domain.ParseInt64Quantity(a.Log.BlockTimestamp); err == nil {
				timestamp = ts
			}
		}

		contract := a.ContractAddress
		if contract == "" && a.Log != nil {
			contract = a.Log.Address
		}

		base := domain.TransferEvent{
			From:            domain.NormalizeAddress(a.FromAddress),
			To:              domain.NormalizeAddress(a.ToAddress),
			TokenAddress:    optionalAddress(contract),
			BlockNumber:     blockNumber,
			BlockTimestamp:  timestamp,
			TransactionHash: a.Hash,
		}

		refs, problems := activityTokenRefs(a.Category, a.ERC721TokenID, a.ERC1155Metadata)
		for _, reason := range problems {
			skip(reason)
		}
		for _, ref := range refs {
			e := base
			e.TokenID = ref.id
			e.ID = domain.TransferID(a.Hash, ref.raw)
			events = append(events, e)
		}
	}

	return events, skipped
}

func (n *Notification) logTransfers() ([]domain.TransferEvent, []SkippedItem) {
	ev := n.Payload.Event
	log := ev.Log

	if !domain.IsValidAddress(ev.FromAddress) || !domain.IsValidAddress(ev.ToAddress) {
		return nil, []SkippedItem{{Reason: "invalid from/to address"}}
	}
	blockNumber, err := domain.ParseInt64Quantity(log.BlockNumber)
	if err != nil {
		return nil, []SkippedItem{{Reason: fmt.Sprintf("invalid log.blockNumber: %v", err)}}
	}

	base := domain.TransferEvent{
		From:            domain.NormalizeAddress(ev.FromAddress),
		To:              domain.NormalizeAddress(ev.ToAddress),
		TokenAddress:    optionalAddress(log.Address),
		BlockNumber:     blockNumber,
		BlockTimestamp:  n.Timestamp(),
		TransactionHash: log.TransactionHash,
	}

	refs, problems := activityTokenRefs(ev.Category, ev.ERC721TokenID, ev.ERC1155Metadata)
	var skipped []SkippedItem
	for _, reason := range problems {
		skipped = append(skipped, SkippedItem{Reason: reason})
	}

	events := make([]domain.TransferEvent, 0, len(refs))
	for _, ref := range refs {
		e := base
		e.TokenID = ref.id
		e.ID = domain.TransferID(log.TransactionHash, ref.raw)
		events = append(events, e)
	}
	return events, skipped
}

// tokenRef is a parsed token id together with the provider's own spelling of it,
// which transfer ids are built from.
type tokenRef struct {
	id  int64
	raw string
}

// activityTokenRefs returns one ref per erc1155 entry, or the single erc721 token id.
// Every entry that cannot be used yields a reason; valid entries are still returned.
func activityTokenRefs(category string, erc721TokenID string, erc1155 []ERC1155Amount) ([]tokenRef, []string) {
	switch strings.ToLower(category) {
	case CategoryERC1155:
		if len(erc1155) == 0 {
			return nil, []string{"missing erc1155Metadata"}
		}
		var (
			refs     []tokenRef
			problems []string
		)
		for j, m := range erc1155 {
			id, err := domain.ParseInt64Quantity(m.TokenID)
			if err != nil {
				problems = append(problems, fmt.Sprintf("invalid erc1155Metadata[%d].tokenId: %v", j, err))
				continue
			}
			refs = append(refs, tokenRef{id: id, raw: strings.TrimSpace(m.TokenID)})
		}
		return refs, problems
	case CategoryERC721:
		id, err := domain.ParseInt64Quantity(erc721TokenID)
		if err != nil {
			return nil, []string{fmt.Sprintf("invalid erc721TokenId: %v", err)}
		}
		return []tokenRef{{id: id, raw: strings.TrimSpace(erc721TokenID)}}, nil
	default:
		return nil, []string{fmt.Sprintf("unsupported category %q", category)}
	}
}

// AuditRecord returns the raw delivery trace row stored next to the transfers.
// Log notifications use {txHash}_{logIndex}; activity notifications use the
// provider event id, or a fresh ULID when the provider sent none.
func (n *Notification) AuditRecord() domain.TransferEvent {
	record := domain.TransferEvent{
		From:           domain.WEBHOOK_AUDIT_FROM,
		To:             domain.WEBHOOK_AUDIT_TO,
		BlockTimestamp: n.Timestamp(),
	}

	switch n.Kind {
	case KindLog:
		log := n.Payload.Event.Log
		record.ID = domain.TransferID(log.TransactionHash, log.LogIndex)
		record.TransactionHash = log.TransactionHash
		record.BlockNumber, _ = domain.ParseInt64Quantity(log.BlockNumber)
	default:
		eventID := n.Payload.ID
		if eventID == "" {
			eventID = ulid.Make().String()
		}
		record.ID = "webhook_" + eventID
		if activity := n.Payload.Event.Activity; len(activity) > 0 {
			record.TransactionHash = activity[0].Hash
			record.BlockNumber, _ = domain.ParseInt64Quantity(activity[0].BlockNum)
		}
	}

	return record
}

func optionalAddress(address string) *string {
	if !domain.IsValidAddress(address) {
		return nil
	}
	a := domain.NormalizeAddress(address)
	return &a
}
