package webhook

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcheck/black-check-api/internal/domain"
	"github.com/blackcheck/black-check-api/internal/mocks"
)

type auditMatcher struct{ audit bool }

func (m auditMatcher) Matches(x interface{}) bool {
	e, ok := x.(domain.TransferEvent)
	return ok && (e.From == domain.WEBHOOK_AUDIT_FROM) == m.audit
}

func (m auditMatcher) String() string {
	if m.audit {
		return "is webhook audit record"
	}
	return "is transfer event"
}

func isAudit() gomock.Matcher    { return auditMatcher{audit: true} }
func isTransfer() gomock.Matcher { return auditMatcher{audit: false} }

func decode(t *testing.T, body string) *Notification {
	t.Helper()
	n, err := Decode([]byte(body), receivedAt)
	require.NoError(t, err)
	return n
}

func TestIngest_InsertsTransfersAndAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().InsertTransfer(gomock.Any(), isTransfer()).Return(true, nil).Times(2)
	store.EXPECT().InsertTransfer(gomock.Any(), isAudit()).Return(true, nil)

	result, err := NewIngestor(store).Ingest(context.Background(), decode(t, logERC1155Payload))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Duplicates)
	assert.Equal(t, KindLog, result.Kind)
}

func TestIngest_DuplicatesAreSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().InsertTransfer(gomock.Any(), isTransfer()).Return(false, nil)
	store.EXPECT().InsertTransfer(gomock.Any(), isAudit()).Return(false, nil)

	result, err := NewIngestor(store).Ingest(context.Background(), decode(t, activityPayload))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Duplicates)
}

func TestIngest_AllInsertsFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().InsertTransfer(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused")).Times(3)

	result, err := NewIngestor(store).Ingest(context.Background(), decode(t, logERC1155Payload))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 2, result.Failed)
}

func TestIngest_PartialFailureIsSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	gomock.InOrder(
		store.EXPECT().InsertTransfer(gomock.Any(), isTransfer()).Return(false, errors.New("timeout")),
		store.EXPECT().InsertTransfer(gomock.Any(), isTransfer()).Return(true, nil),
	)
	store.EXPECT().InsertTransfer(gomock.Any(), isAudit()).Return(true, nil)

	result, err := NewIngestor(store).Ingest(context.Background(), decode(t, logERC1155Payload))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Failed)
}

func TestIngest_AuditFailureIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().InsertTransfer(gomock.Any(), isTransfer()).Return(true, nil)
	store.EXPECT().InsertTransfer(gomock.Any(), isAudit()).Return(false, errors.New("boom"))

	result, err := NewIngestor(store).Ingest(context.Background(), decode(t, activityPayload))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
}

func TestIngest_OtherTypesOnlyAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().InsertTransfer(gomock.Any(), isAudit()).Return(true, nil)

	body := strings.Replace(activityPayload, `"NFT_ACTIVITY"`, `"ADDRESS_ACTIVITY"`, 1)
	result, err := NewIngestor(store).Ingest(context.Background(), decode(t, body))
	require.NoError(t, err)
	assert.Equal(t, "ADDRESS_ACTIVITY", result.Type)
	assert.Equal(t, 0, result.Inserted)
}

func TestIngest_NothingToWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().InsertTransfer(gomock.Any(), isAudit()).Return(true, nil)

	body := `{"type":"NFT_ACTIVITY","id":"x","event":{"network":"ETH_MAINNET","source":"s","activity":[{"hash":""}]}}`
	result, err := NewIngestor(store).Ingest(context.Background(), decode(t, body))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
}
