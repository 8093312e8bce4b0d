package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	documentID  int64
	requestedBy string
	err         error
}

func (f *fakeResolver) ResolveDocumentForJob(ctx context.Context, documentID int64, requestedBy string) error {
	f.documentID = documentID
	f.requestedBy = requestedBy
	return f.err
}

func TestNewResolveDocumentTask(t *testing.T) {
	task, err := NewResolveDocumentTask(42, "buyer@tottus.pe")
	require.NoError(t, err)
	assert.Equal(t, TaskResolveDocument, task.Type())

	var p ResolveDocumentPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, int64(42), p.DocumentID)
	assert.Equal(t, "buyer@tottus.pe", p.RequestedBy)
}

func TestMuxDispatchesResolveTask(t *testing.T) {
	resolver := &fakeResolver{}
	log := zerolog.Nop()
	mux := NewMux(&log, resolver)

	task, err := NewResolveDocumentTask(7, "buyer@tottus.pe")
	require.NoError(t, err)

	require.NoError(t, mux.ProcessTask(context.Background(), task))
	assert.Equal(t, int64(7), resolver.documentID)
	assert.Equal(t, "buyer@tottus.pe", resolver.requestedBy)
}

func TestMuxPropagatesResolverError(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("resolution failed")}
	log := zerolog.Nop()
	mux := NewMux(&log, resolver)

	task, err := NewResolveDocumentTask(7, "buyer@tottus.pe")
	require.NoError(t, err)

	assert.Error(t, mux.ProcessTask(context.Background(), task))
}
