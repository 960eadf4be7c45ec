package mongostore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func TestDisconnectIsIdempotent(t *testing.T) {
	ctx := context.Background()

	// The driver dials lazily, so a client exists without a live server.
	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://127.0.0.1:27017"))
	require.NoError(t, err)

	s := &Store{client: client, db: client.Database("test"), log: zap.NewNop()}

	require.NoError(t, s.Disconnect(ctx))
	assert.Nil(t, s.client)
	assert.Nil(t, s.db)

	require.NoError(t, s.Disconnect(ctx))
}

func TestDisconnectBeforeConnect(t *testing.T) {
	s := &Store{log: zap.NewNop()}
	require.NoError(t, s.Disconnect(context.Background()))
}
