package sqlite

import (
	"context"
	"testing"
	"time"

	"solder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := NewTestSqliteStorage(t)

	// empty database yields a zero state, not an error
	state, err := storage.LoadSession(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Accounts)

	state = domain.SessionState{
		Accounts: []domain.Account{
			{Id: "acct_SIM-abc", Name: "alice", Simulated: true, Created: time.Now().UTC()},
		},
		SelectedAccount: "acct_SIM-abc",
		SelectedNetwork: "testnet",
	}
	require.NoError(t, storage.SaveSession(ctx, state))

	loaded, err := storage.LoadSession(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Accounts, 1)
	assert.Equal(t, "alice", loaded.Accounts[0].Name)
	assert.True(t, loaded.Accounts[0].Simulated)
	assert.Equal(t, "testnet", loaded.SelectedNetwork)
	assert.False(t, loaded.Updated.IsZero())

	// saving again replaces, not appends
	state.SelectedNetwork = "futurenet"
	require.NoError(t, storage.SaveSession(ctx, state))
	loaded, err = storage.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "futurenet", loaded.SelectedNetwork)
}

func TestDeployHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := NewTestSqliteStorage(t)

	contractId := "CABC123"
	records := []domain.DeployRecord{
		{Id: "deploy_1", ProjectName: "demo", Network: "testnet", Source: "alice", ContractId: &contractId, Created: time.Now().Add(-time.Hour)},
		{Id: "deploy_2", ProjectName: "demo", Network: "testnet", Source: "alice", ContractId: nil, Created: time.Now()},
		{Id: "deploy_3", ProjectName: "other", Network: "futurenet", Source: "bob", ContractId: nil, Created: time.Now()},
	}
	for _, record := range records {
		require.NoError(t, storage.PersistDeploy(ctx, record))
	}

	got, err := storage.GetDeploys(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// most recent first
	assert.Equal(t, "deploy_2", got[0].Id)
	assert.Nil(t, got[0].ContractId)
	assert.Equal(t, "deploy_1", got[1].Id)
	require.NotNil(t, got[1].ContractId)
	assert.Equal(t, "CABC123", *got[1].ContractId)

	got, err = storage.GetDeploys(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCheckConnection(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t)
	assert.NoError(t, storage.CheckConnection(context.Background()))
}
