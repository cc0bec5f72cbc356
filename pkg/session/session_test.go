package session

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

func randomPosition(t *testing.T, random *rand.Rand) uttt.Position {
	t.Helper()
	pos := uttt.NewPosition()
	plies := random.Intn(40)
	for i := 0; i < plies && !pos.IsTerminated(); i++ {
		moves := pos.LegalMoves()
		pos = pos.MakeMove(moves[random.Intn(len(moves))])
	}

	// Sometimes move the cursor back
	if len(pos.History) > 1 && random.Intn(2) == 0 {
		var err error
		pos, err = pos.Traverse(random.Intn(len(pos.History)))
		require.NoError(t, err)
	}
	return pos
}

func TestSnapshot(t *testing.T) {
	pos := uttt.NewPosition().
		MakeMove(uttt.NewMove(4, 4)).
		MakeMove(uttt.NewMove(4, 0))

	snap, err := NewSnapshot(pos)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Root: uttt.StartingPosition, Moves: []string{"B2b2", "B2a3"}, Cursor: 2}, snap)

	restored, err := snap.Restore()
	require.NoError(t, err)
	assert.Equal(t, pos, restored)

	_, err = NewSnapshot(uttt.Position{})
	assert.ErrorIs(t, err, uttt.ErrEmptyGame)
}

func TestSnapshotRestoreErrors(t *testing.T) {
	tests := []struct {
		name  string
		snap  Snapshot
		check func(t *testing.T, err error)
	}{
		{"bad root", Snapshot{Root: "9/9 x -"}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, uttt.ErrFormat)
		}},
		{"bad token", Snapshot{Root: uttt.StartingPosition, Moves: []string{"B2b2", "?"}, Cursor: 2}, func(t *testing.T, err error) {
			var notationErr *uttt.InvalidNotationError
			require.ErrorAs(t, err, &notationErr)
			assert.Equal(t, 2, notationErr.Ply)
		}},
		{"illegal move", Snapshot{Root: uttt.StartingPosition, Moves: []string{"B2b2", "B2b2"}, Cursor: 2}, func(t *testing.T, err error) {
			var moveErr *uttt.InvalidMoveError
			require.ErrorAs(t, err, &moveErr)
			assert.Equal(t, uttt.ViolationOccupied, moveErr.Reason)
		}},
		{"bad cursor", Snapshot{Root: uttt.StartingPosition, Moves: []string{"B2b2"}, Cursor: 5}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, uttt.ErrHistoryIndex)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.snap.Restore()
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func testStore(t *testing.T, store Store) {
	ctx := context.Background()
	random := rand.New(rand.NewSource(9))

	for i := 0; i < 20; i++ {
		pos := randomPosition(t, random)
		id, err := store.Save(ctx, pos)
		require.NoError(t, err)

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		require.Equal(t, pos, loaded)

		require.NoError(t, store.Delete(ctx, id))
		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, id), ErrNotFound)
	}

	// Setup positions keep their root
	setup, err := uttt.FromNotation("9/9/9/9/4x4/9/9/9/9 o 4")
	require.NoError(t, err)
	setup = setup.MakeMove(uttt.NewMove(4, 0))

	id, err := store.Save(ctx, setup)
	require.NoError(t, err)
	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, setup, loaded)
	assert.Equal(t, "9/9/9/9/4x4/9/9/9/9 o 4", loaded.RootNotation())

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(0))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	id, err := store.Save(context.Background(), uttt.NewPosition())
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = store.Load(context.Background(), id)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Load(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("UTTT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("UTTT_TEST_REDIS_ADDR not set")
	}

	client, err := DialRedis(context.Background(), addr)
	require.NoError(t, err)
	defer client.Close()

	testStore(t, NewRedisStore(client, time.Minute, nil))
}
