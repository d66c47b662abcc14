package outbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Outbox {
	t.Helper()
	ob, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ob.Close() })
	return ob
}

func TestPutAndGet(t *testing.T) {
	ob := openTemp(t)

	require.NoError(t, ob.Put(1, []byte("payload-1")))
	rec, err := ob.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rec.Seq)
	assert.Equal(t, StateNew, rec.State)
	assert.Equal(t, uint32(0), rec.Retries)
	assert.Equal(t, []byte("payload-1"), rec.Payload)

	_, err = ob.Get(2)
	assert.Error(t, err)
}

func TestStateTransitions(t *testing.T) {
	ob := openTemp(t)
	require.NoError(t, ob.Put(7, []byte("q")))

	require.NoError(t, ob.MarkSent(7, 1000))
	rec, err := ob.Get(7)
	require.NoError(t, err)
	assert.Equal(t, StateSent, rec.State)
	assert.Equal(t, uint32(1), rec.Retries)
	assert.Equal(t, int64(1000), rec.LastAttempt)

	require.NoError(t, ob.MarkFailed(7, 2000))
	rec, err = ob.Get(7)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, rec.State)
	assert.Equal(t, int64(2000), rec.LastAttempt)

	require.NoError(t, ob.MarkSent(7, 3000))
	require.NoError(t, ob.MarkAcked(7))
	rec, err = ob.Get(7)
	require.NoError(t, err)
	assert.Equal(t, StateAcked, rec.State)
	assert.Equal(t, uint32(2), rec.Retries)
	assert.Equal(t, []byte("q"), rec.Payload)
}

func TestScanPendingSkipsAcked(t *testing.T) {
	ob := openTemp(t)
	for seq := uint64(1); seq <= 5; seq++ {
		require.NoError(t, ob.Put(seq, []byte{byte(seq)}))
	}
	require.NoError(t, ob.MarkSent(2, 10))
	require.NoError(t, ob.MarkAcked(2))
	require.NoError(t, ob.MarkSent(4, 10))
	require.NoError(t, ob.MarkAcked(4))

	var seen []uint64
	require.NoError(t, ob.ScanPending(func(r *Record) error {
		seen = append(seen, r.Seq)
		return nil
	}))
	assert.Equal(t, []uint64{1, 3, 5}, seen)
}

func TestMaxSeq(t *testing.T) {
	ob := openTemp(t)

	seq, err := ob.MaxSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), seq)

	require.NoError(t, ob.Put(3, []byte("a")))
	require.NoError(t, ob.Put(12, []byte("b")))
	require.NoError(t, ob.Put(7, []byte("c")))

	seq, err = ob.MaxSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(12), seq)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "NEW", StateNew.String())
	assert.Equal(t, "SENT", StateSent.String())
	assert.Equal(t, "ACKED", StateAcked.String())
	assert.Equal(t, "FAILED", StateFailed.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}
