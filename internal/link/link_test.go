package link

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDMWithHandle(t *testing.T) {
	require.Equal(t, "https://t.me/alice", Build(123456, "alice", 42, DM))
}

func TestBuildDMWithoutHandle(t *testing.T) {
	require.Equal(t, "tg://user?id=123456", Build(123456, "", 42, DM))
}

func TestBuildChannelWithHandle(t *testing.T) {
	require.Equal(t, "https://t.me/mychannel/42", Build(-1001234567890, "mychannel", 42, Channel))
}

func TestBuildChannelWithoutHandle(t *testing.T) {
	// channel_id = 1001234567890 - 1000000000000 = 1234567890
	require.Equal(t, "tg://privatepost?channel=1234567890&post=42", Build(-1001234567890, "", 42, Channel))
}

func TestBuildGroupWithoutHandleSaturatesAtZero(t *testing.T) {
	require.Equal(t, "tg://privatepost?channel=0&post=1", Build(-123456, "", 1, Group))
}

func TestBuildSupergroupWithLargeID(t *testing.T) {
	require.Equal(t, "https://t.me/bigchat/999", Build(-1009999999999, "bigchat", 999, Supergroup))
}

func TestBuildPrivatePostPositiveDialogID(t *testing.T) {
	require.Equal(t, "tg://privatepost?channel=0&post=1", Build(12345, "", 1, Group))
}
