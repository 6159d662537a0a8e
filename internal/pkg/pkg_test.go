package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Movie Night":          "movie-night",
		"  Friday   Horror  ":  "friday-horror",
		"SciFi\tClub":          "scifi-club",
		"already-slugged":      "already-slugged",
		"Ünïcode Fans":         "ünïcode-fans",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestRandInviteCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := RandInviteCode()
		require.NoError(t, err)
		assert.Len(t, code, InviteCodeLength)
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestTokenManagerRoundTrip(t *testing.T) {
	m := NewTokenManager("a", "r", time.Minute, time.Hour)

	pair, err := m.GeneratePair(42)
	require.NoError(t, err)

	claims, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.NotEmpty(t, claims.ID)

	refresh, err := m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), refresh.UserID)

	// tokens are not interchangeable
	_, err = m.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
	_, err = m.ParseRefresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManagerExpired(t *testing.T) {
	m := NewTokenManager("a", "r", time.Nanosecond, time.Hour)
	pair, err := m.GeneratePair(1)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestInviteHTMLEscapes(t *testing.T) {
	out := InviteHTML("<b>x</b>", "Movie Night", "http://app/join?code=abc", "abc")
	assert.NotContains(t, out, "<b>x</b>")
	assert.Contains(t, out, "Movie Night")
	assert.Contains(t, out, "abc")
}

func TestNewActivityPublisherNeedsBrokers(t *testing.T) {
	_, err := NewActivityPublisher(KafkaConfig{Topic: "t"})
	assert.ErrorIs(t, err, ErrNoBrokers)

	p, err := NewActivityPublisher(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "t"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestActivityMessageKeyAndHeader(t *testing.T) {
	at := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	msg := toKafkaMessage(ActivityMessage{Key: 7, EventType: "media.rated", Payload: []byte(`{"rating":4}`), At: at})

	assert.Equal(t, "7", string(msg.Key))
	assert.JSONEq(t, `{"rating":4}`, string(msg.Value))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "media.rated", string(msg.Headers[0].Value))
}
