package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/mastermind/internal/game"
)

// namespace scopes daily game IDs so they never collide with random ones.
var namespace = uuid.MustParse("6f1c2f4e-8a51-4a55-9a0c-2d7c3f9b7e10")

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Secret returns the deterministic daily code for date.
// Each position takes 8 bytes of an HMAC(salt, YYYY-MM-DD|position) stream
// modulo the vocabulary size.
func Secret(date time.Time, salt string, vocab []game.Peg, length int) game.Code {
	if len(vocab) == 0 || length <= 0 {
		return game.Code{}
	}
	dk := DateKey(date)
	out := make(game.Code, length)
	for i := range out {
		h := hmac.New(sha256.New, []byte(salt))
		h.Write([]byte(dk))
		h.Write([]byte{byte(i)})
		sum := h.Sum(nil)
		n := binary.BigEndian.Uint64(sum[:8])
		out[i] = vocab[n%uint64(len(vocab))]
	}
	return out
}

// GameID returns the stable game identifier of a player's daily game.
func GameID(userID, dateKey string) game.GameID {
	return game.GameID(uuid.NewSHA1(namespace, []byte(userID+"|"+dateKey)).String())
}
