package conduitx

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// idMaxAttempts bounds the rejection-sampling loop in NewID.
	idMaxAttempts = 100
	// idWarnAfter is the attempt count past which NewID logs a diagnostic.
	idWarnAfter = 10
)

// FallbackID is returned when idMaxAttempts consecutive encodings were
// rejected. It is the only identifier NewID may return that is not a
// base64 encoding.
const FallbackID = "fallback-id"

// newUUID is swappable in tests to drive the rejection path.
var newUUID = uuid.NewRandom

// NewID returns a short, URL- and filename-safe identifier: the raw bytes
// of a random 128-bit UUID, base64-encoded without padding. Encodings
// containing '+' or '/' are rejected and regenerated, at most
// idMaxAttempts times; if every attempt is rejected the fixed FallbackID
// is returned instead.
func NewID() string {
	for i := 1; i <= idMaxAttempts; i++ {
		u, err := newUUID()
		if err != nil {
			continue
		}
		enc := base64.RawStdEncoding.EncodeToString(u[:])
		if strings.ContainsAny(enc, "+/") {
			continue
		}
		if i > idWarnAfter {
			zap.S().Warnw("conduitx: id generation needed many attempts", "attempts", i)
		}
		return enc
	}
	zap.S().Warnw("conduitx: id generation exhausted attempts, using fallback", "attempts", idMaxAttempts)
	return FallbackID
}
