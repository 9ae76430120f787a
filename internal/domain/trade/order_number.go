package trade

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/lastikpazari/backend/internal/domain/shared/valueobject"
)

// DefaultOrderNumberPrefix is used when no prefix is configured
const DefaultOrderNumberPrefix = "LP"

// suffix alphabet without 0/O and 1/I, which customers misread on the phone
const orderNumberAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const orderNumberSuffixLen = 6

// NewOrderNumber builds prefix + YYYYMMDD + "-" + random suffix,
// e.g. LP20261019-7QK2ZD. The date is taken in Istanbul time.
func NewOrderNumber(prefix string, now time.Time) (string, error) {
	if prefix == "" {
		prefix = DefaultOrderNumberPrefix
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(now.In(valueobject.Istanbul).Format("20060102"))
	b.WriteByte('-')

	max := big.NewInt(int64(len(orderNumberAlphabet)))
	for range orderNumberSuffixLen {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(orderNumberAlphabet[n.Int64()])
	}
	return b.String(), nil
}
