package libvb

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewItemID returns a new item identifier (millisecond timestamp followed by a random suffix).
func NewItemID() string {
	return strconv.FormatInt(UnixMillisecond(time.Now()), 10) + randomSuffix(9)
}

// NewBoardID returns a new board identifier.
func NewBoardID() string {
	return "board_" + strconv.FormatInt(UnixMillisecond(time.Now()), 36) + "_" + randomSuffix(7)
}

func randomSuffix(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}
