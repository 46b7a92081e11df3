package rank

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Byte multipliers for size labels.
const (
	KiB int64 = 1 << (10 * (iota + 1))
	MiB
	GiB
	TiB
)

var sizeNumberRegex = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// sizeUnits is checked in order; the first unit token found wins.
var sizeUnits = []struct {
	token string
	mult  int64
}{
	{"TB", TiB},
	{"GB", GiB},
	{"MB", MiB},
	{"KB", KiB},
}

// SizeToBytes converts a human-readable size label such as "1.5 GB" or
// "700MB" into bytes. The first decimal number in the label is scaled by the
// first unit token found (TB, GB, MB, KB; case-insensitive, powers of 1024).
// A label without a unit is taken as raw bytes and a label without a number
// yields 0. It never fails.
func SizeToBytes(label string) int64 {
	num := sizeNumberRegex.FindString(label)
	if num == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", "."), 64)
	if err != nil {
		return 0
	}

	upper := strings.ToUpper(label)
	mult := int64(1)
	for _, u := range sizeUnits {
		if strings.Contains(upper, u.token) {
			mult = u.mult
			break
		}
	}
	return int64(math.Round(value * float64(mult)))
}
