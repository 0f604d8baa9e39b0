package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a money amount as "$1,234.56".
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	intPart = groupThousands(intPart)

	if neg {
		return fmt.Sprintf("-$%s.%s", intPart, fracPart)
	}
	return fmt.Sprintf("$%s.%s", intPart, fracPart)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseItemLine parses a "PID, QTY" line into a product id and quantity.
func ParseItemLine(line string) (int64, int, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("use format: 1, 5")
	}

	pid, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("use format: 1, 5")
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("use format: 1, 5")
	}
	return pid, qty, nil
}
