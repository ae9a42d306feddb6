package renderer

import (
	"bytes"
	"io"

	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// percent formats a percentage with one decimal.
func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// orDash returns "-" for empty cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
