package export

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	onesWords = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tensWords = []string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
)

// indianGroups lists the Indian numbering groups, largest first.
var indianGroups = []struct {
	size int64
	name string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
}

// NumberToWords spells an amount in rupees and paise using the Indian
// numbering system, e.g. "One Lakh Five Rupees and Ten Paise Only".
// The amount is rounded to two decimals first; zero yields "Zero".
func NumberToWords(amount decimal.Decimal) string {
	rounded := amount.Abs().Round(2)
	if rounded.IsZero() {
		return "Zero"
	}

	rupees := rounded.Truncate(0)
	paise := rounded.Sub(rupees).Mul(decimal.NewFromInt(100)).IntPart()

	words := strings.TrimSpace(spellIndian(rupees.IntPart()) + " Rupees")
	if paise > 0 {
		words += " and " + spellHundreds(paise) + " Paise"
	}
	return words + " Only"
}

// spellIndian spells n with Crore/Lakh/Thousand grouping. Crore counts above
// 99 are themselves spelled with the same grouping.
func spellIndian(n int64) string {
	var parts []string
	for _, g := range indianGroups {
		if n >= g.size {
			parts = append(parts, spellIndian(n/g.size), g.name)
			n %= g.size
		}
	}
	if n > 0 {
		parts = append(parts, spellHundreds(n))
	}
	return strings.Join(parts, " ")
}

// spellHundreds spells 0 < n < 1000.
func spellHundreds(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, onesWords[n/100], "Hundred")
		n %= 100
	}
	if n >= 20 {
		parts = append(parts, tensWords[n/10])
		n %= 10
	}
	if n > 0 {
		parts = append(parts, onesWords[n])
	}
	return strings.Join(parts, " ")
}
