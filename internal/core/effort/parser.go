package effort

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Material is a commodity and a quantity, either required or delivered.
type Material struct {
	Commodity string
	Quantity  int
}

// ParseResult is the output of scanning a material block.
type ParseResult struct {
	// Materials holds one entry per commodity in order of first appearance.
	// A commodity named twice keeps the quantity of its last occurrence.
	Materials []Material
	// Skipped holds the trimmed text fragments that could not be read as a
	// commodity followed by a quantity.
	Skipped []string
}

// ParseMaterialBlock scans free text for "<commodity> <quantity>" pairs.
//
// A pair is a run of non-digit characters, a single whitespace character and
// a run of digits and commas ("Tritium 12,500"). The commodity is uppercased
// and trimmed, the quantity has its commas removed. Text that does not form a
// pair is reported in Skipped and never causes an error.
func ParseMaterialBlock(block string) ParseResult {
	var result ParseResult
	index := make(map[string]int)

	pos := 0
	consumed := 0
	for pos < len(block) {
		if isDigit(block[pos]) {
			pos++
			continue
		}

		runEnd := pos
		for runEnd < len(block) && !isDigit(block[runEnd]) {
			runEnd++
		}

		split, ok := findSplit(block, pos, runEnd)
		if !ok {
			pos = skipDigits(block, runEnd)
			continue
		}

		_, width := utf8.DecodeRuneInString(block[split:])
		qtyStart := split + width
		qtyEnd := qtyStart
		for qtyEnd < len(block) && (isDigit(block[qtyEnd]) || block[qtyEnd] == ',') {
			qtyEnd++
		}

		commodity := strings.ToUpper(strings.TrimSpace(block[pos:split]))
		quantity, err := strconv.Atoi(strings.ReplaceAll(block[qtyStart:qtyEnd], ",", ""))
		if commodity == "" || err != nil {
			pos = qtyEnd
			continue
		}

		if gap := strings.TrimSpace(block[consumed:pos]); gap != "" {
			result.Skipped = append(result.Skipped, gap)
		}
		consumed = qtyEnd
		pos = qtyEnd

		if i, seen := index[commodity]; seen {
			result.Materials[i].Quantity = quantity
			continue
		}
		index[commodity] = len(result.Materials)
		result.Materials = append(result.Materials, Material{Commodity: commodity, Quantity: quantity})
	}

	if rest := strings.TrimSpace(block[consumed:]); rest != "" {
		result.Skipped = append(result.Skipped, rest)
	}

	return result
}

// findSplit locates the whitespace separating a commodity from its quantity
// inside the non-digit run block[start:end]. It prefers the rightmost
// candidate: a whitespace rune directly followed by the digit ending the run,
// or by a comma inside the run. The commodity must keep at least one rune.
func findSplit(block string, start, end int) (int, bool) {
	for i := end; i > start; {
		r, width := utf8.DecodeLastRuneInString(block[start:i])
		i -= width
		if i == start {
			break
		}
		if !unicode.IsSpace(r) {
			continue
		}
		next := i + width
		if next == end && end < len(block) {
			return i, true
		}
		if next < end && block[next] == ',' {
			return i, true
		}
	}
	return 0, false
}

func skipDigits(block string, pos int) int {
	for pos < len(block) && isDigit(block[pos]) {
		pos++
	}
	return pos
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
