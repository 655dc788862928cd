package render

import (
	"strings"
)

// NaturalLess orders strings so that embedded numbers compare by value and
// letters compare case-insensitively: cluster_2.png sorts before
// cluster_10.png.
func NaturalLess(a, b string) bool {
	ca, cb := naturalChunks(a), naturalChunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		xNum, yNum := isDigits(x), isDigits(y)

		switch {
		case xNum && yNum:
			x, y = trimZeros(x), trimZeros(y)
			if len(x) != len(y) {
				return len(x) < len(y)
			}
			if x != y {
				return x < y
			}
		case xNum != yNum:
			// Numbers sort before text
			return xNum
		default:
			lx, ly := strings.ToLower(x), strings.ToLower(y)
			if lx != ly {
				return lx < ly
			}
		}
	}
	if len(ca) != len(cb) {
		return len(ca) < len(cb)
	}
	return a < b
}

// naturalChunks splits s into alternating runs of digits and non-digits.
func naturalChunks(s string) []string {
	var chunks []string
	start := 0
	for i, r := range s {
		if i == start {
			continue
		}
		if isDigit(r) != isDigit(rune(s[i-1])) {
			chunks = append(chunks, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		chunks = append(chunks, s[start:])
	}
	return chunks
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isDigits(s string) bool {
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return s != ""
}

func trimZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" {
		return "0"
	}
	return t
}
