package catalog

import "strings"

// naturalLess reports whether a sorts before b in natural order: runs of
// digits compare numerically, runs of non-digits compare case-insensitively.
// "img2.png" therefore sorts before "img10.png".
func naturalLess(a, b string) bool {
	return naturalCompare(a, b) < 0
}

func naturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		aDigit := isDigit(a[i])
		bDigit := isDigit(b[j])

		switch {
		case aDigit && bDigit:
			aRun, aNext := digitRun(a, i)
			bRun, bNext := digitRun(b, j)
			if c := compareDigitRuns(aRun, bRun); c != 0 {
				return c
			}
			i, j = aNext, bNext
		case !aDigit && !bDigit:
			aRun, aNext := textRun(a, i)
			bRun, bNext := textRun(b, j)
			if c := strings.Compare(strings.ToLower(aRun), strings.ToLower(bRun)); c != 0 {
				return c
			}
			i, j = aNext, bNext
		case aDigit:
			// Digits sort before text at the same position.
			return -1
		default:
			return 1
		}
	}

	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	// Case-insensitive tie: fall back to a byte compare so the order is total.
	return strings.Compare(a, b)
}

// compareDigitRuns compares two runs of ASCII digits numerically without
// parsing them, so arbitrarily long runs cannot overflow.
func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func digitRun(s string, start int) (string, int) {
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return s[start:end], end
}

func textRun(s string, start int) (string, int) {
	end := start
	for end < len(s) && !isDigit(s[end]) {
		end++
	}
	return s[start:end], end
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
