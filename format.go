package fpe

// Formatted values like SSNs and card numbers carry punctuation that must
// survive tokenization untouched. These helpers strip the punctuation out,
// hand the data characters to the cipher, and weave the punctuation back in.
// Only ASCII alphanumerics count as data characters.

// SeparateFormatAndData splits s into a format mask (true = format
// character) and the data characters only.
func SeparateFormatAndData(s string) ([]bool, string) {
	formatMask := make([]bool, len(s))
	dataChars := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		if isDataChar(s[i]) {
			dataChars = append(dataChars, s[i])
		} else {
			formatMask[i] = true
		}
	}
	return formatMask, string(dataChars)
}

// ReconstructWithFormat places the data characters back between the format
// characters of original, following the mask produced by
// SeparateFormatAndData.
func ReconstructWithFormat(data string, formatMask []bool, original string) string {
	out := make([]byte, len(formatMask))
	dataIdx := 0
	for i := range formatMask {
		if formatMask[i] {
			out[i] = original[i]
			continue
		}
		if dataIdx < len(data) {
			out[i] = data[dataIdx]
			dataIdx++
		}
	}
	return string(out)
}

// DetermineAlphabet returns the working alphabet for the data characters of
// plaintext: digits, letters, or both, depending on what is present.
// Defaults to digits when the input carries no data characters.
func DetermineAlphabet(plaintext string) string {
	hasLetters := false
	hasDigits := false
	for i := 0; i < len(plaintext); i++ {
		c := plaintext[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigits = true
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			hasLetters = true
		}
	}

	alphabet := ""
	if hasDigits {
		alphabet += "0123456789"
	}
	if hasLetters {
		alphabet += "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	}
	if alphabet == "" {
		alphabet = "0123456789"
	}
	return alphabet
}

func isDataChar(c byte) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z')
}
