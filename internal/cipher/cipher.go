// Package cipher implements the reversible substitution transforms
// applied to message bodies before storage. The keyspace is 25 shift
// values: this is an exercise in composing invertible transforms, not
// a confidentiality mechanism. Deployments that need real secrecy
// should swap an authenticated encryption primitive in behind the
// same Encrypt/Decrypt contract.
package cipher

// Encrypt rotates letters within their case's 26-letter alphabet by
// shift mod 26 and decimal digits within 0-9 by shift mod 10. All
// other runes pass through unchanged.
func Encrypt(text string, shift int) string {
	return transform(text, shift)
}

// Decrypt inverts Encrypt under the same shift.
func Decrypt(text string, shift int) string {
	return transform(text, -shift)
}

func transform(text string, shift int) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, 'a'+rotate(r-'a', shift, 26))
		case r >= 'A' && r <= 'Z':
			out = append(out, 'A'+rotate(r-'A', shift, 26))
		case r >= '0' && r <= '9':
			out = append(out, '0'+rotate(r-'0', shift, 10))
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// rotate keeps the result in [0,mod) for negative shifts too.
func rotate(pos rune, shift, mod int) rune {
	s := ((shift % mod) + mod) % mod
	return rune((int(pos) + s) % mod)
}

// LayeredEncrypt applies the shift cipher, reverses the rune sequence,
// then toggles the case of every alphabetic rune at an even index of
// the reversed string.
func LayeredEncrypt(text string, shift int) string {
	return toggleEvenCase(reverse(Encrypt(text, shift)))
}

// LayeredDecrypt inverts LayeredEncrypt stage by stage in opposite
// order: undo the case toggle, un-reverse, then unshift.
func LayeredDecrypt(text string, shift int) string {
	return Decrypt(reverse(toggleEvenCase(text)), shift)
}

func reverse(text string) string {
	runes := []rune(text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func toggleEvenCase(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if i%2 != 0 {
			continue
		}
		switch {
		case r >= 'a' && r <= 'z':
			runes[i] = r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			runes[i] = r - 'A' + 'a'
		}
	}
	return string(runes)
}

// DeriveShift reduces a human-memorable passphrase to a shift in
// [1,25]: the sum of the code points of its alphanumeric runes, mod
// 25, plus 1. Deterministic for a given phrase.
func DeriveShift(phrase string) int {
	sum := 0
	for _, r := range phrase {
		if isAlnum(r) {
			sum += int(r)
		}
	}
	return sum%25 + 1
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
