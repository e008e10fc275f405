package cipher

// VigenereEncrypt shifts each letter by the alphabet position of the
// next key letter, cycling through the key. The key index advances
// only on letters, so non-alphabetic runes pass through without
// consuming key material. Digits are not transformed.
func VigenereEncrypt(text, key string) string {
	return vigenere(text, key, false)
}

// VigenereDecrypt inverts VigenereEncrypt under the same key.
func VigenereDecrypt(text, key string) string {
	return vigenere(text, key, true)
}

func vigenere(text, key string, invert bool) string {
	letters := keyLetters(key)
	if len(letters) == 0 {
		return text
	}

	out := make([]rune, 0, len(text))
	i := 0
	for _, r := range text {
		var base rune
		switch {
		case r >= 'a' && r <= 'z':
			base = 'a'
		case r >= 'A' && r <= 'Z':
			base = 'A'
		default:
			out = append(out, r)
			continue
		}

		shift := int(letters[i%len(letters)] - 'a')
		if invert {
			shift = -shift
		}
		out = append(out, base+rotate(r-base, shift, 26))
		i++
	}
	return string(out)
}

// keyLetters lowercases the key and keeps only letters, so the shift
// lookup never lands on a rune outside a-z.
func keyLetters(key string) []rune {
	letters := make([]rune, 0, len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
			letters = append(letters, r)
		case r >= 'A' && r <= 'Z':
			letters = append(letters, r-'A'+'a')
		}
	}
	return letters
}
