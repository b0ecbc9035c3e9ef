package util

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// translit maps lowercase Russian and Uzbek letters to ASCII. Runes mapped to
// an empty string are dropped.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",

	// Uzbek Cyrillic
	'ў': "o", 'қ': "q", 'ғ': "g", 'ҳ': "h",

	// Uzbek Latin apostrophes and modifier letters
	'\'': "", '`': "", '‘': "", '’': "", 'ʻ': "", 'ʼ': "", 'ʹ': "",

	'ö': "o", 'ü': "u", '№': "",

	'_': " ", '-': " ", '·': " ",
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns an arbitrary file or display name into a lowercase ASCII,
// hyphen separated identifier. Unknown characters are dropped, so the result
// may be empty. Distinct names may produce the same slug.
func Slugify(name string) string {
	// Letters like й and ў keep their own mapping, so the table runs on
	// composed runes before the remaining marks are stripped.
	s := norm.NFC.String(strings.ToLower(name))

	var b strings.Builder
	for _, r := range s {
		if t, ok := translit[r]; ok {
			b.WriteString(t)

			continue
		}

		b.WriteRune(r)
	}

	s, _, err := transform.String(stripMarks, b.String())
	if err != nil {
		s = b.String()
	}

	var (
		slug strings.Builder
		sep  bool
	)

	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if sep && slug.Len() > 0 {
				slug.WriteByte('-')
			}
			sep = false
			slug.WriteRune(r)
		case unicode.IsSpace(r):
			sep = true
		}
	}

	return slug.String()
}

// Title derives a display title from a file name: the extension is removed,
// separators become spaces and every word is capitalized.
func Title(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.':
			return ' '
		}

		return r
	}, base)

	// Casers are stateful, one per call.
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(strings.Fields(base), " "))
}
