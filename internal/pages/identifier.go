package pages

// MaxIdentifierLength bounds the length of a page identifier.
const MaxIdentifierLength = 64

// ValidIdentifier reports whether id is a well-formed page identifier:
// 1..MaxIdentifierLength ASCII letters, digits, hyphens or underscores.
// Matching elsewhere is case-sensitive; no normalisation happens here.
func ValidIdentifier(id string) bool {
	if id == "" || len(id) > MaxIdentifierLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
