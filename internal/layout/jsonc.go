package layout

// stripJSONC rewrites a JSONC document into strict JSON by blanking
// comments and removing trailing commas. Comment bytes are replaced
// with spaces (newlines preserved) so gjson parse errors still point
// at a sensible offset in the original text.
func stripJSONC(src []byte) []byte {
	out := make([]byte, 0, len(src))
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '"':
			j := i + 1
			for j < len(src) {
				if src[j] == '\\' && j+1 < len(src) {
					j += 2
					continue
				}
				if src[j] == '"' {
					j++
					break
				}
				j++
			}
			out = append(out, src[i:j]...)
			i = j
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i < len(src) {
				if src[i] == '*' && i+1 < len(src) && src[i+1] == '/' {
					i += 2
					break
				}
				if src[i] == '\n' {
					out = append(out, '\n')
				}
				i++
			}
		case c == ',':
			// Drop the comma if the next significant byte closes a
			// container.
			j := i + 1
			for j < len(src) {
				switch src[j] {
				case ' ', '\t', '\r', '\n':
					j++
					continue
				case '/':
					j = skipComment(src, j)
					continue
				}
				break
			}
			if j < len(src) && (src[j] == ']' || src[j] == '}') {
				i++
				continue
			}
			out = append(out, c)
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

// skipComment advances past a comment starting at j, or returns j+1 when
// the byte at j does not begin one.
func skipComment(src []byte, j int) int {
	if j+1 < len(src) && src[j+1] == '/' {
		for j < len(src) && src[j] != '\n' {
			j++
		}
		return j
	}
	if j+1 < len(src) && src[j+1] == '*' {
		j += 2
		for j < len(src) {
			if src[j] == '*' && j+1 < len(src) && src[j+1] == '/' {
				return j + 2
			}
			j++
		}
		return j
	}
	return j + 1
}
