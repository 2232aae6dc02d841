package request

import "strings"

// Arg is a single placeholder substitution.
type Arg struct {
	Key   string
	Value string
}

// Args is an ordered list of substitutions. Resolution applies them in order.
type Args []Arg

// With returns a copy of a with key set to value. An existing key keeps its
// position; a new key is appended.
func (a Args) With(key, value string) Args {
	out := make(Args, 0, len(a)+1)
	replaced := false
	for _, arg := range a {
		if arg.Key == key {
			arg.Value = value
			replaced = true
		}
		out = append(out, arg)
	}
	if !replaced {
		out = append(out, Arg{Key: key, Value: value})
	}
	return out
}

// Lookup returns the value for key.
func (a Args) Lookup(key string) (string, bool) {
	for _, arg := range a {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (a Args) Has(key string) bool {
	_, ok := a.Lookup(key)
	return ok
}

// Resolve substitutes every :key token in template with its value, one pass
// per argument in order. Text inserted by a pass is not rescanned by that
// pass. Placeholders without an argument are left verbatim.
func Resolve(template string, args Args) string {
	out := template
	for _, arg := range args {
		if arg.Key == "" {
			continue
		}
		out = replaceToken(out, ":"+arg.Key, arg.Value)
	}
	return out
}

// replaceToken replaces token wherever it is not immediately followed by
// another name byte, so ":id" leaves ":ids" alone.
func replaceToken(s, token, value string) string {
	if !strings.Contains(s, token) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.Index(s, token)
		if i < 0 {
			b.WriteString(s)
			break
		}
		end := i + len(token)
		b.WriteString(s[:i])
		if end < len(s) && isNameByte(s[end]) {
			b.WriteString(token)
		} else {
			b.WriteString(value)
		}
		s = s[end:]
	}
	return b.String()
}

// Placeholders lists the distinct :name tokens in template in first-seen
// order. A name starts with a letter and continues with letters, digits,
// '-' or '_'.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for i := 0; i < len(template); i++ {
		if template[i] != ':' || i+1 >= len(template) || !isLetter(template[i+1]) {
			continue
		}
		j := i + 1
		for j < len(template) && isNameByte(template[j]) {
			j++
		}
		name := template[i+1 : j]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		i = j - 1
	}
	return names
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameByte(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}
