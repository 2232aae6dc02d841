package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed log line.
type Entry struct {
	Time    string
	Level   string
	Message string
	Fields  []Field
	Raw     string
}

// Field is a key=value pair attached to an entry, in line order.
type Field struct {
	Key   string
	Value string
}

// Parse splits a logrus line in either text or JSON format. Lines that are
// neither come back with only Raw and Message set.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	entry := Entry{Raw: line}
	if trimmed == "" {
		return entry
	}
	if strings.HasPrefix(trimmed, "{") {
		if parsed, ok := parseJSON(trimmed); ok {
			parsed.Raw = line
			return parsed
		}
	}

	pairs, ok := splitPairs(trimmed)
	if !ok {
		entry.Message = trimmed
		return entry
	}
	for _, p := range pairs {
		switch p.Key {
		case "time":
			entry.Time = p.Value
		case "level":
			entry.Level = p.Value
		case "msg":
			entry.Message = p.Value
		default:
			entry.Fields = append(entry.Fields, p)
		}
	}
	return entry
}

func parseJSON(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	var entry Entry
	for k, v := range raw {
		text := fmt.Sprint(v)
		switch k {
		case "time":
			entry.Time = text
		case "level":
			entry.Level = text
		case "msg":
			entry.Message = text
		default:
			entry.Fields = append(entry.Fields, Field{Key: k, Value: text})
		}
	}
	sort.Slice(entry.Fields, func(i, j int) bool {
		return entry.Fields[i].Key < entry.Fields[j].Key
	})
	return entry, true
}

// splitPairs tokenizes key=value and key="quoted value" pairs. It reports
// false when the line does not look like logfmt.
func splitPairs(line string) ([]Field, bool) {
	var fields []Field
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		eq := strings.IndexByte(line[i:], '=')
		if eq <= 0 {
			return nil, false
		}
		key := line[i : i+eq]
		if strings.ContainsAny(key, " \"") {
			return nil, false
		}
		i += eq + 1

		var value string
		if i < len(line) && line[i] == '"' {
			var b strings.Builder
			i++
			closed := false
			for i < len(line) {
				c := line[i]
				if c == '\\' && i+1 < len(line) {
					b.WriteByte(line[i+1])
					i += 2
					continue
				}
				if c == '"' {
					i++
					closed = true
					break
				}
				b.WriteByte(c)
				i++
			}
			if !closed {
				return nil, false
			}
			value = b.String()
		} else {
			end := strings.IndexByte(line[i:], ' ')
			if end < 0 {
				end = len(line) - i
			}
			value = line[i : i+end]
			i += end
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	return fields, len(fields) > 0
}

