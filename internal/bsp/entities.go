package bsp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Entity is an ordered key/value map, preserving insertion order the
// way the original text block does (a map entity's first "classname"
// key customarily comes first).
type Entity struct {
	Keys   []string
	Values map[string]string
}

// NewEntity returns an empty entity with no keys set.
func NewEntity() Entity {
	return Entity{Values: map[string]string{}}
}

// Get returns the value for key and whether it was present.
func (e Entity) Get(key string) (string, bool) {
	v, ok := e.Values[key]
	return v, ok
}

// Set assigns key=value, appending key to the ordered key list the
// first time it is seen.
func (e *Entity) Set(key, value string) {
	if e.Values == nil {
		e.Values = map[string]string{}
	}
	if _, exists := e.Values[key]; !exists {
		e.Keys = append(e.Keys, key)
	}
	e.Values[key] = value
}

// ClassName returns the "classname" key, or "" if absent.
func (e Entity) ClassName() string {
	v, _ := e.Get("classname")
	return v
}

// Vector parses a "x y z" key as a vec3.
func (e Entity) Vector(key string) (mgl32.Vec3, bool) {
	v, ok := e.Get(key)
	if !ok {
		return mgl32.Vec3{}, false
	}
	parts := strings.Fields(v)
	if len(parts) != 3 {
		return mgl32.Vec3{}, false
	}
	var f [3]float32
	for i, p := range parts {
		n, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return mgl32.Vec3{}, false
		}
		f[i] = float32(n)
	}
	return mgl32.Vec3{f[0], f[1], f[2]}, true
}

// SetVector writes a vec3 back as "x y z".
func (e *Entity) SetVector(key string, v mgl32.Vec3) {
	e.Set(key, fmt.Sprintf("%g %g %g", v.X(), v.Y(), v.Z()))
}

// BrushModelIndex returns the brush-model number n for a "model"
// value of the form "*n", and true if the value matched that form.
func BrushModelIndex(value string) (int, bool) {
	if len(value) < 2 || value[0] != '*' {
		return 0, false
	}
	n, err := strconv.Atoi(value[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// LoadEntities parses the ENTITIES lump's text block into Entities.
// The format is a sequence of `{ "key" "value" ... }` blocks.
func (c *Container) LoadEntities() error {
	text := string(c.lumps[LumpEntities])
	c.Entities = nil

	var cur *Entity
	i := 0
	for i < len(text) {
		ch := text[i]
		switch {
		case ch == '{':
			e := NewEntity()
			cur = &e
			i++
		case ch == '}':
			if cur == nil {
				return fmt.Errorf("entities: unmatched '}' at byte %d", i)
			}
			c.Entities = append(c.Entities, *cur)
			cur = nil
			i++
		case ch == '"':
			key, next, err := readQuoted(text, i)
			if err != nil {
				return err
			}
			i = next
			i = skipSpace(text, i)
			if i >= len(text) || text[i] != '"' {
				return fmt.Errorf("entities: expected value after key %q at byte %d", key, i)
			}
			value, next2, err := readQuoted(text, i)
			if err != nil {
				return err
			}
			i = next2
			if cur == nil {
				return fmt.Errorf("entities: key/value pair %q outside of a block", key)
			}
			cur.Set(key, value)
		default:
			i++
		}
	}
	return nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n') {
		i++
	}
	return i
}

func readQuoted(s string, i int) (value string, next int, err error) {
	if s[i] != '"' {
		return "", i, fmt.Errorf("entities: expected '\"' at byte %d", i)
	}
	i++
	start := i
	for i < len(s) && s[i] != '"' {
		i++
	}
	if i >= len(s) {
		return "", i, fmt.Errorf("entities: unterminated string starting at byte %d", start)
	}
	return s[start:i], i + 1, nil
}

// UpdateEntityLump serializes Entities back into the canonical
// `{ "key" "value" }` text block and installs it as the ENTITIES lump.
func (c *Container) UpdateEntityLump() error {
	var b strings.Builder
	for _, e := range c.Entities {
		b.WriteString("{\n")
		for _, k := range e.Keys {
			fmt.Fprintf(&b, "\"%s\" \"%s\"\n", k, e.Values[k])
		}
		b.WriteString("}\n")
	}
	b.WriteByte(0)
	c.SetLump(LumpEntities, []byte(b.String()))
	return nil
}

// Worldspawn returns the index of the worldspawn entity, which by
// BSP convention is entity 0.
func (c *Container) Worldspawn() int {
	for i, e := range c.Entities {
		if e.ClassName() == "worldspawn" {
			return i
		}
	}
	return -1
}

// MergeWadLists merges b's worldspawn "wad" value into a's, keeping
// basenames unique and preserving a's ordering followed by any new
// entries from b. Per spec.md §4.5 ENTITIES.
func MergeWadLists(aWad, bWad string) string {
	seen := map[string]bool{}
	var out []string
	add := func(list string) {
		for _, entry := range strings.Split(list, ";") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			base := strings.ToLower(baseName(entry))
			if seen[base] {
				continue
			}
			seen[base] = true
			out = append(out, entry)
		}
	}
	add(aWad)
	add(bWad)
	return strings.Join(out, ";")
}

func baseName(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// SortedKeys is a small helper used by tests to compare entity sets
// irrespective of map-iteration order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
