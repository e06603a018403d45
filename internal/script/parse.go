package script

import (
	"sort"
	"strconv"
	"strings"
)

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseValue reads a Value from a decoded document node.
func ParseValue(v any) Value { return ParseValueIn(v, nil) }

// ParseValueIn reads a Value from a decoded document node. Pattern arrays
// take their options from parent, the object holding the node.
func ParseValueIn(v any, parent map[string]any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case int:
		return Number(t)
	case int64:
		return Number(t)
	case string:
		return parseText(t)
	case []any:
		if len(t) == 0 {
			return Null{}
		}
		if name, ok := t[0].(string); ok && IsFunctionName(name) {
			args := make([]Value, 0, len(t)-1)
			for _, a := range t[1:] {
				args = append(args, ParseValueIn(a, parent))
			}
			return NewFunction(name, args...)
		}
		p := newPattern(t, t, parent, false, true)
		p.opts = pickOptions(parent)
		return p
	case map[string]any:
		if list, ok := t["pattern"].([]any); ok {
			return newPattern(t, list, t, true, false)
		}
		if list, ok := t["range"].([]any); ok {
			return newPattern(t, list, t, false, true)
		}
	}
	return Null{}
}

func pickOptions(parent map[string]any) map[string]any {
	var opts map[string]any
	for _, k := range patternOptions {
		if v, ok := parent[k]; ok {
			if opts == nil {
				opts = map[string]any{}
			}
			opts[k] = v
		}
	}
	return opts
}

func parseText(text string) Value {
	text = strings.TrimLeft(text, " \t")
	switch {
	case text == "":
		return Null{}
	case isVariableText(text):
		return parseVariable(text)
	case text == "null":
		return Null{}
	case text == "true":
		return Bool(true)
	case text == "false":
		return Bool(false)
	}
	return String(text)
}

func isVariableText(text string) bool {
	if len(text) < 4 {
		return false
	}
	prefix := strings.ToLower(text[:4])
	return prefix == "var(" || prefix == "sys("
}

// parseVariable reads "var(name)", "sys(name)" and either default form,
// "var(name)|def" or "var(name|def)".
func parseVariable(text string) *Variable {
	sys := strings.EqualFold(text[:3], "sys")
	body := text[4:]
	def, hasDef := "", false
	if i := strings.Index(body, ")"); i >= 0 {
		rest := body[i+1:]
		body = body[:i]
		if j := strings.Index(rest, "|"); j >= 0 {
			def, hasDef = rest[j+1:], true
		}
	}
	if i := strings.Index(body, "|"); i >= 0 {
		def, hasDef = body[i+1:], true
		body = body[:i]
	}
	var dv Value
	if hasDef {
		def = strings.TrimSpace(def)
		if f, err := strconv.ParseFloat(def, 64); err == nil {
			dv = Number(f)
		} else {
			dv = parseText(def)
		}
	}
	return NewVariable(strings.TrimSpace(body), sys, dv)
}

// guessType names the element type implied by an object's keys.
func guessType(obj map[string]any) string {
	has := func(keys ...string) bool {
		for _, k := range keys {
			if _, ok := obj[k]; ok {
				return true
			}
		}
		return false
	}
	switch {
	case has("rhue"):
		return "rhsl"
	case has("hue", "lightness", "saturation"):
		return "hsl"
	case has("red", "green", "blue"):
		return "rgb"
	case has("elements"):
		return "segment"
	}
	return "values"
}

// parseElement builds an element from its document. Unknown types are
// logged and give nil.
func parseElement(obj map[string]any, parent Context) Element {
	typ, _ := obj["type"].(string)
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" {
		typ = guessType(obj)
	}
	switch typ {
	case "values":
		v := &Values{element: newElement(typ)}
		v.fromJSON(obj)
		return v
	case "hsl", "rhsl":
		h := &HSL{leaf: newLeaf(typ), rainbow: typ == "rhsl"}
		h.fromJSON(obj)
		return h
	case "rgb":
		r := &RGB{leaf: newLeaf(typ)}
		r.fromJSON(obj)
		return r
	case "segment", "mirror", "copy", "repeat":
		var c *Container
		switch typ {
		case "segment":
			c = NewSegment(parent)
		case "mirror":
			c = NewMirror(parent)
		case "copy":
			c = NewCopy(parent)
		default:
			c = NewRepeat(parent)
		}
		c.fromJSON(obj)
		return c
	case "maker":
		m := NewMaker(parent)
		m.fromJSON(obj)
		return m
	}
	parent.Env().Log.Warn().Str("type", typ).Msg("unknown element type")
	return nil
}

func parseElements(list []any, parent Context) []Element {
	var out []Element
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			parent.Env().Log.Warn().Interface("element", item).Msg("element is not an object")
			continue
		}
		if e := parseElement(obj, parent); e != nil {
			out = append(out, e)
		}
	}
	return out
}
