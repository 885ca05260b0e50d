package layout

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Load reads and parses a layout document from disk. On any error no
// layout is returned; callers fall back to Default or abort startup.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	l, err := Parse(data)
	if err != nil {
		annotate(err, path)
		return nil, err
	}
	return l, nil
}

// Parse interprets a JSONC layout document. Comments and trailing
// commas are tolerated; unknown fields are ignored for forward
// compatibility; missing required fields are validation errors.
func Parse(data []byte) (*Layout, error) {
	strict := stripJSONC(data)
	if !gjson.ValidBytes(strict) {
		return nil, &ParseError{Message: "document is not valid JSON"}
	}
	doc := gjson.ParseBytes(strict)
	if !doc.IsObject() {
		return nil, &ParseError{Message: "top-level value must be an object"}
	}

	l := &Layout{}

	if layers := doc.Get("layers"); layers.Exists() {
		if !layers.IsArray() {
			return nil, &ValidationError{Message: `"layers" must be an array of names`}
		}
		for _, v := range layers.Array() {
			l.Layers = append(l.Layers, v.String())
		}
	} else {
		l.Layers = []string{DefaultLayer, "shift"}
	}

	rows := doc.Get("rows")
	if !rows.Exists() {
		return nil, &ValidationError{Message: `missing required field "rows"`}
	}
	if !rows.IsArray() {
		return nil, &ValidationError{Message: `"rows" must be an array`}
	}

	var parseErr error
	rows.ForEach(func(_, rowVal gjson.Result) bool {
		ri := len(l.Rows)
		row := Row{}
		keys := rowVal.Get("keys")
		if !keys.IsArray() {
			parseErr = &ValidationError{Row: ri, Message: `row missing "keys" array`}
			return false
		}
		keys.ForEach(func(_, keyVal gjson.Result) bool {
			k, err := parseKey(keyVal, l.HasLayer("shift"))
			if err != nil {
				if ve, ok := err.(*ValidationError); ok {
					ve.Row = ri
					ve.Col = len(row.Keys)
				}
				parseErr = err
				return false
			}
			row.Keys = append(row.Keys, k)
			return true
		})
		if parseErr != nil {
			return false
		}
		l.Rows = append(l.Rows, row)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func parseKey(v gjson.Result, hasShift bool) (Key, error) {
	if !v.IsObject() {
		return Key{}, &ValidationError{Message: "key must be an object"}
	}

	k := Key{Label: v.Get("label").String()}

	kindTag := v.Get("kind")
	if kindTag.Exists() {
		kind, err := ParseKind(kindTag.String())
		if err != nil {
			return Key{}, &ValidationError{Message: err.Error()}
		}
		k.Kind = kind
	} else {
		// Keys without a kind tag are plain literals; this keeps the
		// common case of a hand-written grid terse.
		k.Kind = KindLiteral
	}

	switch k.Kind {
	case KindModifierToggle:
		k.Modifier = v.Get("modifier").String()
	case KindLayerSwitch:
		k.TargetLayer = v.Get("layer").String()
	}

	if bindings := v.Get("bindings"); bindings.Exists() {
		if !bindings.IsObject() {
			return Key{}, &ValidationError{Message: `"bindings" must be an object`}
		}
		k.Bindings = make(map[string]Output)
		var bindErr error
		bindings.ForEach(func(layer, out gjson.Result) bool {
			parsed, err := parseOutput(out)
			if err != nil {
				bindErr = err
				return false
			}
			k.Bindings[layer.String()] = parsed
			return true
		})
		if bindErr != nil {
			return Key{}, bindErr
		}
	}

	// Macro sugar: top-level "tokens" or "script" bind the base layer.
	if k.Kind == KindMacro {
		if k.Bindings == nil {
			k.Bindings = make(map[string]Output)
		}
		if _, ok := k.Bindings[DefaultLayer]; !ok {
			out := Output{Script: v.Get("script").String()}
			if tokens := v.Get("tokens"); tokens.IsArray() {
				for _, t := range tokens.Array() {
					out.Tokens = append(out.Tokens, t.String())
				}
			}
			if !out.IsZero() {
				k.Bindings[DefaultLayer] = out
			}
		}
	}

	// Literal sugar: a bare "key" string binds the base layer, and an
	// optional "shift" string binds the shift layer, mirroring the
	// original document shape.
	if k.Kind == KindLiteral || k.Kind == KindControl {
		if k.Bindings == nil {
			k.Bindings = make(map[string]Output)
		}
		if keyField := v.Get("key"); keyField.Exists() {
			if _, ok := k.Bindings[DefaultLayer]; !ok {
				k.Bindings[DefaultLayer] = Output{Tokens: []string{keyField.String()}}
			}
		}
		if shift := v.Get("shift"); shift.Exists() {
			if _, ok := k.Bindings["shift"]; !ok {
				k.Bindings["shift"] = Output{Tokens: []string{shift.String()}}
			}
		}
		if k.Kind == KindLiteral && hasShift {
			fillDefaultShift(&k)
		}
	}

	return k, nil
}

// fillDefaultShift derives a shift-layer binding from a single-rune base
// binding when the document does not spell one out: ASCII letters
// uppercase, everything else stays as-is.
func fillDefaultShift(k *Key) {
	if _, ok := k.Bindings["shift"]; ok {
		return
	}
	base, ok := k.Bindings[DefaultLayer]
	if !ok || len(base.Tokens) != 1 {
		return
	}
	tok := base.Tokens[0]
	if len(tok) != 1 {
		return
	}
	c := tok[0]
	if c >= 'a' && c <= 'z' {
		k.Bindings["shift"] = Output{Tokens: []string{string(c - 'a' + 'A')}}
	}
}

func parseOutput(v gjson.Result) (Output, error) {
	switch {
	case v.Type == gjson.String:
		return Output{Tokens: []string{v.String()}}, nil
	case v.IsArray():
		var out Output
		for _, t := range v.Array() {
			if t.Type != gjson.String {
				return Output{}, &ValidationError{Message: "binding token must be a string"}
			}
			out.Tokens = append(out.Tokens, t.String())
		}
		return out, nil
	case v.IsObject():
		out := Output{Script: v.Get("script").String()}
		if tokens := v.Get("tokens"); tokens.IsArray() {
			for _, t := range tokens.Array() {
				out.Tokens = append(out.Tokens, t.String())
			}
		}
		if out.IsZero() {
			return Output{}, &ValidationError{Message: `binding object needs "tokens" or "script"`}
		}
		return out, nil
	default:
		return Output{}, &ValidationError{Message: fmt.Sprintf("unsupported binding value %s", v.Type)}
	}
}

func annotate(err error, path string) {
	switch e := err.(type) {
	case *ParseError:
		e.Path = path
	case *ValidationError:
		e.Path = path
	case *IOError:
		e.Path = path
	}
}
