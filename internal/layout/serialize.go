package layout

import (
	"fmt"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Serialize renders the layout back to formatted JSON. Loading the
// result yields an equivalent layout, which is what the loader tests
// lean on; comments from the source document are not preserved.
func Serialize(l *Layout) ([]byte, error) {
	doc := "{}"
	var err error

	doc, err = sjson.Set(doc, "layers", l.Layers)
	if err != nil {
		return nil, fmt.Errorf("serializing layers: %w", err)
	}

	for ri, row := range l.Rows {
		for ci := range row.Keys {
			doc, err = setKey(doc, ri, ci, &row.Keys[ci])
			if err != nil {
				return nil, fmt.Errorf("serializing key (%d,%d): %w", ri, ci, err)
			}
		}
	}

	return pretty.Pretty([]byte(doc)), nil
}

func setKey(doc string, ri, ci int, k *Key) (string, error) {
	base := fmt.Sprintf("rows.%d.keys.%d", ri, ci)
	var err error

	if doc, err = sjson.Set(doc, base+".kind", k.Kind.String()); err != nil {
		return doc, err
	}
	if k.Label != "" {
		if doc, err = sjson.Set(doc, base+".label", k.Label); err != nil {
			return doc, err
		}
	}
	switch k.Kind {
	case KindModifierToggle:
		if doc, err = sjson.Set(doc, base+".modifier", k.Modifier); err != nil {
			return doc, err
		}
	case KindLayerSwitch:
		if doc, err = sjson.Set(doc, base+".layer", k.TargetLayer); err != nil {
			return doc, err
		}
	}
	for layer, out := range k.Bindings {
		path := base + ".bindings." + escapePath(layer)
		switch {
		case out.Script != "":
			if doc, err = sjson.Set(doc, path+".script", out.Script); err != nil {
				return doc, err
			}
			if len(out.Tokens) > 0 {
				if doc, err = sjson.Set(doc, path+".tokens", out.Tokens); err != nil {
					return doc, err
				}
			}
		case len(out.Tokens) == 1:
			if doc, err = sjson.Set(doc, path, out.Tokens[0]); err != nil {
				return doc, err
			}
		default:
			if doc, err = sjson.Set(doc, path, out.Tokens); err != nil {
				return doc, err
			}
		}
	}
	return doc, nil
}

// escapePath escapes sjson path metacharacters in a layer name.
func escapePath(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '*', '?', '\\', '|', '#', '@':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
