package generatetree

import (
	"bytes"
	"encoding/json"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/tree"
)

// RenderScript produces the client enhancement module. It assigns each
// prefix's sidebar into the theme's locale config and registers a $roadmap
// computed property returning the mind-map documents keyed by locale.
func RenderScript(state *State) ([]byte, error) {
	var body bytes.Buffer

	for _, locale := range state.Locales {
		prefix := state.Prefixes[locale]
		key, err := json.Marshal(prefix)
		if err != nil {
			return nil, errors.InternalError("encode sidebar prefix", err)
		}
		sidebar, err := json.Marshal([]*tree.Node{state.Sidebars[prefix]})
		if err != nil {
			return nil, errors.InternalError("encode sidebar", err)
		}
		body.WriteString("  siteData.themeConfig.locales[")
		body.Write(key)
		body.WriteString("].sidebar = ")
		body.Write(sidebar)
		body.WriteString(";\n")
	}

	body.WriteString("  Vue.mixin({'computed': {'$roadmap': function() { return {\n")
	for _, locale := range state.Locales {
		doc, ok := state.MindMaps[locale]
		if !ok {
			continue
		}
		key, err := json.Marshal(locale)
		if err != nil {
			return nil, errors.InternalError("encode locale", err)
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.InternalError("encode mind-map tree", err)
		}
		body.WriteString("    ")
		body.Write(key)
		body.WriteString(": ")
		body.Write(data)
		body.WriteString(",\n")
	}
	body.WriteString("  }; } } });\n")

	var out bytes.Buffer
	out.WriteString("export default ({ siteData, Vue }) => {\n")
	out.Write(body.Bytes())
	out.WriteString("}\n")
	return out.Bytes(), nil
}
