package overlay

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseMaps reads an HTML document and returns every <map> element keyed by
// its id, and by its name when that differs. Areas outside a map are ignored.
func ParseMaps(r io.Reader) (map[string]*Map, error) {
	z := html.NewTokenizer(r)
	maps := make(map[string]*Map)
	var current *Map

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("parse region maps: %w", err)
			}
			return maps, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Map:
				id := attr(tok, "id")
				name := attr(tok, "name")
				if id == "" {
					id = name
				}
				if id == "" {
					current = nil
					continue
				}
				current = &Map{ID: id}
				maps[id] = current
				if name != "" && name != id {
					maps[name] = current
				}
			case atom.Area:
				if current == nil {
					continue
				}
				region := NewRegion(attr(tok, "shape"), attr(tok, "coords"))
				region.Zone = firstNonEmpty(attr(tok, "data-zone"), attr(tok, "alt"), attr(tok, "title"))
				region.Href = attr(tok, "href")
				current.Regions = append(current.Regions, region)
			}
		case html.EndTagToken:
			if tok := z.Token(); tok.DataAtom == atom.Map {
				current = nil
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
