package parser

import (
	"strings"

	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
)

// mediaType maps the schema of a content map to a type reference. A JSON
// media type is preferred; otherwise the first declared one is used.
func (b *builder) mediaType(content *orderedmap.Map[string, *v3.MediaType]) string {
	if content == nil || content.Len() == 0 {
		return b.mapper.Proxy(nil)
	}

	var selected *v3.MediaType
	for contentType, mediaType := range content.FromOldest() {
		if strings.Contains(contentType, "json") {
			selected = mediaType
			break
		}
	}
	if selected == nil {
		for _, mediaType := range content.FromOldest() {
			selected = mediaType
			break
		}
	}

	if selected == nil {
		return b.mapper.Proxy(nil)
	}
	return b.mapper.Proxy(selected.Schema)
}
