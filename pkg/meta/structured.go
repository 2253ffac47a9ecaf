package meta

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

// extractStructuredData collects JSON-LD, Microdata and RDFa items into
// features. Malformed blocks land in SkippedBlocks with a reason.
func (e *Extractor) extractStructuredData(doc *goquery.Document, features *models.MetaFeatures) {
	e.extractJSONLD(doc, features)
	e.extractMicrodata(doc, features)
	e.extractRDFa(doc, features)

	for _, item := range features.StructuredData {
		switch item.Kind {
		case models.StructuredDataJSONLD:
			features.HasJSONLD = true
		case models.StructuredDataMicrodata:
			features.HasMicrodata = true
		case models.StructuredDataRDFa:
			features.HasRDFa = true
		}
	}
}

func (e *Extractor) extractJSONLD(doc *goquery.Document, features *models.MetaFeatures) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			reason := fmt.Sprintf("json-ld block %d: %v", i+1, err)
			features.SkippedBlocks = append(features.SkippedBlocks, reason)
			e.log.WithField("block", i+1).Warnf("Skipping malformed JSON-LD: %v", err)
			return
		}

		switch v := parsed.(type) {
		case map[string]any:
			features.StructuredData = append(features.StructuredData, models.StructuredDataItem{
				Kind:    models.StructuredDataJSONLD,
				Payload: v,
			})
		case []any:
			for j, elem := range v {
				obj, ok := elem.(map[string]any)
				if !ok {
					features.SkippedBlocks = append(features.SkippedBlocks,
						fmt.Sprintf("json-ld block %d entry %d: not an object", i+1, j+1))
					continue
				}
				features.StructuredData = append(features.StructuredData, models.StructuredDataItem{
					Kind:    models.StructuredDataJSONLD,
					Payload: obj,
				})
			}
		default:
			features.SkippedBlocks = append(features.SkippedBlocks,
				fmt.Sprintf("json-ld block %d: top level is neither object nor array", i+1))
		}
	})
}

func (e *Extractor) extractMicrodata(doc *goquery.Document, features *models.MetaFeatures) {
	doc.Find("[itemscope]").Each(func(_ int, s *goquery.Selection) {
		features.StructuredData = append(features.StructuredData, models.StructuredDataItem{
			Kind:    models.StructuredDataMicrodata,
			Payload: e.microdataItem(s),
		})
	})
}

// microdataItem builds the payload for one itemscope element. Properties
// that declare their own itemscope become nested payloads under their
// itemprop name; properties owned by such a nested item are left to it.
func (e *Extractor) microdataItem(s *goquery.Selection) map[string]any {
	itemType, _ := s.Attr("itemtype")
	props := map[string]any{}

	s.Find("[itemprop]").Each(func(_ int, prop *goquery.Selection) {
		name, _ := prop.Attr("itemprop")
		if name == "" || !ownedBy(prop, s, "[itemscope]") {
			return
		}
		if _, nested := prop.Attr("itemscope"); nested {
			addProperty(props, name, e.microdataItem(prop))
			return
		}
		addProperty(props, name, microdataValue(prop))
	})

	return map[string]any{
		"type":       itemType,
		"properties": props,
	}
}

func (e *Extractor) extractRDFa(doc *goquery.Document, features *models.MetaFeatures) {
	doc.Find("[typeof]").Each(func(_ int, s *goquery.Selection) {
		features.StructuredData = append(features.StructuredData, models.StructuredDataItem{
			Kind:    models.StructuredDataRDFa,
			Payload: e.rdfaItem(s),
		})
	})
}

// rdfaItem mirrors microdataItem for RDFa: a property carrying its own
// typeof becomes a nested payload under its property name.
func (e *Extractor) rdfaItem(s *goquery.Selection) map[string]any {
	typeAttr, _ := s.Attr("typeof")
	props := map[string]any{}

	s.Find("[property]").Each(func(_ int, prop *goquery.Selection) {
		name, _ := prop.Attr("property")
		if name == "" || !ownedBy(prop, s, "[typeof]") {
			return
		}
		if _, nested := prop.Attr("typeof"); nested {
			addProperty(props, name, e.rdfaItem(prop))
			return
		}
		addProperty(props, name, rdfaValue(prop))
	})

	payload := map[string]any{
		"type":       typeAttr,
		"properties": props,
	}
	if vocab, ok := s.Attr("vocab"); ok {
		payload["vocab"] = vocab
	}
	return payload
}

// ownedBy reports whether prop belongs directly to item, with no other
// scope element between them.
func ownedBy(prop, item *goquery.Selection, scope string) bool {
	return prop.ParentsUntilSelection(item).Filter(scope).Length() == 0
}

// addProperty stores a value under name, converting to a slice on repeat
// keys so nothing is overwritten.
func addProperty(props map[string]any, name string, value any) {
	existing, ok := props[name]
	if !ok {
		props[name] = value
		return
	}
	if list, isList := existing.([]any); isList {
		props[name] = append(list, value)
		return
	}
	props[name] = []any{existing, value}
}

// microdataValue resolves an itemprop's value per the element it sits on.
func microdataValue(s *goquery.Selection) string {
	switch goquery.NodeName(s) {
	case "meta":
		v, _ := s.Attr("content")
		return v
	case "a", "link", "area":
		v, _ := s.Attr("href")
		return v
	case "img", "audio", "video", "source", "embed", "iframe", "track":
		v, _ := s.Attr("src")
		return v
	case "time":
		if v, ok := s.Attr("datetime"); ok {
			return v
		}
	case "data", "meter":
		if v, ok := s.Attr("value"); ok {
			return v
		}
	}
	return utils.CleanText(s.Text())
}

// rdfaValue resolves a property's value: content attribute, then resource,
// then href for anchors, then text.
func rdfaValue(s *goquery.Selection) string {
	if v, ok := s.Attr("content"); ok {
		return v
	}
	if v, ok := s.Attr("resource"); ok {
		return v
	}
	switch goquery.NodeName(s) {
	case "a", "link":
		if v, ok := s.Attr("href"); ok {
			return v
		}
	}
	return utils.CleanText(s.Text())
}
