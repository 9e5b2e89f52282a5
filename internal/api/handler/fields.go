package handler

import (
	"fmt"
	"math"
	"time"

	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/storage"
	"flightclaim/backend/internal/validate"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindStrings
	kindTime
	kindSlug
	kindStatus
)

// Editable columns per CMS entity. JSON keys equal column names.
var (
	blogFields = map[string]fieldKind{
		"slug": kindSlug, "title": kindString, "excerpt": kindString, "content": kindString,
		"cover_image": kindString, "author": kindString, "tags": kindStrings,
		"status": kindStatus, "published_at": kindTime,
	}
	pageFields = map[string]fieldKind{
		"slug": kindSlug, "title": kindString, "content": kindString,
		"meta_title": kindString, "meta_description": kindString, "status": kindStatus,
	}
	partnerFields = map[string]fieldKind{
		"name": kindString, "logo_url": kindString, "website": kindString,
		"description": kindString, "sort_order": kindInt, "active": kindBool,
	}
	pressFields = map[string]fieldKind{
		"title": kindString, "slug": kindSlug, "summary": kindString, "content": kindString,
		"source": kindString, "url": kindString, "status": kindStatus, "published_at": kindTime,
	}
	teamFields = map[string]fieldKind{
		"name": kindString, "role": kindString, "bio": kindString, "photo_url": kindString,
		"linkedin": kindString, "sort_order": kindInt, "active": kindBool,
	}
)

// pickFields converts a decoded JSON patch into column updates, rejecting unknown
// keys and values of the wrong type.
func pickFields(body map[string]interface{}, allowed map[string]fieldKind) (storage.Fields, error) {
	fields := storage.Fields{}
	for key, raw := range body {
		kind, ok := allowed[key]
		if !ok {
			return nil, fmt.Errorf("field %q cannot be updated", key)
		}
		v, err := convert(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		fields[key] = v
	}

	// publishing keeps an existing publication date
	_, hasDate := allowed["published_at"]
	if _, set := fields["published_at"]; hasDate && !set && fields["status"] == models.ContentPublished {
		fields["published_at"] = gorm.Expr("COALESCE(published_at, NOW())")
	}
	return fields, nil
}

func convert(kind fieldKind, raw interface{}) (interface{}, error) {
	switch kind {
	case kindString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string")
		}
		return s, nil
	case kindSlug:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string")
		}
		if err := validate.Slug(s); err != nil {
			return nil, err
		}
		return s, nil
	case kindStatus:
		s, ok := raw.(string)
		if !ok || !models.ContentStatus(s).Valid() {
			return nil, fmt.Errorf("must be draft or published")
		}
		return models.ContentStatus(s), nil
	case kindInt:
		f, ok := raw.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("must be an integer")
		}
		return int(f), nil
	case kindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("must be a boolean")
		}
		return b, nil
	case kindStrings:
		items, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("must be a list of strings")
		}
		out := make(pq.StringArray, 0, len(items))
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("must be a list of strings")
			}
			out = append(out, s)
		}
		return out, nil
	case kindTime:
		if raw == nil {
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be an RFC 3339 timestamp")
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("must be an RFC 3339 timestamp")
		}
		return t, nil
	}
	return nil, fmt.Errorf("unsupported field")
}
