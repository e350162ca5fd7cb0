package jobs

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/models/dtos"
	gormModels "propertyhub/listingsync/internal/models/gorm"

	"gorm.io/datatypes"
)

const squareFeetToMeters = 0.09290304

// MapListing projects one upstream record onto the listings row shape.
// Missing or malformed optional fields become nil; only a record that is
// not a JSON object, or that has no id, is rejected.
func MapListing(raw json.RawMessage, now time.Time) (*gormModels.Listing, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc dtos.ListingDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, &MapError{Code: constants.ErrCodeInvalidDataFormat, Err: err}
	}
	if doc == nil {
		return nil, &MapError{Code: constants.ErrCodeInvalidDataFormat}
	}

	id := doc.ID()
	if id == "" {
		return nil, &MapError{Code: constants.ErrCodeMissingListingID}
	}

	listing := &gormModels.Listing{
		ID:           id,
		Title:        stringField(doc, "title", "nickname"),
		Address:      addressField(doc),
		Bedrooms:     intField(doc, "bedrooms"),
		Bathrooms:    floatField(doc, "bathrooms"),
		MaxGuests:    intField(doc, "accommodates", "maxGuests"),
		SquareMeters: squareMetersField(doc),
		PropertyType: stringField(doc, "propertyType", "type"),
		Status:       statusField(doc),
		ThumbnailURL: nestedString(doc, "picture", "thumbnail"),
		HighresURL:   firstNonNil(nestedString(doc, "picture", "large"), nestedString(doc, "picture", "regular"), nestedString(doc, "picture", "original")),
		Images:       imagesField(doc),
		RawData:      datatypes.JSONMap(doc),
		SyncStatus:   constants.SyncStatusActive.String(),
		IsDeleted:    false,
		LastSynced:   now,
	}

	return listing, nil
}

func stringField(doc map[string]interface{}, keys ...string) *string {
	for _, key := range keys {
		if s, ok := doc[key].(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				return &s
			}
		}
	}
	return nil
}

func nestedString(doc map[string]interface{}, parent, key string) *string {
	child, ok := doc[parent].(map[string]interface{})
	if !ok {
		return nil
	}
	return stringField(child, key)
}

func addressField(doc map[string]interface{}) *string {
	if full := nestedString(doc, "address", "full"); full != nil {
		return full
	}
	// some accounts send a flat string
	return stringField(doc, "address")
}

func statusField(doc map[string]interface{}) *string {
	if s := stringField(doc, "status"); s != nil {
		return s
	}
	if active, ok := doc["active"].(bool); ok {
		status := "inactive"
		if active {
			status = "active"
		}
		return &status
	}
	return nil
}

func squareMetersField(doc map[string]interface{}) *float64 {
	if m := floatField(doc, "squareMeters", "areaSquareMeters"); m != nil {
		return m
	}
	if ft := floatField(doc, "areaSquareFeet"); ft != nil {
		m := math.Round(*ft*squareFeetToMeters*100) / 100
		return &m
	}
	return nil
}

// imagesField collects the best URL of every entry in `pictures`.
func imagesField(doc map[string]interface{}) datatypes.JSON {
	pictures, ok := doc["pictures"].([]interface{})
	if !ok {
		return nil
	}

	urls := make([]string, 0, len(pictures))
	for _, p := range pictures {
		switch pic := p.(type) {
		case string:
			if pic != "" {
				urls = append(urls, pic)
			}
		case map[string]interface{}:
			if u := firstNonNil(stringField(pic, "original"), stringField(pic, "large"), stringField(pic, "regular"), stringField(pic, "thumbnail")); u != nil {
				urls = append(urls, *u)
			}
		}
	}
	if len(urls) == 0 {
		return nil
	}

	encoded, err := json.Marshal(urls)
	if err != nil {
		return nil
	}
	return datatypes.JSON(encoded)
}

func intField(doc map[string]interface{}, keys ...string) *int {
	f := floatField(doc, keys...)
	if f == nil {
		return nil
	}
	i := int(math.Round(*f))
	return &i
}

func floatField(doc map[string]interface{}, keys ...string) *float64 {
	for _, key := range keys {
		if f, ok := toFloat(doc[key]); ok {
			return &f
		}
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
