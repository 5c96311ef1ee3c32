package collection

import (
	"encoding/json"
	"strconv"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// Hash field names of a collection document.
const (
	fieldName         = "name"
	fieldTotal        = "total"
	fieldAuthorName   = "author_name"
	fieldAuthorURL    = "author_url"
	fieldLicenseTitle = "license_title"
	fieldLicenseSPDX  = "license_spdx"
	fieldLicenseURL   = "license_url"
	fieldCategory     = "category"
	fieldPalette      = "palette"
	fieldSamplesJSON  = "samples_json"
	fieldCategoryJSON = "categories_json"
)

// Key returns the store key of a collection document.
func Key(prefix string) string {
	return domain.KeyPrefix + "collection:" + prefix
}

// collectionToHash converts a domain Collection to a map for HSET.
func collectionToHash(col domain.Collection) (map[string]string, error) {
	samplesJSON, err := json.Marshal(col.Samples)
	if err != nil {
		return nil, err
	}
	categoriesJSON, err := json.Marshal(col.Categories)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		fieldName:         col.Name,
		fieldTotal:        strconv.Itoa(col.Total),
		fieldAuthorName:   col.Author.Name,
		fieldAuthorURL:    col.Author.URL,
		fieldLicenseTitle: col.License.Title,
		fieldLicenseSPDX:  col.License.SPDX,
		fieldLicenseURL:   col.License.URL,
		fieldCategory:     col.Category,
		fieldPalette:      strconv.FormatBool(col.Palette),
		fieldSamplesJSON:  string(samplesJSON),
		fieldCategoryJSON: string(categoriesJSON),
	}, nil
}

// collectionFromHash hydrates a domain Collection from an HGETALL result map.
// The prefix is not stored as a field; it is recovered from the key by the
// caller.
func collectionFromHash(prefix string, m map[string]string) domain.Collection {
	col := domain.Collection{
		Prefix:   prefix,
		Name:     m[fieldName],
		Category: m[fieldCategory],
		Author: domain.Author{
			Name: m[fieldAuthorName],
			URL:  m[fieldAuthorURL],
		},
		License: domain.License{
			Title: m[fieldLicenseTitle],
			SPDX:  m[fieldLicenseSPDX],
			URL:   m[fieldLicenseURL],
		},
	}
	col.Total, _ = strconv.Atoi(m[fieldTotal])
	col.Palette, _ = strconv.ParseBool(m[fieldPalette])
	if s := m[fieldSamplesJSON]; s != "" {
		_ = json.Unmarshal([]byte(s), &col.Samples)
	}
	if s := m[fieldCategoryJSON]; s != "" {
		_ = json.Unmarshal([]byte(s), &col.Categories)
	}
	return col
}
