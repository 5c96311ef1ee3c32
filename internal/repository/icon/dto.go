package icon

import (
	"strconv"
	"strings"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// Hash field names of an icon document.
const (
	fieldID         = "id"
	fieldPrefix     = "prefix"
	fieldName       = "name"
	fieldFullName   = "full_name"
	fieldBody       = "body"
	fieldWidth      = "width"
	fieldHeight     = "height"
	fieldCategory   = "category"
	fieldTags       = "tags"
	fieldSearch     = "search"
	fieldLicense    = "license"
	fieldCollection = "collection"
	fieldVector     = "vector"
)

const tagSeparator = ","

// Key returns the store key of an icon document.
func Key(fullName string) string {
	return domain.KeyPrefix + "icon:" + fullName
}

func iconFromFields(fields map[string]string) domain.Icon {
	ic := domain.Icon{
		Prefix:     fields[fieldPrefix],
		Name:       fields[fieldName],
		FullName:   fields[fieldFullName],
		Body:       fields[fieldBody],
		Category:   fields[fieldCategory],
		License:    fields[fieldLicense],
		Collection: fields[fieldCollection],
		Tags:       splitTags(fields[fieldTags]),
	}
	ic.ID, _ = strconv.ParseInt(fields[fieldID], 10, 64)
	ic.Width = parseDimension(fields[fieldWidth])
	ic.Height = parseDimension(fields[fieldHeight])
	return ic
}

func summaryFromFields(fields map[string]string) domain.IconSummary {
	s := domain.IconSummary{
		FullName:   fields[fieldFullName],
		Name:       fields[fieldName],
		Prefix:     fields[fieldPrefix],
		Collection: fields[fieldCollection],
		Category:   fields[fieldCategory],
		Tags:       splitTags(fields[fieldTags]),
	}
	s.ID, _ = strconv.ParseInt(fields[fieldID], 10, 64)
	return s
}

func parseDimension(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return domain.DefaultIconSize
	}
	return v
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, tagSeparator)
	tags := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
