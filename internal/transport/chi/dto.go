package chi

import (
	"time"

	"github.com/glyphdex/glyphdex/internal/domain"
	"github.com/glyphdex/glyphdex/internal/domain/search/result"
	collectionuc "github.com/glyphdex/glyphdex/internal/usecase/collection"
	iconuc "github.com/glyphdex/glyphdex/internal/usecase/icon"
	usageuc "github.com/glyphdex/glyphdex/internal/usecase/usage"
)

// SearchHit is one result row of the search response.
type SearchHit struct {
	FullName   string   `json:"fullName"`
	Name       string   `json:"name"`
	Prefix     string   `json:"prefix"`
	Collection string   `json:"collection,omitempty"`
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Pagination describes the returned window.
type Pagination struct {
	Count      int  `json:"count"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"hasMore"`
	NextOffset *int `json:"nextOffset,omitempty"`
}

// SearchResponse is the success envelope of GET /api/v1/search.
type SearchResponse struct {
	Results    []SearchHit `json:"results"`
	Pagination Pagination  `json:"pagination"`
}

func searchResponseFrom(results []result.Result, page result.Page) SearchResponse {
	hits := make([]SearchHit, len(results))
	for i := range results {
		r := &results[i]
		hits[i] = SearchHit{
			FullName:   r.FullName(),
			Name:       r.Name(),
			Prefix:     r.Prefix(),
			Collection: r.Collection(),
			Category:   r.Category(),
			Tags:       r.Tags(),
		}
	}

	p := Pagination{
		Count:   page.Count,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	}
	if page.HasMore {
		next := page.NextOffset
		p.NextOffset = &next
	}
	return SearchResponse{Results: hits, Pagination: p}
}

// IconResponse is the success envelope of GET /api/v1/icons/{fullName}.
type IconResponse struct {
	FullName   string   `json:"fullName"`
	Name       string   `json:"name"`
	Prefix     string   `json:"prefix"`
	Collection string   `json:"collection,omitempty"`
	Category   string   `json:"category,omitempty"`
	License    string   `json:"license,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	SVG        string   `json:"svg"`
}

func iconResponseFrom(r iconuc.Rendered) IconResponse {
	return IconResponse{
		FullName:   r.Icon.FullName,
		Name:       r.Icon.Name,
		Prefix:     r.Icon.Prefix,
		Collection: r.Icon.Collection,
		Category:   r.Icon.Category,
		License:    r.Icon.License,
		Tags:       r.Icon.Tags,
		Width:      r.Icon.Width,
		Height:     r.Icon.Height,
		SVG:        r.SVG,
	}
}

// BatchRequest is the body of POST /api/v1/icons/batch.
type BatchRequest struct {
	Names []string `json:"names"`
}

// BatchEntry is one per-name outcome of a batch lookup.
type BatchEntry struct {
	FullName string        `json:"fullName"`
	Found    bool          `json:"found"`
	Icon     *IconResponse `json:"icon,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// BatchResponse is the success envelope of POST /api/v1/icons/batch.
type BatchResponse struct {
	Items []BatchEntry `json:"items"`
}

func batchResponseFrom(items []iconuc.BatchItem) BatchResponse {
	out := make([]BatchEntry, len(items))
	for i, it := range items {
		entry := BatchEntry{FullName: it.FullName}
		if it.Icon != nil {
			entry.Found = true
			ic := IconResponse{
				FullName:   it.Icon.FullName,
				Name:       it.Icon.Name,
				Prefix:     it.Icon.Prefix,
				Collection: it.Icon.Collection,
				Category:   it.Icon.Category,
				License:    it.Icon.License,
				Tags:       it.Icon.Tags,
				Width:      it.Icon.Width,
				Height:     it.Icon.Height,
				SVG:        it.Icon.RenderSVG(0),
			}
			entry.Icon = &ic
		} else if it.Err != nil {
			entry.Error = safeDomainMessage(it.Err)
		}
		out[i] = entry
	}
	return BatchResponse{Items: out}
}

// LicenseInfo mirrors domain.License in responses.
type LicenseInfo struct {
	Title string `json:"title"`
	SPDX  string `json:"spdx,omitempty"`
	URL   string `json:"url,omitempty"`
}

// AuthorInfo mirrors domain.Author in responses.
type AuthorInfo struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// CollectionResponse is one collection in catalog responses.
type CollectionResponse struct {
	Prefix     string      `json:"prefix"`
	Name       string      `json:"name"`
	Total      int         `json:"total"`
	Category   string      `json:"category,omitempty"`
	Palette    bool        `json:"palette"`
	Author     AuthorInfo  `json:"author"`
	License    LicenseInfo `json:"license"`
	Samples    []string    `json:"samples,omitempty"`
	Categories []string    `json:"categories,omitempty"`
}

func collectionResponseFrom(c domain.Collection) CollectionResponse {
	return CollectionResponse{
		Prefix:     c.Prefix,
		Name:       c.Name,
		Total:      c.Total,
		Category:   c.Category,
		Palette:    c.Palette,
		Author:     AuthorInfo{Name: c.Author.Name, URL: c.Author.URL},
		License:    LicenseInfo{Title: c.License.Title, SPDX: c.License.SPDX, URL: c.License.URL},
		Samples:    c.Samples,
		Categories: c.Categories,
	}
}

// LicenseCountResponse is one row of GET /api/v1/licenses.
type LicenseCountResponse struct {
	License     LicenseInfo `json:"license"`
	Collections int         `json:"collections"`
	Icons       int         `json:"icons"`
}

func licenseCountResponseFrom(lc collectionuc.LicenseCount) LicenseCountResponse {
	return LicenseCountResponse{
		License:     LicenseInfo{Title: lc.License.Title, SPDX: lc.License.SPDX, URL: lc.License.URL},
		Collections: lc.Collections,
		Icons:       lc.Icons,
	}
}

// UsageResponse is the success envelope of GET /api/v1/usage.
type UsageResponse struct {
	Identity  string    `json:"identity"`
	Limit     int64     `json:"limit"`
	Used      int64     `json:"used"`
	Remaining int64     `json:"remaining"`
	ResetsAt  time.Time `json:"resetsAt"`
}

func usageResponseFrom(r usageuc.Report) UsageResponse {
	return UsageResponse{
		Identity:  r.Identity,
		Limit:     r.Limit,
		Used:      r.Used,
		Remaining: r.Remaining,
		ResetsAt:  r.ResetsAt.UTC(),
	}
}
