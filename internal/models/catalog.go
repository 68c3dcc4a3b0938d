// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package models

// ResourceType enumerates the kinds of study resources the catalog accepts.
type ResourceType string

// Supported resource types.
const (
	ResourceTypePDF     ResourceType = "pdf"
	ResourceTypeYouTube ResourceType = "youtube"
	ResourceTypeWebsite ResourceType = "website"
)

// Valid reports whether t is one of the supported resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypePDF, ResourceTypeYouTube, ResourceTypeWebsite:
		return true
	default:
		return false
	}
}

// RequiresURL reports whether resources of this type must carry an external URL.
// PDF resources get their URL from the upload handler instead.
func (t ResourceType) RequiresURL() bool {
	return t == ResourceTypeYouTube || t == ResourceTypeWebsite
}

// Resource is a single catalog entry. For PDF resources URL is a
// server-relative path under /uploads; for the other types it is an
// external absolute URL. Views starts at zero and is never incremented
// by the server; the field exists for front-end display parity.
type Resource struct {
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Views       int          `json:"views"`
	Description string       `json:"description"`
}

// StudyMaterials maps year -> stream -> subject -> ordered resource list.
// Insertion order within a subject list is meaningful: it is the display order.
type StudyMaterials map[string]map[string]map[string][]Resource

// Catalog is the full persisted document. The wrapper object matches the
// on-disk JSON shape: {"studyMaterials": {...}}.
type Catalog struct {
	StudyMaterials StudyMaterials `json:"studyMaterials"`
}

// NewCatalog returns an empty catalog with the materials map initialized.
func NewCatalog() *Catalog {
	return &Catalog{StudyMaterials: make(StudyMaterials)}
}

// Normalize ensures the materials map is non-nil. Useful after unmarshaling
// documents written by hand or by older versions.
func (c *Catalog) Normalize() {
	if c.StudyMaterials == nil {
		c.StudyMaterials = make(StudyMaterials)
	}
}

// Append adds a resource at year/stream/subject, creating the intermediate
// containers on first write. The caller is responsible for key validation.
func (c *Catalog) Append(year, stream, subject string, res Resource) {
	c.Normalize()
	if c.StudyMaterials[year] == nil {
		c.StudyMaterials[year] = make(map[string]map[string][]Resource)
	}
	if c.StudyMaterials[year][stream] == nil {
		c.StudyMaterials[year][stream] = make(map[string][]Resource)
	}
	c.StudyMaterials[year][stream][subject] = append(c.StudyMaterials[year][stream][subject], res)
}

// Resources returns the resource list at year/stream/subject, or nil if the
// path does not exist.
func (c *Catalog) Resources(year, stream, subject string) []Resource {
	streams, ok := c.StudyMaterials[year]
	if !ok {
		return nil
	}
	subjects, ok := streams[stream]
	if !ok {
		return nil
	}
	return subjects[subject]
}

// Len returns the total number of resources across the whole catalog.
func (c *Catalog) Len() int {
	n := 0
	for _, streams := range c.StudyMaterials {
		for _, subjects := range streams {
			for _, resources := range subjects {
				n += len(resources)
			}
		}
	}
	return n
}

// Clone returns a deep copy of the catalog. Resource values are copied by
// value; the returned catalog shares no containers with the receiver.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	for year, streams := range c.StudyMaterials {
		out.StudyMaterials[year] = make(map[string]map[string][]Resource, len(streams))
		for stream, subjects := range streams {
			out.StudyMaterials[year][stream] = make(map[string][]Resource, len(subjects))
			for subject, resources := range subjects {
				copied := make([]Resource, len(resources))
				copy(copied, resources)
				out.StudyMaterials[year][stream][subject] = copied
			}
		}
	}
	return out
}
