package model

// ResourceConfig describes one content collection: its URL segment (which is
// also the table / data file name), the mutable columns the store accepts,
// the fixed list ordering, and which status value the dashboard counts.
type ResourceConfig struct {
	Name          string
	Columns       []string
	Descending    bool
	CountedStatus string
}

// Resources lists every content collection served by the CRUD engine.
// Column sets mirror the SQL schema in migrations/.
var Resources = []ResourceConfig{
	{
		Name: "news",
		Columns: []string{
			"title_th", "title_en", "excerpt_th", "excerpt_en",
			"content_th", "content_en", "image", "date", "category",
			"featured", "status",
		},
		Descending:    true,
		CountedStatus: "published",
	},
	{
		Name: "announcements",
		Columns: []string{
			"title_th", "title_en", "content_th", "content_en",
			"priority", "status", "date",
		},
		Descending:    true,
		CountedStatus: "active",
	},
	{
		Name: "documents",
		Columns: []string{
			"title_th", "title_en", "description_th", "description_en",
			"icon", "file_url", "category", "status",
		},
	},
	{
		Name: "faq",
		Columns: []string{
			"question_th", "question_en", "answer_th", "answer_en",
			"order", "status",
		},
	},
	{
		Name: "services",
		Columns: []string{
			"title_th", "title_en", "description_th", "description_en",
			"content_th", "content_en", "icon", "image", "category",
			"order", "status",
		},
		CountedStatus: "published",
	},
}

// ResourceByName looks up a collection config by its URL segment.
func ResourceByName(name string) (ResourceConfig, bool) {
	for _, r := range Resources {
		if r.Name == name {
			return r, true
		}
	}
	return ResourceConfig{}, false
}

// HasColumn reports whether the collection accepts the given field.
func (c ResourceConfig) HasColumn(name string) bool {
	for _, col := range c.Columns {
		if col == name {
			return true
		}
	}
	return false
}
