// Package homepage reads the services.yaml and bookmarks.yaml files of a
// gethomepage.dev install so they can seed the dashboard's tiles and bookmarks.
package homepage

// ServicesConfig is services.yaml: a list of groups, each a list of
// single-key maps from service name to its properties.
type ServicesConfig []map[string][]map[string]ServiceProps

// ServiceProps is the part of a service entry the dashboard uses.
type ServiceProps struct {
	Href        string `yaml:"href"`
	Icon        string `yaml:"icon,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// BookmarkProps is one bookmark entry.
type BookmarkProps struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// BookmarksConfig is bookmarks.yaml: - Category: [ - Name: [ {icon, abbr, href} ] ]
type BookmarksConfig []map[string][]map[string][]BookmarkProps
