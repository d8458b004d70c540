// Package templates embeds the HTML layouts, the shared stylesheet and the
// catalog describing which layouts exist for each document kind.
package templates

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed *.html style.css catalog.yaml
var FS embed.FS

// Info describes one selectable layout.
type Info struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
}

// Group is the set of layouts for one document kind.
type Group struct {
	Default   string `yaml:"default" json:"default"`
	Templates []Info `yaml:"templates" json:"templates"`
}

type Catalog struct {
	Resume    Group `yaml:"resume" json:"resume"`
	Portfolio Group `yaml:"portfolio" json:"portfolio"`
}

// LoadCatalog parses the embedded catalog.yaml.
func LoadCatalog() (Catalog, error) {
	var c Catalog
	b, err := FS.ReadFile("catalog.yaml")
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse catalog: %w", err)
	}
	return c, nil
}

// Lookup returns the layout with the given id, falling back to the
// group's default when id is unknown.
func (g Group) Lookup(id string) Info {
	var def Info
	for _, t := range g.Templates {
		if t.ID == id {
			return t
		}
		if t.ID == g.Default {
			def = t
		}
	}
	return def
}
