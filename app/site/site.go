// Package site holds the navigation and footer shared by every page.
package site

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSite []byte

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Footer struct {
	Text  string `yaml:"text"`
	Links []Link `yaml:"links"`
}

// Site is the chrome around page content.
type Site struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Nav     []Link `yaml:"nav"`
	Footer  Footer `yaml:"footer"`
}

// Default returns the embedded site definition.
func Default() (*Site, error) {
	return Parse(defaultSite)
}

// Parse reads a site definition.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site definition: %w", err)
	}
	if s.Name == "" {
		return nil, errors.New("site definition has no name")
	}
	for _, l := range s.Nav {
		if l.Label == "" || l.Href == "" {
			return nil, fmt.Errorf("navigation link %+v needs a label and an href", l)
		}
	}
	return &s, nil
}

// Active reports whether the navigation link href covers path.
func Active(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || (len(path) > len(href) && path[:len(href)] == href && path[len(href)] == '/')
}
