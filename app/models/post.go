package models

import "time"

func (p *Post) RecordID() string     { return p.ID }
func (p *Post) DisplayName() string  { return p.Title }
func (p *Post) ImageURL() string     { return p.MainImageURL }
func (p *Post) Timestamp() time.Time { return p.PublishedAt }

// Path returns the site path of the post.
func (p *Post) Path() string {
	return "/posts/" + p.Slug.Current
}

func (n *NewsItem) RecordID() string     { return n.ID }
func (n *NewsItem) DisplayName() string  { return n.Title }
func (n *NewsItem) Timestamp() time.Time { return n.Date }

func (n *NewsItem) ImageURL() string {
	if n.MainImage == nil {
		return ""
	}
	return n.MainImage.Asset.URL
}

// Path returns the site path of the news item.
func (n *NewsItem) Path() string {
	return "/news/" + n.Slug.Current
}

// CategoryIDs returns the ids of the categories the item references.
func (n *NewsItem) CategoryIDs() []string {
	ids := make([]string, 0, len(n.Categories))
	for _, c := range n.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func (c *CarSpec) RecordID() string    { return c.ID }
func (c *CarSpec) DisplayName() string { return c.Name }

// Timestamp is zero: car specifications are not dated.
func (c *CarSpec) Timestamp() time.Time { return time.Time{} }

func (c *CarSpec) ImageURL() string {
	if c.Image == nil {
		return ""
	}
	return c.Image.Asset.URL
}
