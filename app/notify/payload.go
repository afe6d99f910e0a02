// Package notify builds notification payloads for novel feed entries and
// posts them to the configured webhooks.
package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/feedhook/feedhook/app/feed"
)

const (
	placeholderTitle  = `¯\_(ツ)_/¯`
	placeholderAuthor = "Someones RSS Feed"
)

// Payload is a single webhook embed, built fresh per novel entry.
type Payload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       *Image  `json:"image,omitempty"`
	Author      Author  `json:"author"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

type Image struct {
	URL string `json:"url"`
}

type Author struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type webhookRequest struct {
	Embeds []Payload `json:"embeds"`
}

// BuildPayload assembles the embed for one entry. When withImage is set,
// the first image found in the entry's description HTML is attached;
// extraction is best-effort and never fails the entry.
func BuildPayload(f *feed.Feed, entry feed.Entry, withImage bool) Payload {
	payload := Payload{
		Title:       entry.Title,
		Description: buildDescription(entry),
		Author: Author{
			Name: f.Title,
		},
	}

	if payload.Title == "" {
		payload.Title = placeholderTitle
	}
	if payload.Author.Name == "" {
		payload.Author.Name = placeholderAuthor
	}
	if len(f.Links) > 0 {
		payload.Author.URL = f.Links[0].Href
	}

	if f.PublishedAt != nil {
		payload.Timestamp = f.PublishedAt.UTC().Format(time.RFC3339)
	}

	if withImage && entry.Description != "" {
		if src, ok := FirstImageURL(entry.Description); ok {
			payload.Image = &Image{URL: src}
		}
	}

	return payload
}

func buildDescription(entry feed.Entry) string {
	links := renderLinks(entry.Links)
	if links == "" {
		return entry.Description
	}
	return entry.Description + "\n\n" + links
}

// renderLinks formats the entry's links as a markdown list, one per line.
// Links without an http(s) href are excluded.
func renderLinks(links []feed.Link) string {
	var lines []string
	for i, link := range links {
		if !isHTTPURL(link.Href) {
			continue
		}

		label := link.Title
		if label == "" {
			label = fmt.Sprintf("Link %d", i+1)
		}
		lines = append(lines, fmt.Sprintf("[%s](%s)", label, link.Href))
	}
	return strings.Join(lines, "\n")
}

func isHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
