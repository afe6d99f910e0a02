package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strconv"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
)

const customTTLKey = "ttl"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	p := gofeed.NewParser()
	p.RSSTranslator = &ttlRSSTranslator{
		defaultTranslator: &gofeed.DefaultRSSTranslator{},
	}

	return &Parser{
		gofeedParser: p,
	}
}

func (p *Parser) Run(data []byte) (*Feed, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	feed := &Feed{
		Title: parsed.Title,
		Links: toLinks(parsed.Links, parsed.Link),
	}

	if parsed.PublishedParsed != nil {
		feed.PublishedAt = parsed.PublishedParsed
	}

	if raw, ok := parsed.Custom[customTTLKey]; ok {
		if ttl, err := strconv.Atoi(raw); err == nil {
			feed.TTLMinutes = &ttl
		}
	}

	feed.Entries = make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		feed.Entries = append(feed.Entries, p.normalizeEntry(item))
	}

	return feed, nil
}

func (p *Parser) normalizeEntry(item *gofeed.Item) Entry {
	return Entry{
		ID:          cmp.Or(item.GUID, item.Link),
		Title:       item.Title,
		Description: item.Description,
		Links:       toLinks(item.Links, item.Link),
	}
}

func toLinks(hrefs []string, fallback string) []Link {
	if len(hrefs) == 0 && fallback != "" {
		hrefs = []string{fallback}
	}

	links := make([]Link, 0, len(hrefs))
	for _, href := range hrefs {
		if href == "" {
			continue
		}
		links = append(links, Link{Href: href})
	}
	return links
}

// ttlRSSTranslator extends the default RSS translation with the channel's
// <ttl> element, which gofeed's universal feed does not carry.
type ttlRSSTranslator struct {
	defaultTranslator *gofeed.DefaultRSSTranslator
}

func (t *ttlRSSTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	rssFeed, found := feed.(*rss.Feed)
	if !found {
		return nil, fmt.Errorf("feed did not match expected type of *rss.Feed")
	}

	translated, err := t.defaultTranslator.Translate(rssFeed)
	if err != nil {
		return nil, err
	}

	if rssFeed.TTL != "" {
		if translated.Custom == nil {
			translated.Custom = make(map[string]string)
		}
		translated.Custom[customTTLKey] = rssFeed.TTL
	}

	return translated, nil
}
