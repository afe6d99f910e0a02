package notify

import (
	stdhtml "html"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// FirstImageURL extracts the src of the first <img> element, in document
// order, from a fragment of entity-escaped HTML. Returns false when there is
// no image, the src is missing, or the src is not an absolute http(s) URL.
func FirstImageURL(fragment string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(stdhtml.UnescapeString(fragment)))
	if err != nil {
		return "", false
	}

	img := findFirstImg(doc)
	if img == nil {
		return "", false
	}

	for _, attr := range img.Attr {
		if attr.Key != "src" {
			continue
		}

		u, err := url.Parse(attr.Val)
		if err != nil || !u.IsAbs() {
			return "", false
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", false
		}
		return attr.Val, true
	}

	return "", false
}

func findFirstImg(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "img" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if img := findFirstImg(c); img != nil {
			return img
		}
	}
	return nil
}
