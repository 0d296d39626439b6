package scraper

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

var mdConverter = md.NewConverter("", true, nil)

// htmlToMarkdown converts a description fragment to markdown, falling back
// to plain tag-stripped text when conversion fails.
func htmlToMarkdown(fragment string) string {
	out, err := mdConverter.ConvertString(fragment)
	if err != nil {
		log.Debug().Err(err).Msg("Markdown conversion failed, stripping tags instead")
		return stripTags(fragment)
	}
	return strings.TrimSpace(out)
}

// stripTags flattens an HTML fragment to its text content
func stripTags(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
}
