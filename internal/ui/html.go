package ui

import (
	"html"
	"regexp"
	"strings"
)

// Rich-text bodies come over the wire as a constrained HTML fragment
// (paragraphs, headings, lists, emphasis, code, links). htmlToMarkdown
// maps that subset onto markdown so the terminal renderer can style it;
// unknown tags are dropped, text content always survives.

var (
	htmlHeadingRe = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	htmlAnchorRe  = regexp.MustCompile(`(?is)<a\s+[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	htmlTagRe     = regexp.MustCompile(`(?s)<[^>]*>`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

var htmlBlockReplacer = strings.NewReplacer(
	"</p>", "\n\n",
	"</P>", "\n\n",
	"<br>", "\n",
	"<br/>", "\n",
	"<br />", "\n",
	"</li>", "\n",
	"</LI>", "\n",
	"<li>", "- ",
	"<LI>", "- ",
	"</ul>", "\n",
	"</ol>", "\n",
	"</blockquote>", "\n\n",
	"<blockquote>", "> ",
	"<strong>", "**",
	"</strong>", "**",
	"<b>", "**",
	"</b>", "**",
	"<em>", "*",
	"</em>", "*",
	"<i>", "*",
	"</i>", "*",
	"<code>", "`",
	"</code>", "`",
	"<pre>", "\n```\n",
	"</pre>", "\n```\n",
)

// htmlToMarkdown converts a rich-text HTML fragment to markdown.
func htmlToMarkdown(in string) string {
	out := htmlHeadingRe.ReplaceAllStringFunc(in, func(m string) string {
		parts := htmlHeadingRe.FindStringSubmatch(m)
		level := int(parts[1][0] - '0')
		return "\n" + strings.Repeat("#", level) + " " + parts[2] + "\n\n"
	})
	out = htmlAnchorRe.ReplaceAllString(out, "[$2]($1)")
	out = htmlBlockReplacer.Replace(out)
	out = htmlTagRe.ReplaceAllString(out, "")
	out = html.UnescapeString(out)
	out = blankLinesRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// RenderHTML renders a rich-text HTML fragment for the terminal. The
// fragment is mapped to markdown first so headings, lists and emphasis
// keep their structure; without color support the plain markdown text
// is returned as-is.
func RenderHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	return RenderMarkdown(htmlToMarkdown(fragment))
}

// HTMLToText flattens a rich-text HTML fragment into a single line of
// plain text for list views and previews.
func HTMLToText(fragment string) string {
	md := htmlToMarkdown(fragment)
	md = strings.NewReplacer("**", "", "```", "", "`", "").Replace(md)
	return strings.Join(strings.Fields(md), " ")
}
