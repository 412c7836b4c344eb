package ingest

import (
	"html"
	"path/filepath"
	"regexp"
	"strings"
)

// Normalize converts a file's raw bytes into plain text and picks a
// title. The format is chosen by file extension; unknown extensions are
// treated as plain text.
func Normalize(filename string, data []byte) (title, text string) {
	content := string(data)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return markdownTitle(content, filename), stripMarkdown(content)
	case ".html", ".htm":
		return htmlTitle(content, filename), stripHTML(content)
	default:
		return filenameTitle(filename), normalizePlaintext(content)
	}
}

// filenameTitle derives a readable title from a file name.
func filenameTitle(filename string) string {
	name := filepath.Base(filename)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// normalizePlaintext unifies line endings and trims trailing space.
func normalizePlaintext(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.TrimSpace(content)
}

// markdownTitle prefers the first H1 heading over the filename.
func markdownTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return filenameTitle(filename)
}

// Pre-compiled regular expressions for markdown stripping.
var (
	mdCodeBlock    = regexp.MustCompile("(?s)```[^`]*```")
	mdInlineCode   = regexp.MustCompile("`[^`]+`")
	mdImages       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	mdLinks        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdHeadings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBlockquote   = regexp.MustCompile(`(?m)^>\s*`)
	mdHorizRule    = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	mdListMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdNumberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
)

// stripMarkdown removes common markdown formatting for plain text content.
// This is a simplified implementation that handles common cases.
func stripMarkdown(content string) string {
	content = mdCodeBlock.ReplaceAllString(content, "")
	content = mdInlineCode.ReplaceAllString(content, "")
	content = mdImages.ReplaceAllString(content, "")

	// Convert links [text](url) to just text
	content = mdLinks.ReplaceAllString(content, "$1")

	content = mdHeadings.ReplaceAllString(content, "")

	// Remove bold/italic markers
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = strings.ReplaceAll(content, "_", " ")

	content = mdBlockquote.ReplaceAllString(content, "")
	content = mdHorizRule.ReplaceAllString(content, "")
	content = mdListMarkers.ReplaceAllString(content, "")
	content = mdNumberedList.ReplaceAllString(content, "")

	// Collapse multiple newlines
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
)

// htmlTitle prefers the <title> tag over the filename.
func htmlTitle(content, filename string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		title := strings.TrimSpace(html.UnescapeString(matches[1]))
		if title != "" {
			return title
		}
	}
	return filenameTitle(filename)
}

// stripHTML removes HTML tags and extracts readable text content.
func stripHTML(content string) string {
	// Remove script, style, noscript, head, and svg tags entirely
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block boundaries become newlines for readability
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	// Strip all remaining HTML tags
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	// Collapse multiple spaces (but preserve newlines)
	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	// Trim each line and remove empty lines
	lines := strings.Split(content, "\n")
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
