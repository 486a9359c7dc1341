package content

import "strings"

// ExtractSections splits a flat block sequence into named sections delimited
// by level-2 headings. A heading whose text case-insensitively contains one of
// the requested names (first name wins) opens that section; subsequent blocks
// belong to it until the next level-2 heading. A heading matching no requested
// name closes the current section and its following blocks are discarded. If a
// name recurs, the later run replaces the earlier one. Every requested name is
// present in the result, empty when absent from the page.
func ExtractSections(blocks []BlockNode, names []string) map[string][]BlockNode {
	sections := make(map[string][]BlockNode, len(names))
	for _, n := range names {
		sections[n] = []BlockNode{}
	}

	current := ""
	var run []BlockNode

	flush := func() {
		if current != "" {
			sections[current] = run
		}
	}

	for _, b := range blocks {
		if b.Type == BlockHeading2 {
			flush()
			current = matchSectionName(b.Content, names)
			run = []BlockNode{}
			continue
		}
		if current != "" {
			run = append(run, b)
		}
	}
	flush()

	return sections
}

// matchSectionName returns the first requested name contained in the heading
// text, or empty string.
func matchSectionName(heading []InlineToken, names []string) string {
	text := strings.ToLower(plainText(heading))
	for _, n := range names {
		if strings.Contains(text, strings.ToLower(n)) {
			return n
		}
	}
	return ""
}

// plainText concatenates the text of every token; mention labels do not
// contribute.
func plainText(tokens []InlineToken) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}
