package knowledge

import "strings"

// Format renders a structured Entry as a "### " block followed by a
// single metadata comment, the inverse of Parse. Keys area=general,
// empty tried, and empty rule are omitted
func Format(e Entry) string {
	var sb strings.Builder
	sb.WriteString("### ")
	sb.WriteString(e.Title)
	sb.WriteString("\n")
	if strings.TrimSpace(e.Description) != "" {
		sb.WriteString(e.Description)
		sb.WriteString("\n")
	}

	var meta []string
	if e.SessionID != "" {
		meta = append(meta, "session:"+e.SessionID)
	}
	if e.CommitSHA != "" {
		meta = append(meta, "commit:"+e.CommitSHA)
	}
	if len(e.Files) > 0 {
		meta = append(meta, "files:"+strings.Join(e.Files, ","))
	}
	if e.Area != "" && e.Area != "general" {
		meta = append(meta, "area:"+e.Area)
	}
	if e.Date != "" {
		meta = append(meta, "date:"+e.Date)
	}
	if len(e.Tried) > 0 {
		meta = append(meta, "tried:"+strings.Join(e.Tried, ","))
	}
	if e.Rule != "" {
		meta = append(meta, "rule:"+e.Rule)
	}
	if len(meta) > 0 {
		sb.WriteString("<!-- ")
		sb.WriteString(strings.Join(meta, " | "))
		sb.WriteString(" -->\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatLegacy renders a legacy plain-string entry.
func FormatLegacy(title string) string {
	return "- " + title + "\n"
}
