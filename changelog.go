package issue2html

import (
	"fmt"
	"regexp"
	"strings"
)

// Diff behavior thresholds. These are deliberate behavior, not tuning
// knobs: change summaries are human-reviewed and depend on them.
const (
	// longFormValueThreshold is the value length above which a
	// description-like field change is rendered as a line diff.
	longFormValueThreshold = 50
	// diffSummaryThreshold is the diff length above which the diff
	// collapses into a summary with a detail section.
	diffSummaryThreshold = 10
	// diffShownLineCap caps the lines shown inside the detail section.
	diffShownLineCap = 20
	// blankRunLimit is the longest run of blank diff lines kept verbatim.
	blankRunLimit = 2
)

// changePattern is one entry of the change-announcement table. The table is
// a heuristic over free-text bodies, not a grammar: content that happens to
// match a change phrasing is misclassified. Keep one test per entry.
type changePattern struct {
	locale string
	field  string
	re     *regexp.Regexp
}

// changeAnnouncementPatterns covers status, assignee, priority, due-date,
// and category phrasings in English and Russian.
var changeAnnouncementPatterns = []changePattern{
	{"en", "status", regexp.MustCompile(`(?i)^status (?:changed|set)\b`)},
	{"en", "assignee", regexp.MustCompile(`(?i)^assignee (?:changed|set|removed)\b`)},
	{"en", "priority", regexp.MustCompile(`(?i)^priority (?:changed|set)\b`)},
	{"en", "duedate", regexp.MustCompile(`(?i)^due date (?:changed|set|removed)\b`)},
	{"en", "category", regexp.MustCompile(`(?i)^category (?:changed|set)\b`)},
	{"ru", "status", regexp.MustCompile(`(?i)^статус измен[её]н`)},
	{"ru", "assignee", regexp.MustCompile(`(?i)^исполнитель (?:измен[её]н|назначен|снят)`)},
	{"ru", "priority", regexp.MustCompile(`(?i)^приоритет измен[её]н`)},
	{"ru", "duedate", regexp.MustCompile(`(?i)^срок (?:выполнения )?(?:измен[её]н|установлен)`)},
	{"ru", "category", regexp.MustCompile(`(?i)^категория изменена`)},
}

// matchesChangeAnnouncement reports whether body reads like a
// system-generated change announcement.
func matchesChangeAnnouncement(body string) bool {
	trimmed := strings.TrimSpace(body)
	for _, p := range changeAnnouncementPatterns {
		if p.re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// ClassifyActivity splits entries into human-authored remarks and
// system-generated change records. An entry is a change record if it
// carries structured field changes, has no body, or its body matches a
// change-announcement pattern.
func ClassifyActivity(entries []ActivityEntry) (remarks, changes []ActivityEntry) {
	for _, e := range entries {
		if isChangeRecord(e) {
			changes = append(changes, e)
		} else {
			remarks = append(remarks, e)
		}
	}
	return remarks, changes
}

func isChangeRecord(e ActivityEntry) bool {
	return len(e.FieldChanges) > 0 || strings.TrimSpace(e.Body) == "" || matchesChangeAnnouncement(e.Body)
}

// fieldStyle maps a field name (or free-text body) to a CSS class and icon.
// Matching is keyword-based in both supported locales, falling back to
// "other".
func fieldStyle(field string) (class, icon string) {
	f := strings.ToLower(field)
	switch {
	case containsAny(f, "assignee", "исполнитель"):
		return "change-assignee", "👤"
	case containsAny(f, "status", "статус"):
		return "change-status", "⚙"
	case containsAny(f, "priority", "приоритет"):
		return "change-priority", "❗"
	case containsAny(f, "due", "срок"):
		return "change-duedate", "📅"
	case containsAny(f, "summary", "title", "тема", "название"):
		return "change-summary", "✏"
	case containsAny(f, "description", "описание"):
		return "change-description", "📝"
	default:
		return "change-other", "📋"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isLongFormChange reports whether a field change should be rendered as a
// line diff: a description-like field with at least one value over the
// length threshold.
func isLongFormChange(fc FieldChange) bool {
	if !containsAny(strings.ToLower(fc.Field), "description", "описание") {
		return false
	}
	return len(fc.From) > longFormValueThreshold || len(fc.To) > longFormValueThreshold
}

// LineDiff computes a line-presence diff between two multi-line values: a
// line is removed if present in original but absent from updated, added if
// present in updated but absent from original. This is a set-membership
// test, not a positional alignment; runs of more than blankRunLimit blank
// diff lines collapse into one summary line.
func LineDiff(original, updated string) []DiffLine {
	origLines := splitDiffLines(original)
	newLines := splitDiffLines(updated)
	origSet := lineSet(origLines)
	newSet := lineSet(newLines)

	var diff []DiffLine
	for _, line := range origLines {
		if _, ok := newSet[line]; !ok {
			diff = append(diff, DiffLine{Kind: DiffRemoved, Content: line})
		}
	}
	for _, line := range newLines {
		if _, ok := origSet[line]; !ok {
			diff = append(diff, DiffLine{Kind: DiffAdded, Content: line})
		}
	}
	return collapseBlankRuns(diff)
}

func splitDiffLines(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(crlfOrCR.ReplaceAllString(value, "\n"), "\n")
}

func lineSet(lines []string) map[string]struct{} {
	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		set[line] = struct{}{}
	}
	return set
}

// collapseBlankRuns replaces any run of more than blankRunLimit consecutive
// blank diff lines with a single elision line.
func collapseBlankRuns(diff []DiffLine) []DiffLine {
	var out []DiffLine
	run := 0
	for _, line := range diff {
		if strings.TrimSpace(line.Content) == "" {
			run++
			if run <= blankRunLimit {
				out = append(out, line)
			} else if run == blankRunLimit+1 {
				// Swap the run kept so far for one elision marker.
				out = out[:len(out)-blankRunLimit]
				out = append(out, DiffLine{Kind: line.Kind, Content: "⋮"})
			}
			continue
		}
		run = 0
		out = append(out, line)
	}
	return out
}

// ChangeFormatter renders change records as field-level diffs. The zero
// value is ready to use.
type ChangeFormatter struct{}

// FormatChange renders one change record. Structured field changes are
// preferred; without them the free-text body is pattern-matched for an
// icon and emitted escaped.
func (f ChangeFormatter) FormatChange(e ActivityEntry) string {
	if len(e.FieldChanges) == 0 {
		class, icon := fieldStyle(e.Body)
		return `<div class="change ` + class + `"><span class="change-icon">` + icon + `</span> ` +
			EscapeHTML(strings.TrimSpace(e.Body)) + `</div>` + "\n"
	}
	var b strings.Builder
	for _, fc := range e.FieldChanges {
		b.WriteString(f.formatFieldChange(fc))
	}
	return b.String()
}

func (f ChangeFormatter) formatFieldChange(fc FieldChange) string {
	class, icon := fieldStyle(fc.Field)
	var b strings.Builder
	b.WriteString(`<div class="change ` + class + `"><span class="change-icon">` + icon + `</span> `)
	b.WriteString(`<span class="change-field">` + EscapeHTML(fc.Field) + `</span>`)

	switch {
	case fc.From == fc.To:
		b.WriteString(` <span class="change-none">no change</span>`)
	case isLongFormChange(fc):
		b.WriteString(f.renderLineDiff(fc))
	default:
		b.WriteString(`<div class="diff">`)
		if fc.From != "" {
			b.WriteString(renderDiffLine(DiffLine{Kind: DiffRemoved, Content: fc.From}))
		}
		if fc.To != "" {
			b.WriteString(renderDiffLine(DiffLine{Kind: DiffAdded, Content: fc.To}))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString("</div>\n")
	return b.String()
}

// renderLineDiff renders the long-form diff, collapsing to a length-change
// summary with a capped detail section past diffSummaryThreshold lines.
func (f ChangeFormatter) renderLineDiff(fc FieldChange) string {
	diff := LineDiff(fc.From, fc.To)

	if len(diff) <= diffSummaryThreshold {
		var b strings.Builder
		b.WriteString(`<div class="diff">`)
		for _, line := range diff {
			b.WriteString(renderDiffLine(line))
		}
		b.WriteString(`</div>`)
		return b.String()
	}

	shown := diff
	truncated := 0
	if len(shown) > diffShownLineCap {
		truncated = len(shown) - diffShownLineCap
		shown = shown[:diffShownLineCap]
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="change-size">%d &rarr; %d characters</div>`, len(fc.From), len(fc.To))
	b.WriteString(`<details class="diff-details"><summary>Show diff</summary><div class="diff">`)
	for _, line := range shown {
		b.WriteString(renderDiffLine(line))
	}
	if truncated > 0 {
		fmt.Fprintf(&b, `<div class="diff-truncated">… %d more lines</div>`, truncated)
	}
	b.WriteString(`</div></details>`)
	return b.String()
}

func renderDiffLine(line DiffLine) string {
	if line.Kind == DiffRemoved {
		return `<div class="diff-removed">- ` + EscapeHTML(line.Content) + `</div>`
	}
	return `<div class="diff-added">+ ` + EscapeHTML(line.Content) + `</div>`
}
