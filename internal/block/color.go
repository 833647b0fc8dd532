package block

// DefaultSubjectColor is used for subjects without a palette entry.
const DefaultSubjectColor = "#6366f1"

var subjectColors = map[string]string{
	"Mathematics":      "#3b82f6",
	"Computer Science": "#8b5cf6",
	"Physics":          "#ec4899",
	"English":          "#f59e0b",
	"Chemistry":        "#10b981",
	"History":          "#ef4444",
}

// SubjectColor returns the display color for a subject. Unknown subjects get
// the default; the palette itself is never mutated.
func SubjectColor(subject string) string {
	if c, ok := subjectColors[subject]; ok {
		return c
	}
	return DefaultSubjectColor
}

// Subjects returns the subjects with a dedicated palette color.
func Subjects() []string {
	names := make([]string, 0, len(subjectColors))
	for name := range subjectColors {
		names = append(names, name)
	}
	return names
}
