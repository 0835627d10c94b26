package resume

import (
	"strings"

	"github.com/nikogura/portfolio/pkg/portfolio"
	"github.com/pkg/errors"
)

const (
	// Bullet prefixes every item of a bulleted list.
	Bullet = "• "
	// ListSeparator joins inline lists.
	ListSeparator = ", "
	// sectionSeparator sits between sections and between entries of a section.
	sectionSeparator = "\n\n"
)

// ErrMissingField is returned when the document lacks a field the resume needs.
var ErrMissingField = errors.New("required portfolio field missing")

// Generate renders the plain-text resume for a portfolio document.
// Sections always appear in the same order. A missing personal_info or a
// missing required top-level section is an error; absent nested lists such as
// responsibilities render as nothing.
func Generate(doc *portfolio.Document) (text string, err error) {
	if doc == nil {
		err = errors.Wrap(ErrMissingField, "portfolio document")
		return text, err
	}

	if doc.PersonalInfo == nil {
		err = errors.Wrap(ErrMissingField, "personal_info")
		return text, err
	}

	missing := doc.MissingSections()
	if len(missing) > 0 {
		err = errors.Wrap(ErrMissingField, strings.Join(missing, ", "))
		return text, err
	}

	sections := []string{
		header(doc.PersonalInfo),
		contact(doc.PersonalInfo),
		section("PROFESSIONAL SUMMARY", doc.PersonalInfo.ProfessionalSummary),
		section("WORK EXPERIENCE", experience(doc.WorkExperience)),
		section("TECHNICAL SKILLS", skills(doc.TechnicalSkills)),
		section("CERTIFICATIONS", certifications(doc.Certifications)),
		section("EDUCATION", education(doc.Education)),
		section("PERSONAL PROJECTS", projects(doc.PersonalProjects)),
		section("LEADERSHIP EXPERIENCE", leadership(doc.LeadershipExperience)),
	}

	text = strings.TrimSpace(strings.Join(sections, sectionSeparator))
	return text, err
}

// section places body under title. An empty body leaves the title alone.
func section(title, body string) (s string) {
	s = title
	if body != "" {
		s += "\n" + body
	}
	return s
}

// lines joins the non-empty entries with newlines.
func lines(entries ...string) (s string) {
	kept := make([]string, 0, len(entries))
	for _, e := range entries {
		if e != "" {
			kept = append(kept, e)
		}
	}
	s = strings.Join(kept, "\n")
	return s
}

// blocks joins the non-empty entries with blank lines.
func blocks(entries []string) (s string) {
	kept := make([]string, 0, len(entries))
	for _, e := range entries {
		if e != "" {
			kept = append(kept, e)
		}
	}
	s = strings.Join(kept, sectionSeparator)
	return s
}

// bullets renders items one per line with the bullet prefix.
func bullets(items []string) (s string) {
	prefixed := make([]string, len(items))
	for i, item := range items {
		prefixed[i] = Bullet + item
	}
	s = strings.Join(prefixed, "\n")
	return s
}

// labelled renders "Label: value" or nothing when value is empty.
func labelled(label, value string) (s string) {
	if value != "" {
		s = label + ": " + value
	}
	return s
}

// labelledList renders a titled bullet block or nothing when items is empty.
func labelledList(label string, items []string) (s string) {
	if len(items) > 0 {
		s = label + ":\n" + bullets(items)
	}
	return s
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) (s string) {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	s = strings.Join(kept, sep)
	return s
}

func header(info *portfolio.PersonalInfo) (s string) {
	s = lines(strings.ToUpper(info.Name), info.CurrentTitle)
	return s
}

func contact(info *portfolio.PersonalInfo) (s string) {
	s = lines(
		"Contact Information:",
		"Email: "+info.Email,
		"Phone: "+info.Phone,
		"Location: "+info.Location,
		labelled("LinkedIn", info.LinkedIn),
		labelled("GitHub", info.GitHub),
	)
	return s
}

func experience(entries []portfolio.WorkExperience) (s string) {
	rendered := make([]string, len(entries))
	for i, exp := range entries {
		rendered[i] = lines(
			exp.Company,
			exp.Position,
			joinNonEmpty(" | ", exp.Duration, exp.Location),
			exp.Description,
			labelledList("Key Responsibilities", exp.Responsibilities),
			labelledList("Key Achievements", exp.Achievements),
			labelled("Technologies", strings.Join(exp.Technologies, ListSeparator)),
			workProjects(exp.Projects),
		)
	}
	s = blocks(rendered)
	return s
}

func workProjects(entries []portfolio.Project) (s string) {
	if len(entries) == 0 {
		return s
	}

	rendered := make([]string, len(entries))
	for i, p := range entries {
		title := joinNonEmpty(": ", p.Name, p.Description)
		if title != "" {
			title = Bullet + title
		}
		rendered[i] = lines(
			title,
			indent(labelled("Technologies", strings.Join(p.Technologies, ListSeparator))),
			indent(labelled("Achievements", strings.Join(p.Achievements, ListSeparator))),
			indent(labelled("Metrics", metrics(p.Metrics))),
		)
	}

	s = "Notable Projects:\n" + strings.Join(rendered, "\n")
	return s
}

func indent(line string) (s string) {
	if line != "" {
		s = "  " + line
	}
	return s
}

func metrics(m portfolio.Metrics) (s string) {
	pairs := make([]string, len(m))
	for i, metric := range m {
		pairs[i] = metric.Key + ": " + metric.Value
	}
	s = strings.Join(pairs, ListSeparator)
	return s
}

func skills(categories portfolio.TechnicalSkills) (s string) {
	rendered := make([]string, len(categories))
	for i, c := range categories {
		rendered[i] = c.Name + ": " + strings.Join(c.Tiers.Flatten(), ListSeparator)
	}
	s = strings.Join(rendered, "\n")
	return s
}

func certifications(entries []portfolio.Certification) (s string) {
	rendered := make([]string, len(entries))
	for i, c := range entries {
		rendered[i] = c.Name + " - " + c.Issuer
	}
	s = bullets(rendered)
	return s
}

func education(entries []portfolio.Education) (s string) {
	rendered := make([]string, len(entries))
	for i, e := range entries {
		rendered[i] = lines(
			e.Degree+" in "+e.Field,
			e.Institution+" | "+e.Duration+" | "+e.Achievement,
		)
	}
	s = blocks(rendered)
	return s
}

func projects(entries []portfolio.PersonalProject) (s string) {
	rendered := make([]string, len(entries))
	for i, p := range entries {
		rendered[i] = lines(
			p.Name,
			p.Description,
			labelled("Technologies", strings.Join(p.Technologies, ListSeparator)),
			labelled("Key Features", strings.Join(p.KeyFeatures, ListSeparator)),
		)
	}
	s = blocks(rendered)
	return s
}

func leadership(entries []portfolio.LeadershipExperience) (s string) {
	rendered := make([]string, len(entries))
	for i, l := range entries {
		rendered[i] = lines(
			l.Role+" - "+l.Organization,
			l.Duration,
			l.Description,
		)
	}
	s = blocks(rendered)
	return s
}
