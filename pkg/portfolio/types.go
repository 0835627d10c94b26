package portfolio

import (
	"bytes"
	"encoding/json"
)

// RequiredSections are the top-level keys a decoded document must carry for the
// resume to render. An explicit empty list satisfies the requirement; an absent
// key or a null does not.
//
//nolint:gochecknoglobals // fixed list
var RequiredSections = []string{
	"work_experience",
	"technical_skills",
	"certifications",
	"education",
	"personal_projects",
	"leadership_experience",
}

// Document represents the complete structured portfolio document.
type Document struct {
	Metadata             Metadata               `json:"metadata"`
	PersonalInfo         *PersonalInfo          `json:"personal_info"`
	Education            []Education            `json:"education"`
	WorkExperience       []WorkExperience       `json:"work_experience"`
	PersonalProjects     []PersonalProject      `json:"personal_projects"`
	TechnicalSkills      TechnicalSkills        `json:"technical_skills"`
	Certifications       []Certification        `json:"certifications"`
	LeadershipExperience []LeadershipExperience `json:"leadership_experience"`
	BlogPosts            []BlogPost             `json:"blog_posts"`
	SummaryStats         SummaryStats           `json:"summary_stats"`

	// present holds the non-null top-level keys seen when decoding.
	present map[string]bool
}

// UnmarshalJSON decodes the document and records which top-level keys it had.
func (d *Document) UnmarshalJSON(data []byte) (err error) {
	type plain Document

	var decoded plain
	err = json.Unmarshal(data, &decoded)
	if err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	err = json.Unmarshal(data, &keys)
	if err != nil {
		return err
	}

	decoded.present = make(map[string]bool, len(keys))
	for key, raw := range keys {
		if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			decoded.present[key] = true
		}
	}

	*d = Document(decoded)
	return err
}

// MissingSections returns the RequiredSections absent from the decoded JSON, in
// RequiredSections order. A document built in code rather than decoded has no
// key information and reports nothing missing.
func (d *Document) MissingSections() (missing []string) {
	if d.present == nil {
		return missing
	}

	for _, key := range RequiredSections {
		if !d.present[key] {
			missing = append(missing, key)
		}
	}
	return missing
}

// Metadata describes the document itself. Informational only.
type Metadata struct {
	GeneratedDate string `json:"generated_date"`
	Version       string `json:"version"`
	Format        string `json:"format"`
}

// PersonalInfo represents the person the portfolio describes.
type PersonalInfo struct {
	Name                string `json:"name"`
	CurrentTitle        string `json:"current_title"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Location            string `json:"location"`
	LinkedIn            string `json:"linkedin,omitempty"`
	GitHub              string `json:"github,omitempty"`
	ProfessionalSummary string `json:"professional_summary"`
}

// Education represents a single degree or course of study.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Duration    string `json:"duration"`
	Achievement string `json:"achievement"`
	Type        string `json:"type"`
}

// Project is a project delivered as part of a work experience entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Achievements []string `json:"achievements"`
	Metrics      Metrics  `json:"metrics,omitempty"`
}

// WorkExperience represents a single position held.
type WorkExperience struct {
	Company          string    `json:"company"`
	Position         string    `json:"position"`
	Duration         string    `json:"duration"`
	Location         string    `json:"location"`
	Type             string    `json:"type"`
	Description      string    `json:"description"`
	Responsibilities []string  `json:"responsibilities,omitempty"`
	Technologies     []string  `json:"technologies,omitempty"`
	Achievements     []string  `json:"achievements,omitempty"`
	Projects         []Project `json:"projects,omitempty"`
}

// PersonalProject represents a side project.
type PersonalProject struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	KeyFeatures  []string `json:"key_features"`
	Achievements []string `json:"achievements"`
	Metrics      Metrics  `json:"metrics"`
	GitHubLink   string   `json:"github_link,omitempty"`
}

// Certification represents a professional certification.
type Certification struct {
	Name     string `json:"name"`
	Issuer   string `json:"issuer"`
	Platform string `json:"platform"`
	Type     string `json:"type"`
	Status   string `json:"status"`
}

// LeadershipExperience represents a non-employment leadership role.
type LeadershipExperience struct {
	Role             string   `json:"role"`
	Organization     string   `json:"organization"`
	Duration         string   `json:"duration"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
}

// BlogPost represents a link to a published article.
type BlogPost struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	PublicationDate string   `json:"publication_date"`
	Tags            []string `json:"tags"`
	URL             string   `json:"url"`
	ReadTime        string   `json:"read_time"`
}

// SummaryStats holds precomputed counters. They are displayed as-is and never
// recomputed from the rest of the document.
type SummaryStats struct {
	TotalExperienceYears   string `json:"total_experience_years"`
	TotalProjects          int    `json:"total_projects"`
	KeyTechnologies        int    `json:"key_technologies"`
	CertificationsCount    int    `json:"certifications_count"`
	AWSCertificationsCount int    `json:"aws_certifications_count"`
	BlogPostsCount         int    `json:"blog_posts_count"`
}
