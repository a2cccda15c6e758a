package generation

import (
	"fmt"
	"regexp"
	"strings"

	"resume-builder/internal/resumes"
)

const summaryInstructions = `You are an expert resume writer and career consultant. Create a compelling, professional career summary that will grab recruiters' attention and showcase the candidate's value proposition.

Guidelines for the summary:
- Write 3-4 well-structured sentences (60-100 words)
- Use strong action words and industry-relevant keywords
- Highlight key achievements, skills, and experience
- Focus on value the candidate brings to employers
- Start with the candidate's professional identity or years of experience
- Include quantifiable achievements when possible

Return only the polished summary text without any headings, labels, or explanations.`

const workExperienceInstructions = `You are a job resume generator. Your task is to generate a single work experience entry based on the user input.
Your response must adhere to the following structure. You can omit fields if they can't be inferred from the provided data, but don't add any new ones.

Job title: <job title>
Company: <company name>
Start date: <format: YYYY-MM-DD> (only if provided)
End date: <format: YYYY-MM-DD> (only if provided)
Description: <an optimized description in bullet format, might be inferred from the job title>`

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func dateOr(d *resumes.Date, def string) string {
	if d == nil || d.IsZero() {
		return def
	}
	return d.String()
}

func buildSummaryPrompt(in SummaryInput) string {
	var b strings.Builder
	b.WriteString(summaryInstructions)
	b.WriteString("\n\nCreate a compelling professional summary for this candidate:\n\n")
	fmt.Fprintf(&b, "Target Role: %s\n\n", orDefault(in.JobTitle, "Professional"))

	b.WriteString("Professional Experience:\n")
	if len(in.WorkExperiences) == 0 {
		b.WriteString("No professional experience provided\n")
	}
	for i, w := range in.WorkExperiences {
		fmt.Fprintf(&b, "%d. %s at %s\n   Duration: %s to %s\n   Key Responsibilities & Achievements: %s\n",
			i+1,
			orDefault(w.Position, "Position"),
			orDefault(w.Company, "Company"),
			dateOr(w.StartDate, "Start"),
			dateOr(w.EndDate, "Present"),
			orDefault(w.Description, "No description provided"),
		)
	}

	b.WriteString("\nEducational Background:\n")
	if len(in.Educations) == 0 {
		b.WriteString("No educational background provided\n")
	}
	for i, e := range in.Educations {
		fmt.Fprintf(&b, "%d. %s from %s\n   Completed: %s to %s\n",
			i+1,
			orDefault(e.Degree, "Degree"),
			orDefault(e.School, "Institution"),
			dateOr(e.StartDate, "Start"),
			dateOr(e.EndDate, "End"),
		)
	}

	fmt.Fprintf(&b, "\nCore Skills & Expertise: %s\n", orDefault(strings.Join(in.Skills, ", "), "Skills to be highlighted"))
	return b.String()
}

func buildWorkExperiencePrompt(description string) string {
	return workExperienceInstructions + "\n\nPlease provide a work experience entry from this description:\n" + description
}

var (
	jobTitleRe    = regexp.MustCompile(`Job title: (.*)`)
	companyRe     = regexp.MustCompile(`Company: (.*)`)
	descriptionRe = regexp.MustCompile(`(?s)Description:(.*)`)
	startDateRe   = regexp.MustCompile(`Start date: (\d{4}-\d{2}-\d{2})`)
	endDateRe     = regexp.MustCompile(`End date: (\d{4}-\d{2}-\d{2})`)
)

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func parseDate(re *regexp.Regexp, text string) *resumes.Date {
	raw := firstGroup(re, text)
	if raw == "" {
		return nil
	}
	d, err := resumes.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &d
}

// parseWorkExperience reads the labelled response format. Missing labels leave
// fields empty; malformed dates are dropped.
func parseWorkExperience(text string) resumes.WorkExperience {
	return resumes.WorkExperience{
		Position:    firstGroup(jobTitleRe, text),
		Company:     firstGroup(companyRe, text),
		Description: firstGroup(descriptionRe, text),
		StartDate:   parseDate(startDateRe, text),
		EndDate:     parseDate(endDateRe, text),
	}
}
