package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/vincentFaye/dev-social-network/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	statuses = []string{
		"Developer", "Junior Developer", "Senior Developer", "Manager",
		"Student or Learning", "Instructor or Teacher", "Intern", "Other",
	}

	skillPool = []string{
		"Go", "JavaScript", "TypeScript", "React", "Node.js", "Python", "SQL",
		"PostgreSQL", "Redis", "Docker", "Kubernetes", "HTML", "CSS", "Rust",
	}

	degrees = []string{"BSc", "MSc", "BA", "PhD", "Bootcamp Certificate"}

	fields = []string{
		"Computer Science", "Software Engineering", "Mathematics",
		"Information Systems", "Electrical Engineering", "Physics",
	}
)

// Factory builds fake submissions for seeding.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory returns a Factory whose output is reproducible for a given seed.
// A zero seed draws from a random source.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// Identity is the registration data of a seeded user.
type Identity struct {
	Name  string
	Email string
}

// Identity returns a fresh name and an email unique within one seeding run.
func (f *Factory) Identity(i int) Identity {
	first, last := f.faker.FirstName(), f.faker.LastName()
	return Identity{
		Name:  first + " " + last,
		Email: strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, i)),
	}
}

// Profile returns a complete profile submission.
func (f *Factory) Profile() service.ProfileFields {
	handle := strings.ToLower(f.faker.Username())
	return service.ProfileFields{
		Company:        f.faker.Company(),
		Website:        "https://" + f.faker.DomainName(),
		Location:       f.faker.City() + ", " + f.faker.Country(),
		Bio:            f.faker.Sentence(12),
		Status:         f.pick(statuses),
		GithubUsername: sanitizeLogin(handle),
		Skills:         strings.Join(f.skills(), ", "),
		Twitter:        "https://twitter.com/" + handle,
		Linkedin:       "https://linkedin.com/in/" + handle,
	}
}

// Experience returns a past job, or the current one when current is set.
func (f *Factory) Experience(current bool) service.ExperienceInput {
	from, to := f.period(current)
	return service.ExperienceInput{
		Title:       f.faker.JobTitle(),
		Company:     f.faker.Company(),
		Location:    f.faker.City(),
		From:        from,
		To:          to,
		Current:     current,
		Description: f.faker.Sentence(10),
	}
}

// Education returns a completed schooling entry.
func (f *Factory) Education() service.EducationInput {
	from, to := f.period(false)
	return service.EducationInput{
		School:       f.faker.Company() + " University",
		Degree:       f.pick(degrees),
		FieldOfStudy: f.pick(fields),
		From:         from,
		To:           to,
		Description:  f.faker.Sentence(8),
	}
}

// PostText returns the body of a post.
func (f *Factory) PostText() string {
	return f.faker.Paragraph(1, 3, 12, " ")
}

// CommentText returns the body of a comment.
func (f *Factory) CommentText() string {
	return f.faker.Sentence(f.faker.Number(4, 14))
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

// Intn returns a number in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

func (f *Factory) pick(options []string) string {
	return options[f.Intn(len(options))]
}

func (f *Factory) skills() []string {
	n := f.faker.Number(2, 6)
	out := make([]string, 0, n)
	for _, i := range f.faker.Rand.Perm(len(skillPool))[:n] {
		out = append(out, skillPool[i])
	}
	return out
}

// period returns a start date within the last ten years and, unless
// current, an end date after it.
func (f *Factory) period(current bool) (string, string) {
	now := time.Now().UTC()
	start := f.faker.DateRange(now.AddDate(-10, 0, 0), now.AddDate(-1, 0, 0))
	if current {
		return start.Format(time.DateOnly), ""
	}
	end := f.faker.DateRange(start.AddDate(0, 1, 0), now)
	return start.Format(time.DateOnly), end.Format(time.DateOnly)
}

// sanitizeLogin keeps only characters GitHub allows in a login.
func sanitizeLogin(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 39 {
		out = out[:39]
	}
	return out
}
