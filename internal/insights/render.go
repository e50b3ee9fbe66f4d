package insights

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/lexicon"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templateFS, "templates/*.tmpl"))

// Report formats understood by Render.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// RenderOptions tune a rendered candidate report.
type RenderOptions struct {
	Format string
	// Focus adds a closing outlook phase about a specific area.
	Focus string
	// Stale marks a candidate scored against a job that has since changed.
	Stale bool
}

type skillLine struct {
	Label string
	Score int
}

type reportData struct {
	Job       engine.JobProfile
	Candidate *engine.CandidateRecord
	Report    Report
	Skills    []skillLine
	Outlook   []Phase
	Stale     bool
}

// Render writes the candidate report for job in the requested format.
func Render(w io.Writer, lex *lexicon.Lexicon, job engine.JobProfile, c *engine.CandidateRecord, opts RenderOptions) error {
	if lex == nil {
		lex = lexicon.Default()
	}

	name := opts.Format
	switch name {
	case "", FormatText:
		name = "report.txt.tmpl"
	case FormatMarkdown, "md":
		name = "report.md.tmpl"
	default:
		return fmt.Errorf("unsupported report format %q", opts.Format)
	}

	data := reportData{
		Job:       job,
		Candidate: c,
		Report:    For(c),
		Outlook:   Outlook(c, opts.Focus),
		Stale:     opts.Stale,
	}
	for _, skill := range lexicon.Skills {
		data.Skills = append(data.Skills, skillLine{Label: lex.Label(skill), Score: c.SoftSkills[skill]})
	}

	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}
