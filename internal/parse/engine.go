package parse

import (
	"regexp"
	"strings"
	"sync"

	"github.com/scottpeterman/termtelent-sub002/internal/logger"
)

// TemplateEngine is our Engine implementation. Each stored template is a
// multiline regular expression with named capture groups; every match of
// the expression against the raw output yields one record.
type TemplateEngine struct {
	repo     Repo
	log      logger.Logger
	mu       sync.Mutex
	compiled map[int]*regexp.Regexp
}

// NewTemplateEngine returns a new instance of TemplateEngine
func NewTemplateEngine(repo Repo) *TemplateEngine {
	return &TemplateEngine{
		repo:     repo,
		log:      logger.New(),
		compiled: map[int]*regexp.Regexp{},
	}
}

// FindBestTemplate tries every template matching the hint against the raw
// output and returns the highest scoring one. A score of zero means no
// template produced records.
func (e *TemplateEngine) FindBestTemplate(raw string, hint string) (string, []Record, float64) {
	templates, err := e.repo.FindTemplates(hint)

	if err != nil {
		e.log.Error().Err(err).Str("hint", hint).Msg("template lookup failed")
		return "", nil, 0
	}

	bestName := ""
	bestScore := 0.0

	var bestRecords []Record

	for _, tmpl := range templates {
		re, err := e.compile(tmpl)

		if err != nil {
			e.log.Debug().
				Err(err).
				Str("template", tmpl.CLICommand).
				Msg("skipping malformed template")
			continue
		}

		records := extractRecords(re, raw)
		score := scoreTemplate(tmpl, records)

		if score > bestScore {
			bestName = tmpl.CLICommand
			bestScore = score
			bestRecords = records
		}
	}

	return bestName, bestRecords, bestScore
}

func (e *TemplateEngine) compile(tmpl *Template) (*regexp.Regexp, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if re, ok := e.compiled[tmpl.ID]; ok {
		return re, nil
	}

	re, err := regexp.Compile("(?m)" + tmpl.Content)

	if err != nil {
		return nil, err
	}

	e.compiled[tmpl.ID] = re

	return re, nil
}

func extractRecords(re *regexp.Regexp, raw string) []Record {
	matches := re.FindAllStringSubmatch(raw, -1)

	records := []Record{}

	for _, match := range matches {
		record := Record{}

		for i, field := range re.SubexpNames() {
			if i == 0 || field == "" {
				continue
			}
			record[field] = strings.TrimSpace(match[i])
		}

		if len(record) > 0 {
			records = append(records, record)
		}
	}

	return records
}

// scoreTemplate weights matches by command shape: version style commands
// expect exactly one record, table style commands score by count
func scoreTemplate(tmpl *Template, records []Record) float64 {
	if len(records) == 0 {
		return 0
	}

	if strings.Contains(strings.ToLower(tmpl.CLICommand), "version") {
		if len(records) == 1 {
			return 30
		}
		return 15
	}

	score := float64(len(records)) * 10

	if score > 30 {
		score = 30
	}

	return score
}
