package parse

//go:generate mockgen -destination=../mock/parse/mock_parse.go -package=mock_parse . Engine,Repo

// Record is one parsed row keyed by template field name
type Record map[string]string

// MinConfidence is the score a template match must exceed before its
// records are trusted. At or below this the caller treats the output as
// having produced no records.
const MinConfidence = 10.0

// Template is a stored pattern for one CLI command's output
type Template struct {
	ID         int    `gorm:"primaryKey"`
	CLICommand string `gorm:"column:cli_command;index"`
	Content    string `gorm:"column:content"`
}

// Engine selects the best matching template for raw command output and
// returns its records along with a confidence score
type Engine interface {
	FindBestTemplate(raw string, hint string) (string, []Record, float64)
}

// Repo interface representing access to stored templates
type Repo interface {
	FindTemplates(hint string) ([]*Template, error)
}
