package postgres

import "fmt"

// TableNames holds dynamically prefixed table names so dev/test/prod can share
// one database. The prefix is interpolated before SQL is sent, never from
// user input.
type TableNames struct {
	Documents     string
	Folders       string
	Versions      string
	Chunks        string
	Shares        string
	Tags          string
	DocumentTags  string
	Comments      string
	ExtractedData string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Documents:     fmt.Sprintf("%sdocuments", prefix),
		Folders:       fmt.Sprintf("%sfolders", prefix),
		Versions:      fmt.Sprintf("%sdocument_versions", prefix),
		Chunks:        fmt.Sprintf("%sdocument_chunks", prefix),
		Shares:        fmt.Sprintf("%sdocument_shares", prefix),
		Tags:          fmt.Sprintf("%stags", prefix),
		DocumentTags:  fmt.Sprintf("%sdocument_tags", prefix),
		Comments:      fmt.Sprintf("%scomments", prefix),
		ExtractedData: fmt.Sprintf("%sextracted_data", prefix),
	}
}
