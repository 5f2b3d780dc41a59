package wordsource

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// BigQuery reads word lists from a table with a STRING column `word` and a
// BOOL column `is_base` marking curated puzzle endpoints.
type BigQuery struct {
	Client  *bigquery.Client
	Dataset string
	Table   string
}

// NewBigQuery opens a client for project using application default credentials.
func NewBigQuery(ctx context.Context, project, dataset, table string) (*BigQuery, error) {
	if !identRe.MatchString(dataset) || !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid bigquery table %q.%q", dataset, table)
	}
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return &BigQuery{Client: client, Dataset: dataset, Table: table}, nil
}

func (b *BigQuery) Dictionary(ctx context.Context) ([]string, error) {
	return b.read(ctx, false)
}

func (b *BigQuery) BaseWords(ctx context.Context) ([]string, error) {
	return b.read(ctx, true)
}

func (b *BigQuery) Close() error { return b.Client.Close() }

type wordRow struct {
	Word string `bigquery:"word"`
}

func (b *BigQuery) read(ctx context.Context, baseOnly bool) ([]string, error) {
	q := b.Client.Query(buildQuery(b.Client.Project(), b.Dataset, b.Table, baseOnly))
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	var words []string
	for {
		var row wordRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read word row: %w", err)
		}
		words = append(words, row.Word)
	}
	return Normalize(words), nil
}

func buildQuery(project, dataset, table string, baseOnly bool) string {
	q := fmt.Sprintf("SELECT word FROM `%s.%s.%s`", project, dataset, table)
	if baseOnly {
		q += " WHERE is_base"
	}
	return q
}
