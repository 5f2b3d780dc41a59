package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"svw.info/wordladder/internal/domain"
)

// puzzleRow mirrors the exported puzzles table plus the saved path.
type puzzleRow struct {
	ID         string `gorm:"primaryKey"`
	Name       string
	StartWord  string `gorm:"not null"`
	TargetWord string `gorm:"not null"`
	MinSteps   int    `gorm:"not null;index:idx_puzzles_steps"`
	Difficulty string `gorm:"not null;index:idx_puzzles_difficulty"`
	Path       datatypes.JSON
	CreatedAt  int64 `gorm:"autoCreateTime:false"`
}

func (puzzleRow) TableName() string { return "puzzles" }

type dictionaryRow struct {
	Word   string `gorm:"primaryKey"`
	Length int    `gorm:"not null;index:idx_dictionary_length"`
}

func (dictionaryRow) TableName() string { return "dictionary" }

// SQLStore keeps records in a relational database through gorm.
type SQLStore struct {
	DB *gorm.DB
}

// OpenSQLite opens (or creates) a SQLite database at path and migrates it.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewSQLStore(db)
}

// NewSQLStore migrates the schema on db.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&puzzleRow{}, &dictionaryRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{DB: db}, nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) Save(ctx context.Context, r *domain.Record) error {
	if r == nil || !validID(r.ID) {
		return errMissingID
	}
	if err := r.Puzzle.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	path, err := json.Marshal(r.Puzzle.Path)
	if err != nil {
		return err
	}
	created := r.CreatedAt
	if created == 0 {
		created = time.Now().UnixNano()
	}
	row := puzzleRow{
		ID:         r.ID,
		Name:       r.Name,
		StartWord:  r.Puzzle.Start,
		TargetWord: r.Puzzle.End,
		MinSteps:   r.Puzzle.Steps(),
		Difficulty: r.Puzzle.Difficulty().String(),
		Path:       datatypes.JSON(path),
		CreatedAt:  created,
	}
	return s.DB.WithContext(ctx).Save(&row).Error
}

func (s *SQLStore) Load(ctx context.Context, id string) (*domain.Record, error) {
	var row puzzleRow
	err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row.record()
}

func (s *SQLStore) List(ctx context.Context) ([]domain.PuzzleMeta, error) {
	var rows []puzzleRow
	if err := s.DB.WithContext(ctx).Order("created_at DESC, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PuzzleMeta, 0, len(rows))
	for _, row := range rows {
		r, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, r.Meta())
	}
	return out, nil
}

// ImportDictionary inserts words into the dictionary table, ignoring ones
// already present. It returns the number of rows added.
func (s *SQLStore) ImportDictionary(ctx context.Context, words []string, batchSize int) (int64, error) {
	if len(words) == 0 {
		return 0, nil
	}
	if batchSize < 1 {
		batchSize = 100
	}
	rows := make([]dictionaryRow, len(words))
	for i, w := range words {
		rows[i] = dictionaryRow{Word: w, Length: utf8.RuneCountInString(w)}
	}
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, batchSize)
	return res.RowsAffected, res.Error
}

// DictionaryWords returns stored words of the given length, or all words
// when length is 0.
func (s *SQLStore) DictionaryWords(ctx context.Context, length int) ([]string, error) {
	q := s.DB.WithContext(ctx).Model(&dictionaryRow{}).Order("word")
	if length > 0 {
		q = q.Where("length = ?", length)
	}
	var words []string
	if err := q.Pluck("word", &words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

func (row puzzleRow) record() (*domain.Record, error) {
	var path []string
	if len(row.Path) > 0 {
		if err := json.Unmarshal(row.Path, &path); err != nil {
			return nil, fmt.Errorf("decode path of %s: %w", row.ID, err)
		}
	}
	return &domain.Record{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		Puzzle:    domain.NewPuzzle(row.StartWord, row.TargetWord, path),
	}, nil
}
