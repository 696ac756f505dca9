package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/example/vocabsrs/pkg/models"
)

// Frequency bounds of catalog words. Higher is more common.
const (
	MinFrequency     = 1
	MaxFrequency     = 10
	DefaultFrequency = 5
)

// ImportConfig maps spreadsheet columns to catalog fields. Columns are Excel
// letters and apply to CSV files by position too; an empty letter means unused.
type ImportConfig struct {
	LanguageCodeColumn  string
	LanguageNameColumn  string
	TopicColumn         string
	WordColumn          string
	TranslationColumn   string
	PronunciationColumn string
	PartOfSpeechColumn  string
	LevelColumn         string
	FrequencyColumn     string
	SheetName           string // empty means the first sheet
	StartRow            int    // 1-based; rows above are headers
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		LanguageCodeColumn:  "A",
		LanguageNameColumn:  "B",
		TopicColumn:         "C",
		WordColumn:          "D",
		TranslationColumn:   "E",
		PronunciationColumn: "F",
		PartOfSpeechColumn:  "G",
		LevelColumn:         "H",
		FrequencyColumn:     "I",
		StartRow:            2,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	Languages      int      `json:"languages"`
	Topics         int      `json:"topics"`
	Words          int      `json:"words"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors,omitempty"`
}

// LanguageWriter stores languages by code.
type LanguageWriter interface {
	Upsert(ctx context.Context, lang *models.Language) error
}

// TopicWriter stores topics by language and name.
type TopicWriter interface {
	ListByLanguage(ctx context.Context, languageID int64) ([]models.Topic, error)
	Upsert(ctx context.Context, topic *models.Topic) error
}

// WordWriter stores words by topic and text.
type WordWriter interface {
	Upsert(ctx context.Context, word *models.WordSummary) error
}

// Importer loads catalog rows from xlsx or CSV files.
type Importer struct {
	languages LanguageWriter
	topics    TopicWriter
	words     WordWriter
	logger    *zap.Logger
}

// NewImporter creates an importer writing through the given repositories.
func NewImporter(languages LanguageWriter, topics TopicWriter, words WordWriter, logger *zap.Logger) *Importer {
	return &Importer{languages: languages, topics: topics, words: words, logger: logger}
}

// ImportFile imports a .xlsx or .csv file.
func (im *Importer) ImportFile(ctx context.Context, path string, cfg ImportConfig) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return im.ImportCSV(ctx, f, cfg)
	}
	return im.ImportXLSX(ctx, f, cfg)
}

// ImportXLSX imports rows from one sheet of a workbook.
func (im *Importer) ImportXLSX(ctx context.Context, r io.Reader, cfg ImportConfig) (*ImportResult, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer book.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = book.GetSheetName(0)
	}
	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return im.importRows(ctx, rows, cfg)
}

// ImportCSV imports rows from a comma separated file.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader, cfg ImportConfig) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return im.importRows(ctx, rows, cfg)
}

// columns is ImportConfig resolved to zero-based indexes; -1 means unused.
type columns struct {
	langCode, langName, topic, word, translation, pronunciation, partOfSpeech, level, frequency int
}

func (c ImportConfig) resolve() (columns, error) {
	var (
		cols columns
		errs []error
	)
	index := func(letter string) int {
		if letter == "" {
			return -1
		}
		n, err := excelize.ColumnNameToNumber(letter)
		if err != nil {
			errs = append(errs, err)
			return -1
		}
		return n - 1
	}
	cols.langCode = index(c.LanguageCodeColumn)
	cols.langName = index(c.LanguageNameColumn)
	cols.topic = index(c.TopicColumn)
	cols.word = index(c.WordColumn)
	cols.translation = index(c.TranslationColumn)
	cols.pronunciation = index(c.PronunciationColumn)
	cols.partOfSpeech = index(c.PartOfSpeechColumn)
	cols.level = index(c.LevelColumn)
	cols.frequency = index(c.FrequencyColumn)
	if err := errors.Join(errs...); err != nil {
		return cols, fmt.Errorf("invalid import columns: %w", err)
	}
	if cols.langCode < 0 || cols.topic < 0 || cols.word < 0 || cols.translation < 0 {
		return cols, errors.New("invalid import columns: language code, topic, word and translation are required")
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

type topicKey struct {
	languageID int64
	name       string
}

// importRun carries the per-import caches so each language and topic is written once.
type importRun struct {
	*Importer
	cols        columns
	languageIDs map[string]int64
	topicIDs    map[topicKey]int64
	nextOrder   map[int64]int // next free sort order per language
	result      *ImportResult
}

func (im *Importer) importRows(ctx context.Context, rows [][]string, cfg ImportConfig) (*ImportResult, error) {
	cols, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	run := &importRun{
		Importer:    im,
		cols:        cols,
		languageIDs: make(map[string]int64),
		topicIDs:    make(map[topicKey]int64),
		nextOrder:   make(map[int64]int),
		result:      &ImportResult{},
	}

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow || isBlank(row) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return run.result, err
		}
		run.result.TotalProcessed++
		if err := run.processRow(ctx, row); err != nil {
			if errors.Is(err, models.ErrStoreUnavailable) {
				return run.result, err
			}
			run.result.Skipped++
			run.result.Errors = append(run.result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	im.logger.Info("catalog import finished",
		zap.Int("processed", run.result.TotalProcessed),
		zap.Int("words", run.result.Words),
		zap.Int("skipped", run.result.Skipped),
	)
	return run.result, nil
}

func (run *importRun) processRow(ctx context.Context, row []string) error {
	code := strings.ToUpper(cell(row, run.cols.langCode))
	topicName := cell(row, run.cols.topic)
	word := cleanWord(cell(row, run.cols.word))
	translation := cell(row, run.cols.translation)

	if len(code) != 2 {
		return fmt.Errorf("language code %q must have two letters", code)
	}
	if topicName == "" {
		return errors.New("topic cannot be empty")
	}
	if word == "" {
		return errors.New("word cannot be empty")
	}
	if translation == "" {
		return errors.New("translation cannot be empty")
	}
	level, err := parseLevel(cell(row, run.cols.level))
	if err != nil {
		return err
	}

	languageID, err := run.language(ctx, code, cell(row, run.cols.langName))
	if err != nil {
		return err
	}
	topicID, err := run.topic(ctx, languageID, topicName, level)
	if err != nil {
		return err
	}

	w := &models.WordSummary{
		TopicID:       topicID,
		LanguageID:    languageID,
		Word:          word,
		Translation:   translation,
		Pronunciation: cell(row, run.cols.pronunciation),
		PartOfSpeech:  strings.ToLower(cell(row, run.cols.partOfSpeech)),
		Level:         level,
		Frequency:     parseIntOrDefault(cell(row, run.cols.frequency), MinFrequency, MaxFrequency, DefaultFrequency),
	}
	if err := run.words.Upsert(ctx, w); err != nil {
		return err
	}
	run.result.Words++
	return nil
}

func (run *importRun) language(ctx context.Context, code, name string) (int64, error) {
	if id, ok := run.languageIDs[code]; ok {
		return id, nil
	}
	if name == "" {
		name = code
	}
	lang := &models.Language{Code: code, Name: name}
	if err := run.languages.Upsert(ctx, lang); err != nil {
		return 0, err
	}
	run.languageIDs[code] = lang.ID
	run.result.Languages++
	return lang.ID, nil
}

func (run *importRun) topic(ctx context.Context, languageID int64, name, level string) (int64, error) {
	key := topicKey{languageID, strings.ToLower(name)}
	if id, ok := run.topicIDs[key]; ok {
		return id, nil
	}
	order, err := run.sortOrder(ctx, languageID)
	if err != nil {
		return 0, err
	}
	t := &models.Topic{
		LanguageID: languageID,
		Name:       name,
		Level:      level,
		SortOrder:  order,
	}
	if err := run.topics.Upsert(ctx, t); err != nil {
		return 0, err
	}
	if t.SortOrder == order {
		run.nextOrder[languageID] = order + 1
	}
	run.topicIDs[key] = t.ID
	run.result.Topics++
	return t.ID, nil
}

// sortOrder returns the order a new topic of the language gets, after every
// topic already stored.
func (run *importRun) sortOrder(ctx context.Context, languageID int64) (int, error) {
	if order, ok := run.nextOrder[languageID]; ok {
		return order, nil
	}
	existing, err := run.topics.ListByLanguage(ctx, languageID)
	if err != nil {
		return 0, err
	}
	order := 1
	for _, t := range existing {
		order = max(order, t.SortOrder+1)
	}
	run.nextOrder[languageID] = order
	return order, nil
}

func parseLevel(s string) (string, error) {
	switch level := strings.ToLower(s); level {
	case "":
		return models.LevelBeginner, nil
	case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
		return level, nil
	default:
		return "", fmt.Errorf("unknown level %q", s)
	}
}

// cleanWord drops trailing notes in parentheses, "go (went, gone)" becomes "go".
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

// parseIntOrDefault clamps s into [min, max], or returns def when s is not a number.
func parseIntOrDefault(s string, min, max, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
