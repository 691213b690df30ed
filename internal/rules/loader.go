package rules

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.csv data/*.yaml
var embedded embed.FS

// Default file names inside a rule directory.
const (
	DefaultTermFile  = "02_term_field_mapping.csv"
	DefaultWordFile  = "05_ux_word_ent_rules.csv"
	DefaultStyleFile = "style_guide.yaml"
)

// Source says where a Table is read from. An empty Dir reads the rule files
// embedded in the binary.
type Source struct {
	Dir       string
	TermFile  string
	WordFile  string
	StyleFile string
	// TitlePunctuation overrides the style guide file when set.
	TitlePunctuation PunctuationPolicy
}

func (s Source) withDefaults() Source {
	if s.TermFile == "" {
		s.TermFile = DefaultTermFile
	}
	if s.WordFile == "" {
		s.WordFile = DefaultWordFile
	}
	if s.StyleFile == "" {
		s.StyleFile = DefaultStyleFile
	}
	return s
}

func (s Source) fsys() (fs.FS, string, error) {
	if s.Dir == "" {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			return nil, "", err
		}
		return sub, "embedded", nil
	}
	return os.DirFS(s.Dir), s.Dir, nil
}

// Load reads a Table from src.
func Load(src Source) (*Table, error) {
	src = src.withDefaults()
	fsys, origin, err := src.fsys()
	if err != nil {
		return nil, fmt.Errorf("open rule source: %w", err)
	}
	return LoadFS(fsys, origin, src)
}

// LoadFS reads a Table from fsys. The style guide file is optional; the CSV
// tables are required.
func LoadFS(fsys fs.FS, origin string, src Source) (*Table, error) {
	src = src.withDefaults()

	termRows, err := readCSV(fsys, src.TermFile)
	if err != nil {
		return nil, fmt.Errorf("load term mapping: %w", err)
	}
	wordRows, err := readCSV(fsys, src.WordFile)
	if err != nil {
		return nil, fmt.Errorf("load word rules: %w", err)
	}

	style, err := readStyleGuide(fsys, src.StyleFile)
	if err != nil {
		return nil, fmt.Errorf("load style guide: %w", err)
	}
	if src.TitlePunctuation != "" {
		style.TitlePunctuation = src.TitlePunctuation
	}
	if _, err := ParsePunctuationPolicy(string(style.TitlePunctuation)); err != nil {
		return nil, err
	}

	return &Table{
		Terms:    indexPairs(termRows, []string{"asIs"}, []string{"toBe"}, "fieldName", "description"),
		Words:    indexPairs(wordRows, []string{"dont", "don’t", "don't"}, []string{"do"}, "fieldScope", "notes"),
		Style:    style,
		Source:   origin,
		LoadedAt: time.Now(),
	}, nil
}

func readStyleGuide(fsys fs.FS, name string) (StyleGuide, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultStyleGuide(), nil
	}
	if err != nil {
		return StyleGuide{}, err
	}
	g := DefaultStyleGuide()
	if err := yaml.Unmarshal(data, &g); err != nil {
		return StyleGuide{}, fmt.Errorf("parse %s: %w", name, err)
	}
	g.applyDefaults()
	return g, nil
}

// readCSV returns the rows of a headered CSV file keyed by trimmed header.
// Blank lines are skipped and short rows are padded with "".
func readCSV(fsys fs.FS, name string) ([]map[string]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// indexPairs builds ordered pairs from rows. Rows missing either side are
// dropped. A repeated From keeps its first position and takes the last To.
func indexPairs(rows []map[string]string, fromCols, toCols []string, fieldCol, noteCol string) []Pair {
	var out []Pair
	pos := map[string]int{}
	for _, row := range rows {
		from := firstNonEmpty(row, fromCols)
		to := firstNonEmpty(row, toCols)
		if from == "" || to == "" {
			continue
		}
		p := Pair{From: from, To: to, Field: row[fieldCol], Note: row[noteCol]}
		if i, ok := pos[from]; ok {
			out[i] = p
			continue
		}
		pos[from] = len(out)
		out = append(out, p)
	}
	return out
}

func firstNonEmpty(row map[string]string, cols []string) string {
	for _, c := range cols {
		if v := row[c]; v != "" {
			return v
		}
	}
	return ""
}
