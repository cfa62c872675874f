package repository

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"antibias-assessment/internal/model"
)

//go:embed data/questions.yaml
var defaultQuestions []byte

var ErrQuestionNotFound = errors.New("question not found")

type QuestionRepository interface {
	Title() string
	Intro() []string
	GetAllQuestions() []model.Question
	GetQuestionByID(id int) (*model.Question, error)
	Categories() []model.Category
	Count() int
}

// bankFile mirrors the YAML layout of a question bank.
type bankFile struct {
	Title      string         `yaml:"title"`
	Intro      []string       `yaml:"intro"`
	Categories []bankCategory `yaml:"categories"`
}

type bankCategory struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Types       []bankType `yaml:"types"`
}

type bankType struct {
	Name      string   `yaml:"name"`
	Questions []string `yaml:"questions"`
}

type questionRepository struct {
	title      string
	intro      []string
	questions  []model.Question
	categories []model.Category
}

// NewQuestionRepository loads the embedded bank, or the file at path when
// path is not empty.
func NewQuestionRepository(path string) (QuestionRepository, error) {
	if path == "" {
		return LoadQuestions(bytes.NewReader(defaultQuestions))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()
	return LoadQuestions(f)
}

// DefaultQuestions returns the embedded bank. It panics if the embedded file
// is invalid, which is a build defect.
func DefaultQuestions() QuestionRepository {
	repo, err := LoadQuestions(bytes.NewReader(defaultQuestions))
	if err != nil {
		panic(fmt.Sprintf("embedded question bank: %v", err))
	}
	return repo
}

// LoadQuestions parses and validates a YAML question bank. Question IDs are
// assigned 1..n in file order.
func LoadQuestions(r io.Reader) (QuestionRepository, error) {
	var bf bankFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&bf); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if len(bf.Categories) == 0 {
		return nil, errors.New("question bank has no categories")
	}

	repo := &questionRepository{
		title: strings.TrimSpace(bf.Title),
		intro: bf.Intro,
	}
	seenCategories := make(map[string]bool)
	for _, c := range bf.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, errors.New("category with empty name")
		}
		if seenCategories[name] {
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		seenCategories[name] = true
		if len(c.Types) == 0 {
			return nil, fmt.Errorf("category %q has no types", name)
		}

		cat := model.Category{Name: name, Description: strings.TrimSpace(c.Description)}
		seenTypes := make(map[string]bool)
		for _, t := range c.Types {
			typeName := strings.TrimSpace(t.Name)
			if typeName == "" {
				return nil, fmt.Errorf("category %q: type with empty name", name)
			}
			if seenTypes[typeName] {
				return nil, fmt.Errorf("category %q: duplicate type %q", name, typeName)
			}
			seenTypes[typeName] = true
			if len(t.Questions) == 0 {
				return nil, fmt.Errorf("category %q type %q has no questions", name, typeName)
			}
			for _, text := range t.Questions {
				text = strings.TrimSpace(text)
				if text == "" {
					return nil, fmt.Errorf("category %q type %q: blank question", name, typeName)
				}
				repo.questions = append(repo.questions, model.Question{
					ID:          len(repo.questions) + 1,
					Category:    name,
					Subcategory: typeName,
					Text:        text,
				})
				cat.QuestionCount++
			}
			cat.Subcategories = append(cat.Subcategories, typeName)
		}
		repo.categories = append(repo.categories, cat)
	}
	return repo, nil
}

func (r *questionRepository) Title() string {
	return r.title
}

func (r *questionRepository) Intro() []string {
	return append([]string(nil), r.intro...)
}

func (r *questionRepository) GetAllQuestions() []model.Question {
	return append([]model.Question(nil), r.questions...)
}

func (r *questionRepository) GetQuestionByID(id int) (*model.Question, error) {
	if id < 1 || id > len(r.questions) {
		return nil, ErrQuestionNotFound
	}
	q := r.questions[id-1]
	return &q, nil
}

func (r *questionRepository) Categories() []model.Category {
	out := make([]model.Category, len(r.categories))
	for i, c := range r.categories {
		c.Subcategories = append([]string(nil), c.Subcategories...)
		out[i] = c
	}
	return out
}

func (r *questionRepository) Count() int {
	return len(r.questions)
}
