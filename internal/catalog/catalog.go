// Package catalog loads the read-only specialty catalog (users, quizzes and
// specialties) from YAML and writes it to the database. Quiz and question
// authoring happen outside this service; the catalog file is how a
// deployment gets its reference data.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/repository"
	"pathfinder_backend/internal/util"

	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Users       []User      `yaml:"users"`
	Quizzes     []Quiz      `yaml:"quizzes"`
	Specialties []Specialty `yaml:"specialties"`
}

type User struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
	Club  string `yaml:"club"`
}

type Quiz struct {
	Title        string     `yaml:"title"`
	PassingScore int        `yaml:"passing_score"`
	Questions    []Question `yaml:"questions"`
}

type Question struct {
	Content string   `yaml:"content"`
	Answers []Answer `yaml:"answers"`
}

type Answer struct {
	Content string `yaml:"content"`
	Correct bool   `yaml:"correct"`
}

type Specialty struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Quiz     string `yaml:"quiz"`
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks roles and quiz references, and that every quiz has
// questions each with a correct answer.
func (c *Catalog) Validate() error {
	for _, u := range c.Users {
		if u.Email == "" {
			return fmt.Errorf("user %q has no email", u.Name)
		}
		if _, err := model.ParseRole(u.Role); err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
	}
	titles := make(map[string]bool, len(c.Quizzes))
	for _, q := range c.Quizzes {
		if q.Title == "" {
			return errors.New("quiz without title")
		}
		titles[q.Title] = true
		if len(q.Questions) == 0 {
			return fmt.Errorf("quiz %q has no questions", q.Title)
		}
		if q.PassingScore > len(q.Questions) {
			return fmt.Errorf("quiz %q: passing score %d exceeds %d questions", q.Title, q.PassingScore, len(q.Questions))
		}
		for i, question := range q.Questions {
			correct := false
			for _, a := range question.Answers {
				correct = correct || a.Correct
			}
			if !correct {
				return fmt.Errorf("quiz %q question %d has no correct answer", q.Title, i+1)
			}
		}
	}
	for _, s := range c.Specialties {
		if s.Quiz != "" && !titles[s.Quiz] {
			return fmt.Errorf("specialty %q references unknown quiz %q", s.Name, s.Quiz)
		}
	}
	return nil
}

type Seeder struct {
	Users       *repository.UserRepository
	Quizzes     *repository.QuizRepository
	Specialties *repository.SpecialtyRepository
}

// Result counts what Seed wrote.
type Result struct {
	Users       int
	Quizzes     int
	Specialties int
}

// Seed upserts users and specialties. Users already stored unchanged are
// skipped. Quizzes are matched by title and only created when missing, so
// attempts keep pointing at the questions they were scored against.
func (s *Seeder) Seed(ctx context.Context, c *Catalog) (Result, error) {
	var res Result
	for _, u := range c.Users {
		role, _ := model.ParseRole(u.Role)
		existing, err := s.Users.FindByEmail(ctx, u.Email)
		switch {
		case err == nil && existing.Name == u.Name && existing.Role == role && existing.Club == u.Club:
			continue
		case err != nil && !errors.Is(err, util.ErrNotFound):
			return res, fmt.Errorf("user %s: %w", u.Email, err)
		}
		user := &model.User{Name: u.Name, Email: u.Email, Role: role, Club: u.Club}
		if err := s.Users.Upsert(ctx, user); err != nil {
			return res, fmt.Errorf("user %s: %w", u.Email, err)
		}
		res.Users++
	}

	quizIDs := make(map[string]uint, len(c.Quizzes))
	for _, q := range c.Quizzes {
		existing, err := s.Quizzes.FindByTitle(ctx, q.Title)
		if err == nil {
			quizIDs[q.Title] = existing.ID
			continue
		}
		if !errors.Is(err, util.ErrNotFound) {
			return res, err
		}
		quiz := toModel(q)
		if err := s.Quizzes.Create(ctx, quiz); err != nil {
			return res, fmt.Errorf("quiz %q: %w", q.Title, err)
		}
		quizIDs[q.Title] = quiz.ID
		res.Quizzes++
	}

	for _, sp := range c.Specialties {
		specialty := &model.Specialty{Name: sp.Name, Category: sp.Category}
		if sp.Quiz != "" {
			id := quizIDs[sp.Quiz]
			specialty.QuizID = &id
		}
		if err := s.Specialties.Upsert(ctx, specialty); err != nil {
			return res, fmt.Errorf("specialty %q: %w", sp.Name, err)
		}
		res.Specialties++
	}
	return res, nil
}

func toModel(q Quiz) *model.Quiz {
	quiz := &model.Quiz{Title: q.Title, PassingScore: q.PassingScore}
	for i, question := range q.Questions {
		mq := model.QuizQuestion{Content: question.Content, Order: i + 1}
		for _, a := range question.Answers {
			mq.Answers = append(mq.Answers, model.QuizAnswer{Content: a.Content, IsCorrect: a.Correct})
		}
		quiz.Questions = append(quiz.Questions, mq)
	}
	return quiz
}
