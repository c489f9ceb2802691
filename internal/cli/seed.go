package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/file"
	pgstore "timed-quiz-service/internal/infra/postgres"
	"timed-quiz-service/internal/infra/sqlite"
)

type quizSaver interface {
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
}

// NewSeedCmd loads a question bank file into the configured database.
func NewSeedCmd(configPath *string) *cobra.Command {
	var source, quizID string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Validate a JSON/YAML question bank and store it in Postgres or SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if quizID == "" {
				quizID = cfg.Quiz.ID
			}
			if source == "" {
				source = cfg.Quiz.File
			}
			return runSeed(cmd.Context(), cfg, source, quizID)
		},
	}
	cmd.Flags().StringVar(&source, "file", "", "question bank file (defaults to quiz.file)")
	cmd.Flags().StringVar(&quizID, "id", "", "bank id to store under (defaults to quiz.id)")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, source, quizID string) error {
	log := newLogger(cfg)
	if source == "" {
		return fmt.Errorf("no question file given")
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	quiz, err := file.Decode(data, filepath.Ext(source))
	if err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}
	quiz.ID = quizID
	if err := quiz.Validate(); err != nil {
		return err
	}

	var saver quizSaver
	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		saver = pgstore.NewQuizStore(pool)
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		saver = store
	default:
		return fmt.Errorf("neither postgres.url nor sqlite.path is configured")
	}

	if err := saver.SaveQuiz(ctx, quiz); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"quiz": quiz.ID, "questions": len(quiz.Questions)}).Info("question bank stored")
	return nil
}
