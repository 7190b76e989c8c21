package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/campuskit/solrag/internal/core/domain"
)

var (
	addAreaID    string
	addCourseID  string
	addContextID string
	addTitle     string
)

var addCmd = &cobra.Command{
	Use:   "add [file...]",
	Short: "Index documents",
	Long: `Indexes the given files as documents. With no arguments the
document body is read from stdin.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addAreaID, "area", "cli", "search area for the documents")
	addCmd.Flags().StringVar(&addCourseID, "course", "", "course id for the documents")
	addCmd.Flags().StringVar(&addContextID, "context", "", "context id for the documents")
	addCmd.Flags().StringVar(&addTitle, "title", "", "document title (defaults to the file name)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if indexService == nil {
		return errors.New("indexing service not configured")
	}

	docs, err := collectDocuments(cmd, args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return errors.New("nothing to index")
	}

	result := indexService.AddBatch(context.Background(), docs)
	cmd.Printf("Indexed %d of %d document(s) in %d write(s)\n", result.Success, len(docs), result.Batches)
	if result.Failure > 0 {
		return fmt.Errorf("%d document(s) failed to index", result.Failure)
	}
	return nil
}

func collectDocuments(cmd *cobra.Command, args []string) ([]*domain.Document, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return nil, nil
		}
		return []*domain.Document{newDocument(addTitle, string(data))}, nil
	}

	docs := make([]*domain.Document, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		title := addTitle
		if title == "" {
			title = filepath.Base(path)
		}
		docs = append(docs, newDocument(title, string(data)))
	}
	return docs, nil
}

func newDocument(title, content string) *domain.Document {
	if title == "" {
		title = "Untitled"
	}
	return &domain.Document{
		ID:        uuid.NewString(),
		AreaID:    addAreaID,
		Title:     title,
		Content:   content,
		ContextID: addContextID,
		CourseID:  addCourseID,
		Modified:  time.Now().UTC(),
		New:       true,
	}
}
