package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuskit/solrag/internal/core/domain"
)

// previewLength caps the content excerpt shown at -vv.
const previewLength = 150

var (
	searchLimit        int
	searchLexical      bool
	searchAreas        []string
	searchExcludeAreas []string
	searchCourses      []string
	searchContexts     []string
	searchEmptyDocs    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Runs a similarity search over the indexed documents, embedding the
query and ranking by vector distance. With --lexical the query text is
passed to the backend unchanged instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchLexical, "lexical", false, "use lexical search instead of similarity")
	searchCmd.Flags().StringSliceVar(&searchAreas, "area", nil, "restrict results to these search areas")
	searchCmd.Flags().StringSliceVar(&searchExcludeAreas, "exclude-area", nil, "exclude these search areas")
	searchCmd.Flags().StringSliceVar(&searchCourses, "course", nil, "restrict results to these courses")
	searchCmd.Flags().StringSliceVar(&searchContexts, "context", nil, "restrict results to these contexts")
	searchCmd.Flags().BoolVar(&searchEmptyDocs, "empty-docs", false, "keep results that carry no content")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if queryService == nil {
		return errors.New("query service not configured")
	}

	filters := domain.QueryFilters{
		Query:           args[0],
		Similarity:      !searchLexical,
		AreaIDs:         searchAreas,
		ExcludeAreaIDs:  searchExcludeAreas,
		CourseIDs:       searchCourses,
		ContextIDs:      searchContexts,
		ReturnEmptyDocs: searchEmptyDocs,
	}

	// The CLI runs as the index owner, so no context restriction
	// applies.
	access := domain.AccessInfo{Everything: true}

	results, err := queryService.Execute(context.Background(), filters, access, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return outputResults(cmd, results)
}

func outputResults(cmd *cobra.Command, results []domain.ResultDocument) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Title
		if title == "" {
			title = results[i].ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		if verbosity > 0 {
			cmd.Printf("      Area: %s  Context: %s\n", results[i].AreaID, results[i].ContextID)
		}
		if verbosity > 1 && results[i].Content != "" {
			cmd.Printf("      %s\n", preview(results[i].Content))
		}
		cmd.Println()
	}
	return nil
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
