package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/taggate/internal/domain/tagging"
	tagginguc "github.com/kailas-cloud/taggate/internal/usecase/tagging"
)

var (
	tagKind      string
	tagMaxTags   int
	tagStopWords string
	tagPopular   string
)

var tagCmd = &cobra.Command{
	Use:   "tag [file]",
	Short: "Tag texts locally, one per line",
	Long: "Reads one text per line from file (or stdin) and prints a JSON\n" +
		"object {\"tags\": [[...], ...]} as the tagging worker would reply.",
	Args: cobra.MaximumNArgs(1),
	RunE: runTag,
}

func runTag(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(filepath.Clean(args[0]))
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	texts, err := readTexts(in)
	if err != nil {
		return fmt.Errorf("read texts: %w", err)
	}

	corpora, err := tagging.LoadCorpora(tagStopWords, tagPopular)
	if err != nil {
		return err
	}
	tagger, err := tagging.New(tagging.Kind(tagKind), corpora, tagMaxTags)
	if err != nil {
		return err
	}
	logger.Debug("tagging", "kind", tagKind, "texts", len(texts), "max_tags", tagMaxTags)

	svc := tagginguc.New(tagger, tagKind)
	enc := json.NewEncoder(cmd.OutOrStdout())
	return enc.Encode(map[string][][]string{"tags": svc.Tag(texts)})
}

func readTexts(r io.Reader) ([]string, error) {
	var texts []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	return texts, sc.Err()
}

func init() {
	tagCmd.Flags().StringVarP(&tagKind, "kind", "k", string(tagging.KindFrequency), "tagger: frequency or candidate")
	tagCmd.Flags().IntVarP(&tagMaxTags, "max-tags", "n", 5, "maximum tags per text")
	tagCmd.Flags().StringVar(&tagStopWords, "stopwords", "", "stop-word file (default: built-in list)")
	tagCmd.Flags().StringVar(&tagPopular, "popular", "", "popular-word file (default: built-in list)")
}
