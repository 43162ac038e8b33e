package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"autolrc/internal/fileutil"
	"autolrc/internal/lyrics"
)

func newStripCommand() *cobra.Command {
	var showTable bool
	var write bool

	cmd := &cobra.Command{
		Use:         "strip <file.lrc|->",
		Short:       "Remove timestamps from an LRC or enhanced LRC file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			data, err := readLyrics(cmd.InOrStdin(), source)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if showTable {
				doc, err := lyrics.ParseLRC(string(data))
				if err != nil {
					return fmt.Errorf("parse %s: %w", source, err)
				}
				if len(doc.Lines) == 0 {
					fmt.Fprintln(out, "No timed lines found")
					return nil
				}
				fmt.Fprintln(out, renderLyricTable(doc))
				return nil
			}

			plain := lyrics.StripTimestamps(string(data))
			if !write {
				fmt.Fprint(out, plain)
				return nil
			}
			if source == "-" {
				return fmt.Errorf("--write needs a file path, not stdin")
			}
			target := strings.TrimSuffix(source, filepath.Ext(source)) + ".txt"
			if err := fileutil.WriteFileAtomic(target, []byte(plain), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintf(out, "Wrote %s\n", target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTable, "table", false, "Show the parsed lines and word timings instead of plain text")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write <name>.txt next to the input instead of printing")
	return cmd
}

func readLyrics(stdin io.Reader, source string) ([]byte, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read lyrics: %w", err)
	}
	return data, nil
}

func renderLyricTable(doc lyrics.Document) string {
	rows := make([][]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		words := make([]string, 0, len(line.Words))
		for _, w := range line.Words {
			words = append(words, w.Text)
		}
		rows = append(rows, []string{
			strings.Trim(lyrics.FormatTime(line.Start), "[]"),
			strconv.Itoa(len(line.Words)),
			strings.Join(words, " "),
		})
	}
	return renderTable(
		[]string{"Start", "Words", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft},
	)
}
