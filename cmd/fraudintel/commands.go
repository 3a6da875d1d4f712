package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/toriana04/fraudintel"
	"github.com/toriana04/fraudintel/classify"
	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/corpus"
	"github.com/toriana04/fraudintel/glossary"
	"github.com/toriana04/fraudintel/server"
	"github.com/toriana04/fraudintel/trends"
)

var errMissingArgs = errors.New("missing arguments")

func widthFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "width",
		Usage: "Maximum output width in terminal cells",
		Value: defaultWidth,
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "category",
			Usage: "Only include these categories (repeatable)",
		},
		&cli.StringFlag{
			Name:  "keyword",
			Usage: "Only include articles whose keywords or summary contain this text",
		},
		&cli.StringFlag{
			Name:  "from",
			Usage: "First month to include (YYYY-MM)",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "Last month to include (YYYY-MM)",
		},
	}
}

func filterOf(c *cli.Context, classifier *classify.Classifier) (trends.Filter, error) {
	var f trends.Filter
	for _, raw := range c.StringSlice("category") {
		category, err := categoryOf(classifier, raw)
		if err != nil {
			return f, err
		}
		f.Categories = append(f.Categories, category)
	}
	f.Keyword = c.String("keyword")

	var err error
	if from := c.String("from"); from != "" {
		if f.From, err = trends.ParseMonth(from, false); err != nil {
			return f, err
		}
	}
	if to := c.String("to"); to != "" {
		if f.To, err = trends.ParseMonth(to, true); err != nil {
			return f, err
		}
	}
	return f, nil
}

func categoryOf(classifier *classify.Classifier, raw string) (core.Category, error) {
	raw = strings.TrimSpace(raw)
	for _, l := range classifier.Labels() {
		if strings.EqualFold(string(l), raw) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// joinedArgs returns all positional arguments as one string.
func joinedArgs(c *cli.Context, what string) (string, error) {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return "", fmt.Errorf("%w: %s is required", errMissingArgs, what)
	}
	return text, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default from config)",
			},
		},
		Action: func(c *cli.Context) error {
			addr := configOf(c).Server.Addr
			if c.IsSet("addr") {
				addr = c.String("addr")
			}
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withEngine(c, func(engine *fraudintel.Engine) error {
				return server.New(engine).Start(ctx, addr)
			})
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find the article closest to a query and related articles",
		ArgsUsage: "<query>",
		Flags:     []cli.Flag{widthFlag()},
		Action: func(c *cli.Context) error {
			query, err := joinedArgs(c, "query")
			if err != nil {
				return err
			}
			return withEngine(c, func(engine *fraudintel.Engine) error {
				result, err := engine.Search(c.Context, query)
				if err != nil {
					return err
				}
				printMatch(c.App.Writer, result, c.Int("width"))
				return nil
			})
		},
	}
}

func suggestCommand() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest search phrases from article keywords",
		ArgsUsage: "<partial query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "n",
				Aliases: []string{"limit"},
				Usage:   "Number of suggestions (default from config)",
			},
		},
		Action: func(c *cli.Context) error {
			query, err := joinedArgs(c, "query")
			if err != nil {
				return err
			}
			return withEngine(c, func(engine *fraudintel.Engine) error {
				suggestions, err := engine.Suggest(c.Context, query, c.Int("n"))
				if err != nil {
					return err
				}
				for _, s := range suggestions {
					fmt.Fprintln(c.App.Writer, s)
				}
				return nil
			})
		},
	}
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Score the similarity of two articles by title",
		ArgsUsage: "<title A> <title B>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Ask the model to explain the score",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("%w: two titles are required", errMissingArgs)
			}
			return withEngine(c, func(engine *fraudintel.Engine) error {
				cmp, err := engine.CompareTitles(c.Context, c.Args().Get(0), c.Args().Get(1))
				if err != nil {
					return err
				}
				w := c.App.Writer
				fmt.Fprintf(w, "%s\n%s\n", titleColor.Sprint(cmp.A.Title), titleColor.Sprint(cmp.B.Title))
				scoreColor.Fprintf(w, "similarity %.4f\n", cmp.Score)

				if !c.Bool("explain") {
					return nil
				}
				analyst, err := engine.Analyst()
				if err != nil {
					return err
				}
				text, err := analyst.Compare(c.Context, cmp.A, cmp.B, cmp.Score)
				if err != nil {
					return err
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, text)
				return nil
			})
		},
	}
}

func classifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Assign a fraud category to a piece of text",
		ArgsUsage: "<text>",
		Action: func(c *cli.Context) error {
			text, err := joinedArgs(c, "text")
			if err != nil {
				return err
			}
			classifier := classify.NewDefault()
			category := classifier.Classify(text)
			labelColor.Fprintln(c.App.Writer, string(category))
			if desc := classifier.Describe(category); desc != "" {
				fmt.Fprintln(c.App.Writer, desc)
			}
			return nil
		},
	}
}

func exploreCommand() *cli.Command {
	return &cli.Command{
		Name:  "explore",
		Usage: "List and count articles matching filters",
		Flags: append(filterFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of articles listed; 0 lists all",
				Value: 20,
			},
			widthFlag(),
		),
		Action: func(c *cli.Context) error {
			return withEngine(c, func(engine *fraudintel.Engine) error {
				f, err := filterOf(c, engine.Classifier())
				if err != nil {
					return err
				}
				filtered := f.Apply(engine.Records())
				w := c.App.Writer

				fmt.Fprintf(w, "%d of %d articles\n\n", len(filtered), len(engine.Records()))
				listed := filtered
				if limit := c.Int("limit"); limit > 0 && len(listed) > limit {
					listed = listed[:limit]
				}
				printTable(w, listed, c.Int("width"))

				fmt.Fprintln(w)
				fmt.Fprintln(w, "Categories:")
				printCategoryCounts(w, trends.CategoryCounts(filtered))
				fmt.Fprintln(w, "Top keywords:")
				printKeywords(w, trends.TopKeywords(filtered, trends.ExplorerKeywords))
				return nil
			})
		},
	}
}

func trendsCommand() *cli.Command {
	return &cli.Command{
		Name:  "trends",
		Usage: "Show monthly article counts by category",
		Flags: append(filterFlags(),
			&cli.BoolFlag{
				Name:  "interpret",
				Usage: "Ask the model to interpret the trend",
			},
		),
		Action: func(c *cli.Context) error {
			return withEngine(c, func(engine *fraudintel.Engine) error {
				f, err := filterOf(c, engine.Classifier())
				if err != nil {
					return err
				}
				filtered := f.Apply(engine.Records())
				buckets := trends.Monthly(filtered)
				w := c.App.Writer

				categories := trends.Categories(buckets)
				for _, b := range buckets {
					parts := make([]string, 0, len(categories))
					for _, cat := range categories {
						if n := b.Counts[cat]; n > 0 {
							parts = append(parts, fmt.Sprintf("%s %d", cat, n))
						}
					}
					fmt.Fprintf(w, "%s %s %s\n", labelColor.Sprint(b.Month),
						scoreColor.Sprintf("%3d", b.Total), mutedColor.Sprint(strings.Join(parts, ", ")))
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, trends.Summary(buckets))
				fmt.Fprintln(w, "Top keywords:")
				printKeywords(w, trends.TopKeywords(filtered, trends.TrendKeywords))

				if !c.Bool("interpret") {
					return nil
				}
				analyst, err := engine.Analyst()
				if err != nil {
					return err
				}
				text, err := analyst.InterpretTrends(c.Context, buckets)
				if err != nil {
					return err
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, text)
				return nil
			})
		},
	}
}

func explainCommand() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "Explain a fraud concept in plain language",
		ArgsUsage: "<concept>",
		Action: func(c *cli.Context) error {
			concept, err := joinedArgs(c, "concept")
			if err != nil {
				return err
			}
			return withEngine(c, func(engine *fraudintel.Engine) error {
				analyst, err := engine.Analyst()
				if err != nil {
					return err
				}
				text, err := analyst.Explain(c.Context, concept)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, text)
				return nil
			})
		},
	}
}

func askCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a question grounded on the best-matching article",
		ArgsUsage: "<question>",
		Flags:     []cli.Flag{widthFlag()},
		Action: func(c *cli.Context) error {
			question, err := joinedArgs(c, "question")
			if err != nil {
				return err
			}
			return withEngine(c, func(engine *fraudintel.Engine) error {
				answer, err := engine.Ask(c.Context, question)
				if err != nil {
					return err
				}
				w := c.App.Writer
				fmt.Fprintln(w, answer.Text)
				fmt.Fprintln(w)
				mutedColor.Fprintf(w, "Source: %s (similarity %.4f)\n",
					truncate(answer.Grounding.Record.Title, c.Int("width")-30), answer.Grounding.Score)
				return nil
			})
		},
	}
}

func defineCommand() *cli.Command {
	return &cli.Command{
		Name:      "define",
		Usage:     "Look up a term in the fraud glossary",
		ArgsUsage: "<term>",
		Action: func(c *cli.Context) error {
			term, err := joinedArgs(c, "term")
			if err != nil {
				return err
			}
			entry, ok := glossary.Default().Lookup(term)
			if !ok {
				return fmt.Errorf("no glossary entry for %q", term)
			}
			titleColor.Fprintln(c.App.Writer, entry.Term)
			fmt.Fprintln(c.App.Writer, entry.Definition)
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write filtered articles to a CSV or XLSX file",
		Flags: append(filterFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file; the extension selects csv or xlsx",
				Value:   "filtered_fraud_data.csv",
			},
		),
		Action: func(c *cli.Context) error {
			output := c.String("output")
			format, err := corpus.FormatOf(output)
			if err != nil {
				return err
			}
			return withEngine(c, func(engine *fraudintel.Engine) error {
				f, err := filterOf(c, engine.Classifier())
				if err != nil {
					return err
				}
				filtered := f.Apply(engine.Records())

				file, err := os.Create(output)
				if err != nil {
					return err
				}
				if format == corpus.FormatXLSX {
					err = corpus.WriteXLSX(file, filtered)
				} else {
					err = corpus.WriteCSV(file, filtered)
				}
				if cerr := file.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "wrote %d articles to %s\n", len(filtered), output)
				return nil
			})
		},
	}
}
