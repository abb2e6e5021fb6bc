package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/fsnotify.v1"

	"github.com/coolbeans/billdraft/pkg/draft"
	"github.com/coolbeans/billdraft/pkg/extract"
	"github.com/coolbeans/billdraft/pkg/metadata"
	"github.com/coolbeans/billdraft/pkg/reform"
	"github.com/coolbeans/billdraft/pkg/render"
)

var version = "0.1.0"

func main() {
	// Credentials and defaults may live in a local .env file.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "billdraft",
		Short: "Legislative drafting assistant for policy reforms",
		Long: `Billdraft converts structured policy-reform definitions into
plain-language descriptions and formally-styled legislative bill text.

It parses PolicyEngine-style reform code, normalizes the parameter
changes into a typed model, enriches them with parameter metadata, and
delegates bill drafting to a text-completion service.`,
		Version: version,
	}

	rootCmd.AddCommand(draftCmd())
	rootCmd.AddCommand(textCmd())
	rootCmd.AddCommand(describeCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(paramsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readSource returns the reform source code from --source, reading stdin
// when the path is "-".
func readSource(cmd *cobra.Command) (string, error) {
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		return "", fmt.Errorf("--source flag is required (use - for stdin)")
	}
	if source == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	return string(data), nil
}

// envOr returns the environment variable's value, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// paramsDir resolves the parameter descriptor directory from the flag or
// the BILLDRAFT_PARAMS_DIR environment variable.
func paramsDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("params-dir")
	if dir != "" {
		return dir
	}
	return envOr("BILLDRAFT_PARAMS_DIR", "parameters")
}

// newDraftClient builds the completion backend from flags and environment.
func newDraftClient(cmd *cobra.Command) (draft.Client, error) {
	provider, _ := cmd.Flags().GetString("provider")
	if provider == "" {
		provider = envOr("BILLDRAFT_PROVIDER", "openai")
	}
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = os.Getenv("BILLDRAFT_MODEL")
	}

	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return draft.NewOpenAIClient(draft.OpenAIConfig{
			APIKey:  apiKey,
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   model,
		}), nil

	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return draft.NewGeminiClient(context.Background(), draft.GeminiConfig{
			APIKey: apiKey,
			Model:  model,
		})

	default:
		return nil, fmt.Errorf("unknown provider: %s (use openai or gemini)", provider)
	}
}

// draftTimeout resolves the gateway timeout from the flag or the
// BILLDRAFT_TIMEOUT environment variable (seconds).
func draftTimeout(cmd *cobra.Command) time.Duration {
	if seconds, _ := cmd.Flags().GetInt("timeout"); seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if v := os.Getenv("BILLDRAFT_TIMEOUT"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0 // Drafter applies its default.
}

// buildReform runs extract + normalize for a source blob.
func buildReform(cmd *cobra.Command, source string) (*reform.PolicyReform, error) {
	builder := reform.NewBuilder()
	if country, _ := cmd.Flags().GetString("country"); country != "" {
		builder.Country = country
	}
	if year, _ := cmd.Flags().GetInt("year"); year != 0 {
		builder.Year = year
	}

	raw, err := extract.ExtractReform(source)
	if err != nil {
		return nil, err
	}
	return builder.BuildWithImpact(raw, extract.ExtractImpactInfo(source))
}

func draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Draft bill text from a reform definition",
		Long: `Run the full pipeline: extract the reform from source code, normalize
it, enrich it with parameter metadata, render a plain-language
description, and generate legislative bill text.

Requires OPENAI_API_KEY (or GEMINI_API_KEY with --provider gemini),
read from the environment or a local .env file.

Example:
  billdraft draft --source reform.py
  billdraft draft --source - < reform.py
  billdraft draft --source reform.py --debug --outline
  billdraft draft --source reform.py --out bill.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd)
			if err != nil {
				return err
			}
			noContext, _ := cmd.Flags().GetBool("no-context")
			debugMode, _ := cmd.Flags().GetBool("debug")
			showOutline, _ := cmd.Flags().GetBool("outline")
			outPath, _ := cmd.Flags().GetString("out")

			client, err := newDraftClient(cmd)
			if err != nil {
				return err
			}

			fmt.Print("  1. Extracting reform... ")
			r, err := buildReform(cmd, source)
			if err != nil {
				return err
			}
			fmt.Printf("done (%d parameters)\n", len(r.Parameters))

			var refContext string
			if !noContext {
				fmt.Print("  2. Enriching parameters... ")
				store, storeErr := metadata.NewStore(paramsDir(cmd))
				if storeErr != nil {
					return storeErr
				}
				paths := make([]string, len(r.Parameters))
				for i := range r.Parameters {
					paths[i] = r.Parameters[i].Path
				}
				enrichment := store.Enrich(cmd.Context(), paths)
				refContext = render.ContextBlock(r, enrichment)
				found := 0
				for _, path := range paths {
					if enrichment.Found(path) {
						found++
					}
				}
				fmt.Printf("done (%d/%d descriptors found)\n", found, len(paths))
			}

			fmt.Print("  3. Rendering description... ")
			description := render.Description(r)
			fmt.Println("done")

			drafter := draft.NewDrafter(client, draftTimeout(cmd))

			if debugMode {
				prompts := drafter.Prompts(description, refContext)
				fmt.Println("\nSystem prompt:")
				fmt.Println(prompts.System)
				fmt.Println("\nUser prompt:")
				fmt.Println(prompts.User)
				fmt.Println("\nNormalized reform:")
				reformJSON, jsonErr := json.MarshalIndent(r, "", "  ")
				if jsonErr != nil {
					return fmt.Errorf("serializing reform: %w", jsonErr)
				}
				fmt.Println(string(reformJSON))
			}

			fmt.Printf("  4. Generating bill text (%s)... ", client.Name())
			startTime := time.Now()
			billText, err := drafter.Draft(cmd.Context(), description, refContext)
			if err != nil {
				return err
			}
			fmt.Printf("done (%v)\n", time.Since(startTime).Round(time.Millisecond))

			fmt.Println("\nPolicy description:")
			fmt.Println(description)
			fmt.Println("\nBill text:")
			fmt.Println(billText)

			if showOutline {
				printOutline(draft.Outline(billText))
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(billText+"\n"), 0644); err != nil {
					return fmt.Errorf("writing bill: %w", err)
				}
				fmt.Printf("\nBill saved to: %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringP("source", "s", "", "Reform source file (- for stdin)")
	cmd.Flags().StringP("out", "o", "", "Write the bill text to a file")
	cmd.Flags().Bool("no-context", false, "Skip parameter metadata enrichment")
	cmd.Flags().String("params-dir", "", "Parameter descriptor directory")
	cmd.Flags().String("country", "", "Country for the reform (default: United States)")
	cmd.Flags().Int("year", 0, "Nominal year for the reform (default: current year)")
	cmd.Flags().Bool("debug", false, "Print the prompts and the normalized reform")
	cmd.Flags().Bool("outline", false, "Print a structural outline of the generated bill")
	addGatewayFlags(cmd)

	return cmd
}

func textCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [description]",
		Short: "Draft bill text from a plain-language description",
		Long: `Send a plain-language policy description straight to the drafting
gateway, skipping reform extraction.

Example:
  billdraft text "Raise the Child Tax Credit to $2,500 starting in 2025"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var description string
			if len(args) > 0 {
				description = args[0]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				description = string(data)
			}
			if strings.TrimSpace(description) == "" {
				return fmt.Errorf("provide a policy description as an argument or on stdin")
			}

			client, err := newDraftClient(cmd)
			if err != nil {
				return err
			}
			drafter := draft.NewDrafter(client, draftTimeout(cmd))

			billText, err := drafter.Draft(cmd.Context(), description, "")
			if err != nil {
				return err
			}
			fmt.Println(billText)
			return nil
		},
	}

	addGatewayFlags(cmd)
	return cmd
}

func describeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Render the plain-language description of a reform",
		Long: `Extract and normalize a reform, then print its plain-language
description without calling the drafting gateway.

Example:
  billdraft describe --source reform.py
  billdraft describe --source reform.py --json
  billdraft describe --source reform.py --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath, _ := cmd.Flags().GetString("source")
			asJSON, _ := cmd.Flags().GetBool("json")
			watch, _ := cmd.Flags().GetBool("watch")

			describe := func() error {
				source, err := readSource(cmd)
				if err != nil {
					return err
				}
				r, err := buildReform(cmd, source)
				if err != nil {
					return err
				}
				if asJSON {
					data, jsonErr := json.MarshalIndent(r, "", "  ")
					if jsonErr != nil {
						return fmt.Errorf("serializing reform: %w", jsonErr)
					}
					fmt.Println(string(data))
					return nil
				}
				fmt.Println(render.Description(r))
				return nil
			}

			if err := describe(); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			if sourcePath == "" || sourcePath == "-" {
				return fmt.Errorf("--watch requires a file --source")
			}
			return watchAndDescribe(sourcePath, describe)
		},
	}

	cmd.Flags().StringP("source", "s", "", "Reform source file (- for stdin)")
	cmd.Flags().Bool("json", false, "Emit the normalized reform as JSON")
	cmd.Flags().Bool("watch", false, "Re-render when the source file changes")
	cmd.Flags().String("country", "", "Country for the reform (default: United States)")
	cmd.Flags().Int("year", 0, "Nominal year for the reform (default: current year)")

	return cmd
}

// watchAndDescribe re-runs describe whenever the source file is written.
func watchAndDescribe(sourcePath string, describe func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save, which
	// would drop a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(sourcePath)); err != nil {
		return fmt.Errorf("watching %s: %w", sourcePath, err)
	}

	fmt.Fprintf(os.Stderr, "\nWatching %s for changes (Ctrl-C to stop)...\n", sourcePath)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(sourcePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Printf("\n--- %s ---\n", time.Now().Format(time.TimeOnly))
			if err := describe(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", watchErr)
		}
	}
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the raw reform mapping from source code",
		Long: `Run only the extraction tier and print the recovered reform mapping
as JSON. Useful for diagnosing malformed reform definitions.

Example:
  billdraft extract --source reform.py`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd)
			if err != nil {
				return err
			}
			raw, err := extract.ExtractReform(source)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(raw, "", "  ")
			if err != nil {
				return fmt.Errorf("serializing reform mapping: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringP("source", "s", "", "Reform source file (- for stdin)")
	return cmd
}

func paramsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params [parameter-path]",
		Short: "Look up the descriptor for a parameter path",
		Long: `Look up descriptive metadata for a parameter path in the descriptor
directory. A path with no descriptor prints a stub rather than failing.

Example:
  billdraft params gov.irs.credits.ctc.amount.base[0].amount
  billdraft params gov.irs.credits.ctc.amount.base --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			store, err := metadata.NewStore(paramsDir(cmd))
			if err != nil {
				return err
			}
			desc := store.Lookup(args[0])

			if asJSON {
				data, jsonErr := json.MarshalIndent(desc, "", "  ")
				if jsonErr != nil {
					return fmt.Errorf("serializing descriptor: %w", jsonErr)
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("Description: %s\n", desc.Description)
			if desc.Metadata.Label != "" {
				fmt.Printf("Label:       %s\n", desc.Metadata.Label)
			}
			if desc.Metadata.Unit != "" {
				fmt.Printf("Unit:        %s\n", desc.Metadata.Unit)
			}
			if desc.Metadata.Period != "" {
				fmt.Printf("Period:      %s\n", desc.Metadata.Period)
			}
			if len(desc.Values) > 0 {
				fmt.Printf("Values:      %d dated entries\n", len(desc.Values))
			}
			if len(desc.Brackets) > 0 {
				fmt.Printf("Brackets:    %d\n", len(desc.Brackets))
			}
			if refs := desc.References(); len(refs) > 0 {
				fmt.Println("References:")
				for _, ref := range refs {
					fmt.Printf("  - %s: %s\n", ref.Title, ref.Href)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("params-dir", "", "Parameter descriptor directory")
	cmd.Flags().Bool("json", false, "Emit the descriptor as JSON")
	return cmd
}

// addGatewayFlags registers the completion-backend flags shared by the
// drafting commands.
func addGatewayFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Completion provider (openai, gemini)")
	cmd.Flags().String("model", "", "Completion model name")
	cmd.Flags().Int("timeout", 0, "Gateway timeout in seconds")
}

func printOutline(outline draft.BillOutline) {
	fmt.Println("\nBill outline:")
	if outline.ShortTitle != "" {
		fmt.Printf("  Short title: %s\n", outline.ShortTitle)
	}
	for _, section := range outline.Sections {
		fmt.Printf("  SEC. %s. %s\n", section.Number, section.Heading)
	}
	if outline.HasEffectiveDate {
		fmt.Println("  Effective-date section: present")
	} else {
		fmt.Println("  Effective-date section: not found")
	}
}
