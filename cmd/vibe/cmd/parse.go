package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
	"github.com/msto63/vibescript/foundation/vibe/ast"
)

var parseTokens bool

var parseCmd = &cobra.Command{
	Use:   "parse DATEI",
	Short: "Zeigt Syntaxbaum oder Tokens eines Programms",
	Long: `Analysiert ein VibeScript-Programm ohne es auszuführen.

Standardmäßig wird der Syntaxbaum ausgegeben, mit --tokens die
Token-Folge des Lexers (Zeile:Spalte Typ Wert).`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseTokens, "tokens", false, "Token-Folge statt Syntaxbaum ausgeben")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	e := newEngine(cfg, newLogger("vibe-parse").Foundation(), nil)

	if parseTokens {
		tokens, err := e.Tokenize(src)
		for _, tok := range tokens {
			fmt.Printf("%4d:%-3d %-12s %s\n", tok.Line, tok.Column, tok.Type, tok.Value)
		}
		if err != nil {
			return reportSourceError(err)
		}
		return nil
	}

	program, err := e.Parse(src)
	if err != nil {
		return reportSourceError(err)
	}
	fmt.Print(ast.Dump(program))
	fmt.Fprintf(os.Stderr, "%s %d Anweisungen, %d Knoten\n",
		green("OK"), len(program.Statements), ast.Count(program))
	return nil
}

// reportSourceError prints a lexical or syntax error with its label
func reportSourceError(err error) error {
	verr := vbserr.As(err)
	fmt.Fprintln(os.Stderr, red(vbserr.Label(verr.Code())+": "+verr.Error()))
	return &exitError{code: 1}
}
