package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fractalmind-ai/wordtok/internal/config"
	"github.com/fractalmind-ai/wordtok/internal/gateway"
	"github.com/fractalmind-ai/wordtok/internal/tokenizer"
)

const usage = `usage: wordtok [command] [args]

commands:
  demo                 print sample encodings (default)
  encode <text...>     print token ids for text
  decode <id...>       print text for token ids
  serve [flags]        run the websocket gateway
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(runWithContext(ctx, os.Args[1:], os.Stdout))
}

func runWithContext(ctx context.Context, args []string, out io.Writer) int {
	command := "demo"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	} else if len(args) > 0 {
		command = "serve"
	}

	switch command {
	case "demo":
		return runDemo(out)
	case "encode":
		return runEncode(args, out)
	case "decode":
		return runDecode(args, out)
	case "serve":
		return runServe(ctx, args, out)
	case "help":
		fmt.Fprint(out, usage)
		return 0
	default:
		fmt.Fprintf(out, "unknown command %q\n%s", command, usage)
		return 2
	}
}

func runDemo(out io.Writer) int {
	tk := tokenizer.New()

	fmt.Fprintln(out, "=== Basic Tokenizer Demo ===")

	steps := []string{"hello world", "this is a test"}
	for i, text := range steps {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := printRoundTrip(out, tk, text, "Encoded:"); err != nil {
			fmt.Fprintf(out, "demo failed: %v\n", err)
			return 1
		}
	}

	fmt.Fprintf(out, "\nVocabulary size: %d\n", tk.VocabularySize())

	if err := tk.AddToken("custom"); err != nil {
		fmt.Fprintf(out, "demo failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, "Added 'custom' token")
	fmt.Fprintf(out, "New vocabulary size: %d\n", tk.VocabularySize())

	fmt.Fprintln(out)
	if err := printRoundTrip(out, tk, "hello custom world", "Encoded with custom token:"); err != nil {
		fmt.Fprintf(out, "demo failed: %v\n", err)
		return 1
	}
	return 0
}

func printRoundTrip(out io.Writer, tk *tokenizer.Tokenizer, text, label string) error {
	ids, err := tk.Encode(text)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, label, formatIDs(ids))

	decoded, err := tk.Decode(ids)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Decoded:", decoded)
	return nil
}

func runEncode(args []string, out io.Writer) int {
	ids, err := tokenizer.New().Encode(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(out, "encode failed: %v\n", err)
		return exitCode(err)
	}
	fmt.Fprintln(out, formatIDs(ids))
	return 0
}

func runDecode(args []string, out io.Writer) int {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := strconv.Atoi(field)
			if err != nil {
				fmt.Fprintf(out, "decode failed: %q is not an integer\n", field)
				return 2
			}
			ids = append(ids, id)
		}
	}

	text, err := tokenizer.New().Decode(ids)
	if err != nil {
		fmt.Fprintf(out, "decode failed: %v\n", err)
		return exitCode(err)
	}
	fmt.Fprintln(out, text)
	return 0
}

func runServe(ctx context.Context, args []string, out io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "./config.yaml", "path to config file")
	envFile := fs.String("env", ".env", "path to env file with WORDTOK_* overrides")
	portOverride := fs.Int("port", 0, "override gateway port")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := log.New(out, "", log.LstdFlags)
	if *verbose {
		logger.SetFlags(log.LstdFlags | log.Lshortfile)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Printf("failed to load config: %v", err)
		return 1
	}
	if err := cfg.ApplyEnv(*envFile); err != nil {
		logger.Printf("failed to apply environment: %v", err)
		return 1
	}

	if cfg.Gateway == nil {
		cfg.Gateway = config.DefaultConfig().Gateway
	}
	if *portOverride > 0 {
		cfg.Gateway.Port = *portOverride
	}

	server, err := gateway.NewServer(cfg)
	if err != nil {
		logger.Printf("failed to initialize gateway: %v", err)
		return 1
	}

	if err := server.Start(ctx); err != nil {
		logger.Printf("gateway error: %v", err)
		if err := server.Stop(); err != nil {
			logger.Printf("gateway shutdown error: %v", err)
		}
		return 1
	}

	if err := server.Stop(); err != nil {
		logger.Printf("gateway shutdown error: %v", err)
		return 1
	}

	return 0
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func exitCode(err error) int {
	if errors.Is(err, tokenizer.ErrInvalidInput) {
		return 2
	}
	return 1
}
