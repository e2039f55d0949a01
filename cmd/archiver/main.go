// Command archiver is the desktop-free entry point for the Telegram
// archiver/search core: a CLI shell around internal/orchestrator for
// credential setup, login, collection, and search, printing the same
// progress/completion/error events a UI shell would instead forward over
// IPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sskys18/telegram-korean-search/internal/appdir"
	"github.com/sskys18/telegram-korean-search/internal/applog"
	"github.com/sskys18/telegram-korean-search/internal/collector"
	"github.com/sskys18/telegram-korean-search/internal/config"
	"github.com/sskys18/telegram-korean-search/internal/orchestrator"
	"github.com/sskys18/telegram-korean-search/internal/store"
)

func main() {
	log := applog.Get()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	dbPath, err := appdir.DatabasePath()
	if err != nil {
		log.Fatal().Err(err).Msg("resolving database path")
	}
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	defer st.Close()

	orch, err := orchestrator.New(st, unimplementedClientFactory)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing orchestrator")
	}
	defer orch.Close()

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	var runErr error
	switch cmd {
	case "set-credentials":
		runErr = runSetCredentials(orch, args)
	case "connect":
		runErr = runConnect(ctx, orch)
	case "login":
		runErr = runLogin(ctx, orch, args)
	case "sync":
		runErr = runSync(ctx, orch)
	case "stats":
		runErr = runStats(orch)
	case "search":
		runErr = runSearch(orch, args)
	case "chats":
		runErr = runChats(orch)
	case "exclude":
		runErr = runExclude(orch, args)
	case "config":
		runErr = runConfig(args)
	default:
		usage()
		os.Exit(1)
	}

	if runErr != nil {
		log.Error().Err(runErr).Str("command", cmd).Msg("command failed")
		fmt.Fprintln(os.Stderr, "error:", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: archiver <command> [args]

commands:
  set-credentials -api-id=N -api-hash=HASH
  connect
  login -phone=+1555...   (then re-run with -code=XXXXX, and -password=... if 2FA is required)
  sync
  stats
  search -q="query" [-chat=ID] [-limit=N]
  chats
  exclude -chat=ID -excluded=true|false
  config -collect-dms=true|false`)
}

func runSetCredentials(orch *orchestrator.Orchestrator, args []string) error {
	fs := flag.NewFlagSet("set-credentials", flag.ExitOnError)
	apiID := fs.Int("api-id", 0, "Telegram API id")
	apiHash := fs.String("api-hash", "", "Telegram API hash")
	fs.Parse(args)

	if *apiID == 0 || *apiHash == "" {
		return fmt.Errorf("both -api-id and -api-hash are required")
	}
	if err := orch.SaveAPICredentials(int32(*apiID), *apiHash); err != nil {
		return err
	}
	fmt.Println("credentials saved")
	return nil
}

func runConnect(ctx context.Context, orch *orchestrator.Orchestrator) error {
	result, err := orch.Connect(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("connected, authorized=%v\n", result.Authorized)
	return nil
}

func runLogin(ctx context.Context, orch *orchestrator.Orchestrator, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	phone := fs.String("phone", "", "phone number to request a login code for")
	code := fs.String("code", "", "login code received via Telegram")
	password := fs.String("password", "", "2FA password, if required")
	fs.Parse(args)

	switch {
	case *password != "":
		return orch.SubmitPassword(ctx, *password)
	case *code != "":
		resp, err := orch.SubmitLoginCode(ctx, *code)
		if err != nil {
			return err
		}
		if resp.Requires2FA {
			fmt.Printf("2FA required, hint: %s\nrerun with -password=...\n", resp.Hint)
			return nil
		}
		fmt.Println("signed in")
		return nil
	case *phone != "":
		if err := orch.RequestLoginCode(ctx, *phone); err != nil {
			return err
		}
		fmt.Println("login code requested, rerun with -code=...")
		return nil
	default:
		return fmt.Errorf("one of -phone, -code, or -password is required")
	}
}

func runSync(ctx context.Context, orch *orchestrator.Orchestrator) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range orch.Events() {
			switch ev.Type {
			case orchestrator.EventProgress:
				fmt.Printf("progress: %d/%d active=%v\n", ev.Progress.DialogsDone, ev.Progress.DialogsTotal, ev.Progress.ActiveTitles)
			case orchestrator.EventComplete:
				fmt.Printf("collection complete: %d messages\n", ev.Chats)
				return
			case orchestrator.EventError:
				fmt.Println("collection error:", ev.Message)
				return
			}
		}
	}()

	if err := orch.StartCollection(ctx); err != nil {
		return err
	}
	<-done
	return nil
}

func runStats(orch *orchestrator.Orchestrator) error {
	stats, err := orch.GetDBStats()
	if err != nil {
		return err
	}
	fmt.Printf("chats: %d, messages: %d\n", stats.Chats, stats.Messages)
	return nil
}

func runSearch(orch *orchestrator.Orchestrator, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "search query")
	chatID := fs.Int64("chat", 0, "restrict to this dialog id")
	limit := fs.Int("limit", 0, "page size (0 for default)")
	fs.Parse(args)

	var scopeID *int64
	if *chatID != 0 {
		scopeID = chatID
	}

	result, err := orch.SearchMessages(*query, scopeID, nil, *limit)
	if err != nil {
		return err
	}
	for _, item := range result.Items {
		fmt.Printf("[%s] %s :: %s\n", item.DialogTitle, item.Link, item.Text)
	}
	if result.NextCursor != nil {
		fmt.Println("(more results available)")
	}
	return nil
}

func runChats(orch *orchestrator.Orchestrator) error {
	chats, err := orch.GetChats()
	if err != nil {
		return err
	}
	for _, c := range chats {
		excluded := ""
		if c.IsExcluded {
			excluded = " (excluded)"
		}
		fmt.Printf("%d\t%s\t%s%s\n", c.DialogID, c.Kind, c.Title, excluded)
	}
	return nil
}

func runExclude(orch *orchestrator.Orchestrator, args []string) error {
	fs := flag.NewFlagSet("exclude", flag.ExitOnError)
	chatID := fs.Int64("chat", 0, "dialog id")
	excluded := fs.Bool("excluded", true, "exclude (true) or re-include (false)")
	fs.Parse(args)

	if *chatID == 0 {
		return fmt.Errorf("-chat is required")
	}
	return orch.SetChatExcluded(*chatID, *excluded)
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	collectDMs := fs.Bool("collect-dms", false, "include one-on-one chats in collection")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.CollectDMs = *collectDMs
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("collect-dms set to %v\n", cfg.CollectDMs)
	return nil
}

// unimplementedClientFactory stands in for a concrete MTProto client
// library adapter, which this module does not depend on (see the
// ChatClient interface's doc comment). Wiring a real client here is the
// only change a deployment needs to make to go from this CLI shell to a
// working collector.
func unimplementedClientFactory(ctx context.Context, apiID int32, sessionPath string) (collector.ChatClient, error) {
	return nil, fmt.Errorf("archiver: no chat-client adapter wired in; see internal/collector.ChatClient")
}
