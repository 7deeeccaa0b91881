package cli

import (
	"bufio"
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui/styles"
	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/services"
)

// Chat commands.
const (
	chatMenu = "/menu"
	chatBack = "/back"
	chatHelp = "/help"
	chatQuit = "/quit"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a line-based chat session",
	Long: `Start a chat session that behaves like the bot's chat surface.

Type a document trigger (or /<trigger>) to start a search, then type the
question. Each answer returns the session to the main menu.

Commands:
  /menu  - list document triggers
  /back  - leave the current search
  /help  - show this help
  /quit  - exit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st := styles.NewStyles(nil)
	dispatcher := a.Dispatcher
	sessionID := services.NewSessionID()
	defer dispatcher.Reset(sessionID)

	printMenu := func() {
		cmd.Println(st.Title.Render("Выберите документ:"))
		for _, engine := range dispatcher.Engines() {
			cmd.Printf("  /%s  %s\n", engine.Trigger(), st.Muted.Render(engine.Document().Name))
		}
	}

	printMenu()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		cmd.Print(st.Subtitle.Render("> "))
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case chatQuit, "/exit":
			return nil
		case chatMenu, "/start":
			dispatcher.Reset(sessionID)
			printMenu()
			continue
		case chatBack:
			dispatcher.Reset(sessionID)
			cmd.Println(st.Muted.Render("Главное меню"))
			printMenu()
			continue
		case chatHelp:
			cmd.Println(cmd.Long)
			continue
		}

		if engine, ok := dispatcher.Lookup(strings.TrimPrefix(line, "/")); ok {
			prompt, err := dispatcher.HandleTrigger(sessionID, engine.Trigger())
			if err != nil {
				cmd.Println(st.Error.Render(err.Error()))
				continue
			}
			cmd.Println(prompt)
			continue
		}

		session, _ := dispatcher.Session(sessionID)
		if session.Mode == domain.SessionAwaitingQuestion {
			cmd.Println(st.Muted.Render("Ищу ответ..."))
		}

		reply, handled := dispatcher.HandleMessage(ctx, sessionID, line)
		if !handled {
			cmd.Println(st.Error.Render("Сначала выберите документ, /menu"))
			continue
		}
		cmd.Println(reply)
	}
}
