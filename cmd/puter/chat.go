package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leofalp/puter-go/core/export"
	"github.com/leofalp/puter-go/core/session"
	"github.com/leofalp/puter-go/providers/memory"
)

const botName = "Puter"

func newChatCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation. Every line is sent as a prompt together
with the conversation so far.

Commands:
  /model <name>   switch model (without a name, show the current one)
  /models         list the registered models
  /history        show the conversation
  /clear          forget the conversation
  /save [file]    write the conversation as JSON, or YAML for .yaml/.yml
                  (default conversation_<timestamp>.json)
  exit, quit      leave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.newClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.close()

			ctx := cmd.Context()
			if !c.session.Authenticated() {
				if err := c.session.Login(ctx); err != nil {
					return err
				}
			}
			r := &repl{session: c.session, records: c.records, in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
			return r.run(ctx)
		},
	}
}

type repl struct {
	session *session.Session
	records memory.Timestamped
	in      io.Reader
	out     io.Writer
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, titleStyle.Render(fmt.Sprintf("%s chat, model %s", botName, r.session.Model())))
	r.info(fmt.Sprintf("Session %s started %s. Type exit to leave.", r.session.ID(), timestamp(r.session.StartedAt())))

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(r.out, promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(r.out, infoStyle.Render("Bye."))
			return nil
		}
		if strings.HasPrefix(line, "/") {
			r.command(ctx, line)
			continue
		}

		answer, err := r.session.Chat(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.fail(err)
			continue
		}
		fmt.Fprintln(r.out, promptStyle.Render(strings.ToLower(botName)+"> ")+botStyle.Render(answer))
	}
}

func (r *repl) command(ctx context.Context, line string) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/model":
		if arg == "" {
			r.info("Current model: " + r.session.Model())
			return
		}
		if !r.session.SetModel(arg) {
			r.fail(fmt.Errorf("unknown model %q, see /models", arg))
			return
		}
		r.info("Switched to " + arg)
	case "/models":
		for _, model := range r.session.ListModels() {
			marker := "  "
			if model == r.session.Model() {
				marker = currentStyle.Render("* ")
			}
			fmt.Fprintln(r.out, marker+model)
		}
	case "/history":
		history, err := r.session.History(ctx)
		if err != nil {
			r.fail(err)
			return
		}
		if len(history) == 0 {
			r.info("No messages yet.")
			return
		}
		for _, message := range history {
			fmt.Fprintf(r.out, "%s %s\n", promptStyle.Render(string(message.Role)+":"), message.Content.String())
		}
	case "/clear":
		if err := r.session.ClearHistory(ctx); err != nil {
			r.fail(err)
			return
		}
		r.info("Conversation cleared.")
	case "/save":
		if arg == "" {
			arg = "conversation_" + time.Now().Format("20060102_150405") + ".json"
		}
		if err := r.save(ctx, arg); err != nil {
			r.fail(err)
			return
		}
		r.info("Saved to " + arg)
	default:
		r.fail(fmt.Errorf("unknown command %s", name))
	}
}

// save writes the transcript with each exchange stamped by the time it was
// committed.
func (r *repl) save(ctx context.Context, path string) error {
	records, err := r.records.AllRecords(ctx)
	if err != nil {
		return err
	}
	log, err := export.FromRecords(botName, r.session.StartedAt(), records)
	if err != nil {
		return err
	}
	return export.SaveFile(path, log)
}

func (r *repl) info(msg string) {
	fmt.Fprintln(r.out, infoStyle.Render(msg))
}

func (r *repl) fail(err error) {
	fmt.Fprintln(r.out, errorStyle.Render("Error: "+err.Error()))
}
