// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// feedback_cmd.go - Fetch and save a conversation's feedback report.
//
// Command: feedback ID
//
// Examples:
//   salestrainer feedback 42
//   salestrainer feedback 42 --dir ~/reports --print
//   salestrainer feedback --id 42 --json
//
// The report is saved as plain text in the export directory under
// sales-feedback-YYYY-MM-DD.txt. An existing file is never overwritten.
package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/salestrainer/salestrainer-tui/internal/feedback"
	"github.com/salestrainer/salestrainer-tui/internal/markup"
)

// HandleFeedback runs the feedback command.
func HandleFeedback(ctx context.Context, env *Env, args Args) error {
	if err := Login(ctx, env, args); err != nil {
		return err
	}
	return exportFeedback(ctx, env, args, time.Now())
}

func exportFeedback(ctx context.Context, env *Env, args Args, now time.Time) error {
	id := args.ConversationID

	text, err := env.Client.GetFeedback(ctx, id)
	if err != nil {
		return NewCommandError("feedback", "fetch the report", err)
	}

	doc := markup.Parse(text)
	plain := markup.Plain(doc)

	dir := args.ExportDir
	if dir == "" {
		dir = env.Config.Feedback.ExportDir
	}
	path, err := feedback.WriteReport(dir, now, plain)
	if err != nil {
		return NewCommandError("feedback", "save the report", err)
	}
	log.Printf("FEEDBACK_SAVED | conversation=%s", id)

	if args.JSON {
		return NewJSONResponse("feedback", FeedbackData{
			ConversationID: id,
			Path:           path,
			Text:           plain,
		}).Print(env.Out)
	}

	if args.Print {
		fmt.Fprint(env.Out, RenderDocument(doc, ColorsEnabled()))
		fmt.Fprintln(env.Out, RenderSeparator())
	}
	if !args.Quiet {
		fmt.Fprintln(env.Out, SuccessStyle.Render("Saved to")+" "+path)
	}
	return nil
}
